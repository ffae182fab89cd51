package arena

const (
	tracerLifetime    = 8 // ticks a tracer persists
	flashLifetime     = 4 // ticks a muzzle flash persists
	explosionLifetime = 24
)

// Tracer is a short-lived visual representing a shot's flight path.
type Tracer struct {
	From, To Vec3
	Hit      bool
	Team     Team
	Age      int
}

// Done reports whether the tracer should be removed.
func (t *Tracer) Done() bool { return t.Age >= tracerLifetime }

// Flash is a short-lived muzzle flash at a firing position.
type Flash struct {
	Pos  Vec3
	Yaw  float64
	Team Team
	Age  int
}

// Blast is a short-lived explosion marker.
type Blast struct {
	Center Vec3
	Radius float64
	Age    int
}

// EffectsBuffer is the in-repo VisualSink: it retains recent fire-and-forget
// notifications so a renderer can draw them. The core never reads back from
// it; pruning happens in the buffer's own Update.
type EffectsBuffer struct {
	tracers []*Tracer
	flashes []*Flash
	blasts  []*Blast
}

// NewEffectsBuffer creates an empty buffer.
func NewEffectsBuffer() *EffectsBuffer {
	return &EffectsBuffer{}
}

// MuzzleFlash implements VisualSink.
func (eb *EffectsBuffer) MuzzleFlash(pos Vec3, yaw float64, team Team) {
	eb.flashes = append(eb.flashes, &Flash{Pos: pos, Yaw: yaw, Team: team})
}

// Tracer implements VisualSink.
func (eb *EffectsBuffer) Tracer(from, to Vec3, hit bool, team Team) {
	eb.tracers = append(eb.tracers, &Tracer{From: from, To: to, Hit: hit, Team: team})
}

// Explosion implements VisualSink.
func (eb *EffectsBuffer) Explosion(center Vec3, radius float64) {
	eb.blasts = append(eb.blasts, &Blast{Center: center, Radius: radius})
}

// Update ages and prunes all retained effects.
func (eb *EffectsBuffer) Update() {
	kept := eb.tracers[:0]
	for _, t := range eb.tracers {
		t.Age++
		if !t.Done() {
			kept = append(kept, t)
		}
	}
	eb.tracers = kept

	keptF := eb.flashes[:0]
	for _, f := range eb.flashes {
		f.Age++
		if f.Age < flashLifetime {
			keptF = append(keptF, f)
		}
	}
	eb.flashes = keptF

	keptB := eb.blasts[:0]
	for _, b := range eb.blasts {
		b.Age++
		if b.Age < explosionLifetime {
			keptB = append(keptB, b)
		}
	}
	eb.blasts = keptB
}

// Tracers returns the live tracer slice.
func (eb *EffectsBuffer) Tracers() []*Tracer { return eb.tracers }

// Flashes returns the live flash slice.
func (eb *EffectsBuffer) Flashes() []*Flash { return eb.flashes }

// Blasts returns the live blast slice.
func (eb *EffectsBuffer) Blasts() []*Blast { return eb.blasts }
