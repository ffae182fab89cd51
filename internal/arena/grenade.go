package arena

import (
	"math"

	"github.com/google/uuid"
)

const (
	gravity = 9.8

	// Throw arc: fixed upward bias added to the throw direction before
	// normalization.
	throwUpwardBias = 0.2

	// Ground bounce model.
	groundHeight      = 0.1
	bounceRestitution = -0.3
	bounceFriction    = 0.8
	restVerticalSpeed = 0.5
	restTotalSpeed    = 1.0
)

// GrenadeProjectile is a ballistic, gravity-affected explosive. Its fuse is
// a countdown independent of physical state: the grenade detonates at the
// fuse deadline whether airborne, bounced, or at rest.
type GrenadeProjectile struct {
	ID            string
	pos           Vec3
	vel           Vec3
	fuseRemaining float64
	damage        float64
	blastRadius   float64
	team          Team
	exploded      bool
}

// Position returns the grenade's current position.
func (g *GrenadeProjectile) Position() Vec3 { return g.pos }

// AtRest reports whether the grenade has settled on the ground.
func (g *GrenadeProjectile) AtRest() bool { return g.vel == Vec3{} }

// GrenadeSimulator owns the active grenade set and resolves blast damage.
// The set is mutated only during the simulator's own update pass.
type GrenadeSimulator struct {
	cfg    WeaponConfig
	roster Roster
	visual VisualSink
	audio  AudioSink
	active []*GrenadeProjectile

	// onExplode, if set, observes each detonation (sim logging).
	onExplode func(center Vec3, hits int)
}

// NewGrenadeSimulator creates a simulator using the given thrown-weapon
// descriptor for damage, blast radius, fuse and throw speed.
func NewGrenadeSimulator(cfg WeaponConfig, roster Roster) *GrenadeSimulator {
	return &GrenadeSimulator{
		cfg:    cfg,
		roster: roster,
		visual: nopVisual{},
		audio:  nopAudio{},
	}
}

// SetSinks wires optional effect collaborators. Nil keeps the no-ops.
func (gs *GrenadeSimulator) SetSinks(v VisualSink, a AudioSink) {
	if v != nil {
		gs.visual = v
	}
	if a != nil {
		gs.audio = a
	}
}

// SetExplodeObserver wires an optional detonation callback.
func (gs *GrenadeSimulator) SetExplodeObserver(fn func(Vec3, int)) {
	gs.onExplode = fn
}

// Throw launches a grenade from origin along dir. The direction gets a
// fixed upward bias before normalization, then is scaled by throw speed.
// The fuse countdown starts now.
func (gs *GrenadeSimulator) Throw(origin, dir Vec3) *GrenadeProjectile {
	d := dir
	d.Y += throwUpwardBias
	d = d.Normalize()

	g := &GrenadeProjectile{
		ID:            uuid.NewString(),
		pos:           origin,
		vel:           d.Scale(gs.cfg.ThrowSpeed),
		fuseRemaining: gs.cfg.FuseTime,
		damage:        gs.cfg.Damage,
		blastRadius:   gs.cfg.BlastRadius,
		team:          TeamPlayer,
	}
	gs.active = append(gs.active, g)
	return g
}

// Active returns the live grenade slice (read-only by convention).
func (gs *GrenadeSimulator) Active() []*GrenadeProjectile {
	return gs.active
}

// Update advances physics and fuse timers. A grenade is removed from the
// active set exactly once, at explosion.
func (gs *GrenadeSimulator) Update(dt float64) {
	kept := gs.active[:0]
	for _, g := range gs.active {
		gs.stepPhysics(g, dt)

		g.fuseRemaining -= dt
		if g.fuseRemaining <= 0 {
			gs.explode(g)
			continue
		}
		kept = append(kept, g)
	}
	gs.active = kept
}

func (gs *GrenadeSimulator) stepPhysics(g *GrenadeProjectile, dt float64) {
	if g.AtRest() {
		return
	}
	g.vel.Y -= gravity * dt
	g.pos = g.pos.Add(g.vel.Scale(dt))

	if g.pos.Y < groundHeight {
		g.pos.Y = groundHeight
		g.vel.Y *= bounceRestitution
		g.vel.X *= bounceFriction
		g.vel.Z *= bounceFriction

		if math.Abs(g.vel.Y) < restVerticalSpeed && g.vel.Length() < restTotalSpeed {
			g.vel = Vec3{}
		}
	}
}

// explode applies blast damage with linear falloff: full damage at the
// centre, zero at the radius edge, floored to an integer amount.
func (gs *GrenadeSimulator) explode(g *GrenadeProjectile) {
	if g.exploded {
		return
	}
	g.exploded = true

	hits := 0
	if gs.roster != nil {
		for _, e := range gs.roster.GetEnemies() {
			if e == nil || !e.Alive() {
				continue
			}
			// Blast distance is measured on the ground plane; agents and
			// settled grenades all sit within a fraction of a unit of it.
			dist := g.pos.Grounded().DistTo(e.Position().Grounded())
			if dist > g.blastRadius {
				continue
			}
			dmg := math.Floor(g.damage * (1 - dist/g.blastRadius))
			if dmg <= 0 {
				continue
			}
			gs.roster.DamageEnemy(e, dmg, g.pos)
			hits++
		}
	}

	gs.visual.Explosion(g.pos, g.blastRadius)
	gs.audio.PlayExplosion(g.pos)
	if gs.onExplode != nil {
		gs.onExplode(g.pos, hits)
	}
}
