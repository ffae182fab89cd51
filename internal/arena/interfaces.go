package arena

// Team distinguishes the player's side from the opposing force.
type Team int

const (
	TeamPlayer Team = iota // player and allied agents
	TeamEnemy              // OpFor
)

func (t Team) String() string {
	if t == TeamPlayer {
		return "player"
	}
	return "enemy"
}

// Roster is the external team registry. It owns the agent lists and is the
// only component allowed to mutate agent health.
type Roster interface {
	GetEnemies() []*Agent
	GetAllies() []*Agent
	DamageEnemy(a *Agent, amount float64, hit Vec3)
	DamageAlly(a *Agent, amount float64, hit Vec3)
}

// CollisionChecker resolves a requested move against world geometry.
// The core never inspects geometry itself; it submits the intended move and
// commits whatever position comes back.
type CollisionChecker interface {
	CheckCollision(from, to Vec3, radius, height float64) Vec3
}

// VisualSink receives fire-and-forget effect notifications. The core never
// reads state back from it.
type VisualSink interface {
	MuzzleFlash(pos Vec3, yaw float64, team Team)
	Tracer(from, to Vec3, hit bool, team Team)
	Explosion(center Vec3, radius float64)
}

// AudioSink receives fire-and-forget sound cues.
type AudioSink interface {
	PlayShot(kind WeaponKind)
	PlayReload(kind WeaponKind)
	PlayExplosion(pos Vec3)
}

// HUDSink receives ammo/weapon display updates.
type HUDSink interface {
	SetAmmo(current, reserve int)
	SetWeapon(kind WeaponKind)
}

// No-op sinks: absent collaborators degrade the feature, never the tick.

type nopVisual struct{}

func (nopVisual) MuzzleFlash(Vec3, float64, Team) {}
func (nopVisual) Tracer(Vec3, Vec3, bool, Team)   {}
func (nopVisual) Explosion(Vec3, float64)         {}

type nopAudio struct{}

func (nopAudio) PlayShot(WeaponKind)   {}
func (nopAudio) PlayReload(WeaponKind) {}
func (nopAudio) PlayExplosion(Vec3)    {}

type nopHUD struct{}

func (nopHUD) SetAmmo(int, int)      {}
func (nopHUD) SetWeapon(WeaponKind)  {}
