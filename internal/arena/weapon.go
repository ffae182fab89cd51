package arena

import "math"

// WeaponClass selects the damage pipeline a fire event is routed to.
// The closed set replaces the inheritance hierarchy of classic shooters:
// dispatch is by tag, not by override.
type WeaponClass int

const (
	ClassHitscan    WeaponClass = iota // instant ray resolution (player weapons)
	ClassProjectile                    // traveling bullet (AI weapons)
	ClassMelee                         // very short range instant hit
	ClassThrown                        // ballistic area-damage explosive
)

// WeaponKind identifies a concrete weapon type.
type WeaponKind int

const (
	WeaponRifle WeaponKind = iota
	WeaponPistol
	WeaponKnife
	WeaponGrenade
	WeaponEnemyRifle // AI-issued, projectile pipeline
)

func (k WeaponKind) String() string {
	switch k {
	case WeaponRifle:
		return "rifle"
	case WeaponPistol:
		return "pistol"
	case WeaponKnife:
		return "knife"
	case WeaponGrenade:
		return "grenade"
	case WeaponEnemyRifle:
		return "enemy_rifle"
	default:
		return "unknown"
	}
}

// WeaponConfig is the immutable per-type descriptor. Fields not relevant to
// a class are zero (e.g. BlastRadius on a rifle).
type WeaponConfig struct {
	Class           WeaponClass
	Damage          float64
	FireRate        float64 // rounds (or throws) per minute
	MaxAmmo         int
	ReserveAmmo     int
	ReloadTime      float64 // seconds
	Range           float64
	Spread          float64
	ProjectileSpeed float64
	BlastRadius     float64
	FuseTime        float64
	ThrowSpeed      float64
}

// FireInterval returns the minimum seconds between successful fires.
func (c WeaponConfig) FireInterval() float64 {
	if c.FireRate <= 0 {
		return math.Inf(1)
	}
	return 60.0 / c.FireRate
}

// DefaultWeaponConfigs returns the built-in weapon table. Config files may
// override individual fields (see LoadWeaponConfigs).
func DefaultWeaponConfigs() map[WeaponKind]WeaponConfig {
	return map[WeaponKind]WeaponConfig{
		WeaponRifle: {
			Class:       ClassHitscan,
			Damage:      30,
			FireRate:    600,
			MaxAmmo:     32,
			ReserveAmmo: 288,
			ReloadTime:  2.5,
			Range:       150,
			Spread:      0.04,
		},
		WeaponPistol: {
			Class:       ClassHitscan,
			Damage:      20,
			FireRate:    300,
			MaxAmmo:     12,
			ReserveAmmo: 96,
			ReloadTime:  1.8,
			Range:       80,
			Spread:      0.02,
		},
		WeaponKnife: {
			Class:    ClassMelee,
			Damage:   50,
			FireRate: 90,
			MaxAmmo:  0,
			Range:    2,
		},
		WeaponGrenade: {
			Class:       ClassThrown,
			Damage:      100,
			FireRate:    45,
			MaxAmmo:     3,
			ReserveAmmo: 0,
			ReloadTime:  0,
			BlastRadius: 5.0,
			FuseTime:    4.0,
			ThrowSpeed:  18,
		},
		WeaponEnemyRifle: {
			Class:           ClassProjectile,
			Damage:          10,
			FireRate:        120,
			MaxAmmo:         30,
			ReserveAmmo:     0,
			Range:           150,
			ProjectileSpeed: 100,
		},
	}
}

// WeaponState is the mutable runtime state of one equipped weapon instance.
// Time is the owner's virtual clock in seconds, advanced only through
// Update(dt), so the whole state machine is drivable by a test harness.
type WeaponState struct {
	Kind   WeaponKind
	Config WeaponConfig

	CurrentAmmo int
	ReserveAmmo int

	firing          bool // continuous-fire intent
	reloading       bool
	reloadRemaining float64
	lastFireTime    float64
	clock           float64
}

// NewWeaponState creates a fully loaded weapon.
func NewWeaponState(kind WeaponKind, cfg WeaponConfig) *WeaponState {
	return &WeaponState{
		Kind:         kind,
		Config:       cfg,
		CurrentAmmo:  cfg.MaxAmmo,
		ReserveAmmo:  cfg.ReserveAmmo,
		lastFireTime: math.Inf(-1), // first shot is never gated
	}
}

// StartFiring sets the continuous-fire intent flag.
func (w *WeaponState) StartFiring() { w.firing = true }

// StopFiring clears the continuous-fire intent flag.
func (w *WeaponState) StopFiring() { w.firing = false }

// IsFiring reports the continuous-fire intent.
func (w *WeaponState) IsFiring() bool { return w.firing }

// IsReloading reports whether a reload is in flight.
func (w *WeaponState) IsReloading() bool { return w.reloading }

// TryFire attempts one shot. It is a silent no-op while reloading, with no
// ammo, or inside the fire-rate gate; these are routine gameplay conditions,
// not errors. Returns true if a round actually left the weapon.
func (w *WeaponState) TryFire() bool {
	if w.reloading {
		return false
	}
	if w.Config.MaxAmmo > 0 && w.CurrentAmmo <= 0 {
		return false
	}
	if w.clock-w.lastFireTime < w.Config.FireInterval() {
		return false
	}
	if w.Config.MaxAmmo > 0 {
		w.CurrentAmmo--
	}
	w.lastFireTime = w.clock
	return true
}

// Reload starts a reload. Silent no-op if already reloading, the magazine is
// full, or the reserve is empty. A weapon with zero reserve (thrown
// explosives) therefore never reloads.
func (w *WeaponState) Reload() {
	if w.reloading {
		return
	}
	if w.CurrentAmmo == w.Config.MaxAmmo {
		return
	}
	if w.ReserveAmmo == 0 {
		return
	}
	w.reloading = true
	w.reloadRemaining = w.Config.ReloadTime
}

// Update advances the virtual clock and the reload countdown, and
// auto-triggers a reload on an empty magazine. A reload started here (or via
// Reload) completes on its own schedule even if the weapon is holstered in
// the interim; the owning manager keeps calling Update on every weapon.
func (w *WeaponState) Update(dt float64) {
	w.clock += dt

	if w.reloading {
		w.reloadRemaining -= dt
		if w.reloadRemaining <= 0 {
			transfer := w.Config.MaxAmmo - w.CurrentAmmo
			if transfer > w.ReserveAmmo {
				transfer = w.ReserveAmmo
			}
			w.CurrentAmmo += transfer
			w.ReserveAmmo -= transfer
			w.reloading = false
			w.reloadRemaining = 0
		}
		return
	}

	if w.CurrentAmmo == 0 && w.ReserveAmmo > 0 {
		w.Reload()
	}
}

// WeaponManager owns the player's weapon set and routes fire events to the
// correct damage pipeline by weapon class.
type WeaponManager struct {
	weapons map[WeaponKind]*WeaponState
	current WeaponKind

	// aim supplies the current muzzle origin and aim direction. Absent, the
	// manager still advances state but fire events degrade to no-ops.
	aim func() (origin, dir Vec3)

	hitscan     *HitscanResolver
	projectiles *ProjectileSimulator
	grenades    *GrenadeSimulator

	audio AudioSink
	hud   HUDSink
}

// NewWeaponManager builds a manager with the given loadout. The first kind
// in the loadout is selected.
func NewWeaponManager(configs map[WeaponKind]WeaponConfig, loadout ...WeaponKind) *WeaponManager {
	m := &WeaponManager{
		weapons: make(map[WeaponKind]*WeaponState, len(loadout)),
		audio:   nopAudio{},
		hud:     nopHUD{},
	}
	for i, k := range loadout {
		m.weapons[k] = NewWeaponState(k, configs[k])
		if i == 0 {
			m.current = k
		}
	}
	m.pushHUD()
	return m
}

// SetAimProvider wires the callback that supplies muzzle origin and aim
// direction at fire time.
func (m *WeaponManager) SetAimProvider(aim func() (Vec3, Vec3)) { m.aim = aim }

// SetResolvers wires the damage pipelines.
func (m *WeaponManager) SetResolvers(h *HitscanResolver, p *ProjectileSimulator, g *GrenadeSimulator) {
	m.hitscan = h
	m.projectiles = p
	m.grenades = g
}

// SetSinks wires optional audio/HUD collaborators. Nil keeps the no-op.
func (m *WeaponManager) SetSinks(audio AudioSink, hud HUDSink) {
	if audio != nil {
		m.audio = audio
	}
	if hud != nil {
		m.hud = hud
	}
	m.pushHUD()
}

// Current returns the selected weapon's state.
func (m *WeaponManager) Current() *WeaponState {
	return m.weapons[m.current]
}

// Weapon returns the state for a carried kind, or nil.
func (m *WeaponManager) Weapon(kind WeaponKind) *WeaponState {
	return m.weapons[kind]
}

// SwitchWeapon selects a carried weapon. Switching never cancels an
// in-flight reload on the holstered weapon.
func (m *WeaponManager) SwitchWeapon(kind WeaponKind) {
	if _, ok := m.weapons[kind]; !ok {
		return
	}
	if kind == m.current {
		return
	}
	m.Current().StopFiring()
	m.current = kind
	m.pushHUD()
}

// StartFiring sets fire intent on the selected weapon.
func (m *WeaponManager) StartFiring() { m.Current().StartFiring() }

// StopFiring clears fire intent on the selected weapon.
func (m *WeaponManager) StopFiring() { m.Current().StopFiring() }

// Reload starts a reload on the selected weapon.
func (m *WeaponManager) Reload() {
	m.Current().Reload()
	if m.Current().IsReloading() {
		m.audio.PlayReload(m.current)
	}
}

// Update advances every carried weapon (holstered reloads keep counting
// down) and re-fires the selected weapon while intent is set.
func (m *WeaponManager) Update(dt float64) {
	for _, w := range m.weapons {
		w.Update(dt)
	}
	cur := m.Current()
	if cur.IsFiring() && !cur.IsReloading() {
		m.fire(cur)
	}
	m.pushHUD()
}

// Fire attempts a single shot on the selected weapon regardless of intent.
func (m *WeaponManager) Fire() bool {
	return m.fire(m.Current())
}

func (m *WeaponManager) fire(w *WeaponState) bool {
	if !w.TryFire() {
		return false
	}
	if m.aim == nil {
		return true // state advanced; no collaborators to resolve against
	}
	origin, dir := m.aim()

	switch w.Config.Class {
	case ClassHitscan, ClassMelee:
		if m.hitscan != nil {
			m.hitscan.Resolve(HitscanRequest{
				Origin: origin,
				Dir:    dir,
				Range:  w.Config.Range,
				Damage: w.Config.Damage,
				Spread: w.Config.Spread,
			})
		}
	case ClassProjectile:
		if m.projectiles != nil {
			m.projectiles.Spawn(origin, dir, w.Config.ProjectileSpeed,
				w.Config.Range, w.Config.Damage, TeamPlayer, true)
		}
	case ClassThrown:
		if m.grenades != nil {
			m.grenades.Throw(origin, dir)
		}
	}

	m.audio.PlayShot(w.Kind)
	return true
}

func (m *WeaponManager) pushHUD() {
	cur := m.Current()
	if cur == nil {
		return
	}
	m.hud.SetAmmo(cur.CurrentAmmo, cur.ReserveAmmo)
	m.hud.SetWeapon(cur.Kind)
}
