package arena

import (
	"math"
	"math/rand"
)

// --- Agent constants ---

const (
	agentRadius = 0.5
	agentHeight = 1.8
	agentSpeed  = 5.0 // units per second

	// Roam: random targets in an annulus around the current position.
	roamRadiusMin  = 5.0
	roamRadiusMax  = 20.0
	roamArriveDist = 1.0

	// Hunt: smoothed pursuit with a randomized look-around cadence.
	huntCloseRange       = 2.0
	lookIntervalMin      = 2.0
	lookIntervalMax      = 4.0
	lookJitterRad        = 20.0 * math.Pi / 180.0
	directionChangeSpeed = 2.0 // interpolation rate toward desired direction

	// AllySupport: tether to the player, pressure toward nearby hostiles.
	supportMaxDistance   = 300.0
	supportReturnFrac    = 0.8
	supportEngageRange   = 200.0
	supportAdvanceStep   = 30.0
	supportOrbitMin      = 50.0
	supportOrbitMax      = 300.0
	targetChangeInterval = 3.0

	// Shooting sub-behaviour.
	defaultShootRange = 150.0
	muzzleHeight      = 1.4
	shootSprayHoriz   = 0.05
	shootSprayVert    = 0.01
	aimPitchLimit     = 0.7
)

// AIMode is the externally assigned behaviour state. Modes do not
// self-transition during play, except Roam promoting to Hunt once the
// player's position becomes known.
type AIMode int

const (
	ModeRoam AIMode = iota
	ModeHunt
	ModeGroupFormation
	ModeAllySupport
)

func (m AIMode) String() string {
	switch m {
	case ModeRoam:
		return "roam"
	case ModeHunt:
		return "hunt"
	case ModeGroupFormation:
		return "formation"
	case ModeAllySupport:
		return "ally_support"
	default:
		return "unknown"
	}
}

// Agent is an autonomous combatant in the arena. Each agent exclusively
// owns its own AI and shoot-timer state.
type Agent struct {
	id    int
	label string
	team  Team

	pos       Vec3
	yaw       float64
	health    float64
	maxHealth float64
	speed     float64

	mode AIMode

	// Movement target and direction smoothing.
	moveTarget    Vec3
	hasMoveTarget bool
	currentDir    Vec3
	desiredDir    Vec3
	lookTimer     float64
	lookInterval  float64

	// AllySupport.
	supportTimer float64

	// Group formation (optional).
	group       *Group
	groupIndex  int
	offset      Vec3
	offsetFixed bool

	// Shooting sub-behaviour.
	shootRange    float64
	fireRate      float64
	fireDamage    float64
	fireSpeed     float64
	fireRangeMax  float64
	lastShotTime  float64
	currentTarget *Agent
	aimPitch      float64

	// External inputs, refreshed by the coordinator.
	playerPos      Vec3
	playerKnown    bool
	nearbyHostiles []*Agent
	shootTargets   []*Agent

	// Collaborators.
	collision CollisionChecker
	fire      func(origin, dir Vec3) // spawns a traveling projectile

	clock float64
	rng   *rand.Rand
}

// NewAgent creates an agent at a ground position with the given mode.
func NewAgent(id int, label string, team Team, pos Vec3, mode AIMode, rng *rand.Rand) *Agent {
	cfg := DefaultWeaponConfigs()[WeaponEnemyRifle]
	a := &Agent{
		id:           id,
		label:        label,
		team:         team,
		pos:          pos.Grounded(),
		health:       100,
		maxHealth:    100,
		speed:        agentSpeed,
		mode:         mode,
		shootRange:   defaultShootRange,
		fireRate:     cfg.FireRate,
		fireDamage:   cfg.Damage,
		fireSpeed:    cfg.ProjectileSpeed,
		fireRangeMax: cfg.Range,
		lastShotTime: math.Inf(-1),
		rng:          rng,
	}
	a.currentDir = Vec3{Z: 1}
	a.desiredDir = a.currentDir
	return a
}

// --- Accessors ---

func (a *Agent) ID() int            { return a.id }
func (a *Agent) Label() string      { return a.label }
func (a *Agent) Team() Team         { return a.team }
func (a *Agent) Position() Vec3     { return a.pos }
func (a *Agent) Yaw() float64       { return a.yaw }
func (a *Agent) AimPitch() float64  { return a.aimPitch }
func (a *Agent) Health() float64    { return a.health }
func (a *Agent) MaxHealth() float64 { return a.maxHealth }
func (a *Agent) Mode() AIMode       { return a.mode }
func (a *Agent) Alive() bool        { return a.health > 0 }

// CurrentTarget returns the active shoot target, or nil.
func (a *Agent) CurrentTarget() *Agent { return a.currentTarget }

// SetMode assigns the behaviour state (role assignment is external).
func (a *Agent) SetMode(m AIMode) { a.mode = m }

// SetCollision wires the external collision interface. Nil degrades
// movement resolution to a straight commit.
func (a *Agent) SetCollision(c CollisionChecker) { a.collision = c }

// SetFireFunc wires the projectile spawn callback used by the shooting
// sub-behaviour.
func (a *Agent) SetFireFunc(fn func(origin, dir Vec3)) { a.fire = fn }

// SetWeapon overrides the agent's AI weapon parameters.
func (a *Agent) SetWeapon(cfg WeaponConfig) {
	a.fireRate = cfg.FireRate
	a.fireDamage = cfg.Damage
	a.fireSpeed = cfg.ProjectileSpeed
	a.fireRangeMax = cfg.Range
}

// SetSpeed overrides the movement speed.
func (a *Agent) SetSpeed(v float64) { a.speed = v }

// JoinGroup attaches the agent to a formation at the given index.
// Index 0 is the leader and the sole writer of the group centre.
func (a *Agent) JoinGroup(g *Group, index int) {
	a.group = g
	a.groupIndex = index
	a.offsetFixed = false
	if index == 0 {
		g.setCenter(a.pos)
	}
}

// IsGroupLeader reports whether this agent drives the shared group centre.
func (a *Agent) IsGroupLeader() bool { return a.group != nil && a.groupIndex == 0 }

// SetPlayerPosition feeds the last known player position. A roaming agent
// promotes itself to Hunt once the player is known.
func (a *Agent) SetPlayerPosition(pos Vec3) {
	a.playerPos = pos.Grounded()
	if !a.playerKnown && a.mode == ModeRoam {
		a.mode = ModeHunt
	}
	a.playerKnown = true
}

// SetNearbyHostiles feeds the hostile list used by AllySupport.
func (a *Agent) SetNearbyHostiles(list []*Agent) { a.nearbyHostiles = list }

// SetShootTargets feeds the candidate list for the shooting sub-behaviour.
func (a *Agent) SetShootTargets(list []*Agent) { a.shootTargets = list }

// applyDamage is called by the roster only.
func (a *Agent) applyDamage(amount float64) {
	a.health -= amount
	if a.health < 0 {
		a.health = 0
	}
}

// Update runs one tick of movement AI and the shooting sub-behaviour.
func (a *Agent) Update(dt float64) {
	if !a.Alive() {
		return
	}
	a.clock += dt

	switch a.mode {
	case ModeRoam:
		a.updateRoam(dt)
	case ModeHunt:
		a.updateHunt(dt)
	case ModeGroupFormation:
		a.updateGroupFormation(dt)
	case ModeAllySupport:
		a.updateAllySupport(dt)
	}

	a.pos.Y = 0 // agents never leave the ground plane
	a.updateShooting(dt)
}

// --- Roam ---

func (a *Agent) updateRoam(dt float64) {
	if !a.hasMoveTarget || a.pos.DistTo(a.moveTarget) < roamArriveDist {
		a.moveTarget = a.randomAnnulusTarget(a.pos, roamRadiusMin, roamRadiusMax)
		a.hasMoveTarget = true
	}
	a.moveToward(a.moveTarget, dt)
}

// randomAnnulusTarget picks a ground point between min and max units away.
func (a *Agent) randomAnnulusTarget(around Vec3, min, max float64) Vec3 {
	angle := a.rng.Float64() * 2 * math.Pi
	radius := min + a.rng.Float64()*(max-min)
	return Vec3{
		X: around.X + math.Cos(angle)*radius,
		Z: around.Z + math.Sin(angle)*radius,
	}
}

// --- Hunt ---

// updateHunt pursues the player with a smoothed direction rather than a
// straight snap: the desired direction is only recomputed once per
// look-around interval and carries angular jitter, producing natural
// weaving instead of laser-straight pursuit.
func (a *Agent) updateHunt(dt float64) {
	if !a.playerKnown {
		a.updateRoam(dt)
		return
	}
	dist := a.pos.DistTo(a.playerPos)

	if dist <= huntCloseRange {
		// Don't close to zero distance: flank with a short-range target.
		if !a.hasMoveTarget || a.pos.DistTo(a.moveTarget) < roamArriveDist {
			a.moveTarget = a.randomAnnulusTarget(a.pos, huntCloseRange, roamRadiusMin)
			a.hasMoveTarget = true
		}
		a.moveToward(a.moveTarget, dt)
		return
	}
	a.hasMoveTarget = false

	a.lookTimer -= dt
	if a.lookTimer <= 0 {
		toPlayer := a.playerPos.Sub(a.pos).Grounded().Normalize()
		jitter := (a.rng.Float64()*2 - 1) * lookJitterRad
		a.desiredDir = toPlayer.RotateY(jitter)
		a.lookInterval = lookIntervalMin + a.rng.Float64()*(lookIntervalMax-lookIntervalMin)
		a.lookTimer = a.lookInterval
	}

	a.smoothDirection(dt)
	a.step(a.currentDir, dt)
}

// smoothDirection interpolates currentDir toward desiredDir at the
// direction-change rate.
func (a *Agent) smoothDirection(dt float64) {
	t := directionChangeSpeed * dt
	if t > 1 {
		t = 1
	}
	a.currentDir = a.currentDir.Lerp(a.desiredDir, t).Normalize()
	if a.currentDir.LengthSq() < 1e-12 {
		a.currentDir = a.desiredDir
	}
}

// --- AllySupport ---

func (a *Agent) updateAllySupport(dt float64) {
	if !a.playerKnown {
		a.updateRoam(dt)
		return
	}
	distToPlayer := a.pos.DistTo(a.playerPos)

	// Hard tether: beyond max distance, move straight back toward the
	// player until inside 80% of the limit.
	if distToPlayer > supportMaxDistance {
		back := a.playerPos.Add(
			a.pos.Sub(a.playerPos).Normalize().Scale(supportMaxDistance * supportReturnFrac))
		a.hasMoveTarget = false
		a.moveToward(back, dt)
		return
	}

	// Pressure toward the nearest hostile, if one is close enough and the
	// step keeps us inside the tether.
	if hostile := a.nearestHostile(); hostile != nil {
		hd := a.pos.DistTo(hostile.Position())
		if hd <= supportEngageRange {
			step := hostile.Position().Sub(a.pos).Grounded().Normalize().Scale(supportAdvanceStep)
			next := a.pos.Add(step)
			if next.DistTo(a.playerPos) <= supportMaxDistance {
				a.moveToward(next, dt)
				return
			}
		}
	}

	// Otherwise orbit: re-pick a point 50-300 units from the player on a
	// timer, or immediately when no target exists.
	a.supportTimer -= dt
	if !a.hasMoveTarget || a.supportTimer <= 0 {
		a.moveTarget = a.randomAnnulusTarget(a.playerPos, supportOrbitMin, supportOrbitMax)
		a.hasMoveTarget = true
		a.supportTimer = targetChangeInterval
	}
	a.moveToward(a.moveTarget, dt)
}

func (a *Agent) nearestHostile() *Agent {
	var best *Agent
	bestD := math.MaxFloat64
	for _, h := range a.nearbyHostiles {
		if h == nil || !h.Alive() {
			continue
		}
		d := a.pos.DistTo(h.Position())
		if d < bestD {
			bestD = d
			best = h
		}
	}
	return best
}

// --- GroupFormation ---

func (a *Agent) updateGroupFormation(dt float64) {
	if a.group == nil {
		a.updateRoam(dt)
		return
	}
	if !a.offsetFixed {
		a.offset = formationOffset(a.rng, a.groupIndex, a.group.Size())
		a.offsetFixed = true
	}

	// The leader is the sole authority over the shared centre. It advances
	// it with the same look-around smoothing as Hunt, and stops once the
	// group is within engagement range of the player.
	if a.IsGroupLeader() && a.playerKnown {
		center := a.group.Center()
		if center.DistTo(a.playerPos) > groupEngageRange {
			a.lookTimer -= dt
			if a.lookTimer <= 0 {
				toPlayer := a.playerPos.Sub(center).Grounded().Normalize()
				jitter := (a.rng.Float64()*2 - 1) * lookJitterRad
				a.desiredDir = toPlayer.RotateY(jitter)
				a.lookInterval = lookIntervalMin + a.rng.Float64()*(lookIntervalMax-lookIntervalMin)
				a.lookTimer = a.lookInterval
			}
			a.smoothDirection(dt)
			a.group.setCenter(center.Add(a.currentDir.Scale(a.speed * dt)))
		}
	}

	desired := a.group.Center().Add(a.offset)
	if a.playerKnown && a.group.Center().DistTo(a.playerPos) <= groupEngageRange {
		desired = desired.Scale(1 - engagePlayerBlend).Add(a.playerPos.Scale(engagePlayerBlend))
	}
	a.moveToward(desired, dt)
}

// --- Movement core ---

// moveToward advances one step toward a ground target, clamping at arrival.
func (a *Agent) moveToward(target Vec3, dt float64) {
	dir := target.Sub(a.pos).Grounded()
	dist := dir.Length()
	if dist < 1e-6 {
		return
	}
	dir = dir.Scale(1 / dist)

	step := a.speed * dt
	if step > dist {
		step = dist
	}
	a.commit(a.pos.Add(dir.Scale(step)), dir)
}

// step advances one full-speed step along dir (Hunt / leader movement).
func (a *Agent) step(dir Vec3, dt float64) {
	a.commit(a.pos.Add(dir.Scale(a.speed*dt)), dir)
}

// commit routes the next position through the collision interface before
// applying it, and faces the movement direction unless the shooting
// sub-behaviour owns body yaw.
func (a *Agent) commit(next, dir Vec3) {
	next.Y = 0
	if a.collision != nil {
		next = a.collision.CheckCollision(a.pos, next, agentRadius, agentHeight)
		next.Y = 0
	}
	a.pos = next

	if a.currentTarget == nil && dir.LengthSq() > 1e-12 {
		a.yaw = math.Atan2(dir.X, dir.Z)
	}
}

// --- Shooting sub-behaviour ---

// updateShooting runs every tick regardless of movement state. It owns body
// yaw while a target is active.
func (a *Agent) updateShooting(dt float64) {
	target := a.nearestShootTarget()
	if target == nil {
		a.currentTarget = nil
		a.aimPitch = 0 // aim device back to neutral
		return
	}
	a.currentTarget = target

	// Force the aim point to the fixed hit-volume centre height, whatever
	// the target's actual vertical position.
	aimPoint := target.Position().Grounded()
	aimPoint.Y = aimCenterHeight

	muzzle := a.pos.Add(Vec3{Y: muzzleHeight})
	dir := aimPoint.Sub(muzzle).Normalize()

	// Body yaw tracks the horizontal bearing; the aim device takes the
	// residual vertical tilt in the agent's local frame.
	a.yaw = YawTo(a.pos, target.Position())
	a.aimPitch = aimPitchFor(dir, a.yaw, aimPitchLimit)

	interval := 60.0 / a.fireRate
	if a.clock-a.lastShotTime < interval {
		return
	}
	a.lastShotTime = a.clock

	if a.fire != nil {
		spread := yawSpray(a.rng, dir, shootSprayHoriz, shootSprayVert)
		a.fire(muzzle, spread)
	}
}

func (a *Agent) nearestShootTarget() *Agent {
	var best *Agent
	bestD := a.shootRange
	for _, t := range a.shootTargets {
		if t == nil || t == a || !t.Alive() {
			continue
		}
		d := a.pos.DistTo(t.Position())
		if d <= bestD {
			bestD = d
			best = t
		}
	}
	return best
}
