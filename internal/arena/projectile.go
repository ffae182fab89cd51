package arena

import (
	"github.com/google/uuid"
)

// projectileHitRadius is the fixed proximity radius used for traveling
// projectile impact tests.
const projectileHitRadius = 1.0

// TravelingProjectile is a damage carrier that moves through space over
// multiple ticks. Unlike hitscan fire it can be dodged: the target may move
// between spawn and arrival.
type TravelingProjectile struct {
	ID       string
	pos      Vec3
	vel      Vec3
	speed    float64
	traveled float64
	maxRange float64
	damage   float64
	team     Team
	trail    bool
	dead     bool
}

// Position returns the projectile's current position.
func (p *TravelingProjectile) Position() Vec3 { return p.pos }

// Team returns the owning team.
func (p *TravelingProjectile) Team() Team { return p.team }

// Trail reports whether the visual sink should draw a trail for it.
func (p *TravelingProjectile) Trail() bool { return p.trail }

// ProjectileSimulator owns the active traveling-projectile set. The set is
// mutated only during the simulator's own update passes; external code never
// removes entries directly.
type ProjectileSimulator struct {
	active []*TravelingProjectile
	visual VisualSink
}

// NewProjectileSimulator creates an empty simulator.
func NewProjectileSimulator() *ProjectileSimulator {
	return &ProjectileSimulator{visual: nopVisual{}}
}

// SetVisualSink wires the effect sink. Nil keeps the no-op.
func (ps *ProjectileSimulator) SetVisualSink(v VisualSink) {
	if v != nil {
		ps.visual = v
	}
}

// Spawn adds a projectile traveling along a fixed direction.
func (ps *ProjectileSimulator) Spawn(origin, dir Vec3, speed, maxRange, damage float64, team Team, trail bool) *TravelingProjectile {
	d := dir.Normalize()
	p := &TravelingProjectile{
		ID:       uuid.NewString(),
		pos:      origin,
		vel:      d.Scale(speed),
		speed:    speed,
		maxRange: maxRange,
		damage:   damage,
		team:     team,
		trail:    trail,
	}
	ps.active = append(ps.active, p)
	return p
}

// Active returns the live projectile slice (read-only by convention).
func (ps *ProjectileSimulator) Active() []*TravelingProjectile {
	return ps.active
}

// Update advances every projectile and destroys those whose traveled
// distance reaches max range. Range expiry applies no damage.
func (ps *ProjectileSimulator) Update(dt float64) {
	kept := ps.active[:0]
	for _, p := range ps.active {
		p.pos = p.pos.Add(p.vel.Scale(dt))
		p.traveled += p.speed * dt
		if p.dead || p.traveled >= p.maxRange {
			continue
		}
		kept = append(kept, p)
	}
	ps.active = kept
}

// CheckCollisions tests every active projectile against the supplied target
// lists. The enemy pass skips the projectile's own team; the ally pass has
// no team filter; supplying an ally list is the explicit opt-in that
// enables friendly fire. The first qualifying proximity hit applies damage
// through the matching callback and destroys the projectile.
func (ps *ProjectileSimulator) CheckCollisions(
	enemies, allies []*Agent,
	onEnemyHit, onAllyHit func(target *Agent, damage float64, at Vec3),
) {
	kept := ps.active[:0]
	for _, p := range ps.active {
		if hit := ps.checkOne(p, enemies, allies, onEnemyHit, onAllyHit); hit {
			p.dead = true
			continue
		}
		kept = append(kept, p)
	}
	ps.active = kept
}

func (ps *ProjectileSimulator) checkOne(
	p *TravelingProjectile,
	enemies, allies []*Agent,
	onEnemyHit, onAllyHit func(*Agent, float64, Vec3),
) bool {
	for _, t := range enemies {
		if t == nil || !t.Alive() || t.Team() == p.team {
			continue
		}
		center := t.Position().Grounded().Add(Vec3{Y: aimCenterHeight})
		if p.pos.DistTo(center) < projectileHitRadius {
			if onEnemyHit != nil {
				onEnemyHit(t, p.damage, p.pos)
			}
			return true
		}
	}
	for _, t := range allies {
		if t == nil || !t.Alive() {
			continue
		}
		center := t.Position().Grounded().Add(Vec3{Y: aimCenterHeight})
		if p.pos.DistTo(center) < projectileHitRadius {
			if onAllyHit != nil {
				onAllyHit(t, p.damage, p.pos)
			}
			return true
		}
	}
	return false
}
