package arena

import (
	"math"
	"math/rand"
)

// agentHitRadius is the radius of an agent's hit sphere, centred at the
// fixed aim height above its ground position.
const agentHitRadius = 0.6

// aimCenterHeight is the vertical centre of every agent's hit volume. Aim
// logic targets this height regardless of actual target geometry.
const aimCenterHeight = 0.9

// HitscanRequest is an ephemeral instant-fire resolution request. It is
// created and fully resolved within one fire call.
type HitscanRequest struct {
	Origin Vec3
	Dir    Vec3 // unit aim direction, pre-jitter
	Range  float64
	Damage float64
	Spread float64
}

// HitscanResolver resolves player-side fire instantly along a ray. This
// pipeline is deliberately distinct from the traveling-projectile pipeline:
// input-driven fire must land (or miss) on the frame of the trigger pull.
type HitscanResolver struct {
	roster Roster
	visual VisualSink
	rng    *rand.Rand

	// onHit, if set, observes resolved hits (sim logging).
	onHit func(target *Agent, damage float64, at Vec3)
}

// NewHitscanResolver creates a resolver with its own seeded RNG.
func NewHitscanResolver(roster Roster, seed int64) *HitscanResolver {
	return &HitscanResolver{
		roster: roster,
		visual: nopVisual{},
		rng:    rand.New(rand.NewSource(seed)), // #nosec G404 -- simulation only
	}
}

// SetVisualSink wires the tracer/flash sink. Nil keeps the no-op.
func (h *HitscanResolver) SetVisualSink(v VisualSink) {
	if v != nil {
		h.visual = v
	}
}

// SetHitObserver wires an optional hit callback.
func (h *HitscanResolver) SetHitObserver(fn func(*Agent, float64, Vec3)) {
	h.onHit = fn
}

// Resolve jitters the aim direction by the weapon spread, finds the nearest
// enemy hit sphere along the ray within range, and applies flat damage to it
// through the roster. Exactly one hit per call; no penetration.
func (h *HitscanResolver) Resolve(req HitscanRequest) bool {
	if h.roster == nil {
		return false
	}
	dir := h.jitter(req.Dir, req.Spread)

	var best *Agent
	bestT := req.Range
	for _, e := range h.roster.GetEnemies() {
		if e == nil || !e.Alive() {
			continue
		}
		center := e.Position().Grounded().Add(Vec3{Y: aimCenterHeight})
		t, ok := rayHitSphere(req.Origin, dir, center, agentHitRadius)
		if ok && t <= bestT {
			bestT = t
			best = e
		}
	}

	end := req.Origin.Add(dir.Scale(bestT))
	h.visual.Tracer(req.Origin, end, best != nil, TeamPlayer)

	if best == nil {
		return false
	}
	h.roster.DamageEnemy(best, req.Damage, end)
	if h.onHit != nil {
		h.onHit(best, req.Damage, end)
	}
	return true
}

// jitter applies two independent uniform offsets in [-spread/2, +spread/2]
// to the horizontal and vertical components of the aim direction and
// renormalizes.
func (h *HitscanResolver) jitter(dir Vec3, spread float64) Vec3 {
	if spread <= 0 {
		return dir.Normalize()
	}
	hOff := (h.rng.Float64() - 0.5) * spread
	vOff := (h.rng.Float64() - 0.5) * spread

	// Horizontal axis perpendicular to the aim direction on the ground plane.
	perp := Vec3{X: -dir.Z, Z: dir.X}.Normalize()
	if perp.LengthSq() < 1e-12 {
		perp = Vec3{X: 1} // aiming straight up/down; any horizontal axis works
	}
	out := dir.Add(perp.Scale(hOff))
	out.Y += vOff
	return out.Normalize()
}

// yawSpray jitters a direction by fractional horizontal/vertical spray,
// shared by the AI shooting sub-behaviour.
func yawSpray(rng *rand.Rand, dir Vec3, horiz, vert float64) Vec3 {
	perp := Vec3{X: -dir.Z, Z: dir.X}.Normalize()
	out := dir.Add(perp.Scale((rng.Float64() - 0.5) * 2 * horiz))
	out.Y += (rng.Float64() - 0.5) * 2 * vert
	return out.Normalize()
}

// aimPitchFor transforms a target-relative direction into the shooter's
// local frame (inverse of body yaw) and returns the vertical tilt clamped
// to the articulation limit.
func aimPitchFor(dir Vec3, bodyYaw float64, limit float64) float64 {
	local := dir.RotateY(-bodyYaw)
	horiz := math.Hypot(local.X, local.Z)
	pitch := math.Atan2(local.Y, horiz)
	return clamp(pitch, -limit, limit)
}
