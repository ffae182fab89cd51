package arena

import "math"

// Pillar is a vertical cylinder obstacle on the arena floor.
type Pillar struct {
	X, Z   float64
	Radius float64
}

// ArenaCollision is the in-repo collision implementation: a square arena
// with optional pillar obstacles. It satisfies CollisionChecker; a real
// game would substitute its mesh-based system.
type ArenaCollision struct {
	HalfExtent float64
	Pillars    []Pillar
}

// NewArenaCollision creates a collision checker for a square arena spanning
// [-halfExtent, +halfExtent] on both ground axes.
func NewArenaCollision(halfExtent float64) *ArenaCollision {
	return &ArenaCollision{HalfExtent: halfExtent}
}

// AddPillar adds a cylindrical obstacle.
func (ac *ArenaCollision) AddPillar(x, z, radius float64) {
	ac.Pillars = append(ac.Pillars, Pillar{X: x, Z: z, Radius: radius})
}

// CheckCollision resolves a requested move: the position is clamped inside
// the arena and pushed out of any pillar the mover's radius overlaps.
// Height is accepted for interface compatibility; the arena is flat.
func (ac *ArenaCollision) CheckCollision(from, to Vec3, radius, height float64) Vec3 {
	_ = from
	_ = height

	out := to
	limit := ac.HalfExtent - radius
	out.X = clamp(out.X, -limit, limit)
	out.Z = clamp(out.Z, -limit, limit)

	for _, p := range ac.Pillars {
		dx := out.X - p.X
		dz := out.Z - p.Z
		dist := math.Hypot(dx, dz)
		minDist := p.Radius + radius
		if dist >= minDist {
			continue
		}
		if dist < 1e-9 {
			// Dead centre: push along +X.
			out.X = p.X + minDist
			continue
		}
		out.X = p.X + dx/dist*minDist
		out.Z = p.Z + dz/dist*minDist
	}
	return out
}
