package arena

import (
	"math"
	"math/rand"
)

const (
	// groupEngageRange is the centre-to-player distance at which a group
	// stops advancing and holds its engagement position.
	groupEngageRange = 50.0

	// Per-member polar formation offsets.
	formationRadiusMin = 5.0
	formationRadiusMax = 10.0

	// Inside engagement range the desired member position blends toward the
	// player's actual position.
	engagePlayerBlend = 0.3
)

// Group is the shared state of a formation. Its centre is written only by
// the leader (formation index 0) each tick; every other member reads it.
type Group struct {
	center Vec3
	size   int
}

// NewGroup creates a group with the given starting centre and member count.
func NewGroup(center Vec3, size int) *Group {
	return &Group{center: center.Grounded(), size: size}
}

// Center returns the shared centre position.
func (g *Group) Center() Vec3 { return g.center }

// Size returns the member count used for offset spacing.
func (g *Group) Size() int { return g.size }

// setCenter is called only from the leader's update.
func (g *Group) setCenter(c Vec3) { g.center = c.Grounded() }

// formationOffset returns the fixed polar offset for a member index:
// evenly spaced angles, randomized radius in [formationRadiusMin,
// formationRadiusMax]. Assigned once per member at first use.
func formationOffset(rng *rand.Rand, index, size int) Vec3 {
	if size <= 0 {
		size = 1
	}
	angle := 2 * math.Pi * float64(index) / float64(size)
	radius := formationRadiusMin + rng.Float64()*(formationRadiusMax-formationRadiusMin)
	return Vec3{
		X: math.Cos(angle) * radius,
		Z: math.Sin(angle) * radius,
	}
}
