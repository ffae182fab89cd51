package arena

import (
	"math"
	"math/rand"
	"testing"
)

const testDt = 1.0 / 60.0

func newTestAgent(mode AIMode, x, z float64) *Agent {
	return NewAgent(1, "E1", TeamEnemy, Vec3{X: x, Z: z}, mode, rand.New(rand.NewSource(42)))
}

func TestAgent_StaysOnGroundPlane(t *testing.T) {
	for _, mode := range []AIMode{ModeRoam, ModeHunt, ModeGroupFormation, ModeAllySupport} {
		a := newTestAgent(mode, 30, 30)
		a.SetPlayerPosition(Vec3{})
		for i := 0; i < 600; i++ {
			a.Update(testDt)
			if a.Position().Y != 0 {
				t.Fatalf("mode %v: position.Y drifted to %g", mode, a.Position().Y)
			}
		}
	}
}

func TestAgent_DeadAgentsDoNotMove(t *testing.T) {
	a := newTestAgent(ModeHunt, 50, 0)
	a.SetPlayerPosition(Vec3{})
	a.applyDamage(100)

	before := a.Position()
	for i := 0; i < 60; i++ {
		a.Update(testDt)
	}
	if a.Position() != before {
		t.Fatal("a dead agent must not keep moving")
	}
}

func TestRoam_TargetsStayInAnnulus(t *testing.T) {
	a := newTestAgent(ModeRoam, 0, 0)

	origin := a.Position()
	a.Update(testDt)
	if !a.hasMoveTarget {
		t.Fatal("first roam update should pick a move target")
	}
	d := origin.DistTo(a.moveTarget)
	if d < roamRadiusMin || d > roamRadiusMax {
		t.Fatalf("roam target %.2f units away, want [%.0f, %.0f]", d, roamRadiusMin, roamRadiusMax)
	}
}

func TestRoam_RetargetsOnArrival(t *testing.T) {
	a := newTestAgent(ModeRoam, 0, 0)

	targets := map[Vec3]bool{}
	for i := 0; i < 1200; i++ {
		a.Update(testDt)
		targets[a.moveTarget] = true
	}
	// 20 seconds of wandering at 5 u/s crosses several 5-20 unit legs.
	if len(targets) < 3 {
		t.Fatalf("expected several roam targets over 20s, got %d", len(targets))
	}
}

func TestRoam_PromotesToHuntOnPlayerContact(t *testing.T) {
	a := newTestAgent(ModeRoam, 50, 50)
	a.SetPlayerPosition(Vec3{})
	if a.Mode() != ModeHunt {
		t.Fatalf("roamers promote to hunt once the player is known, got %v", a.Mode())
	}
}

func TestHunt_ConvergesOnStationaryPlayer(t *testing.T) {
	a := newTestAgent(ModeHunt, 150, 150)
	player := Vec3{}

	dist := func() float64 { return a.Position().DistTo(player) }
	d0 := dist()
	var d300 float64
	for i := 1; i <= 600; i++ {
		a.SetPlayerPosition(player)
		a.Update(testDt)
		if i == 300 {
			d300 = dist()
		}
	}
	d600 := dist()

	if !(d600 < d300 && d300 < d0) {
		t.Fatalf("hunter failed to converge: %.1f -> %.1f -> %.1f", d0, d300, d600)
	}
}

func TestHunt_WithoutContactFallsBackToRoam(t *testing.T) {
	a := newTestAgent(ModeHunt, 0, 0)
	for i := 0; i < 60; i++ {
		a.Update(testDt)
	}
	if !a.hasMoveTarget {
		t.Fatal("a hunter with no known player position should roam")
	}
	if a.Mode() != ModeHunt {
		t.Fatal("falling back to roaming movement must not change the assigned mode")
	}
}

func TestHunt_CloseRangeDoesNotPinThePlayer(t *testing.T) {
	a := newTestAgent(ModeHunt, 1, 0)
	player := Vec3{}
	for i := 0; i < 300; i++ {
		a.SetPlayerPosition(player)
		a.Update(testDt)
		if a.Position().DistTo(player) < 1e-6 {
			t.Fatal("close-range hunter should flank, not stand on the player")
		}
	}
}

func TestAllySupport_TetherPullsBackToPlayer(t *testing.T) {
	a := NewAgent(100, "A100", TeamPlayer, Vec3{X: 400}, ModeAllySupport,
		rand.New(rand.NewSource(5)))
	player := Vec3{}

	for i := 0; i < 2400; i++ {
		a.SetPlayerPosition(player)
		a.Update(testDt)
	}
	if d := a.Position().DistTo(player); d > supportMaxDistance {
		t.Fatalf("support ally still outside the tether after 40s: %.1f", d)
	}
}

func TestAllySupport_PressesTowardNearbyHostile(t *testing.T) {
	a := NewAgent(100, "A100", TeamPlayer, Vec3{}, ModeAllySupport,
		rand.New(rand.NewSource(5)))
	hostile := testAgent(7, TeamEnemy, 100, 0)

	d0 := a.Position().DistTo(hostile.Position())
	for i := 0; i < 300; i++ {
		a.SetPlayerPosition(Vec3{})
		a.SetNearbyHostiles([]*Agent{hostile})
		a.Update(testDt)
	}
	if d := a.Position().DistTo(hostile.Position()); d >= d0 {
		t.Fatalf("support ally should advance on a hostile inside engage range: %.1f -> %.1f", d0, d)
	}
}

func TestShooting_CadenceFollowsFireRate(t *testing.T) {
	a := newTestAgent(ModeRoam, 0, 0)
	target := testAgent(2, TeamPlayer, 0, 20)
	a.SetShootTargets([]*Agent{target})

	shots := 0
	a.SetFireFunc(func(Vec3, Vec3) { shots++ })

	// Enemy rifle: 120 rpm, one shot every 0.5s. Ten seconds of updates.
	for i := 0; i < 600; i++ {
		a.Update(testDt)
	}
	if shots < 19 || shots > 22 {
		t.Fatalf("expected about 20 shots over 10s at 120rpm, got %d", shots)
	}
}

func TestShooting_IgnoresTargetsBeyondRange(t *testing.T) {
	a := newTestAgent(ModeRoam, 0, 0)
	target := testAgent(2, TeamPlayer, 0, defaultShootRange+10)
	a.SetShootTargets([]*Agent{target})

	shots := 0
	a.SetFireFunc(func(Vec3, Vec3) { shots++ })
	for i := 0; i < 300; i++ {
		a.Update(testDt)
	}
	if shots != 0 {
		t.Fatalf("target beyond shoot range drew %d shots", shots)
	}
	if a.CurrentTarget() != nil {
		t.Fatal("out-of-range target must not be acquired")
	}
}

func TestShooting_AimsAtFixedTorsoHeight(t *testing.T) {
	a := newTestAgent(ModeRoam, 0, 0)
	target := testAgent(2, TeamPlayer, 0, 20)
	a.SetShootTargets([]*Agent{target})

	var gotOrigin, gotDir Vec3
	a.SetFireFunc(func(origin, dir Vec3) { gotOrigin, gotDir = origin, dir })
	a.Update(testDt)

	if gotOrigin == (Vec3{}) {
		t.Fatal("expected a shot on the first update")
	}
	if math.Abs(gotOrigin.Y-muzzleHeight) > 1e-9 {
		t.Fatalf("muzzle height %.2f, want %.2f", gotOrigin.Y, muzzleHeight)
	}
	// Muzzle above the aim height: the shot dips slightly regardless of the
	// target's actual vertical extent.
	if gotDir.Y >= 0 {
		t.Fatalf("expected a slight downward aim from the muzzle, dir.Y=%.3f", gotDir.Y)
	}
	if p := a.AimPitch(); p < -aimPitchLimit || p > aimPitchLimit {
		t.Fatalf("aim pitch %.3f outside articulation limit", p)
	}
}

func TestShooting_NoTargetResetsAim(t *testing.T) {
	a := newTestAgent(ModeRoam, 0, 0)
	target := testAgent(2, TeamPlayer, 0, 20)
	a.SetShootTargets([]*Agent{target})
	a.Update(testDt)
	if a.CurrentTarget() == nil {
		t.Fatal("target in range should be acquired")
	}

	a.SetShootTargets(nil)
	a.Update(testDt)
	if a.CurrentTarget() != nil {
		t.Fatal("cleared target list should drop the current target")
	}
	if a.AimPitch() != 0 {
		t.Fatalf("aim device should return to neutral, pitch %.3f", a.AimPitch())
	}
}

func TestShooting_SkipsDeadTargets(t *testing.T) {
	a := newTestAgent(ModeRoam, 0, 0)
	dead := testAgent(2, TeamPlayer, 0, 10)
	dead.applyDamage(100)
	live := testAgent(3, TeamPlayer, 0, 30)
	a.SetShootTargets([]*Agent{dead, live})

	a.Update(testDt)
	if a.CurrentTarget() != live {
		t.Fatal("dead targets must be skipped in favour of living ones")
	}
}

func TestCommit_RoutesThroughCollision(t *testing.T) {
	a := newTestAgent(ModeHunt, 0, -20)
	col := NewArenaCollision(500)
	col.AddPillar(0, -10, 3)
	a.SetCollision(col)

	for i := 0; i < 1200; i++ {
		a.SetPlayerPosition(Vec3{})
		a.Update(testDt)
		d := math.Hypot(a.Position().X-0, a.Position().Z-(-10))
		if d < 3+agentRadius-1e-6 {
			t.Fatalf("agent penetrated a pillar: %.3f units from its axis", d)
		}
	}
}
