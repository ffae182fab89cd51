package arena

import (
	"math"
	"math/rand"
	"testing"
)

func TestFormationOffset_RadiusWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 8; i++ {
		off := formationOffset(rng, i, 8)
		r := math.Hypot(off.X, off.Z)
		if r < formationRadiusMin || r > formationRadiusMax {
			t.Fatalf("slot %d radius %.2f, want [%.0f, %.0f]",
				i, r, formationRadiusMin, formationRadiusMax)
		}
	}
}

func TestFormationOffset_EvenAngularSpacing(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	size := 4
	for i := 0; i < size; i++ {
		off := formationOffset(rng, i, size)
		want := 2 * math.Pi * float64(i) / float64(size)
		got := math.Atan2(off.Z, off.X)
		if got < 0 {
			got += 2 * math.Pi
		}
		// atan2 of slot 0 is 0, slot 1 is pi/2, and so on.
		if diff := math.Abs(got - want); diff > 1e-9 && math.Abs(diff-2*math.Pi) > 1e-9 {
			t.Fatalf("slot %d angle %.4f, want %.4f", i, got, want)
		}
	}
}

func TestGroup_OnlyLeaderMovesCenter(t *testing.T) {
	g := NewGroup(Vec3{X: 100, Z: 100}, 3)

	leader := newTestAgent(ModeGroupFormation, 100, 100)
	member := NewAgent(2, "E2", TeamEnemy, Vec3{X: 105, Z: 100}, ModeGroupFormation,
		rand.New(rand.NewSource(2)))
	leader.JoinGroup(g, 0)
	member.JoinGroup(g, 1)

	before := g.Center()
	for i := 0; i < 120; i++ {
		member.SetPlayerPosition(Vec3{})
		member.Update(testDt)
	}
	if g.Center() != before {
		t.Fatal("a non-leader member moved the shared group centre")
	}

	for i := 0; i < 120; i++ {
		leader.SetPlayerPosition(Vec3{})
		leader.Update(testDt)
	}
	if g.Center() == before {
		t.Fatal("the leader should advance the group centre toward the player")
	}
}

func TestGroup_CenterAdvancesUntilEngageRange(t *testing.T) {
	g := NewGroup(Vec3{X: 200, Z: 0}, 1)
	leader := newTestAgent(ModeGroupFormation, 200, 0)
	leader.JoinGroup(g, 0)

	player := Vec3{}
	for i := 0; i < 3600; i++ {
		leader.SetPlayerPosition(player)
		leader.Update(testDt)
	}
	d := g.Center().DistTo(player)
	if d > groupEngageRange+5 {
		t.Fatalf("centre should have closed to engagement range, still %.1f away", d)
	}
	// The centre holds once inside range; it never collapses onto the player.
	if d < groupEngageRange*0.5 {
		t.Fatalf("centre advanced far inside engagement range: %.1f", d)
	}
}

func TestGroup_MemberOffsetsAssignedOnce(t *testing.T) {
	g := NewGroup(Vec3{X: 60, Z: 0}, 2)
	member := newTestAgent(ModeGroupFormation, 60, 5)
	member.JoinGroup(g, 1)

	member.SetPlayerPosition(Vec3{})
	member.Update(testDt)
	first := member.offset
	for i := 0; i < 300; i++ {
		member.Update(testDt)
	}
	if member.offset != first {
		t.Fatal("formation offsets are assigned once, not re-rolled")
	}
}

func TestGroup_MembersTrackCenterPlusOffset(t *testing.T) {
	g := NewGroup(Vec3{X: 30, Z: 0}, 2)
	member := newTestAgent(ModeGroupFormation, 0, 0)
	member.JoinGroup(g, 1)

	// No player known: the centre is static and the member should settle
	// onto its slot.
	for i := 0; i < 1200; i++ {
		member.Update(testDt)
	}
	want := g.Center().Add(member.offset)
	if d := member.Position().DistTo(want); d > 0.5 {
		t.Fatalf("member %.2f units from its formation slot", d)
	}
}

func TestGroup_EngagedMembersBlendTowardPlayer(t *testing.T) {
	player := Vec3{}
	g := NewGroup(Vec3{X: 40, Z: 0}, 2) // inside engagement range of the player
	member := newTestAgent(ModeGroupFormation, 40, 0)
	member.JoinGroup(g, 1)

	for i := 0; i < 1200; i++ {
		member.SetPlayerPosition(player)
		member.Update(testDt)
	}
	slot := g.Center().Add(member.offset)
	blended := slot.Scale(1 - engagePlayerBlend).Add(player.Scale(engagePlayerBlend))
	if d := member.Position().DistTo(blended); d > 0.5 {
		t.Fatalf("engaged member %.2f units from its blended position", d)
	}
}
