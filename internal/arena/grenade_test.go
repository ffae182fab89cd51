package arena

import (
	"math"
	"testing"
)

func newGrenadeSim(r Roster) *GrenadeSimulator {
	return NewGrenadeSimulator(DefaultWeaponConfigs()[WeaponGrenade], r)
}

func TestExplode_LinearFalloffAtHalfRadius(t *testing.T) {
	r, enemies := testRosterWithEnemies([2]float64{2.5, 0})
	gs := newGrenadeSim(r)

	gs.explode(&GrenadeProjectile{
		pos: Vec3{Y: groundHeight}, damage: 100, blastRadius: 5, team: TeamPlayer,
	})
	if enemies[0].Health() != 50 {
		t.Fatalf("expected 50 damage at half blast radius, health %.0f", enemies[0].Health())
	}
}

func TestExplode_DamageIsFloored(t *testing.T) {
	r, enemies := testRosterWithEnemies([2]float64{1.0 / 3.0, 0})
	gs := newGrenadeSim(r)

	gs.explode(&GrenadeProjectile{
		pos: Vec3{Y: groundHeight}, damage: 100, blastRadius: 5, team: TeamPlayer,
	})
	// 100 * (1 - (1/3)/5) = 93.33, floored.
	if got := 100 - enemies[0].Health(); got != 93 {
		t.Fatalf("expected floored damage 93, got %.2f", got)
	}
}

func TestExplode_NoDamageBeyondRadius(t *testing.T) {
	r, enemies := testRosterWithEnemies([2]float64{6, 0}, [2]float64{5, 0})
	gs := newGrenadeSim(r)

	gs.explode(&GrenadeProjectile{
		pos: Vec3{Y: groundHeight}, damage: 100, blastRadius: 5, team: TeamPlayer,
	})
	if enemies[0].Health() != 100 {
		t.Fatal("enemy beyond the blast radius must be untouched")
	}
	// Exactly at the radius edge the multiplier is zero.
	if enemies[1].Health() != 100 {
		t.Fatal("enemy at the radius edge takes zero damage")
	}
}

func TestExplode_ExactlyOnce(t *testing.T) {
	r, enemies := testRosterWithEnemies([2]float64{0, 0})
	gs := newGrenadeSim(r)

	g := &GrenadeProjectile{
		pos: Vec3{Y: groundHeight}, damage: 10, blastRadius: 5, team: TeamPlayer,
	}
	gs.explode(g)
	gs.explode(g)
	if got := 100 - enemies[0].Health(); got != 10 {
		t.Fatalf("grenade detonated more than once: total damage %.0f", got)
	}
}

func TestThrow_AppliesUpwardBias(t *testing.T) {
	gs := newGrenadeSim(NewTeamRoster())

	g := gs.Throw(Vec3{Y: muzzleHeight}, Vec3{Z: 1})
	if g.vel.Y <= 0 {
		t.Fatalf("level throw should still arc upward, vel.Y=%.2f", g.vel.Y)
	}
	speed := g.vel.Length()
	want := DefaultWeaponConfigs()[WeaponGrenade].ThrowSpeed
	if math.Abs(speed-want) > 1e-9 {
		t.Fatalf("throw speed %.3f, want %.3f", speed, want)
	}
}

func TestGrenade_SettlesThenFuseStillFires(t *testing.T) {
	r, _ := testRosterWithEnemies()
	gs := newGrenadeSim(r)

	explosions := 0
	explodeTick := -1
	gs.SetExplodeObserver(func(Vec3, int) { explosions++ })

	gs.Throw(Vec3{Y: muzzleHeight}, Vec3{Z: 1})

	const dt = 1.0 / 60.0
	for tick := 1; tick <= 600; tick++ {
		gs.Update(dt)

		// Well before the fuse deadline the grenade has bounced out its
		// energy and sits still on the ground.
		if tick == 220 {
			if len(gs.Active()) != 1 {
				t.Fatal("grenade should still be live before the fuse deadline")
			}
			g := gs.Active()[0]
			if !g.AtRest() {
				t.Fatalf("grenade should have settled by t=%.2fs, vel %+v", float64(tick)*dt, g.vel)
			}
			if math.Abs(g.pos.Y-groundHeight) > 1e-9 {
				t.Fatalf("settled grenade should rest at ground height, y=%.3f", g.pos.Y)
			}
		}
		if explosions > 0 && explodeTick < 0 {
			explodeTick = tick
		}
	}

	if explosions != 1 {
		t.Fatalf("expected exactly one explosion, got %d", explosions)
	}
	fuse := DefaultWeaponConfigs()[WeaponGrenade].FuseTime
	if at := float64(explodeTick) * dt; math.Abs(at-fuse) > 0.05 {
		t.Fatalf("fuse fired at %.3fs, want %.1fs regardless of bounces", at, fuse)
	}
	if len(gs.Active()) != 0 {
		t.Fatal("exploded grenade must leave the active set")
	}
}

func TestGrenade_BlastDistanceIgnoresRestHeight(t *testing.T) {
	// A settled grenade sits at ground height; falloff distance is taken on
	// the ground plane so the offset never shaves damage.
	r, enemies := testRosterWithEnemies([2]float64{2.5, 0})
	gs := newGrenadeSim(r)

	gs.explode(&GrenadeProjectile{
		pos: Vec3{Y: groundHeight + 0.05}, damage: 100, blastRadius: 5, team: TeamPlayer,
	})
	if enemies[0].Health() != 50 {
		t.Fatalf("rest height leaked into falloff distance, health %.0f", enemies[0].Health())
	}
}

func TestGrenade_UniqueIDs(t *testing.T) {
	gs := newGrenadeSim(NewTeamRoster())
	a := gs.Throw(Vec3{}, Vec3{Z: 1})
	b := gs.Throw(Vec3{}, Vec3{Z: 1})
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("grenades need distinct non-empty IDs: %q vs %q", a.ID, b.ID)
	}
}
