package arena

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func newRifle() *WeaponState {
	return NewWeaponState(WeaponRifle, DefaultWeaponConfigs()[WeaponRifle])
}

func TestTryFire_RespectsFireInterval(t *testing.T) {
	w := newRifle() // 600 rpm, interval 0.1s

	if !w.TryFire() {
		t.Fatal("first shot should never be rate-gated")
	}
	if w.CurrentAmmo != 31 {
		t.Fatalf("expected ammo 31 after first shot, got %d", w.CurrentAmmo)
	}

	w.Update(0.05)
	if w.TryFire() {
		t.Fatal("shot at t=0.05 should be gated (interval 0.1s)")
	}
	if w.CurrentAmmo != 31 {
		t.Fatalf("gated shot must not consume ammo, got %d", w.CurrentAmmo)
	}

	w.Update(0.06) // t=0.11
	if !w.TryFire() {
		t.Fatal("shot at t=0.11 should pass the gate")
	}
	if w.CurrentAmmo != 30 {
		t.Fatalf("expected ammo 30, got %d", w.CurrentAmmo)
	}
}

func TestReload_TransfersFromReserveAfterDelay(t *testing.T) {
	w := newRifle() // maxAmmo 32, reserve 288, reloadTime 2.5s
	w.CurrentAmmo = 5

	w.Reload()
	if !w.IsReloading() {
		t.Fatal("reload should have started")
	}
	if w.CurrentAmmo != 5 || w.ReserveAmmo != 288 {
		t.Fatal("ammo must not move until the reload completes")
	}

	// 151 ticks at 60Hz comfortably exceeds 2.5s.
	for i := 0; i < 151; i++ {
		w.Update(1.0 / 60.0)
	}
	if w.IsReloading() {
		t.Fatal("reload should have completed")
	}
	if w.CurrentAmmo != 32 {
		t.Fatalf("expected full magazine 32, got %d", w.CurrentAmmo)
	}
	if w.ReserveAmmo != 261 {
		t.Fatalf("expected reserve 261 (288-27), got %d", w.ReserveAmmo)
	}
}

func TestTryFire_NoOpWhileReloading(t *testing.T) {
	w := newRifle()
	w.CurrentAmmo = 5
	w.Reload()

	w.Update(1.0) // mid-reload
	if w.TryFire() {
		t.Fatal("fire during reload must be a no-op")
	}
	if w.CurrentAmmo != 5 {
		t.Fatalf("ammo changed during reload: %d", w.CurrentAmmo)
	}
}

func TestReload_NoOpWhenFullOrNoReserve(t *testing.T) {
	w := newRifle()
	w.Reload()
	if w.IsReloading() {
		t.Fatal("reload with a full magazine should be a no-op")
	}

	w.CurrentAmmo = 3
	w.ReserveAmmo = 0
	w.Reload()
	if w.IsReloading() {
		t.Fatal("reload with an empty reserve should be a no-op")
	}
}

func TestReload_PartialReserve(t *testing.T) {
	w := newRifle()
	w.CurrentAmmo = 0
	w.ReserveAmmo = 10

	w.Reload()
	w.Update(3.0)
	if w.CurrentAmmo != 10 || w.ReserveAmmo != 0 {
		t.Fatalf("expected 10/0 after draining the reserve, got %d/%d",
			w.CurrentAmmo, w.ReserveAmmo)
	}
}

func TestUpdate_AutoReloadsOnEmptyMagazine(t *testing.T) {
	w := newRifle()
	w.CurrentAmmo = 1

	if !w.TryFire() {
		t.Fatal("last round should fire")
	}
	w.Update(1.0 / 60.0)
	if !w.IsReloading() {
		t.Fatal("empty magazine with reserve should auto-reload")
	}
}

func TestGrenadeState_NeverReloads(t *testing.T) {
	w := NewWeaponState(WeaponGrenade, DefaultWeaponConfigs()[WeaponGrenade])

	for i := 0; i < 3; i++ {
		if !w.TryFire() {
			t.Fatalf("throw %d should succeed", i+1)
		}
		w.Update(2.0) // clear the fire gate
	}
	if w.TryFire() {
		t.Fatal("fourth throw with no grenades left should fail")
	}
	if w.IsReloading() {
		t.Fatal("a thrown weapon has no reserve and must never reload")
	}
	w.Update(10.0)
	if w.CurrentAmmo != 0 {
		t.Fatalf("grenade count resurrected to %d", w.CurrentAmmo)
	}
}

func TestFireInterval_ZeroRateNeverFiresTwice(t *testing.T) {
	cfg := DefaultWeaponConfigs()[WeaponRifle]
	cfg.FireRate = 0
	if !math.IsInf(cfg.FireInterval(), 1) {
		t.Fatal("zero fire rate should produce an infinite interval")
	}
}

func TestAmmoBounds_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		w := newRifle()
		steps := rapid.IntRange(1, 400).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 2).Draw(rt, "op") {
			case 0:
				w.TryFire()
			case 1:
				w.Reload()
			case 2:
				w.Update(rapid.Float64Range(0, 0.5).Draw(rt, "dt"))
			}
			if w.CurrentAmmo < 0 || w.CurrentAmmo > w.Config.MaxAmmo {
				rt.Fatalf("current ammo out of bounds: %d", w.CurrentAmmo)
			}
			if w.ReserveAmmo < 0 {
				rt.Fatalf("reserve ammo negative: %d", w.ReserveAmmo)
			}
		}
	})
}

func TestManager_SwitchDoesNotCancelReload(t *testing.T) {
	m := NewWeaponManager(DefaultWeaponConfigs(), WeaponRifle, WeaponPistol)
	m.Weapon(WeaponRifle).CurrentAmmo = 5
	m.Reload()
	if !m.Weapon(WeaponRifle).IsReloading() {
		t.Fatal("rifle reload should have started")
	}

	m.SwitchWeapon(WeaponPistol)
	for i := 0; i < 160; i++ {
		m.Update(1.0 / 60.0)
	}

	rifle := m.Weapon(WeaponRifle)
	if rifle.IsReloading() {
		t.Fatal("holstered rifle reload should still have completed")
	}
	if rifle.CurrentAmmo != 32 {
		t.Fatalf("expected holstered rifle refilled to 32, got %d", rifle.CurrentAmmo)
	}
}

func TestManager_ContinuousFireDrainsMagazine(t *testing.T) {
	m := NewWeaponManager(DefaultWeaponConfigs(), WeaponPistol)
	m.StartFiring()

	// 300 rpm = 5 rounds/s; two seconds empties a dozen-round magazine.
	for i := 0; i < 150; i++ {
		m.Update(1.0 / 60.0)
	}
	got := m.Current().CurrentAmmo
	if got > 1 {
		t.Fatalf("expected the pistol magazine nearly drained, got %d", got)
	}
}

func TestManager_SwitchToUncarriedIsNoOp(t *testing.T) {
	m := NewWeaponManager(DefaultWeaponConfigs(), WeaponRifle)
	m.SwitchWeapon(WeaponKnife)
	if m.Current().Kind != WeaponRifle {
		t.Fatalf("selection moved to an uncarried weapon: %v", m.Current().Kind)
	}
}
