package main

import (
	"testing"

	"github.com/Garsondee/Arena-Sense/internal/arena"
)

func TestNearestEnemy_PicksClosestAlive(t *testing.T) {
	h := arena.NewSimHarness(
		arena.WithSeed(7),
		arena.WithPlayer(0, 0),
		arena.WithEnemy(0, 100, 0, arena.ModeRoam),
		arena.WithEnemy(1, 30, 0, arena.ModeRoam),
		arena.WithEnemy(2, -60, 0, arena.ModeRoam),
	)

	best, dist := nearestEnemy(h)
	if best == nil || best.ID() != 1 {
		t.Fatalf("expected enemy 1 to be nearest, got %v", best)
	}
	if dist < 29 || dist > 31 {
		t.Fatalf("expected distance around 30, got %.2f", dist)
	}
}

func TestScenarios_AllBuildAndRun(t *testing.T) {
	cfgs := arena.DefaultWeaponConfigs()
	for name, build := range scenarios {
		h := build(11, cfgs)
		if h.Player() == nil {
			t.Fatalf("scenario %s: no player", name)
		}
		runAutoPlayer(h, 120)
		if h.CurrentTick() == 0 {
			t.Fatalf("scenario %s: simulation did not advance", name)
		}
	}
}

func TestRunAutoPlayer_StopsWhenEnemiesDown(t *testing.T) {
	// A single adjacent enemy should fall well before the tick budget.
	h := arena.NewSimHarness(
		arena.WithSeed(3),
		arena.WithPlayer(0, 0),
		arena.WithEnemy(0, 10, 0, arena.ModeRoam),
	)
	runAutoPlayer(h, 3600)
	if h.Roster.AliveEnemies() != 0 {
		t.Fatalf("expected the lone enemy to be eliminated, %d still alive", h.Roster.AliveEnemies())
	}
	if h.CurrentTick() >= 3600 {
		t.Fatalf("expected early stop after elimination, ran full %d ticks", h.CurrentTick())
	}
}
