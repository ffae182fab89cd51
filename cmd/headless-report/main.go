package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/Garsondee/Arena-Sense/internal/arena"
)

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var scenario string
	var dbPath string
	var weaponsPath string

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "hunt-pack", "scenario name")
	flag.StringVar(&dbPath, "db", "", "optional sqlite file to append run rows to")
	flag.StringVar(&weaponsPath, "weapons", "", "optional weapons tuning file")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	build, ok := scenarios[scenario]
	if !ok {
		fmt.Printf("error: unsupported scenario %q (supported: %s)\n", scenario, scenarioNames)
		return
	}

	cfgs := arena.DefaultWeaponConfigs()
	if weaponsPath != "" {
		loaded, err := arena.LoadWeaponConfigs(weaponsPath)
		if err != nil {
			fmt.Printf("error: loading weapons file: %v\n", err)
			os.Exit(1)
		}
		cfgs = loaded
	}

	var store *arena.ReportStore
	if dbPath != "" {
		var err error
		store, err = arena.OpenReportStore(dbPath)
		if err != nil {
			fmt.Printf("error: opening report store: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	fmt.Printf("=== Headless Arena Report ===\n")
	fmt.Printf("scenario=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n",
		scenario, runs, ticks, seedBase, seedStep)

	reports := make([]arena.RunReport, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		h := build(seed, cfgs)
		runAutoPlayer(h, ticks)
		r := arena.BuildRunReport(h)
		reports = append(reports, r)

		fmt.Printf("--- Run %d ---\n%s\n", i+1, r)
		if store != nil {
			if err := store.InsertRun(scenario, r); err != nil {
				fmt.Printf("warning: insert failed: %v\n", err)
			}
		}
	}

	fmt.Println(arena.Aggregate(reports))

	if store != nil {
		if n, err := store.RunCount(scenario); err == nil {
			fmt.Printf("store: %d total rows for scenario %q in %s\n", n, scenario, dbPath)
		}
	}
}

type scenarioFunc func(seed int64, cfgs map[arena.WeaponKind]arena.WeaponConfig) *arena.SimHarness

const scenarioNames = "hunt-pack, group-assault, ally-defense"

var scenarios = map[string]scenarioFunc{
	// A pack of hunters converging on a lone player.
	"hunt-pack": func(seed int64, cfgs map[arena.WeaponKind]arena.WeaponConfig) *arena.SimHarness {
		return arena.NewSimHarness(
			arena.WithArenaSize(200),
			arena.WithSeed(seed),
			arena.WithWeaponConfigs(cfgs),
			arena.WithPlayer(0, 0),
			arena.WithEnemy(0, 120, 120, arena.ModeHunt),
			arena.WithEnemy(1, -130, 100, arena.ModeHunt),
			arena.WithEnemy(2, 100, -140, arena.ModeHunt),
			arena.WithEnemy(3, -110, -120, arena.ModeHunt),
		)
	},
	// A five-strong formation advancing on the player through a pillar field.
	"group-assault": func(seed int64, cfgs map[arena.WeaponKind]arena.WeaponConfig) *arena.SimHarness {
		return arena.NewSimHarness(
			arena.WithArenaSize(250),
			arena.WithSeed(seed),
			arena.WithWeaponConfigs(cfgs),
			arena.WithPlayer(0, 0),
			arena.WithEnemy(0, 180, 180, arena.ModeGroupFormation),
			arena.WithEnemy(1, 185, 175, arena.ModeGroupFormation),
			arena.WithEnemy(2, 175, 185, arena.ModeGroupFormation),
			arena.WithEnemy(3, 190, 180, arena.ModeGroupFormation),
			arena.WithEnemy(4, 180, 190, arena.ModeGroupFormation),
			arena.WithEnemyGroup(0, 1, 2, 3, 4),
			arena.WithPillar(60, 60, 5),
			arena.WithPillar(90, 120, 8),
		)
	},
	// Two supporting allies screening the player against a mixed attack.
	"ally-defense": func(seed int64, cfgs map[arena.WeaponKind]arena.WeaponConfig) *arena.SimHarness {
		return arena.NewSimHarness(
			arena.WithArenaSize(200),
			arena.WithSeed(seed),
			arena.WithWeaponConfigs(cfgs),
			arena.WithPlayer(0, 0),
			arena.WithAlly(100, -10, 0),
			arena.WithAlly(101, 10, 0),
			arena.WithEnemy(0, 150, 150, arena.ModeHunt),
			arena.WithEnemy(1, -150, 150, arena.ModeHunt),
			arena.WithEnemy(2, 0, -170, arena.ModeRoam),
		)
	},
}

// runAutoPlayer drives the run with a scripted player: each tick it aims at
// the nearest live enemy and holds the trigger while one is in rifle range.
func runAutoPlayer(h *arena.SimHarness, ticks int) {
	wm := h.Coord.Weapons()
	rifleRange := wm.Weapon(arena.WeaponRifle).Config.Range
	for i := 0; i < ticks; i++ {
		target, dist := nearestEnemy(h)
		if target != nil && dist <= rifleRange {
			h.AimPlayerAt(target)
			wm.StartFiring()
		} else {
			wm.StopFiring()
		}
		h.RunTicks(1)
		if h.Roster.AliveEnemies() == 0 || !h.Player().Alive() {
			break
		}
	}
	wm.StopFiring()
}

func nearestEnemy(h *arena.SimHarness) (*arena.Agent, float64) {
	p := h.Player().Position()
	var best *arena.Agent
	bestDist := math.Inf(1)
	for _, e := range h.Roster.GetEnemies() {
		if !e.Alive() {
			continue
		}
		d := p.DistTo(e.Position())
		if d < bestDist {
			best = e
			bestDist = d
		}
	}
	return best, bestDist
}
