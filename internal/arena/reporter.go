package arena

import (
	"fmt"
	"strings"
)

// RunReport summarizes one headless simulation run.
type RunReport struct {
	Seed  int64
	Ticks int

	ShotsFired  int // AI projectile shots
	PlayerHits  int // hitscan hits landed by the player
	Explosions  int
	DamageTotal float64
	Kills       int

	FirstDamageTick int // -1 if no damage occurred
	FirstKillTick   int // -1 if nobody died

	AliveEnemies int
	AliveAllies  int
	ModeChanges  int
}

// BuildRunReport derives a report from a finished harness.
func BuildRunReport(h *SimHarness) RunReport {
	r := RunReport{
		Seed:            h.Seed(),
		Ticks:           h.CurrentTick(),
		FirstDamageTick: -1,
		FirstKillTick:   -1,
		AliveEnemies:    h.Roster.AliveEnemies(),
		AliveAllies:     h.Roster.AliveAllies(),
	}

	r.ShotsFired = len(h.Log.Filter("fire", "shot"))
	r.PlayerHits = len(h.Log.Filter("fire", "hitscan_hit"))
	r.Explosions = len(h.Log.Filter("grenade", "explosion"))
	r.ModeChanges = len(h.Log.Filter("ai", "mode_change"))

	for _, e := range h.Log.Filter("health", "damage") {
		r.DamageTotal += e.NumVal
		if r.FirstDamageTick < 0 {
			r.FirstDamageTick = e.Tick
		}
	}
	for _, e := range h.Log.Filter("health", "killed") {
		r.Kills++
		if r.FirstKillTick < 0 {
			r.FirstKillTick = e.Tick
		}
	}
	return r
}

// String renders the report as a fixed-width block.
func (r RunReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "seed=%d ticks=%d\n", r.Seed, r.Ticks)
	fmt.Fprintf(&b, "  shots=%d player_hits=%d explosions=%d\n",
		r.ShotsFired, r.PlayerHits, r.Explosions)
	fmt.Fprintf(&b, "  damage=%.0f kills=%d first_damage=T%d first_kill=T%d\n",
		r.DamageTotal, r.Kills, r.FirstDamageTick, r.FirstKillTick)
	fmt.Fprintf(&b, "  alive: enemies=%d allies=%d mode_changes=%d\n",
		r.AliveEnemies, r.AliveAllies, r.ModeChanges)
	return b.String()
}

// AggregateReport summarizes a batch of runs.
type AggregateReport struct {
	Runs            int
	AvgShots        float64
	AvgKills        float64
	AvgDamage       float64
	AvgExplosions   float64
	RunsWithDamage  int
	RunsWithKills   int
}

// Aggregate folds a set of run reports.
func Aggregate(reports []RunReport) AggregateReport {
	agg := AggregateReport{Runs: len(reports)}
	if agg.Runs == 0 {
		return agg
	}
	for _, r := range reports {
		agg.AvgShots += float64(r.ShotsFired)
		agg.AvgKills += float64(r.Kills)
		agg.AvgDamage += r.DamageTotal
		agg.AvgExplosions += float64(r.Explosions)
		if r.FirstDamageTick >= 0 {
			agg.RunsWithDamage++
		}
		if r.Kills > 0 {
			agg.RunsWithKills++
		}
	}
	n := float64(agg.Runs)
	agg.AvgShots /= n
	agg.AvgKills /= n
	agg.AvgDamage /= n
	agg.AvgExplosions /= n
	return agg
}

// String renders the aggregate block.
func (a AggregateReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== Aggregate (%d runs) ===\n", a.Runs)
	fmt.Fprintf(&b, "avg shots=%.1f kills=%.1f damage=%.0f explosions=%.1f\n",
		a.AvgShots, a.AvgKills, a.AvgDamage, a.AvgExplosions)
	fmt.Fprintf(&b, "runs with damage: %d/%d, with kills: %d/%d\n",
		a.RunsWithDamage, a.Runs, a.RunsWithKills, a.Runs)
	return b.String()
}
