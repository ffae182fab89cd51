package arena

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// ReportStore records headless run reports into a SQLite database. It holds
// derived reporting output only, never live game state.
type ReportStore struct {
	conn *sqlx.DB
}

// OpenReportStore opens or creates the report database at the given path.
func OpenReportStore(path string) (*ReportStore, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open report db: %w", err)
	}
	rs := &ReportStore{conn: conn}
	if err := rs.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate report db: %w", err)
	}
	return rs, nil
}

// Close closes the database connection.
func (rs *ReportStore) Close() error {
	return rs.conn.Close()
}

func (rs *ReportStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		recorded_at TEXT NOT NULL,
		scenario TEXT NOT NULL,
		seed INTEGER NOT NULL,
		ticks INTEGER NOT NULL,
		shots_fired INTEGER NOT NULL,
		player_hits INTEGER NOT NULL,
		explosions INTEGER NOT NULL,
		damage_total REAL NOT NULL,
		kills INTEGER NOT NULL,
		first_damage_tick INTEGER NOT NULL,
		first_kill_tick INTEGER NOT NULL,
		alive_enemies INTEGER NOT NULL,
		alive_allies INTEGER NOT NULL
	);`
	_, err := rs.conn.Exec(schema)
	return err
}

// InsertRun records one run report under a scenario name.
func (rs *ReportStore) InsertRun(scenario string, r RunReport) error {
	_, err := rs.conn.Exec(`
		INSERT INTO runs (
			recorded_at, scenario, seed, ticks,
			shots_fired, player_hits, explosions,
			damage_total, kills, first_damage_tick, first_kill_tick,
			alive_enemies, alive_allies
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), scenario, r.Seed, r.Ticks,
		r.ShotsFired, r.PlayerHits, r.Explosions,
		r.DamageTotal, r.Kills, r.FirstDamageTick, r.FirstKillTick,
		r.AliveEnemies, r.AliveAllies,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RunCount returns the number of recorded runs for a scenario.
func (rs *ReportStore) RunCount(scenario string) (int, error) {
	var n int
	if err := rs.conn.Get(&n, `SELECT COUNT(*) FROM runs WHERE scenario = ?`, scenario); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}
