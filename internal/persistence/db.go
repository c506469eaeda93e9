// Package persistence provides the SQLite run archive. Each completed
// Monte Carlo batch run is stored under a generated run ID together
// with its configuration and every augmented location record, so past
// atlases can be listed and replayed for audit. Only finished outputs
// are archived; the engine itself keeps no state between runs.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/risk-atlas/internal/atlas"
	"github.com/talgya/risk-atlas/internal/montecarlo"
)

// DB wraps a SQLite connection for the run archive.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates the archive database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		global_seed INTEGER NOT NULL,
		iterations INTEGER NOT NULL,
		locations INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_locations (
		run_id TEXT NOT NULL REFERENCES runs(id),
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		project_type TEXT NOT NULL,
		lat REAL NOT NULL,
		lon REAL NOT NULL,
		record_json TEXT NOT NULL,
		PRIMARY KEY (run_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_run_locations_run ON run_locations(run_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RunMeta describes one archived run.
type RunMeta struct {
	ID         string `db:"id" json:"id"`
	CreatedAt  string `db:"created_at" json:"created_at"`
	GlobalSeed int64  `db:"global_seed" json:"global_seed"`
	Iterations int    `db:"iterations" json:"iterations"`
	Locations  int    `db:"locations" json:"locations"`
}

// SaveRun archives a completed batch and returns its generated run ID.
// Records are stored in their sorted output order.
func (db *DB) SaveRun(cfg montecarlo.Config, records []atlas.LocationRecord) (string, error) {
	runID := uuid.NewString()

	tx, err := db.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO runs (id, created_at, global_seed, iterations, locations) VALUES (?, ?, ?, ?, ?)",
		runID, time.Now().UTC().Format(time.RFC3339), cfg.Seed, cfg.Iterations, len(records),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Preparex(`INSERT INTO run_locations
		(run_id, position, name, project_type, lat, lon, record_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for i, rec := range records {
		recJSON, err := json.Marshal(rec)
		if err != nil {
			return "", fmt.Errorf("marshal record %q: %w", rec.Name, err)
		}
		_, err = stmt.Exec(runID, i, rec.Name, string(rec.ProjectType),
			rec.Location.Lat, rec.Location.Lon, string(recJSON))
		if err != nil {
			return "", fmt.Errorf("insert location %q: %w", rec.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	slog.Info("run archived", "run_id", runID, "locations", len(records))
	return runID, nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]RunMeta, error) {
	var runs []RunMeta
	err := db.conn.Select(&runs,
		"SELECT id, created_at, global_seed, iterations, locations FROM runs ORDER BY created_at DESC LIMIT ?",
		limit,
	)
	return runs, err
}

// LoadRun returns a run's metadata and its archived records in output
// order.
func (db *DB) LoadRun(id string) (RunMeta, []atlas.LocationRecord, error) {
	var meta RunMeta
	if err := db.conn.Get(&meta,
		"SELECT id, created_at, global_seed, iterations, locations FROM runs WHERE id = ?", id); err != nil {
		return RunMeta{}, nil, fmt.Errorf("load run %s: %w", id, err)
	}

	var rows []string
	if err := db.conn.Select(&rows,
		"SELECT record_json FROM run_locations WHERE run_id = ? ORDER BY position", id); err != nil {
		return RunMeta{}, nil, fmt.Errorf("load run %s locations: %w", id, err)
	}

	records := make([]atlas.LocationRecord, 0, len(rows))
	for _, raw := range rows {
		var rec atlas.LocationRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return RunMeta{}, nil, fmt.Errorf("unmarshal run %s record: %w", id, err)
		}
		records = append(records, rec)
	}

	return meta, records, nil
}

// DeleteRun removes a run and its records.
func (db *DB) DeleteRun(id string) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM run_locations WHERE run_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM runs WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}
