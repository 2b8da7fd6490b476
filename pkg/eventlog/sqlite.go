// Package eventlog persists relocation results: a SQLite index with one row
// per executed move and one summary row per simulated year, and a compressed
// JSONL journal of the same records.
package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/msmobility/silo-sub013/pkg/market"
	"github.com/msmobility/silo-sub013/pkg/relocation"
)

// Log is a SQLite-backed relocation.EventSink.
type Log struct {
	db *sql.DB
}

var _ relocation.EventSink = (*Log)(nil)

// YearRow is the stored summary of one year.
type YearRow struct {
	Year             int       `json:"year"`
	Households       int       `json:"households"`
	Stayed           int       `json:"stayed"`
	Moved            int       `json:"moved"`
	Forced           int       `json:"forced"`
	FailedNoRegion   int       `json:"failed_no_region"`
	FailedNoDwelling int       `json:"failed_no_dwelling"`
	MissingLookups   int64     `json:"missing_lookups"`
	Satisfaction     []float64 `json:"satisfaction"`
}

func yearRow(r *relocation.YearReport) YearRow {
	row := YearRow{
		Year:             r.Year,
		Households:       r.Households,
		Stayed:           r.Stayed,
		Moved:            r.Moved,
		Forced:           r.Forced,
		FailedNoRegion:   r.FailedNoRegion,
		FailedNoDwelling: r.FailedNoDwelling,
		MissingLookups:   r.MissingLookups,
	}
	if r.Satisfaction != nil {
		row.Satisfaction = r.Satisfaction.Average
	}
	return row
}

// OpenSQLite opens or creates the event log at path.
func OpenSQLite(path string) (*Log, error) {
	if path == "" {
		return nil, fmt.Errorf("empty event log path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Log{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS years (
			year INTEGER PRIMARY KEY,
			households INTEGER NOT NULL,
			stayed INTEGER NOT NULL,
			moved INTEGER NOT NULL,
			forced INTEGER NOT NULL,
			failed_no_region INTEGER NOT NULL,
			failed_no_dwelling INTEGER NOT NULL,
			missing_lookups INTEGER NOT NULL,
			satisfaction_json TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS moves (
			year INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			household INTEGER NOT NULL,
			from_dwelling INTEGER NOT NULL,
			to_dwelling INTEGER NOT NULL,
			from_region INTEGER NOT NULL,
			to_region INTEGER NOT NULL,
			forced INTEGER NOT NULL,
			PRIMARY KEY (year, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_moves_household_year ON moves(household, year);`,
		`CREATE INDEX IF NOT EXISTS idx_moves_to_region_year ON moves(to_region, year);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (l *Log) Close() error {
	return l.db.Close()
}

// RecordYear stores a year's summary and moves in one transaction, replacing
// anything previously stored for that year.
func (l *Log) RecordYear(ctx context.Context, r *relocation.YearReport) error {
	row := yearRow(r)
	satJSON, err := json.Marshal(row.Satisfaction)
	if err != nil {
		return err
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM moves WHERE year=?`, r.Year); err != nil {
		return fmt.Errorf("clearing moves of %d: %w", r.Year, err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO years(year,households,stayed,moved,forced,failed_no_region,failed_no_dwelling,missing_lookups,satisfaction_json)
		 VALUES(?,?,?,?,?,?,?,?,?)`,
		row.Year, row.Households, row.Stayed, row.Moved, row.Forced, row.FailedNoRegion, row.FailedNoDwelling, row.MissingLookups, string(satJSON))
	if err != nil {
		return fmt.Errorf("storing year %d: %w", r.Year, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO moves(year,seq,household,from_dwelling,to_dwelling,from_region,to_region,forced) VALUES(?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, m := range r.Moves {
		if _, err := stmt.ExecContext(ctx, m.Year, m.Seq, int(m.Household), int(m.From), int(m.To),
			int(m.FromRegion), int(m.ToRegion), boolInt(m.Forced)); err != nil {
			return fmt.Errorf("storing move %d of %d: %w", m.Seq, r.Year, err)
		}
	}
	return tx.Commit()
}

// Years returns the stored year summaries in ascending order.
func (l *Log) Years(ctx context.Context) ([]YearRow, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT year,households,stayed,moved,forced,failed_no_region,failed_no_dwelling,missing_lookups,satisfaction_json
		 FROM years ORDER BY year`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []YearRow
	for rows.Next() {
		var y YearRow
		var satJSON string
		if err := rows.Scan(&y.Year, &y.Households, &y.Stayed, &y.Moved, &y.Forced,
			&y.FailedNoRegion, &y.FailedNoDwelling, &y.MissingLookups, &satJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(satJSON), &y.Satisfaction); err != nil {
			return nil, fmt.Errorf("year %d satisfaction: %w", y.Year, err)
		}
		out = append(out, y)
	}
	return out, rows.Err()
}

// Moves returns the moves of a year in execution order.
func (l *Log) Moves(ctx context.Context, year int) ([]relocation.MoveEvent, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT seq,household,from_dwelling,to_dwelling,from_region,to_region,forced
		 FROM moves WHERE year=? ORDER BY seq`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []relocation.MoveEvent
	for rows.Next() {
		var (
			seq, hh, from, to, fromRegion, toRegion, forced int
		)
		if err := rows.Scan(&seq, &hh, &from, &to, &fromRegion, &toRegion, &forced); err != nil {
			return nil, err
		}
		out = append(out, relocation.MoveEvent{
			Year:       year,
			Seq:        seq,
			Household:  market.HouseholdID(hh),
			From:       market.DwellingID(from),
			To:         market.DwellingID(to),
			FromRegion: market.RegionID(fromRegion),
			ToRegion:   market.RegionID(toRegion),
			Forced:     forced != 0,
		})
	}
	return out, rows.Err()
}

// HouseholdMoves counts the stored moves of one household over all years.
func (l *Log) HouseholdMoves(ctx context.Context, id market.HouseholdID) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM moves WHERE household=?`, int(id)).Scan(&n)
	return n, err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
