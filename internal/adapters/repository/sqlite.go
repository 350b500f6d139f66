package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/okian/muster/internal/domain/personnel"
	"github.com/okian/muster/pkg/metrics"
)

const personnelColumns = `id, position, batch_id, name, rank, unit, branch, specialization,
	base_location, aircraft_assigned, age, years_of_service, readiness_score,
	fitness_score, stress_index, engagement_score, performance_score,
	leadership_potential, performance_rating, attrition_risk, skills_str,
	injury_history_str, last_medical_check, next_promotion_due`

// SQLiteStore implements RosterStore using SQLite. Records are stored in
// their wire form and decoded on read.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
// ":memory:" opens a private in-memory database.
func NewSQLiteStore(dbPath string, opts ...Option) (*SQLiteStore, error) {
	dsn := ":memory:"
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		dsn = dbPath + "?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if dsn == ":memory:" {
		// Each connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}

	s := &SQLiteStore{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS import_batches (
		id           TEXT PRIMARY KEY,
		source       TEXT NOT NULL,
		record_count INTEGER NOT NULL,
		imported_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS personnel (
		id                   TEXT PRIMARY KEY,
		position             INTEGER NOT NULL,
		batch_id             TEXT NOT NULL REFERENCES import_batches(id),
		name                 TEXT NOT NULL,
		rank                 TEXT NOT NULL,
		unit                 TEXT NOT NULL,
		branch               TEXT NOT NULL,
		specialization       TEXT NOT NULL,
		base_location        TEXT NOT NULL DEFAULT '',
		aircraft_assigned    TEXT NOT NULL DEFAULT '',
		age                  INTEGER NOT NULL,
		years_of_service     INTEGER NOT NULL,
		readiness_score      REAL NOT NULL,
		fitness_score        REAL NOT NULL,
		stress_index         REAL NOT NULL,
		engagement_score     REAL NOT NULL,
		performance_score    REAL NOT NULL,
		leadership_potential TEXT NOT NULL,
		performance_rating   TEXT NOT NULL,
		attrition_risk       INTEGER NOT NULL DEFAULT 0,
		skills_str           TEXT NOT NULL DEFAULT '',
		injury_history_str   TEXT NOT NULL DEFAULT '',
		last_medical_check   TEXT NOT NULL DEFAULT '',
		next_promotion_due   TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_personnel_position ON personnel(position);
	CREATE INDEX IF NOT EXISTS idx_personnel_unit ON personnel(unit);
	CREATE INDEX IF NOT EXISTS idx_batches_imported ON import_batches(imported_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func observe(op string, start time.Time) {
	metrics.RecordStoreQueryLatency(op, float64(time.Since(start).Microseconds())/1000)
}

// ReplaceAll validates roster and swaps it in as the stored roster.
func (s *SQLiteStore) ReplaceAll(ctx context.Context, roster personnel.Roster, source string) (ImportBatch, error) {
	defer observe("replace_all", time.Now())

	if err := personnel.ValidateRoster(roster); err != nil {
		return ImportBatch{}, err
	}

	batch := ImportBatch{
		ID:         ulid.Make().String(),
		Source:     source,
		Records:    len(roster),
		ImportedAt: s.now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportBatch{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM personnel`); err != nil {
		return ImportBatch{}, fmt.Errorf("clear personnel: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO import_batches (id, source, record_count, imported_at) VALUES (?, ?, ?, ?)`,
		batch.ID, batch.Source, batch.Records, batch.ImportedAt.Format(time.RFC3339Nano)); err != nil {
		return ImportBatch{}, fmt.Errorf("insert batch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO personnel (`+personnelColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return ImportBatch{}, fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range roster {
		w := personnel.Encode(r)
		if _, err := stmt.ExecContext(ctx,
			w.ID, i, batch.ID, w.Name, w.Rank, w.Unit, w.Branch, w.Specialization,
			w.BaseLocation, w.AircraftAssigned, *w.Age, *w.YearsOfService, *w.ReadinessScore,
			*w.FitnessScore, *w.StressIndex, *w.EngagementScore, *w.PerformanceScore,
			w.LeadershipPotential, w.PerformanceRating, w.AttritionRisk, w.SkillsStr,
			w.InjuryHistoryStr, w.LastMedicalCheck, w.NextPromotionDue,
		); err != nil {
			return ImportBatch{}, fmt.Errorf("insert %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return ImportBatch{}, fmt.Errorf("commit: %w", err)
	}
	return batch, nil
}

// All returns the stored roster in import order.
func (s *SQLiteStore) All(ctx context.Context) (personnel.Roster, error) {
	defer observe("all", time.Now())

	rows, err := s.db.QueryContext(ctx, `SELECT `+personnelColumns+` FROM personnel ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query personnel: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var wire []personnel.WireRecord
	for rows.Next() {
		w, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		wire = append(wire, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate personnel: %w", err)
	}
	return personnel.DecodeRoster(wire)
}

// Get returns the record with id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (personnel.Record, error) {
	defer observe("get", time.Now())

	row := s.db.QueryRowContext(ctx, `SELECT `+personnelColumns+` FROM personnel WHERE id = ?`, id)
	w, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return personnel.Record{}, fmt.Errorf("personnel %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return personnel.Record{}, err
	}
	return personnel.Decode(w)
}

// Count returns the number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	defer observe("count", time.Now())

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM personnel`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count personnel: %w", err)
	}
	return n, nil
}

// LastImport returns the most recent import batch.
func (s *SQLiteStore) LastImport(ctx context.Context) (ImportBatch, error) {
	defer observe("last_import", time.Now())

	var (
		b          ImportBatch
		importedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, record_count, imported_at FROM import_batches
		 ORDER BY imported_at DESC, id DESC LIMIT 1`).Scan(&b.ID, &b.Source, &b.Records, &importedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ImportBatch{}, fmt.Errorf("import batch: %w", ErrNotFound)
	}
	if err != nil {
		return ImportBatch{}, fmt.Errorf("query import batch: %w", err)
	}
	if b.ImportedAt, err = time.Parse(time.RFC3339Nano, importedAt); err != nil {
		return ImportBatch{}, fmt.Errorf("parse import time: %w", err)
	}
	return b, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (personnel.WireRecord, error) {
	var (
		w        personnel.WireRecord
		position int
		batchID  string
		age, yos int
		scores   [5]float64
	)
	err := row.Scan(
		&w.ID, &position, &batchID, &w.Name, &w.Rank, &w.Unit, &w.Branch, &w.Specialization,
		&w.BaseLocation, &w.AircraftAssigned, &age, &yos, &scores[0],
		&scores[1], &scores[2], &scores[3], &scores[4],
		&w.LeadershipPotential, &w.PerformanceRating, &w.AttritionRisk, &w.SkillsStr,
		&w.InjuryHistoryStr, &w.LastMedicalCheck, &w.NextPromotionDue,
	)
	if err != nil {
		return personnel.WireRecord{}, err
	}
	w.Age, w.YearsOfService = &age, &yos
	w.ReadinessScore, w.FitnessScore, w.StressIndex = &scores[0], &scores[1], &scores[2]
	w.EngagementScore, w.PerformanceScore = &scores[3], &scores[4]
	return w, nil
}
