// Package sqlite provides a SQLite-backed analysis run store.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/samber/lo"
	_ "modernc.org/sqlite"

	"github.com/renjie/prism-lca/pkg/core/domain"
)

//go:embed schema.sql
var schema string

var runColumns = []string{
	"id",
	"started_at",
	"finished_at",
	"run_trigger",
	"operator",
	"batch_id",
	"trace_id",
	"activity_path",
	"factor_path",
	"activity_rows",
	"skipped_rows",
	"unmatched",
	"outputs",
}

// totalsPerInsert keeps each multi-row insert under SQLite's bound variable limit (32766).
const totalsPerInsert = 500

var totalColumns = []string{
	"product_id",
	"product_name",
	"carbon_impact",
	"energy_impact",
	"water_impact",
	"waste_generated_kg",
}

// Store persists analysis runs in SQLite. It implements ports.RunRepository.
type Store struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite run store and applies the embedded schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: storage path is required", domain.ErrInvalidArgument)
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun stores a run summary and its product totals in one transaction.
func (s *Store) SaveRun(ctx context.Context, run domain.AnalysisRun) (err error) {
	const op = "sqlite.Store.SaveRun"

	if err := ctx.Err(); err != nil {
		return err
	}
	if run.ID == uuid.Nil {
		return fmt.Errorf("%s: %w: empty run id", op, domain.ErrInvalidArgument)
	}

	outputs, err := json.Marshal(nonNil(run.Outputs))
	if err != nil {
		return fmt.Errorf("%s: encode outputs: %w", op, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	sqlStr, args, err := s.sb.
		Insert("runs").
		Columns(runColumns...).
		Values(
			run.ID.String(),
			toMillis(run.StartedAt),
			toMillis(run.FinishedAt),
			string(run.Trigger),
			run.Operator,
			run.BatchID,
			run.TraceID,
			run.ActivityPath,
			run.FactorPath,
			run.ActivityRows,
			run.SkippedRows,
			run.Unmatched,
			string(outputs),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: build insert: %w", op, err)
	}
	if _, err = tx.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("%s: insert run: %w", op, err)
	}

	for n, chunk := range lo.Chunk(run.Totals, totalsPerInsert) {
		q := s.sb.Insert("run_totals").Columns(append([]string{"run_id", "position"}, totalColumns...)...)
		for i, t := range chunk {
			q = q.Values(
				run.ID.String(),
				n*totalsPerInsert+i,
				t.ProductID,
				t.ProductName,
				t.Impacts.Carbon,
				t.Impacts.Energy,
				t.Impacts.Water,
				t.WasteGeneratedKg,
			)
		}
		sqlStr, args, err = q.ToSql()
		if err != nil {
			return fmt.Errorf("%s: build totals insert: %w", op, err)
		}
		if _, err = tx.ExecContext(ctx, sqlStr, args...); err != nil {
			return fmt.Errorf("%s: insert totals: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

// RunByID returns one run with its totals.
func (s *Store) RunByID(ctx context.Context, id uuid.UUID) (*domain.AnalysisRun, error) {
	const op = "sqlite.Store.RunByID"

	sqlStr, args, err := s.sb.
		Select(runColumns...).
		From("runs").
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	run, err := scanRun(s.db.QueryRowContext(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if run.Totals, err = s.totals(ctx, run.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return run, nil
}

// ListRuns returns the most recent runs first. limit <= 0 means no limit.
// Totals are not loaded; use RunByID for the full record.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]domain.AnalysisRun, error) {
	const op = "sqlite.Store.ListRuns"

	q := s.sb.
		Select(runColumns...).
		From("runs").
		OrderBy("started_at DESC", "id")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	runs := make([]domain.AnalysisRun, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return runs, nil
}

func (s *Store) totals(ctx context.Context, runID uuid.UUID) ([]domain.TotalImpact, error) {
	sqlStr, args, err := s.sb.
		Select(totalColumns...).
		From("run_totals").
		Where(sq.Eq{"run_id": runID.String()}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query totals: %w", err)
	}
	defer rows.Close()

	var totals []domain.TotalImpact
	for rows.Next() {
		var t domain.TotalImpact
		if err := rows.Scan(
			&t.ProductID,
			&t.ProductName,
			&t.Impacts.Carbon,
			&t.Impacts.Energy,
			&t.Impacts.Water,
			&t.WasteGeneratedKg,
		); err != nil {
			return nil, fmt.Errorf("scan total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*domain.AnalysisRun, error) {
	var (
		run        domain.AnalysisRun
		id         string
		startedAt  int64
		finishedAt int64
		trigger    string
		outputs    string
	)
	if err := row.Scan(
		&id,
		&startedAt,
		&finishedAt,
		&trigger,
		&run.Operator,
		&run.BatchID,
		&run.TraceID,
		&run.ActivityPath,
		&run.FactorPath,
		&run.ActivityRows,
		&run.SkippedRows,
		&run.Unmatched,
		&outputs,
	); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse run id %q: %w", id, err)
	}
	run.ID = parsed
	run.StartedAt = fromMillis(startedAt)
	run.FinishedAt = fromMillis(finishedAt)
	run.Trigger = domain.RunTrigger(trigger)
	if err := json.Unmarshal([]byte(outputs), &run.Outputs); err != nil {
		return nil, fmt.Errorf("decode outputs: %w", err)
	}
	return &run, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
