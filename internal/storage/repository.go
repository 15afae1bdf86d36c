// Package storage persists screening runs to PostgreSQL.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nordvik/nordscreen/internal/contracts"
)

// RunRecord is one stored screening run.
type RunRecord struct {
	ID           int64                       `json:"id"`
	RunAt        time.Time                   `json:"run_at"`
	CompanyCount int                         `json:"company_count"`
	PassedCount  int                         `json:"passed_count"`
	Results      []contracts.ScreeningResult `json:"results"`
}

// ErrNoRuns is returned when no screening run has been stored yet.
var ErrNoRuns = errors.New("no screening runs stored")

// Repository handles persistence of screening runs.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the screening tables when they do not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE SCHEMA IF NOT EXISTS screening;

		CREATE TABLE IF NOT EXISTS screening.runs (
			id            BIGSERIAL PRIMARY KEY,
			run_at        TIMESTAMPTZ NOT NULL,
			company_count INT NOT NULL,
			passed_count  INT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS screening.results (
			run_id       BIGINT NOT NULL REFERENCES screening.runs(id) ON DELETE CASCADE,
			rank         INT NOT NULL,
			ticker       TEXT NOT NULL,
			name         TEXT NOT NULL,
			exchange     TEXT NOT NULL,
			sector       TEXT NOT NULL DEFAULT '',
			industry     TEXT NOT NULL DEFAULT '',
			passed_all   BOOLEAN NOT NULL,
			passed_count INT NOT NULL,
			fail_reason  TEXT NOT NULL DEFAULT '',
			metrics      JSONB NOT NULL,
			growth       JSONB NOT NULL,
			filters      JSONB NOT NULL,
			PRIMARY KEY (run_id, ticker)
		);

		CREATE INDEX IF NOT EXISTS idx_results_run_rank
			ON screening.results (run_id, rank);
	`

	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("create screening schema: %w", err)
	}
	return nil
}

// SaveRun stores a completed screening run and its per-company results
// in one transaction, returning the run id.
func (r *Repository) SaveRun(ctx context.Context, runAt time.Time, results []contracts.ScreeningResult) (int64, error) {
	passed := 0
	for _, res := range results {
		if res.PassedAll {
			passed++
		}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var runID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO screening.runs (run_at, company_count, passed_count)
		VALUES ($1, $2, $3)
		RETURNING id
	`, runAt, len(results), passed).Scan(&runID)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	query := `
		INSERT INTO screening.results (
			run_id, rank, ticker, name, exchange, sector, industry,
			passed_all, passed_count, fail_reason, metrics, growth, filters
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	for _, res := range results {
		metricsJSON, err := json.Marshal(res.Metrics)
		if err != nil {
			return 0, fmt.Errorf("marshal metrics for %s: %w", res.Company.Ticker, err)
		}
		growthJSON, err := json.Marshal(res.Growth)
		if err != nil {
			return 0, fmt.Errorf("marshal growth for %s: %w", res.Company.Ticker, err)
		}
		filtersJSON, err := json.Marshal(res.Filters)
		if err != nil {
			return 0, fmt.Errorf("marshal filters for %s: %w", res.Company.Ticker, err)
		}

		_, err = tx.Exec(ctx, query,
			runID, res.Rank, res.Company.Ticker, res.Company.Name,
			res.Company.Exchange, res.Company.Sector, res.Company.Industry,
			res.PassedAll, res.PassedCount, res.FailReason,
			metricsJSON, growthJSON, filtersJSON,
		)
		if err != nil {
			return 0, fmt.Errorf("insert result for %s: %w", res.Company.Ticker, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return runID, nil
}

// LatestRun retrieves the most recent screening run with its results
// ordered by rank.
func (r *Repository) LatestRun(ctx context.Context) (*RunRecord, error) {
	run := &RunRecord{}
	err := r.db.QueryRow(ctx, `
		SELECT id, run_at, company_count, passed_count
		FROM screening.runs
		ORDER BY run_at DESC, id DESC
		LIMIT 1
	`).Scan(&run.ID, &run.RunAt, &run.CompanyCount, &run.PassedCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoRuns
		}
		return nil, fmt.Errorf("query latest run: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT rank, ticker, name, exchange, sector, industry,
		       passed_all, passed_count, fail_reason, metrics, growth, filters
		FROM screening.results
		WHERE run_id = $1
		ORDER BY rank
	`, run.ID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var res contracts.ScreeningResult
		var metricsJSON, growthJSON, filtersJSON []byte

		err := rows.Scan(
			&res.Rank, &res.Company.Ticker, &res.Company.Name,
			&res.Company.Exchange, &res.Company.Sector, &res.Company.Industry,
			&res.PassedAll, &res.PassedCount, &res.FailReason,
			&metricsJSON, &growthJSON, &filtersJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}

		if err := json.Unmarshal(metricsJSON, &res.Metrics); err != nil {
			return nil, fmt.Errorf("unmarshal metrics for %s: %w", res.Company.Ticker, err)
		}
		if err := json.Unmarshal(growthJSON, &res.Growth); err != nil {
			return nil, fmt.Errorf("unmarshal growth for %s: %w", res.Company.Ticker, err)
		}
		if err := json.Unmarshal(filtersJSON, &res.Filters); err != nil {
			return nil, fmt.Errorf("unmarshal filters for %s: %w", res.Company.Ticker, err)
		}

		run.Results = append(run.Results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}

	return run, nil
}
