// Package pipeline runs a complete screening cycle: universe assembly,
// screening, persistence and reporting.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/nordvik/nordscreen/internal/contracts"
	"github.com/nordvik/nordscreen/internal/screening"
	"github.com/nordvik/nordscreen/internal/storage"
	"github.com/nordvik/nordscreen/pkg/logger"
)

// UniverseSource provides the companies to screen.
type UniverseSource interface {
	Build(ctx context.Context) ([]contracts.Company, error)
}

// Reporter writes a rendered report for a completed run.
type Reporter interface {
	Save(runAt time.Time, results []contracts.ScreeningResult) (string, error)
}

// RunStore persists completed runs.
type RunStore interface {
	SaveRun(ctx context.Context, runAt time.Time, results []contracts.ScreeningResult) (int64, error)
}

// Pipeline executes screening cycles end to end. Store and reporter are
// optional; a nil store runs without persistence, a nil reporter skips
// the PDF.
type Pipeline struct {
	universe UniverseSource
	screener *screening.Screener
	store    RunStore
	reporter Reporter
	logger   *logger.Logger
}

// New creates a screening pipeline
func New(ub UniverseSource, sc *screening.Screener, store RunStore, reporter Reporter, log *logger.Logger) *Pipeline {
	return &Pipeline{
		universe: ub,
		screener: sc,
		store:    store,
		reporter: reporter,
		logger:   log.WithField("module", "pipeline"),
	}
}

// Execute runs one full screening cycle and returns the run record. The
// record's ID is zero when no store is configured.
func (p *Pipeline) Execute(ctx context.Context) (*storage.RunRecord, error) {
	runAt := time.Now().UTC()

	companies, err := p.universe.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("build universe: %w", err)
	}

	results, err := p.screener.Screen(ctx, companies)
	if err != nil {
		return nil, fmt.Errorf("screen universe: %w", err)
	}

	passed := 0
	for _, r := range results {
		if r.PassedAll {
			passed++
		}
	}

	record := &storage.RunRecord{
		RunAt:        runAt,
		CompanyCount: len(results),
		PassedCount:  passed,
		Results:      results,
	}

	if p.store != nil {
		id, err := p.store.SaveRun(ctx, runAt, results)
		if err != nil {
			return nil, fmt.Errorf("save run: %w", err)
		}
		record.ID = id
	}

	if p.reporter != nil {
		path, err := p.reporter.Save(runAt, results)
		if err != nil {
			// The run itself succeeded; reporting failures are logged,
			// not fatal.
			p.logger.WithError(err).Error("Failed to write report")
		} else {
			p.logger.WithField("path", path).Info("Report written")
		}
	}

	return record, nil
}
