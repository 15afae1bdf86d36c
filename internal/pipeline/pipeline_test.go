package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordvik/nordscreen/internal/contracts"
	"github.com/nordvik/nordscreen/internal/screening"
	"github.com/nordvik/nordscreen/pkg/config"
	"github.com/nordvik/nordscreen/pkg/logger"
)

type stubUniverse struct {
	companies []contracts.Company
	err       error
}

func (s *stubUniverse) Build(context.Context) ([]contracts.Company, error) {
	return s.companies, s.err
}

type failingFetcher struct{}

func (failingFetcher) FetchCompanyData(_ context.Context, c contracts.Company) (*contracts.CompanyData, error) {
	return nil, contracts.NewInfrastructure("stub", errors.New("unreachable"))
}

type recordingStore struct {
	saved int
	err   error
}

func (s *recordingStore) SaveRun(_ context.Context, _ time.Time, results []contracts.ScreeningResult) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.saved = len(results)
	return 42, nil
}

type recordingReporter struct {
	calls int
	err   error
}

func (r *recordingReporter) Save(time.Time, []contracts.ScreeningResult) (string, error) {
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	return "/tmp/report.pdf", nil
}

func testScreener() *screening.Screener {
	cfg := &config.Config{
		Workers: 2,
		Thresholds: config.Thresholds{
			MinROIC: 0.10, ROICYears: 6, GrowthYears: 5,
			MaxDebtToEquity: 0.5, MinCFYield: 0.05,
		},
	}
	return screening.NewScreener(failingFetcher{}, cfg, logger.NewNop())
}

func TestPipeline_Execute(t *testing.T) {
	source := &stubUniverse{companies: []contracts.Company{
		{Ticker: "AAA.OL"}, {Ticker: "BBB.OL"},
	}}
	store := &recordingStore{}
	reporter := &recordingReporter{}

	p := New(source, testScreener(), store, reporter, logger.NewNop())

	record, err := p.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(42), record.ID)
	assert.Equal(t, 2, record.CompanyCount)
	assert.Equal(t, 2, store.saved)
	assert.Equal(t, 1, reporter.calls)
	assert.Len(t, record.Results, 2)
}

func TestPipeline_UniverseFailureAborts(t *testing.T) {
	source := &stubUniverse{err: errors.New("listing down")}
	store := &recordingStore{}

	p := New(source, testScreener(), store, nil, logger.NewNop())

	_, err := p.Execute(context.Background())
	require.Error(t, err)
	assert.Zero(t, store.saved)
}

func TestPipeline_StoreFailureAborts(t *testing.T) {
	source := &stubUniverse{companies: []contracts.Company{{Ticker: "AAA.OL"}}}
	store := &recordingStore{err: errors.New("db down")}

	p := New(source, testScreener(), store, nil, logger.NewNop())

	_, err := p.Execute(context.Background())
	assert.Error(t, err)
}

func TestPipeline_ReportFailureIsNotFatal(t *testing.T) {
	source := &stubUniverse{companies: []contracts.Company{{Ticker: "AAA.OL"}}}
	reporter := &recordingReporter{err: errors.New("disk full")}

	p := New(source, testScreener(), nil, reporter, logger.NewNop())

	record, err := p.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, record.ID)
	assert.Equal(t, 1, reporter.calls)
}

func TestPipeline_WithoutStoreAndReporter(t *testing.T) {
	source := &stubUniverse{companies: []contracts.Company{{Ticker: "AAA.OL"}}}

	p := New(source, testScreener(), nil, nil, logger.NewNop())

	record, err := p.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, record.CompanyCount)
}
