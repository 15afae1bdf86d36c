package screening

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/nordvik/nordscreen/internal/calc"
	"github.com/nordvik/nordscreen/internal/contracts"
	"github.com/nordvik/nordscreen/internal/growth"
	"github.com/nordvik/nordscreen/internal/industry"
	"github.com/nordvik/nordscreen/pkg/config"
	"github.com/nordvik/nordscreen/pkg/logger"
)

// Fetcher loads one company's price and statement data.
type Fetcher interface {
	FetchCompanyData(ctx context.Context, company contracts.Company) (*contracts.CompanyData, error)
}

// Screener orchestrates the screening run: a concurrent fetch-and-compute
// phase over the whole universe, then industry benchmarks once every
// company's metrics exist, then filters and ranking. Per-company filters
// never run before the benchmark phase completes because the PE criterion
// needs the whole universe.
type Screener struct {
	fetcher  Fetcher
	ttm      *calc.TTMCalculator
	metrics  *calc.MetricsCalculator
	growth   *growth.Analyzer
	industry *industry.Calculator
	filters  *Filters
	workers  int
	logger   *logger.Logger
}

// NewScreener wires a screener from its collaborators.
func NewScreener(fetcher Fetcher, cfg *config.Config, log *logger.Logger) *Screener {
	return &Screener{
		fetcher:  fetcher,
		ttm:      calc.NewTTMCalculator(log),
		metrics:  calc.NewMetricsCalculator(cfg.Thresholds.ROICYears, log),
		growth:   growth.NewAnalyzer(cfg.Thresholds.GrowthYears, log),
		industry: industry.NewCalculator(log),
		filters:  NewFilters(cfg.Thresholds),
		workers:  cfg.Workers,
		logger:   log.WithField("module", "screener"),
	}
}

// companyInputs is one company's evaluated data after the fetch phase.
type companyInputs struct {
	company contracts.Company
	metrics contracts.MetricSet
	growth  contracts.GrowthResult
	failure string // infrastructure failure, company kept but unevaluable
}

// Screen runs the full pipeline over the universe. Every company in the
// input appears exactly once in the output, failed fetches included; the
// output is deterministically ordered and ranked.
func (s *Screener) Screen(ctx context.Context, universe []contracts.Company) ([]contracts.ScreeningResult, error) {
	if len(universe) == 0 {
		return []contracts.ScreeningResult{}, nil
	}

	s.logger.WithFields(map[string]interface{}{
		"companies": len(universe),
		"workers":   s.workers,
	}).Info("Starting screening run")

	inputs := s.evaluateAll(ctx, universe)

	// Benchmark phase: industry means over the whole universe,
	// including the company being benchmarked.
	peers := make([]industry.Peer, 0, len(inputs))
	for _, in := range inputs {
		if in.failure != "" {
			continue
		}
		peers = append(peers, industry.Peer{
			Ticker:   in.company.Ticker,
			Industry: in.company.Industry,
			PE:       in.metrics.PE,
		})
	}
	averages := s.industry.Calculate(peers)

	// Filter and score phase
	results := make([]contracts.ScreeningResult, 0, len(inputs))
	for _, in := range inputs {
		results = append(results, s.score(in, averages))
	}

	rankResults(results)

	passed := 0
	for _, r := range results {
		if r.PassedAll {
			passed++
		}
	}
	s.logger.WithFields(map[string]interface{}{
		"evaluated":  len(results),
		"passed_all": passed,
		"industries": len(averages),
	}).Info("Screening run completed")

	return results, nil
}

// evaluateAll fetches and computes metrics for every company through a
// bounded worker pool. Results come back in universe order.
func (s *Screener) evaluateAll(ctx context.Context, universe []contracts.Company) []companyInputs {
	type indexed struct {
		idx    int
		inputs companyInputs
	}

	companyCh := make(chan indexed, len(universe))
	resultCh := make(chan indexed, len(universe))

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for item := range companyCh {
				select {
				case <-ctx.Done():
					item.inputs.failure = ctx.Err().Error()
					resultCh <- item
					continue
				default:
				}
				item.inputs = s.evaluate(ctx, workerID, item.inputs.company)
				resultCh <- item
			}
		}(i)
	}

	for i, company := range universe {
		companyCh <- indexed{idx: i, inputs: companyInputs{company: company}}
	}
	close(companyCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	ordered := make([]companyInputs, len(universe))
	for item := range resultCh {
		ordered[item.idx] = item.inputs
	}
	return ordered
}

// evaluate computes one company's metrics and growth result. Missing
// data degrades to undefined metrics; only infrastructure failures mark
// the company unevaluable.
func (s *Screener) evaluate(ctx context.Context, workerID int, company contracts.Company) companyInputs {
	in := companyInputs{company: company}

	data, err := s.fetcher.FetchCompanyData(ctx, company)
	if err != nil {
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"worker": workerID,
			"ticker": company.Ticker,
		}).Error("Failed to fetch company data")
		in.failure = err.Error()
		return in
	}

	var ttm *contracts.TTMSnapshot
	snapshot, err := s.ttm.Calculate(data.Quarterly)
	if err != nil {
		if errors.Is(err, contracts.ErrInfrastructure) {
			in.failure = err.Error()
			return in
		}
		s.logger.WithFields(map[string]interface{}{
			"worker": workerID,
			"ticker": company.Ticker,
			"reason": err.Error(),
		}).Debug("No TTM window")
	} else {
		ttm = &snapshot
	}

	in.metrics = s.metrics.Calculate(data.Price, data.SharesOutstanding, ttm, data.Annual)
	in.growth = s.growth.Analyze(data.Annual)
	return in
}

// score applies the filters and counts passes for one company. A company
// that could not be evaluated fails every criterion with its failure
// recorded.
func (s *Screener) score(in companyInputs, averages contracts.IndustryAverages) contracts.ScreeningResult {
	result := contracts.ScreeningResult{
		Company: in.company,
		Metrics: in.metrics,
		Growth:  in.growth,
	}

	if in.failure != "" {
		result.FailReason = in.failure
		result.Filters = make([]contracts.FilterResult, 0, len(contracts.Criteria))
		for _, criterion := range contracts.Criteria {
			result.Filters = append(result.Filters, contracts.FilterResult{
				Criterion: criterion,
				Reason:    in.failure,
			})
		}
		return result
	}

	avg, ok := averages.Lookup(in.company.Industry)
	result.Filters = s.filters.Apply(in.metrics, in.growth, avg, ok)

	for _, f := range result.Filters {
		if f.Passed {
			result.PassedCount++
		}
	}
	result.PassedAll = result.PassedCount == len(result.Filters)
	return result
}

// rankResults sorts by passed criteria, then cash flow yield with
// undefined yields last, then ticker, and assigns 1-based ranks. The
// ticker tie-break keeps repeated runs over identical data in identical
// order.
func rankResults(results []contracts.ScreeningResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := &results[i], &results[j]
		if a.PassedCount != b.PassedCount {
			return a.PassedCount > b.PassedCount
		}
		av, aok := a.CFYieldValue()
		bv, bok := b.CFYieldValue()
		if aok != bok {
			return aok
		}
		if aok && av != bv {
			return av > bv
		}
		return a.Company.Ticker < b.Company.Ticker
	})

	for i := range results {
		results[i].Rank = i + 1
	}
}
