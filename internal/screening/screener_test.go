package screening

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordvik/nordscreen/internal/contracts"
	"github.com/nordvik/nordscreen/pkg/config"
	"github.com/nordvik/nordscreen/pkg/logger"
)

// stubFetcher serves canned company data keyed by ticker.
type stubFetcher struct {
	data map[string]*contracts.CompanyData
	errs map[string]error
}

func (s *stubFetcher) FetchCompanyData(_ context.Context, company contracts.Company) (*contracts.CompanyData, error) {
	if err, ok := s.errs[company.Ticker]; ok {
		return nil, err
	}
	data, ok := s.data[company.Ticker]
	if !ok {
		return nil, contracts.NewInfrastructure("stub", errors.New("no fixture for "+company.Ticker))
	}
	return data, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Workers: 4,
		Thresholds: config.Thresholds{
			MinROIC:         0.10,
			ROICYears:       6,
			GrowthYears:     5,
			MaxDebtToEquity: 0.5,
			MinCFYield:      0.05,
		},
	}
}

// strongCompany builds data that passes every criterion, scaled so
// different companies get different PEs and cash flow yields.
func strongCompany(company contracts.Company, price float64) *contracts.CompanyData {
	quarterly := make(contracts.QuarterlySeries, 4)
	for i := range quarterly {
		quarterly[i] = contracts.StatementPeriod{
			EndDate:            time.Date(2026, time.Month(6-3*i), 30, 0, 0, 0, 0, time.UTC),
			Revenue:            250,
			NetIncome:          25,
			OperatingCashFlow:  40,
			CapitalExpenditure: 10,
			TotalDebt:          200,
			TotalEquity:        800,
			Cash:               100,
		}
	}

	annual := make(contracts.AnnualSeries, 6)
	for i := range annual {
		annual[i] = contracts.StatementPeriod{
			EndDate:      time.Date(2020+i, 12, 31, 0, 0, 0, 0, time.UTC),
			Revenue:      float64(800 + 40*i),
			NetIncome:    float64(60 + 8*i),
			EBIT:         160,
			PretaxIncome: 150,
			TaxProvision: 37,
			TotalDebt:    200,
			TotalEquity:  800,
			Cash:         100,
		}
	}

	return &contracts.CompanyData{
		Company:           company,
		Price:             price,
		SharesOutstanding: 100,
		Quarterly:         quarterly,
		Annual:            annual,
	}
}

func company(ticker, industry string) contracts.Company {
	return contracts.Company{
		Symbol:   ticker,
		Name:     ticker,
		Exchange: "oslo",
		Ticker:   ticker + ".OL",
		Industry: industry,
	}
}

func TestScreener_EmptyUniverse(t *testing.T) {
	s := NewScreener(&stubFetcher{}, testConfig(), logger.NewNop())

	results, err := s.Screen(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestScreener_RankingOrder(t *testing.T) {
	// Priced below the industry mean PE so every criterion passes
	strong := company("AAA", "Energy")
	strongData := strongCompany(strong, 4)

	// Pricier and with a broken revenue streak: two fewer passes
	weaker := company("BBB", "Energy")
	weakerData := strongCompany(weaker, 5)
	weakerData.Annual[2].Revenue = weakerData.Annual[1].Revenue - 1

	// Unfetchable company stays in the output at the bottom
	broken := company("CCC", "Energy")

	fetcher := &stubFetcher{
		data: map[string]*contracts.CompanyData{
			strongData.Company.Ticker: strongData,
			weakerData.Company.Ticker: weakerData,
		},
		errs: map[string]error{
			broken.Ticker: contracts.NewInfrastructure("stub", errors.New("connection refused")),
		},
	}

	s := NewScreener(fetcher, testConfig(), logger.NewNop())
	results, err := s.Screen(context.Background(), []contracts.Company{broken, weaker, strong})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "AAA.OL", results[0].Company.Ticker)
	assert.Equal(t, "BBB.OL", results[1].Company.Ticker)
	assert.Equal(t, "CCC.OL", results[2].Company.Ticker)

	for i, r := range results {
		assert.Equal(t, i+1, r.Rank)
	}

	assert.True(t, results[0].PassedAll)
	assert.Greater(t, results[0].PassedCount, results[1].PassedCount)

	failed := results[2]
	assert.NotEmpty(t, failed.FailReason)
	assert.Zero(t, failed.PassedCount)
	require.Len(t, failed.Filters, len(contracts.Criteria))
	for _, f := range failed.Filters {
		assert.False(t, f.Passed)
		assert.Equal(t, failed.FailReason, f.Reason)
	}
}

func TestScreener_TickerTieBreak(t *testing.T) {
	// Identical data, identical score: ordering falls back to ticker
	a := company("ZZZ", "Energy")
	b := company("MMM", "Energy")

	fetcher := &stubFetcher{data: map[string]*contracts.CompanyData{
		a.Ticker: strongCompany(a, 5),
		b.Ticker: strongCompany(b, 5),
	}}

	s := NewScreener(fetcher, testConfig(), logger.NewNop())
	results, err := s.Screen(context.Background(), []contracts.Company{a, b})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "MMM.OL", results[0].Company.Ticker)
	assert.Equal(t, "ZZZ.OL", results[1].Company.Ticker)
}

func TestScreener_CFYieldBreaksScoreTies(t *testing.T) {
	// Identical PEs mean both sit at their industry mean and fail only
	// the PE criterion, tying on score. The higher cash flow yield must
	// come first despite the later ticker.
	a := company("AAA", "Energy")
	b := company("BBB", "Energy")

	dataA := strongCompany(a, 5)
	dataB := strongCompany(b, 5)
	// Raise B's operating cash flow so its yield beats A's
	for i := range dataB.Quarterly {
		dataB.Quarterly[i].OperatingCashFlow = 60
	}

	fetcher := &stubFetcher{data: map[string]*contracts.CompanyData{
		a.Ticker: dataA,
		b.Ticker: dataB,
	}}

	s := NewScreener(fetcher, testConfig(), logger.NewNop())
	results, err := s.Screen(context.Background(), []contracts.Company{a, b})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, results[0].PassedCount, results[1].PassedCount)

	assert.Equal(t, "BBB.OL", results[0].Company.Ticker)
}

func TestScreener_IndustryMeanIncludesSelf(t *testing.T) {
	// A lone company in its industry is benchmarked against itself;
	// its PE equals the mean, and equality is not "below".
	lone := company("AAA", "Shipping")

	fetcher := &stubFetcher{data: map[string]*contracts.CompanyData{
		lone.Ticker: strongCompany(lone, 5),
	}}

	s := NewScreener(fetcher, testConfig(), logger.NewNop())
	results, err := s.Screen(context.Background(), []contracts.Company{lone})
	require.NoError(t, err)
	require.Len(t, results, 1)

	pe, ok := results[0].Filter(contracts.CriterionPEBelowIndustry)
	require.True(t, ok)
	assert.False(t, pe.Passed)
	assert.Equal(t, pe.Value, pe.Threshold)
}

func TestScreener_InsufficientQuartersDegrades(t *testing.T) {
	c := company("AAA", "Energy")
	data := strongCompany(c, 5)
	data.Quarterly = data.Quarterly[:2]

	fetcher := &stubFetcher{data: map[string]*contracts.CompanyData{c.Ticker: data}}

	s := NewScreener(fetcher, testConfig(), logger.NewNop())
	results, err := s.Screen(context.Background(), []contracts.Company{c})
	require.NoError(t, err)
	require.Len(t, results, 1)

	// Not an infrastructure failure: the company is evaluated, the
	// TTM-derived criteria just fail with reasons.
	r := results[0]
	assert.Empty(t, r.FailReason)
	assert.False(t, r.Metrics.PE.Valid)

	pe, ok := r.Filter(contracts.CriterionPEBelowIndustry)
	require.True(t, ok)
	assert.False(t, pe.Passed)
	assert.NotEmpty(t, pe.Reason)

	// Annual-only criteria still evaluate
	roic, ok := r.Filter(contracts.CriterionROIC)
	require.True(t, ok)
	assert.True(t, roic.Passed)
}

func TestScreener_DeterministicAcrossRuns(t *testing.T) {
	companies := []contracts.Company{
		company("DDD", "Energy"),
		company("AAA", "Energy"),
		company("CCC", "Banks"),
		company("BBB", "Banks"),
	}

	fetcher := &stubFetcher{data: map[string]*contracts.CompanyData{}}
	for i, c := range companies {
		fetcher.data[c.Ticker] = strongCompany(c, float64(4+i))
	}

	s := NewScreener(fetcher, testConfig(), logger.NewNop())

	first, err := s.Screen(context.Background(), companies)
	require.NoError(t, err)
	second, err := s.Screen(context.Background(), companies)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Company.Ticker, second[i].Company.Ticker)
		assert.Equal(t, first[i].Rank, second[i].Rank)
		assert.Equal(t, first[i].PassedCount, second[i].PassedCount)
	}
}
