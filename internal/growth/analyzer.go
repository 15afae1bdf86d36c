// Package growth checks multi-year revenue and earnings consistency
// from annual statement series.
package growth

import (
	"github.com/nordvik/nordscreen/internal/contracts"
	"github.com/nordvik/nordscreen/pkg/logger"
)

// Analyzer evaluates whether a company's revenue and earnings grew in
// every single year of the window. One down year fails the streak; there
// is no averaging and no "4 out of 5" tolerance.
type Analyzer struct {
	window int
	logger *logger.Logger
}

// NewAnalyzer creates a growth analyzer over the given number of annual
// periods.
func NewAnalyzer(window int, log *logger.Logger) *Analyzer {
	return &Analyzer{
		window: window,
		logger: log,
	}
}

// Analyze inspects the most recent window of annual periods (series is
// most recent last). It returns an invalid result, not an error, when
// the history is too short, so the caller can report the reason on both
// growth criteria.
func (a *Analyzer) Analyze(annual contracts.AnnualSeries) contracts.GrowthResult {
	if len(annual) < a.window {
		err := contracts.NewInsufficientData("growth window", a.window, len(annual))
		return contracts.GrowthResult{Valid: false, Reason: err.Error()}
	}

	recent := annual[len(annual)-a.window:]

	revenues := make([]float64, len(recent))
	earnings := make([]float64, len(recent))
	for i, p := range recent {
		revenues[i] = p.Revenue
		earnings[i] = p.NetIncome
	}

	result := contracts.GrowthResult{
		Valid:              true,
		RevenueConsistent:  strictlyIncreasing(revenues),
		EarningsConsistent: strictlyIncreasing(earnings),
		RevenueRates:       yoyRates(revenues),
		EarningsRates:      yoyRates(earnings),
	}

	a.logger.WithFields(map[string]interface{}{
		"revenue_consistent":  result.RevenueConsistent,
		"earnings_consistent": result.EarningsConsistent,
	}).Debug("Analyzed growth consistency")

	return result
}

// strictlyIncreasing reports whether every value exceeds its
// predecessor. Equal consecutive values fail.
func strictlyIncreasing(values []float64) bool {
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			return false
		}
	}
	return true
}

// yoyRates computes year-over-year growth rates, oldest pair first. The
// denominator is the absolute prior value so a recovery from a negative
// year still reports a positive rate; a zero prior year reports zero.
func yoyRates(values []float64) []float64 {
	rates := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		prev := values[i-1]
		if prev == 0 {
			rates = append(rates, 0)
			continue
		}
		if prev < 0 {
			prev = -prev
		}
		rates = append(rates, (values[i]-values[i-1])/prev)
	}
	return rates
}
