package calc

import (
	"fmt"

	"github.com/nordvik/nordscreen/internal/contracts"
	"github.com/nordvik/nordscreen/pkg/logger"
)

// MetricsCalculator computes the fundamental ratios for one company from
// its current price, TTM snapshot and annual history.
type MetricsCalculator struct {
	roicYears int
	logger    *logger.Logger
}

// NewMetricsCalculator creates a new metrics calculator. roicYears is
// the number of consecutive annual periods the ROIC history requires.
func NewMetricsCalculator(roicYears int, log *logger.Logger) *MetricsCalculator {
	return &MetricsCalculator{
		roicYears: roicYears,
		logger:    log,
	}
}

// Calculate computes a MetricSet. ttm may be nil when fewer than four
// quarters exist; every TTM-derived metric is then explicitly not
// computable rather than zero.
func (c *MetricsCalculator) Calculate(price, shares float64, ttm *contracts.TTMSnapshot, annual contracts.AnnualSeries) contracts.MetricSet {
	set := contracts.MetricSet{
		ROIC: c.roicHistory(annual),
	}

	if ttm == nil {
		reason := "fewer than four quarterly periods"
		set.PE = contracts.MetricUndefined(reason)
		set.DebtToEquity = contracts.MetricUndefined(reason)
		set.FreeCashFlow = contracts.MetricUndefined(reason)
		set.CFYield = contracts.MetricUndefined(reason)
		set.NetIncome = contracts.MetricUndefined(reason)
		return set
	}

	set.NetIncome = contracts.MetricValue(ttm.NetIncome)
	set.PE = c.peRatio(price, shares, ttm)
	set.DebtToEquity = c.debtToEquity(ttm)
	set.FreeCashFlow = contracts.MetricValue(ttm.FreeCashFlow)
	set.CFYield = c.cfYield(ttm)

	return set
}

// peRatio computes price over TTM earnings per share. PE is undefined
// for loss-makers: downstream the PE criterion fails, it never passes by
// default.
func (c *MetricsCalculator) peRatio(price, shares float64, ttm *contracts.TTMSnapshot) contracts.Metric {
	if ttm.NetIncome <= 0 {
		return contracts.MetricUndefined("non-positive TTM net income")
	}
	if shares <= 0 {
		return contracts.MetricUndefined("shares outstanding unknown")
	}
	if price <= 0 {
		return contracts.MetricUndefined("price unknown")
	}

	eps := ttm.NetIncome / shares
	return contracts.MetricValue(price / eps)
}

// debtToEquity is undefined when equity is zero or negative.
func (c *MetricsCalculator) debtToEquity(ttm *contracts.TTMSnapshot) contracts.Metric {
	if ttm.TotalEquity <= 0 {
		return contracts.MetricUndefined("non-positive total equity")
	}
	return contracts.MetricValue(ttm.TotalDebt / ttm.TotalEquity)
}

// cfYield is free cash flow over revenue, undefined for non-positive revenue.
func (c *MetricsCalculator) cfYield(ttm *contracts.TTMSnapshot) contracts.Metric {
	if ttm.Revenue <= 0 {
		return contracts.MetricUndefined("non-positive revenue")
	}
	return contracts.MetricValue(ttm.FreeCashFlow / ttm.Revenue)
}

// roicHistory computes per-year ROIC over the required number of the
// most recent annual periods. The requirement is hard: fewer years, or a
// year with an undefined ROIC, invalidates the whole history instead of
// degrading to a shorter average.
func (c *MetricsCalculator) roicHistory(annual contracts.AnnualSeries) contracts.ROICHistory {
	if len(annual) < c.roicYears {
		err := contracts.NewInsufficientData("roic history", c.roicYears, len(annual))
		return contracts.ROICHistory{Valid: false, Reason: err.Error()}
	}

	// Annual series is most recent last; walk the window backwards so
	// the history comes out most recent first.
	years := make([]float64, 0, c.roicYears)
	for i := 0; i < c.roicYears; i++ {
		period := annual[len(annual)-1-i]

		roic, err := roicForYear(period)
		if err != nil {
			return contracts.ROICHistory{
				Valid:  false,
				Reason: fmt.Sprintf("year ending %s: %v", period.EndDate.Format("2006-01-02"), err),
			}
		}
		years = append(years, roic)
	}

	return contracts.ROICHistory{Years: years, Valid: true}
}

// defaultTaxRate is applied when the effective rate cannot be derived
// from the filing (typical Nordic corporate rate).
const defaultTaxRate = 0.25

// roicForYear computes NOPAT / invested capital for a single annual period.
func roicForYear(p contracts.StatementPeriod) (float64, error) {
	taxRate := defaultTaxRate
	if p.PretaxIncome > 0 && p.TaxProvision != 0 {
		taxRate = abs(p.TaxProvision) / p.PretaxIncome
		if taxRate < 0 {
			taxRate = 0
		}
		if taxRate > 0.5 {
			taxRate = 0.5
		}
	}

	nopat := p.EBIT * (1 - taxRate)

	investedCapital := p.TotalDebt + p.TotalEquity - p.Cash
	if investedCapital <= 0 {
		return 0, contracts.NewUndefinedMetric("roic", "non-positive invested capital")
	}

	return nopat / investedCapital, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
