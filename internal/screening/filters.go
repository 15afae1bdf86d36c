// Package screening runs the filter pipeline over the fetched universe
// and ranks the results.
package screening

import (
	"fmt"

	"github.com/nordvik/nordscreen/internal/contracts"
	"github.com/nordvik/nordscreen/pkg/config"
)

// Filters applies every screening criterion to one company's computed
// inputs. An undefined input always fails its criterion with a reason;
// no criterion passes by default.
type Filters struct {
	thresholds config.Thresholds
}

// NewFilters creates a filter set with the given thresholds
func NewFilters(thresholds config.Thresholds) *Filters {
	return &Filters{thresholds: thresholds}
}

// Apply evaluates all criteria in reporting order. industryAvg carries
// the company's industry benchmark; ok is false when no benchmark
// exists, which fails the PE criterion.
func (f *Filters) Apply(metrics contracts.MetricSet, growth contracts.GrowthResult, industryAvg contracts.IndustryAverage, ok bool) []contracts.FilterResult {
	return []contracts.FilterResult{
		f.peBelowIndustry(metrics.PE, industryAvg, ok),
		f.roic(metrics.ROIC),
		f.revenueGrowth(growth),
		f.earningsGrowth(growth),
		f.debtToEquity(metrics.DebtToEquity),
		f.freeCashFlow(metrics.FreeCashFlow),
		f.cfYield(metrics.CFYield),
		f.positiveEarnings(metrics),
	}
}

func (f *Filters) peBelowIndustry(pe contracts.Metric, avg contracts.IndustryAverage, ok bool) contracts.FilterResult {
	result := contracts.FilterResult{Criterion: contracts.CriterionPEBelowIndustry}
	if !pe.Valid {
		result.Reason = pe.Reason
		return result
	}
	result.Value = pe.Value
	result.HasValue = true

	if !ok {
		result.Reason = "no industry benchmark available"
		return result
	}
	result.Threshold = avg.MeanPE

	if pe.Value < avg.MeanPE {
		result.Passed = true
		return result
	}
	result.Reason = fmt.Sprintf("PE %.2f not below industry mean %.2f", pe.Value, avg.MeanPE)
	return result
}

// roic requires every year of the history to exceed the minimum
// strictly. The reported value is the weakest year, since that is the
// year that decides the outcome.
func (f *Filters) roic(history contracts.ROICHistory) contracts.FilterResult {
	result := contracts.FilterResult{
		Criterion: contracts.CriterionROIC,
		Threshold: f.thresholds.MinROIC,
	}
	if !history.Valid {
		result.Reason = history.Reason
		return result
	}

	worst := history.Years[0]
	for _, y := range history.Years[1:] {
		if y < worst {
			worst = y
		}
	}
	result.Value = worst
	result.HasValue = true

	if worst > f.thresholds.MinROIC {
		result.Passed = true
		return result
	}
	result.Reason = fmt.Sprintf("ROIC %.1f%% does not exceed %.1f%% in every year", worst*100, f.thresholds.MinROIC*100)
	return result
}

func (f *Filters) revenueGrowth(growth contracts.GrowthResult) contracts.FilterResult {
	result := contracts.FilterResult{Criterion: contracts.CriterionRevenueGrowth}
	if !growth.Valid {
		result.Reason = growth.Reason
		return result
	}
	result.HasValue = true
	if growth.RevenueConsistent {
		result.Passed = true
		return result
	}
	result.Reason = "revenue did not grow every year"
	return result
}

func (f *Filters) earningsGrowth(growth contracts.GrowthResult) contracts.FilterResult {
	result := contracts.FilterResult{Criterion: contracts.CriterionEarningsGrowth}
	if !growth.Valid {
		result.Reason = growth.Reason
		return result
	}
	result.HasValue = true
	if growth.EarningsConsistent {
		result.Passed = true
		return result
	}
	result.Reason = "earnings did not grow every year"
	return result
}

func (f *Filters) debtToEquity(de contracts.Metric) contracts.FilterResult {
	result := contracts.FilterResult{
		Criterion: contracts.CriterionDebtToEquity,
		Threshold: f.thresholds.MaxDebtToEquity,
	}
	if !de.Valid {
		result.Reason = de.Reason
		return result
	}
	result.Value = de.Value
	result.HasValue = true

	if de.Value < f.thresholds.MaxDebtToEquity {
		result.Passed = true
		return result
	}
	result.Reason = fmt.Sprintf("debt/equity %.2f not below %.2f", de.Value, f.thresholds.MaxDebtToEquity)
	return result
}

func (f *Filters) freeCashFlow(fcf contracts.Metric) contracts.FilterResult {
	result := contracts.FilterResult{Criterion: contracts.CriterionFreeCashFlow}
	if !fcf.Valid {
		result.Reason = fcf.Reason
		return result
	}
	result.Value = fcf.Value
	result.HasValue = true

	if fcf.Value > 0 {
		result.Passed = true
		return result
	}
	result.Reason = "free cash flow not positive"
	return result
}

func (f *Filters) cfYield(cy contracts.Metric) contracts.FilterResult {
	result := contracts.FilterResult{
		Criterion: contracts.CriterionCFYield,
		Threshold: f.thresholds.MinCFYield,
	}
	if !cy.Valid {
		result.Reason = cy.Reason
		return result
	}
	result.Value = cy.Value
	result.HasValue = true

	if cy.Value >= f.thresholds.MinCFYield {
		result.Passed = true
		return result
	}
	result.Reason = fmt.Sprintf("cash flow yield %.1f%% below %.1f%%", cy.Value*100, f.thresholds.MinCFYield*100)
	return result
}

func (f *Filters) positiveEarnings(metrics contracts.MetricSet) contracts.FilterResult {
	result := contracts.FilterResult{Criterion: contracts.CriterionPositiveEarnings}
	if !metrics.NetIncome.Valid {
		result.Reason = metrics.NetIncome.Reason
		return result
	}
	result.Value = metrics.NetIncome.Value
	result.HasValue = true

	if metrics.NetIncome.Value > 0 {
		result.Passed = true
		return result
	}
	result.Reason = "TTM net income not positive"
	return result
}
