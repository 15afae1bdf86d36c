package contracts

// Criterion names, in the fixed order filters are applied and reported.
const (
	CriterionPEBelowIndustry  = "pe_below_industry"
	CriterionROIC             = "roic"
	CriterionRevenueGrowth    = "revenue_growth"
	CriterionEarningsGrowth   = "earnings_growth"
	CriterionDebtToEquity     = "debt_to_equity"
	CriterionFreeCashFlow     = "free_cash_flow"
	CriterionCFYield          = "cf_yield"
	CriterionPositiveEarnings = "positive_earnings"
)

// Criteria lists all criterion names in reporting order.
var Criteria = []string{
	CriterionPEBelowIndustry,
	CriterionROIC,
	CriterionRevenueGrowth,
	CriterionEarningsGrowth,
	CriterionDebtToEquity,
	CriterionFreeCashFlow,
	CriterionCFYield,
	CriterionPositiveEarnings,
}

// GrowthResult is the growth analyzer's output for one company: a
// pass/fail per metric plus the year-over-year growth rates, oldest pair
// first, for reporting. Valid is false when the annual history is too
// short; both growth criteria then fail with Reason.
type GrowthResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`

	RevenueConsistent  bool      `json:"revenue_consistent"`
	EarningsConsistent bool      `json:"earnings_consistent"`
	RevenueRates       []float64 `json:"revenue_rates,omitempty"`
	EarningsRates      []float64 `json:"earnings_rates,omitempty"`
}

// IndustryAverage is the mean PE of peer companies with a computable PE
// in one industry. PeerCount is always >= 1; an industry with zero
// computable peers is simply absent from the map.
type IndustryAverage struct {
	Industry  string  `json:"industry"`
	MeanPE    float64 `json:"mean_pe"`
	PeerCount int     `json:"peer_count"`
}

// IndustryAverages maps industry classification to its average. A
// missing key means "not available" and dependent filters fail closed.
type IndustryAverages map[string]IndustryAverage

// Lookup returns the average for an industry, if available.
func (a IndustryAverages) Lookup(industry string) (IndustryAverage, bool) {
	if industry == "" {
		return IndustryAverage{}, false
	}
	avg, ok := a[industry]
	return avg, ok
}

// FilterResult is the outcome of one criterion for one company.
// Immutable once produced.
type FilterResult struct {
	Criterion string  `json:"criterion"`
	Passed    bool    `json:"passed"`
	Value     float64 `json:"value"`
	HasValue  bool    `json:"has_value"` // false when the input was undefined
	Threshold float64 `json:"threshold"`
	Reason    string  `json:"reason"`
}

// ScreeningResult is the complete screening outcome for one company.
type ScreeningResult struct {
	Company Company        `json:"company"`
	Metrics MetricSet      `json:"metrics"`
	Growth  GrowthResult   `json:"growth"`
	Filters []FilterResult `json:"filters"`

	PassedAll   bool `json:"passed_all"`
	PassedCount int  `json:"passed_count"`
	Rank        int  `json:"rank"` // 1-based, assigned after sorting

	// FailReason is set when the company could not be evaluated at all
	// (infrastructure failure); every filter is then marked failed.
	FailReason string `json:"fail_reason,omitempty"`
}

// Filter returns the result for a named criterion.
func (r *ScreeningResult) Filter(criterion string) (FilterResult, bool) {
	for _, f := range r.Filters {
		if f.Criterion == criterion {
			return f, true
		}
	}
	return FilterResult{}, false
}

// CFYieldValue returns the CF yield used as the ranking tie-break.
// Undefined CF yield sorts below any defined value.
func (r *ScreeningResult) CFYieldValue() (float64, bool) {
	return r.Metrics.CFYield.Value, r.Metrics.CFYield.Valid
}
