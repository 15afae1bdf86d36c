package contracts

// Metric is a ratio that is either a numeric value or explicitly not
// computable. Filters must handle the undefined case; a missing value is
// never treated as zero.
type Metric struct {
	Value  float64 `json:"value"`
	Valid  bool    `json:"valid"`
	Reason string  `json:"reason,omitempty"` // set when not computable
}

// MetricValue returns a computable metric
func MetricValue(v float64) Metric {
	return Metric{Value: v, Valid: true}
}

// MetricUndefined returns a not-computable metric with a reason
func MetricUndefined(reason string) Metric {
	return Metric{Valid: false, Reason: reason}
}

// ROICHistory holds per-year ROIC values, most recent first. It is valid
// only when the full required history exists; partial histories carry a
// reason instead of a truncated slice.
type ROICHistory struct {
	Years  []float64 `json:"years,omitempty"`
	Valid  bool      `json:"valid"`
	Reason string    `json:"reason,omitempty"`
}

// MetricSet is one company's computed fundamental ratios.
type MetricSet struct {
	PE           Metric      `json:"pe"`
	ROIC         ROICHistory `json:"roic"`
	DebtToEquity Metric      `json:"debt_to_equity"`
	FreeCashFlow Metric      `json:"free_cash_flow"`
	CFYield      Metric      `json:"cf_yield"`
	NetIncome    Metric      `json:"net_income"` // TTM basis, drives the earnings-sign criterion
}

// HasPositiveEarnings reports whether TTM net income is known and positive.
func (m MetricSet) HasPositiveEarnings() bool {
	return m.NetIncome.Valid && m.NetIncome.Value > 0
}
