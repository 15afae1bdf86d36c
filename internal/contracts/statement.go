package contracts

import "time"

// StatementPeriod is one reported period (annual or quarterly) for a
// company. Capital expenditure is stored as a positive outflow magnitude;
// the fetch layer normalizes the sign once at the boundary so downstream
// calculations never deal with provider sign conventions.
type StatementPeriod struct {
	EndDate time.Time `json:"end_date"`

	// Income statement
	Revenue      float64 `json:"revenue"`
	NetIncome    float64 `json:"net_income"`
	EBIT         float64 `json:"ebit"`
	PretaxIncome float64 `json:"pretax_income"`
	TaxProvision float64 `json:"tax_provision"`

	// Cash flow statement
	OperatingCashFlow  float64 `json:"operating_cash_flow"`
	CapitalExpenditure float64 `json:"capital_expenditure"`

	// Balance sheet (point-in-time)
	TotalDebt   float64 `json:"total_debt"`
	TotalEquity float64 `json:"total_equity"`
	Cash        float64 `json:"cash"`
}

// QuarterlySeries is an ordered sequence of quarterly periods, most
// recent first. No two periods share an end date.
type QuarterlySeries []StatementPeriod

// AnnualSeries is an ordered sequence of annual periods, most recent
// last. Used for growth consistency and ROIC history.
type AnnualSeries []StatementPeriod

// HasUniqueEndDates reports whether no two periods share an end date.
func (q QuarterlySeries) HasUniqueEndDates() bool {
	seen := make(map[time.Time]bool, len(q))
	for _, p := range q {
		if seen[p.EndDate] {
			return false
		}
		seen[p.EndDate] = true
	}
	return true
}

// TTMSnapshot is derived from the four most recent quarterly periods.
// Flow fields are sums over the window; balance-sheet fields are taken
// from the most recent quarter only.
type TTMSnapshot struct {
	PeriodEnd time.Time `json:"period_end"` // end date of the most recent quarter

	Revenue            float64 `json:"revenue"`
	NetIncome          float64 `json:"net_income"`
	OperatingCashFlow  float64 `json:"operating_cash_flow"`
	CapitalExpenditure float64 `json:"capital_expenditure"`
	FreeCashFlow       float64 `json:"free_cash_flow"`

	TotalDebt   float64 `json:"total_debt"`
	TotalEquity float64 `json:"total_equity"`
	Cash        float64 `json:"cash"`
}
