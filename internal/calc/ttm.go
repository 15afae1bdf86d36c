package calc

import (
	"fmt"

	"github.com/nordvik/nordscreen/internal/contracts"
	"github.com/nordvik/nordscreen/pkg/logger"
)

// ttmQuarters is the number of consecutive quarters a trailing-twelve-month
// window requires. Fewer quarters must fail, never approximate.
const ttmQuarters = 4

// TTMCalculator derives trailing-twelve-month aggregates from quarterly
// statement series.
type TTMCalculator struct {
	logger *logger.Logger
}

// NewTTMCalculator creates a new TTM calculator
func NewTTMCalculator(log *logger.Logger) *TTMCalculator {
	return &TTMCalculator{
		logger: log,
	}
}

// Calculate builds a TTMSnapshot from a quarterly series ordered most
// recent first. Flow fields are summed over the four most recent
// quarters; balance-sheet fields come from the most recent quarter only,
// since summing balance-sheet snapshots is meaningless.
func (c *TTMCalculator) Calculate(quarters contracts.QuarterlySeries) (contracts.TTMSnapshot, error) {
	if len(quarters) < ttmQuarters {
		return contracts.TTMSnapshot{}, contracts.NewInsufficientData("ttm", ttmQuarters, len(quarters))
	}

	window := quarters[:ttmQuarters]
	if !window.HasUniqueEndDates() {
		return contracts.TTMSnapshot{}, fmt.Errorf("ttm: duplicate quarter end dates")
	}

	snapshot := contracts.TTMSnapshot{
		PeriodEnd: window[0].EndDate,

		TotalDebt:   window[0].TotalDebt,
		TotalEquity: window[0].TotalEquity,
		Cash:        window[0].Cash,
	}

	for _, q := range window {
		snapshot.Revenue += q.Revenue
		snapshot.NetIncome += q.NetIncome
		snapshot.OperatingCashFlow += q.OperatingCashFlow
		snapshot.CapitalExpenditure += q.CapitalExpenditure
	}

	// CapEx is normalized to a positive outflow at the fetch boundary
	snapshot.FreeCashFlow = snapshot.OperatingCashFlow - snapshot.CapitalExpenditure

	c.logger.WithFields(map[string]interface{}{
		"period_end": snapshot.PeriodEnd.Format("2006-01-02"),
		"revenue":    snapshot.Revenue,
		"net_income": snapshot.NetIncome,
		"fcf":        snapshot.FreeCashFlow,
	}).Debug("Calculated TTM snapshot")

	return snapshot, nil
}
