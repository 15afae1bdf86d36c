package calc

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordvik/nordscreen/internal/contracts"
	"github.com/nordvik/nordscreen/pkg/logger"
)

func quarter(end string, revenue, netIncome, ocf, capex, debt, equity, cash float64) contracts.StatementPeriod {
	endDate, _ := time.Parse("2006-01-02", end)
	return contracts.StatementPeriod{
		EndDate:            endDate,
		Revenue:            revenue,
		NetIncome:          netIncome,
		OperatingCashFlow:  ocf,
		CapitalExpenditure: capex,
		TotalDebt:          debt,
		TotalEquity:        equity,
		Cash:               cash,
	}
}

func TestTTMCalculator_Calculate(t *testing.T) {
	calc := NewTTMCalculator(logger.NewNop())

	// Most recent first
	quarters := contracts.QuarterlySeries{
		quarter("2026-06-30", 100, 10, 20, 5, 500, 1000, 200),
		quarter("2026-03-31", 110, 11, 21, 6, 480, 990, 190),
		quarter("2025-12-31", 120, 12, 22, 7, 470, 980, 180),
		quarter("2025-09-30", 130, 13, 23, 8, 460, 970, 170),
	}

	snapshot, err := calc.Calculate(quarters)
	require.NoError(t, err)

	// Flow fields are arithmetic sums over the four quarters
	assert.Equal(t, 460.0, snapshot.Revenue)
	assert.Equal(t, 46.0, snapshot.NetIncome)
	assert.Equal(t, 86.0, snapshot.OperatingCashFlow)
	assert.Equal(t, 26.0, snapshot.CapitalExpenditure)
	assert.Equal(t, 60.0, snapshot.FreeCashFlow)

	// Balance-sheet fields come from the most recent quarter only
	assert.Equal(t, 500.0, snapshot.TotalDebt)
	assert.Equal(t, 1000.0, snapshot.TotalEquity)
	assert.Equal(t, 200.0, snapshot.Cash)
	assert.Equal(t, quarters[0].EndDate, snapshot.PeriodEnd)
}

func TestTTMCalculator_UsesOnlyFourMostRecentQuarters(t *testing.T) {
	calc := NewTTMCalculator(logger.NewNop())

	quarters := contracts.QuarterlySeries{
		quarter("2026-06-30", 100, 10, 20, 5, 500, 1000, 200),
		quarter("2026-03-31", 100, 10, 20, 5, 480, 990, 190),
		quarter("2025-12-31", 100, 10, 20, 5, 470, 980, 180),
		quarter("2025-09-30", 100, 10, 20, 5, 460, 970, 170),
		// Older quarter must not contribute
		quarter("2025-06-30", 9999, 9999, 9999, 9999, 1, 1, 1),
	}

	snapshot, err := calc.Calculate(quarters)
	require.NoError(t, err)

	assert.Equal(t, 400.0, snapshot.Revenue)
	assert.Equal(t, 40.0, snapshot.NetIncome)
}

func TestTTMCalculator_InsufficientQuarters(t *testing.T) {
	calc := NewTTMCalculator(logger.NewNop())

	for n := 0; n < 4; n++ {
		quarters := make(contracts.QuarterlySeries, 0, n)
		for i := 0; i < n; i++ {
			quarters = append(quarters, quarter(
				time.Date(2026, time.Month(6-3*i), 30, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
				100, 10, 20, 5, 500, 1000, 200,
			))
		}

		_, err := calc.Calculate(quarters)
		require.Error(t, err, "expected failure with %d quarters", n)
		assert.True(t, errors.Is(err, contracts.ErrInsufficientData),
			"expected InsufficientData with %d quarters, got %v", n, err)
	}
}

func TestTTMCalculator_DuplicateEndDates(t *testing.T) {
	calc := NewTTMCalculator(logger.NewNop())

	quarters := contracts.QuarterlySeries{
		quarter("2026-06-30", 100, 10, 20, 5, 500, 1000, 200),
		quarter("2026-06-30", 110, 11, 21, 6, 480, 990, 190),
		quarter("2025-12-31", 120, 12, 22, 7, 470, 980, 180),
		quarter("2025-09-30", 130, 13, 23, 8, 460, 970, 170),
	}

	_, err := calc.Calculate(quarters)
	assert.Error(t, err)
}
