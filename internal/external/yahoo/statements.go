package yahoo

import (
	"sort"
	"time"

	"github.com/nordvik/nordscreen/internal/contracts"
)

// rawValue is Yahoo's number wrapper. Absent fields unmarshal to the
// zero value, which downstream treats as missing data.
type rawValue struct {
	Raw float64 `json:"raw"`
	Fmt string  `json:"fmt"`
}

// epochDate is a date transported as a Unix timestamp.
type epochDate struct {
	Raw int64  `json:"raw"`
	Fmt string `json:"fmt"`
}

func (d epochDate) Time() time.Time {
	return time.Unix(d.Raw, 0).UTC()
}

type quoteSummaryEnvelope struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *apiError            `json:"error"`
	} `json:"quoteSummary"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type quoteSummaryResult struct {
	Price *struct {
		RegularMarketPrice rawValue `json:"regularMarketPrice"`
	} `json:"price"`

	SummaryProfile *struct {
		Sector   string `json:"sector"`
		Industry string `json:"industry"`
	} `json:"summaryProfile"`

	DefaultKeyStatistics *struct {
		SharesOutstanding rawValue `json:"sharesOutstanding"`
	} `json:"defaultKeyStatistics"`

	IncomeStatementHistory            *incomeStatements   `json:"incomeStatementHistory"`
	IncomeStatementHistoryQuarterly   *incomeStatements   `json:"incomeStatementHistoryQuarterly"`
	BalanceSheetHistory               *balanceSheets      `json:"balanceSheetHistory"`
	BalanceSheetHistoryQuarterly      *balanceSheets      `json:"balanceSheetHistoryQuarterly"`
	CashflowStatementHistory          *cashflowStatements `json:"cashflowStatementHistory"`
	CashflowStatementHistoryQuarterly *cashflowStatements `json:"cashflowStatementHistoryQuarterly"`
}

type incomeStatements struct {
	Statements []incomeStatement `json:"incomeStatementHistory"`
}

type incomeStatement struct {
	EndDate          epochDate `json:"endDate"`
	TotalRevenue     rawValue  `json:"totalRevenue"`
	NetIncome        rawValue  `json:"netIncome"`
	EBIT             rawValue  `json:"ebit"`
	IncomeBeforeTax  rawValue  `json:"incomeBeforeTax"`
	IncomeTaxExpense rawValue  `json:"incomeTaxExpense"`
}

type balanceSheets struct {
	Statements []balanceSheet `json:"balanceSheetStatements"`
}

type balanceSheet struct {
	EndDate                epochDate `json:"endDate"`
	ShortLongTermDebt      rawValue  `json:"shortLongTermDebt"`
	LongTermDebt           rawValue  `json:"longTermDebt"`
	TotalStockholderEquity rawValue  `json:"totalStockholderEquity"`
	Cash                   rawValue  `json:"cash"`
}

type cashflowStatements struct {
	Statements []cashflowStatement `json:"cashflowStatements"`
}

type cashflowStatement struct {
	EndDate                          epochDate `json:"endDate"`
	TotalCashFromOperatingActivities rawValue  `json:"totalCashFromOperatingActivities"`
	CapitalExpenditures              rawValue  `json:"capitalExpenditures"`
}

// toCompanyData merges the three statement families into period series
// keyed by end date. Quarterly comes out most recent first, annual most
// recent last. Capital expenditure is reported by Yahoo as a negative
// cash flow; the sign is normalized here so the rest of the pipeline
// works with outflow magnitudes.
func (r *quoteSummaryResult) toCompanyData(company contracts.Company) *contracts.CompanyData {
	data := &contracts.CompanyData{Company: company}

	if r.Price != nil {
		data.Price = r.Price.RegularMarketPrice.Raw
	}
	if r.DefaultKeyStatistics != nil {
		data.SharesOutstanding = r.DefaultKeyStatistics.SharesOutstanding.Raw
	}
	if r.SummaryProfile != nil {
		data.Company.Sector = r.SummaryProfile.Sector
		data.Company.Industry = r.SummaryProfile.Industry
	}

	quarterly := mergePeriods(r.IncomeStatementHistoryQuarterly, r.BalanceSheetHistoryQuarterly, r.CashflowStatementHistoryQuarterly)
	sort.Slice(quarterly, func(i, j int) bool {
		return quarterly[i].EndDate.After(quarterly[j].EndDate)
	})
	data.Quarterly = quarterly

	annual := mergePeriods(r.IncomeStatementHistory, r.BalanceSheetHistory, r.CashflowStatementHistory)
	sort.Slice(annual, func(i, j int) bool {
		return annual[i].EndDate.Before(annual[j].EndDate)
	})
	data.Annual = annual

	return data
}

func mergePeriods(income *incomeStatements, balance *balanceSheets, cashflow *cashflowStatements) []contracts.StatementPeriod {
	periods := make(map[time.Time]*contracts.StatementPeriod)

	get := func(end time.Time) *contracts.StatementPeriod {
		if p, ok := periods[end]; ok {
			return p
		}
		p := &contracts.StatementPeriod{EndDate: end}
		periods[end] = p
		return p
	}

	if income != nil {
		for _, s := range income.Statements {
			p := get(s.EndDate.Time())
			p.Revenue = s.TotalRevenue.Raw
			p.NetIncome = s.NetIncome.Raw
			p.EBIT = s.EBIT.Raw
			p.PretaxIncome = s.IncomeBeforeTax.Raw
			p.TaxProvision = s.IncomeTaxExpense.Raw
		}
	}

	if balance != nil {
		for _, s := range balance.Statements {
			p := get(s.EndDate.Time())
			p.TotalDebt = s.ShortLongTermDebt.Raw + s.LongTermDebt.Raw
			p.TotalEquity = s.TotalStockholderEquity.Raw
			p.Cash = s.Cash.Raw
		}
	}

	if cashflow != nil {
		for _, s := range cashflow.Statements {
			p := get(s.EndDate.Time())
			p.OperatingCashFlow = s.TotalCashFromOperatingActivities.Raw

			capex := s.CapitalExpenditures.Raw
			if capex < 0 {
				capex = -capex
			}
			p.CapitalExpenditure = capex
		}
	}

	out := make([]contracts.StatementPeriod, 0, len(periods))
	for _, p := range periods {
		out = append(out, *p)
	}
	return out
}
