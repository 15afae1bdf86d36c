package contracts

// Company identifies one listed company in the screening universe.
type Company struct {
	Symbol   string `json:"symbol"`   // exchange-local symbol, e.g. "EQNR"
	Name     string `json:"name"`
	Exchange string `json:"exchange"` // universe key, e.g. "oslo"
	Ticker   string `json:"ticker"`   // provider ticker, e.g. "EQNR.OL"
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
}

// CompanyData bundles everything the fetch layer provides for one
// company. Missing series are represented as empty slices, not errors:
// the pipeline converts missing data into failing filter results.
type CompanyData struct {
	Company Company `json:"company"`

	Price             float64 `json:"price"`
	SharesOutstanding float64 `json:"shares_outstanding"`

	Quarterly QuarterlySeries `json:"quarterly"` // most recent first
	Annual    AnnualSeries    `json:"annual"`    // most recent last
}
