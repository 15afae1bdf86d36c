package euronext

import "github.com/nordvik/nordscreen/internal/contracts"

// fallbackCompanies returns the static Oslo Bors large-cap list used
// when the listing export is unavailable.
func fallbackCompanies(exchange, suffix string) []contracts.Company {
	entries := []struct {
		symbol string
		name   string
	}{
		{"EQNR", "Equinor"},
		{"DNB", "DNB Bank"},
		{"TEL", "Telenor"},
		{"MOWI", "Mowi"},
		{"ORK", "Orkla"},
		{"YAR", "Yara International"},
		{"SALM", "SalMar"},
		{"AKRBP", "Aker BP"},
		{"NHY", "Norsk Hydro"},
		{"SUBC", "Subsea 7"},
		{"TOM", "Tomra Systems"},
		{"AKSO", "Aker Solutions"},
		{"KOG", "Kongsberg Gruppen"},
		{"SCATC", "Scatec"},
		{"BWO", "BW Offshore"},
	}

	companies := make([]contracts.Company, 0, len(entries))
	for _, e := range entries {
		companies = append(companies, contracts.Company{
			Symbol:   e.symbol,
			Name:     e.name,
			Exchange: exchange,
			Ticker:   e.symbol + suffix,
		})
	}
	return companies
}
