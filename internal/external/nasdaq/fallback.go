package nasdaq

import "github.com/nordvik/nordscreen/internal/contracts"

type fallbackEntry struct {
	symbol string
	name   string
}

// Static large and mid cap lists, used when both the instruments API
// and the listing page are unavailable.
var fallbackLists = map[string][]fallbackEntry{
	"stockholm": {
		{"VOLV-B", "Volvo"},
		{"ERIC-B", "Ericsson"},
		{"ATCO-A", "Atlas Copco A"},
		{"ATCO-B", "Atlas Copco B"},
		{"ASSA-B", "Assa Abloy"},
		{"SEB-A", "SEB"},
		{"SWED-A", "Swedbank"},
		{"HM-B", "H&M"},
		{"SAND", "Sandvik"},
		{"SKF-B", "SKF"},
		{"INVE-B", "Investor"},
		{"SHB-A", "Handelsbanken"},
		{"ESSITY-B", "Essity"},
		{"HEXA-B", "Hexagon"},
		{"ALFA", "Alfa Laval"},
		{"ELUX-B", "Electrolux"},
		{"TEL2-B", "Tele2"},
		{"KINV-B", "Kinnevik"},
		{"BOL", "Boliden"},
		{"SSAB-A", "SSAB"},
		{"TELIA", "Telia"},
		{"NIBE-B", "NIBE Industrier"},
		{"SWMA", "Swedish Match"},
		{"GETI-B", "Getinge"},
		{"SECU-B", "Securitas"},
		{"LATO-B", "Latour"},
		{"SAAB-B", "Saab"},
		{"LIFCO-B", "Lifco"},
		{"SOBI", "Swedish Orphan Biovitrum"},
		{"EVO", "Evolution"},
		{"BETS-B", "Betsson"},
		{"HUSQ-B", "Husqvarna"},
		{"INTRUM", "Intrum"},
		{"JM", "JM"},
		{"LUND-B", "Lundbergforetagen"},
		{"NCC-B", "NCC"},
		{"PEAB-B", "Peab"},
		{"RATO-B", "Ratos"},
		{"SECT-B", "Sectra"},
		{"SWEC-B", "Sweco"},
		{"TREL-B", "Trelleborg"},
		{"WIHL", "Wihlborgs"},
	},
	"copenhagen": {
		{"NOVO-B", "Novo Nordisk"},
		{"MAERSK-B", "Maersk"},
		{"CARL-B", "Carlsberg"},
		{"VWS", "Vestas Wind"},
		{"COLO-B", "Coloplast"},
		{"DSV", "DSV"},
		{"NZYM-B", "Novozymes"},
		{"ORSTED", "Orsted"},
		{"DANSKE", "Danske Bank"},
		{"PNDORA", "Pandora"},
		{"GN", "GN Store Nord"},
		{"DEMANT", "Demant"},
		{"ROCK-B", "Rockwool"},
		{"FLS", "FLSmidth"},
		{"TRYG", "Tryg"},
		{"GMAB", "Genmab"},
		{"AMBU-B", "Ambu"},
		{"JYSK", "Jyske Bank"},
		{"RBREW", "Royal Unibrew"},
		{"ISS", "ISS"},
		{"DFDS", "DFDS"},
		{"TOP", "Topdanmark"},
		{"CHR", "Chr Hansen"},
		{"BAVA", "Bavarian Nordic"},
		{"ALK-B", "ALK-Abello"},
		{"NKT", "NKT"},
		{"NNIT", "NNIT"},
		{"PAAL-B", "Per Aarsleff"},
		{"RTX", "RTX"},
		{"SCHOUW", "Schouw"},
		{"SPNO", "Spar Nord"},
		{"SYDB", "Sydbank"},
		{"ZEAL", "Zealand Pharma"},
	},
}

func fallbackCompanies(exchange, suffix string) []contracts.Company {
	entries := fallbackLists[exchange]
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
