package euronext

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordvik/nordscreen/pkg/config"
	"github.com/nordvik/nordscreen/pkg/httputil"
	"github.com/nordvik/nordscreen/pkg/logger"
)

const listingFixture = `Name;ISIN;Symbol;Market;Currency
Equinor;NO0010096985;EQNR;Oslo Bors;NOK
DNB Bank;NO0010161896;DNB;Oslo Bors;NOK
;NO0000000000;;Oslo Bors;NOK
Telenor;NO0010063308;TEL;Oslo Bors;NOK
`

func TestClient_FetchCompanies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingFixture))
	}))
	defer server.Close()

	client := NewClient(httputil.New(logger.NewNop()).DisableRetry(), logger.NewNop())

	cfg := config.ExchangeConfig{Name: "Oslo Bors", Suffix: ".OL", ListingURL: server.URL}
	companies, err := client.FetchCompanies(context.Background(), "oslo", cfg)
	require.NoError(t, err)
	require.Len(t, companies, 3, "rows without a symbol are skipped")

	assert.Equal(t, "EQNR", companies[0].Symbol)
	assert.Equal(t, "Equinor", companies[0].Name)
	assert.Equal(t, "oslo", companies[0].Exchange)
	assert.Equal(t, "EQNR.OL", companies[0].Ticker)
	assert.Equal(t, "TEL.OL", companies[2].Ticker)
}

func TestClient_FallbackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(httputil.New(logger.NewNop()).DisableRetry(), logger.NewNop())

	cfg := config.ExchangeConfig{Name: "Oslo Bors", Suffix: ".OL", ListingURL: server.URL}
	companies, err := client.FetchCompanies(context.Background(), "oslo", cfg)
	require.NoError(t, err)
	require.NotEmpty(t, companies)

	assert.Equal(t, "EQNR.OL", companies[0].Ticker)
}

func TestParseListingCSV_ColumnOrderIndependent(t *testing.T) {
	data := "Symbol;Name\nEQNR;Equinor\n"

	companies, err := parseListingCSV(data, "oslo", ".OL")
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "Equinor", companies[0].Name)
}

func TestParseListingCSV_MissingSymbolColumn(t *testing.T) {
	data := "Name;ISIN\nEquinor;NO0010096985\n"

	_, err := parseListingCSV(data, "oslo", ".OL")
	assert.Error(t, err)
}
