package universe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordvik/nordscreen/internal/contracts"
	"github.com/nordvik/nordscreen/pkg/config"
	"github.com/nordvik/nordscreen/pkg/logger"
)

type stubLister struct {
	companies map[string][]contracts.Company
	err       error
	calls     []string
}

func (s *stubLister) FetchCompanies(_ context.Context, exchange string, _ config.ExchangeConfig) ([]contracts.Company, error) {
	s.calls = append(s.calls, exchange)
	if s.err != nil {
		return nil, s.err
	}
	return s.companies[exchange], nil
}

func universeConfig() *config.Config {
	return &config.Config{
		Exchanges: map[string]config.ExchangeConfig{
			"oslo":      {Name: "Oslo Bors", Suffix: ".OL"},
			"stockholm": {Name: "Nasdaq Stockholm", Suffix: ".ST", MIC: "XSTO"},
		},
	}
}

func TestBuilder_RoutesByMIC(t *testing.T) {
	euronext := &stubLister{companies: map[string][]contracts.Company{
		"oslo": {{Symbol: "EQNR", Exchange: "oslo", Ticker: "EQNR.OL"}},
	}}
	nasdaq := &stubLister{companies: map[string][]contracts.Company{
		"stockholm": {{Symbol: "VOLV-B", Exchange: "stockholm", Ticker: "VOLV-B.ST"}},
	}}

	b := NewBuilder(euronext, nasdaq, nil, universeConfig(), logger.NewNop())

	universe, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, universe, 2)

	assert.Equal(t, []string{"oslo"}, euronext.calls)
	assert.Equal(t, []string{"stockholm"}, nasdaq.calls)
}

func TestBuilder_SortedAndDeduplicated(t *testing.T) {
	euronext := &stubLister{companies: map[string][]contracts.Company{
		"oslo": {
			{Symbol: "TEL", Exchange: "oslo", Ticker: "TEL.OL"},
			{Symbol: "EQNR", Exchange: "oslo", Ticker: "EQNR.OL"},
			{Symbol: "EQNR", Exchange: "oslo", Ticker: "EQNR.OL"},
			{Symbol: "", Exchange: "oslo", Ticker: ""},
		},
	}}
	nasdaq := &stubLister{}

	cfg := universeConfig()
	delete(cfg.Exchanges, "stockholm")

	b := NewBuilder(euronext, nasdaq, nil, cfg, logger.NewNop())

	universe, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, universe, 2)

	assert.Equal(t, "EQNR.OL", universe[0].Ticker)
	assert.Equal(t, "TEL.OL", universe[1].Ticker)
}

func TestBuilder_PropagatesListerError(t *testing.T) {
	euronext := &stubLister{err: errors.New("connection refused")}

	cfg := universeConfig()
	delete(cfg.Exchanges, "stockholm")

	b := NewBuilder(euronext, &stubLister{}, nil, cfg, logger.NewNop())

	_, err := b.Build(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oslo")
}
