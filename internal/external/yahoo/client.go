// Package yahoo fetches prices and financial statements from the Yahoo
// Finance quote summary API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/nordvik/nordscreen/internal/contracts"
	"github.com/nordvik/nordscreen/pkg/config"
	"github.com/nordvik/nordscreen/pkg/httputil"
	"github.com/nordvik/nordscreen/pkg/logger"
	"github.com/nordvik/nordscreen/pkg/redis"
)

const defaultBaseURL = "https://query2.finance.yahoo.com"

// quoteSummaryModules are requested in one call per company.
var quoteSummaryModules = []string{
	"price",
	"summaryProfile",
	"defaultKeyStatistics",
	"incomeStatementHistory",
	"incomeStatementHistoryQuarterly",
	"balanceSheetHistory",
	"balanceSheetHistoryQuarterly",
	"cashflowStatementHistory",
	"cashflowStatementHistoryQuarterly",
}

// Client handles communication with the Yahoo Finance API.
type Client struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Yahoo Finance client. cache may be nil; the
// client then fetches on every call.
func NewClient(httpClient *httputil.Client, cache *redis.Cache, cfg config.YahooConfig, log *logger.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		cache:      cache,
		logger:     log.WithField("module", "yahoo"),
		baseURL:    baseURL,
	}
}

// FetchCompanyData returns one company's price, profile and statement
// series, served from cache when available. A cache failure degrades to
// a live fetch; a fetch failure is an infrastructure error.
func (c *Client) FetchCompanyData(ctx context.Context, company contracts.Company) (*contracts.CompanyData, error) {
	if c.cache != nil {
		var cached contracts.CompanyData
		hit, err := c.cache.Get(ctx, redis.KindFinancials, company.Ticker, &cached)
		if err != nil {
			c.logger.WithError(err).WithField("ticker", company.Ticker).Warn("Cache read failed")
		}
		if hit {
			return &cached, nil
		}
	}

	summary, err := c.fetchQuoteSummary(ctx, company.Ticker)
	if err != nil {
		return nil, contracts.NewInfrastructure("yahoo", err)
	}

	data := summary.toCompanyData(company)

	if c.cache != nil {
		if err := c.cache.Set(ctx, redis.KindFinancials, company.Ticker, data); err != nil {
			c.logger.WithError(err).WithField("ticker", company.Ticker).Warn("Cache write failed")
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":    company.Ticker,
		"quarters":  len(data.Quarterly),
		"years":     len(data.Annual),
		"has_price": data.Price > 0,
	}).Debug("Fetched company data")

	return data, nil
}

func (c *Client) fetchQuoteSummary(ctx context.Context, ticker string) (*quoteSummaryResult, error) {
	params := url.Values{}
	params.Set("modules", strings.Join(quoteSummaryModules, ","))

	fullURL := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?%s", c.baseURL, url.PathEscape(ticker), params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("ticker %s not found", ticker)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var envelope quoteSummaryEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode quote summary: %w", err)
	}

	if envelope.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quote summary error: %s", envelope.QuoteSummary.Error.Description)
	}
	if len(envelope.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("empty quote summary for %s", ticker)
	}

	return &envelope.QuoteSummary.Result[0], nil
}
