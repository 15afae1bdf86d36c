// Package nasdaq fetches listed companies from Nasdaq Nordic venues
// (Stockholm and Copenhagen).
package nasdaq

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nordvik/nordscreen/internal/contracts"
	"github.com/nordvik/nordscreen/pkg/config"
	"github.com/nordvik/nordscreen/pkg/httputil"
	"github.com/nordvik/nordscreen/pkg/logger"
)

const instrumentsURL = "https://api.nasdaq.com/api/nordic/instruments"

// Client handles communication with the Nasdaq Nordic instruments API
// and its listed-companies pages.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	apiURL     string
}

// NewClient creates a new Nasdaq Nordic client
func NewClient(httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("module", "nasdaq"),
		apiURL:     instrumentsURL,
	}
}

// WithAPIURL overrides the instruments API endpoint. Used in tests.
func (c *Client) WithAPIURL(u string) *Client {
	c.apiURL = u
	return c
}

// instrumentsResponse is the shape of the instruments API payload.
type instrumentsResponse struct {
	Data struct {
		Rows []struct {
			Symbol string `json:"symbol"`
			Name   string `json:"name"`
		} `json:"rows"`
	} `json:"data"`
}

// FetchCompanies returns the listed companies for one venue. It tries
// the instruments API first, then scrapes the listed-companies page,
// then falls back to a static large-cap list, so a screening run never
// starts with an empty venue.
func (c *Client) FetchCompanies(ctx context.Context, exchange string, cfg config.ExchangeConfig) ([]contracts.Company, error) {
	companies, err := c.fetchAPI(ctx, exchange, cfg)
	if err == nil && len(companies) > 0 {
		return companies, nil
	}
	if err != nil {
		c.logger.WithError(err).WithField("exchange", exchange).Warn("Instruments API failed, scraping listing page")
	}

	companies, err = c.fetchScrape(ctx, exchange, cfg)
	if err == nil && len(companies) > 0 {
		return companies, nil
	}
	if err != nil {
		c.logger.WithError(err).WithField("exchange", exchange).Warn("Listing page scrape failed, using fallback list")
	}

	return fallbackCompanies(exchange, cfg.Suffix), nil
}

func (c *Client) fetchAPI(ctx context.Context, exchange string, cfg config.ExchangeConfig) ([]contracts.Company, error) {
	params := url.Values{}
	params.Set("assetClass", "shares")
	params.Set("market", cfg.MIC)

	resp, err := c.httpClient.Get(ctx, fmt.Sprintf("%s?%s", c.apiURL, params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var payload instrumentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode instruments response: %w", err)
	}

	companies := make([]contracts.Company, 0, len(payload.Data.Rows))
	for _, row := range payload.Data.Rows {
		symbol := strings.TrimSpace(row.Symbol)
		if symbol == "" {
			continue
		}
		companies = append(companies, contracts.Company{
			Symbol:   symbol,
			Name:     strings.TrimSpace(row.Name),
			Exchange: exchange,
			Ticker:   symbol + cfg.Suffix,
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"exchange": exchange,
		"count":    len(companies),
	}).Debug("Fetched instruments from API")
	return companies, nil
}

// fetchScrape parses the listed-companies HTML table. The first cell
// holds the company name, the second the symbol.
func (c *Client) fetchScrape(ctx context.Context, exchange string, cfg config.ExchangeConfig) ([]contracts.Company, error) {
	resp, err := c.httpClient.Get(ctx, cfg.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse listing page: %w", err)
	}

	var companies []contracts.Company
	doc.Find("table.tablesorter tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		name := strings.TrimSpace(cells.Eq(0).Text())
		symbol := strings.TrimSpace(cells.Eq(1).Text())
		if symbol == "" {
			return
		}
		companies = append(companies, contracts.Company{
			Symbol:   symbol,
			Name:     name,
			Exchange: exchange,
			Ticker:   symbol + cfg.Suffix,
		})
	})

	c.logger.WithFields(map[string]interface{}{
		"exchange": exchange,
		"count":    len(companies),
	}).Debug("Scraped listing page")
	return companies, nil
}
