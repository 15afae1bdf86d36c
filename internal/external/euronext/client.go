// Package euronext fetches listed companies from Euronext venues,
// currently only Oslo Bors.
package euronext

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nordvik/nordscreen/internal/contracts"
	"github.com/nordvik/nordscreen/pkg/config"
	"github.com/nordvik/nordscreen/pkg/httputil"
	"github.com/nordvik/nordscreen/pkg/logger"
)

// Client handles communication with the Euronext listing download.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
}

// NewClient creates a new Euronext client
func NewClient(httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("module", "euronext"),
	}
}

// FetchCompanies downloads the semicolon-separated listing export and
// parses it into the universe format. A failed download or empty export
// falls back to a static large-cap list so the screening run still has
// an Oslo universe.
func (c *Client) FetchCompanies(ctx context.Context, exchange string, cfg config.ExchangeConfig) ([]contracts.Company, error) {
	companies, err := c.fetchListing(ctx, exchange, cfg)
	if err != nil {
		c.logger.WithError(err).WithField("exchange", exchange).Warn("Listing download failed, using fallback list")
		return fallbackCompanies(exchange, cfg.Suffix), nil
	}
	if len(companies) == 0 {
		c.logger.WithField("exchange", exchange).Warn("Listing export empty, using fallback list")
		return fallbackCompanies(exchange, cfg.Suffix), nil
	}
	return companies, nil
}

func (c *Client) fetchListing(ctx context.Context, exchange string, cfg config.ExchangeConfig) ([]contracts.Company, error) {
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

	companies, err := parseListingCSV(string(body), exchange, cfg.Suffix)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"exchange": exchange,
		"count":    len(companies),
	}).Debug("Fetched Euronext listing")
	return companies, nil
}

// parseListingCSV parses the Euronext export. The file is semicolon
// separated with a header row; the Symbol and Name columns are located
// by header name since Euronext reorders columns occasionally.
func parseListingCSV(data, exchange, suffix string) ([]contracts.Company, error) {
	reader := csv.NewReader(strings.NewReader(data))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	symbolIdx, nameIdx := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "symbol":
			symbolIdx = i
		case "name":
			nameIdx = i
		}
	}
	if symbolIdx < 0 {
		return nil, fmt.Errorf("no Symbol column in listing export")
	}

	var companies []contracts.Company
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skip malformed rows rather than losing the whole listing
			continue
		}
		if symbolIdx >= len(record) {
			continue
		}

		symbol := strings.TrimSpace(record[symbolIdx])
		if symbol == "" {
			continue
		}

		name := ""
		if nameIdx >= 0 && nameIdx < len(record) {
			name = strings.TrimSpace(record[nameIdx])
		}

		companies = append(companies, contracts.Company{
			Symbol:   symbol,
			Name:     name,
			Exchange: exchange,
			Ticker:   symbol + suffix,
		})
	}

	return companies, nil
}
