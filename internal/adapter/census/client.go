package census

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/civicsignal/econdash/internal/catalog"
	"github.com/civicsignal/econdash/internal/domain"
)

// Client fetches ACS 5-year estimates from the Census Bureau API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	index      *catalog.Index
	logger     *slog.Logger
}

// NewClient creates a Census API client.
func NewClient(baseURL, apiKey string, timeout time.Duration, index *catalog.Index, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		index:   index,
		logger:  logger,
	}
}

// Source implements domain.Fetcher.
func (c *Client) Source() catalog.Source { return catalog.SourceCensus }

// FetchYear issues one GET for the county and year. The API answers with a
// two-row table: row 0 holds the column headers, row 1 the values.
func (c *Client) FetchYear(ctx context.Context, loc domain.Location, year string, codes []string) (domain.YearResult, error) {
	params := url.Values{
		"get": {"NAME," + strings.Join(codes, ",")},
		"for": {"county:" + loc.CountyFIPS},
		"in":  {"state:" + loc.StateCode},
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	fullURL := fmt.Sprintf("%s/%s/acs/acs5?%s", c.baseURL, year, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.YearResult{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.YearResult{}, &domain.HTTPError{Source: "census", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.YearResult{}, &domain.HTTPError{Source: "census", Status: resp.StatusCode}
	}

	var table [][]string
	if err := json.NewDecoder(resp.Body).Decode(&table); err != nil {
		return domain.YearResult{}, &domain.ResponseShapeError{Source: "census", Detail: "payload is not a JSON table"}
	}
	if len(table) < 2 {
		return domain.YearResult{}, &domain.ResponseShapeError{
			Source: "census",
			Detail: fmt.Sprintf("expected header and value rows, got %d rows", len(table)),
		}
	}

	return c.buildResult(table[0], table[1], year, codes), nil
}

// buildResult maps the header row onto the value row and extracts the
// requested codes. Upstream sends every value as a string; non-numeric cells
// become null observations.
func (c *Client) buildResult(headers, values []string, year string, codes []string) domain.YearResult {
	cells := make(map[string]string, len(headers))
	for i, h := range headers {
		if i < len(values) {
			cells[h] = values[i]
		}
	}

	location := cells["NAME"]
	variables := make([]domain.ObservedVariable, 0, len(codes))
	for _, code := range codes {
		d := c.index.LookupOrPlaceholder(code)
		raw, ok := cells[code]
		if !ok {
			c.logger.Warn("census response missing requested column", "code", code, "year", year)
		}
		var value *float64
		if parsed, numeric := domain.ParseNumeric(raw); ok && numeric {
			value = &parsed
		}
		variables = append(variables, domain.NewObserved(d, value, location))
	}

	return domain.YearResult{
		Year:      year,
		Location:  location,
		FetchedAt: domain.Now(),
		Variables: variables,
	}
}
