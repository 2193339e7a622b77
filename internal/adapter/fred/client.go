package fred

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/civicsignal/econdash/internal/catalog"
	"github.com/civicsignal/econdash/internal/domain"
)

// Client fetches indicator series from the FRED API. FRED has no per-year
// table endpoint, so each series costs two GETs per year: the most recent
// annual observation inside the year's date range, and the series metadata
// for its display title.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	index      *catalog.Index
	logger     *slog.Logger
}

// NewClient creates a FRED API client.
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
func (c *Client) Source() catalog.Source { return catalog.SourceFRED }

// FetchYear fetches each requested series for the year. A failing series is
// recorded as an error observation rather than aborting the year, so callers
// always see whatever data was obtainable. FRED series are national; the
// location is carried through for display only.
func (c *Client) FetchYear(ctx context.Context, loc domain.Location, year string, codes []string) (domain.YearResult, error) {
	location := loc.Name
	if location == "" {
		location = "United States"
	}

	variables := make([]domain.ObservedVariable, 0, len(codes))
	for _, code := range codes {
		if err := ctx.Err(); err != nil {
			return domain.YearResult{}, err
		}

		obs, err := c.fetchSeries(ctx, code, year)
		if err != nil {
			c.logger.Warn("fred series fetch failed", "series_id", code, "year", year, "error", err)
			d := c.index.LookupOrPlaceholder(code)
			d.Category = "Error"
			variables = append(variables, domain.NewObserved(d, nil, location))
			continue
		}
		obs.Location = location
		variables = append(variables, obs)
	}

	return domain.YearResult{
		Year:      year,
		Location:  location,
		FetchedAt: domain.Now(),
		Variables: variables,
	}, nil
}

// fetchSeries retrieves one series' latest observation within the year plus
// its metadata title.
func (c *Client) fetchSeries(ctx context.Context, seriesID, year string) (domain.ObservedVariable, error) {
	obsParams := url.Values{
		"series_id":         {seriesID},
		"observation_start": {year + "-01-01"},
		"observation_end":   {year + "-12-31"},
		"sort_order":        {"desc"},
		"limit":             {"1"},
		"file_type":         {"json"},
	}
	if c.apiKey != "" {
		obsParams.Set("api_key", c.apiKey)
	}

	var obsResp observationsResponse
	if err := c.getJSON(ctx, c.baseURL+"/series/observations?"+obsParams.Encode(), &obsResp); err != nil {
		return domain.ObservedVariable{}, err
	}
	if len(obsResp.Observations) == 0 {
		return domain.ObservedVariable{}, &domain.ResponseShapeError{
			Source: "fred",
			Detail: fmt.Sprintf("no observations for %s in %s", seriesID, year),
		}
	}

	title, err := c.fetchTitle(ctx, seriesID)
	if err != nil {
		// The observation is still usable; fall back to the catalog name.
		c.logger.Warn("fred series metadata fetch failed", "series_id", seriesID, "error", err)
	}

	d := c.index.LookupOrPlaceholder(seriesID)
	if title != "" {
		d.Name = title
	}
	if d.Category == "Other" {
		d.Category = "Indicators"
	}

	// FRED encodes missing observations as ".".
	var value *float64
	if parsed, ok := domain.ParseNumeric(obsResp.Observations[0].Value); ok {
		value = &parsed
	}
	return domain.NewObserved(d, value, ""), nil
}

// fetchTitle retrieves the series metadata and returns its title.
func (c *Client) fetchTitle(ctx context.Context, seriesID string) (string, error) {
	params := url.Values{
		"series_id": {seriesID},
		"file_type": {"json"},
	}
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	var metaResp seriesResponse
	if err := c.getJSON(ctx, c.baseURL+"/series?"+params.Encode(), &metaResp); err != nil {
		return "", err
	}
	if len(metaResp.Seriess) == 0 {
		return "", nil
	}
	return metaResp.Seriess[0].Title, nil
}

func (c *Client) getJSON(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.HTTPError{Source: "fred", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain for connection reuse
		return &domain.HTTPError{Source: "fred", Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.ResponseShapeError{Source: "fred", Detail: "payload is not valid JSON"}
	}
	return nil
}

// FRED API response types.

type observationsResponse struct {
	Observations []observation `json:"observations"`
}

type observation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

type seriesResponse struct {
	Seriess []series `json:"seriess"`
}

type series struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
