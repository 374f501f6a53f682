package imdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shelfgap/internal/media"
	"shelfgap/internal/sources"
)

const (
	defaultBaseURL = "https://www.imdb.com"
	moviesPath     = "/chart/top/"
	tvPath         = "/chart/toptv/"

	// Chart pages served to non-browser agents omit the list markup.
	userAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"
	acceptLanguage = "en-US,en;q=0.9"

	maxChartBody = 8 << 20
)

// Client fetches IMDb chart pages.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the chart host, primarily for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// New creates an IMDb chart client.
func New(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Top250Movies fetches and parses the Top 250 movies chart.
func (c *Client) Top250Movies(ctx context.Context) ([]media.Record, error) {
	return c.fetchChart(ctx, moviesPath, media.KindMovie)
}

// Top250TV fetches and parses the Top 250 TV chart.
func (c *Client) Top250TV(ctx context.Context) ([]media.Record, error) {
	return c.fetchChart(ctx, tvPath, media.KindShow)
}

func (c *Client) fetchChart(ctx context.Context, path string, kind media.Kind) ([]media.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", acceptLanguage)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("imdb chart %s returned %d (latency=%v)", path, resp.StatusCode, latency)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxChartBody))
	if err != nil {
		return nil, fmt.Errorf("read chart body: %w", err)
	}

	records := parseChart(string(body), kind)
	if len(records) == 0 {
		return nil, fmt.Errorf("imdb chart %s yielded no entries; layout may have changed", path)
	}
	return records, nil
}

// MovieSource adapts the movies chart to the source contract.
func MovieSource(client *Client) sources.Source {
	return chartSource{
		name:  "IMDb Top 250 Movies",
		fetch: client.Top250Movies,
	}
}

// TVSource adapts the TV chart to the source contract.
func TVSource(client *Client) sources.Source {
	return chartSource{
		name:  "IMDb Top 250 TV",
		fetch: client.Top250TV,
	}
}

type chartSource struct {
	name  string
	fetch func(context.Context) ([]media.Record, error)
}

func (s chartSource) Name() string { return s.name }

func (s chartSource) Fetch(ctx context.Context) ([]media.Record, error) {
	return s.fetch(ctx)
}
