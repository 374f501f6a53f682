package radarr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shelfgap/internal/media"
)

// Settings carries the add parameters applied to every queued movie.
type Settings struct {
	QualityProfileID int
	RootFolderPath   string
	Monitored        bool
	SearchOnAdd      bool
}

// Client talks to a Radarr server.
type Client struct {
	baseURL    string
	apiKey     string
	settings   Settings
	addDelay   time.Duration
	httpClient *http.Client
	logger     *slog.Logger
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

// WithAddDelay overrides the pause between queued adds.
func WithAddDelay(delay time.Duration) Option {
	return func(c *Client) {
		if delay >= 0 {
			c.addDelay = delay
		}
	}
}

// WithLogger attaches a logger for per-title skip diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger.With("component", "radarr")
		}
	}
}

// New creates a Radarr client.
func New(baseURL, apiKey string, settings Settings, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("radarr base url required")
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("radarr api key required")
	}
	client := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		settings:   settings,
		addDelay:   200 * time.Millisecond,
		httpClient: &http.Client{Timeout: 20 * time.Second},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type candidate struct {
	Title     string          `json:"title"`
	Year      int             `json:"year"`
	TMDBID    int64           `json:"tmdbId"`
	TitleSlug string          `json:"titleSlug"`
	Images    json.RawMessage `json:"images"`
}

type addRequest struct {
	Title            string          `json:"title"`
	TMDBID           int64           `json:"tmdbId"`
	Year             int             `json:"year"`
	TitleSlug        string          `json:"titleSlug"`
	Images           json.RawMessage `json:"images"`
	QualityProfileID int             `json:"qualityProfileId"`
	RootFolderPath   string          `json:"rootFolderPath"`
	Monitored        bool            `json:"monitored"`
	AddOptions       addOptions      `json:"addOptions"`
	Path             string          `json:"path"`
}

type addOptions struct {
	SearchForMovie bool `json:"searchForMovie"`
}

// QueueMissing looks up and adds each missing movie. Titles that yield no
// lookup candidate or that the server refuses (typically already queued)
// are skipped with a log line; transport failures abort the whole batch.
// The returned slice holds the records that were actually added.
func (c *Client) QueueMissing(ctx context.Context, records []media.Record) ([]media.Record, error) {
	var added []media.Record
	for i, record := range records {
		if i > 0 && c.addDelay > 0 {
			timer := time.NewTimer(c.addDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return added, ctx.Err()
			case <-timer.C:
			}
		}

		cand, err := c.lookup(ctx, record)
		if err != nil {
			return added, err
		}
		if cand == nil {
			c.logger.Warn("no lookup candidate", "title", record.Title, "year", record.Year)
			continue
		}

		ok, err := c.add(ctx, *cand)
		if err != nil {
			return added, err
		}
		if !ok {
			c.logger.Warn("add refused", "title", record.Title, "year", record.Year)
			continue
		}
		c.logger.Info("queued movie", "title", record.Title, "year", record.Year)
		added = append(added, record)
	}
	return added, nil
}

func lookupTerm(record media.Record) string {
	if id, ok := record.ID(media.NamespaceIMDb); ok {
		return "imdb:" + id
	}
	if id, ok := record.ID(media.NamespaceTMDb); ok {
		return "tmdb:" + id
	}
	if record.Year != "" {
		return fmt.Sprintf("%s (%s)", record.Title, record.Year)
	}
	return record.Title
}

func (c *Client) lookup(ctx context.Context, record media.Record) (*candidate, error) {
	candidates, err := c.lookupTerm(ctx, lookupTerm(record))
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		// Id terms can miss on servers with stale metadata.
		candidates, err = c.lookupTerm(ctx, record.Title)
		if err != nil {
			return nil, err
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	return &candidates[0], nil
}

func (c *Client) lookupTerm(ctx context.Context, term string) ([]candidate, error) {
	endpoint, err := url.Parse(c.baseURL + "/api/v3/movie/lookup")
	if err != nil {
		return nil, fmt.Errorf("parse radarr url: %w", err)
	}
	params := url.Values{}
	params.Set("term", term)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("radarr lookup returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var candidates []candidate
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		return nil, fmt.Errorf("decode radarr lookup: %w", err)
	}
	return candidates, nil
}

func (c *Client) add(ctx context.Context, cand candidate) (bool, error) {
	images := cand.Images
	if images == nil {
		images = json.RawMessage("[]")
	}
	payload := addRequest{
		Title:            cand.Title,
		TMDBID:           cand.TMDBID,
		Year:             cand.Year,
		TitleSlug:        cand.TitleSlug,
		Images:           images,
		QualityProfileID: c.settings.QualityProfileID,
		RootFolderPath:   c.settings.RootFolderPath,
		Monitored:        c.settings.Monitored,
		AddOptions:       addOptions{SearchForMovie: c.settings.SearchOnAdd},
		Path:             strings.TrimRight(c.settings.RootFolderPath, "/") + "/" + cand.Title,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("marshal add request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v3/movie", bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return false, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return true, nil
	case http.StatusBadRequest, http.StatusConflict:
		// Typically "movie already exists"; not fatal for the batch.
		return false, nil
	default:
		return false, fmt.Errorf("radarr add returned %d (latency=%v)", resp.StatusCode, latency)
	}
}
