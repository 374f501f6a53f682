package trakt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shelfgap/internal/media"
)

const (
	defaultBaseURL = "https://api.trakt.tv"
	pageSize       = 100

	// Trakt asks API consumers to pace paginated reads.
	defaultPageDelay = 200 * time.Millisecond
)

// ListType declares what a Trakt list contains.
type ListType string

const (
	ListMovies ListType = "movies"
	ListShows  ListType = "shows"
	ListMixed  ListType = "mixed"
)

// Valid reports whether the list type is one of the supported values.
func (t ListType) Valid() bool {
	return t == ListMovies || t == ListShows || t == ListMixed
}

// Client talks to the Trakt v2 API.
type Client struct {
	baseURL    string
	clientID   string
	pageDelay  time.Duration
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

// WithBaseURL overrides the API host, primarily for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithPageDelay overrides the pause between page fetches.
func WithPageDelay(delay time.Duration) Option {
	return func(c *Client) {
		if delay >= 0 {
			c.pageDelay = delay
		}
	}
}

// New creates a Trakt client. The client id is the registered application
// key sent with every request.
func New(clientID string, opts ...Option) (*Client, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, errors.New("trakt client id required")
	}
	client := &Client{
		baseURL:    defaultBaseURL,
		clientID:   clientID,
		pageDelay:  defaultPageDelay,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type listIDs struct {
	IMDb string `json:"imdb"`
	TMDb int64  `json:"tmdb"`
	TVDB int64  `json:"tvdb"`
}

type listEntry struct {
	Title string  `json:"title"`
	Year  int     `json:"year"`
	IDs   listIDs `json:"ids"`
}

type listItem struct {
	Type  string     `json:"type"`
	Movie *listEntry `json:"movie"`
	Show  *listEntry `json:"show"`
}

// FetchList retrieves every item of a user list. Typed lists hit the
// /items/movies or /items/shows endpoint; mixed lists hit /items and rely
// on the per-item type field. Items of other types (episodes, people) are
// skipped.
func (c *Client) FetchList(ctx context.Context, user, slug string, listType ListType) ([]media.Record, error) {
	user = strings.TrimSpace(user)
	slug = strings.TrimSpace(slug)
	if user == "" || slug == "" {
		return nil, errors.New("trakt list user and slug required")
	}
	if !listType.Valid() {
		return nil, fmt.Errorf("trakt list type: unsupported value %q", listType)
	}

	endpoint := fmt.Sprintf("%s/users/%s/lists/%s/items", c.baseURL, url.PathEscape(user), url.PathEscape(slug))
	switch listType {
	case ListMovies:
		endpoint += "/movies"
	case ListShows:
		endpoint += "/shows"
	}

	var records []media.Record
	for page := 1; ; page++ {
		if page > 1 && c.pageDelay > 0 {
			timer := time.NewTimer(c.pageDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		batch, err := c.fetchPage(ctx, endpoint, page)
		if err != nil {
			return nil, err
		}
		for _, item := range batch {
			if record, ok := item.record(listType); ok {
				records = append(records, record)
			}
		}
		if len(batch) < pageSize {
			break
		}
	}
	return records, nil
}

func (c *Client) fetchPage(ctx context.Context, endpoint string, page int) ([]listItem, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse trakt url: %w", err)
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(pageSize))
	parsed.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("trakt-api-version", "2")
	req.Header.Set("trakt-api-key", c.clientID)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("trakt list not found: %s", parsed.Path)
	default:
		return nil, fmt.Errorf("trakt returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var batch []listItem
	if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		return nil, fmt.Errorf("decode trakt response: %w", err)
	}
	return batch, nil
}

func (item listItem) record(listType ListType) (media.Record, bool) {
	var (
		entry *listEntry
		kind  media.Kind
	)
	switch {
	case item.Type == "movie" && item.Movie != nil:
		entry, kind = item.Movie, media.KindMovie
	case item.Type == "show" && item.Show != nil:
		entry, kind = item.Show, media.KindShow
	case item.Type == "" && listType == ListMovies && item.Movie != nil:
		entry, kind = item.Movie, media.KindMovie
	case item.Type == "" && listType == ListShows && item.Show != nil:
		entry, kind = item.Show, media.KindShow
	default:
		return media.Record{}, false
	}

	title := strings.TrimSpace(entry.Title)
	if title == "" {
		return media.Record{}, false
	}
	record := media.Record{Title: title, Kind: kind}
	if entry.Year > 0 {
		record.Year = strconv.Itoa(entry.Year)
	}
	record.SetIdentifier(media.NamespaceIMDb, entry.IDs.IMDb)
	if entry.IDs.TMDb > 0 {
		record.SetIdentifier(media.NamespaceTMDb, strconv.FormatInt(entry.IDs.TMDb, 10))
	}
	if entry.IDs.TVDB > 0 {
		record.SetIdentifier(media.NamespaceTVDB, strconv.FormatInt(entry.IDs.TVDB, 10))
	}
	return record, true
}
