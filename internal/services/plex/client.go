package plex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrUnauthorized indicates the server rejected the configured token.
var ErrUnauthorized = errors.New("plex token rejected")

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to a Plex Media Server.
type Client struct {
	baseURL string
	token   string
	client  HTTPDoer
}

// NewClient constructs a server client. A nil doer falls back to a default
// HTTP client.
func NewClient(baseURL, token string, doer HTTPDoer) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("plex base url required")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("plex token required")
	}
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: baseURL, token: token, client: doer}, nil
}

// Section describes one library section.
type Section struct {
	Key   string
	Title string
	Type  string
}

type sectionsResponse struct {
	MediaContainer struct {
		Directory []struct {
			Key   string `json:"key"`
			Title string `json:"title"`
			Type  string `json:"type"`
		} `json:"Directory"`
	} `json:"MediaContainer"`
}

// Sections lists the server's library sections.
func (c *Client) Sections(ctx context.Context) ([]Section, error) {
	var payload sectionsResponse
	if err := c.getJSON(ctx, "/library/sections", &payload); err != nil {
		return nil, err
	}
	sections := make([]Section, 0, len(payload.MediaContainer.Directory))
	for _, dir := range payload.MediaContainer.Directory {
		sections = append(sections, Section{Key: dir.Key, Title: dir.Title, Type: dir.Type})
	}
	return sections, nil
}

// Item is one library entry as returned by a section listing.
type Item struct {
	RatingKey string
	Title     string
	Year      string
	GUIDs     []string
}

type itemsResponse struct {
	MediaContainer struct {
		Metadata []struct {
			RatingKey string `json:"ratingKey"`
			Title     string `json:"title"`
			Year      int    `json:"year"`
			GUID      string `json:"guid"`
			GUIDs     []struct {
				ID string `json:"id"`
			} `json:"Guid"`
		} `json:"Metadata"`
	} `json:"MediaContainer"`
}

// SectionItems fetches every item of one section.
func (c *Client) SectionItems(ctx context.Context, sectionKey string) ([]Item, error) {
	sectionKey = strings.TrimSpace(sectionKey)
	if sectionKey == "" {
		return nil, errors.New("plex section key required")
	}
	var payload itemsResponse
	if err := c.getJSON(ctx, "/library/sections/"+sectionKey+"/all", &payload); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(payload.MediaContainer.Metadata))
	for _, meta := range payload.MediaContainer.Metadata {
		item := Item{
			RatingKey: meta.RatingKey,
			Title:     meta.Title,
		}
		if meta.Year > 0 {
			item.Year = strconv.Itoa(meta.Year)
		}
		for _, guid := range meta.GUIDs {
			if guid.ID != "" {
				item.GUIDs = append(item.GUIDs, guid.ID)
			}
		}
		// Legacy agents store a single guid on the item itself.
		if meta.GUID != "" {
			item.GUIDs = append(item.GUIDs, meta.GUID)
		}
		items = append(items, item)
	}
	return items, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Plex-Token", c.token)

	requestStart := time.Now()
	resp, err := c.client.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("plex GET %s returned %d (latency=%v): %s", path, resp.StatusCode, latency, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode plex response: %w", err)
	}
	return nil
}
