package trakt

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"shelfgap/internal/media"
	"shelfgap/internal/sources"
)

var titleCaser = cases.Title(language.English)

// ListSource adapts one configured user list to the source contract.
type ListSource struct {
	client   *Client
	user     string
	slug     string
	listType ListType
}

var _ sources.Source = (*ListSource)(nil)

// NewListSource wraps a client with the coordinates of one user list.
func NewListSource(client *Client, user, slug string, listType ListType) *ListSource {
	return &ListSource{
		client:   client,
		user:     strings.TrimSpace(user),
		slug:     strings.TrimSpace(slug),
		listType: listType,
	}
}

// Name renders the slug as a title-cased display name with the owning user.
func (s *ListSource) Name() string {
	display := titleCaser.String(strings.ReplaceAll(s.slug, "-", " "))
	return fmt.Sprintf("Trakt: %s (%s)", display, s.user)
}

// Fetch retrieves the full list.
func (s *ListSource) Fetch(ctx context.Context) ([]media.Record, error) {
	return s.client.FetchList(ctx, s.user, s.slug, s.listType)
}
