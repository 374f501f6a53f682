package sources

import (
	"context"

	"shelfgap/internal/media"
)

// Source produces the reference records for one named list.
type Source interface {
	// Name returns the human-readable list name used in reports and logs.
	Name() string
	// Fetch retrieves the full list. Implementations honor ctx cancellation
	// and return records with at least a title and kind populated.
	Fetch(ctx context.Context) ([]media.Record, error)
}
