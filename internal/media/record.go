package media

import (
	"errors"
	"fmt"
	"strings"
)

// Kind partitions records into movies and shows. Matching never crosses the
// partition: a movie reference is only ever compared against movie library
// records.
type Kind string

const (
	KindMovie Kind = "movie"
	KindShow  Kind = "show"
)

// Valid reports whether the kind is one of the supported partitions.
func (k Kind) Valid() bool {
	return k == KindMovie || k == KindShow
}

func (k Kind) String() string {
	return string(k)
}

// Namespace identifies an external catalog whose ids are only comparable
// within themselves.
type Namespace string

const (
	NamespaceIMDb Namespace = "imdb"
	NamespaceTMDb Namespace = "tmdb"
	NamespaceTVDB Namespace = "tvdb"
)

// NamespacePriority is the fixed order in which identifier namespaces are
// consulted during matching. IMDb wins when a record improbably carries
// conflicting ids that each resolve to a different library item.
var NamespacePriority = []Namespace{NamespaceIMDb, NamespaceTMDb, NamespaceTVDB}

func (n Namespace) String() string {
	return string(n)
}

// Record is the universal representation for both library holdings and
// reference-list entries.
//
// Year is an optional 4-digit string; empty means the year is unknown, which
// is a distinct state from any concrete year. LibraryKey is set only on
// library-side records and carries the persistent catalog handle (the Plex
// ratingKey) used to report which item matched.
type Record struct {
	Title       string
	Year        string
	Kind        Kind
	Identifiers map[Namespace]string
	LibraryKey  string
}

// ID returns the identifier for the given namespace, if present.
func (r Record) ID(ns Namespace) (string, bool) {
	if len(r.Identifiers) == 0 {
		return "", false
	}
	id, ok := r.Identifiers[ns]
	if !ok || strings.TrimSpace(id) == "" {
		return "", false
	}
	return id, true
}

// HasYear reports whether the record carries a defined year.
func (r Record) HasYear() bool {
	return strings.TrimSpace(r.Year) != ""
}

// SetIdentifier records an id under the given namespace, allocating the map
// on first use. Empty ids are ignored.
func (r *Record) SetIdentifier(ns Namespace, id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	if r.Identifiers == nil {
		r.Identifiers = make(map[Namespace]string, len(NamespacePriority))
	}
	r.Identifiers[ns] = id
}

// Validate rejects records that violate the core contract: a title and a
// valid kind are required, and a defined year must be a 4-digit string.
// Adapters are expected to validate or default fields before records reach
// the reconciler.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("record title required")
	}
	if !r.Kind.Valid() {
		return fmt.Errorf("record kind %q invalid", r.Kind)
	}
	if year := strings.TrimSpace(r.Year); year != "" {
		if len(year) != 4 {
			return fmt.Errorf("record year %q must be 4 digits", r.Year)
		}
		for _, c := range year {
			if c < '0' || c > '9' {
				return fmt.Errorf("record year %q must be 4 digits", r.Year)
			}
		}
	}
	return nil
}
