package reconcile

import (
	"strings"

	"shelfgap/internal/media"
)

type idKey struct {
	ns media.Namespace
	id string
}

type titleYearKey struct {
	title string
	year  string
}

// Index holds the lookup structures for one kind partition of library
// records: an identifier index, a normalized title+year index, and a flat
// list of normalized titles aligned with the underlying records for fuzzy
// search.
type Index struct {
	records     []media.Record
	titles      []string
	byID        map[idKey]int
	byTitleYear map[titleYearKey]int
}

// BuildIndex constructs an Index over the supplied library records. The
// caller must pre-filter by kind; BuildIndex does not partition.
//
// Duplicate identifier or title+year keys keep the most recently inserted
// record (last write wins). Duplicates are not expected in a healthy library
// but must not fail the build.
func BuildIndex(records []media.Record) *Index {
	idx := &Index{
		records:     records,
		titles:      make([]string, len(records)),
		byID:        make(map[idKey]int),
		byTitleYear: make(map[titleYearKey]int, len(records)),
	}
	for i, rec := range records {
		for _, ns := range media.NamespacePriority {
			if id, ok := rec.ID(ns); ok {
				idx.byID[idKey{ns: ns, id: id}] = i
			}
		}
		normalized := Normalize(rec.Title)
		idx.titles[i] = normalized
		idx.byTitleYear[titleYearKey{title: normalized, year: strings.TrimSpace(rec.Year)}] = i
	}
	return idx
}

// Len returns the number of indexed library records.
func (x *Index) Len() int {
	return len(x.records)
}

// LookupID returns the library record indexed under the given namespace and
// id.
func (x *Index) LookupID(ns media.Namespace, id string) (media.Record, bool) {
	i, ok := x.byID[idKey{ns: ns, id: id}]
	if !ok {
		return media.Record{}, false
	}
	return x.records[i], true
}

// LookupTitleYear returns the library record indexed under the normalized
// title and year key. An empty year only matches records whose own year is
// recorded as empty.
func (x *Index) LookupTitleYear(normalizedTitle, year string) (media.Record, bool) {
	i, ok := x.byTitleYear[titleYearKey{title: normalizedTitle, year: strings.TrimSpace(year)}]
	if !ok {
		return media.Record{}, false
	}
	return x.records[i], true
}
