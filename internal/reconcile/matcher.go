package reconcile

import (
	"fmt"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"shelfgap/internal/media"
)

// Options configures the matching policy.
type Options struct {
	// FuzzyThreshold is the minimum weighted-ratio score (0-100) for a
	// non-exact title match to be accepted.
	FuzzyThreshold int
	// PreferIDs enables the identifier stage ahead of title matching.
	PreferIDs bool
}

// Validate checks that the options are within their documented ranges.
func (o Options) Validate() error {
	if o.FuzzyThreshold < 0 || o.FuzzyThreshold > 100 {
		return fmt.Errorf("fuzzy threshold %d outside [0,100]", o.FuzzyThreshold)
	}
	return nil
}

// Result classifies one reference record after matching: Present carries the
// matched library record (and therefore its LibraryKey), Missing carries only
// the original reference.
type Result struct {
	Reference media.Record
	Library   media.Record
	Present   bool
}

// LibraryKey returns the catalog handle of the matched library record, or ""
// when the reference is missing.
func (r Result) LibraryKey() string {
	if !r.Present {
		return ""
	}
	return r.Library.LibraryKey
}

// Match runs the layered matching policy for a single reference record
// against one library partition. Stages short-circuit: the first match wins.
//
//  1. Identifier lookup in namespace priority order (only when PreferIDs).
//  2. Exact normalized title+year lookup. A reference without a year only
//     matches a library record whose year is also recorded as empty.
//  3. Fuzzy title match: highest weighted-ratio score across all indexed
//     titles, accepted at or above FuzzyThreshold, then disambiguated by
//     year among records sharing the winning title. A reference without a
//     year accepts any candidate year at this stage.
func Match(ref media.Record, idx *Index, opts Options) Result {
	if opts.PreferIDs {
		for _, ns := range media.NamespacePriority {
			id, ok := ref.ID(ns)
			if !ok {
				continue
			}
			if found, ok := idx.LookupID(ns, id); ok {
				return Result{Reference: ref, Library: found, Present: true}
			}
		}
	}

	normalized := Normalize(ref.Title)
	refYear := strings.TrimSpace(ref.Year)
	if found, ok := idx.LookupTitleYear(normalized, refYear); ok {
		return Result{Reference: ref, Library: found, Present: true}
	}

	if found, ok := fuzzyMatch(normalized, refYear, idx, opts.FuzzyThreshold); ok {
		return Result{Reference: ref, Library: found, Present: true}
	}

	return Result{Reference: ref}
}

// fuzzyMatch scores the normalized reference title against every indexed
// title and applies the threshold and year tie-break policy. An empty
// normalized title yields no candidate.
func fuzzyMatch(normalized, refYear string, idx *Index, threshold int) (media.Record, bool) {
	if normalized == "" || idx.Len() == 0 {
		return media.Record{}, false
	}

	bestScore := -1
	bestTitle := ""
	for _, title := range idx.titles {
		if title == "" {
			continue
		}
		if score := fuzzy.WRatio(normalized, title); score > bestScore {
			bestScore = score
			bestTitle = title
		}
	}
	if bestScore < threshold || bestTitle == "" {
		return media.Record{}, false
	}

	// Year disambiguates same-titled entries (remakes). When the reference
	// defines a year the winning title must also carry it; otherwise the
	// first record with the winning title is accepted.
	for i, title := range idx.titles {
		if title != bestTitle {
			continue
		}
		rec := idx.records[i]
		if refYear == "" || strings.TrimSpace(rec.Year) == refYear {
			return rec, true
		}
	}
	return media.Record{}, false
}
