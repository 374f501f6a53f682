package reconcile

import (
	"strings"

	"shelfgap/internal/media"
)

// Outcome collects the classification of one reference batch against one
// library partition. Missing records retain every field of the original
// reference so reporting and acquisition can key off identifiers.
type Outcome struct {
	Present []Result
	Missing []media.Record
}

// Partition splits a mixed reference batch by kind. Records with an invalid
// kind are dropped; providers are expected to have validated them already.
func Partition(batch []media.Record) (movies, shows []media.Record) {
	for _, rec := range batch {
		switch rec.Kind {
		case media.KindMovie:
			movies = append(movies, rec)
		case media.KindShow:
			shows = append(shows, rec)
		}
	}
	return movies, shows
}

// Reconcile builds an index over one library partition and matches every
// reference record against it.
func Reconcile(refs, library []media.Record, opts Options) Outcome {
	idx := BuildIndex(library)
	var out Outcome
	for _, ref := range refs {
		res := Match(ref, idx, opts)
		if res.Present {
			out.Present = append(out.Present, res)
		} else {
			out.Missing = append(out.Missing, ref)
		}
	}
	return out
}

// SplitOutcome is the result of reconciling a mixed batch: one outcome per
// kind partition.
type SplitOutcome struct {
	Movies Outcome
	Shows  Outcome
}

// ReconcileSplit partitions a mixed reference batch by kind and reconciles
// each subset against its matching library partition only. Cross-kind
// matches are impossible by construction.
func ReconcileSplit(batch, libraryMovies, libraryShows []media.Record, opts Options) SplitOutcome {
	movies, shows := Partition(batch)
	return SplitOutcome{
		Movies: Reconcile(movies, libraryMovies, opts),
		Shows:  Reconcile(shows, libraryShows, opts),
	}
}

type mergeIDKey struct {
	kind media.Kind
	ns   media.Namespace
	id   string
}

type mergeTitleKey struct {
	kind  media.Kind
	title string
	year  string
}

// MergeMissing concatenates missing results from multiple reference sources,
// dropping records that duplicate an earlier entry. Two records of the same
// kind are duplicates when they share an identifier in any namespace or the
// same normalized title+year. First occurrence wins.
func MergeMissing(batches ...[]media.Record) []media.Record {
	seenID := make(map[mergeIDKey]struct{})
	seenTitle := make(map[mergeTitleKey]struct{})
	var merged []media.Record
	for _, batch := range batches {
		for _, rec := range batch {
			if mergeSeen(rec, seenID, seenTitle) {
				continue
			}
			merged = append(merged, rec)
		}
	}
	return merged
}

func mergeSeen(rec media.Record, seenID map[mergeIDKey]struct{}, seenTitle map[mergeTitleKey]struct{}) bool {
	duplicate := false
	for _, ns := range media.NamespacePriority {
		id, ok := rec.ID(ns)
		if !ok {
			continue
		}
		key := mergeIDKey{kind: rec.Kind, ns: ns, id: id}
		if _, ok := seenID[key]; ok {
			duplicate = true
		}
		seenID[key] = struct{}{}
	}
	tkey := mergeTitleKey{kind: rec.Kind, title: Normalize(rec.Title), year: strings.TrimSpace(rec.Year)}
	if _, ok := seenTitle[tkey]; ok {
		duplicate = true
	}
	seenTitle[tkey] = struct{}{}
	return duplicate
}
