package reconcile

import (
	"testing"

	"shelfgap/internal/media"
)

func TestPartition(t *testing.T) {
	batch := []media.Record{
		{Title: "Heat", Kind: media.KindMovie},
		{Title: "The Wire", Kind: media.KindShow},
		{Title: "Alien", Kind: media.KindMovie},
		{Title: "Bad Kind", Kind: media.Kind("music")},
	}
	movies, shows := Partition(batch)
	if len(movies) != 2 || movies[0].Title != "Heat" || movies[1].Title != "Alien" {
		t.Fatalf("movies = %+v", movies)
	}
	if len(shows) != 1 || shows[0].Title != "The Wire" {
		t.Fatalf("shows = %+v", shows)
	}
}

func TestReconcileSplitKindIsolation(t *testing.T) {
	// Identical title, year and identifier on both sides, but the library
	// item is a show and the reference is a movie: no match may occur.
	libraryShows := []media.Record{{
		Title:       "Fargo",
		Year:        "2014",
		Kind:        media.KindShow,
		Identifiers: map[media.Namespace]string{media.NamespaceIMDb: "tt2802850"},
		LibraryKey:  "fargo-show",
	}}

	ref := media.Record{Title: "Fargo", Year: "2014", Kind: media.KindMovie}
	ref.SetIdentifier(media.NamespaceIMDb, "tt2802850")

	out := ReconcileSplit([]media.Record{ref}, nil, libraryShows, Options{FuzzyThreshold: 0, PreferIDs: true})
	if len(out.Movies.Present) != 0 {
		t.Fatalf("movie reference matched against show library: %+v", out.Movies.Present)
	}
	if len(out.Movies.Missing) != 1 || out.Movies.Missing[0].Title != "Fargo" {
		t.Fatalf("expected movie reference reported missing, got %+v", out.Movies.Missing)
	}
	if len(out.Shows.Present) != 0 || len(out.Shows.Missing) != 0 {
		t.Fatalf("show partition should be untouched, got %+v", out.Shows)
	}
}

func TestReconcileSplit(t *testing.T) {
	libraryMovies := []media.Record{
		{Title: "The Matrix", Year: "1999", Kind: media.KindMovie, LibraryKey: "m1"},
	}
	libraryShows := []media.Record{
		{Title: "The Wire", Year: "2002", Kind: media.KindShow, LibraryKey: "s1"},
	}
	batch := []media.Record{
		{Title: "The Matrix", Year: "1999", Kind: media.KindMovie},
		{Title: "Heat", Year: "1995", Kind: media.KindMovie},
		{Title: "The Wire", Year: "2002", Kind: media.KindShow},
		{Title: "Deadwood", Year: "2004", Kind: media.KindShow},
	}

	out := ReconcileSplit(batch, libraryMovies, libraryShows, Options{FuzzyThreshold: 95, PreferIDs: true})
	if len(out.Movies.Present) != 1 || out.Movies.Present[0].LibraryKey() != "m1" {
		t.Fatalf("movies present = %+v", out.Movies.Present)
	}
	if len(out.Movies.Missing) != 1 || out.Movies.Missing[0].Title != "Heat" {
		t.Fatalf("movies missing = %+v", out.Movies.Missing)
	}
	if len(out.Shows.Present) != 1 || out.Shows.Present[0].LibraryKey() != "s1" {
		t.Fatalf("shows present = %+v", out.Shows.Present)
	}
	if len(out.Shows.Missing) != 1 || out.Shows.Missing[0].Title != "Deadwood" {
		t.Fatalf("shows missing = %+v", out.Shows.Missing)
	}
}

func TestMergeMissing(t *testing.T) {
	first := media.Record{Title: "Ran", Year: "1985", Kind: media.KindMovie}
	first.SetIdentifier(media.NamespaceIMDb, "tt0089881")

	// Same title via a different list, no ids: duplicate by title+year.
	byTitle := media.Record{Title: "Ran!", Year: "1985", Kind: media.KindMovie}

	// Same id, different spelling: duplicate by identifier.
	byID := media.Record{Title: "Ran (Kurosawa)", Year: "1985", Kind: media.KindMovie}
	byID.SetIdentifier(media.NamespaceIMDb, "tt0089881")

	// Same title but a show: kept, kinds never merge.
	showTwin := media.Record{Title: "Ran", Year: "1985", Kind: media.KindShow}

	other := media.Record{Title: "Ikiru", Year: "1952", Kind: media.KindMovie}

	merged := MergeMissing([]media.Record{first, byTitle}, []media.Record{byID, showTwin, other})
	if len(merged) != 3 {
		t.Fatalf("merged = %+v", merged)
	}
	if merged[0].Title != "Ran" || merged[1].Kind != media.KindShow || merged[2].Title != "Ikiru" {
		t.Fatalf("unexpected merge order/content: %+v", merged)
	}
}
