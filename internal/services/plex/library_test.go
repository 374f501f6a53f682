package plex

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"shelfgap/internal/media"
)

const sectionsJSON = `{"MediaContainer":{"Directory":[
	{"key":"1","type":"movie","title":"Movies"},
	{"key":"2","type":"show","title":"TV Shows"},
	{"key":"3","type":"artist","title":"Music"}
]}}`

const movieItemsJSON = `{"MediaContainer":{"Metadata":[
	{"ratingKey":"101","title":"Heat","year":1995,"Guid":[{"id":"imdb://tt0113277"},{"id":"tmdb://949"}]},
	{"ratingKey":"102","title":"Detour","year":1945,"guid":"com.plexapp.agents.imdb://tt0037638?lang=en"}
]}}`

const showItemsJSON = `{"MediaContainer":{"Metadata":[
	{"ratingKey":"201","title":"The Wire","year":2002,"Guid":[{"id":"tvdb://79126"},{"id":"imdb://tt0306414"}]}
]}}`

func newTestLibrary(t *testing.T, handler http.HandlerFunc) *Library {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(server.URL, "token", server.Client())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return NewLibrary(client, []string{"Movies"}, []string{"tv shows"})
}

func libraryHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Plex-Token"); got != "token" {
			t.Errorf("X-Plex-Token = %q", got)
		}
		switch r.URL.Path {
		case "/library/sections":
			fmt.Fprint(w, sectionsJSON)
		case "/library/sections/1/all":
			fmt.Fprint(w, movieItemsJSON)
		case "/library/sections/2/all":
			fmt.Fprint(w, showItemsJSON)
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			http.NotFound(w, r)
		}
	}
}

func TestLibrarySnapshot(t *testing.T) {
	library := newTestLibrary(t, libraryHandler(t))

	movies, shows, err := library.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("expected 2 movies, got %d", len(movies))
	}
	if len(shows) != 1 {
		t.Fatalf("expected 1 show, got %d", len(shows))
	}

	heat := movies[0]
	if heat.Title != "Heat" || heat.Year != "1995" || heat.Kind != media.KindMovie {
		t.Fatalf("movie record = %+v", heat)
	}
	if heat.LibraryKey != "101" {
		t.Errorf("rating key not preserved: %q", heat.LibraryKey)
	}
	if id, _ := heat.ID(media.NamespaceTMDb); id != "949" {
		t.Errorf("tmdb id = %q", id)
	}

	if id, _ := movies[1].ID(media.NamespaceIMDb); id != "tt0037638" {
		t.Errorf("legacy agent guid not parsed: %q", id)
	}

	wire := shows[0]
	if wire.Kind != media.KindShow || wire.LibraryKey != "201" {
		t.Fatalf("show record = %+v", wire)
	}
	if id, _ := wire.ID(media.NamespaceTVDB); id != "79126" {
		t.Errorf("tvdb id = %q", id)
	}
}

func TestLibrarySnapshotUnknownSection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sectionsJSON)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "token", server.Client())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	library := NewLibrary(client, []string{"Anime"}, nil)

	if _, _, err := library.Snapshot(context.Background()); err == nil {
		t.Fatal("expected error for unknown section name")
	}
}

func TestClientUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "bad-token", server.Client())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.Sections(context.Background()); err != ErrUnauthorized {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", "token", nil); err == nil {
		t.Error("expected error for empty url")
	}
	if _, err := NewClient("http://host:32400", "", nil); err == nil {
		t.Error("expected error for empty token")
	}
}
