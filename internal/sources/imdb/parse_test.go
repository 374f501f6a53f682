package imdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"shelfgap/internal/media"
)

const modernChart = `<html><body>
<ul data-testid="chart-layout-main" class="ipc-metadata-list">
  <li class="ipc-metadata-list-summary-item">
    <a href="/title/tt0111161/?ref_=chttp_t_1"><img alt="poster"/></a>
    <h3 class="ipc-title__text">1. The Shawshank Redemption</h3>
    <span class="cli-title-metadata-item">1994</span>
    <span class="cli-title-metadata-item">2h 22m</span>
  </li>
  <li class="ipc-metadata-list-summary-item">
    <a href="/title/tt0068646/?ref_=chttp_t_2"><img alt="poster"/></a>
    <h3 class="ipc-title__text">2. The Godfather</h3>
    <span data-testid="chart-year">1972</span>
  </li>
  <li class="ipc-metadata-list-summary-item">
    <a href="/title/tt0097576/?ref_=chttp_t_3"><img alt="poster"/></a>
    <h3 class="ipc-title__text">3. Indiana Jones &amp; the Last Crusade</h3>
    <span class="cli-title-metadata-item">1989</span>
  </li>
  <li class="ipc-metadata-list-summary-item">
    <div>no link in this ad slot</div>
  </li>
</ul>
</body></html>`

const legacyChart = `<html><body><table><tbody>
<tr>
  <td class="titleColumn">
    <a href="/title/tt0111161/">The Shawshank Redemption</a>
    <span class="secondaryInfo">(1994)</span>
  </td>
</tr>
<tr>
  <td class="titleColumn">
    <a href="/title/tt0068646/">The Godfather</a>
    <span class="secondaryInfo">(1972)</span>
  </td>
</tr>
</tbody></table></body></html>`

func TestParseChartModernLayout(t *testing.T) {
	records := parseChart(modernChart, media.KindMovie)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	first := records[0]
	if first.Title != "The Shawshank Redemption" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Year != "1994" {
		t.Errorf("year = %q", first.Year)
	}
	if first.Kind != media.KindMovie {
		t.Errorf("kind = %q", first.Kind)
	}
	if id, ok := first.ID(media.NamespaceIMDb); !ok || id != "tt0111161" {
		t.Errorf("imdb id = %q ok=%v", id, ok)
	}

	if records[1].Year != "1972" {
		t.Errorf("chart-year span not parsed: %q", records[1].Year)
	}
	if records[2].Title != "Indiana Jones & the Last Crusade" {
		t.Errorf("entity not unescaped: %q", records[2].Title)
	}
}

func TestParseChartLegacyLayout(t *testing.T) {
	records := parseChart(legacyChart, media.KindShow)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Title != "The Shawshank Redemption" || records[0].Year != "1994" {
		t.Fatalf("first record = %+v", records[0])
	}
	if records[0].Kind != media.KindShow {
		t.Errorf("kind = %q", records[0].Kind)
	}
}

func TestParseChartDeduplicatesIDs(t *testing.T) {
	doc := `<ul data-testid="chart-layout-main">
<li><a href="/title/tt0111161/"><h3>1. The Shawshank Redemption</h3></a><span class="cli-title-metadata-item">1994</span></li>
<li><a href="/title/tt0111161/"><h3>1. The Shawshank Redemption</h3></a><span class="cli-title-metadata-item">1994</span></li>
</ul>`
	records := parseChart(doc, media.KindMovie)
	if len(records) != 1 {
		t.Fatalf("expected duplicate id collapsed, got %d records", len(records))
	}
}

func TestParseChartEmptyDocument(t *testing.T) {
	if records := parseChart("<html><body></body></html>", media.KindMovie); len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestClientFetchesChart(t *testing.T) {
	var gotPath, gotLang string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotLang = r.Header.Get("Accept-Language")
		w.Write([]byte(modernChart))
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	records, err := client.Top250Movies(context.Background())
	if err != nil {
		t.Fatalf("Top250Movies: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if gotPath != "/chart/top/" {
		t.Errorf("path = %q", gotPath)
	}
	if gotLang == "" {
		t.Error("Accept-Language header not set")
	}
}

func TestClientRejectsEmptyChart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>nothing here</body></html>"))
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	if _, err := client.Top250TV(context.Background()); err == nil {
		t.Fatal("expected error for chart without entries")
	}
}

func TestClientSurfacesHTTPStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	if _, err := client.Top250Movies(context.Background()); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestSourceNames(t *testing.T) {
	client := New()
	if got := MovieSource(client).Name(); got != "IMDb Top 250 Movies" {
		t.Errorf("movie source name = %q", got)
	}
	if got := TVSource(client).Name(); got != "IMDb Top 250 TV" {
		t.Errorf("tv source name = %q", got)
	}
}
