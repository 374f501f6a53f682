package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shelfgap/internal/media"
	"shelfgap/internal/textutil"
)

var csvColumns = []string{"title", "year", "imdb", "tmdb", "tvdb", "kind"}

// Writer accumulates audit results and renders them under one directory.
type Writer struct {
	dir           string
	writeCSV      bool
	writeMarkdown bool
	sections      []section
	written       []string
	now           func() time.Time
}

type section struct {
	title string
	rows  []media.Record
}

// NewWriter creates the output directory and returns a writer for it.
func NewWriter(dir string, writeCSV, writeMarkdown bool) (*Writer, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("report directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report directory: %w", err)
	}
	return &Writer{
		dir:           dir,
		writeCSV:      writeCSV,
		writeMarkdown: writeMarkdown,
		now:           time.Now,
	}, nil
}

// AddSource records the missing titles of one source. CSV files are written
// immediately (one per kind, empty lists skipped); the markdown sections are
// kept until Finish.
func (w *Writer) AddSource(name string, missingMovies, missingShows []media.Record) error {
	slug := textutil.Slug(name)
	if w.writeCSV {
		if err := w.writeRecordsCSV(fmt.Sprintf("missing_%s_movies.csv", slug), missingMovies); err != nil {
			return err
		}
		if err := w.writeRecordsCSV(fmt.Sprintf("missing_%s_shows.csv", slug), missingShows); err != nil {
			return err
		}
	}
	w.sections = append(w.sections,
		section{title: fmt.Sprintf("%s — Missing Movies (%d)", name, len(missingMovies)), rows: missingMovies},
		section{title: fmt.Sprintf("%s — Missing TV (%d)", name, len(missingShows)), rows: missingShows},
	)
	return nil
}

// WriteAdded renders the records an acquisition service accepted.
func (w *Writer) WriteAdded(filename string, records []media.Record) error {
	if !w.writeCSV {
		return nil
	}
	return w.writeRecordsCSV(filename, records)
}

// Finish writes the markdown summary (when enabled) and returns the paths of
// every file produced during the audit.
func (w *Writer) Finish() ([]string, error) {
	if w.writeMarkdown {
		if err := w.writeMarkdownReport(); err != nil {
			return nil, err
		}
	}
	return w.written, nil
}

func (w *Writer) writeRecordsCSV(filename string, records []media.Record) error {
	if len(records) == 0 {
		return nil
	}
	path := filepath.Join(w.dir, filename)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filename, err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write(csvColumns); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	for _, record := range records {
		imdb, _ := record.ID(media.NamespaceIMDb)
		tmdb, _ := record.ID(media.NamespaceTMDb)
		tvdb, _ := record.ID(media.NamespaceTVDB)
		row := []string{record.Title, record.Year, imdb, tmdb, tvdb, record.Kind.String()}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write %s: %w", filename, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", filename, err)
	}
	w.written = append(w.written, path)
	return nil
}

func (w *Writer) writeMarkdownReport() error {
	var b strings.Builder
	b.WriteString("# Library Audit\n\n")
	fmt.Fprintf(&b, "_Generated: %s_\n\n", w.now().Format("2006-01-02 15:04:05"))

	for _, sec := range w.sections {
		fmt.Fprintf(&b, "## %s\n\n", sec.title)
		if len(sec.rows) == 0 {
			b.WriteString("All caught up.\n\n")
			continue
		}
		b.WriteString("| Title | Year | IMDb | TMDb | TVDB |\n")
		b.WriteString("|---|---:|---|---|---|\n")
		for _, record := range sec.rows {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				escapeCell(record.Title),
				record.Year,
				imdbLink(record),
				tmdbLink(record),
				tvdbLink(record),
			)
		}
		b.WriteString("\n")
	}

	path := filepath.Join(w.dir, "report.md")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write report.md: %w", err)
	}
	w.written = append(w.written, path)
	return nil
}

func imdbLink(record media.Record) string {
	id, ok := record.ID(media.NamespaceIMDb)
	if !ok {
		return ""
	}
	return fmt.Sprintf("[%s](https://www.imdb.com/title/%s/)", id, id)
}

func tmdbLink(record media.Record) string {
	id, ok := record.ID(media.NamespaceTMDb)
	if !ok {
		return ""
	}
	segment := "movie"
	if record.Kind == media.KindShow {
		segment = "tv"
	}
	return fmt.Sprintf("[%s](https://www.themoviedb.org/%s/%s)", id, segment, id)
}

func tvdbLink(record media.Record) string {
	id, ok := record.ID(media.NamespaceTVDB)
	if !ok {
		return ""
	}
	return fmt.Sprintf("[%s](https://thetvdb.com/?id=%s)", id, id)
}

func escapeCell(value string) string {
	return strings.ReplaceAll(value, "|", `\|`)
}
