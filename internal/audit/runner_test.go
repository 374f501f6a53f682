package audit

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"shelfgap/internal/media"
	"shelfgap/internal/reconcile"
	"shelfgap/internal/sources"
)

type fakeLibrary struct {
	movies []media.Record
	shows  []media.Record
	err    error
}

func (f *fakeLibrary) Snapshot(context.Context) ([]media.Record, []media.Record, error) {
	return f.movies, f.shows, f.err
}

type fakeSource struct {
	name string
	refs []media.Record
	err  error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(context.Context) ([]media.Record, error) {
	return f.refs, f.err
}

type fakeAcquirer struct {
	got   []media.Record
	added []media.Record
	err   error
}

func (f *fakeAcquirer) QueueMissing(_ context.Context, records []media.Record) ([]media.Record, error) {
	f.got = records
	if f.err != nil {
		return nil, f.err
	}
	if f.added != nil {
		return f.added, nil
	}
	return records, nil
}

type fakeRecorder struct {
	startedID   string
	sources     []string
	completed   bool
	failed      bool
	failMessage string
	present     int
	missing     int
}

func (f *fakeRecorder) StartRun(_ context.Context, id string, _ time.Time, sources []string) error {
	f.startedID = id
	f.sources = sources
	return nil
}

func (f *fakeRecorder) CompleteRun(_ context.Context, _ string, _ time.Time, present, missing, _, _ int) error {
	f.completed = true
	f.present = present
	f.missing = missing
	return nil
}

func (f *fakeRecorder) FailRun(_ context.Context, _ string, _ time.Time, runErr error) error {
	f.failed = true
	if runErr != nil {
		f.failMessage = runErr.Error()
	}
	return nil
}

type fakeSink struct {
	sections map[string][2]int
	added    map[string]int
	finished bool
}

func newFakeSink() *fakeSink {
	return &fakeSink{sections: make(map[string][2]int), added: make(map[string]int)}
}

func (f *fakeSink) AddSource(name string, missingMovies, missingShows []media.Record) error {
	f.sections[name] = [2]int{len(missingMovies), len(missingShows)}
	return nil
}

func (f *fakeSink) WriteAdded(filename string, records []media.Record) error {
	f.added[filename] = len(records)
	return nil
}

func (f *fakeSink) Finish() ([]string, error) {
	f.finished = true
	return []string{"report.md"}, nil
}

func movieRef(title, year, imdbID string) media.Record {
	record := media.Record{Title: title, Year: year, Kind: media.KindMovie}
	record.SetIdentifier(media.NamespaceIMDb, imdbID)
	return record
}

func showRef(title, year, tvdbID string) media.Record {
	record := media.Record{Title: title, Year: year, Kind: media.KindShow}
	record.SetIdentifier(media.NamespaceTVDB, tvdbID)
	return record
}

func defaultOptions() reconcile.Options {
	return reconcile.Options{FuzzyThreshold: 90, PreferIDs: true}
}

func TestRunnerFullRun(t *testing.T) {
	library := &fakeLibrary{
		movies: []media.Record{movieRef("Heat", "1995", "tt0113277")},
		shows:  []media.Record{showRef("The Wire", "2002", "79126")},
	}
	source := &fakeSource{
		name: "IMDb Top 250 Movies",
		refs: []media.Record{
			movieRef("Heat", "1995", "tt0113277"),
			movieRef("Double Indemnity", "1944", "tt0036775"),
		},
	}
	movies := &fakeAcquirer{}
	recorder := &fakeRecorder{}
	sink := newFakeSink()

	runner := &Runner{
		Library: library,
		Sources: []sources.Source{source},
		Options: defaultOptions(),
		Reports: sink,
		Movies:  movies,
		Store:   recorder,
		newID:   func() string { return "run-1" },
	}

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.RunID != "run-1" {
		t.Errorf("run id = %q", summary.RunID)
	}
	if summary.Present != 1 || summary.Missing != 1 {
		t.Errorf("present/missing = %d/%d", summary.Present, summary.Missing)
	}
	if len(summary.QueuedMovies) != 1 || summary.QueuedMovies[0].Title != "Double Indemnity" {
		t.Errorf("queued movies = %+v", summary.QueuedMovies)
	}
	if len(movies.got) != 1 {
		t.Errorf("acquirer received %d records", len(movies.got))
	}

	if recorder.startedID != "run-1" || !recorder.completed {
		t.Errorf("recorder state = %+v", recorder)
	}
	if len(recorder.sources) != 1 || recorder.sources[0] != "IMDb Top 250 Movies" {
		t.Errorf("recorded sources = %v", recorder.sources)
	}
	if recorder.present != 1 || recorder.missing != 1 {
		t.Errorf("recorded counts = %d/%d", recorder.present, recorder.missing)
	}

	if got := sink.sections["IMDb Top 250 Movies"]; got != [2]int{1, 0} {
		t.Errorf("report section = %v", got)
	}
	if sink.added["radarr_added.csv"] != 1 {
		t.Errorf("added csv counts = %v", sink.added)
	}
	if !sink.finished {
		t.Error("report sink not finished")
	}
	if len(summary.ReportFiles) != 1 {
		t.Errorf("report files = %v", summary.ReportFiles)
	}
}

func TestRunnerDryRunSkipsAcquisition(t *testing.T) {
	library := &fakeLibrary{}
	source := &fakeSource{
		name: "List",
		refs: []media.Record{movieRef("Double Indemnity", "1944", "tt0036775")},
	}
	movies := &fakeAcquirer{}

	runner := &Runner{
		Library: library,
		Sources: []sources.Source{source},
		Options: defaultOptions(),
		Movies:  movies,
		DryRun:  true,
	}

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if movies.got != nil {
		t.Fatal("acquirer should not be called in dry run")
	}
	if summary.Missing != 1 {
		t.Errorf("missing = %d", summary.Missing)
	}
}

func TestRunnerMergesMissingAcrossSources(t *testing.T) {
	library := &fakeLibrary{}
	first := &fakeSource{
		name: "List A",
		refs: []media.Record{movieRef("Ran", "1985", "tt0089881")},
	}
	second := &fakeSource{
		name: "List B",
		refs: []media.Record{movieRef("Ran", "1985", "tt0089881"), showRef("The Wire", "2002", "79126")},
	}
	movies := &fakeAcquirer{}
	shows := &fakeAcquirer{}

	runner := &Runner{
		Library: library,
		Sources: []sources.Source{first, second},
		Options: defaultOptions(),
		Movies:  movies,
		Shows:   shows,
	}

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(movies.got) != 1 {
		t.Fatalf("duplicate movie not merged before acquisition: %+v", movies.got)
	}
	if len(shows.got) != 1 {
		t.Fatalf("shows = %+v", shows.got)
	}
	if summary.Missing != 2 {
		t.Errorf("missing = %d", summary.Missing)
	}
}

func TestRunnerFetchFailureRecordsFailedRun(t *testing.T) {
	recorder := &fakeRecorder{}
	runner := &Runner{
		Library: &fakeLibrary{},
		Sources: []sources.Source{&fakeSource{name: "Broken", err: errors.New("boom")}},
		Options: defaultOptions(),
		Store:   recorder,
	}

	if _, err := runner.Run(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}
	if !recorder.failed {
		t.Fatal("failed run not recorded")
	}
	if recorder.failMessage == "" {
		t.Fatal("failure message not recorded")
	}
}

func TestRunnerLockContention(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "audit.lock")
	held := flock.New(lockPath)
	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("pre-acquire lock: locked=%v err=%v", locked, err)
	}
	defer held.Unlock()

	runner := &Runner{
		Library:  &fakeLibrary{},
		Sources:  []sources.Source{&fakeSource{name: "List"}},
		Options:  defaultOptions(),
		LockPath: lockPath,
	}

	if _, err := runner.Run(context.Background()); !errors.Is(err, ErrAuditRunning) {
		t.Fatalf("err = %v, want ErrAuditRunning", err)
	}
}

func TestRunnerRequiresSources(t *testing.T) {
	runner := &Runner{Library: &fakeLibrary{}, Options: defaultOptions()}
	if _, err := runner.Run(context.Background()); err == nil {
		t.Fatal("expected error without sources")
	}
}
