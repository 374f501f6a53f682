package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"shelfgap/internal/media"
	"shelfgap/internal/notifications"
	"shelfgap/internal/reconcile"
	"shelfgap/internal/sources"
)

// ErrAuditRunning indicates another audit holds the run lock.
var ErrAuditRunning = errors.New("another audit is already running")

// LibraryProvider snapshots the library split by kind.
type LibraryProvider interface {
	Snapshot(ctx context.Context) (movies, shows []media.Record, err error)
}

// Acquirer queues missing titles for download and reports what it accepted.
type Acquirer interface {
	QueueMissing(ctx context.Context, records []media.Record) ([]media.Record, error)
}

// RunRecorder persists run history.
type RunRecorder interface {
	StartRun(ctx context.Context, id string, startedAt time.Time, sources []string) error
	CompleteRun(ctx context.Context, id string, finishedAt time.Time, present, missing, queuedMovies, queuedShows int) error
	FailRun(ctx context.Context, id string, finishedAt time.Time, runErr error) error
}

// ReportSink receives per-source results and renders them.
type ReportSink interface {
	AddSource(name string, missingMovies, missingShows []media.Record) error
	WriteAdded(filename string, records []media.Record) error
	Finish() ([]string, error)
}

// Runner wires the audit dependencies. Library and Sources are required;
// everything else is optional and skipped when nil.
type Runner struct {
	Library  LibraryProvider
	Sources  []sources.Source
	Options  reconcile.Options
	Reports  ReportSink
	Movies   Acquirer
	Shows    Acquirer
	Store    RunRecorder
	Notifier notifications.Service
	Logger   *slog.Logger
	LockPath string

	// DryRun reconciles and reports but queues nothing for acquisition.
	DryRun bool

	newID func() string
	now   func() time.Time
}

// SourceResult summarizes one source's reconciliation.
type SourceResult struct {
	Name          string
	PresentMovies int
	MissingMovies int
	PresentShows  int
	MissingShows  int
}

// Summary is the outcome of one audit run.
type Summary struct {
	RunID         string
	StartedAt     time.Time
	Duration      time.Duration
	Sources       []SourceResult
	Present       int
	Missing       int
	MissingMovies []media.Record
	MissingShows  []media.Record
	QueuedMovies  []media.Record
	QueuedShows   []media.Record
	ReportFiles   []string
}

// Run executes the audit.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	if r.Library == nil {
		return nil, errors.New("library provider required")
	}
	if len(r.Sources) == 0 {
		return nil, errors.New("no sources enabled")
	}
	if err := r.Options.Validate(); err != nil {
		return nil, err
	}

	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = logger.With("component", "audit")

	if r.LockPath != "" {
		lock := flock.New(r.LockPath)
		locked, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire run lock: %w", err)
		}
		if !locked {
			return nil, ErrAuditRunning
		}
		defer func() { _ = lock.Unlock() }()
	}

	newID := r.newID
	if newID == nil {
		newID = uuid.NewString
	}
	now := r.now
	if now == nil {
		now = time.Now
	}

	summary := &Summary{
		RunID:     newID(),
		StartedAt: now(),
	}

	names := make([]string, 0, len(r.Sources))
	for _, src := range r.Sources {
		names = append(names, src.Name())
	}

	if r.Store != nil {
		if err := r.Store.StartRun(ctx, summary.RunID, summary.StartedAt, names); err != nil {
			return nil, fmt.Errorf("record run start: %w", err)
		}
	}
	r.notifyStarted(ctx, len(r.Sources))

	fail := func(err error) (*Summary, error) {
		if r.Store != nil {
			_ = r.Store.FailRun(ctx, summary.RunID, now(), err)
		}
		r.notifyError(ctx, err)
		return nil, err
	}

	logger.Info("starting audit", "run_id", summary.RunID, "sources", len(r.Sources), "dry_run", r.DryRun)

	libMovies, libShows, err := r.Library.Snapshot(ctx)
	if err != nil {
		return fail(fmt.Errorf("library snapshot: %w", err))
	}
	logger.Info("library snapshot", "movies", len(libMovies), "shows", len(libShows))

	var missingMovieBatches, missingShowBatches [][]media.Record
	for _, src := range r.Sources {
		refs, err := src.Fetch(ctx)
		if err != nil {
			return fail(fmt.Errorf("fetch %s: %w", src.Name(), err))
		}

		split := reconcile.ReconcileSplit(refs, libMovies, libShows, r.Options)
		result := SourceResult{
			Name:          src.Name(),
			PresentMovies: len(split.Movies.Present),
			MissingMovies: len(split.Movies.Missing),
			PresentShows:  len(split.Shows.Present),
			MissingShows:  len(split.Shows.Missing),
		}
		summary.Sources = append(summary.Sources, result)
		summary.Present += result.PresentMovies + result.PresentShows

		logger.Info("source reconciled", "source", src.Name(),
			"movies_present", result.PresentMovies, "movies_missing", result.MissingMovies,
			"shows_present", result.PresentShows, "shows_missing", result.MissingShows)

		if r.Reports != nil {
			if err := r.Reports.AddSource(src.Name(), split.Movies.Missing, split.Shows.Missing); err != nil {
				return fail(fmt.Errorf("report %s: %w", src.Name(), err))
			}
		}
		missingMovieBatches = append(missingMovieBatches, split.Movies.Missing)
		missingShowBatches = append(missingShowBatches, split.Shows.Missing)
	}

	summary.MissingMovies = reconcile.MergeMissing(missingMovieBatches...)
	summary.MissingShows = reconcile.MergeMissing(missingShowBatches...)
	summary.Missing = len(summary.MissingMovies) + len(summary.MissingShows)

	if err := r.acquire(ctx, summary, logger); err != nil {
		return fail(err)
	}

	if r.Reports != nil {
		files, err := r.Reports.Finish()
		if err != nil {
			return fail(fmt.Errorf("finish reports: %w", err))
		}
		summary.ReportFiles = files
	}

	summary.Duration = now().Sub(summary.StartedAt)

	if r.Store != nil {
		if err := r.Store.CompleteRun(ctx, summary.RunID, now(), summary.Present, summary.Missing,
			len(summary.QueuedMovies), len(summary.QueuedShows)); err != nil {
			return nil, fmt.Errorf("record run completion: %w", err)
		}
	}
	r.notifyCompleted(ctx, summary)

	logger.Info("audit complete", "run_id", summary.RunID,
		"present", summary.Present, "missing", summary.Missing,
		"queued_movies", len(summary.QueuedMovies), "queued_shows", len(summary.QueuedShows),
		"duration", summary.Duration.Round(time.Millisecond))
	return summary, nil
}

func (r *Runner) acquire(ctx context.Context, summary *Summary, logger *slog.Logger) error {
	if r.DryRun {
		if r.Movies != nil && len(summary.MissingMovies) > 0 {
			logger.Info("dry run: skipping movie acquisition", "count", len(summary.MissingMovies))
		}
		if r.Shows != nil && len(summary.MissingShows) > 0 {
			logger.Info("dry run: skipping series acquisition", "count", len(summary.MissingShows))
		}
		return nil
	}

	if r.Movies != nil && len(summary.MissingMovies) > 0 {
		added, err := r.Movies.QueueMissing(ctx, summary.MissingMovies)
		if err != nil {
			return fmt.Errorf("queue movies: %w", err)
		}
		summary.QueuedMovies = added
		if r.Reports != nil {
			if err := r.Reports.WriteAdded("radarr_added.csv", added); err != nil {
				return fmt.Errorf("report queued movies: %w", err)
			}
		}
	}
	if r.Shows != nil && len(summary.MissingShows) > 0 {
		added, err := r.Shows.QueueMissing(ctx, summary.MissingShows)
		if err != nil {
			return fmt.Errorf("queue series: %w", err)
		}
		summary.QueuedShows = added
		if r.Reports != nil {
			if err := r.Reports.WriteAdded("sonarr_added.csv", added); err != nil {
				return fmt.Errorf("report queued series: %w", err)
			}
		}
	}
	if len(summary.QueuedMovies)+len(summary.QueuedShows) > 0 {
		r.notifyQueued(ctx, len(summary.QueuedMovies), len(summary.QueuedShows))
	}
	return nil
}

func (r *Runner) notifyStarted(ctx context.Context, count int) {
	if r.Notifier != nil {
		_ = r.Notifier.NotifyAuditStarted(ctx, count)
	}
}

func (r *Runner) notifyCompleted(ctx context.Context, summary *Summary) {
	if r.Notifier != nil {
		_ = r.Notifier.NotifyAuditCompleted(ctx, summary.Present, summary.Missing, summary.Duration)
	}
}

func (r *Runner) notifyQueued(ctx context.Context, movies, shows int) {
	if r.Notifier != nil {
		_ = r.Notifier.NotifyAcquisitionsQueued(ctx, movies, shows)
	}
}

func (r *Runner) notifyError(ctx context.Context, err error) {
	if r.Notifier != nil {
		_ = r.Notifier.NotifyError(ctx, err, "audit")
	}
}
