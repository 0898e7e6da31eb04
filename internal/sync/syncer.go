package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"einsync/internal/catalog"
	"einsync/internal/download"
	"einsync/internal/logging"
	"einsync/internal/match"
	"einsync/internal/notifications"
	"einsync/internal/radarr"
)

// shortCircuitScore is the score at which later partitions are not worth
// searching: the candidate is near certain already and every extra partition
// costs a rate-limited catalog request.
const shortCircuitScore = 0.9

// Searcher queries one language partition of the catalog.
type Searcher interface {
	Search(ctx context.Context, query, partition string) ([]catalog.Entry, error)
}

// Resolver turns a watch page URL into direct media links.
type Resolver interface {
	Resolve(ctx context.Context, pageURL string) (*catalog.LinkBundle, error)
}

// Catalog combines the two catalog operations the loop needs. A
// *catalog.Client satisfies it.
type Catalog interface {
	Searcher
	Resolver
}

// Downloader writes a resolved bundle to disk and returns the final path.
type Downloader interface {
	Download(ctx context.Context, bundle catalog.LinkBundle) (string, error)
}

// Tracker is the Radarr surface the loop needs. A *radarr.Client satisfies it.
type Tracker interface {
	Missing(ctx context.Context) ([]radarr.Movie, error)
	RescanMovie(ctx context.Context, movieID int64) error
	RescanLibrary(ctx context.Context) error
}

// Options configures a Syncer.
type Options struct {
	// Languages lists the partitions to search, in preference order. A
	// movie's original language is always moved to the front when present.
	Languages []string
	// MinScore is the acceptance threshold for the best candidate.
	MinScore float64
	// MaxDownloads stops the run after this many successful downloads.
	// Zero means unlimited.
	MaxDownloads int
	// DryRun searches and scores but does not resolve or download.
	DryRun bool
	// DownloadDir is checked for existing files before any catalog traffic.
	DownloadDir string
}

// Syncer resolves Radarr's wanted list against the Einthusan catalogs.
type Syncer struct {
	catalog    Catalog
	downloader Downloader
	tracker    Tracker
	notifier   notifications.Service
	logger     *slog.Logger
	opts       Options
}

// New builds a Syncer. The notifier may be nil; logging defaults to no-op.
func New(cat Catalog, dl Downloader, tracker Tracker, notifier notifications.Service, logger *slog.Logger, opts Options) (*Syncer, error) {
	if cat == nil {
		return nil, errors.New("sync: catalog is required")
	}
	if dl == nil && !opts.DryRun {
		return nil, errors.New("sync: downloader is required")
	}
	if tracker == nil {
		return nil, errors.New("sync: tracker is required")
	}
	if opts.DownloadDir == "" {
		return nil, errors.New("sync: download directory is required")
	}
	if len(opts.Languages) == 0 {
		return nil, errors.New("sync: at least one language is required")
	}
	if opts.MinScore <= 0 {
		opts.MinScore = 0.85
	}
	if notifier == nil {
		notifier = notifications.Noop()
	}
	return &Syncer{
		catalog:    cat,
		downloader: dl,
		tracker:    tracker,
		notifier:   notifier,
		logger:     logging.NewComponentLogger(logger, "sync"),
		opts:       opts,
	}, nil
}

// Run processes the wanted list once and returns the per-movie outcomes.
// Item-level failures are recorded in the report, not returned; the error
// covers run-level failures such as an unreachable Radarr.
func (s *Syncer) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	logger := s.logger.With(logging.String(logging.FieldRunID, report.RunID))

	wanted, err := s.tracker.Missing(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch wanted list: %w", err)
	}
	report.Wanted = len(wanted)
	logger.Info("sync started",
		logging.Int("wanted", len(wanted)),
		logging.Bool("dry_run", s.opts.DryRun),
	)
	s.notify(ctx, logger, func(c context.Context) error {
		return s.notifier.NotifySyncStarted(c, len(wanted))
	})

	downloads := 0
	for _, movie := range wanted {
		if err := ctx.Err(); err != nil {
			report.Elapsed = time.Since(report.StartedAt)
			return report, err
		}
		if s.opts.MaxDownloads > 0 && downloads >= s.opts.MaxDownloads {
			logger.Info("download limit reached", logging.Int("limit", s.opts.MaxDownloads))
			break
		}

		item := s.processMovie(ctx, logger, movie)
		report.Items = append(report.Items, item)
		if item.Outcome == OutcomeDownloaded {
			downloads++
		}
	}

	if report.Downloaded() > 0 && !s.opts.DryRun {
		if err := s.tracker.RescanLibrary(ctx); err != nil {
			logger.Warn("library rescan failed", logging.Error(err))
		}
	}

	report.Elapsed = time.Since(report.StartedAt)
	logger.Info("sync finished",
		logging.Int("downloaded", report.Downloaded()),
		logging.Int("skipped", report.Skipped()),
		logging.Int("failed", report.Failed()),
		logging.Duration("elapsed", report.Elapsed),
	)
	s.notify(ctx, logger, func(c context.Context) error {
		return s.notifier.NotifySyncCompleted(c, report.Downloaded(), report.Skipped(), report.Failed(), report.Elapsed)
	})
	return report, nil
}

func (s *Syncer) processMovie(ctx context.Context, logger *slog.Logger, movie radarr.Movie) Item {
	itemLogger := logger.With(
		logging.String(logging.FieldTitle, movie.Title),
		logging.Int(logging.FieldYear, movie.Year),
	)

	if path, ok, err := download.FindExisting(s.opts.DownloadDir, movie.Title, movie.Year); err != nil {
		itemLogger.Warn("existence check failed", logging.Error(err))
	} else if ok {
		itemLogger.Info("file already present", logging.String(logging.FieldPath, path))
		s.rescanMovie(ctx, itemLogger, movie)
		return Item{Movie: movie, Outcome: OutcomeAlreadyPresent, Path: path}
	}

	best := s.findBest(ctx, itemLogger, movie)
	if best == nil {
		itemLogger.Info("no catalog match")
		return Item{Movie: movie, Outcome: OutcomeNotFound}
	}
	if best.Score < s.opts.MinScore {
		itemLogger.Info("best match below threshold",
			logging.String("candidate", best.Entry.Title),
			logging.Float64(logging.FieldScore, best.Score),
			logging.Float64("min_score", s.opts.MinScore),
		)
		return Item{
			Movie:    movie,
			Outcome:  OutcomeLowConfidence,
			Score:    best.Score,
			Language: best.Entry.Partition,
		}
	}

	itemLogger.Info("matched",
		logging.String("candidate", best.Entry.Title),
		logging.Float64(logging.FieldScore, best.Score),
		logging.String(logging.FieldLanguage, best.Entry.Partition),
	)
	if s.opts.DryRun {
		return Item{
			Movie:    movie,
			Outcome:  OutcomeMatched,
			Score:    best.Score,
			Language: best.Entry.Partition,
		}
	}

	// The catalog title often differs from Radarr's, so the pre-search glob
	// can miss a file an earlier run wrote under the matched title.
	if path, ok, err := download.FindExisting(s.opts.DownloadDir, best.Entry.Title, best.Entry.Year); err != nil {
		itemLogger.Warn("existence check failed", logging.Error(err))
	} else if ok {
		itemLogger.Info("file already present", logging.String(logging.FieldPath, path))
		s.rescanMovie(ctx, itemLogger, movie)
		return Item{
			Movie:    movie,
			Outcome:  OutcomeAlreadyPresent,
			Score:    best.Score,
			Language: best.Entry.Partition,
			Path:     path,
		}
	}

	bundle, err := s.catalog.Resolve(ctx, best.Entry.PageURL)
	if err != nil {
		itemLogger.Error("resolve failed", logging.Error(err), logging.String(logging.FieldURL, best.Entry.PageURL))
		s.notify(ctx, itemLogger, func(c context.Context) error {
			return s.notifier.NotifyError(c, err, movie.Title)
		})
		return Item{
			Movie:    movie,
			Outcome:  OutcomeResolveFailed,
			Score:    best.Score,
			Language: best.Entry.Partition,
			Err:      err,
		}
	}

	path, err := s.downloader.Download(ctx, *bundle)
	if err != nil {
		itemLogger.Error("download failed", logging.Error(err))
		s.notify(ctx, itemLogger, func(c context.Context) error {
			return s.notifier.NotifyError(c, err, movie.Title)
		})
		return Item{
			Movie:    movie,
			Outcome:  OutcomeDownloadFailed,
			Score:    best.Score,
			Language: best.Entry.Partition,
			Err:      err,
		}
	}

	itemLogger.Info("downloaded", logging.String(logging.FieldPath, path))
	s.rescanMovie(ctx, itemLogger, movie)
	s.notify(ctx, itemLogger, func(c context.Context) error {
		return s.notifier.NotifyDownloadCompleted(c, movie.Title, movie.Year, path)
	})
	return Item{
		Movie:    movie,
		Outcome:  OutcomeDownloaded,
		Score:    best.Score,
		Language: best.Entry.Partition,
		Path:     path,
	}
}

// findBest searches each partition in order and keeps the single best
// candidate across all of them. Partition search errors are logged and the
// remaining partitions still run; a partition that errors contributes no
// candidates.
func (s *Syncer) findBest(ctx context.Context, logger *slog.Logger, movie radarr.Movie) *match.Candidate {
	target := match.Target{Title: movie.Title, Year: movie.Year}

	var best *match.Candidate
	for _, partition := range s.partitionOrder(movie) {
		entries, err := s.catalog.Search(ctx, movie.Title, partition)
		if err != nil {
			logger.Warn("partition search failed",
				logging.String(logging.FieldLanguage, partition),
				logging.Error(err),
			)
			continue
		}
		candidate := match.Best(target, entries, match.Floor)
		if candidate == nil {
			continue
		}
		if best == nil || candidate.Score > best.Score {
			best = candidate
		}
		if best.Score >= shortCircuitScore {
			break
		}
	}
	return best
}

// partitionOrder returns the configured languages with the movie's original
// language moved to the front. Languages outside the configured set are
// never searched.
func (s *Syncer) partitionOrder(movie radarr.Movie) []string {
	original := movie.OriginalLanguageName()
	order := make([]string, 0, len(s.opts.Languages))
	for _, lang := range s.opts.Languages {
		if lang == original {
			order = append([]string{lang}, order...)
			continue
		}
		order = append(order, lang)
	}
	return order
}

func (s *Syncer) rescanMovie(ctx context.Context, logger *slog.Logger, movie radarr.Movie) {
	if s.opts.DryRun {
		return
	}
	if err := s.tracker.RescanMovie(ctx, movie.ID); err != nil {
		logger.Warn("movie rescan failed", logging.Int64("movie_id", movie.ID), logging.Error(err))
	}
}

func (s *Syncer) notify(ctx context.Context, logger *slog.Logger, send func(context.Context) error) {
	if err := send(ctx); err != nil {
		logger.Warn("notification failed", logging.Error(err))
	}
}
