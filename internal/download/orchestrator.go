package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/schollz/progressbar/v3"

	"einsync/internal/catalog"
	"einsync/internal/fileutil"
)

// ErrTransferFailed indicates the retry budget was exhausted without a
// complete, nonempty destination file.
var ErrTransferFailed = errors.New("transfer failed")

const (
	defaultRetries    = 3
	defaultRetryDelay = 5 * time.Second
)

// Orchestrator performs resumable, idempotent downloads into one
// destination directory.
type Orchestrator struct {
	destDir      string
	httpClient   *http.Client
	retries      int
	retryDelay   time.Duration
	logger       *slog.Logger
	showProgress bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithHTTPClient overrides the default HTTP client. Media transfers run for
// tens of minutes, so the default carries no overall timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(o *Orchestrator) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithRetries sets how many times a failed transfer is retried.
func WithRetries(n int) Option {
	return func(o *Orchestrator) {
		if n >= 0 {
			o.retries = n
		}
	}
}

// WithRetryDelay sets the fixed pause between transfer attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.retryDelay = d
		}
	}
}

// WithLogger attaches a logger for transfer diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithProgress enables a console progress bar during transfers.
func WithProgress(enabled bool) Option {
	return func(o *Orchestrator) {
		o.showProgress = enabled
	}
}

// New creates an Orchestrator writing into destDir.
func New(destDir string, opts ...Option) (*Orchestrator, error) {
	if destDir == "" {
		return nil, errors.New("destination directory required")
	}
	o := &Orchestrator{
		destDir:    destDir,
		httpClient: &http.Client{},
		retries:    defaultRetries,
		retryDelay: defaultRetryDelay,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Download fetches the bundle's progressive URL into the destination
// directory and returns the final path. A nonempty file at the derived name
// is treated as success without any transfer. Partial data lands in a .part
// staging file and is resumed on the next attempt; the destination name only
// appears once the transfer completed.
func (o *Orchestrator) Download(ctx context.Context, bundle catalog.LinkBundle) (string, error) {
	if bundle.ProgressiveURL == "" {
		return "", errors.New("bundle has no progressive url")
	}
	if err := os.MkdirAll(o.destDir, 0o755); err != nil {
		return "", fmt.Errorf("create destination directory: %w", err)
	}

	dest := filepath.Join(o.destDir, Filename(bundle))
	if fileutil.NonEmpty(dest) {
		o.logger.Info("already downloaded",
			slog.String("file", filepath.Base(dest)))
		return dest, nil
	}

	// Serializes concurrent runs against the same destination path.
	lock := flock.New(dest + ".lock")
	locked, err := lock.TryLockContext(ctx, time.Second)
	if err != nil {
		return "", fmt.Errorf("acquire download lock: %w", err)
	}
	if !locked {
		return "", fmt.Errorf("download lock busy: %s", lock.Path())
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	// Another process may have finished while we waited for the lock.
	if fileutil.NonEmpty(dest) {
		return dest, nil
	}

	o.logger.Info("downloading",
		slog.String("title", bundle.Title),
		slog.String("file", filepath.Base(dest)),
		slog.Bool("premium", bundle.Premium))

	var lastErr error
	for attempt := 0; attempt <= o.retries; attempt++ {
		if attempt > 0 {
			o.logger.Warn("retrying transfer",
				slog.Int("attempt", attempt+1),
				slog.Any("error", lastErr))
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(o.retryDelay):
			}
		}
		if lastErr = o.fetch(ctx, bundle.ProgressiveURL, dest); lastErr == nil {
			break
		}
	}
	if lastErr != nil {
		return "", fmt.Errorf("%w after %d attempts: %v", ErrTransferFailed, o.retries+1, lastErr)
	}
	if !fileutil.NonEmpty(dest) {
		return "", fmt.Errorf("%w: %s missing or empty", ErrTransferFailed, filepath.Base(dest))
	}
	return dest, nil
}

// fetch transfers srcURL into dest's .part staging file, resuming from any
// existing partial data, and renames it into place on completion.
func (o *Orchestrator) fetch(ctx context.Context, srcURL, dest string) error {
	part := dest + ".part"
	var offset int64
	if info, err := os.Stat(part); err == nil {
		offset = info.Size()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	appendTo := false
	switch {
	case resp.StatusCode == http.StatusPartialContent && offset > 0:
		appendTo = true
	case resp.StatusCode == http.StatusRequestedRangeNotSatisfiable && offset > 0:
		// The partial file already holds the full media.
		return os.Rename(part, dest)
	case resp.StatusCode == http.StatusOK:
		offset = 0
	default:
		return fmt.Errorf("source returned %d", resp.StatusCode)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if appendTo {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	file, err := os.OpenFile(part, flags, 0o644)
	if err != nil {
		return fmt.Errorf("open staging file: %w", err)
	}

	writer := io.Writer(file)
	if o.showProgress {
		total := int64(-1)
		if resp.ContentLength >= 0 {
			total = offset + resp.ContentLength
		}
		bar := progressbar.DefaultBytes(total, filepath.Base(dest))
		_ = bar.Add64(offset)
		writer = io.MultiWriter(file, bar)
	}

	if _, err := io.Copy(writer, resp.Body); err != nil {
		file.Close()
		return fmt.Errorf("copy media: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close staging file: %w", err)
	}
	return os.Rename(part, dest)
}
