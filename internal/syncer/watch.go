package syncer

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thoreinstein/syncmcp/internal/backup"
	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/logging"
	"github.com/thoreinstein/syncmcp/internal/paths"
)

// DefaultDebounce is the quiet period used when Watch is given none.
const DefaultDebounce = 300 * time.Millisecond

// ReportFunc receives the outcome of each run started by Watch.
type ReportFunc func(*Result, error)

// Watch runs req once and then again whenever the source file changes,
// until ctx is cancelled. Bursts of change events within debounce collapse
// into one run. A failed run is reported and does not stop the watch.
//
// The source's directory is watched rather than the file so editors that
// replace files by rename are followed. During one Watch call the target
// is backed up at most once.
func (s *Syncer) Watch(ctx context.Context, req Request, debounce time.Duration, report ReportFunc) error {
	logger := logging.FromContext(ctx)
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	src, err := paths.Expand(req.SourcePath)
	if err != nil {
		return errors.Wrap(err, "resolving source path")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating file watcher")
	}
	defer watcher.Close()

	dir := filepath.Dir(src)
	if err := watcher.Add(dir); err != nil {
		return errors.Wrapf(err, "watching %s", paths.Display(dir))
	}

	var session *backup.Session
	if s.backups != nil {
		session = backup.NewSession(s.backups)
	}

	run := func(trigger string) {
		r := req
		r.Trigger = trigger
		res, err := s.run(ctx, r, session)
		if report != nil {
			report(res, err)
		}
	}

	run(req.Trigger)
	logger.Info("watching for changes", "path", paths.Display(src), "debounce", debounce)

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !paths.Same(event.Name, src) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("source changed", "event", event.Op.String())
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "error", err)

		case <-timer.C:
			run(TriggerWatch)
		}
	}
}
