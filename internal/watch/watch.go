package watch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long registry events are coalesced before a pass.
const DefaultDebounce = 500 * time.Millisecond

// SyncFunc runs one pass. Its error is logged and does not stop the watcher.
type SyncFunc func(ctx context.Context, reason string) error

// Options configure Run.
type Options struct {
	Interval     time.Duration // zero disables the periodic pass
	Debounce     time.Duration
	RegistryRoot string // empty disables change watching
	Sync         SyncFunc
	Logger       *slog.Logger
}

// Run blocks until ctx is done. It returns nil on cancellation and an error
// only when the watcher cannot be set up.
func Run(ctx context.Context, opts Options) error {
	if opts.Sync == nil {
		return errors.New("watch: no sync function")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var (
		rw     *registryWatcher
		events <-chan fsnotify.Event
		errs   <-chan error
	)
	if opts.RegistryRoot != "" {
		var err error
		rw, err = newRegistryWatcher(opts.RegistryRoot, logger)
		if err != nil {
			return err
		}
		defer rw.Close()
		events, errs = rw.w.Events, rw.w.Errors
	}

	var tick <-chan time.Time
	if opts.Interval > 0 {
		ticker := time.NewTicker(opts.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	debounce := time.NewTimer(opts.Debounce)
	debounce.Stop()
	defer debounce.Stop()

	run := func(reason string) {
		if ctx.Err() != nil {
			return
		}
		if err := opts.Sync(ctx, reason); err != nil {
			logger.Error("sync failed", "reason", reason, "error", err)
		}
	}

	logger.Info("watching", "registry", opts.RegistryRoot, "interval", opts.Interval)
	run("startup")

	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped")
			return nil

		case <-tick:
			run("interval")

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if rw.handle(ev) {
				debounce.Reset(opts.Debounce)
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Error("registry watcher error", "error", err)

		case <-debounce.C:
			run("change")
		}
	}
}
