package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/mcphub-labs/mcphub/internal/hub"
	"github.com/mcphub-labs/mcphub/internal/linker"
	"github.com/mcphub-labs/mcphub/internal/profile"
	"github.com/mcphub-labs/mcphub/internal/registry"
	"github.com/mcphub-labs/mcphub/internal/report"
	"github.com/mcphub-labs/mcphub/internal/target"
	"github.com/oklog/ulid/v2"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
)

// Options are the immutable inputs of one pass.
type Options struct {
	Layout  hub.Layout
	Config  *hub.Config
	Env     *hub.Env
	FS      afero.Fs // registry filesystem; nil uses the OS
	Store   *profile.Store
	Linker  *linker.Linker
	Reports *report.Writer
	Home    string
	Now     func() time.Time
	Logger  *slog.Logger

	// Parallelism bounds how many targets are processed at once. Values
	// below 2 process targets one after another.
	Parallelism int
}

// Outcome is what a completed pass returns.
type Outcome struct {
	RunID   string
	Report  *report.Report
	Paths   report.Paths
	Targets []target.Target // every supported target, as discovered
	Active  []target.Target
}

// SyncRun is the mutable state of a single pass. It is created by Run and
// never reused.
type SyncRun struct {
	ID        string
	StartedAt time.Time

	opts   Options
	logger *slog.Logger

	mu       sync.Mutex
	results  map[string]*report.Result
	warnings []string
}

func newSyncRun(opts Options) *SyncRun {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Reports == nil {
		opts.Reports = report.NewWriter(opts.FS, opts.Layout.LogsDir(), opts.Logger)
	}
	if opts.Linker == nil {
		opts.Linker = linker.New(opts.Layout.RegistryRoot(), opts.Logger)
	}
	if opts.Store == nil {
		opts.Store = profile.NewStore(opts.FS, opts.Layout.ProfilesDir())
	}

	start := opts.Now().UTC()
	id := ulid.MustNew(ulid.Timestamp(start), ulid.DefaultEntropy()).String()
	return &SyncRun{
		ID:        id,
		StartedAt: start,
		opts:      opts,
		logger:    opts.Logger.With("run", id),
		results:   make(map[string]*report.Result),
	}
}

func (r *SyncRun) warn(msg string, args ...any) {
	text := fmt.Sprintf(msg, args...)
	r.logger.Warn(text)
	r.mu.Lock()
	r.warnings = append(r.warnings, text)
	r.mu.Unlock()
}

func (r *SyncRun) setResult(name string, res *report.Result) {
	r.mu.Lock()
	r.results[name] = res
	r.mu.Unlock()
}

// Run executes one pass. Config and Env must already be loaded. The returned
// error is a *hub.ConfigError when the registry cannot be scanned, or the
// report write error; item and target failures are only recorded in the
// report.
func Run(ctx context.Context, opts Options) (*Outcome, error) {
	if opts.Config == nil || opts.Env == nil {
		return nil, &hub.ConfigError{Op: "starting sync", Err: fmt.Errorf("configuration not loaded")}
	}
	if opts.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		opts.Home = home
	}

	run := newSyncRun(opts)
	run.logger.Info("sync started", "root", opts.Layout.Root)

	scan, targets, err := run.discover()
	if err != nil {
		return nil, err
	}
	run.warnings = append(run.warnings, scan.Warnings...)

	active := target.Active(targets)
	for _, t := range targets {
		if t.State == target.StateUnknown {
			run.warn("skipping %s: %v", t.Name, t.Err)
		}
	}
	enabled := scan.Enabled()
	run.logger.Info("discovery complete", "servers", len(scan.Items), "enabled", len(enabled), "targets", len(active))

	run.syncTargets(ctx, active, enabled)

	names := make([]string, 0, len(active))
	for _, t := range active {
		names = append(names, t.Name)
	}
	rep := report.Build(run.StartedAt, names, scan.Items, run.results, run.warnings)

	paths, err := run.opts.Reports.Write(rep)
	if err != nil {
		return nil, err
	}

	run.logger.Info("sync finished",
		"successful", rep.Summary.SuccessfulSyncs,
		"failed", rep.Summary.FailedSyncs,
		"changes", rep.Changes(),
		"report", paths.Timestamped)

	return &Outcome{
		RunID:   run.ID,
		Report:  rep,
		Paths:   paths,
		Targets: targets,
		Active:  active,
	}, nil
}

// discover scans the registry and resolves targets concurrently; neither
// depends on the other.
func (r *SyncRun) discover() (*registry.ScanResult, []target.Target, error) {
	var (
		scan    *registry.ScanResult
		scanErr error
		targets []target.Target
	)
	cfg := r.opts.Config

	var wg conc.WaitGroup
	wg.Go(func() {
		scan, scanErr = registry.Scan(r.opts.FS, r.opts.Layout.RegistryRoot(),
			cfg.Servers.Categories, cfg.Servers.DefaultConfig, r.logger)
	})
	wg.Go(func() {
		targets = target.Discover(cfg, r.opts.Env, r.opts.Store, r.opts.Home)
	})
	wg.Wait()

	if scanErr != nil {
		return nil, nil, scanErr
	}
	return scan, targets, nil
}

func (r *SyncRun) syncTargets(ctx context.Context, active []target.Target, items []registry.Item) {
	if r.opts.Parallelism < 2 || len(active) < 2 {
		for _, t := range active {
			r.syncOne(ctx, t, items)
		}
		return
	}

	p := pool.New().WithMaxGoroutines(r.opts.Parallelism)
	for _, t := range active {
		t := t // per-iteration copy; go directive lowered to 1.21 (pre-1.22 loopvar semantics)
		p.Go(func() { r.syncOne(ctx, t, items) })
	}
	p.Wait()
}

// syncOne processes a single target and persists its profile. It never
// panics and never returns an error; everything ends up in the Result.
func (r *SyncRun) syncOne(ctx context.Context, t target.Target, items []registry.Item) {
	res := report.NewResult(r.opts.Now().UTC())
	log := r.logger.With("target", t.Name)

	func() {
		defer func() {
			if p := recover(); p != nil {
				res.Fail(fmt.Sprintf("unexpected failure: %v", p))
				log.Error("target panicked", "panic", p)
			}
		}()
		r.linkItems(ctx, t, items, res, log)
	}()

	r.setResult(t.Name, res)
	r.persist(t, res)

	if res.Success {
		log.Info("target synced", "servers", len(res.Synced()), "changes", res.Changes)
	} else {
		log.Warn("target failed", "errors", res.Errors)
	}
}

func (r *SyncRun) linkItems(ctx context.Context, t target.Target, items []registry.Item, res *report.Result, log *slog.Logger) {
	if err := ctx.Err(); err != nil {
		res.Fail(fmt.Sprintf("sync canceled: %v", err))
		return
	}

	state := r.opts.Linker.CheckRootLink(t.RootPath)
	if err := state.Err(); err != nil {
		res.Fail(err.Error())
		return
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			res.Fail(fmt.Sprintf("sync canceled: %v", err))
			return
		}

		outcome := report.ItemOutcome{Name: item.Name, Category: item.Category, Status: report.StatusSynced}
		action, err := r.opts.Linker.EnsureItemLink(state.Path, item)
		if err != nil {
			outcome.Status = report.StatusError
			outcome.Error = err.Error()
			log.Warn("item failed", "item", item.ID(), "error", err)
		} else if action.Mutates() {
			res.Changes++
		}
		res.Servers = append(res.Servers, outcome)
	}
}

// persist records the pass on the target's profile. A failure here does not
// change the target's result; it becomes a run warning.
func (r *SyncRun) persist(t target.Target, res *report.Result) {
	rec := profile.SyncRecord{At: r.StartedAt, Success: res.Success}
	for _, o := range res.Servers {
		ref := profile.ItemRef{Category: o.Category, Name: o.Name}
		if o.Status == report.StatusSynced {
			rec.Synced = append(rec.Synced, ref)
		} else {
			rec.Failed = append(rec.Failed, ref)
		}
	}
	if err := r.opts.Store.RecordSync(t.Name, rec); err != nil {
		r.warn("updating profile %s: %v", t.Name, err)
	}
}

// TargetNames returns the sorted names of the targets in results.
func TargetNames(results map[string]*report.Result) []string {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
