package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/mcphub-labs/mcphub/internal/branding"
	"github.com/mcphub-labs/mcphub/internal/hub"
	"github.com/mcphub-labs/mcphub/internal/linker"
	"github.com/mcphub-labs/mcphub/internal/profile"
	"github.com/mcphub-labs/mcphub/internal/registry"
	"github.com/mcphub-labs/mcphub/internal/report"
	"github.com/mcphub-labs/mcphub/internal/target"
	"github.com/spf13/afero"
)

// DefaultHistorySize is how many past reports a snapshot includes.
const DefaultHistorySize = 5

// Options are the inputs of Collect.
type Options struct {
	Layout      hub.Layout
	Config      *hub.Config
	Env         *hub.Env
	FS          afero.Fs
	Store       *profile.Store
	Linker      *linker.Linker
	Reports     *report.Writer
	Home        string
	Now         func() time.Time
	HistorySize int
}

// Snapshot is the full status of a hub at one instant.
type Snapshot struct {
	System          System         `json:"system" yaml:"system"`
	CLIs            []CLIStatus    `json:"clis" yaml:"clis"`
	Servers         []ServerStatus `json:"servers" yaml:"servers"`
	Sync            SyncStatus     `json:"sync" yaml:"sync"`
	Recommendations []string       `json:"recommendations" yaml:"recommendations"`
}

// System describes the hub itself.
type System struct {
	HubRoot       string    `json:"hub_root" yaml:"hub_root"`
	ConfigLoaded  bool      `json:"config_loaded" yaml:"config_loaded"`
	EnvLoaded     bool      `json:"env_loaded" yaml:"env_loaded"`
	SetupComplete bool      `json:"setup_complete" yaml:"setup_complete"`
	CheckedAt     time.Time `json:"last_check" yaml:"last_check"`
}

// CLIStatus describes one supported CLI.
type CLIStatus struct {
	Name          string     `json:"name" yaml:"name"`
	Enabled       bool       `json:"enabled" yaml:"enabled"`
	Connected     bool       `json:"connected" yaml:"connected"`
	ConfigPath    string     `json:"config_path" yaml:"config_path"`
	SymlinkExists bool       `json:"symlink_exists" yaml:"symlink_exists"`
	SymlinkValid  bool       `json:"symlink_valid" yaml:"symlink_valid"`
	LastSync      *time.Time `json:"last_sync" yaml:"last_sync"`
	ServersCount  int        `json:"servers_count" yaml:"servers_count"`
	Error         string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// ServerStatus describes one registry item.
type ServerStatus struct {
	Name             string `json:"name" yaml:"name"`
	Category         string `json:"category" yaml:"category"`
	Path             string `json:"path" yaml:"path"`
	Enabled          bool   `json:"enabled" yaml:"enabled"`
	registry.Details `yaml:",inline"`
}

// SyncStatus describes automatic sync settings and past reports.
type SyncStatus struct {
	AutoSync      bool                  `json:"auto_sync_enabled" yaml:"auto_sync_enabled"`
	Interval      string                `json:"sync_interval" yaml:"sync_interval"`
	LastReport    *report.Report        `json:"last_sync_report" yaml:"last_sync_report"`
	History       []report.HistoryEntry `json:"sync_history" yaml:"sync_history"`
	ReportError   string                `json:"report_error,omitempty" yaml:"report_error,omitempty"`
	RegistryError string                `json:"registry_error,omitempty" yaml:"registry_error,omitempty"`
}

// Collect builds a snapshot. It never mutates the hub. Config and Env must
// be loaded; every other failure is recorded in the snapshot.
func Collect(opts Options) *Snapshot {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}
	if opts.HistorySize == 0 {
		opts.HistorySize = DefaultHistorySize
	}
	if opts.Store == nil {
		opts.Store = profile.NewStore(opts.FS, opts.Layout.ProfilesDir())
	}
	if opts.Linker == nil {
		opts.Linker = linker.New(opts.Layout.RegistryRoot(), nil)
	}
	if opts.Reports == nil {
		opts.Reports = report.NewWriter(opts.FS, opts.Layout.LogsDir(), nil)
	}

	s := &Snapshot{
		System: System{
			HubRoot:       opts.Layout.Root,
			ConfigLoaded:  opts.Config != nil,
			EnvLoaded:     opts.Env.Loaded(),
			SetupComplete: hub.SetupComplete(opts.Layout),
			CheckedAt:     opts.Now().UTC(),
		},
		CLIs:    []CLIStatus{},
		Servers: []ServerStatus{},
		Sync: SyncStatus{
			AutoSync: opts.Env.AutoSync(),
			Interval: opts.Env.SyncIntervalRaw(),
			History:  []report.HistoryEntry{},
		},
	}

	for _, t := range target.Discover(opts.Config, opts.Env, opts.Store, opts.Home) {
		s.CLIs = append(s.CLIs, cliStatus(t, opts.Linker))
	}

	scan, err := registry.Scan(opts.FS, opts.Layout.RegistryRoot(),
		opts.Config.Servers.Categories, opts.Config.Servers.DefaultConfig, nil)
	if err != nil {
		s.Sync.RegistryError = err.Error()
	} else {
		for _, it := range scan.Items {
			s.Servers = append(s.Servers, ServerStatus{
				Name:     it.Name,
				Category: it.Category,
				Path:     it.Path,
				Enabled:  it.Enabled,
				Details:  registry.Inspect(opts.FS, it),
			})
		}
	}

	if latest, err := opts.Reports.ReadLatest(); err != nil {
		s.Sync.ReportError = err.Error()
	} else {
		s.Sync.LastReport = latest
	}
	if hist, err := opts.Reports.History(opts.HistorySize); err == nil && hist != nil {
		s.Sync.History = hist
	}

	s.Recommendations = recommend(s)
	return s
}

func cliStatus(t target.Target, l *linker.Linker) CLIStatus {
	cs := CLIStatus{
		Name:       t.Name,
		Enabled:    t.Enabled,
		ConfigPath: t.ConfigPath,
	}
	if !t.Enabled {
		return cs
	}
	if t.Err != nil {
		cs.Error = t.Err.Error()
	}
	if t.Profile != nil {
		cs.LastSync = t.Profile.LastSync
		cs.ServersCount = len(t.Profile.Servers)
	}

	link := l.CheckRootLink(t.RootPath)
	cs.SymlinkExists = link.Exists
	cs.SymlinkValid = link.Valid
	cs.Connected = t.State == target.StateConnected && link.Valid
	return cs
}

func recommend(s *Snapshot) []string {
	var recs []string
	cli := branding.CLIName()

	if !s.System.SetupComplete {
		recs = append(recs, fmt.Sprintf("Run '%s setup' to initialize the hub", cli))
	}
	if s.Sync.RegistryError != "" {
		recs = append(recs, "Create the registry directory: "+s.Sync.RegistryError)
	}

	var disconnected, noConfig, noDeps []string
	for _, c := range s.CLIs {
		if c.Enabled && !c.Connected {
			disconnected = append(disconnected, c.Name)
		}
	}
	for _, srv := range s.Servers {
		if !srv.Enabled {
			continue
		}
		if !srv.HasConfig {
			noConfig = append(noConfig, srv.Name)
		} else if srv.HasPackageJSON && !srv.DependenciesInstalled {
			noDeps = append(noDeps, srv.Name)
		}
	}

	if len(disconnected) > 0 {
		recs = append(recs, fmt.Sprintf("Connect CLIs with '%s connect': %s", cli, strings.Join(disconnected, ", ")))
	}
	if len(noConfig) > 0 {
		recs = append(recs, "Add a config.json to: "+strings.Join(noConfig, ", "))
	}
	if len(noDeps) > 0 {
		recs = append(recs, "Install dependencies for: "+strings.Join(noDeps, ", "))
	}
	if recs == nil {
		recs = []string{}
	}
	return recs
}

// Enabled returns the enabled servers of the snapshot.
func (s *Snapshot) Enabled() []ServerStatus {
	var out []ServerStatus
	for _, srv := range s.Servers {
		if srv.Enabled {
			out = append(out, srv)
		}
	}
	return out
}
