package target

import (
	"github.com/mcphub-labs/mcphub/internal/hub"
	"github.com/mcphub-labs/mcphub/internal/linker"
	"github.com/mcphub-labs/mcphub/internal/profile"
)

// State is the discovery state of a target.
type State string

const (
	StateDisabled     State = "disabled"
	StateDisconnected State = "disconnected"
	StateConnected    State = "connected"
	StateUnknown      State = "unknown" // profile unreadable
)

// Target is one statically known CLI tool.
type Target struct {
	Name       string
	Enabled    bool
	ConfigPath string // as configured, possibly "~/..."
	RootPath   string // ConfigPath with the home shorthand expanded
	Profile    *profile.Profile
	State      State
	Err        error // set when State is StateUnknown
}

// Active reports whether the target takes part in a sync.
func (t Target) Active() bool {
	return t.Enabled && t.State == StateConnected
}

// RootLinkPath returns the target's root link location.
func (t Target) RootLinkPath() string {
	return linker.RootLinkPath(t.RootPath)
}

// Discover resolves every supported target in configuration order. Disabled
// targets are returned without a profile lookup.
func Discover(cfg *hub.Config, env *hub.Env, store *profile.Store, home string) []Target {
	targets := make([]Target, 0, len(cfg.CLIs.Supported))
	for _, name := range cfg.CLIs.Supported {
		t := Target{
			Name:       name,
			ConfigPath: cfg.ConfigPath(name),
			RootPath:   hub.ExpandHome(cfg.ConfigPath(name), home),
			Enabled:    env.TargetEnabled(name),
			State:      StateDisabled,
		}
		if !t.Enabled {
			targets = append(targets, t)
			continue
		}

		p, err := store.Load(name)
		switch {
		case err != nil:
			t.State = StateUnknown
			t.Err = err
		case p.Connected():
			t.Profile = p
			t.State = StateConnected
		default:
			t.Profile = p
			t.State = StateDisconnected
		}
		targets = append(targets, t)
	}
	return targets
}

// Active filters targets down to the active ones.
func Active(targets []Target) []Target {
	var out []Target
	for _, t := range targets {
		if t.Active() {
			out = append(out, t)
		}
	}
	return out
}

// Lookup returns the target with the given name.
func Lookup(targets []Target, name string) (Target, bool) {
	for _, t := range targets {
		if t.Name == name {
			return t, true
		}
	}
	return Target{}, false
}
