package hub

import (
	"path/filepath"
	"strings"
)

// Directory and file name constants for the hub layout.
const (
	ConfigsDir     = "configs"
	ConfigFile     = "config.json"
	EnvDir         = "env"
	EnvFile        = ".env"
	EnvExampleFile = "env.example"
	ServersDir     = "servers"
	ProfilesDir    = "cli-profiles"
	LogsDir        = "logs"
	SetupMarker    = ".setup-complete"
)

// Layout resolves every hub location from the hub root.
type Layout struct {
	Root string
}

// ConfigPath returns <root>/configs/config.json.
func (l Layout) ConfigPath() string {
	return filepath.Join(l.Root, ConfigsDir, ConfigFile)
}

// EnvPath returns <root>/configs/env/.env.
func (l Layout) EnvPath() string {
	return filepath.Join(l.Root, ConfigsDir, EnvDir, EnvFile)
}

// EnvExamplePath returns <root>/configs/env/env.example.
func (l Layout) EnvExamplePath() string {
	return filepath.Join(l.Root, ConfigsDir, EnvDir, EnvExampleFile)
}

// RegistryRoot returns <root>/servers, the directory every root link points at.
func (l Layout) RegistryRoot() string {
	return filepath.Join(l.Root, ServersDir)
}

// ProfilesDir returns <root>/cli-profiles.
func (l Layout) ProfilesDir() string {
	return filepath.Join(l.Root, ProfilesDir)
}

// LogsDir returns <root>/logs.
func (l Layout) LogsDir() string {
	return filepath.Join(l.Root, LogsDir)
}

// SetupMarkerPath returns <root>/.setup-complete.
func (l Layout) SetupMarkerPath() string {
	return filepath.Join(l.Root, SetupMarker)
}

// ExpandHome replaces a leading "~" in path with home. Paths without the
// shorthand are returned unchanged.
func ExpandHome(path, home string) string {
	if strings.HasPrefix(path, "~") {
		return home + path[1:]
	}
	return path
}
