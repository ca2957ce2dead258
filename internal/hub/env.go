package hub

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultSyncInterval is used when SYNC_INTERVAL is unset or invalid.
const DefaultSyncInterval = 300000 * time.Millisecond

// Env is the read-only environment surface: one <NAME>_ENABLED flag per
// target plus AUTO_SYNC and SYNC_INTERVAL.
type Env struct {
	v      *viper.Viper
	loaded bool
}

// LoadEnv parses configs/env/.env. Process environment variables take
// precedence over file values. A missing file yields an empty Env.
func LoadEnv(layout Layout) (*Env, error) {
	v := viper.New()
	v.AutomaticEnv()

	path := layout.EnvPath()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Env{v: v}, nil
		}
		return nil, &ConfigError{Op: "reading", Path: path, Err: err}
	}

	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return nil, &ConfigError{Op: "parsing", Path: path, Err: err}
	}
	return &Env{v: v, loaded: len(v.AllKeys()) > 0}, nil
}

// NewEnv builds an Env from explicit values, ignoring the process environment.
func NewEnv(values map[string]string) *Env {
	v := viper.New()
	for k, val := range values {
		v.Set(k, val)
	}
	return &Env{v: v, loaded: len(values) > 0}
}

// Loaded reports whether any values came from the .env file.
func (e *Env) Loaded() bool { return e.loaded }

// Get returns the raw value for key ("" when unset).
func (e *Env) Get(key string) string {
	return e.v.GetString(key)
}

// TargetEnabled reads the <NAME>_ENABLED flag for a target. Hyphens in the
// name are also tried as underscores so "claude-code" matches
// CLAUDE_CODE_ENABLED.
func (e *Env) TargetEnabled(name string) bool {
	return truthy(e.Get(EnabledKey(name))) ||
		(strings.Contains(name, "-") && truthy(e.Get(strings.ReplaceAll(EnabledKey(name), "-", "_"))))
}

// EnabledKey returns the environment key for a target's enable flag.
func EnabledKey(name string) string {
	return strings.ToUpper(name) + "_ENABLED"
}

// AutoSync reports whether AUTO_SYNC is enabled.
func (e *Env) AutoSync() bool {
	return truthy(e.Get("AUTO_SYNC"))
}

// SyncIntervalRaw returns SYNC_INTERVAL as written, defaulting to "300000".
func (e *Env) SyncIntervalRaw() string {
	if raw := e.Get("SYNC_INTERVAL"); raw != "" {
		return raw
	}
	return strconv.FormatInt(DefaultSyncInterval.Milliseconds(), 10)
}

// SyncInterval returns SYNC_INTERVAL (milliseconds) as a duration.
func (e *Env) SyncInterval() time.Duration {
	ms, err := strconv.ParseInt(strings.TrimSpace(e.SyncIntervalRaw()), 10, 64)
	if err != nil || ms <= 0 {
		return DefaultSyncInterval
	}
	return time.Duration(ms) * time.Millisecond
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}
