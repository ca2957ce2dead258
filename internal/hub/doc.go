// Package hub describes the on-disk hub: where the registry, profiles, logs and
// configuration files live, how configs/config.json and configs/env/.env are
// loaded and validated, and how a fresh hub is set up. Configuration failures
// are reported as *ConfigError and are fatal to a sync run.
package hub
