package hub

import "fmt"

// ConfigError reports a missing or unparseable hub or environment
// configuration. It aborts the whole run.
type ConfigError struct {
	Op   string // e.g., "reading", "validating"
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("config: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
