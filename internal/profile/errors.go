package profile

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by operations that require an existing record.
var ErrNotFound = errors.New("profile not found")

// ProfileError reports an unreadable or unwritable profile record. It
// degrades the affected target rather than aborting a run.
type ProfileError struct {
	Target string
	Op     string // "reading", "parsing", "writing"
	Err    error
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("profile %s: %s: %v", e.Target, e.Op, e.Err)
}

func (e *ProfileError) Unwrap() error { return e.Err }
