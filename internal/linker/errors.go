package linker

import (
	"errors"
	"fmt"
)

// ErrOccupied means a non-empty real directory sits where a link should be.
// The reconciler never deletes it.
var ErrOccupied = errors.New("path is occupied by a non-empty directory")

// ErrNotExpected means an entry exists but does not resolve to the expected path.
var ErrNotExpected = errors.New("link does not resolve to the expected path")

// LinkError reports a filesystem denial or inconsistency while inspecting,
// creating or replacing a link. It is scoped to one item or one target.
type LinkError struct {
	Op   string // "inspecting", "creating", "replacing", ...
	Path string
	Err  error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("%s link %s: %v", e.Op, e.Path, e.Err)
}

func (e *LinkError) Unwrap() error { return e.Err }
