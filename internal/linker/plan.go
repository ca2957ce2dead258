package linker

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/mcphub-labs/mcphub/internal/platform"
	"github.com/oklog/ulid/v2"
)

// Action is what a Plan will do to the filesystem.
type Action int

const (
	ActionKeep Action = iota
	ActionCreate
	ActionReplace
)

func (a Action) String() string {
	switch a {
	case ActionKeep:
		return "keep"
	case ActionCreate:
		return "create"
	case ActionReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Mutates reports whether applying the action writes to the filesystem.
func (a Action) Mutates() bool { return a != ActionKeep }

type entryKind int

const (
	entryNone entryKind = iota
	entrySymlink
	entryFile
	entryEmptyDir
)

// Plan is the decision for a single link, computed without side effects.
type Plan struct {
	LinkPath string
	Target   string // what the link should point at
	Action   Action
	existing entryKind
}

// PlanLink inspects linkPath and decides how to make it resolve to target.
// A link is correct only when its fully resolved path equals the resolved
// target exactly.
func PlanLink(linkPath, target string) (Plan, error) {
	p := Plan{LinkPath: linkPath, Target: target}

	expected, err := platform.RealPath(target)
	if err != nil {
		return p, &LinkError{Op: "resolving target of", Path: linkPath, Err: err}
	}

	info, err := os.Lstat(linkPath)
	if errors.Is(err, os.ErrNotExist) {
		p.Action = ActionCreate
		return p, nil
	}
	if err != nil {
		return p, &LinkError{Op: "inspecting", Path: linkPath, Err: err}
	}

	if real, err := platform.RealPath(linkPath); err == nil && real == expected {
		p.Action = ActionKeep
		return p, nil
	}

	p.Action = ActionReplace
	switch {
	case platform.IsSymlink(linkPath):
		p.existing = entrySymlink
	case info.IsDir():
		entries, err := os.ReadDir(linkPath)
		if err != nil {
			return p, &LinkError{Op: "inspecting", Path: linkPath, Err: err}
		}
		if len(entries) > 0 {
			return p, &LinkError{Op: "replacing", Path: linkPath, Err: ErrOccupied}
		}
		p.existing = entryEmptyDir
	default:
		p.existing = entryFile
	}
	return p, nil
}

// Apply carries out the plan. Keep is a no-op.
func (p Plan) Apply() error {
	switch p.Action {
	case ActionKeep:
		return nil

	case ActionCreate:
		if err := os.MkdirAll(filepath.Dir(p.LinkPath), 0755); err != nil {
			return &LinkError{Op: "creating parent of", Path: p.LinkPath, Err: err}
		}
		if err := platform.CreateSymlink(p.Target, p.LinkPath); err != nil {
			return &LinkError{Op: "creating", Path: p.LinkPath, Err: err}
		}
		return nil

	case ActionReplace:
		if p.existing == entryEmptyDir {
			// rename(2) cannot put a symlink over a directory.
			if err := os.Remove(p.LinkPath); err != nil {
				return &LinkError{Op: "replacing", Path: p.LinkPath, Err: err}
			}
			if err := platform.CreateSymlink(p.Target, p.LinkPath); err != nil {
				return &LinkError{Op: "creating", Path: p.LinkPath, Err: err}
			}
			return nil
		}
		if err := platform.ReplaceSymlink(p.Target, p.LinkPath, tempName(p.LinkPath)); err != nil {
			return &LinkError{Op: "replacing", Path: p.LinkPath, Err: err}
		}
		return nil
	}
	return nil
}

func tempName(linkPath string) string {
	return "." + filepath.Base(linkPath) + "." + ulid.Make().String() + ".tmp"
}
