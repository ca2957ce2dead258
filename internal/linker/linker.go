package linker

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mcphub-labs/mcphub/internal/platform"
	"github.com/mcphub-labs/mcphub/internal/registry"
)

// RootLinkName is the fixed name of the root link inside every target root.
const RootLinkName = "mcp_servers"

// Linker reconciles links against one registry root.
type Linker struct {
	registryRoot string
	logger       *slog.Logger
}

// New returns a Linker for the given registry root. A nil logger uses
// slog.Default().
func New(registryRoot string, logger *slog.Logger) *Linker {
	if abs, err := filepath.Abs(registryRoot); err == nil {
		registryRoot = abs
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Linker{registryRoot: registryRoot, logger: logger}
}

// RegistryRoot returns the absolute registry root root links point at.
func (l *Linker) RegistryRoot() string { return l.registryRoot }

// RootLinkPath returns <targetRoot>/mcp_servers.
func RootLinkPath(targetRoot string) string {
	return filepath.Join(targetRoot, RootLinkName)
}

// ItemLinkPath returns <rootLinkPath>/<category>/<name>.
func ItemLinkPath(rootLinkPath string, item registry.Item) string {
	return filepath.Join(rootLinkPath, item.Category, item.Name)
}

// EnsureRootLink creates targetRoot if needed and makes its root link point
// at the registry root, repairing a wrong or broken entry. A correct link is
// left untouched.
func (l *Linker) EnsureRootLink(targetRoot string) (Action, error) {
	if err := os.MkdirAll(targetRoot, 0755); err != nil {
		return ActionKeep, &LinkError{Op: "creating target root for", Path: RootLinkPath(targetRoot), Err: err}
	}

	plan, err := PlanLink(RootLinkPath(targetRoot), l.registryRoot)
	if err != nil {
		return ActionKeep, err
	}
	if err := plan.Apply(); err != nil {
		return ActionKeep, err
	}
	if plan.Action.Mutates() {
		l.logger.Info("root link reconciled", "link", plan.LinkPath, "action", plan.Action.String(), "target", plan.Target)
	}
	return plan.Action, nil
}

// RootLinkState is the read-only view of a target's root link.
type RootLinkState struct {
	Path     string
	Exists   bool // an entry exists at Path (possibly a dangling link)
	Symlink  bool
	Raw      string // link text as stored, empty for non-links
	Valid    bool
	Resolved string // fully resolved path, empty when unresolvable
	Expected string // resolved registry root
}

// Err describes why the root link is not valid, or returns nil.
func (s RootLinkState) Err() error {
	switch {
	case s.Valid:
		return nil
	case !s.Exists:
		return &LinkError{Op: "validating", Path: s.Path, Err: os.ErrNotExist}
	case !s.Symlink:
		return &LinkError{Op: "validating", Path: s.Path, Err: errors.New("not a symlink")}
	case s.Resolved == "":
		return &LinkError{Op: "validating", Path: s.Path, Err: fmt.Errorf("link is broken (points at %s)", s.Raw)}
	default:
		return &LinkError{Op: "validating", Path: s.Path, Err: fmt.Errorf("%w: %s ≠ %s", ErrNotExpected, s.Resolved, s.Expected)}
	}
}

// CheckRootLink inspects the root link of targetRoot without changing anything.
func (l *Linker) CheckRootLink(targetRoot string) RootLinkState {
	st := RootLinkState{Path: RootLinkPath(targetRoot)}

	if _, err := os.Lstat(st.Path); err != nil {
		return st
	}
	st.Exists = true
	if st.Symlink = platform.IsSymlink(st.Path); st.Symlink {
		st.Raw, _ = platform.ReadSymlinkTarget(st.Path)
	}

	expected, err := platform.RealPath(l.registryRoot)
	if err != nil {
		return st
	}
	st.Expected = expected

	resolved, err := platform.RealPath(st.Path)
	if err != nil {
		return st
	}
	st.Resolved = resolved
	st.Valid = resolved == expected
	return st
}

// ValidateRootLink reports whether the root link of targetRoot exists and
// resolves exactly to the registry root.
func (l *Linker) ValidateRootLink(targetRoot string) bool {
	return l.CheckRootLink(targetRoot).Valid
}

// EnsureItemLink makes <rootLinkPath>/<category>/<name> resolve to the item's
// real path. An already-correct link is a no-op; a wrong one is replaced.
func (l *Linker) EnsureItemLink(rootLinkPath string, item registry.Item) (Action, error) {
	plan, err := PlanLink(ItemLinkPath(rootLinkPath, item), item.Path)
	if err != nil {
		return ActionKeep, err
	}
	if err := plan.Apply(); err != nil {
		return ActionKeep, err
	}
	if plan.Action.Mutates() {
		l.logger.Info("item link reconciled", "item", item.ID(), "link", plan.LinkPath, "action", plan.Action.String())
	}
	return plan.Action, nil
}
