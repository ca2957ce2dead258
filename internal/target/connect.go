package target

import (
	"fmt"

	"github.com/mcphub-labs/mcphub/internal/linker"
	"github.com/mcphub-labs/mcphub/internal/profile"
)

// ConnectResult describes one connect attempt.
type ConnectResult struct {
	Target   string
	LinkPath string
	Action   linker.Action
	Err      error
}

// Connect links a target into the registry and marks its profile connected.
// The root link is created or repaired first, then the profile is written
// (created when absent), then the link is validated again.
func Connect(t Target, l *linker.Linker, store *profile.Store) ConnectResult {
	res := ConnectResult{Target: t.Name, LinkPath: t.RootLinkPath()}

	action, err := l.EnsureRootLink(t.RootPath)
	if err != nil {
		res.Err = err
		return res
	}
	res.Action = action

	p, err := store.Load(t.Name)
	if err != nil {
		res.Err = err
		return res
	}
	if p == nil {
		p = profile.New(t.Name, t.ConfigPath)
	}
	p.Enabled = true
	p.Status = profile.StatusConnected
	p.ConfigPath = t.ConfigPath
	if err := store.Save(p); err != nil {
		res.Err = err
		return res
	}

	if err := l.CheckRootLink(t.RootPath).Err(); err != nil {
		res.Err = fmt.Errorf("connected %s but link did not validate: %w", t.Name, err)
	}
	return res
}
