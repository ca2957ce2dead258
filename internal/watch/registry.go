package watch

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// maxDepth covers <root>/<category>/<item>; item config.json edits happen
// inside the deepest watched directory.
const maxDepth = 2

type registryWatcher struct {
	root   string
	w      *fsnotify.Watcher
	logger *slog.Logger
}

func newRegistryWatcher(root string, logger *slog.Logger) (*registryWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	rw := &registryWatcher{root: filepath.Clean(root), w: w, logger: logger}
	if err := rw.add(rw.root); err != nil {
		w.Close()
		return nil, err
	}
	return rw, nil
}

func (rw *registryWatcher) Close() error {
	return rw.w.Close()
}

// depth returns how many levels below the root path lies, or -1 when it is
// outside the root.
func (rw *registryWatcher) depth(path string) int {
	rel, err := filepath.Rel(rw.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return -1
	}
	if rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// add watches dir and its subdirectories down to maxDepth.
func (rw *registryWatcher) add(dir string) error {
	d := rw.depth(dir)
	if d < 0 || d > maxDepth {
		return nil
	}
	if err := rw.w.Add(dir); err != nil {
		rw.logger.Error("failed to watch directory", "path", dir, "error", err)
		return err
	}
	rw.logger.Debug("watching directory for changes", "path", dir)

	if d == maxDepth {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			rw.add(filepath.Join(dir, e.Name()))
		}
	}
	return nil
}

// handle reports whether ev should trigger a pass. New directories are
// added to the watch set.
func (rw *registryWatcher) handle(ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	if strings.HasPrefix(filepath.Base(ev.Name), ".") {
		return false
	}
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			rw.add(ev.Name)
		}
	}
	rw.logger.Debug("registry changed", "path", ev.Name, "op", ev.Op.String())
	return true
}
