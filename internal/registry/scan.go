package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcphub-labs/mcphub/internal/hub"
	"github.com/spf13/afero"
)

// ErrRegistryMissing is wrapped in the ConfigError returned when the
// registry root does not exist.
var ErrRegistryMissing = errors.New("registry root does not exist")

// ScanResult is the outcome of one registry scan.
type ScanResult struct {
	Items    []Item
	Warnings []string
}

// Enabled returns the enabled items in scan order.
func (r *ScanResult) Enabled() []Item {
	var out []Item
	for _, it := range r.Items {
		if it.Enabled {
			out = append(out, it)
		}
	}
	return out
}

// Scan lists every item under root for the given categories. Categories
// whose directory is missing are skipped. Non-directory entries, hidden
// entries and names that are not valid slugs are skipped; the latter two
// produce a warning. An unparseable config.json produces a warning and the
// item falls back to defaults.
func Scan(fs afero.Fs, root string, categories []string, defaults map[string]any, logger *slog.Logger) (*ScanResult, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if ok, err := afero.DirExists(fs, root); err != nil || !ok {
		if err == nil {
			err = ErrRegistryMissing
		}
		return nil, &hub.ConfigError{Op: "scanning", Path: root, Err: err}
	}

	result := &ScanResult{Items: []Item{}}
	warn := func(msg string, args ...any) {
		text := fmt.Sprintf(msg, args...)
		result.Warnings = append(result.Warnings, text)
		logger.Warn(text)
	}

	for _, cat := range categories {
		catDir := filepath.Join(root, cat)
		entries, err := afero.ReadDir(fs, catDir)
		if err != nil {
			if !os.IsNotExist(err) {
				warn("skipping category %s: %v", cat, err)
			}
			continue
		}

		for _, entry := range entries {
			name := entry.Name()
			path := filepath.Join(catDir, name)

			if !isDir(fs, path, entry) {
				continue
			}
			if strings.HasPrefix(name, ".") {
				continue
			}
			if !ValidName(name) {
				warn("skipping %s/%s: name must match [a-z0-9-]+", cat, name)
				continue
			}

			item := Item{Category: cat, Name: name, Path: path}

			overlay, present, err := readItemConfig(fs, path)
			item.HasConfig = present
			if err != nil {
				warn("error reading %s of %s/%s, using defaults: %v", ConfigFileName, cat, name, err)
				overlay = nil
			}
			item.Config = mergeConfig(defaults, overlay)
			item.Enabled = enabledFrom(item.Config)

			logger.Debug("discovered server", "item", item.ID(), "enabled", item.Enabled)
			result.Items = append(result.Items, item)
		}
	}

	return result, nil
}

// isDir follows symlinked entries so a linked item directory still counts.
func isDir(fs afero.Fs, path string, entry os.FileInfo) bool {
	if entry.Mode()&os.ModeSymlink == 0 {
		return entry.IsDir()
	}
	info, err := fs.Stat(path)
	return err == nil && info.IsDir()
}

// readItemConfig returns the parsed config.json overlay, whether the file
// exists, and a parse error if it exists but is not a JSON object.
func readItemConfig(fs afero.Fs, itemDir string) (map[string]any, bool, error) {
	data, err := afero.ReadFile(fs, filepath.Join(itemDir, ConfigFileName))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, true, err
	}

	var overlay map[string]any
	if err := json.Unmarshal(data, &overlay); err != nil {
		return nil, true, err
	}
	return overlay, true, nil
}
