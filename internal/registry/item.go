package registry

import (
	"regexp"
	"strings"
)

// ConfigFileName is the optional per-item configuration overlay.
const ConfigFileName = "config.json"

var namePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidName reports whether name is a valid item slug: lowercase letters,
// digits and hyphens.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Item is one MCP server definition found in the registry.
type Item struct {
	Category  string
	Name      string
	Path      string         // <registry>/<category>/<name>
	Config    map[string]any // defaults overlaid by the item's config.json
	Enabled   bool
	HasConfig bool // config.json present (parseable or not)
}

// ID returns "<category>/<name>".
func (i Item) ID() string {
	return i.Category + "/" + i.Name
}

// ParseID splits "<category>/<name>" and validates both parts.
func ParseID(id string) (category, name string, ok bool) {
	category, name, found := strings.Cut(id, "/")
	if !found || !ValidName(category) || !ValidName(name) {
		return "", "", false
	}
	return category, name, true
}

// mergeConfig returns a shallow copy of defaults with overlay's keys winning.
func mergeConfig(defaults, overlay map[string]any) map[string]any {
	merged := make(map[string]any, len(defaults)+len(overlay))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return merged
}

// enabledFrom derives the enabled flag from a merged config. Absent means
// enabled.
func enabledFrom(cfg map[string]any) bool {
	switch v := cfg["enabled"].(type) {
	case nil:
		return true
	case bool:
		return v
	case string:
		return !strings.EqualFold(strings.TrimSpace(v), "false")
	default:
		return true
	}
}
