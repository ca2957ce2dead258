package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcphub-labs/mcphub/internal/linker"
	"github.com/mcphub-labs/mcphub/internal/registry"
	"github.com/mcphub-labs/mcphub/internal/report"
)

const testHubConfig = `{
  "servers": {"categories": ["ai", "development"], "default_config": {"enabled": true}},
  "clis": {
    "supported": ["cursor", "claude-code"],
    "config_paths": {"cursor": "~/.cursor", "claude-code": "~/.claude"}
  }
}`

// newTestHub writes a hub under a fresh HOME and returns its root.
func newTestHub(t *testing.T) (root, home string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	root = filepath.Join(home, "hub")

	write := func(rel, content string) {
		path := filepath.Join(root, rel)
		os.MkdirAll(filepath.Dir(path), 0755)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("configs/config.json", testHubConfig)
	write("configs/env/env.example", "CURSOR_ENABLED=true\nCLAUDE_CODE_ENABLED=false\n")
	write("servers/ai/context7/config.json", `{"enabled": true}`)
	write("servers/ai/retired/config.json", `{"enabled": false}`)
	write("servers/development/git/README.md", "# git\n")
	return root, home
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores command flag variables; cobra keeps them between
// Execute calls on the shared command tree.
func resetFlags() {
	listCategory, listEnabledOnly, listJSON = "", false, false
	statusFormat = "text"
	syncParallel = 0
	attachCLIs = nil
	versionShort, versionJSON = false, false
	watchInterval, watchNoFS = 0, false
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func TestSetupConnectSync(t *testing.T) {
	root, home := newTestHub(t)

	out := mustExecute(t, "setup", "--root", root)
	if !strings.Contains(out, "Hub ready") {
		t.Errorf("setup output:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(root, "configs", "env", ".env")); err != nil {
		t.Fatal(".env not created from env.example")
	}

	out = mustExecute(t, "connect", "--root", root)
	if !strings.Contains(out, "[ OK ] cursor") || strings.Contains(out, "claude-code") {
		t.Errorf("connect output:\n%s", out)
	}
	link := linker.RootLinkPath(filepath.Join(home, ".cursor"))
	if resolved, err := filepath.EvalSymlinks(link); err != nil || !strings.HasSuffix(resolved, filepath.Join("hub", "servers")) {
		t.Errorf("root link %s resolves to %q (%v)", link, resolved, err)
	}

	out = mustExecute(t, "sync", "--root", root)
	if !strings.Contains(out, "[ OK ] cursor: 2 servers synced") {
		t.Errorf("sync output:\n%s", out)
	}

	data, err := os.ReadFile(filepath.Join(root, "logs", report.LatestFile))
	if err != nil {
		t.Fatal(err)
	}
	var rep report.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatal(err)
	}
	if rep.Summary.TotalServers != 3 || rep.Summary.EnabledServers != 2 || rep.Summary.SuccessfulSyncs != 1 {
		t.Errorf("summary = %+v", rep.Summary)
	}

	out = mustExecute(t, "status", "--root", root, "--format", "json")
	var snap map[string]any
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("status json: %v\n%s", err, out)
	}
	system := snap["system"].(map[string]any)
	if system["setup_complete"] != true {
		t.Errorf("system = %v", system)
	}
}

func TestConnect_UnknownCLI(t *testing.T) {
	root, _ := newTestHub(t)
	mustExecute(t, "setup", "--root", root)

	_, err := execute(t, "connect", "--root", root, "notepad")
	if err == nil || !strings.Contains(err.Error(), "unknown CLI") {
		t.Errorf("expected unknown CLI error, got %v", err)
	}
}

func TestSync_MissingConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	_, err := execute(t, "sync", "--root", filepath.Join(home, "nowhere"))
	if err == nil || !strings.Contains(err.Error(), "config") {
		t.Errorf("expected config error, got %v", err)
	}
}

func TestListAndAttach(t *testing.T) {
	root, _ := newTestHub(t)
	mustExecute(t, "setup", "--root", root)

	out := mustExecute(t, "list", "--root", root, "--enabled")
	if !strings.Contains(out, "context7") || strings.Contains(out, "retired") {
		t.Errorf("list output:\n%s", out)
	}

	out = mustExecute(t, "list", "--root", root, "--json", "git")
	var entries []listEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil || len(entries) != 1 {
		t.Fatalf("list json = %s (%v)", out, err)
	}

	out = mustExecute(t, "attach", "--root", root, "ai/context7")
	if strings.Count(out, "[ OK ]") != 2 {
		t.Errorf("attach output:\n%s", out)
	}
	out = mustExecute(t, "attach", "--root", root, "ai/context7")
	if strings.Count(out, "[SKIP]") != 2 {
		t.Errorf("second attach should skip:\n%s", out)
	}

	if _, err := execute(t, "attach", "--root", root, "ai/missing"); err == nil {
		t.Error("expected error for unknown server")
	}
	if _, err := execute(t, "attach", "--root", root, "not-an-id"); err == nil {
		t.Error("expected error for malformed id")
	}
}

func TestMatchesItem(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		category string
		enabled  bool
		expected bool
	}{
		{"no filters", "", "", false, true},
		{"name substring", "ctx", "", false, false},
		{"id substring", "ai/con", "", false, true},
		{"case insensitive", "CONTEXT", "", false, true},
		{"category match", "", "ai", false, true},
		{"category mismatch", "", "development", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := itemForTest("ai", "context7", true)
			if got := matchesItem(it, tt.query, tt.category, tt.enabled); got != tt.expected {
				t.Errorf("matchesItem(%q, %q) = %v, want %v", tt.query, tt.category, got, tt.expected)
			}
		})
	}

	if matchesItem(itemForTest("ai", "retired", false), "", "", true) {
		t.Error("disabled item should not match --enabled")
	}
}

func itemForTest(category, name string, enabled bool) registry.Item {
	return registry.Item{Category: category, Name: name, Enabled: enabled}
}

func TestVersion(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	buildVersion = "1.2.3"
	out := mustExecute(t, "version", "--short")
	if strings.TrimSpace(out) != "1.2.3" {
		t.Errorf("version --short = %q", out)
	}
}

func TestNewLogger(t *testing.T) {
	if _, err := newLogger(&bytes.Buffer{}, "debug", "json"); err != nil {
		t.Error(err)
	}
	if _, err := newLogger(&bytes.Buffer{}, "loud", "text"); err == nil {
		t.Error("expected error for invalid level")
	}
	if _, err := newLogger(&bytes.Buffer{}, "info", "xml"); err == nil {
		t.Error("expected error for invalid format")
	}
}
