package hub

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeEnv(t *testing.T, layout Layout, content string) {
	t.Helper()
	os.MkdirAll(filepath.Dir(layout.EnvPath()), 0700)
	if err := os.WriteFile(layout.EnvPath(), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadEnv_File(t *testing.T) {
	layout := Layout{Root: t.TempDir()}
	writeEnv(t, layout, "CURSOR_ENABLED=true\nVSCODE_ENABLED=false\nCLAUDE_CODE_ENABLED=yes\nAUTO_SYNC=1\nSYNC_INTERVAL=60000\n")

	env, err := LoadEnv(layout)
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if !env.Loaded() {
		t.Error("Loaded() = false")
	}
	if !env.TargetEnabled("cursor") {
		t.Error("cursor should be enabled")
	}
	if env.TargetEnabled("vscode") {
		t.Error("vscode should be disabled")
	}
	if !env.TargetEnabled("claude-code") {
		t.Error("claude-code should match CLAUDE_CODE_ENABLED")
	}
	if env.TargetEnabled("windsurf") {
		t.Error("unset flag should be disabled")
	}
	if !env.AutoSync() {
		t.Error("AUTO_SYNC=1 should be on")
	}
	if env.SyncInterval() != time.Minute {
		t.Errorf("SyncInterval = %v", env.SyncInterval())
	}
}

func TestLoadEnv_ProcessOverridesFile(t *testing.T) {
	layout := Layout{Root: t.TempDir()}
	writeEnv(t, layout, "CURSOR_ENABLED=false\n")
	t.Setenv("CURSOR_ENABLED", "true")

	env, err := LoadEnv(layout)
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if !env.TargetEnabled("cursor") {
		t.Error("process environment should override the file")
	}
}

func TestLoadEnv_MissingFile(t *testing.T) {
	env, err := LoadEnv(Layout{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if env.Loaded() {
		t.Error("Loaded() should be false without a file")
	}
	if env.SyncInterval() != DefaultSyncInterval {
		t.Errorf("SyncInterval = %v, want default", env.SyncInterval())
	}
	if env.SyncIntervalRaw() != "300000" {
		t.Errorf("SyncIntervalRaw = %q", env.SyncIntervalRaw())
	}
}

func TestEnv_Truthy(t *testing.T) {
	tests := map[string]bool{
		"true": true, "TRUE": true, "1": true, "yes": true, "on": true,
		"false": false, "0": false, "": false, "enabled": false,
	}
	for val, want := range tests {
		env := NewEnv(map[string]string{"CURSOR_ENABLED": val})
		if got := env.TargetEnabled("cursor"); got != want {
			t.Errorf("CURSOR_ENABLED=%q: got %v, want %v", val, got, want)
		}
	}
}

func TestEnv_InvalidIntervalFallsBack(t *testing.T) {
	env := NewEnv(map[string]string{"SYNC_INTERVAL": "soon"})
	if env.SyncInterval() != DefaultSyncInterval {
		t.Errorf("SyncInterval = %v", env.SyncInterval())
	}
}

func TestEnabledKey(t *testing.T) {
	if got := EnabledKey("cursor"); got != "CURSOR_ENABLED" {
		t.Errorf("EnabledKey = %q", got)
	}
}
