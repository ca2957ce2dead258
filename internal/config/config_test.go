package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestSetAndGet(t *testing.T) {
	t.Cleanup(viper.Reset)
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	Load()
	if err := Set(KeyRoot, "/srv/hub"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got := Get(KeyRoot); got != "/srv/hub" {
		t.Errorf("Get(root) = %q, want %q", got, "/srv/hub")
	}

	if _, err := os.Stat(filepath.Join(tmp, ".mcphub", "config.yaml")); err != nil {
		t.Errorf("config file not written: %v", err)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MCPHUB_LOG_LEVEL", "debug")

	Load()
	if got := Get(KeyLogLevel); got != "debug" {
		t.Errorf("Get(log_level) = %q, want %q", got, "debug")
	}
	if got := GetInt(KeyParallel); got != 1 {
		t.Errorf("GetInt(parallel) = %d, want 1", got)
	}
}
