package hub

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const validConfig = `{
  "servers": {"categories": ["ai", "development"], "default_config": {"enabled": true, "timeout": 30}},
  "clis": {"supported": ["cursor", "claude-code"], "config_paths": {"cursor": "~/.cursor", "claude-code": "~/.claude"}}
}`

func TestParseConfig_Valid(t *testing.T) {
	cfg, err := ParseConfig("config.json", []byte(validConfig))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if len(cfg.Servers.Categories) != 2 || cfg.Servers.Categories[1] != "development" {
		t.Errorf("categories = %v", cfg.Servers.Categories)
	}
	if cfg.Servers.DefaultConfig["timeout"] != float64(30) {
		t.Errorf("default_config = %v", cfg.Servers.DefaultConfig)
	}
	if got := cfg.ConfigPath("claude-code"); got != "~/.claude" {
		t.Errorf("ConfigPath(claude-code) = %q", got)
	}
}

func TestParseConfig_DefaultConfigOptional(t *testing.T) {
	cfg, err := ParseConfig("config.json", []byte(`{
  "servers": {"categories": []},
  "clis": {"supported": [], "config_paths": {}}
}`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Servers.DefaultConfig == nil {
		t.Error("DefaultConfig should be an empty map, not nil")
	}
}

func TestParseConfig_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"servers":`},
		{"missing clis", `{"servers": {"categories": []}}`},
		{"categories wrong type", `{"servers": {"categories": "ai"}, "clis": {"supported": [], "config_paths": {}}}`},
		{"bad category name", `{"servers": {"categories": ["AI Tools"]}, "clis": {"supported": [], "config_paths": {}}}`},
		{"supported without path", `{"servers": {"categories": []}, "clis": {"supported": ["cursor"], "config_paths": {}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig("config.json", []byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !IsConfigError(err) {
				t.Errorf("expected *ConfigError, got %T: %v", err, err)
			}
		})
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(Layout{Root: t.TempDir()})
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped ErrNotExist, got %v", err)
	}
}

func TestLoadConfig_FromDisk(t *testing.T) {
	layout := Layout{Root: t.TempDir()}
	os.MkdirAll(filepath.Dir(layout.ConfigPath()), 0755)
	if err := os.WriteFile(layout.ConfigPath(), []byte(validConfig), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(layout)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(cfg.CLIs.Supported) != 2 {
		t.Errorf("supported = %v", cfg.CLIs.Supported)
	}
}

func TestLayoutPaths(t *testing.T) {
	l := Layout{Root: "/hub"}
	tests := map[string]string{
		l.ConfigPath():      "/hub/configs/config.json",
		l.EnvPath():         "/hub/configs/env/.env",
		l.EnvExamplePath():  "/hub/configs/env/env.example",
		l.RegistryRoot():    "/hub/servers",
		l.ProfilesDir():     "/hub/cli-profiles",
		l.LogsDir():         "/hub/logs",
		l.SetupMarkerPath(): "/hub/.setup-complete",
	}
	for got, want := range tests {
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
}

func TestExpandHome(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"~/.cursor", "/home/dev/.cursor"},
		{"~", "/home/dev"},
		{"/opt/vscode", "/opt/vscode"},
		{"relative/~", "relative/~"},
	}
	for _, tt := range tests {
		if got := ExpandHome(tt.in, "/home/dev"); got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
