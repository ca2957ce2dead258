package branding

import "testing"

func TestEmbeddedIdentity(t *testing.T) {
	if got := CLIName(); got != "mcphub" {
		t.Errorf("CLIName() = %q, want %q", got, "mcphub")
	}
	if got := HomeDir(); got != ".mcphub" {
		t.Errorf("HomeDir() = %q, want %q", got, ".mcphub")
	}
}

func TestEnvVar(t *testing.T) {
	if got := EnvVar("root"); got != "MCPHUB_ROOT" {
		t.Errorf("EnvVar(root) = %q, want %q", got, "MCPHUB_ROOT")
	}
}
