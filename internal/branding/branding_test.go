package branding

import "testing"

func TestEmbeddedValues(t *testing.T) {
	if got := CLIName(); got != "bx" {
		t.Errorf("CLIName() = %q, want %q", got, "bx")
	}
	if got := ProjectDir(); got != ".buildx" {
		t.Errorf("ProjectDir() = %q, want %q", got, ".buildx")
	}
}

func TestEnvVar(t *testing.T) {
	if got := EnvVar("log_level"); got != "BX_LOG_LEVEL" {
		t.Errorf("EnvVar(log_level) = %q, want %q", got, "BX_LOG_LEVEL")
	}
}
