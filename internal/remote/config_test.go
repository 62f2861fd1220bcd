package remote

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeServersFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "servers.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write servers file: %v", err)
	}
	return path
}

func TestLoadServers(t *testing.T) {
	path := writeServersFile(t, `
[[servers]]
name = "primary"
url = "https://context.example.com"
token_env = "CODY_TOKEN"
timeout_ms = 2500

[[servers]]
name = "backup"
url = "https://backup.example.com"
token = "literal-token"
`)

	file, err := LoadServers(path)
	if err != nil {
		t.Fatalf("LoadServers: %v", err)
	}
	if len(file.Servers) != 2 {
		t.Fatalf("expected 2 servers, got %d", len(file.Servers))
	}

	primary := file.Servers[0]
	if primary.Name != "primary" {
		t.Errorf("unexpected name %q", primary.Name)
	}
	if got := primary.GetTimeout(); got != 2500*time.Millisecond {
		t.Errorf("unexpected timeout %v", got)
	}

	backup := file.Servers[1]
	if got := backup.GetTimeout(); got != DefaultTimeout {
		t.Errorf("expected default timeout, got %v", got)
	}
	if got := backup.GetToken(); got != "literal-token" {
		t.Errorf("unexpected token %q", got)
	}
}

func TestLoadServersValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing name", "[[servers]]\nurl = \"https://x\"\n"},
		{"missing url", "[[servers]]\nname = \"x\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeServersFile(t, tt.content)
			if _, err := LoadServers(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestGetTokenPrefersEnv(t *testing.T) {
	t.Setenv("CODY_TEST_TOKEN", "from-env")
	s := &Server{Token: "literal", TokenEnv: "CODY_TEST_TOKEN"}
	if got := s.GetToken(); got != "from-env" {
		t.Errorf("expected env token, got %q", got)
	}

	s.TokenEnv = "CODY_TEST_TOKEN_UNSET"
	if got := s.GetToken(); got != "literal" {
		t.Errorf("expected literal fallback, got %q", got)
	}
}
