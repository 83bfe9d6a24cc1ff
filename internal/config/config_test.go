package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFillsDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"provider": {"name": "openai", "model": "gpt-4o-mini"},
		"agents": [{"key": "worker", "tools": {"planning": true, "meta": true}}]
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Flow.Primary != "worker" {
		t.Errorf("Flow.Primary = %q, want first agent key", cfg.Flow.Primary)
	}
	if cfg.Workspace != "." {
		t.Errorf("Workspace = %q, want default .", cfg.Workspace)
	}
	if cfg.Sandbox != "auto" {
		t.Errorf("Sandbox = %q, want default auto", cfg.Sandbox)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no provider", `{"agents": [{"key": "a", "tools": {}}]}`},
		{"no agents", `{"provider": {"name": "openai"}}`},
		{"empty agents list", `{"provider": {"name": "openai"}, "agents": []}`},
		{"duplicate keys", `{"provider": {"name": "openai"}, "agents": [{"key": "a", "tools": {}}, {"key": "a", "tools": {}}]}`},
		{"unknown primary", `{"provider": {"name": "openai"}, "agents": [{"key": "a", "tools": {}}], "flow": {"primary": "b"}}`},
		{"unknown executor", `{"provider": {"name": "openai"}, "agents": [{"key": "a", "tools": {}}], "flow": {"primary": "a", "executors": ["ghost"]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:8080/v1")

	cfg := Default()
	cfg.ApplyEnv()
	if cfg.Provider.APIKey != "sk-test" {
		t.Errorf("APIKey = %q, want env value", cfg.Provider.APIKey)
	}
	if cfg.Provider.BaseURL != "http://localhost:8080/v1" {
		t.Errorf("BaseURL = %q, want env value", cfg.Provider.BaseURL)
	}

	// A configured key is never overwritten.
	cfg2 := Default()
	cfg2.Provider.APIKey = "configured"
	cfg2.ApplyEnv()
	if cfg2.Provider.APIKey != "configured" {
		t.Errorf("APIKey = %q, want configured value kept", cfg2.Provider.APIKey)
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}
