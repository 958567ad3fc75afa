package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amishk599/cvnexus/internal/ai"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cvnexus.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Provider != ProviderGemini || cfg.Model != "gemini-2.5-flash" {
		t.Errorf("provider/model = %s/%s", cfg.Provider, cfg.Model)
	}
	if cfg.Temperature != 0.2 {
		t.Errorf("Temperature = %v, want 0.2", cfg.Temperature)
	}
	if cfg.Timeout != 0 {
		t.Errorf("Timeout = %v, want none", cfg.Timeout)
	}
	if cfg.Credential.DBPath == "" {
		t.Error("expected default db path")
	}
	if err := validate(cfg); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad_ProviderDefaultModels(t *testing.T) {
	tests := map[string]string{
		ProviderGemini: ai.DefaultGeminiModel,
		ProviderOpenAI: ai.DefaultOpenAIModel,
		ProviderClaude: ai.DefaultClaudeModel,
	}
	for provider, want := range tests {
		cfg, err := Load(writeConfig(t, "provider: "+provider+"\n"))
		if err != nil {
			t.Fatalf("Load(%s): %v", provider, err)
		}
		if cfg.Model != want {
			t.Errorf("%s model = %q, want %q", provider, cfg.Model, want)
		}
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "creds.db")
	path := writeConfig(t, `
provider: openai
temperature: 0
timeout: 45s
credential:
  db_path: `+dbPath+`
log:
  level: DEBUG
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("Provider = %q", cfg.Provider)
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want provider default", cfg.Model)
	}
	if cfg.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Temperature != 0 {
		t.Errorf("Temperature = %v, want explicit 0", cfg.Temperature)
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v, want 45s", cfg.Timeout)
	}
	if cfg.Credential.DBPath != dbPath {
		t.Errorf("DBPath = %q", cfg.Credential.DBPath)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_CVNEXUS_KEY", "AIza-from-env")
	path := writeConfig(t, "api_key: ${TEST_CVNEXUS_KEY}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "AIza-from-env" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.Provider != ProviderGemini || cfg.Temperature != 0.2 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "provider: [broken")

	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown provider", "provider: mistral\n"},
		{"temperature too high", "temperature: 3\n"},
		{"negative timeout", "timeout: -5s\n"},
		{"bad timeout", "timeout: soon\n"},
		{"bad log level", "log:\n  level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Fatal("Load: expected error")
			}
		})
	}
}
