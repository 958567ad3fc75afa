package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amishk599/cvnexus/internal/ai"
)

// Supported provider names.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
)

const (
	defaultTemperature   = ai.DefaultTemperature
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
)

var defaultModels = map[string]string{
	ProviderGemini: ai.DefaultGeminiModel,
	ProviderOpenAI: ai.DefaultOpenAIModel,
	ProviderClaude: ai.DefaultClaudeModel,
}

// Config is the root configuration for cvnexus. Every field has a usable
// default, so a missing config file is not an error.
type Config struct {
	Provider    string
	Model       string
	BaseURL     string        // empty selects the provider SDK default
	Temperature float64       // sampling temperature sent with every request
	Timeout     time.Duration // zero means no local timeout
	APIKey      string        // fallback credential, used only when none is stored
	Credential  CredentialConfig
	Log         LogConfig
}

// CredentialConfig locates the local credential database.
type CredentialConfig struct {
	DBPath string
}

// LogConfig controls the diagnostic logger.
type LogConfig struct {
	Level string // "debug", "info", "warn" or "error"
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	BaseURL     string        `yaml:"base_url"`
	Temperature *float64      `yaml:"temperature"`
	Timeout     string        `yaml:"timeout"`
	APIKey      string        `yaml:"api_key"`
	Credential  rawCredential `yaml:"credential"`
	Log         rawLog        `yaml:"log"`
}

type rawCredential struct {
	DBPath string `yaml:"db_path"`
}

type rawLog struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Provider:    ProviderGemini,
		Model:       defaultModels[ProviderGemini],
		Temperature: defaultTemperature,
		Credential:  CredentialConfig{DBPath: DefaultDBPath()},
		Log:         LogConfig{Level: "info"},
	}
}

// DefaultDBPath returns the credential database location under the user's
// config directory.
func DefaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".cvnexus", "cvnexus.db")
	}
	return filepath.Join(dir, "cvnexus", "cvnexus.db")
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()

	if raw.Provider != "" {
		cfg.Provider = strings.ToLower(raw.Provider)
	}
	cfg.Model = raw.Model
	if cfg.Model == "" {
		cfg.Model = defaultModels[cfg.Provider]
	}

	cfg.BaseURL = raw.BaseURL
	if cfg.BaseURL == "" && cfg.Provider == ProviderOpenAI {
		cfg.BaseURL = defaultOpenAIBaseURL
	}

	if raw.Temperature != nil {
		cfg.Temperature = *raw.Temperature
	}

	if raw.Timeout != "" {
		cfg.Timeout, err = time.ParseDuration(raw.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse timeout %q: %w", raw.Timeout, err)
		}
	}

	cfg.APIKey = strings.TrimSpace(raw.APIKey)

	if raw.Credential.DBPath != "" {
		cfg.Credential.DBPath = raw.Credential.DBPath
	}
	if raw.Log.Level != "" {
		cfg.Log.Level = strings.ToLower(raw.Log.Level)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if _, ok := defaultModels[cfg.Provider]; !ok {
		return fmt.Errorf("provider must be one of gemini, openai, claude, got %q", cfg.Provider)
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %v", cfg.Temperature)
	}
	if cfg.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %v", cfg.Timeout)
	}
	if cfg.Credential.DBPath == "" {
		return fmt.Errorf("credential.db_path must not be empty")
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", cfg.Log.Level)
	}
	return nil
}
