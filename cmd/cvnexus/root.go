package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/MatusOllah/slogcolor"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/amishk599/cvnexus/internal/ai"
	"github.com/amishk599/cvnexus/internal/config"
	"github.com/amishk599/cvnexus/internal/model"
	"github.com/amishk599/cvnexus/internal/session"
	"github.com/amishk599/cvnexus/internal/store"
)

const defaultConfigPath = "cvnexus.yaml"

var (
	cfgPath   string
	debug     bool
	ephemeral bool
)

var rootCmd = &cobra.Command{
	Use:   "cvnexus",
	Short: "AI resume analyzer in your terminal",
	Long: "cvnexus scores a CV for ATS compatibility, finds skill gaps, runs a SWOT analysis " +
		"and suggests rewrites, using your own model provider API key.",
	// Default to the dashboard so `cvnexus` with no args opens the TUI.
	RunE:         runDashboard,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: CVNEXUS_CONFIG env var or ./cvnexus.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep the API key in memory only for this run")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > CVNEXUS_CONFIG env var > "./cvnexus.yaml".
// Only an explicitly named file has to exist.
func loadConfig(path string) (*config.Config, error) {
	explicit := true
	if path == "" {
		if env := os.Getenv("CVNEXUS_CONFIG"); env != "" {
			path = env
		} else {
			path = defaultConfigPath
			explicit = false
		}
	}

	cfg, err := config.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func setupLogger(dbg bool, level string) *slog.Logger {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel = slog.LevelInfo
	}
	if dbg {
		logLevel = slog.LevelDebug
	}

	opts := slogcolor.DefaultOptions
	opts.Level = logLevel
	opts.MsgColor = color.New(color.FgMagenta)
	opts.SrcFileMode = slogcolor.Nop
	return slog.New(slogcolor.NewHandler(os.Stderr, opts))
}

// silentLogger is used while a TUI owns the terminal; any log output would
// corrupt the display.
func silentLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// openSession opens the credential store and the session on top of it. The
// returned close func releases the store.
func openSession(cfg *config.Config, logger *slog.Logger) (*session.Session, func(), error) {
	var (
		st      model.CredentialStore
		closeFn = func() {}
	)
	if ephemeral {
		logger.Debug("ephemeral mode, credential kept in memory only")
		st = store.NewMemoryStore()
	} else {
		sqlStore, err := store.NewSQLiteStore(cfg.Credential.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open credential store: %w", err)
		}
		logger.Debug("credential store opened", "path", cfg.Credential.DBPath)
		st = sqlStore
		closeFn = func() { sqlStore.Close() }
	}

	fallback := cfg.APIKey
	if fallback == "" {
		fallback = os.Getenv("CVNEXUS_API_KEY")
	}

	sess, err := session.Open(st, fallback)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return sess, closeFn, nil
}

func setupProvider(cfg *config.Config) ai.LLMProvider {
	// No client timeout: the optional limit is applied per analysis.
	httpClient := &http.Client{}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return ai.NewOpenAIProvider(cfg.BaseURL, cfg.Model, cfg.Temperature, httpClient)
	case config.ProviderClaude:
		return ai.NewClaudeProvider(cfg.BaseURL, cfg.Model, cfg.Temperature, httpClient)
	default:
		return ai.NewGeminiProvider(cfg.BaseURL, cfg.Model, cfg.Temperature, httpClient)
	}
}

func setupAnalyzer(cfg *config.Config, logger *slog.Logger) *ai.CVAnalyzer {
	provider := setupProvider(cfg)
	logger.Debug("analyzer configured",
		"provider", provider.Name(),
		"model", cfg.Model,
		"temperature", cfg.Temperature,
		"timeout", cfg.Timeout.String(),
	)
	return ai.NewCVAnalyzer(provider, cfg.Timeout, logger)
}

// providerLabel is the provider name as shown to users.
func providerLabel(provider string) string {
	switch provider {
	case config.ProviderOpenAI:
		return "OpenAI"
	case config.ProviderClaude:
		return "Anthropic"
	default:
		return "Gemini"
	}
}

// userError turns an analysis error into the message printed by cobra.
func userError(err error) error {
	return errors.New(strings.TrimSpace(model.UserMessage(err)))
}
