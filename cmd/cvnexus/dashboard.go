package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amishk599/cvnexus/internal/input"
	"github.com/amishk599/cvnexus/internal/tui"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Analyze a CV interactively (TUI)",
	Long:  "Prompts for an API key if none is stored, then launches the split-pane analyzer.",
	RunE:  runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	logger := setupLogger(debug, cfg.Log.Level)

	sess, closeStore, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// The TUI owns the terminal from here on.
	analyzer := setupAnalyzer(cfg, silentLogger())
	composer := input.NewComposer()
	label := providerLabel(cfg.Provider)

	for {
		if !sess.SignedIn() {
			key, err := tui.RunKeyPrompt(label)
			if errors.Is(err, tui.ErrCancelled) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("key prompt: %w", err)
			}
			if err := sess.SignIn(key); err != nil {
				return userError(err)
			}
		}

		signedOut, err := tui.RunDashboard(sess, composer, analyzer, label)
		if err != nil {
			return fmt.Errorf("dashboard: %w", err)
		}
		if !signedOut {
			return nil
		}
		// else: loop → back to the key prompt
	}
}
