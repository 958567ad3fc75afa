package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amishk599/cvnexus/internal/tui"
)

var loginKey string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store your model provider API key",
	Long:  "Saves the API key on this machine. Without --key an interactive masked prompt is shown.",
	RunE:  runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginKey, "key", "", "API key to store (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
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

	key := loginKey
	if key == "" {
		key, err = tui.RunKeyPrompt(providerLabel(cfg.Provider))
		if errors.Is(err, tui.ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
	}

	if err := sess.SignIn(key); err != nil {
		return userError(err)
	}
	logger.Info("api key saved", "provider", cfg.Provider, "ephemeral", ephemeral)
	fmt.Printf("API key %s saved.\n", sess.Masked())
	return nil
}
