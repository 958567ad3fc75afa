package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored API key",
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
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

	if err := sess.SignOut(); err != nil {
		return err
	}
	fmt.Println("Signed out. The stored API key was removed.")
	return nil
}
