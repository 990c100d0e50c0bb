package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"vestige/internal/config"
	"vestige/internal/errors"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize vestige configuration",
	Long:  "Creates a .vestige/ directory with default configuration in the current directory",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Force reinitialization (removes existing .vestige directory)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return errors.New(errors.InternalError, "failed to get current directory", err)
	}

	cfgDir := filepath.Join(cwd, ".vestige")
	if _, statErr := os.Stat(cfgDir); statErr == nil {
		if !initForce {
			// Idempotent behavior: already initialized is success (CI-friendly)
			fmt.Println("vestige already initialized.")
			fmt.Printf("Configuration at: %s\n", filepath.Join(cfgDir, "config.json"))
			fmt.Println("\nRun 'vestige init --force' to reinitialize.")
			return nil
		}
		if removeErr := os.RemoveAll(cfgDir); removeErr != nil {
			return errors.New(errors.InternalError, "failed to remove existing .vestige directory", removeErr)
		}
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(cwd); err != nil {
		return err
	}

	fmt.Println("vestige initialized successfully!")
	fmt.Printf("Configuration written to: %s\n", filepath.Join(cfgDir, "config.json"))
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Point an indexer at your project and export a snapshot")
	fmt.Println("  2. Run 'vestige analyze --snapshot <path>'")

	return nil
}
