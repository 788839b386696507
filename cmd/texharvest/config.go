// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/texharvest/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Initialize or display the configuration file",
	Long: `Config manages the texharvest configuration file. Use init to write a
default file and show to print the effective settings, including progress
state from previous runs.`,
}

// --- init subcommand ---

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE:  runConfigInit,
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath()
	if _, err := os.Stat(path); err == nil {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			fmt.Printf("Config file %s already exists (use --force to overwrite).\n", path)
			return nil
		}
	}

	if err := config.Default().Save(path); err != nil {
		return err
	}
	fmt.Printf("Wrote default config to %s.\n", path)
	return nil
}

// --- show subcommand ---

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as JSON",
	RunE:  runConfigShow,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, "Config file:", path)
	fmt.Println(string(data))
	return nil
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing config file")

	// Wire subcommands.
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	rootCmd.AddCommand(configCmd)
}
