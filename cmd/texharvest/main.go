// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the texharvest CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/texharvest/internal/config"
	"github.com/pdiddy/texharvest/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// scholarAPIKey resolves the Semantic Scholar API key; a flag override
// wins over the loaded secret.
func scholarAPIKey(override string) string {
	return secrets.APIKey(loadedSecrets, secrets.SemanticScholarKey, override)
}

// rootCmd is the base command for the texharvest CLI.
var rootCmd = &cobra.Command{
	Use:   "texharvest",
	Short: "Batch harvester for arXiv LaTeX sources and paper metadata",
	Long: `texharvest downloads the source archives of arXiv papers, keeps the TeX
and BibTeX files of every submitted version, and collects metadata and
reference lists from Semantic Scholar.

The run subcommand processes the paper list (or identifier range) from the
configuration file, checkpointing progress and recording per-paper metrics
plus RAM/disk usage for the whole batch. fetch, versions and refs operate
on individual papers for spot checks.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(secrets.DefaultDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./texharvest.json or ~/.config/texharvest/texharvest.json)")
}

func initConfig() {
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("texharvest")
		viper.SetConfigType("json")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "texharvest"))
		}
	}

	viper.SetEnvPrefix("TEXHARVEST")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// configPath resolves the configuration file for this invocation: the
// --config flag, then the file viper discovered, then the default path.
func configPath() string {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		return cfgFile
	}
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return config.DefaultPath
}

// loadConfig reads the resolved configuration, falling back to defaults
// when no file exists. It never creates the file; run and config init
// do that.
func loadConfig() (*config.Config, string, error) {
	path := configPath()
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, path, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), path, nil
	}
	return nil, path, err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
