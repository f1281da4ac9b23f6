// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the docmill CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the docmill CLI.
var rootCmd = &cobra.Command{
	Use:   "docmill",
	Short: "Batch PDF conversion with automatic OCR fallback",
	Long: `docmill converts a folder of PDF documents to Markdown in one batch run.
A fast structural extraction path is tried first for every file; results that
look untrustworthy (near-empty output from a substantial source) are
reprocessed once through a slower OCR path.

Individual file failures are reported in the batch summary, never fatal.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./docmill.yaml or ~/.config/docmill/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("docmill")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "docmill"))
		}
	}

	viper.SetEnvPrefix("DOCMILL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
