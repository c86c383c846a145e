// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the litharvest CLI.
// Each provider is a subcommand (crossref, pubmed, springer, wiley); "all"
// runs the four of them one after another.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/litharvest/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets resolves API keys at startup from the environment, .env,
// and .secrets/.
var loadedSecrets *secrets.Store

// logger is built in PersistentPreRunE from --verbose.
var logger = zap.NewNop()

// rootCmd is the base command for the litharvest CLI.
var rootCmd = &cobra.Command{
	Use:   "litharvest",
	Short: "Weekly bibliographic metadata harvester",
	Long: `litharvest queries Crossref, PubMed, Springer Nature and Wiley Online
Library for every keyword in a keyword file, restricted to publications dated
between Monday of the current week and today, and writes one normalized file
per provider.

Each provider is a subcommand; "all" runs the four providers in sequence. A
keyword that fails is logged and skipped; the run carries on with the next.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := newLogger(verbose)
		if err != nil {
			return err
		}
		logger = l

		envFile, _ := cmd.Flags().GetString("env-file")
		secretsDir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Open(envFile, secretsDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./litharvest.yaml or ~/.config/litharvest/litharvest.yaml)")
	pf.String("env-file", ".env", "dotenv file loaded into the environment at startup")
	pf.String("secrets-dir", ".secrets/", "directory of key files used when a key is not in the environment")
	pf.BoolP("verbose", "v", false, "log request details")
	pf.String("keywords", "", "keyword file, one term per line (default keywords.txt)")
	pf.String("output-dir", "", "directory output files are written into (default .)")
	pf.String("missing-marker", "", "text written for a missing field (default N/A)")

	_ = viper.BindPFlag("keywords_file", pf.Lookup("keywords"))
	_ = viper.BindPFlag("output_dir", pf.Lookup("output-dir"))
	_ = viper.BindPFlag("missing_marker", pf.Lookup("missing-marker"))

	setDefaults(viper.GetViper())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("litharvest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "litharvest"))
		}
	}

	viper.SetEnvPrefix("LITHARVEST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
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
