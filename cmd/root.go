// Package cmd provides the command-line interface for the Caxton engine
// with configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, --log-level) - highest priority
//	2. CAXTON_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (CAXTON_SERVER_PORT, etc.)
//	4. Configuration files (.caxton.yml) - lowest priority
//
// Environment Variables:
//
//	CAXTON_CONFIG_FILE: Path to custom configuration file
//	CAXTON_SERVER_PORT: Override event server port
//	CAXTON_ASSETS_ENDPOINT: Override asset-processing service endpoint
//	And so on following the CAXTON_<SECTION>_<OPTION> pattern
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/caxton/internal/app"
	"github.com/conneroisu/caxton/internal/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "caxton",
	Short: "A document transformation and editorial workflow engine",
	Long: `Caxton is a document transformation and editorial workflow engine.
It converts externally-sourced articles into structured living documents
bound to immutable designs, validates per-document metadata against
pluggable schemas, and tracks editorial task workflows that gate publishing.

Quick Start:
  caxton designs                  List loaded designs
  caxton schemas                  List loaded metadata schemas
  caxton import article.json      Import an article into a channel
  caxton tasks status <doc-id>    Show task workflow state
  caxton serve                    Start the event server

Documentation: https://github.com/conneroisu/caxton`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .caxton.yml, can also use CAXTON_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. CAXTON_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .caxton.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("CAXTON_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".caxton")
	}

	viper.SetEnvPrefix("CAXTON")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Missing config files fall through to defaults without failing
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadApp builds the wired engine from the resolved configuration. Every
// subcommand that touches the engine goes through here.
func loadApp() (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	return app.New(cfg)
}
