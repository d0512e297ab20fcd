// Package cli implements the sparktel command-line tool: developer
// utilities for inspecting canonicalized plans and relaying captured
// telemetry batches.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/lakeroad/sparktel/pkg/config"
)

var rootCmd = &cobra.Command{
	Use:   "sparktel",
	Short: "Telemetry tooling for the Spark connector",
	Long: `sparktel inspects and relays Spark connector telemetry.

It canonicalizes query-plan dumps into the deterministic document form the
connector emits, and replays captured event batches to a telemetry
endpoint.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: built-in defaults plus SPARKTEL_* env)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(canonicalizeCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	viper.SetEnvPrefix("SPARKTEL")
	viper.AutomaticEnv()
}

// loadConfig resolves the effective configuration for commands that need a
// transport. The config path comes from viper, so --config and
// SPARKTEL_CONFIG are interchangeable.
func loadConfig() (*config.Config, error) {
	if path := viper.GetString("config"); path != "" {
		return config.LoadFile(path)
	}
	cfg := config.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the CLI logger. Verbose (--verbose or
// SPARKTEL_VERBOSE) switches to development output.
func newLogger() (*zap.Logger, error) {
	if viper.GetBool("verbose") {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func fail(err error) error {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}
