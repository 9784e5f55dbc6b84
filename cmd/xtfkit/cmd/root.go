/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/oceanscan/xtfkit/pkg/config"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "xtfkit",
	Short: "xtfkit - XTF sonar file toolkit",
	Long: `xtfkit reads XTF (eXtended Triton Format) sonar recordings and
converts them: channel-subset copies back to XTF, and per-channel
exports to SEG-Y rev 1.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")

		var cfg *config.Config
		switch {
		case configPath != "":
			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg = loaded
		case config.ConfigExists(config.GetDefaultConfigPath()):
			loaded, err := config.LoadConfig(config.GetDefaultConfigPath())
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg = loaded
		default:
			cfg = config.DefaultConfig()
		}

		// Store in command context
		cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
		return nil
	},
}

type contextKey string

const configKey contextKey = "config"

// configFromContext returns the loaded configuration, falling back to
// defaults when the pre-run hook did not run (tests).
func configFromContext(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(configKey).(*config.Config); ok {
		return cfg
	}
	return config.DefaultConfig()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global config file flag
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a yaml config file")
}
