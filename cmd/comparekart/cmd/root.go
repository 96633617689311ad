// Package cmd implements the CLI commands for comparekart.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "comparekart",
	Short: "Compare offers for food, shopping, and rides across platforms",
	Long: "comparekart searches multiple third-party platforms for a product,\n" +
		"dish, or ride, normalizes their offers into a single pricing model,\n" +
		"and ranks them by price, delivery time, or relevance.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:8080", "API server URL")

	cobra.CheckErr(viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server")))

	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(versionCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
