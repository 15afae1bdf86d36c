package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nordscreen",
	Short: "Fundamental stock screener for the Nordic exchanges",
	Long: `nordscreen screens companies listed in Oslo, Stockholm and
Copenhagen against a set of fundamental criteria: valuation relative to
industry peers, return on invested capital, multi-year growth
consistency, leverage and cash generation.

Usage:
  go run ./cmd/nordscreen [command]

Examples:
  go run ./cmd/nordscreen screen
  go run ./cmd/nordscreen screen --refresh --top 20
  go run ./cmd/nordscreen universe
  go run ./cmd/nordscreen api
  go run ./cmd/nordscreen schedule`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
