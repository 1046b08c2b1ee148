// Package commands implements the gxpdf CLI commands.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version is the application version (set at build time).
	Version = "dev"
	// GitCommit is the git commit hash (set at build time).
	GitCommit = "unknown"
	// BuildDate is the build date (set at build time).
	BuildDate = "unknown"

	// Global flags.
	outputFormat string
	verbose      bool
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "gxpdf",
	Short: "GxPDF - table extraction for paginated documents",
	Long: `GxPDF locates table regions on PDF pages and reconstructs their cells.

Features:
  - Stream extraction (column inference from text geometry)
  - Spreadsheet extraction (ruling-grid cell reconstruction)
  - Nurminen-style table-area detection (raster rulings + text-edge alignment)
  - Text extraction with position information

Examples:
  gxpdf tables invoice.pdf --format csv
  gxpdf info document.pdf
  gxpdf text document.pdf --page 1

Documentation: https://github.com/coregx/gxpdf`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags.
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text, json, csv")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	// Add subcommands.
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(textCmd)
}

// printVerbosef prints a message if verbose mode is enabled.
func printVerbosef(format string, args ...interface{}) {
	if verbose {
		fmt.Printf(format+"\n", args...)
	}
}
