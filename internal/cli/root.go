// Package cli provides the Cobra command structure for infrared.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/infrared/internal/logging"

	// Register the parser dialects.
	_ "github.com/yaklabco/infrared/pkg/parser/goldmark"
	_ "github.com/yaklabco/infrared/pkg/parser/treesitter"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root infrared command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "infrared",
		Short: "Parse source files into cached syntax trees",
		Long: `infrared parses source files into location-annotated syntax trees and
writes each tree to a cache directory that mirrors the source layout.

JavaScript, TypeScript, Python and Go are parsed with tree-sitter; Markdown
and GitHub Flavored Markdown with goldmark. Files that cannot be read,
parsed or cached are reported with a diagnostic that points at the
offending line and column.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := logging.LevelFromEnv(os.Getenv, "info")
			if debug {
				level = "debug"
			}
			logging.SetLevel(level)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newDialectsCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}
