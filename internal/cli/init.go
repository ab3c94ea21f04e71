package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/infrared/internal/logging"
	"github.com/yaklabco/infrared/pkg/config"
	"github.com/yaklabco/infrared/pkg/fsutil"
	"github.com/yaklabco/infrared/pkg/parser"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new infrared configuration file",
		Long: `Create a new .infrared.yml configuration file in the current directory.
Every setting is listed, commented out at its default value.

Examples:
  infrared init                      Create .infrared.yml
  infrared init --format toml        Create .infrared.toml instead
  infrared init --output custom.yml  Write to a custom file path`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or toml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .infrared.yml or .infrared.toml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()

	if flags.format != "yaml" && flags.format != "toml" {
		return &UsageError{Err: fmt.Errorf("invalid format %q: must be yaml or toml", flags.format)}
	}

	outputPath := flags.output
	if outputPath == "" {
		if flags.format == "toml" {
			outputPath = ".infrared.toml"
		} else {
			outputPath = ".infrared.yml"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return &UsageError{Err: fmt.Errorf("file %q already exists; use --force to overwrite", outputPath)}
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Format:   flags.format,
		Dialects: parser.DefaultRegistry.Dialects(),
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := fsutil.WriteAtomic(ctx, absPath, content, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'infrared dialects' to see the available dialects")

	return nil
}
