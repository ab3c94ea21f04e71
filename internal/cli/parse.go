package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/infrared/internal/configloader"
	"github.com/yaklabco/infrared/internal/logging"
	"github.com/yaklabco/infrared/pkg/cache"
	"github.com/yaklabco/infrared/pkg/config"
	"github.com/yaklabco/infrared/pkg/langdetect"
	"github.com/yaklabco/infrared/pkg/parser"
	"github.com/yaklabco/infrared/pkg/pipeline"
	"github.com/yaklabco/infrared/pkg/reporter"
	"github.com/yaklabco/infrared/pkg/runner"
)

type parseFlags struct {
	scratchRoot string
	cacheDir    string
	cacheFormat string
	dialect     string
	format      string
	extensions  []string
	ignore      []string
	jobs        int
	compact     bool
	showCached  bool
}

func newParseCommand() *cobra.Command {
	flags := &parseFlags{}

	cmd := &cobra.Command{
		Use:   "parse [paths...]",
		Short: "Parse files and cache their syntax trees",
		Long:  parseLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, flags)
		},
	}

	addParseFlags(cmd, flags)

	return cmd
}

const parseLongDescription = `Parse source files and write each syntax tree to the cache.

By default, parses every file with a supported extension in the current
directory and subdirectories. Each tree is written to
<scratch-root>/<cache-dir>/<path relative to the working directory>, with
the extension replaced by the cache format's (.json or .msgpack).

Examples:
  infrared parse                          # Parse current directory
  infrared parse src/ docs/README.md      # Parse specific paths
  infrared parse --dialect python scripts # Force a dialect
  infrared parse --cache-format msgpack   # Write binary cache entries
  infrared parse --format json            # Output results as JSON for CI`

func addParseFlags(cmd *cobra.Command, flags *parseFlags) {
	cmd.Flags().StringVar(&flags.scratchRoot, "scratch-root", "", "directory the cache tree is created under (default: system temp dir)")
	cmd.Flags().StringVar(&flags.cacheDir, "cache-dir", config.DefaultCacheDir, "cache directory name below the scratch root")
	cmd.Flags().StringVar(&flags.cacheFormat, "cache-format", string(config.CacheFormatJSON), "cache entry encoding: json, msgpack")
	cmd.Flags().StringVar(&flags.dialect, "dialect", config.DialectAuto, "parser dialect, or auto to detect per file")
	cmd.Flags().StringVar(&flags.format, "format", string(config.FormatText), "output format: text, json, summary")
	cmd.Flags().StringSliceVar(&flags.extensions, "extensions", nil, "file extensions to parse (default: all supported)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")
	cmd.Flags().BoolVar(&flags.showCached, "show-cached", false, "list cached files in text output")
}

// cliConfig builds a config holding only the flags set on the command line.
func (f *parseFlags) cliConfig(cmd *cobra.Command) *config.Config {
	cfg := &config.Config{}
	changed := cmd.Flags().Changed

	if changed("scratch-root") {
		cfg.ScratchRoot = f.scratchRoot
	}
	if changed("cache-dir") {
		cfg.CacheDir = f.cacheDir
	}
	if changed("cache-format") {
		cfg.CacheFormat = config.CacheFormat(f.cacheFormat)
	}
	if changed("dialect") {
		cfg.Dialect = f.dialect
	}
	if changed("format") {
		cfg.Format = config.OutputFormat(f.format)
	}
	if changed("extensions") {
		cfg.Extensions = f.extensions
	}
	if changed("ignore") {
		cfg.Ignore = f.ignore
	}
	if changed("jobs") {
		cfg.Jobs = f.jobs
	}

	return cfg
}

func runParse(cmd *cobra.Command, args []string, flags *parseFlags) error {
	logger := logging.Default()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, logger)

	cliCfg := flags.cliConfig(cmd)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return &ConfigError{Err: err}
	}

	cfg := loadResult.Config
	if !filepath.IsAbs(cfg.ScratchRoot) {
		cfg.ScratchRoot = filepath.Join(workDir, cfg.ScratchRoot)
	}
	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	logger.Debug("configuration loaded",
		logging.FieldScratchRoot, cfg.ScratchRoot,
		logging.FieldCacheFormat, cfg.CacheFormat,
		logging.FieldDialect, cfg.Dialect,
		logging.FieldJobs, cfg.Jobs,
	)

	p, err := buildPipeline(cfg)
	if err != nil {
		return &ConfigError{Err: err}
	}

	runOpts := runner.Options{
		Paths:        args,
		WorkingDir:   workDir,
		Extensions:   discoveryExtensions(cfg),
		ExcludeGlobs: cfg.Ignore,
		SkipDirs:     []string{cacheRoot(cfg)},
		Jobs:         cfg.Jobs,
	}

	logger.Debug("starting run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New(p).Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return &UsageError{Err: err}
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       colorMode,
		ShowCached:  flags.showCached,
		ShowSummary: true,
		Compact:     flags.compact,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrFailuresFound
	}
	return nil
}

// buildPipeline wires the provider, resolver and persister selected by cfg.
func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	provider, err := parser.ForDialect(parser.DefaultRegistry, cfg.Dialect)
	if err != nil {
		return nil, err
	}

	codec, err := cache.CodecFor(string(cfg.CacheFormat))
	if err != nil {
		return nil, err
	}

	resolver := cache.NewResolver(cfg.ScratchRoot, cfg.CacheDir, codec.Ext())
	return pipeline.New(provider, resolver, cache.NewPersister(codec)), nil
}

// discoveryExtensions returns the configured extensions, or those of the
// selected dialect, or those of every registered dialect.
func discoveryExtensions(cfg *config.Config) []string {
	if len(cfg.Extensions) > 0 {
		extensions := make([]string, 0, len(cfg.Extensions))
		for _, ext := range cfg.Extensions {
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			extensions = append(extensions, strings.ToLower(ext))
		}
		return extensions
	}

	if cfg.Dialect != "" && cfg.Dialect != config.DialectAuto {
		return langdetect.Extensions(cfg.Dialect)
	}
	return langdetect.Extensions(parser.DefaultRegistry.Dialects()...)
}

// cacheRoot is the cache directory, kept out of discovery when the
// scratch root lies inside the tree being parsed.
func cacheRoot(cfg *config.Config) string {
	return filepath.Join(cfg.ScratchRoot, cfg.CacheDir)
}
