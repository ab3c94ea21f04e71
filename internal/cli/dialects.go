package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/infrared/internal/logging"
	"github.com/yaklabco/infrared/pkg/langdetect"
	"github.com/yaklabco/infrared/pkg/parser"
)

const formatJSON = "json"

// dialectInfo represents a dialect in JSON output.
type dialectInfo struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
}

func newDialectsCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "dialects",
		Short: "List the registered parser dialects",
		Long: `List every parser dialect with the file extensions discovered for it.
Any listed name can be passed to --dialect or set as dialect in the config.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos := registeredDialects(parser.DefaultRegistry)

			switch format {
			case formatJSON:
				return writeDialectsJSON(cmd.OutOrStdout(), infos)
			case "text", "":
				writeDialectsText(cmd.OutOrStdout(), infos)
				return nil
			default:
				return &UsageError{Err: fmt.Errorf("invalid format %q: must be text or json", format)}
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json")

	return cmd
}

func registeredDialects(registry *parser.Registry) []dialectInfo {
	names := registry.Dialects()
	infos := make([]dialectInfo, 0, len(names))
	for _, name := range names {
		infos = append(infos, dialectInfo{Name: name, Extensions: langdetect.Extensions(name)})
	}
	return infos
}

func writeDialectsText(w io.Writer, infos []dialectInfo) {
	logger := log.NewWithOptions(w, log.Options{ReportTimestamp: false})
	logger.SetLevel(log.InfoLevel)

	if len(infos) == 0 {
		logger.Info("no dialects registered")
		return
	}

	for _, info := range infos {
		logger.Info(info.Name, logging.FieldExtensions, strings.Join(info.Extensions, " "))
	}
}

func writeDialectsJSON(w io.Writer, infos []dialectInfo) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding dialects: %w", err)
	}
	return nil
}
