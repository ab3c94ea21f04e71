package config

import (
	"bytes"
	"fmt"
	"strings"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "yaml" or "toml".
	Format string

	// Dialects lists the registered dialects to document.
	Dialects []string
}

// GenerateTemplate creates a commented configuration file template.
// Every setting is commented out at its default value.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	switch opts.Format {
	case "", "yaml", "yml":
		return generateTemplate(opts, yamlSyntax), nil
	case "toml":
		return generateTemplate(opts, tomlSyntax), nil
	default:
		return nil, fmt.Errorf("unsupported template format %q; must be yaml or toml", opts.Format)
	}
}

type templateSyntax struct {
	scalar func(key, value string) string
	list   func(key string, values []string) string
}

var yamlSyntax = templateSyntax{
	scalar: func(key, value string) string { return key + ": " + value },
	list: func(key string, values []string) string {
		var b strings.Builder
		b.WriteString(key + ":")
		for _, v := range values {
			b.WriteString("\n#   - " + v)
		}
		return b.String()
	},
}

var tomlSyntax = templateSyntax{
	scalar: func(key, value string) string { return key + " = " + value },
	list: func(key string, values []string) string {
		return key + " = [" + strings.Join(values, ", ") + "]"
	},
}

func generateTemplate(opts TemplateOptions, syntax templateSyntax) []byte {
	defaults := NewConfig()

	var buf bytes.Buffer
	buf.WriteString("# infrared configuration\n")
	buf.WriteString("# See: https://github.com/yaklabco/infrared\n")

	section := func(comment, line string) {
		buf.WriteString("\n# " + comment + "\n# " + line + "\n")
	}

	section("Directory the cache tree is created under (default: system temp dir)",
		syntax.scalar("scratch_root", quote(defaults.ScratchRoot)))
	section("Cache directory name below the scratch root",
		syntax.scalar("cache_dir", quote(defaults.CacheDir)))
	section("Cache entry encoding: json or msgpack",
		syntax.scalar("cache_format", quote(string(defaults.CacheFormat))))

	dialectHelp := "Parser dialect for every file, or auto to detect per file"
	if len(opts.Dialects) > 0 {
		dialectHelp += "\n# Available: " + strings.Join(opts.Dialects, ", ")
	}
	section(dialectHelp, syntax.scalar("dialect", quote(defaults.Dialect)))

	section("File extensions to discover (default: all supported)",
		syntax.list("extensions", []string{quote(".js"), quote(".md")}))
	section("File patterns to ignore (glob patterns)",
		syntax.list("ignore", []string{quote("vendor/**"), quote("node_modules/**")}))
	section("Number of parallel workers (0 = auto)",
		syntax.scalar("jobs", "0"))
	section("Output format: text, json, or summary",
		syntax.scalar("format", quote(string(defaults.Format))))

	return buf.Bytes()
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}
