package configloader

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/infrared/pkg/config"
)

// envVarPrefix is the prefix for all infrared environment variables.
const envVarPrefix = "INFRARED_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeInt
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
// INFRARED_DEBUG is read by the logging package, not here.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"SCRATCH_ROOT": {field: "scratch_root", typ: envTypeString, description: "Directory the cache tree is created under"},
	"CACHE_DIR":    {field: "cache_dir", typ: envTypeString, description: "Cache directory name below the scratch root"},
	"CACHE_FORMAT": {field: "cache_format", typ: envTypeString, description: "Cache entry encoding: json or msgpack"},
	"DIALECT":      {field: "dialect", typ: envTypeString, description: "Parser dialect, or auto"},
	"FORMAT":       {field: "format", typ: envTypeString, description: "Output format: text, json, or summary"},
	"JOBS":         {field: "jobs", typ: envTypeInt, description: "Number of parallel workers (0 = auto)"},
	"EXTENSIONS":   {field: "extensions", typ: envTypeSlice, description: "Comma-separated list of file extensions"},
	"IGNORE":       {field: "ignore", typ: envTypeSlice, description: "Comma-separated list of ignore patterns"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with INFRARED_ (e.g., INFRARED_JOBS).
func LoadFromEnv(cfg *config.Config, getenv func(string) string) error {
	if cfg == nil || getenv == nil {
		return nil
	}

	for _, envSuffix := range slices.Sorted(maps.Keys(envMappings)) {
		mapping := envMappings[envSuffix]
		envVar := envVarPrefix + envSuffix
		value := getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "scratch_root":
		cfg.ScratchRoot = value
	case "cache_dir":
		cfg.CacheDir = value
	case "cache_format":
		cfg.CacheFormat = config.CacheFormat(value)
	case "dialect":
		cfg.Dialect = value
	case "format":
		cfg.Format = config.OutputFormat(value)
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "extensions":
		cfg.Extensions = value
	case "ignore":
		cfg.Ignore = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}
