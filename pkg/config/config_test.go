package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/infrared/pkg/config"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()

	assert.Equal(t, os.TempDir(), cfg.ScratchRoot)
	assert.Equal(t, config.DefaultCacheDir, cfg.CacheDir)
	assert.Equal(t, config.CacheFormatJSON, cfg.CacheFormat)
	assert.Equal(t, config.DialectAuto, cfg.Dialect)
	assert.Equal(t, config.FormatText, cfg.Format)
	assert.Empty(t, cfg.Extensions)
	assert.Zero(t, cfg.Jobs)
}

func TestCacheFormat_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format config.CacheFormat
		want   bool
	}{
		{config.CacheFormatJSON, true},
		{config.CacheFormatMsgpack, true},
		{"gob", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.format.IsValid(), string(tt.format))
	}
}

func TestOutputFormat_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format config.OutputFormat
		want   bool
	}{
		{config.FormatText, true},
		{config.FormatJSON, true},
		{config.FormatSummary, true},
		{"sarif", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.format.IsValid(), string(tt.format))
	}
}
