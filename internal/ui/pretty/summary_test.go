package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/infrared/internal/ui/pretty"
	"github.com/yaklabco/infrared/pkg/runner"
)

func TestFormatSummaryOneLine(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		name  string
		stats runner.Stats
		want  string
	}{
		{
			name:  "no failures",
			stats: runner.Stats{FilesDiscovered: 3, FilesCached: 3},
			want:  "No failures (3 files cached)\n",
		},
		{
			name:  "single file",
			stats: runner.Stats{FilesDiscovered: 1, FilesCached: 1},
			want:  "No failures (1 file cached)\n",
		},
		{
			name: "mixed kinds sorted",
			stats: runner.Stats{
				FilesDiscovered: 5,
				FilesCached:     3,
				FilesFailed:     2,
				ByKind:          map[string]int{"read": 1, "parse": 1},
			},
			want: "2 failures (1 parse, 1 read) in 5 files, 3 cached\n",
		},
		{
			name: "one failure",
			stats: runner.Stats{
				FilesDiscovered: 1,
				FilesFailed:     1,
				ByKind:          map[string]int{"persist": 1, "read": 0},
			},
			want: "1 failure (1 persist) in 1 file, 0 cached\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, styles.FormatSummaryOneLine(tt.stats))
		})
	}
}

func TestFormatSummary_AllCached(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSummary(runner.Stats{FilesDiscovered: 4, FilesCached: 4})

	assert.Contains(t, result, "Summary")
	assert.Contains(t, result, "Files discovered:  4")
	assert.Contains(t, result, "Files cached:      4")
	assert.NotContains(t, result, "Files failed")
	assert.Contains(t, result, "All files cached")
}

func TestFormatSummary_WithFailures(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSummary(runner.Stats{
		FilesDiscovered: 6,
		FilesCached:     3,
		FilesFailed:     3,
		ByKind:          map[string]int{"parse": 2, "read": 1},
	})

	assert.Contains(t, result, "Files failed:      3")
	assert.Contains(t, result, "parse:")
	assert.Contains(t, result, "read:")
	assert.Less(t, strings.Index(result, "parse:"), strings.Index(result, "read:"))
	assert.Contains(t, result, "Completed with failures")
}
