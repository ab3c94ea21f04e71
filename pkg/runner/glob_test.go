package runner

import "testing"

func TestMatchGlob(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		pattern string
		want    bool
	}{
		{"src/a.js", "*.js", true},
		{"src/a.js", "src/*.js", true},
		{"src/deep/a.js", "src/*.js", false},
		{"node_modules", "node_modules/**", true},
		{"node_modules/pkg/index.js", "node_modules/**", true},
		{"a/b/dist", "**/dist", true},
		{"dist", "**/dist", true},
		{"distro", "**/dist", false},
		{"src/x/y/gen/out.js", "src/**/gen/*.js", true},
		{"src/gen/out.js", "src/**/gen/*.js", true},
		{"lib/gen/out.js", "src/**/gen/*.js", false},
		{"anything/at/all", "**", true},
		{"src/a.js", "[", false},
	}

	for _, tt := range tests {
		if got := matchGlob(tt.path, tt.pattern); got != tt.want {
			t.Errorf("matchGlob(%q, %q) = %v, want %v", tt.path, tt.pattern, got, tt.want)
		}
	}
}
