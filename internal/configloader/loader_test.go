package configloader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/infrared/pkg/config"
	_ "github.com/yaklabco/infrared/pkg/parser/goldmark" // Register markdown dialects
)

// isolatedEnv returns a getenv that points XDG_CONFIG_HOME at an empty
// directory and serves vars from the given map.
func isolatedEnv(t *testing.T, vars map[string]string) func(string) string {
	t.Helper()

	home := t.TempDir()
	return func(key string) string {
		if key == "XDG_CONFIG_HOME" {
			if v, ok := vars[key]; ok {
				return v
			}
			return home
		}
		return vars[key]
	}
}

// projectDir returns a temp directory marked as a VCS root so the upward
// search never leaves it.
func projectDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir: projectDir(t),
		Getenv:     isolatedEnv(t, nil),
	})
	require.NoError(t, err)

	assert.Equal(t, config.NewConfig(), result.Config)
	assert.Empty(t, result.LoadedFrom)
	assert.Empty(t, result.Warnings)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	configPath := filepath.Join(dir, ".infrared.yml")
	writeFile(t, configPath, "cache_format: msgpack\njobs: 2\nignore:\n  - \"dist/**\"\n")

	sub := filepath.Join(dir, "src", "lib")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir: sub,
		Getenv:     isolatedEnv(t, nil),
	})
	require.NoError(t, err)

	assert.Equal(t, config.CacheFormatMsgpack, result.Config.CacheFormat)
	assert.Equal(t, 2, result.Config.Jobs)
	assert.Equal(t, []string{"dist/**"}, result.Config.Ignore)
	assert.Equal(t, config.DialectAuto, result.Config.Dialect)
	assert.Equal(t, []string{configPath}, result.LoadedFrom)
	assert.Equal(t, configPath, result.Paths.Project)
}

func TestLoad_ProjectConfigTOML(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".infrared.toml"), "dialect = \"gfm\"\nextensions = [\".md\"]\n")

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir: dir,
		Getenv:     isolatedEnv(t, nil),
	})
	require.NoError(t, err)

	assert.Equal(t, "gfm", result.Config.Dialect)
	assert.Equal(t, []string{".md"}, result.Config.Extensions)
}

func TestLoad_Precedence(t *testing.T) {
	t.Parallel()

	xdg := t.TempDir()
	userPath := filepath.Join(xdg, "infrared", "config.yaml")
	writeFile(t, userPath, "scratch_root: /user\ncache_dir: user-cache\njobs: 1\nformat: json\n")

	dir := projectDir(t)
	projectPath := filepath.Join(dir, ".infrared.yaml")
	writeFile(t, projectPath, "cache_dir: project-cache\njobs: 2\n")

	explicitPath := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, explicitPath, "jobs = 3\ndialect = \"markdown\"\n")

	getenv := isolatedEnv(t, map[string]string{
		"XDG_CONFIG_HOME": xdg,
		"INFRARED_JOBS":   "4",
		"INFRARED_FORMAT": "summary",
	})

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir:   dir,
		ExplicitPath: explicitPath,
		Getenv:       getenv,
		CLIConfig:    &config.Config{Jobs: 5},
	})
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, "/user", cfg.ScratchRoot, "user config")
	assert.Equal(t, "project-cache", cfg.CacheDir, "project over user")
	assert.Equal(t, "markdown", cfg.Dialect, "explicit over project")
	assert.Equal(t, config.FormatSummary, cfg.Format, "env over user")
	assert.Equal(t, 5, cfg.Jobs, "cli over env")

	assert.Equal(t, []string{userPath, projectPath, explicitPath}, result.LoadedFrom)
}

func TestLoad_IgnoreSources(t *testing.T) {
	t.Parallel()

	xdg := t.TempDir()
	writeFile(t, filepath.Join(xdg, "infrared", "config.yml"), "jobs: 7\n")

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".infrared.yml"), "cache_dir: project\n")

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir:          dir,
		IgnoreUserConfig:    true,
		IgnoreProjectConfig: true,
		IgnoreEnv:           true,
		Getenv: isolatedEnv(t, map[string]string{
			"XDG_CONFIG_HOME":  xdg,
			"INFRARED_DIALECT": "python",
		}),
	})
	require.NoError(t, err)

	assert.Equal(t, config.NewConfig(), result.Config)
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad cache format", "cache_format: gob\n", "cache_format"},
		{"unknown dialect", "dialect: cobol\n", "dialect"},
		{"negative jobs", "jobs: -1\n", "jobs"},
		{"escaping cache dir", "cache_dir: ../out\n", "cache_dir"},
		{"bad glob", "ignore:\n  - \"[\"\n", "ignore[0]"},
		{"unknown key", "flavor: gfm\n", "flavor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := projectDir(t)
			writeFile(t, filepath.Join(dir, ".infrared.yml"), tt.content)

			_, err := Load(context.Background(), LoadOptions{
				WorkingDir: dir,
				Getenv:     isolatedEnv(t, nil),
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_Warnings(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".infrared.yml"), "scratch_root: scratch\nextensions: [js]\n")

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir: dir,
		Getenv:     isolatedEnv(t, nil),
	})
	require.NoError(t, err)
	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], "relative scratch root")
	assert.Contains(t, result.Warnings[1], `".js"`)
}

func TestLoad_MissingExplicitConfig(t *testing.T) {
	t.Parallel()

	_, err := Load(context.Background(), LoadOptions{
		WorkingDir:   projectDir(t),
		ExplicitPath: filepath.Join(t.TempDir(), "missing.yml"),
		Getenv:       isolatedEnv(t, nil),
	})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "load explicit config"))
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, LoadOptions{
		WorkingDir: t.TempDir(),
		Getenv:     isolatedEnv(t, nil),
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestFindProjectConfig_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	writeFile(t, filepath.Join(outer, ".infrared.yml"), "jobs: 1\n")

	repo := filepath.Join(outer, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))
	sub := filepath.Join(repo, "pkg")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	found, err := FindProjectConfig(context.Background(), sub)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestFindProjectConfig_Preference(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, "infrared.yaml"), "")
	writeFile(t, filepath.Join(dir, ".infrared.toml"), "")

	found, err := FindProjectConfig(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".infrared.toml"), found)
}

func TestLoadFromEnv(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	err := LoadFromEnv(cfg, func(key string) string {
		return map[string]string{
			"INFRARED_SCRATCH_ROOT": "/scratch",
			"INFRARED_CACHE_FORMAT": "msgpack",
			"INFRARED_EXTENSIONS":   ".js, .ts ,,",
			"INFRARED_IGNORE":       "a/**",
		}[key]
	})
	require.NoError(t, err)

	assert.Equal(t, "/scratch", cfg.ScratchRoot)
	assert.Equal(t, config.CacheFormatMsgpack, cfg.CacheFormat)
	assert.Equal(t, []string{".js", ".ts"}, cfg.Extensions)
	assert.Equal(t, []string{"a/**"}, cfg.Ignore)
}

func TestLoadFromEnv_InvalidInteger(t *testing.T) {
	t.Parallel()

	err := LoadFromEnv(config.NewConfig(), func(key string) string {
		if key == "INFRARED_JOBS" {
			return "lots"
		}
		return ""
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INFRARED_JOBS")
}

func TestEnvVarNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "INFRARED_CACHE_FORMAT", GetEnvVarName("cache_format"))
	assert.Empty(t, GetEnvVarName("nope"))

	vars := ListEnvVars()
	assert.Len(t, vars, len(envMappings))
	assert.Contains(t, vars, "INFRARED_SCRATCH_ROOT")
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	assert.Nil(t, MergeAll())

	base := &config.Config{CacheDir: "a", Ignore: []string{"x"}}
	merged := MergeAll(base, &config.Config{Jobs: 2}, &config.Config{Ignore: []string{}})

	assert.Equal(t, "a", merged.CacheDir)
	assert.Equal(t, 2, merged.Jobs)
	assert.Empty(t, merged.Ignore)
	assert.Equal(t, []string{"x"}, base.Ignore, "base is not modified")
}

func TestValidationResult(t *testing.T) {
	t.Parallel()

	result := ValidateWithFile(&config.Config{Jobs: -2, Extensions: []string{"md"}}, nil, "cfg.yml")

	assert.False(t, result.Valid())
	assert.True(t, result.HasWarnings())
	assert.Equal(t, []string{
		"error: cfg.yml: jobs: jobs must be >= 0 (0 means auto)",
		`warning: cfg.yml: extensions[0]: extension "md" has no leading dot; it will match as ".md"`,
	}, result.AllMessages())
}
