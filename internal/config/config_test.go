package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "earthscan.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "warning", cfg.LogLevel)
	assert.Equal(t, []string{"**/Earthfile"}, cfg.Include)
	assert.Empty(t, cfg.Exclude)
	assert.Nil(t, cfg.AliasMap())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
format = "json"
exclude = ["vendor/"]

[[registry-aliases]]
prefix = "docker.io"
replacement = "mirror.local"

[[registry-aliases]]
prefix = "ghcr.io"
replacement = "ghcr.mirror.local"
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "warning", cfg.LogLevel)
	assert.Equal(t, []string{"**/Earthfile"}, cfg.Include)
	assert.Equal(t, []string{"vendor/"}, cfg.Exclude)
	assert.Equal(t, map[string]string{
		"docker.io": "mirror.local",
		"ghcr.io":   "ghcr.mirror.local",
	}, cfg.AliasMap())
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, `format = "json"
log-level = "info"
`)
	t.Setenv("EARTHSCAN_LOG_LEVEL", "debug")
	t.Setenv("EARTHSCAN_INCLUDE", "**/Earthfile **/*.earth")

	cfg, err := Load(path, map[string]any{
		"format":    "text",
		"log-level": "",
	})
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Format, "flag overrides file")
	assert.Equal(t, "debug", cfg.LogLevel, "env overrides file, empty flag is ignored")
	assert.Equal(t, []string{"**/Earthfile", "**/*.earth"}, cfg.Include)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"), nil)
		require.Error(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := Load(writeConfig(t, `format = "xml"`), nil)
		require.ErrorContains(t, err, "unknown format")
	})

	t.Run("incomplete alias", func(t *testing.T) {
		_, err := Load(writeConfig(t, "[[registry-aliases]]\nprefix = \"docker.io\"\n"), nil)
		require.ErrorContains(t, err, "registry alias")
	})
}

func TestParseAlias(t *testing.T) {
	t.Parallel()

	a, err := ParseAlias("docker.io=mirror.local/")
	require.NoError(t, err)
	assert.Equal(t, RegistryAlias{Prefix: "docker.io", Replacement: "mirror.local"}, a)

	for _, bad := range []string{"", "docker.io", "=mirror", "docker.io="} {
		_, err := ParseAlias(bad)
		assert.Error(t, err, bad)
	}
}

func TestSetupLogging(t *testing.T) {
	defer logrus.SetLevel(logrus.GetLevel())

	require.NoError(t, SetupLogging("debug", os.Stderr))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	require.Error(t, SetupLogging("loud", os.Stderr))
}
