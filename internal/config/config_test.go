package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ">", cfg.Prefix)
	assert.Equal(t, 20, cfg.Roll.MaxDice)
	assert.Equal(t, 120, cfg.Roll.MaxFaces)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, DefaultPrompt, cfg.REPL.Prompt)
	assert.NoError(t, cfg.Validate())
}

func TestLoadTOMLAndYAMLAgree(t *testing.T) {
	tomlPath := writeFile(t, "bot.toml", `
prefix = "!"
log_level = "debug"

[roll]
max_dice = 10

[repl]
no_color = true
`)
	yamlPath := writeFile(t, "bot.yaml", `
prefix: "!"
log_level: debug
roll:
  max_dice: 10
repl:
  no_color: true
`)
	fromTOML, err := Load(tomlPath)
	require.NoError(t, err)
	fromYAML, err := Load(yamlPath)
	require.NoError(t, err)

	if diff := cmp.Diff(fromTOML, fromYAML); diff != "" {
		t.Fatalf("TOML and YAML configs differ (-toml +yaml):\n%s", diff)
	}
	assert.Equal(t, "!", fromTOML.Prefix)
	assert.Equal(t, 10, fromTOML.Roll.MaxDice)
	assert.Equal(t, DefaultMaxFaces, fromTOML.Roll.MaxFaces, "unset fields keep defaults")
	assert.True(t, fromTOML.REPL.NoColor)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bot.ini", "prefix = !"))
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = Load(writeFile(t, "bad.toml", "prefix = "))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "neg.yml", "roll:\n  max_faces: -1\n"))
	assert.ErrorContains(t, err, "max_faces")

	_, err = Load(writeFile(t, "lvl.toml", `log_level = "loud"`))
	assert.ErrorContains(t, err, "log level")
}

func TestValidateBounds(t *testing.T) {
	_, err := Load(writeFile(t, "dice.toml", "[roll]\nmax_dice = 1000000000\n"))
	assert.ErrorContains(t, err, "max_dice")

	_, err = Load(writeFile(t, "faces.yaml", "roll:\n  max_faces: 2000000000\n"))
	assert.ErrorContains(t, err, "max_faces")

	cfg := Default()
	cfg.Roll.MaxDice = MaxDiceLimit
	cfg.Roll.MaxFaces = MaxFacesLimit
	assert.NoError(t, cfg.Validate())
}

func TestValidateAcceptsParseableLevels(t *testing.T) {
	cfg, err := Load(writeFile(t, "warning.toml", `log_level = "warning"`))
	require.NoError(t, err)
	assert.Equal(t, "warning", cfg.LogLevel)

	t.Setenv("QUIRKBOT_LOG_LEVEL", "WARNING")
	cfg = Default()
	cfg.ApplyEnv()
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("QUIRKBOT_PREFIX", "?")
	t.Setenv("QUIRKBOT_LOG_LEVEL", "info")
	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, "?", cfg.Prefix)
	assert.Equal(t, "info", cfg.LogLevel)

	t.Setenv("QUIRKBOT_DEBUG", "1")
	cfg.ApplyEnv()
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestHistoryPath(t *testing.T) {
	cfg := Default()
	cfg.REPL.HistoryFile = "/tmp/h"
	assert.Equal(t, "/tmp/h", cfg.HistoryPath())

	cfg.REPL.DisableHistory = true
	assert.Equal(t, "", cfg.HistoryPath())

	t.Setenv("HOME", "/home/someone")
	cfg = Default()
	assert.Equal(t, filepath.Join("/home/someone", historyName), cfg.HistoryPath())
}
