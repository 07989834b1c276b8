package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, "png", s.OutputFormat)
	assert.Equal(t, 300, s.DPI)
	assert.Equal(t, 12.0, s.Width)
	assert.Equal(t, 6.0, s.Height)
	assert.Equal(t, "info", s.LogLevel)
	assert.True(t, strings.HasSuffix(s.DBPath, filepath.Join(".msdb", "edb_info.json")))
}

func TestLoadSettings_Env(t *testing.T) {
	t.Setenv("MSMIRROR_DB_PATH", "/data/edb.json")
	t.Setenv("MSMIRROR_DPI", "150")

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "/data/edb.json", s.DBPath)
	assert.Equal(t, 150, s.DPI)
}

func TestLoadSettings_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("MSMIRROR_OUTPUT_FORMAT", "svg")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output-format", "png", "")
	flags.String("db", "", "")
	flags.Float64("min-mz", 0, "")
	flags.Float64("max-mz", 0, "")
	require.NoError(t, flags.Parse([]string{"--output-format", "PDF", "--db", "~/lib.db", "--min-mz", "50", "--max-mz", "400.5"}))

	s, err := LoadSettingsWithFlags("", flags)
	require.NoError(t, err)
	assert.Equal(t, "pdf", s.OutputFormat)
	assert.Equal(t, 50.0, s.MinMZ)
	assert.Equal(t, 400.5, s.MaxMZ)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "lib.db"), s.DBPath)
}

func TestLoadSettings_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "msmirror.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dpi: 600\nwidth: 8\nlog_level: debug\n"), 0644))

	s, err := LoadSettingsWithFlags(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 600, s.DPI)
	assert.Equal(t, 8.0, s.Width)
	assert.Equal(t, "debug", s.LogLevel)

	_, err = LoadSettingsWithFlags(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadSettings_Invalid(t *testing.T) {
	t.Setenv("MSMIRROR_LOG_LEVEL", "chatty")
	_, err := LoadSettings()
	assert.Error(t, err)
}

func TestSettingsValidate_MZWindow(t *testing.T) {
	s := &Settings{DPI: 300, Width: 12, Height: 6, LogLevel: "info", MinMZ: 500, MaxMZ: 100}
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min m/z")

	s.MaxMZ = 0
	assert.NoError(t, s.Validate())
}

func TestSettingsValidate(t *testing.T) {
	s := &Settings{DPI: 0, Width: 12, Height: -1, LogLevel: "info"}
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dpi")
	assert.Contains(t, err.Error(), "figure size")
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLogWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "debug")
	require.NoError(t, err)

	LogWithLogger(&Settings{DBPath: "/x/edb.json", OutputFormat: "png", TopN: 50, MinMZ: 80}, logger)

	output := buf.String()
	assert.Contains(t, output, "settings.db_path=/x/edb.json")
	assert.Contains(t, output, "peak filter")
	assert.Contains(t, output, "min_mz=80")
}

func TestLogWithLogger_InfoHidesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "info")
	require.NoError(t, err)

	LogWithLogger(&Settings{DBPath: "/x/edb.json"}, logger)
	assert.Empty(t, buf.String())
}
