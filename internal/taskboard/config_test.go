package taskboard

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeConfigPrecedence(t *testing.T) {
	t.Parallel()

	defaults := Config{
		ServerURL:  "http://127.0.0.1:8080",
		Output:     OutputText,
		SQLitePath: "/tmp/default.db",
		ObjectsDir: "/tmp/default-objects",
	}
	fileCfg := Config{
		ServerURL:  "http://from-file:8080",
		Output:     OutputText,
		SQLitePath: "/tmp/file.db",
		ObjectsDir: "/tmp/file-objects",
	}
	envCfg := Config{
		ServerURL:  "http://from-env:8080",
		Output:     OutputJSON,
		SQLitePath: "/tmp/env.db",
		ObjectsDir: "/tmp/env-objects",
	}
	flagCfg := Config{
		ServerURL:  "http://from-flag:8080",
		Output:     OutputText,
		SQLitePath: "/tmp/flag.db",
		ObjectsDir: "/tmp/flag-objects",
	}

	got := MergeConfig(defaults, fileCfg, envCfg, flagCfg)
	require.Equal(t, "http://from-flag:8080", got.ServerURL)
	require.Equal(t, OutputText, got.Output)
	require.Equal(t, "/tmp/flag.db", got.SQLitePath)
	require.Equal(t, "/tmp/flag-objects", got.ObjectsDir)
}

func TestMergeConfigKeepsDefaultsForEmptyFields(t *testing.T) {
	t.Parallel()

	defaults := Config{
		ServerURL:  "http://127.0.0.1:8080",
		Output:     OutputText,
		SQLitePath: "/tmp/default.db",
	}

	got := MergeConfig(defaults, Config{}, Config{Output: OutputJSON}, Config{})
	require.Equal(t, "http://127.0.0.1:8080", got.ServerURL)
	require.Equal(t, OutputJSON, got.Output)
	require.Equal(t, "/tmp/default.db", got.SQLitePath)
}

func TestParseEnvConfig(t *testing.T) {
	t.Parallel()

	env := []string{
		"TASKBOARD_SERVER_URL=http://env:9999",
		"TASKBOARD_OUTPUT=json",
		"TASKBOARD_SQLITE_PATH=/tmp/env.db",
		"TASKBOARD_OBJECTS_DIR=/tmp/env-objects",
		"UNRELATED=ignored",
	}

	got := ParseEnvConfig(env)
	require.Equal(t, "http://env:9999", got.ServerURL)
	require.Equal(t, OutputJSON, got.Output)
	require.Equal(t, "/tmp/env.db", got.SQLitePath)
	require.Equal(t, "/tmp/env-objects", got.ObjectsDir)
}

func TestParseEnvConfigIgnoresInvalidOutput(t *testing.T) {
	t.Parallel()

	got := ParseEnvConfig([]string{"TASKBOARD_OUTPUT=yaml"})
	require.Equal(t, Output(""), got.Output)
}

func TestLoadOrInitConfigReadsSeededFile(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	cfgDir := filepath.Join(home, ".config", "taskboard")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(`
server_url: http://seed
backend:
  sqlite_path: /tmp/seed.db
cli:
  output: json
`), 0o644))

	got, err := LoadOrInitConfig(home)
	require.NoError(t, err)
	require.Equal(t, "http://seed", got.ServerURL)
	require.Equal(t, OutputJSON, got.Output)
	require.Equal(t, "/tmp/seed.db", got.SQLitePath)
}

func TestFormatErrorJSON(t *testing.T) {
	t.Parallel()

	raw := FormatError(OutputJSON, 400, "bad request")
	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &body))
	require.Equal(t, float64(400), body["status"])
	require.Equal(t, "bad request", body["error"])
}
