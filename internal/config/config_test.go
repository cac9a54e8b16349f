package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	scheduler "github.com/TudorHulban/tardiness"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, errLoad := Load("")
	require.NoError(t, errLoad)

	require.Equal(t, DefaultWorkflow, cfg.Input.Workflow)
	require.Equal(t, string(scheduler.SearchModeFull), cfg.Search.Mode)
	require.Equal(t, scheduler.DefaultMaxIterations, cfg.Search.MaxIterations)
	require.Equal(t, 21.2065, cfg.DurationTable()["vii"])
}

func TestLoad(t *testing.T) {
	t.Run(
		"1. yaml",
		func(t *testing.T) {
			path := writeFile(t, "config.yaml", `
durationPreset: rounded
durations:
  blur: 7
search:
  mode: beam
  maxIterations: 100000
`)

			cfg, errLoad := Load(path)
			require.NoError(t, errLoad)

			require.Equal(t, "beam", cfg.Search.Mode)
			require.Equal(t, 100000, cfg.Search.MaxIterations)
			require.Equal(t, scheduler.DefaultBeamWidth, cfg.Search.BeamWidth)

			durations := cfg.DurationTable()
			require.Equal(t, 7.0, durations["blur"])
			require.Equal(t, 21.0, durations["vii"])
		},
	)

	t.Run(
		"2. toml",
		func(t *testing.T) {
			path := writeFile(t, "config.toml", `
[input]
workflow = "workflow_1"

[search]
beamWidth = 5

[durations]
custom = 1.5
`)

			cfg, errLoad := Load(path)
			require.NoError(t, errLoad)

			require.Equal(t, "workflow_1", cfg.Input.Workflow)
			require.Equal(t, 5, cfg.Search.BeamWidth)
			require.Equal(t, 1.5, cfg.DurationTable()["custom"])
			require.Equal(t, 6.0243, cfg.DurationTable()["blur"])
		},
	)

	t.Run(
		"3. unsupported extension",
		func(t *testing.T) {
			_, errLoad := Load(writeFile(t, "config.ini", "x=1"))
			require.Error(t, errLoad)
		},
	)

	t.Run(
		"4. missing file",
		func(t *testing.T) {
			_, errLoad := Load(filepath.Join(t.TempDir(), "absent.yaml"))
			require.Error(t, errLoad)
		},
	)

	t.Run(
		"5. unknown mode",
		func(t *testing.T) {
			_, errLoad := Load(writeFile(t, "config.yaml", "search:\n  mode: depth\n"))
			require.Error(t, errLoad)
		},
	)

	t.Run(
		"6. unknown preset",
		func(t *testing.T) {
			_, errLoad := Load(writeFile(t, "config.yaml", "durationPreset: guessed\n"))
			require.Error(t, errLoad)
		},
	)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("TARDINESS_MAX_ITERATIONS", "123")
	t.Setenv("TARDINESS_SEARCH_MODE", "beam")

	cfg, errLoad := Load("")
	require.NoError(t, errLoad)
	require.Equal(t, 123, cfg.Search.MaxIterations)

	params, errParams := cfg.SearchParams(nil)
	require.NoError(t, errParams)
	require.Equal(t, scheduler.SearchModeBeam, params.Mode)
	require.Equal(t, 123, params.MaxIterations)

	t.Setenv("TARDINESS_WORKERS", "many")

	_, errLoadInvalid := Load("")
	require.Error(t, errLoadInvalid)
}
