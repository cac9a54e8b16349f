package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/TudorHulban/tardiness/internal/workflow"
)

const _Input = `{
  "workflow_0": {
    "due_dates": {"wave_0": 40, "blur_1": 3, "onnx_2": 12, "emboss_3": 6},
    "edge_set": [["blur_1", "onnx_2"], ["blur_1", "emboss_3"], ["onnx_2", "wave_0"], ["emboss_3", "wave_0"]]
  }
}`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := newRootCmd(&stderr)
	cmd.SetOut(&stdout)
	cmd.SetArgs(args)

	errExecute := cmd.ExecuteContext(context.Background())

	return stdout.String(), errExecute
}

func TestSolveAndEvaluate(t *testing.T) {
	dir := t.TempDir()

	input := filepath.Join(dir, "input.json")
	require.NoError(t, os.WriteFile(input, []byte(_Input), 0o600))

	outJSON := filepath.Join(dir, "schedule.json")
	outCSV := filepath.Join(dir, "schedule.csv")
	report := filepath.Join(dir, "report.json")
	cachePath := filepath.Join(dir, "cache")

	args := []string{
		"solve",
		"--input", input,
		"--durations", "rounded",
		"--out-json", outJSON,
		"--out-csv", outCSV,
		"--report", report,
		"--cache", cachePath,
	}

	stdout, errSolve := execute(t, args...)
	require.NoError(t, errSolve)
	require.Contains(t, stdout, "tardiness: 5.0000")
	require.Contains(t, stdout, "order: blur_1 emboss_3 onnx_2 wave_0")

	names, errRead := os.ReadFile(outJSON)
	require.NoError(t, errRead)
	require.JSONEq(t, `["blur_1", "emboss_3", "onnx_2", "wave_0"]`, string(names))

	var firstReport workflow.Report

	content, errReadReport := os.ReadFile(report)
	require.NoError(t, errReadReport)
	require.NoError(t, json.Unmarshal(content, &firstReport))
	require.False(t, firstReport.Cached)
	require.NotEmpty(t, firstReport.RunID)
	require.Len(t, firstReport.Schedule, 4)

	t.Run(
		"1. second run is served from cache",
		func(t *testing.T) {
			stdout, errSolve := execute(t, args...)
			require.NoError(t, errSolve)
			require.Contains(t, stdout, "tardiness: 5.0000")

			var secondReport workflow.Report

			content, errReadReport := os.ReadFile(report)
			require.NoError(t, errReadReport)
			require.NoError(t, json.Unmarshal(content, &secondReport))
			require.True(t, secondReport.Cached)
			require.NotEqual(t, firstReport.RunID, secondReport.RunID)
		},
	)

	t.Run(
		"2. evaluate written order",
		func(t *testing.T) {
			stdout, errEvaluate := execute(t,
				"evaluate",
				"--input", input,
				"--durations", "rounded",
				"--order", outCSV,
			)
			require.NoError(t, errEvaluate)
			require.Contains(t, stdout, "tardiness: 5.0000")
		},
	)

	t.Run(
		"3. evaluate rejects infeasible order",
		func(t *testing.T) {
			infeasible := filepath.Join(dir, "infeasible.csv")
			require.NoError(t, os.WriteFile(infeasible, []byte("1,2,3,4\n"), 0o600))

			_, errEvaluate := execute(t,
				"evaluate",
				"--input", input,
				"--order", infeasible,
			)
			require.Error(t, errEvaluate)
		},
	)

	t.Run(
		"4. evaluate topological order",
		func(t *testing.T) {
			stdout, errEvaluate := execute(t,
				"evaluate",
				"--input", input,
				"--durations", "rounded",
				"--topological",
			)
			require.NoError(t, errEvaluate)
			require.Contains(t, stdout, "tardiness: 9.0000")
		},
	)
}

func TestSolveBeamExhausted(t *testing.T) {
	dir := t.TempDir()

	input := filepath.Join(dir, "input.json")
	require.NoError(t, os.WriteFile(input, []byte(_Input), 0o600))

	stdout, errSolve := execute(t,
		"solve",
		"--input", input,
		"--mode", "beam",
		"--max-iterations", "1",
		"--out-json", "",
		"--out-csv", "",
	)
	require.NoError(t, errSolve)
	require.Contains(t, stdout, "tardiness:")
}

func TestSolveErrors(t *testing.T) {
	dir := t.TempDir()

	input := filepath.Join(dir, "input.json")
	require.NoError(t, os.WriteFile(input, []byte(_Input), 0o600))

	tests := []struct {
		name string
		args []string
	}{
		{"1. missing input", []string{"solve", "--input", filepath.Join(dir, "absent.json")}},
		{"2. unknown workflow", []string{"solve", "--input", input, "--workflow", "workflow_7"}},
		{"3. unknown mode", []string{"solve", "--input", input, "--mode", "depth"}},
		{"4. unknown preset", []string{"solve", "--input", input, "--durations", "guessed"}},
		{"5. missing config", []string{"solve", "--config", filepath.Join(dir, "absent.yaml")}},
	}

	for _, tt := range tests {
		t.Run(
			tt.name,
			func(t *testing.T) {
				_, errSolve := execute(t, tt.args...)
				require.Error(t, errSolve)
			},
		)
	}
}

func TestLoggerFromContext(t *testing.T) {
	require.Equal(t, log.Default(), loggerFromContext(context.Background()))

	var buf bytes.Buffer

	logger := newLogger(&buf, log.DebugLevel)
	require.Equal(t, logger, loggerFromContext(withLogger(context.Background(), logger)))

	newProgress(logger).done("step", "tasks", 3)
	require.Contains(t, buf.String(), "step")
	require.Contains(t, buf.String(), "elapsed")
}
