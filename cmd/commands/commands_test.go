//go:build !integration

package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/guttosm/truckload/config"
	"github.com/guttosm/truckload/internal/domain/dto"
	"github.com/guttosm/truckload/internal/itemset"
	"github.com/guttosm/truckload/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd(config.NewViper())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--log-level", "disabled"))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestLegendCommand(t *testing.T) {
	dir := t.TempDir()

	_, stderr, err := execute(t, "legend", "--path", dir)

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "Warden_legend.txt"))
	assert.Contains(t, stderr, "legend")
	assert.Contains(t, stderr, "OK")
}

func TestLegendCommand_PathFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TRUCKLOAD_OUTPUT_PATH", dir)

	_, _, err := execute(t, "legend", "--item-set", "material-grouped-warden")

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "MaterialGroupedWarden_legend.txt"))
}

func TestQueuesCommand(t *testing.T) {
	tests := []struct {
		name     string
		category string
	}{
		{name: "by index", category: "1"},
		{name: "by name", category: "HeavyArms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()

			_, _, err := execute(t, "queues", "--category", tt.category, "--path", dir)

			require.NoError(t, err)
			assert.FileExists(t, filepath.Join(dir, "Warden_HeavyArms_valid_queue_vec.txt"))
		})
	}
}

func TestBatchesCommand(t *testing.T) {
	dir := t.TempDir()
	jsonl := filepath.Join(dir, "batches.jsonl")
	traceFile := filepath.Join(dir, "trace.json")

	_, stderr, err := execute(t, "batches",
		"--n", "1",
		"--metric", "affordable",
		"--output",
		"--path", dir,
		"--jsonl", jsonl,
		"--trace-file", traceFile,
		"--workers", "2",
	)

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "1_batches_with_Affordable_short.txt"))
	assert.FileExists(t, filepath.Join(dir, "Warden_legend.txt"))
	assert.FileExists(t, jsonl)
	assert.Contains(t, stderr, "Affordable")

	trace, err := os.ReadFile(traceFile)
	require.NoError(t, err)
	assert.Contains(t, string(trace), `"Name":"generate_queues"`)
	assert.Contains(t, string(trace), `"Name":"batches"`)
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		err  error
	}{
		{name: "unknown item set", args: []string{"legend", "--item-set", "armory"}, err: itemset.ErrUnknownItemSet},
		{name: "unknown category", args: []string{"queues", "--category", "Boots"}, err: itemset.ErrCategoryOutOfRange},
		{name: "category out of range", args: []string{"queues", "--category", "99"}, err: itemset.ErrCategoryOutOfRange},
		{name: "bad metric", args: []string{"batches", "--n", "1", "--metric", "heaviest"}, err: service.ErrInvalidMetric},
		{name: "bad workers", args: []string{"legend", "--workers", "0"}, err: config.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--path", t.TempDir())

			_, _, err := execute(t, args...)

			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestHelp(t *testing.T) {
	stdout, _, err := execute(t, "--help")

	require.NoError(t, err)
	assert.Contains(t, stdout, "COMMANDS")
	assert.Contains(t, stdout, "prime-groups")
	assert.Contains(t, stdout, "--item-set")
}

func TestCategoryIndex(t *testing.T) {
	set, err := itemset.Load(itemset.Warden)
	require.NoError(t, err)

	tests := []struct {
		input    string
		expected int
		wantErr  bool
	}{
		{input: "0", expected: 0},
		{input: "SmallArms", expected: 0},
		{input: "HeavyAmmunition", expected: 2},
		{input: "smallarms", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			index, err := categoryIndex(set, tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, itemset.ErrCategoryOutOfRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, index)
		})
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	summary := dto.NewRunSummary("run-1", "prime-groups", "Warden")
	summary.Metric = "NValid(12)"
	summary.Emitted = 42
	summary.Expanded = 1000
	summary.Pruned = 10
	summary.Duration = 1500 * time.Millisecond
	summary.Outputs = []string{"out/a.txt", "out/b.txt"}

	renderSummary(&buf, summary)

	out := buf.String()
	for _, want := range []string{"run-1", "prime-groups", "NValid(12)", "42", "1000 (pruned 10)", "1.5s", "out/a.txt", "out/b.txt", "OK"} {
		assert.Contains(t, out, want)
	}
}
