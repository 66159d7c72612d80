//go:build !integration

package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCandidates(t *testing.T) {
	before := testutil.ToFloat64(QueueCandidatesTotal.WithLabelValues("Medical"))

	RecordCandidates("Medical", 70)

	assert.Equal(t, before+70, testutil.ToFloat64(QueueCandidatesTotal.WithLabelValues("Medical")))
}

func TestRecordSearch(t *testing.T) {
	tests := []struct {
		name     string
		search   string
		expanded int64
		pruned   int64
		emitted  int64
	}{
		{name: "batch search", search: "batches", expanded: 10, pruned: 4, emitted: 2},
		{name: "prime group search", search: "prime_groups", expanded: 3, pruned: 0, emitted: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expanded := SearchNodesTotal.WithLabelValues(tt.search, "expanded")
			emitted := SearchNodesTotal.WithLabelValues(tt.search, "emitted")
			beforeExpanded := testutil.ToFloat64(expanded)
			beforeEmitted := testutil.ToFloat64(emitted)

			RecordSearch(tt.search, tt.expanded, tt.pruned, tt.emitted, 20*time.Millisecond)

			assert.Equal(t, beforeExpanded+float64(tt.expanded), testutil.ToFloat64(expanded))
			assert.Equal(t, beforeEmitted+float64(tt.emitted), testutil.ToFloat64(emitted))
		})
	}
}

func TestRecordSolve(t *testing.T) {
	beforeNodes := testutil.ToFloat64(SolverNodesTotal)
	beforeRuns := testutil.ToFloat64(SolverRunsTotal.WithLabelValues("optimal"))

	RecordSolve("optimal", 12)

	assert.Equal(t, beforeNodes+12, testutil.ToFloat64(SolverNodesTotal))
	assert.Equal(t, beforeRuns+1, testutil.ToFloat64(SolverRunsTotal.WithLabelValues("optimal")))
}

func TestRecordCacheOperation(t *testing.T) {
	counter := CacheOperationsTotal.WithLabelValues("get", "hit")
	before := testutil.ToFloat64(counter)

	RecordCacheOperation("get", "hit")

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestWriteTextfile(t *testing.T) {
	RecordSolve("optimal", 1)
	path := filepath.Join(t.TempDir(), "metrics.prom")

	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "truckload_solver_runs_total")
}

func TestWriteTextfile_BadPath(t *testing.T) {
	err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "metrics.prom"))
	assert.Error(t, err)
}
