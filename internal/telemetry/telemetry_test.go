//go:build !integration

package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WritesSpansToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")

	shutdown, err := Init(context.Background(), "truckload", "test", path)
	require.NoError(t, err)

	_, span := Tracer().Start(context.Background(), "generate_queues")
	span.End()
	require.NoError(t, shutdown(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Name":"generate_queues"`)
	assert.Contains(t, string(data), "truckload")
}

func TestInit_Discard(t *testing.T) {
	shutdown, err := Init(context.Background(), "truckload", "test", "")
	require.NoError(t, err)

	_, span := Tracer().Start(context.Background(), "noop")
	span.End()
	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_BadPath(t *testing.T) {
	_, err := Init(context.Background(), "truckload", "test", filepath.Join(t.TempDir(), "missing", "trace.json"))
	assert.Error(t, err)
}
