package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesTraces(t *testing.T) {
	dir := t.TempDir()
	cleanup, err := Init(context.Background(), dir)
	require.NoError(t, err)

	_, span := Tracer().Start(context.Background(), "test-span")
	span.End()

	counter, err := Meter().Int64Counter("test.counter")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	cleanup()

	data, err := os.ReadFile(filepath.Join(dir, "lumina_traces.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "test-span")
}
