package infrastructure

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowcellcli/internal/config"
)

func TestNoopProviders(t *testing.T) {
	p := NoopProviders()

	_, span := p.Tracer.Start(context.Background(), "noop")
	span.End()

	counter, err := p.Meter.Int64Counter("noop_total")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestInitializeOTel_StdoutTraces(t *testing.T) {
	var out bytes.Buffer
	p, err := initializeOTel(config.TelemetryConfig{TraceExporter: "stdout", SampleRatio: 1}, nil, &out)
	require.NoError(t, err)

	_, span := p.Tracer.Start(context.Background(), "boxplot")
	span.End()

	require.NoError(t, p.Shutdown(context.Background()))
	assert.Contains(t, out.String(), `"Name": "boxplot"`)
}

func TestInitializeOTel_UnknownExporter(t *testing.T) {
	_, err := initializeOTel(config.TelemetryConfig{TraceExporter: "zipkin"}, nil, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestShutdown_WritesMetricsTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowcell.prom")
	p, err := initializeOTel(config.TelemetryConfig{TraceExporter: "none", MetricsTextfile: path}, nil, &bytes.Buffer{})
	require.NoError(t, err)

	counter, err := p.Meter.Int64Counter("flowcell_artifacts_written")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	require.NoError(t, p.Shutdown(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "flowcell_artifacts_written_total")
	assert.Regexp(t, `flowcell_artifacts_written_total\{[^}]*\} 3`, string(data))
}
