package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"physbridge/internal/config"
	"physbridge/internal/physics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdoutSinkCloseLeavesStdoutOpen(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "stdout"))
	require.NoError(t, err)
	defer f.Close()
	saved := os.Stdout
	os.Stdout = f
	defer func() { os.Stdout = saved }()

	sink, err := openSink(context.Background(), config.Telemetry{Mode: config.TelemetryStdout}, nil)
	require.NoError(t, err)
	require.NotNil(t, sink)
	require.NoError(t, sink.Publish(physics.ResponseBatch{Tick: 1}))
	require.NoError(t, sink.Close())

	_, err = f.WriteString("still open\n")
	assert.NoError(t, err)
}

func TestNoSinkWhenTelemetryDisabled(t *testing.T) {
	sink, err := openSink(context.Background(), config.Telemetry{Mode: config.TelemetryNone}, nil)
	require.NoError(t, err)
	assert.Nil(t, sink)
}
