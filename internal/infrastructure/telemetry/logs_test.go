package telemetry_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fintech/wcm/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewLoggerProvider_Disabled(t *testing.T) {
	ctx := context.Background()

	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:     false,
		ServiceName: "wcm-engine",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, lp)

	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.ForceFlush(ctx))
	assert.NoError(t, lp.Shutdown(ctx))
}

func TestCreateBridgedLogger_ExportDisabled(t *testing.T) {
	ctx := context.Background()

	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:     false,
		ServiceName: "wcm-engine",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	// with export off the bridged logger still writes to the local output
	path := filepath.Join(t.TempDir(), "engine.log")
	log, err := telemetry.CreateBridgedLoggerFromConfig(&telemetry.BaseLoggerConfig{
		Level:      "info",
		Format:     "json",
		Output:     path,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}, lp, "wcm-engine")
	require.NoError(t, err)
	require.NotNil(t, log)

	log.Info("import completed")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "import completed")
}

func TestCreateBridgedLogger_RespectsLevel(t *testing.T) {
	ctx := context.Background()

	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:     false,
		ServiceName: "wcm-engine",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "engine.log")
	log, err := telemetry.CreateBridgedLoggerFromConfig(&telemetry.BaseLoggerConfig{
		Level:      "error",
		Format:     "json",
		Output:     path,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}, lp, "wcm-engine")
	require.NoError(t, err)

	log.Info("snapshot saved")
	log.Error("aggregation failed")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "snapshot saved")
	assert.Contains(t, string(data), "aggregation failed")
}

func TestCreateBridgedLogger_NilProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.log")
	log, err := telemetry.CreateBridgedLoggerFromConfig(&telemetry.BaseLoggerConfig{
		Level:      "info",
		Format:     "json",
		Output:     path,
		TimeFormat: "2006-01-02",
	}, nil, "wcm-engine")
	require.NoError(t, err)

	assert.NotPanics(t, func() { log.Info("alerts generated") })
}

func TestNewLoggerProvider_Exporting(t *testing.T) {
	// needs a running collector; covered by the local compose setup
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           true,
		CollectorEndpoint: "localhost:14317",
		ServiceName:       "wcm-engine",
		Insecure:          true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer func() { _ = lp.Shutdown(ctx) }()

	assert.True(t, lp.IsEnabled())

	log, err := telemetry.CreateBridgedLoggerFromConfig(&telemetry.BaseLoggerConfig{
		Level:      "info",
		Format:     "json",
		Output:     "stdout",
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}, lp, "wcm-engine")
	require.NoError(t, err)

	log.Info("import completed")
	assert.NoError(t, lp.ForceFlush(ctx))
}
