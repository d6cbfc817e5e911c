package telemetry

import (
	"context"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denysvitali/meshscan/internal/models"
	"github.com/denysvitali/meshscan/pkg/config"
)

func TestReportScanRequest(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	ReportScanRequest(context.Background(), logger, models.ScanRequest{
		Path:      "/srv/assets",
		Extension: "dae",
	})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, "scan_request", entry.Data["operation"])
	assert.Equal(t, "/srv/assets", entry.Data["scan.root"])
	assert.Equal(t, "dae", entry.Data["scan.extension"])
	assert.Contains(t, entry.Data["json_data"], `"path":"/srv/assets"`)
}

func TestReportScanResponse(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	ReportScanResponse(context.Background(), logger, models.ScanResponse{
		Root:      "/srv/assets",
		Extension: "dae",
		Meshes:    []string{"/srv/assets/a.dae", "/srv/assets/b/c.dae"},
		Count:     2,
	})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "scan_response", entry.Data["operation"])
	assert.Equal(t, "/srv/assets", entry.Data["scan.root"])
	assert.Equal(t, int64(2), entry.Data["scan.count"])
	assert.Contains(t, entry.Data["json_data"], `"count":2`)
}

func TestInitialize_EndpointReachesExporterEnv(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "none")
	t.Setenv("OTEL_LOGS_EXPORTER", "none")
	t.Setenv(endpointEnv, "")

	logger, _ := test.NewNullLogger()
	cleanup, err := Initialize(config.TelemetryConfig{
		Enabled:  true,
		Endpoint: "http://collector:4318",
	}, logger)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	assert.Equal(t, "http://collector:4318", os.Getenv(endpointEnv))
}

func TestInitialize_KeepsEnvWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "none")
	t.Setenv("OTEL_LOGS_EXPORTER", "none")
	t.Setenv(endpointEnv, "http://from-env:4318")

	logger, _ := test.NewNullLogger()
	cleanup, err := Initialize(config.TelemetryConfig{Enabled: true}, logger)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	assert.Equal(t, "http://from-env:4318", os.Getenv(endpointEnv))
}
