package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, cfg.Scan.Root)
	assert.Equal(t, "dae", cfg.Scan.Extension)
	assert.False(t, cfg.Scan.JSON)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_Overrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("scan.root", "/srv/assets")
	viper.Set("scan.extension", " .obj")
	viper.Set("server.port", 9090)
	viper.Set("log.json", true)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/assets", cfg.Scan.Root)
	assert.Equal(t, "obj", cfg.Scan.Extension)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Log.JSON)
}

func TestLoad_RelativeRootIsMadeAbsolute(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("scan.root", "assets")

	cfg, err := Load()
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(cfg.Scan.Root))
	assert.Equal(t, filepath.Join(wd, "assets"), cfg.Scan.Root)
}

func TestLoad_EnvBindings(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("SESSION_API_KEY", "secret")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://collector:4318")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Server.APIKey)
	assert.Equal(t, "http://collector:4318", cfg.Telemetry.Endpoint)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("empty extension", func(t *testing.T) {
		viper.Reset()
		t.Cleanup(viper.Reset)
		viper.Set("scan.extension", ".")

		_, err := Load()
		assert.ErrorContains(t, err, "scan.extension")
	})

	t.Run("bad port", func(t *testing.T) {
		viper.Reset()
		t.Cleanup(viper.Reset)
		viper.Set("server.port", 70000)

		_, err := Load()
		assert.ErrorContains(t, err, "server.port")
	})
}
