package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xunialabs/carbon-dashboard/internal/domain"
)

const (
	testProject = "carbon-study"
	testToken   = "ya29.test-token"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("EE_PROJECT", testProject)
	t.Setenv("EE_TOKEN", testToken)
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, domain.BerkshireTaconic, cfg.Region)
	assert.Equal(t, "https://earthengine.googleapis.com", cfg.EEBaseURL)
	assert.Equal(t, testProject, cfg.EEProject)
	assert.Equal(t, testToken, cfg.EEToken)
	assert.Equal(t, "LANDSAT/LC08/C02/T1_L2", cfg.EECollection)
	assert.Equal(t, 30*time.Second, cfg.EETimeout)
	assert.Equal(t, 256, cfg.EECacheSize)
}

func TestLoad_CustomEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("ROI_BBOX", "-122.6,37.2,-121.8,37.9")
	t.Setenv("EE_BASE_URL", "https://imagery.example.com")
	t.Setenv("EE_COLLECTION", "LANDSAT/LC09/C02/T1_L2")
	t.Setenv("EE_TIMEOUT", "5s")
	t.Setenv("EE_CACHE_SIZE", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, domain.Region{West: -122.6, South: 37.2, East: -121.8, North: 37.9}, cfg.Region)
	assert.Equal(t, "https://imagery.example.com", cfg.EEBaseURL)
	assert.Equal(t, "LANDSAT/LC09/C02/T1_L2", cfg.EECollection)
	assert.Equal(t, 5*time.Second, cfg.EETimeout)
	assert.Equal(t, 0, cfg.EECacheSize)
}

func TestLoad_MissingProject(t *testing.T) {
	t.Setenv("EE_TOKEN", testToken)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EE_PROJECT")
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("EE_PROJECT", testProject)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EE_TOKEN")
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeTimeout(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EE_TIMEOUT", "-1s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EE_TIMEOUT")
}

func TestLoad_InvalidRegion(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ROI_BBOX", "-73.5,42.0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ROI_BBOX")
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LOG_FORMAT", "xml")

	_, err := Load()
	require.Error(t, err)
}
