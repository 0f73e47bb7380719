package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "PREDICT_URL", "PREDICT_TIMEOUT", "SESSION_TTL", "ALLOWED_ORIGINS", "FORM_SCHEMA_PATH"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5050", cfg.Port)
	assert.Equal(t, "http://localhost:5000/predict", cfg.Predict.URL)
	assert.Zero(t, cfg.Predict.Timeout)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.NotEmpty(t, cfg.Form.Fields())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("PREDICT_URL", "http://model:9000/predict")
	t.Setenv("PREDICT_TIMEOUT", "15s")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("CONSOLE_DB_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://model:9000/predict", cfg.Predict.URL)
	assert.Equal(t, 15*time.Second, cfg.Predict.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.DBPath)
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	t.Setenv("PREDICT_TIMEOUT", "soon")
	_, err := Load()
	assert.Error(t, err)
}

func TestConfigureLogging(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)
	defer logrus.SetFormatter(&logrus.TextFormatter{})

	require.NoError(t, ConfigureLogging("debug", "json"))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)

	assert.Error(t, ConfigureLogging("loud", "text"))
}
