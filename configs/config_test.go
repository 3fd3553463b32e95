package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "0123456789abcdef0123456789abcdef")

	cfg := LoadConfig()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "https://app.metricool.com/api", cfg.Metricool.BaseURL)
	assert.Equal(t, "metricool", cfg.Metricool.CredentialName)
	assert.Equal(t, 30*time.Second, cfg.Metricool.Timeout)
	assert.Equal(t, "openai", cfg.AI.CredentialName)
	assert.Equal(t, 20, cfg.Research.HistoryLimit)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("METRICOOL_BASE_URL", "http://localhost:9999/api/")
	t.Setenv("METRICOOL_WORKSPACE_ID", "ws-1")
	t.Setenv("RESEARCH_HISTORY_LIMIT", "5")
	t.Setenv("R2_PUBLIC_URL", "https://cdn.example.com/")

	cfg := LoadConfig()

	assert.Equal(t, "http://localhost:9999/api", cfg.Metricool.BaseURL)
	assert.Equal(t, "ws-1", cfg.Metricool.WorkspaceID)
	assert.Equal(t, 5, cfg.Research.HistoryLimit)
	assert.Equal(t, "https://cdn.example.com", cfg.R2.PublicURL)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		SecretKey: "0123456789abcdef",
		Metricool: Metricool{CredentialName: "metricool"},
		Research:  Research{HistoryLimit: 20},
	}
	require.NoError(t, cfg.Validate())

	cfg.SecretKey = "short"
	assert.Error(t, cfg.Validate())

	cfg.SecretKey = "0123456789abcdef"
	cfg.Research.HistoryLimit = 0
	assert.Error(t, cfg.Validate())
}
