package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "FridgeChef", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)
	assert.Equal(t, int64(20*1024*1024), cfg.Upload.MaxFileSize)
	assert.Equal(t, "fridgechef-session", cfg.Session.CookieName)
	assert.False(t, cfg.Backend.MockMode)
	assert.True(t, cfg.IsDevelopment())
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("FRIDGECHEF_BACKEND_MOCK_MODE", "true")
	t.Setenv("FRIDGECHEF_SERVER_PORT", "9999")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.Backend.MockMode)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	t.Run("MissingAppName_Fails", func(t *testing.T) {
		cfg := base()
		cfg.App.Name = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("InvalidPort_Fails", func(t *testing.T) {
		cfg := base()
		cfg.Server.Port = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("NoBackendURLWithoutMock_Fails", func(t *testing.T) {
		cfg := base()
		cfg.Backend.BaseURL = ""
		cfg.Backend.MockMode = false
		assert.Error(t, cfg.Validate())
	})

	t.Run("NoBackendURLWithMock_Passes", func(t *testing.T) {
		cfg := base()
		cfg.Backend.BaseURL = ""
		cfg.Backend.MockMode = true
		assert.NoError(t, cfg.Validate())
	})

	t.Run("NonPositiveUploadCeiling_Fails", func(t *testing.T) {
		cfg := base()
		cfg.Upload.MaxFileSize = 0
		assert.Error(t, cfg.Validate())
	})
}
