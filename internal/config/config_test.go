package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patentdesk/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Wizard.PendingTimeout)
	assert.Equal(t, int64(1500), cfg.Wizard.ApplicationFee)
	assert.Equal(t, "TR", cfg.Wizard.HomeCountry)
	assert.Equal(t, 2, cfg.Upload.MaxClaims)
	assert.Equal(t, 1, cfg.Upload.MaxAbstract)
	assert.Equal(t, 24*time.Hour, cfg.Draft.TTL)
	assert.Equal(t, "@every 1h", cfg.Janitor.Schedule)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("PATENTDESK_WIZARD_APPLICATION_FEE", "2750")
	t.Setenv("PATENTDESK_DRAFT_PROVIDER", "memory")
	t.Setenv("PATENTDESK_UPLOAD_MAX_DRAWINGS", "5")
	t.Setenv("PATENTDESK_CORS_ALLOWED_ORIGINS", " https://portal.example.com , ,https://admin.example.com")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, int64(2750), cfg.Wizard.ApplicationFee)
	assert.Equal(t, "memory", cfg.Draft.Provider)
	assert.Equal(t, 5, cfg.Upload.MaxDrawings)
	assert.Equal(t, []string{"https://portal.example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PlatformPort(t *testing.T) {
	t.Run("PORT used when server port unset", func(t *testing.T) {
		t.Setenv("PORT", "9000")
		t.Setenv("PATENTDESK_SERVER_PORT", "")

		cfg, err := config.Load()
		require.NoError(t, err)
		assert.Equal(t, ":9000", cfg.Server.Port)
	})

	t.Run("explicit server port wins", func(t *testing.T) {
		t.Setenv("PORT", "9000")
		t.Setenv("PATENTDESK_SERVER_PORT", ":7000")

		cfg, err := config.Load()
		require.NoError(t, err)
		assert.Equal(t, ":7000", cfg.Server.Port)
	})
}

func TestDBConfig_DSN(t *testing.T) {
	db := config.DBConfig{
		Host: "db", Port: 5432, User: "pd", Password: "secret", Name: "patents", SSLMode: "require",
	}
	assert.Equal(t, "postgres://pd:secret@db:5432/patents?sslmode=require", db.DSN())
}
