package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.RunMigrations)
	assert.Equal(t, 587, cfg.SMTPPort)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("CORS_ORIGINS", "https://shop.example.com, https://admin.example.com,")
	t.Setenv("RUN_MIGRATIONS", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.RunMigrations)
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.Origins())
}
