package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./data/chests", cfg.Chest.Dir)
	assert.Equal(t, 10*time.Minute, cfg.Chest.Autosave)
	assert.False(t, cfg.Chest.ClearOnDeath)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Cache.UseRedis())
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.True(t, cfg.App.IsDevelopment())
	assert.False(t, cfg.App.IsProduction())
}

func TestLoad_Production(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	t.Run("requires api keys", func(t *testing.T) {
		_, err := Load()
		assert.ErrorContains(t, err, "API_KEYS")
	})

	t.Run("with api keys", func(t *testing.T) {
		t.Setenv("API_KEYS", "secret")
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.App.IsProduction())
		assert.False(t, cfg.App.IsDevelopment())
	})
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CHEST_DIR", "/srv/chests")
	t.Setenv("CHEST_DROP_ON_DEATH", "true")
	t.Setenv("CHEST_AUTOSAVE", "0")
	t.Setenv("CHEST_SILENT_AUTOSAVE", "true")
	t.Setenv("CACHE_TYPE", "redis")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("API_KEYS", "one,two")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/chests", cfg.Chest.Dir)
	assert.True(t, cfg.Chest.DropOnDeath)
	assert.Zero(t, cfg.Chest.Autosave)
	assert.True(t, cfg.Chest.SilentAutosave)
	assert.True(t, cfg.Cache.UseRedis())
	assert.Equal(t, "cache:6379", cfg.Cache.RedisAddr())
	assert.Equal(t, []string{"one", "two"}, cfg.Server.APIKeys)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("CHEST_AUTOSAVE", "often")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("negative autosave", func(t *testing.T) {
		t.Setenv("CHEST_AUTOSAVE", "-1m")
		_, err := Load()
		assert.Error(t, err)
	})
}
