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

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, BackendMemory, cfg.Persistence.Backend)
	assert.Equal(t, "@every 30s", cfg.AutoSave.Schedule)
	assert.True(t, cfg.AutoSave.Enabled)
	assert.False(t, cfg.Export.ArchiveEnabled)
	assert.False(t, cfg.NeedsDatabase())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("PERSISTENCE_BACKEND", "Redis")
	t.Setenv("REDIS_SNAPSHOT_TTL", "36h")
	t.Setenv("AUTOSAVE_SCHEDULE", "*/10 * * * * *")
	t.Setenv("EXPORT_ARCHIVE_ENABLED", "true")
	t.Setenv("DB_DSN", "postgres://u@localhost/swc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 2.5, cfg.Server.RateLimitRPS)
	assert.Equal(t, BackendRedis, cfg.Persistence.Backend)
	assert.Equal(t, 36*time.Hour, cfg.Redis.SnapshotTTL)
	assert.True(t, cfg.NeedsDatabase())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-port")
	t.Setenv("AUTOSAVE_ENABLED", "maybe")
	t.Setenv("REDIS_SNAPSHOT_TTL", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.True(t, cfg.AutoSave.Enabled)
	assert.Zero(t, cfg.Redis.SnapshotTTL)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:      ServerConfig{Port: "8080", RateLimitRPS: 1, RateLimitBurst: 1},
			Database:    DatabaseConfig{Host: "localhost"},
			Redis:       RedisConfig{Addr: "localhost:6379"},
			Persistence: PersistenceConfig{Backend: BackendMemory, SnapshotDir: "data"},
			AutoSave:    AutoSaveConfig{Enabled: true, Schedule: "@every 1m"},
		}
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(c *Config){
		"no port":            func(c *Config) { c.Server.Port = "" },
		"zero burst":         func(c *Config) { c.Server.RateLimitBurst = 0 },
		"unknown backend":    func(c *Config) { c.Persistence.Backend = "s3" },
		"file without dir":   func(c *Config) { c.Persistence.Backend = BackendFile; c.Persistence.SnapshotDir = "" },
		"redis without addr": func(c *Config) { c.Persistence.Backend = BackendRedis; c.Redis.Addr = "" },
		"postgres without db": func(c *Config) {
			c.Persistence.Backend = BackendPostgres
			c.Database.Host = ""
		},
		"archive without db": func(c *Config) { c.Export.ArchiveEnabled = true; c.Database.Host = "" },
		"bad schedule":       func(c *Config) { c.AutoSave.Schedule = "every now and then" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	c := valid()
	c.AutoSave.Enabled = false
	c.AutoSave.Schedule = "garbage"
	assert.NoError(t, c.Validate(), "schedule is ignored when auto-save is off")
}
