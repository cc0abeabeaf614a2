package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromMap_Defaults(t *testing.T) {
	cfg, err := FromMap(map[string]any{}, noEnv)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestFromMap_FileValues(t *testing.T) {
	raw := map[string]any{
		"history_limit": 10,
		"log":           map[string]any{"level": "debug"},
		"store": map[string]any{
			"driver": "redis",
			"redis":  map[string]any{"addr": "cache:6379", "ttl": "1h"},
			"redact": []any{"^email$", "token"},
		},
		"http": map[string]any{"lock_ttl": "5s"},
	}
	cfg, err := FromMap(raw, noEnv)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.HistoryLimit)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format, "unset keys keep defaults")
	assert.Equal(t, DriverRedis, cfg.Store.Driver)
	assert.Equal(t, "cache:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, "funnelkit:", cfg.Store.Redis.Prefix)
	assert.Equal(t, time.Hour, cfg.Store.Redis.TTL)
	assert.Equal(t, []string{"^email$", "token"}, cfg.Store.Redact)
	assert.Equal(t, 5*time.Second, cfg.HTTP.LockTTL)
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestFromMap_EnvOverrides(t *testing.T) {
	raw := map[string]any{"http": map[string]any{"port": 9000}}
	cfg, err := FromMap(raw, envMap(map[string]string{
		"FUNNELKIT_HTTP_PORT":         "9100",
		"FUNNELKIT_STORE_DRIVER":      "memory",
		"FUNNELKIT_STORE_REDIS_DB":    "3",
		"FUNNELKIT_STORE_REDACT":      "email, phone,",
		"FUNNELKIT_HTTP_LOCK_TTL":     "250ms",
		"FUNNELKIT_HISTORY_LIMIT":     "0",
		"FUNNELKIT_UNRELATED_SETTING": "ignored",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.HTTP.Port)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, 3, cfg.Store.Redis.DB)
	assert.Equal(t, []string{"email", "phone"}, cfg.Store.Redact)
	assert.Equal(t, 250*time.Millisecond, cfg.HTTP.LockTTL)
	assert.Equal(t, 0, cfg.HistoryLimit)
}

func TestFromMap_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"unknown key", map[string]any{"colour": "blue"}},
		{"unknown driver", map[string]any{"store": map[string]any{"driver": "postgres"}}},
		{"bad format", map[string]any{"store": map[string]any{"format": "toml"}}},
		{"bad log format", map[string]any{"log": map[string]any{"format": "xml"}}},
		{"negative history", map[string]any{"history_limit": -1}},
		{"bad duration", map[string]any{"http": map[string]any{"lock_ttl": "soon"}}},
		{"port range", map[string]any{"http": map[string]any{"port": 70000}}},
		{"bad redact pattern", map[string]any{"store": map[string]any{"redact": []any{"(?i)token", "["}}}},
		{"redis without addr", map[string]any{"store": map[string]any{"driver": "redis", "redis": map[string]any{"addr": ""}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromMap(tt.raw, noEnv)
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  driver: memory\nhttp:\n  port: 9999\n"), 0o644))

	t.Setenv("FUNNELKIT_HTTP_PORT", "7000")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, 7000, cfg.HTTP.Port)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err, "an explicit path must exist")

	require.NoError(t, os.WriteFile(path, []byte("store: [broken"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestLoad_DefaultFileIsOptional(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	require.NoError(t, os.WriteFile(DefaultFile, []byte("history_limit: 5\n"), 0o644))
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.HistoryLimit)
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "FUNNELKIT_STORE_REDIS_ADDR", EnvName("store.redis.addr"))
}
