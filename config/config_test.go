package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	want := DefaultConfig()
	assert.Equal(t, want.Server.Port, cfg.Server.Port)
	assert.Equal(t, "cashflow.db", cfg.Storage.DBPath)
	assert.Equal(t, CacheMemory, cfg.Cache.Backend)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "cashflow.toml")
	doc := `
[server]
port = 9090

[storage]
db_path = "/var/lib/cashflow.db"

[cache]
backend = "none"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/var/lib/cashflow.db", cfg.Storage.DBPath)
	assert.Equal(t, CacheNone, cfg.Cache.Backend)
	assert.Equal(t, 15, cfg.Server.ReadTimeoutSeconds, "unset keys keep defaults")
}

func TestLoad_DotEnvApplied(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CASHFLOW_PORT=7070\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("CASHFLOW_PORT") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoad_BadTOML(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport ="), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	err := ApplyEnv(&cfg, envMap(map[string]string{
		"CASHFLOW_PORT":          "8181",
		"CASHFLOW_DB":            ":memory:",
		"CASHFLOW_START":         "2030-07",
		"CASHFLOW_REDIS_ADDR":    "redis:6379",
		"CASHFLOW_KAFKA_BROKERS": "k1:9092, k2:9092,",
	}))
	require.NoError(t, err)

	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, ":memory:", cfg.Storage.DBPath)
	assert.Equal(t, "2030-07", cfg.Simulation.Start)
	assert.Equal(t, CacheRedis, cfg.Cache.Backend, "a redis address selects the redis backend")
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.KafkaBrokers)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv_BadPort(t *testing.T) {
	cfg := DefaultConfig()
	err := ApplyEnv(&cfg, envMap(map[string]string{"CASHFLOW_PORT": "eighty"}))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Backend = CacheRedis
	assert.Error(t, cfg.Validate(), "redis without address")

	cfg = DefaultConfig()
	cfg.Cache.Backend = "memcached"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Simulation.Start = "soon"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())
}

func TestSave_RoundTrip(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "cashflow.toml")

	cfg := DefaultConfig()
	cfg.Server.Port = 6060
	cfg.Events.KafkaBrokers = []string{"k:9092"}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6060, loaded.Server.Port)
	assert.Equal(t, []string{"k:9092"}, loaded.Events.KafkaBrokers)
}
