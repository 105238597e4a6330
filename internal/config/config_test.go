package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		configPathEnv, databaseURLEnv, sqlitePathEnv, serverPortEnv, allowedOriginsEnv,
		jwtSecretEnv, sessionTTLEnv, timezoneEnv, logLevelEnv, reportLayoutEnv,
		dbMaxConnsEnv, dbConnTimeoutEnv,
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "UTC", cfg.Freshness.Location().String())
	assert.Equal(t, "2/1/2006", cfg.Report.DateLayout)
	assert.Equal(t, 720, cfg.Auth.SessionTTLMinutes)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.Equal(t, 5*time.Second, cfg.Database.ConnectTimeout())
	assert.Equal(t, 30*time.Minute, cfg.Database.MaxConnIdleTime())
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "frigora.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9090"
database:
  url: postgres://file/db
  maxConns: 4
  minConns: 1
freshness:
  timezone: Asia/Jakarta
report:
  dateLayout: "2006-01-02"
`), 0o600))

	t.Setenv(configPathEnv, path)
	t.Setenv(databaseURLEnv, "postgres://env/db")
	t.Setenv(sessionTTLEnv, "30")
	t.Setenv(dbConnTimeoutEnv, "2")
	t.Setenv(dbMaxConnsEnv, "many")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "postgres://env/db", cfg.Database.URL)
	assert.Equal(t, "Asia/Jakarta", cfg.Freshness.Location().String())
	assert.Equal(t, "2006-01-02", cfg.Report.DateLayout)
	assert.Equal(t, 30, cfg.Auth.SessionTTLMinutes)
	assert.Equal(t, int32(4), cfg.Database.MaxConns)
	assert.Equal(t, int32(1), cfg.Database.MinConns)
	assert.Equal(t, 2*time.Second, cfg.Database.ConnectTimeout())
}

func TestLoad_UnknownTimezoneFallsBackToUTC(t *testing.T) {
	clearEnv(t)
	t.Setenv(timezoneEnv, "Mars/Olympus_Mons")

	cfg := Load()
	assert.Equal(t, "UTC", cfg.Freshness.Timezone)
	assert.Equal(t, "UTC", cfg.Freshness.Location().String())
}

func TestLoad_UnreadableFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg := Load()
	assert.Equal(t, "8080", cfg.Server.Port)
}
