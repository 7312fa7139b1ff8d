package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "http://localhost:9090/view", cfg.App.ViewerURL())
	assert.Equal(t, "http://localhost:9090", cfg.Store.URL)
	assert.Equal(t, 512, cfg.App.QRSize)
	assert.True(t, cfg.App.FallbackInline)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
}

func TestLoadFile_FromEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"DB_DRIVER=SQLite\nPUBLIC_BASE_URL=https://assets.example.com/\nSTORE_TIMEOUT=3s\nQR_SIZE=abc\n",
	), 0o600))

	for _, key := range []string{"DB_DRIVER", "PUBLIC_BASE_URL", "STORE_TIMEOUT", "QR_SIZE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadFile(envFile)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "https://assets.example.com/view", cfg.App.ViewerURL())
	assert.Equal(t, 3*time.Second, cfg.Store.Timeout)
	assert.Equal(t, 512, cfg.App.QRSize, "unparseable values keep the default")
}

func TestLoadFile_EnvironmentWins(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("LOG_LEVEL=debug\n"), 0o600))
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadFile(envFile)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.App.LogLevel)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Driver: "mysql"},
		App:      AppConfig{ViewerPath: "/view"},
	}
	assert.Error(t, cfg.Validate())

	cfg.Database.Driver = DriverSQLite
	assert.NoError(t, cfg.Validate())

	cfg.App.ViewerPath = "view"
	assert.Error(t, cfg.Validate())
}

func TestDatabaseDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "assets", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=assets sslmode=disable", db.DatabaseDSN())
}
