package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DATABASE", "market")
	t.Setenv("DB_USER", "market")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8000", cfg.Port)
	require.Equal(t, "postgres", cfg.DBType)
	require.Equal(t, 5*time.Minute, cfg.OrderNotifyDelay)
	require.Equal(t, 24*time.Hour, cfg.PasswordResetTTL)
	require.Equal(t, 5, cfg.NotifyMaxAttempts)
	require.True(t, cfg.RunDispatcher)
	require.Empty(t, cfg.RedisURL)
}

func TestLoadRequiresDatabase(t *testing.T) {
	t.Setenv("DB_DATABASE", "")
	_, err := Load()
	require.ErrorContains(t, err, "DB_DATABASE")
}

func TestLoadSQLiteWithoutUser(t *testing.T) {
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DB_DATABASE", "market.db")
	t.Setenv("DB_USER", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.DBType)
}

func TestLoadSMTPNeedsSender(t *testing.T) {
	t.Setenv("DB_DATABASE", "market")
	t.Setenv("DB_USER", "market")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "")

	_, err := Load()
	require.ErrorContains(t, err, "SMTP_FROM")
}

func TestLoadParsesDurationsAndFallsBack(t *testing.T) {
	t.Setenv("DB_DATABASE", "market")
	t.Setenv("DB_USER", "market")
	t.Setenv("ORDER_NOTIFY_DELAY", "90s")
	t.Setenv("IMPORT_TIMEOUT", "not-a-duration")
	t.Setenv("RUN_DISPATCHER", "false")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 90*time.Second, cfg.OrderNotifyDelay)
	require.Equal(t, 30*time.Second, cfg.ImportTimeout)
	require.False(t, cfg.RunDispatcher)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DB_TYPE=sqlite\nDB_DATABASE=fromfile.db\n"), 0o600))

	t.Setenv("ENV_FILE", path)
	// godotenv does not override variables that are already set
	t.Setenv("DB_TYPE", "")
	t.Setenv("DB_DATABASE", "")
	os.Unsetenv("DB_TYPE")
	os.Unsetenv("DB_DATABASE")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "fromfile.db", cfg.DBDatabase)
}
