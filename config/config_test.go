package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "oltsync.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Sync.Concurrency)
	assert.Equal(t, 3, cfg.Sync.MaxAttempts)
	assert.Equal(t, Duration(2*time.Second), cfg.Sync.InitialBackoff)
	assert.Equal(t, Duration(30*time.Second), cfg.Sync.MaxBackoff)
	assert.Equal(t, Duration(2*time.Minute), cfg.Sync.OLTTimeout)
	assert.Equal(t, Duration(10*time.Second), cfg.Sync.CommandTimeout)
	assert.Equal(t, Duration(30*time.Minute), cfg.Sync.Interval)
	assert.Equal(t, Duration(time.Minute), cfg.Sync.StatusInterval)
	assert.Equal(t, "olt.sync", cfg.NATS.SubjectPrefix)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `{
		"database": {"url": "postgres://file/db"},
		"sync": {"concurrency": 4, "olt_timeout": "45s", "interval": 600000000000}
	}`)
	t.Setenv(EnvDatabaseURL, "postgres://env/db")
	t.Setenv(EnvNATSURL, "nats://127.0.0.1:4222")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env/db", cfg.Database.URL)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.NATS.URL)
	assert.Equal(t, 4, cfg.Sync.Concurrency)
	assert.Equal(t, Duration(45*time.Second), cfg.Sync.OLTTimeout)
	assert.Equal(t, Duration(10*time.Minute), cfg.Sync.Interval)
	// untouched fields keep defaults
	assert.Equal(t, 3, cfg.Sync.MaxAttempts)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bad duration":  `{"sync": {"olt_timeout": "soon"}}`,
		"zero workers":  `{"sync": {"concurrency": 0}}`,
		"no attempts":   `{"sync": {"max_attempts": 0}}`,
		"backoff order": `{"sync": {"initial_backoff": "1m", "max_backoff": "1s"}}`,
		"not json":      `{`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestConcurrencyEnv(t *testing.T) {
	t.Setenv(EnvConcurrency, "2")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Sync.Concurrency)

	t.Setenv(EnvConcurrency, "many")
	_, err = Load("")
	assert.Error(t, err)
}
