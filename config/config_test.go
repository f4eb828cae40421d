package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "ordersvc", cfg.App.Name)
	assert.Equal(t, "memory", cfg.Database.Type)
	assert.False(t, cfg.UsesMySQL())
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 3, cfg.Database.Retry.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.Database.Retry.InitialDelay)
	assert.Equal(t, "log", cfg.Worker.Publisher)
	assert.Equal(t, "order-events", cfg.Kafka.Topic)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
app:
  env: production
database:
  type: mysql
  port: "3307"
worker:
  publisher: kafka
kafka:
  brokers: ["localhost:9092"]
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	t.Setenv("ORDERSVC_SERVER_PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.UsesMySQL())
	assert.Equal(t, "3307", cfg.Database.Port)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown database", "database:\n  type: postgres\n"},
		{"kafka without brokers", "worker:\n  publisher: kafka\n"},
		{"unknown publisher", "worker:\n  publisher: sns\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
