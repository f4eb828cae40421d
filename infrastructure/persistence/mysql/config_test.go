package mysql

import (
	"testing"
	"time"

	"ordersvc/config"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func TestConfigDSN(t *testing.T) {
	cfg := NewConfig(config.DatabaseConfig{
		Host:     "db.internal",
		Port:     "3307",
		Username: "orders",
		Password: "p@ss",
		Database: "ordersvc",
	})

	parsed, err := gomysql.ParseDSN(cfg.DSN())
	require.NoError(t, err)
	assert.Equal(t, "db.internal:3307", parsed.Addr)
	assert.Equal(t, "orders", parsed.User)
	assert.Equal(t, "p@ss", parsed.Passwd)
	assert.Equal(t, "ordersvc", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.Equal(t, time.UTC, parsed.Loc)
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := &Config{MaxOpenConns: 4, MaxIdleConns: 8}
	cfg.applyDefaults()

	assert.Equal(t, 4, cfg.MaxOpenConns)
	assert.Equal(t, 4, cfg.MaxIdleConns)
	assert.Equal(t, DefaultConnMaxLifetime, cfg.ConnMaxLifetime)
	assert.Equal(t, DefaultConnMaxIdleTime, cfg.ConnMaxIdleTime)
}

func TestConfigLogLevel(t *testing.T) {
	tests := map[string]gormlogger.LogLevel{
		"debug":  gormlogger.Info,
		"warn":   gormlogger.Warn,
		"error":  gormlogger.Error,
		"silent": gormlogger.Silent,
		"":       gormlogger.Warn,
	}
	for level, want := range tests {
		cfg := &Config{LogLevel: level}
		assert.Equal(t, want, cfg.parseLogLevel(), level)
	}
}
