package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Freight-api/pkg/config"
)

func TestPoolConfig_TamañoYTiemposDesdeConfig(t *testing.T) {
	pc, err := PoolConfig(config.DBConfig{
		Host: "127.0.0.1", Port: 5433, User: "app", Password: "x", DBName: "freight", SSLMode: "disable",
		MaxConns: 40, MinConns: 4, MaxConnLifetime: 2 * time.Hour, MaxConnIdleTime: 5 * time.Minute,
		HealthCheck: 30 * time.Second, ConnectTimeout: 3 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(40), pc.MaxConns)
	assert.Equal(t, int32(4), pc.MinConns)
	assert.Equal(t, 2*time.Hour, pc.MaxConnLifetime)
	assert.Equal(t, 5*time.Minute, pc.MaxConnIdleTime)
	assert.Equal(t, 30*time.Second, pc.HealthCheckPeriod)
	assert.Equal(t, 3*time.Second, pc.ConnConfig.ConnectTimeout)
	assert.Equal(t, "127.0.0.1", pc.ConnConfig.Host)
	assert.Equal(t, uint16(5433), pc.ConnConfig.Port)
	assert.Equal(t, "freight", pc.ConnConfig.Database)
	assert.NotNil(t, pc.AfterConnect)
}

func TestPoolConfig_DatabaseURL(t *testing.T) {
	pc, err := PoolConfig(config.DBConfig{DatabaseURL: "postgres://u:p@127.0.0.1:6543/prod?sslmode=disable", MaxConns: 8})
	require.NoError(t, err)
	assert.Equal(t, "prod", pc.ConnConfig.Database)
	assert.Equal(t, uint16(6543), pc.ConnConfig.Port)
	assert.Equal(t, int32(8), pc.MaxConns)
}
