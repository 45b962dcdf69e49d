package bootstrap_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-servidores-api/internal/bootstrap"
	"github.com/jhoicas/Catalogo-servidores-api/pkg/config"
	"github.com/jhoicas/Catalogo-servidores-api/pkg/logger"
)

func memoryConfig(metrics bool) *config.Config {
	return &config.Config{
		App:     config.AppConfig{Env: "test", Name: "catalogo-test", Storage: config.StorageMemory},
		Sweep:   config.SweepConfig{Interval: 0, LockTTL: time.Minute},
		Metrics: config.MetricsConfig{Enabled: metrics, Path: "/metrics"},
	}
}

func TestOpen_MemoriaArmaTodosLosCasosDeUso(t *testing.T) {
	app, cleanup, err := bootstrap.Open(context.Background(), memoryConfig(true), logger.Nop())
	defer cleanup()
	require.NoError(t, err)

	assert.NotNil(t, app.Discounts)
	assert.NotNil(t, app.Sweep)
	assert.NotNil(t, app.Stock)
	assert.NotNil(t, app.Report)
	assert.NotNil(t, app.Customers)
	assert.NotNil(t, app.Metrics)

	swept, err := app.Sweep.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, swept)
}

func TestOpen_SinMetricas(t *testing.T) {
	app, cleanup, err := bootstrap.Open(context.Background(), memoryConfig(false), logger.Nop())
	defer cleanup()
	require.NoError(t, err)
	assert.Nil(t, app.Metrics)

	list, err := app.Customers.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOpen_RedisInalcanzableDevuelveErrorYCleanupSeguro(t *testing.T) {
	cfg := memoryConfig(false)
	cfg.Redis = config.RedisConfig{Addr: "127.0.0.1:1"}

	app, cleanup, err := bootstrap.Open(context.Background(), cfg, logger.Nop())
	require.Error(t, err)
	assert.Nil(t, app)
	require.NotNil(t, cleanup)
	assert.NotPanics(t, cleanup)
}
