package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-servidores-api/pkg/config"
	"github.com/jhoicas/Catalogo-servidores-api/pkg/logger"
)

// Con Redis inalcanzable el arranque falla: run debe volver con el error (sin salir del
// proceso ni quedarse esperando señales) para que sus defers liberen lo ya abierto.
func TestRun_ArranqueFallidoDevuelveError(t *testing.T) {
	cfg := &config.Config{
		App:     config.AppConfig{Env: "test", Name: "catalogo-test", Storage: config.StorageMemory},
		JWT:     config.JWTConfig{Secret: "s"},
		Sweep:   config.SweepConfig{LockTTL: time.Minute},
		Redis:   config.RedisConfig{Addr: "127.0.0.1:1"},
		Metrics: config.MetricsConfig{Enabled: false},
	}

	done := make(chan error, 1)
	go func() { done <- run(cfg, logger.Nop()) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis")
	case <-time.After(10 * time.Second):
		t.Fatal("run no volvió tras fallar el arranque")
	}
}
