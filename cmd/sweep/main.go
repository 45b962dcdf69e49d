// Comando sweep: ejecuta un barrido de descuentos vencidos y termina (para cron).
// Usa el mismo candado que el job del API, así que puede convivir con él.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/Catalogo-servidores-api/internal/bootstrap"
	"github.com/jhoicas/Catalogo-servidores-api/pkg/config"
	"github.com/jhoicas/Catalogo-servidores-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	// Sin métricas: el proceso vive segundos y nadie las recolectaría
	cfg.Metrics.Enabled = false

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	services, cleanup, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		cleanup()
		log.Fatal().Err(err).Msg("inicializar servicios")
	}

	swept, err := services.Sweep.RunOnce(ctx)
	cleanup()
	if err != nil {
		log.Error().Err(err).Int("swept", swept).Msg("barrido con errores")
		os.Exit(1)
	}
	log.Info().Int("swept", swept).Msg("barrido terminado")
}
