package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/jhoicas/Catalogo-servidores-api/docs"
	"github.com/jhoicas/Catalogo-servidores-api/internal/bootstrap"
	httpRouter "github.com/jhoicas/Catalogo-servidores-api/internal/interfaces/http"
	"github.com/jhoicas/Catalogo-servidores-api/pkg/config"
	"github.com/jhoicas/Catalogo-servidores-api/pkg/logger"
)

// @title                       Catálogo de Servidores API
// @version                     1.0
// @description                 Descuentos sobre servidores y componentes, ledger de stock y clientes.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	if cfg.JWT.Secret == "" {
		panic("JWT_SECRET es requerido")
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("inicializar servicios")
	}
	log.Info().Msg("aplicación detenida")
}

// run arma los servicios, sirve HTTP hasta SIGINT/SIGTERM y libera todo al volver,
// también cuando el arranque falla.
func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	services, cleanup, err := bootstrap.Open(ctx, cfg, log)
	defer cleanup()
	if err != nil {
		return err
	}

	// Barrido periódico de descuentos vencidos (SweepJob.Start no hace nada con intervalo 0)
	go services.Sweep.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Catálogo de Servidores API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	deps := httpRouter.RouterDeps{
		DiscountUC: services.Discounts,
		SweepJob:   services.Sweep,
		StockUC:    services.Stock,
		ReportUC:   services.Report,
		CustomerUC: services.Customers,
		JWTSecret:  cfg.JWT.Secret,
	}
	if services.Metrics != nil {
		deps.Metrics = services.Metrics
		deps.MetricsHandler = services.Metrics.Handler()
		deps.MetricsPath = cfg.Metrics.Path
	}
	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	return nil
}
