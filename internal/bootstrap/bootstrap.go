// Package bootstrap arma los casos de uso sobre el almacenamiento configurado.
// Lo comparten cmd/api y cmd/sweep.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jhoicas/Catalogo-servidores-api/internal/application/audit"
	"github.com/jhoicas/Catalogo-servidores-api/internal/application/discount"
	"github.com/jhoicas/Catalogo-servidores-api/internal/application/stock"
	"github.com/jhoicas/Catalogo-servidores-api/internal/application/usecase"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/repository"
	"github.com/jhoicas/Catalogo-servidores-api/internal/infrastructure/memory"
	"github.com/jhoicas/Catalogo-servidores-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Catalogo-servidores-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Catalogo-servidores-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Catalogo-servidores-api/internal/infrastructure/redislock"
	"github.com/jhoicas/Catalogo-servidores-api/pkg/config"
	"github.com/jhoicas/Catalogo-servidores-api/pkg/logger"
)

// txRunner lo implementan postgres.TxRunner y memory.TxRunner.
type txRunner interface {
	discount.TxRunner
	stock.TxRunner
	usecase.CustomerTxRunner
}

// repos repositorios fuera de transacción (lecturas y validaciones previas).
type repos struct {
	tx        txRunner
	targets   repository.PriceTargetRepository
	discounts repository.DiscountRepository
	levels    repository.StockLevelRepository
	movements repository.StockMovementRepository
	suppliers repository.SupplierRepository
	customers repository.CustomerRepository
}

// App casos de uso listos para el router o para un comando.
type App struct {
	Discounts *discount.UseCase
	Sweep     *discount.SweepJob
	Stock     *stock.UseCase
	Report    *stock.ReportUseCase
	Customers *usecase.CustomerUseCase
	Metrics   *metrics.Recorder // nil si METRICS_ENABLED=false
}

// Open conecta el almacenamiento (y Redis si está configurado) y arma los casos de uso.
// cleanup libera las conexiones; llamarlo siempre, incluso si err != nil es seguro.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (app *App, cleanup func(), err error) {
	var closers []func()
	cleanup = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var r repos
	switch cfg.App.Storage {
	case config.StorageMemory:
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		r = repos{
			tx:        memory.NewTxRunner(store),
			targets:   memory.NewPriceTargetRepository(store),
			discounts: memory.NewDiscountRepository(store),
			levels:    memory.NewStockLevelRepository(store),
			movements: memory.NewStockMovementRepository(store),
			suppliers: memory.NewSupplierRepository(store),
			customers: memory.NewCustomerRepository(store),
		}
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, cleanup, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		closers = append(closers, pool.Close)
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			return nil, cleanup, fmt.Errorf("esquema: %w", err)
		}
		r = repos{
			tx:        postgres.NewTxRunner(pool),
			targets:   postgres.NewPriceTargetRepository(pool),
			discounts: postgres.NewDiscountRepository(pool),
			levels:    postgres.NewStockLevelRepository(pool),
			movements: postgres.NewStockMovementRepository(pool),
			suppliers: postgres.NewSupplierRepository(pool),
			customers: postgres.NewCustomerRepository(pool),
		}
	}

	app = &App{}
	var (
		discountMetrics discount.Metrics
		stockMetrics    stock.Metrics
	)
	if cfg.Metrics.Enabled {
		app.Metrics = metrics.New("catalogo", true)
		discountMetrics = app.Metrics
		stockMetrics = app.Metrics
	}

	var locker discount.Locker
	if cfg.Redis.Enabled() {
		rdb, err := redislock.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, func() { _ = rdb.Close() })
		locker = redislock.NewLocker(rdb)
		log.Info().Str("redis", cfg.Redis.Addr).Msg("candado distribuido del barrido en Redis")
	}

	recorder := audit.NewRecorder()
	app.Discounts = discount.NewUseCase(r.tx, r.discounts, r.targets, recorder, discountMetrics)
	app.Sweep = discount.NewSweepJob(app.Discounts, locker, cfg.Sweep.Interval, cfg.Sweep.LockTTL, log)
	app.Stock = stock.NewUseCase(r.tx, r.movements, r.levels, r.targets, r.suppliers, recorder, stockMetrics)
	app.Report = stock.NewReportUseCase(r.levels, r.targets, infrapdf.NewMarotoPDFGenerator(cfg.App.Name))
	app.Customers = usecase.NewCustomerUseCase(r.tx, r.customers, recorder)
	return app, cleanup, nil
}
