package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Catalogo-servidores-api/internal/application/discount"
	"github.com/jhoicas/Catalogo-servidores-api/internal/application/stock"
	"github.com/jhoicas/Catalogo-servidores-api/internal/application/usecase"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/repository"
)

// Ensure TxRunner implements discount.TxRunner, stock.TxRunner and usecase.CustomerTxRunner.
var (
	_ discount.TxRunner        = (*TxRunner)(nil)
	_ stock.TxRunner           = (*TxRunner)(nil)
	_ usecase.CustomerTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// run inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunDiscount transacción con repos de descuentos, precios y auditoría.
func (r *TxRunner) RunDiscount(ctx context.Context, fn func(
	discountRepo repository.DiscountRepository,
	targetRepo repository.PriceTargetRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewDiscountRepository(tx), NewPriceTargetRepository(tx), NewAuditLogRepository(tx))
	})
}

// RunStock transacción con repos de movimientos, niveles y auditoría.
func (r *TxRunner) RunStock(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	levelRepo repository.StockLevelRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewStockMovementRepository(tx), NewStockLevelRepository(tx), NewAuditLogRepository(tx))
	})
}

// RunCustomer transacción con repos de clientes y auditoría.
func (r *TxRunner) RunCustomer(ctx context.Context, fn func(
	customerRepo repository.CustomerRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewCustomerRepository(tx), NewAuditLogRepository(tx))
	})
}
