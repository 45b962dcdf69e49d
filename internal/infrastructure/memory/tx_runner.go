package memory

import (
	"context"

	"github.com/jhoicas/Catalogo-servidores-api/internal/application/discount"
	"github.com/jhoicas/Catalogo-servidores-api/internal/application/stock"
	"github.com/jhoicas/Catalogo-servidores-api/internal/application/usecase"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/repository"
)

var (
	_ discount.TxRunner        = (*TxRunner)(nil)
	_ stock.TxRunner           = (*TxRunner)(nil)
	_ usecase.CustomerTxRunner = (*TxRunner)(nil)
)

// TxRunner transacciones sobre el Store: todo o nada.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{store: s}
}

// RunDiscount transacción del motor de descuentos.
func (r *TxRunner) RunDiscount(ctx context.Context, fn func(
	discountRepo repository.DiscountRepository,
	targetRepo repository.PriceTargetRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	return r.store.run(ctx, func(acc access) error {
		return fn(&DiscountRepo{acc: acc}, &PriceTargetRepo{acc: acc}, &AuditLogRepo{acc: acc})
	})
}

// RunStock transacción del libro de stock.
func (r *TxRunner) RunStock(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	levelRepo repository.StockLevelRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	return r.store.run(ctx, func(acc access) error {
		return fn(
			&StockMovementRepo{acc: acc},
			&StockLevelRepo{acc: acc, now: r.store.nowFn},
			&AuditLogRepo{acc: acc},
		)
	})
}

// RunCustomer transacción de clientes.
func (r *TxRunner) RunCustomer(ctx context.Context, fn func(
	customerRepo repository.CustomerRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	return r.store.run(ctx, func(acc access) error {
		return fn(&CustomerRepo{acc: acc}, &AuditLogRepo{acc: acc})
	})
}
