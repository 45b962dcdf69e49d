package discount

import (
	"context"

	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción de BD con repositorios atados a ella.
// Cualquier error devuelto por fn provoca rollback de todo (precios, asociaciones, auditoría).
type TxRunner interface {
	RunDiscount(ctx context.Context, fn func(
		discountRepo repository.DiscountRepository,
		targetRepo repository.PriceTargetRepository,
		auditRepo repository.AuditLogRepository,
	) error) error
}

// Metrics contadores del motor de descuentos.
type Metrics interface {
	DiscountApplied(scope string, targets int)
	DiscountReverted(reason string, targets int)
}

type noopMetrics struct{}

func (noopMetrics) DiscountApplied(string, int)  {}
func (noopMetrics) DiscountReverted(string, int) {}
