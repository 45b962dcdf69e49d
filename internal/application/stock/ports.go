package stock

import (
	"context"

	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción de BD con los repositorios del libro de stock.
type TxRunner interface {
	RunStock(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		levelRepo repository.StockLevelRepository,
		auditRepo repository.AuditLogRepository,
	) error) error
}

// Metrics contadores del libro de stock.
type Metrics interface {
	MovementRecorded(movementType string)
	StockRejected(op string)
}

type noopMetrics struct{}

func (noopMetrics) MovementRecorded(string) {}
func (noopMetrics) StockRejected(string)    {}
