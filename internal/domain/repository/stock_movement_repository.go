package repository

import (
	"context"

	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
)

// MovementFilter filtro opcional del listado de movimientos.
type MovementFilter struct {
	ComponentType entity.ComponentKind
	ComponentID   string
}

// StockMovementRepository libro de movimientos de stock.
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	// GetForUpdate bloquea el movimiento. nil, nil si no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.StockMovement, error)
	Update(ctx context.Context, m *entity.StockMovement) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f MovementFilter) ([]*entity.StockMovement, error)
}
