package repository

import (
	"context"

	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
)

// StockLevelRepository nivel de stock por (component_type, component_id).
type StockLevelRepository interface {
	// GetForUpdate bloquea la fila. nil, nil si no existe.
	GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockLevel, error)
	// GetOrCreateForUpdate crea el nivel en 0 si no existe y lo devuelve bloqueado.
	GetOrCreateForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockLevel, error)
	Get(ctx context.Context, key entity.StockKey) (*entity.StockLevel, error)
	UpdateQuantity(ctx context.Context, key entity.StockKey, quantity int) error
	List(ctx context.Context) ([]*entity.StockLevel, error)
}
