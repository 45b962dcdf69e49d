package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
)

// PriceTargetRepository precios de servidores y componentes (una tabla por tipo, resuelta
// con el mapa cerrado de entity). Usado dentro de transacciones del motor de descuentos.
type PriceTargetRepository interface {
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE). nil, nil si no existe.
	GetForUpdate(ctx context.Context, ref entity.TargetRef) (*entity.PriceTarget, error)
	Get(ctx context.Context, ref entity.TargetRef) (*entity.PriceTarget, error)
	UpdatePrice(ctx context.Context, ref entity.TargetRef, price decimal.Decimal) error
	ListByType(ctx context.Context, t entity.TargetType) ([]*entity.PriceTarget, error)
	// NamesByIDs nombre de cada id existente del tipo indicado.
	NamesByIDs(ctx context.Context, t entity.TargetType, ids []string) (map[string]string, error)
}
