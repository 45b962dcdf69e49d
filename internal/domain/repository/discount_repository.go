package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
)

// DiscountRepository persistencia de descuentos y de su asociación genérica con destinos
// (discount_id, target_type, target_id).
type DiscountRepository interface {
	Create(ctx context.Context, d *entity.Discount) error
	GetByID(ctx context.Context, id string) (*entity.Discount, error)
	// GetForUpdate bloquea la fila del descuento. nil, nil si no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.Discount, error)
	Update(ctx context.Context, d *entity.Discount) error
	Delete(ctx context.Context, id string) error

	ListTargets(ctx context.Context, discountID string) ([]entity.TargetRef, error)
	AttachTargets(ctx context.Context, discountID string, refs []entity.TargetRef) error
	DetachAll(ctx context.Context, discountID string) error

	// List servers: con destinos servidor; components: sin destinos servidor.
	List(ctx context.Context, scope entity.DiscountScope) ([]*entity.Discount, error)
	// ListExpiredIDs ids con end_date < now.
	ListExpiredIDs(ctx context.Context, now time.Time) ([]string, error)
}
