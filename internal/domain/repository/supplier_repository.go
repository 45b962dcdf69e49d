package repository

import (
	"context"

	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
)

// SupplierRepository consulta de proveedores (el CRUD vive fuera del núcleo).
type SupplierRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
}
