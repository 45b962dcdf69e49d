package repository

import (
	"context"

	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
)

// AuditLogRepository registro de auditoría (solo inserción).
type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
}
