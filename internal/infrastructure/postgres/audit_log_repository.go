package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo inserta en audit_logs. Usado con la tx de la mutación auditada.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador.
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Create persiste la entrada.
func (r *AuditLogRepo) Create(ctx context.Context, log *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, user_id, event, auditable_type, auditable_id,
		                        old_values, new_values, url, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		log.ID, log.UserID, log.Event, log.AuditableType, log.AuditableID,
		[]byte(log.OldValues), []byte(log.NewValues), log.URL, log.IPAddress, log.UserAgent, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}
