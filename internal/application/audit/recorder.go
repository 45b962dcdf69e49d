// Package audit escribe el registro de auditoría de las mutaciones del núcleo.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/repository"
)

// Recorder construye y persiste entradas de AuditLog.
type Recorder struct {
	now func() time.Time
}

// NewRecorder construye el recorder con el reloj del sistema.
func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

// Record inserta la entrada con el repo recibido, que debe estar atado a la transacción
// de la mutación: si la transacción hace rollback, la auditoría también.
// oldValues/newValues se serializan a JSON; nil se guarda como null.
func (r *Recorder) Record(
	ctx context.Context,
	repo repository.AuditLogRepository,
	event, entityType, entityID string,
	oldValues, newValues any,
	meta entity.RequestMeta,
) error {
	oldJSON, err := marshal(oldValues)
	if err != nil {
		return fmt.Errorf("audit: serializar old_values: %w", err)
	}
	newJSON, err := marshal(newValues)
	if err != nil {
		return fmt.Errorf("audit: serializar new_values: %w", err)
	}
	var userID *string
	if meta.UserID != "" {
		uid := meta.UserID
		userID = &uid
	}
	log := &entity.AuditLog{
		ID:            uuid.New().String(),
		UserID:        userID,
		Event:         event,
		AuditableType: entityType,
		AuditableID:   entityID,
		OldValues:     oldJSON,
		NewValues:     newJSON,
		URL:           meta.URL,
		IPAddress:     meta.IPAddress,
		UserAgent:     meta.UserAgent,
		CreatedAt:     r.now(),
	}
	if err := repo.Create(ctx, log); err != nil {
		return fmt.Errorf("audit: %w", err)
	}
	return nil
}

func marshal(v any) (json.RawMessage, error) {
	if v == nil {
		return json.RawMessage("null"), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}
