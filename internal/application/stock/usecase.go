package stock

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Catalogo-servidores-api/internal/application/audit"
	"github.com/jhoicas/Catalogo-servidores-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/repository"
	"github.com/jhoicas/Catalogo-servidores-api/pkg/validation"
)

// UseCase libro de stock: cada movimiento in/out se concilia con el StockLevel del componente
// en la misma transacción, con bloqueo de fila (SELECT FOR UPDATE). El nivel nunca queda negativo.
type UseCase struct {
	tx        TxRunner
	movements repository.StockMovementRepository
	levels    repository.StockLevelRepository
	targets   repository.PriceTargetRepository
	suppliers repository.SupplierRepository
	audit     *audit.Recorder
	metrics   Metrics
	now       func() time.Time
}

// NewUseCase construye el caso de uso. metrics puede ser nil.
func NewUseCase(
	tx TxRunner,
	movements repository.StockMovementRepository,
	levels repository.StockLevelRepository,
	targets repository.PriceTargetRepository,
	suppliers repository.SupplierRepository,
	recorder *audit.Recorder,
	metrics Metrics,
) *UseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &UseCase{
		tx:        tx,
		movements: movements,
		levels:    levels,
		targets:   targets,
		suppliers: suppliers,
		audit:     recorder,
		metrics:   metrics,
		now:       time.Now,
	}
}

// RecordMovement registra un movimiento y ajusta el nivel. Una salida mayor que el nivel
// devuelve ErrInsufficientStock sin persistir nada.
func (uc *UseCase) RecordMovement(ctx context.Context, meta entity.RequestMeta, in dto.MovementRequest) (*dto.MovementResponse, error) {
	kind, err := uc.validate(ctx, in)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		ComponentID:   in.ComponentID,
		ComponentType: kind,
		Quantity:      in.Quantity,
		MovementType:  in.MovementType,
		SupplierID:    in.SupplierID,
		Date:          in.Date,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = uc.tx.RunStock(ctx, func(
		movRepo repository.StockMovementRepository,
		levelRepo repository.StockLevelRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		// Crea el nivel en 0 si es el primer movimiento del componente y lo bloquea
		level, err := levelRepo.GetOrCreateForUpdate(ctx, mov.Key())
		if err != nil {
			return err
		}
		qty := level.Quantity + mov.Delta()
		if qty < 0 {
			return domain.ErrInsufficientStock
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		if err := levelRepo.UpdateQuantity(ctx, mov.Key(), qty); err != nil {
			return err
		}
		return uc.audit.Record(ctx, auditRepo, entity.AuditCreated, entity.AuditableStockMovement, mov.ID,
			nil, snapshotOf(mov), meta)
	})
	if err != nil {
		uc.rejected("record", err)
		return nil, domain.Technical("registrar movimiento", err)
	}
	uc.metrics.MovementRecorded(mov.MovementType)
	return toMovementResponse(mov), nil
}

// UpdateMovement deshace el efecto del movimiento anterior sobre su nivel y aplica el nuevo,
// que puede apuntar a otro componente. Si cualquiera de los dos dejaría un nivel negativo no cambia nada.
func (uc *UseCase) UpdateMovement(ctx context.Context, meta entity.RequestMeta, id string, in dto.MovementRequest) (*dto.MovementResponse, error) {
	if !validation.IsUUID(id) {
		return nil, domain.NewNotFound("movimiento", id)
	}
	kind, err := uc.validate(ctx, in)
	if err != nil {
		return nil, err
	}
	var mov *entity.StockMovement
	err = uc.tx.RunStock(ctx, func(
		movRepo repository.StockMovementRepository,
		levelRepo repository.StockLevelRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		var err error
		mov, err = movRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.NewNotFound("movimiento", id)
		}
		before := snapshotOf(mov)
		oldKey, oldDelta := mov.Key(), mov.Delta()

		mov.ComponentID = in.ComponentID
		mov.ComponentType = kind
		mov.Quantity = in.Quantity
		mov.MovementType = in.MovementType
		mov.SupplierID = in.SupplierID
		mov.Date = in.Date
		mov.UpdatedAt = uc.now()
		newKey := mov.Key()

		levels, err := lockLevels(ctx, levelRepo, oldKey, newKey)
		if err != nil {
			return err
		}
		// Con el mismo componente solo cuenta el neto: subir una entrada ya consumida es válido
		levels[oldKey].Quantity -= oldDelta
		levels[newKey].Quantity += mov.Delta()
		for _, l := range levels {
			if l.Quantity < 0 {
				return domain.ErrInsufficientStock
			}
		}
		if err := movRepo.Update(ctx, mov); err != nil {
			return err
		}
		if err := uc.audit.Record(ctx, auditRepo, entity.AuditUpdated, entity.AuditableStockMovement, id,
			before, snapshotOf(mov), meta); err != nil {
			return err
		}
		for key, l := range levels {
			if err := levelRepo.UpdateQuantity(ctx, key, l.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.rejected("update", err)
		return nil, domain.Technical("actualizar movimiento", err)
	}
	return toMovementResponse(mov), nil
}

// DeleteMovement borra el movimiento deshaciendo su efecto: borrar una entrada exige que el
// nivel aún la cubra; borrar una salida devuelve las unidades.
func (uc *UseCase) DeleteMovement(ctx context.Context, meta entity.RequestMeta, id string) error {
	if !validation.IsUUID(id) {
		return domain.NewNotFound("movimiento", id)
	}
	err := uc.tx.RunStock(ctx, func(
		movRepo repository.StockMovementRepository,
		levelRepo repository.StockLevelRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		mov, err := movRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.NewNotFound("movimiento", id)
		}
		level, err := levelRepo.GetForUpdate(ctx, mov.Key())
		if err != nil {
			return err
		}
		if level == nil {
			return domain.NewNotFound("nivel de stock", mov.ComponentID)
		}
		qty := level.Quantity - mov.Delta()
		if qty < 0 {
			return domain.ErrInsufficientStock
		}
		if err := levelRepo.UpdateQuantity(ctx, mov.Key(), qty); err != nil {
			return err
		}
		if err := movRepo.Delete(ctx, id); err != nil {
			return err
		}
		return uc.audit.Record(ctx, auditRepo, entity.AuditDeleted, entity.AuditableStockMovement, id,
			snapshotOf(mov), nil, meta)
	})
	if err != nil {
		uc.rejected("delete", err)
		return domain.Technical("eliminar movimiento", err)
	}
	return nil
}

// GetMovement devuelve un movimiento por id.
func (uc *UseCase) GetMovement(ctx context.Context, id string) (*dto.MovementResponse, error) {
	if !validation.IsUUID(id) {
		return nil, domain.NewNotFound("movimiento", id)
	}
	mov, err := uc.movements.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Technical("obtener movimiento", err)
	}
	if mov == nil {
		return nil, domain.NewNotFound("movimiento", id)
	}
	return toMovementResponse(mov), nil
}

// ListMovements movimientos, opcionalmente filtrados por componente.
func (uc *UseCase) ListMovements(ctx context.Context, componentType, componentID string) ([]dto.MovementResponse, error) {
	var f repository.MovementFilter
	if componentType != "" {
		kind, ok := entity.ParseComponentKind(componentType)
		if !ok {
			return nil, domain.NewValidationError("component_type", "tipo de componente desconocido")
		}
		f.ComponentType = kind
	}
	if componentID != "" && !validation.IsUUID(componentID) {
		return nil, domain.NewValidationError("component_id", "debe ser un UUID")
	}
	f.ComponentID = componentID
	list, err := uc.movements.List(ctx, f)
	if err != nil {
		return nil, domain.Technical("listar movimientos", err)
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toMovementResponse(m))
	}
	return out, nil
}

// GetLevel nivel actual de un componente. Un componente sin movimientos tiene nivel 0.
func (uc *UseCase) GetLevel(ctx context.Context, componentType, componentID string) (*dto.StockLevelResponse, error) {
	kind, ok := entity.ParseComponentKind(componentType)
	if !ok {
		return nil, domain.NewValidationError("component_type", "tipo de componente desconocido")
	}
	if !validation.IsUUID(componentID) {
		return nil, domain.NewNotFound(string(kind), componentID)
	}
	key := entity.StockKey{ComponentType: kind, ComponentID: componentID}
	level, err := uc.levels.Get(ctx, key)
	if err != nil {
		return nil, domain.Technical("obtener nivel", err)
	}
	if level == nil {
		pt, err := uc.targets.Get(ctx, entity.ComponentRef(kind, componentID))
		if err != nil {
			return nil, domain.Technical("obtener componente", err)
		}
		if pt == nil {
			return nil, domain.NewNotFound(string(kind), componentID)
		}
		level = &entity.StockLevel{ComponentID: componentID, ComponentType: kind}
	}
	return &dto.StockLevelResponse{
		ComponentID:   level.ComponentID,
		ComponentType: string(level.ComponentType),
		Quantity:      level.Quantity,
		UpdatedAt:     level.UpdatedAt,
	}, nil
}

// validate campos, tipo de componente, existencia del componente y del proveedor.
func (uc *UseCase) validate(ctx context.Context, in dto.MovementRequest) (entity.ComponentKind, error) {
	fields := validation.Struct(in)
	if fields == nil {
		fields = map[string]string{}
	}
	kind, ok := entity.ParseComponentKind(in.ComponentType)
	if !ok && in.ComponentType != "" {
		fields["component_type"] = "tipo de componente desconocido"
	}
	if len(fields) > 0 {
		return "", &domain.ValidationError{Fields: fields}
	}

	pt, err := uc.targets.Get(ctx, entity.ComponentRef(kind, in.ComponentID))
	if err != nil {
		return "", domain.Technical("obtener componente", err)
	}
	if pt == nil {
		return "", domain.NewNotFound(string(kind), in.ComponentID)
	}
	if in.SupplierID != nil {
		s, err := uc.suppliers.GetByID(ctx, *in.SupplierID)
		if err != nil {
			return "", domain.Technical("obtener proveedor", err)
		}
		if s == nil {
			return "", domain.NewNotFound("proveedor", *in.SupplierID)
		}
	}
	return kind, nil
}

func (uc *UseCase) rejected(op string, err error) {
	if errors.Is(err, domain.ErrInsufficientStock) {
		uc.metrics.StockRejected(op)
	}
}

// lockLevels bloquea los niveles de oldKey y newKey en orden (tipo, id). El nivel viejo debe
// existir; el nuevo se crea en 0 si hace falta.
func lockLevels(ctx context.Context, repo repository.StockLevelRepository, oldKey, newKey entity.StockKey) (map[entity.StockKey]*entity.StockLevel, error) {
	keys := []entity.StockKey{oldKey}
	if newKey != oldKey {
		keys = append(keys, newKey)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	levels := make(map[entity.StockKey]*entity.StockLevel, len(keys))
	for _, key := range keys {
		var (
			l   *entity.StockLevel
			err error
		)
		if key == oldKey {
			l, err = repo.GetForUpdate(ctx, key)
			if err == nil && l == nil {
				return nil, domain.NewNotFound("nivel de stock", key.ComponentID)
			}
		} else {
			l, err = repo.GetOrCreateForUpdate(ctx, key)
		}
		if err != nil {
			return nil, err
		}
		levels[key] = l
	}
	return levels, nil
}

// movementSnapshot forma de un movimiento en old_values/new_values de auditoría.
type movementSnapshot struct {
	ComponentID   string    `json:"component_id"`
	ComponentType string    `json:"component_type"`
	Quantity      int       `json:"quantity"`
	MovementType  string    `json:"movement_type"`
	SupplierID    *string   `json:"supplier_id"`
	Date          time.Time `json:"date"`
}

func snapshotOf(m *entity.StockMovement) movementSnapshot {
	return movementSnapshot{
		ComponentID:   m.ComponentID,
		ComponentType: string(m.ComponentType),
		Quantity:      m.Quantity,
		MovementType:  m.MovementType,
		SupplierID:    m.SupplierID,
		Date:          m.Date,
	}
}

func toMovementResponse(m *entity.StockMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:            m.ID,
		ComponentID:   m.ComponentID,
		ComponentType: string(m.ComponentType),
		Quantity:      m.Quantity,
		MovementType:  m.MovementType,
		SupplierID:    m.SupplierID,
		Date:          m.Date,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
