package discount

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Catalogo-servidores-api/internal/application/audit"
	"github.com/jhoicas/Catalogo-servidores-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/pricing"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/repository"
	"github.com/jhoicas/Catalogo-servidores-api/pkg/validation"
)

// UseCase motor de descuentos: aplica, actualiza (revertir y reaplicar), elimina y barre
// descuentos vencidos. Cada operación es una única transacción.
type UseCase struct {
	tx        TxRunner
	discounts repository.DiscountRepository
	targets   repository.PriceTargetRepository
	audit     *audit.Recorder
	metrics   Metrics
	now       func() time.Time
}

// NewUseCase construye el caso de uso. metrics puede ser nil.
func NewUseCase(
	tx TxRunner,
	discounts repository.DiscountRepository,
	targets repository.PriceTargetRepository,
	recorder *audit.Recorder,
	metrics Metrics,
) *UseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &UseCase{
		tx:        tx,
		discounts: discounts,
		targets:   targets,
		audit:     recorder,
		metrics:   metrics,
		now:       time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Create valida, persiste el descuento, asocia los destinos y rebaja su precio.
// Un descuento fijo mayor o igual al precio actual de algún destino se rechaza sin mutar nada,
// igual que uno cuya reversión no devolvería el precio de algún destino.
func (uc *UseCase) Create(ctx context.Context, meta entity.RequestMeta, in dto.DiscountRequest) (*dto.DiscountResponse, error) {
	input, err := parseRequest(in)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	d := &entity.Discount{
		ID:        uuid.New().String(),
		Name:      input.name,
		Type:      input.typ,
		Value:     input.value,
		StartDate: input.start,
		EndDate:   input.end,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = uc.tx.RunDiscount(ctx, func(
		discountRepo repository.DiscountRepository,
		targetRepo repository.PriceTargetRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		locked, err := lockTargets(ctx, targetRepo, input.targets)
		if err != nil {
			return err
		}
		if err := requireAll(locked, input.targets); err != nil {
			return err
		}
		if err := checkFixed(d.Type, d.Value, input.targets, locked, currentPrice); err != nil {
			return err
		}
		if err := checkReversible(d.Type, d.Value, input.targets, locked, currentPrice); err != nil {
			return err
		}
		if err := discountRepo.Create(ctx, d); err != nil {
			return err
		}
		if err := discountRepo.AttachTargets(ctx, d.ID, input.targets); err != nil {
			return err
		}
		if err := applyAll(ctx, targetRepo, locked, input.targets, d.Type, d.Value); err != nil {
			return err
		}
		return uc.audit.Record(ctx, auditRepo, entity.AuditCreated, entity.AuditableDiscount, d.ID,
			nil, snapshotOf(d, input.targets), meta)
	})
	if err != nil {
		return nil, domain.Technical("crear descuento", err)
	}
	uc.metrics.DiscountApplied(string(input.scope), len(input.targets))
	return toDiscountResponse(d, input.targets), nil
}

// Update revierte los precios de los destinos actuales con el tipo/valor vigente, reemplaza
// las asociaciones, actualiza el descuento y aplica el nuevo tipo/valor. Todo o nada.
// El control de descuento fijo se hace contra el precio original reconstruido con la fórmula inversa.
func (uc *UseCase) Update(ctx context.Context, meta entity.RequestMeta, id string, in dto.DiscountRequest) (*dto.DiscountResponse, error) {
	if !validation.IsUUID(id) {
		return nil, domain.NewNotFound("descuento", id)
	}
	input, err := parseRequest(in)
	if err != nil {
		return nil, err
	}
	var (
		d       *entity.Discount
		oldRefs []entity.TargetRef
	)
	err = uc.tx.RunDiscount(ctx, func(
		discountRepo repository.DiscountRepository,
		targetRepo repository.PriceTargetRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		var err error
		d, err = discountRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.NewNotFound("descuento", id)
		}
		oldRefs, err = discountRepo.ListTargets(ctx, id)
		if err != nil {
			return err
		}
		locked, err := lockTargets(ctx, targetRepo, unionRefs(oldRefs, input.targets))
		if err != nil {
			return err
		}
		if err := requireAll(locked, input.targets); err != nil {
			return err
		}

		wasTarget := make(map[entity.TargetRef]bool, len(oldRefs))
		for _, r := range oldRefs {
			wasTarget[r] = true
		}
		oldType, oldValue := d.Type, d.Value
		original := func(t *entity.PriceTarget) decimal.Decimal {
			if wasTarget[t.Ref] {
				return pricing.RoundPrice(pricing.Revert(t.Price, oldType, oldValue))
			}
			return t.Price
		}
		if err := checkFixed(input.typ, input.value, input.targets, locked, original); err != nil {
			return err
		}
		if err := checkReversible(input.typ, input.value, input.targets, locked, original); err != nil {
			return err
		}

		before := snapshotOf(d, oldRefs)
		if err := revertAll(ctx, targetRepo, locked, oldRefs, oldType, oldValue); err != nil {
			return err
		}
		if err := discountRepo.DetachAll(ctx, id); err != nil {
			return err
		}
		d.Name = input.name
		d.Type = input.typ
		d.Value = input.value
		d.StartDate = input.start
		d.EndDate = input.end
		d.UpdatedAt = uc.now()
		if err := discountRepo.Update(ctx, d); err != nil {
			return err
		}
		if err := discountRepo.AttachTargets(ctx, id, input.targets); err != nil {
			return err
		}
		if err := applyAll(ctx, targetRepo, locked, input.targets, d.Type, d.Value); err != nil {
			return err
		}
		return uc.audit.Record(ctx, auditRepo, entity.AuditUpdated, entity.AuditableDiscount, id,
			before, snapshotOf(d, input.targets), meta)
	})
	if err != nil {
		return nil, domain.Technical("actualizar descuento", err)
	}
	uc.metrics.DiscountReverted("update", len(oldRefs))
	uc.metrics.DiscountApplied(string(input.scope), len(input.targets))
	return toDiscountResponse(d, input.targets), nil
}

// Delete revierte los precios de todos los destinos, desasocia y elimina el descuento.
func (uc *UseCase) Delete(ctx context.Context, meta entity.RequestMeta, id string) error {
	if !validation.IsUUID(id) {
		return domain.NewNotFound("descuento", id)
	}
	var reverted int
	err := uc.tx.RunDiscount(ctx, func(
		discountRepo repository.DiscountRepository,
		targetRepo repository.PriceTargetRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		d, err := discountRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.NewNotFound("descuento", id)
		}
		refs, err := removeDiscount(ctx, discountRepo, targetRepo, d)
		if err != nil {
			return err
		}
		reverted = len(refs)
		return uc.audit.Record(ctx, auditRepo, entity.AuditDeleted, entity.AuditableDiscount, id,
			snapshotOf(d, refs), nil, meta)
	})
	if err != nil {
		return domain.Technical("eliminar descuento", err)
	}
	uc.metrics.DiscountReverted("delete", reverted)
	return nil
}

// SweepExpired elimina los descuentos con end_date < now revirtiendo sus precios.
// Cada descuento va en su propia transacción y se vuelve a comprobar bajo bloqueo, así que
// ejecutar el barrido dos veces (o en paralelo) no revierte dos veces. No escribe auditoría.
func (uc *UseCase) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	ids, err := uc.discounts.ListExpiredIDs(ctx, now)
	if err != nil {
		return 0, domain.Technical("listar descuentos vencidos", err)
	}
	swept := 0
	var errs []error
	for _, id := range ids {
		removed := false
		var reverted int
		err := uc.tx.RunDiscount(ctx, func(
			discountRepo repository.DiscountRepository,
			targetRepo repository.PriceTargetRepository,
			_ repository.AuditLogRepository,
		) error {
			d, err := discountRepo.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if d == nil || !d.Expired(now) {
				return nil
			}
			refs, err := removeDiscount(ctx, discountRepo, targetRepo, d)
			if err != nil {
				return err
			}
			removed = true
			reverted = len(refs)
			return nil
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("descuento %s: %w", id, err))
			continue
		}
		if removed {
			swept++
			uc.metrics.DiscountReverted("expired", reverted)
		}
	}
	return swept, domain.Technical("barrer descuentos vencidos", errors.Join(errs...))
}

// Get devuelve un descuento con sus destinos.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.DiscountResponse, error) {
	if !validation.IsUUID(id) {
		return nil, domain.NewNotFound("descuento", id)
	}
	d, err := uc.discounts.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Technical("obtener descuento", err)
	}
	if d == nil {
		return nil, domain.NewNotFound("descuento", id)
	}
	refs, err := uc.discounts.ListTargets(ctx, id)
	if err != nil {
		return nil, domain.Technical("obtener destinos", err)
	}
	return toDiscountResponse(d, refs), nil
}

// List descuentos de un alcance: "servers" o "components".
func (uc *UseCase) List(ctx context.Context, scope string) (*dto.DiscountListResponse, error) {
	s := entity.DiscountScope(scope)
	if s != entity.ScopeServers && s != entity.ScopeComponents {
		return nil, domain.NewValidationError("scope", "debe ser uno de: servers components")
	}
	list, err := uc.discounts.List(ctx, s)
	if err != nil {
		return nil, domain.Technical("listar descuentos", err)
	}
	items := make([]dto.DiscountResponse, 0, len(list))
	for _, d := range list {
		refs, err := uc.discounts.ListTargets(ctx, d.ID)
		if err != nil {
			return nil, domain.Technical("listar destinos", err)
		}
		items = append(items, *toDiscountResponse(d, refs))
	}
	return &dto.DiscountListResponse{Scope: string(s), Items: items}, nil
}

// ListPriceTargets servidores o componentes de un tipo con su precio actual
// (para elegir destinos en el formulario de descuentos).
func (uc *UseCase) ListPriceTargets(ctx context.Context, targetType string) ([]dto.PriceTargetResponse, error) {
	t, ok := entity.ParseTargetType(targetType)
	if !ok {
		return nil, domain.NewValidationError("type", "debe ser server o uno de: "+kindList())
	}
	list, err := uc.targets.ListByType(ctx, t)
	if err != nil {
		return nil, domain.Technical("listar destinos", err)
	}
	out := make([]dto.PriceTargetResponse, 0, len(list))
	for _, pt := range list {
		out = append(out, dto.PriceTargetResponse{
			Type:  string(pt.Ref.Type),
			ID:    pt.Ref.ID,
			Name:  pt.Name,
			Price: pricing.DisplayPrice(pt.Price),
		})
	}
	return out, nil
}

// removeDiscount revierte los precios de los destinos existentes, desasocia y borra d.
// Devuelve el manifiesto de destinos previo al borrado.
func removeDiscount(
	ctx context.Context,
	discountRepo repository.DiscountRepository,
	targetRepo repository.PriceTargetRepository,
	d *entity.Discount,
) ([]entity.TargetRef, error) {
	refs, err := discountRepo.ListTargets(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	locked, err := lockTargets(ctx, targetRepo, refs)
	if err != nil {
		return nil, err
	}
	if err := revertAll(ctx, targetRepo, locked, refs, d.Type, d.Value); err != nil {
		return nil, err
	}
	if err := discountRepo.DetachAll(ctx, d.ID); err != nil {
		return nil, err
	}
	if err := discountRepo.Delete(ctx, d.ID); err != nil {
		return nil, err
	}
	return refs, nil
}

func kindList() string {
	kinds := entity.ComponentKinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, " ")
}
