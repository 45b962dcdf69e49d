package discount

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Catalogo-servidores-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/pricing"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/repository"
	"github.com/jhoicas/Catalogo-servidores-api/pkg/validation"
)

// discountInput request ya validado.
type discountInput struct {
	name    string
	typ     entity.DiscountType
	value   decimal.Decimal
	start   time.Time
	end     time.Time
	targets []entity.TargetRef // sin duplicados, en el orden recibido
	scope   entity.DiscountScope
}

func parseRequest(in dto.DiscountRequest) (discountInput, error) {
	fields := validation.Struct(in)
	if fields == nil {
		fields = map[string]string{}
	}
	typ := entity.DiscountType(in.DiscountType)
	switch typ {
	case entity.DiscountPercentage:
		if !in.Value.IsPositive() || in.Value.GreaterThanOrEqual(decimal.NewFromInt(100)) {
			fields["value"] = "debe ser mayor que 0 y menor que 100"
		}
	case entity.DiscountFixed:
		if !in.Value.IsPositive() {
			fields["value"] = "debe ser mayor que 0"
		}
	}

	refs := make([]entity.TargetRef, 0, len(in.Targets))
	seen := make(map[entity.TargetRef]bool, len(in.Targets))
	for i, t := range in.Targets {
		tt, ok := entity.ParseTargetType(t.Type)
		if !ok {
			fields[fmt.Sprintf("targets[%d].type", i)] = "tipo de destino desconocido"
			continue
		}
		ref := entity.TargetRef{Type: tt, ID: t.ID}
		if seen[ref] {
			continue
		}
		seen[ref] = true
		refs = append(refs, ref)
	}
	scope, ok := entity.ScopeOf(refs)
	if !ok && len(refs) > 0 {
		fields["targets"] = "no se pueden mezclar servidores y componentes en un mismo descuento"
	}
	if len(fields) > 0 {
		return discountInput{}, &domain.ValidationError{Fields: fields}
	}
	return discountInput{
		name:    in.Name,
		typ:     typ,
		value:   in.Value,
		start:   in.StartDate,
		end:     in.EndDate,
		targets: refs,
		scope:   scope,
	}, nil
}

// lockTargets bloquea las filas de refs en orden (tipo, id). Los destinos inexistentes no
// aparecen en el mapa; el llamador decide si eso es un error.
func lockTargets(ctx context.Context, repo repository.PriceTargetRepository, refs []entity.TargetRef) (map[entity.TargetRef]*entity.PriceTarget, error) {
	ordered := append([]entity.TargetRef(nil), refs...)
	entity.SortTargetRefs(ordered)
	locked := make(map[entity.TargetRef]*entity.PriceTarget, len(ordered))
	for _, ref := range ordered {
		if _, ok := locked[ref]; ok {
			continue
		}
		pt, err := repo.GetForUpdate(ctx, ref)
		if err != nil {
			return nil, err
		}
		if pt != nil {
			locked[ref] = pt
		}
	}
	return locked, nil
}

func requireAll(locked map[entity.TargetRef]*entity.PriceTarget, refs []entity.TargetRef) error {
	for _, ref := range refs {
		if _, ok := locked[ref]; !ok {
			return domain.NewNotFound(string(ref.Type), ref.ID)
		}
	}
	return nil
}

func unionRefs(a, b []entity.TargetRef) []entity.TargetRef {
	out := make([]entity.TargetRef, 0, len(a)+len(b))
	seen := make(map[entity.TargetRef]bool, len(a)+len(b))
	for _, list := range [][]entity.TargetRef{a, b} {
		for _, r := range list {
			if !seen[r] {
				seen[r] = true
				out = append(out, r)
			}
		}
	}
	return out
}

func currentPrice(t *entity.PriceTarget) decimal.Decimal { return t.Price }

// checkFixed rechaza un descuento fijo >= precio base de cualquier destino.
func checkFixed(
	typ entity.DiscountType,
	value decimal.Decimal,
	refs []entity.TargetRef,
	locked map[entity.TargetRef]*entity.PriceTarget,
	base func(*entity.PriceTarget) decimal.Decimal,
) error {
	if typ != entity.DiscountFixed {
		return nil
	}
	var names []string
	for _, ref := range refs {
		t := locked[ref]
		if t == nil {
			continue
		}
		if pricing.ExceedsPrice(base(t), typ, value) {
			names = append(names, t.Name)
		}
	}
	if len(names) > 0 {
		return &domain.PriceExceedsError{Targets: names}
	}
	return nil
}

// checkReversible rechaza el descuento si en algún destino aplicar y revertir no devuelve el
// precio base (precios tan pequeños que el descuento los deja en cero a la escala persistida).
func checkReversible(
	typ entity.DiscountType,
	value decimal.Decimal,
	refs []entity.TargetRef,
	locked map[entity.TargetRef]*entity.PriceTarget,
	base func(*entity.PriceTarget) decimal.Decimal,
) error {
	var names []string
	for _, ref := range refs {
		t := locked[ref]
		if t == nil {
			continue
		}
		if !pricing.Reversible(base(t), typ, value) {
			names = append(names, t.Name)
		}
	}
	if len(names) > 0 {
		return domain.NewValidationError("value", "el descuento no se podría revertir sobre: "+strings.Join(names, ", "))
	}
	return nil
}

func applyAll(
	ctx context.Context,
	repo repository.PriceTargetRepository,
	locked map[entity.TargetRef]*entity.PriceTarget,
	refs []entity.TargetRef,
	typ entity.DiscountType,
	value decimal.Decimal,
) error {
	return transformAll(ctx, repo, locked, refs, func(p decimal.Decimal) decimal.Decimal {
		return pricing.Apply(p, typ, value)
	})
}

func revertAll(
	ctx context.Context,
	repo repository.PriceTargetRepository,
	locked map[entity.TargetRef]*entity.PriceTarget,
	refs []entity.TargetRef,
	typ entity.DiscountType,
	value decimal.Decimal,
) error {
	return transformAll(ctx, repo, locked, refs, func(p decimal.Decimal) decimal.Decimal {
		return pricing.Revert(p, typ, value)
	})
}

// transformAll persiste f(precio) redondeado a PriceScale y actualiza la copia bloqueada, de modo que una
// reversión seguida de una aplicación sobre el mismo destino encadene bien.
func transformAll(
	ctx context.Context,
	repo repository.PriceTargetRepository,
	locked map[entity.TargetRef]*entity.PriceTarget,
	refs []entity.TargetRef,
	f func(decimal.Decimal) decimal.Decimal,
) error {
	for _, ref := range refs {
		t := locked[ref]
		if t == nil {
			continue
		}
		price := pricing.RoundPrice(f(t.Price))
		if err := repo.UpdatePrice(ctx, ref, price); err != nil {
			return err
		}
		t.Price = price
	}
	return nil
}

// discountSnapshot forma de un descuento en old_values/new_values de auditoría.
type discountSnapshot struct {
	Name         string             `json:"name"`
	DiscountType string             `json:"discount_type"`
	Value        decimal.Decimal    `json:"value"`
	StartDate    time.Time          `json:"start_date"`
	EndDate      time.Time          `json:"end_date"`
	Targets      []entity.TargetRef `json:"targets"`
}

func snapshotOf(d *entity.Discount, refs []entity.TargetRef) discountSnapshot {
	return discountSnapshot{
		Name:         d.Name,
		DiscountType: string(d.Type),
		Value:        d.Value,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		Targets:      append([]entity.TargetRef(nil), refs...),
	}
}

func toDiscountResponse(d *entity.Discount, refs []entity.TargetRef) *dto.DiscountResponse {
	targets := make([]dto.TargetResponse, 0, len(refs))
	for _, r := range refs {
		targets = append(targets, dto.TargetResponse{Type: string(r.Type), ID: r.ID})
	}
	scope, _ := entity.ScopeOf(refs)
	return &dto.DiscountResponse{
		ID:           d.ID,
		Name:         d.Name,
		DiscountType: string(d.Type),
		Value:        d.Value,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		Scope:        string(scope),
		Targets:      targets,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
