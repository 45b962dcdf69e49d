package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Catalogo-servidores-api/internal/domain"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/repository"
)

var (
	_ repository.DiscountRepository    = (*DiscountRepo)(nil)
	_ repository.PriceTargetRepository = (*PriceTargetRepo)(nil)
)

// PriceTargetRepo precios de servidores y componentes.
type PriceTargetRepo struct{ acc access }

// NewPriceTargetRepository repositorio fuera de transacción.
func NewPriceTargetRepository(s *Store) *PriceTargetRepo { return &PriceTargetRepo{acc: s.direct} }

func (r *PriceTargetRepo) GetForUpdate(ctx context.Context, ref entity.TargetRef) (*entity.PriceTarget, error) {
	return r.Get(ctx, ref)
}

func (r *PriceTargetRepo) Get(_ context.Context, ref entity.TargetRef) (*entity.PriceTarget, error) {
	var out *entity.PriceTarget
	err := r.acc(false, func(st *state) error {
		if t, ok := st.targets[ref]; ok {
			out = &t
		}
		return nil
	})
	return out, err
}

func (r *PriceTargetRepo) UpdatePrice(_ context.Context, ref entity.TargetRef, price decimal.Decimal) error {
	return r.acc(true, func(st *state) error {
		t, ok := st.targets[ref]
		if !ok {
			return domain.NewNotFound(string(ref.Type), ref.ID)
		}
		t.Price = price
		st.targets[ref] = t
		return nil
	})
}

func (r *PriceTargetRepo) ListByType(_ context.Context, tt entity.TargetType) ([]*entity.PriceTarget, error) {
	var out []*entity.PriceTarget
	err := r.acc(false, func(st *state) error {
		for ref, t := range st.targets {
			if ref.Type == tt {
				t := t
				out = append(out, &t)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *PriceTargetRepo) NamesByIDs(_ context.Context, tt entity.TargetType, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	err := r.acc(false, func(st *state) error {
		for _, id := range ids {
			if t, ok := st.targets[entity.TargetRef{Type: tt, ID: id}]; ok {
				out[id] = t.Name
			}
		}
		return nil
	})
	return out, err
}

// DiscountRepo descuentos y su asociación con destinos.
type DiscountRepo struct{ acc access }

// NewDiscountRepository repositorio fuera de transacción.
func NewDiscountRepository(s *Store) *DiscountRepo { return &DiscountRepo{acc: s.direct} }

func (r *DiscountRepo) Create(_ context.Context, d *entity.Discount) error {
	return r.acc(true, func(st *state) error {
		if _, ok := st.discounts[d.ID]; ok {
			return domain.ErrDuplicate
		}
		st.discounts[d.ID] = *d
		return nil
	})
}

func (r *DiscountRepo) GetByID(_ context.Context, id string) (*entity.Discount, error) {
	var out *entity.Discount
	err := r.acc(false, func(st *state) error {
		if d, ok := st.discounts[id]; ok {
			out = &d
		}
		return nil
	})
	return out, err
}

func (r *DiscountRepo) GetForUpdate(ctx context.Context, id string) (*entity.Discount, error) {
	return r.GetByID(ctx, id)
}

func (r *DiscountRepo) Update(_ context.Context, d *entity.Discount) error {
	return r.acc(true, func(st *state) error {
		if _, ok := st.discounts[d.ID]; !ok {
			return domain.NewNotFound("descuento", d.ID)
		}
		st.discounts[d.ID] = *d
		return nil
	})
}

func (r *DiscountRepo) Delete(_ context.Context, id string) error {
	return r.acc(true, func(st *state) error {
		delete(st.discounts, id)
		delete(st.discountTargets, id)
		return nil
	})
}

func (r *DiscountRepo) ListTargets(_ context.Context, discountID string) ([]entity.TargetRef, error) {
	var out []entity.TargetRef
	err := r.acc(false, func(st *state) error {
		out = append([]entity.TargetRef(nil), st.discountTargets[discountID]...)
		return nil
	})
	return out, err
}

func (r *DiscountRepo) AttachTargets(_ context.Context, discountID string, refs []entity.TargetRef) error {
	return r.acc(true, func(st *state) error {
		st.discountTargets[discountID] = append(st.discountTargets[discountID], refs...)
		return nil
	})
}

func (r *DiscountRepo) DetachAll(_ context.Context, discountID string) error {
	return r.acc(true, func(st *state) error {
		delete(st.discountTargets, discountID)
		return nil
	})
}

func (r *DiscountRepo) List(_ context.Context, scope entity.DiscountScope) ([]*entity.Discount, error) {
	var out []*entity.Discount
	err := r.acc(false, func(st *state) error {
		for id, d := range st.discounts {
			hasServer := false
			for _, ref := range st.discountTargets[id] {
				if ref.Type.IsServer() {
					hasServer = true
					break
				}
			}
			if hasServer == (scope == entity.ScopeServers) {
				d := d
				out = append(out, &d)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

func (r *DiscountRepo) ListExpiredIDs(_ context.Context, now time.Time) ([]string, error) {
	var out []string
	err := r.acc(false, func(st *state) error {
		for id, d := range st.discounts {
			if d.EndDate.Before(now) {
				out = append(out, id)
			}
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}
