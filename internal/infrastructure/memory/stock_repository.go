package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Catalogo-servidores-api/internal/domain"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/repository"
)

var (
	_ repository.StockLevelRepository    = (*StockLevelRepo)(nil)
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
)

// StockLevelRepo niveles de stock.
type StockLevelRepo struct {
	acc access
	now func() time.Time
}

// NewStockLevelRepository repositorio fuera de transacción.
func NewStockLevelRepository(s *Store) *StockLevelRepo {
	return &StockLevelRepo{acc: s.direct, now: s.nowFn}
}

func (r *StockLevelRepo) GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockLevel, error) {
	return r.Get(ctx, key)
}

func (r *StockLevelRepo) GetOrCreateForUpdate(_ context.Context, key entity.StockKey) (*entity.StockLevel, error) {
	var out *entity.StockLevel
	err := r.acc(true, func(st *state) error {
		l, ok := st.levels[key]
		if !ok {
			l = entity.StockLevel{ComponentID: key.ComponentID, ComponentType: key.ComponentType, UpdatedAt: r.now()}
			st.levels[key] = l
		}
		out = &l
		return nil
	})
	return out, err
}

func (r *StockLevelRepo) Get(_ context.Context, key entity.StockKey) (*entity.StockLevel, error) {
	var out *entity.StockLevel
	err := r.acc(false, func(st *state) error {
		if l, ok := st.levels[key]; ok {
			out = &l
		}
		return nil
	})
	return out, err
}

func (r *StockLevelRepo) UpdateQuantity(_ context.Context, key entity.StockKey, quantity int) error {
	return r.acc(true, func(st *state) error {
		l, ok := st.levels[key]
		if !ok {
			return domain.NewNotFound("nivel de stock", key.ComponentID)
		}
		l.Quantity = quantity
		l.UpdatedAt = r.now()
		st.levels[key] = l
		return nil
	})
}

func (r *StockLevelRepo) List(_ context.Context) ([]*entity.StockLevel, error) {
	var out []*entity.StockLevel
	err := r.acc(false, func(st *state) error {
		for _, l := range st.levels {
			l := l
			out = append(out, &l)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Key().Less(out[j].Key()) })
	return out, err
}

// StockMovementRepo libro de movimientos.
type StockMovementRepo struct{ acc access }

// NewStockMovementRepository repositorio fuera de transacción.
func NewStockMovementRepository(s *Store) *StockMovementRepo {
	return &StockMovementRepo{acc: s.direct}
}

func (r *StockMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.acc(true, func(st *state) error {
		if _, ok := st.movements[m.ID]; ok {
			return domain.ErrDuplicate
		}
		st.movements[m.ID] = *m
		return nil
	})
}

func (r *StockMovementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	var out *entity.StockMovement
	err := r.acc(false, func(st *state) error {
		if m, ok := st.movements[id]; ok {
			out = &m
		}
		return nil
	})
	return out, err
}

func (r *StockMovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockMovement, error) {
	return r.GetByID(ctx, id)
}

func (r *StockMovementRepo) Update(_ context.Context, m *entity.StockMovement) error {
	return r.acc(true, func(st *state) error {
		if _, ok := st.movements[m.ID]; !ok {
			return domain.NewNotFound("movimiento", m.ID)
		}
		st.movements[m.ID] = *m
		return nil
	})
}

func (r *StockMovementRepo) Delete(_ context.Context, id string) error {
	return r.acc(true, func(st *state) error {
		delete(st.movements, id)
		return nil
	})
}

func (r *StockMovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.acc(false, func(st *state) error {
		for _, m := range st.movements {
			if f.ComponentType != "" && m.ComponentType != f.ComponentType {
				continue
			}
			if f.ComponentID != "" && m.ComponentID != f.ComponentID {
				continue
			}
			m := m
			out = append(out, &m)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}
