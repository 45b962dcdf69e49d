package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Catalogo-servidores-api/internal/domain"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo implementación de StockLevelRepository (usable con pool o tx).
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

func scanLevel(row pgx.Row) (*entity.StockLevel, error) {
	var (
		l    entity.StockLevel
		kind string
	)
	if err := row.Scan(&kind, &l.ComponentID, &l.Quantity, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.ComponentType = entity.ComponentKind(kind)
	return &l, nil
}

// GetForUpdate bloquea la fila en stock_levels (SELECT FOR UPDATE).
func (r *StockLevelRepo) GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockLevel, error) {
	return r.get(ctx, key, true)
}

// GetOrCreateForUpdate inserta el nivel en 0 si no existe y lo bloquea.
// ON CONFLICT DO NOTHING evita la carrera entre dos primeras entradas concurrentes.
func (r *StockLevelRepo) GetOrCreateForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockLevel, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_levels (component_type, component_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (component_type, component_id) DO NOTHING`,
		string(key.ComponentType), key.ComponentID,
	)
	if err != nil {
		return nil, fmt.Errorf("create stock level: %w", err)
	}
	l, err := r.get(ctx, key, true)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.NewNotFound("nivel de stock", key.ComponentID)
	}
	return l, nil
}

// Get obtiene el nivel sin bloquear. nil, nil si no existe.
func (r *StockLevelRepo) Get(ctx context.Context, key entity.StockKey) (*entity.StockLevel, error) {
	return r.get(ctx, key, false)
}

func (r *StockLevelRepo) get(ctx context.Context, key entity.StockKey, lock bool) (*entity.StockLevel, error) {
	query := `
		SELECT component_type, component_id, quantity, updated_at
		FROM stock_levels WHERE component_type = $1 AND component_id = $2`
	if lock {
		query += ` FOR UPDATE`
	}
	l, err := scanLevel(r.q.QueryRow(ctx, query, string(key.ComponentType), key.ComponentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	return l, nil
}

// UpdateQuantity fija la cantidad del nivel.
func (r *StockLevelRepo) UpdateQuantity(ctx context.Context, key entity.StockKey, quantity int) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE stock_levels SET quantity = $3, updated_at = now()
		WHERE component_type = $1 AND component_id = $2`,
		string(key.ComponentType), key.ComponentID, quantity,
	)
	if err != nil {
		return fmt.Errorf("update stock level: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("nivel de stock", key.ComponentID)
	}
	return nil
}

// List todos los niveles en orden (tipo, id).
func (r *StockLevelRepo) List(ctx context.Context) ([]*entity.StockLevel, error) {
	rows, err := r.q.Query(ctx, `
		SELECT component_type, component_id, quantity, updated_at
		FROM stock_levels ORDER BY component_type, component_id`)
	if err != nil {
		return nil, fmt.Errorf("list stock levels: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLevel
	for rows.Next() {
		l, err := scanLevel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
