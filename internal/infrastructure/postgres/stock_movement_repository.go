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

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación de StockMovementRepository (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, component_type, component_id, quantity, movement_type, supplier_id, date, created_at, updated_at`

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var (
		m    entity.StockMovement
		kind string
	)
	err := row.Scan(&m.ID, &kind, &m.ComponentID, &m.Quantity, &m.MovementType, &m.SupplierID,
		&m.Date, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.ComponentType = entity.ComponentKind(kind)
	return &m, nil
}

// Create guarda el movimiento en stock_movements.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, string(m.ComponentType), m.ComponentID, m.Quantity, m.MovementType, m.SupplierID,
		m.Date, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento. nil, nil si no existe.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	return r.get(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE id = $1`, id)
}

// GetForUpdate obtiene y bloquea el movimiento.
func (r *StockMovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockMovement, error) {
	return r.get(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE id = $1 FOR UPDATE`, id)
}

func (r *StockMovementRepo) get(ctx context.Context, query, id string) (*entity.StockMovement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return m, nil
}

// Update reemplaza los datos del movimiento.
func (r *StockMovementRepo) Update(ctx context.Context, m *entity.StockMovement) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE stock_movements
		SET component_type = $2, component_id = $3, quantity = $4, movement_type = $5,
		    supplier_id = $6, date = $7, updated_at = $8
		WHERE id = $1`,
		m.ID, string(m.ComponentType), m.ComponentID, m.Quantity, m.MovementType, m.SupplierID, m.Date, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("movimiento", m.ID)
	}
	return nil
}

// Delete elimina el movimiento.
func (r *StockMovementRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_movements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete stock movement: %w", err)
	}
	return nil
}

// List movimientos más recientes primero, con filtro opcional por componente.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + ` FROM stock_movements
		WHERE ($1 = '' OR component_type = $1)
		  AND ($2 = '' OR component_id::text = $2)
		ORDER BY date DESC, id`
	rows, err := r.q.Query(ctx, query, string(f.ComponentType), f.ComponentID)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
