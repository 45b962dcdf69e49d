package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Catalogo-servidores-api/internal/domain"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/repository"
)

var _ repository.PriceTargetRepository = (*PriceTargetRepo)(nil)

// PriceTargetRepo precios de servidores y componentes. La tabla sale del mapa cerrado
// de entity, nunca del input.
type PriceTargetRepo struct {
	q Querier
}

// NewPriceTargetRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPriceTargetRepository(q Querier) *PriceTargetRepo {
	return &PriceTargetRepo{q: q}
}

func tableFor(t entity.TargetType) (string, error) {
	name, ok := t.Table()
	if !ok {
		return "", domain.NewValidationError("target_type", "tipo de destino desconocido: "+string(t))
	}
	return pgx.Identifier{name}.Sanitize(), nil
}

// GetForUpdate bloquea la fila del destino (SELECT FOR UPDATE).
func (r *PriceTargetRepo) GetForUpdate(ctx context.Context, ref entity.TargetRef) (*entity.PriceTarget, error) {
	return r.get(ctx, ref, true)
}

// Get obtiene el destino sin bloquear.
func (r *PriceTargetRepo) Get(ctx context.Context, ref entity.TargetRef) (*entity.PriceTarget, error) {
	return r.get(ctx, ref, false)
}

func (r *PriceTargetRepo) get(ctx context.Context, ref entity.TargetRef, lock bool) (*entity.PriceTarget, error) {
	table, err := tableFor(ref.Type)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT name, price FROM %s WHERE id = $1`, table)
	if lock {
		query += ` FOR UPDATE`
	}
	pt := entity.PriceTarget{Ref: ref}
	err = r.q.QueryRow(ctx, query, ref.ID).Scan(&pt.Name, &pt.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", ref.Type, err)
	}
	return &pt, nil
}

// UpdatePrice persiste el nuevo precio.
func (r *PriceTargetRepo) UpdatePrice(ctx context.Context, ref entity.TargetRef, price decimal.Decimal) error {
	table, err := tableFor(ref.Type)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET price = $2, updated_at = now() WHERE id = $1`, table)
	tag, err := r.q.Exec(ctx, query, ref.ID, price)
	if err != nil {
		return fmt.Errorf("update price %s: %w", ref.Type, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound(string(ref.Type), ref.ID)
	}
	return nil
}

// ListByType lista id, nombre y precio de un tipo ordenado por nombre.
func (r *PriceTargetRepo) ListByType(ctx context.Context, t entity.TargetType) ([]*entity.PriceTarget, error) {
	table, err := tableFor(t)
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, fmt.Sprintf(`SELECT id, name, price FROM %s ORDER BY name`, table))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t, err)
	}
	defer rows.Close()
	var list []*entity.PriceTarget
	for rows.Next() {
		pt := entity.PriceTarget{Ref: entity.TargetRef{Type: t}}
		if err := rows.Scan(&pt.Ref.ID, &pt.Name, &pt.Price); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t, err)
		}
		list = append(list, &pt)
	}
	return list, rows.Err()
}

// NamesByIDs nombre de cada id existente.
func (r *PriceTargetRepo) NamesByIDs(ctx context.Context, t entity.TargetType, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	table, err := tableFor(t)
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, fmt.Sprintf(`SELECT id, name FROM %s WHERE id::text = ANY($1)`, table), ids)
	if err != nil {
		return nil, fmt.Errorf("names %s: %w", t, err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t, err)
		}
		out[id] = name
	}
	return out, rows.Err()
}
