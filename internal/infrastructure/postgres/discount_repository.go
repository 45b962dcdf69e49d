package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Catalogo-servidores-api/internal/domain"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/repository"
)

var _ repository.DiscountRepository = (*DiscountRepo)(nil)

// DiscountRepo implementación de DiscountRepository (usable con pool o tx).
type DiscountRepo struct {
	q Querier
}

// NewDiscountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDiscountRepository(q Querier) *DiscountRepo {
	return &DiscountRepo{q: q}
}

const discountColumns = `id, name, discount_type, value, start_date, end_date, created_at, updated_at`

func scanDiscount(row pgx.Row) (*entity.Discount, error) {
	var (
		d   entity.Discount
		typ string
	)
	if err := row.Scan(&d.ID, &d.Name, &typ, &d.Value, &d.StartDate, &d.EndDate, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.Type = entity.DiscountType(typ)
	return &d, nil
}

// Create persiste un nuevo descuento.
func (r *DiscountRepo) Create(ctx context.Context, d *entity.Discount) error {
	query := `
		INSERT INTO discounts (` + discountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.Name, string(d.Type), d.Value, d.StartDate, d.EndDate, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert discount: %w", err)
	}
	return nil
}

// GetByID obtiene un descuento por ID. nil, nil si no existe.
func (r *DiscountRepo) GetByID(ctx context.Context, id string) (*entity.Discount, error) {
	return r.get(ctx, `SELECT `+discountColumns+` FROM discounts WHERE id = $1`, id)
}

// GetForUpdate obtiene y bloquea el descuento.
func (r *DiscountRepo) GetForUpdate(ctx context.Context, id string) (*entity.Discount, error) {
	return r.get(ctx, `SELECT `+discountColumns+` FROM discounts WHERE id = $1 FOR UPDATE`, id)
}

func (r *DiscountRepo) get(ctx context.Context, query, id string) (*entity.Discount, error) {
	d, err := scanDiscount(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get discount: %w", err)
	}
	return d, nil
}

// Update actualiza nombre, tipo, valor y vigencia.
func (r *DiscountRepo) Update(ctx context.Context, d *entity.Discount) error {
	query := `
		UPDATE discounts
		SET name = $2, discount_type = $3, value = $4, start_date = $5, end_date = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, d.ID, d.Name, string(d.Type), d.Value, d.StartDate, d.EndDate, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update discount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("descuento", d.ID)
	}
	return nil
}

// Delete elimina el descuento (las asociaciones caen por ON DELETE CASCADE).
func (r *DiscountRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM discounts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete discount: %w", err)
	}
	return nil
}

// ListTargets destinos asociados en orden (tipo, id).
func (r *DiscountRepo) ListTargets(ctx context.Context, discountID string) ([]entity.TargetRef, error) {
	rows, err := r.q.Query(ctx, `
		SELECT target_type, target_id FROM discount_targets
		WHERE discount_id = $1 ORDER BY target_type, target_id`, discountID)
	if err != nil {
		return nil, fmt.Errorf("list discount targets: %w", err)
	}
	defer rows.Close()
	var refs []entity.TargetRef
	for rows.Next() {
		var typ, id string
		if err := rows.Scan(&typ, &id); err != nil {
			return nil, fmt.Errorf("scan discount target: %w", err)
		}
		refs = append(refs, entity.TargetRef{Type: entity.TargetType(typ), ID: id})
	}
	return refs, rows.Err()
}

// AttachTargets inserta las asociaciones en un solo batch.
func (r *DiscountRepo) AttachTargets(ctx context.Context, discountID string, refs []entity.TargetRef) error {
	if len(refs) == 0 {
		return nil
	}
	b := &pgx.Batch{}
	for _, ref := range refs {
		b.Queue(`
			INSERT INTO discount_targets (discount_id, target_type, target_id)
			VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`, discountID, string(ref.Type), ref.ID)
	}
	br := r.q.SendBatch(ctx, b)
	defer br.Close()
	for range refs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("attach discount target: %w", err)
		}
	}
	return nil
}

// DetachAll elimina todas las asociaciones del descuento.
func (r *DiscountRepo) DetachAll(ctx context.Context, discountID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM discount_targets WHERE discount_id = $1`, discountID); err != nil {
		return fmt.Errorf("detach discount targets: %w", err)
	}
	return nil
}

// List descuentos del alcance, más recientes primero.
func (r *DiscountRepo) List(ctx context.Context, scope entity.DiscountScope) ([]*entity.Discount, error) {
	op := "NOT EXISTS"
	if scope == entity.ScopeServers {
		op = "EXISTS"
	}
	query := fmt.Sprintf(`
		SELECT %s FROM discounts d
		WHERE %s (
			SELECT 1 FROM discount_targets dt
			WHERE dt.discount_id = d.id AND dt.target_type = 'server'
		)
		ORDER BY d.created_at DESC`, discountColumns, op)
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list discounts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Discount
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan discount: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// ListExpiredIDs ids de descuentos con end_date < now.
func (r *DiscountRepo) ListExpiredIDs(ctx context.Context, now time.Time) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT id FROM discounts WHERE end_date < $1 ORDER BY id`, now)
	if err != nil {
		return nil, fmt.Errorf("list expired discounts: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan discount id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
