package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Catalogo-servidores-api/internal/domain"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/repository"
)

var (
	_ repository.AuditLogRepository = (*AuditLogRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
)

// AuditLogRepo registro de auditoría (solo inserción).
type AuditLogRepo struct{ acc access }

func (r *AuditLogRepo) Create(_ context.Context, log *entity.AuditLog) error {
	return r.acc(true, func(st *state) error {
		st.audits = append(st.audits, *log)
		return nil
	})
}

// SupplierRepo consulta de proveedores.
type SupplierRepo struct{ acc access }

// NewSupplierRepository repositorio fuera de transacción.
func NewSupplierRepository(s *Store) *SupplierRepo { return &SupplierRepo{acc: s.direct} }

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.acc(false, func(st *state) error {
		if sup, ok := st.suppliers[id]; ok {
			out = &sup
		}
		return nil
	})
	return out, err
}

// CustomerRepo clientes.
type CustomerRepo struct{ acc access }

// NewCustomerRepository repositorio fuera de transacción.
func NewCustomerRepository(s *Store) *CustomerRepo { return &CustomerRepo{acc: s.direct} }

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	return r.acc(true, func(st *state) error {
		for _, other := range st.customers {
			if other.TaxID == c.TaxID {
				return domain.ErrDuplicate
			}
		}
		st.customers[c.ID] = *c
		return nil
	})
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.acc(false, func(st *state) error {
		if c, ok := st.customers[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CustomerRepo) GetByTaxID(_ context.Context, taxID string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.acc(false, func(st *state) error {
		for _, c := range st.customers {
			if c.TaxID == taxID {
				c := c
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *CustomerRepo) List(_ context.Context) ([]*entity.Customer, error) {
	var out []*entity.Customer
	err := r.acc(false, func(st *state) error {
		for _, c := range st.customers {
			c := c
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	return r.acc(true, func(st *state) error {
		if _, ok := st.customers[c.ID]; !ok {
			return domain.NewNotFound("cliente", c.ID)
		}
		st.customers[c.ID] = *c
		return nil
	})
}

func (r *CustomerRepo) Delete(_ context.Context, id string) error {
	return r.acc(true, func(st *state) error {
		delete(st.customers, id)
		return nil
	})
}
