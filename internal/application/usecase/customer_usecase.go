package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Catalogo-servidores-api/internal/application/audit"
	"github.com/jhoicas/Catalogo-servidores-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/repository"
	"github.com/jhoicas/Catalogo-servidores-api/pkg/taxid"
	"github.com/jhoicas/Catalogo-servidores-api/pkg/validation"
)

// CustomerTxRunner transacción con los repositorios de clientes y auditoría.
type CustomerTxRunner interface {
	RunCustomer(ctx context.Context, fn func(
		customerRepo repository.CustomerRepository,
		auditRepo repository.AuditLogRepository,
	) error) error
}

// CustomerUseCase casos de uso CRUD para clientes. Cada mutación deja un AuditLog en la misma transacción.
type CustomerUseCase struct {
	tx    CustomerTxRunner
	repo  repository.CustomerRepository
	audit *audit.Recorder
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(tx CustomerTxRunner, repo repository.CustomerRepository, recorder *audit.Recorder) *CustomerUseCase {
	return &CustomerUseCase{tx: tx, repo: repo, audit: recorder}
}

// Create crea un nuevo cliente. El NIT/documento es único.
func (uc *CustomerUseCase) Create(ctx context.Context, meta entity.RequestMeta, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	if err := validateCustomer(&in); err != nil {
		return nil, err
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.tx.RunCustomer(ctx, func(repo repository.CustomerRepository, auditRepo repository.AuditLogRepository) error {
		existing, err := repo.GetByTaxID(ctx, in.TaxID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if err := repo.Create(ctx, customer); err != nil {
			return err
		}
		return uc.audit.Record(ctx, auditRepo, entity.AuditCreated, entity.AuditableCustomer, customer.ID,
			nil, toCustomerResponse(customer), meta)
	})
	if err != nil {
		return nil, domain.Technical("crear cliente", err)
	}
	return toCustomerResponse(customer), nil
}

// GetByID obtiene un cliente por ID.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	if !validation.IsUUID(id) {
		return nil, domain.NewNotFound("cliente", id)
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Technical("obtener cliente", err)
	}
	if c == nil {
		return nil, domain.NewNotFound("cliente", id)
	}
	return toCustomerResponse(c), nil
}

// List lista clientes ordenados por nombre.
func (uc *CustomerUseCase) List(ctx context.Context) ([]dto.CustomerResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, domain.Technical("listar clientes", err)
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCustomerResponse(c))
	}
	return out, nil
}

// Update reemplaza los datos de un cliente.
func (uc *CustomerUseCase) Update(ctx context.Context, meta entity.RequestMeta, id string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	if !validation.IsUUID(id) {
		return nil, domain.NewNotFound("cliente", id)
	}
	if err := validateCustomer(&in); err != nil {
		return nil, err
	}
	var customer *entity.Customer
	err := uc.tx.RunCustomer(ctx, func(repo repository.CustomerRepository, auditRepo repository.AuditLogRepository) error {
		var err error
		customer, err = repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.NewNotFound("cliente", id)
		}
		if in.TaxID != customer.TaxID {
			other, err := repo.GetByTaxID(ctx, in.TaxID)
			if err != nil {
				return err
			}
			if other != nil {
				return domain.ErrDuplicate
			}
		}
		before := toCustomerResponse(customer)
		customer.Name = in.Name
		customer.TaxID = in.TaxID
		customer.Email = in.Email
		customer.Phone = in.Phone
		customer.Address = in.Address
		customer.UpdatedAt = time.Now()
		if err := repo.Update(ctx, customer); err != nil {
			return err
		}
		return uc.audit.Record(ctx, auditRepo, entity.AuditUpdated, entity.AuditableCustomer, id,
			before, toCustomerResponse(customer), meta)
	})
	if err != nil {
		return nil, domain.Technical("actualizar cliente", err)
	}
	return toCustomerResponse(customer), nil
}

// Delete elimina un cliente.
func (uc *CustomerUseCase) Delete(ctx context.Context, meta entity.RequestMeta, id string) error {
	if !validation.IsUUID(id) {
		return domain.NewNotFound("cliente", id)
	}
	err := uc.tx.RunCustomer(ctx, func(repo repository.CustomerRepository, auditRepo repository.AuditLogRepository) error {
		c, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.NewNotFound("cliente", id)
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		return uc.audit.Record(ctx, auditRepo, entity.AuditDeleted, entity.AuditableCustomer, id,
			toCustomerResponse(c), nil, meta)
	})
	return domain.Technical("eliminar cliente", err)
}

// validateCustomer valida los campos y normaliza el documento para que
// "900.123.456-8" y "900123456-8" cuenten como el mismo cliente.
func validateCustomer(in *dto.CustomerRequest) error {
	in.TaxID = taxid.Normalize(in.TaxID)
	fields := validation.Struct(in)
	if fields == nil && in.TaxID != "" {
		if err := taxid.Validate(in.TaxID); err != nil {
			fields = map[string]string{"tax_id": err.Error()}
		}
	}
	if fields != nil {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
