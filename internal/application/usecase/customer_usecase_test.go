package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-servidores-api/internal/application/audit"
	"github.com/jhoicas/Catalogo-servidores-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-servidores-api/internal/application/usecase"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-servidores-api/internal/infrastructure/memory"
)

func newCustomerUseCase() (*usecase.CustomerUseCase, *memory.Store) {
	store := memory.NewStore()
	uc := usecase.NewCustomerUseCase(memory.NewTxRunner(store), memory.NewCustomerRepository(store), audit.NewRecorder())
	return uc, store
}

func TestCustomer_CicloCompletoAuditado(t *testing.T) {
	ctx := context.Background()
	meta := entity.RequestMeta{UserID: uuid.NewString()}
	uc, store := newCustomerUseCase()

	created, err := uc.Create(ctx, meta, dto.CustomerRequest{Name: "Acme", TaxID: "900123456"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, meta, dto.CustomerRequest{Name: "Otra", TaxID: "900123456"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	updated, err := uc.Update(ctx, meta, created.ID, dto.CustomerRequest{Name: "Acme SAS", TaxID: "900123456", Email: "ventas@acme.co"})
	require.NoError(t, err)
	assert.Equal(t, "Acme SAS", updated.Name)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, uc.Delete(ctx, meta, created.ID))
	_, err = uc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	logs := store.AuditLogs()
	require.Len(t, logs, 3)
	assert.Equal(t, []string{entity.AuditCreated, entity.AuditUpdated, entity.AuditDeleted},
		[]string{logs[0].Event, logs[1].Event, logs[2].Event})
	assert.Equal(t, entity.AuditableCustomer, logs[0].AuditableType)
}

func TestCustomer_Validacion(t *testing.T) {
	uc, _ := newCustomerUseCase()
	_, err := uc.Create(context.Background(), entity.RequestMeta{}, dto.CustomerRequest{Name: "Sin NIT", Email: "no-es-email"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "tax_id")
	assert.Contains(t, ve.Fields, "email")
}

func TestCustomer_DocumentoNormalizadoDetectaDuplicado(t *testing.T) {
	ctx := context.Background()
	uc, _ := newCustomerUseCase()

	created, err := uc.Create(ctx, entity.RequestMeta{}, dto.CustomerRequest{Name: "Acme", TaxID: "900.123.456-8"})
	require.NoError(t, err)
	assert.Equal(t, "900123456-8", created.TaxID)

	_, err = uc.Create(ctx, entity.RequestMeta{}, dto.CustomerRequest{Name: "Acme bis", TaxID: "900123456-8"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCustomer_NITConDigitoInvalido(t *testing.T) {
	uc, store := newCustomerUseCase()
	_, err := uc.Create(context.Background(), entity.RequestMeta{}, dto.CustomerRequest{Name: "Acme", TaxID: "900123456-7"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "tax_id")
	assert.Empty(t, store.AuditLogs())
}
