package service_test

import (
	"context"
	"testing"

	"github.com/maniadelimpeza/crm-api/internal/domain"
	"github.com/maniadelimpeza/crm-api/internal/repository"
	"github.com/maniadelimpeza/crm-api/internal/service"
	"github.com/maniadelimpeza/crm-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createCustomerService(db *gorm.DB) *service.CustomerService {
	return service.NewCustomerService(
		repository.NewCustomerRepository(db),
		repository.NewCustomerNoteRepository(db),
		zap.NewNop(),
	)
}

func customerTestContext(t *testing.T, db *gorm.DB, email string) context.Context {
	t.Helper()
	company := testutil.CreateTestCompany(t, db, "Limpeza Total")
	user := testutil.CreateTestUser(t, db, company.ID, email, domain.ProfileAdmin)
	return testutil.ContextWithUser(user)
}

func TestCustomerService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCustomerService(db)
	ctx := customerTestContext(t, db, "ana@example.com")

	customer, err := svc.Create(ctx, &domain.CreateCustomerRequest{
		Name: "Maria Silva",
		Address: domain.AddressDTO{
			Street:  "Rua das Flores",
			Number:  "123",
			City:    "São Paulo",
			State:   "SP",
			ZipCode: "01000-000",
		},
		MobilePhone:  "11999990000",
		Email:        "maria@example.com",
		Observations: "Prefere atendimento pela manhã",
	})
	require.NoError(t, err)

	assert.Equal(t, "Maria Silva", customer.Name)
	assert.Equal(t, "São Paulo", customer.Address.City)
	assert.Equal(t, "11999990000", customer.MobilePhone)
}

func TestCustomerService_Delete_SoftDeletes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCustomerService(db)
	ctx := customerTestContext(t, db, "ana@example.com")

	customer, err := svc.Create(ctx, &domain.CreateCustomerRequest{Name: "Maria Silva"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, customer.ID))

	// the record survives and stays reachable by ID
	fetched, err := svc.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", fetched.Name)

	// but disappears from listings and search
	list, err := svc.List(ctx, 1, 20, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), list.Total)

	found, err := svc.Search(ctx, "maria", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), found.Total)
}

func TestCustomerService_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCustomerService(db)
	ctx := customerTestContext(t, db, "ana@example.com")

	_, err := svc.Create(ctx, &domain.CreateCustomerRequest{Name: "Maria Silva", MobilePhone: "11988887777"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &domain.CreateCustomerRequest{Name: "João Souza"})
	require.NoError(t, err)

	t.Run("by name fragment", func(t *testing.T) {
		resp, err := svc.Search(ctx, "silva", 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Total)
	})

	t.Run("by phone", func(t *testing.T) {
		resp, err := svc.Search(ctx, "8888", 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Total)
	})
}

func TestCustomerService_TenantIsolation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCustomerService(db)

	ctxA := customerTestContext(t, db, "a@example.com")
	ctxB := customerTestContext(t, db, "b@example.com")

	customer, err := svc.Create(ctxA, &domain.CreateCustomerRequest{Name: "Maria Silva"})
	require.NoError(t, err)

	_, err = svc.GetByID(ctxB, customer.ID)
	assert.ErrorIs(t, err, service.ErrCustomerNotFound)
}

func TestCustomerService_Notes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCustomerService(db)
	ctx := customerTestContext(t, db, "ana@example.com")

	customer, err := svc.Create(ctx, &domain.CreateCustomerRequest{Name: "Maria Silva"})
	require.NoError(t, err)

	note, err := svc.AddNote(ctx, customer.ID, &domain.CreateCustomerNoteRequest{Text: "Ligou pedindo orçamento"})
	require.NoError(t, err)
	assert.Equal(t, customer.ID, note.CustomerID)

	updated, err := svc.UpdateNote(ctx, customer.ID, note.ID, &domain.UpdateCustomerNoteRequest{Text: "Orçamento enviado"})
	require.NoError(t, err)
	assert.Equal(t, "Orçamento enviado", updated.Text)

	fetched, err := svc.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Notes, 1)

	require.NoError(t, svc.DeleteNote(ctx, customer.ID, note.ID))

	fetched, err = svc.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.Notes)
}

func TestCustomerService_UpdateNote_WrongCustomer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCustomerService(db)
	ctx := customerTestContext(t, db, "ana@example.com")

	customerA, err := svc.Create(ctx, &domain.CreateCustomerRequest{Name: "Cliente A"})
	require.NoError(t, err)
	customerB, err := svc.Create(ctx, &domain.CreateCustomerRequest{Name: "Cliente B"})
	require.NoError(t, err)

	note, err := svc.AddNote(ctx, customerA.ID, &domain.CreateCustomerNoteRequest{Text: "nota"})
	require.NoError(t, err)

	_, err = svc.UpdateNote(ctx, customerB.ID, note.ID, &domain.UpdateCustomerNoteRequest{Text: "outra"})
	assert.ErrorIs(t, err, service.ErrNotFound)
}
