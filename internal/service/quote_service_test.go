package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/maniadelimpeza/crm-api/internal/domain"
	"github.com/maniadelimpeza/crm-api/internal/repository"
	"github.com/maniadelimpeza/crm-api/internal/service"
	"github.com/maniadelimpeza/crm-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createQuoteService(db *gorm.DB) *service.QuoteService {
	return service.NewQuoteService(
		repository.NewQuoteRepository(db),
		repository.NewQuoteItemRepository(db),
		repository.NewCustomerRepository(db),
		zap.NewNop(),
	)
}

func TestQuoteService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createQuoteService(db)

	company := testutil.CreateTestCompany(t, db, "Limpeza Total")
	user := testutil.CreateTestUser(t, db, company.ID, "ana@example.com", domain.ProfileAdmin)
	customer := testutil.CreateTestCustomer(t, db, company.ID, "Cliente A")
	ctx := testutil.ContextWithUser(user)

	discount := 10.0
	quote, err := svc.Create(ctx, &domain.CreateQuoteRequest{
		CustomerID:        customer.ID,
		PaymentMethod:     domain.PaymentMethodPix,
		PaymentConditions: "pagamento à vista",
		CashDiscount:      &discount,
		Items: []domain.QuoteItemRequest{
			{Description: "Limpeza de sofá", Quantity: 2, UnitPrice: 60},
			{Description: "Limpeza de tapete", Quantity: 1, UnitPrice: 80},
		},
	})
	require.NoError(t, err)

	// 120 + 80 = 200, minus the cash discount
	assert.Equal(t, 190.0, quote.TotalPrice)
	require.Len(t, quote.Items, 2)
	assert.Equal(t, 1, quote.Items[0].Order)
	assert.Equal(t, 2, quote.Items[1].Order)
	assert.Equal(t, 120.0, quote.Items[0].TotalPrice)
	assert.Equal(t, "Cliente A", quote.CustomerName)
	assert.Equal(t, user.ID, quote.UserID)
}

func TestQuoteService_Create_ExplicitItemTotal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createQuoteService(db)

	company := testutil.CreateTestCompany(t, db, "Limpeza Total")
	user := testutil.CreateTestUser(t, db, company.ID, "ana@example.com", domain.ProfileAdmin)
	customer := testutil.CreateTestCustomer(t, db, company.ID, "Cliente A")
	ctx := testutil.ContextWithUser(user)

	override := 150.0
	quote, err := svc.Create(ctx, &domain.CreateQuoteRequest{
		CustomerID:    customer.ID,
		PaymentMethod: domain.PaymentMethodCash,
		Items: []domain.QuoteItemRequest{
			{Description: "Pacote fechado", Quantity: 3, UnitPrice: 60, TotalPrice: &override},
		},
	})
	require.NoError(t, err)

	// the submitted total wins over quantity x unit price
	assert.Equal(t, 150.0, quote.Items[0].TotalPrice)
	assert.Equal(t, 150.0, quote.TotalPrice)
}

func TestQuoteService_Create_UnknownCustomer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createQuoteService(db)

	company := testutil.CreateTestCompany(t, db, "Limpeza Total")
	user := testutil.CreateTestUser(t, db, company.ID, "ana@example.com", domain.ProfileAdmin)
	ctx := testutil.ContextWithUser(user)

	_, err := svc.Create(ctx, &domain.CreateQuoteRequest{
		CustomerID:    uuid.New(),
		PaymentMethod: domain.PaymentMethodCash,
		Items: []domain.QuoteItemRequest{
			{Description: "Limpeza", Quantity: 1, UnitPrice: 50},
		},
	})
	assert.ErrorIs(t, err, service.ErrCustomerNotFound)
}

func TestQuoteService_Create_InvalidPaymentMethod(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createQuoteService(db)

	company := testutil.CreateTestCompany(t, db, "Limpeza Total")
	user := testutil.CreateTestUser(t, db, company.ID, "ana@example.com", domain.ProfileAdmin)
	customer := testutil.CreateTestCustomer(t, db, company.ID, "Cliente A")
	ctx := testutil.ContextWithUser(user)

	_, err := svc.Create(ctx, &domain.CreateQuoteRequest{
		CustomerID:    customer.ID,
		PaymentMethod: "cheque",
		Items: []domain.QuoteItemRequest{
			{Description: "Limpeza", Quantity: 1, UnitPrice: 50},
		},
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestQuoteService_Update_ReconcilesItems(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createQuoteService(db)

	company := testutil.CreateTestCompany(t, db, "Limpeza Total")
	user := testutil.CreateTestUser(t, db, company.ID, "ana@example.com", domain.ProfileAdmin)
	customer := testutil.CreateTestCustomer(t, db, company.ID, "Cliente A")
	ctx := testutil.ContextWithUser(user)

	quote, err := svc.Create(ctx, &domain.CreateQuoteRequest{
		CustomerID:    customer.ID,
		PaymentMethod: domain.PaymentMethodPix,
		Items: []domain.QuoteItemRequest{
			{Description: "Item A", Quantity: 1, UnitPrice: 100},
			{Description: "Item B", Quantity: 1, UnitPrice: 50},
		},
	})
	require.NoError(t, err)

	// keep B (mutated), drop A, add C; B comes first in the new order
	updated, err := svc.Update(ctx, quote.ID, &domain.UpdateQuoteRequest{
		CustomerID:    customer.ID,
		PaymentMethod: domain.PaymentMethodPix,
		Items: []domain.QuoteItemRequest{
			{ID: quote.Items[1].ID, Description: "Item B", Quantity: 2, UnitPrice: 50},
			{Description: "Item C", Quantity: 1, UnitPrice: 25},
		},
	})
	require.NoError(t, err)

	require.Len(t, updated.Items, 2)
	assert.Equal(t, quote.Items[1].ID, updated.Items[0].ID)
	assert.Equal(t, 1, updated.Items[0].Order)
	assert.Equal(t, 100.0, updated.Items[0].TotalPrice)
	assert.Equal(t, "Item C", updated.Items[1].Description)
	assert.Equal(t, 2, updated.Items[1].Order)
	assert.Equal(t, 125.0, updated.TotalPrice)
}

func TestQuoteService_Update_ChangesCustomer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createQuoteService(db)

	company := testutil.CreateTestCompany(t, db, "Limpeza Total")
	user := testutil.CreateTestUser(t, db, company.ID, "ana@example.com", domain.ProfileAdmin)
	customerA := testutil.CreateTestCustomer(t, db, company.ID, "Cliente A")
	customerB := testutil.CreateTestCustomer(t, db, company.ID, "Cliente B")
	ctx := testutil.ContextWithUser(user)

	quote, err := svc.Create(ctx, &domain.CreateQuoteRequest{
		CustomerID:    customerA.ID,
		PaymentMethod: domain.PaymentMethodCash,
		Items: []domain.QuoteItemRequest{
			{Description: "Limpeza", Quantity: 1, UnitPrice: 50},
		},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, quote.ID, &domain.UpdateQuoteRequest{
		CustomerID:    customerB.ID,
		PaymentMethod: domain.PaymentMethodCash,
		Items: []domain.QuoteItemRequest{
			{ID: quote.Items[0].ID, Description: "Limpeza", Quantity: 1, UnitPrice: 50},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, customerB.ID, updated.CustomerID)
	assert.Equal(t, "Cliente B", updated.CustomerName)

	// the change survives a fresh fetch
	fetched, err := svc.GetByID(ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, customerB.ID, fetched.CustomerID)
	assert.Equal(t, "Cliente B", fetched.CustomerName)
}

func TestQuoteService_CustomFieldsRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createQuoteService(db)

	company := testutil.CreateTestCompany(t, db, "Limpeza Total")
	user := testutil.CreateTestUser(t, db, company.ID, "ana@example.com", domain.ProfileAdmin)
	customer := testutil.CreateTestCustomer(t, db, company.ID, "Cliente A")
	ctx := testutil.ContextWithUser(user)

	fields := map[string]string{"cor": "azul", "ambiente": "sala"}
	quote, err := svc.Create(ctx, &domain.CreateQuoteRequest{
		CustomerID:    customer.ID,
		PaymentMethod: domain.PaymentMethodPix,
		Items: []domain.QuoteItemRequest{
			{Description: "Limpeza de sofá", Quantity: 1, UnitPrice: 120, CustomFields: fields},
			{Description: "Limpeza de tapete", Quantity: 1, UnitPrice: 80},
		},
	})
	require.NoError(t, err)

	fetched, err := svc.GetByID(ctx, quote.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Items, 2)
	assert.Equal(t, fields, fetched.Items[0].CustomFields)
	assert.Empty(t, fetched.Items[1].CustomFields)
}

func TestQuoteService_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createQuoteService(db)

	company := testutil.CreateTestCompany(t, db, "Limpeza Total")
	user := testutil.CreateTestUser(t, db, company.ID, "ana@example.com", domain.ProfileAdmin)
	customer := testutil.CreateTestCustomer(t, db, company.ID, "Cliente A")
	ctx := testutil.ContextWithUser(user)

	quote, err := svc.Create(ctx, &domain.CreateQuoteRequest{
		CustomerID:    customer.ID,
		PaymentMethod: domain.PaymentMethodCash,
		Items: []domain.QuoteItemRequest{
			{Description: "Limpeza", Quantity: 1, UnitPrice: 50},
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, quote.ID))

	_, err = svc.GetByID(ctx, quote.ID)
	assert.ErrorIs(t, err, service.ErrQuoteNotFound)

	// items go with the quote
	var count int64
	require.NoError(t, db.Model(&domain.QuoteItem{}).Where("quote_id = ?", quote.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestQuoteService_TenantIsolation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createQuoteService(db)

	companyA := testutil.CreateTestCompany(t, db, "Empresa A")
	companyB := testutil.CreateTestCompany(t, db, "Empresa B")
	userA := testutil.CreateTestUser(t, db, companyA.ID, "a@example.com", domain.ProfileAdmin)
	userB := testutil.CreateTestUser(t, db, companyB.ID, "b@example.com", domain.ProfileAdmin)
	customerA := testutil.CreateTestCustomer(t, db, companyA.ID, "Cliente A")

	quote, err := svc.Create(testutil.ContextWithUser(userA), &domain.CreateQuoteRequest{
		CustomerID:    customerA.ID,
		PaymentMethod: domain.PaymentMethodCash,
		Items: []domain.QuoteItemRequest{
			{Description: "Limpeza", Quantity: 1, UnitPrice: 50},
		},
	})
	require.NoError(t, err)

	_, err = svc.GetByID(testutil.ContextWithUser(userB), quote.ID)
	assert.ErrorIs(t, err, service.ErrQuoteNotFound)
}

func TestQuoteService_Search_InvalidDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createQuoteService(db)

	company := testutil.CreateTestCompany(t, db, "Limpeza Total")
	user := testutil.CreateTestUser(t, db, company.ID, "ana@example.com", domain.ProfileAdmin)
	ctx := testutil.ContextWithUser(user)

	_, err := svc.Search(ctx, &domain.QuoteSearchRequest{StartDate: "30/08/2026"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestQuoteService_Search_ByCustomerName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createQuoteService(db)

	company := testutil.CreateTestCompany(t, db, "Limpeza Total")
	user := testutil.CreateTestUser(t, db, company.ID, "ana@example.com", domain.ProfileAdmin)
	customerA := testutil.CreateTestCustomer(t, db, company.ID, "Maria Silva")
	customerB := testutil.CreateTestCustomer(t, db, company.ID, "João Souza")
	ctx := testutil.ContextWithUser(user)

	for _, c := range []uuid.UUID{customerA.ID, customerB.ID} {
		_, err := svc.Create(ctx, &domain.CreateQuoteRequest{
			CustomerID:    c,
			PaymentMethod: domain.PaymentMethodCash,
			Items: []domain.QuoteItemRequest{
				{Description: "Limpeza", Quantity: 1, UnitPrice: 50},
			},
		})
		require.NoError(t, err)
	}

	resp, err := svc.Search(ctx, &domain.QuoteSearchRequest{CustomerName: "maria"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
}
