package service_test

import (
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

func createCompanyService(db *gorm.DB) *service.CompanyService {
	return service.NewCompanyService(repository.NewCompanyRepository(db), zap.NewNop())
}

func TestCompanyService_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCompanyService(db)

	company := testutil.CreateTestCompany(t, db, "Limpeza Total")
	user := testutil.CreateTestUser(t, db, company.ID, "ana@example.com", domain.ProfileEmployee)

	fetched, err := svc.GetByID(testutil.ContextWithUser(user), company.ID)
	require.NoError(t, err)
	assert.Equal(t, "Limpeza Total", fetched.Name)
	assert.Equal(t, company.CNPJ, fetched.CNPJ)
}

func TestCompanyService_GetByID_OtherCompanyDenied(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCompanyService(db)

	companyA := testutil.CreateTestCompany(t, db, "Empresa A")
	companyB := testutil.CreateTestCompany(t, db, "Empresa B")
	userA := testutil.CreateTestUser(t, db, companyA.ID, "a@example.com", domain.ProfileAdmin)

	_, err := svc.GetByID(testutil.ContextWithUser(userA), companyB.ID)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
}

func TestCompanyService_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCompanyService(db)

	company := testutil.CreateTestCompany(t, db, "Limpeza Total")
	admin := testutil.CreateTestUser(t, db, company.ID, "admin@example.com", domain.ProfileAdmin)

	updated, err := svc.Update(testutil.ContextWithUser(admin), company.ID, &domain.UpdateCompanyRequest{
		Name:    "Limpeza Total LTDA",
		Address: "Av. Paulista, 1000",
		Phone:   "1133334444",
	})
	require.NoError(t, err)

	assert.Equal(t, "Limpeza Total LTDA", updated.Name)
	assert.Equal(t, "Av. Paulista, 1000", updated.Address)
	// CNPJ stays untouched
	assert.Equal(t, company.CNPJ, updated.CNPJ)
}

func TestCompanyService_Update_RequiresAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCompanyService(db)

	company := testutil.CreateTestCompany(t, db, "Limpeza Total")
	employee := testutil.CreateTestUser(t, db, company.ID, "emp@example.com", domain.ProfileEmployee)

	_, err := svc.Update(testutil.ContextWithUser(employee), company.ID, &domain.UpdateCompanyRequest{
		Name: "Tentativa",
	})
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
}
