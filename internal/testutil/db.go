package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/maniadelimpeza/crm-api/internal/auth"
	"github.com/maniadelimpeza/crm-api/internal/database"
	"github.com/maniadelimpeza/crm-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter atomic.Int64

// SetupTestDB creates an isolated in-memory SQLite database with the
// full schema migrated
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache DSN keeps the database alive across pooled
	// connections for the duration of the test
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbCounter.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db), "failed to migrate test database")

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// CreateTestCompany inserts a company and returns it
func CreateTestCompany(t *testing.T, db *gorm.DB, name string) *domain.Company {
	t.Helper()
	company := &domain.Company{
		Name: name,
		CNPJ: fmt.Sprintf("%014d", dbCounter.Add(1)),
	}
	require.NoError(t, db.Create(company).Error)
	return company
}

// CreateTestUser inserts a user belonging to the given company
func CreateTestUser(t *testing.T, db *gorm.DB, companyID uuid.UUID, email string, profile domain.ProfileType) *domain.User {
	t.Helper()
	user := &domain.User{
		CompanyID:    companyID,
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Profile:      profile,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestCustomer inserts a customer belonging to the given company
func CreateTestCustomer(t *testing.T, db *gorm.DB, companyID uuid.UUID, name string) *domain.Customer {
	t.Helper()
	customer := &domain.Customer{
		CompanyID:   companyID,
		Name:        name,
		MobilePhone: "11999990000",
		Email:       "cliente@example.com",
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

// ContextWithUser builds a request context carrying the given user's identity
func ContextWithUser(user *domain.User) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Name:      user.Name,
		Email:     user.Email,
		Profile:   user.Profile,
	})
}
