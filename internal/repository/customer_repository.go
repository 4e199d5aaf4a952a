package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/maniadelimpeza/crm-api/internal/domain"
	"gorm.io/gorm"
)

// customerSortFields whitelists API sort fields to database columns
var customerSortFields = map[string]string{
	"name":      "name",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"city":      "address_city",
}

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

// GetByID fetches a customer within the tenant scope. Soft-deleted
// customers are still returned here; listings exclude them.
func (r *CustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	var customer domain.Customer
	query := r.db.WithContext(ctx).
		Preload("Notes", "deleted = ?", false).
		Where("id = ?", id)
	query = ApplyCompanyFilter(ctx, query)
	err := query.First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// SoftDelete flags the customer as deleted without removing the row
func (r *CustomerRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("id = ?", id).
		Update("deleted", true).Error
}

func (r *CustomerRepository) List(ctx context.Context, page, pageSize int, sort SortConfig) ([]domain.Customer, int64, error) {
	var customers []domain.Customer
	var total int64

	page, pageSize = NormalizePage(page, pageSize)

	query := r.db.WithContext(ctx).Model(&domain.Customer{}).Where("deleted = ?", false)
	query = ApplyCompanyFilter(ctx, query)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderClause := BuildOrderClause(sort, customerSortFields, "created_at")
	offset := (page - 1) * pageSize
	err := query.Order(orderClause).Offset(offset).Limit(pageSize).Find(&customers).Error

	return customers, total, err
}

// Search matches the term against name, phones and email, excluding
// soft-deleted customers
func (r *CustomerRepository) Search(ctx context.Context, term string, page, pageSize int) ([]domain.Customer, int64, error) {
	var customers []domain.Customer
	var total int64

	page, pageSize = NormalizePage(page, pageSize)

	query := r.db.WithContext(ctx).Model(&domain.Customer{}).Where("deleted = ?", false)
	query = ApplyCompanyFilter(ctx, query)

	if term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(mobile_phone) LIKE ? OR LOWER(landline_phone) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("name ASC").Offset(offset).Limit(pageSize).Find(&customers).Error

	return customers, total, err
}
