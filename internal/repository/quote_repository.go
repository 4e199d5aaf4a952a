package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maniadelimpeza/crm-api/internal/domain"
	"gorm.io/gorm"
)

// quoteSortFields whitelists API sort fields to database columns
var quoteSortFields = map[string]string{
	"createdAt":    "quotes.created_at",
	"updatedAt":    "quotes.updated_at",
	"totalPrice":   "quotes.total_price",
	"customerName": "customers.name",
}

// QuoteSearchFilter holds the repository-level search criteria for quotes
type QuoteSearchFilter struct {
	CustomerName  string
	CustomerPhone string
	StartDate     *time.Time
	EndDate       *time.Time
	Sort          SortConfig
	Page          int
	PageSize      int
}

type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// Create persists the quote together with its items in one transaction
func (r *QuoteRepository) Create(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *QuoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	var quote domain.Quote
	query := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("item_order ASC")
		}).
		Preload("Customer").
		Preload("User").
		Where("id = ?", id)
	query = ApplyCompanyFilter(ctx, query)
	err := query.First(&quote).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// Update persists the quote's own columns and its reconciled items in
// one transaction. Items carrying an ID are updated column by column,
// the rest inserted; the caller removes dropped items beforehand.
// Associations are never saved through the quote struct, so stale
// preloads cannot overwrite the submitted foreign keys.
func (r *QuoteRepository) Update(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&domain.Quote{}).
			Where("id = ?", quote.ID).
			Updates(map[string]interface{}{
				"customer_id":        quote.CustomerID,
				"payment_method":     quote.PaymentMethod,
				"payment_conditions": quote.PaymentConditions,
				"cash_discount":      quote.CashDiscount,
				"total_price":        quote.TotalPrice,
			}).Error
		if err != nil {
			return err
		}

		for i := range quote.Items {
			item := &quote.Items[i]
			item.QuoteID = quote.ID
			if item.ID == uuid.Nil {
				if err := tx.Create(item).Error; err != nil {
					return err
				}
				continue
			}
			err := tx.Model(&domain.QuoteItem{}).
				Where("id = ? AND quote_id = ?", item.ID, quote.ID).
				Updates(map[string]interface{}{
					"description":   item.Description,
					"quantity":      item.Quantity,
					"unit_price":    item.UnitPrice,
					"total_price":   item.TotalPrice,
					"item_order":    item.Order,
					"custom_fields": item.CustomFields,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateTotalPrice writes only the derived total of a quote
func (r *QuoteRepository) UpdateTotalPrice(ctx context.Context, id uuid.UUID, total float64) error {
	return r.db.WithContext(ctx).
		Model(&domain.Quote{}).
		Where("id = ?", id).
		Update("total_price", total).Error
}

// Delete removes the quote; items go with it via the cascade constraint
func (r *QuoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select("Items").Delete(&domain.Quote{BaseModel: domain.BaseModel{ID: id}}).Error
}

func (r *QuoteRepository) List(ctx context.Context, page, pageSize int) ([]domain.Quote, int64, error) {
	var quotes []domain.Quote
	var total int64

	page, pageSize = NormalizePage(page, pageSize)

	query := r.db.WithContext(ctx).Model(&domain.Quote{})
	query = ApplyCompanyFilter(ctx, query)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("item_order ASC")
		}).
		Preload("Customer").
		Preload("User").
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&quotes).Error

	return quotes, total, err
}

// Search composes the filter criteria into one query. Customer fields
// require a join; the date range is inclusive on both ends.
func (r *QuoteRepository) Search(ctx context.Context, filter QuoteSearchFilter) ([]domain.Quote, int64, error) {
	var quotes []domain.Quote
	var total int64

	page, pageSize := NormalizePage(filter.Page, filter.PageSize)

	query := r.db.WithContext(ctx).Model(&domain.Quote{}).
		Joins("JOIN customers ON customers.id = quotes.customer_id")
	query = ApplyCompanyFilterWithAlias(ctx, query, "quotes")

	if filter.CustomerName != "" {
		pattern := "%" + strings.ToLower(filter.CustomerName) + "%"
		query = query.Where("LOWER(customers.name) LIKE ?", pattern)
	}
	if filter.CustomerPhone != "" {
		pattern := "%" + filter.CustomerPhone + "%"
		query = query.Where("customers.mobile_phone LIKE ? OR customers.landline_phone LIKE ?", pattern, pattern)
	}
	if filter.StartDate != nil {
		query = query.Where("quotes.created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("quotes.created_at < ?", filter.EndDate.AddDate(0, 0, 1))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderClause := BuildOrderClause(filter.Sort, quoteSortFields, "quotes.created_at")
	offset := (page - 1) * pageSize
	err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("item_order ASC")
		}).
		Preload("Customer").
		Preload("User").
		Order(orderClause).
		Offset(offset).Limit(pageSize).
		Find(&quotes).Error

	return quotes, total, err
}
