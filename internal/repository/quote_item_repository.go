package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/maniadelimpeza/crm-api/internal/domain"
	"gorm.io/gorm"
)

// ErrLastItem is returned when deleting the only remaining item of a quote
var ErrLastItem = errors.New("cannot delete the last item of a quote")

type QuoteItemRepository struct {
	db *gorm.DB
}

func NewQuoteItemRepository(db *gorm.DB) *QuoteItemRepository {
	return &QuoteItemRepository{db: db}
}

func (r *QuoteItemRepository) Create(ctx context.Context, item *domain.QuoteItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *QuoteItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuoteItem, error) {
	var item domain.QuoteItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *QuoteItemRepository) Update(ctx context.Context, item *domain.QuoteItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *QuoteItemRepository) ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]domain.QuoteItem, error) {
	var items []domain.QuoteItem
	err := r.db.WithContext(ctx).
		Where("quote_id = ?", quoteID).
		Order("item_order ASC").
		Find(&items).Error
	return items, err
}

func (r *QuoteItemRepository) CountByQuote(ctx context.Context, quoteID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.QuoteItem{}).
		Where("quote_id = ?", quoteID).
		Count(&count).Error
	return count, err
}

// Delete removes an item and closes the order gap it leaves. A quote
// must always keep at least one item, so deleting the last remaining
// item fails with ErrLastItem.
func (r *QuoteItemRepository) Delete(ctx context.Context, item *domain.QuoteItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.QuoteItem{}).
			Where("quote_id = ?", item.QuoteID).
			Count(&count).Error; err != nil {
			return err
		}
		if count <= 1 {
			return ErrLastItem
		}

		if err := tx.Delete(&domain.QuoteItem{}, "id = ?", item.ID).Error; err != nil {
			return err
		}

		// Shift the items that followed so order stays contiguous 1..N
		return tx.Model(&domain.QuoteItem{}).
			Where("quote_id = ? AND item_order > ?", item.QuoteID, item.Order).
			Update("item_order", gorm.Expr("item_order - 1")).Error
	})
}

// ReplaceOrders rewrites the order column for each item in one transaction
func (r *QuoteItemRepository) ReplaceOrders(ctx context.Context, quoteID uuid.UUID, orderedIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			if err := tx.Model(&domain.QuoteItem{}).
				Where("id = ? AND quote_id = ?", id, quoteID).
				Update("item_order", i+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteByQuote removes items no longer present after a quote update
func (r *QuoteItemRepository) DeleteByIDs(ctx context.Context, quoteID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("quote_id = ? AND id IN ?", quoteID, ids).
		Delete(&domain.QuoteItem{}).Error
}
