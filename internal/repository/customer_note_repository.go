package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/maniadelimpeza/crm-api/internal/domain"
	"gorm.io/gorm"
)

type CustomerNoteRepository struct {
	db *gorm.DB
}

func NewCustomerNoteRepository(db *gorm.DB) *CustomerNoteRepository {
	return &CustomerNoteRepository{db: db}
}

func (r *CustomerNoteRepository) Create(ctx context.Context, note *domain.CustomerNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *CustomerNoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CustomerNote, error) {
	var note domain.CustomerNote
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted = ?", id, false).
		First(&note).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *CustomerNoteRepository) Update(ctx context.Context, note *domain.CustomerNote) error {
	return r.db.WithContext(ctx).Save(note).Error
}

// SoftDelete flags the note as deleted without removing the row
func (r *CustomerNoteRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.CustomerNote{}).
		Where("id = ?", id).
		Update("deleted", true).Error
}

func (r *CustomerNoteRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.CustomerNote, error) {
	var notes []domain.CustomerNote
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND deleted = ?", customerID, false).
		Order("created_at ASC").
		Find(&notes).Error
	return notes, err
}
