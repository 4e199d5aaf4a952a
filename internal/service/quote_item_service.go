package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/maniadelimpeza/crm-api/internal/domain"
	"github.com/maniadelimpeza/crm-api/internal/mapper"
	"github.com/maniadelimpeza/crm-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuoteItemService covers item-level mutations outside a full quote
// update. The parent total here is the plain sum of item totals; the
// cash discount is only applied by full quote create/update.
type QuoteItemService struct {
	quoteRepo *repository.QuoteRepository
	itemRepo  *repository.QuoteItemRepository
	logger    *zap.Logger
}

func NewQuoteItemService(
	quoteRepo *repository.QuoteRepository,
	itemRepo *repository.QuoteItemRepository,
	logger *zap.Logger,
) *QuoteItemService {
	return &QuoteItemService{
		quoteRepo: quoteRepo,
		itemRepo:  itemRepo,
		logger:    logger,
	}
}

// AddItem appends an item at the end of the quote
func (s *QuoteItemService) AddItem(ctx context.Context, quoteID uuid.UUID, req *domain.AddQuoteItemRequest) (*domain.QuoteItemDTO, error) {
	quote, err := s.getQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	count, err := s.itemRepo.CountByQuote(ctx, quote.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}

	item := &domain.QuoteItem{
		QuoteID:      quote.ID,
		Description:  req.Description,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		TotalPrice:   mapper.CalculateItemTotal(req.Quantity, req.UnitPrice),
		Order:        int(count) + 1,
		CustomFields: req.CustomFields,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	if err := s.recalculateQuoteTotal(ctx, quote.ID); err != nil {
		return nil, err
	}

	dto := mapper.ToQuoteItemDTO(item)
	return &dto, nil
}

// UpdateItem mutates a single item and rederives its total and the
// parent quote's total
func (s *QuoteItemService) UpdateItem(ctx context.Context, itemID uuid.UUID, req *domain.UpdateQuoteItemRequest) (*domain.QuoteItemDTO, error) {
	item, err := s.getOwnedItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	item.Description = req.Description
	item.Quantity = req.Quantity
	item.UnitPrice = req.UnitPrice
	item.TotalPrice = mapper.CalculateItemTotal(req.Quantity, req.UnitPrice)
	item.CustomFields = req.CustomFields

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	if err := s.recalculateQuoteTotal(ctx, item.QuoteID); err != nil {
		return nil, err
	}

	dto := mapper.ToQuoteItemDTO(item)
	return &dto, nil
}

// DeleteItem removes an item. A quote keeps at least one item; deleting
// the last one is refused.
func (s *QuoteItemService) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	item, err := s.getOwnedItem(ctx, itemID)
	if err != nil {
		return err
	}

	if err := s.itemRepo.Delete(ctx, item); err != nil {
		if errors.Is(err, repository.ErrLastItem) {
			return ErrInvalidOperation
		}
		return fmt.Errorf("failed to delete item: %w", err)
	}

	return s.recalculateQuoteTotal(ctx, item.QuoteID)
}

// ReorderItems rewrites the order column to match the given sequence.
// The ID set must exactly match the quote's items.
func (s *QuoteItemService) ReorderItems(ctx context.Context, quoteID uuid.UUID, orderedIDs []uuid.UUID) error {
	quote, err := s.getQuote(ctx, quoteID)
	if err != nil {
		return err
	}

	items, err := s.itemRepo.ListByQuote(ctx, quote.ID)
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}

	if len(items) != len(orderedIDs) {
		return ErrInvalidOperation
	}
	current := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		current[item.ID] = true
	}
	for _, id := range orderedIDs {
		if !current[id] {
			return ErrInvalidOperation
		}
		delete(current, id)
	}

	if err := s.itemRepo.ReplaceOrders(ctx, quote.ID, orderedIDs); err != nil {
		return fmt.Errorf("failed to reorder items: %w", err)
	}

	s.logger.Info("quote items reordered",
		zap.String("quote_id", quote.ID.String()),
		zap.Int("item_count", len(orderedIDs)),
	)
	return nil
}

func (s *QuoteItemService) getQuote(ctx context.Context, quoteID uuid.UUID) (*domain.Quote, error) {
	quote, err := s.quoteRepo.GetByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return quote, nil
}

// getOwnedItem loads an item and verifies its quote belongs to the
// caller's tenant
func (s *QuoteItemService) getOwnedItem(ctx context.Context, itemID uuid.UUID) (*domain.QuoteItem, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	if _, err := s.getQuote(ctx, item.QuoteID); err != nil {
		return nil, ErrQuoteItemNotFound
	}
	return item, nil
}

func (s *QuoteItemService) recalculateQuoteTotal(ctx context.Context, quoteID uuid.UUID) error {
	items, err := s.itemRepo.ListByQuote(ctx, quoteID)
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}

	total := mapper.SumItemTotals(items)
	if err := s.quoteRepo.UpdateTotalPrice(ctx, quoteID, total); err != nil {
		return fmt.Errorf("failed to update quote total: %w", err)
	}
	return nil
}
