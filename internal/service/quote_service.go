package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/maniadelimpeza/crm-api/internal/auth"
	"github.com/maniadelimpeza/crm-api/internal/domain"
	"github.com/maniadelimpeza/crm-api/internal/mapper"
	"github.com/maniadelimpeza/crm-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuoteService struct {
	quoteRepo    *repository.QuoteRepository
	itemRepo     *repository.QuoteItemRepository
	customerRepo *repository.CustomerRepository
	logger       *zap.Logger
}

func NewQuoteService(
	quoteRepo *repository.QuoteRepository,
	itemRepo *repository.QuoteItemRepository,
	customerRepo *repository.CustomerRepository,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		quoteRepo:    quoteRepo,
		itemRepo:     itemRepo,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// Create builds the quote with its items and derives all totals. Items
// receive sequential order 1..N in submission order; each item total is
// quantity x unit price rounded to 2 decimals unless an explicit total
// was submitted.
func (s *QuoteService) Create(ctx context.Context, req *domain.CreateQuoteRequest) (*domain.QuoteDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if !req.PaymentMethod.IsValid() {
		return nil, ErrInvalidInput
	}

	if _, err := s.customerRepo.GetByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	quote := &domain.Quote{
		CompanyID:         userCtx.CompanyID,
		CustomerID:        req.CustomerID,
		UserID:            userCtx.UserID,
		PaymentMethod:     req.PaymentMethod,
		PaymentConditions: req.PaymentConditions,
		CashDiscount:      req.CashDiscount,
		Items:             buildItems(req.Items),
	}
	quote.TotalPrice = mapper.CalculateQuoteTotal(quote.Items, quote.CashDiscount, quote.PaymentConditions)

	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}

	s.logger.Info("quote created",
		zap.String("quote_id", quote.ID.String()),
		zap.String("customer_id", quote.CustomerID.String()),
		zap.Float64("total_price", quote.TotalPrice),
	)

	return s.GetByID(ctx, quote.ID)
}

func (s *QuoteService) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuoteDTO, error) {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	dto := mapper.ToQuoteDTO(quote)
	return &dto, nil
}

// Update reconciles the submitted items against the stored ones: items
// whose IDs are absent from the request are removed, existing IDs are
// mutated in place, zero-ID entries are appended. Order follows the
// submission sequence and the total is rederived.
func (s *QuoteService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateQuoteRequest) (*domain.QuoteDTO, error) {
	if !req.PaymentMethod.IsValid() {
		return nil, ErrInvalidInput
	}

	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	if _, err := s.customerRepo.GetByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	existing := make(map[uuid.UUID]*domain.QuoteItem, len(quote.Items))
	for i := range quote.Items {
		existing[quote.Items[i].ID] = &quote.Items[i]
	}

	submitted := make(map[uuid.UUID]bool, len(req.Items))
	var items []domain.QuoteItem
	for i, itemReq := range req.Items {
		order := i + 1
		if itemReq.ID != uuid.Nil {
			if current, ok := existing[itemReq.ID]; ok {
				submitted[itemReq.ID] = true
				current.Description = itemReq.Description
				current.Quantity = itemReq.Quantity
				current.UnitPrice = itemReq.UnitPrice
				current.TotalPrice = itemTotal(itemReq)
				current.Order = order
				current.CustomFields = itemReq.CustomFields
				items = append(items, *current)
				continue
			}
		}
		items = append(items, domain.QuoteItem{
			QuoteID:      quote.ID,
			Description:  itemReq.Description,
			Quantity:     itemReq.Quantity,
			UnitPrice:    itemReq.UnitPrice,
			TotalPrice:   itemTotal(itemReq),
			Order:        order,
			CustomFields: itemReq.CustomFields,
		})
	}

	var removed []uuid.UUID
	for itemID := range existing {
		if !submitted[itemID] {
			removed = append(removed, itemID)
		}
	}
	if err := s.itemRepo.DeleteByIDs(ctx, quote.ID, removed); err != nil {
		return nil, fmt.Errorf("failed to remove items: %w", err)
	}

	quote.CustomerID = req.CustomerID
	quote.PaymentMethod = req.PaymentMethod
	quote.PaymentConditions = req.PaymentConditions
	quote.CashDiscount = req.CashDiscount
	quote.Items = items
	quote.TotalPrice = mapper.CalculateQuoteTotal(items, quote.CashDiscount, quote.PaymentConditions)

	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to update quote: %w", err)
	}

	return s.GetByID(ctx, quote.ID)
}

func (s *QuoteService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.quoteRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuoteNotFound
		}
		return fmt.Errorf("failed to get quote: %w", err)
	}

	if err := s.quoteRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete quote: %w", err)
	}

	s.logger.Info("quote deleted", zap.String("quote_id", id.String()))
	return nil
}

func (s *QuoteService) List(ctx context.Context, page, pageSize int) (*domain.PaginatedResponse, error) {
	page, pageSize = repository.NormalizePage(page, pageSize)

	quotes, total, err := s.quoteRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}

	resp := mapper.ToPaginatedResponse(mapper.ToQuoteDTOs(quotes), total, page, pageSize)
	return &resp, nil
}

// Search filters quotes by customer fields and creation date range
func (s *QuoteService) Search(ctx context.Context, req *domain.QuoteSearchRequest) (*domain.PaginatedResponse, error) {
	filter := repository.QuoteSearchFilter{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Sort:          repository.DefaultSortConfig(),
		Page:          req.Page,
		PageSize:      req.PageSize,
	}
	if req.SortField != "" {
		filter.Sort = repository.SortConfig{
			Field: req.SortField,
			Order: repository.ParseSortOrder(req.SortOrder),
		}
	}
	if req.StartDate != "" {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return nil, ErrInvalidInput
		}
		filter.StartDate = &start
	}
	if req.EndDate != "" {
		end, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return nil, ErrInvalidInput
		}
		filter.EndDate = &end
	}

	page, pageSize := repository.NormalizePage(req.Page, req.PageSize)
	filter.Page, filter.PageSize = page, pageSize

	quotes, total, err := s.quoteRepo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search quotes: %w", err)
	}

	resp := mapper.ToPaginatedResponse(mapper.ToQuoteDTOs(quotes), total, page, pageSize)
	return &resp, nil
}

func buildItems(reqs []domain.QuoteItemRequest) []domain.QuoteItem {
	items := make([]domain.QuoteItem, len(reqs))
	for i, req := range reqs {
		items[i] = domain.QuoteItem{
			Description:  req.Description,
			Quantity:     req.Quantity,
			UnitPrice:    req.UnitPrice,
			TotalPrice:   itemTotal(req),
			Order:        i + 1,
			CustomFields: req.CustomFields,
		}
	}
	return items
}

func itemTotal(req domain.QuoteItemRequest) float64 {
	if req.TotalPrice != nil {
		return mapper.Round2(*req.TotalPrice)
	}
	return mapper.CalculateItemTotal(req.Quantity, req.UnitPrice)
}
