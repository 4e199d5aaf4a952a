package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/maniadelimpeza/crm-api/internal/auth"
	"github.com/maniadelimpeza/crm-api/internal/domain"
	"github.com/maniadelimpeza/crm-api/internal/mapper"
	"github.com/maniadelimpeza/crm-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CustomerService struct {
	customerRepo *repository.CustomerRepository
	noteRepo     *repository.CustomerNoteRepository
	logger       *zap.Logger
}

func NewCustomerService(
	customerRepo *repository.CustomerRepository,
	noteRepo *repository.CustomerNoteRepository,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		noteRepo:     noteRepo,
		logger:       logger,
	}
}

func (s *CustomerService) Create(ctx context.Context, req *domain.CreateCustomerRequest) (*domain.CustomerDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	customer := &domain.Customer{
		CompanyID:     userCtx.CompanyID,
		Name:          req.Name,
		Address:       mapper.ToAddress(req.Address),
		MobilePhone:   req.MobilePhone,
		LandlinePhone: req.LandlinePhone,
		Email:         req.Email,
		Observations:  req.Observations,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("company_id", customer.CompanyID.String()),
	)

	dto := mapper.ToCustomerDTO(customer)
	return &dto, nil
}

func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*domain.CustomerDTO, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	dto := mapper.ToCustomerDTO(customer)
	return &dto, nil
}

func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateCustomerRequest) (*domain.CustomerDTO, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	customer.Name = req.Name
	customer.Address = mapper.ToAddress(req.Address)
	customer.MobilePhone = req.MobilePhone
	customer.LandlinePhone = req.LandlinePhone
	customer.Email = req.Email
	customer.Observations = req.Observations

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	dto := mapper.ToCustomerDTO(customer)
	return &dto, nil
}

// Delete soft-deletes the customer; the row and its notes are kept
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.customerRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCustomerNotFound
		}
		return fmt.Errorf("failed to get customer: %w", err)
	}

	if err := s.customerRepo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	s.logger.Info("customer deleted", zap.String("customer_id", id.String()))
	return nil
}

func (s *CustomerService) List(ctx context.Context, page, pageSize int, sortField, sortOrder string) (*domain.PaginatedResponse, error) {
	sort := repository.DefaultSortConfig()
	if sortField != "" {
		sort = repository.SortConfig{
			Field: sortField,
			Order: repository.ParseSortOrder(sortOrder),
		}
	}

	page, pageSize = repository.NormalizePage(page, pageSize)

	customers, total, err := s.customerRepo.List(ctx, page, pageSize, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	resp := mapper.ToPaginatedResponse(mapper.ToCustomerDTOs(customers), total, page, pageSize)
	return &resp, nil
}

func (s *CustomerService) Search(ctx context.Context, term string, page, pageSize int) (*domain.PaginatedResponse, error) {
	page, pageSize = repository.NormalizePage(page, pageSize)

	customers, total, err := s.customerRepo.Search(ctx, term, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}

	resp := mapper.ToPaginatedResponse(mapper.ToCustomerDTOs(customers), total, page, pageSize)
	return &resp, nil
}

// AddNote appends a relationship note to a customer
func (s *CustomerService) AddNote(ctx context.Context, customerID uuid.UUID, req *domain.CreateCustomerNoteRequest) (*domain.CustomerNoteDTO, error) {
	if _, err := s.customerRepo.GetByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	note := &domain.CustomerNote{
		CustomerID: customerID,
		Text:       req.Text,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	dto := mapper.ToCustomerNoteDTO(note)
	return &dto, nil
}

// UpdateNote edits a note after validating it belongs to the customer
func (s *CustomerService) UpdateNote(ctx context.Context, customerID, noteID uuid.UUID, req *domain.UpdateCustomerNoteRequest) (*domain.CustomerNoteDTO, error) {
	note, err := s.getOwnedNote(ctx, customerID, noteID)
	if err != nil {
		return nil, err
	}

	note.Text = req.Text
	if err := s.noteRepo.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	dto := mapper.ToCustomerNoteDTO(note)
	return &dto, nil
}

// DeleteNote soft-deletes a note after validating ownership
func (s *CustomerService) DeleteNote(ctx context.Context, customerID, noteID uuid.UUID) error {
	note, err := s.getOwnedNote(ctx, customerID, noteID)
	if err != nil {
		return err
	}

	if err := s.noteRepo.SoftDelete(ctx, note.ID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

func (s *CustomerService) getOwnedNote(ctx context.Context, customerID, noteID uuid.UUID) (*domain.CustomerNote, error) {
	// Scoped customer lookup first so notes of other tenants stay invisible
	if _, err := s.customerRepo.GetByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	note, err := s.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	if note.CustomerID != customerID {
		return nil, ErrNotFound
	}
	return note, nil
}
