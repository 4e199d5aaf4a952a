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

type CoworkerService struct {
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

func NewCoworkerService(userRepo *repository.UserRepository, logger *zap.Logger) *CoworkerService {
	return &CoworkerService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Create adds a coworker to the caller's company. Only admins may
// create coworkers and the requested profile must be employee.
func (s *CoworkerService) Create(ctx context.Context, req *domain.CreateCoworkerRequest) (*domain.UserDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if req.Profile != domain.ProfileEmployee {
		return nil, ErrPermissionDenied
	}

	taken, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		CompanyID:    userCtx.CompanyID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Profile:      domain.ProfileEmployee,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create coworker: %w", err)
	}

	s.logger.Info("coworker created",
		zap.String("user_id", user.ID.String()),
		zap.String("company_id", user.CompanyID.String()),
	)

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// GetByID returns a coworker in the caller's company
func (s *CoworkerService) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserDTO, error) {
	user, err := s.getScoped(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// Update edits a coworker's name and email. Users may edit themselves;
// editing anyone else requires an admin profile.
func (s *CoworkerService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateCoworkerRequest) (*domain.UserDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.CanManageUser(id) {
		return nil, ErrPermissionDenied
	}

	user, err := s.getScoped(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != user.Email {
		taken, err := s.userRepo.EmailExists(ctx, req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, ErrEmailTaken
		}
	}

	user.Name = req.Name
	user.Email = req.Email

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update coworker: %w", err)
	}

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// Deactivate sets the coworker's profile to inactive. Admin only.
func (s *CoworkerService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.setProfile(ctx, id, domain.ProfileInactive)
}

// Reactivate restores an inactive coworker to the employee profile. Admin only.
func (s *CoworkerService) Reactivate(ctx context.Context, id uuid.UUID) error {
	return s.setProfile(ctx, id, domain.ProfileEmployee)
}

// List returns the company's coworkers. Admin only; inactive users are
// excluded unless requested.
func (s *CoworkerService) List(ctx context.Context, includeInactive bool) ([]domain.UserDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	users, err := s.userRepo.ListByCompany(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list coworkers: %w", err)
	}

	return mapper.ToUserDTOs(users), nil
}

func (s *CoworkerService) setProfile(ctx context.Context, id uuid.UUID, profile domain.ProfileType) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	if !userCtx.IsAdmin() {
		return ErrPermissionDenied
	}

	user, err := s.getScoped(ctx, id)
	if err != nil {
		return err
	}

	if err := s.userRepo.SetProfile(ctx, user.ID, profile); err != nil {
		return fmt.Errorf("failed to change profile: %w", err)
	}

	s.logger.Info("coworker profile changed",
		zap.String("user_id", user.ID.String()),
		zap.String("profile", string(profile)),
	)
	return nil
}

func (s *CoworkerService) getScoped(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetScopedByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get coworker: %w", err)
	}
	return user, nil
}
