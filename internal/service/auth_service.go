package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/maniadelimpeza/crm-api/internal/auth"
	"github.com/maniadelimpeza/crm-api/internal/domain"
	"github.com/maniadelimpeza/crm-api/internal/mail"
	"github.com/maniadelimpeza/crm-api/internal/mapper"
	"github.com/maniadelimpeza/crm-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// resetTokenBytes is the entropy of password reset tokens
const resetTokenBytes = 32

// resetTokenTTL is how long a password reset token stays valid
const resetTokenTTL = 30 * time.Minute

type AuthService struct {
	db          *gorm.DB
	userRepo    *repository.UserRepository
	companyRepo *repository.CompanyRepository
	tokenRepo   *repository.PasswordResetTokenRepository
	tokens      *auth.TokenManager
	mailer      mail.Mailer
	frontendURL string
	logger      *zap.Logger
}

func NewAuthService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	companyRepo *repository.CompanyRepository,
	tokenRepo *repository.PasswordResetTokenRepository,
	tokens *auth.TokenManager,
	mailer mail.Mailer,
	frontendURL string,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		db:          db,
		userRepo:    userRepo,
		companyRepo: companyRepo,
		tokenRepo:   tokenRepo,
		tokens:      tokens,
		mailer:      mailer,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// Register creates the company (or reuses an existing one with the same
// CNPJ) and its admin user atomically, then issues a token.
func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
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

	var user *domain.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var company domain.Company
		err := tx.Where("cnpj = ?", req.CNPJ).First(&company).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			company = domain.Company{
				Name: req.CompanyName,
				CNPJ: req.CNPJ,
			}
			if err := tx.Create(&company).Error; err != nil {
				return fmt.Errorf("failed to create company: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to look up company: %w", err)
		}

		user = &domain.User{
			CompanyID:    company.ID,
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
			Profile:      domain.ProfileAdmin,
		}
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("company_id", user.CompanyID.String()),
	)

	return s.issueAuthResponse(user)
}

// Login verifies credentials and issues a token. Inactive users are rejected.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive() {
		return nil, ErrUserInactive
	}

	return s.issueAuthResponse(user)
}

// ForgotPassword creates a reset token and hands the reset link to the
// mailer. A missing email is not reported to the caller.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Info("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	raw := make([]byte, resetTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := base64.URLEncoding.EncodeToString(raw)

	resetToken := &domain.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(resetTokenTTL),
	}
	if err := s.tokenRepo.Create(ctx, resetToken); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, token)
	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Name, resetLink); err != nil {
		s.logger.Error("failed to send password reset mail",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}

	return nil
}

// ResetPassword validates the token and updates the user's password hash
func (s *AuthService) ResetPassword(ctx context.Context, req *domain.ResetPasswordRequest) error {
	resetToken, err := s.tokenRepo.GetByToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}

	if resetToken.Used || resetToken.IsExpired() {
		return ErrInvalidResetToken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, resetToken.UserID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.tokenRepo.MarkUsed(ctx, resetToken); err != nil {
		return fmt.Errorf("failed to mark token as used: %w", err)
	}

	s.logger.Info("password reset completed",
		zap.String("user_id", resetToken.UserID.String()),
	)
	return nil
}

// Me returns the authenticated user's profile
func (s *AuthService) Me(ctx context.Context) (*domain.UserDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	user, err := s.userRepo.GetByID(ctx, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

func (s *AuthService) issueAuthResponse(user *domain.User) (*domain.AuthResponse, error) {
	token, expiresAt, err := s.tokens.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		User:      mapper.ToUserDTO(user),
	}, nil
}
