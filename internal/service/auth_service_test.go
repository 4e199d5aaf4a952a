package service_test

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/maniadelimpeza/crm-api/internal/auth"
	"github.com/maniadelimpeza/crm-api/internal/config"
	"github.com/maniadelimpeza/crm-api/internal/domain"
	"github.com/maniadelimpeza/crm-api/internal/repository"
	"github.com/maniadelimpeza/crm-api/internal/service"
	"github.com/maniadelimpeza/crm-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// captureMailer records the reset link instead of sending anything
type captureMailer struct {
	to   string
	link string
}

func (m *captureMailer) SendPasswordReset(ctx context.Context, to, name, resetLink string) error {
	m.to = to
	m.link = resetLink
	return nil
}

func createAuthService(db *gorm.DB, mailer *captureMailer) *service.AuthService {
	tokens := auth.NewTokenManager(&config.JWTConfig{
		Secret:        "test-secret",
		ExpiryMinutes: 60,
		Issuer:        "crm-api-test",
	})
	return service.NewAuthService(
		db,
		repository.NewUserRepository(db),
		repository.NewCompanyRepository(db),
		repository.NewPasswordResetTokenRepository(db),
		tokens,
		mailer,
		"http://localhost:3000",
		zap.NewNop(),
	)
}

func TestAuthService_Register(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createAuthService(db, &captureMailer{})
	ctx := context.Background()

	resp, err := svc.Register(ctx, &domain.RegisterRequest{
		CompanyName: "Limpeza Total",
		CNPJ:        "12345678000199",
		Name:        "Ana",
		Email:       "ana@example.com",
		Password:    "segredo123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, domain.ProfileAdmin, resp.User.Profile)

	var company domain.Company
	require.NoError(t, db.First(&company, "cnpj = ?", "12345678000199").Error)
	assert.Equal(t, "Limpeza Total", company.Name)
	assert.Equal(t, company.ID, resp.User.CompanyID)
}

func TestAuthService_Register_ReusesCompanyByCNPJ(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createAuthService(db, &captureMailer{})
	ctx := context.Background()

	first, err := svc.Register(ctx, &domain.RegisterRequest{
		CompanyName: "Limpeza Total",
		CNPJ:        "12345678000199",
		Name:        "Ana",
		Email:       "ana@example.com",
		Password:    "segredo123",
	})
	require.NoError(t, err)

	second, err := svc.Register(ctx, &domain.RegisterRequest{
		CompanyName: "Outro Nome",
		CNPJ:        "12345678000199",
		Name:        "Beto",
		Email:       "beto@example.com",
		Password:    "segredo123",
	})
	require.NoError(t, err)

	assert.Equal(t, first.User.CompanyID, second.User.CompanyID)

	var count int64
	require.NoError(t, db.Model(&domain.Company{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createAuthService(db, &captureMailer{})
	ctx := context.Background()

	req := &domain.RegisterRequest{
		CompanyName: "Limpeza Total",
		CNPJ:        "12345678000199",
		Name:        "Ana",
		Email:       "ana@example.com",
		Password:    "segredo123",
	}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestAuthService_Login(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createAuthService(db, &captureMailer{})
	ctx := context.Background()

	_, err := svc.Register(ctx, &domain.RegisterRequest{
		CompanyName: "Limpeza Total",
		CNPJ:        "12345678000199",
		Name:        "Ana",
		Email:       "ana@example.com",
		Password:    "segredo123",
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(ctx, &domain.LoginRequest{Email: "ana@example.com", Password: "segredo123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.NotEmpty(t, resp.ExpiresAt)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &domain.LoginRequest{Email: "ana@example.com", Password: "errada"})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, &domain.LoginRequest{Email: "ninguem@example.com", Password: "segredo123"})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("inactive user", func(t *testing.T) {
		require.NoError(t, db.Model(&domain.User{}).
			Where("email = ?", "ana@example.com").
			Update("profile", domain.ProfileInactive).Error)
		_, err := svc.Login(ctx, &domain.LoginRequest{Email: "ana@example.com", Password: "segredo123"})
		assert.ErrorIs(t, err, service.ErrUserInactive)
	})
}

func TestAuthService_PasswordResetFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mailer := &captureMailer{}
	svc := createAuthService(db, mailer)
	ctx := context.Background()

	_, err := svc.Register(ctx, &domain.RegisterRequest{
		CompanyName: "Limpeza Total",
		CNPJ:        "12345678000199",
		Name:        "Ana",
		Email:       "ana@example.com",
		Password:    "segredo123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "ana@example.com"))
	require.Equal(t, "ana@example.com", mailer.to)
	require.True(t, strings.Contains(mailer.link, "/reset-password?token="))

	parsed, err := url.Parse(mailer.link)
	require.NoError(t, err)
	token := parsed.Query().Get("token")
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(ctx, &domain.ResetPasswordRequest{
		Token:    token,
		Password: "novasenha",
	}))

	// old password no longer works, new one does
	_, err = svc.Login(ctx, &domain.LoginRequest{Email: "ana@example.com", Password: "segredo123"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &domain.LoginRequest{Email: "ana@example.com", Password: "novasenha"})
	assert.NoError(t, err)

	// the token is single use
	err = svc.ResetPassword(ctx, &domain.ResetPasswordRequest{Token: token, Password: "outra"})
	assert.ErrorIs(t, err, service.ErrInvalidResetToken)
}

func TestAuthService_ForgotPassword_UnknownEmailIsSilent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mailer := &captureMailer{}
	svc := createAuthService(db, mailer)

	require.NoError(t, svc.ForgotPassword(context.Background(), "ninguem@example.com"))
	assert.Empty(t, mailer.to)
}

func TestAuthService_ResetPassword_UnknownToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createAuthService(db, &captureMailer{})

	err := svc.ResetPassword(context.Background(), &domain.ResetPasswordRequest{
		Token:    "nao-existe",
		Password: "novasenha",
	})
	assert.ErrorIs(t, err, service.ErrInvalidResetToken)
}
