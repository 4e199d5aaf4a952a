package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/maniadelimpeza/crm-api/internal/auth"
	"github.com/maniadelimpeza/crm-api/internal/config"
	"github.com/maniadelimpeza/crm-api/internal/domain"
	"github.com/maniadelimpeza/crm-api/internal/http/handler"
	"github.com/maniadelimpeza/crm-api/internal/repository"
	"github.com/maniadelimpeza/crm-api/internal/service"
	"github.com/maniadelimpeza/crm-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type noopMailer struct{}

func (noopMailer) SendPasswordReset(ctx context.Context, to, name, resetLink string) error {
	return nil
}

func setupAuthRouter(t *testing.T) *chi.Mux {
	t.Helper()
	db := testutil.SetupTestDB(t)

	tokens := auth.NewTokenManager(&config.JWTConfig{
		Secret:        "test-secret",
		ExpiryMinutes: 60,
		Issuer:        "crm-api-test",
	})
	svc := service.NewAuthService(
		db,
		repository.NewUserRepository(db),
		repository.NewCompanyRepository(db),
		repository.NewPasswordResetTokenRepository(db),
		tokens,
		noopMailer{},
		"http://localhost:3000",
		zap.NewNop(),
	)
	h := handler.NewAuthHandler(svc, zap.NewNop())

	r := chi.NewRouter()
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/forgot-password", h.ForgotPassword)
	r.Post("/auth/reset-password", h.ResetPassword)
	return r
}

func TestAuthHandler_RegisterAndLogin(t *testing.T) {
	router := setupAuthRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/register", domain.RegisterRequest{
		CompanyName: "Limpeza Total",
		CNPJ:        "12345678000199",
		Name:        "Ana",
		Email:       "ana@example.com",
		Password:    "segredo123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var registered domain.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, domain.ProfileAdmin, registered.User.Profile)

	rec = doJSON(t, router, http.MethodPost, "/auth/login", domain.LoginRequest{
		Email:    "ana@example.com",
		Password: "segredo123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var logged domain.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logged))
	assert.NotEmpty(t, logged.Token)
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	router := setupAuthRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/login", domain.LoginRequest{
		Email:    "ninguem@example.com",
		Password: "errada",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	router := setupAuthRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/register", domain.RegisterRequest{
		CompanyName: "Limpeza Total",
		CNPJ:        "12345678000199",
		Name:        "Ana",
		Email:       "ana@example.com",
		Password:    "123",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Contains(t, apiErr.Errors, "password")
}

func TestAuthHandler_ForgotPassword_AlwaysNoContent(t *testing.T) {
	router := setupAuthRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/forgot-password", domain.ForgotPasswordRequest{
		Email: "ninguem@example.com",
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAuthHandler_ResetPassword_BadToken(t *testing.T) {
	router := setupAuthRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/reset-password", domain.ResetPasswordRequest{
		Token:    "inexistente",
		Password: "novasenha",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
