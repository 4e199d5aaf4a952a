package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/maniadelimpeza/crm-api/internal/auth"
	"github.com/maniadelimpeza/crm-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubUserLoader struct {
	user *domain.User
}

func (s *stubUserLoader) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func resolveRequest(t *testing.T, m *auth.Middleware, authHeader string) (*auth.UserContext, bool) {
	t.Helper()
	var userCtx *auth.UserContext
	var ok bool

	handler := m.ResolveUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, ok = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/customer", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "resolution never blocks the request")
	return userCtx, ok
}

func TestMiddleware_ResolveUser(t *testing.T) {
	tm := newTokenManager(60)
	user := testUser()
	m := auth.NewMiddleware(tm, &stubUserLoader{user: user}, zap.NewNop())

	t.Run("valid token attaches identity", func(t *testing.T) {
		token, _, err := tm.IssueToken(user)
		require.NoError(t, err)

		userCtx, ok := resolveRequest(t, m, "Bearer "+token)
		require.True(t, ok)
		assert.Equal(t, user.ID, userCtx.UserID)
		assert.Equal(t, user.CompanyID, userCtx.CompanyID)
		assert.Equal(t, user.Profile, userCtx.Profile)
	})

	t.Run("missing header continues anonymous", func(t *testing.T) {
		_, ok := resolveRequest(t, m, "")
		assert.False(t, ok)
	})

	t.Run("malformed header continues anonymous", func(t *testing.T) {
		_, ok := resolveRequest(t, m, "Token abc")
		assert.False(t, ok)
	})

	t.Run("invalid token continues anonymous", func(t *testing.T) {
		_, ok := resolveRequest(t, m, "Bearer not.a.token")
		assert.False(t, ok)
	})

	t.Run("unknown user continues anonymous", func(t *testing.T) {
		ghost := testUser()
		token, _, err := tm.IssueToken(ghost)
		require.NoError(t, err)

		_, ok := resolveRequest(t, m, "Bearer "+token)
		assert.False(t, ok)
	})
}

func TestMiddleware_RequireAuth(t *testing.T) {
	m := auth.NewMiddleware(newTokenManager(60), &stubUserLoader{}, zap.NewNop())

	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("anonymous gets 401 with problem body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var apiErr domain.APIError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
		assert.Equal(t, domain.ErrorTypeUnauthorized, apiErr.Type)
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	})

	t.Run("authenticated passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := auth.WithUserContext(req.Context(), &auth.UserContext{UserID: uuid.New()})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestMiddleware_RequireAdmin(t *testing.T) {
	m := auth.NewMiddleware(newTokenManager(60), &stubUserLoader{}, zap.NewNop())

	handler := m.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("employee gets 403 with problem body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := auth.WithUserContext(req.Context(), &auth.UserContext{
			UserID:  uuid.New(),
			Profile: domain.ProfileEmployee,
		})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))
		assert.Equal(t, http.StatusForbidden, rec.Code)

		var apiErr domain.APIError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
		assert.Equal(t, domain.ErrorTypeForbidden, apiErr.Type)
		assert.Equal(t, "sem permissão", apiErr.Title)
	})

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := auth.WithUserContext(req.Context(), &auth.UserContext{
			UserID:  uuid.New(),
			Profile: domain.ProfileAdmin,
		})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
