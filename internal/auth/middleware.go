package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/maniadelimpeza/crm-api/internal/domain"
	"go.uber.org/zap"
)

// UserLoader fetches a user record during token resolution
type UserLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Middleware handles authentication for HTTP requests
type Middleware struct {
	tokens *TokenManager
	users  UserLoader
	logger *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(tokens *TokenManager, users UserLoader, logger *zap.Logger) *Middleware {
	return &Middleware{
		tokens: tokens,
		users:  users,
		logger: logger,
	}
}

// ResolveUser attempts to resolve the bearer token into a user context.
// Resolution failures are logged and the request continues unauthenticated;
// handlers decide whether an anonymous request is acceptable.
func (m *Middleware) ResolveUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Debug("malformed authorization header, continuing unauthenticated",
				zap.String("path", r.URL.Path),
			)
			next.ServeHTTP(w, r)
			return
		}

		userID, _, err := m.tokens.ValidateToken(parts[1])
		if err != nil {
			m.logger.Debug("token validation failed, continuing unauthenticated",
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			m.logger.Warn("token user lookup failed, continuing unauthenticated",
				zap.String("path", r.URL.Path),
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
			next.ServeHTTP(w, r)
			return
		}

		userCtx := &UserContext{
			UserID:    user.ID,
			CompanyID: user.CompanyID,
			Name:      user.Name,
			Email:     user.Email,
			Profile:   user.Profile,
		}

		ctx := WithUserContext(r.Context(), userCtx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth ensures a user context is attached to the request
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); !ok {
			respondError(w, http.StatusUnauthorized, domain.ErrorTypeUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin ensures the authenticated user holds an administrative profile
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, ok := FromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, domain.ErrorTypeUnauthorized, "Unauthorized")
			return
		}
		if !userCtx.IsAdmin() {
			respondError(w, http.StatusForbidden, domain.ErrorTypeForbidden, "sem permissão")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// respondError writes the same problem-details body the handlers use
func respondError(w http.ResponseWriter, status int, errType, title string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(&domain.APIError{
		Type:   errType,
		Title:  title,
		Status: status,
	})
}
