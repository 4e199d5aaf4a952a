package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/maniadelimpeza/crm-api/internal/domain"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID    uuid.UUID
	CompanyID uuid.UUID
	Name      string
	Email     string
	Profile   domain.ProfileType
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// IsAdmin checks if the user holds an administrative profile
func (u *UserContext) IsAdmin() bool {
	return u.Profile.IsAdmin()
}

// CanManageUser checks if the user may mutate the given coworker record.
// Admins manage anyone in their company; everyone manages themselves.
func (u *UserContext) CanManageUser(targetID uuid.UUID) bool {
	if u.IsAdmin() {
		return true
	}
	return u.UserID == targetID
}

// CompanyFilter returns the company ID that repository queries must be
// scoped to for this user
func (u *UserContext) CompanyFilter() uuid.UUID {
	return u.CompanyID
}

// GetCompanyFilter extracts the tenant scope from the request context.
// Returns uuid.Nil when no user is attached (anonymous request).
func GetCompanyFilter(ctx context.Context) uuid.UUID {
	if userCtx, ok := FromContext(ctx); ok {
		return userCtx.CompanyFilter()
	}
	return uuid.Nil
}
