package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/maniadelimpeza/crm-api/internal/auth"
	"gorm.io/gorm"
)

// MaxPageSize is the maximum allowed page size for paginated queries
const MaxPageSize = 200

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// SortConfig holds sorting configuration for list queries
type SortConfig struct {
	Field string    // The field to sort by (API field name)
	Order SortOrder // asc or desc
}

// DefaultSortConfig returns a default sort configuration (created_at DESC)
func DefaultSortConfig() SortConfig {
	return SortConfig{
		Field: "createdAt",
		Order: SortOrderDesc,
	}
}

// ParseSortOrder parses a string into SortOrder, defaulting to desc
func ParseSortOrder(s string) SortOrder {
	if strings.ToLower(s) == "asc" {
		return SortOrderAsc
	}
	return SortOrderDesc
}

// BuildOrderClause builds the SQL ORDER BY clause from field mapping and sort config
// fieldMap maps API field names to database column names
// Returns the default sort if field is not in whitelist
func BuildOrderClause(config SortConfig, fieldMap map[string]string, defaultColumn string) string {
	column, ok := fieldMap[config.Field]
	if !ok {
		column = defaultColumn
	}

	order := "DESC"
	if config.Order == SortOrderAsc {
		order = "ASC"
	}

	return column + " " + order
}

// NormalizePage clamps page and pageSize into valid bounds
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// ApplyCompanyFilter applies the multi-tenant company filter to a GORM query.
// Every tenant-owned query must pass through here; anonymous requests
// (uuid.Nil scope) match nothing.
func ApplyCompanyFilter(ctx context.Context, query *gorm.DB) *gorm.DB {
	return query.Where("company_id = ?", auth.GetCompanyFilter(ctx))
}

// ApplyCompanyFilterWithAlias applies the company filter using a table alias.
// Use this when joining multiple tables and the company_id column needs
// qualification.
func ApplyCompanyFilterWithAlias(ctx context.Context, query *gorm.DB, tableAlias string) *gorm.DB {
	return query.Where(tableAlias+".company_id = ?", auth.GetCompanyFilter(ctx))
}

// MustHaveCompanyAccess checks if the caller's tenant scope matches a record's company
func MustHaveCompanyAccess(ctx context.Context, recordCompanyID uuid.UUID) bool {
	return auth.GetCompanyFilter(ctx) == recordCompanyID
}
