package domain

import (
	"github.com/google/uuid"
)

// DTOs for API requests and responses

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// PaginatedResponse wraps a page of results with pagination metadata
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// Auth

type RegisterRequest struct {
	CompanyName string `json:"companyName" validate:"required,max=200"`
	CNPJ        string `json:"cnpj" validate:"required,max=20"`
	Name        string `json:"name" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,min=6,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expiresAt"` // ISO 8601
	User      UserDTO `json:"user"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

// Company

type CompanyDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CNPJ      string    `json:"cnpj"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt string    `json:"createdAt"` // ISO 8601
	UpdatedAt string    `json:"updatedAt"` // ISO 8601
}

type UpdateCompanyRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Address string `json:"address" validate:"max=500"`
	Phone   string `json:"phone" validate:"max=50"`
}

// Users / coworkers

type UserDTO struct {
	ID        uuid.UUID   `json:"id"`
	CompanyID uuid.UUID   `json:"companyId"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Profile   ProfileType `json:"profile"`
	CreatedAt string      `json:"createdAt"` // ISO 8601
}

type CreateCoworkerRequest struct {
	Name     string      `json:"name" validate:"required,max=200"`
	Email    string      `json:"email" validate:"required,email,max=255"`
	Password string      `json:"password" validate:"required,min=6,max=100"`
	Profile  ProfileType `json:"profile" validate:"required"`
}

type UpdateCoworkerRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email,max=255"`
}

// Customers

type AddressDTO struct {
	Street       string `json:"street,omitempty" validate:"max=200"`
	Number       string `json:"number,omitempty" validate:"max=20"`
	Complement   string `json:"complement,omitempty" validate:"max=100"`
	Neighborhood string `json:"neighborhood,omitempty" validate:"max=100"`
	City         string `json:"city,omitempty" validate:"max=100"`
	State        string `json:"state,omitempty" validate:"max=2"`
	ZipCode      string `json:"zipCode,omitempty" validate:"max=20"`
}

type CustomerDTO struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Address       AddressDTO        `json:"address"`
	MobilePhone   string            `json:"mobilePhone,omitempty"`
	LandlinePhone string            `json:"landlinePhone,omitempty"`
	Email         string            `json:"email,omitempty"`
	Observations  string            `json:"observations,omitempty"`
	Notes         []CustomerNoteDTO `json:"notes,omitempty"`
	CreatedAt     string            `json:"createdAt"` // ISO 8601
	UpdatedAt     string            `json:"updatedAt"` // ISO 8601
}

type CreateCustomerRequest struct {
	Name          string     `json:"name" validate:"required,max=200"`
	Address       AddressDTO `json:"address"`
	MobilePhone   string     `json:"mobilePhone" validate:"max=50"`
	LandlinePhone string     `json:"landlinePhone" validate:"max=50"`
	Email         string     `json:"email" validate:"omitempty,email,max=255"`
	Observations  string     `json:"observations" validate:"max=2000"`
}

type UpdateCustomerRequest struct {
	Name          string     `json:"name" validate:"required,max=200"`
	Address       AddressDTO `json:"address"`
	MobilePhone   string     `json:"mobilePhone" validate:"max=50"`
	LandlinePhone string     `json:"landlinePhone" validate:"max=50"`
	Email         string     `json:"email" validate:"omitempty,email,max=255"`
	Observations  string     `json:"observations" validate:"max=2000"`
}

type CustomerNoteDTO struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customerId"`
	Text       string    `json:"text"`
	CreatedAt  string    `json:"createdAt"` // ISO 8601
	UpdatedAt  string    `json:"updatedAt"` // ISO 8601
}

type CreateCustomerNoteRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

type UpdateCustomerNoteRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// Quotes

type QuoteItemDTO struct {
	ID           uuid.UUID         `json:"id"`
	QuoteID      uuid.UUID         `json:"quoteId"`
	Description  string            `json:"description"`
	Quantity     float64           `json:"quantity"`
	UnitPrice    float64           `json:"unitPrice"`
	TotalPrice   float64           `json:"totalPrice"`
	Order        int               `json:"order"`
	CustomFields map[string]string `json:"customFields,omitempty"`
}

type QuoteDTO struct {
	ID                uuid.UUID      `json:"id"`
	CustomerID        uuid.UUID      `json:"customerId"`
	CustomerName      string         `json:"customerName,omitempty"`
	UserID            uuid.UUID      `json:"userId"`
	UserName          string         `json:"userName,omitempty"`
	TotalPrice        float64        `json:"totalPrice"`
	PaymentMethod     PaymentMethod  `json:"paymentMethod"`
	PaymentConditions string         `json:"paymentConditions,omitempty"`
	CashDiscount      *float64       `json:"cashDiscount,omitempty"`
	Items             []QuoteItemDTO `json:"items"`
	CreatedAt         string         `json:"createdAt"` // ISO 8601
	UpdatedAt         string         `json:"updatedAt"` // ISO 8601
}

// QuoteItemRequest is a line item submitted on quote create/update.
// On update, ID zero means a new item; an existing item whose ID is
// absent from the request is removed. TotalPrice, when set, overrides
// the derived quantity x unit price value.
type QuoteItemRequest struct {
	ID           uuid.UUID         `json:"id"`
	Description  string            `json:"description" validate:"required,max=500"`
	Quantity     float64           `json:"quantity" validate:"gt=0"`
	UnitPrice    float64           `json:"unitPrice" validate:"gte=0"`
	TotalPrice   *float64          `json:"totalPrice" validate:"omitempty,gte=0"`
	CustomFields map[string]string `json:"customFields"`
}

type CreateQuoteRequest struct {
	CustomerID        uuid.UUID          `json:"customerId" validate:"required"`
	PaymentMethod     PaymentMethod      `json:"paymentMethod" validate:"required"`
	PaymentConditions string             `json:"paymentConditions" validate:"max=500"`
	CashDiscount      *float64           `json:"cashDiscount" validate:"omitempty,gte=0"`
	Items             []QuoteItemRequest `json:"items" validate:"required,min=1,dive"`
}

type UpdateQuoteRequest struct {
	CustomerID        uuid.UUID          `json:"customerId" validate:"required"`
	PaymentMethod     PaymentMethod      `json:"paymentMethod" validate:"required"`
	PaymentConditions string             `json:"paymentConditions" validate:"max=500"`
	CashDiscount      *float64           `json:"cashDiscount" validate:"omitempty,gte=0"`
	Items             []QuoteItemRequest `json:"items" validate:"required,min=1,dive"`
}

type AddQuoteItemRequest struct {
	Description  string            `json:"description" validate:"required,max=500"`
	Quantity     float64           `json:"quantity" validate:"gt=0"`
	UnitPrice    float64           `json:"unitPrice" validate:"gte=0"`
	CustomFields map[string]string `json:"customFields"`
}

type UpdateQuoteItemRequest struct {
	Description  string            `json:"description" validate:"required,max=500"`
	Quantity     float64           `json:"quantity" validate:"gt=0"`
	UnitPrice    float64           `json:"unitPrice" validate:"gte=0"`
	CustomFields map[string]string `json:"customFields"`
}

type ReorderQuoteItemsRequest struct {
	ItemIDs []uuid.UUID `json:"itemIds" validate:"required,min=1"`
}

// QuoteSearchRequest is the filter DTO for POST /quote/search
type QuoteSearchRequest struct {
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	StartDate     string `json:"startDate"` // ISO 8601 date, inclusive
	EndDate       string `json:"endDate"`   // ISO 8601 date, inclusive
	SortField     string `json:"sortField"` // createdAt, totalPrice, customerName
	SortOrder     string `json:"sortOrder"` // asc or desc
	Page          int    `json:"page"`
	PageSize      int    `json:"pageSize"`
}
