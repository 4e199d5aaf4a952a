package mapper

import (
	"math"
	"strings"
	"time"

	"github.com/maniadelimpeza/crm-api/internal/domain"
)

// Round2 rounds a monetary value to 2 decimal places
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// CalculateItemTotal derives a line item total from quantity and unit price
func CalculateItemTotal(quantity, unitPrice float64) float64 {
	return Round2(quantity * unitPrice)
}

// HasCashPaymentCondition reports whether the payment conditions mention
// upfront payment ("à vista"), which activates the cash discount
func HasCashPaymentCondition(paymentConditions string) bool {
	lower := strings.ToLower(paymentConditions)
	return strings.Contains(lower, "à vista") || strings.Contains(lower, "àvista")
}

// CalculateQuoteTotal derives the quote total from its items. The cash
// discount only applies when payment conditions mention "à vista"; the
// result never goes below zero.
func CalculateQuoteTotal(items []domain.QuoteItem, cashDiscount *float64, paymentConditions string) float64 {
	var sum float64
	for _, item := range items {
		sum += item.TotalPrice
	}
	total := Round2(sum)

	if cashDiscount != nil && HasCashPaymentCondition(paymentConditions) {
		total = Round2(total - *cashDiscount)
		if total < 0 {
			total = 0
		}
	}
	return total
}

// SumItemTotals returns the plain rounded sum of item totals, without
// any discount applied
func SumItemTotals(items []domain.QuoteItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.TotalPrice
	}
	return Round2(sum)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ToCompanyDTO converts a Company entity to its DTO
func ToCompanyDTO(company *domain.Company) domain.CompanyDTO {
	return domain.CompanyDTO{
		ID:        company.ID,
		Name:      company.Name,
		CNPJ:      company.CNPJ,
		Address:   company.Address,
		Phone:     company.Phone,
		CreatedAt: formatTime(company.CreatedAt),
		UpdatedAt: formatTime(company.UpdatedAt),
	}
}

// ToUserDTO converts a User entity to its DTO
func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:        user.ID,
		CompanyID: user.CompanyID,
		Name:      user.Name,
		Email:     user.Email,
		Profile:   user.Profile,
		CreatedAt: formatTime(user.CreatedAt),
	}
}

// ToUserDTOs converts a slice of User entities
func ToUserDTOs(users []domain.User) []domain.UserDTO {
	dtos := make([]domain.UserDTO, len(users))
	for i := range users {
		dtos[i] = ToUserDTO(&users[i])
	}
	return dtos
}

// ToAddressDTO converts the embedded Address value object
func ToAddressDTO(addr domain.Address) domain.AddressDTO {
	return domain.AddressDTO{
		Street:       addr.Street,
		Number:       addr.Number,
		Complement:   addr.Complement,
		Neighborhood: addr.Neighborhood,
		City:         addr.City,
		State:        addr.State,
		ZipCode:      addr.ZipCode,
	}
}

// ToAddress converts an AddressDTO into the embedded value object
func ToAddress(dto domain.AddressDTO) domain.Address {
	return domain.Address{
		Street:       dto.Street,
		Number:       dto.Number,
		Complement:   dto.Complement,
		Neighborhood: dto.Neighborhood,
		City:         dto.City,
		State:        dto.State,
		ZipCode:      dto.ZipCode,
	}
}

// ToCustomerDTO converts a Customer entity to its DTO, including
// whatever notes are loaded on the entity
func ToCustomerDTO(customer *domain.Customer) domain.CustomerDTO {
	dto := domain.CustomerDTO{
		ID:            customer.ID,
		Name:          customer.Name,
		Address:       ToAddressDTO(customer.Address),
		MobilePhone:   customer.MobilePhone,
		LandlinePhone: customer.LandlinePhone,
		Email:         customer.Email,
		Observations:  customer.Observations,
		CreatedAt:     formatTime(customer.CreatedAt),
		UpdatedAt:     formatTime(customer.UpdatedAt),
	}
	if len(customer.Notes) > 0 {
		dto.Notes = make([]domain.CustomerNoteDTO, len(customer.Notes))
		for i := range customer.Notes {
			dto.Notes[i] = ToCustomerNoteDTO(&customer.Notes[i])
		}
	}
	return dto
}

// ToCustomerDTOs converts a slice of Customer entities
func ToCustomerDTOs(customers []domain.Customer) []domain.CustomerDTO {
	dtos := make([]domain.CustomerDTO, len(customers))
	for i := range customers {
		dtos[i] = ToCustomerDTO(&customers[i])
	}
	return dtos
}

// ToCustomerNoteDTO converts a CustomerNote entity to its DTO
func ToCustomerNoteDTO(note *domain.CustomerNote) domain.CustomerNoteDTO {
	return domain.CustomerNoteDTO{
		ID:         note.ID,
		CustomerID: note.CustomerID,
		Text:       note.Text,
		CreatedAt:  formatTime(note.CreatedAt),
		UpdatedAt:  formatTime(note.UpdatedAt),
	}
}

// ToQuoteItemDTO converts a QuoteItem entity to its DTO
func ToQuoteItemDTO(item *domain.QuoteItem) domain.QuoteItemDTO {
	return domain.QuoteItemDTO{
		ID:           item.ID,
		QuoteID:      item.QuoteID,
		Description:  item.Description,
		Quantity:     item.Quantity,
		UnitPrice:    item.UnitPrice,
		TotalPrice:   item.TotalPrice,
		Order:        item.Order,
		CustomFields: item.CustomFields,
	}
}

// ToQuoteDTO converts a Quote entity to its DTO. Customer and User
// names are included when the associations are loaded.
func ToQuoteDTO(quote *domain.Quote) domain.QuoteDTO {
	dto := domain.QuoteDTO{
		ID:                quote.ID,
		CustomerID:        quote.CustomerID,
		UserID:            quote.UserID,
		TotalPrice:        quote.TotalPrice,
		PaymentMethod:     quote.PaymentMethod,
		PaymentConditions: quote.PaymentConditions,
		CashDiscount:      quote.CashDiscount,
		Items:             make([]domain.QuoteItemDTO, len(quote.Items)),
		CreatedAt:         formatTime(quote.CreatedAt),
		UpdatedAt:         formatTime(quote.UpdatedAt),
	}
	for i := range quote.Items {
		dto.Items[i] = ToQuoteItemDTO(&quote.Items[i])
	}
	if quote.Customer != nil {
		dto.CustomerName = quote.Customer.Name
	}
	if quote.User != nil {
		dto.UserName = quote.User.Name
	}
	return dto
}

// ToQuoteDTOs converts a slice of Quote entities
func ToQuoteDTOs(quotes []domain.Quote) []domain.QuoteDTO {
	dtos := make([]domain.QuoteDTO, len(quotes))
	for i := range quotes {
		dtos[i] = ToQuoteDTO(&quotes[i])
	}
	return dtos
}

// ToPaginatedResponse wraps data with pagination metadata
func ToPaginatedResponse(data interface{}, total int64, page, pageSize int) domain.PaginatedResponse {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return domain.PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
