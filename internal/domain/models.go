package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate generates the ID application-side so inserts do not
// depend on a database default
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// ProfileType represents a user's role within their company.
// The "inactive" value doubles as the soft-delete state for users:
// deactivating a coworker sets their profile to inactive, reactivating
// sets it back to employee.
type ProfileType string

const (
	ProfileAdmin       ProfileType = "admin"
	ProfileEmployee    ProfileType = "employee"
	ProfileSystemAdmin ProfileType = "system_admin"
	ProfileInactive    ProfileType = "inactive"
)

// IsValid checks if the ProfileType is a valid enum value
func (p ProfileType) IsValid() bool {
	switch p {
	case ProfileAdmin, ProfileEmployee, ProfileSystemAdmin, ProfileInactive:
		return true
	}
	return false
}

// IsAdmin reports whether the profile grants administrative rights
func (p ProfileType) IsAdmin() bool {
	return p == ProfileAdmin || p == ProfileSystemAdmin
}

// Company represents a tenant: a cleaning-service company
type Company struct {
	BaseModel
	Name    string `gorm:"type:varchar(200);not null"`
	CNPJ    string `gorm:"type:varchar(20);not null;unique;index;column:cnpj"`
	Address string `gorm:"type:varchar(500)"`
	Phone   string `gorm:"type:varchar(50)"`

	Users     []User     `gorm:"foreignKey:CompanyID"`
	Customers []Customer `gorm:"foreignKey:CompanyID"`
	Quotes    []Quote    `gorm:"foreignKey:CompanyID"`
}

// User represents an employee of a company
type User struct {
	BaseModel
	CompanyID    uuid.UUID   `gorm:"type:uuid;not null;index;column:company_id"`
	Company      *Company    `gorm:"foreignKey:CompanyID"`
	Name         string      `gorm:"type:varchar(200);not null"`
	Email        string      `gorm:"type:varchar(255);not null;unique;index"`
	PasswordHash string      `gorm:"type:varchar(255);not null;column:password_hash" json:"-"`
	Profile      ProfileType `gorm:"type:varchar(50);not null;default:'employee';index"`
}

// IsActive reports whether the user has not been soft-deleted
func (u *User) IsActive() bool {
	return u.Profile != ProfileInactive
}

// Address is the embedded address value object on Customer
type Address struct {
	Street       string `gorm:"type:varchar(200)"`
	Number       string `gorm:"type:varchar(20)"`
	Complement   string `gorm:"type:varchar(100)"`
	Neighborhood string `gorm:"type:varchar(100)"`
	City         string `gorm:"type:varchar(100)"`
	State        string `gorm:"type:varchar(2)"`
	ZipCode      string `gorm:"type:varchar(20);column:zip_code"`
}

// Customer represents a client of a cleaning-service company
type Customer struct {
	BaseModel
	CompanyID     uuid.UUID `gorm:"type:uuid;not null;index;column:company_id"`
	Company       *Company  `gorm:"foreignKey:CompanyID"`
	Name          string    `gorm:"type:varchar(200);not null;index"`
	Address       Address   `gorm:"embedded;embeddedPrefix:address_"`
	MobilePhone   string    `gorm:"type:varchar(50);column:mobile_phone"`
	LandlinePhone string    `gorm:"type:varchar(50);column:landline_phone"`
	Email         string    `gorm:"type:varchar(255)"`
	Observations  string    `gorm:"type:text"`
	Deleted       bool      `gorm:"not null;default:false;index"`

	Notes []CustomerNote `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

// CustomerNote is a free-text timestamped relationship note on a customer
type CustomerNote struct {
	BaseModel
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index;column:customer_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID"`
	Text       string    `gorm:"type:text;not null"`
	Deleted    bool      `gorm:"not null;default:false"`
}

// PaymentMethod represents how a quote will be paid
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodPix          PaymentMethod = "pix"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodDebitCard    PaymentMethod = "debit_card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

// IsValid checks if the PaymentMethod is a valid enum value
func (pm PaymentMethod) IsValid() bool {
	switch pm {
	case PaymentMethodCash, PaymentMethodPix, PaymentMethodCreditCard,
		PaymentMethodDebitCard, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// Quote represents an estimate sent to a customer
type Quote struct {
	BaseModel
	CompanyID         uuid.UUID     `gorm:"type:uuid;not null;index;column:company_id"`
	Company           *Company      `gorm:"foreignKey:CompanyID"`
	CustomerID        uuid.UUID     `gorm:"type:uuid;not null;index;column:customer_id"`
	Customer          *Customer     `gorm:"foreignKey:CustomerID"`
	UserID            uuid.UUID     `gorm:"type:uuid;not null;index;column:user_id"`
	User              *User         `gorm:"foreignKey:UserID"`
	TotalPrice        float64       `gorm:"type:decimal(15,2);not null;default:0;column:total_price"`
	PaymentMethod     PaymentMethod `gorm:"type:varchar(50);not null;default:'cash';column:payment_method"`
	PaymentConditions string        `gorm:"type:varchar(500);column:payment_conditions"`
	CashDiscount      *float64      `gorm:"type:decimal(15,2);column:cash_discount"`

	Items []QuoteItem `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
}

// CustomFields holds free-form key/value pairs on a quote item, stored as JSONB
type CustomFields map[string]string

// Value implements driver.Valuer for JSONB storage
func (cf CustomFields) Value() (driver.Value, error) {
	if cf == nil {
		return nil, nil
	}
	return json.Marshal(cf)
}

// Scan implements sql.Scanner for JSONB retrieval
func (cf *CustomFields) Scan(value interface{}) error {
	if value == nil {
		*cf = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for CustomFields")
	}
	return json.Unmarshal(data, cf)
}

// QuoteItem represents a line item in a quote. Order is an explicit
// 1-based index controlling display and serialization sequence; the
// values stay contiguous within a quote across every mutation.
type QuoteItem struct {
	BaseModel
	QuoteID      uuid.UUID    `gorm:"type:uuid;not null;index;column:quote_id"`
	Quote        *Quote       `gorm:"foreignKey:QuoteID"`
	Description  string       `gorm:"type:varchar(500);not null"`
	Quantity     float64      `gorm:"type:decimal(10,2);not null"`
	UnitPrice    float64      `gorm:"type:decimal(15,2);not null;column:unit_price"`
	TotalPrice   float64      `gorm:"type:decimal(15,2);not null;column:total_price"`
	Order        int          `gorm:"not null;default:0;column:item_order"`
	CustomFields CustomFields `gorm:"type:jsonb;column:custom_fields"`
}

// PasswordResetToken is an ephemeral single-use token for password recovery
type PasswordResetToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;column:user_id"`
	User      *User     `gorm:"foreignKey:UserID"`
	Token     string    `gorm:"type:varchar(100);not null;unique;index"`
	ExpiresAt time.Time `gorm:"not null;column:expires_at"`
	Used      bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate generates the ID application-side so inserts do not
// depend on a database default
func (t *PasswordResetToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// IsExpired reports whether the token is past its expiration time
func (t *PasswordResetToken) IsExpired() bool {
	return time.Now().UTC().After(t.ExpiresAt)
}
