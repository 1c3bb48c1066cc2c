package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Bill is an immutable monthly bill generated from a tenant and one
// of their readings. Only IsPaid may change after creation; a wrong
// bill is deleted and recreated.
type Bill struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	TenantID string `gorm:"index;size:36;not null" json:"tenant_id"`
	// Snapshots for display and for the delete confirmation prompt.
	TenantName string `gorm:"size:128;not null" json:"tenant_name"`
	RoomNumber string `gorm:"size:32;not null" json:"room_number"`

	ReadingID string `gorm:"size:36" json:"reading_id,omitempty"`

	BillDate       time.Time `gorm:"not null" json:"bill_date"`
	BillDateNepali string    `gorm:"size:10;not null;index" json:"bill_date_nepali"`

	RentAmount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"rent_amount"`
	ElectricityAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"electricity_amount"`
	// PreviousBalance is signed: positive carries debt forward,
	// negative applies an advance or credit.
	PreviousBalance decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"previous_balance"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`

	IsPaid    bool      `gorm:"not null;default:false;index" json:"is_paid"`
	Notes     string    `gorm:"size:512" json:"notes,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
