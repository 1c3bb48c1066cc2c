package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Accepted payment methods.
const (
	PaymentMethodCash         = "cash"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodEsewa        = "esewa"
	PaymentMethodKhalti       = "khalti"
	PaymentMethodCheck        = "check"
)

// Payment records money received from a tenant. The BillID link is
// optional and informational only; recording a payment never flips
// the bill's IsPaid flag.
type Payment struct {
	ID       string  `gorm:"primaryKey;size:36" json:"id"`
	TenantID string  `gorm:"index;size:36;not null" json:"tenant_id"`
	BillID   *string `gorm:"index;size:36" json:"bill_id,omitempty"`

	Amount            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentDate       time.Time       `gorm:"not null" json:"payment_date"`
	PaymentDateNepali string          `gorm:"size:10;not null" json:"payment_date_nepali"`
	PaymentMethod     string          `gorm:"size:32;not null" json:"payment_method"`
	Description       string          `gorm:"size:512" json:"description,omitempty"`
	CreatedAt         time.Time       `gorm:"not null" json:"created_at"`

	// Associations
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
