package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tenant represents a person renting a room. A tenant row is never
// deleted on move-out; IsActive flips to false and the row stays for
// billing history.
type Tenant struct {
	ID    string `gorm:"primaryKey;size:36" json:"id"`
	Name  string `gorm:"size:128;not null" json:"name"`
	Phone string `gorm:"size:32" json:"phone,omitempty"`
	Email string `gorm:"size:128" json:"email,omitempty"`

	RoomID string `gorm:"index;size:36;not null" json:"room_id"`
	// MonthlyRent is copied from the room at assignment time and may
	// drift from the room's current rent.
	MonthlyRent      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"monthly_rent"`
	SecurityDeposit  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"security_deposit"`
	MoveInDate       time.Time       `gorm:"not null" json:"move_in_date"`
	MoveInDateNepali string          `gorm:"size:10;not null" json:"move_in_date_nepali"`
	// No default tag here: gorm drops zero-valued fields that carry
	// one on insert, which would silently store false as true. The
	// create path defaults this explicitly instead.
	IsActive bool `gorm:"not null;index" json:"is_active"`
	CreatedAt        time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"not null" json:"updated_at"`

	// Associations
	Room Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
