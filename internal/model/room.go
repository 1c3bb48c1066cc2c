package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Room types determine the meter topology used for electricity readings.
const (
	RoomTypeSingle = "single" // one meter
	RoomTypeDouble = "double" // separate room and kitchen meters
)

// Room represents a rentable room.
type Room struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	RoomNumber  string          `gorm:"uniqueIndex;size:32;not null" json:"room_number"`
	FloorNumber int             `gorm:"not null" json:"floor_number"`
	RoomType    string          `gorm:"size:16;not null;default:single" json:"room_type"`
	MonthlyRent decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"monthly_rent"`
	// IsOccupied is derived from active tenancy; the occupancy
	// reconciler rewrites it, it is never authoritative on its own.
	IsOccupied  bool      `gorm:"not null;default:false" json:"is_occupied"`
	Description string    `gorm:"size:512" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	Tenants []Tenant `gorm:"foreignKey:RoomID" json:"-"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
