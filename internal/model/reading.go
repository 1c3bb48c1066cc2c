package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Reading is one electricity meter reading for a tenant's billing
// cycle. Rows are append-only. MeterType selects which meter field
// pair is populated: single rooms use PreviousReading/CurrentReading,
// double rooms use the room and kitchen meter pairs. The unused pair
// stays NULL.
type Reading struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	TenantID string `gorm:"index;size:36;not null" json:"tenant_id"`
	// Snapshots taken at entry time so reading rows survive tenant
	// edits untouched.
	TenantName string `gorm:"size:128;not null" json:"tenant_name"`
	RoomNumber string `gorm:"size:32;not null" json:"room_number"`

	ReadingDate       time.Time `gorm:"not null" json:"reading_date"`
	ReadingDateNepali string    `gorm:"size:10;not null;index" json:"reading_date_nepali"`
	MeterType         string    `gorm:"size:16;not null" json:"meter_type"`

	PreviousReading *float64 `json:"previous_reading,omitempty"`
	CurrentReading  *float64 `json:"current_reading,omitempty"`

	RoomMeterPrevious    *float64 `json:"room_meter_previous,omitempty"`
	RoomMeterCurrent     *float64 `json:"room_meter_current,omitempty"`
	KitchenMeterPrevious *float64 `json:"kitchen_meter_previous,omitempty"`
	KitchenMeterCurrent  *float64 `json:"kitchen_meter_current,omitempty"`

	UnitsConsumed float64 `gorm:"not null" json:"units_consumed"`
	// RatePerUnit is snapshotted per reading; later tariff changes
	// never touch recorded rows.
	RatePerUnit decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"rate_per_unit"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`

	// Associations
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

func (r *Reading) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ElectricityAmount is the cost of the units covered by this reading
// at the rate recorded with it.
func (r *Reading) ElectricityAmount() decimal.Decimal {
	return r.RatePerUnit.Mul(decimal.NewFromFloat(r.UnitsConsumed))
}
