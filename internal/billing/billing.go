package billing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Meter is the consumption source for one reading, keyed by the
// room's meter topology.
type Meter interface {
	// Units returns the units consumed for one billing cycle.
	Units() float64
	// Validate checks the operator-entered current values.
	Validate() error
}

// SingleMeter is the topology of a single room: one meter pair.
type SingleMeter struct {
	Previous float64
	Current  float64
}

// Units clamps at zero so a mis-entered or rolled-over current value
// never produces negative consumption.
func (m SingleMeter) Units() float64 {
	return clamp(m.Current - m.Previous)
}

func (m SingleMeter) Validate() error {
	if m.Current <= 0 {
		return errors.New("current reading is required and must be positive")
	}
	return nil
}

// DualMeter is the topology of a double room: separate room and
// kitchen meters.
type DualMeter struct {
	RoomPrevious    float64
	RoomCurrent     float64
	KitchenPrevious float64
	KitchenCurrent  float64
}

// Units clamps each meter at zero before summing, so one meter's
// rollover cannot offset the other's consumption.
func (m DualMeter) Units() float64 {
	return clamp(m.RoomCurrent-m.RoomPrevious) + clamp(m.KitchenCurrent-m.KitchenPrevious)
}

func (m DualMeter) Validate() error {
	if m.RoomCurrent <= 0 || m.KitchenCurrent <= 0 {
		return errors.New("room and kitchen current readings are required and must be positive")
	}
	return nil
}

func clamp(units float64) float64 {
	if units < 0 {
		return 0
	}
	return units
}

// ElectricityCost prices consumed units at the rate snapshotted with
// the reading.
func ElectricityCost(units float64, ratePerUnit decimal.Decimal) decimal.Decimal {
	return ratePerUnit.Mul(decimal.NewFromFloat(units))
}

// BillTotal is rent plus electricity plus the signed previous
// balance. A negative previous balance (advance payment) reduces the
// total. No proration, tax or late fees.
func BillTotal(rent, electricity, previousBalance decimal.Decimal) decimal.Decimal {
	return rent.Add(electricity).Add(previousBalance)
}
