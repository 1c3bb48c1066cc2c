package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSingleMeterUnits(t *testing.T) {
	testCases := []struct {
		name     string
		meter    SingleMeter
		expected float64
	}{
		{
			name:     "Normal consumption",
			meter:    SingleMeter{Previous: 1200, Current: 1350},
			expected: 150,
		},
		{
			name:     "No consumption",
			meter:    SingleMeter{Previous: 500, Current: 500},
			expected: 0,
		},
		{
			name:     "Current below previous clamps to zero",
			meter:    SingleMeter{Previous: 1350, Current: 1200},
			expected: 0,
		},
		{
			name:     "First reading with no history",
			meter:    SingleMeter{Previous: 0, Current: 320},
			expected: 320,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.meter.Units())
		})
	}
}

func TestDualMeterUnits(t *testing.T) {
	testCases := []struct {
		name     string
		meter    DualMeter
		expected float64
	}{
		{
			name: "Both meters consume",
			meter: DualMeter{
				RoomPrevious: 1000, RoomCurrent: 1080,
				KitchenPrevious: 500, KitchenCurrent: 540,
			},
			expected: 120,
		},
		{
			name: "One meter rolled back, clamped independently",
			meter: DualMeter{
				RoomPrevious: 1000, RoomCurrent: 900,
				KitchenPrevious: 500, KitchenCurrent: 540,
			},
			expected: 40,
		},
		{
			name: "Both meters rolled back",
			meter: DualMeter{
				RoomPrevious: 1000, RoomCurrent: 900,
				KitchenPrevious: 500, KitchenCurrent: 400,
			},
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.meter.Units())
		})
	}
}

func TestMeterValidate(t *testing.T) {
	assert.NoError(t, SingleMeter{Current: 1350}.Validate())
	assert.Error(t, SingleMeter{}.Validate())
	assert.Error(t, SingleMeter{Current: -10}.Validate())

	assert.NoError(t, DualMeter{RoomCurrent: 1080, KitchenCurrent: 540}.Validate())
	assert.Error(t, DualMeter{RoomCurrent: 1080}.Validate())
	assert.Error(t, DualMeter{KitchenCurrent: 540}.Validate())
}

func TestElectricityCost(t *testing.T) {
	rate := decimal.NewFromInt(15)

	cost := ElectricityCost(150, rate)
	assert.True(t, cost.Equal(decimal.NewFromInt(2250)), "got %s", cost)

	cost = ElectricityCost(0, rate)
	assert.True(t, cost.IsZero())
}

func TestBillTotal(t *testing.T) {
	testCases := []struct {
		name            string
		rent            int64
		electricity     int64
		previousBalance int64
		expected        int64
	}{
		{
			name: "Carried debt increases the total",
			rent: 8000, electricity: 2250, previousBalance: 1000,
			expected: 11250,
		},
		{
			name: "Advance payment reduces the total",
			rent: 8000, electricity: 2250, previousBalance: -500,
			expected: 9750,
		},
		{
			name: "No balance",
			rent: 8000, electricity: 0, previousBalance: 0,
			expected: 8000,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			total := BillTotal(
				decimal.NewFromInt(tc.rent),
				decimal.NewFromInt(tc.electricity),
				decimal.NewFromInt(tc.previousBalance),
			)
			assert.True(t, total.Equal(decimal.NewFromInt(tc.expected)), "got %s", total)
		})
	}
}

func TestReadingToBillScenario(t *testing.T) {
	// A full cycle: reading 1200 -> 1350 at rate 15 billed with rent
	// 8000 and an advance of 500.
	meter := SingleMeter{Previous: 1200, Current: 1350}
	assert.NoError(t, meter.Validate())

	units := meter.Units()
	assert.Equal(t, float64(150), units)

	electricity := ElectricityCost(units, decimal.NewFromInt(15))
	assert.True(t, electricity.Equal(decimal.NewFromInt(2250)))

	total := BillTotal(decimal.NewFromInt(8000), electricity, decimal.NewFromInt(-500))
	assert.True(t, total.Equal(decimal.NewFromInt(9750)))
}
