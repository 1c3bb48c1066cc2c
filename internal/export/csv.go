// Package export renders entity tables as CSV for the operator's
// spreadsheet backups.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"gorm.io/gorm"

	"rental-manager-backend/internal/model"
)

// Entities lists the exportable table names.
var Entities = []string{"rooms", "tenants", "readings", "bills", "payments"}

const dateLayout = "2006-01-02"

// WriteCSV streams the named entity table as CSV.
func WriteCSV(w io.Writer, db *gorm.DB, entity string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	switch entity {
	case "rooms":
		return writeRooms(cw, db)
	case "tenants":
		return writeTenants(cw, db)
	case "readings":
		return writeReadings(cw, db)
	case "bills":
		return writeBills(cw, db)
	case "payments":
		return writePayments(cw, db)
	default:
		return fmt.Errorf("unknown export entity %q", entity)
	}
}

func writeRooms(cw *csv.Writer, db *gorm.DB) error {
	var rooms []model.Room
	if err := db.Order("room_number").Find(&rooms).Error; err != nil {
		return fmt.Errorf("failed to load rooms: %w", err)
	}

	if err := cw.Write([]string{"room_number", "floor_number", "room_type", "monthly_rent", "is_occupied", "description"}); err != nil {
		return err
	}
	for _, r := range rooms {
		err := cw.Write([]string{
			r.RoomNumber,
			strconv.Itoa(r.FloorNumber),
			r.RoomType,
			r.MonthlyRent.StringFixed(2),
			strconv.FormatBool(r.IsOccupied),
			r.Description,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func writeTenants(cw *csv.Writer, db *gorm.DB) error {
	var tenants []model.Tenant
	if err := db.Preload("Room").Order("name").Find(&tenants).Error; err != nil {
		return fmt.Errorf("failed to load tenants: %w", err)
	}

	if err := cw.Write([]string{"name", "phone", "email", "room_number", "monthly_rent", "security_deposit", "move_in_date", "move_in_date_nepali", "is_active"}); err != nil {
		return err
	}
	for _, t := range tenants {
		err := cw.Write([]string{
			t.Name,
			t.Phone,
			t.Email,
			t.Room.RoomNumber,
			t.MonthlyRent.StringFixed(2),
			t.SecurityDeposit.StringFixed(2),
			t.MoveInDate.Format(dateLayout),
			t.MoveInDateNepali,
			strconv.FormatBool(t.IsActive),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func writeReadings(cw *csv.Writer, db *gorm.DB) error {
	var readings []model.Reading
	if err := db.Order("reading_date_nepali DESC").Find(&readings).Error; err != nil {
		return fmt.Errorf("failed to load readings: %w", err)
	}

	if err := cw.Write([]string{"tenant_name", "room_number", "reading_date_nepali", "meter_type", "previous_reading", "current_reading", "room_meter_previous", "room_meter_current", "kitchen_meter_previous", "kitchen_meter_current", "units_consumed", "rate_per_unit"}); err != nil {
		return err
	}
	for _, r := range readings {
		err := cw.Write([]string{
			r.TenantName,
			r.RoomNumber,
			r.ReadingDateNepali,
			r.MeterType,
			formatMeter(r.PreviousReading),
			formatMeter(r.CurrentReading),
			formatMeter(r.RoomMeterPrevious),
			formatMeter(r.RoomMeterCurrent),
			formatMeter(r.KitchenMeterPrevious),
			formatMeter(r.KitchenMeterCurrent),
			strconv.FormatFloat(r.UnitsConsumed, 'f', -1, 64),
			r.RatePerUnit.StringFixed(2),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func writeBills(cw *csv.Writer, db *gorm.DB) error {
	var bills []model.Bill
	if err := db.Order("bill_date_nepali DESC").Find(&bills).Error; err != nil {
		return fmt.Errorf("failed to load bills: %w", err)
	}

	if err := cw.Write([]string{"tenant_name", "room_number", "bill_date_nepali", "rent_amount", "electricity_amount", "previous_balance", "total_amount", "is_paid", "notes"}); err != nil {
		return err
	}
	for _, b := range bills {
		err := cw.Write([]string{
			b.TenantName,
			b.RoomNumber,
			b.BillDateNepali,
			b.RentAmount.StringFixed(2),
			b.ElectricityAmount.StringFixed(2),
			b.PreviousBalance.StringFixed(2),
			b.TotalAmount.StringFixed(2),
			strconv.FormatBool(b.IsPaid),
			b.Notes,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func writePayments(cw *csv.Writer, db *gorm.DB) error {
	var payments []model.Payment
	if err := db.Preload("Tenant").Order("payment_date_nepali DESC").Find(&payments).Error; err != nil {
		return fmt.Errorf("failed to load payments: %w", err)
	}

	if err := cw.Write([]string{"tenant_name", "amount", "payment_date_nepali", "payment_method", "description"}); err != nil {
		return err
	}
	for _, p := range payments {
		err := cw.Write([]string{
			p.Tenant.Name,
			p.Amount.StringFixed(2),
			p.PaymentDateNepali,
			p.PaymentMethod,
			p.Description,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func formatMeter(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
