package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"rental-manager-backend/internal/model"
	"rental-manager-backend/internal/nepali"
)

// SeedDemoData populates an empty demo database with the fixture
// rooms, tenants and readings the demo UI expects. It is a no-op when
// rooms already exist, so restarts keep operator-entered demo data.
func SeedDemoData(ctx context.Context, s Store) error {
	var count int64
	if err := s.DB().WithContext(ctx).Model(&model.Room{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check for existing demo data: %w", err)
	}
	if count > 0 {
		return nil
	}

	log.Println("Seeding demo data...")

	rooms := []model.Room{
		{RoomNumber: "101", FloorNumber: 1, RoomType: model.RoomTypeSingle, MonthlyRent: decimal.NewFromInt(8000)},
		{RoomNumber: "102", FloorNumber: 1, RoomType: model.RoomTypeSingle, MonthlyRent: decimal.NewFromInt(8500)},
		{RoomNumber: "201", FloorNumber: 2, RoomType: model.RoomTypeDouble, MonthlyRent: decimal.NewFromInt(12000)},
		{RoomNumber: "202", FloorNumber: 2, RoomType: model.RoomTypeDouble, MonthlyRent: decimal.NewFromInt(12000), Description: "Corner room, attached bath"},
	}
	if err := s.DB().WithContext(ctx).Create(&rooms).Error; err != nil {
		return fmt.Errorf("failed to seed rooms: %w", err)
	}

	moveIn := time.Now().AddDate(0, -6, 0)
	tenants := []model.Tenant{
		{
			Name: "राम बहादुर", Phone: "9841000001",
			RoomID: rooms[0].ID, MonthlyRent: rooms[0].MonthlyRent,
			SecurityDeposit: decimal.NewFromInt(10000),
			MoveInDate:      moveIn, MoveInDateNepali: nepali.FromGregorian(moveIn).String(),
			IsActive: true,
		},
		{
			Name: "सीता कुमारी", Phone: "9841000002",
			RoomID: rooms[1].ID, MonthlyRent: rooms[1].MonthlyRent,
			SecurityDeposit: decimal.NewFromInt(10000),
			MoveInDate:      moveIn, MoveInDateNepali: nepali.FromGregorian(moveIn).String(),
			IsActive: true,
		},
		{
			Name: "हरि प्रसाद", Phone: "9841000003",
			RoomID: rooms[2].ID, MonthlyRent: rooms[2].MonthlyRent,
			SecurityDeposit: decimal.NewFromInt(15000),
			MoveInDate:      moveIn, MoveInDateNepali: nepali.FromGregorian(moveIn).String(),
			IsActive: true,
		},
	}
	for i := range tenants {
		if err := s.CreateTenant(ctx, &tenants[i]); err != nil {
			return fmt.Errorf("failed to seed tenant %s: %w", tenants[i].Name, err)
		}
	}

	rate := decimal.NewFromInt(15)
	readingDate := time.Now().AddDate(0, -1, 0)
	bsDate := nepali.FromGregorian(readingDate).String()
	readings := []model.Reading{
		{
			TenantID: tenants[0].ID, TenantName: tenants[0].Name, RoomNumber: rooms[0].RoomNumber,
			ReadingDate: readingDate, ReadingDateNepali: bsDate,
			MeterType:       model.RoomTypeSingle,
			PreviousReading: f64(1200), CurrentReading: f64(1350),
			UnitsConsumed: 150, RatePerUnit: rate,
		},
		{
			TenantID: tenants[1].ID, TenantName: tenants[1].Name, RoomNumber: rooms[1].RoomNumber,
			ReadingDate: readingDate, ReadingDateNepali: bsDate,
			MeterType:       model.RoomTypeSingle,
			PreviousReading: f64(880), CurrentReading: f64(1000),
			UnitsConsumed: 120, RatePerUnit: rate,
		},
		{
			TenantID: tenants[2].ID, TenantName: tenants[2].Name, RoomNumber: rooms[2].RoomNumber,
			ReadingDate: readingDate, ReadingDateNepali: bsDate,
			MeterType:         model.RoomTypeDouble,
			RoomMeterPrevious: f64(1000), RoomMeterCurrent: f64(1120),
			KitchenMeterPrevious: f64(500), KitchenMeterCurrent: f64(560),
			UnitsConsumed: 180, RatePerUnit: rate,
		},
	}
	if err := s.DB().WithContext(ctx).Create(&readings).Error; err != nil {
		return fmt.Errorf("failed to seed readings: %w", err)
	}

	log.Printf("Demo data seeded: %d rooms, %d tenants, %d readings",
		len(rooms), len(tenants), len(readings))
	return nil
}

func f64(v float64) *float64 { return &v }
