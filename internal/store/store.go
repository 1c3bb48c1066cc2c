package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"rental-manager-backend/internal/model"
)

// Domain errors surfaced to the API layer with specific messages.
var (
	ErrNotFound     = errors.New("record not found")
	ErrRoomOccupied = errors.New("room is occupied and cannot be deleted")
)

// Store defines the multi-step database operations. Plain list/get
// reads go through DB() directly.
type Store interface {
	DB() *gorm.DB

	// CreateTenant and UpdateTenant write the tenant row and then run
	// the occupancy reconciler. The two steps are not one transaction:
	// a crash in between leaves room flags stale until the next tenant
	// mutation re-triggers reconciliation.
	CreateTenant(ctx context.Context, tenant *model.Tenant) error
	UpdateTenant(ctx context.Context, tenant *model.Tenant) error

	// ReconcileOccupancy recomputes every room's occupancy flag from
	// the set of active tenants. Returns the number of occupied rooms.
	ReconcileOccupancy(ctx context.Context) (int, error)

	// DeleteRoom refuses to delete an occupied room.
	DeleteRoom(ctx context.Context, id string) error

	CreateReading(ctx context.Context, reading *model.Reading) error
	// LatestReading returns the tenant's most recent reading, or
	// ErrNotFound if the tenant has none yet.
	LatestReading(ctx context.Context, tenantID string) (*model.Reading, error)

	CreateBill(ctx context.Context, bill *model.Bill) error
	SetBillPaid(ctx context.Context, id string, paid bool) error
	DeleteBill(ctx context.Context, id string) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) CreateTenant(ctx context.Context, tenant *model.Tenant) error {
	if err := s.db.WithContext(ctx).Create(tenant).Error; err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	if _, err := s.ReconcileOccupancy(ctx); err != nil {
		return fmt.Errorf("tenant created but occupancy reconciliation failed: %w", err)
	}
	return nil
}

func (s *gormStore) UpdateTenant(ctx context.Context, tenant *model.Tenant) error {
	res := s.db.WithContext(ctx).Model(&model.Tenant{}).
		Where("id = ?", tenant.ID).
		Select("Name", "Phone", "Email", "RoomID", "MonthlyRent",
			"SecurityDeposit", "MoveInDate", "MoveInDateNepali", "IsActive").
		Updates(tenant)
	if res.Error != nil {
		return fmt.Errorf("failed to update tenant %s: %w", tenant.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	if _, err := s.ReconcileOccupancy(ctx); err != nil {
		return fmt.Errorf("tenant updated but occupancy reconciliation failed: %w", err)
	}
	return nil
}

// ReconcileOccupancy is a full-table sweep, not an incremental
// update, so it self-heals from any prior drift. Reset and re-mark
// run inside one transaction so readers never observe the transient
// all-vacant state between the two phases.
func (s *gormStore) ReconcileOccupancy(ctx context.Context) (int, error) {
	var occupiedRoomIDs []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Tenant{}).
			Where("is_active = ?", true).
			Distinct().
			Pluck("room_id", &occupiedRoomIDs).Error; err != nil {
			return fmt.Errorf("failed to collect active tenants: %w", err)
		}

		reset := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Model(&model.Room{}).
			Update("is_occupied", false)
		if reset.Error != nil {
			return fmt.Errorf("failed to reset room occupancy: %w", reset.Error)
		}

		if len(occupiedRoomIDs) > 0 {
			if err := tx.Model(&model.Room{}).
				Where("id IN ?", occupiedRoomIDs).
				Update("is_occupied", true).Error; err != nil {
				return fmt.Errorf("failed to mark occupied rooms: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(occupiedRoomIDs), nil
}

func (s *gormStore) DeleteRoom(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room model.Room
		if err := tx.First(&room, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load room %s: %w", id, err)
		}
		if room.IsOccupied {
			return ErrRoomOccupied
		}
		if err := tx.Delete(&room).Error; err != nil {
			return fmt.Errorf("failed to delete room %s: %w", id, err)
		}
		return nil
	})
}

func (s *gormStore) CreateReading(ctx context.Context, reading *model.Reading) error {
	if err := s.db.WithContext(ctx).Create(reading).Error; err != nil {
		return fmt.Errorf("failed to create reading: %w", err)
	}
	return nil
}

func (s *gormStore) LatestReading(ctx context.Context, tenantID string) (*model.Reading, error) {
	var reading model.Reading
	err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("reading_date_nepali DESC").
		First(&reading).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load latest reading for tenant %s: %w", tenantID, err)
	}
	return &reading, nil
}

func (s *gormStore) CreateBill(ctx context.Context, bill *model.Bill) error {
	if err := s.db.WithContext(ctx).Create(bill).Error; err != nil {
		return fmt.Errorf("failed to create bill: %w", err)
	}
	return nil
}

// SetBillPaid flips the paid flag. Bills are otherwise immutable;
// correcting one means deleting and recreating it.
func (s *gormStore) SetBillPaid(ctx context.Context, id string, paid bool) error {
	res := s.db.WithContext(ctx).Model(&model.Bill{}).
		Where("id = ?", id).
		Update("is_paid", paid)
	if res.Error != nil {
		return fmt.Errorf("failed to update bill %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) DeleteBill(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.Bill{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete bill %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
