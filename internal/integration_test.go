package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"rental-manager-backend/config"
	"rental-manager-backend/internal/api"
	"rental-manager-backend/internal/db"
	"rental-manager-backend/internal/model"
	"rental-manager-backend/internal/store"
)

func setupTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	testDB, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(testDB))

	cfg := &config.Config{}
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.Server.CacheTTLSeconds = 1
	cfg.Billing.DefaultRatePerUnit = 15

	appStore := store.NewGormStore(testDB)
	router := api.NewRouter(appStore, nil, nil, cfg)
	return router, testDB
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestRentalLifecycle walks one full cycle: rooms, a tenancy, a meter
// reading, a bill, a payment and a move-out, verifying occupancy at
// each step.
func TestRentalLifecycle(t *testing.T) {
	router, testDB := setupTestServer(t)

	// --- Rooms ---
	roomIDs := map[string]string{}
	for _, r := range []map[string]any{
		{"room_number": "101", "floor_number": 1, "room_type": "single", "monthly_rent": 8000},
		{"room_number": "102", "floor_number": 1, "room_type": "single", "monthly_rent": 8500},
		{"room_number": "201", "floor_number": 2, "room_type": "double", "monthly_rent": 12000},
	} {
		w := doJSON(t, router, "POST", "/api/rooms", r)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var room model.Room
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &room))
		roomIDs[room.RoomNumber] = room.ID
	}

	// --- Tenants move in ---
	w := doJSON(t, router, "POST", "/api/tenants", map[string]any{
		"name": "राम बहादुर", "phone": "9841000001", "room_id": roomIDs["101"],
		"security_deposit": 10000, "move_in_date_nepali": "2081-01-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var ram model.Tenant
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ram))
	// Rent was copied from the room at assignment time.
	assert.True(t, ram.MonthlyRent.Equal(decimal.NewFromInt(8000)))

	w = doJSON(t, router, "POST", "/api/tenants", map[string]any{
		"name": "हरि प्रसाद", "room_id": roomIDs["201"],
		"security_deposit": 15000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var hari model.Tenant
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hari))

	// Reconciliation ran after each create: 101 and 201 occupied.
	w = doJSON(t, router, "GET", "/api/rooms?status=available", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var available []model.Room
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &available))
	require.Len(t, available, 1)
	assert.Equal(t, "102", available[0].RoomNumber)

	// --- Occupied room cannot be deleted ---
	w = doJSON(t, router, "DELETE", "/api/rooms/"+roomIDs["101"], nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	var count int64
	testDB.Model(&model.Room{}).Count(&count)
	assert.Equal(t, int64(3), count, "room list must be unchanged after a refused delete")

	// --- Single-meter reading ---
	w = doJSON(t, router, "POST", "/api/readings", map[string]any{
		"tenant_id": ram.ID, "reading_date_nepali": "2081-02-01",
		"previous_reading": 1200, "current_reading": 1350, "rate_per_unit": 15,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var reading model.Reading
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reading))
	assert.Equal(t, float64(150), reading.UnitsConsumed)
	assert.Equal(t, model.RoomTypeSingle, reading.MeterType)

	// --- Dual-meter reading ---
	w = doJSON(t, router, "POST", "/api/readings", map[string]any{
		"tenant_id": hari.ID, "reading_date_nepali": "2081-02-01",
		"room_meter_previous": 1000, "room_meter_current": 1080,
		"kitchen_meter_previous": 500, "kitchen_meter_current": 540,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var dualReading model.Reading
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dualReading))
	assert.Equal(t, float64(120), dualReading.UnitsConsumed)
	assert.Equal(t, model.RoomTypeDouble, dualReading.MeterType)

	// --- Latest-reading prefill ---
	w = doJSON(t, router, "GET", "/api/tenants/"+ram.ID+"/readings/latest", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var prefill map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &prefill))
	assert.Equal(t, float64(1350), prefill["previous_reading"])

	// --- Invalid BS date is rejected before any write ---
	w = doJSON(t, router, "POST", "/api/readings", map[string]any{
		"tenant_id": ram.ID, "reading_date_nepali": "2081-13-01",
		"current_reading": 1400,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// --- Bill: rent + electricity + signed previous balance ---
	w = doJSON(t, router, "POST", "/api/bills", map[string]any{
		"tenant_id": ram.ID, "reading_id": reading.ID,
		"bill_date_nepali": "2081-02-05", "previous_balance": -500,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var bill model.Bill
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bill))
	assert.True(t, bill.ElectricityAmount.Equal(decimal.NewFromInt(2250)), "got %s", bill.ElectricityAmount)
	assert.True(t, bill.TotalAmount.Equal(decimal.NewFromInt(9750)), "got %s", bill.TotalAmount)
	assert.Equal(t, "राम बहादुर", bill.TenantName)
	assert.Equal(t, "101", bill.RoomNumber)
	assert.False(t, bill.IsPaid)

	// --- Mark paid, the only allowed mutation ---
	w = doJSON(t, router, "PATCH", "/api/bills/"+bill.ID+"/paid", map[string]any{"is_paid": true})
	require.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, router, "GET", "/api/bills/"+bill.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var paid model.Bill
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &paid))
	assert.True(t, paid.IsPaid)
	// Everything else is untouched.
	assert.True(t, paid.TotalAmount.Equal(bill.TotalAmount))

	// --- Payment, loosely linked to the bill ---
	w = doJSON(t, router, "POST", "/api/payments", map[string]any{
		"tenant_id": ram.ID, "bill_id": bill.ID, "amount": 9750,
		"payment_method": "esewa", "payment_date_nepali": "2081-02-06",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// --- Move out: deactivation frees the room ---
	w = doJSON(t, router, "PUT", "/api/tenants/"+ram.ID, map[string]any{
		"name": ram.Name, "phone": ram.Phone, "room_id": ram.RoomID,
		"security_deposit": 10000, "is_active": false,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var room101 model.Room
	require.NoError(t, testDB.First(&room101, "id = ?", roomIDs["101"]).Error)
	assert.False(t, room101.IsOccupied)

	// Bill history survives the move-out.
	w = doJSON(t, router, "GET", fmt.Sprintf("/api/bills?tenant_id=%s", ram.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var bills []model.Bill
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bills))
	assert.Len(t, bills, 1)

	// --- Vacant room deletes cleanly now ---
	w = doJSON(t, router, "DELETE", "/api/rooms/"+roomIDs["101"], nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// --- Occupancy summary ---
	w = doJSON(t, router, "GET", "/api/occupancy", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary api.OccupancySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, []string{"201"}, summary.OccupiedRooms)
	assert.Equal(t, []string{"102"}, summary.AvailableRooms)

	// --- CSV export ---
	w = doJSON(t, router, "GET", "/api/export/bills", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "bills.csv")
	assert.Contains(t, w.Body.String(), "tenant_name,room_number,bill_date_nepali")
	assert.Contains(t, w.Body.String(), "राम बहादुर")
}

// TestOccupancyReconciliation checks the full-sweep semantics: rooms
// referenced by active tenants end up occupied, everything else ends
// up vacant regardless of prior state, and a second run changes
// nothing.
func TestOccupancyReconciliation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testDB, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(testDB))
	appStore := store.NewGormStore(testDB)
	ctx := context.Background()

	rent := decimal.NewFromInt(8000)
	rooms := []model.Room{
		{ID: "A", RoomNumber: "101", RoomType: model.RoomTypeSingle, MonthlyRent: rent},
		{ID: "B", RoomNumber: "102", RoomType: model.RoomTypeSingle, MonthlyRent: rent},
		// C starts out wrongly marked occupied; the sweep must heal it.
		{ID: "C", RoomNumber: "103", RoomType: model.RoomTypeSingle, MonthlyRent: rent, IsOccupied: true},
		{ID: "D", RoomNumber: "104", RoomType: model.RoomTypeSingle, MonthlyRent: rent, IsOccupied: true},
	}
	require.NoError(t, testDB.Create(&rooms).Error)

	deposit := decimal.NewFromInt(5000)
	tenants := []model.Tenant{
		{Name: "T1", RoomID: "A", MonthlyRent: rent, SecurityDeposit: deposit, MoveInDateNepali: "2081-01-01", IsActive: true},
		{Name: "T2", RoomID: "B", MonthlyRent: rent, SecurityDeposit: deposit, MoveInDateNepali: "2081-01-01", IsActive: true},
		// Two active tenants on the same room is representable; the
		// room is simply occupied.
		{Name: "T3", RoomID: "B", MonthlyRent: rent, SecurityDeposit: deposit, MoveInDateNepali: "2081-01-01", IsActive: true},
		{Name: "T4", RoomID: "C", MonthlyRent: rent, SecurityDeposit: deposit, MoveInDateNepali: "2080-01-01", IsActive: false},
	}
	require.NoError(t, testDB.Create(&tenants).Error)

	occupancy := func() map[string]bool {
		var all []model.Room
		require.NoError(t, testDB.Find(&all).Error)
		m := make(map[string]bool, len(all))
		for _, r := range all {
			m[r.ID] = r.IsOccupied
		}
		return m
	}

	occupied, err := appStore.ReconcileOccupancy(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, occupied)
	first := occupancy()
	assert.Equal(t, map[string]bool{"A": true, "B": true, "C": false, "D": false}, first)

	// Idempotence: a second sweep with no tenant changes is a no-op.
	occupied, err = appStore.ReconcileOccupancy(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, occupied)
	assert.Equal(t, first, occupancy())

	// All tenants gone: everything resets to vacant.
	require.NoError(t, testDB.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Model(&model.Tenant{}).Update("is_active", false).Error)
	occupied, err = appStore.ReconcileOccupancy(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, occupied)
	assert.Equal(t, map[string]bool{"A": false, "B": false, "C": false, "D": false}, occupancy())
}

// TestDemoSeed verifies the demo fixtures load once and reconcile
// occupancy for the seeded tenants.
func TestDemoSeed(t *testing.T) {
	testDB, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(testDB))
	appStore := store.NewGormStore(testDB)
	ctx := context.Background()

	require.NoError(t, store.SeedDemoData(ctx, appStore))

	var roomCount, tenantCount, readingCount int64
	testDB.Model(&model.Room{}).Count(&roomCount)
	testDB.Model(&model.Tenant{}).Count(&tenantCount)
	testDB.Model(&model.Reading{}).Count(&readingCount)
	assert.Equal(t, int64(4), roomCount)
	assert.Equal(t, int64(3), tenantCount)
	assert.Equal(t, int64(3), readingCount)

	var occupiedCount int64
	testDB.Model(&model.Room{}).Where("is_occupied = ?", true).Count(&occupiedCount)
	assert.Equal(t, int64(3), occupiedCount)

	// Re-seeding is a no-op.
	require.NoError(t, store.SeedDemoData(ctx, appStore))
	testDB.Model(&model.Room{}).Count(&roomCount)
	assert.Equal(t, int64(4), roomCount)
}

// TestCreateInactiveTenant covers a pre-registered tenant who has not
// moved in yet: is_active=false must be stored as given and must not
// mark the room occupied.
func TestCreateInactiveTenant(t *testing.T) {
	router, testDB := setupTestServer(t)

	w := doJSON(t, router, "POST", "/api/rooms", map[string]any{
		"room_number": "301", "floor_number": 3, "room_type": "single", "monthly_rent": 9000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var room model.Room
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &room))

	w = doJSON(t, router, "POST", "/api/tenants", map[string]any{
		"name": "गीता थापा", "room_id": room.ID,
		"security_deposit": 9000, "is_active": false,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created model.Tenant
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.False(t, created.IsActive)

	// The stored row, not just the response, must be inactive.
	var stored model.Tenant
	require.NoError(t, testDB.First(&stored, "id = ?", created.ID).Error)
	assert.False(t, stored.IsActive)

	var storedRoom model.Room
	require.NoError(t, testDB.First(&storedRoom, "id = ?", room.ID).Error)
	assert.False(t, storedRoom.IsOccupied)

	// Omitting is_active still defaults to active.
	w = doJSON(t, router, "POST", "/api/tenants", map[string]any{
		"name": "गोपाल श्रेष्ठ", "room_id": room.ID,
		"security_deposit": 9000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var active model.Tenant
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &active))
	assert.True(t, active.IsActive)
	require.NoError(t, testDB.First(&storedRoom, "id = ?", room.ID).Error)
	assert.True(t, storedRoom.IsOccupied)
}
