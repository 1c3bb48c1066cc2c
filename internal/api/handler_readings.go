package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"rental-manager-backend/internal/billing"
	"rental-manager-backend/internal/model"
	"rental-manager-backend/internal/nepali"
	"rental-manager-backend/internal/store"
)

type readingRequest struct {
	TenantID          string   `json:"tenant_id" binding:"required"`
	ReadingDateNepali string   `json:"reading_date_nepali" binding:"omitempty,bsdate"`
	RatePerUnit       *float64 `json:"rate_per_unit" binding:"omitempty,gt=0"`

	// Single-meter fields.
	PreviousReading *float64 `json:"previous_reading" binding:"omitempty,gte=0"`
	CurrentReading  *float64 `json:"current_reading" binding:"omitempty,gte=0"`

	// Dual-meter fields.
	RoomMeterPrevious    *float64 `json:"room_meter_previous" binding:"omitempty,gte=0"`
	RoomMeterCurrent     *float64 `json:"room_meter_current" binding:"omitempty,gte=0"`
	KitchenMeterPrevious *float64 `json:"kitchen_meter_previous" binding:"omitempty,gte=0"`
	KitchenMeterCurrent  *float64 `json:"kitchen_meter_current" binding:"omitempty,gte=0"`
}

// ListReadings handles GET /api/readings, newest first, optionally
// filtered by tenant_id.
func ListReadings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Order("reading_date_nepali DESC")
		if tenantID := c.Query("tenant_id"); tenantID != "" {
			q = q.Where("tenant_id = ?", tenantID)
		}

		var readings []model.Reading
		if err := q.Find(&readings).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve readings"})
			return
		}
		c.JSON(http.StatusOK, readings)
	}
}

// GetLatestReading handles GET /api/tenants/:id/readings/latest. The
// entry form uses it to prefill previous values and the rate.
func (h *Handler) GetLatestReading(c *gin.Context) {
	reading, err := h.store.LatestReading(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// No history yet: prefill zeros and the configured rate.
			c.JSON(http.StatusOK, gin.H{
				"previous_reading":       0,
				"room_meter_previous":    0,
				"kitchen_meter_previous": 0,
				"rate_per_unit":          h.defaultRate,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"previous_reading":       deref(reading.CurrentReading),
		"room_meter_previous":    deref(reading.RoomMeterCurrent),
		"kitchen_meter_previous": deref(reading.KitchenMeterCurrent),
		"rate_per_unit":          reading.RatePerUnit,
	})
}

// CreateReading handles POST /api/readings. The meter shape follows
// the tenant's room type; the off-topology field pair is ignored and
// stored as NULL.
func (h *Handler) CreateReading(c *gin.Context) {
	var req readingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	var tenant model.Tenant
	err := h.store.DB().WithContext(ctx).Preload("Room").
		Where("is_active = ?", true).
		First(&tenant, "id = ?", req.TenantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "active tenant not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	// Previous values and the rate default from the tenant's most
	// recent reading; the operator's explicit values win.
	var last *model.Reading
	if r, err := h.store.LatestReading(ctx, tenant.ID); err == nil {
		last = r
	} else if !errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	rate := h.defaultRate
	if last != nil {
		rate = last.RatePerUnit
	}
	if req.RatePerUnit != nil {
		rate = decimal.NewFromFloat(*req.RatePerUnit)
	}

	date := nepali.Today()
	if req.ReadingDateNepali != "" {
		date, _ = nepali.Parse(req.ReadingDateNepali)
	}

	reading := model.Reading{
		TenantID:          tenant.ID,
		TenantName:        tenant.Name,
		RoomNumber:        tenant.Room.RoomNumber,
		ReadingDate:       date.ToGregorian(),
		ReadingDateNepali: date.String(),
		MeterType:         tenant.Room.RoomType,
		RatePerUnit:       rate,
	}

	var meter billing.Meter
	switch tenant.Room.RoomType {
	case model.RoomTypeDouble:
		m := billing.DualMeter{
			RoomCurrent:    deref(req.RoomMeterCurrent),
			KitchenCurrent: deref(req.KitchenMeterCurrent),
		}
		if req.RoomMeterPrevious != nil {
			m.RoomPrevious = *req.RoomMeterPrevious
		} else if last != nil {
			m.RoomPrevious = deref(last.RoomMeterCurrent)
		}
		if req.KitchenMeterPrevious != nil {
			m.KitchenPrevious = *req.KitchenMeterPrevious
		} else if last != nil {
			m.KitchenPrevious = deref(last.KitchenMeterCurrent)
		}
		reading.RoomMeterPrevious = &m.RoomPrevious
		reading.RoomMeterCurrent = &m.RoomCurrent
		reading.KitchenMeterPrevious = &m.KitchenPrevious
		reading.KitchenMeterCurrent = &m.KitchenCurrent
		meter = m
	default:
		m := billing.SingleMeter{Current: deref(req.CurrentReading)}
		if req.PreviousReading != nil {
			m.Previous = *req.PreviousReading
		} else if last != nil {
			m.Previous = deref(last.CurrentReading)
		}
		reading.PreviousReading = &m.Previous
		reading.CurrentReading = &m.Current
		meter = m
	}

	if err := meter.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reading.UnitsConsumed = meter.Units()

	if err := h.store.CreateReading(ctx, &reading); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, reading)
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
