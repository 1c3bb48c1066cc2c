package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"rental-manager-backend/internal/model"
	"rental-manager-backend/internal/nepali"
	"rental-manager-backend/internal/store"
)

type tenantRequest struct {
	Name             string   `json:"name" binding:"required"`
	Phone            string   `json:"phone"`
	Email            string   `json:"email" binding:"omitempty,email"`
	RoomID           string   `json:"room_id" binding:"required"`
	MonthlyRent      *float64 `json:"monthly_rent" binding:"omitempty,gte=0"`
	SecurityDeposit  float64  `json:"security_deposit" binding:"gte=0"`
	MoveInDateNepali string   `json:"move_in_date_nepali" binding:"omitempty,bsdate"`
	IsActive         *bool    `json:"is_active"`
}

// ListTenants handles GET /api/tenants. Pass active=true to list only
// current tenants.
func ListTenants(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Preload("Room").Order("name")
		if c.Query("active") == "true" {
			q = q.Where("is_active = ?", true)
		}

		var tenants []model.Tenant
		if err := q.Find(&tenants).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tenants"})
			return
		}
		c.JSON(http.StatusOK, tenants)
	}
}

// CreateTenant handles POST /api/tenants. Rent defaults to the
// assigned room's current rent; the room's occupancy flag is
// reconciled right after the write.
func (h *Handler) CreateTenant(c *gin.Context) {
	var req tenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	var room model.Room
	if err := h.store.DB().WithContext(ctx).First(&room, "id = ?", req.RoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	rent := room.MonthlyRent
	if req.MonthlyRent != nil {
		rent = decimal.NewFromFloat(*req.MonthlyRent)
	}

	moveIn := nepali.Today()
	if req.MoveInDateNepali != "" {
		moveIn, _ = nepali.Parse(req.MoveInDateNepali)
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	tenant := model.Tenant{
		Name:             req.Name,
		Phone:            req.Phone,
		Email:            req.Email,
		RoomID:           room.ID,
		MonthlyRent:      rent,
		SecurityDeposit:  decimal.NewFromFloat(req.SecurityDeposit),
		MoveInDate:       moveIn.ToGregorian(),
		MoveInDateNepali: moveIn.String(),
		IsActive:         active,
	}
	if err := h.store.CreateTenant(ctx, &tenant); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, tenant)
}

// UpdateTenant handles PUT /api/tenants/:id. Setting is_active=false
// vacates the tenant; the row stays for billing history.
func (h *Handler) UpdateTenant(c *gin.Context) {
	var req tenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	db := h.store.DB().WithContext(ctx)

	var tenant model.Tenant
	if err := db.First(&tenant, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var room model.Room
	if err := db.First(&room, "id = ?", req.RoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	tenant.Name = req.Name
	tenant.Phone = req.Phone
	tenant.Email = req.Email
	tenant.RoomID = room.ID
	if req.MonthlyRent != nil {
		tenant.MonthlyRent = decimal.NewFromFloat(*req.MonthlyRent)
	}
	tenant.SecurityDeposit = decimal.NewFromFloat(req.SecurityDeposit)
	if req.MoveInDateNepali != "" {
		moveIn, _ := nepali.Parse(req.MoveInDateNepali)
		tenant.MoveInDate = moveIn.ToGregorian()
		tenant.MoveInDateNepali = moveIn.String()
	}
	if req.IsActive != nil {
		tenant.IsActive = *req.IsActive
	}

	if err := h.store.UpdateTenant(ctx, &tenant); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, tenant)
}
