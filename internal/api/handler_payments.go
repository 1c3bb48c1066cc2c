package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"rental-manager-backend/internal/model"
	"rental-manager-backend/internal/nepali"
)

type paymentRequest struct {
	TenantID          string  `json:"tenant_id" binding:"required"`
	BillID            *string `json:"bill_id"`
	Amount            float64 `json:"amount" binding:"required,gt=0"`
	PaymentDateNepali string  `json:"payment_date_nepali" binding:"omitempty,bsdate"`
	PaymentMethod     string  `json:"payment_method" binding:"required,oneof=cash bank_transfer esewa khalti check"`
	Description       string  `json:"description"`
}

// ListPayments handles GET /api/payments, newest first, optionally
// filtered by tenant_id.
func ListPayments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Order("payment_date_nepali DESC")
		if tenantID := c.Query("tenant_id"); tenantID != "" {
			q = q.Where("tenant_id = ?", tenantID)
		}

		var payments []model.Payment
		if err := q.Find(&payments).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve payments"})
			return
		}
		c.JSON(http.StatusOK, payments)
	}
}

// CreatePayment handles POST /api/payments. A payment may reference a
// bill but never flips the bill's paid flag; the operator marks bills
// paid separately.
func (h *Handler) CreatePayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	db := h.store.DB().WithContext(ctx)

	var tenant model.Tenant
	if err := db.First(&tenant, "id = ?", req.TenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	if req.BillID != nil {
		var bill model.Bill
		if err := db.First(&bill, "id = ?", *req.BillID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "bill not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
	}

	date := nepali.Today()
	if req.PaymentDateNepali != "" {
		date, _ = nepali.Parse(req.PaymentDateNepali)
	}

	payment := model.Payment{
		TenantID:          tenant.ID,
		BillID:            req.BillID,
		Amount:            decimal.NewFromFloat(req.Amount),
		PaymentDate:       date.ToGregorian(),
		PaymentDateNepali: date.String(),
		PaymentMethod:     req.PaymentMethod,
		Description:       req.Description,
	}
	if err := db.Create(&payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, payment)
}
