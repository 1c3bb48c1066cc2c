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

type billRequest struct {
	TenantID       string   `json:"tenant_id" binding:"required"`
	ReadingID      string   `json:"reading_id" binding:"required"`
	BillDateNepali string   `json:"bill_date_nepali" binding:"omitempty,bsdate"`
	RentAmount     *float64 `json:"rent_amount" binding:"omitempty,gte=0"`
	// PreviousBalance is signed: positive carries debt, negative
	// applies an advance payment.
	PreviousBalance float64 `json:"previous_balance"`
	Notes           string  `json:"notes"`
}

type setBillPaidRequest struct {
	IsPaid *bool `json:"is_paid" binding:"required"`
}

// ListBills handles GET /api/bills, newest first. Optional filters:
// tenant_id, is_paid.
func ListBills(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Order("bill_date_nepali DESC")
		if tenantID := c.Query("tenant_id"); tenantID != "" {
			q = q.Where("tenant_id = ?", tenantID)
		}
		switch c.Query("is_paid") {
		case "true":
			q = q.Where("is_paid = ?", true)
		case "false":
			q = q.Where("is_paid = ?", false)
		}

		var bills []model.Bill
		if err := q.Find(&bills).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve bills"})
			return
		}
		c.JSON(http.StatusOK, bills)
	}
}

// GetBill handles GET /api/bills/:id.
func GetBill(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var bill model.Bill
		if err := db.First(&bill, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "bill not found"})
			} else {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve bill"})
			}
			return
		}
		c.JSON(http.StatusOK, bill)
	}
}

// CreateBill handles POST /api/bills. The electricity amount comes
// from the selected reading as recorded; it is never recomputed from
// the live rate. Rent defaults from the tenant but stays
// operator-editable.
func (h *Handler) CreateBill(c *gin.Context) {
	var req billRequest
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

	var reading model.Reading
	if err := db.First(&reading, "id = ?", req.ReadingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "reading not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	if reading.TenantID != tenant.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reading does not belong to the selected tenant"})
		return
	}

	rent := tenant.MonthlyRent
	if req.RentAmount != nil {
		rent = decimal.NewFromFloat(*req.RentAmount)
	}
	electricity := reading.ElectricityAmount()
	previousBalance := decimal.NewFromFloat(req.PreviousBalance)

	date := nepali.Today()
	if req.BillDateNepali != "" {
		date, _ = nepali.Parse(req.BillDateNepali)
	}

	bill := model.Bill{
		TenantID:          tenant.ID,
		TenantName:        reading.TenantName,
		RoomNumber:        reading.RoomNumber,
		ReadingID:         reading.ID,
		BillDate:          date.ToGregorian(),
		BillDateNepali:    date.String(),
		RentAmount:        rent,
		ElectricityAmount: electricity,
		PreviousBalance:   previousBalance,
		TotalAmount:       billing.BillTotal(rent, electricity, previousBalance),
		Notes:             req.Notes,
	}
	if err := h.store.CreateBill(ctx, &bill); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.workers != nil {
		h.workers.Dispatch(bill.ID)
	}
	c.JSON(http.StatusCreated, bill)
}

// SetBillPaid handles PATCH /api/bills/:id/paid, the only mutation a
// bill allows after creation.
func (h *Handler) SetBillPaid(c *gin.Context) {
	var req setBillPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.store.SetBillPaid(c.Request.Context(), c.Param("id"), *req.IsPaid)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "bill not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.Status(http.StatusNoContent)
	}
}

// DeleteBill handles DELETE /api/bills/:id. No cascade: readings and
// payments referencing the bill are untouched.
func (h *Handler) DeleteBill(c *gin.Context) {
	err := h.store.DeleteBill(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "bill not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.Status(http.StatusNoContent)
	}
}
