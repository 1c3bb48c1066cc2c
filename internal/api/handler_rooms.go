package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"rental-manager-backend/internal/model"
	"rental-manager-backend/internal/store"
)

type roomRequest struct {
	RoomNumber  string  `json:"room_number" binding:"required"`
	FloorNumber int     `json:"floor_number" binding:"gte=0"`
	RoomType    string  `json:"room_type" binding:"required,oneof=single double"`
	MonthlyRent float64 `json:"monthly_rent" binding:"gte=0"`
	Description string  `json:"description"`
}

// ListRooms handles GET /api/rooms. The optional status query filters
// by occupancy ("occupied" or "available").
func ListRooms(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Order("room_number")
		switch c.Query("status") {
		case "occupied":
			q = q.Where("is_occupied = ?", true)
		case "available":
			q = q.Where("is_occupied = ?", false)
		}

		var rooms []model.Room
		if err := q.Find(&rooms).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rooms"})
			return
		}
		c.JSON(http.StatusOK, rooms)
	}
}

// CreateRoom handles POST /api/rooms.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room := model.Room{
		RoomNumber:  req.RoomNumber,
		FloorNumber: req.FloorNumber,
		RoomType:    req.RoomType,
		MonthlyRent: decimal.NewFromFloat(req.MonthlyRent),
		Description: req.Description,
	}
	if err := h.store.DB().WithContext(c.Request.Context()).Create(&room).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, room)
}

// UpdateRoom handles PUT /api/rooms/:id. The occupancy flag is owned
// by the reconciler and cannot be set here.
func (h *Handler) UpdateRoom(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := h.store.DB().WithContext(c.Request.Context())
	var room model.Room
	if err := db.First(&room, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	room.RoomNumber = req.RoomNumber
	room.FloorNumber = req.FloorNumber
	room.RoomType = req.RoomType
	room.MonthlyRent = decimal.NewFromFloat(req.MonthlyRent)
	room.Description = req.Description
	if err := db.Save(&room).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, room)
}

// DeleteRoom handles DELETE /api/rooms/:id. An occupied room is never
// deleted; vacate the tenant first.
func (h *Handler) DeleteRoom(c *gin.Context) {
	err := h.store.DeleteRoom(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
	case errors.Is(err, store.ErrRoomOccupied):
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("room %s is occupied and cannot be deleted", c.Param("id"))})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.Status(http.StatusNoContent)
	}
}
