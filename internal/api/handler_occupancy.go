package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rental-manager-backend/internal/model"
)

// OccupancySummary is the API response for GET /api/occupancy.
type OccupancySummary struct {
	Total          int      `json:"total"`
	Available      int      `json:"available"`
	Occupied       int      `json:"occupied"`
	AvailableRooms []string `json:"available_rooms"`
	OccupiedRooms  []string `json:"occupied_rooms"`
}

// GetOccupancySummary handles GET /api/occupancy.
func GetOccupancySummary(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rooms []model.Room
		if err := db.Order("room_number").Find(&rooms).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rooms"})
			return
		}

		summary := OccupancySummary{
			Total:          len(rooms),
			AvailableRooms: []string{},
			OccupiedRooms:  []string{},
		}
		for _, room := range rooms {
			if room.IsOccupied {
				summary.Occupied++
				summary.OccupiedRooms = append(summary.OccupiedRooms, room.RoomNumber)
			} else {
				summary.Available++
				summary.AvailableRooms = append(summary.AvailableRooms, room.RoomNumber)
			}
		}
		c.JSON(http.StatusOK, summary)
	}
}

// SyncOccupancy handles POST /api/occupancy/sync, the manual trigger
// for the occupancy reconciler.
func (h *Handler) SyncOccupancy(c *gin.Context) {
	occupied, err := h.store.ReconcileOccupancy(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"occupied_rooms": occupied})
}
