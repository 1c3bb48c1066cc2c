package api

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rental-manager-backend/internal/export"
)

// ExportCSV handles GET /api/export/:entity, streaming one table as a
// CSV attachment.
func ExportCSV(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		entity := c.Param("entity")
		if !slices.Contains(export.Entities, entity) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown export entity"})
			return
		}

		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, entity))
		if err := export.WriteCSV(c.Writer, db, entity); err != nil {
			// Headers are already out; all we can do is log via gin.
			_ = c.Error(err)
		}
	}
}
