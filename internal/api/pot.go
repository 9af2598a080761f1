package api

import (
	"net/http" // HTTP status codes

	"payments_admin/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// ListPotsHandler returns all pots, paginated
func ListPotsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize := pagination(c)
		var total int64 // Total pot count
		if err := db.Model(&domain.Pot{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count pots"})
			return
		}
		var pots []domain.Pot
		if err := db.Order("created_at desc").Offset((page - 1) * pageSize).Limit(pageSize).Find(&pots).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pots"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"pots":        pots,
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": (int(total) + pageSize - 1) / pageSize,
		})
	}
}

// AdminLockRequest represents an admin pot lock
type AdminLockRequest struct {
	Reason string `json:"reason" binding:"required"` // Why the pot is being locked
}

// AdminLockPotHandler locks a pot with a recorded reason. The admin
// lock overrides the user's own lock and records who set it.
func AdminLockPotHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, exists := c.Get("userID") // Acting admin from the JWT
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req AdminLockRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A lock reason is required"})
			return
		}
		var pot domain.Pot
		if err := db.Where("id = ?", c.Param("id")).First(&pot).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pot not found"})
			return
		}
		lockedBy := adminID.(uint)
		updates := map[string]any{
			"admin_locked":      true,
			"admin_lock_reason": req.Reason,
			"admin_locked_by":   lockedBy,
		}
		if err := db.Model(&pot).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to lock pot"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"pot_id":   pot.ID,     // Pot ID
			"admin_id": lockedBy,   // Acting admin
			"reason":   req.Reason, // Lock reason
		}).Info("Pot admin-locked") // Audit log
		c.JSON(http.StatusOK, gin.H{"message": "Pot locked"})
	}
}

// AdminUnlockPotHandler clears an admin lock
func AdminUnlockPotHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var pot domain.Pot
		if err := db.Where("id = ?", c.Param("id")).First(&pot).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pot not found"})
			return
		}
		updates := map[string]any{
			"admin_locked":      false,
			"admin_lock_reason": "",
			"admin_locked_by":   nil,
		}
		if err := db.Model(&pot).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unlock pot"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"pot_id": pot.ID, // Pot ID
		}).Info("Pot admin-unlocked") // Audit log
		c.JSON(http.StatusOK, gin.H{"message": "Pot unlocked"})
	}
}
