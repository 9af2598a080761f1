package api

import (
	"net/http" // HTTP status codes
	"strings"  // Serial normalization

	"payments_admin/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// ListTagsHandler returns the registered NFC tags
func ListTagsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tags []domain.NfcTag
		if err := db.Order("created_at desc").Find(&tags).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tags"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"tags": tags})
	}
}

// RegisterTagRequest represents an NFC tag registration
type RegisterTagRequest struct {
	Serial   string  `json:"serial" binding:"required"` // Card UID
	WalletID *string `json:"wallet_id"`                 // Link to a wallet directly
	UserID   *uint   `json:"user_id"`                   // Or link to a user
}

// RegisterTagHandler links a card serial to a wallet or user
func RegisterTagHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterTagRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// A tag must point somewhere
		if req.WalletID == nil && req.UserID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A wallet or user link is required"})
			return
		}
		tag := domain.NfcTag{
			Serial:   strings.ToLower(strings.TrimSpace(req.Serial)),
			WalletID: req.WalletID,
			UserID:   req.UserID,
			Active:   true,
		}
		// Serials are unique; a duplicate insert fails here
		if err := db.Create(&tag).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Tag serial already registered"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"serial": tag.Serial, // Card serial
		}).Info("NFC tag registered") // Audit log
		c.JSON(http.StatusCreated, gin.H{"message": "Tag registered", "tag": tag})
	}
}

// DeactivateTagHandler turns a tag off so it no longer resolves
func DeactivateTagHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Model(&domain.NfcTag{}).
			Where("serial = ?", strings.ToLower(c.Param("serial"))).
			Update("active", false)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate tag"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"serial": c.Param("serial"), // Card serial
		}).Info("NFC tag deactivated") // Audit log
		c.JSON(http.StatusOK, gin.H{"message": "Tag deactivated"})
	}
}
