package api

import (
	"net/http" // HTTP status codes

	"payments_admin/internal/domain" // Importing domain models
	"payments_admin/internal/mailer" // SMTP delivery
	"payments_admin/internal/monime" // Payment provider client

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/clause"        // Upsert support
)

// loadSettings fetches a settings singleton, seeding the row with its
// defaults on first read.
func loadSettings[T any](db *gorm.DB, id string, out *T) error {
	err := db.Where("id = ?", id).First(out).Error
	if err == gorm.ErrRecordNotFound {
		// Seed the singleton so the admin page always has a row to edit
		if err := setSingletonID(out, id); err != nil {
			return err
		}
		return db.Create(out).Error
	}
	return err
}

// saveSettings upserts a settings singleton under its fixed id
func saveSettings[T any](db *gorm.DB, id string, in *T) error {
	if err := setSingletonID(in, id); err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{UpdateAll: true}).Create(in).Error
}

// setSingletonID pins the fixed UUID on whichever settings struct is passed
func setSingletonID(v any, id string) error {
	switch s := v.(type) {
	case *domain.PaymentSettings:
		s.ID = id
	case *domain.SMTPSettings:
		s.ID = id
	case *domain.SSOSettings:
		s.ID = id
	case *domain.SiteSettings:
		s.ID = id
	default:
		return gorm.ErrInvalidValue
	}
	return nil
}

// GetPaymentSettingsHandler returns the payment settings singleton
func GetPaymentSettingsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var settings domain.PaymentSettings
		if err := loadSettings(db, domain.PaymentSettingsID, &settings); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payment settings"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"settings": settings})
	}
}

// PutPaymentSettingsHandler upserts the payment settings singleton
func PutPaymentSettingsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var settings domain.PaymentSettings // Bind JSON request to struct
		if err := c.ShouldBindJSON(&settings); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if err := saveSettings(db, domain.PaymentSettingsID, &settings); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save payment settings"})
			return
		}
		logrus.Info("Payment settings updated") // Audit log
		c.JSON(http.StatusOK, gin.H{"message": "Payment settings saved", "settings": settings})
	}
}

// GetSMTPSettingsHandler returns the SMTP settings singleton
func GetSMTPSettingsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var settings domain.SMTPSettings
		if err := loadSettings(db, domain.SMTPSettingsID, &settings); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load SMTP settings"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"settings": settings})
	}
}

// PutSMTPSettingsHandler upserts the SMTP settings singleton
func PutSMTPSettingsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var settings domain.SMTPSettings // Bind JSON request to struct
		if err := c.ShouldBindJSON(&settings); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if err := saveSettings(db, domain.SMTPSettingsID, &settings); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save SMTP settings"})
			return
		}
		logrus.Info("SMTP settings updated") // Audit log
		c.JSON(http.StatusOK, gin.H{"message": "SMTP settings saved", "settings": settings})
	}
}

// GetSSOSettingsHandler returns the SSO settings singleton
func GetSSOSettingsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var settings domain.SSOSettings
		if err := loadSettings(db, domain.SSOSettingsID, &settings); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load SSO settings"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"settings": settings})
	}
}

// PutSSOSettingsHandler upserts the SSO settings singleton
func PutSSOSettingsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var settings domain.SSOSettings // Bind JSON request to struct
		if err := c.ShouldBindJSON(&settings); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if err := saveSettings(db, domain.SSOSettingsID, &settings); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save SSO settings"})
			return
		}
		logrus.Info("SSO settings updated") // Audit log
		c.JSON(http.StatusOK, gin.H{"message": "SSO settings saved", "settings": settings})
	}
}

// GetSiteSettingsHandler returns the site settings singleton
func GetSiteSettingsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var settings domain.SiteSettings
		if err := loadSettings(db, domain.SiteSettingsID, &settings); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load site settings"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"settings": settings})
	}
}

// PutSiteSettingsHandler upserts the site settings singleton
func PutSiteSettingsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var settings domain.SiteSettings // Bind JSON request to struct
		if err := c.ShouldBindJSON(&settings); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if err := saveSettings(db, domain.SiteSettingsID, &settings); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save site settings"})
			return
		}
		logrus.Info("Site settings updated") // Audit log
		c.JSON(http.StatusOK, gin.H{"message": "Site settings saved", "settings": settings})
	}
}

// TestMonimeHandler probes the provider with the stored credentials
func TestMonimeHandler(db *gorm.DB, client *monime.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var settings domain.PaymentSettings
		if err := loadSettings(db, domain.PaymentSettingsID, &settings); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payment settings"})
			return
		}
		// Credentials must be saved before they can be probed
		if settings.MonimeSpaceID == "" || settings.MonimeAPIKey == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Monime credentials are not configured"})
			return
		}
		if err := client.Probe(c.Request.Context(), settings.MonimeSpaceID, settings.MonimeAPIKey); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Monime check failed: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Monime credentials are valid"})
	}
}

// TestEmailRequest represents an SMTP test send
type TestEmailRequest struct {
	To string `json:"to" binding:"required,email"` // Recipient of the test message
}

// TestEmailHandler sends a test message with the stored SMTP settings
func TestEmailHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TestEmailRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A valid recipient address is required"})
			return
		}
		var settings domain.SMTPSettings
		if err := loadSettings(db, domain.SMTPSettingsID, &settings); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load SMTP settings"})
			return
		}
		if err := mailer.New(settings).SendTest(req.To); err != nil {
			if err == mailer.ErrNotConfigured {
				c.JSON(http.StatusBadRequest, gin.H{"error": "SMTP settings are not configured"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": "Test email failed: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Test email sent"})
	}
}
