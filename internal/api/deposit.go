package api

import (
	"encoding/json" // Webhook payload decoding
	"io"            // Raw body capture for signature checks
	"net/http"      // HTTP status codes
	"time"          // Time durations

	"payments_admin/internal/domain" // Importing domain models
	"payments_admin/internal/monime" // Webhook signature verification

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// monimeWebhookPayload is the body of a provider deposit notification
type monimeWebhookPayload struct {
	Event     string  `json:"event"`     // Provider event name
	Reference string  `json:"reference"` // Deposit reference
	Amount    float64 `json:"amount"`    // Confirmed amount
	WalletID  string  `json:"wallet_id"` // Target wallet
}

// MonimeWebhookHandler confirms a pending deposit. The HMAC signature
// is verified against the stored webhook secret, and confirmation is
// idempotent on the reference: a replayed notification is acknowledged
// without crediting twice.
func MonimeWebhookHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
			return
		}
		var settings domain.PaymentSettings
		if err := loadSettings(db, domain.PaymentSettingsID, &settings); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payment settings"})
			return
		}
		// Reject unsigned or mis-signed notifications
		if !monime.VerifySignature(body, c.GetHeader("X-Monime-Signature"), settings.WebhookSecret) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
			return
		}
		if !settings.DepositsEnabled {
			c.JSON(http.StatusConflict, gin.H{"error": "Deposits are disabled"})
			return
		}
		var payload monimeWebhookPayload // Decode the verified body
		if err := json.Unmarshal(body, &payload); err != nil || payload.Reference == "" || payload.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
			return
		}
		confirmDeposit(db, c, payload.Reference, payload.WalletID, payload.Amount)
	}
}

// confirmDeposit applies a deposit atomically and idempotently
func confirmDeposit(db *gorm.DB, c *gin.Context, reference, walletID string, amount float64) {
	replayed := false
	err := db.Transaction(func(tx *gorm.DB) error {
		// Replay detection on the deposit reference
		var existing domain.Transaction
		if err := tx.Where("reference = ?", reference).First(&existing).Error; err == nil {
			if existing.Status == domain.TxStatusCompleted {
				replayed = true
				return nil
			}
			if existing.Status == domain.TxStatusCancelled {
				return gorm.ErrInvalidData // Cancelled deposits stay cancelled
			}
			// Pending: resolve the wallet from the recorded transaction
			if walletID == "" && existing.ToWalletID != nil {
				walletID = *existing.ToWalletID
			}
			amount = existing.Amount
			// Credit the wallet, then complete the record
			credit := tx.Model(&domain.Wallet{}).
				Where("id = ? AND status = ?", walletID, domain.WalletStatusActive).
				Update("balance", gorm.Expr("balance + ?", amount))
			if credit.Error != nil {
				return credit.Error
			}
			if credit.RowsAffected != 1 {
				return gorm.ErrRecordNotFound
			}
			return tx.Model(&existing).Update("status", domain.TxStatusCompleted).Error
		}
		// No pending record: the notification itself creates the deposit
		credit := tx.Model(&domain.Wallet{}).
			Where("id = ? AND status = ?", walletID, domain.WalletStatusActive).
			Update("balance", gorm.Expr("balance + ?", amount))
		if credit.Error != nil {
			return credit.Error
		}
		if credit.RowsAffected != 1 {
			return gorm.ErrRecordNotFound
		}
		record := domain.Transaction{
			Reference:  reference,
			ToWalletID: &walletID,
			Amount:     amount,
			Type:       domain.TxTypeDeposit,
			Status:     domain.TxStatusCompleted,
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"reference": reference,   // Deposit reference
			"error":     err.Error(), // Error message
		}).Error("Deposit confirmation failed") // Log failure
		c.JSON(http.StatusConflict, gin.H{"error": "Deposit could not be confirmed"})
		return
	}
	logrus.WithFields(logrus.Fields{
		"reference": reference,                       // Deposit reference
		"amount":    amount,                          // Deposit amount
		"replayed":  replayed,                        // Idempotent replay
		"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
	}).Info("Deposit confirmed") // Audit log
	c.JSON(http.StatusOK, gin.H{"message": "Deposit confirmed", "replayed": replayed})
}

// DepositSuccessHandler finalizes a pending deposit by reference after
// the provider redirects the payer back.
func DepositSuccessHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		reference := c.Query("reference")
		if reference == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing reference"})
			return
		}
		confirmDeposit(db, c, reference, "", 0)
	}
}

// DepositCancelHandler voids a pending deposit by reference
func DepositCancelHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		reference := c.Query("reference")
		if reference == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing reference"})
			return
		}
		// Only pending deposits can be cancelled
		res := db.Model(&domain.Transaction{}).
			Where("reference = ? AND status = ?", reference, domain.TxStatusPending).
			Update("status", domain.TxStatusCancelled)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel deposit"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "No pending deposit for reference"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"reference": reference, // Deposit reference
		}).Info("Deposit cancelled") // Audit log
		c.JSON(http.StatusOK, gin.H{"message": "Deposit cancelled"})
	}
}
