package api

import (
	"context"         // Context for Redis operations
	"encoding/base64" // Frame transport encoding
	"errors"          // Error matching
	"net/http"        // HTTP status codes
	"strings"         // Record trimming
	"time"            // Time durations

	"payments_admin/internal/domain" // Importing domain models
	"payments_admin/internal/nfc"    // Reader frame decoding
	"payments_admin/internal/pos"    // Card resolution and charging
	"payments_admin/internal/utils"  // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// DecodeFrameRequest carries one poll cycle from the terminal. USB
// terminals post raw reader frames base64-encoded; Web NFC terminals
// post the serial and any record payloads the browser already decoded.
type DecodeFrameRequest struct {
	UIDFrame  string   `json:"uid_frame"`  // CCID response to FF CA 00 00 00, base64
	NDEFFrame string   `json:"ndef_frame"` // CCID response to FF B0 00 04 10, base64
	Serial    string   `json:"serial"`     // Raw serial from Web NFC
	Records   []string `json:"records"`    // Decoded NDEF record payloads from Web NFC
}

// DecodeFrameHandler turns a poll cycle into a card candidate. A
// detected card means the terminal stops its 500 ms poll loop; a
// "no card" outcome means it keeps polling.
func DecodeFrameHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DecodeFrameRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		serial := req.Serial
		// USB path: decode the Get UID frame into a serial
		if req.UIDFrame != "" {
			frame, err := base64.StdEncoding.DecodeString(req.UIDFrame)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid frame encoding"})
				return
			}
			serial, err = nfc.DecodeUIDFrame(frame)
			if err != nil {
				// Not an error for the poller, just no card yet
				c.JSON(http.StatusOK, gin.H{"detected": false, "stop_polling": false})
				return
			}
		}
		if serial == "" {
			c.JSON(http.StatusOK, gin.H{"detected": false, "stop_polling": false})
			return
		}
		candidate := serial
		// Prefer an identifier carried in NDEF data over the raw serial
		if req.NDEFFrame != "" {
			if frame, err := base64.StdEncoding.DecodeString(req.NDEFFrame); err == nil {
				if raw, err := nfc.DecodeNDEFFrame(frame); err == nil {
					candidate = nfc.ExtractCandidate(raw, serial)
				}
			}
		}
		// Web NFC path: the browser already split out the record payloads.
		// The record text itself is the fallback so a plain identifier
		// (a user id, say) yields the same candidate as the USB path.
		for _, record := range req.Records {
			if extracted := nfc.ExtractCandidate([]byte(record), strings.TrimSpace(record)); extracted != "" {
				candidate = extracted
				break
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"detected":     true,
			"serial":       serial,
			"candidate":    candidate,
			"stop_polling": true, // A valid decode ends the poll loop
		})
	}
}

// ResolveCardRequest represents a card lookup
type ResolveCardRequest struct {
	Card string `json:"card" binding:"required"` // Decoded card candidate
}

// ResolveCardHandler maps a candidate to a wallet without charging it
func ResolveCardHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResolveCardRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		res, err := pos.Resolve(db, req.Card)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not recognized"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"wallet":   res.Wallet,
			"match_by": res.MatchBy,
		})
	}
}

// ChargeRequest represents a point-of-sale charge
type ChargeRequest struct {
	Card       string  `json:"card" binding:"required"`        // Decoded card candidate
	Amount     float64 `json:"amount" binding:"required,gt=0"` // Charge amount
	Reference  string  `json:"reference" binding:"required"`   // Idempotency reference
	TerminalID string  `json:"terminal_id"`                    // POS terminal identifier
}

// RecentPayment is one entry of a terminal's recent payment list
type RecentPayment struct {
	Reference string  `json:"reference"`  // Transaction reference
	WalletID  string  `json:"wallet_id"`  // Charged wallet
	Amount    float64 `json:"amount"`     // Charge amount
	ChargedAt int64   `json:"charged_at"` // Unix milliseconds
}

// ChargeCardHandler resolves the card and executes the charge against
// the merchant wallet from payment settings, all inside one database
// transaction with an idempotency reference.
func ChargeCardHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChargeRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
			return
		}
		// Resolve the decoded card string to a payer wallet
		res, err := pos.Resolve(db, req.Card)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not recognized"})
			return
		}
		// The merchant wallet comes from payment settings
		var settings domain.PaymentSettings
		if err := loadSettings(db, domain.PaymentSettingsID, &settings); err != nil || settings.MerchantWalletID == "" {
			c.JSON(http.StatusConflict, gin.H{"error": "Merchant wallet is not configured"})
			return
		}
		result, err := pos.Charge(db, res.Wallet.ID, settings.MerchantWalletID, req.Reference, req.Amount)
		if err != nil {
			status, msg := chargeErrorStatus(err)
			c.JSON(status, gin.H{"error": msg})
			return
		}
		// Remember the charge on the terminal's recent list
		if !result.Replayed {
			recordRecentPayment(rdb, req.TerminalID, RecentPayment{
				Reference: result.Transaction.Reference,
				WalletID:  res.Wallet.ID,
				Amount:    result.Transaction.Amount,
				ChargedAt: result.Transaction.CreatedAt,
			})
		}
		c.JSON(http.StatusOK, gin.H{
			"message":     "Charge successful",
			"transaction": result.Transaction,
			"replayed":    result.Replayed,
			"match_by":    res.MatchBy,
		})
	}
}

// chargeErrorStatus maps charge errors to HTTP statuses and user-facing strings
func chargeErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, pos.ErrInvalidAmount):
		return http.StatusBadRequest, "Invalid amount"
	case errors.Is(err, pos.ErrWalletFrozen):
		return http.StatusBadRequest, "Wallet is frozen"
	case errors.Is(err, pos.ErrInsufficientBalance):
		return http.StatusBadRequest, "Insufficient balance"
	case errors.Is(err, pos.ErrDailyLimitExceeded):
		return http.StatusBadRequest, "Daily limit exceeded"
	case errors.Is(err, pos.ErrMonthlyLimitExceeded):
		return http.StatusBadRequest, "Monthly limit exceeded"
	case errors.Is(err, pos.ErrMerchantUnavailable):
		return http.StatusConflict, "Merchant wallet unavailable"
	}
	return http.StatusInternalServerError, "Charge failed"
}

const (
	recentPaymentsMax = 10            // Entries kept per terminal
	recentPaymentsTTL = 1 * time.Hour // List lifetime
)

// recordRecentPayment prepends a payment to the terminal's recent list
func recordRecentPayment(rdb *redis.Client, terminalID string, payment RecentPayment) {
	if rdb == nil {
		return
	}
	if terminalID == "" {
		terminalID = "default"
	}
	ctx := context.Background() // Context for Redis operations
	key := "pos:recent:" + terminalID
	var recent []RecentPayment
	_, _ = utils.GetCache(ctx, rdb, key, &recent)
	recent = append([]RecentPayment{payment}, recent...)
	if len(recent) > recentPaymentsMax {
		recent = recent[:recentPaymentsMax]
	}
	_ = utils.SetCache(ctx, rdb, key, recent, recentPaymentsTTL)
}

// RecentPaymentsHandler returns a terminal's recent charges
func RecentPaymentsHandler(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		terminalID := c.DefaultQuery("terminal_id", "default")
		recent := []RecentPayment{}
		if rdb != nil {
			ctx := context.Background() // Context for Redis operations
			_, _ = utils.GetCache(ctx, rdb, "pos:recent:"+terminalID, &recent)
		}
		c.JSON(http.StatusOK, gin.H{"payments": recent})
	}
}
