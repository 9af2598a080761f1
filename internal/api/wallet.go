package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"payments_admin/internal/domain" // Importing domain models
	"payments_admin/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/google/uuid"       // UUID generation
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// ListWalletsHandler returns all wallets, paginated and cached
func ListWalletsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Context for Redis operations
		page, pageSize := pagination(c)
		// Cache key based on pagination parameters
		cacheKey := "admin:wallets:page=" + strconv.Itoa(page) + ":size=" + strconv.Itoa(pageSize)
		var cached struct {
			Wallets    []domain.Wallet `json:"wallets"`
			Page       int             `json:"page"`
			PageSize   int             `json:"page_size"`
			Total      int64           `json:"total"`
			TotalPages int             `json:"total_pages"`
		}
		// If cached data found, return it
		if rdb != nil {
			found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
			if err == nil && found {
				c.JSON(http.StatusOK, gin.H{
					"wallets":     cached.Wallets,
					"page":        cached.Page,
					"page_size":   cached.PageSize,
					"total":       cached.Total,
					"total_pages": cached.TotalPages,
					"cached":      true,
				})
				return
			}
		}
		var total int64 // Total wallet count
		if err := db.Model(&domain.Wallet{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count wallets"})
			return
		}
		var wallets []domain.Wallet // Slice to hold wallets
		if err := db.Order("created_at desc").Offset((page - 1) * pageSize).Limit(pageSize).Find(&wallets).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wallets"})
			return
		}
		totalPages := (int(total) + pageSize - 1) / pageSize // Calculate total pages
		respData := gin.H{
			"wallets":     wallets,
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages,
			"cached":      false,
		}
		// Cache the response for future requests
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second)
		}
		c.JSON(http.StatusOK, respData) // Return the response
	}
}

// GetWalletByIDHandler returns a single wallet by id
func GetWalletByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var wallet domain.Wallet
		// Query wallet by id from the path
		if err := db.Where("id = ?", c.Param("id")).First(&wallet).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"wallet": wallet})
	}
}

// CreateWalletRequest represents an admin wallet creation request
type CreateWalletRequest struct {
	UserID   uint   `json:"user_id" binding:"required"` // Owning user
	Currency string `json:"currency"`                   // Optional currency override
}

// CreateWalletHandler creates a wallet for a user (one wallet per user)
func CreateWalletHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateWalletRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Check if wallet already exists for this user
		var existing domain.Wallet
		if err := db.Where("user_id = ?", req.UserID).First(&existing).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Wallet already exists"})
			return
		}
		wallet := domain.Wallet{
			ID:       uuid.NewString(), // Server-generated id
			UserID:   req.UserID,
			Currency: req.Currency,
			Status:   domain.WalletStatusActive,
		}
		if wallet.Currency == "" {
			wallet.Currency = "SLE" // Platform default
		}
		// Save the new wallet
		if err := db.Create(&wallet).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": req.UserID,  // User ID
				"error":   err.Error(), // Error message
			}).Error("Failed to create wallet") // Log failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create wallet"})
			return
		}
		invalidateWalletCaches(rdb) // Invalidate wallet list cache
		c.JSON(http.StatusCreated, gin.H{"message": "Wallet created", "wallet": wallet})
	}
}

// AdminDepositRequest represents an admin deposit into a wallet
type AdminDepositRequest struct {
	Amount    float64 `json:"amount" binding:"required,gt=0"` // Deposit amount
	Reference string  `json:"reference"`                      // Optional idempotency reference
}

// DepositHandler credits a wallet and records the transaction atomically
func DepositHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AdminDepositRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
			return
		}
		var wallet domain.Wallet // Find the wallet
		if err := db.Where("id = ?", c.Param("id")).First(&wallet).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
			return
		}
		// Frozen wallets reject all balance mutations
		if wallet.Frozen() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Wallet is frozen"})
			return
		}
		if req.Reference == "" {
			req.Reference = "admin-" + uuid.NewString() // Generate a reference when absent
		}
		replayed := false
		// Update balance and record the transaction atomically
		err := db.Transaction(func(tx *gorm.DB) error {
			// Replay detection on the idempotency reference
			var existing domain.Transaction
			if err := tx.Where("reference = ?", req.Reference).First(&existing).Error; err == nil {
				replayed = true
				return nil
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			// Increment wallet balance
			if err := tx.Model(&wallet).Update("balance", gorm.Expr("balance + ?", req.Amount)).Error; err != nil {
				return err
			}
			t := domain.Transaction{
				Reference:  req.Reference,
				ToWalletID: &wallet.ID,
				Amount:     req.Amount,
				Type:       domain.TxTypeDeposit,
				Status:     domain.TxStatusCompleted,
			}
			// Save transaction
			if err := tx.Create(&t).Error; err != nil {
				return err // Return error to rollback
			}
			return nil // Commit transaction
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"wallet_id": wallet.ID,   // Wallet ID
				"amount":    req.Amount,  // Deposit amount
				"error":     err.Error(), // Error message
			}).Error("Deposit failed") // Log deposit failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Deposit failed"})
			return
		}
		// Log every applied deposit
		if !replayed {
			logrus.WithFields(logrus.Fields{
				"wallet_id": wallet.ID,                       // Wallet ID
				"amount":    req.Amount,                      // Deposit amount
				"type":      domain.TxTypeDeposit,            // Transaction type
				"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
			}).Info("Deposit transaction") // Log deposit success
			invalidateWalletCaches(rdb)
		}
		c.JSON(http.StatusOK, gin.H{"message": "Deposit successful", "replayed": replayed})
	}
}

// setWalletStatus flips a wallet between ACTIVE and FROZEN
func setWalletStatus(db *gorm.DB, rdb *redis.Client, c *gin.Context, status string) {
	var wallet domain.Wallet
	if err := db.Where("id = ?", c.Param("id")).First(&wallet).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
		return
	}
	if err := db.Model(&wallet).Update("status", status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wallet"})
		return
	}
	logrus.WithFields(logrus.Fields{
		"wallet_id": wallet.ID, // Wallet ID
		"status":    status,    // New status
	}).Info("Wallet status changed") // Audit log
	invalidateWalletCaches(rdb)
	c.JSON(http.StatusOK, gin.H{"message": "Wallet " + status, "status": status})
}

// FreezeWalletHandler freezes a wallet
func FreezeWalletHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		setWalletStatus(db, rdb, c, domain.WalletStatusFrozen)
	}
}

// UnfreezeWalletHandler reactivates a frozen wallet
func UnfreezeWalletHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		setWalletStatus(db, rdb, c, domain.WalletStatusActive)
	}
}

// UpdateLimitsRequest represents a spending limit update
type UpdateLimitsRequest struct {
	DailyLimit   *float64 `json:"daily_limit" binding:"omitempty,gte=0"`   // New daily limit, 0 = unlimited
	MonthlyLimit *float64 `json:"monthly_limit" binding:"omitempty,gte=0"` // New monthly limit, 0 = unlimited
}

// UpdateLimitsHandler sets a wallet's daily and monthly spend limits
func UpdateLimitsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateLimitsRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var wallet domain.Wallet
		if err := db.Where("id = ?", c.Param("id")).First(&wallet).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
			return
		}
		updates := map[string]any{} // Only touch the provided fields
		if req.DailyLimit != nil {
			updates["daily_limit"] = *req.DailyLimit
		}
		if req.MonthlyLimit != nil {
			updates["monthly_limit"] = *req.MonthlyLimit
		}
		if len(updates) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No limits provided"})
			return
		}
		if err := db.Model(&wallet).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update limits"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"wallet_id": wallet.ID, // Wallet ID
			"updates":   updates,   // Applied limits
		}).Info("Wallet limits updated") // Audit log
		invalidateWalletCaches(rdb)
		c.JSON(http.StatusOK, gin.H{"message": "Limits updated"})
	}
}

// WalletTransactionsHandler returns a wallet's transactions, paginated
func WalletTransactionsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var wallet domain.Wallet
		if err := db.Where("id = ?", c.Param("id")).First(&wallet).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
			return
		}
		page, pageSize := pagination(c)
		var total int64 // Total count of transactions
		if err := db.Model(&domain.Transaction{}).
			Where("from_wallet_id = ? OR to_wallet_id = ?", wallet.ID, wallet.ID).
			Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count transactions"})
			return
		}
		var transactions []domain.Transaction // Slice to hold transactions
		if err := db.Where("from_wallet_id = ? OR to_wallet_id = ?", wallet.ID, wallet.ID).
			Order("created_at desc").
			Offset((page - 1) * pageSize).
			Limit(pageSize).
			Find(&transactions).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"transactions": transactions,
			"page":         page,
			"page_size":    pageSize,
			"total":        total,
			"total_pages":  (int(total) + pageSize - 1) / pageSize,
		})
	}
}

// pagination reads page and page_size query params with sane bounds
func pagination(c *gin.Context) (int, int) {
	page := 1      // Default page
	pageSize := 20 // Default page size
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v // Set page size if valid
		}
	}
	return page, pageSize
}

// invalidateWalletCaches drops the cached wallet list pages
func invalidateWalletCaches(rdb *redis.Client) {
	if rdb == nil {
		return
	}
	ctx := context.Background() // Context for Redis operations
	// Delete the first few cached list pages (simple version, matches list TTL)
	for i := 1; i <= 5; i++ {
		_ = utils.DeleteCache(ctx, rdb, "admin:wallets:page="+strconv.Itoa(i)+":size=20")
	}
}
