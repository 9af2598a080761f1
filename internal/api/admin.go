package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation
	"time"     // Time durations

	"payments_admin/internal/domain" // Importing domain models
	"payments_admin/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// UserAdminResponse represents the user data returned to admin
type UserAdminResponse struct {
	ID       uint          `json:"id"`       // User ID
	Username string        `json:"username"` // Username
	Email    string        `json:"email"`    // Contact email
	Role     string        `json:"role"`     // User role
	Wallet   domain.Wallet `json:"wallet"`   // Associated wallet
}

// ListUsersHandler returns all users with their wallet info
func ListUsersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Use background context for Redis
		page, pageSize := pagination(c)
		// Cache key built from the clamped pagination values
		cacheKey := "admin:users:page=" + strconv.Itoa(page) + ":size=" + strconv.Itoa(pageSize)
		var cached struct {
			Users      []UserAdminResponse `json:"users"`       // List of users
			Page       int                 `json:"page"`        // Current page
			PageSize   int                 `json:"page_size"`   // Page size
			Total      int64               `json:"total"`       // Total number of users
			TotalPages int                 `json:"total_pages"` // Total pages
		}
		// If cached data found, return it
		if rdb != nil {
			found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
			if err == nil && found {
				c.JSON(http.StatusOK, gin.H{
					"users":       cached.Users,
					"page":        cached.Page,
					"page_size":   cached.PageSize,
					"total":       cached.Total,
					"total_pages": cached.TotalPages,
					"cached":      true, // Indicate response is from cache
				})
				return
			}
		}
		var total int64 // Total user count
		if err := db.Model(&domain.User{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"}) // Return on error
			return
		}
		var users []domain.User // Slice to hold users
		// Preload Wallet relation, apply offset and limit for pagination
		if err := db.Preload("Wallet").Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"}) // Return on error
			return
		}
		totalPages := (int(total) + pageSize - 1) / pageSize // Calculate total pages
		resp := make([]UserAdminResponse, len(users))
		// Map users to response format
		for i, u := range users {
			resp[i] = UserAdminResponse{
				ID:       u.ID,       // User ID
				Username: u.Username, // Username
				Email:    u.Email,    // Contact email
				Role:     u.Role,     // User role
				Wallet:   u.Wallet,   // Associated wallet
			}
		}
		respData := gin.H{
			"users":       resp,       // List of users
			"page":        page,       // Current page
			"page_size":   pageSize,   // Page size
			"total":       total,      // Total number of users
			"total_pages": totalPages, // Total pages
			"cached":      false,      // Indicate response is not from cache
		}
		// Cache the response for future requests
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second)
		}
		c.JSON(http.StatusOK, respData) // Return the response
	}
}

// ListTransactionsHandler returns all transactions, with optional filtering by wallet, type, status, or date
func ListTransactionsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		page, pageSize := pagination(c)
		// Build cache key from the filters plus the clamped pagination values
		var keyParts []string // Parts of the cache key
		for _, k := range []string{"wallet_id", "type", "status", "from", "to"} {
			keyParts = append(keyParts, k+"="+c.DefaultQuery(k, "")) // Append key-value pair
		}
		keyParts = append(keyParts, "page="+strconv.Itoa(page), "size="+strconv.Itoa(pageSize))
		cacheKey := "admin:txs:" + strings.Join(keyParts, ":")
		var cached struct {
			Transactions []domain.Transaction `json:"transactions"` // List of transactions
			Page         int                  `json:"page"`         // Current page
			PageSize     int                  `json:"page_size"`    // Page size
			Total        int64                `json:"total"`        // Total number of transactions
			TotalPages   int                  `json:"total_pages"`  // Total pages
		}
		// If cached data found, return it
		if rdb != nil {
			found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
			if err == nil && found {
				c.JSON(http.StatusOK, gin.H{
					"transactions": cached.Transactions,
					"page":         cached.Page,
					"page_size":    cached.PageSize,
					"total":        cached.Total,
					"total_pages":  cached.TotalPages,
					"cached":       true, // Indicate response is from cache
				})
				return
			}
		}
		query := db.Model(&domain.Transaction{}) // Start building the query
		if walletID := c.Query("wallet_id"); walletID != "" {
			query = query.Where("from_wallet_id = ? OR to_wallet_id = ?", walletID, walletID) // Filter by wallet
		}
		if txType := c.Query("type"); txType != "" {
			query = query.Where("type = ?", txType) // Filter by transaction type
		}
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status) // Filter by status
		}
		if from := c.Query("from"); from != "" {
			query = query.Where("created_at >= ?", from) // Filter by start date
		}
		if to := c.Query("to"); to != "" {
			query = query.Where("created_at <= ?", to) // Filter by end date
		}
		var total int64 // Total transaction count
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count transactions"})
			return
		}
		var txs []domain.Transaction // Slice to hold transactions
		if err := query.Order("created_at desc").Offset((page - 1) * pageSize).Limit(pageSize).Find(&txs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
			return
		}
		totalPages := (int(total) + pageSize - 1) / pageSize
		respData := gin.H{
			"transactions": txs,        // List of transactions
			"page":         page,       // Current page
			"page_size":    pageSize,   // Page size
			"total":        total,      // Total number of transactions
			"total_pages":  totalPages, // Total pages
			"cached":       false,      // Indicate response is not from cache
		}
		// Cache the response for future requests
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second)
		}
		c.JSON(http.StatusOK, respData) // Return the response
	}
}
