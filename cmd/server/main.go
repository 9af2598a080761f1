package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"payments_admin/internal/api"        // Custom package for API handlers
	"payments_admin/internal/config"     // Custom package for configuration
	"payments_admin/internal/db"         // Custom package for database access
	"payments_admin/internal/middleware" // Custom package for middleware
	"payments_admin/internal/monime"     // Payment provider client

	"github.com/gin-contrib/cors"  // CORS middleware
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database
	conn, err := db.Connect(cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Monime provider client for the settings probe
	monimeClient := monime.NewClient(cfg.MonimeBaseURL)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// The admin pages call from another origin
	r.Use(cors.Default())

	// Auth routes
	r.POST("/user", api.RegisterHandler(conn))            // Registration endpoint
	r.GET("/user", api.LoginHandler(conn, cfg.JWTSecret)) // Login endpoint

	// Provider callbacks (no auth; the webhook carries its own signature)
	r.POST("/api/webhooks/monime", api.MonimeWebhookHandler(conn)) // Deposit notifications
	r.GET("/api/deposit/success", api.DepositSuccessHandler(conn)) // Deposit redirect landing
	r.GET("/api/deposit/cancel", api.DepositCancelHandler(conn))   // Deposit cancellation

	// Admin routes (protected, admin only)
	adminAPI := r.Group("/api")
	adminAPI.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.AdminOnlyMiddleware(conn))

	// Users and transactions
	adminAPI.GET("/users", api.ListUsersHandler(conn, redisClient))               // List users endpoint
	adminAPI.GET("/transactions", api.ListTransactionsHandler(conn, redisClient)) // List transactions endpoint

	// Wallets
	adminAPI.GET("/wallets", api.ListWalletsHandler(conn, redisClient))                  // List wallets
	adminAPI.POST("/wallets", api.CreateWalletHandler(conn, redisClient))                // Create wallet
	adminAPI.GET("/wallets/:id", api.GetWalletByIDHandler(conn))                         // Wallet detail
	adminAPI.POST("/wallets/:id/deposit", api.DepositHandler(conn, redisClient))         // Admin deposit
	adminAPI.POST("/wallets/:id/freeze", api.FreezeWalletHandler(conn, redisClient))     // Freeze wallet
	adminAPI.POST("/wallets/:id/unfreeze", api.UnfreezeWalletHandler(conn, redisClient)) // Unfreeze wallet
	adminAPI.PUT("/wallets/:id/limits", api.UpdateLimitsHandler(conn, redisClient))      // Spend limits
	adminAPI.GET("/wallets/:id/transactions", api.WalletTransactionsHandler(conn))       // Wallet history

	// Modules
	adminAPI.GET("/modules", api.ListModulesHandler(conn))                // List modules
	adminAPI.POST("/modules", api.CreateModuleHandler(conn))              // Register module
	adminAPI.PUT("/modules/:code", api.UpdateModuleHandler(conn))         // Update module
	adminAPI.POST("/modules/:code/toggle", api.ToggleModuleHandler(conn)) // Enable or disable
	adminAPI.DELETE("/modules/:code", api.DeleteModuleHandler(conn))      // Remove module

	// CMS pages
	adminAPI.GET("/pages", api.ListPagesHandler(conn))                  // List pages
	adminAPI.POST("/pages", api.CreatePageHandler(conn))                // Create page
	adminAPI.GET("/pages/:id", api.GetPageHandler(conn))                // Page detail
	adminAPI.PUT("/pages/:id", api.UpdatePageHandler(conn))             // Update page
	adminAPI.POST("/pages/:id/publish", api.PublishPageHandler(conn))   // Publish page
	adminAPI.POST("/pages/:id/archive", api.ArchivePageHandler(conn))   // Archive page
	adminAPI.DELETE("/pages/:id", api.DeletePageHandler(conn))          // Delete page
	adminAPI.GET("/page-templates", api.ListPageTemplatesHandler(conn)) // List templates

	// Pots
	adminAPI.GET("/pots", api.ListPotsHandler(conn))                   // List pots
	adminAPI.POST("/pots/:id/lock", api.AdminLockPotHandler(conn))     // Admin lock
	adminAPI.POST("/pots/:id/unlock", api.AdminUnlockPotHandler(conn)) // Admin unlock

	// OAuth clients
	adminAPI.GET("/oauth-clients", api.ListOAuthClientsHandler(conn))                           // List clients
	adminAPI.POST("/oauth-clients", api.CreateOAuthClientHandler(conn))                         // Register client
	adminAPI.PUT("/oauth-clients/:clientID", api.UpdateOAuthClientHandler(conn))                // Update client
	adminAPI.POST("/oauth-clients/:clientID/toggle", api.ToggleOAuthClientHandler(conn))        // Toggle active
	adminAPI.POST("/oauth-clients/:clientID/rotate-secret", api.RotateOAuthSecretHandler(conn)) // New secret
	adminAPI.DELETE("/oauth-clients/:clientID", api.DeleteOAuthClientHandler(conn))             // Delete client

	// Settings singletons
	adminAPI.GET("/settings/payment", api.GetPaymentSettingsHandler(conn)) // Payment settings
	adminAPI.PUT("/settings/payment", api.PutPaymentSettingsHandler(conn))
	adminAPI.GET("/settings/smtp", api.GetSMTPSettingsHandler(conn)) // SMTP settings
	adminAPI.PUT("/settings/smtp", api.PutSMTPSettingsHandler(conn))
	adminAPI.GET("/settings/sso", api.GetSSOSettingsHandler(conn)) // SSO settings
	adminAPI.PUT("/settings/sso", api.PutSSOSettingsHandler(conn))
	adminAPI.GET("/settings/site", api.GetSiteSettingsHandler(conn)) // Site settings
	adminAPI.PUT("/settings/site", api.PutSiteSettingsHandler(conn))
	adminAPI.POST("/test-monime", api.TestMonimeHandler(conn, monimeClient)) // Provider probe
	adminAPI.POST("/test-email", api.TestEmailHandler(conn))                 // SMTP probe

	// NFC tags and point of sale
	adminAPI.GET("/nfc-tags", api.ListTagsHandler(conn))                          // List tags
	adminAPI.POST("/nfc-tags", api.RegisterTagHandler(conn))                      // Register tag
	adminAPI.POST("/nfc-tags/:serial/deactivate", api.DeactivateTagHandler(conn)) // Deactivate tag
	adminAPI.POST("/pos/decode", api.DecodeFrameHandler())                        // Reader frame decode
	adminAPI.POST("/pos/resolve", api.ResolveCardHandler(conn))                   // Card lookup
	adminAPI.POST("/pos/charge", api.ChargeCardHandler(conn, redisClient))        // Charge card
	adminAPI.GET("/pos/recent", api.RecentPaymentsHandler(redisClient))           // Recent charges

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
