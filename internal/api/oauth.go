package api

import (
	"crypto/rand"     // Secret generation
	"encoding/base64" // Secret encoding
	"net/http"        // HTTP status codes

	"payments_admin/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // Client id generation
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// OAuthClientResponse is a client with its secret masked
type OAuthClientResponse struct {
	domain.OAuthClient
	SecretHint string `json:"secret_hint"` // Last four characters of the secret
}

// maskSecret keeps only the tail of a secret for display
func maskSecret(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

// newClientSecret generates a URL-safe random secret
func newClientSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// ListOAuthClientsHandler returns all SSO clients with masked secrets
func ListOAuthClientsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var clients []domain.OAuthClient
		if err := db.Order("created_at desc").Find(&clients).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch clients"})
			return
		}
		resp := make([]OAuthClientResponse, len(clients))
		for i, client := range clients {
			resp[i] = OAuthClientResponse{OAuthClient: client, SecretHint: maskSecret(client.Secret)}
		}
		c.JSON(http.StatusOK, gin.H{"clients": resp})
	}
}

// CreateOAuthClientRequest represents a client registration
type CreateOAuthClientRequest struct {
	Name         string `json:"name" binding:"required"` // Application name
	RedirectURIs string `json:"redirect_uris"`           // Newline-separated redirect URIs
	Scopes       string `json:"scopes"`                  // Space-separated scopes
}

// CreateOAuthClientHandler registers a client. The generated secret is
// returned once in this response and masked everywhere after.
func CreateOAuthClientHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateOAuthClientRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		secret, err := newClientSecret()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate secret"})
			return
		}
		client := domain.OAuthClient{
			Name:         req.Name,
			ClientID:     uuid.NewString(), // Server-generated public id
			Secret:       secret,
			RedirectURIs: req.RedirectURIs,
			Scopes:       req.Scopes,
			Active:       true,
		}
		if err := db.Create(&client).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create client"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"client_id": client.ClientID, // Public client id
			"name":      client.Name,     // Application name
		}).Info("OAuth client created") // Audit log
		// The only response that carries the plain secret
		c.JSON(http.StatusCreated, gin.H{"message": "Client created", "client": client, "secret": secret})
	}
}

// UpdateOAuthClientRequest represents a client update
type UpdateOAuthClientRequest struct {
	Name         *string `json:"name"`          // New application name
	RedirectURIs *string `json:"redirect_uris"` // New redirect URIs
	Scopes       *string `json:"scopes"`        // New scopes
}

// UpdateOAuthClientHandler updates a client's name, URIs, or scopes
func UpdateOAuthClientHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var client domain.OAuthClient
		if err := db.Where("client_id = ?", c.Param("clientID")).First(&client).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		var req UpdateOAuthClientRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		updates := map[string]any{} // Only touch the provided fields
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.RedirectURIs != nil {
			updates["redirect_uris"] = *req.RedirectURIs
		}
		if req.Scopes != nil {
			updates["scopes"] = *req.Scopes
		}
		if len(updates) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
			return
		}
		if err := db.Model(&client).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update client"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Client updated"})
	}
}

// ToggleOAuthClientHandler flips a client's active flag
func ToggleOAuthClientHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var client domain.OAuthClient
		if err := db.Where("client_id = ?", c.Param("clientID")).First(&client).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		if err := db.Model(&client).Update("active", !client.Active).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle client"})
			return
		}
		client.Active = !client.Active
		logrus.WithFields(logrus.Fields{
			"client_id": client.ClientID, // Public client id
			"active":    client.Active,   // New state
		}).Info("OAuth client toggled") // Audit log
		c.JSON(http.StatusOK, gin.H{"message": "Client toggled", "active": client.Active})
	}
}

// RotateOAuthSecretHandler replaces a client's secret. The new secret is
// returned once in this response.
func RotateOAuthSecretHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var client domain.OAuthClient
		if err := db.Where("client_id = ?", c.Param("clientID")).First(&client).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		secret, err := newClientSecret()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate secret"})
			return
		}
		if err := db.Model(&client).Update("secret", secret).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rotate secret"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"client_id": client.ClientID, // Public client id
		}).Info("OAuth client secret rotated") // Audit log
		c.JSON(http.StatusOK, gin.H{"message": "Secret rotated", "secret": secret})
	}
}

// DeleteOAuthClientHandler removes a client
func DeleteOAuthClientHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Where("client_id = ?", c.Param("clientID")).Delete(&domain.OAuthClient{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete client"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Client deleted"})
	}
}
