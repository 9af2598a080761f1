package api

import (
	"net/http"
	"testing"

	"payments_admin/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func settingsRouter(conn *gorm.DB) *gin.Engine {
	r := gin.New()
	r.GET("/settings/payment", GetPaymentSettingsHandler(conn))
	r.PUT("/settings/payment", PutPaymentSettingsHandler(conn))
	r.GET("/settings/smtp", GetSMTPSettingsHandler(conn))
	r.PUT("/settings/smtp", PutSMTPSettingsHandler(conn))
	r.GET("/settings/sso", GetSSOSettingsHandler(conn))
	r.PUT("/settings/sso", PutSSOSettingsHandler(conn))
	r.GET("/settings/site", GetSiteSettingsHandler(conn))
	r.PUT("/settings/site", PutSiteSettingsHandler(conn))
	r.POST("/settings/test-email", TestEmailHandler(conn))
	return r
}

func TestGetPaymentSettings_SeedsSingleton(t *testing.T) {
	conn := setupTestDB(t)
	r := settingsRouter(conn)

	w := doRequest(t, r, http.MethodGet, "/settings/payment", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// First read creates the row under its fixed id
	var settings domain.PaymentSettings
	require.NoError(t, conn.Where("id = ?", domain.PaymentSettingsID).First(&settings).Error)

	// Reading again must not create a second row
	w = doRequest(t, r, http.MethodGet, "/settings/payment", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var count int64
	require.NoError(t, conn.Model(&domain.PaymentSettings{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPutPaymentSettings_Upserts(t *testing.T) {
	conn := setupTestDB(t)
	r := settingsRouter(conn)

	w := doRequest(t, r, http.MethodPut, "/settings/payment", gin.H{
		"monime_space_id":    "space-1",
		"monime_api_key":     "key-1",
		"merchant_wallet_id": "abc",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// A second PUT replaces the same row
	w = doRequest(t, r, http.MethodPut, "/settings/payment", gin.H{
		"monime_space_id": "space-2",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, conn.Model(&domain.PaymentSettings{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	var settings domain.PaymentSettings
	require.NoError(t, conn.Where("id = ?", domain.PaymentSettingsID).First(&settings).Error)
	assert.Equal(t, "space-2", settings.MonimeSpaceID)
}

func TestPutSettings_IgnoresClientSuppliedID(t *testing.T) {
	conn := setupTestDB(t)
	r := settingsRouter(conn)

	w := doRequest(t, r, http.MethodPut, "/settings/site", gin.H{
		"id":        "99999999-9999-9999-9999-999999999999",
		"site_name": "Pay Admin",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var settings domain.SiteSettings
	require.NoError(t, conn.Where("id = ?", domain.SiteSettingsID).First(&settings).Error)
	assert.Equal(t, "Pay Admin", settings.SiteName)
	var count int64
	require.NoError(t, conn.Model(&domain.SiteSettings{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "the singleton id must be pinned server-side")
}

func TestPutSMTPSettings_RoundTrip(t *testing.T) {
	conn := setupTestDB(t)
	r := settingsRouter(conn)

	w := doRequest(t, r, http.MethodPut, "/settings/smtp", gin.H{
		"host":     "smtp.example.com",
		"port":     2525,
		"username": "mailer",
		"password": "hunter2",
		"sender":   "noreply@example.com",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, "/settings/smtp", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	settings := body["settings"].(map[string]any)
	assert.Equal(t, "smtp.example.com", settings["host"])
	assert.Equal(t, float64(2525), settings["port"])
}

func TestTestEmail_UnconfiguredSMTP(t *testing.T) {
	conn := setupTestDB(t)
	r := settingsRouter(conn)

	// No SMTP host saved yet
	w := doRequest(t, r, http.MethodPost, "/settings/test-email", gin.H{"to": "admin@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "not configured")
}

func TestTestEmail_InvalidRecipient(t *testing.T) {
	conn := setupTestDB(t)
	r := settingsRouter(conn)

	w := doRequest(t, r, http.MethodPost, "/settings/test-email", gin.H{"to": "not-an-address"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSSOSettings_Defaults(t *testing.T) {
	conn := setupTestDB(t)
	r := settingsRouter(conn)

	w := doRequest(t, r, http.MethodGet, "/settings/sso", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	settings := body["settings"].(map[string]any)
	assert.Equal(t, false, settings["enforce_sso"])
	assert.Equal(t, "", settings["allowed_domain"])
}
