package api

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"payments_admin/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testWebhookSecret = "whsec-test"

func depositRouter(conn *gorm.DB) *gin.Engine {
	r := gin.New()
	r.POST("/webhooks/monime", MonimeWebhookHandler(conn))
	r.GET("/deposit/success", DepositSuccessHandler(conn))
	r.GET("/deposit/cancel", DepositCancelHandler(conn))
	return r
}

// seedWebhookSettings stores payment settings with the webhook secret
func seedWebhookSettings(t *testing.T, conn *gorm.DB, depositsEnabled bool) {
	t.Helper()
	require.NoError(t, conn.Create(&domain.PaymentSettings{
		ID:              domain.PaymentSettingsID,
		WebhookSecret:   testWebhookSecret,
		DepositsEnabled: depositsEnabled,
	}).Error)
}

// signedWebhook posts a raw body with its HMAC signature header
func signedWebhook(t *testing.T, r *gin.Engine, body []byte, secret string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/monime", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(body)
		req.Header.Set("X-Monime-Signature", hex.EncodeToString(mac.Sum(nil)))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMonimeWebhook_ConfirmsDeposit(t *testing.T) {
	conn := setupTestDB(t)
	r := depositRouter(conn)
	seedWebhookSettings(t, conn, true)
	wallet := createWallet(t, conn, 1, 10)

	body := []byte(`{"event":"payment.completed","reference":"dep-1","amount":40,"wallet_id":"` + wallet.ID + `"}`)
	w := signedWebhook(t, r, body, testWebhookSecret)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["replayed"])

	var got domain.Wallet
	require.NoError(t, conn.First(&got, "id = ?", wallet.ID).Error)
	assert.Equal(t, 50.0, got.Balance)

	var tx domain.Transaction
	require.NoError(t, conn.Where("reference = ?", "dep-1").First(&tx).Error)
	assert.Equal(t, domain.TxTypeDeposit, tx.Type)
	assert.Equal(t, domain.TxStatusCompleted, tx.Status)
}

func TestMonimeWebhook_ReplayedNotification(t *testing.T) {
	conn := setupTestDB(t)
	r := depositRouter(conn)
	seedWebhookSettings(t, conn, true)
	wallet := createWallet(t, conn, 1, 0)

	body := []byte(`{"event":"payment.completed","reference":"dep-2","amount":15,"wallet_id":"` + wallet.ID + `"}`)
	w := signedWebhook(t, r, body, testWebhookSecret)
	require.Equal(t, http.StatusOK, w.Code)

	w = signedWebhook(t, r, body, testWebhookSecret)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["replayed"])

	var got domain.Wallet
	require.NoError(t, conn.First(&got, "id = ?", wallet.ID).Error)
	assert.Equal(t, 15.0, got.Balance, "a replayed notification must not credit twice")
}

func TestMonimeWebhook_RejectsBadSignature(t *testing.T) {
	conn := setupTestDB(t)
	r := depositRouter(conn)
	seedWebhookSettings(t, conn, true)
	wallet := createWallet(t, conn, 1, 0)

	body := []byte(`{"event":"payment.completed","reference":"dep-3","amount":15,"wallet_id":"` + wallet.ID + `"}`)
	w := signedWebhook(t, r, body, "wrong-secret")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Missing signature entirely
	w = signedWebhook(t, r, body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var got domain.Wallet
	require.NoError(t, conn.First(&got, "id = ?", wallet.ID).Error)
	assert.Equal(t, 0.0, got.Balance)
}

func TestMonimeWebhook_DepositsDisabled(t *testing.T) {
	conn := setupTestDB(t)
	r := depositRouter(conn)
	seedWebhookSettings(t, conn, false)
	wallet := createWallet(t, conn, 1, 0)

	body := []byte(`{"event":"payment.completed","reference":"dep-4","amount":15,"wallet_id":"` + wallet.ID + `"}`)
	w := signedWebhook(t, r, body, testWebhookSecret)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDepositSuccess_CompletesPending(t *testing.T) {
	conn := setupTestDB(t)
	r := depositRouter(conn)
	wallet := createWallet(t, conn, 1, 0)
	require.NoError(t, conn.Create(&domain.Transaction{
		Reference: "dep-5", ToWalletID: &wallet.ID, Amount: 30,
		Type: domain.TxTypeDeposit, Status: domain.TxStatusPending,
	}).Error)

	w := doRequest(t, r, http.MethodGet, "/deposit/success?reference=dep-5", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got domain.Wallet
	require.NoError(t, conn.First(&got, "id = ?", wallet.ID).Error)
	assert.Equal(t, 30.0, got.Balance)
	var tx domain.Transaction
	require.NoError(t, conn.Where("reference = ?", "dep-5").First(&tx).Error)
	assert.Equal(t, domain.TxStatusCompleted, tx.Status)
}

func TestDepositCancel_PendingOnly(t *testing.T) {
	conn := setupTestDB(t)
	r := depositRouter(conn)
	wallet := createWallet(t, conn, 1, 0)
	require.NoError(t, conn.Create(&domain.Transaction{
		Reference: "dep-6", ToWalletID: &wallet.ID, Amount: 30,
		Type: domain.TxTypeDeposit, Status: domain.TxStatusPending,
	}).Error)

	w := doRequest(t, r, http.MethodGet, "/deposit/cancel?reference=dep-6", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var tx domain.Transaction
	require.NoError(t, conn.Where("reference = ?", "dep-6").First(&tx).Error)
	assert.Equal(t, domain.TxStatusCancelled, tx.Status)

	// Cancelled deposits cannot complete afterwards
	w = doRequest(t, r, http.MethodGet, "/deposit/success?reference=dep-6", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	var got domain.Wallet
	require.NoError(t, conn.First(&got, "id = ?", wallet.ID).Error)
	assert.Equal(t, 0.0, got.Balance)

	// A second cancel finds nothing pending
	w = doRequest(t, r, http.MethodGet, "/deposit/cancel?reference=dep-6", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
