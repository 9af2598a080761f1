package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"payments_admin/internal/db"
	"payments_admin/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestDB opens an in-memory database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err, "Failed to open test database")
	require.NoError(t, db.AutoMigrate(conn), "Failed to migrate schema")
	return conn
}

// createWallet inserts an active wallet with the given balance
func createWallet(t *testing.T, conn *gorm.DB, userID uint, balance float64) domain.Wallet {
	t.Helper()
	wallet := domain.Wallet{
		ID:      uuid.NewString(),
		UserID:  userID,
		Balance: balance,
		Status:  domain.WalletStatusActive,
	}
	require.NoError(t, conn.Create(&wallet).Error)
	return wallet
}

// doRequest runs one request through the router and returns the recorder
func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a JSON response body into a generic map
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "Response body is not valid JSON")
	return body
}
