package pos

import (
	"testing"

	"payments_admin/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err, "Failed to open test database")
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Wallet{}, &domain.Transaction{}, &domain.NfcTag{},
	), "Failed to migrate schema")
	return db
}

// createWallet inserts a wallet with the given balance
func createWallet(t *testing.T, db *gorm.DB, userID uint, balance float64) domain.Wallet {
	t.Helper()
	wallet := domain.Wallet{
		ID:      uuid.NewString(),
		UserID:  userID,
		Balance: balance,
		Status:  domain.WalletStatusActive,
	}
	require.NoError(t, db.Create(&wallet).Error)
	return wallet
}

func TestResolve_WalletIDBeforeUser(t *testing.T) {
	db := setupTestDB(t)
	wallet := createWallet(t, db, 1, 100)

	res, err := Resolve(db, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, "wallet", res.MatchBy)
	assert.Equal(t, wallet.ID, res.Wallet.ID)
}

func TestResolve_UserID(t *testing.T) {
	db := setupTestDB(t)
	wallet := createWallet(t, db, 7, 100)

	res, err := Resolve(db, "7")
	require.NoError(t, err)
	assert.Equal(t, "user", res.MatchBy)
	assert.Equal(t, wallet.ID, res.Wallet.ID)
}

func TestResolve_TagSerialToWallet(t *testing.T) {
	db := setupTestDB(t)
	wallet := createWallet(t, db, 1, 100)
	tag := domain.NfcTag{Serial: "04a2246b328189", WalletID: &wallet.ID, Active: true}
	require.NoError(t, db.Create(&tag).Error)

	res, err := Resolve(db, "04a2246b328189")
	require.NoError(t, err)
	assert.Equal(t, "tag", res.MatchBy)
	assert.Equal(t, wallet.ID, res.Wallet.ID)
}

func TestResolve_TagSerialToUserWallet(t *testing.T) {
	db := setupTestDB(t)
	wallet := createWallet(t, db, 9, 100)
	userID := uint(9)
	tag := domain.NfcTag{Serial: "04deadbeef", UserID: &userID, Active: true}
	require.NoError(t, db.Create(&tag).Error)

	res, err := Resolve(db, "04deadbeef")
	require.NoError(t, err)
	assert.Equal(t, "tag", res.MatchBy)
	assert.Equal(t, wallet.ID, res.Wallet.ID)
}

func TestResolve_WalletWinsOverTag(t *testing.T) {
	db := setupTestDB(t)
	wallet := createWallet(t, db, 1, 100)
	other := createWallet(t, db, 2, 50)
	// A registered tag whose serial collides with the first wallet's id
	tag := domain.NfcTag{Serial: wallet.ID, WalletID: &other.ID, Active: true}
	require.NoError(t, db.Create(&tag).Error)

	res, err := Resolve(db, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, "wallet", res.MatchBy, "wallet lookup runs before tag lookup")
	assert.Equal(t, wallet.ID, res.Wallet.ID)
}

func TestResolve_InactiveTagIgnored(t *testing.T) {
	db := setupTestDB(t)
	wallet := createWallet(t, db, 1, 100)
	tag := domain.NfcTag{Serial: "04a2246b", WalletID: &wallet.ID, Active: false}
	require.NoError(t, db.Create(&tag).Error)

	_, err := Resolve(db, "04a2246b")
	assert.ErrorIs(t, err, ErrCardNotRecognized)
}

func TestResolve_NotRecognized(t *testing.T) {
	db := setupTestDB(t)

	_, err := Resolve(db, "ffffffffffffff")
	assert.ErrorIs(t, err, ErrCardNotRecognized)

	_, err = Resolve(db, "")
	assert.ErrorIs(t, err, ErrCardNotRecognized)
}

func TestCharge_MovesExactAmounts(t *testing.T) {
	db := setupTestDB(t)
	payer := createWallet(t, db, 1, 100)
	merchant := createWallet(t, db, 2, 10)

	result, err := Charge(db, payer.ID, merchant.ID, "ref-1", 30)
	require.NoError(t, err)
	assert.False(t, result.Replayed)
	assert.Equal(t, domain.TxTypeCharge, result.Transaction.Type)
	assert.Equal(t, domain.TxStatusCompleted, result.Transaction.Status)

	var gotPayer, gotMerchant domain.Wallet
	require.NoError(t, db.First(&gotPayer, "id = ?", payer.ID).Error)
	require.NoError(t, db.First(&gotMerchant, "id = ?", merchant.ID).Error)
	assert.Equal(t, 70.0, gotPayer.Balance)
	assert.Equal(t, 40.0, gotMerchant.Balance)
}

func TestCharge_RejectsInvalidAmount(t *testing.T) {
	db := setupTestDB(t)
	payer := createWallet(t, db, 1, 100)
	merchant := createWallet(t, db, 2, 0)

	_, err := Charge(db, payer.ID, merchant.ID, "ref-neg", -5)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = Charge(db, payer.ID, merchant.ID, "ref-zero", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = Charge(db, payer.ID, merchant.ID, "", 5)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCharge_RejectsInsufficientBalance(t *testing.T) {
	db := setupTestDB(t)
	payer := createWallet(t, db, 1, 20)
	merchant := createWallet(t, db, 2, 0)

	_, err := Charge(db, payer.ID, merchant.ID, "ref-big", 20.01)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	var gotPayer domain.Wallet
	require.NoError(t, db.First(&gotPayer, "id = ?", payer.ID).Error)
	assert.Equal(t, 20.0, gotPayer.Balance, "rejected charge must not move money")
}

func TestCharge_RejectsFrozenWallet(t *testing.T) {
	db := setupTestDB(t)
	payer := createWallet(t, db, 1, 100)
	merchant := createWallet(t, db, 2, 0)
	require.NoError(t, db.Model(&domain.Wallet{}).Where("id = ?", payer.ID).
		Update("status", domain.WalletStatusFrozen).Error)

	_, err := Charge(db, payer.ID, merchant.ID, "ref-frozen", 10)
	assert.ErrorIs(t, err, ErrWalletFrozen)
}

func TestCharge_DailyLimit(t *testing.T) {
	db := setupTestDB(t)
	payer := createWallet(t, db, 1, 1000)
	merchant := createWallet(t, db, 2, 0)
	require.NoError(t, db.Model(&domain.Wallet{}).Where("id = ?", payer.ID).
		Update("daily_limit", 50).Error)

	_, err := Charge(db, payer.ID, merchant.ID, "ref-a", 40)
	require.NoError(t, err)

	// 40 already spent today; another 20 breaches the 50 limit
	_, err = Charge(db, payer.ID, merchant.ID, "ref-b", 20)
	assert.ErrorIs(t, err, ErrDailyLimitExceeded)

	// A charge inside the remaining headroom still goes through
	_, err = Charge(db, payer.ID, merchant.ID, "ref-c", 10)
	assert.NoError(t, err)
}

func TestCharge_ReplayedReferenceIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	payer := createWallet(t, db, 1, 100)
	merchant := createWallet(t, db, 2, 0)

	first, err := Charge(db, payer.ID, merchant.ID, "ref-same", 25)
	require.NoError(t, err)
	require.False(t, first.Replayed)

	second, err := Charge(db, payer.ID, merchant.ID, "ref-same", 25)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Transaction.ID, second.Transaction.ID)

	// Money moved exactly once
	var gotPayer domain.Wallet
	require.NoError(t, db.First(&gotPayer, "id = ?", payer.ID).Error)
	assert.Equal(t, 75.0, gotPayer.Balance)
}

func TestCharge_MerchantFailureRollsBackDebit(t *testing.T) {
	db := setupTestDB(t)
	payer := createWallet(t, db, 1, 100)
	merchant := createWallet(t, db, 2, 0)
	require.NoError(t, db.Model(&domain.Wallet{}).Where("id = ?", merchant.ID).
		Update("status", domain.WalletStatusFrozen).Error)

	_, err := Charge(db, payer.ID, merchant.ID, "ref-m", 30)
	assert.ErrorIs(t, err, ErrMerchantUnavailable)

	// The debit happened inside the same transaction, so it rolled back
	var gotPayer domain.Wallet
	require.NoError(t, db.First(&gotPayer, "id = ?", payer.ID).Error)
	assert.Equal(t, 100.0, gotPayer.Balance)

	// No transaction record survives the rollback
	var count int64
	require.NoError(t, db.Model(&domain.Transaction{}).Where("reference = ?", "ref-m").Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
