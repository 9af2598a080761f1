package pos

import (
	"errors"
	"time"

	"payments_admin/internal/domain"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Charge validation errors
var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrWalletFrozen         = errors.New("wallet is frozen")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrDailyLimitExceeded   = errors.New("daily limit exceeded")
	ErrMonthlyLimitExceeded = errors.New("monthly limit exceeded")
	ErrMerchantUnavailable  = errors.New("merchant wallet unavailable")
)

// ChargeResult is the outcome of a charge attempt
type ChargeResult struct {
	Transaction domain.Transaction // The recorded transaction
	Replayed    bool               // True when the reference was already processed
}

// Charge debits the payer wallet and credits the merchant wallet inside
// a single database transaction. The debit is a conditional update so a
// concurrent spend can never drive the balance negative, and the
// client-supplied reference acts as an idempotency key: replaying a
// reference returns the recorded transaction instead of charging twice.
func Charge(db *gorm.DB, payerWalletID, merchantWalletID, reference string, amount float64) (*ChargeResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if reference == "" {
		return nil, ErrInvalidAmount
	}
	var result ChargeResult
	err := db.Transaction(func(tx *gorm.DB) error {
		// Replay detection on the idempotency reference
		var existing domain.Transaction
		if err := tx.Where("reference = ?", reference).First(&existing).Error; err == nil {
			result.Transaction = existing
			result.Replayed = true
			return nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var payer domain.Wallet
		if err := tx.Where("id = ?", payerWalletID).First(&payer).Error; err != nil {
			return err
		}
		if payer.Frozen() {
			return ErrWalletFrozen
		}
		if payer.Balance < amount {
			return ErrInsufficientBalance
		}
		// Spending limits count completed charges within the window
		if payer.DailyLimit > 0 {
			spent, err := chargedSince(tx, payer.ID, startOfDayMillis())
			if err != nil {
				return err
			}
			if spent+amount > payer.DailyLimit {
				return ErrDailyLimitExceeded
			}
		}
		if payer.MonthlyLimit > 0 {
			spent, err := chargedSince(tx, payer.ID, startOfMonthMillis())
			if err != nil {
				return err
			}
			if spent+amount > payer.MonthlyLimit {
				return ErrMonthlyLimitExceeded
			}
		}

		// Conditional debit: the balance check rides in the WHERE clause
		// so a concurrent spend rolls this whole transaction back
		debit := tx.Model(&domain.Wallet{}).
			Where("id = ? AND status = ? AND balance >= ?", payer.ID, domain.WalletStatusActive, amount).
			Update("balance", gorm.Expr("balance - ?", amount))
		if debit.Error != nil {
			return debit.Error
		}
		if debit.RowsAffected != 1 {
			return ErrInsufficientBalance
		}

		// Credit the merchant wallet
		credit := tx.Model(&domain.Wallet{}).
			Where("id = ? AND status = ?", merchantWalletID, domain.WalletStatusActive).
			Update("balance", gorm.Expr("balance + ?", amount))
		if credit.Error != nil {
			return credit.Error
		}
		if credit.RowsAffected != 1 {
			return ErrMerchantUnavailable
		}

		record := domain.Transaction{
			Reference:    reference,
			FromWalletID: &payer.ID,
			ToWalletID:   &merchantWalletID,
			Amount:       amount,
			Type:         domain.TxTypeCharge,
			Status:       domain.TxStatusCompleted,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		result.Transaction = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Audit log for every applied charge
	if !result.Replayed {
		logrus.WithFields(logrus.Fields{
			"from_wallet_id": payerWalletID,
			"to_wallet_id":   merchantWalletID,
			"amount":         amount,
			"reference":      reference,
			"type":           domain.TxTypeCharge,
		}).Info("Charge transaction")
	}
	return &result, nil
}

// chargedSince sums completed charges from a wallet since the given millisecond timestamp
func chargedSince(tx *gorm.DB, walletID string, sinceMillis int64) (float64, error) {
	var total float64
	err := tx.Model(&domain.Transaction{}).
		Where("from_wallet_id = ? AND type = ? AND status = ? AND created_at >= ?",
			walletID, domain.TxTypeCharge, domain.TxStatusCompleted, sinceMillis).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func startOfDayMillis() int64 {
	now := time.Now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return day.UnixMilli()
}

func startOfMonthMillis() int64 {
	now := time.Now()
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return month.UnixMilli()
}
