package domain

// Transaction types
const (
	TxTypeDeposit = "deposit" // Provider or admin deposit into a wallet
	TxTypeCharge  = "charge"  // NFC point-of-sale charge
)

// Transaction statuses
const (
	TxStatusPending   = "pending"   // Awaiting provider confirmation
	TxStatusCompleted = "completed" // Balance movement applied
	TxStatusCancelled = "cancelled" // Voided before completion
)

// Transaction Model
type Transaction struct {
	ID           uint    `gorm:"primaryKey" json:"id"`                    // Primary key
	Reference    string  `gorm:"uniqueIndex;size:64" json:"reference"`    // Client-supplied idempotency reference
	FromWalletID *string `gorm:"size:36;index" json:"from_wallet_id"`     // Wallet debited, nil for deposits
	ToWalletID   *string `gorm:"size:36;index" json:"to_wallet_id"`       // Wallet credited
	Amount       float64 `json:"amount"`                                  // Amount of the transaction
	Type         string  `gorm:"size:16" json:"type"`                     // Transaction type: deposit, charge
	Status       string  `gorm:"size:16;default:completed" json:"status"` // pending, completed, cancelled
	CreatedAt    int64   `gorm:"autoCreateTime:milli" json:"created_at"`  // Timestamp of creation in milliseconds
}
