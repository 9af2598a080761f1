package domain

// Wallet statuses
const (
	WalletStatusActive = "ACTIVE" // Wallet accepts deposits and charges
	WalletStatusFrozen = "FROZEN" // Wallet rejects all balance mutations
)

// Wallet Model
type Wallet struct {
	ID           string  `gorm:"primaryKey;size:36" json:"id"`           // UUID primary key
	UserID       uint    `gorm:"uniqueIndex" json:"user_id"`             // Foreign key to User
	Currency     string  `gorm:"size:8;default:SLE" json:"currency"`     // Currency code, whole units
	Balance      float64 `gorm:"not null;default:0" json:"balance"`      // Wallet balance
	DailyLimit   float64 `gorm:"default:0" json:"daily_limit"`           // Max charged per day, 0 = unlimited
	MonthlyLimit float64 `gorm:"default:0" json:"monthly_limit"`         // Max charged per month, 0 = unlimited
	Status       string  `gorm:"size:16;default:ACTIVE" json:"status"`   // ACTIVE or FROZEN
	CreatedAt    int64   `gorm:"autoCreateTime:milli" json:"created_at"` // Timestamp of creation in milliseconds
	UpdatedAt    int64   `gorm:"autoUpdateTime:milli" json:"updated_at"` // Timestamp of last update in milliseconds
}

// Frozen reports whether the wallet rejects balance mutations
func (w *Wallet) Frozen() bool {
	return w.Status == WalletStatusFrozen
}
