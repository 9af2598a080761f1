package domain

// NfcTag Model links a physical card serial to a wallet or user
type NfcTag struct {
	ID        uint    `gorm:"primaryKey" json:"id"`                  // Primary key
	Serial    string  `gorm:"unique;not null;size:64" json:"serial"` // Card UID, lowercase hex
	WalletID  *string `gorm:"size:36" json:"wallet_id"`              // Directly linked wallet, if any
	UserID    *uint   `json:"user_id"`                               // Linked user, resolved to their wallet
	Active    bool    `gorm:"default:true" json:"active"`            // Deactivated tags never resolve
	CreatedAt int64   `gorm:"autoCreateTime:milli" json:"created_at"`
}
