package domain

// Pot Model is a user savings pot
type Pot struct {
	ID              string  `gorm:"primaryKey;size:36" json:"id"`      // UUID primary key
	UserID          uint    `gorm:"index" json:"user_id"`              // Owning user
	Name            string  `gorm:"not null" json:"name"`              // Display name
	Balance         float64 `gorm:"default:0" json:"balance"`          // Pot balance
	Locked          bool    `gorm:"default:false" json:"locked"`       // User-set lock
	AdminLocked     bool    `gorm:"default:false" json:"admin_locked"` // Admin lock, overrides the user lock
	AdminLockReason string  `gorm:"size:255" json:"admin_lock_reason"` // Why the admin locked it
	AdminLockedBy   *uint   `json:"admin_locked_by"`                   // Admin user who locked it
	CreatedAt       int64   `gorm:"autoCreateTime:milli" json:"created_at"`
	UpdatedAt       int64   `gorm:"autoUpdateTime:milli" json:"updated_at"`
}
