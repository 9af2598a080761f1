package domain

// User Model
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`                                         // Primary key
	Username string `gorm:"unique;not null" json:"username"`                              // Unique username
	Email    string `gorm:"size:255" json:"email"`                                        // Contact email
	Password string `gorm:"not null" json:"-"`                                            // Hashed password
	Role     string `gorm:"default:user" json:"role"`                                     // Role: user or admin
	Wallet   Wallet `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"wallet"` // One-to-one relationship with Wallet
}
