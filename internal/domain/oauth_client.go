package domain

// OAuthClient Model is a registered SSO client application
type OAuthClient struct {
	ID           uint   `gorm:"primaryKey" json:"id"`                                // Primary key
	Name         string `gorm:"not null" json:"name"`                                // Application name
	ClientID     string `gorm:"unique;not null;size:64" json:"client_id"`            // Public client identifier
	Secret       string `gorm:"not null" json:"-"`                                   // Client secret, never listed
	RedirectURIs string `gorm:"type:text;column:redirect_uris" json:"redirect_uris"` // Newline-separated redirect URIs
	Scopes       string `gorm:"size:255" json:"scopes"`                              // Space-separated scopes
	Active       bool   `gorm:"default:true" json:"active"`                          // Disabled clients cannot authenticate
	CreatedAt    int64  `gorm:"autoCreateTime:milli" json:"created_at"`
	UpdatedAt    int64  `gorm:"autoUpdateTime:milli" json:"updated_at"`
}
