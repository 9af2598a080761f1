package domain

// Fixed singleton row keys. Each settings table holds exactly one row
// under its well-known UUID; PUT upserts it, GET seeds defaults.
const (
	PaymentSettingsID = "11111111-1111-1111-1111-111111111111"
	SMTPSettingsID    = "22222222-2222-2222-2222-222222222222"
	SSOSettingsID     = "33333333-3333-3333-3333-333333333333"
	SiteSettingsID    = "44444444-4444-4444-4444-444444444444"
)

// PaymentSettings Model holds provider and merchant configuration
type PaymentSettings struct {
	ID               string `gorm:"primaryKey;size:36" json:"id"`
	MonimeSpaceID    string `gorm:"size:64" json:"monime_space_id"`     // Monime space identifier
	MonimeAPIKey     string `gorm:"size:128" json:"monime_api_key"`     // Monime API key
	WebhookSecret    string `gorm:"size:128" json:"webhook_secret"`     // HMAC secret for webhook signatures
	Currency         string `gorm:"size:8;default:SLE" json:"currency"` // Platform currency, whole units
	MerchantWalletID string `gorm:"size:36" json:"merchant_wallet_id"`  // Wallet credited by POS charges
	DepositsEnabled  bool   `gorm:"default:true" json:"deposits_enabled"`
	UpdatedAt        int64  `gorm:"autoUpdateTime:milli" json:"updated_at"`
}

// SMTPSettings Model holds outbound mail configuration
type SMTPSettings struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	Host      string `gorm:"size:255" json:"host"`        // SMTP host
	Port      int    `gorm:"default:587" json:"port"`     // SMTP port
	Username  string `gorm:"size:255" json:"username"`    // Auth username
	Password  string `gorm:"size:255" json:"password"`    // Auth password
	Sender    string `gorm:"size:255" json:"sender"`      // From address
	UseTLS    bool   `gorm:"default:true" json:"use_tls"` // STARTTLS on connect
	UpdatedAt int64  `gorm:"autoUpdateTime:milli" json:"updated_at"`
}

// SSOSettings Model holds single sign-on policy
type SSOSettings struct {
	ID                 string `gorm:"primaryKey;size:36" json:"id"`
	EnforceSSO         bool   `gorm:"default:false" json:"enforce_sso"`     // Require SSO for all logins
	AllowedDomain      string `gorm:"size:255" json:"allowed_domain"`       // Restrict accounts to this email domain
	DefaultRedirectURI string `gorm:"size:255" json:"default_redirect_uri"` // Fallback post-login redirect
	TokenTTLMinutes    int    `gorm:"default:60" json:"token_ttl_minutes"`  // Issued token lifetime
	UpdatedAt          int64  `gorm:"autoUpdateTime:milli" json:"updated_at"`
}

// SiteSettings Model holds site-wide display configuration
type SiteSettings struct {
	ID              string `gorm:"primaryKey;size:36" json:"id"`
	SiteName        string `gorm:"size:255" json:"site_name"`                  // Displayed site name
	LogoURL         string `gorm:"size:255" json:"logo_url"`                   // Logo asset URL
	SupportEmail    string `gorm:"size:255" json:"support_email"`              // Contact address shown to users
	CurrencyDisplay string `gorm:"size:16;default:Le" json:"currency_display"` // Currency symbol prefix
	MaintenanceMode bool   `gorm:"default:false" json:"maintenance_mode"`      // Hide the public site
	UpdatedAt       int64  `gorm:"autoUpdateTime:milli" json:"updated_at"`
}
