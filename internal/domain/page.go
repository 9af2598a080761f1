package domain

// Page statuses
const (
	PageStatusDraft     = "draft"
	PageStatusPublished = "published"
	PageStatusArchived  = "archived"
)

// Page Model represents a CMS page
type Page struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`         // UUID primary key
	Slug       string `gorm:"unique;not null;size:255" json:"slug"` // URL slug
	Title      string `gorm:"not null" json:"title"`                // Display title
	HTML       string `gorm:"type:text" json:"html"`                // Rendered HTML blob
	CSS        string `gorm:"type:text" json:"css"`                 // Stylesheet blob
	Components string `gorm:"type:text" json:"components"`          // Editor component tree, JSON
	Status     string `gorm:"size:16;default:draft" json:"status"`  // draft, published, archived
	CreatedAt  int64  `gorm:"autoCreateTime:milli" json:"created_at"`
	UpdatedAt  int64  `gorm:"autoUpdateTime:milli" json:"updated_at"`
}

// PageTemplate Model is a reusable starting point for new pages
type PageTemplate struct {
	ID         uint   `gorm:"primaryKey" json:"id"`        // Primary key
	Name       string `gorm:"not null" json:"name"`        // Template name
	HTML       string `gorm:"type:text" json:"html"`       // HTML blob
	CSS        string `gorm:"type:text" json:"css"`        // Stylesheet blob
	Components string `gorm:"type:text" json:"components"` // Editor component tree, JSON
}
