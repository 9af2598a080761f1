package domain

import "strings"

// Module Model represents a toggleable platform feature
type Module struct {
	ID           uint   `gorm:"primaryKey" json:"id"`                // Primary key
	Code         string `gorm:"unique;not null;size:64" json:"code"` // Machine code, e.g. "pos"
	Name         string `gorm:"not null" json:"name"`                // Display name
	Enabled      bool   `gorm:"default:false" json:"enabled"`        // Feature flag
	Dependencies string `gorm:"size:255" json:"dependencies"`        // Comma-separated module codes this one requires
	Config       string `gorm:"type:text" json:"config"`             // Free-form JSON config blob
	CreatedAt    int64  `gorm:"autoCreateTime:milli" json:"created_at"`
	UpdatedAt    int64  `gorm:"autoUpdateTime:milli" json:"updated_at"`
}

// DependencyCodes returns the module codes this module requires
func (m *Module) DependencyCodes() []string {
	if m.Dependencies == "" {
		return nil
	}
	parts := strings.Split(m.Dependencies, ",")
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			codes = append(codes, p)
		}
	}
	return codes
}

// DependsOn reports whether the module requires the given code
func (m *Module) DependsOn(code string) bool {
	for _, c := range m.DependencyCodes() {
		if c == code {
			return true
		}
	}
	return false
}
