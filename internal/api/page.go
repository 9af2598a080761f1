package api

import (
	"net/http" // HTTP status codes
	"strings"  // Slug normalization

	"payments_admin/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/google/uuid"   // UUID generation
	"gorm.io/gorm"             // GORM ORM library
)

// ListPagesHandler returns CMS pages, optionally filtered by status
func ListPagesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&domain.Page{})
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status) // Filter by status
		}
		var pages []domain.Page
		if err := query.Order("updated_at desc").Find(&pages).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pages"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"pages": pages})
	}
}

// GetPageHandler returns a single page by id
func GetPageHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var page domain.Page
		if err := db.Where("id = ?", c.Param("id")).First(&page).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"page": page})
	}
}

// CreatePageRequest represents a page creation
type CreatePageRequest struct {
	Slug       string `json:"slug" binding:"required"`  // URL slug
	Title      string `json:"title" binding:"required"` // Display title
	HTML       string `json:"html"`                     // HTML blob
	CSS        string `json:"css"`                      // Stylesheet blob
	Components string `json:"components"`               // Editor component tree
	TemplateID *uint  `json:"template_id"`              // Optional template to start from
}

// CreatePageHandler creates a draft page, optionally seeded from a template
func CreatePageHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreatePageRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		page := domain.Page{
			ID:         uuid.NewString(), // Server-generated id
			Slug:       normalizeSlug(req.Slug),
			Title:      req.Title,
			HTML:       req.HTML,
			CSS:        req.CSS,
			Components: req.Components,
			Status:     domain.PageStatusDraft, // New pages start as drafts
		}
		// Seed content from a template when one is named
		if req.TemplateID != nil {
			var tpl domain.PageTemplate
			if err := db.First(&tpl, *req.TemplateID).Error; err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
				return
			}
			if page.HTML == "" {
				page.HTML = tpl.HTML
			}
			if page.CSS == "" {
				page.CSS = tpl.CSS
			}
			if page.Components == "" {
				page.Components = tpl.Components
			}
		}
		// Slugs are unique; a duplicate insert fails here
		if err := db.Create(&page).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Slug already exists"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Page created", "page": page})
	}
}

// UpdatePageRequest represents a page content update
type UpdatePageRequest struct {
	Slug       *string `json:"slug"`       // New slug
	Title      *string `json:"title"`      // New title
	HTML       *string `json:"html"`       // New HTML blob
	CSS        *string `json:"css"`        // New stylesheet blob
	Components *string `json:"components"` // New component tree
}

// UpdatePageHandler updates a page's slug or content
func UpdatePageHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var page domain.Page
		if err := db.Where("id = ?", c.Param("id")).First(&page).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
			return
		}
		var req UpdatePageRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		updates := map[string]any{} // Only touch the provided fields
		if req.Slug != nil {
			updates["slug"] = normalizeSlug(*req.Slug)
		}
		if req.Title != nil {
			updates["title"] = *req.Title
		}
		if req.HTML != nil {
			updates["html"] = *req.HTML
		}
		if req.CSS != nil {
			updates["css"] = *req.CSS
		}
		if req.Components != nil {
			updates["components"] = *req.Components
		}
		if len(updates) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
			return
		}
		if err := db.Model(&page).Updates(updates).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to update page"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Page updated", "page": page})
	}
}

// setPageStatus transitions a page between draft, published, and archived
func setPageStatus(db *gorm.DB, c *gin.Context, status string) {
	var page domain.Page
	if err := db.Where("id = ?", c.Param("id")).First(&page).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
		return
	}
	if err := db.Model(&page).Update("status", status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update page"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Page " + status, "status": status})
}

// PublishPageHandler publishes a page
func PublishPageHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		setPageStatus(db, c, domain.PageStatusPublished)
	}
}

// ArchivePageHandler archives a page
func ArchivePageHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		setPageStatus(db, c, domain.PageStatusArchived)
	}
}

// DeletePageHandler removes a page
func DeletePageHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Where("id = ?", c.Param("id")).Delete(&domain.Page{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete page"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Page deleted"})
	}
}

// ListPageTemplatesHandler returns the reusable page templates
func ListPageTemplatesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var templates []domain.PageTemplate
		if err := db.Order("name asc").Find(&templates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch templates"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"templates": templates})
	}
}

// normalizeSlug lowercases a slug and replaces spaces with dashes
func normalizeSlug(slug string) string {
	slug = strings.ToLower(strings.TrimSpace(slug))
	return strings.ReplaceAll(slug, " ", "-")
}
