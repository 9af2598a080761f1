package api

import (
	"net/http" // HTTP status codes

	"payments_admin/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// ListModulesHandler returns every platform module
func ListModulesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var modules []domain.Module
		if err := db.Order("code asc").Find(&modules).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch modules"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"modules": modules})
	}
}

// CreateModuleRequest represents a module registration
type CreateModuleRequest struct {
	Code         string `json:"code" binding:"required"` // Machine code
	Name         string `json:"name" binding:"required"` // Display name
	Dependencies string `json:"dependencies"`            // Comma-separated module codes
	Config       string `json:"config"`                  // JSON config blob
}

// CreateModuleHandler registers a new module, disabled by default
func CreateModuleHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateModuleRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		module := domain.Module{
			Code:         req.Code,
			Name:         req.Name,
			Dependencies: req.Dependencies,
			Config:       req.Config,
		}
		// Codes are unique; a duplicate insert fails here
		if err := db.Create(&module).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Module code already exists"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"code": module.Code, // Module code
		}).Info("Module created") // Audit log
		c.JSON(http.StatusCreated, gin.H{"message": "Module created", "module": module})
	}
}

// UpdateModuleRequest represents a module config update
type UpdateModuleRequest struct {
	Name         *string `json:"name"`         // New display name
	Dependencies *string `json:"dependencies"` // New dependency list
	Config       *string `json:"config"`       // New config blob
}

// UpdateModuleHandler updates a module's name, dependencies, or config
func UpdateModuleHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var module domain.Module
		if err := db.Where("code = ?", c.Param("code")).First(&module).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Module not found"})
			return
		}
		var req UpdateModuleRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		updates := map[string]any{} // Only touch the provided fields
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Dependencies != nil {
			updates["dependencies"] = *req.Dependencies
		}
		if req.Config != nil {
			updates["config"] = *req.Config
		}
		if len(updates) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
			return
		}
		if err := db.Model(&module).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update module"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Module updated", "module": module})
	}
}

// ToggleModuleHandler flips a module's enabled flag while enforcing the
// dependency graph: a module cannot enable before its dependencies, and
// cannot disable while an enabled module still depends on it.
func ToggleModuleHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var module domain.Module
		if err := db.Where("code = ?", c.Param("code")).First(&module).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Module not found"})
			return
		}
		if !module.Enabled {
			// Enabling: every dependency must already be enabled
			for _, code := range module.DependencyCodes() {
				var dep domain.Module
				if err := db.Where("code = ?", code).First(&dep).Error; err != nil || !dep.Enabled {
					c.JSON(http.StatusConflict, gin.H{"error": "Dependency not enabled: " + code})
					return
				}
			}
		} else {
			// Disabling: no enabled module may still depend on this one
			var others []domain.Module
			if err := db.Where("enabled = ?", true).Find(&others).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check dependents"})
				return
			}
			for _, other := range others {
				if other.Code != module.Code && other.DependsOn(module.Code) {
					c.JSON(http.StatusConflict, gin.H{"error": "Module is required by: " + other.Code})
					return
				}
			}
		}
		// Flip the flag
		if err := db.Model(&module).Update("enabled", !module.Enabled).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle module"})
			return
		}
		module.Enabled = !module.Enabled
		logrus.WithFields(logrus.Fields{
			"code":    module.Code,    // Module code
			"enabled": module.Enabled, // New state
		}).Info("Module toggled") // Audit log
		c.JSON(http.StatusOK, gin.H{"message": "Module toggled", "module": module})
	}
}

// DeleteModuleHandler removes a disabled module
func DeleteModuleHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var module domain.Module
		if err := db.Where("code = ?", c.Param("code")).First(&module).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Module not found"})
			return
		}
		// Enabled modules must be disabled first
		if module.Enabled {
			c.JSON(http.StatusConflict, gin.H{"error": "Disable the module before deleting it"})
			return
		}
		if err := db.Delete(&module).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete module"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"code": module.Code, // Module code
		}).Info("Module deleted") // Audit log
		c.JSON(http.StatusOK, gin.H{"message": "Module deleted"})
	}
}
