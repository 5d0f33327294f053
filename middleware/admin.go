package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rbpanchal/medimatch-api/models"
	"gorm.io/gorm"
)

// RequireAdmin gates a route group to admin profiles. It must run after
// RequireAuth. Missing profile means forbidden: admin access is always
// fail-closed.
func RequireAdmin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := ProfileFrom(c)
		if profile == nil {
			var p models.Profile
			if err := db.First(&p, "id = ?", UserID(c)).Error; err != nil {
				c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
				c.Abort()
				return
			}
			profile = &p
		}
		if profile.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			c.Abort()
			return
		}
		c.Next()
	}
}
