package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rbpanchal/medimatch-api/auth"
	"github.com/rbpanchal/medimatch-api/middleware"
)

// SetupAuthRoutes registers the /api/auth/* endpoints. Register and
// login are public; ensure-profile needs a valid token since it creates
// the profile row for the token's identity.
func SetupAuthRoutes(api *gin.RouterGroup, db *gorm.DB) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", auth.RegisterHandler(db))
		authGroup.POST("/login", auth.LoginHandler(db))
		authGroup.POST("/ensure-profile", middleware.RequireAuth(db), auth.EnsureProfileHandler(db))
	}
}
