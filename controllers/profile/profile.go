package profileControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rbpanchal/medimatch-api/middleware"
	"github.com/rbpanchal/medimatch-api/models"
	"gorm.io/gorm"
)

type UpdateProfileInput struct {
	FullName       *string `json:"full_name"`
	OrgType        *string `json:"org_type"`
	Specialization *string `json:"specialization"`
}

type OnboardingInput struct {
	FullName       string `json:"full_name" binding:"required"`
	OrgType        string `json:"org_type" binding:"required"`
	Specialization string `json:"specialization"`
}

// GET /api/profile/
func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var profile models.Profile
		if err := db.First(&profile, "id = ?", middleware.UserID(c)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// PUT /api/profile/
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var profile models.Profile
		if err := db.First(&profile, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}

		var input UpdateProfileInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updates := make(map[string]interface{})
		if input.FullName != nil {
			updates["full_name"] = *input.FullName
		}
		if input.OrgType != nil {
			if !models.ValidOrgType(models.OrgType(*input.OrgType)) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid org_type"})
				return
			}
			updates["org_type"] = *input.OrgType
		}
		if input.Specialization != nil {
			updates["specialization"] = *input.Specialization
		}

		if len(updates) > 0 {
			if err := db.Model(&profile).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
				return
			}
		}
		c.JSON(http.StatusOK, profile)
	}
}

// POST /api/profile/onboarding/
//
// One-time completion of the profile. Specialization is mandatory for
// hospitals and clinics, optional for personal buyers.
func Onboarding(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var input OnboardingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		orgType := models.OrgType(input.OrgType)
		if !models.ValidOrgType(orgType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid org_type"})
			return
		}
		if orgType != models.OrgPersonal && input.Specialization == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "specialization is required"})
			return
		}

		var profile models.Profile
		if err := db.First(&profile, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}

		updates := map[string]interface{}{
			"full_name":      input.FullName,
			"org_type":       input.OrgType,
			"specialization": input.Specialization,
		}
		if err := db.Model(&profile).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "profile": profile})
	}
}
