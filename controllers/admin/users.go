package adminControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rbpanchal/medimatch-api/models"
	"gorm.io/gorm"
)

type userRow struct {
	models.Profile
	TotalOrders int64   `json:"total_orders"`
	TotalSpent  float64 `json:"total_spent"`
}

type BlockUserInput struct {
	Blocked bool `json:"blocked"`
}

// GET /api/admin/users/
//
// Every profile with its lifetime order stats.
func ListUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var profiles []models.Profile
		if err := db.Order("created_at DESC").Find(&profiles).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}

		rows := make([]userRow, 0, len(profiles))
		for _, p := range profiles {
			row := userRow{Profile: p}
			db.Model(&models.Order{}).Where("user_id = ?", p.ID).Count(&row.TotalOrders)
			db.Model(&models.Order{}).Where("user_id = ?", p.ID).
				Select("COALESCE(SUM(total), 0)").Scan(&row.TotalSpent)
			rows = append(rows, row)
		}
		c.JSON(http.StatusOK, rows)
	}
}

// GET /api/admin/users/:userID
func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var profile models.Profile
		if err := db.First(&profile, "id = ?", c.Param("userID")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var addresses []models.Address
		db.Where("user_id = ?", profile.ID).Order("created_at DESC").Find(&addresses)

		c.JSON(http.StatusOK, gin.H{
			"profile":   profile,
			"addresses": addresses,
		})
	}
}

// GET /api/admin/users/:userID/orders
func GetUserOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		err := db.Preload("Items").
			Where("user_id = ?", c.Param("userID")).
			Order("created_at DESC").
			Find(&orders).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		var totalSpent float64
		for _, o := range orders {
			totalSpent += o.Total
		}

		c.JSON(http.StatusOK, gin.H{
			"orders":       orders,
			"total_orders": len(orders),
			"total_spent":  totalSpent,
		})
	}
}

// PUT /api/admin/users/:userID/blocked
func SetUserBlocked(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input BlockUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result := db.Model(&models.Profile{}).Where("id = ?", c.Param("userID")).Update("blocked", input.Blocked)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": true, "blocked": input.Blocked})
	}
}
