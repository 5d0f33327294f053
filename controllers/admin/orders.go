package adminControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rbpanchal/medimatch-api/models"
	"gorm.io/gorm"
)

type UpdateOrderStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// GET /api/admin/orders/ (optional ?status=)
func ListOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Items").Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var orders []models.Order
		if err := query.Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /api/admin/orders/:orderID
//
// Includes the buyer's most recent saved address alongside the frozen
// order snapshot, for support lookups.
func GetOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var order models.Order
		err := db.Preload("Items").First(&order, "id = ?", c.Param("orderID")).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		var latest models.Address
		var latestOut *models.Address
		err = db.Where("user_id = ?", order.UserID).
			Order("created_at DESC").
			First(&latest).Error
		if err == nil {
			latestOut = &latest
		}

		c.JSON(http.StatusOK, gin.H{
			"order":          order,
			"user_addresses": latestOut,
		})
	}
}

// PUT /api/admin/orders/:orderID/status
//
// Any-to-any transitions are allowed on purpose: admins get full control
// over the lifecycle.
func UpdateOrderStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateOrderStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		status, err := models.ParseOrderStatus(input.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}

		result := db.Model(&models.Order{}).Where("id = ?", c.Param("orderID")).Update("status", status)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": true})
	}
}
