package adminControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rbpanchal/medimatch-api/models"
	"gorm.io/gorm"
)

type CreateVariantInput struct {
	ProductID   uint    `json:"product_id" binding:"required"`
	VariantName string  `json:"variant_name" binding:"required"`
	VariantType string  `json:"variant_type"`
	Price       float64 `json:"price" binding:"required"`
	Stock       int     `json:"stock"`
	Description string  `json:"description"`
}

type UpdateVariantInput struct {
	VariantName *string  `json:"variant_name"`
	VariantType *string  `json:"variant_type"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Description *string  `json:"description"`
}

// GET /api/admin/variants/ (optional ?product_id=)
func ListVariants(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Variant{})
		if productID := c.Query("product_id"); productID != "" {
			query = query.Where("product_id = ?", productID)
		}

		var variants []models.Variant
		if err := query.Find(&variants).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch variants"})
			return
		}
		c.JSON(http.StatusOK, variants)
	}
}

// POST /api/admin/variants/
func CreateVariant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateVariantInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", input.ProductID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		variant := models.Variant{
			ProductID:   input.ProductID,
			VariantName: input.VariantName,
			VariantType: input.VariantType,
			Price:       input.Price,
			Stock:       input.Stock,
			Description: input.Description,
		}
		if err := db.Create(&variant).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create variant"})
			return
		}
		c.JSON(http.StatusCreated, variant)
	}
}

// PUT /api/admin/variants/:id
func UpdateVariant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var variant models.Variant
		if err := db.First(&variant, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Variant not found"})
			return
		}

		var input UpdateVariantInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updates := make(map[string]interface{})
		if input.VariantName != nil {
			updates["variant_name"] = *input.VariantName
		}
		if input.VariantType != nil {
			updates["variant_type"] = *input.VariantType
		}
		if input.Price != nil {
			updates["price"] = *input.Price
		}
		if input.Stock != nil {
			updates["stock"] = *input.Stock
		}
		if input.Description != nil {
			updates["description"] = *input.Description
		}

		if len(updates) > 0 {
			if err := db.Model(&variant).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update variant"})
				return
			}
		}
		c.JSON(http.StatusOK, variant)
	}
}

// DELETE /api/admin/variants/:id
func DeleteVariant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Delete(&models.Variant{}, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete variant"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
