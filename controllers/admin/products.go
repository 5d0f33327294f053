package adminControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rbpanchal/medimatch-api/models"
	"gorm.io/gorm"
)

type CreateProductInput struct {
	Name        string  `json:"name" binding:"required"`
	CategoryID  uint    `json:"category_id" binding:"required"`
	Description string  `json:"description"`
	BasePrice   float64 `json:"base_price"`
	SKU         string  `json:"sku"`
	ImageURL    string  `json:"image_url"`
}

type UpdateProductInput struct {
	Name        *string  `json:"name"`
	CategoryID  *uint    `json:"category_id"`
	Description *string  `json:"description"`
	BasePrice   *float64 `json:"base_price"`
	SKU         *string  `json:"sku"`
	IsActive    *bool    `json:"is_active"`
	ImageURL    *string  `json:"image_url"`
}

// GET /api/admin/products/
func ListProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Images").Preload("Variants")
		if categoryID := c.Query("category_id"); categoryID != "" {
			query = query.Where("category_id = ?", categoryID)
		}

		var products []models.Product
		if err := query.Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// POST /api/admin/products/
//
// Creates the product with a Default variant so it is purchasable as
// soon as stock is set, plus an optional primary image.
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
			return
		}

		product := models.Product{
			Name:        input.Name,
			CategoryID:  input.CategoryID,
			Description: input.Description,
			BasePrice:   input.BasePrice,
			SKU:         input.SKU,
			IsActive:    true,
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&product).Error; err != nil {
				return err
			}
			variant := models.Variant{
				ProductID:   product.ID,
				VariantName: "Default",
				VariantType: "default",
				Price:       input.BasePrice,
				Stock:       0,
				Description: input.Description,
			}
			if err := tx.Create(&variant).Error; err != nil {
				return err
			}
			if input.ImageURL != "" {
				image := models.ProductImage{
					ProductID: product.ID,
					ImageURL:  input.ImageURL,
					IsPrimary: true,
				}
				return tx.Create(&image).Error
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// PUT /api/admin/products/:id
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updates := make(map[string]interface{})
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.CategoryID != nil {
			updates["category_id"] = *input.CategoryID
		}
		if input.Description != nil {
			updates["description"] = *input.Description
		}
		if input.BasePrice != nil {
			updates["base_price"] = *input.BasePrice
		}
		if input.SKU != nil {
			updates["sku"] = *input.SKU
		}
		if input.IsActive != nil {
			updates["is_active"] = *input.IsActive
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if len(updates) > 0 {
				if err := tx.Model(&product).Updates(updates).Error; err != nil {
					return err
				}
			}
			if input.ImageURL == nil {
				return nil
			}
			var existing models.ProductImage
			err := tx.Where("product_id = ? AND is_primary = ?", product.ID, true).First(&existing).Error
			if err == nil {
				return tx.Model(&existing).Update("image_url", *input.ImageURL).Error
			}
			image := models.ProductImage{ProductID: product.ID, ImageURL: *input.ImageURL, IsPrimary: true}
			return tx.Create(&image).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update"})
			return
		}

		db.Preload("Images").Preload("Variants").First(&product, "id = ?", product.ID)
		c.JSON(http.StatusOK, product)
	}
}

// DELETE /api/admin/products/:id
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Delete(&models.Product{}, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
