package productControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rbpanchal/medimatch-api/models"
	"gorm.io/gorm"
)

// GET /api/products/
//
// Public catalog. Optional ?category= filter. Variants with no stock are
// hidden from shoppers.
func ListProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Where("is_active = ?", true).
			Preload("Images").
			Preload("Variants").
			Preload("Variants.Product")

		if category := c.Query("category"); category != "" {
			query = query.Where("category_id = ?", category)
		}

		var products []models.Product
		if err := query.Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		for i := range products {
			products[i].Variants = products[i].InStockVariants()
		}
		c.JSON(http.StatusOK, products)
	}
}

// GET /api/products/:id
func GetProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" || id == "undefined" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}

		var product models.Product
		err := db.Preload("Images").Preload("Variants").
			First(&product, "id = ?", id).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		product.Variants = product.InStockVariants()
		c.JSON(http.StatusOK, product)
	}
}
