package cartControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rbpanchal/medimatch-api/middleware"
	"github.com/rbpanchal/medimatch-api/models"
	"gorm.io/gorm"
)

type AddToCartInput struct {
	VariantID uint `json:"variant_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type UpdateQuantityInput struct {
	ItemID   string `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// GetOrCreateCart fetches the user's cart, creating it lazily. Carts are
// one-per-user.
func GetOrCreateCart(db *gorm.DB, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := db.Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		if err := db.Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func loadItems(db *gorm.DB, cartID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := db.Where("cart_id = ?", cartID).
		Preload("Variant").
		Preload("Variant.Product").
		Preload("Variant.Product.Images").
		Find(&items).Error
	return items, err
}

// GET /api/cart/
//
// An empty cart is a valid, non-error state.
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := GetOrCreateCart(db, middleware.UserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		items, err := loadItems(db, cart.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart items"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"cart": cart, "items": items})
	}
}

// POST /api/cart/add
//
// Adding a variant that is already in the cart merges quantities. Both
// paths are stock-checked against the live variant.
func AddToCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddToCartInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "variant_id required"})
			return
		}

		cart, err := GetOrCreateCart(db, middleware.UserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		var variant models.Variant
		if err := db.First(&variant, "id = ?", input.VariantID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Variant not found"})
			return
		}

		var item models.CartItem
		err = db.Where("cart_id = ? AND variant_id = ?", cart.ID, input.VariantID).First(&item).Error
		switch {
		case err == nil:
			newQty := item.Quantity + input.Quantity
			if newQty > variant.Stock {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Requested quantity exceeds stock"})
				return
			}
			if err := db.Model(&item).Update("quantity", newQty).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
				return
			}
			c.JSON(http.StatusOK, item)

		case errors.Is(err, gorm.ErrRecordNotFound):
			if input.Quantity > variant.Stock {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Requested quantity exceeds stock"})
				return
			}
			item = models.CartItem{CartID: cart.ID, VariantID: input.VariantID, Quantity: input.Quantity}
			if err := db.Create(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
				return
			}
			c.JSON(http.StatusCreated, item)

		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart item"})
		}
	}
}

// PUT /api/cart/update
//
// Scoped to the caller's cart, like RemoveItem: someone else's item id
// is a 404.
func UpdateQuantity(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateQuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "item_id required"})
			return
		}

		cart, err := GetOrCreateCart(db, middleware.UserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		var item models.CartItem
		if err := db.Preload("Variant").Where("id = ? AND cart_id = ?", input.ItemID, cart.ID).First(&item).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		if item.Variant == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Variant not found"})
			return
		}
		if input.Quantity > item.Variant.Stock {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Requested quantity exceeds stock"})
			return
		}

		if err := db.Model(&item).Update("quantity", input.Quantity).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /api/cart/remove/:itemID
func RemoveItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID := c.Param("itemID")

		cart, err := GetOrCreateCart(db, middleware.UserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		result := db.Where("id = ? AND cart_id = ?", itemID, cart.ID).Delete(&models.CartItem{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

// POST /api/cart/clear
func ClearCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := GetOrCreateCart(db, middleware.UserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		if err := db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
