package ai

import (
	"strings"

	"gorm.io/gorm"

	"github.com/rbpanchal/medimatch-api/models"
)

// fetchProducts returns active products as chat cards, newest first.
func fetchProducts(db *gorm.DB, limit int) []ProductCard {
	var products []models.Product
	if err := db.Preload("Images").
		Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil
	}
	return toCards(products)
}

// searchProducts does a case-insensitive name match. "all" and empty
// terms fall back to the full listing.
func searchProducts(db *gorm.DB, term string) []ProductCard {
	term = strings.TrimSpace(term)
	if term == "" || strings.EqualFold(term, "all") {
		return fetchProducts(db, 40)
	}
	var products []models.Product
	if err := db.Preload("Images").
		Where("is_active = ?", true).
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(term)+"%").
		Find(&products).Error; err != nil {
		return nil
	}
	return toCards(products)
}

// suggestForContext searches names first and falls back to
// descriptions, mirroring how buyers describe equipment.
func suggestForContext(db *gorm.DB, keyword string, limit int) []ProductCard {
	var products []models.Product
	pattern := "%" + strings.ToLower(keyword) + "%"
	db.Preload("Images").
		Where("is_active = ?", true).
		Where("LOWER(name) LIKE ?", pattern).
		Limit(limit).
		Find(&products)
	if len(products) == 0 {
		db.Preload("Images").
			Where("is_active = ?", true).
			Where("LOWER(description) LIKE ?", pattern).
			Limit(limit).
			Find(&products)
	}
	return toCards(products)
}

// firstVariantID returns a purchasable variant for the product, 0 when
// everything is out of stock.
func firstVariantID(db *gorm.DB, productID uint) uint {
	var variant models.Variant
	err := db.Where("product_id = ? AND stock > 0", productID).
		Order("id").
		First(&variant).Error
	if err != nil {
		return 0
	}
	return variant.ID
}

func fetchOrdersForUser(db *gorm.DB, userID string) []OrderCard {
	var orders []models.Order
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(10).
		Find(&orders).Error; err != nil {
		return nil
	}
	cards := make([]OrderCard, 0, len(orders))
	for _, o := range orders {
		cards = append(cards, OrderCard{
			ID:          o.ID,
			OrderNumber: o.OrderNumber,
			Total:       o.Total,
			Status:      string(o.Status),
			CreatedAt:   o.CreatedAt.Format("2006-01-02"),
		})
	}
	return cards
}

func toCards(products []models.Product) []ProductCard {
	cards := make([]ProductCard, 0, len(products))
	for i := range products {
		p := &products[i]
		cards = append(cards, ProductCard{
			ID:    p.ID,
			Title: p.Name,
			Price: p.BasePrice,
			Image: p.PrimaryImage(),
		})
	}
	return cards
}
