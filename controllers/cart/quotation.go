package cartControllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rbpanchal/medimatch-api/middleware"
	"github.com/rbpanchal/medimatch-api/models"
	"github.com/rbpanchal/medimatch-api/pdf"
	"gorm.io/gorm"
)

// DocumentNumber builds human-facing reference numbers like
// "QTN-4F2A91BC" from a fresh UUID.
func DocumentNumber(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(uuid.NewString()[:8]))
}

// snapshotItems freezes the current cart lines. Every line total is
// computed from the live variant price at snapshot time.
func snapshotItems(items []models.CartItem) []models.SnapshotItem {
	out := make([]models.SnapshotItem, 0, len(items))
	for _, it := range items {
		if it.Variant == nil {
			continue
		}
		productName := ""
		if it.Variant.Product != nil {
			productName = it.Variant.Product.Name
		}
		lineTotal := it.Variant.Price * float64(it.Quantity)
		out = append(out, models.SnapshotItem{
			VariantID:   it.VariantID,
			ProductName: productName,
			VariantName: it.Variant.VariantName,
			Price:       it.Variant.Price,
			Quantity:    it.Quantity,
			LineTotal:   lineTotal,
		})
	}
	return out
}

// POST /api/cart/quotation
//
// Freezes the current cart into a quotation. Each call creates a new
// snapshot; the response is array-wrapped for interface compatibility.
func CreateQuotation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		cart, err := GetOrCreateCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		items, err := loadItems(db, cart.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart items"})
			return
		}
		if len(items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			return
		}

		snap := models.CartSnapshot{
			Items:       snapshotItems(items),
			GeneratedAt: time.Now().UTC(),
		}
		raw, err := json.Marshal(snap)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build snapshot"})
			return
		}

		quotation := models.Quotation{
			UserID:       userID,
			CartSnapshot: raw,
			Total:        snap.Total(),
			Status:       "generated",
		}
		if err := db.Create(&quotation).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create quotation"})
			return
		}
		c.JSON(http.StatusOK, []models.Quotation{quotation})
	}
}

// GET /api/cart/quotation/:quoteID/pdf
//
// Streams the quotation as a PDF. The quote number is assigned lazily on
// first download.
func DownloadQuotationPDF(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		quoteID := c.Param("quoteID")

		var quotation models.Quotation
		err := db.Where("id = ? AND user_id = ?", quoteID, userID).First(&quotation).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quotation not found"})
			return
		}

		if quotation.QuoteNumber == "" {
			quotation.QuoteNumber = DocumentNumber("QTN")
			if err := db.Model(&quotation).Update("quote_number", quotation.QuoteNumber).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign quote number"})
				return
			}
		}

		snap, err := quotation.Snapshot()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Quotation snapshot unreadable"})
			return
		}

		doc, err := pdf.Quotation(quotation.QuoteNumber, snap)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render PDF"})
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", quotation.QuoteNumber))
		c.Data(http.StatusOK, "application/pdf", doc)
	}
}
