package cartControllers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rbpanchal/medimatch-api/controllers/order"
	"github.com/rbpanchal/medimatch-api/middleware"
	"github.com/rbpanchal/medimatch-api/models"
	"github.com/rbpanchal/medimatch-api/payments"
	"github.com/rbpanchal/medimatch-api/pdf"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CheckoutInput struct {
	Address       *models.AddressSnapshot `json:"address"`
	PaymentMethod string                  `json:"payment_method"`
}

// POST /api/cart/checkout-direct
//
// Turns the current cart plus a shipping address into an order. Snapshot,
// stock decrement, order rows and the cart clear all commit in a single
// transaction; a stock shortage rolls everything back.
func CheckoutDirect(db *gorm.DB, stripe *payments.StripeClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var input CheckoutInput
		if err := c.ShouldBindJSON(&input); err != nil || input.Address == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Address is required"})
			return
		}

		method := input.PaymentMethod
		if method == "" {
			method = "cod"
		}

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
			Address:     input.Address,
			GeneratedAt: time.Now().UTC(),
		}
		raw, err := json.Marshal(snap)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build snapshot"})
			return
		}

		newOrder := models.Order{
			UserID:        userID,
			OrderNumber:   DocumentNumber("ORD"),
			Total:         snap.Total(),
			Status:        models.OrderStatusPending,
			PaymentMethod: method,
			CartSnapshot:  raw,
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			for _, it := range snap.Items {
				q := tx
				if tx.Dialector.Name() == "postgres" {
					q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
				}
				var variant models.Variant
				if err := q.First(&variant, "id = ?", it.VariantID).Error; err != nil {
					return fmt.Errorf("variant %d not found", it.VariantID)
				}
				if variant.Stock < it.Quantity {
					return fmt.Errorf("insufficient stock for %s", it.VariantName)
				}
				if err := tx.Model(&variant).Update("stock", variant.Stock-it.Quantity).Error; err != nil {
					return err
				}
			}

			if err := tx.Create(&newOrder).Error; err != nil {
				return err
			}

			for _, it := range snap.Items {
				row := models.OrderItem{
					OrderID:     newOrder.ID,
					ProductName: it.ProductName,
					VariantName: it.VariantName,
					Price:       it.Price,
					Quantity:    it.Quantity,
					LineTotal:   it.LineTotal,
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}

			return tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
		})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		orderControllers.BroadcastNewOrder(newOrder)

		// Online payment hands the shopper to Stripe. A gateway failure
		// leaves the order placed as COD rather than unwinding it, so
		// the shopper never loses a confirmed order to a flaky gateway.
		var stripeSessionID, stripeURL string
		if method == "online" && stripe != nil {
			session, err := stripe.CreateCheckoutSession(c.Request.Context(), &newOrder, snap.Items)
			if err != nil {
				log.Printf("stripe session failed for order %s: %v", newOrder.ID, err)
			} else {
				stripeSessionID = session.ID
				stripeURL = session.URL
				db.Model(&newOrder).Update("stripe_session_id", session.ID)
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message":           "Order placed successfully",
			"order":             newOrder,
			"stripe_session_id": stripeSessionID,
			"stripe_url":        stripeURL,
			"pub_key":           os.Getenv("STRIPE_PUBLISHABLE_KEY"),
		})
	}
}

// POST /api/cart/stripe-webhook
//
// Unauthenticated; trust comes from the signature header.
func StripeWebhook(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable payload"})
			return
		}

		event, err := payments.ParseWebhookEvent(payload, c.GetHeader("Stripe-Signature"), os.Getenv("STRIPE_WEBHOOK_SECRET"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if event.Type == "checkout.session.completed" {
			orderID := event.Session.ClientReferenceID
			if orderID != "" {
				db.Model(&models.Order{}).Where("id = ?", orderID).Updates(map[string]interface{}{
					"status":     models.OrderStatusPaid,
					"payment_id": event.Session.PaymentIntent,
				})
			}
		}

		c.JSON(http.StatusOK, gin.H{"status": "success"})
	}
}

// GET /api/cart/order/:orderID/invoice
func DownloadInvoice(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		orderID := c.Param("orderID")

		var ord models.Order
		err := db.Where("id = ? AND user_id = ?", orderID, userID).First(&ord).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		if ord.InvoiceNumber == "" {
			ord.InvoiceNumber = DocumentNumber("INV")
			if err := db.Model(&ord).Update("invoice_number", ord.InvoiceNumber).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign invoice number"})
				return
			}
		}

		snap, err := ord.Snapshot()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No cart snapshot found for this order"})
			return
		}

		doc, err := pdf.Invoice(ord.InvoiceNumber, ord.OrderNumber, snap)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render PDF"})
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", ord.InvoiceNumber))
		c.Data(http.StatusOK, "application/pdf", doc)
	}
}
