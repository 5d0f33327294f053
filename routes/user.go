package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	addressControllers "github.com/rbpanchal/medimatch-api/controllers/address"
	cartControllers "github.com/rbpanchal/medimatch-api/controllers/cart"
	orderControllers "github.com/rbpanchal/medimatch-api/controllers/order"
	productControllers "github.com/rbpanchal/medimatch-api/controllers/product"
	profileControllers "github.com/rbpanchal/medimatch-api/controllers/profile"
	"github.com/rbpanchal/medimatch-api/middleware"
	"github.com/rbpanchal/medimatch-api/payments"
)

// SetupUserRoutes registers the storefront endpoints. The catalog is
// public; everything touching a profile, cart or order requires a
// bearer token. The Stripe webhook is unauthenticated and verified by
// signature instead.
func SetupUserRoutes(api *gin.RouterGroup, db *gorm.DB, stripe *payments.StripeClient) {
	// ──────────────── Catalog (public) ────────────────
	api.GET("/products/", productControllers.ListProducts(db))
	api.GET("/products/:id", productControllers.GetProduct(db))
	api.GET("/categories/", productControllers.ListCategories(db))

	api.POST("/cart/stripe-webhook", cartControllers.StripeWebhook(db))

	// ──────────────── Profile ────────────────
	profileGroup := api.Group("/profile")
	profileGroup.Use(middleware.RequireAuth(db))
	{
		profileGroup.GET("/", profileControllers.GetProfile(db))
		profileGroup.PUT("/", profileControllers.UpdateProfile(db))
		profileGroup.POST("/onboarding/", profileControllers.Onboarding(db))
	}

	// ──────────────── Cart, quotation, checkout ────────────────
	cartGroup := api.Group("/cart")
	cartGroup.Use(middleware.RequireAuth(db))
	{
		cartGroup.GET("/", cartControllers.GetCart(db))
		cartGroup.POST("/add", cartControllers.AddToCart(db))
		cartGroup.PUT("/update", cartControllers.UpdateQuantity(db))
		cartGroup.DELETE("/remove/:itemID", cartControllers.RemoveItem(db))
		cartGroup.POST("/clear", cartControllers.ClearCart(db))

		cartGroup.POST("/quotation", cartControllers.CreateQuotation(db))
		cartGroup.GET("/quotation/:quoteID/pdf", cartControllers.DownloadQuotationPDF(db))

		cartGroup.POST("/checkout-direct", cartControllers.CheckoutDirect(db, stripe))
		cartGroup.GET("/order/:orderID/invoice", cartControllers.DownloadInvoice(db))
	}

	// ──────────────── Orders ────────────────
	orderGroup := api.Group("/orders")
	orderGroup.Use(middleware.RequireAuth(db))
	{
		orderGroup.GET("/", orderControllers.ListOrders(db))
		orderGroup.GET("/:orderID", orderControllers.GetOrder(db))
	}

	// ──────────────── Addresses ────────────────
	addressGroup := api.Group("/address")
	addressGroup.Use(middleware.RequireAuth(db))
	{
		addressGroup.GET("/", addressControllers.ListAddresses(db))
		addressGroup.POST("/", addressControllers.CreateAddress(db))
	}
}
