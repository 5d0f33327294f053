package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	adminControllers "github.com/rbpanchal/medimatch-api/controllers/admin"
	orderControllers "github.com/rbpanchal/medimatch-api/controllers/order"
	"github.com/rbpanchal/medimatch-api/middleware"
)

// SetupAdminRoutes registers the /api/admin/* endpoints behind the
// admin role gate.
func SetupAdminRoutes(api *gin.RouterGroup, db *gorm.DB) {
	admin := api.Group("/admin")
	admin.Use(middleware.RequireAuth(db), middleware.RequireAdmin(db))
	{
		// ──────────────── Categories ────────────────
		admin.GET("/categories/", adminControllers.ListCategories(db))
		admin.POST("/categories/", adminControllers.CreateCategory(db))
		admin.PUT("/categories/:id", adminControllers.UpdateCategory(db))
		admin.DELETE("/categories/:id", adminControllers.DeleteCategory(db))

		// ──────────────── Products ────────────────
		admin.GET("/products/", adminControllers.ListProducts(db))
		admin.POST("/products/", adminControllers.CreateProduct(db))
		admin.PUT("/products/:id", adminControllers.UpdateProduct(db))
		admin.DELETE("/products/:id", adminControllers.DeleteProduct(db))

		// ──────────────── Variants ────────────────
		admin.GET("/variants/", adminControllers.ListVariants(db))
		admin.POST("/variants/", adminControllers.CreateVariant(db))
		admin.PUT("/variants/:id", adminControllers.UpdateVariant(db))
		admin.DELETE("/variants/:id", adminControllers.DeleteVariant(db))

		// ──────────────── Orders ────────────────
		admin.GET("/orders/", adminControllers.ListOrders(db))
		admin.GET("/orders/feed", orderControllers.OrderFeedHandler)
		admin.GET("/orders/:orderID", adminControllers.GetOrder(db))
		admin.PUT("/orders/:orderID/status", adminControllers.UpdateOrderStatus(db))

		// ──────────────── Users ────────────────
		admin.GET("/users/", adminControllers.ListUsers(db))
		admin.GET("/users/:userID", adminControllers.GetUser(db))
		admin.GET("/users/:userID/orders", adminControllers.GetUserOrders(db))
		admin.PUT("/users/:userID/blocked", adminControllers.SetUserBlocked(db))

		// ──────────────── Dashboard + reports ────────────────
		admin.GET("/dashboard/", adminControllers.Dashboard(db))
		admin.GET("/reports/sales", adminControllers.SalesReport(db))
		admin.GET("/reports/products", adminControllers.ProductReport(db))
		admin.GET("/reports/customers", adminControllers.CustomerReport(db))
		admin.GET("/reports/orders", adminControllers.OrdersReport(db))
	}
}
