package cartControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rbpanchal/medimatch-api/auth"
	"github.com/rbpanchal/medimatch-api/middleware"
	"github.com/rbpanchal/medimatch-api/models"
)

type cartFixture struct {
	db      *gorm.DB
	router  *gin.Engine
	token   string
	userID  string
	variant models.Variant
}

func setupCartTest(t *testing.T) *cartFixture {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Profile{}, &models.Address{}, &models.Category{}, &models.Product{},
		&models.Variant{}, &models.ProductImage{}, &models.Cart{}, &models.CartItem{},
		&models.Quotation{}, &models.Order{}, &models.OrderItem{},
	))

	profile := models.Profile{Email: "buyer@clinic.example", FullName: "Dr. Mehta", Role: models.RoleUser}
	require.NoError(t, db.Create(&profile).Error)
	require.NoError(t, db.Create(&models.Cart{UserID: profile.ID}).Error)

	token, err := auth.IssueToken(&profile)
	require.NoError(t, err)

	product := models.Product{Name: "Fowler Bed", BasePrice: 12000, IsActive: true}
	require.NoError(t, db.Create(&product).Error)
	variant := models.Variant{ProductID: product.ID, VariantName: "Standard", Price: 500, Stock: 5}
	require.NoError(t, db.Create(&variant).Error)

	r := gin.New()
	api := r.Group("/api")
	cartGroup := api.Group("/cart")
	cartGroup.Use(middleware.RequireAuth(db))
	{
		cartGroup.GET("/", GetCart(db))
		cartGroup.POST("/add", AddToCart(db))
		cartGroup.PUT("/update", UpdateQuantity(db))
		cartGroup.DELETE("/remove/:itemID", RemoveItem(db))
		cartGroup.POST("/clear", ClearCart(db))
		cartGroup.POST("/quotation", CreateQuotation(db))
		cartGroup.GET("/quotation/:quoteID/pdf", DownloadQuotationPDF(db))
		cartGroup.POST("/checkout-direct", CheckoutDirect(db, nil))
		cartGroup.GET("/order/:orderID/invoice", DownloadInvoice(db))
	}

	return &cartFixture{db: db, router: r, token: token, userID: profile.ID, variant: variant}
}

func (f *cartFixture) request(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.token)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestAddToCartMergesQuantities(t *testing.T) {
	f := setupCartTest(t)

	w := f.request(t, "POST", "/api/cart/add", gin.H{"variant_id": f.variant.ID, "quantity": 2})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Same variant again merges instead of adding a second line.
	w = f.request(t, "POST", "/api/cart/add", gin.H{"variant_id": f.variant.ID, "quantity": 1})
	assert.Equal(t, http.StatusOK, w.Code)

	var item models.CartItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, 3, item.Quantity)

	var count int64
	f.db.Model(&models.CartItem{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAddToCartRejectsOverStock(t *testing.T) {
	f := setupCartTest(t)

	w := f.request(t, "POST", "/api/cart/add", gin.H{"variant_id": f.variant.ID, "quantity": 6})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "exceeds stock")

	// Merging past the stock ceiling is rejected too.
	f.request(t, "POST", "/api/cart/add", gin.H{"variant_id": f.variant.ID, "quantity": 4})
	w = f.request(t, "POST", "/api/cart/add", gin.H{"variant_id": f.variant.ID, "quantity": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateQuantityStockChecked(t *testing.T) {
	f := setupCartTest(t)
	w := f.request(t, "POST", "/api/cart/add", gin.H{"variant_id": f.variant.ID, "quantity": 1})
	var item models.CartItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))

	w = f.request(t, "PUT", "/api/cart/update", gin.H{"item_id": item.ID, "quantity": 5})
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.request(t, "PUT", "/api/cart/update", gin.H{"item_id": item.ID, "quantity": 6})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateQuantityScopedToOwnCart(t *testing.T) {
	f := setupCartTest(t)
	w := f.request(t, "POST", "/api/cart/add", gin.H{"variant_id": f.variant.ID, "quantity": 2})
	var item models.CartItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))

	// Another shopper cannot touch the line.
	other := models.Profile{Email: "other@clinic.example", Role: models.RoleUser}
	require.NoError(t, f.db.Create(&other).Error)
	otherToken, err := auth.IssueToken(&other)
	require.NoError(t, err)

	body, err := json.Marshal(gin.H{"item_id": item.ID, "quantity": 1})
	require.NoError(t, err)
	req := httptest.NewRequest("PUT", "/api/cart/update", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+otherToken)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var kept models.CartItem
	require.NoError(t, f.db.First(&kept, "id = ?", item.ID).Error)
	assert.Equal(t, 2, kept.Quantity)
}

func TestRemoveItemScopedToOwnCart(t *testing.T) {
	f := setupCartTest(t)
	w := f.request(t, "POST", "/api/cart/add", gin.H{"variant_id": f.variant.ID, "quantity": 1})
	var item models.CartItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))

	// Another shopper cannot delete it.
	other := models.Profile{Email: "other@clinic.example", Role: models.RoleUser}
	require.NoError(t, f.db.Create(&other).Error)
	otherToken, err := auth.IssueToken(&other)
	require.NoError(t, err)

	req := httptest.NewRequest("DELETE", "/api/cart/remove/"+item.ID, nil)
	req.Header.Set("Authorization", "Bearer "+otherToken)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The owner can.
	w = f.request(t, "DELETE", "/api/cart/remove/"+item.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestQuotationSnapshotsCart(t *testing.T) {
	f := setupCartTest(t)

	// Empty cart cannot be quoted.
	w := f.request(t, "POST", "/api/cart/quotation", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	f.request(t, "POST", "/api/cart/add", gin.H{"variant_id": f.variant.ID, "quantity": 3})
	w = f.request(t, "POST", "/api/cart/quotation", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Response is array-wrapped.
	var quotations []models.Quotation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quotations))
	require.Len(t, quotations, 1)
	assert.Equal(t, 1500.0, quotations[0].Total)

	snap, err := quotations[0].Snapshot()
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "Fowler Bed", snap.Items[0].ProductName)

	// The PDF download assigns the quote number lazily.
	w = f.request(t, "GET", "/api/cart/quotation/"+quotations[0].ID+"/pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))

	var stored models.Quotation
	require.NoError(t, f.db.First(&stored, "id = ?", quotations[0].ID).Error)
	assert.Contains(t, stored.QuoteNumber, "QTN-")
}

func TestCheckoutDirectPlacesOrderAtomically(t *testing.T) {
	f := setupCartTest(t)
	f.request(t, "POST", "/api/cart/add", gin.H{"variant_id": f.variant.ID, "quantity": 2})

	address := gin.H{
		"full_name": "Dr. Mehta", "phone": "9876543210", "address_line1": "12 MG Road",
		"city": "Pune", "state": "Maharashtra", "pincode": "411001",
	}
	w := f.request(t, "POST", "/api/cart/checkout-direct", gin.H{"address": address, "payment_method": "cod"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Order models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Order.OrderNumber, "ORD-")
	assert.Equal(t, 1000.0, resp.Order.Total)
	assert.Equal(t, models.OrderStatusPending, resp.Order.Status)

	// Stock decremented, cart cleared, item rows written.
	var variant models.Variant
	require.NoError(t, f.db.First(&variant, "id = ?", f.variant.ID).Error)
	assert.Equal(t, 3, variant.Stock)

	var itemCount int64
	f.db.Model(&models.CartItem{}).Count(&itemCount)
	assert.Equal(t, int64(0), itemCount)

	var orderItems []models.OrderItem
	require.NoError(t, f.db.Where("order_id = ?", resp.Order.ID).Find(&orderItems).Error)
	require.Len(t, orderItems, 1)
	assert.Equal(t, "Standard", orderItems[0].VariantName)

	// Invoice number is assigned on first download.
	w = f.request(t, "GET", "/api/cart/order/"+resp.Order.ID+"/invoice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
}

func TestCheckoutRollsBackOnStockShortage(t *testing.T) {
	f := setupCartTest(t)
	f.request(t, "POST", "/api/cart/add", gin.H{"variant_id": f.variant.ID, "quantity": 4})

	// Someone else drains the stock between cart add and checkout.
	require.NoError(t, f.db.Model(&models.Variant{}).Where("id = ?", f.variant.ID).Update("stock", 1).Error)

	address := gin.H{
		"full_name": "Dr. Mehta", "phone": "9876543210", "address_line1": "12 MG Road",
		"city": "Pune", "state": "Maharashtra", "pincode": "411001",
	}
	w := f.request(t, "POST", "/api/cart/checkout-direct", gin.H{"address": address})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient stock")

	// Nothing committed: no order, cart untouched, stock unchanged.
	var orders int64
	f.db.Model(&models.Order{}).Count(&orders)
	assert.Equal(t, int64(0), orders)

	var items int64
	f.db.Model(&models.CartItem{}).Count(&items)
	assert.Equal(t, int64(1), items)

	var variant models.Variant
	require.NoError(t, f.db.First(&variant, "id = ?", f.variant.ID).Error)
	assert.Equal(t, 1, variant.Stock)
}

func TestCheckoutRequiresAddressAndItems(t *testing.T) {
	f := setupCartTest(t)

	w := f.request(t, "POST", "/api/cart/checkout-direct", gin.H{"payment_method": "cod"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Address is required")

	address := gin.H{
		"full_name": "Dr. Mehta", "phone": "9876543210", "address_line1": "12 MG Road",
		"city": "Pune", "state": "Maharashtra", "pincode": "411001",
	}
	w = f.request(t, "POST", "/api/cart/checkout-direct", gin.H{"address": address})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Cart is empty")
}
