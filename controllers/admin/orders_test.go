package adminControllers

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

type adminFixture struct {
	db         *gorm.DB
	router     *gin.Engine
	adminToken string
	userToken  string
	order      models.Order
}

func setupAdminTest(t *testing.T) *adminFixture {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Profile{}, &models.Address{}, &models.Category{}, &models.Product{},
		&models.Variant{}, &models.ProductImage{}, &models.Order{}, &models.OrderItem{},
	))

	admin := models.Profile{Email: "ops@rbpanchal.example", FullName: "Ops", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)
	adminToken, err := auth.IssueToken(&admin)
	require.NoError(t, err)

	shopper := models.Profile{Email: "dr@clinic.example", FullName: "Dr. Mehta", Role: models.RoleUser}
	require.NoError(t, db.Create(&shopper).Error)
	userToken, err := auth.IssueToken(&shopper)
	require.NoError(t, err)

	order := models.Order{
		UserID:      shopper.ID,
		OrderNumber: "ORD-TEST0001",
		Total:       1000,
		Status:      models.OrderStatusPending,
	}
	require.NoError(t, db.Create(&order).Error)

	r := gin.New()
	group := r.Group("/api/admin")
	group.Use(middleware.RequireAuth(db), middleware.RequireAdmin(db))
	{
		group.GET("/orders/", ListOrders(db))
		group.GET("/orders/:orderID", GetOrder(db))
		group.PUT("/orders/:orderID/status", UpdateOrderStatus(db))
	}

	return &adminFixture{db: db, router: r, adminToken: adminToken, userToken: userToken, order: order}
}

func (f *adminFixture) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestAdminGateIsFailClosed(t *testing.T) {
	f := setupAdminTest(t)

	w := f.request(t, "GET", "/api/admin/orders/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.request(t, "GET", "/api/admin/orders/", f.userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.request(t, "GET", "/api/admin/orders/", f.adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateOrderStatusVocabulary(t *testing.T) {
	f := setupAdminTest(t)
	path := "/api/admin/orders/" + f.order.ID + "/status"

	for _, status := range []string{"confirmed", "shipped", "delivered", "cancelled", "pending"} {
		w := f.request(t, "PUT", path, f.adminToken, gin.H{"status": status})
		assert.Equal(t, http.StatusOK, w.Code, "status %q should be accepted", status)
	}

	// "paid" belongs to the payment webhook, not the admin console.
	for _, status := range []string{"paid", "refunded", "bogus", ""} {
		w := f.request(t, "PUT", path, f.adminToken, gin.H{"status": status})
		assert.Equal(t, http.StatusBadRequest, w.Code, "status %q must be rejected", status)
	}

	w := f.request(t, "PUT", "/api/admin/orders/no-such-order/status", f.adminToken, gin.H{"status": "shipped"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetOrderIncludesLatestAddress(t *testing.T) {
	f := setupAdminTest(t)

	var shopper models.Profile
	require.NoError(t, f.db.First(&shopper, "email = ?", "dr@clinic.example").Error)
	addr := models.Address{
		UserID: shopper.ID, FullName: "Dr. Mehta", Phone: "9876543210",
		AddressLine1: "12 MG Road", City: "Pune", State: "Maharashtra", Pincode: "411001",
	}
	require.NoError(t, f.db.Create(&addr).Error)

	w := f.request(t, "GET", "/api/admin/orders/"+f.order.ID, f.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Order         models.Order    `json:"order"`
		UserAddresses *models.Address `json:"user_addresses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ORD-TEST0001", resp.Order.OrderNumber)
	require.NotNil(t, resp.UserAddresses)
	assert.Equal(t, "12 MG Road", resp.UserAddresses.AddressLine1)
}

func TestListOrdersFiltersByStatus(t *testing.T) {
	f := setupAdminTest(t)
	require.NoError(t, f.db.Create(&models.Order{
		UserID: f.order.UserID, OrderNumber: "ORD-TEST0002", Status: models.OrderStatusShipped,
	}).Error)

	w := f.request(t, "GET", "/api/admin/orders/?status=shipped", f.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var orders []models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD-TEST0002", orders[0].OrderNumber)
}
