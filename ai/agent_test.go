package ai

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rbpanchal/medimatch-api/models"
)

func setupAgentTest(t *testing.T) (*gorm.DB, *Agent) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{}, &models.Variant{}, &models.ProductImage{},
		&models.Order{}, &models.ChatMessage{},
	))

	bed := models.Product{Name: "Fowler Bed", BasePrice: 12000, IsActive: true}
	require.NoError(t, db.Create(&bed).Error)
	require.NoError(t, db.Create(&models.Variant{ProductID: bed.ID, VariantName: "Standard", Price: 12000, Stock: 3}).Error)

	monitor := models.Product{Name: "Patient Monitor", BasePrice: 45000, IsActive: true}
	require.NoError(t, db.Create(&monitor).Error)

	hidden := models.Product{Name: "Retired Autoclave", BasePrice: 900, IsActive: false}
	require.NoError(t, db.Create(&hidden).Error)

	// No LLM: everything below must work on rules alone.
	return db, NewAgent(db, nil)
}

func TestIntentDetection(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"show me all products", intentShowProducts},
		{"products", intentShowProducts},
		{"compare semi-fowler vs full-fowler", intentCompare},
		{"i need a startup bundle for my icu", intentBundle},
		{"search for wheelchairs", intentSearch},
		{"add a fowler bed to my cart", intentAddToCart},
		{"clear my cart", intentClearCart},
		{"suggest equipment for a new clinic", intentSuggest},
		{"show my order history", intentShowOrders},
		{"download the invoice for my order", intentInvoice},
		{"what is the meaning of life", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, detectIntent(tt.message), "message %q", tt.message)
	}
}

func TestGreetingIsCanned(t *testing.T) {
	db, agent := setupAgentTest(t)

	reply := agent.Run(context.Background(), "u1", "hello there")
	require.Len(t, reply.Actions, 1)
	assert.Equal(t, ActionSuggestChips, reply.Actions[0].Type)
	assert.NotEmpty(t, reply.Actions[0].Chips)

	// Both turns are logged.
	var count int64
	db.Model(&models.ChatMessage{}).Where("user_id = ?", "u1").Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestSupportKeywordsPromptSupport(t *testing.T) {
	_, agent := setupAgentTest(t)
	reply := agent.Run(context.Background(), "u1", "my delivery arrived broken")
	assert.Contains(t, reply.Response, "support")
}

func TestShowProductsHidesInactive(t *testing.T) {
	_, agent := setupAgentTest(t)
	reply := agent.Run(context.Background(), "u1", "show me all products")

	require.Len(t, reply.Actions, 1)
	action := reply.Actions[0]
	assert.Equal(t, ActionShowProducts, action.Type)
	require.Len(t, action.Products, 2)
	for _, p := range action.Products {
		assert.NotEqual(t, "Retired Autoclave", p.Title)
	}
}

func TestAddToCartResolvesVariant(t *testing.T) {
	_, agent := setupAgentTest(t)
	reply := agent.Run(context.Background(), "u1", "add fowler bed to my cart")

	require.Len(t, reply.Actions, 1)
	action := reply.Actions[0]
	assert.Equal(t, ActionAddToCart, action.Type)
	require.Len(t, action.Variants, 1)
	assert.Equal(t, 1, action.Variants[0].Qty)
}

func TestAddToCartBackOrderWithoutStock(t *testing.T) {
	_, agent := setupAgentTest(t)
	// Patient Monitor has no variants at all.
	reply := agent.Run(context.Background(), "u1", "add patient monitor to my cart")
	assert.Empty(t, reply.Actions)
	assert.Contains(t, reply.Response, "back-order")
}

func TestClearCartAsksForConfirmation(t *testing.T) {
	_, agent := setupAgentTest(t)
	reply := agent.Run(context.Background(), "u1", "please empty my cart")

	require.Len(t, reply.Actions, 1)
	assert.Equal(t, ActionClearCart, reply.Actions[0].Type)
	assert.True(t, reply.Actions[0].Confirm)
}

func TestInvoiceActionCarriesLatestOrderID(t *testing.T) {
	db, agent := setupAgentTest(t)
	require.NoError(t, db.Create(&models.Order{
		ID: "ord-old", UserID: "u1", OrderNumber: "ORD-AAAA1111", Total: 12000,
		Status: models.OrderStatusDelivered, CreatedAt: time.Now().Add(-time.Hour),
	}).Error)
	require.NoError(t, db.Create(&models.Order{
		ID: "ord-new", UserID: "u1", OrderNumber: "ORD-BBBB2222", Total: 500,
		Status: models.OrderStatusPending, CreatedAt: time.Now(),
	}).Error)

	reply := agent.Run(context.Background(), "u1", "download the invoice for my order")
	require.Len(t, reply.Actions, 1)
	action := reply.Actions[0]
	assert.Equal(t, ActionDownloadInvoice, action.Type)
	assert.Equal(t, "ord-new", action.OrderID)
	assert.Contains(t, reply.Response, "ORD-BBBB2222")

	// No orders, no action to act on.
	reply = agent.Run(context.Background(), "u2", "send me my bill")
	assert.Empty(t, reply.Actions)
}

func TestShowOrdersForUser(t *testing.T) {
	db, agent := setupAgentTest(t)
	require.NoError(t, db.Create(&models.Order{
		UserID: "u1", OrderNumber: "ORD-AAAA1111", Total: 12000, Status: models.OrderStatusPending,
	}).Error)

	reply := agent.Run(context.Background(), "u1", "show my orders")
	require.Len(t, reply.Actions, 1)
	require.Len(t, reply.Actions[0].Orders, 1)
	assert.Equal(t, "ORD-AAAA1111", reply.Actions[0].Orders[0].OrderNumber)

	// Someone else's history stays empty.
	reply = agent.Run(context.Background(), "u2", "show my orders")
	assert.Empty(t, reply.Actions)
}
