package client

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartPayload(items []CartItem) map[string]any {
	return map[string]any{
		"cart":  Cart{ID: "c1"},
		"items": items,
	}
}

func TestCartTotalRecomputedAfterMutation(t *testing.T) {
	// Scenario: two items at 500×2 and 1200×1, then the first is
	// removed and the cart reloaded.
	full := []CartItem{
		{ID: "i1", Quantity: 2, Variant: &Variant{ID: 1, Price: 500}},
		{ID: "i2", Quantity: 1, Variant: &Variant{ID: 2, Price: 1200}},
	}
	afterRemove := full[1:]

	var removed atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/cart/", func(w http.ResponseWriter, r *http.Request) {
		if removed.Load() {
			writeJSON(w, http.StatusOK, cartPayload(afterRemove))
			return
		}
		writeJSON(w, http.StatusOK, cartPayload(full))
	})
	mux.HandleFunc("DELETE /api/cart/remove/i1", func(w http.ResponseWriter, r *http.Request) {
		removed.Store(true)
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	})
	c, _ := newTestClient(t, mux)

	cart, err := c.LoadCart(context.Background())
	require.NoError(t, err)

	// Total is idempotent on an unmutated cart.
	assert.Equal(t, 2200.0, cart.Total())
	assert.Equal(t, 2200.0, cart.Total())

	require.NoError(t, c.RemoveItem(context.Background(), "i1"))
	cart, err = c.LoadCart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1200.0, cart.Total())
}

func TestUpdateQuantityFloorSkipsNetwork(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}))

	for _, qty := range []int{0, -1, -100} {
		err := c.UpdateQuantity(context.Background(), "i1", qty)
		assert.ErrorIs(t, err, ErrQuantityTooLow)
		err = c.AddItem(context.Background(), 1, qty)
		assert.ErrorIs(t, err, ErrQuantityTooLow)
	}
}

func TestCreateQuotationUnwrapsArray(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/cart/quotation", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, []Quotation{{ID: "q1", Total: 1800, Status: "generated"}})
	})
	c, _ := newTestClient(t, mux)

	quotation, err := c.CreateQuotation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "q1", quotation.ID)
	assert.Equal(t, 1800.0, quotation.Total)
}

func TestQuotationPDFDownload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/cart/quotation/q1/pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	})
	c, _ := newTestClient(t, mux)

	doc, err := c.QuotationPDF(context.Background(), "q1")
	require.NoError(t, err)
	assert.True(t, len(doc) > 0)
	assert.Equal(t, "%PDF", string(doc[:4]))
}

func TestMutationFailureSurfacesServerMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/cart/add", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Requested quantity exceeds stock"})
	})
	c, _ := newTestClient(t, mux)

	err := c.AddItem(context.Background(), 7, 99)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Requested quantity exceeds stock", apiErr.Message)
}
