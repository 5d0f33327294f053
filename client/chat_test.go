package client

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatHitsAssistantEndpoint(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /ai/chat", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ChatReply{
			Response: "Here are our latest medical supplies and equipment.",
			Actions:  []ChatAction{{Type: "SHOW_PRODUCTS"}},
		})
	})
	c, _ := newTestClient(t, mux)

	reply, err := c.Chat(context.Background(), "show products")
	require.NoError(t, err)
	require.Len(t, reply.Actions, 1)
	assert.Equal(t, "SHOW_PRODUCTS", reply.Actions[0].Type)
}

func TestDispatcherExecutesCartActions(t *testing.T) {
	var adds, clears atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/cart/add", func(w http.ResponseWriter, r *http.Request) {
		adds.Add(1)
		writeJSON(w, http.StatusCreated, CartItem{ID: "i1"})
	})
	mux.HandleFunc("POST /api/cart/clear", func(w http.ResponseWriter, r *http.Request) {
		clears.Add(1)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Cart cleared"})
	})
	c, _ := newTestClient(t, mux)
	d := NewActionDispatcher(c)

	reply := &ChatReply{Actions: []ChatAction{
		{Type: "ADD_TO_CART", Variants: []struct {
			VariantID uint `json:"variant_id"`
			Qty       int  `json:"qty"`
		}{{VariantID: 3, Qty: 2}}},
		{Type: "SHOW_PRODUCTS"},               // display-only, skipped
		{Type: "CLEAR_CART", Confirm: true},   // confirm-gated, left to UI
		{Type: "CLEAR_CART", Confirm: false},  // confirmed, executes
	}}

	require.NoError(t, d.Dispatch(context.Background(), reply))
	assert.Equal(t, int32(1), adds.Load())
	assert.Equal(t, int32(1), clears.Load())
}

func TestDispatcherDownloadsOrderInvoice(t *testing.T) {
	var downloaded string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/cart/order/{orderID}/invoice", func(w http.ResponseWriter, r *http.Request) {
		downloaded = r.PathValue("orderID")
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4"))
	})
	c, _ := newTestClient(t, mux)
	d := NewActionDispatcher(c)

	reply := &ChatReply{Actions: []ChatAction{
		{Type: "DOWNLOAD_ORDER_INVOICE", OrderID: "ord-42"},
	}}

	require.NoError(t, d.Dispatch(context.Background(), reply))
	assert.Equal(t, "ord-42", downloaded)
}
