package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAddress = Address{
	ID:           "addr1",
	FullName:     "Dr. Mehta",
	Phone:        "9876543210",
	AddressLine1: "12 MG Road",
	City:         "Pune",
	State:        "Maharashtra",
	Pincode:      "411001",
}

func TestCheckoutWithoutAddressRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/address/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []Address{})
	})
	mux.HandleFunc("POST /api/cart/checkout-direct", func(w http.ResponseWriter, r *http.Request) {
		t.Error("placeOrder must never be reached with zero addresses")
	})
	c, _ := newTestClient(t, mux)

	flow, err := c.StartCheckout(context.Background())
	assert.Nil(t, flow)
	assert.ErrorIs(t, err, ErrNoAddress)
}

func TestOnlinePaymentRedirectsToGateway(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/address/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []Address{testAddress})
	})
	mux.HandleFunc("POST /api/cart/checkout-direct", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Address       *Address `json:"address"`
			PaymentMethod string   `json:"payment_method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Address == nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "online", body.PaymentMethod)
		assert.Equal(t, "12 MG Road", body.Address.AddressLine1)

		writeJSON(w, http.StatusOK, map[string]any{
			"order":      Order{ID: "o1"},
			"stripe_url": "https://pay.example/x",
		})
	})
	c, _ := newTestClient(t, mux)

	flow, err := c.StartCheckout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SelectingAddress, flow.Stage())

	flow.SelectAddress(flow.Addresses()[0])
	assert.Equal(t, ChoosingPayment, flow.Stage())

	result, err := flow.PlaceOrder(context.Background(), "online")
	require.NoError(t, err)
	assert.Equal(t, OrderCreated, flow.Stage())
	assert.Equal(t, "https://pay.example/x", result.Destination())
}

func TestCodPaymentLandsOnOrderPage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/address/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []Address{testAddress})
	})
	mux.HandleFunc("POST /api/cart/checkout-direct", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"order": Order{ID: "o1"}})
	})
	c, _ := newTestClient(t, mux)

	flow, err := c.StartCheckout(context.Background())
	require.NoError(t, err)
	flow.SelectAddress(flow.Addresses()[0])

	result, err := flow.PlaceOrder(context.Background(), "cod")
	require.NoError(t, err)
	assert.Equal(t, "/orders/o1", result.Destination())
}

func TestFailedSubmissionStaysRetryable(t *testing.T) {
	attempts := 0
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/address/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []Address{testAddress})
	})
	mux.HandleFunc("POST /api/cart/checkout-direct", func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "insufficient stock for Standard"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"order": Order{ID: "o2"}})
	})
	c, _ := newTestClient(t, mux)

	flow, err := c.StartCheckout(context.Background())
	require.NoError(t, err)
	flow.SelectAddress(flow.Addresses()[0])

	_, err = flow.PlaceOrder(context.Background(), "cod")
	require.Error(t, err)
	// The flow falls back to payment choice; the address survives for
	// the retry.
	assert.Equal(t, ChoosingPayment, flow.Stage())

	result, err := flow.PlaceOrder(context.Background(), "cod")
	require.NoError(t, err)
	assert.Equal(t, "/orders/o2", result.Destination())
}

func TestCreateAddressValidatesLocally(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("invalid address must not reach the network")
	}))

	missingPhone := testAddress
	missingPhone.Phone = ""
	_, err := c.CreateAddress(context.Background(), missingPhone)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phone is required")

	// address_line2 stays optional
	ok := testAddress
	ok.AddressLine2 = ""
	assert.NoError(t, validateAddress(ok))
}
