package client

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoAddress signals that checkout cannot proceed without a shipping
// address; the flow redirects to address creation instead of blocking.
var ErrNoAddress = errors.New("no address on file")

// FlowStage tracks where a checkout attempt is.
type FlowStage int

const (
	SelectingAddress FlowStage = iota
	ChoosingPayment
	Submitting
	OrderCreated
)

// CheckoutFlow turns a non-empty cart plus a chosen address into an
// order. A failed submission stays retryable without re-entering the
// address.
type CheckoutFlow struct {
	client *Client

	stage     FlowStage
	addresses []Address
	selected  *Address
}

// CheckoutResult is the outcome of a placed order. StripeURL is set
// only for online payments that reached the gateway.
type CheckoutResult struct {
	Order     Order
	StripeURL string
}

// Destination is where the shopper lands next: the external payment
// page when the gateway took over, otherwise the order confirmation.
func (r *CheckoutResult) Destination() string {
	if r.StripeURL != "" {
		return r.StripeURL
	}
	return "/orders/" + r.Order.ID
}

// ListAddresses fetches the saved address book.
func (c *Client) ListAddresses(ctx context.Context) ([]Address, error) {
	var addresses []Address
	if err := c.do(ctx, "GET", "/address/", nil, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

// CreateAddress validates the mandatory fields locally before sending.
// Only address_line2 is optional.
func (c *Client) CreateAddress(ctx context.Context, addr Address) (*Address, error) {
	if err := validateAddress(addr); err != nil {
		return nil, err
	}
	var created Address
	if err := c.do(ctx, "POST", "/address/", addr, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func validateAddress(addr Address) error {
	required := map[string]string{
		"full_name":     addr.FullName,
		"phone":         addr.Phone,
		"address_line1": addr.AddressLine1,
		"city":          addr.City,
		"state":         addr.State,
		"pincode":       addr.Pincode,
	}
	for field, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", field)
		}
	}
	return nil
}

// StartCheckout begins the flow. Zero saved addresses is a guided
// redirect to address creation, never a dead end: the caller gets
// ErrNoAddress and must not reach PlaceOrder.
func (c *Client) StartCheckout(ctx context.Context) (*CheckoutFlow, error) {
	addresses, err := c.ListAddresses(ctx)
	if err != nil {
		return nil, err
	}
	if len(addresses) == 0 {
		return nil, ErrNoAddress
	}
	return &CheckoutFlow{
		client:    c,
		stage:     SelectingAddress,
		addresses: addresses,
	}, nil
}

// Addresses returns the address book loaded for this flow.
func (f *CheckoutFlow) Addresses() []Address {
	return f.addresses
}

// Stage reports the flow's current position.
func (f *CheckoutFlow) Stage() FlowStage {
	return f.stage
}

// SelectAddress pins the shipping address and moves to payment choice.
// New addresses created mid-flow are never auto-selected.
func (f *CheckoutFlow) SelectAddress(addr Address) {
	selected := addr
	f.selected = &selected
	f.stage = ChoosingPayment
}

// PlaceOrder submits the order with the selected address and payment
// method ("cod" or "online"). On failure the flow stays in
// ChoosingPayment so the shopper can retry.
func (f *CheckoutFlow) PlaceOrder(ctx context.Context, paymentMethod string) (*CheckoutResult, error) {
	if f.selected == nil {
		return nil, fmt.Errorf("no address selected")
	}
	f.stage = Submitting

	body := map[string]any{
		"address":        f.selected,
		"payment_method": paymentMethod,
	}
	var resp struct {
		Order     Order  `json:"order"`
		StripeURL string `json:"stripe_url"`
	}
	if err := f.client.do(ctx, "POST", "/cart/checkout-direct", body, &resp); err != nil {
		f.stage = ChoosingPayment
		return nil, err
	}

	f.stage = OrderCreated
	return &CheckoutResult{Order: resp.Order, StripeURL: resp.StripeURL}, nil
}

// ListOrders returns the shopper's orders, newest first.
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, "GET", "/orders/", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder fetches one of the shopper's orders.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var order Order
	if err := c.do(ctx, "GET", "/orders/"+orderID, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
