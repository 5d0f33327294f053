package client

import (
	"context"
	"errors"
	"fmt"
)

// ErrQuantityTooLow rejects a quantity below 1 before any network call
// is made.
var ErrQuantityTooLow = errors.New("quantity must be at least 1")

// LoadCart fetches the authoritative cart. An empty cart is a valid,
// non-error result.
func (c *Client) LoadCart(ctx context.Context) (*Cart, error) {
	var resp struct {
		Cart  Cart       `json:"cart"`
		Items []CartItem `json:"items"`
	}
	if err := c.do(ctx, "GET", "/cart/", nil, &resp); err != nil {
		return nil, err
	}
	cart := resp.Cart
	cart.Items = resp.Items
	return &cart, nil
}

// AddItem puts a variant in the cart. The server merges quantities if
// the variant is already present; callers reload the cart afterwards.
func (c *Client) AddItem(ctx context.Context, variantID uint, quantity int) error {
	if quantity < 1 {
		return ErrQuantityTooLow
	}
	body := map[string]any{"variant_id": variantID, "quantity": quantity}
	return c.do(ctx, "POST", "/cart/add", body, nil)
}

// UpdateQuantity sets an item's quantity. Quantities below 1 are
// rejected locally without touching the network; removal goes through
// RemoveItem instead.
func (c *Client) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	if quantity < 1 {
		return ErrQuantityTooLow
	}
	body := map[string]any{"item_id": itemID, "quantity": quantity}
	return c.do(ctx, "PUT", "/cart/update", body, nil)
}

// RemoveItem deletes one cart line.
func (c *Client) RemoveItem(ctx context.Context, itemID string) error {
	return c.do(ctx, "DELETE", "/cart/remove/"+itemID, nil, nil)
}

// ClearCart empties the cart.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, "POST", "/cart/clear", nil, nil)
}

// CreateQuotation snapshots the current cart into a new quotation.
// Each call creates a fresh snapshot; the caller keeps only the most
// recent id for download. The response is array-wrapped.
func (c *Client) CreateQuotation(ctx context.Context) (*Quotation, error) {
	var resp []Quotation
	if err := c.do(ctx, "POST", "/cart/quotation", nil, &resp); err != nil {
		return nil, err
	}
	if len(resp) == 0 {
		return nil, fmt.Errorf("empty quotation response")
	}
	return &resp[0], nil
}

// QuotationPDF downloads the rendered quotation document.
func (c *Client) QuotationPDF(ctx context.Context, quotationID string) ([]byte, error) {
	return c.doRaw(ctx, "GET", "/cart/quotation/"+quotationID+"/pdf", nil)
}

// OrderInvoicePDF downloads the invoice for a placed order.
func (c *Client) OrderInvoicePDF(ctx context.Context, orderID string) ([]byte, error) {
	return c.doRaw(ctx, "GET", "/cart/order/"+orderID+"/invoice", nil)
}
