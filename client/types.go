package client

import "time"

// Typed response contracts for the REST API. Field tags mirror the
// server's JSON keys, including the nested product_variants/products
// naming on cart items.

type Profile struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	FullName       string `json:"full_name"`
	OrgType        string `json:"org_type"`
	Specialization string `json:"specialization"`
	Role           string `json:"role"`
	Blocked        bool   `json:"blocked"`
}

// NeedsOnboarding reports whether the shopper must complete the
// one-time profile form before shopping. Admins are exempt.
func (p *Profile) NeedsOnboarding() bool {
	return p.FullName == "" && p.Role != "admin"
}

type Product struct {
	ID          uint      `json:"id"`
	CategoryID  uint      `json:"category_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	BasePrice   float64   `json:"base_price"`
	Images      []Image   `json:"product_images,omitempty"`
	Variants    []Variant `json:"product_variants,omitempty"`
}

type Image struct {
	ImageURL  string `json:"image_url"`
	IsPrimary bool   `json:"is_primary"`
}

type Variant struct {
	ID          uint     `json:"id"`
	ProductID   uint     `json:"product_id"`
	VariantName string   `json:"variant_name"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Product     *Product `json:"products,omitempty"`
}

type CartItem struct {
	ID        string   `json:"id"`
	VariantID uint     `json:"variant_id"`
	Quantity  int      `json:"quantity"`
	Variant   *Variant `json:"product_variants,omitempty"`
}

// Cart is the server-sourced view. Totals are never stored; they are
// recomputed from the live items on every call to Total.
type Cart struct {
	ID    string     `json:"id"`
	Items []CartItem `json:"items"`
}

// Total is Σ(variant price × quantity) over the current items.
func (c *Cart) Total() float64 {
	var total float64
	for _, it := range c.Items {
		if it.Variant != nil {
			total += it.Variant.Price * float64(it.Quantity)
		}
	}
	return total
}

type Address struct {
	ID           string `json:"id,omitempty"`
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
}

type Quotation struct {
	ID          string  `json:"id"`
	QuoteNumber string  `json:"quote_number"`
	Total       float64 `json:"total"`
	Status      string  `json:"status"`
}

type OrderItem struct {
	ProductName string  `json:"product_name"`
	VariantName string  `json:"variant_name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	LineTotal   float64 `json:"line_total"`
}

type Order struct {
	ID            string      `json:"id"`
	OrderNumber   string      `json:"order_number"`
	Total         float64     `json:"total"`
	Status        string      `json:"status"`
	PaymentMethod string      `json:"payment_method"`
	Items         []OrderItem `json:"items,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}
