package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
	// OrderStatusPaid is set by the payment webhook, never by admins.
	OrderStatusPaid OrderStatus = "paid"
)

// ParseOrderStatus maps a request string onto the admin status vocabulary.
// "paid" is deliberately excluded: only the payment webhook writes it.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(strings.ToLower(s)) {
	case OrderStatusPending:
		return OrderStatusPending, nil
	case OrderStatusConfirmed:
		return OrderStatusConfirmed, nil
	case OrderStatusShipped:
		return OrderStatusShipped, nil
	case OrderStatusDelivered:
		return OrderStatusDelivered, nil
	case OrderStatusCancelled:
		return OrderStatusCancelled, nil
	default:
		return "", fmt.Errorf("invalid order status %q", s)
	}
}

// Order is an append-only snapshot created from a cart + address pair.
// Items and address are frozen at creation and never reconstituted from
// the live catalog or address book.
type Order struct {
	ID              string         `gorm:"primaryKey" json:"id"`
	UserID          string         `gorm:"index;not null" json:"user_id"`
	OrderNumber     string         `gorm:"uniqueIndex;not null" json:"order_number"`
	InvoiceNumber   string         `json:"invoice_number,omitempty"`
	Total           float64        `json:"total"`
	Status          OrderStatus    `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentMethod   string         `json:"payment_method"`
	StripeSessionID string         `json:"stripe_session_id,omitempty"`
	PaymentID       string         `json:"payment_id,omitempty"`
	CartSnapshot    datatypes.JSON `json:"cart_snapshot,omitempty"`
	Items           []OrderItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// Snapshot decodes the frozen cart snapshot stored on the order.
func (o *Order) Snapshot() (*CartSnapshot, error) {
	if len(o.CartSnapshot) == 0 {
		return nil, fmt.Errorf("order %s has no cart snapshot", o.ID)
	}
	var snap CartSnapshot
	if err := json.Unmarshal(o.CartSnapshot, &snap); err != nil {
		return nil, fmt.Errorf("decode cart snapshot: %w", err)
	}
	return &snap, nil
}

type OrderItem struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     string  `gorm:"index;not null" json:"order_id"`
	ProductName string  `json:"product_name"`
	VariantName string  `json:"variant_name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	LineTotal   float64 `json:"line_total"`
}

// SnapshotItem is one frozen line of a quotation or order.
type SnapshotItem struct {
	VariantID   uint    `json:"variant_id,omitempty"`
	ProductName string  `json:"product_name"`
	VariantName string  `json:"variant_name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	LineTotal   float64 `json:"line_total"`
}

// AddressSnapshot freezes the shipping address chosen at checkout.
type AddressSnapshot struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
}

type CartSnapshot struct {
	Items       []SnapshotItem   `json:"items"`
	Address     *AddressSnapshot `json:"address,omitempty"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// Total sums line totals of the snapshot.
func (s *CartSnapshot) Total() float64 {
	var total float64
	for _, it := range s.Items {
		total += it.LineTotal
	}
	return total
}
