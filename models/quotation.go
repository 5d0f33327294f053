package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quotation is an on-demand frozen snapshot of a cart, downloadable as a
// PDF. It lives outside the order lifecycle.
type Quotation struct {
	ID           string         `gorm:"primaryKey" json:"id"`
	UserID       string         `gorm:"index;not null" json:"user_id"`
	QuoteNumber  string         `json:"quote_number,omitempty"`
	CartSnapshot datatypes.JSON `json:"cart_snapshot"`
	Total        float64        `json:"total"`
	Status       string         `gorm:"default:'generated'" json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (q *Quotation) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

func (q *Quotation) Snapshot() (*CartSnapshot, error) {
	var snap CartSnapshot
	if err := json.Unmarshal(q.CartSnapshot, &snap); err != nil {
		return nil, fmt.Errorf("decode quotation snapshot: %w", err)
	}
	return &snap, nil
}
