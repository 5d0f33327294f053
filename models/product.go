package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID  uint    `gorm:"index" json:"category_id"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description"`
	BasePrice   float64 `json:"base_price"`
	SKU         string  `json:"sku"`
	IsActive    bool    `gorm:"default:true" json:"is_active"`

	Images   []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product_images,omitempty"`
	Variants []Variant      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product_variants,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Variant is a purchasable SKU under a product, carrying its own price
// and stock. Listings hide variants with no stock.
type Variant struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID   uint    `gorm:"index;not null" json:"product_id"`
	VariantName string  `gorm:"not null" json:"variant_name"`
	VariantType string  `json:"variant_type"`
	Price       float64 `gorm:"not null" json:"price"`
	Stock       int     `json:"stock"`
	Description string  `json:"description"`

	Product *Product `gorm:"foreignKey:ProductID" json:"products,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint   `gorm:"index;not null" json:"product_id"`
	ImageURL  string `gorm:"not null" json:"image_url"`
	IsPrimary bool   `gorm:"default:false" json:"is_primary"`
}

// InStockVariants filters out variants that cannot be purchased.
func (p *Product) InStockVariants() []Variant {
	out := make([]Variant, 0, len(p.Variants))
	for _, v := range p.Variants {
		if v.Stock > 0 {
			out = append(out, v)
		}
	}
	return out
}

// PrimaryImage returns the primary image URL, or the first one, or "".
func (p *Product) PrimaryImage() string {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img.ImageURL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].ImageURL
	}
	return ""
}
