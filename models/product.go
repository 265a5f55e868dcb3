package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Details     string    `json:"details"`
	Image       string    `gorm:"not null" json:"image"`
	Price       float64   `gorm:"not null" json:"price"`
	CategoryID  uint      `json:"category_id"`
	Category    *Category `json:"category,omitempty"`

	// Variant-aware stock accounting. When HasVariations is true each
	// ProductVariant carries its own counter and CountInStock is the
	// derived sum; when false CountInStock is authoritative on its own.
	HasVariations bool             `json:"has_variations"`
	VariationType string           `gorm:"default:Size" json:"variation_type"` // e.g. "Size", "Color", "Storage"
	Variants      []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants"`
	CountInStock  int              `gorm:"not null;default:0" json:"count_in_stock"`

	IsFeatured bool `json:"is_featured"`

	// Rating and NumReviews are denormalized from the review rows and
	// recomputed whenever a review is added or removed.
	Reviews    []Review `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"reviews"`
	Rating     float64  `gorm:"not null;default:0" json:"rating"`
	NumReviews int      `gorm:"not null;default:0" json:"num_reviews"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type ProductVariant struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint   `gorm:"uniqueIndex:idx_variant_product_value" json:"product_id"`
	Value     string `gorm:"uniqueIndex:idx_variant_product_value;not null" json:"value"` // e.g. "S", "UK 6", "128GB"
	Stock     int    `gorm:"not null;default:0" json:"stock"`
	Position  int    `json:"position"` // preserves display order of variants
}

// Review is one customer review; Name is frozen from the reviewer's profile
// at submission time.
type Review struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint      `gorm:"index;not null" json:"product_id"`
	UserID    string    `gorm:"not null" json:"user_id"`
	Name      string    `gorm:"not null" json:"name"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"not null" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeSave keeps CountInStock equal to the sum of variant stocks whenever a
// variant product is saved with its variants loaded. Stock mutations done via
// the inventory ledger recompute the total with SQL instead.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	if p.HasVariations && len(p.Variants) > 0 {
		total := 0
		for _, v := range p.Variants {
			total += v.Stock
		}
		p.CountInStock = total
	}
	return nil
}

// FindVariant returns the variant with the given value, or nil.
func (p *Product) FindVariant(value string) *ProductVariant {
	for i := range p.Variants {
		if p.Variants[i].Value == value {
			return &p.Variants[i]
		}
	}
	return nil
}
