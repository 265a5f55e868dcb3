package models

import "time"

// CartItem is one line of a user's cart. At most one line may exist per
// (user, product, size) tuple; "size" is the selected variant value and is
// empty for products without variations. Product data (name, price, image)
// is joined at read time and only frozen when an order is placed.
type CartItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"uniqueIndex:idx_cart_user_product_size;not null" json:"user_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_cart_user_product_size;not null" json:"product_id"`
	Size      string    `gorm:"uniqueIndex:idx_cart_user_product_size;default:''" json:"size"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}
