package models

import "time"

// Coupon codes are normalized to uppercase at rest.
type Coupon struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Code               string    `gorm:"uniqueIndex;not null" json:"code"`
	DiscountPercentage int       `gorm:"not null" json:"discount_percentage"` // 0-100
	ExpirationDate     time.Time `gorm:"not null" json:"expiration_date"`
	IsActive           bool      `gorm:"default:true" json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
}
