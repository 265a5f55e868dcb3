package models

import (
	"errors"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusProcessing      OrderStatus = "Processing"       // order placed, awaiting dispatch
	OrderStatusShipped         OrderStatus = "Shipped"          // out for delivery
	OrderStatusDelivered       OrderStatus = "Delivered"        // customer received the item
	OrderStatusCancelled       OrderStatus = "Cancelled"        // cancelled before delivery
	OrderStatusReturnRequested OrderStatus = "Return Requested" // customer asked to return
	OrderStatusReturned        OrderStatus = "Returned"         // return accepted by admin
)

// statusTransitions is the full lifecycle graph. Cancelled and Returned are
// terminal; cancellation is additionally restricted to the order owner or an
// admin and handled by its own operation.
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusProcessing:      {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:         {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:       {OrderStatusReturnRequested},
	OrderStatusReturnRequested: {OrderStatusReturned},
}

// CanTransitionTo reports whether the lifecycle graph allows moving from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseOrderStatus maps a request string onto a known status, case-insensitively.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, known := range []OrderStatus{
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
		OrderStatusReturnRequested,
		OrderStatusReturned,
	} {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", errors.New("invalid order status")
}

// Payment method labels supplied by the external payment layer.
const (
	PaymentMethodCard = "card"
	PaymentMethodUPI  = "upi"
	PaymentMethodCOD  = "cod"
)

type ShippingAddress struct {
	Address    string `gorm:"not null" json:"address"`
	City       string `gorm:"not null" json:"city"`
	PostalCode string `gorm:"not null" json:"postal_code"`
	Country    string `gorm:"not null" json:"country"`
}

type ReturnInfo struct {
	Reason      string     `json:"reason"`
	Condition   string     `json:"condition"`
	Comment     string     `json:"comment"`
	RequestedAt *time.Time `json:"requested_at"`
}

// Order is immutable once created except for status, payment stamps and
// return info. Items are frozen copies of the purchased products so later
// catalog edits never alter historical orders; TotalPrice is fixed at
// creation and never recomputed.
type Order struct {
	ID              uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderRef        string          `gorm:"uniqueIndex;not null" json:"order_ref"`
	UserID          string          `gorm:"index;not null" json:"user_id"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	PaymentMethod   string          `gorm:"not null" json:"payment_method"`
	PaymentRef      string          `json:"payment_ref"`
	CouponCode      string          `json:"coupon_code"` // recorded as applied at cart time, not re-validated
	TotalPrice      float64         `gorm:"not null" json:"total_price"`
	IsPaid          bool            `json:"is_paid"`
	PaidAt          *time.Time      `json:"paid_at"`
	Status          OrderStatus     `gorm:"type:VARCHAR(20);default:'Processing'" json:"status"`
	ShippedAt       *time.Time      `json:"shipped_at"`
	DeliveredAt     *time.Time      `json:"delivered_at"`
	ReturnInfo      ReturnInfo      `gorm:"embedded;embeddedPrefix:return_" json:"return_info"`
	CreatedAt       time.Time       `json:"created_at"`
}

// OrderItem is a frozen snapshot of one purchased line.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint    `gorm:"index" json:"order_id"`
	ProductID uint    `json:"product_id"`
	Name      string  `gorm:"not null" json:"name"`
	Image     string  `json:"image"`
	Price     float64 `gorm:"not null" json:"price"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Size      string  `json:"size"` // selected variant value, empty for simple products
}
