package orderControllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hevinpatel19/AURELLE/apperr"
	cartControllers "github.com/hevinpatel19/AURELLE/controllers/cart"
	"github.com/hevinpatel19/AURELLE/inventory"
	"github.com/hevinpatel19/AURELLE/models"
	"gorm.io/gorm"
)

// -------- Request Structs --------

type PlaceOrderRequest struct {
	ShippingAddress models.ShippingAddress `json:"shipping_address" binding:"required"`
	PaymentMethod   string                 `json:"payment_method" binding:"required"` // card / upi / cod
	TotalPrice      float64                `json:"total_price" binding:"gte=0"`
	IsPaid          bool                   `json:"is_paid"`
	PaymentRef      string                 `json:"payment_ref"`
	CouponCode      string                 `json:"coupon_code"`
}

// -------- Helpers --------

func normalizePaymentMethod(method string) (string, error) {
	switch strings.ToLower(method) {
	case models.PaymentMethodCard:
		return models.PaymentMethodCard, nil
	case models.PaymentMethodUPI:
		return models.PaymentMethodUPI, nil
	case models.PaymentMethodCOD:
		return models.PaymentMethodCOD, nil
	default:
		return "", apperr.New(apperr.KindValidation, "invalid payment method")
	}
}

// Generate unique order reference, e.g. 20250908130500-<uuid4>
func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// -------- Core Logic --------

// PlaceOrder materializes the user's cart into an immutable order. Inside one
// transaction it reserves stock for every line through the inventory ledger,
// freezes each line into an order item snapshot, persists the order with
// status Processing and clears the entire cart. Any line failing validation
// rolls the whole transaction back, so no stock is decremented and the cart
// is left untouched for retry.
func PlaceOrder(db *gorm.DB, userID string, req PlaceOrderRequest) (*models.Order, error) {
	method, err := normalizePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	var created models.Order
	err = db.Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Where("user_id = ?", userID).Order("id").Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return apperr.New(apperr.KindValidation, "No order items")
		}

		var orderItems []models.OrderItem
		for _, item := range items {
			var product models.Product
			if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.Newf(apperr.KindNotFound, "Product not found for cart item %d", item.ProductID)
				}
				return err
			}

			if err := inventory.Reserve(tx, &product, item.Size, item.Quantity); err != nil {
				return err
			}

			// Freeze the line against future catalog edits.
			orderItems = append(orderItems, models.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				Image:     product.Image,
				Price:     product.Price,
				Quantity:  item.Quantity,
				Size:      item.Size,
			})
		}

		var paidAt *time.Time
		if req.IsPaid {
			now := time.Now()
			paidAt = &now
		}

		order := models.Order{
			OrderRef:        generateOrderRef(),
			UserID:          userID,
			Items:           orderItems,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   method,
			PaymentRef:      req.PaymentRef,
			CouponCode:      strings.ToUpper(strings.TrimSpace(req.CouponCode)),
			TotalPrice:      req.TotalPrice,
			IsPaid:          req.IsPaid,
			PaidAt:          paidAt,
			Status:          models.OrderStatusProcessing,
			CreatedAt:       time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Clear the entire cart, not just the purchased lines.
		if err := cartControllers.Clear(tx, userID); err != nil {
			return err
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	broadcastOrderEvent(created)
	return &created, nil
}

// -------- Handlers --------

// POST /orders
func PlaceOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := PlaceOrder(db, userID, req)
		if err != nil {
			c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

// GET /orders/myorders
func GetMyOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /admin/orders
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/:orderID (accepts a numeric id or an order_ref)
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("orderID")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}

		order, err := loadOrder(db, id)
		if err != nil {
			c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}

		// Non-admin callers may only read their own orders.
		if c.GetString("role") != "admin" && order.UserID != c.GetString("user_id") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authorized to view this order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
