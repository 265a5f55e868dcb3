package orderControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hevinpatel19/AURELLE/apperr"
	"github.com/hevinpatel19/AURELLE/inventory"
	"github.com/hevinpatel19/AURELLE/models"
	"gorm.io/gorm"
)

// Restock policy for cancelled and returned orders. The storefront this
// replaces never released stock on cancellation, so both default to off and
// are switched via RESTOCK_ON_CANCEL / RESTOCK_ON_RETURN in main.
var (
	RestockOnCancel = false
	RestockOnReturn = false
)

// -------- Request Structs --------

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ReturnOrderRequest struct {
	Reason    string `json:"reason" binding:"required"`
	Condition string `json:"condition"`
	Comment   string `json:"comment"`
}

// -------- Core Logic --------

// loadOrder fetches an order by numeric id or by order_ref.
func loadOrder(tx *gorm.DB, orderID string) (models.Order, error) {
	q := tx.Preload("Items")
	if _, err := strconv.ParseUint(orderID, 10, 64); err == nil {
		q = q.Where("id = ?", orderID)
	} else {
		q = q.Where("order_ref = ?", orderID)
	}

	var order models.Order
	if err := q.First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order, apperr.New(apperr.KindNotFound, "Order not found")
		}
		return order, err
	}
	return order, nil
}

// applyTransition updates the order's status together with the given extra
// columns, but only if the status is still the one the decision was based on.
// The status column doubles as an optimistic version: losing a race with a
// concurrent transition yields zero affected rows and a retryable conflict.
func applyTransition(tx *gorm.DB, order *models.Order, next models.OrderStatus, updates map[string]any) error {
	if updates == nil {
		updates = map[string]any{}
	}
	updates["status"] = next

	res := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindConflict, "Order was modified concurrently, please try again")
	}
	return nil
}

// UpdateStatus moves an order along the lifecycle graph (admin operation).
// Entering Shipped or Delivered stamps the matching timestamp; delivering a
// cash-on-delivery order also marks it paid. Accepting a return (moving
// Return Requested to Returned) releases stock when the restock policy says so.
func UpdateStatus(db *gorm.DB, orderID string, newStatus models.OrderStatus) (*models.Order, error) {
	var updated models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		order, err := loadOrder(tx, orderID)
		if err != nil {
			return err
		}

		if !order.Status.CanTransitionTo(newStatus) {
			return apperr.Newf(apperr.KindValidation,
				"Cannot change order status from %s to %s", order.Status, newStatus)
		}

		now := time.Now()
		updates := map[string]any{}
		switch newStatus {
		case models.OrderStatusShipped:
			updates["shipped_at"] = now
		case models.OrderStatusDelivered:
			updates["delivered_at"] = now
			if order.PaymentMethod == models.PaymentMethodCOD {
				// Cash collected on delivery.
				updates["is_paid"] = true
				updates["paid_at"] = now
			}
		}

		if err := applyTransition(tx, &order, newStatus, updates); err != nil {
			return err
		}

		restock := (newStatus == models.OrderStatusReturned && RestockOnReturn) ||
			(newStatus == models.OrderStatusCancelled && RestockOnCancel)
		if restock {
			if err := restoreItems(tx, order.Items); err != nil {
				return err
			}
		}

		updated, err = loadOrder(tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	broadcastOrderEvent(updated)
	return &updated, nil
}

// Cancel sets the order to Cancelled. Allowed for the owning user or an admin
// and only while the order is Processing or Shipped. Stock is released only
// when the restock policy is enabled.
func Cancel(db *gorm.DB, orderID, actorID string, isAdmin bool) (*models.Order, error) {
	var updated models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		order, err := loadOrder(tx, orderID)
		if err != nil {
			return err
		}

		if !isAdmin && order.UserID != actorID {
			return apperr.New(apperr.KindUnauthorized, "Not authorized to cancel this order")
		}
		if order.Status != models.OrderStatusProcessing && order.Status != models.OrderStatusShipped {
			return apperr.New(apperr.KindValidation,
				"Cannot cancel an order that is delivered or already cancelled")
		}

		if err := applyTransition(tx, &order, models.OrderStatusCancelled, nil); err != nil {
			return err
		}

		if RestockOnCancel {
			if err := restoreItems(tx, order.Items); err != nil {
				return err
			}
		}

		updated, err = loadOrder(tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	broadcastOrderEvent(updated)
	return &updated, nil
}

// RequestReturn flags a delivered order for return on behalf of its owner and
// records the return details. An admin later accepts it via UpdateStatus.
func RequestReturn(db *gorm.DB, orderID, actorID string, req ReturnOrderRequest) (*models.Order, error) {
	var updated models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		order, err := loadOrder(tx, orderID)
		if err != nil {
			return err
		}

		if order.UserID != actorID {
			return apperr.New(apperr.KindUnauthorized, "Not authorized to return this order")
		}
		if order.Status != models.OrderStatusDelivered {
			return apperr.New(apperr.KindValidation, "Can only return delivered orders")
		}

		now := time.Now()
		updates := map[string]any{
			"return_reason":       req.Reason,
			"return_condition":    req.Condition,
			"return_comment":      req.Comment,
			"return_requested_at": now,
		}
		if err := applyTransition(tx, &order, models.OrderStatusReturnRequested, updates); err != nil {
			return err
		}

		updated, err = loadOrder(tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	broadcastOrderEvent(updated)
	return &updated, nil
}

func restoreItems(tx *gorm.DB, items []models.OrderItem) error {
	for _, item := range items {
		if err := inventory.Restore(tx, item.ProductID, item.Size, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// -------- Handlers --------

// PUT /admin/orders/:orderID/status
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		newStatus, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := UpdateStatus(db, c.Param("orderID"), newStatus)
		if err != nil {
			c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// PUT /orders/:orderID/cancel
func CancelOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := Cancel(db, c.Param("orderID"), c.GetString("user_id"), c.GetString("role") == "admin")
		if err != nil {
			c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// PUT /orders/:orderID/return
func ReturnOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ReturnOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := RequestReturn(db, c.Param("orderID"), c.GetString("user_id"), req)
		if err != nil {
			c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
