package orderControllers

import (
	"strconv"
	"testing"

	"github.com/hevinpatel19/AURELLE/apperr"
	"github.com/hevinpatel19/AURELLE/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedOrder(t *testing.T, db *gorm.DB, userID string, status models.OrderStatus, items ...models.OrderItem) models.Order {
	t.Helper()

	order := models.Order{
		OrderRef: generateOrderRef(),
		UserID:   userID,
		Items:    items,
		ShippingAddress: models.ShippingAddress{
			Address: "12 Rose Lane", City: "Pune", PostalCode: "411001", Country: "India",
		},
		PaymentMethod: models.PaymentMethodCard,
		TotalPrice:    50.0,
		Status:        status,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func orderID(o models.Order) string { return strconv.Itoa(int(o.ID)) }

func TestUpdateStatusStampsShippedAndDelivered(t *testing.T) {
	db := openTestDB(t)
	order := seedOrder(t, db, "u1", models.OrderStatusProcessing)

	updated, err := UpdateStatus(db, orderID(order), models.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)
	require.NotNil(t, updated.ShippedAt)
	assert.Nil(t, updated.DeliveredAt)

	updated, err = UpdateStatus(db, orderID(order), models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, updated.Status)
	require.NotNil(t, updated.DeliveredAt)
	// Card orders stay with their original payment state.
	assert.False(t, updated.IsPaid)
}

func TestUpdateStatusMarksCODPaidOnDelivery(t *testing.T) {
	db := openTestDB(t)
	order := seedOrder(t, db, "u1", models.OrderStatusShipped)
	require.NoError(t, db.Model(&order).Update("payment_method", models.PaymentMethodCOD).Error)

	updated, err := UpdateStatus(db, orderID(order), models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.True(t, updated.IsPaid)
	require.NotNil(t, updated.PaidAt)
}

func TestUpdateStatusRejectsIllegalTransitions(t *testing.T) {
	db := openTestDB(t)

	cases := []struct {
		from models.OrderStatus
		to   models.OrderStatus
	}{
		{models.OrderStatusProcessing, models.OrderStatusDelivered}, // must ship first
		{models.OrderStatusDelivered, models.OrderStatusShipped},
		{models.OrderStatusCancelled, models.OrderStatusShipped},
		{models.OrderStatusReturned, models.OrderStatusProcessing},
		{models.OrderStatusDelivered, models.OrderStatusReturned}, // needs a return request
	}
	for _, tc := range cases {
		order := seedOrder(t, db, "u1", tc.from)
		_, err := UpdateStatus(db, orderID(order), tc.to)
		require.Errorf(t, err, "%s -> %s should be rejected", tc.from, tc.to)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	}
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	db := openTestDB(t)

	_, err := UpdateStatus(db, "12345", models.OrderStatusShipped)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCancelFromProcessingAndShipped(t *testing.T) {
	db := openTestDB(t)

	for _, status := range []models.OrderStatus{models.OrderStatusProcessing, models.OrderStatusShipped} {
		order := seedOrder(t, db, "u1", status)
		updated, err := Cancel(db, orderID(order), "u1", false)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusCancelled, updated.Status)
	}
}

func TestCancelRejectedFromDeliveredAndCancelled(t *testing.T) {
	db := openTestDB(t)

	for _, status := range []models.OrderStatus{models.OrderStatusDelivered, models.OrderStatusCancelled} {
		order := seedOrder(t, db, "u1", status)
		_, err := Cancel(db, orderID(order), "u1", false)
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		assert.Equal(t, "Cannot cancel an order that is delivered or already cancelled", err.Error())
	}
}

func TestCancelByNonOwnerIsUnauthorized(t *testing.T) {
	db := openTestDB(t)
	order := seedOrder(t, db, "u1", models.OrderStatusProcessing)

	_, err := Cancel(db, orderID(order), "intruder", false)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	// An admin may cancel on the user's behalf.
	updated, err := Cancel(db, orderID(order), "admin-1", true)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, updated.Status)
}

func TestCancelDoesNotRestockByDefault(t *testing.T) {
	db := openTestDB(t)
	shirt := seedVariantProduct(t, db, "shirt", 40.0, map[string]int{"M": 5})
	addToCart(t, db, "u1", shirt.ID, "M", 2)
	order, err := PlaceOrder(db, "u1", placeOrderReq())
	require.NoError(t, err)
	require.Equal(t, 3, variantStock(t, db, shirt.ID, "M"))

	_, err = Cancel(db, orderID(*order), "u1", false)
	require.NoError(t, err)

	// Source-compatible default: cancellation does not release inventory.
	assert.Equal(t, 3, variantStock(t, db, shirt.ID, "M"))
}

func TestCancelRestocksWhenPolicyEnabled(t *testing.T) {
	db := openTestDB(t)
	RestockOnCancel = true
	defer func() { RestockOnCancel = false }()

	shirt := seedVariantProduct(t, db, "shirt", 40.0, map[string]int{"M": 5})
	mug := seedSimpleProduct(t, db, "mug", 10.0, 4)
	addToCart(t, db, "u1", shirt.ID, "M", 2)
	addToCart(t, db, "u1", mug.ID, "", 1)
	order, err := PlaceOrder(db, "u1", placeOrderReq())
	require.NoError(t, err)
	require.Equal(t, 3, variantStock(t, db, shirt.ID, "M"))
	require.Equal(t, 3, productCount(t, db, mug.ID))

	_, err = Cancel(db, orderID(*order), "u1", false)
	require.NoError(t, err)

	assert.Equal(t, 5, variantStock(t, db, shirt.ID, "M"))
	assert.Equal(t, 5, productCount(t, db, shirt.ID))
	assert.Equal(t, 4, productCount(t, db, mug.ID))
}

func TestRequestReturnOnlyFromDelivered(t *testing.T) {
	db := openTestDB(t)
	req := ReturnOrderRequest{Reason: "Damaged", Condition: "Opened", Comment: "Cracked handle"}

	for _, status := range []models.OrderStatus{
		models.OrderStatusProcessing, models.OrderStatusShipped, models.OrderStatusCancelled,
	} {
		order := seedOrder(t, db, "u1", status)
		_, err := RequestReturn(db, orderID(order), "u1", req)
		require.Error(t, err)
		assert.Equal(t, "Can only return delivered orders", err.Error())
	}

	order := seedOrder(t, db, "u1", models.OrderStatusDelivered)
	updated, err := RequestReturn(db, orderID(order), "u1", req)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusReturnRequested, updated.Status)
	assert.Equal(t, "Damaged", updated.ReturnInfo.Reason)
	assert.Equal(t, "Opened", updated.ReturnInfo.Condition)
	assert.Equal(t, "Cracked handle", updated.ReturnInfo.Comment)
	require.NotNil(t, updated.ReturnInfo.RequestedAt)
}

func TestRequestReturnByNonOwnerIsUnauthorized(t *testing.T) {
	db := openTestDB(t)
	order := seedOrder(t, db, "u1", models.OrderStatusDelivered)

	_, err := RequestReturn(db, orderID(order), "intruder", ReturnOrderRequest{Reason: "x"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestAdminAcceptsReturnViaUpdateStatus(t *testing.T) {
	db := openTestDB(t)
	order := seedOrder(t, db, "u1", models.OrderStatusDelivered)

	_, err := RequestReturn(db, orderID(order), "u1", ReturnOrderRequest{Reason: "Wrong size"})
	require.NoError(t, err)

	updated, err := UpdateStatus(db, orderID(order), models.OrderStatusReturned)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusReturned, updated.Status)
}

func TestReturnRestocksWhenPolicyEnabled(t *testing.T) {
	db := openTestDB(t)
	RestockOnReturn = true
	defer func() { RestockOnReturn = false }()

	shirt := seedVariantProduct(t, db, "shirt", 40.0, map[string]int{"M": 5})
	order := seedOrder(t, db, "u1", models.OrderStatusDelivered, models.OrderItem{
		ProductID: shirt.ID, Name: "shirt", Price: 40.0, Quantity: 2, Size: "M",
	})

	_, err := RequestReturn(db, orderID(order), "u1", ReturnOrderRequest{Reason: "Wrong size"})
	require.NoError(t, err)

	_, err = UpdateStatus(db, orderID(order), models.OrderStatusReturned)
	require.NoError(t, err)

	assert.Equal(t, 7, variantStock(t, db, shirt.ID, "M"))
	assert.Equal(t, 7, productCount(t, db, shirt.ID))
}

func TestTransitionConflictOnStaleStatus(t *testing.T) {
	db := openTestDB(t)
	order := seedOrder(t, db, "u1", models.OrderStatusProcessing)

	// Another actor ships the order while we still hold the Processing snapshot.
	require.NoError(t, db.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("status", models.OrderStatusShipped).Error)

	err := applyTransition(db, &order, models.OrderStatusCancelled, nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// The concurrent writer's state wins.
	var current models.Order
	require.NoError(t, db.First(&current, order.ID).Error)
	assert.Equal(t, models.OrderStatusShipped, current.Status)
}

func TestTransitionByOrderRef(t *testing.T) {
	db := openTestDB(t)
	order := seedOrder(t, db, "u1", models.OrderStatusProcessing)

	updated, err := UpdateStatus(db, order.OrderRef, models.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)
}
