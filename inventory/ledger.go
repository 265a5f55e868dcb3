// Package inventory is the sole authority over product and variant stock
// counters. Reservations are conditional UPDATEs ("decrement where stock is
// still sufficient") so that two concurrent shoppers can never oversell a
// counter, and callers wrap multi-line reservations in one transaction to get
// all-or-nothing behaviour across a whole cart.
package inventory

import (
	"errors"
	"fmt"

	"github.com/hevinpatel19/AURELLE/apperr"
	"github.com/hevinpatel19/AURELLE/models"
	"gorm.io/gorm"
)

// ErrProductNotFound reports a reservation against a product that no longer exists.
var ErrProductNotFound = errors.New("product not found")

// InsufficientStockError reports a reservation larger than the remaining stock.
type InsufficientStockError struct {
	ProductName   string
	VariationType string
	Variant       string // empty for simple products
}

func (e *InsufficientStockError) Error() string {
	if e.Variant != "" {
		return fmt.Sprintf("Not enough stock for %s (%s: %s)", e.ProductName, e.VariationType, e.Variant)
	}
	return fmt.Sprintf("Not enough stock for %s", e.ProductName)
}

// VariantRequiredError reports a variant product reserved without a selection.
type VariantRequiredError struct {
	ProductName   string
	VariationType string
}

func (e *VariantRequiredError) Error() string {
	return fmt.Sprintf("Please select a %s for %s", e.VariationType, e.ProductName)
}

// VariantNotFoundError reports a selection that matches no variant of the product.
type VariantNotFoundError struct {
	ProductName   string
	VariationType string
	Variant       string
}

func (e *VariantNotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not available for %s", e.VariationType, e.Variant, e.ProductName)
}

// Reserve atomically checks and decrements stock for one line. For variant
// products size selects the variant and must match an existing value; for
// simple products size must be empty. The check-then-decrement is a single
// conditional UPDATE, so concurrent reservations against the same counter
// serialize at the database and the loser observes insufficient stock.
//
// Callers running multi-line orders must pass the transaction handle so a
// later line's failure rolls back earlier decrements.
func Reserve(tx *gorm.DB, product *models.Product, size string, quantity int) error {
	if quantity <= 0 {
		return apperr.Newf(apperr.KindValidation, "quantity must be positive for %s", product.Name)
	}

	if product.HasVariations {
		if size == "" {
			return apperr.Wrap(apperr.KindValidation, &VariantRequiredError{
				ProductName:   product.Name,
				VariationType: product.VariationType,
			})
		}

		res := tx.Model(&models.ProductVariant{}).
			Where("product_id = ? AND value = ? AND stock >= ?", product.ID, size, quantity).
			Update("stock", gorm.Expr("stock - ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Distinguish an unknown variant from one that ran dry.
			var count int64
			if err := tx.Model(&models.ProductVariant{}).
				Where("product_id = ? AND value = ?", product.ID, size).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return apperr.Wrap(apperr.KindValidation, &VariantNotFoundError{
					ProductName:   product.Name,
					VariationType: product.VariationType,
					Variant:       size,
				})
			}
			return apperr.Wrap(apperr.KindValidation, &InsufficientStockError{
				ProductName:   product.Name,
				VariationType: product.VariationType,
				Variant:       size,
			})
		}
		return recomputeCount(tx, product.ID)
	}

	res := tx.Model(&models.Product{}).
		Where("id = ? AND count_in_stock >= ?", product.ID, quantity).
		Update("count_in_stock", gorm.Expr("count_in_stock - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperr.Wrap(apperr.KindNotFound, fmt.Errorf("%w: %s", ErrProductNotFound, product.Name))
		}
		return apperr.Wrap(apperr.KindValidation, &InsufficientStockError{ProductName: product.Name})
	}
	return nil
}

// Restore reverses a prior reservation, e.g. when a cancelled or returned
// order releases its inventory. Restoring stock for a product or variant
// deleted since purchase is a silent no-op.
func Restore(tx *gorm.DB, productID uint, size string, quantity int) error {
	if quantity <= 0 {
		return apperr.New(apperr.KindValidation, "quantity must be positive")
	}

	if size != "" {
		res := tx.Model(&models.ProductVariant{}).
			Where("product_id = ? AND value = ?", productID, size).
			Update("stock", gorm.Expr("stock + ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return recomputeCount(tx, productID)
	}

	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Update("count_in_stock", gorm.Expr("count_in_stock + ?", quantity)).Error
}

// recomputeCount rewrites the product's aggregate counter as the sum of its
// variant stocks.
func recomputeCount(tx *gorm.DB, productID uint) error {
	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Update("count_in_stock", gorm.Expr(
			"(SELECT COALESCE(SUM(stock), 0) FROM product_variants WHERE product_id = ?)", productID,
		)).Error
}
