package inventory

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/hevinpatel19/AURELLE/apperr"
	"github.com/hevinpatel19/AURELLE/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.ProductVariant{}))
	return db
}

func createVariantProduct(t *testing.T, db *gorm.DB, stocks map[string]int) models.Product {
	t.Helper()

	product := models.Product{
		Name:          "Linen Shirt",
		Image:         "/img/shirt.jpg",
		Price:         49.0,
		HasVariations: true,
		VariationType: "Size",
	}
	pos := 0
	for _, value := range []string{"S", "M", "L"} {
		stock, ok := stocks[value]
		if !ok {
			continue
		}
		product.Variants = append(product.Variants, models.ProductVariant{
			Value: value, Stock: stock, Position: pos,
		})
		pos++
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func createSimpleProduct(t *testing.T, db *gorm.DB, stock int) models.Product {
	t.Helper()

	product := models.Product{
		Name:         "Ceramic Mug",
		Image:        "/img/mug.jpg",
		Price:        12.5,
		CountInStock: stock,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func variantStock(t *testing.T, db *gorm.DB, productID uint, value string) int {
	t.Helper()
	var variant models.ProductVariant
	require.NoError(t, db.Where("product_id = ? AND value = ?", productID, value).First(&variant).Error)
	return variant.Stock
}

func productCount(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, productID).Error)
	return product.CountInStock
}

func TestReserveVariantDecrementsAndRecomputesTotal(t *testing.T) {
	db := openTestDB(t)
	product := createVariantProduct(t, db, map[string]int{"S": 3, "M": 5})
	require.Equal(t, 8, productCount(t, db, product.ID))

	require.NoError(t, Reserve(db, &product, "M", 2))

	assert.Equal(t, 3, variantStock(t, db, product.ID, "M"))
	assert.Equal(t, 3, variantStock(t, db, product.ID, "S"))
	assert.Equal(t, 6, productCount(t, db, product.ID))
}

func TestReserveSimpleProduct(t *testing.T) {
	db := openTestDB(t)
	product := createSimpleProduct(t, db, 4)

	require.NoError(t, Reserve(db, &product, "", 3))
	assert.Equal(t, 1, productCount(t, db, product.ID))

	err := Reserve(db, &product, "", 2)
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Ceramic Mug", insufficient.ProductName)
	assert.Equal(t, "Not enough stock for Ceramic Mug", err.Error())
	assert.Equal(t, 1, productCount(t, db, product.ID))
}

func TestReserveInsufficientVariantStock(t *testing.T) {
	db := openTestDB(t)
	product := createVariantProduct(t, db, map[string]int{"M": 2})

	err := Reserve(db, &product, "M", 5)
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "M", insufficient.Variant)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "Not enough stock for Linen Shirt (Size: M)", err.Error())

	// Nothing was decremented.
	assert.Equal(t, 2, variantStock(t, db, product.ID, "M"))
}

func TestReserveVariantRequired(t *testing.T) {
	db := openTestDB(t)
	product := createVariantProduct(t, db, map[string]int{"M": 2})

	err := Reserve(db, &product, "", 1)
	var required *VariantRequiredError
	require.ErrorAs(t, err, &required)
	assert.Equal(t, "Please select a Size for Linen Shirt", err.Error())
}

func TestReserveUnknownVariant(t *testing.T) {
	db := openTestDB(t)
	product := createVariantProduct(t, db, map[string]int{"M": 2})

	err := Reserve(db, &product, "XXL", 1)
	var notFound *VariantNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Size 'XXL' not available for Linen Shirt", err.Error())
}

func TestReserveDeletedProduct(t *testing.T) {
	db := openTestDB(t)
	product := createSimpleProduct(t, db, 4)
	require.NoError(t, db.Delete(&models.Product{}, product.ID).Error)

	err := Reserve(db, &product, "", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProductNotFound))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestReserveRejectsNonPositiveQuantity(t *testing.T) {
	db := openTestDB(t)
	product := createSimpleProduct(t, db, 4)

	err := Reserve(db, &product, "", 0)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestRestoreVariantAndTotal(t *testing.T) {
	db := openTestDB(t)
	product := createVariantProduct(t, db, map[string]int{"S": 1, "M": 1})
	require.NoError(t, Reserve(db, &product, "M", 1))

	require.NoError(t, Restore(db, product.ID, "M", 1))
	assert.Equal(t, 1, variantStock(t, db, product.ID, "M"))
	assert.Equal(t, 2, productCount(t, db, product.ID))

	// Restoring against a vanished variant is a no-op.
	require.NoError(t, Restore(db, product.ID, "XL", 1))
	assert.Equal(t, 2, productCount(t, db, product.ID))
}

func TestRestoreSimpleProduct(t *testing.T) {
	db := openTestDB(t)
	product := createSimpleProduct(t, db, 2)
	require.NoError(t, Reserve(db, &product, "", 2))

	require.NoError(t, Restore(db, product.ID, "", 2))
	assert.Equal(t, 2, productCount(t, db, product.ID))
}

// Two shoppers racing for the last units must never oversell: with stock 2
// and two concurrent reservations of 2, exactly one wins and the counter
// lands on zero.
func TestConcurrentReservationsDoNotOversell(t *testing.T) {
	db := openTestDB(t)
	product := createVariantProduct(t, db, map[string]int{"M": 2})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := product
			errs[i] = Reserve(db, &p, "M", 2)
		}(i)
	}
	wg.Wait()

	var succeeded, failed int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			var insufficient *InsufficientStockError
			require.ErrorAs(t, err, &insufficient)
			failed++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 0, variantStock(t, db, product.ID, "M"))
	assert.Equal(t, 0, productCount(t, db, product.ID))
}

func TestManyConcurrentSingleUnitReservations(t *testing.T) {
	db := openTestDB(t)
	const stock = 5
	product := createVariantProduct(t, db, map[string]int{"M": stock})

	const shoppers = 12
	var wg sync.WaitGroup
	errs := make([]error, shoppers)
	for i := 0; i < shoppers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := product
			errs[i] = Reserve(db, &p, "M", 1)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, stock, succeeded)
	assert.Equal(t, 0, variantStock(t, db, product.ID, "M"))
}
