package cartControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hevinpatel19/AURELLE/apperr"
	"github.com/hevinpatel19/AURELLE/models"
	"gorm.io/gorm"
)

// CartLine is one cart entry with live product data joined at read time.
// Prices here follow the catalog; they are only frozen at order placement.
type CartLine struct {
	ProductID     uint    `json:"product_id"`
	Name          string  `json:"name"`
	Image         string  `json:"image"`
	Price         float64 `json:"price"`
	HasVariations bool    `json:"has_variations"`
	VariationType string  `json:"variation_type"`
	Size          string  `json:"size"`
	Quantity      int     `json:"quantity"`
	InStock       int     `json:"in_stock"`
}

// -------- Core Logic --------

// AddLine puts quantity of (product, size) into the user's cart. Adding an
// existing (product, size) combination sums quantities instead of creating a
// second line. A zero quantity defaults to 1.
func AddLine(db *gorm.DB, userID string, productID uint, size string, quantity int) (models.CartItem, error) {
	if quantity < 0 {
		return models.CartItem{}, apperr.New(apperr.KindValidation, "quantity cannot be negative")
	}
	if quantity == 0 {
		quantity = 1
	}

	var product models.Product
	if err := db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CartItem{}, apperr.New(apperr.KindNotFound, "Product does not exist")
		}
		return models.CartItem{}, err
	}

	var item models.CartItem
	err := db.Where("user_id = ? AND product_id = ? AND size = ?", userID, productID, size).
		First(&item).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{
			UserID:    userID,
			ProductID: productID,
			Size:      size,
			Quantity:  quantity,
			AddedAt:   time.Now(),
		}
		if err := db.Create(&item).Error; err != nil {
			return models.CartItem{}, err
		}
	case err != nil:
		return models.CartItem{}, err
	default:
		item.Quantity += quantity
		item.AddedAt = time.Now()
		if err := db.Save(&item).Error; err != nil {
			return models.CartItem{}, err
		}
	}
	return item, nil
}

// UpdateQuantity replaces the quantity of an existing line; a quantity of
// zero or less removes the line.
func UpdateQuantity(db *gorm.DB, userID string, productID uint, size string, newQuantity int) error {
	var item models.CartItem
	err := db.Where("user_id = ? AND product_id = ? AND size = ?", userID, productID, size).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.KindNotFound, "Item not found in cart")
	}
	if err != nil {
		return err
	}

	if newQuantity <= 0 {
		return db.Delete(&item).Error
	}
	item.Quantity = newQuantity
	return db.Save(&item).Error
}

// RemoveLine deletes the line matching both product and size. Matching on
// product id alone would delete sibling variant lines, so the size must be
// an exact match.
func RemoveLine(db *gorm.DB, userID string, productID uint, size string) error {
	res := db.Where("user_id = ? AND product_id = ? AND size = ?", userID, productID, size).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "Cart item not found")
	}
	return nil
}

// Snapshot returns the user's cart lines in insertion order with live product
// data populated. Lines whose product has been deleted from the catalog are
// dropped from the result and from the stored cart (self-healing read).
func Snapshot(db *gorm.DB, userID string) ([]CartLine, error) {
	var items []models.CartItem
	if err := db.Where("user_id = ?", userID).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}

	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		var product models.Product
		err := db.First(&product, "id = ?", item.ProductID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Product deleted while sitting in the cart; drop the stale line.
			if err := db.Delete(&models.CartItem{}, item.ID).Error; err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, err
		}

		lines = append(lines, CartLine{
			ProductID:     product.ID,
			Name:          product.Name,
			Image:         product.Image,
			Price:         product.Price,
			HasVariations: product.HasVariations,
			VariationType: product.VariationType,
			Size:          item.Size,
			Quantity:      item.Quantity,
			InStock:       product.CountInStock,
		})
	}
	return lines, nil
}

// Clear empties the cart. Called by the order materializer on success, never
// by read paths.
func Clear(db *gorm.DB, userID string) error {
	return db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}

// -------- Handlers --------

type AddToCartInput struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
}

type UpdateQuantityInput struct {
	ProductID   uint   `json:"product_id" binding:"required"`
	NewQuantity int    `json:"new_quantity"`
	Size        string `json:"size"`
}

// POST /user/cart
func AddToCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var input AddToCartInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if _, err := AddLine(db, userID, input.ProductID, input.Size, input.Quantity); err != nil {
			c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		respondWithCart(c, db, userID)
	}
}

// POST /user/cart/update
func UpdateCartQuantity(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var input UpdateQuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if err := UpdateQuantity(db, userID, input.ProductID, input.Size, input.NewQuantity); err != nil {
			c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		respondWithCart(c, db, userID)
	}
}

// DELETE /user/cart/:product_id?size=M
func RemoveFromCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}

		if err := RemoveLine(db, userID, uint(productID), c.Query("size")); err != nil {
			c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// GET /user/cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		respondWithCart(c, db, c.GetString("user_id"))
	}
}

// GET /admin/user-cart/:user_id
func GetAdminUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}
		respondWithCart(c, db, userID)
	}
}

func respondWithCart(c *gin.Context, db *gorm.DB, userID string) {
	lines, err := Snapshot(db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}
	c.JSON(http.StatusOK, lines)
}
