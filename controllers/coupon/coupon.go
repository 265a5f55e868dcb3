package couponControllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hevinpatel19/AURELLE/apperr"
	"github.com/hevinpatel19/AURELLE/models"
	"gorm.io/gorm"
)

// -------- Core Logic --------

// Validate looks up a coupon case-insensitively and checks that it is active
// and not expired against the wall clock. Expiry is checked at validation
// time only; an already-applied discount is not re-checked at order placement.
func Validate(db *gorm.DB, code string) (models.Coupon, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return models.Coupon{}, apperr.New(apperr.KindValidation, "Invalid Code")
	}

	var coupon models.Coupon
	if err := db.Where("code = ?", normalized).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Coupon{}, apperr.New(apperr.KindValidation, "Invalid Code")
		}
		return models.Coupon{}, err
	}

	if !coupon.IsActive {
		return models.Coupon{}, apperr.New(apperr.KindValidation, "Coupon is no longer active")
	}
	if time.Now().After(coupon.ExpirationDate) {
		return models.Coupon{}, apperr.New(apperr.KindValidation, "Coupon Expired")
	}
	return coupon, nil
}

// -------- Handlers --------

type ValidateCouponInput struct {
	CouponCode string `json:"coupon_code" binding:"required"`
}

type CreateCouponInput struct {
	Code               string    `json:"code" binding:"required"`
	DiscountPercentage int       `json:"discount_percentage" binding:"min=0,max=100"`
	ExpirationDate     time.Time `json:"expiration_date" binding:"required"`
}

// POST /coupons/validate
func ValidateCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ValidateCouponInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		coupon, err := Validate(db, input.CouponCode)
		if err != nil {
			c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":             "Coupon Applied",
			"discount_percentage": coupon.DiscountPercentage,
			"code":                coupon.Code,
		})
	}
}

// POST /admin/coupons
func CreateCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateCouponInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		normalized := strings.ToUpper(strings.TrimSpace(input.Code))

		var existing models.Coupon
		if err := db.Where("code = ?", normalized).First(&existing).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Coupon code already exists"})
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check coupon"})
			return
		}

		coupon := models.Coupon{
			Code:               normalized,
			DiscountPercentage: input.DiscountPercentage,
			ExpirationDate:     input.ExpirationDate,
			IsActive:           true,
		}
		if err := db.Create(&coupon).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create coupon"})
			return
		}
		c.JSON(http.StatusCreated, coupon)
	}
}

// GET /admin/coupons
func GetCoupons(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var coupons []models.Coupon
		if err := db.Order("created_at DESC").Find(&coupons).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch coupons"})
			return
		}
		c.JSON(http.StatusOK, coupons)
	}
}

// DELETE /admin/coupons/:id
func DeleteCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Delete(&models.Coupon{}, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete coupon"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Coupon deleted"})
	}
}
