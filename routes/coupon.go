package routes

import (
	"github.com/gin-gonic/gin"
	couponControllers "github.com/hevinpatel19/AURELLE/controllers/coupon"
	"gorm.io/gorm"
)

func SetupCouponRoutes(r *gin.Engine, db *gorm.DB) {
	// Validation is called by the checkout page before login state is settled,
	// so it stays public like the rest of the catalog reads.
	r.POST("/coupons/validate", couponControllers.ValidateCoupon(db))
}
