package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up User, Order, Coupon and
// Admin route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// User routes (JWT-protected)
	SetupUserRoutes(r, db)

	// Order routes (JWT-protected, cancel/return owner-checked in handlers)
	SetupOrderRoutes(r, db)

	// Coupon validation (public, matches the checkout widget)
	SetupCouponRoutes(r, db)

	// Admin routes (JWT + role gate)
	SetupAdminRoutes(r, db)
}
