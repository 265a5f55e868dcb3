package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/hevinpatel19/AURELLE/controllers/cart"
	productcontroller "github.com/hevinpatel19/AURELLE/controllers/product"
	userControllers "github.com/hevinpatel19/AURELLE/controllers/user"
	"github.com/hevinpatel19/AURELLE/middleware"
	"gorm.io/gorm"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		// ──────────────── User Profile ────────────────
		userGroup.GET("/profile", userControllers.GetProfile(db))
		userGroup.PUT("/profile", userControllers.UpdateProfile(db))

		// ──────────────── Address Book ────────────────
		userGroup.POST("/address", userControllers.AddAddress(db))
		userGroup.DELETE("/address/:id", userControllers.DeleteAddress(db))
		userGroup.PUT("/address/:id/default", userControllers.SetAddressAsDefault(db))

		// ──────────────── Wishlist ────────────────
		userGroup.GET("/wishlist", userControllers.GetWishlist(db))
		userGroup.POST("/wishlist", userControllers.AddToWishlist(db))
		userGroup.DELETE("/wishlist/:product_id", userControllers.RemoveFromWishlist(db))

		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetCart(db))
			cartGroup.POST("/", cartControllers.AddToCart(db))
			cartGroup.POST("/update", cartControllers.UpdateCartQuantity(db))
			cartGroup.DELETE("/:product_id", cartControllers.RemoveFromCart(db))
		}

		// ──────────────── Browse Products ────────────────
		userGroup.GET("/products", productcontroller.GetProducts(db))
		userGroup.GET("/products/:id", productcontroller.GetProductByID(db))
		userGroup.GET("/categories", productcontroller.GetAllCategories(db))

		// ──────────────── Product Reviews ────────────────
		userGroup.POST("/products/:id/reviews", productcontroller.CreateProductReview(db))
		userGroup.DELETE("/products/:id/reviews/:review_id", productcontroller.DeleteProductReview(db))
	}
}
