package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/hevinpatel19/AURELLE/controllers/order"
	"github.com/hevinpatel19/AURELLE/middleware"
	"gorm.io/gorm"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB) {
	// websocket endpoint for real-time order updates
	r.GET("/orders/ws", orderControllers.OrderWebSocketHandler)

	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken)
	{
		// Place a new order from the caller's cart
		orders.POST("/", orderControllers.PlaceOrderHandler(db))

		// Order history for the logged-in user
		orders.GET("/myorders", orderControllers.GetMyOrdersHandler(db))

		// Single order by id or order_ref (owner or admin)
		orders.GET("/:orderID", orderControllers.GetOrderByIDHandler(db))

		// User actions (cancel & return)
		orders.PUT("/:orderID/cancel", orderControllers.CancelOrderHandler(db))
		orders.PUT("/:orderID/return", orderControllers.ReturnOrderHandler(db))
	}
}
