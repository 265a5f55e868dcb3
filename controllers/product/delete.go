package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hevinpatel19/AURELLE/models"
	"gorm.io/gorm"
)

// DELETE /admin/products/:id
// Soft delete; carts referencing the product self-heal on their next read.
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Delete(&models.Product{}, "id = ?", c.Param("id"))
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}
