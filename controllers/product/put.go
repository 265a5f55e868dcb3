package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hevinpatel19/AURELLE/models"
	"gorm.io/gorm"
)

type UpdateProductInput struct {
	Name          *string        `json:"name"`
	Description   *string        `json:"description"`
	Details       *string        `json:"details"`
	Image         *string        `json:"image"`
	Price         *float64       `json:"price"`
	CategoryID    *uint          `json:"category_id"`
	HasVariations *bool          `json:"has_variations"`
	VariationType *string        `json:"variation_type"`
	Variants      []VariantInput `json:"variants"` // non-nil replaces the whole variant set
	CountInStock  *int           `json:"count_in_stock"`
	IsFeatured    *bool          `json:"is_featured"`
}

// PUT /admin/products/:id
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if seen := duplicateVariantValue(input.Variants); seen != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Duplicate variant value: " + seen})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			var product models.Product
			if err := tx.Preload("Variants").First(&product, "id = ?", c.Param("id")).Error; err != nil {
				return err
			}

			if input.Name != nil {
				product.Name = *input.Name
			}
			if input.Description != nil {
				product.Description = *input.Description
			}
			if input.Details != nil {
				product.Details = *input.Details
			}
			if input.Image != nil {
				product.Image = *input.Image
			}
			if input.Price != nil {
				product.Price = *input.Price
			}
			if input.CategoryID != nil {
				product.CategoryID = *input.CategoryID
			}
			if input.HasVariations != nil {
				product.HasVariations = *input.HasVariations
			}
			if input.VariationType != nil {
				product.VariationType = *input.VariationType
			}
			if input.CountInStock != nil {
				product.CountInStock = *input.CountInStock
			}
			if input.IsFeatured != nil {
				product.IsFeatured = *input.IsFeatured
			}

			if input.Variants != nil {
				if err := tx.Where("product_id = ?", product.ID).
					Delete(&models.ProductVariant{}).Error; err != nil {
					return err
				}
				product.Variants = nil
				for i, v := range input.Variants {
					product.Variants = append(product.Variants, models.ProductVariant{
						ProductID: product.ID,
						Value:     v.Value,
						Stock:     v.Stock,
						Position:  i,
					})
				}
			}

			// BeforeSave recomputes CountInStock when variants are present.
			return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&product).Error
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}

		var updated models.Product
		if err := db.Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).First(&updated, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}
