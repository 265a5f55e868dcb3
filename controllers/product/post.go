package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hevinpatel19/AURELLE/models"
	"gorm.io/gorm"
)

type VariantInput struct {
	Value string `json:"value" binding:"required"` // e.g. "S", "UK 6", "128GB"
	Stock int    `json:"stock" binding:"min=0"`
}

type CreateProductInput struct {
	Name          string         `json:"name" binding:"required"`
	Description   string         `json:"description"`
	Details       string         `json:"details"`
	Image         string         `json:"image" binding:"required"`
	Price         float64        `json:"price" binding:"required"`
	CategoryID    uint           `json:"category_id"`
	HasVariations bool           `json:"has_variations"`
	VariationType string         `json:"variation_type"`
	Variants      []VariantInput `json:"variants"`
	CountInStock  int            `json:"count_in_stock" binding:"min=0"`
	IsFeatured    bool           `json:"is_featured"`
}

// POST /admin/products
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if input.HasVariations && len(input.Variants) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A variant product needs at least one variant"})
			return
		}
		if seen := duplicateVariantValue(input.Variants); seen != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Duplicate variant value: " + seen})
			return
		}

		variationType := input.VariationType
		if variationType == "" {
			variationType = "Size"
		}

		product := models.Product{
			Name:          input.Name,
			Description:   input.Description,
			Details:       input.Details,
			Image:         input.Image,
			Price:         input.Price,
			CategoryID:    input.CategoryID,
			HasVariations: input.HasVariations,
			VariationType: variationType,
			CountInStock:  input.CountInStock,
			IsFeatured:    input.IsFeatured,
		}
		for i, v := range input.Variants {
			product.Variants = append(product.Variants, models.ProductVariant{
				Value:    v.Value,
				Stock:    v.Stock,
				Position: i,
			})
		}

		// BeforeSave recomputes CountInStock from the variants.
		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func duplicateVariantValue(variants []VariantInput) string {
	seen := map[string]bool{}
	for _, v := range variants {
		if seen[v.Value] {
			return v.Value
		}
		seen[v.Value] = true
	}
	return ""
}
