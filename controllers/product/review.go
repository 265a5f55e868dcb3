package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hevinpatel19/AURELLE/apperr"
	"github.com/hevinpatel19/AURELLE/models"
	"gorm.io/gorm"
)

// -------- Core Logic --------

// AddReview records a review for a product under the reviewer's profile name
// and refreshes the product's denormalized rating and review count.
func AddReview(db *gorm.DB, productID, userID string, rating int, comment string) (*models.Review, error) {
	var created models.Review
	err := db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.KindNotFound, "Product not found")
			}
			return err
		}

		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.KindNotFound, "User not found")
			}
			return err
		}

		created = models.Review{
			ProductID: product.ID,
			UserID:    userID,
			Name:      user.Name,
			Rating:    rating,
			Comment:   comment,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}
		return recomputeReviewStats(tx, product.ID)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// RemoveReview deletes the given review if it belongs to the caller and
// refreshes the product's rating and review count.
func RemoveReview(db *gorm.DB, productID, reviewID, userID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.KindNotFound, "Product not found")
			}
			return err
		}

		var review models.Review
		if err := tx.Where("id = ? AND product_id = ?", reviewID, product.ID).
			First(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.KindNotFound, "Review not found")
			}
			return err
		}
		if review.UserID != userID {
			return apperr.New(apperr.KindUnauthorized, "Not authorized to delete this review")
		}

		if err := tx.Delete(&review).Error; err != nil {
			return err
		}
		return recomputeReviewStats(tx, product.ID)
	})
}

// recomputeReviewStats rewrites num_reviews and the average rating from the
// surviving review rows; a product with no reviews goes back to zero.
func recomputeReviewStats(tx *gorm.DB, productID uint) error {
	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"num_reviews": gorm.Expr(
				"(SELECT COUNT(*) FROM reviews WHERE product_id = ?)", productID),
			"rating": gorm.Expr(
				"(SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE product_id = ?)", productID),
		}).Error
}

// -------- Handlers --------

type CreateReviewInput struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required"`
}

// POST /user/products/:id/reviews
func CreateProductReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		review, err := AddReview(db, c.Param("id"), c.GetString("user_id"), input.Rating, input.Comment)
		if err != nil {
			c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Review added", "review": review})
	}
}

// DELETE /user/products/:id/reviews/:review_id
func DeleteProductReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := RemoveReview(db, c.Param("id"), c.Param("review_id"), c.GetString("user_id"))
		if err != nil {
			c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
	}
}
