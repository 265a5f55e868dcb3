package userControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hevinpatel19/AURELLE/models"
	"gorm.io/gorm"
)

type AddressInput struct {
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country" binding:"required"`
	Phone      string `json:"phone"`
	IsDefault  bool   `json:"is_default"`
}

// POST /user/address
func AddAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var input AddressInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if input.IsDefault {
				if err := tx.Model(&models.Address{}).
					Where("user_id = ?", userID).
					Update("is_default", false).Error; err != nil {
					return err
				}
			}
			address := models.Address{
				UserID:     userID,
				Address:    input.Address,
				City:       input.City,
				State:      input.State,
				PostalCode: input.PostalCode,
				Country:    input.Country,
				Phone:      input.Phone,
				IsDefault:  input.IsDefault,
			}
			return tx.Create(&address).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add address"})
			return
		}

		var addresses []models.Address
		if err := db.Where("user_id = ?", userID).Find(&addresses).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch addresses"})
			return
		}
		c.JSON(http.StatusCreated, addresses)
	}
}

// DELETE /user/address/:id
func DeleteAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		res := db.Where("user_id = ? AND id = ?", userID, c.Param("id")).
			Delete(&models.Address{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete address"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
	}
}

// PUT /user/address/:id/default
func SetAddressAsDefault(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		err := db.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.Address{}).
				Where("user_id = ? AND id = ?", userID, c.Param("id")).
				Update("is_default", true)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			return tx.Model(&models.Address{}).
				Where("user_id = ? AND id != ?", userID, c.Param("id")).
				Update("is_default", false).Error
		})
		if err != nil {
			notFoundOr500(c, err, "Address not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Default address updated"})
	}
}
