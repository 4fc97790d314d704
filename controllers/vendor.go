package controllers

import (
	"errors"
	"net/http"

	"buildbill-backend/config"
	"buildbill-backend/models"
	"buildbill-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateVendorInput defines the expected JSON structure for creating a vendor
type CreateVendorInput struct {
	Name          string `json:"name" binding:"required"`
	Trade         string `json:"trade"`
	ContactPerson string `json:"contactPerson"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Notes         string `json:"notes"`
}

// UpdateVendorInput defines the expected JSON structure for updating a vendor
type UpdateVendorInput struct {
	Name          *string `json:"name"`
	Trade         *string `json:"trade"`
	ContactPerson *string `json:"contactPerson"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	Notes         *string `json:"notes"`
	IsActive      *bool   `json:"isActive"`
}

// CreateVendor creates a new vendor for the company
func CreateVendor(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	var input CreateVendorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	vendor := models.Vendor{
		ID:            uuid.New(),
		CompanyID:     companyID,
		Name:          input.Name,
		ContactPerson: input.ContactPerson,
		Phone:         input.Phone,
		Email:         input.Email,
		Notes:         input.Notes,
		IsActive:      true,
	}
	if input.Trade != "" {
		vendor.Trade = input.Trade
	}

	if err := config.DB.Create(&vendor).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create vendor")
		return
	}

	c.JSON(http.StatusCreated, vendor)
}

// GetVendors retrieves all vendors for the company
func GetVendors(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	var vendors []models.Vendor
	if err := config.DB.Where("company_id = ?", companyID).Find(&vendors).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve vendors")
		return
	}

	c.JSON(http.StatusOK, vendors)
}

// GetVendor retrieves a specific vendor by ID
func GetVendor(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	vendorUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid vendor ID format")
		return
	}

	var vendor models.Vendor
	if err := config.DB.Where("company_id = ? AND id = ?", companyID, vendorUUID).
		First(&vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Vendor not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, vendor)
}

// UpdateVendor updates an existing vendor
func UpdateVendor(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	vendorUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid vendor ID format")
		return
	}

	var input UpdateVendorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var vendor models.Vendor
	if err := config.DB.Where("company_id = ? AND id = ?", companyID, vendorUUID).
		First(&vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Vendor not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		vendor.Name = *input.Name
	}
	if input.Trade != nil {
		vendor.Trade = *input.Trade
	}
	if input.ContactPerson != nil {
		vendor.ContactPerson = *input.ContactPerson
	}
	if input.Phone != nil {
		if *input.Phone != "" && !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		vendor.Phone = *input.Phone
	}
	if input.Email != nil {
		vendor.Email = *input.Email
	}
	if input.Notes != nil {
		vendor.Notes = *input.Notes
	}
	if input.IsActive != nil {
		vendor.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&vendor).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update vendor")
		return
	}

	c.JSON(http.StatusOK, vendor)
}

// DeleteVendor soft deletes a vendor; orders keep the assignment history
// through the nullable foreign key.
func DeleteVendor(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	vendorUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid vendor ID format")
		return
	}

	result := config.DB.Where("company_id = ? AND id = ?", companyID, vendorUUID).
		Delete(&models.Vendor{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete vendor")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Vendor not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vendor deleted successfully"})
}
