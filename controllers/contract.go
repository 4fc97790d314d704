package controllers

import (
	"errors"
	"net/http"
	"time"

	"buildbill-backend/config"
	"buildbill-backend/models"
	"buildbill-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateContractInput defines the expected JSON structure for creating a contract
type CreateContractInput struct {
	CustomerID     uuid.UUID     `json:"customerId" binding:"required"`
	ContractNumber string        `json:"contractNumber"`
	Title          string        `json:"title" binding:"required"`
	Value          utils.Numeric `json:"value"`
	StartDate      *time.Time    `json:"startDate"`
	EndDate        *time.Time    `json:"endDate"`
	Notes          string        `json:"notes"`
}

// UpdateContractInput defines the expected JSON structure for updating a contract
type UpdateContractInput struct {
	CustomerID *uuid.UUID     `json:"customerId"`
	Title      *string        `json:"title"`
	Value      *utils.Numeric `json:"value"`
	Status     *string        `json:"status" binding:"omitempty,oneof=active completed cancelled"`
	StartDate  *time.Time     `json:"startDate"`
	EndDate    *time.Time     `json:"endDate"`
	Notes      *string        `json:"notes"`
}

// CreateContract creates a new contract under a customer
func CreateContract(c *gin.Context) {
	companyID, userID, ok := companyScope(c)
	if !ok {
		return
	}

	var input CreateContractInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Validate customer exists in the same company
	var customer models.Customer
	if err := config.DB.Where("company_id = ? AND id = ?", companyID, input.CustomerID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	contract := models.Contract{
		ID:              uuid.New(),
		CompanyID:       companyID,
		CustomerID:      input.CustomerID,
		CreatedByUserID: userID,
		ContractNumber:  input.ContractNumber,
		Title:           input.Title,
		Value:           input.Value.Float(),
		Status:          "active",
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		Notes:           input.Notes,
	}
	if contract.ContractNumber == "" {
		contract.ContractNumber = "CON-" + time.Now().Format("20060102") + "-" + utils.GenerateRandomString(6)
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&contract).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create contract")
		return
	}

	if err := tx.Model(&models.Customer{}).Where("id = ?", input.CustomerID).
		Update("total_contracts", gorm.Expr("total_contracts + ?", 1)).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer stats")
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, contract)
}

// GetContracts retrieves all contracts for the company, optionally filtered
// by customer.
func GetContracts(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	query := config.DB.Where("company_id = ?", companyID)
	if customerID := c.Query("customerId"); customerID != "" {
		customerUUID, err := uuid.Parse(customerID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
			return
		}
		query = query.Where("customer_id = ?", customerUUID)
	}

	var contracts []models.Contract
	if err := query.Find(&contracts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve contracts")
		return
	}

	c.JSON(http.StatusOK, contracts)
}

// GetContract retrieves a specific contract by ID
func GetContract(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	contractUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid contract ID format")
		return
	}

	var contract models.Contract
	if err := config.DB.Preload("Orders").
		Where("company_id = ? AND id = ?", companyID, contractUUID).
		First(&contract).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Contract not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, contract)
}

// UpdateContract updates an existing contract
func UpdateContract(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	contractUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid contract ID format")
		return
	}

	var input UpdateContractInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var contract models.Contract
	if err := config.DB.Where("company_id = ? AND id = ?", companyID, contractUUID).
		First(&contract).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Contract not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.CustomerID != nil {
		var customer models.Customer
		if err := config.DB.Where("company_id = ? AND id = ?", companyID, *input.CustomerID).
			First(&customer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Customer not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		contract.CustomerID = *input.CustomerID
	}
	if input.Title != nil {
		contract.Title = *input.Title
	}
	if input.Value != nil {
		contract.Value = input.Value.Float()
	}
	if input.Status != nil {
		contract.Status = *input.Status
	}
	if input.StartDate != nil {
		contract.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		contract.EndDate = input.EndDate
	}
	if input.Notes != nil {
		contract.Notes = *input.Notes
	}

	if err := config.DB.Save(&contract).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update contract")
		return
	}

	c.JSON(http.StatusOK, contract)
}

// DeleteContract soft deletes a contract
func DeleteContract(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	contractUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid contract ID format")
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var contract models.Contract
	if err := tx.Where("company_id = ? AND id = ?", companyID, contractUUID).
		First(&contract).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Contract not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := tx.Delete(&contract).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete contract")
		return
	}

	if err := tx.Model(&models.Customer{}).Where("id = ?", contract.CustomerID).
		Update("total_contracts", gorm.Expr("total_contracts - ?", 1)).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer stats")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Contract deleted successfully"})
}
