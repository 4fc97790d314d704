package controllers

import (
	"net/http"

	"buildbill-backend/config"
	"buildbill-backend/models"
	"buildbill-backend/utils"

	"github.com/gin-gonic/gin"
)

type UpdateCompanyInput struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

type UpdateNotificationsInput struct {
	OverdueReminders      *bool `json:"overdueReminders"`
	WhatsAppNotifications *bool `json:"whatsAppNotifications"`
	SMSNotifications      *bool `json:"smsNotifications"`
}

type UpdateSettingsInput struct {
	Settings models.JSONB `json:"settings" binding:"required"`
}

func GetProfile(c *gin.Context) {
	companyID, userID, ok := companyScope(c)
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	var company models.Company
	if err := config.DB.First(&company, "id = ?", companyID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Company not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":                  user.Name,
		"email":                 user.Email,
		"phone":                 user.Phone,
		"companyName":           company.Name,
		"companyAddress":        company.Address,
		"settings":              company.Settings,
		"overdueReminders":      company.OverdueReminders,
		"whatsAppNotifications": company.WhatsAppNotifications,
		"smsNotifications":      company.SMSNotifications,
	})
}

func UpdateCompanyProfile(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	var input UpdateCompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	var company models.Company
	if err := config.DB.First(&company, "id = ?", companyID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Company not found")
		return
	}

	if input.Name != "" {
		company.Name = input.Name
	}
	if input.Address != "" {
		company.Address = input.Address
	}
	if input.Phone != "" {
		company.Phone = input.Phone
	}
	if input.Email != "" {
		company.Email = input.Email
	}

	if err := config.DB.Save(&company).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update company profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Company profile updated"})
}

func UpdateSettings(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	var input UpdateSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	if err := config.DB.Model(&models.Company{}).Where("id = ?", companyID).
		Update("settings", input.Settings).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Settings updated"})
}

func UpdateNotifications(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	var input UpdateNotificationsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	var company models.Company
	if err := config.DB.First(&company, "id = ?", companyID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Company not found")
		return
	}

	if input.OverdueReminders != nil {
		company.OverdueReminders = *input.OverdueReminders
	}
	if input.WhatsAppNotifications != nil {
		company.WhatsAppNotifications = *input.WhatsAppNotifications
	}
	if input.SMSNotifications != nil {
		company.SMSNotifications = *input.SMSNotifications
	}

	if err := config.DB.Save(&company).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification settings updated"})
}
