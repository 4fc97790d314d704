// services/reminder_service.go
package services

import (
	"os"
	"strconv"
	"strings"
	"time"

	"buildbill-backend/config"
	"buildbill-backend/models"
	"buildbill-backend/utils"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewReminderService(db *gorm.DB) *ReminderService {
	// Initialize Twilio client
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", s.SendDailyReminders)

	c.Start()
	config.GetLogger().Info("Payment reminder scheduler started")
}

// overdueAfterDays is how many days an invoice may stay in "sent" before it
// counts as overdue. Configurable per deployment via OVERDUE_AFTER_DAYS.
func overdueAfterDays() int {
	if env := os.Getenv("OVERDUE_AFTER_DAYS"); env != "" {
		if d, err := strconv.Atoi(env); err == nil && d > 0 {
			return d
		}
	}
	return 30
}

func (s *ReminderService) SendDailyReminders() {
	log := config.GetLogger()
	log.Info("Starting daily payment reminder processing...")

	var companies []models.Company
	if err := s.db.Find(&companies, "overdue_reminders = ?", true).Error; err != nil {
		config.LogError(log, "services", "SendDailyReminders", "fetch companies", nil, err)
		return
	}

	for _, company := range companies {
		s.ProcessCompanyReminders(company.ID)
	}

	log.Info("Daily payment reminder processing completed")
}

func (s *ReminderService) ProcessCompanyReminders(companyID uuid.UUID) {
	log := config.GetLogger()

	cutoff := time.Now().AddDate(0, 0, -overdueAfterDays())

	var invoices []models.Invoice
	if err := s.db.Where("company_id = ? AND status = ? AND invoice_date <= ?",
		companyID, "sent", cutoff).Find(&invoices).Error; err != nil {
		config.LogError(log, "services", "ProcessCompanyReminders", "fetch overdue invoices", companyID, err)
		return
	}

	s.sendReminders(companyID, invoices, "overdue")
}

func (s *ReminderService) sendReminders(companyID uuid.UUID, invoices []models.Invoice, reminderType string) {
	log := config.GetLogger()

	// Get active template for this reminder type
	var template models.ReminderTemplate
	if err := s.db.Where("company_id = ? AND type = ? AND is_active = true", companyID, reminderType).
		First(&template).Error; err != nil {
		config.LogError(log, "services", "sendReminders", "no active template for "+reminderType, companyID, err)
		return
	}

	for _, invoice := range invoices {
		// Resolve the customer through the invoice's order
		var order models.Order
		if err := s.db.First(&order, "id = ?", invoice.OrderID).Error; err != nil {
			config.LogError(log, "services", "sendReminders", "fetch order", invoice.OrderID, err)
			continue
		}
		var customer models.Customer
		if err := s.db.First(&customer, "id = ?", order.CustomerID).Error; err != nil {
			config.LogError(log, "services", "sendReminders", "fetch customer", order.CustomerID, err)
			continue
		}

		// Skip if a reminder for this invoice already went out today
		var sentToday int64
		s.db.Model(&models.ReminderLog{}).
			Where("invoice_id = ? AND status = ? AND sent_at >= ?", invoice.ID, "sent",
				utils.BeginningOfDay(time.Now())).
			Count(&sentToday)
		if sentToday > 0 {
			continue
		}

		// Replace placeholders in the template
		message := strings.ReplaceAll(template.Message, "[CustomerName]", customer.Name)
		message = strings.ReplaceAll(message, "[InvoiceNumber]", invoice.InvoiceNumber)
		message = strings.ReplaceAll(message, "[Amount]", strconv.FormatFloat(invoice.Amount, 'f', 2, 64))

		// Determine channel (WhatsApp if available, else SMS)
		channel := "sms"
		var to string

		if strings.HasPrefix(customer.Phone, "+") {
			to = "whatsapp:" + customer.Phone
			channel = "whatsapp"
		} else {
			to = customer.Phone
		}

		params := &twilioApi.CreateMessageParams{}
		params.SetTo(to)
		params.SetBody(message)

		if channel == "whatsapp" {
			params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
		} else {
			params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
		}

		resp, err := s.client.Api.CreateMessage(params)
		status := "sent"
		errorMsg := ""

		if err != nil {
			config.LogError(log, "services", "sendReminders", "send message", customer.Phone, err)
			status = "failed"
			errorMsg = err.Error()
		} else if resp.Sid != nil {
			log.WithField("sid", *resp.Sid).Info("Reminder sent to " + customer.Phone)
		} else {
			log.Info("Reminder sent to " + customer.Phone + ", but no SID returned")
		}

		reminderLog := models.ReminderLog{
			CompanyID:    companyID,
			CustomerID:   customer.ID,
			InvoiceID:    invoice.ID,
			TemplateID:   template.ID,
			Type:         reminderType,
			Message:      message,
			Status:       status,
			ErrorMessage: errorMsg,
			Channel:      channel,
			SentAt:       time.Now(),
		}

		if err := s.db.Create(&reminderLog).Error; err != nil {
			config.LogError(log, "services", "sendReminders", "log reminder", customer.ID, err)
		}
	}
}
