package models

import (
	"github.com/google/uuid"
)

type Company struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	Name    string    `gorm:"not null"`
	Address string
	Phone   string
	Email   string

	Settings             JSONB `gorm:"type:jsonb;default:'{}'"`
	OverdueReminders     bool  `gorm:"default:true"`
	WhatsAppNotifications bool `gorm:"default:false"`
	SMSNotifications     bool  `gorm:"default:false"`

	Users             []User             `gorm:"foreignKey:CompanyID"`
	Customers         []Customer         `gorm:"foreignKey:CompanyID"`
	Vendors           []Vendor           `gorm:"foreignKey:CompanyID"`
	Contracts         []Contract         `gorm:"foreignKey:CompanyID"`
	Invoices          []Invoice          `gorm:"foreignKey:CompanyID"`
	ReminderTemplates []ReminderTemplate `gorm:"foreignKey:CompanyID"`
}
