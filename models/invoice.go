package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Invoice struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CompanyID       uuid.UUID `gorm:"type:uuid;index;not null"`
	OrderID         uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index;not null"`

	InvoiceNumber string    `gorm:"uniqueIndex;not null"`
	InvoiceDate   time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// While links exist, Amount is forced to the sum of the linked billed
	// amounts and is not independently editable.
	Amount float64 `gorm:"type:decimal(12,2);not null"`

	Status string `gorm:"type:varchar(20);default:'draft'"` // draft, sent, paid
	PaidAt *time.Time
	Notes  string

	Links []InvoiceItemLink `gorm:"foreignKey:InvoiceID" json:"linkedLineItems"`

	gorm.Model
}

// InvoiceItemLink records how much of an order line item is billed on a
// particular invoice.
type InvoiceItemLink struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID `gorm:"type:uuid;index;not null" json:"invoiceId"`
	OrderItemID uuid.UUID `gorm:"type:uuid;index;not null" json:"orderItemId"`

	BilledAmount float64 `gorm:"type:decimal(12,2);not null" json:"amount"`
}

func (l *InvoiceItemLink) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}
