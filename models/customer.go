package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CompanyID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_company_phone,priority:1"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name          string `gorm:"not null"`
	ContactPerson string
	Phone         string `gorm:"not null;uniqueIndex:idx_company_phone,priority:2"`
	Email         string
	Address       string
	Notes         string
	TotalContracts int     `gorm:"default:0"`
	TotalBilled    float64 `gorm:"type:decimal(12,2);default:0.0"`
	LastInvoicedAt *time.Time
	IsActive       bool `gorm:"default:true"`

	Contracts []Contract `gorm:"foreignKey:CustomerID"`

	gorm.Model
}
