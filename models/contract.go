package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Contract struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CompanyID       uuid.UUID `gorm:"type:uuid;index;not null"`
	CustomerID      uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index;not null"`

	ContractNumber string `gorm:"uniqueIndex;not null"`
	Title          string `gorm:"not null"`
	Value          float64 `gorm:"type:decimal(12,2);default:0.0"`
	Status         string  `gorm:"type:varchar(20);default:'active'"` // active, completed, cancelled
	StartDate      *time.Time
	EndDate        *time.Time
	Notes          string

	Orders []Order `gorm:"foreignKey:ContractID"`

	gorm.Model
}
