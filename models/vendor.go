package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Vendor struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name          string `gorm:"not null"`
	Trade         string `gorm:"default:'General'"` // e.g. electrical, plumbing, concrete
	ContactPerson string
	Phone         string
	Email         string
	Notes         string
	IsActive      bool `gorm:"default:true"`

	Orders []Order `gorm:"foreignKey:VendorID"`

	gorm.Model
}
