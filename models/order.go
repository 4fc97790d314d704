package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Line item kinds. Category rows are grouping headers and carry no
// financial values; only "item" rows are billable.
const (
	ItemKindMainCategory = "main_category"
	ItemKindSubCategory  = "sub_category"
	ItemKindItem         = "item"
)

type Order struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CompanyID       uuid.UUID `gorm:"type:uuid;index;not null"`
	ContractID      uuid.UUID `gorm:"type:uuid;index;not null"`
	CustomerID      uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index;not null"`

	OrderNumber string `gorm:"uniqueIndex;not null"`
	Title       string `gorm:"not null"`
	Status      string `gorm:"type:varchar(20);default:'open'"` // open, in_progress, completed, cancelled

	VendorID *uuid.UUID `gorm:"type:uuid;index"`

	Items    []OrderLineItem `gorm:"foreignKey:OrderID"`
	Invoices []Invoice       `gorm:"foreignKey:OrderID"`

	gorm.Model
}

// OrderLineItem is one row of an order's billable work breakdown.
// Quantity, UnitRate and the two progress percents are nullable because the
// dashboard sends them empty until the user fills them in. The four derived
// fields are a cache: they are recomputed from (Amount, ProgressOverallPct,
// PreviouslyInvoicedPct) on every write and never trusted as input.
type OrderLineItem struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderID uuid.UUID `gorm:"type:uuid;index;not null" json:"orderId"`

	Kind           string `gorm:"type:varchar(20);default:'item'" json:"type"`
	ProductService string `json:"productService"`

	Quantity *float64 `gorm:"type:decimal(12,2)" json:"qty"`
	UnitRate *float64 `gorm:"type:decimal(12,2)" json:"rate"`
	Amount   float64  `gorm:"type:decimal(12,2);default:0.0" json:"amount"`

	ProgressOverallPct    *float64 `gorm:"type:decimal(5,2)" json:"progressOverallPct"`
	PreviouslyInvoicedPct *float64 `gorm:"type:decimal(5,2)" json:"previouslyInvoicedPct"`

	CompletedAmount          float64 `gorm:"type:decimal(12,2);default:0.0" json:"completedAmount"`
	PreviouslyInvoicedAmount float64 `gorm:"type:decimal(12,2);default:0.0" json:"previouslyInvoicedAmount"`
	NewProgressPct           float64 `gorm:"type:decimal(5,2);default:0.0" json:"newProgressPct"`
	ThisBill                 float64 `gorm:"type:decimal(12,2);default:0.0" json:"thisBill"`

	SortOrder int `gorm:"default:0" json:"sortOrder"`
}

func (i *OrderLineItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
