// controllers/invoice.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"buildbill-backend/config"
	"buildbill-backend/models"
	"buildbill-backend/services"
	"buildbill-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceLinkInput is one requested line-item link.
type InvoiceLinkInput struct {
	OrderItemID uuid.UUID     `json:"orderItemId" binding:"required"`
	Amount      utils.Numeric `json:"amount"`
}

// CreateInvoiceInput defines the expected JSON structure for creating an
// invoice. Either linkedLineItems (with per-item amounts) or
// linkedLineItemIds (billing each item's full remaining balance) may be
// sent; with links present, invoiceAmount is ignored and forced to the link
// sum.
type CreateInvoiceInput struct {
	InvoiceNumber     string             `json:"invoiceNumber"`
	InvoiceDate       *time.Time         `json:"invoiceDate"`
	InvoiceAmount     utils.Numeric      `json:"invoiceAmount"`
	Status            string             `json:"status" binding:"omitempty,oneof=draft sent paid"`
	Notes             string             `json:"notes"`
	LinkedLineItems   []InvoiceLinkInput `json:"linkedLineItems"`
	LinkedLineItemIDs []uuid.UUID        `json:"linkedLineItemIds"`
}

// UpdateInvoiceInput defines the expected JSON structure for updating an
// invoice. A non-nil empty linkedLineItems list unlinks everything and
// returns the amount to free-form entry: the caller's invoiceAmount if sent
// in the same request, zero otherwise.
type UpdateInvoiceInput struct {
	InvoiceDate     *time.Time          `json:"invoiceDate"`
	InvoiceAmount   *utils.Numeric      `json:"invoiceAmount"`
	Status          *string             `json:"status" binding:"omitempty,oneof=draft sent paid"`
	Notes           *string             `json:"notes"`
	LinkedLineItems *[]InvoiceLinkInput `json:"linkedLineItems"`
}

// freeFormAmount is the invoice amount after every link is removed: the
// caller's value when one came with the request, otherwise zero. The stale
// link sum is never retained past the unlink.
func freeFormAmount(provided *utils.Numeric) float64 {
	if provided != nil {
		return provided.Float()
	}
	return 0
}

// sumInvoiceAmounts totals a set of invoice amounts through decimal so the
// customer stat adjustments stay exact.
func sumInvoiceAmounts(invoices []models.Invoice) float64 {
	total := decimal.Zero
	for _, invoice := range invoices {
		total = total.Add(decimal.NewFromFloat(invoice.Amount))
	}
	return total.InexactFloat64()
}

// alreadyInvoicedByItem sums the billed amounts recorded for each of the
// order's line items on invoices other than excludeInvoiceID.
func alreadyInvoicedByItem(db *gorm.DB, orderID uuid.UUID, excludeInvoiceID uuid.UUID) (map[uuid.UUID]float64, error) {
	type row struct {
		OrderItemID uuid.UUID
		Total       float64
	}
	var rows []row
	err := db.Table("invoice_item_links").
		Select("invoice_item_links.order_item_id, SUM(invoice_item_links.billed_amount) as total").
		Joins("JOIN invoices ON invoices.id = invoice_item_links.invoice_id").
		Where("invoices.order_id = ? AND invoices.id != ? AND invoices.deleted_at IS NULL", orderID, excludeInvoiceID).
		Group("invoice_item_links.order_item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[uuid.UUID]float64, len(rows))
	for _, r := range rows {
		totals[r.OrderItemID] = r.Total
	}
	return totals, nil
}

// resolveLinks validates requested links against the order's items and
// reconciles them: billed amounts clamped to each item's remaining billable,
// invoice amount forced to the link sum.
func resolveLinks(db *gorm.DB, order models.Order, excludeInvoiceID uuid.UUID,
	linkInputs []InvoiceLinkInput, idOnly []uuid.UUID) (services.LinkReconciliation, error) {

	var items []models.OrderLineItem
	if err := db.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
		return services.LinkReconciliation{}, err
	}
	byID := make(map[uuid.UUID]models.OrderLineItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	alreadyInvoiced, err := alreadyInvoicedByItem(db, order.ID, excludeInvoiceID)
	if err != nil {
		return services.LinkReconciliation{}, err
	}

	remaining := make(map[uuid.UUID]float64, len(items))
	for id, item := range byID {
		remaining[id] = services.RemainingBillable(item.ThisBill, alreadyInvoiced[id])
	}

	links := make([]services.LinkInput, 0, len(linkInputs)+len(idOnly))
	for _, in := range linkInputs {
		item, found := byID[in.OrderItemID]
		if !found {
			return services.LinkReconciliation{}, errors.New("line item not found: " + in.OrderItemID.String())
		}
		links = append(links, services.LinkInput{
			OrderItemID:  in.OrderItemID,
			BilledAmount: in.Amount.Float(),
			ItemLabel:    item.ProductService,
		})
	}
	// Id-only links bill the item's full remaining balance.
	for _, id := range idOnly {
		item, found := byID[id]
		if !found {
			return services.LinkReconciliation{}, errors.New("line item not found: " + id.String())
		}
		links = append(links, services.LinkInput{
			OrderItemID:  id,
			BilledAmount: remaining[id],
			ItemLabel:    item.ProductService,
		})
	}

	return services.ReconcileInvoiceLinks(links, remaining), nil
}

// CreateInvoice creates an invoice for an order, optionally linked to line items
func CreateInvoice(c *gin.Context) {
	companyID, userID, ok := companyScope(c)
	if !ok {
		return
	}

	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var input CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var order models.Order
	if err := config.DB.Where("company_id = ? AND id = ?", companyID, orderUUID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	invoiceDate := time.Now()
	if input.InvoiceDate != nil {
		invoiceDate = *input.InvoiceDate
	}

	invoice := models.Invoice{
		ID:              uuid.New(),
		CompanyID:       companyID,
		OrderID:         order.ID,
		CreatedByUserID: userID,
		InvoiceNumber:   input.InvoiceNumber,
		InvoiceDate:     invoiceDate,
		Amount:          input.InvoiceAmount.Float(),
		Status:          "draft",
		Notes:           input.Notes,
	}
	if input.Status != "" {
		invoice.Status = input.Status
	}
	if invoice.Status == "paid" {
		now := time.Now()
		invoice.PaidAt = &now
	}
	if invoice.InvoiceNumber == "" {
		invoice.InvoiceNumber = "INV-" + time.Now().Format("20060102") + "-" + utils.GenerateRandomString(6)
	}

	var notices []string
	if len(input.LinkedLineItems) > 0 || len(input.LinkedLineItemIDs) > 0 {
		rec, err := resolveLinks(config.DB, order, invoice.ID, input.LinkedLineItems, input.LinkedLineItemIDs)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		// Links exist: the invoice amount is not independently editable
		invoice.Amount = rec.InvoiceAmount
		notices = rec.Notices
		for _, link := range rec.Links {
			invoice.Links = append(invoice.Links, models.InvoiceItemLink{
				ID:           uuid.New(),
				OrderItemID:  link.OrderItemID,
				BilledAmount: link.BilledAmount,
			})
		}
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&invoice).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create invoice")
		return
	}

	// Update customer stats
	if err := tx.Model(&models.Customer{}).Where("id = ?", order.CustomerID).
		Updates(map[string]interface{}{
			"total_billed":     gorm.Expr("total_billed + ?", invoice.Amount),
			"last_invoiced_at": invoiceDate,
		}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer stats")
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, gin.H{"invoice": invoice, "notices": notices})
}

// GetOrderInvoices retrieves all invoices of an order
func GetOrderInvoices(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var invoices []models.Invoice
	if err := config.DB.Preload("Links").
		Where("company_id = ? AND order_id = ?", companyID, orderUUID).
		Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// GetInvoices retrieves all invoices for the company
func GetInvoices(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	var invoices []models.Invoice
	if err := config.DB.Preload("Links").
		Where("company_id = ?", companyID).
		Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// GetInvoice retrieves a specific invoice by ID
func GetInvoice(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var invoice models.Invoice
	if err := config.DB.Preload("Links").
		Where("company_id = ? AND id = ?", companyID, invoiceUUID).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// UpdateInvoice updates an invoice; while links exist the amount stays
// forced to the link sum no matter what the caller sends.
func UpdateInvoice(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}
	invoiceUUID, err := uuid.Parse(c.Param("invoiceId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var input UpdateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var order models.Order
	if err := config.DB.Where("company_id = ? AND id = ?", companyID, orderUUID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var invoice models.Invoice
	if err := tx.Preload("Links").
		Where("company_id = ? AND order_id = ? AND id = ?", companyID, orderUUID, invoiceUUID).
		First(&invoice).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	previousAmount := invoice.Amount

	if input.InvoiceDate != nil {
		invoice.InvoiceDate = *input.InvoiceDate
	}
	if input.Status != nil {
		invoice.Status = *input.Status
		if invoice.Status == "paid" && invoice.PaidAt == nil {
			now := time.Now()
			invoice.PaidAt = &now
		}
	}
	if input.Notes != nil {
		invoice.Notes = *input.Notes
	}

	var notices []string

	if input.LinkedLineItems != nil {
		// Replace the link set
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItemLink{}).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to clear existing links")
			return
		}
		invoice.Links = nil

		if len(*input.LinkedLineItems) > 0 {
			rec, err := resolveLinks(tx, order, invoice.ID, *input.LinkedLineItems, nil)
			if err != nil {
				tx.Rollback()
				utils.RespondWithError(c, http.StatusBadRequest, err.Error())
				return
			}
			invoice.Amount = rec.InvoiceAmount
			notices = rec.Notices
			for _, link := range rec.Links {
				invoice.Links = append(invoice.Links, models.InvoiceItemLink{
					ID:           uuid.New(),
					InvoiceID:    invoice.ID,
					OrderItemID:  link.OrderItemID,
					BilledAmount: link.BilledAmount,
				})
			}
		} else {
			// All links removed: back to free-form entry
			invoice.Amount = freeFormAmount(input.InvoiceAmount)
		}
	} else if len(invoice.Links) > 0 {
		// Links untouched: re-assert the invariant rather than trusting the
		// caller's invoiceAmount
		total := 0.0
		for _, link := range invoice.Links {
			total += link.BilledAmount
		}
		invoice.Amount = total
	} else if input.InvoiceAmount != nil {
		invoice.Amount = input.InvoiceAmount.Float()
	}

	if err := tx.Save(&invoice).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update invoice")
		return
	}

	if invoice.Amount != previousAmount {
		if err := tx.Model(&models.Customer{}).Where("id = ?", order.CustomerID).
			Update("total_billed", gorm.Expr("total_billed + ?", invoice.Amount-previousAmount)).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer stats")
			return
		}
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"invoice": invoice, "notices": notices})
}

// DeleteInvoice soft deletes an invoice and its links
func DeleteInvoice(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}
	invoiceUUID, err := uuid.Parse(c.Param("invoiceId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var invoice models.Invoice
	if err := tx.Where("company_id = ? AND order_id = ? AND id = ?", companyID, orderUUID, invoiceUUID).
		First(&invoice).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var order models.Order
	if err := tx.First(&order, "id = ?", invoice.OrderID).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItemLink{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete invoice links")
		return
	}

	if err := tx.Delete(&invoice).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete invoice")
		return
	}

	// Update customer stats (decrement)
	if err := tx.Model(&models.Customer{}).Where("id = ?", order.CustomerID).
		Update("total_billed", gorm.Expr("total_billed - ?", invoice.Amount)).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer stats")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}
