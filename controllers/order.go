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
	"gorm.io/gorm"
)

// CreateOrderInput defines the expected JSON structure for creating an order
type CreateOrderInput struct {
	ContractID  uuid.UUID  `json:"contractId" binding:"required"`
	OrderNumber string     `json:"orderNumber"`
	Title       string     `json:"title" binding:"required"`
	VendorID    *uuid.UUID `json:"vendorId"`
}

// UpdateOrderInput defines the expected JSON structure for updating an order
type UpdateOrderInput struct {
	Title  *string `json:"title"`
	Status *string `json:"status" binding:"omitempty,oneof=open in_progress completed cancelled"`
}

// OrderItemInput is one line item as the dashboard sends it. The numeric
// fields tolerate numbers, numeric strings, empty strings and null. The four
// derived fields may be present in the payload but are ignored: they are
// always recomputed here before anything is stored. Rows that already exist
// come back with their id, which must be kept: invoice links reference items
// by id, so a row that changes identity on save would orphan every link
// against it.
type OrderItemInput struct {
	ID                    *uuid.UUID    `json:"id"`
	Kind                  string        `json:"type"`
	ProductService        string        `json:"productService"`
	Quantity              utils.Numeric `json:"qty"`
	UnitRate              utils.Numeric `json:"rate"`
	Amount                utils.Numeric `json:"amount"`
	ProgressOverallPct    utils.Numeric `json:"progressOverallPct"`
	PreviouslyInvoicedPct utils.Numeric `json:"previouslyInvoicedPct"`
}

// ReplaceOrderItemsInput replaces the full item set; array order is the
// display order.
type ReplaceOrderItemsInput struct {
	Items []OrderItemInput `json:"items" binding:"required"`
}

// CreateOrder creates a new order under a contract
func CreateOrder(c *gin.Context) {
	companyID, userID, ok := companyScope(c)
	if !ok {
		return
	}

	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Validate contract exists in the same company
	var contract models.Contract
	if err := config.DB.Where("company_id = ? AND id = ?", companyID, input.ContractID).
		First(&contract).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Contract not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.VendorID != nil {
		var vendor models.Vendor
		if err := config.DB.Where("company_id = ? AND id = ?", companyID, *input.VendorID).
			First(&vendor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Vendor not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
	}

	order := models.Order{
		ID:              uuid.New(),
		CompanyID:       companyID,
		ContractID:      contract.ID,
		CustomerID:      contract.CustomerID,
		CreatedByUserID: userID,
		OrderNumber:     input.OrderNumber,
		Title:           input.Title,
		Status:          "open",
		VendorID:        input.VendorID,
	}
	if order.OrderNumber == "" {
		order.OrderNumber = "ORD-" + time.Now().Format("20060102") + "-" + utils.GenerateRandomString(6)
	}

	if err := config.DB.Create(&order).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create order")
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetOrders retrieves all orders for the company, optionally filtered by
// contract or vendor.
func GetOrders(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	query := config.DB.Where("company_id = ?", companyID)
	if contractID := c.Query("contractId"); contractID != "" {
		contractUUID, err := uuid.Parse(contractID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid contract ID format")
			return
		}
		query = query.Where("contract_id = ?", contractUUID)
	}
	if vendorID := c.Query("vendorId"); vendorID != "" {
		vendorUUID, err := uuid.Parse(vendorID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid vendor ID format")
			return
		}
		query = query.Where("vendor_id = ?", vendorUUID)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrder retrieves a specific order with its items
func GetOrder(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var order models.Order
	if err := config.DB.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Where("company_id = ? AND id = ?", companyID, orderUUID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, order)
}

// UpdateOrder updates an order's header fields
func UpdateOrder(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var input UpdateOrderInput
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

	if input.Title != nil {
		order.Title = *input.Title
	}
	if input.Status != nil {
		order.Status = *input.Status
	}

	if err := config.DB.Save(&order).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update order")
		return
	}

	c.JSON(http.StatusOK, order)
}

// DeleteOrder soft deletes an order together with its items and invoices;
// the invoices' contribution to the customer's billed total is backed out in
// the same transaction so reports stop counting revenue for a gone order.
func DeleteOrder(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var order models.Order
	if err := tx.Where("company_id = ? AND id = ?", companyID, orderUUID).
		First(&order).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderLineItem{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete order items")
		return
	}

	var invoices []models.Invoice
	if err := tx.Where("order_id = ?", order.ID).Find(&invoices).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if len(invoices) > 0 {
		invoiceIDs := make([]uuid.UUID, 0, len(invoices))
		for _, invoice := range invoices {
			invoiceIDs = append(invoiceIDs, invoice.ID)
		}
		if err := tx.Where("invoice_id IN ?", invoiceIDs).Delete(&models.InvoiceItemLink{}).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete invoice links")
			return
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.Invoice{}).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete invoices")
			return
		}
		if err := tx.Model(&models.Customer{}).Where("id = ?", order.CustomerID).
			Update("total_billed", gorm.Expr("total_billed - ?", sumInvoiceAmounts(invoices))).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer stats")
			return
		}
	}

	if err := tx.Delete(&order).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete order")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}

// AssignVendorInput carries a nullable vendor assignment; null clears it.
type AssignVendorInput struct {
	VendorID *uuid.UUID `json:"vendorId"`
}

// AssignVendor sets or clears the vendor on an order
func AssignVendor(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var input AssignVendorInput
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

	if input.VendorID != nil {
		var vendor models.Vendor
		if err := config.DB.Where("company_id = ? AND id = ?", companyID, *input.VendorID).
			First(&vendor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Vendor not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
	}

	if err := config.DB.Model(&order).Update("vendor_id", input.VendorID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to assign vendor")
		return
	}

	order.VendorID = input.VendorID
	c.JSON(http.StatusOK, order)
}

// GetOrderItems returns the order's line items in display order
func GetOrderItems(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
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

	var items []models.OrderLineItem
	if err := config.DB.Where("order_id = ?", order.ID).
		Order("sort_order ASC").Find(&items).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve items")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// buildLineItems turns raw inputs into model rows: percents are clamped to
// [0,100], the unit rate is derived when missing, and the four derived
// billing fields are recomputed. Array position becomes the sort order.
// Rows carrying an id keep it, so links and already-invoiced totals stay
// attached across a full-set save; rows without one are new and get a fresh
// id.
func buildLineItems(orderID uuid.UUID, inputs []OrderItemInput) []models.OrderLineItem {
	items := make([]models.OrderLineItem, 0, len(inputs))
	for idx, in := range inputs {
		kind := in.Kind
		switch kind {
		case models.ItemKindMainCategory, models.ItemKindSubCategory, models.ItemKindItem:
		default:
			kind = models.ItemKindItem
		}

		id := uuid.New()
		if in.ID != nil && *in.ID != uuid.Nil {
			id = *in.ID
		}

		item := models.OrderLineItem{
			ID:                    id,
			OrderID:               orderID,
			Kind:                  kind,
			ProductService:        in.ProductService,
			Quantity:              in.Quantity.Ptr(),
			Amount:                in.Amount.Float(),
			ProgressOverallPct:    utils.ClampPercent(in.ProgressOverallPct.Ptr()),
			PreviouslyInvoicedPct: utils.ClampPercent(in.PreviouslyInvoicedPct.Ptr()),
			SortOrder:             idx,
		}

		item.UnitRate = services.DeriveUnitRate(item.Amount, item.Quantity, in.UnitRate.Ptr())
		services.ApplyProgressBilling(&item)

		items = append(items, item)
	}
	return items
}

// ReplaceOrderItems replaces the order's full line-item set. The dashboard
// sends the entire table on every save (including drag-drop reorders), so
// the previous rows are discarded and the payload becomes the new truth for
// the three stored inputs; derived fields are recomputed, never taken from
// the payload. Surviving rows are rewritten under their existing ids, which
// keeps invoice links valid through the save.
func ReplaceOrderItems(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var input ReplaceOrderItemsInput
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

	items := buildLineItems(order.ID, input.Items)

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderLineItem{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to clear existing items")
		return
	}

	if len(items) > 0 {
		if err := tx.Create(&items).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save items")
			return
		}
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ImportOrderItems appends line items produced by the external contract
// parsing service to the order, after the current rows. The payload shape is
// identical to the regular item save.
func ImportOrderItems(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var input ReplaceOrderItemsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if len(input.Items) == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "No items to import")
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

	var maxSort int
	config.DB.Model(&models.OrderLineItem{}).
		Where("order_id = ?", order.ID).
		Select("COALESCE(MAX(sort_order), -1)").
		Scan(&maxSort)

	items := buildLineItems(order.ID, input.Items)
	for i := range items {
		// Imported rows are always new; an id in the payload could collide
		// with a row already on the order
		items[i].ID = uuid.New()
		items[i].SortOrder = maxSort + 1 + i
	}

	if err := config.DB.Create(&items).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to import items")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"items": items})
}
