// controllers/export.go
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"buildbill-backend/config"
	"buildbill-backend/models"
	"buildbill-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportInvoicePDF renders an invoice, its order context and linked line
// items as a downloadable PDF.
func ExportInvoicePDF(c *gin.Context) {
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

	var order models.Order
	if err := config.DB.First(&order, "id = ?", invoice.OrderID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	var customer models.Customer
	if err := config.DB.First(&customer, "id = ?", order.CustomerID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	var company models.Company
	if err := config.DB.First(&company, "id = ?", companyID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	// Resolve linked line items for the detail table
	itemLabels := make(map[uuid.UUID]string)
	if len(invoice.Links) > 0 {
		itemIDs := make([]uuid.UUID, 0, len(invoice.Links))
		for _, link := range invoice.Links {
			itemIDs = append(itemIDs, link.OrderItemID)
		}
		var items []models.OrderLineItem
		if err := config.DB.Where("id IN ?", itemIDs).Find(&items).Error; err == nil {
			for _, item := range items {
				itemLabels[item.ID] = item.ProductService
			}
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, company.Name)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, company.Address)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Invoice "+invoice.InvoiceNumber)
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, "Billed to: "+customer.Name)
	pdf.Ln(6)
	pdf.Cell(0, 6, "Order: "+order.OrderNumber+" - "+order.Title)
	pdf.Ln(6)
	pdf.Cell(0, 6, "Date: "+invoice.InvoiceDate.Format("02 Jan 2006"))
	pdf.Ln(10)

	if len(invoice.Links) > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(130, 7, "Line Item", "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, "Billed Amount", "1", 0, "R", false, 0, "")
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 10)
		for _, link := range invoice.Links {
			label := itemLabels[link.OrderItemID]
			if label == "" {
				label = link.OrderItemID.String()
			}
			pdf.CellFormat(130, 7, label, "1", 0, "L", false, 0, "")
			pdf.CellFormat(50, 7, fmt.Sprintf("%.2f", link.BilledAmount), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(130, 9, "Total", "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 9, fmt.Sprintf("%.2f", invoice.Amount), "", 0, "R", false, 0, "")
	pdf.Ln(10)

	if invoice.Notes != "" {
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(0, 5, "Notes: "+invoice.Notes, "", "L", false)
	}

	c.Header("Content-Disposition", `attachment; filename="`+invoice.InvoiceNumber+`.pdf"`)
	c.Header("Content-Type", "application/pdf")
	if err := pdf.Output(c.Writer); err != nil {
		config.LogError(config.GetLogger(), "controllers", "ExportInvoicePDF", "render pdf", invoice.ID, err)
	}
}

// ExportReportXLSX writes the analytics summary into a spreadsheet: a
// summary sheet plus top customers and vendors for the current month.
func ExportReportXLSX(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	rc := ReportController{}
	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastOfMonth := firstOfMonth.AddDate(0, 1, -1)

	monthBilled, err := rc.getBilled(companyID, firstOfMonth, lastOfMonth)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get billed totals")
		return
	}
	yearBilled, err := rc.getBilled(companyID,
		time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()),
		time.Date(now.Year(), 12, 31, 23, 59, 59, 0, now.Location()))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get billed totals")
		return
	}
	topCustomers, err := rc.getTopCustomers(companyID, firstOfMonth, lastOfMonth, 10)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top customers")
		return
	}
	topVendors, err := rc.getTopVendors(companyID, firstOfMonth, lastOfMonth, 10)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top vendors")
		return
	}
	stats, err := rc.getQuickStatistics(companyID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get quick statistics")
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Summary"
	f.SetSheetName("Sheet1", sheet)
	f.SetCellValue(sheet, "A1", "Billing summary "+now.Format("Jan 2006"))
	f.SetCellValue(sheet, "A3", "This month billed")
	f.SetCellValue(sheet, "B3", monthBilled)
	f.SetCellValue(sheet, "A4", "This year billed")
	f.SetCellValue(sheet, "B4", yearBilled)
	f.SetCellValue(sheet, "A5", "Outstanding")
	f.SetCellValue(sheet, "B5", stats.Outstanding)
	f.SetCellValue(sheet, "A6", "Active contracts")
	f.SetCellValue(sheet, "B6", stats.ActiveContracts)
	f.SetCellValue(sheet, "A7", "Total invoices")
	f.SetCellValue(sheet, "B7", stats.TotalInvoices)
	f.SetCellValue(sheet, "A8", "Average invoice value")
	f.SetCellValue(sheet, "B8", stats.AvgInvoiceValue)

	custSheet := "Top Customers"
	f.NewSheet(custSheet)
	f.SetCellValue(custSheet, "A1", "Customer")
	f.SetCellValue(custSheet, "B1", "Invoices")
	f.SetCellValue(custSheet, "C1", "Billed")
	for i, cust := range topCustomers {
		row := i + 2
		f.SetCellValue(custSheet, fmt.Sprintf("A%d", row), cust.Name)
		f.SetCellValue(custSheet, fmt.Sprintf("B%d", row), cust.Invoices)
		f.SetCellValue(custSheet, fmt.Sprintf("C%d", row), cust.Billed)
	}

	vendorSheet := "Top Vendors"
	f.NewSheet(vendorSheet)
	f.SetCellValue(vendorSheet, "A1", "Vendor")
	f.SetCellValue(vendorSheet, "B1", "Orders")
	f.SetCellValue(vendorSheet, "C1", "Billed")
	for i, vendor := range topVendors {
		row := i + 2
		f.SetCellValue(vendorSheet, fmt.Sprintf("A%d", row), vendor.Name)
		f.SetCellValue(vendorSheet, fmt.Sprintf("B%d", row), vendor.Orders)
		f.SetCellValue(vendorSheet, fmt.Sprintf("C%d", row), vendor.Billed)
	}

	c.Header("Content-Disposition", `attachment; filename="billing-report-`+now.Format("2006-01")+`.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		config.LogError(config.GetLogger(), "controllers", "ExportReportXLSX", "write workbook", companyID, err)
	}
}
