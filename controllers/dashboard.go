package controllers

import (
	"fmt"
	"net/http"
	"time"

	"buildbill-backend/config"
	"buildbill-backend/models"
	"buildbill-backend/utils"

	"github.com/gin-gonic/gin"
)

type RecentInvoice struct {
	InvoiceNumber string  `json:"invoiceNumber"`
	CustomerName  string  `json:"customerName"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	IssuedLabel   string  `json:"issued"` // e.g. "Today", "Yesterday"
}

type EndingContract struct {
	ContractNumber string `json:"contractNumber"`
	Title          string `json:"title"`
	CustomerName   string `json:"customerName"`
	EndsLabel      string `json:"ends"` // e.g. "Tomorrow", "12 days"
}

func GetDashboardOverview(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	// Total Customers
	var totalCustomers int64
	config.DB.Model(&models.Customer{}).Where("company_id = ? AND deleted_at IS NULL", companyID).Count(&totalCustomers)

	// Active Contracts
	var activeContracts int64
	config.DB.Model(&models.Contract{}).
		Where("company_id = ? AND status = ? AND deleted_at IS NULL", companyID, "active").
		Count(&activeContracts)

	// This Month's billed total
	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var monthlyBilled float64
	config.DB.Model(&models.Invoice{}).
		Where("company_id = ? AND invoice_date >= ? AND deleted_at IS NULL", companyID, firstOfMonth).
		Select("COALESCE(SUM(amount), 0)").Scan(&monthlyBilled)

	// Total Invoices
	var totalInvoices int64
	config.DB.Model(&models.Invoice{}).Where("company_id = ? AND deleted_at IS NULL", companyID).Count(&totalInvoices)

	// Outstanding: sent but not yet paid
	var outstanding float64
	config.DB.Model(&models.Invoice{}).
		Where("company_id = ? AND status = ? AND deleted_at IS NULL", companyID, "sent").
		Select("COALESCE(SUM(amount), 0)").Scan(&outstanding)

	// Recent Invoices (last 5)
	var recentInvoices []RecentInvoice
	rows, err := config.DB.Raw(`
        SELECT i.invoice_number, c.name, i.amount, i.status, i.invoice_date
        FROM invoices i
        JOIN orders o ON o.id = i.order_id
        JOIN customers c ON c.id = o.customer_id
        WHERE i.company_id = ? AND i.deleted_at IS NULL
        ORDER BY i.invoice_date DESC
        LIMIT 5
    `, companyID).Rows()
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var inv RecentInvoice
			var issuedAt time.Time
			rows.Scan(&inv.InvoiceNumber, &inv.CustomerName, &inv.Amount, &inv.Status, &issuedAt)

			daysAgo := utils.DaysBetween(issuedAt, now)
			switch daysAgo {
			case 0:
				inv.IssuedLabel = "Today"
			case 1:
				inv.IssuedLabel = "Yesterday"
			default:
				inv.IssuedLabel = fmt.Sprintf("%d days ago", daysAgo)
			}
			recentInvoices = append(recentInvoices, inv)
		}
	}

	// Contracts ending within 30 days
	var endingContracts []EndingContract
	type contractRow struct {
		ContractNumber string
		Title          string
		CustomerName   string
		EndDate        time.Time
	}
	var ending []contractRow
	config.DB.Raw(`
        SELECT ct.contract_number, ct.title, c.name as customer_name, ct.end_date
        FROM contracts ct
        JOIN customers c ON c.id = ct.customer_id
        WHERE ct.company_id = ? AND ct.deleted_at IS NULL
        AND ct.status = 'active' AND ct.end_date IS NOT NULL
        AND ct.end_date BETWEEN ? AND ?
        ORDER BY ct.end_date ASC
        LIMIT 7
    `, companyID, now, now.AddDate(0, 0, 30)).Scan(&ending)

	for _, row := range ending {
		daysUntil := utils.DaysBetween(now, row.EndDate)
		var label string
		switch daysUntil {
		case 0:
			label = "Today"
		case 1:
			label = "Tomorrow"
		default:
			label = fmt.Sprintf("%d days", daysUntil)
		}
		endingContracts = append(endingContracts, EndingContract{
			ContractNumber: row.ContractNumber,
			Title:          row.Title,
			CustomerName:   row.CustomerName,
			EndsLabel:      label,
		})
	}

	response := gin.H{
		"totalCustomers":  totalCustomers,
		"activeContracts": activeContracts,
		"monthlyBilled":   monthlyBilled,
		"totalInvoices":   totalInvoices,
		"outstanding":     outstanding,
		"recentInvoices":  recentInvoices,
		"endingContracts": endingContracts,
	}

	c.JSON(http.StatusOK, response)
}
