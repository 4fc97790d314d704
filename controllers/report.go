// controllers/report.go
package controllers

import (
	"net/http"
	"time"

	"buildbill-backend/config"
	"buildbill-backend/models"
	"buildbill-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportController handles all reporting functions
type ReportController struct{}

// AnalyticsSummary represents the analytics data
type AnalyticsSummary struct {
	CurrentMonthBilled   float64           `json:"currentMonthBilled"`
	MonthGrowth          float64           `json:"monthGrowth"`
	CurrentQuarterBilled float64           `json:"currentQuarterBilled"`
	QuarterGrowth        float64           `json:"quarterGrowth"`
	CurrentYearBilled    float64           `json:"currentYearBilled"`
	YearGrowth           float64           `json:"yearGrowth"`
	TopCustomers         []CustomerSummary `json:"topCustomers"`
	TopVendors           []VendorSummary   `json:"topVendors"`
	QuickStats           QuickStatistics   `json:"quickStats"`
}

type CustomerSummary struct {
	Name     string  `json:"name"`
	Invoices int     `json:"invoices"`
	Billed   float64 `json:"billed"`
}

type VendorSummary struct {
	Name   string  `json:"name"`
	Orders int     `json:"orders"`
	Billed float64 `json:"billed"`
}

type QuickStatistics struct {
	TotalCustomers  int     `json:"totalCustomers"`
	ActiveContracts int     `json:"activeContracts"`
	TotalInvoices   int     `json:"totalInvoices"`
	AvgInvoiceValue float64 `json:"avgInvoiceValue"`
	Outstanding     float64 `json:"outstanding"`
}

// GetReportAnalytics returns the complete analytics summary
func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	// Get current time
	now := time.Now()
	currentYear, currentMonth, _ := now.Date()
	currentLocation := now.Location()

	// Calculate date ranges
	firstOfMonth := time.Date(currentYear, currentMonth, 1, 0, 0, 0, 0, currentLocation)
	lastOfMonth := firstOfMonth.AddDate(0, 1, -1)

	currentMonthBilled, err := rc.getBilled(companyID, firstOfMonth, lastOfMonth)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get monthly billed total")
		return
	}

	lastMonthBilled, err := rc.getBilled(companyID,
		firstOfMonth.AddDate(0, -1, 0),
		lastOfMonth.AddDate(0, -1, 0))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last month billed total")
		return
	}

	currentQuarterBilled, err := rc.getBilled(companyID,
		rc.getQuarterStart(now),
		rc.getQuarterEnd(now))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get quarterly billed total")
		return
	}

	lastQuarterBilled, err := rc.getBilled(companyID,
		rc.getQuarterStart(now).AddDate(0, -3, 0),
		rc.getQuarterEnd(now).AddDate(0, -3, 0))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last quarter billed total")
		return
	}

	currentYearBilled, err := rc.getBilled(companyID,
		time.Date(currentYear, 1, 1, 0, 0, 0, 0, currentLocation),
		time.Date(currentYear, 12, 31, 23, 59, 59, 0, currentLocation))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get yearly billed total")
		return
	}

	lastYearBilled, err := rc.getBilled(companyID,
		time.Date(currentYear-1, 1, 1, 0, 0, 0, 0, currentLocation),
		time.Date(currentYear-1, 12, 31, 23, 59, 59, 0, currentLocation))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last year billed total")
		return
	}

	topCustomers, err := rc.getTopCustomers(companyID, firstOfMonth, lastOfMonth, 4)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top customers")
		return
	}

	topVendors, err := rc.getTopVendors(companyID, firstOfMonth, lastOfMonth, 4)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top vendors")
		return
	}

	quickStats, err := rc.getQuickStatistics(companyID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get quick statistics")
		return
	}

	summary := AnalyticsSummary{
		CurrentMonthBilled:   currentMonthBilled,
		MonthGrowth:          rc.calculateGrowthPercentage(currentMonthBilled, lastMonthBilled),
		CurrentQuarterBilled: currentQuarterBilled,
		QuarterGrowth:        rc.calculateGrowthPercentage(currentQuarterBilled, lastQuarterBilled),
		CurrentYearBilled:    currentYearBilled,
		YearGrowth:           rc.calculateGrowthPercentage(currentYearBilled, lastYearBilled),
		TopCustomers:         topCustomers,
		TopVendors:           topVendors,
		QuickStats:           quickStats,
	}

	c.JSON(http.StatusOK, summary)
}

// Helper functions for reports

func (rc *ReportController) getBilled(companyID uuid.UUID, start, end time.Time) (float64, error) {
	var total float64
	err := config.DB.Model(&models.Invoice{}).
		Where("company_id = ? AND invoice_date BETWEEN ? AND ?", companyID, start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (rc *ReportController) getQuarterStart(date time.Time) time.Time {
	quarter := (int(date.Month())-1)/3 + 1
	startMonth := time.Month((quarter-1)*3 + 1)
	return time.Date(date.Year(), startMonth, 1, 0, 0, 0, 0, date.Location())
}

func (rc *ReportController) getQuarterEnd(date time.Time) time.Time {
	return rc.getQuarterStart(date).AddDate(0, 3, -1)
}

func (rc *ReportController) calculateGrowthPercentage(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return ((current - previous) / previous) * 100
}

func (rc *ReportController) getTopCustomers(companyID uuid.UUID, start, end time.Time, limit int) ([]CustomerSummary, error) {
	var customers []CustomerSummary

	err := config.DB.Table("invoices").
		Select("customers.name, COUNT(invoices.id) as invoices, SUM(invoices.amount) as billed").
		Joins("JOIN orders ON orders.id = invoices.order_id").
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Where("invoices.company_id = ? AND invoices.invoice_date BETWEEN ? AND ? AND invoices.deleted_at IS NULL AND customers.deleted_at IS NULL", companyID, start, end).
		Group("customers.name").
		Order("billed DESC").
		Limit(limit).
		Scan(&customers).Error

	return customers, err
}

func (rc *ReportController) getTopVendors(companyID uuid.UUID, start, end time.Time, limit int) ([]VendorSummary, error) {
	var vendors []VendorSummary

	err := config.DB.Table("invoices").
		Select("vendors.name, COUNT(DISTINCT orders.id) as orders, SUM(invoices.amount) as billed").
		Joins("JOIN orders ON orders.id = invoices.order_id").
		Joins("JOIN vendors ON vendors.id = orders.vendor_id").
		Where("invoices.company_id = ? AND invoices.invoice_date BETWEEN ? AND ? AND invoices.deleted_at IS NULL AND vendors.deleted_at IS NULL", companyID, start, end).
		Group("vendors.name").
		Order("billed DESC").
		Limit(limit).
		Scan(&vendors).Error

	return vendors, err
}

func (rc *ReportController) getQuickStatistics(companyID uuid.UUID) (QuickStatistics, error) {
	var stats QuickStatistics

	// Total Customers
	var totalCustomers int64
	if err := config.DB.Model(&models.Customer{}).
		Where("company_id = ? AND deleted_at IS NULL", companyID).
		Count(&totalCustomers).Error; err != nil {
		return stats, err
	}
	stats.TotalCustomers = int(totalCustomers)

	// Active Contracts
	var activeContracts int64
	if err := config.DB.Model(&models.Contract{}).
		Where("company_id = ? AND status = ? AND deleted_at IS NULL", companyID, "active").
		Count(&activeContracts).Error; err != nil {
		return stats, err
	}
	stats.ActiveContracts = int(activeContracts)

	// Total Invoices
	var totalInvoices int64
	if err := config.DB.Model(&models.Invoice{}).
		Where("company_id = ? AND deleted_at IS NULL", companyID).
		Count(&totalInvoices).Error; err != nil {
		return stats, err
	}
	stats.TotalInvoices = int(totalInvoices)

	// Average Invoice Value
	var totalBilled float64
	if err := config.DB.Model(&models.Invoice{}).
		Where("company_id = ? AND deleted_at IS NULL", companyID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalBilled).Error; err != nil {
		return stats, err
	}

	if stats.TotalInvoices > 0 {
		stats.AvgInvoiceValue = totalBilled / float64(stats.TotalInvoices)
	}

	// Outstanding: sent but not yet paid
	if err := config.DB.Model(&models.Invoice{}).
		Where("company_id = ? AND status = ? AND deleted_at IS NULL", companyID, "sent").
		Select("COALESCE(SUM(amount), 0)").
		Scan(&stats.Outstanding).Error; err != nil {
		return stats, err
	}

	return stats, nil
}
