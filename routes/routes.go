package routes

import (
	"os"
	"strings"

	"buildbill-backend/config"
	"buildbill-backend/controllers"
	"buildbill-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func allowedOrigins() []string {
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		return strings.Split(env, ",")
	}
	return []string{"http://localhost:3000"}
}

func SetupRouter() *gin.Engine {
	r := gin.Default()

	origins := allowedOrigins()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/:id", controllers.GetCustomer)
			customers.PUT("/:id", controllers.UpdateCustomer)
			customers.DELETE("/:id", controllers.DeleteCustomer)
		}

		// Vendor routes
		vendors := api.Group("/vendors")
		{
			vendors.POST("", controllers.CreateVendor)
			vendors.GET("", controllers.GetVendors)
			vendors.GET("/:id", controllers.GetVendor)
			vendors.PUT("/:id", controllers.UpdateVendor)
			vendors.DELETE("/:id", controllers.DeleteVendor)
		}

		// Contract routes
		contracts := api.Group("/contracts")
		{
			contracts.POST("", controllers.CreateContract)
			contracts.GET("", controllers.GetContracts)
			contracts.GET("/:id", controllers.GetContract)
			contracts.PUT("/:id", controllers.UpdateContract)
			contracts.DELETE("/:id", controllers.DeleteContract)
		}

		// Order routes: line items and invoices live under their order
		orders := api.Group("/orders")
		{
			orders.POST("", controllers.CreateOrder)
			orders.GET("", controllers.GetOrders)
			orders.GET("/:id", controllers.GetOrder)
			orders.PUT("/:id", controllers.UpdateOrder)
			orders.DELETE("/:id", controllers.DeleteOrder)
			orders.PUT("/:id/vendor", controllers.AssignVendor)

			orders.GET("/:id/items", controllers.GetOrderItems)
			orders.PUT("/:id/items", controllers.ReplaceOrderItems)
			orders.POST("/:id/items/import", controllers.ImportOrderItems)

			orders.POST("/:id/invoices", controllers.CreateInvoice)
			orders.GET("/:id/invoices", controllers.GetOrderInvoices)
			orders.PATCH("/:id/invoices/:invoiceId", controllers.UpdateInvoice)
			orders.DELETE("/:id/invoices/:invoiceId", controllers.DeleteInvoice)
		}

		// Company-wide invoice views and exports
		invoices := api.Group("/invoices")
		{
			invoices.GET("", controllers.GetInvoices)
			invoices.GET("/:id", controllers.GetInvoice)
			invoices.GET("/:id/pdf", controllers.ExportInvoicePDF)
		}

		// Reports routes
		reportController := controllers.ReportController{}
		api.GET("/reports", reportController.GetReportAnalytics)
		api.GET("/reports/export", controllers.ExportReportXLSX)

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboardOverview)

		// Reminder routes
		reminders := api.Group("/reminders")
		{
			reminders.POST("/templates", controllers.CreateReminderTemplate)
			reminders.GET("/templates", controllers.GetReminderTemplates)
			reminders.PUT("/templates/:id", controllers.UpdateReminderTemplate)
			reminders.DELETE("/templates/:id", controllers.DeleteReminderTemplate)
			reminders.GET("/logs", controllers.GetReminderLogs)
			reminders.POST("/send", controllers.SendRemindersNow)
		}

		// Settings routes
		profile := api.Group("/profile")
		{
			profile.GET("", controllers.GetProfile)
			profile.PUT("/update-company", controllers.UpdateCompanyProfile)
			profile.PUT("/update-settings", controllers.UpdateSettings)
			profile.PUT("/update-notifications", controllers.UpdateNotifications)
		}
	}

	return r
}
