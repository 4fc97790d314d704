package main

import (
	"fmt"
	"log"
	"os"

	"buildbill-backend/config"
	"buildbill-backend/models"
	"buildbill-backend/routes"
	"buildbill-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Customer{},
		&models.Vendor{},
		&models.Contract{},
		&models.Order{},
		&models.OrderLineItem{},
		&models.Invoice{},
		&models.InvoiceItemLink{},
		&models.ReminderTemplate{},
		&models.ReminderLog{},
	)
}

func main() {

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	reminderService := services.NewReminderService(config.DB)
	reminderService.StartScheduler()

	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
