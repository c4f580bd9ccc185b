package main

import (
	"log"
	"net/http"

	"truck_logger/internal/config"
	"truck_logger/internal/controllers"
	"truck_logger/internal/logger"
	"truck_logger/internal/middleware"
	"truck_logger/internal/routes"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	config.InitDB()

	// Geocoding + routing clients
	controllers.InitServices()

	// Setup Gin router (recovery + request logging live there)
	r := routes.SetupRouter()

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	addr := "0.0.0.0:" + config.GetEnv("PORT", "8080")
	log.Println("🚀 Server running at " + addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
