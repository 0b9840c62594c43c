package main

import (
	"log"

	"github.com/rivalsxninjax1/rms/config"
	"github.com/rivalsxninjax1/rms/controllers"
	"github.com/rivalsxninjax1/rms/routes"
	"github.com/rivalsxninjax1/rms/utils"
)

func main() {
	// Initialize logger
	if err := utils.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("Error loading config: %v", err)
		log.Fatal("Error loading config:", err)
	}

	// Initialize database
	config.InitDB()

	// Create sample admin
	if err := controllers.CreateSampleAdmin(); err != nil {
		utils.LogError("Failed to create sample admin: %v", err)
		log.Fatal("Failed to create sample admin:", err)
	}

	// Seed the menu if empty
	if err := controllers.CreateDefaultMenu(); err != nil {
		utils.LogError("Failed to seed default menu: %v", err)
		log.Fatal("Failed to seed default menu:", err)
	}

	// Redis is optional; the menu cache degrades to the database
	if err := config.InitRedis(); err != nil {
		utils.LogError("Redis unavailable, menu cache disabled: %v", err)
	}

	// Set up router; global middleware is attached inside SetupRouter
	// before any route registration
	router := routes.SetupRouter(cfg)

	utils.LogInfo("Server starting on port %s", cfg.Port)
	// Start server
	if err := router.Run(":" + cfg.Port); err != nil {
		utils.LogError("Error starting server: %v", err)
		log.Fatal("Error starting server:", err)
	}
}
