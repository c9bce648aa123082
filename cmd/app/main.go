package main

import (
	"log"

	"freshlens-backend/cmd/config"
	migration "freshlens-backend/cmd/database/migrate"
	"freshlens-backend/internal/utils"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("App setup failed: %v", err)
	}

	port := utils.GetConfig("APP_PORT")
	if port == "" {
		port = "8080"
	}
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
