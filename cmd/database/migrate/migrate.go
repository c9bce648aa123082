package migration

import (
	"fmt"
	"log"

	"freshlens-backend/entities"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Device{}); err != nil {
		log.Fatalf("Error migrating device database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Item{}); err != nil {
		log.Fatalf("Error migrating item database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.SensorLatest{}); err != nil {
		log.Fatalf("Error migrating sensor latest database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.SensorHistoryEntry{}); err != nil {
		log.Fatalf("Error migrating sensor history database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
