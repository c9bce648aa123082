package config

import (
	"context"
	"os"
	"time"

	"freshlens-backend/internal/api/handlers"
	"freshlens-backend/internal/api/routes"
	"freshlens-backend/internal/middleware"
	"freshlens-backend/internal/utils"
	"freshlens-backend/internal/utils/storage"
	"freshlens-backend/pkg/device"
	"freshlens-backend/pkg/item"
	"freshlens-backend/pkg/jwt"
	"freshlens-backend/pkg/mlmodel"
	"freshlens-backend/pkg/notification"
	"freshlens-backend/pkg/refresh"
	"freshlens-backend/pkg/sensor"
	"freshlens-backend/pkg/user"
	"freshlens-backend/pkg/vision"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	modelCache := mlmodel.NewModelCache(s3, utils.GetConfig("MODEL_BLOB_PATH"))
	notifier := notification.NewFCMClient()

	// Repository
	userRepository := user.NewUserRepository(db)
	deviceRepository := device.NewDeviceRepository(db)
	sensorRepository := sensor.NewSensorRepository(db)
	itemRepository := item.NewItemRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService)
	deviceService := device.NewDeviceService(deviceRepository, userRepository)
	sensorService := sensor.NewSensorService(sensorRepository, deviceRepository)
	refreshService := refresh.NewRefreshService(
		itemRepository,
		userRepository,
		sensorService,
		modelCache,
		notifier,
	)
	itemService := item.NewItemService(itemRepository, s3, refreshService)
	visionService := vision.NewVisionService()

	// Background sweeps
	refreshJob := refresh.NewRefreshJob(refreshService, refresh.StaleAfter, 24*time.Hour)
	refreshJob.Start(context.Background())

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	itemHandler := handlers.NewItemHandler(itemService, validator)
	deviceHandler := handlers.NewDeviceHandler(deviceService, sensorService, refreshService, validator)
	visionHandler := handlers.NewVisionHandler(visionService, validator)

	// routes
	routesConfig := routes.Config{
		App:           app,
		UserHandler:   userHandler,
		ItemHandler:   itemHandler,
		DeviceHandler: deviceHandler,
		VisionHandler: visionHandler,
		Middleware:    middlewares,
		JWTService:    jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
