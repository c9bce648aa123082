package routes

import (
	"freshlens-backend/internal/api/handlers"
	"freshlens-backend/internal/middleware"
	"freshlens-backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App           *fiber.App
	UserHandler   handlers.UserHandler
	ItemHandler   handlers.ItemHandler
	DeviceHandler handlers.DeviceHandler
	VisionHandler handlers.VisionHandler
	Middleware    middleware.Middleware
	JWTService    jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Items()
	c.Devices()
	c.Vision()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/verify", c.UserHandler.VerifyEmail)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Patch("/fcm-token", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateFCMToken)
	}
}

func (c *Config) Items() {
	items := c.App.Group("/api/v1/items", c.Middleware.AuthMiddleware(c.JWTService))

	items.Post("", c.ItemHandler.AddItem)
	items.Get("", c.ItemHandler.GetItems)
	items.Get("/:id", c.ItemHandler.GetItemDetails)
	items.Delete("/:id", c.ItemHandler.DeleteItem)
	items.Post("/image", c.ItemHandler.UploadItemImage)
}

func (c *Config) Devices() {
	devices := c.App.Group("/api/v1/devices", c.Middleware.AuthMiddleware(c.JWTService))

	devices.Post("/register", c.DeviceHandler.RegisterDevice)
	devices.Post("/unregister", c.DeviceHandler.UnregisterDevice)
}

func (c *Config) Vision() {
	visionGroup := c.App.Group("/api/v1/vision", c.Middleware.AuthMiddleware(c.JWTService))

	visionGroup.Post("/annotate", c.VisionHandler.AnnotateImage)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	// Devices authenticate by their id only; the handler rejects unknown or
	// unclaimed devices.
	c.App.Post("/webhook/sensor", c.DeviceHandler.IngestSensor)
}
