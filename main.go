package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"coursetrack/catalog"
	"coursetrack/config"
	progressControllers "coursetrack/controllers/course"
	"coursetrack/database"
	"coursetrack/engine"
	"coursetrack/middleware"
	"coursetrack/renderer"
	courseRoutes "coursetrack/routers/courseRoutes"
	"coursetrack/store"
	"coursetrack/utils"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	reader := catalog.NewReader(database.Database.Db)
	progressStore := store.NewGormStore(database.Database.Db)
	renderClient := renderer.NewClient(
		config.AppConfig.RendererURL,
		time.Duration(config.AppConfig.RendererTimeout)*time.Second,
	)
	eng := engine.New(reader, progressStore, renderClient)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := database.Database.Db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Database unreachable!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", nil)
	})

	pc := progressControllers.NewProgressController(eng)
	courseRoutes.SetupCourseRoutes(app, pc)

	if config.AppConfig.CertSweepSpec != "" {
		sweeper := utils.StartCertificateSweeper(eng, config.AppConfig.CertSweepSpec)
		defer sweeper.Stop()
	}

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
