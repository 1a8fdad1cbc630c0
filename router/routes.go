package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	handler "github.com/krishkalaria12/spot-serve/handlers"
	"github.com/krishkalaria12/spot-serve/metrics"
	"github.com/krishkalaria12/spot-serve/middleware"
)

type Handlers struct {
	Session *handler.SessionHandler
	Spot    *handler.SpotHandler
	Review  *handler.ReviewHandler
}

// SetupRoutes mounts the API under /api. restoreUser runs before every API
// route; the routes that need a user also require one.
func SetupRoutes(app *fiber.App, h Handlers, restoreUser fiber.Handler) {
	app.Use(recover.New())
	app.Use(metrics.Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api", logger.New(), restoreUser)
	requireAuth := middleware.RequireAuth()

	// Session
	api.Get("/session", h.Session.Restore)
	api.Post("/session", h.Session.Login)
	api.Delete("/session", h.Session.Logout)
	api.Post("/users", h.Session.Signup)

	// Spots
	spots := api.Group("/spots")
	spots.Get("/", h.Spot.List)
	spots.Get("/current", requireAuth, h.Spot.ListCurrent)
	spots.Post("/", requireAuth, h.Spot.Create)
	spots.Get("/:id", h.Spot.Get)
	spots.Put("/:id", requireAuth, h.Spot.Update)
	spots.Delete("/:id", requireAuth, h.Spot.Delete)
	spots.Post("/:id/images", requireAuth, h.Spot.AddImage)
	spots.Get("/:id/reviews", h.Review.ListForSpot)
	spots.Post("/:id/reviews", requireAuth, h.Review.Create)
	api.Delete("/spot-images/:id", requireAuth, h.Spot.DeleteImage)

	// Reviews
	reviews := api.Group("/reviews")
	reviews.Get("/current", requireAuth, h.Review.ListCurrent)
	reviews.Put("/:id", requireAuth, h.Review.Update)
	reviews.Delete("/:id", requireAuth, h.Review.Delete)
	reviews.Post("/:id/images", requireAuth, h.Review.AddImage)
	api.Delete("/review-images/:id", requireAuth, h.Review.DeleteImage)
}
