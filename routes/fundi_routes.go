package routes

import (
	"github.com/otienobrian/fundi_connect/handlers"
	"github.com/otienobrian/fundi_connect/middleware"
	"github.com/gofiber/fiber/v2"
)

func FundiRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/fundi/apply", middleware.Protected(), handlers.ApplyToBeAFundi)

	fundi := api.Group("/fundi", middleware.Protected(), middleware.FundiRequired())
	fundi.Get("/jobs", handlers.GetMyJobs)
	fundi.Post("/jobs/:jobId/start", handlers.StartJob)
	fundi.Post("/jobs/:jobId/check-out", handlers.CheckOutJob)
	fundi.Get("/earnings", handlers.GetMyEarnings)
	fundi.Put("/payout-account", handlers.SetPayoutAccount)
	fundi.Post("/identity/verify", handlers.StartIdentityVerification)
	fundi.Get("/identity/verify", handlers.GetIdentityVerification)
}
