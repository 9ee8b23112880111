package routes

import (
	"github.com/otienobrian/fundi_connect/handlers"
	"github.com/otienobrian/fundi_connect/middleware"
	"github.com/gofiber/fiber/v2"
)

func RequestRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	requests := api.Group("/requests", middleware.Protected())
	requests.Post("", handlers.CreateServiceRequest)
	requests.Get("", handlers.GetMyRequests)
	requests.Post("/:requestId/cancel", handlers.CancelServiceRequest)
	requests.Post("/:requestId/review", handlers.CreateReview)
}
