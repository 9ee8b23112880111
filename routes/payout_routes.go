package routes

import (
	"github.com/otienobrian/fundi_connect/handlers"
	"github.com/otienobrian/fundi_connect/middleware"
	"github.com/gofiber/fiber/v2"
)

func PayoutRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	payouts := api.Group("/payouts", middleware.Protected(), middleware.FundiRequired())
	payouts.Post("/instant", handlers.RequestInstantPayout)
	payouts.Get("", handlers.GetMyPayouts)
}
