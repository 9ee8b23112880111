package routes

import (
	"github.com/otienobrian/fundi_connect/handlers"
	"github.com/otienobrian/fundi_connect/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/applications/pending", handlers.ListPendingApplications)
	admin.Put("/applications/:fundiId", handlers.ManageFundiApplication)
	admin.Post("/fundis/:fundiId/enable-payouts", handlers.EnableFundiPayouts)

	admin.Get("/requests", handlers.ListRequests)
	admin.Post("/requests/:requestId/assign", handlers.AssignFundi)
	admin.Put("/requests/:requestId/status", handlers.UpdateRequestStatus)

	admin.Get("/payouts", handlers.ListAllPayouts)

	categories := admin.Group("/categories")
	categories.Post("", handlers.CreateCategory)
	categories.Put("/:categoryId", handlers.UpdateCategory)
	categories.Delete("/:categoryId", handlers.DeactivateCategory)
}
