package routes

import (
	"github.com/gofiber/fiber/v2"

	"storefront/controller"
)

func RegisterAdminRoutes(app *fiber.App, ac *controller.AdminController, auth fiber.Handler) {
	admin := app.Group("/admin", auth)

	admin.Get("/products", ac.ListProducts)
	admin.Post("/products", ac.CreateProduct)
	admin.Put("/products/:id", ac.UpdateProduct)
	admin.Delete("/products/:id", ac.DeleteProduct)
}
