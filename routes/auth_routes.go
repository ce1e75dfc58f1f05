package routes

import (
	"github.com/gofiber/fiber/v2"

	"storefront/controller"
)

func RegisterAuthRoutes(app *fiber.App, ac *controller.AuthController) {
	app.Post("/signup", ac.Signup)
	app.Post("/login", ac.Login)
	app.Post("/logout", ac.Logout)
	app.Post("/reset", ac.RequestReset)
	app.Post("/reset/:token", ac.CompleteReset)
}
