package routes

import (
	"github.com/gofiber/fiber/v2"

	"storefront/controller"
)

func RegisterShopRoutes(
	app *fiber.App,
	sc *controller.ShopController,
	cc *controller.CartController,
	oc *controller.OrderController,
	wc *controller.WebhookController,
	auth fiber.Handler,
) {
	app.Get("/products", sc.ListProducts)
	app.Get("/products/:id", sc.GetProduct)
	app.Get("/search", sc.Search)

	app.Get("/cart", auth, cc.Get)
	app.Post("/cart", auth, cc.AddItem)
	app.Post("/cart-delete-item", auth, cc.RemoveItem)

	app.Post("/checkout", auth, oc.Checkout)
	app.Get("/orders", auth, oc.ListOrders)
	app.Get("/orders/:id", auth, oc.GetInvoice)

	app.Post("/webhook/payment", wc.HandlePaymentConfirmation)
}
