package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"storefront/invoice"
	"storefront/middleware"
	"storefront/model"
	"storefront/payment"
)

type OrderController struct {
	DB         *gorm.DB
	Gateway    payment.Gateway
	BaseURL    string
	InvoiceDir string
}

// Checkout prices the cart in integer cents and opens a checkout session
// with the payment gateway. An empty cart is a no-op, not an error.
func (oc *OrderController) Checkout(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	cart, err := loadCart(oc.DB, user.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch cart"})
	}

	lines, err := resolveCartLines(oc.DB, cart)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch cart"})
	}

	if cart.Count == 0 || len(lines) == 0 {
		return c.JSON(fiber.Map{
			"items":       []CartLine{},
			"total_cents": 0,
			"message":     "cart is empty",
		})
	}

	items := make([]payment.CheckoutItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, payment.CheckoutItem{
			Name:        l.Product.Title,
			AmountCents: model.Cents(l.Product.Price),
			Currency:    "usd",
			Quantity:    l.Qty,
		})
	}

	session, err := oc.Gateway.CreateCheckoutSession(c.Context(), payment.CheckoutRequest{
		CustomerEmail: user.Email,
		SuccessURL:    oc.BaseURL + "/orders",
		CancelURL:     oc.BaseURL + "/cart",
		LineItems:     items,
	})
	if err != nil {
		return c.Status(502).JSON(fiber.Map{"error": "payment gateway unavailable"})
	}

	return c.JSON(fiber.Map{
		"session_id":  session.ID,
		"url":         session.URL,
		"total_cents": cartTotalCents(lines),
	})
}

func (oc *OrderController) ListOrders(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	orders := []model.Order{}
	err := oc.DB.
		Where("user_id = ?", user.ID).
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch orders"})
	}

	return c.JSON(orders)
}

// GetInvoice streams the order's invoice PDF, persisting a copy under the
// invoice directory as a side effect (overwritten on repeat requests).
func (oc *OrderController) GetInvoice(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
	}

	var order model.Order
	if err := oc.DB.First(&order, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "order not found"})
	}

	if order.UserID != user.ID {
		return c.Status(403).JSON(fiber.Map{"error": "not the owner"})
	}

	pdfBytes, err := invoice.Render(&order)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to render invoice"})
	}

	if _, err := invoice.Write(oc.InvoiceDir, order.ID, pdfBytes); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to store invoice"})
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `inline; filename="`+invoice.FileName(order.ID)+`"`)
	return c.Send(pdfBytes)
}
