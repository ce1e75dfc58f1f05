package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"storefront/middleware"
	"storefront/model"
)

type CartController struct {
	DB *gorm.DB
}

// CartLine is a cart item joined with its live product row, for display and
// for checkout pricing. Orders snapshot these at materialization time.
type CartLine struct {
	Product model.Product `json:"product"`
	Qty     uint          `json:"quantity"`
}

func (cc *CartController) Get(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	cart, err := loadCart(cc.DB, user.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch cart"})
	}

	lines, err := resolveCartLines(cc.DB, cart)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch cart"})
	}

	return c.JSON(fiber.Map{
		"items":       lines,
		"count":       cart.Count,
		"total_cents": cartTotalCents(lines),
	})
}

func (cc *CartController) AddItem(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var body struct {
		ProductID uint `json:"product_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}

	var product model.Product
	if err := cc.DB.First(&product, body.ProductID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "product not found"})
	}

	cart, err := loadCart(cc.DB, user.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch cart"})
	}

	cart.AddItem(product.ID)
	if err := cc.DB.Save(cart).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update cart"})
	}

	return c.JSON(cart)
}

// RemoveItem decrements the line by the supplied quantity when that leaves
// at least one unit, otherwise drops the line. Omitted quantity drops it.
func (cc *CartController) RemoveItem(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var body struct {
		ProductID uint `json:"product_id"`
		Quantity  uint `json:"quantity"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}

	cart, err := loadCart(cc.DB, user.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch cart"})
	}

	cart.RemoveItem(body.ProductID, body.Quantity)
	if err := cc.DB.Save(cart).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update cart"})
	}

	return c.JSON(cart)
}

// loadCart fetches the user's cart row, creating an empty one on first use.
func loadCart(db *gorm.DB, userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := db.Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = model.Cart{UserID: userID, Items: model.CartItems{}}
		if err := db.Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// resolveCartLines joins cart items with their product rows. Lines whose
// product has been deleted from the catalog are skipped.
func resolveCartLines(db *gorm.DB, cart *model.Cart) ([]CartLine, error) {
	lines := []CartLine{}
	for _, item := range cart.Items {
		var product model.Product
		err := db.First(&product, item.ProductID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, CartLine{Product: product, Qty: item.Qty})
	}
	return lines, nil
}

func cartTotalCents(lines []CartLine) int64 {
	var total int64
	for _, l := range lines {
		total += model.Cents(l.Product.Price) * int64(l.Qty)
	}
	return total
}
