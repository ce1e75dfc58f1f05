package controller

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"storefront/middleware"
	"storefront/model"
	"storefront/storage"
)

type AdminController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	ImageDir string
}

type ProductInput struct {
	Title       string  `validate:"required,min=3"`
	Price       float64 `validate:"required,gt=0"`
	Description string  `validate:"required,min=5,max=400"`
}

// ListProducts pages through the products the requesting editor owns.
func (ac *AdminController) ListProducts(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	page := model.ParsePage(c.Query("page"))

	var total int64
	err := ac.DB.Model(&model.Product{}).Where("owner_id = ?", user.ID).Count(&total).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch products"})
	}

	products := []model.Product{}
	err = ac.DB.
		Where("owner_id = ?", user.ID).
		Order("id DESC").
		Offset((page - 1) * model.ItemsPerPage).
		Limit(model.ItemsPerPage).
		Find(&products).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch products"})
	}

	return c.JSON(fiber.Map{
		"products":   products,
		"pagination": model.NewPagination(page, total, model.ItemsPerPage),
	})
}

func (ac *AdminController) CreateProduct(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	input, errMsg := ac.parseProductForm(c)
	if errMsg != "" {
		return c.Status(422).JSON(fiber.Map{"error": errMsg})
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return c.Status(422).JSON(fiber.Map{"error": "attached file is not an image"})
	}
	if !storage.AllowedImageType(fh.Header.Get("Content-Type")) {
		return c.Status(422).JSON(fiber.Map{"error": "attached file is not an image"})
	}

	imagePath, err := storage.SaveImage(ac.ImageDir, fh)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to store image"})
	}

	product := model.Product{
		Title:       input.Title,
		Price:       input.Price,
		Description: input.Description,
		ImageURL:    imagePath,
		OwnerID:     user.ID,
	}
	if err := ac.DB.Create(&product).Error; err != nil {
		storage.DeleteImage(imagePath)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create product"})
	}

	return c.Status(201).JSON(product)
}

func (ac *AdminController) UpdateProduct(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
	}

	var product model.Product
	if err := ac.DB.First(&product, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "product not found"})
	}

	// Ownership check happens before any field is touched.
	if product.OwnerID != user.ID {
		return c.Status(403).JSON(fiber.Map{"error": "not the owner"})
	}

	input, errMsg := ac.parseProductForm(c)
	if errMsg != "" {
		return c.Status(422).JSON(fiber.Map{"error": errMsg})
	}

	oldImage := ""
	if fh, err := c.FormFile("image"); err == nil {
		if !storage.AllowedImageType(fh.Header.Get("Content-Type")) {
			return c.Status(422).JSON(fiber.Map{"error": "attached file is not an image"})
		}
		newPath, err := storage.SaveImage(ac.ImageDir, fh)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to store image"})
		}
		oldImage = product.ImageURL
		product.ImageURL = newPath
	}

	product.Title = input.Title
	product.Price = input.Price
	product.Description = input.Description

	if err := ac.DB.Save(&product).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update product"})
	}

	storage.DeleteImage(oldImage)
	return c.JSON(product)
}

func (ac *AdminController) DeleteProduct(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
	}

	var product model.Product
	if err := ac.DB.First(&product, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "product not found"})
	}

	if product.OwnerID != user.ID {
		return c.Status(403).JSON(fiber.Map{"error": "not the owner"})
	}

	if err := ac.DB.Delete(&product).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete product"})
	}

	storage.DeleteImage(product.ImageURL)
	return c.SendStatus(204)
}

// parseProductForm reads the multipart fields and runs the field rules:
// title min 3, numeric price above zero, description between 5 and 400.
func (ac *AdminController) parseProductForm(c *fiber.Ctx) (ProductInput, string) {
	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return ProductInput{}, "price must be a number"
	}

	input := ProductInput{
		Title:       c.FormValue("title"),
		Price:       price,
		Description: c.FormValue("description"),
	}
	if err := ac.Validate.Struct(input); err != nil {
		return ProductInput{}, "invalid product fields: " + err.Error()
	}
	return input, ""
}
