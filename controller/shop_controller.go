package controller

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"storefront/model"
)

type ShopController struct {
	DB *gorm.DB
}

func (sc *ShopController) ListProducts(c *fiber.Ctx) error {
	page := model.ParsePage(c.Query("page"))

	var total int64
	if err := sc.DB.Model(&model.Product{}).Count(&total).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch products"})
	}

	var products []model.Product
	err := sc.DB.
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

// Search splits the query on whitespace and matches each term,
// case-insensitively, as a substring of title or description. Results are
// the union over all terms, deduplicated by id in first-match order, then
// paginated like the catalog listing.
func (sc *ShopController) Search(c *fiber.Ctx) error {
	terms := strings.Fields(c.Query("s"))
	page := model.ParsePage(c.Query("page"))

	var matched []model.Product
	seen := map[uint]bool{}
	for _, term := range terms {
		pattern := "%" + strings.ToLower(term) + "%"

		var results []model.Product
		err := sc.DB.
			Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
			Order("id").
			Find(&results).Error
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "search failed"})
		}

		for _, p := range results {
			if !seen[p.ID] {
				seen[p.ID] = true
				matched = append(matched, p)
			}
		}
	}

	total := int64(len(matched))
	start := (page - 1) * model.ItemsPerPage
	end := start + model.ItemsPerPage
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}
	pageItems := matched[start:end]
	if pageItems == nil {
		pageItems = []model.Product{}
	}

	return c.JSON(fiber.Map{
		"products":   pageItems,
		"pagination": model.NewPagination(page, total, model.ItemsPerPage),
	})
}

func (sc *ShopController) GetProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
	}

	var product model.Product
	if err := sc.DB.First(&product, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "product not found"})
	}

	return c.JSON(product)
}
