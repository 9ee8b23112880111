package handlers

import (
	"github.com/otienobrian/fundi_connect/database"
	"github.com/otienobrian/fundi_connect/models"
	"github.com/gofiber/fiber/v2"
)

type CategoryRequest struct {
	Name           string  `json:"name" validate:"required,min=2"`
	Description    *string `json:"description,omitempty"`
	BasePriceCents int64   `json:"base_price_cents" validate:"required,gt=0"`
	Currency       string  `json:"currency" validate:"required,iso4217"`
}

func ListCategories(c *fiber.Ctx) error {
	var categories []models.ServiceCategory
	database.DB.Where("is_active = ?", true).Order("name asc").Find(&categories)
	return c.JSON(categories)
}

func CreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	category := models.ServiceCategory{
		Name:           req.Name,
		Description:    req.Description,
		BasePriceCents: req.BasePriceCents,
		Currency:       req.Currency,
	}
	if err := database.DB.Create(&category).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create category"})
	}

	return c.Status(fiber.StatusCreated).JSON(category)
}

func UpdateCategory(c *fiber.Ctx) error {
	var category models.ServiceCategory
	if err := database.DB.First(&category, "id = ?", c.Params("categoryId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Category not found"})
	}

	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	category.Name = req.Name
	category.Description = req.Description
	category.BasePriceCents = req.BasePriceCents
	category.Currency = req.Currency
	if err := database.DB.Save(&category).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update category"})
	}

	return c.JSON(category)
}

func DeactivateCategory(c *fiber.Ctx) error {
	var category models.ServiceCategory
	if err := database.DB.First(&category, "id = ?", c.Params("categoryId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Category not found"})
	}

	category.IsActive = false
	if err := database.DB.Save(&category).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate category"})
	}

	return c.JSON(fiber.Map{"message": "Category deactivated"})
}
