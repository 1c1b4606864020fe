package catalog

import (
	"errors"
	"strings"

	"mobilya-backend/internal/audit"
	"mobilya-backend/internal/database"
	"mobilya-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateCategoryRequest struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"` // boşsa isimden üretilir
	Description  string `json:"description"`
	ParentID     *uint  `json:"parent_id"`
	DisplayOrder int    `json:"display_order"`
}

type UpdateCategoryRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	ParentID     *uint   `json:"parent_id"`
	DisplayOrder *int    `json:"display_order"`
}

type ReorderRequest struct {
	Orders []ReorderItem `json:"orders"`
}

type ReorderItem struct {
	ID           uint `json:"id"`
	DisplayOrder int  `json:"display_order"`
}

func sortedCategories() ([]models.Category, error) {
	var categories []models.Category
	err := database.DB.
		Preload("Parent").
		Order("display_order asc, name asc").
		Find(&categories).Error
	return categories, err
}

// GET /api/categories
func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		categories, err := sortedCategories()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategoriler listelenemedi")
		}

		return c.JSON(fiber.Map{
			"count":      len(categories),
			"categories": categories,
		})
	}
}

// GET /api/categories/:slug
func GetCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		slug := c.Params("slug")

		var category models.Category
		if err := database.DB.Preload("Parent").Where("slug = ?", slug).First(&category).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
		}

		return c.JSON(fiber.Map{"category": category})
	}
}

// POST /api/categories (admin)
func CreateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Kategori adı boş olamaz")
		}

		slug := strings.TrimSpace(body.Slug)
		if slug == "" {
			slug = Slugify(body.Name)
		}
		if slug == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Geçerli bir slug üretilemedi")
		}

		// Slug unique kontrolü
		var exist models.Category
		if err := database.DB.Where("slug = ?", slug).First(&exist).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, "Bu slug zaten kullanılıyor")
		}

		if body.ParentID != nil {
			var parent models.Category
			if err := database.DB.First(&parent, *body.ParentID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Üst kategori bulunamadı")
			}
		}

		category := models.Category{
			Name:         body.Name,
			Slug:         slug,
			Description:  strings.TrimSpace(body.Description),
			ParentID:     body.ParentID,
			DisplayOrder: body.DisplayOrder,
		}

		if err := database.DB.Create(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "Bu slug zaten kullanılıyor")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori oluşturulamadı")
		}

		audit.Write(c, "category", category.ID, models.AuditActionCreate,
			"Kategori oluşturuldu: "+category.Name, nil, category)

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"category": category})
	}
}

// PUT /api/categories/:id (admin)
func UpdateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var category models.Category
		if err := database.DB.First(&category, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
		}
		before := category

		var body UpdateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Kategori adı boş olamaz")
			}
			category.Name = name
		}
		if body.Description != nil {
			category.Description = strings.TrimSpace(*body.Description)
		}
		if body.ParentID != nil {
			if *body.ParentID == category.ID {
				return fiber.NewError(fiber.StatusBadRequest, "Kategori kendi üst kategorisi olamaz")
			}
			var parent models.Category
			if err := database.DB.First(&parent, *body.ParentID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Üst kategori bulunamadı")
			}
			category.ParentID = body.ParentID
		}
		if body.DisplayOrder != nil {
			category.DisplayOrder = *body.DisplayOrder
		}

		if err := database.DB.Save(&category).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori güncellenemedi")
		}

		audit.Write(c, "category", category.ID, models.AuditActionUpdate,
			"Kategori güncellendi: "+category.Name, before, category)

		return c.JSON(fiber.Map{"category": category})
	}
}

// DELETE /api/categories/:id (admin)
func DeleteCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var category models.Category
		if err := database.DB.First(&category, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
		}

		// Ürünü olan kategori silinemez
		var productCount int64
		database.DB.Model(&models.Product{}).Where("category_id = ?", category.ID).Count(&productCount)
		if productCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu kategoride ürünler var, önce ürünleri taşıyın")
		}

		if err := database.DB.Delete(&category).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori silinemedi")
		}

		audit.Write(c, "category", category.ID, models.AuditActionDelete,
			"Kategori silindi: "+category.Name, category, nil)

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// PATCH /api/categories/reorder (admin)
// Her kayıt için ayrı update atılır; arada hata olursa geri alma yapılmaz,
// sıralama idempotent bir admin işlemi olduğu için istek tekrarlanabilir.
func ReorderCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ReorderRequest
		if err := c.BodyParser(&body); err != nil || body.Orders == nil {
			return fiber.NewError(fiber.StatusBadRequest, "orders bir dizi olmalı")
		}

		for _, item := range body.Orders {
			if err := database.DB.Model(&models.Category{}).
				Where("id = ?", item.ID).
				Update("display_order", item.DisplayOrder).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Sıralama güncellenemedi")
			}
		}

		categories, err := sortedCategories()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategoriler listelenemedi")
		}

		return c.JSON(fiber.Map{
			"count":      len(categories),
			"categories": categories,
		})
	}
}
