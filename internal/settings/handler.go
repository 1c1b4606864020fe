package settings

import (
	"errors"
	"fmt"

	"mobilya-backend/internal/audit"
	"mobilya-backend/internal/database"
	"mobilya-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UpdateSettingsRequest struct {
	WhatsApp           *models.WhatsAppConfig `json:"whatsapp"`
	Social             *models.SocialLinks    `json:"social"`
	Pages              *models.PageContents   `json:"pages"`
	Badges             []models.TrustBadge    `json:"trust_badges"`
	FeaturedProductIDs []uint                 `json:"featured_products"`
}

// loadOrCreate: tek satırlık ayar kaydını okur, yoksa varsayılanlarla oluşturur
func loadOrCreate() (models.Settings, error) {
	var s models.Settings
	err := database.DB.First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s = models.DefaultSettings()
		if createErr := database.DB.Create(&s).Error; createErr != nil {
			return s, createErr
		}
		return s, nil
	}
	return s, err
}

// GET /api/settings (public)
func GetSettingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := loadOrCreate()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ayarlar okunamadı")
		}
		return c.JSON(fiber.Map{"settings": s})
	}
}

// PUT /api/settings (admin)
func UpdateSettingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := loadOrCreate()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ayarlar okunamadı")
		}
		before := s

		var body UpdateSettingsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.FeaturedProductIDs != nil && len(body.FeaturedProductIDs) > models.MaxFeaturedProducts {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("En fazla %d öne çıkan ürün seçilebilir", models.MaxFeaturedProducts))
		}

		if body.WhatsApp != nil {
			s.WhatsApp = *body.WhatsApp
		}
		if body.Social != nil {
			s.Social = *body.Social
		}
		if body.Pages != nil {
			s.Pages = *body.Pages
		}
		if body.Badges != nil {
			s.Badges = body.Badges
		}
		if body.FeaturedProductIDs != nil {
			// Var olmayan ürün referansları kabul edilmez
			var count int64
			database.DB.Model(&models.Product{}).Where("id IN ?", body.FeaturedProductIDs).Count(&count)
			if count != int64(len(body.FeaturedProductIDs)) {
				return fiber.NewError(fiber.StatusBadRequest, "Öne çıkan ürün listesinde geçersiz ürün var")
			}
			s.FeaturedProductIDs = body.FeaturedProductIDs
		}

		if err := database.DB.Save(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ayarlar güncellenemedi")
		}

		audit.Write(c, "settings", s.ID, models.AuditActionUpdate,
			"Site ayarları güncellendi", before, s)

		return c.JSON(fiber.Map{"settings": s})
	}
}
