package account

import (
	"strings"

	"mobilya-backend/internal/auth"
	"mobilya-backend/internal/database"
	"mobilya-backend/internal/models"
	"mobilya-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AddressRequest struct {
	Title     string `json:"title" validate:"required"`
	FullName  string `json:"full_name" validate:"required"`
	Phone     string `json:"phone" validate:"required,phone"`
	City      string `json:"city" validate:"required"`
	District  string `json:"district" validate:"required"`
	Address   string `json:"address" validate:"required"`
	IsDefault bool   `json:"is_default"`
}

func violationsResponse(c *fiber.Ctx, violations []validation.Violation) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":      "Bad Request",
		"message":    "Adres bilgileri eksik veya hatalı",
		"violations": violations,
	})
}

// setDefault: tx içinde diğer tüm adreslerin bayrağını temizleyip verilen
// adresi varsayılan yapar. Kural: kullanıcı başına en fazla bir varsayılan.
func setDefault(tx *gorm.DB, userID, addressID uint) error {
	if err := tx.Model(&models.Address{}).
		Where("user_id = ? AND id <> ?", userID, addressID).
		Update("is_default", false).Error; err != nil {
		return err
	}
	return tx.Model(&models.Address{}).
		Where("user_id = ? AND id = ?", userID, addressID).
		Update("is_default", true).Error
}

// GET /api/addresses
func ListAddressesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := auth.CurrentUserID(c)

		var addresses []models.Address
		if err := database.DB.
			Where("user_id = ?", userID).
			Order("created_at asc").
			Find(&addresses).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Adresler listelenemedi")
		}

		return c.JSON(fiber.Map{"count": len(addresses), "addresses": addresses})
	}
}

// POST /api/addresses: kullanıcının ilk adresi otomatik varsayılan olur
func CreateAddressHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := auth.CurrentUserID(c)

		var body AddressRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if violations := validation.Struct(body); len(violations) > 0 {
			return violationsResponse(c, violations)
		}

		var count int64
		database.DB.Model(&models.Address{}).Where("user_id = ?", userID).Count(&count)

		address := models.Address{
			UserID:    userID,
			Title:     strings.TrimSpace(body.Title),
			FullName:  strings.TrimSpace(body.FullName),
			Phone:     body.Phone,
			City:      strings.TrimSpace(body.City),
			District:  strings.TrimSpace(body.District),
			Address:   strings.TrimSpace(body.Address),
			IsDefault: body.IsDefault || count == 0,
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&address).Error; err != nil {
				return err
			}
			if address.IsDefault {
				return setDefault(tx, userID, address.ID)
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Adres oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"address": address})
	}
}

// PUT /api/addresses/:id
func UpdateAddressHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := auth.CurrentUserID(c)
		id := c.Params("id")

		var address models.Address
		if err := database.DB.
			Where("user_id = ? AND id = ?", userID, id).
			First(&address).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Adres bulunamadı")
		}

		var body AddressRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if violations := validation.Struct(body); len(violations) > 0 {
			return violationsResponse(c, violations)
		}

		address.Title = strings.TrimSpace(body.Title)
		address.FullName = strings.TrimSpace(body.FullName)
		address.Phone = body.Phone
		address.City = strings.TrimSpace(body.City)
		address.District = strings.TrimSpace(body.District)
		address.Address = strings.TrimSpace(body.Address)

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(&address).Error; err != nil {
				return err
			}
			if body.IsDefault {
				return setDefault(tx, userID, address.ID)
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Adres güncellenemedi")
		}

		if body.IsDefault {
			address.IsDefault = true
		}
		return c.JSON(fiber.Map{"address": address})
	}
}

// DELETE /api/addresses/:id: varsayılan adres silinirse kalan en eski adres
// varsayılan yapılır
func DeleteAddressHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := auth.CurrentUserID(c)
		id := c.Params("id")

		var address models.Address
		if err := database.DB.
			Where("user_id = ? AND id = ?", userID, id).
			First(&address).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Adres bulunamadı")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&address).Error; err != nil {
				return err
			}
			if address.IsDefault {
				var next models.Address
				if err := tx.Where("user_id = ?", userID).
					Order("created_at asc").
					First(&next).Error; err == nil {
					return setDefault(tx, userID, next.ID)
				}
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Adres silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// PUT /api/addresses/:id/set-default: idempotent
func SetDefaultAddressHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := auth.CurrentUserID(c)
		id := c.Params("id")

		var address models.Address
		if err := database.DB.
			Where("user_id = ? AND id = ?", userID, id).
			First(&address).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Adres bulunamadı")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			return setDefault(tx, userID, address.ID)
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Varsayılan adres güncellenemedi")
		}

		address.IsDefault = true
		return c.JSON(fiber.Map{"address": address})
	}
}
