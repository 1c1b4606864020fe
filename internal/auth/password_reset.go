package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"mobilya-backend/internal/config"
	"mobilya-backend/internal/database"
	"mobilya-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const resetCodeTTL = 15 * time.Minute

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// GenerateResetCode: 6 haneli sayısal kod üretir
func GenerateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// HashResetCode: kod veritabanında sadece hash olarak tutulur
func HashResetCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// POST /api/auth/forgot-password: email'in kayıtlı olup olmadığını belli etmez
func ForgotPasswordHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ForgotPasswordRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if body.Email == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Email zorunlu")
		}

		response := fiber.Map{"message": "Eğer email kayıtlıysa sıfırlama kodu gönderildi"}

		var user models.User
		if err := database.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
			return c.JSON(response)
		}

		code, err := GenerateResetCode()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kod üretilemedi")
		}

		// Her yeni istek önceki kodu geçersiz kılar (üzerine yazılır)
		hash := HashResetCode(code)
		expiresAt := time.Now().Add(resetCodeTTL)
		if err := database.DB.Model(&user).Updates(map[string]interface{}{
			"reset_code_hash":       hash,
			"reset_code_expires_at": expiresAt,
		}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kod kaydedilemedi")
		}

		// Mail gönderimi yok, kod sadece loglanır
		log.Printf("[INFO] Şifre sıfırlama kodu (%s): %s", user.Email, code)

		return c.JSON(response)
	}
}

// POST /api/auth/reset-password
func ResetPasswordHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ResetPasswordRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if body.Email == "" || body.Code == "" || body.NewPassword == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Email, kod ve yeni şifre zorunlu")
		}
		if len(body.NewPassword) < 6 {
			return fiber.NewError(fiber.StatusBadRequest, "Şifre en az 6 karakter olmalı")
		}

		var user models.User
		if err := database.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Kod geçersiz veya süresi dolmuş")
		}

		if user.ResetCodeHash == nil || user.ResetCodeExpiresAt == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Kod geçersiz veya süresi dolmuş")
		}
		if time.Now().After(*user.ResetCodeExpiresAt) {
			return fiber.NewError(fiber.StatusBadRequest, "Kod geçersiz veya süresi dolmuş")
		}

		submitted := HashResetCode(body.Code)
		if subtle.ConstantTimeCompare([]byte(submitted), []byte(*user.ResetCodeHash)) != 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Kod geçersiz veya süresi dolmuş")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
		}

		// Başarılı sıfırlamada kod alanları temizlenir
		if err := database.DB.Model(&user).Updates(map[string]interface{}{
			"password_hash":         string(hash),
			"reset_code_hash":       nil,
			"reset_code_expires_at": nil,
		}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre güncellenemedi")
		}

		return c.JSON(fiber.Map{"message": "Şifre güncellendi"})
	}
}
