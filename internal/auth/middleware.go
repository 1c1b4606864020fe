package auth

import (
	"errors"

	"mobilya-backend/internal/config"
	"mobilya-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUserRoleKey = "user_role"
)

// JWTMiddleware: geçerli bir access token ister; başarılıysa kullanıcı kimliğini
// ve rolünü context'e koyar, değilse nedeni belirten 401 ile keser.
func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header eksik")
		}

		tokenStr := ExtractBearer(authHeader)
		if tokenStr == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization formatı 'Bearer <token>' olmalı")
		}

		claims, err := ParseToken(cfg.JWTSecret, tokenStr)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				return fiber.NewError(fiber.StatusUnauthorized, "Token süresi dolmuş")
			}
			return fiber.NewError(fiber.StatusUnauthorized, "Geçersiz token")
		}

		// Refresh token ile korumalı endpoint'lere girilemez
		if claims.TokenType != TokenTypeAccess {
			return fiber.NewError(fiber.StatusUnauthorized, "Geçersiz token")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserRoleKey, claims.Role)

		return c.Next()
	}
}

// OptionalJWTMiddleware: public endpoint'ler için, geçerli bir access token
// varsa kimliği context'e koyar, yoksa isteği anonim olarak devam ettirir.
func OptionalJWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := ExtractBearer(c.Get("Authorization"))
		if tokenStr != "" {
			claims, err := ParseToken(cfg.JWTSecret, tokenStr)
			if err == nil && claims.TokenType == TokenTypeAccess {
				c.Locals(CtxUserIDKey, claims.UserID)
				c.Locals(CtxUserRoleKey, claims.Role)
			}
		}
		return c.Next()
	}
}

// RequireRole: JWTMiddleware'den sonra çalışmalıdır
func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleVal := c.Locals(CtxUserRoleKey)
		role, ok := roleVal.(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
		}

		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "Bu işlem için yetkiniz yok")
	}
}

// CurrentUserID: middleware'in context'e koyduğu kullanıcı id'si
func CurrentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals(CtxUserIDKey).(uint); ok {
		return id
	}
	return 0
}

// CurrentUserRole: middleware'in context'e koyduğu rol
func CurrentUserRole(c *fiber.Ctx) models.UserRole {
	if role, ok := c.Locals(CtxUserRoleKey).(models.UserRole); ok {
		return role
	}
	return ""
}
