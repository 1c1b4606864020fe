// Package server, fiber uygulamasını kurar ve tüm route'ları bağlar.
package server

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"mobilya-backend/internal/account"
	"mobilya-backend/internal/audit"
	"mobilya-backend/internal/auth"
	"mobilya-backend/internal/catalog"
	"mobilya-backend/internal/config"
	"mobilya-backend/internal/models"
	"mobilya-backend/internal/orders"
	"mobilya-backend/internal/settings"
	"mobilya-backend/internal/upload"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func errorHandler(cfg *config.Config) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			category := http.StatusText(fe.Code)
			// Go 413 için eski RFC adını döndürür, istemciler yenisini eşler
			if fe.Code == fiber.StatusRequestEntityTooLarge {
				category = "Payload Too Large"
			}
			return c.Status(fe.Code).JSON(fiber.Map{
				"error":   category,
				"message": fe.Message,
			})
		}

		log.Println("Beklenmeyen hata:", err)
		res := fiber.Map{
			"error":   http.StatusText(fiber.StatusInternalServerError),
			"message": "Beklenmeyen sunucu hatası",
		}
		// Hata detayı sadece development ortamında dışarı verilir
		if cfg.Env == "development" {
			res["detail"] = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(res)
	}
}

// New tüm middleware ve route'ları bağlanmış fiber uygulaması döndürür.
// Veritabanının önceden başlatılmış olması beklenir.
func New(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    int(cfg.MaxFileSize) + 1024*1024, // multipart overhead payı
		ErrorHandler: errorHandler(cfg),
	})

	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(logger.New())

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	// Development ortamında rate limit devre dışı
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitWindow,
		Next: func(c *fiber.Ctx) bool {
			return cfg.Env == "development"
		},
	}))

	app.Static("/uploads", cfg.UploadPath)

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))
	api.Post("/auth/refresh", auth.RefreshHandler(cfg))
	api.Post("/auth/forgot-password", auth.ForgotPasswordHandler(cfg))
	api.Post("/auth/reset-password", auth.ResetPasswordHandler(cfg))

	// Public katalog ve ayarlar
	api.Get("/categories", catalog.ListCategoriesHandler())
	api.Get("/categories/:slug", catalog.GetCategoryHandler())
	api.Get("/products", catalog.ListProductsHandler())
	// Pasif ürünleri admin görebildiği için token varsa çözülür
	api.Get("/products/:slug", auth.OptionalJWTMiddleware(cfg), catalog.GetProductHandler())
	api.Get("/settings", settings.GetSettingsHandler())

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Siparişler
	protected.Post("/orders", orders.CreateOrderHandler())
	protected.Get("/orders", orders.ListMyOrdersHandler())

	// Adresler
	protected.Get("/addresses", account.ListAddressesHandler())
	protected.Post("/addresses", account.CreateAddressHandler())
	protected.Put("/addresses/:id", account.UpdateAddressHandler())
	protected.Delete("/addresses/:id", account.DeleteAddressHandler())
	protected.Put("/addresses/:id/set-default", account.SetDefaultAddressHandler())

	// Admin routes
	adminRoutes := protected.Group("")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Kategori yönetimi (reorder, :slug'dan önce kaydedilmeli)
	adminRoutes.Patch("/categories/reorder", catalog.ReorderCategoriesHandler())
	adminRoutes.Post("/categories", catalog.CreateCategoryHandler())
	adminRoutes.Put("/categories/:id", catalog.UpdateCategoryHandler())
	adminRoutes.Delete("/categories/:id", catalog.DeleteCategoryHandler())

	// Ürün yönetimi
	adminRoutes.Post("/products", catalog.CreateProductHandler())
	adminRoutes.Put("/products/:id", catalog.UpdateProductHandler())
	adminRoutes.Delete("/products/:id", catalog.DeleteProductHandler())

	// Sipariş yönetimi
	adminRoutes.Get("/orders/admin/all", orders.ListAllOrdersHandler())
	adminRoutes.Get("/orders/admin/export", orders.ExportOrdersHandler())
	adminRoutes.Put("/orders/:id/status", orders.UpdateOrderStatusHandler())

	// Ayarlar
	adminRoutes.Put("/settings", settings.UpdateSettingsHandler())

	// Dosya yükleme (daha sıkı rate limit)
	uploadRoutes := adminRoutes.Group("/upload", limiter.New(limiter.Config{
		Max:        20,
		Expiration: cfg.RateLimitWindow,
		Next: func(c *fiber.Ctx) bool {
			return cfg.Env == "development"
		},
	}))
	uploadRoutes.Post("/image", upload.UploadImageHandler(cfg))
	uploadRoutes.Post("/images", upload.UploadImagesHandler(cfg))
	uploadRoutes.Post("/model3d", upload.UploadModel3DHandler(cfg))

	// Audit logs
	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler())
	adminRoutes.Post("/audit-logs/:id/undo", audit.UndoAuditLogHandler())

	// Sipariş detayı (sahibi veya admin), /orders/admin/* ile çakışmaması için sonda
	protected.Get("/orders/:id", orders.GetOrderHandler())

	return app
}
