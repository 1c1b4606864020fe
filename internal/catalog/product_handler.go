package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mobilya-backend/internal/audit"
	"mobilya-backend/internal/auth"
	"mobilya-backend/internal/database"
	"mobilya-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateProductRequest struct {
	Name            string                 `json:"name"`
	Slug            string                 `json:"slug"` // boşsa isimden üretilir
	SKU             string                 `json:"sku"`  // boşsa zaman damgasından üretilir
	Description     string                 `json:"description"`
	CategoryID      uint                   `json:"category_id"`
	BasePrice       float64                `json:"base_price"`
	DiscountedPrice *float64               `json:"discounted_price"`
	Images          []string               `json:"images"`
	Model3D         string                 `json:"model_3d"`
	Dimensions      models.Dimensions      `json:"dimensions"`
	Materials       []string               `json:"materials"`
	Variants        []CreateVariantRequest `json:"variants"`
	Featured        bool                   `json:"featured"`
	Active          *bool                  `json:"active"`
}

type CreateVariantRequest struct {
	Name          string                 `json:"name"`
	Options       []models.VariantOption `json:"options"`
	Stock         int                    `json:"stock"`
	PriceOverride *float64               `json:"price_override"`
}

type UpdateProductRequest struct {
	Name            *string            `json:"name"`
	Description     *string            `json:"description"`
	CategoryID      *uint              `json:"category_id"`
	BasePrice       *float64           `json:"base_price"`
	DiscountedPrice *float64           `json:"discounted_price"`
	ClearDiscount   bool               `json:"clear_discount"`
	Images          []string           `json:"images"`
	Model3D         *string            `json:"model_3d"`
	Dimensions      *models.Dimensions `json:"dimensions"`
	Materials       []string           `json:"materials"`
	// nil: dokunulmaz, boş liste dahil dolu ise mevcut varyantların yerine geçer
	Variants *[]CreateVariantRequest `json:"variants"`
	Featured *bool                   `json:"featured"`
	Active   *bool                   `json:"active"`
}

// ProductResponse: ürün + türetilmiş alanlar (fiyat, indirim oranı, toplam stok)
type ProductResponse struct {
	models.Product
	EffectivePrice     float64 `json:"effective_price"`
	DiscountPercentage int     `json:"discount_percentage"`
	TotalStock         int     `json:"total_stock"`
}

func productResponse(p models.Product) ProductResponse {
	return ProductResponse{
		Product:            p,
		EffectivePrice:     p.EffectivePrice(),
		DiscountPercentage: p.DiscountPercentage(),
		TotalStock:         p.TotalStock(),
	}
}

// generateSKU: zaman damgasından SKU üretir (sadece oluşturma anında, bir kez)
func generateSKU() string {
	return fmt.Sprintf("MBL-%d", time.Now().UnixNano()/int64(time.Millisecond))
}

// GET /api/products?category&minPrice&maxPrice&search&sort&page&limit
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, _ := strconv.Atoi(c.Query("page", "1"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(c.Query("limit", "12"))
		if limit < 1 || limit > 100 {
			limit = 12
		}

		dbq := database.DB.Model(&models.Product{}).Where("active = ?", true)

		if category := c.Query("category"); category != "" {
			dbq = dbq.Where("category_id = ?", category)
		}

		// Sayısal olmayan fiyat sınırları reddedilmez, sessizce yok sayılır
		if minPrice, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
			dbq = dbq.Where("base_price >= ?", minPrice)
		}
		if maxPrice, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
			dbq = dbq.Where("base_price <= ?", maxPrice)
		}

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			dbq = dbq.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
		}

		// Toplam sayı ayrı sorguyla alınır; sayfa ile tutarlılık garantisi yoktur
		var total int64
		if err := dbq.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		switch c.Query("sort") {
		case "price-asc":
			dbq = dbq.Order("COALESCE(discounted_price, base_price) asc")
		case "price-desc":
			dbq = dbq.Order("COALESCE(discounted_price, base_price) desc")
		case "name":
			dbq = dbq.Order("name asc")
		default:
			dbq = dbq.Order("created_at desc")
		}

		var products []models.Product
		if err := dbq.
			Preload("Category").
			Preload("Variants").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		res := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			res = append(res, productResponse(p))
		}

		totalPages := total / int64(limit)
		if total%int64(limit) != 0 {
			totalPages++
		}

		return c.JSON(fiber.Map{
			"count":      len(res),
			"total":      total,
			"page":       page,
			"totalPages": totalPages,
			"products":   res,
		})
	}
}

// GET /api/products/:slug, pasif ürünleri sadece admin görür
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		slug := c.Params("slug")

		var product models.Product
		if err := database.DB.
			Preload("Category").
			Preload("Variants").
			Where("slug = ?", slug).
			First(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		if !product.Active && auth.CurrentUserRole(c) != models.RoleAdmin {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		return c.JSON(fiber.Map{"product": productResponse(product)})
	}
}

// POST /api/products (admin)
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün adı boş olamaz")
		}
		if body.CategoryID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Kategori zorunlu")
		}
		if body.BasePrice <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Temel fiyat sıfırdan büyük olmalı")
		}
		if len(body.Images) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "En az bir ürün görseli gerekli")
		}
		if body.DiscountedPrice != nil && *body.DiscountedPrice >= body.BasePrice {
			return fiber.NewError(fiber.StatusBadRequest, "İndirimli fiyat temel fiyattan düşük olmalı")
		}

		var category models.Category
		if err := database.DB.First(&category, body.CategoryID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Kategori bulunamadı")
		}

		// Slug ve SKU sadece oluşturma anında üretilir
		slug := strings.TrimSpace(body.Slug)
		if slug == "" {
			slug = uniqueSlug(database.DB, &models.Product{}, Slugify(body.Name))
		} else {
			var exist models.Product
			if err := database.DB.Where("slug = ?", slug).First(&exist).Error; err == nil {
				return fiber.NewError(fiber.StatusConflict, "Bu slug zaten kullanılıyor")
			}
		}

		sku := strings.TrimSpace(body.SKU)
		if sku == "" {
			sku = generateSKU()
		} else {
			var exist models.Product
			if err := database.DB.Where("sku = ?", sku).First(&exist).Error; err == nil {
				return fiber.NewError(fiber.StatusConflict, "Bu SKU zaten kullanılıyor")
			}
		}

		active := true
		if body.Active != nil {
			active = *body.Active
		}

		product := models.Product{
			Name:            body.Name,
			Slug:            slug,
			SKU:             sku,
			Description:     strings.TrimSpace(body.Description),
			CategoryID:      body.CategoryID,
			BasePrice:       body.BasePrice,
			DiscountedPrice: body.DiscountedPrice,
			Images:          body.Images,
			Model3D:         body.Model3D,
			Dimension:       body.Dimensions,
			Materials:       body.Materials,
			Featured:        body.Featured,
			Active:          active,
		}
		for _, v := range body.Variants {
			product.Variants = append(product.Variants, models.ProductVariant{
				Name:          strings.TrimSpace(v.Name),
				Options:       v.Options,
				Stock:         v.Stock,
				PriceOverride: v.PriceOverride,
			})
		}

		if err := database.DB.Create(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "Bu slug veya SKU zaten kullanılıyor")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		audit.Write(c, "product", product.ID, models.AuditActionCreate,
			"Ürün oluşturuldu: "+product.Name, nil, product)

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"product": productResponse(product)})
	}
}

// PUT /api/products/:id (admin), slug ve SKU güncellenmez
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var product models.Product
		if err := database.DB.Preload("Variants").First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}
		before := product

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Ürün adı boş olamaz")
			}
			product.Name = name
		}
		if body.Description != nil {
			product.Description = strings.TrimSpace(*body.Description)
		}
		if body.CategoryID != nil {
			var category models.Category
			if err := database.DB.First(&category, *body.CategoryID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Kategori bulunamadı")
			}
			product.CategoryID = *body.CategoryID
		}
		if body.BasePrice != nil {
			if *body.BasePrice <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Temel fiyat sıfırdan büyük olmalı")
			}
			product.BasePrice = *body.BasePrice
		}
		if body.ClearDiscount {
			product.DiscountedPrice = nil
		} else if body.DiscountedPrice != nil {
			// İndirim, istekte temel fiyat yoksa kayıtlı temel fiyata göre denetlenir
			if *body.DiscountedPrice >= product.BasePrice {
				return fiber.NewError(fiber.StatusBadRequest, "İndirimli fiyat temel fiyattan düşük olmalı")
			}
			product.DiscountedPrice = body.DiscountedPrice
		}
		if body.Images != nil {
			if len(body.Images) == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "En az bir ürün görseli gerekli")
			}
			product.Images = body.Images
		}
		if body.Model3D != nil {
			product.Model3D = *body.Model3D
		}
		if body.Dimensions != nil {
			product.Dimension = *body.Dimensions
		}
		if body.Materials != nil {
			product.Materials = body.Materials
		}
		if body.Featured != nil {
			product.Featured = *body.Featured
		}
		if body.Active != nil {
			product.Active = *body.Active
		}

		if body.Variants != nil {
			variants := make([]models.ProductVariant, 0, len(*body.Variants))
			for _, v := range *body.Variants {
				variants = append(variants, models.ProductVariant{
					ProductID:     product.ID,
					Name:          strings.TrimSpace(v.Name),
					Options:       v.Options,
					Stock:         v.Stock,
					PriceOverride: v.PriceOverride,
				})
			}
			// Varyant listesi bütün olarak değiştirilir
			if err := database.DB.Where("product_id = ?", product.ID).
				Delete(&models.ProductVariant{}).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
			}
			if len(variants) > 0 {
				if err := database.DB.Create(&variants).Error; err != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
				}
			}
			product.Variants = variants
		}

		if err := database.DB.Omit("Variants").Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		audit.Write(c, "product", product.ID, models.AuditActionUpdate,
			"Ürün güncellendi: "+product.Name, before, product)

		return c.JSON(fiber.Map{"product": productResponse(product)})
	}
}

// DELETE /api/products/:id (admin)
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var product models.Product
		if err := database.DB.Preload("Variants").First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		if err := database.DB.Select("Variants").Delete(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}

		audit.Write(c, "product", product.ID, models.AuditActionDelete,
			"Ürün silindi: "+product.Name, product, nil)

		return c.SendStatus(fiber.StatusNoContent)
	}
}
