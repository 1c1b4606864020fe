package upload

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"mobilya-backend/internal/config"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	// imaging'in kayıtlı decoder listesinde webp yok
	_ "golang.org/x/image/webp"
)

const (
	maxImageEdge  = 1200
	jpegQuality   = 85
	maxBatchFiles = 10
)

var allowedModelExts = map[string]bool{".glb": true, ".gltf": true}

// saveImage: görseli çözer, 1200x1200 sınırına küçültür, JPEG olarak kaydeder.
// Dönen değer public URL path'idir (örn: /uploads/ab12cd.jpg)
func saveImage(cfg *config.Config, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > cfg.MaxFileSize {
		return "", fiber.NewError(fiber.StatusRequestEntityTooLarge, "Dosya boyutu limiti aşıldı")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("dosya açılamadı: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "Dosya geçerli bir görsel değil")
	}

	// Oran korunur, sadece sınırı aşan görseller küçültülür
	bounds := img.Bounds()
	if bounds.Dx() > maxImageEdge || bounds.Dy() > maxImageEdge {
		img = imaging.Fit(img, maxImageEdge, maxImageEdge, imaging.Lanczos)
	}

	if err := os.MkdirAll(cfg.UploadPath, 0755); err != nil {
		return "", fmt.Errorf("klasör oluşturulamadı: %w", err)
	}

	fileName := uuid.NewString() + ".jpg"
	filePath := filepath.Join(cfg.UploadPath, fileName)
	if err := imaging.Save(img, filePath, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", fmt.Errorf("görsel kaydedilemedi: %w", err)
	}

	return "/uploads/" + fileName, nil
}

// POST /api/upload/image (admin): tek görsel, form alanı: image
func UploadImageHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("image")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "image alanı ile bir dosya gönderin")
		}

		url, err := saveImage(cfg, fileHeader)
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
	}
}

// POST /api/upload/images (admin): çoklu görsel, form alanı: images
func UploadImagesHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz form verisi")
		}

		files := form.File["images"]
		if len(files) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "images alanı ile en az bir dosya gönderin")
		}
		if len(files) > maxBatchFiles {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Tek istekte en fazla %d görsel yüklenebilir", maxBatchFiles))
		}

		urls := make([]string, 0, len(files))
		for _, fileHeader := range files {
			url, err := saveImage(cfg, fileHeader)
			if err != nil {
				return err
			}
			urls = append(urls, url)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"urls": urls})
	}
}

// POST /api/upload/model3d (admin): 3D model dosyası, form alanı: model
// Modeller işlenmeden olduğu gibi saklanır.
func UploadModel3DHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("model")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "model alanı ile bir dosya gönderin")
		}
		if fileHeader.Size > cfg.MaxFileSize {
			return fiber.NewError(fiber.StatusRequestEntityTooLarge, "Dosya boyutu limiti aşıldı")
		}

		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if !allowedModelExts[ext] {
			return fiber.NewError(fiber.StatusBadRequest, "Sadece .glb ve .gltf dosyaları kabul edilir")
		}

		modelDir := filepath.Join(cfg.UploadPath, "models")
		if err := os.MkdirAll(modelDir, 0755); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Klasör oluşturulamadı")
		}

		fileName := uuid.NewString() + ext
		if err := c.SaveFile(fileHeader, filepath.Join(modelDir, fileName)); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya kaydedilemedi")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": "/uploads/models/" + fileName})
	}
}
