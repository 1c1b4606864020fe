// Package testutil, handler testleri için ortak kurulum yardımcılarını içerir.
// Testler bellek içi sqlite üzerinde çalışır, her test kendi veritabanını alır.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mobilya-backend/internal/auth"
	"mobilya-backend/internal/config"
	"mobilya-backend/internal/database"
	"mobilya-backend/internal/models"
	"mobilya-backend/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config testlerde kullanılan sabit ayarları döndürür.
func Config() *config.Config {
	return &config.Config{
		HTTPPort:        "0",
		Env:             "test",
		JWTSecret:       "test-secret-test-secret-test-secret!",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		CORSOrigins:     "http://localhost:5173",
		RateLimitWindow: time.Minute,
		RateLimitMax:    10000,
		MaxFileSize:     5 * 1024 * 1024,
		UploadPath:      "",
	}
}

// SetupDB bellek içi bir sqlite veritabanı açar, şemayı kurar ve global
// database.DB'yi test süresince bu veritabanına çevirir.
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()

	// cache=shared: aynı bağlantı havuzundaki tüm bağlantılar aynı
	// bellek veritabanını görsün
	dsn := "file:" + strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		database.DB = prev
	})
	return db
}

// NewApp veritabanını kurar ve tüm route'ları bağlanmış uygulamayı döndürür.
func NewApp(t *testing.T) (*fiber.App, *config.Config, *gorm.DB) {
	t.Helper()
	db := SetupDB(t)
	cfg := Config()
	cfg.UploadPath = t.TempDir()
	return server.New(cfg), cfg, db
}

// CreateUser veritabanına bcrypt'li şifreyle kullanıcı ekler.
func CreateUser(t *testing.T, db *gorm.DB, name, email, password string, role models.UserRole) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// AccessToken kullanıcı için geçerli bir access token üretir.
func AccessToken(t *testing.T, cfg *config.Config, user *models.User) string {
	t.Helper()
	token, err := auth.GenerateAccessToken(cfg.JWTSecret, user, cfg.AccessTokenTTL)
	require.NoError(t, err)
	return token
}

// DoJSON uygulamaya JSON istek gönderir. token boş değilse Authorization
// başlığı eklenir.
func DoJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) *http.Response {
	t.Helper()
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// DecodeJSON yanıt gövdesini verilen hedefe çözümler.
func DecodeJSON(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
