package catalog_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"mobilya-backend/internal/models"
	"mobilya-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedProduct(t *testing.T, db *gorm.DB, cat *models.Category, name string, basePrice float64, discounted *float64, active bool) *models.Product {
	t.Helper()
	slug := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	p := &models.Product{
		Name:            name,
		Slug:            slug,
		SKU:             "SKU-" + slug,
		CategoryID:      cat.ID,
		BasePrice:       basePrice,
		DiscountedPrice: discounted,
		Images:          []string{"/uploads/" + slug + ".jpg"},
		Active:          active,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func float(v float64) *float64 { return &v }

type productListBody struct {
	Count      int     `json:"count"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	TotalPages int64   `json:"totalPages"`
	Products   []struct {
		models.Product
		EffectivePrice     float64 `json:"effective_price"`
		DiscountPercentage int     `json:"discount_percentage"`
	} `json:"products"`
}

func TestListProductsHidesInactive(t *testing.T) {
	app, _, db := testutil.NewApp(t)
	cat := seedCategory(t, db, "Salon", "salon", 0)
	seedProduct(t, db, cat, "Koltuk", 1000, nil, true)
	seedProduct(t, db, cat, "Eski Koltuk", 500, nil, false)

	resp := testutil.DoJSON(t, app, http.MethodGet, "/api/products", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body productListBody
	testutil.DecodeJSON(t, resp, &body)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "Koltuk", body.Products[0].Name)
}

func TestListProductsPriceWindowInclusive(t *testing.T) {
	app, _, db := testutil.NewApp(t)
	cat := seedCategory(t, db, "Salon", "salon", 0)
	seedProduct(t, db, cat, "Ucuz", 100, nil, true)
	seedProduct(t, db, cat, "Orta", 500, nil, true)
	seedProduct(t, db, cat, "Pahali", 900, nil, true)

	resp := testutil.DoJSON(t, app, http.MethodGet, "/api/products?minPrice=100&maxPrice=500", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body productListBody
	testutil.DecodeJSON(t, resp, &body)
	// Sınır değerler dahil
	require.Equal(t, 2, body.Count)
}

func TestListProductsIgnoresBadPriceParams(t *testing.T) {
	app, _, db := testutil.NewApp(t)
	cat := seedCategory(t, db, "Salon", "salon", 0)
	seedProduct(t, db, cat, "Koltuk", 1000, nil, true)

	resp := testutil.DoJSON(t, app, http.MethodGet, "/api/products?minPrice=abc", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body productListBody
	testutil.DecodeJSON(t, resp, &body)
	assert.Equal(t, 1, body.Count)
}

func TestListProductsSortPriceUsesDiscount(t *testing.T) {
	app, _, db := testutil.NewApp(t)
	cat := seedCategory(t, db, "Salon", "salon", 0)
	// İndirimli fiyat sıralamada temel fiyatın yerine geçer
	seedProduct(t, db, cat, "Koltuk", 1000, float(300), true)
	seedProduct(t, db, cat, "Masa", 500, nil, true)

	resp := testutil.DoJSON(t, app, http.MethodGet, "/api/products?sort=price-asc", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body productListBody
	testutil.DecodeJSON(t, resp, &body)
	require.Equal(t, 2, body.Count)
	assert.Equal(t, "Koltuk", body.Products[0].Name)
	assert.Equal(t, float64(300), body.Products[0].EffectivePrice)
}

func TestListProductsSearch(t *testing.T) {
	app, _, db := testutil.NewApp(t)
	cat := seedCategory(t, db, "Salon", "salon", 0)
	seedProduct(t, db, cat, "Ahsap Yemek Masasi", 1000, nil, true)
	seedProduct(t, db, cat, "Koltuk Takimi", 2000, nil, true)

	resp := testutil.DoJSON(t, app, http.MethodGet, "/api/products?search=MASA", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body productListBody
	testutil.DecodeJSON(t, resp, &body)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "Ahsap Yemek Masasi", body.Products[0].Name)
}

func TestListProductsPagination(t *testing.T) {
	app, _, db := testutil.NewApp(t)
	cat := seedCategory(t, db, "Salon", "salon", 0)
	for i := 0; i < 5; i++ {
		seedProduct(t, db, cat, fmt.Sprintf("Urun %d", i), 100, nil, true)
	}

	resp := testutil.DoJSON(t, app, http.MethodGet, "/api/products?limit=2&page=3", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body productListBody
	testutil.DecodeJSON(t, resp, &body)
	assert.Equal(t, 1, body.Count)
	assert.EqualValues(t, 5, body.Total)
	assert.Equal(t, 3, body.Page)
	assert.EqualValues(t, 3, body.TotalPages)
}

func TestGetProductHidesInactiveFromAnonymous(t *testing.T) {
	app, cfg, db := testutil.NewApp(t)
	cat := seedCategory(t, db, "Salon", "salon", 0)
	seedProduct(t, db, cat, "Eski Koltuk", 500, nil, false)

	resp := testutil.DoJSON(t, app, http.MethodGet, "/api/products/eski-koltuk", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Token'lı ama admin olmayan kullanıcı da göremez
	customer := testutil.CreateUser(t, db, "Ayşe", "ayse@example.com", "gizli123", models.RoleCustomer)
	resp = testutil.DoJSON(t, app, http.MethodGet, "/api/products/eski-koltuk", nil, testutil.AccessToken(t, cfg, customer))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Admin pasif ürünü görebilir
	admin := testutil.CreateUser(t, db, "Admin", "admin@example.com", "gizli123", models.RoleAdmin)
	resp = testutil.DoJSON(t, app, http.MethodGet, "/api/products/eski-koltuk", nil, testutil.AccessToken(t, cfg, admin))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateProductDiscountValidation(t *testing.T) {
	app, cfg, db := testutil.NewApp(t)
	admin := testutil.CreateUser(t, db, "Admin", "admin@example.com", "gizli123", models.RoleAdmin)
	token := testutil.AccessToken(t, cfg, admin)
	cat := seedCategory(t, db, "Salon", "salon", 0)

	payload := map[string]interface{}{
		"name":             "Koltuk",
		"category_id":      cat.ID,
		"base_price":       1000,
		"discounted_price": 1000, // temel fiyata eşit, geçersiz
		"images":           []string{"/uploads/koltuk.jpg"},
	}
	resp := testutil.DoJSON(t, app, http.MethodPost, "/api/products", payload, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	payload["discounted_price"] = 800
	resp = testutil.DoJSON(t, app, http.MethodPost, "/api/products", payload, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Product struct {
			models.Product
			EffectivePrice     float64 `json:"effective_price"`
			DiscountPercentage int     `json:"discount_percentage"`
		} `json:"product"`
	}
	testutil.DecodeJSON(t, resp, &body)
	assert.Equal(t, float64(800), body.Product.EffectivePrice)
	assert.Equal(t, 20, body.Product.DiscountPercentage)
	assert.True(t, strings.HasPrefix(body.Product.SKU, "MBL-"))
	assert.Equal(t, "koltuk", body.Product.Slug)
}

func TestUpdateProductDiscountAgainstStoredBase(t *testing.T) {
	app, cfg, db := testutil.NewApp(t)
	admin := testutil.CreateUser(t, db, "Admin", "admin@example.com", "gizli123", models.RoleAdmin)
	token := testutil.AccessToken(t, cfg, admin)
	cat := seedCategory(t, db, "Salon", "salon", 0)
	p := seedProduct(t, db, cat, "Koltuk", 900, nil, true)

	// Kayıtlı temel fiyata eşit indirim reddedilir, kayıt değişmez
	resp := testutil.DoJSON(t, app, http.MethodPut, fmt.Sprintf("/api/products/%d", p.ID),
		map[string]interface{}{"discounted_price": 900}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	var stored models.Product
	require.NoError(t, db.First(&stored, p.ID).Error)
	assert.Equal(t, float64(900), stored.BasePrice)
	assert.Nil(t, stored.DiscountedPrice)

	// Aynı istekte temel fiyat da geliyorsa indirim yeni fiyata göre denetlenir
	resp = testutil.DoJSON(t, app, http.MethodPut, fmt.Sprintf("/api/products/%d", p.ID),
		map[string]interface{}{"base_price": 2000, "discounted_price": 1500}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	require.NoError(t, db.First(&stored, p.ID).Error)
	assert.Equal(t, float64(2000), stored.BasePrice)
	require.NotNil(t, stored.DiscountedPrice)
	assert.Equal(t, float64(1500), *stored.DiscountedPrice)
}

func TestUpdateProductClearDiscount(t *testing.T) {
	app, cfg, db := testutil.NewApp(t)
	admin := testutil.CreateUser(t, db, "Admin", "admin@example.com", "gizli123", models.RoleAdmin)
	token := testutil.AccessToken(t, cfg, admin)
	cat := seedCategory(t, db, "Salon", "salon", 0)
	p := seedProduct(t, db, cat, "Koltuk", 1000, float(700), true)

	resp := testutil.DoJSON(t, app, http.MethodPut, fmt.Sprintf("/api/products/%d", p.ID),
		map[string]interface{}{"clear_discount": true}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var stored models.Product
	require.NoError(t, db.First(&stored, p.ID).Error)
	assert.Nil(t, stored.DiscountedPrice)
}

func TestUpdateProductReplacesVariants(t *testing.T) {
	app, cfg, db := testutil.NewApp(t)
	admin := testutil.CreateUser(t, db, "Admin", "admin@example.com", "gizli123", models.RoleAdmin)
	token := testutil.AccessToken(t, cfg, admin)
	cat := seedCategory(t, db, "Salon", "salon", 0)
	p := seedProduct(t, db, cat, "Koltuk", 1000, nil, true)
	require.NoError(t, db.Create(&models.ProductVariant{ProductID: p.ID, Name: "Gri Kumaş", Stock: 5}).Error)

	// variants alanı olmayan güncelleme varyantlara dokunmaz
	resp := testutil.DoJSON(t, app, http.MethodPut, fmt.Sprintf("/api/products/%d", p.ID),
		map[string]interface{}{"featured": true}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var count int64
	require.NoError(t, db.Model(&models.ProductVariant{}).Where("product_id = ?", p.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Dolu liste mevcut varyantların yerine geçer
	resp = testutil.DoJSON(t, app, http.MethodPut, fmt.Sprintf("/api/products/%d", p.ID),
		map[string]interface{}{"variants": []map[string]interface{}{
			{"name": "Bej Kumaş", "stock": 12, "price_override": 900},
			{"name": "Antrasit Kumaş", "stock": 3},
		}}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Product struct {
			models.Product
			TotalStock int `json:"total_stock"`
		} `json:"product"`
	}
	testutil.DecodeJSON(t, resp, &body)
	assert.Equal(t, 15, body.Product.TotalStock)

	var stored []models.ProductVariant
	require.NoError(t, db.Where("product_id = ?", p.ID).Order("id").Find(&stored).Error)
	require.Len(t, stored, 2)
	assert.Equal(t, "Bej Kumaş", stored[0].Name)
	assert.EqualValues(t, 12, stored[0].Stock)
	require.NotNil(t, stored[0].PriceOverride)
	assert.EqualValues(t, 900, *stored[0].PriceOverride)
	assert.Equal(t, "Antrasit Kumaş", stored[1].Name)

	// Boş liste tüm varyantları kaldırır
	resp = testutil.DoJSON(t, app, http.MethodPut, fmt.Sprintf("/api/products/%d", p.ID),
		map[string]interface{}{"variants": []map[string]interface{}{}}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	require.NoError(t, db.Model(&models.ProductVariant{}).Where("product_id = ?", p.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestDeleteProduct(t *testing.T) {
	app, cfg, db := testutil.NewApp(t)
	admin := testutil.CreateUser(t, db, "Admin", "admin@example.com", "gizli123", models.RoleAdmin)
	token := testutil.AccessToken(t, cfg, admin)
	cat := seedCategory(t, db, "Salon", "salon", 0)
	p := seedProduct(t, db, cat, "Koltuk", 1000, nil, true)

	resp := testutil.DoJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/products/%d", p.ID), nil, token)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
