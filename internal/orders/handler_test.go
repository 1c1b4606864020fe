package orders_test

import (
	"fmt"
	"net/http"
	"testing"

	"mobilya-backend/internal/models"
	"mobilya-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderPayload() map[string]interface{} {
	return map[string]interface{}{
		"items": []map[string]interface{}{
			{
				"product_id":  1,
				"name":        "Koltuk",
				"quantity":    2,
				"unit_price":  1000,
				"total_price": 2000,
			},
		},
		"shipping_address": map[string]interface{}{
			"full_name": "Ali Veli",
			"phone":     "05551234567",
			"city":      "İstanbul",
			"district":  "Kadıköy",
			"address":   "Örnek Mah. No:1",
		},
		"subtotal":      2000,
		"shipping_cost": 150,
	}
}

func TestCreateOrderRequiresAuth(t *testing.T) {
	app, _, _ := testutil.NewApp(t)

	resp := testutil.DoJSON(t, app, http.MethodPost, "/api/orders", orderPayload(), "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateOrderComputesTotal(t *testing.T) {
	app, cfg, db := testutil.NewApp(t)
	user := testutil.CreateUser(t, db, "Ali", "ali@example.com", "gizli123", models.RoleCustomer)
	token := testutil.AccessToken(t, cfg, user)

	resp := testutil.DoJSON(t, app, http.MethodPost, "/api/orders", orderPayload(), token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Order models.Order `json:"order"`
	}
	testutil.DecodeJSON(t, resp, &body)

	// total_amount gönderilmediyse subtotal + shipping_cost
	assert.Equal(t, float64(2150), body.Order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, body.Order.OrderStatus)
	assert.Equal(t, models.PaymentStatusPending, body.Order.PaymentStatus)
	assert.Equal(t, models.DefaultPaymentMethod, body.Order.PaymentMethod)
	assert.Regexp(t, `^SIP-\d{8}-[0-9A-F]{6}$`, body.Order.OrderNumber)
	require.Len(t, body.Order.Items, 1)
	assert.Equal(t, "Koltuk", body.Order.Items[0].Name)
}

func TestCreateOrderValidation(t *testing.T) {
	app, cfg, db := testutil.NewApp(t)
	user := testutil.CreateUser(t, db, "Ali", "ali@example.com", "gizli123", models.RoleCustomer)
	token := testutil.AccessToken(t, cfg, user)

	payload := orderPayload()
	payload["items"] = []map[string]interface{}{}
	addr := payload["shipping_address"].(map[string]interface{})
	addr["phone"] = "555-123" // rakam dışı karakter

	resp := testutil.DoJSON(t, app, http.MethodPost, "/api/orders", payload, token)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Message    string `json:"message"`
		Violations []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"violations"`
	}
	testutil.DecodeJSON(t, resp, &body)
	require.NotEmpty(t, body.Violations)

	fields := make([]string, 0, len(body.Violations))
	for _, v := range body.Violations {
		fields = append(fields, v.Field)
	}
	assert.Contains(t, fields, "items")
	assert.Contains(t, fields, "shipping_address.phone")

	// Geçersiz istek sipariş yaratmaz
	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestOrderNumbersUnique(t *testing.T) {
	app, cfg, db := testutil.NewApp(t)
	user := testutil.CreateUser(t, db, "Ali", "ali@example.com", "gizli123", models.RoleCustomer)
	token := testutil.AccessToken(t, cfg, user)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		resp := testutil.DoJSON(t, app, http.MethodPost, "/api/orders", orderPayload(), token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var body struct {
			Order models.Order `json:"order"`
		}
		testutil.DecodeJSON(t, resp, &body)
		require.NotEmpty(t, body.Order.OrderNumber)
		assert.False(t, seen[body.Order.OrderNumber])
		seen[body.Order.OrderNumber] = true
	}

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 5, count)
}

func TestListMyOrdersOnlyOwn(t *testing.T) {
	app, cfg, db := testutil.NewApp(t)
	ali := testutil.CreateUser(t, db, "Ali", "ali@example.com", "gizli123", models.RoleCustomer)
	veli := testutil.CreateUser(t, db, "Veli", "veli@example.com", "gizli123", models.RoleCustomer)

	resp := testutil.DoJSON(t, app, http.MethodPost, "/api/orders", orderPayload(), testutil.AccessToken(t, cfg, ali))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = testutil.DoJSON(t, app, http.MethodGet, "/api/orders", nil, testutil.AccessToken(t, cfg, veli))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Count  int            `json:"count"`
		Orders []models.Order `json:"orders"`
	}
	testutil.DecodeJSON(t, resp, &body)
	assert.Equal(t, 0, body.Count)
}

func TestGetOrderOwnership(t *testing.T) {
	app, cfg, db := testutil.NewApp(t)
	ali := testutil.CreateUser(t, db, "Ali", "ali@example.com", "gizli123", models.RoleCustomer)
	veli := testutil.CreateUser(t, db, "Veli", "veli@example.com", "gizli123", models.RoleCustomer)
	admin := testutil.CreateUser(t, db, "Admin", "admin@example.com", "gizli123", models.RoleAdmin)

	resp := testutil.DoJSON(t, app, http.MethodPost, "/api/orders", orderPayload(), testutil.AccessToken(t, cfg, ali))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		Order models.Order `json:"order"`
	}
	testutil.DecodeJSON(t, resp, &created)
	path := fmt.Sprintf("/api/orders/%d", created.Order.ID)

	// Sahibi görebilir
	resp = testutil.DoJSON(t, app, http.MethodGet, path, nil, testutil.AccessToken(t, cfg, ali))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Başka müşteri göremez
	resp = testutil.DoJSON(t, app, http.MethodGet, path, nil, testutil.AccessToken(t, cfg, veli))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Admin görebilir
	resp = testutil.DoJSON(t, app, http.MethodGet, path, nil, testutil.AccessToken(t, cfg, admin))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestUpdateOrderStatus(t *testing.T) {
	app, cfg, db := testutil.NewApp(t)
	ali := testutil.CreateUser(t, db, "Ali", "ali@example.com", "gizli123", models.RoleCustomer)
	admin := testutil.CreateUser(t, db, "Admin", "admin@example.com", "gizli123", models.RoleAdmin)
	adminTok := testutil.AccessToken(t, cfg, admin)

	resp := testutil.DoJSON(t, app, http.MethodPost, "/api/orders", orderPayload(), testutil.AccessToken(t, cfg, ali))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		Order models.Order `json:"order"`
	}
	testutil.DecodeJSON(t, resp, &created)
	path := fmt.Sprintf("/api/orders/%d/status", created.Order.ID)

	// Geçersiz durum reddedilir
	resp = testutil.DoJSON(t, app, http.MethodPut, path,
		map[string]interface{}{"order_status": "gönderildi"}, adminTok)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = testutil.DoJSON(t, app, http.MethodPut, path,
		map[string]interface{}{"order_status": "kargoya verildi", "payment_status": "paid"}, adminTok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Durum değişti, kalemler ve tutar aynı kaldı
	var stored models.Order
	require.NoError(t, db.Preload("Items").First(&stored, created.Order.ID).Error)
	assert.Equal(t, models.OrderStatusShipped, stored.OrderStatus)
	assert.Equal(t, models.PaymentStatusPaid, stored.PaymentStatus)
	assert.Equal(t, created.Order.TotalAmount, stored.TotalAmount)
	assert.Len(t, stored.Items, 1)
}

func TestListAllOrdersRequiresAdmin(t *testing.T) {
	app, cfg, db := testutil.NewApp(t)
	ali := testutil.CreateUser(t, db, "Ali", "ali@example.com", "gizli123", models.RoleCustomer)

	resp := testutil.DoJSON(t, app, http.MethodGet, "/api/orders/admin/all", nil, testutil.AccessToken(t, cfg, ali))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestListAllOrdersStatusFilter(t *testing.T) {
	app, cfg, db := testutil.NewApp(t)
	ali := testutil.CreateUser(t, db, "Ali", "ali@example.com", "gizli123", models.RoleCustomer)
	admin := testutil.CreateUser(t, db, "Admin", "admin@example.com", "gizli123", models.RoleAdmin)
	adminTok := testutil.AccessToken(t, cfg, admin)

	for i := 0; i < 2; i++ {
		resp := testutil.DoJSON(t, app, http.MethodPost, "/api/orders", orderPayload(), testutil.AccessToken(t, cfg, ali))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", 1).
		Update("order_status", models.OrderStatusShipped).Error)

	resp := testutil.DoJSON(t, app, http.MethodGet, "/api/orders/admin/all?status=kargoya+verildi", nil, adminTok)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Count int   `json:"count"`
		Total int64 `json:"total"`
	}
	testutil.DecodeJSON(t, resp, &body)
	assert.Equal(t, 1, body.Count)
	assert.EqualValues(t, 1, body.Total)
}
