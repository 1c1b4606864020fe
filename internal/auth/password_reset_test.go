package auth_test

import (
	"net/http"
	"testing"
	"time"

	"mobilya-backend/internal/auth"
	"mobilya-backend/internal/models"
	"mobilya-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForgotPasswordUnknownEmailSameResponse(t *testing.T) {
	app, _, db := testutil.NewApp(t)
	testutil.CreateUser(t, db, "Ali", "ali@example.com", "gizli123", models.RoleCustomer)

	// Kayıtlı ve kayıtsız email aynı cevabı almalı
	for _, email := range []string{"ali@example.com", "yok@example.com"} {
		resp := testutil.DoJSON(t, app, http.MethodPost, "/api/auth/forgot-password",
			map[string]string{"email": email}, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body struct {
			Message string `json:"message"`
		}
		testutil.DecodeJSON(t, resp, &body)
		assert.Equal(t, "Eğer email kayıtlıysa sıfırlama kodu gönderildi", body.Message)
	}
}

func TestResetPasswordFlow(t *testing.T) {
	app, _, db := testutil.NewApp(t)
	user := testutil.CreateUser(t, db, "Ali", "ali@example.com", "eski-sifre", models.RoleCustomer)

	resp := testutil.DoJSON(t, app, http.MethodPost, "/api/auth/forgot-password",
		map[string]string{"email": "ali@example.com"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Kod mail ile gitmediği için hash'i bilinen bir kodla değiştiriyoruz
	code := "123456"
	hash := auth.HashResetCode(code)
	expires := time.Now().Add(10 * time.Minute)
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"reset_code_hash":       hash,
		"reset_code_expires_at": expires,
	}).Error)

	// Yanlış kod reddedilir
	resp = testutil.DoJSON(t, app, http.MethodPost, "/api/auth/reset-password", map[string]string{
		"email":       "ali@example.com",
		"code":        "654321",
		"newPassword": "yeni-sifre",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Doğru kod şifreyi günceller
	resp = testutil.DoJSON(t, app, http.MethodPost, "/api/auth/reset-password", map[string]string{
		"email":       "ali@example.com",
		"code":        code,
		"newPassword": "yeni-sifre",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Kod alanları temizlendi, kod ikinci kez kullanılamaz
	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Nil(t, updated.ResetCodeHash)
	assert.Nil(t, updated.ResetCodeExpiresAt)

	// Yeni şifre ile giriş yapılabilir
	resp = testutil.DoJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ali@example.com",
		"password": "yeni-sifre",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestResetPasswordExpiredCode(t *testing.T) {
	app, _, db := testutil.NewApp(t)
	user := testutil.CreateUser(t, db, "Ali", "ali@example.com", "eski-sifre", models.RoleCustomer)

	code := "123456"
	expires := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"reset_code_hash":       auth.HashResetCode(code),
		"reset_code_expires_at": expires,
	}).Error)

	resp := testutil.DoJSON(t, app, http.MethodPost, "/api/auth/reset-password", map[string]string{
		"email":       "ali@example.com",
		"code":        code,
		"newPassword": "yeni-sifre",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
