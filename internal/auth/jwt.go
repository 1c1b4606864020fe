package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"mobilya-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrTokenExpired = errors.New("token süresi dolmuş")
	ErrTokenInvalid = errors.New("geçersiz token")
)

type Claims struct {
	UserID    uint            `json:"user_id"`
	Role      models.UserRole `json:"role"`
	TokenType string          `json:"token_type"`
	jwt.RegisteredClaims
}

func generateToken(secret string, user *models.User, tokenType string, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID:    user.ID,
		Role:      user.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateAccessToken: kısa ömürlü erişim token'ı (~15 dk)
func GenerateAccessToken(secret string, user *models.User, ttl time.Duration) (string, error) {
	return generateToken(secret, user, TokenTypeAccess, ttl)
}

// GenerateRefreshToken: sadece yeni access token üretmek için kullanılır (~7 gün)
func GenerateRefreshToken(secret string, user *models.User, ttl time.Duration) (string, error) {
	return generateToken(secret, user, TokenTypeRefresh, ttl)
}

// ParseToken: imzayı doğrular, claim'leri döndürür. Süresi dolmuş token için
// ErrTokenExpired, diğer tüm hatalar için ErrTokenInvalid döner.
func ParseToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("geçersiz imzalama yöntemi")
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ExtractBearer: "Authorization: Bearer <token>" başlığından token'ı ayıklar.
// Bozuk girdi için boş string döner, asla hata fırlatmaz.
func ExtractBearer(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	token := strings.TrimSpace(parts[1])
	return token
}
