package api

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expirySkew задаёт запас, с которым токен считается истёкшим заранее.
const expirySkew = 5 * time.Second

// tokenExpired проверяет срок действия access-токена по claim exp без проверки подписи.
// Токен, срок которого прочитать не удалось, считается действующим: решение примет бэкенд.
func tokenExpired(token string, now time.Time) bool {
	raw := strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if raw == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return !now.Add(expirySkew).Before(exp.Time)
}
