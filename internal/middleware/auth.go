// Package middleware содержит HTTP middleware клиента Stellar Burgers.
package middleware

import (
	"net/http"
)

// SessionStatus сообщает состояние проверки сессии.
type SessionStatus interface {
	IsAuthChecked() bool
	IsAuthorized() bool
}

// AuthMiddleware пропускает запросы в зависимости от состояния сессии.
// Пока проверка сессии не завершена, защищённые маршруты отвечают 503.
type AuthMiddleware struct {
	session SessionStatus
}

// NewAuthMiddleware создаёт middleware над состоянием сессии.
func NewAuthMiddleware(session SessionStatus) *AuthMiddleware {
	return &AuthMiddleware{session: session}
}

// RequireAuthorized пропускает только запросы вошедшего пользователя.
func (a *AuthMiddleware) RequireAuthorized(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.session.IsAuthChecked() {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "session check in progress", http.StatusServiceUnavailable)
			return
		}
		if !a.session.IsAuthorized() {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAnonymous пропускает только запросы без активной сессии: вход, регистрация, сброс пароля.
func (a *AuthMiddleware) RequireAnonymous(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.session.IsAuthorized() {
			http.Error(w, "already authorized", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
