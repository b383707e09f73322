// Package handler содержит HTTP-обработчики, через которые UI читает состояние клиента
// и отправляет действия в хранилища.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/stellar-burgers/internal/api"
	"github.com/mmeshcher/stellar-burgers/internal/middleware"
	"github.com/mmeshcher/stellar-burgers/internal/model"
	"github.com/mmeshcher/stellar-burgers/internal/service"
	"github.com/mmeshcher/stellar-burgers/internal/store"
)

// Service определяет сценарии, затрагивающие несколько хранилищ.
type Service interface {
	Root() *store.Root
	SubmitBurger(ctx context.Context) (*model.Order, error)
	OpenOrder(ctx context.Context, number int) (*model.Order, error)
}

// Handler реализует HTTP-обработчики поверх контейнера состояния.
type Handler struct {
	service        Service
	root           *store.Root
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	root := s.Root()
	return &Handler{
		service:        s,
		root:           root,
		logger:         logger,
		authMiddleware: middleware.NewAuthMiddleware(root.Session),
	}
}

// State возвращает снимок всего дерева состояния.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.root.Snapshot())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respond отправляет снимок хранилища; при ошибке статус выбирается по её виду,
// а поле error снимка содержит сообщение.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, err error, snapshot any) {
	if err == nil {
		writeJSON(w, http.StatusOK, snapshot)
		return
	}

	status := statusFromError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Warn("dispatch failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, snapshot)
}

func statusFromError(err error) int {
	var apiErr *api.Error
	switch {
	case errors.Is(err, service.ErrNoBun):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrNotAuthorized),
		errors.Is(err, api.ErrUnauthorized),
		errors.Is(err, api.ErrNoRefreshToken):
		return http.StatusUnauthorized
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &apiErr):
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}
