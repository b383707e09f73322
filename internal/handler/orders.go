package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/stellar-burgers/internal/model"
	"github.com/mmeshcher/stellar-burgers/internal/store"
	"github.com/mmeshcher/stellar-burgers/internal/validation"
)

// boardLimit ограничивает число номеров в каждой колонке табло ленты.
const boardLimit = 20

type feedResponse struct {
	store.FeedState
	Done    []int `json:"done"`
	Pending []int `json:"pending"`
}

func (h *Handler) feedSnapshot() feedResponse {
	return feedResponse{
		FeedState: h.root.Feed.State(),
		Done:      h.root.Feed.NumbersByStatus(model.OrderStatusDone, boardLimit),
		Pending:   h.root.Feed.NumbersByStatus(model.OrderStatusPending, boardLimit),
	}
}

// GetFeed возвращает ленту заказов вместе с табло готовых и готовящихся номеров.
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.feedSnapshot())
}

// FetchFeed загружает общую ленту заказов.
func (h *Handler) FetchFeed(w http.ResponseWriter, r *http.Request) {
	_, err := h.root.Feed.Fetch(r.Context())
	h.respond(w, r, err, h.feedSnapshot())
}

// FetchProfileOrders загружает заказы текущего пользователя.
func (h *Handler) FetchProfileOrders(w http.ResponseWriter, r *http.Request) {
	_, err := h.root.Feed.FetchUserOrders(r.Context())
	h.respond(w, r, err, h.root.Feed.State().Profile)
}

// SubmitOrder оформляет заказ из текущей композиции и очищает конструктор.
func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	_, err := h.service.SubmitBurger(r.Context())
	h.respond(w, r, err, h.root.Orders.State())
}

// GetOrder загружает заказ по номеру и открывает его в модальном окне.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	number, err := validation.ParseOrderNumber(chi.URLParam(r, "number"))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	order, err := h.service.OpenOrder(r.Context(), number)
	if err == nil && order == nil {
		writeJSON(w, http.StatusNotFound, h.root.Orders.State())
		return
	}
	h.respond(w, r, err, h.root.Orders.State())
}

// CloseOrder закрывает модальное окно заказа.
func (h *Handler) CloseOrder(w http.ResponseWriter, r *http.Request) {
	h.root.Orders.Clear()
	writeJSON(w, http.StatusOK, h.root.Orders.State())
}
