package handler

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/stellar-burgers/internal/model"
	"github.com/mmeshcher/stellar-burgers/internal/validation"
)

// GetIngredients возвращает состояние каталога; параметр type оставляет одну категорию.
func (h *Handler) GetIngredients(w http.ResponseWriter, r *http.Request) {
	if t := r.URL.Query().Get("type"); t != "" {
		writeJSON(w, http.StatusOK, h.root.Ingredients.ByType(model.IngredientType(t)))
		return
	}
	writeJSON(w, http.StatusOK, h.root.Ingredients.State())
}

// GetIngredient возвращает ингредиент каталога по идентификатору.
func (h *Handler) GetIngredient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validation.IsValidIngredientID(id) {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	ing, ok := h.root.Ingredients.ByID(id)
	if !ok {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, ing)
}

// FetchIngredients загружает каталог с бэкенда.
func (h *Handler) FetchIngredients(w http.ResponseWriter, r *http.Request) {
	_, err := h.root.Ingredients.Fetch(r.Context())
	h.respond(w, r, err, h.root.Ingredients.State())
}

type constructorResponse struct {
	model.Composition
	Price int `json:"price"`
}

func (h *Handler) constructorSnapshot() constructorResponse {
	c := h.root.Constructor.State()
	return constructorResponse{Composition: c, Price: c.Price()}
}

// GetConstructor возвращает текущую композицию и её стоимость.
func (h *Handler) GetConstructor(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.constructorSnapshot())
}

// AddIngredient добавляет в композицию ингредиент каталога; идентификатор передаётся телом запроса.
func (h *Handler) AddIngredient(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	id := strings.TrimSpace(string(body))
	if !validation.IsValidIngredientID(id) {
		http.Error(w, http.StatusText(http.StatusUnprocessableEntity), http.StatusUnprocessableEntity)
		return
	}

	ing, ok := h.root.Ingredients.ByID(id)
	if !ok {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	h.root.Constructor.Add(ing)
	writeJSON(w, http.StatusOK, h.constructorSnapshot())
}

// RemoveIngredient убирает начинку по идентификатору размещения.
func (h *Handler) RemoveIngredient(w http.ResponseWriter, r *http.Request) {
	h.root.Constructor.RemoveFilling(chi.URLParam(r, "placementID"))
	writeJSON(w, http.StatusOK, h.constructorSnapshot())
}

// MoveIngredientUp меняет начинку местами с предыдущей.
func (h *Handler) MoveIngredientUp(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	h.root.Constructor.MoveUp(index)
	writeJSON(w, http.StatusOK, h.constructorSnapshot())
}

// MoveIngredientDown меняет начинку местами со следующей.
func (h *Handler) MoveIngredientDown(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	h.root.Constructor.MoveDown(index)
	writeJSON(w, http.StatusOK, h.constructorSnapshot())
}

// ClearConstructor очищает композицию.
func (h *Handler) ClearConstructor(w http.ResponseWriter, r *http.Request) {
	h.root.Constructor.Clear()
	writeJSON(w, http.StatusOK, h.constructorSnapshot())
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return 0, false
	}
	return index, true
}
