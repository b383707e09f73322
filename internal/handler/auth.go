package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mmeshcher/stellar-burgers/internal/model"
	"github.com/mmeshcher/stellar-burgers/internal/validation"
)

type messageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Login выполняет вход по email и паролю.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginData
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if !validation.IsValidEmail(req.Email) || req.Password == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	_, err := h.root.Session.Login(r.Context(), req)
	h.respond(w, r, err, h.root.Session.State())
}

// Register регистрирует нового пользователя.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterData
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if !validation.IsValidEmail(req.Email) || req.Password == "" || req.Name == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	_, err := h.root.Session.Register(r.Context(), req)
	h.respond(w, r, err, h.root.Session.State())
}

// Logout завершает сессию.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	err := h.root.Session.Logout(r.Context())
	h.respond(w, r, err, h.root.Session.State())
}

// CheckSession восстанавливает сессию по сохранённому токену.
func (h *Handler) CheckSession(w http.ResponseWriter, r *http.Request) {
	_, err := h.root.Session.CheckSession(r.Context())
	h.respond(w, r, err, h.root.Session.State())
}

// GetUser возвращает состояние сессии.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.root.Session.State())
}

// UpdateUser изменяет профиль пользователя.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req model.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.Email != "" && !validation.IsValidEmail(req.Email) {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	_, err := h.root.Session.UpdateProfile(r.Context(), req)
	h.respond(w, r, err, h.root.Session.State())
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword запрашивает письмо для сброса пароля.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if !validation.IsValidEmail(req.Email) {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	msg, err := h.root.Session.ForgotPassword(r.Context(), req.Email)
	h.respondMessage(w, r, msg, err)
}

type resetPasswordRequest struct {
	Password string `json:"password"`
	Token    string `json:"token"`
}

// ResetPassword устанавливает новый пароль по коду из письма.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.Password == "" || req.Token == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	msg, err := h.root.Session.ResetPassword(r.Context(), req.Password, req.Token)
	h.respondMessage(w, r, msg, err)
}

func (h *Handler) respondMessage(w http.ResponseWriter, r *http.Request, msg string, err error) {
	resp := messageResponse{Message: msg}
	if err != nil {
		resp.Error = err.Error()
	}
	h.respond(w, r, err, resp)
}
