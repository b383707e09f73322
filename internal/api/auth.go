package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mmeshcher/stellar-burgers/internal/model"
)

// Register регистрирует пользователя.
func (c *Client) Register(ctx context.Context, data model.RegisterData) (*model.AuthResponse, error) {
	var res model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", data, "", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Login выполняет вход по email и паролю.
func (c *Client) Login(ctx context.Context, data model.LoginData) (*model.AuthResponse, error) {
	var res model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", data, "", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Logout отзывает refresh-токен на бэкенде. Локальные токены не трогает.
func (c *Client) Logout(ctx context.Context) (*model.MessageResponse, error) {
	if c.tokens == nil {
		return nil, ErrNoRefreshToken
	}
	token, ok, err := c.tokens.RefreshToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("read refresh token: %w", err)
	}
	if !ok {
		return nil, ErrNoRefreshToken
	}

	var res model.MessageResponse
	if err := c.do(ctx, http.MethodPost, "/auth/logout", map[string]string{"token": token}, "", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetUser загружает профиль текущего пользователя.
func (c *Client) GetUser(ctx context.Context) (*model.UserResponse, error) {
	var res model.UserResponse
	if err := c.doAuthorized(ctx, http.MethodGet, "/auth/user", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdateUser изменяет профиль текущего пользователя.
func (c *Client) UpdateUser(ctx context.Context, data model.UserUpdate) (*model.UserResponse, error) {
	var res model.UserResponse
	if err := c.doAuthorized(ctx, http.MethodPatch, "/auth/user", data, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ForgotPassword запрашивает письмо с кодом сброса пароля.
func (c *Client) ForgotPassword(ctx context.Context, email string) (*model.MessageResponse, error) {
	var res model.MessageResponse
	if err := c.do(ctx, http.MethodPost, "/password-reset", map[string]string{"email": email}, "", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ResetPassword устанавливает новый пароль по коду из письма.
func (c *Client) ResetPassword(ctx context.Context, password, token string) (*model.MessageResponse, error) {
	body := map[string]string{"password": password, "token": token}

	var res model.MessageResponse
	if err := c.do(ctx, http.MethodPost, "/password-reset/reset", body, "", &res); err != nil {
		return nil, err
	}
	return &res, nil
}
