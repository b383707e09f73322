// Package storage содержит хранилища, в которых клиент сохраняет токены между запусками:
// в памяти процесса, в Redis и в PostgreSQL.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound возвращается, если ключа нет в хранилище.
var ErrNotFound = errors.New("key not found")

// KV описывает строковое хранилище ключ-значение.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

const (
	accessTokenKey  = "accessToken"
	refreshTokenKey = "refreshToken"
)

// Credentials хранит access-токен в хранилище «cookie», а refresh-токен в «локальном» хранилище.
type Credentials struct {
	cookies KV
	local   KV
}

// NewCredentials создаёт хранилище учётных данных поверх двух KV.
func NewCredentials(cookies, local KV) *Credentials {
	return &Credentials{cookies: cookies, local: local}
}

// SetAccessToken сохраняет access-токен.
func (c *Credentials) SetAccessToken(ctx context.Context, token string) error {
	if err := c.cookies.Set(ctx, accessTokenKey, token); err != nil {
		return fmt.Errorf("set access token: %w", err)
	}
	return nil
}

// AccessToken возвращает access-токен и признак его наличия.
func (c *Credentials) AccessToken(ctx context.Context) (string, bool, error) {
	return lookup(ctx, c.cookies, accessTokenKey)
}

// ClearAccessToken удаляет access-токен.
func (c *Credentials) ClearAccessToken(ctx context.Context) error {
	if err := c.cookies.Delete(ctx, accessTokenKey); err != nil {
		return fmt.Errorf("clear access token: %w", err)
	}
	return nil
}

// SetRefreshToken сохраняет refresh-токен.
func (c *Credentials) SetRefreshToken(ctx context.Context, token string) error {
	if err := c.local.Set(ctx, refreshTokenKey, token); err != nil {
		return fmt.Errorf("set refresh token: %w", err)
	}
	return nil
}

// RefreshToken возвращает refresh-токен и признак его наличия.
func (c *Credentials) RefreshToken(ctx context.Context) (string, bool, error) {
	return lookup(ctx, c.local, refreshTokenKey)
}

// RemoveRefreshToken удаляет refresh-токен.
func (c *Credentials) RemoveRefreshToken(ctx context.Context) error {
	if err := c.local.Delete(ctx, refreshTokenKey); err != nil {
		return fmt.Errorf("remove refresh token: %w", err)
	}
	return nil
}

// ClearAll очищает локальное хранилище целиком.
func (c *Credentials) ClearAll(ctx context.Context) error {
	if err := c.local.Clear(ctx); err != nil {
		return fmt.Errorf("clear local storage: %w", err)
	}
	return nil
}

func lookup(ctx context.Context, kv KV, key string) (string, bool, error) {
	v, err := kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, v != "", nil
}
