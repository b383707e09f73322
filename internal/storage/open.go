package storage

import (
	"context"
	"fmt"

	"github.com/mmeshcher/stellar-burgers/internal/config"
)

// Пространства имён: «cookie» для access-токена и «локальное» хранилище для refresh-токена.
const (
	NamespaceCookies = "cookies"
	NamespaceLocal   = "local"
)

// Open создаёт хранилище учётных данных выбранного в конфигурации типа.
// Возвращаемая функция освобождает соединения.
func Open(ctx context.Context, cfg *config.Config) (*Credentials, func(), error) {
	switch cfg.Storage {
	case config.StorageRedis:
		client, err := OpenRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		creds := NewCredentials(NewRedis(client, NamespaceCookies), NewRedis(client, NamespaceLocal))
		return creds, func() { _ = client.Close() }, nil

	case config.StoragePostgres:
		pool, err := OpenPostgres(ctx, cfg.DatabaseURI)
		if err != nil {
			return nil, nil, err
		}
		creds := NewCredentials(NewPostgres(pool, NamespaceCookies), NewPostgres(pool, NamespaceLocal))
		return creds, pool.Close, nil

	case config.StorageMemory, "":
		return NewCredentials(NewMemory(), NewMemory()), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}
