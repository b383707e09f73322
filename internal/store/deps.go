package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/mmeshcher/stellar-burgers/internal/model"
)

// IngredientsAPI загружает каталог ингредиентов.
type IngredientsAPI interface {
	GetIngredients(ctx context.Context) ([]model.Ingredient, error)
}

// FeedAPI загружает общую ленту заказов и заказы текущего пользователя.
type FeedAPI interface {
	GetFeeds(ctx context.Context) (*model.Feed, error)
	GetUserOrders(ctx context.Context) ([]model.Order, error)
}

// OrdersAPI оформляет заказ и ищет заказ по номеру.
type OrdersAPI interface {
	OrderBurger(ctx context.Context, ingredientIDs []string) (*model.OrderResponse, error)
	GetOrderByNumber(ctx context.Context, number int) (*model.OrdersResponse, error)
}

// AuthAPI описывает операции с учётной записью пользователя.
type AuthAPI interface {
	Register(ctx context.Context, data model.RegisterData) (*model.AuthResponse, error)
	Login(ctx context.Context, data model.LoginData) (*model.AuthResponse, error)
	Logout(ctx context.Context) (*model.MessageResponse, error)
	GetUser(ctx context.Context) (*model.UserResponse, error)
	UpdateUser(ctx context.Context, data model.UserUpdate) (*model.UserResponse, error)
	ForgotPassword(ctx context.Context, email string) (*model.MessageResponse, error)
	ResetPassword(ctx context.Context, password, token string) (*model.MessageResponse, error)
}

// API объединяет все внешние операции, используемые хранилищами.
type API interface {
	IngredientsAPI
	FeedAPI
	OrdersAPI
	AuthAPI
}

// Credentials хранит токены вне дерева состояния.
// Access-токен живёт в хранилище cookie, а refresh-токен в локальном хранилище клиента.
type Credentials interface {
	SetAccessToken(ctx context.Context, token string) error
	AccessToken(ctx context.Context) (string, bool, error)
	ClearAccessToken(ctx context.Context) error
	SetRefreshToken(ctx context.Context, token string) error
	RemoveRefreshToken(ctx context.Context) error
	ClearAll(ctx context.Context) error
}

// IDGenerator выдаёт идентификаторы размещения ингредиентов в конструкторе.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator генерирует идентификаторы размещения на основе UUID v4.
type UUIDGenerator struct{}

// NewID реализует IDGenerator.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
