// Package model содержит доменные сущности клиентского состояния Stellar Burgers.
package model

import "time"

// IngredientType описывает категорию ингредиента.
type IngredientType string

const (
	IngredientBun   IngredientType = "bun"
	IngredientSauce IngredientType = "sauce"
	IngredientMain  IngredientType = "main"
)

// Ingredient представляет неизменяемую позицию каталога ингредиентов.
type Ingredient struct {
	ID            string         `json:"_id"`
	Name          string         `json:"name"`
	Type          IngredientType `json:"type"`
	Proteins      int            `json:"proteins"`
	Fat           int            `json:"fat"`
	Carbohydrates int            `json:"carbohydrates"`
	Calories      int            `json:"calories"`
	Price         int            `json:"price"`
	Image         string         `json:"image"`
	ImageMobile   string         `json:"image_mobile"`
	ImageLarge    string         `json:"image_large"`
}

// IsBun сообщает, относится ли ингредиент к булкам.
func (i Ingredient) IsBun() bool {
	return i.Type == IngredientBun
}

// ConstructorIngredient описывает ингредиент, размещённый в начинке бургера.
// PlacementID хранит локальный идентификатор размещения, не совпадающий с идентификатором каталога.
type ConstructorIngredient struct {
	Ingredient
	PlacementID string `json:"id"`
}

// Composition описывает собираемый пользователем бургер.
type Composition struct {
	Bun      *Ingredient             `json:"bun"`
	Fillings []ConstructorIngredient `json:"ingredients"`
}

// Clone возвращает независимую копию состава.
func (c Composition) Clone() Composition {
	res := Composition{Fillings: make([]ConstructorIngredient, len(c.Fillings))}
	copy(res.Fillings, c.Fillings)
	if c.Bun != nil {
		bun := *c.Bun
		res.Bun = &bun
	}
	return res
}

// Price возвращает стоимость бургера: булка учитывается дважды.
func (c Composition) Price() int {
	total := 0
	if c.Bun != nil {
		total += 2 * c.Bun.Price
	}
	for _, f := range c.Fillings {
		total += f.Price
	}
	return total
}

// IngredientIDs возвращает последовательность идентификаторов для оформления заказа:
// булка, начинка в порядке размещения, снова булка.
func (c Composition) IngredientIDs() []string {
	ids := make([]string, 0, len(c.Fillings)+2)
	if c.Bun != nil {
		ids = append(ids, c.Bun.ID)
	}
	for _, f := range c.Fillings {
		ids = append(ids, f.ID)
	}
	if c.Bun != nil {
		ids = append(ids, c.Bun.ID)
	}
	return ids
}

// Count возвращает число вхождений ингредиента каталога в состав.
func (c Composition) Count(ingredientID string) int {
	n := 0
	if c.Bun != nil && c.Bun.ID == ingredientID {
		n += 2
	}
	for _, f := range c.Fillings {
		if f.ID == ingredientID {
			n++
		}
	}
	return n
}

// OrderStatus описывает статус заказа, присвоенный бэкендом.
type OrderStatus string

const (
	OrderStatusCreated OrderStatus = "created"
	OrderStatusPending OrderStatus = "pending"
	OrderStatusDone    OrderStatus = "done"
)

// Order описывает заказ, полученный от бэкенда.
type Order struct {
	ID          string      `json:"_id"`
	Ingredients []string    `json:"ingredients"`
	Owner       string      `json:"owner,omitempty"`
	Status      OrderStatus `json:"status"`
	Name        string      `json:"name"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	Number      int         `json:"number"`
}

// Feed содержит ленту последних заказов и агрегированные счётчики.
type Feed struct {
	Orders     []Order `json:"orders"`
	Total      int     `json:"total"`
	TotalToday int     `json:"totalToday"`
}

// User описывает данные авторизованного пользователя.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserUpdate содержит изменяемые поля профиля; пустые поля не отправляются.
type UserUpdate struct {
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password,omitempty"`
}

// LoginData содержит учётные данные для входа.
type LoginData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterData содержит данные для регистрации.
type RegisterData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// AuthResponse описывает ответ на вход и регистрацию.
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

// UserResponse описывает ответ на запрос и изменение профиля.
type UserResponse struct {
	User User `json:"user"`
}

// OrderResponse описывает ответ на оформление заказа.
type OrderResponse struct {
	Name  string `json:"name"`
	Order Order  `json:"order"`
}

// OrdersResponse описывает ответ на поиск заказа по номеру.
type OrdersResponse struct {
	Orders []Order `json:"orders"`
}

// MessageResponse описывает ответ операций, возвращающих только сообщение.
type MessageResponse struct {
	Message string `json:"message"`
}
