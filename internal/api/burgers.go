package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/mmeshcher/stellar-burgers/internal/model"
)

// orderWire описывает заказ в том виде, в каком его отдаёт бэкенд: при оформлении заказа
// ингредиенты и владелец приходят объектами, а в ленте идентификаторами.
type orderWire struct {
	ID          string            `json:"_id"`
	Ingredients []json.RawMessage `json:"ingredients"`
	Owner       json.RawMessage   `json:"owner,omitempty"`
	Status      string            `json:"status"`
	Name        string            `json:"name"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	Number      int               `json:"number"`
}

func (w orderWire) toModel() model.Order {
	ids := make([]string, 0, len(w.Ingredients))
	for _, raw := range w.Ingredients {
		if id := refID(raw); id != "" {
			ids = append(ids, id)
		}
	}
	return model.Order{
		ID:          w.ID,
		Ingredients: ids,
		Owner:       refID(w.Owner),
		Status:      model.OrderStatus(w.Status),
		Name:        w.Name,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
		Number:      w.Number,
	}
}

func toOrders(src []orderWire) []model.Order {
	res := make([]model.Order, 0, len(src))
	for _, w := range src {
		res = append(res, w.toModel())
	}
	return res
}

// refID извлекает идентификатор из строки или из объекта с полем _id.
func refID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id
	}
	var obj struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.ID
	}
	return ""
}

// GetIngredients загружает каталог ингредиентов.
func (c *Client) GetIngredients(ctx context.Context) ([]model.Ingredient, error) {
	var res struct {
		Data []model.Ingredient `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/ingredients", nil, "", &res); err != nil {
		return nil, err
	}
	if res.Data == nil {
		res.Data = []model.Ingredient{}
	}
	return res.Data, nil
}

type feedResponse struct {
	Orders     []orderWire `json:"orders"`
	Total      int         `json:"total"`
	TotalToday int         `json:"totalToday"`
}

// GetFeeds загружает общую ленту заказов.
func (c *Client) GetFeeds(ctx context.Context) (*model.Feed, error) {
	var res feedResponse
	if err := c.do(ctx, http.MethodGet, "/orders/all", nil, "", &res); err != nil {
		return nil, err
	}
	return &model.Feed{
		Orders:     toOrders(res.Orders),
		Total:      res.Total,
		TotalToday: res.TotalToday,
	}, nil
}

// GetUserOrders загружает заказы текущего пользователя.
func (c *Client) GetUserOrders(ctx context.Context) ([]model.Order, error) {
	var res feedResponse
	if err := c.doAuthorized(ctx, http.MethodGet, "/orders", nil, &res); err != nil {
		return nil, err
	}
	return toOrders(res.Orders), nil
}

// OrderBurger оформляет заказ из последовательности идентификаторов ингредиентов.
func (c *Client) OrderBurger(ctx context.Context, ingredientIDs []string) (*model.OrderResponse, error) {
	body := map[string][]string{"ingredients": ingredientIDs}

	var res struct {
		Name  string    `json:"name"`
		Order orderWire `json:"order"`
	}
	if err := c.doAuthorized(ctx, http.MethodPost, "/orders", body, &res); err != nil {
		return nil, err
	}
	return &model.OrderResponse{Name: res.Name, Order: res.Order.toModel()}, nil
}

// GetOrderByNumber ищет заказ по номеру.
func (c *Client) GetOrderByNumber(ctx context.Context, number int) (*model.OrdersResponse, error) {
	var res struct {
		Orders []orderWire `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/orders/"+strconv.Itoa(number), nil, "", &res); err != nil {
		return nil, err
	}
	return &model.OrdersResponse{Orders: toOrders(res.Orders)}, nil
}
