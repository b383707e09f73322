package store

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/mmeshcher/stellar-burgers/internal/model"
)

type stubAPI struct {
	ingredients    []model.Ingredient
	ingredientsErr error

	feed       *model.Feed
	feedErr    error
	userOrders []model.Order
	userErr    error

	orderResp  *model.OrderResponse
	orderErr   error
	gotIDs     []string
	lookupResp *model.OrdersResponse
	lookupErr  error
	gotNumber  int

	authResp   *model.AuthResponse
	authErr    error
	userResp   *model.UserResponse
	getUserErr error
	updateErr  error
	logoutErr  error
	messageErr error
	getUserN   int

	// block, если задан, задерживает GetIngredients до закрытия канала.
	block chan struct{}
	// authBlock, если задан, задерживает Login до закрытия канала.
	authBlock chan struct{}
}

func (s *stubAPI) GetIngredients(ctx context.Context) ([]model.Ingredient, error) {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.ingredients, s.ingredientsErr
}

func (s *stubAPI) GetFeeds(ctx context.Context) (*model.Feed, error) {
	return s.feed, s.feedErr
}

func (s *stubAPI) GetUserOrders(ctx context.Context) ([]model.Order, error) {
	return s.userOrders, s.userErr
}

func (s *stubAPI) OrderBurger(ctx context.Context, ids []string) (*model.OrderResponse, error) {
	s.gotIDs = ids
	return s.orderResp, s.orderErr
}

func (s *stubAPI) GetOrderByNumber(ctx context.Context, number int) (*model.OrdersResponse, error) {
	s.gotNumber = number
	return s.lookupResp, s.lookupErr
}

func (s *stubAPI) Register(ctx context.Context, data model.RegisterData) (*model.AuthResponse, error) {
	return s.authResp, s.authErr
}

func (s *stubAPI) Login(ctx context.Context, data model.LoginData) (*model.AuthResponse, error) {
	if s.authBlock != nil {
		select {
		case <-s.authBlock:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.authResp, s.authErr
}

func (s *stubAPI) Logout(ctx context.Context) (*model.MessageResponse, error) {
	if s.logoutErr != nil {
		return nil, s.logoutErr
	}
	return &model.MessageResponse{Message: "Successful logout"}, nil
}

func (s *stubAPI) GetUser(ctx context.Context) (*model.UserResponse, error) {
	s.getUserN++
	return s.userResp, s.getUserErr
}

func (s *stubAPI) UpdateUser(ctx context.Context, data model.UserUpdate) (*model.UserResponse, error) {
	return s.userResp, s.updateErr
}

func (s *stubAPI) ForgotPassword(ctx context.Context, email string) (*model.MessageResponse, error) {
	if s.messageErr != nil {
		return nil, s.messageErr
	}
	return &model.MessageResponse{Message: "Reset email sent"}, nil
}

func (s *stubAPI) ResetPassword(ctx context.Context, password, token string) (*model.MessageResponse, error) {
	if s.messageErr != nil {
		return nil, s.messageErr
	}
	return &model.MessageResponse{Message: "Password successfully reset"}, nil
}

// fakeCredentials записывает все обращения к хранилищу токенов.
type fakeCredentials struct {
	mu      sync.Mutex
	access  string
	refresh string
	local   map[string]string
	calls   []string
	failSet error

	failSetRefresh    error
	failRemoveRefresh error
}

func newFakeCredentials() *fakeCredentials {
	return &fakeCredentials{local: map[string]string{"burger": "draft"}}
}

func (f *fakeCredentials) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeCredentials) SetAccessToken(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("setAccess:" + token)
	if f.failSet != nil {
		return f.failSet
	}
	f.access = token
	return nil
}

func (f *fakeCredentials) AccessToken(ctx context.Context) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.access, f.access != "", nil
}

func (f *fakeCredentials) ClearAccessToken(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("clearAccess")
	f.access = ""
	return nil
}

func (f *fakeCredentials) SetRefreshToken(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("setRefresh:" + token)
	if f.failSetRefresh != nil {
		return f.failSetRefresh
	}
	f.refresh = token
	return nil
}

func (f *fakeCredentials) RemoveRefreshToken(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("removeRefresh")
	if f.failRemoveRefresh != nil {
		return f.failRemoveRefresh
	}
	f.refresh = ""
	return nil
}

func (f *fakeCredentials) ClearAll(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("clearAll")
	f.local = map[string]string{}
	return nil
}

func (f *fakeCredentials) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// seqIDs выдаёт предсказуемые идентификаторы и считает вызовы.
type seqIDs struct {
	n int
}

func (g *seqIDs) NewID() string {
	id := "placement-" + strconv.Itoa(g.n)
	g.n++
	return id
}

var errNetwork = errors.New("Network error")

var (
	bun = model.Ingredient{
		ID:            "643d69a5c3f7b9001cfa093c",
		Name:          "Краторная булка N-200i",
		Type:          model.IngredientBun,
		Proteins:      80,
		Fat:           24,
		Carbohydrates: 53,
		Calories:      420,
		Price:         1255,
		Image:         "https://code.s3.yandex.net/react/code/bun-02.png",
		ImageMobile:   "https://code.s3.yandex.net/react/code/bun-02-mobile.png",
		ImageLarge:    "https://code.s3.yandex.net/react/code/bun-02-large.png",
	}
	otherBun = model.Ingredient{
		ID:    "643d69a5c3f7b9001cfa093d",
		Name:  "Флюоресцентная булка R2-D3",
		Type:  model.IngredientBun,
		Price: 988,
	}
	sauce = model.Ingredient{
		ID:            "643d69a5c3f7b9001cfa0942",
		Name:          "Соус Spicy-X",
		Type:          model.IngredientSauce,
		Proteins:      30,
		Fat:           20,
		Carbohydrates: 40,
		Calories:      30,
		Price:         90,
	}
	mainIngredient = model.Ingredient{
		ID:            "643d69a5c3f7b9001cfa0941",
		Name:          "Биокотлета из марсианской Магнолии",
		Type:          model.IngredientMain,
		Proteins:      420,
		Fat:           142,
		Carbohydrates: 242,
		Calories:      4242,
		Price:         424,
	}
)
