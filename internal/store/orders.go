package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/mmeshcher/stellar-burgers/internal/model"
)

// OrderState описывает состояние оформления и просмотра заказа.
// Оба семейства операций пишут результат в OrderModalData и разделяют поля IsLoading и Error.
type OrderState struct {
	OrderModalData *model.Order `json:"orderModalData"`
	OrderRequest   bool         `json:"orderRequest"`
	Request
}

// Orders хранит результат оформления заказа и поиска заказа по номеру.
type Orders struct {
	base
	api    OrdersAPI
	submit *family
	lookup *family
	state  OrderState
}

// NewOrders создаёт хранилище заказа с пустым начальным состоянием.
func NewOrders(api OrdersAPI, logger *zap.Logger) *Orders {
	s := &Orders{
		api:    api,
		submit: newFamily("order/createOrder"),
		lookup: newFamily("order/getOrderByNumber"),
	}
	s.init(logger)
	return s
}

// Submit оформляет заказ из последовательности идентификаторов ингредиентов.
// Булку в начало и конец последовательности ставит вызывающий.
// Пока запрос выполняется, OrderRequest равен true.
func (s *Orders) Submit(ctx context.Context, ingredientIDs []string) (*model.Order, error) {
	ids := append([]string(nil), ingredientIDs...)
	call := func(ctx context.Context) (*model.OrderResponse, error) {
		return s.api.OrderBurger(ctx, ids)
	}

	res, err := run(ctx, &s.base, s.submit, &s.state.Request, call, transitions[*model.OrderResponse]{
		started: func() {
			s.state.OrderRequest = true
		},
		failed: func(string) {
			s.state.OrderRequest = false
		},
		succeeded: func(res *model.OrderResponse) {
			s.state.OrderRequest = false
			if res == nil {
				return
			}
			o := cloneOrder(res.Order)
			s.state.OrderModalData = &o
		},
	})
	if err != nil || res == nil {
		return nil, err
	}
	o := cloneOrder(res.Order)
	return &o, nil
}

// LookupByNumber загружает заказ по номеру; в OrderModalData попадает первый найденный заказ.
// OrderRequest не меняется.
func (s *Orders) LookupByNumber(ctx context.Context, number int) (*model.Order, error) {
	call := func(ctx context.Context) (*model.OrdersResponse, error) {
		return s.api.GetOrderByNumber(ctx, number)
	}

	res, err := run(ctx, &s.base, s.lookup, &s.state.Request, call, transitions[*model.OrdersResponse]{
		succeeded: func(res *model.OrdersResponse) {
			s.state.OrderModalData = firstOrder(res)
		},
	})
	if err != nil {
		return nil, err
	}
	return firstOrder(res), nil
}

// Clear сбрасывает состояние заказа, например при закрытии модального окна.
func (s *Orders) Clear() {
	s.update(func() {
		s.state = OrderState{}
	})
}

// State возвращает копию состояния заказа.
func (s *Orders) State() OrderState {
	var st OrderState
	s.read(func() {
		st = s.state
		if s.state.OrderModalData != nil {
			o := cloneOrder(*s.state.OrderModalData)
			st.OrderModalData = &o
		}
	})
	return st
}

func (s *Orders) reset() {
	s.Clear()
}

func firstOrder(res *model.OrdersResponse) *model.Order {
	if res == nil || len(res.Orders) == 0 {
		return nil
	}
	o := cloneOrder(res.Orders[0])
	return &o
}
