package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/mmeshcher/stellar-burgers/internal/model"
)

// ProfileOrdersState содержит заказы авторизованного пользователя.
type ProfileOrdersState struct {
	Orders []model.Order `json:"orders"`
	Request
}

// FeedState описывает состояние ленты заказов.
type FeedState struct {
	Orders     []model.Order      `json:"orders"`
	Total      int                `json:"total"`
	TotalToday int                `json:"totalToday"`
	Profile    ProfileOrdersState `json:"profile"`
	Request
}

// Feed хранит общую ленту заказов и историю заказов пользователя.
type Feed struct {
	base
	api     FeedAPI
	feed    *family
	profile *family
	state   FeedState
}

// NewFeed создаёт хранилище ленты с пустым начальным состоянием.
func NewFeed(api FeedAPI, logger *zap.Logger) *Feed {
	s := &Feed{
		api:     api,
		feed:    newFamily("feeds/getFeeds"),
		profile: newFamily("feeds/getUserOrders"),
		state:   initialFeed(),
	}
	s.init(logger)
	return s
}

func initialFeed() FeedState {
	return FeedState{
		Orders:  []model.Order{},
		Profile: ProfileOrdersState{Orders: []model.Order{}},
	}
}

// Fetch загружает ленту и целиком заменяет заказы и счётчики.
// При ошибке прежние данные ленты не меняются.
func (s *Feed) Fetch(ctx context.Context) (*model.Feed, error) {
	return run(ctx, &s.base, s.feed, &s.state.Request, s.api.GetFeeds, transitions[*model.Feed]{
		succeeded: func(res *model.Feed) {
			if res == nil {
				return
			}
			s.state.Orders = cloneOrders(res.Orders)
			s.state.Total = res.Total
			s.state.TotalToday = res.TotalToday
		},
	})
}

// FetchUserOrders загружает историю заказов текущего пользователя.
func (s *Feed) FetchUserOrders(ctx context.Context) ([]model.Order, error) {
	return run(ctx, &s.base, s.profile, &s.state.Profile.Request, s.api.GetUserOrders, transitions[[]model.Order]{
		succeeded: func(res []model.Order) {
			s.state.Profile.Orders = cloneOrders(res)
		},
	})
}

// State возвращает копию состояния ленты.
func (s *Feed) State() FeedState {
	var st FeedState
	s.read(func() {
		st = s.state
		st.Orders = cloneOrders(s.state.Orders)
		st.Profile.Orders = cloneOrders(s.state.Profile.Orders)
	})
	return st
}

// Orders возвращает заказы ленты.
func (s *Feed) Orders() []model.Order {
	return s.State().Orders
}

// Total возвращает общее число заказов.
func (s *Feed) Total() int {
	var n int
	s.read(func() { n = s.state.Total })
	return n
}

// TotalToday возвращает число заказов за сегодня.
func (s *Feed) TotalToday() int {
	var n int
	s.read(func() { n = s.state.TotalToday })
	return n
}

// IsLoading сообщает, выполняется ли загрузка ленты.
func (s *Feed) IsLoading() bool {
	var v bool
	s.read(func() { v = s.state.IsLoading })
	return v
}

// NumbersByStatus возвращает номера заказов ленты с указанным статусом, не более limit
// (при limit <= 0 без ограничения).
func (s *Feed) NumbersByStatus(status model.OrderStatus, limit int) []int {
	res := []int{}
	s.read(func() {
		for _, o := range s.state.Orders {
			if limit > 0 && len(res) == limit {
				return
			}
			if o.Status == status {
				res = append(res, o.Number)
			}
		}
	})
	return res
}

func (s *Feed) reset() {
	s.update(func() {
		s.state = initialFeed()
	})
}

func cloneOrders(src []model.Order) []model.Order {
	res := make([]model.Order, len(src))
	for i, o := range src {
		res[i] = cloneOrder(o)
	}
	return res
}

func cloneOrder(o model.Order) model.Order {
	if o.Ingredients != nil {
		ids := make([]string, len(o.Ingredients))
		copy(ids, o.Ingredients)
		o.Ingredients = ids
	}
	return o
}
