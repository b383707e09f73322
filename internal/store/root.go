// Package store реализует контейнер клиентского состояния Stellar Burgers:
// независимые хранилища каталога, конструктора, ленты, заказа и сессии,
// собранные в одно дерево состояния.
package store

import (
	"sync"

	"go.uber.org/zap"

	"github.com/mmeshcher/stellar-burgers/internal/model"
)

// State содержит снимок всего дерева состояния.
type State struct {
	User        SessionState      `json:"user"`
	Feed        FeedState         `json:"feed"`
	Order       OrderState        `json:"order"`
	Ingredients IngredientsState  `json:"ingredients"`
	Constructor model.Composition `json:"constructorbg"`
}

// Deps содержит внешние зависимости контейнера.
type Deps struct {
	API         API
	Credentials Credentials
	IDs         IDGenerator
	Logger      *zap.Logger
}

// Root объединяет хранилища. Хранилища не обращаются друг к другу напрямую.
type Root struct {
	Ingredients *Ingredients
	Constructor *Constructor
	Feed        *Feed
	Orders      *Orders
	Session     *Session

	mu        sync.Mutex
	listeners map[int]func()
	nextID    int
}

type notifier interface {
	setNotifier(fn func())
	reset()
}

// New создаёт контейнер с начальным состоянием всех хранилищ.
func New(deps Deps) *Root {
	r := &Root{
		Ingredients: NewIngredients(deps.API, deps.Logger),
		Constructor: NewConstructor(deps.IDs, deps.Logger),
		Feed:        NewFeed(deps.API, deps.Logger),
		Orders:      NewOrders(deps.API, deps.Logger),
		Session:     NewSession(deps.API, deps.Credentials, deps.Logger),
		listeners:   make(map[int]func()),
	}
	for _, s := range r.stores() {
		s.setNotifier(r.publish)
	}
	return r
}

func (r *Root) stores() []notifier {
	return []notifier{r.Ingredients, r.Constructor, r.Feed, r.Orders, r.Session}
}

// Snapshot возвращает согласованную по каждому хранилищу копию дерева состояния.
func (r *Root) Snapshot() State {
	return State{
		User:        r.Session.State(),
		Feed:        r.Feed.State(),
		Order:       r.Orders.State(),
		Ingredients: r.Ingredients.State(),
		Constructor: r.Constructor.State(),
	}
}

// Reset возвращает все хранилища к начальному состоянию.
// Токены во внешнем хранилище не затрагиваются.
func (r *Root) Reset() {
	for _, s := range r.stores() {
		s.reset()
	}
}

// Subscribe регистрирует обработчик, вызываемый после каждого изменения состояния.
// Возвращает функцию отмены подписки.
func (r *Root) Subscribe(fn func()) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.listeners, id)
		r.mu.Unlock()
	}
}

func (r *Root) publish() {
	r.mu.Lock()
	fns := make([]func(), 0, len(r.listeners))
	for _, fn := range r.listeners {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
