// Package service связывает хранилища состояния в сценарии, затрагивающие несколько из них:
// оформление заказа из конструктора, начальную загрузку и опрос ленты.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/stellar-burgers/internal/model"
	"github.com/mmeshcher/stellar-burgers/internal/store"
)

var (
	// ErrNoBun возвращается при попытке оформить заказ без булки.
	ErrNoBun = errors.New("bun is not selected")
	// ErrNotAuthorized возвращается при попытке оформить заказ без входа.
	ErrNotAuthorized = errors.New("user is not authorized")
)

// Service управляет сценариями поверх корневого контейнера состояния.
type Service struct {
	root   *store.Root
	logger *zap.Logger
}

// NewService создаёт сервис поверх контейнера root.
func NewService(root *store.Root, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{root: root, logger: logger}
}

// Root возвращает обслуживаемый контейнер.
func (s *Service) Root() *store.Root {
	return s.root
}

// Bootstrap загружает каталог и проверяет сохранённую сессию параллельно.
// Ошибка одной загрузки не отменяет другую; обе фиксируются в состоянии хранилищ,
// возвращается первая.
func (s *Service) Bootstrap(ctx context.Context) error {
	var g errgroup.Group

	g.Go(func() error {
		_, err := s.root.Ingredients.Fetch(ctx)
		return err
	})
	g.Go(func() error {
		_, err := s.root.Session.CheckSession(ctx)
		return err
	})

	return g.Wait()
}

// SubmitBurger оформляет заказ из текущей композиции конструктора.
// После успешного оформления конструктор очищается.
func (s *Service) SubmitBurger(ctx context.Context) (*model.Order, error) {
	composition := s.root.Constructor.State()
	if composition.Bun == nil {
		return nil, ErrNoBun
	}
	if !s.root.Session.IsAuthorized() {
		return nil, ErrNotAuthorized
	}

	order, err := s.root.Orders.Submit(ctx, composition.IngredientIDs())
	if err != nil {
		return nil, err
	}

	s.root.Constructor.Clear()
	s.logger.Info("order placed", zap.Int("number", order.Number), zap.Int("price", composition.Price()))
	return order, nil
}

// OpenOrder показывает заказ по номеру.
func (s *Service) OpenOrder(ctx context.Context, number int) (*model.Order, error) {
	return s.root.Orders.LookupByNumber(ctx, number)
}

// RefreshFeeds обновляет общую ленту и, для вошедшего пользователя, его заказы.
func (s *Service) RefreshFeeds(ctx context.Context) {
	if _, err := s.root.Feed.Fetch(ctx); err != nil {
		s.logger.Debug("feed refresh failed", zap.Error(err))
	}

	if !s.root.Session.IsAuthorized() {
		return
	}
	if _, err := s.root.Feed.FetchUserOrders(ctx); err != nil {
		s.logger.Debug("profile orders refresh failed", zap.Error(err))
	}
}

// StartFeedUpdates запускает фоновый опрос ленты с периодом interval.
// Нулевой или отрицательный период отключает опрос.
func (s *Service) StartFeedUpdates(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RefreshFeeds(ctx)
			}
		}
	}()
}
