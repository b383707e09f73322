package store

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// ErrorMessage хранит текст ошибки последней операции. Пустое значение сериализуется как null.
type ErrorMessage string

// MarshalJSON реализует json.Marshaler.
func (m ErrorMessage) MarshalJSON() ([]byte, error) {
	if m == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(m))
}

// Request отражает жизненный цикл семейства асинхронных операций.
type Request struct {
	IsLoading bool         `json:"isLoading"`
	Error     ErrorMessage `json:"error"`
}

func (r *Request) start() {
	r.IsLoading = true
	r.Error = ""
}

func (r *Request) fail(msg string) {
	r.IsLoading = false
	r.Error = ErrorMessage(msg)
}

func (r *Request) succeed() {
	r.IsLoading = false
	r.Error = ""
}

// base содержит общую для всех хранилищ блокировку состояния и уведомление об изменениях.
type base struct {
	mu       sync.RWMutex
	logger   *zap.Logger
	notifyMu sync.RWMutex
	notify   func()
}

func (b *base) init(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	b.logger = logger
}

func (b *base) setNotifier(fn func()) {
	b.notifyMu.Lock()
	b.notify = fn
	b.notifyMu.Unlock()
}

// update атомарно применяет мутацию и уведомляет подписчиков после снятия блокировки.
func (b *base) update(fn func()) {
	b.mu.Lock()
	fn()
	b.mu.Unlock()

	b.notifyMu.RLock()
	notify := b.notify
	b.notifyMu.RUnlock()
	if notify != nil {
		notify()
	}
}

func (b *base) read(fn func()) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	fn()
}

// family сериализует вызовы одного семейства операций: переходы одного вызова
// не перемежаются с переходами другого вызова того же семейства.
type family struct {
	name string
	sem  chan struct{}
}

func newFamily(name string) *family {
	return &family{name: name, sem: make(chan struct{}, 1)}
}

func (f *family) acquire(ctx context.Context) error {
	select {
	case f.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *family) release() {
	<-f.sem
}

// transitions задаёт дополнительные изменения состояния для каждой фазы операции.
// Все функции вызываются под блокировкой хранилища.
type transitions[T any] struct {
	started   func()
	failed    func(msg string)
	succeeded func(res T)
}

// run проводит вызов через фазы started, failed или succeeded.
// Ошибка вызова сохраняется в req и возвращается вызывающему.
func run[T any](ctx context.Context, b *base, f *family, req *Request, call func(context.Context) (T, error), t transitions[T]) (T, error) {
	var zero T

	if err := f.acquire(ctx); err != nil {
		return zero, err
	}
	defer f.release()

	b.update(func() {
		req.start()
		if t.started != nil {
			t.started()
		}
	})

	res, err := call(ctx)
	if err != nil {
		msg := err.Error()
		b.logger.Warn("operation failed", zap.String("op", f.name), zap.Error(err))
		b.update(func() {
			req.fail(msg)
			if t.failed != nil {
				t.failed(msg)
			}
		})
		return zero, err
	}

	b.update(func() {
		req.succeed()
		if t.succeeded != nil {
			t.succeeded(res)
		}
	})
	return res, nil
}
