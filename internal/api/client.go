// Package api предоставляет клиент REST API бэкенда Stellar Burgers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// DefaultBaseURL указывает на учебный бэкенд Stellar Burgers.
const DefaultBaseURL = "https://norma.nomoreparties.space/api"

// ErrUnauthorized возвращается, если для запроса нет access-токена.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNoRefreshToken возвращается, если токен истёк, а refresh-токена нет.
var ErrNoRefreshToken = errors.New("refresh token not found")

// Error описывает отказ бэкенда; Error() возвращает сообщение бэкенда без изменений.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("unexpected status: %d", e.Status)
}

// IsTokenExpired сообщает, что бэкенд отклонил запрос из-за истёкшего access-токена.
func IsTokenExpired(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Message == "jwt expired"
}

// TokenStore хранит пару токенов, которыми клиент подписывает запросы.
type TokenStore interface {
	AccessToken(ctx context.Context) (string, bool, error)
	SetAccessToken(ctx context.Context, token string) error
	RefreshToken(ctx context.Context) (string, bool, error)
	SetRefreshToken(ctx context.Context, token string) error
}

// Option настраивает Client.
type Option func(*Client)

// WithRetryMax задаёт число повторов запроса при сетевых ошибках и ответах 5xx.
// Повторяются только GET-запросы: повтор POST /orders оформил бы заказ дважды.
func WithRetryMax(n int) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = n
	}
}

// WithTimeout задаёт таймаут одного HTTP-запроса.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = d
	}
}

// WithLogger задаёт логгер клиента.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock подменяет источник текущего времени для проверки срока действия токена.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// Client инкапсулирует HTTP-взаимодействие с бэкендом.
type Client struct {
	baseURL    string
	httpClient *retryablehttp.Client
	tokens     TokenStore
	logger     *zap.Logger
	now        func() time.Time

	refreshMu sync.Mutex
}

// NewClient создаёт клиент бэкенда по указанному адресу.
func NewClient(baseURL string, tokens TokenStore, opts ...Option) *Client {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 0
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = 10 * time.Second
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.CheckRetry = retryPolicy

	c := &Client{
		baseURL:    base,
		httpClient: rc,
		tokens:     tokens,
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	rc.Logger = leveledLogger{c.logger.Sugar()}

	return c
}

type idempotentKey struct{}

// retryPolicy повторяет только запросы, помеченные в do как идемпотентные.
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() == nil && ctx.Value(idempotentKey{}) == nil {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// do выполняет запрос и декодирует тело ответа в out.
// Ответ с success=false или статусом вне 2xx превращается в *Error.
func (c *Client) do(ctx context.Context, method, path string, body any, authorization string, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	var reqBody any
	if payload != nil {
		reqBody = payload
	}

	if method == http.MethodGet {
		ctx = context.WithValue(ctx, idempotentKey{}, true)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json;charset=utf-8")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &Error{Status: resp.StatusCode}
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		return &Error{Status: resp.StatusCode, Message: env.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// doAuthorized выполняет запрос от имени пользователя. Истёкший access-токен
// обновляется до запроса, если срок виден в самом токене, или после ответа "jwt expired";
// повтор выполняется один раз.
func (c *Client) doAuthorized(ctx context.Context, method, path string, body any, out any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	if tokenExpired(token, c.now()) {
		if token, err = c.refresh(ctx, token); err != nil {
			return err
		}
	}

	err = c.do(ctx, method, path, body, token, out)
	if !IsTokenExpired(err) {
		return err
	}

	c.logger.Debug("access token expired, refreshing", zap.String("path", path))
	if token, err = c.refresh(ctx, token); err != nil {
		return err
	}
	return c.do(ctx, method, path, body, token, out)
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", ErrUnauthorized
	}
	token, ok, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return "", fmt.Errorf("read access token: %w", err)
	}
	if !ok {
		return "", ErrUnauthorized
	}
	return token, nil
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// refresh обменивает refresh-токен на новую пару и сохраняет её.
// Если пока ждали блокировку токен уже обновили, возвращается сохранённый.
func (c *Client) refresh(ctx context.Context, stale string) (string, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if current, ok, err := c.tokens.AccessToken(ctx); err == nil && ok && current != stale && !tokenExpired(current, c.now()) {
		return current, nil
	}

	refreshToken, ok, err := c.tokens.RefreshToken(ctx)
	if err != nil {
		return "", fmt.Errorf("read refresh token: %w", err)
	}
	if !ok {
		return "", ErrNoRefreshToken
	}

	var res tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/token", map[string]string{"token": refreshToken}, "", &res); err != nil {
		return "", err
	}

	// Access-токен пишется первым: без нового refresh-токена он ещё годен до истечения,
	// а новый refresh-токен рядом со старым access-токеном бесполезен.
	if err := c.tokens.SetAccessToken(ctx, res.AccessToken); err != nil {
		return "", fmt.Errorf("save access token: %w", err)
	}
	if err := c.tokens.SetRefreshToken(ctx, res.RefreshToken); err != nil {
		return "", fmt.Errorf("save refresh token: %w", err)
	}
	return res.AccessToken, nil
}

type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, keysAndValues...)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.s.Warnw(msg, keysAndValues...)
}
