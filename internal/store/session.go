package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mmeshcher/stellar-burgers/internal/model"
)

// SessionState описывает состояние сессии пользователя.
// IsAuthorized хранится отдельно от User: восстановление и сброс пароля не меняют ни то, ни другое.
type SessionState struct {
	User          *model.User `json:"user"`
	IsAuthorized  bool        `json:"isAuthorized"`
	IsAuthChecked bool        `json:"isAuthChecked"`
	Request
}

// Session хранит данные пользователя и поддерживает согласованность токенов во внешнем хранилище.
type Session struct {
	base
	api   AuthAPI
	creds Credentials

	registerOp *family
	loginOp    *family
	logoutOp   *family
	updateOp   *family
	forgotOp   *family
	resetOp    *family
	checkOp    *family

	state SessionState
}

// NewSession создаёт хранилище сессии в анонимном состоянии.
func NewSession(api AuthAPI, creds Credentials, logger *zap.Logger) *Session {
	s := &Session{
		api:        api,
		creds:      creds,
		registerOp: newFamily("user/register"),
		loginOp:    newFamily("user/login"),
		logoutOp:   newFamily("user/logout"),
		updateOp:   newFamily("user/update"),
		forgotOp:   newFamily("user/forgotPassword"),
		resetOp:    newFamily("user/resetPassword"),
		checkOp:    newFamily("user/checkAuth"),
	}
	s.init(logger)
	return s
}

// Register регистрирует пользователя. При успехе токены сохраняются до изменения состояния.
func (s *Session) Register(ctx context.Context, data model.RegisterData) (*model.User, error) {
	return s.authenticate(ctx, s.registerOp, func(ctx context.Context) (*model.AuthResponse, error) {
		return s.api.Register(ctx, data)
	})
}

// Login выполняет вход. При ошибке токены не сохраняются, а пользователь сбрасывается.
func (s *Session) Login(ctx context.Context, data model.LoginData) (*model.User, error) {
	return s.authenticate(ctx, s.loginOp, func(ctx context.Context) (*model.AuthResponse, error) {
		return s.api.Login(ctx, data)
	})
}

func (s *Session) authenticate(ctx context.Context, f *family, auth func(context.Context) (*model.AuthResponse, error)) (*model.User, error) {
	call := func(ctx context.Context) (*model.AuthResponse, error) {
		res, err := auth(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.creds.SetAccessToken(ctx, res.AccessToken); err != nil {
			return nil, fmt.Errorf("save access token: %w", err)
		}
		if err := s.creds.SetRefreshToken(ctx, res.RefreshToken); err != nil {
			// Без отката следующий CheckSession восстановил бы несостоявшийся вход.
			if clearErr := s.creds.ClearAccessToken(ctx); clearErr != nil {
				s.logger.Error("rollback access token", zap.Error(clearErr))
			}
			return nil, fmt.Errorf("save refresh token: %w", err)
		}
		return res, nil
	}

	res, err := run(ctx, &s.base, f, &s.state.Request, call, transitions[*model.AuthResponse]{
		failed: func(string) {
			s.state.User = nil
			s.state.IsAuthorized = false
		},
		succeeded: func(res *model.AuthResponse) {
			u := res.User
			s.state.User = &u
			s.state.IsAuthorized = true
			s.state.IsAuthChecked = true
		},
	})
	if err != nil {
		return nil, err
	}
	u := res.User
	return &u, nil
}

// Logout завершает сессию. Локальные данные очищаются только после подтверждения бэкендом.
// Если access-токен уже удалён, а дальнейшая очистка не удалась, сессия в памяти
// всё равно становится анонимной.
func (s *Session) Logout(ctx context.Context) error {
	var accessCleared bool
	call := func(ctx context.Context) (*model.MessageResponse, error) {
		res, err := s.api.Logout(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.creds.ClearAccessToken(ctx); err != nil {
			return nil, fmt.Errorf("clear access token: %w", err)
		}
		accessCleared = true
		if err := s.creds.RemoveRefreshToken(ctx); err != nil {
			return nil, fmt.Errorf("remove refresh token: %w", err)
		}
		if err := s.creds.ClearAll(ctx); err != nil {
			return nil, fmt.Errorf("clear local data: %w", err)
		}
		return res, nil
	}

	_, err := run(ctx, &s.base, s.logoutOp, &s.state.Request, call, transitions[*model.MessageResponse]{
		failed: func(string) {
			if accessCleared {
				s.state.User = nil
				s.state.IsAuthorized = false
			}
		},
		succeeded: func(*model.MessageResponse) {
			s.state.User = nil
			s.state.IsAuthorized = false
		},
	})
	return err
}

// UpdateProfile изменяет данные пользователя. IsAuthorized не меняется, проверять
// авторизацию перед вызовом должен вызывающий.
func (s *Session) UpdateProfile(ctx context.Context, data model.UserUpdate) (*model.User, error) {
	call := func(ctx context.Context) (*model.UserResponse, error) {
		return s.api.UpdateUser(ctx, data)
	}

	res, err := run(ctx, &s.base, s.updateOp, &s.state.Request, call, transitions[*model.UserResponse]{
		succeeded: func(res *model.UserResponse) {
			u := res.User
			s.state.User = &u
		},
	})
	if err != nil {
		return nil, err
	}
	u := res.User
	return &u, nil
}

// ForgotPassword запрашивает письмо для сброса пароля. Сессия не меняется.
func (s *Session) ForgotPassword(ctx context.Context, email string) (string, error) {
	call := func(ctx context.Context) (*model.MessageResponse, error) {
		return s.api.ForgotPassword(ctx, email)
	}
	return messageOf(run(ctx, &s.base, s.forgotOp, &s.state.Request, call, transitions[*model.MessageResponse]{}))
}

// ResetPassword устанавливает новый пароль по коду из письма. Сессия не меняется.
func (s *Session) ResetPassword(ctx context.Context, password, token string) (string, error) {
	call := func(ctx context.Context) (*model.MessageResponse, error) {
		return s.api.ResetPassword(ctx, password, token)
	}
	return messageOf(run(ctx, &s.base, s.resetOp, &s.state.Request, call, transitions[*model.MessageResponse]{}))
}

// CheckSession восстанавливает сессию по сохранённому access-токену.
// Если токена нет, состояние становится анонимным без ошибки и без запроса;
// isLoading и error параллельной операции сессии при этом не трогаются.
func (s *Session) CheckSession(ctx context.Context) (*model.User, error) {
	_, ok, err := s.creds.AccessToken(ctx)
	if err != nil {
		s.logger.Warn("read access token", zap.Error(err))
		ok = false
	}
	if !ok {
		s.update(func() {
			s.state.User = nil
			s.state.IsAuthorized = false
			s.state.IsAuthChecked = true
		})
		return nil, nil
	}

	res, err := run(ctx, &s.base, s.checkOp, &s.state.Request, s.api.GetUser, transitions[*model.UserResponse]{
		failed: func(string) {
			s.state.User = nil
			s.state.IsAuthorized = false
			s.state.IsAuthChecked = true
		},
		succeeded: func(res *model.UserResponse) {
			u := res.User
			s.state.User = &u
			s.state.IsAuthorized = true
			s.state.IsAuthChecked = true
		},
	})
	if err != nil {
		return nil, err
	}
	u := res.User
	return &u, nil
}

// State возвращает копию состояния сессии.
func (s *Session) State() SessionState {
	var st SessionState
	s.read(func() {
		st = s.state
		if s.state.User != nil {
			u := *s.state.User
			st.User = &u
		}
	})
	return st
}

// IsAuthorized сообщает, авторизован ли пользователь.
func (s *Session) IsAuthorized() bool {
	var v bool
	s.read(func() { v = s.state.IsAuthorized })
	return v
}

// IsAuthChecked сообщает, завершена ли проверка сессии.
func (s *Session) IsAuthChecked() bool {
	var v bool
	s.read(func() { v = s.state.IsAuthChecked })
	return v
}

func (s *Session) reset() {
	s.update(func() {
		s.state = SessionState{}
	})
}

func messageOf(res *model.MessageResponse, err error) (string, error) {
	if err != nil {
		return "", err
	}
	if res == nil {
		return "", nil
	}
	return res.Message, nil
}
