package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/stellar-burgers/internal/model"
)

func authorizedSession(t *testing.T, api *stubAPI, creds *fakeCredentials) *Session {
	t.Helper()

	api.authResp = &model.AuthResponse{
		AccessToken:  "Bearer fake",
		RefreshToken: "fake",
		User:         model.User{Email: "old@mail.ru", Name: "old"},
	}
	s := NewSession(api, creds, nil)
	_, err := s.Login(context.Background(), model.LoginData{Email: "old@mail.ru", Password: "123"})
	require.NoError(t, err)
	return s
}

func TestSession_LoginSuccess(t *testing.T) {
	api := &stubAPI{authResp: &model.AuthResponse{
		AccessToken:  "Bearer fake-jwt",
		RefreshToken: "fake-refresh-123",
		User:         model.User{Email: "test@mail.ru", Name: "test"},
	}}
	creds := newFakeCredentials()
	s := NewSession(api, creds, nil)

	u, err := s.Login(context.Background(), model.LoginData{Email: "test@mail.ru", Password: "123"})
	require.NoError(t, err)
	assert.Equal(t, "test", u.Name)

	st := s.State()
	assert.False(t, st.IsLoading)
	assert.Empty(t, st.Error)
	require.NotNil(t, st.User)
	assert.Equal(t, model.User{Email: "test@mail.ru", Name: "test"}, *st.User)
	assert.True(t, st.IsAuthorized)
	assert.Equal(t, []string{"setAccess:Bearer fake-jwt", "setRefresh:fake-refresh-123"}, creds.Calls())
}

func TestSession_LoginFailure(t *testing.T) {
	api := &stubAPI{authErr: errors.New("Invalid credentials")}
	creds := newFakeCredentials()
	s := NewSession(api, creds, nil)

	_, err := s.Login(context.Background(), model.LoginData{Email: "wrong", Password: "wrong"})
	require.Error(t, err)

	st := s.State()
	assert.False(t, st.IsLoading)
	assert.Equal(t, ErrorMessage("Invalid credentials"), st.Error)
	assert.Nil(t, st.User)
	assert.False(t, st.IsAuthorized)
	assert.Empty(t, creds.Calls())
}

func TestSession_RegisterSuccessAndFailure(t *testing.T) {
	api := &stubAPI{authResp: &model.AuthResponse{
		AccessToken:  "Bearer fake-jwt",
		RefreshToken: "fake-refresh-123",
		User:         model.User{Email: "new@mail.ru", Name: "new"},
	}}
	creds := newFakeCredentials()
	s := NewSession(api, creds, nil)

	_, err := s.Register(context.Background(), model.RegisterData{Email: "new@mail.ru", Password: "123", Name: "new"})
	require.NoError(t, err)
	assert.True(t, s.IsAuthorized())
	assert.Equal(t, "Bearer fake-jwt", creds.access)
	assert.Equal(t, "fake-refresh-123", creds.refresh)

	api.authErr = errors.New("Email already exists")
	_, err = s.Register(context.Background(), model.RegisterData{Email: "exists@mail.ru", Password: "123", Name: "test"})
	require.Error(t, err)

	st := s.State()
	assert.Equal(t, ErrorMessage("Email already exists"), st.Error)
	assert.Nil(t, st.User)
	assert.False(t, st.IsAuthorized)
}

func TestSession_PersistFailureFailsLogin(t *testing.T) {
	api := &stubAPI{authResp: &model.AuthResponse{AccessToken: "a", RefreshToken: "r"}}
	creds := newFakeCredentials()
	creds.failSet = errors.New("disk full")
	s := NewSession(api, creds, nil)

	_, err := s.Login(context.Background(), model.LoginData{})
	require.Error(t, err)

	st := s.State()
	assert.False(t, st.IsAuthorized)
	assert.Equal(t, ErrorMessage("save access token: disk full"), st.Error)
}

func TestSession_RefreshSaveFailureRollsBackAccessToken(t *testing.T) {
	api := &stubAPI{authResp: &model.AuthResponse{
		AccessToken:  "a",
		RefreshToken: "r",
		User:         model.User{Email: "test@mail.ru", Name: "test"},
	}}
	creds := newFakeCredentials()
	creds.failSetRefresh = errors.New("disk full")
	s := NewSession(api, creds, nil)

	_, err := s.Login(context.Background(), model.LoginData{})
	require.Error(t, err)

	st := s.State()
	assert.False(t, st.IsAuthorized)
	assert.Equal(t, ErrorMessage("save refresh token: disk full"), st.Error)
	assert.Equal(t, []string{"setAccess:a", "setRefresh:r", "clearAccess"}, creds.Calls())
	assert.Empty(t, creds.access)

	// Новый процесс над тем же хранилищем не должен восстановить сессию.
	restarted := NewSession(api, creds, nil)
	u, err := restarted.CheckSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.False(t, restarted.State().IsAuthorized)
	assert.Zero(t, api.getUserN)
}

func TestSession_LogoutPartialCleanupDropsSession(t *testing.T) {
	api := &stubAPI{}
	creds := newFakeCredentials()
	s := authorizedSession(t, api, creds)

	creds.failRemoveRefresh = errors.New("disk full")
	require.Error(t, s.Logout(context.Background()))

	st := s.State()
	assert.Nil(t, st.User)
	assert.False(t, st.IsAuthorized)
	assert.Equal(t, ErrorMessage("remove refresh token: disk full"), st.Error)
	assert.Empty(t, creds.access)
}

func TestSession_Logout(t *testing.T) {
	api := &stubAPI{}
	creds := newFakeCredentials()
	s := authorizedSession(t, api, creds)

	require.NoError(t, s.Logout(context.Background()))

	st := s.State()
	assert.Nil(t, st.User)
	assert.False(t, st.IsAuthorized)
	assert.False(t, st.IsLoading)
	assert.Equal(t, []string{
		"setAccess:Bearer fake", "setRefresh:fake",
		"clearAccess", "removeRefresh", "clearAll",
	}, creds.Calls())
	assert.Empty(t, creds.local)
}

func TestSession_LogoutFailureKeepsSession(t *testing.T) {
	api := &stubAPI{}
	creds := newFakeCredentials()
	s := authorizedSession(t, api, creds)

	api.logoutErr = errNetwork
	require.Error(t, s.Logout(context.Background()))

	st := s.State()
	assert.True(t, st.IsAuthorized)
	require.NotNil(t, st.User)
	assert.Equal(t, ErrorMessage("Network error"), st.Error)
	assert.Equal(t, "Bearer fake", creds.access)
}

func TestSession_UpdateProfile(t *testing.T) {
	api := &stubAPI{}
	creds := newFakeCredentials()
	s := authorizedSession(t, api, creds)

	api.userResp = &model.UserResponse{User: model.User{Email: "updated@mail.ru", Name: "updated"}}
	_, err := s.UpdateProfile(context.Background(), model.UserUpdate{Email: "updated@mail.ru", Name: "updated"})
	require.NoError(t, err)

	st := s.State()
	assert.False(t, st.IsLoading)
	assert.Equal(t, model.User{Email: "updated@mail.ru", Name: "updated"}, *st.User)
	assert.True(t, st.IsAuthorized)
}

func TestSession_UpdateProfileDoesNotAuthorize(t *testing.T) {
	api := &stubAPI{userResp: &model.UserResponse{User: model.User{Email: "a@b.c", Name: "a"}}}
	s := NewSession(api, newFakeCredentials(), nil)

	_, err := s.UpdateProfile(context.Background(), model.UserUpdate{Name: "a"})
	require.NoError(t, err)
	assert.False(t, s.IsAuthorized())
}

func TestSession_PasswordFlowsNeverTouchSession(t *testing.T) {
	tests := []struct {
		name       string
		authorized bool
		fail       bool
		call       func(s *Session) error
	}{
		{
			name: "forgot anonymous",
			call: func(s *Session) error {
				_, err := s.ForgotPassword(context.Background(), "test@mail.ru")
				return err
			},
		},
		{
			name:       "forgot authorized",
			authorized: true,
			call: func(s *Session) error {
				_, err := s.ForgotPassword(context.Background(), "test@mail.ru")
				return err
			},
		},
		{
			name: "reset anonymous",
			call: func(s *Session) error {
				_, err := s.ResetPassword(context.Background(), "new123", "reset-token")
				return err
			},
		},
		{
			name:       "reset failure authorized",
			authorized: true,
			fail:       true,
			call: func(s *Session) error {
				_, err := s.ResetPassword(context.Background(), "new123", "reset-token")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &stubAPI{}
			creds := newFakeCredentials()
			s := NewSession(api, creds, nil)
			if tt.authorized {
				s = authorizedSession(t, api, creds)
			}
			before := s.State()
			if tt.fail {
				api.messageErr = errNetwork
			}

			err := tt.call(s)

			after := s.State()
			assert.Equal(t, before.User, after.User)
			assert.Equal(t, before.IsAuthorized, after.IsAuthorized)
			assert.False(t, after.IsLoading)
			if tt.fail {
				require.Error(t, err)
				assert.Equal(t, ErrorMessage("Network error"), after.Error)
			} else {
				require.NoError(t, err)
				assert.Empty(t, after.Error)
			}
		})
	}
}

func TestSession_CheckSession(t *testing.T) {
	t.Run("with token", func(t *testing.T) {
		api := &stubAPI{userResp: &model.UserResponse{User: model.User{Email: "test@mail.ru", Name: "test"}}}
		creds := newFakeCredentials()
		creds.access = "Bearer fake-jwt"
		s := NewSession(api, creds, nil)

		u, err := s.CheckSession(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "test", u.Name)

		st := s.State()
		assert.False(t, st.IsLoading)
		assert.Empty(t, st.Error)
		assert.True(t, st.IsAuthorized)
		assert.True(t, st.IsAuthChecked)
	})

	t.Run("without token", func(t *testing.T) {
		api := &stubAPI{}
		s := NewSession(api, newFakeCredentials(), nil)

		u, err := s.CheckSession(context.Background())
		require.NoError(t, err)
		assert.Nil(t, u)
		assert.Zero(t, api.getUserN)

		st := s.State()
		assert.False(t, st.IsLoading)
		assert.Empty(t, st.Error)
		assert.Nil(t, st.User)
		assert.False(t, st.IsAuthorized)
		assert.True(t, st.IsAuthChecked)
	})

	t.Run("without token keeps login in flight", func(t *testing.T) {
		api := &stubAPI{
			authResp:  &model.AuthResponse{AccessToken: "a", RefreshToken: "r", User: model.User{Name: "test"}},
			authBlock: make(chan struct{}),
		}
		s := NewSession(api, newFakeCredentials(), nil)

		done := make(chan error, 1)
		go func() {
			_, err := s.Login(context.Background(), model.LoginData{})
			done <- err
		}()
		require.Eventually(t, func() bool { return s.State().IsLoading }, time.Second, time.Millisecond)

		_, err := s.CheckSession(context.Background())
		require.NoError(t, err)

		st := s.State()
		assert.True(t, st.IsLoading)
		assert.True(t, st.IsAuthChecked)

		close(api.authBlock)
		require.NoError(t, <-done)
		st = s.State()
		assert.False(t, st.IsLoading)
		assert.True(t, st.IsAuthorized)
	})

	t.Run("rejected", func(t *testing.T) {
		api := &stubAPI{getUserErr: errors.New("jwt malformed")}
		creds := newFakeCredentials()
		creds.access = "Bearer broken"
		s := NewSession(api, creds, nil)

		_, err := s.CheckSession(context.Background())
		require.Error(t, err)

		st := s.State()
		assert.Equal(t, ErrorMessage("jwt malformed"), st.Error)
		assert.False(t, st.IsAuthorized)
		assert.Nil(t, st.User)
		assert.True(t, st.IsAuthChecked)
	})
}
