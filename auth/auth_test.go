package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymlog/common"
	"gymlog/store"
)

type memUsers struct {
	byID map[int]common.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[int]common.User{}}
}

func (m *memUsers) CreateUser(_ context.Context, name, email, hash string) (int, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return 0, store.ErrEmailTaken
		}
	}
	id := len(m.byID) + 1
	m.byID[id] = common.User{Id: id, Name: name, Email: email, Password: hash}
	return id, nil
}

func (m *memUsers) UserByEmail(_ context.Context, email string) (common.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return common.User{}, store.ErrNotFound
}

func (m *memUsers) UserByID(_ context.Context, id int) (common.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return common.User{}, store.ErrNotFound
	}
	return u, nil
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s := NewSessions(sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef")))
	return s.For(httptest.NewRequest(http.MethodGet, "/", nil))
}

func newTestService() (*Service, *Tokens, *memUsers) {
	users := newMemUsers()
	tokens := NewTokens([]byte("token-secret-0123456789"), time.Hour)
	return NewService(users, tokens, zerolog.Nop()), tokens, users
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.True(t, VerifyPassword("hunter22", hash))
	assert.False(t, VerifyPassword("hunter23", hash))
}

func TestTokens(t *testing.T) {
	tokens := NewTokens([]byte("token-secret-0123456789"), time.Hour)

	token, err := tokens.Issue(42)
	require.NoError(t, err)

	id, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	_, err = tokens.Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewTokens([]byte("another-secret-987654321"), time.Hour)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, tokens, _ := newTestService()

	sess := newTestSession(t)
	assert.False(t, sess.IsLoggedIn())
	assert.Empty(t, sess.Token())

	require.NoError(t, svc.Register(ctx, "seb@example.com", "password1", "Seb", sess))
	assert.True(t, sess.IsLoggedIn())
	id, err := tokens.Verify(sess.Token())
	require.NoError(t, err)
	assert.Equal(t, sess.UserID(), id)

	sess.Logout()
	assert.False(t, sess.IsLoggedIn())
	assert.Empty(t, sess.Token())

	fresh := newTestSession(t)
	require.NoError(t, svc.Login(ctx, "seb@example.com", "password1", fresh))
	assert.True(t, fresh.IsLoggedIn())

	u, ok := svc.CurrentUser(ctx, fresh)
	require.True(t, ok)
	assert.Equal(t, "Seb", u.Name)
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	require.NoError(t, svc.Register(ctx, "seb@example.com", "password1", "Seb", newTestSession(t)))

	sess := newTestSession(t)
	assert.EqualError(t, svc.Login(ctx, "seb@example.com", "wrong-pass", sess), "email or password invalid")
	assert.EqualError(t, svc.Login(ctx, "nobody@example.com", "password1", sess), "email or password invalid")
	assert.False(t, sess.IsLoggedIn())
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	tests := []struct {
		name, email, password, user, want string
	}{
		{"bad email", "nope", "password1", "Seb", "email invalid"},
		{"short password", "a@example.com", "short", "Seb", "password too short (min 8 characters)"},
		{"short name", "a@example.com", "password1", "Se", "name too short (min 3 characters)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Register(ctx, tt.email, tt.password, tt.user, newTestSession(t))
			assert.EqualError(t, err, tt.want)
		})
	}

	require.NoError(t, svc.Register(ctx, "a@example.com", "password1", "Seb", newTestSession(t)))
	err := svc.Register(ctx, "a@example.com", "password1", "Seb", newTestSession(t))
	assert.ErrorIs(t, err, store.ErrEmailTaken)
}

func TestCurrentUserLogsOutDeletedUser(t *testing.T) {
	ctx := context.Background()
	svc, _, users := newTestService()
	sess := newTestSession(t)
	require.NoError(t, svc.Register(ctx, "seb@example.com", "password1", "Seb", sess))

	delete(users.byID, sess.UserID())

	_, ok := svc.CurrentUser(ctx, sess)
	assert.False(t, ok)
	assert.False(t, sess.IsLoggedIn())
}

func TestFlashes(t *testing.T) {
	sess := newTestSession(t)
	sess.AddFlash("could not delete exercise")
	assert.Equal(t, []string{"could not delete exercise"}, sess.Flashes())
	assert.Empty(t, sess.Flashes())
}
