package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"gymlog/common"
	"gymlog/store"
)

// Users is the persistence the auth service needs.
type Users interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (int, error)
	UserByEmail(ctx context.Context, email string) (common.User, error)
	UserByID(ctx context.Context, id int) (common.User, error)
}

type Service struct {
	users  Users
	tokens *Tokens
	log    zerolog.Logger
}

func NewService(users Users, tokens *Tokens, log zerolog.Logger) *Service {
	return &Service{users: users, tokens: tokens, log: log}
}

func (a *Service) Login(ctx context.Context, email, password string, sess *Session) error {
	u, err := a.users.UserByEmail(ctx, email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("login: %w", err)
	}
	if err != nil || !VerifyPassword(password, u.Password) {
		a.log.Info().Str("email", email).Msg("invalid login")
		return fmt.Errorf("email or password invalid")
	}
	return a.startSession(u.Id, sess)
}

func (a *Service) Register(ctx context.Context, email, password, name string, sess *Session) error {
	if !validEmail(email) {
		return fmt.Errorf("email invalid")
	}
	if err := validatePassword(password); err != nil {
		return err
	}
	if err := validateName(name); err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	id, err := a.users.CreateUser(ctx, name, email, hash)
	if errors.Is(err, store.ErrEmailTaken) {
		return err
	}
	if err != nil {
		a.log.Error().Err(err).Msg("create user")
		return fmt.Errorf("failed to create account")
	}
	return a.startSession(id, sess)
}

// CurrentUser resolves the logged-in user, logging the session out when
// the user no longer exists.
func (a *Service) CurrentUser(ctx context.Context, sess *Session) (common.User, bool) {
	if !sess.IsLoggedIn() {
		return common.User{}, false
	}
	u, err := a.users.UserByID(ctx, sess.UserID())
	if err != nil {
		sess.Logout()
		return common.User{}, false
	}
	return u, true
}

func (a *Service) startSession(userID int, sess *Session) error {
	token, err := a.tokens.Issue(userID)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	sess.setUser(userID, token)
	a.log.Info().Int("user_id", userID).Msg("valid login")
	return nil
}
