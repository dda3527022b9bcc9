package auth

import (
	"errors"
	"time"

	"github.com/gorilla/securecookie"
)

var ErrInvalidToken = errors.New("invalid api token")

const tokenName = "gymlog-api"

// Tokens issues and verifies signed API bearer tokens carrying a user id.
type Tokens struct {
	codec *securecookie.SecureCookie
}

func NewTokens(secret []byte, maxAge time.Duration) *Tokens {
	codec := securecookie.New(secret, nil)
	codec.MaxAge(int(maxAge.Seconds()))
	return &Tokens{codec: codec}
}

func (t *Tokens) Issue(userID int) (string, error) {
	return t.codec.Encode(tokenName, userID)
}

func (t *Tokens) Verify(token string) (int, error) {
	var userID int
	if token == "" {
		return 0, ErrInvalidToken
	}
	if err := t.codec.Decode(tokenName, token, &userID); err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
