package auth

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "gymlog"
	keyUserID   = "loggedInUserId"
	keyToken    = "apiToken"
)

// Sessions wraps the cookie session store.
type Sessions struct {
	store sessions.Store
}

func NewSessions(store sessions.Store) *Sessions {
	return &Sessions{store: store}
}

// NewFilesystemSessions mirrors the production session setup: sessions on
// disk, cookie limited to the app path.
func NewFilesystemSessions(dir string, secret []byte, path string, secure bool) *Sessions {
	fileStore := sessions.NewFilesystemStore(dir, secret)
	fileStore.MaxLength(0)
	fileStore.Options = &sessions.Options{
		Path:     path,
		MaxAge:   3600,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	return NewSessions(fileStore)
}

// Session is the per-request auth state.
type Session struct {
	raw *sessions.Session
}

// For loads the request's session. A broken cookie yields a fresh,
// logged-out session.
func (s *Sessions) For(r *http.Request) *Session {
	sess, err := s.store.Get(r, sessionName)
	if err != nil && sess == nil {
		sess = sessions.NewSession(s.store, sessionName)
	}
	return &Session{raw: sess}
}

func (s *Session) IsLoggedIn() bool {
	_, ok := s.raw.Values[keyUserID].(int)
	return ok
}

func (s *Session) UserID() int {
	id, _ := s.raw.Values[keyUserID].(int)
	return id
}

// Token is the API bearer token, empty when logged out.
func (s *Session) Token() string {
	if !s.IsLoggedIn() {
		return ""
	}
	token, _ := s.raw.Values[keyToken].(string)
	return token
}

func (s *Session) setUser(id int, token string) {
	s.raw.Values[keyUserID] = id
	s.raw.Values[keyToken] = token
}

func (s *Session) Logout() {
	delete(s.raw.Values, keyUserID)
	delete(s.raw.Values, keyToken)
}

func (s *Session) AddFlash(msg string) {
	s.raw.AddFlash(msg)
}

// Flashes pops pending flash messages; Save must be called afterwards.
func (s *Session) Flashes() []string {
	var out []string
	for _, f := range s.raw.Flashes() {
		if msg, ok := f.(string); ok {
			out = append(out, msg)
		}
	}
	return out
}

func (s *Session) Save(r *http.Request, w http.ResponseWriter) error {
	return s.raw.Save(r, w)
}
