package main

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymlog/common"
	"gymlog/config"
	"gymlog/store"
)

type testServer struct {
	t      *testing.T
	srv    *httptest.Server
	store  *store.Store
	client *http.Client
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st, err := store.Open("sqlite::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	srv := httptest.NewUnstartedServer(nil)
	cfg := &config.Config{
		Addr:          srv.Listener.Addr().String(),
		BasePath:      "/gym",
		SessionDir:    t.TempDir(),
		SessionSecret: "session-secret-0123456789",
		TokenSecret:   "token-secret-0123456789",
		CSRFKey:       strings.Repeat("c", 32),
		SecureCookies: false,
		APITimeout:    5 * time.Second,
	}
	srv.Config.Handler = newApp(cfg, st, zerolog.Nop()).routes()
	srv.Start()
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testServer{t: t, srv: srv, store: st, client: client}
}

func (s *testServer) get(path string) (*http.Response, string) {
	s.t.Helper()
	resp, err := s.client.Get(s.srv.URL + path)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return resp, string(body)
}

var csrfField = regexp.MustCompile(`name="gorilla.csrf.Token" value="([^"]+)"`)

// post submits a form the way a browser would after loading formPage.
func (s *testServer) post(formPage, path string, form url.Values) (*http.Response, string) {
	s.t.Helper()
	_, page := s.get(formPage)
	m := csrfField.FindStringSubmatch(page)
	require.Len(s.t, m, 2, "no csrf field on %s", formPage)
	form.Set("gorilla.csrf.Token", m[1])

	resp, err := s.client.PostForm(s.srv.URL+path, form)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return resp, string(body)
}

func (s *testServer) register() int {
	s.t.Helper()
	resp, _ := s.post("/gym/register", "/gym/register", url.Values{
		"name": {"Seb"}, "email": {"seb@example.com"}, "password": {"password1"},
	})
	require.Equal(s.t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(s.t, "/gym/history", resp.Header.Get("Location"))

	u, err := s.store.UserByEmail(context.Background(), "seb@example.com")
	require.NoError(s.t, err)
	return u.Id
}

func TestExercisePageRequiresLogin(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.get("/gym/exercise/cardio/42")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/gym/login", resp.Header.Get("Location"))
	assert.NotContains(t, body, "miles")
}

func TestCardioDetailFlow(t *testing.T) {
	s := newTestServer(t)
	userID := s.register()
	ctx := context.Background()

	rec, err := s.store.CreateCardio(ctx, userID, common.CardioUpdate{Name: "Run", Distance: 5, Duration: 30},
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	page := "/gym/exercise/cardio/" + rec.Id

	resp, body := s.get(page)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "January 1, 2024")
	assert.Contains(t, body, "Run")
	assert.Contains(t, body, "5 miles")
	assert.Contains(t, body, "30 minutes")
	assert.NotContains(t, body, "Save Changes")

	_, body = s.get(page + "?edit=1")
	assert.Contains(t, body, "Save Changes")
	assert.Contains(t, body, `name="distance" value="5"`)

	t.Run("save", func(t *testing.T) {
		resp, _ := s.post(page+"?edit=1", page, url.Values{
			"name": {"Tempo"}, "distance": {"6.2"}, "duration": {"31"},
		})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, page, resp.Header.Get("Location"))

		_, body := s.get(page)
		assert.Contains(t, body, "Tempo")
		assert.Contains(t, body, "6.2 miles")
		assert.Contains(t, body, "31 minutes")
	})

	t.Run("failed save stays in edit mode", func(t *testing.T) {
		resp, body := s.post(page+"?edit=1", page, url.Values{
			"name": {"Broken"}, "distance": {"far"}, "duration": {"31"},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, body, "Save Changes")
		assert.Contains(t, body, "invalid number")
		assert.Contains(t, body, `value="Broken"`)

		got, err := s.store.Cardio(ctx, userID, rec.Id)
		require.NoError(t, err)
		assert.Equal(t, "Tempo", got.Name)
	})

	t.Run("cancel delete", func(t *testing.T) {
		resp, body := s.post(page+"/delete", page+"/delete", url.Values{"action": {"Cancel"}})
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, body)
		assert.Equal(t, page, resp.Header.Get("Location"))
	})

	t.Run("delete", func(t *testing.T) {
		_, body := s.get(page + "/delete")
		assert.Contains(t, body, "Are you sure you want to delete this exercise?")

		resp, _ := s.post(page+"/delete", page+"/delete", url.Values{"action": {"Delete"}})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/gym/history", resp.Header.Get("Location"))

		_, err := s.store.Cardio(ctx, userID, rec.Id)
		assert.ErrorIs(t, err, store.ErrNotFound)

		_, body = s.get("/gym/history")
		assert.NotContains(t, body, "Could not delete exercise")
	})

	t.Run("failed delete still goes to history", func(t *testing.T) {
		resp, _ := s.post(page+"/delete", page+"/delete", url.Values{"action": {"Delete"}})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/gym/history", resp.Header.Get("Location"))

		_, body := s.get("/gym/history")
		assert.Contains(t, body, "Could not delete exercise")
	})
}

func TestResistanceDetail(t *testing.T) {
	s := newTestServer(t)
	userID := s.register()

	rec, err := s.store.CreateResistance(context.Background(), userID,
		common.ResistanceUpdate{Name: "Bench", Weight: 135, Sets: 3, Reps: 10}, time.Now())
	require.NoError(t, err)

	_, body := s.get("/gym/exercise/resistance/" + rec.Id)
	assert.Contains(t, body, "Bench")
	assert.Contains(t, body, "135 lbs")
	assert.Contains(t, body, "<span>Sets: </span> 3")
	assert.Contains(t, body, "<span>Reps: </span> 10")
	assert.NotContains(t, body, "miles")

	_, body = s.get("/gym/history")
	assert.Contains(t, body, `/gym/exercise/resistance/`+rec.Id)
}

func TestMissingExerciseShowsError(t *testing.T) {
	s := newTestServer(t)
	s.register()

	resp, body := s.get("/gym/exercise/cardio/999")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "exercise not found")
}

func TestUnknownExerciseType(t *testing.T) {
	s := newTestServer(t)
	s.register()

	resp, _ := s.get("/gym/exercise/yoga/1")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPostWithoutCSRFToken(t *testing.T) {
	s := newTestServer(t)
	s.register()

	resp, err := s.client.PostForm(s.srv.URL+"/gym/exercise/cardio/1", url.Values{"name": {"x"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLoginAndLogout(t *testing.T) {
	s := newTestServer(t)
	s.register()

	resp, _ := s.post("/gym/history", "/gym/logout", url.Values{})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, _ = s.get("/gym/history")
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	_, body := s.post("/gym/login", "/gym/login", url.Values{"email": {"seb@example.com"}, "password": {"nope-nope"}})
	assert.Contains(t, body, "email or password invalid")

	resp, _ = s.post("/gym/login", "/gym/login", url.Values{"email": {"seb@example.com"}, "password": {"password1"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/gym/history", resp.Header.Get("Location"))
}
