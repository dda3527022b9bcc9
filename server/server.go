package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/gorilla/csrf"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"gymlog/api"
	"gymlog/apiclient"
	"gymlog/auth"
	"gymlog/config"
	"gymlog/logging"
	"gymlog/store"
	"gymlog/templates"
)

const tokenMaxAge = 24 * time.Hour

type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	sessions *auth.Sessions
	auth     *auth.Service
	tokens   *auth.Tokens
	client   *apiclient.Client
	store    *store.Store
}

func newApp(cfg *config.Config, st *store.Store, log zerolog.Logger) *app {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = "http://" + cfg.Addr + cfg.BasePath
	}
	tokens := auth.NewTokens([]byte(cfg.TokenSecret), tokenMaxAge)
	return &app{
		cfg:      cfg,
		log:      log,
		sessions: auth.NewFilesystemSessions(cfg.SessionDir, []byte(cfg.SessionSecret), cfg.BasePath+"/", cfg.SecureCookies),
		auth:     auth.NewService(st, tokens, logging.Component(log, "auth")),
		tokens:   tokens,
		client:   apiclient.New(apiURL, nil, cfg.APITimeout),
		store:    st,
	}
}

// path prefixes an app-relative path with the configured base path.
func (a *app) path(p string) string {
	return a.cfg.BasePath + p
}

func (a *app) routes() http.Handler {
	base := a.cfg.BasePath

	apiMux := http.NewServeMux()
	api.New(a.store, a.tokens, logging.Component(a.log, "api")).Register(apiMux, base)

	pages := http.NewServeMux()
	pages.HandleFunc("GET "+base+"/{$}", a.handleRoot)
	pages.HandleFunc(base+"/login", a.handleLogin)
	pages.HandleFunc(base+"/register", a.handleRegister)
	pages.HandleFunc("POST "+base+"/logout", a.handleLogout)
	pages.HandleFunc("GET "+base+"/history", a.handleHistory)
	pages.HandleFunc("GET "+base+"/exercise/{type}/{id}", a.handleExercise)
	pages.HandleFunc("POST "+base+"/exercise/{type}/{id}", a.handleExerciseSave)
	pages.HandleFunc("GET "+base+"/exercise/{type}/{id}/delete", a.handleExerciseDeletePrompt)
	pages.HandleFunc("POST "+base+"/exercise/{type}/{id}/delete", a.handleExerciseDelete)

	protect := csrf.Protect([]byte(a.cfg.CSRFKey),
		csrf.Secure(a.cfg.SecureCookies),
		csrf.Path(base+"/"),
		csrf.ErrorHandler(http.HandlerFunc(a.handleCSRFError)),
	)

	mux := http.NewServeMux()
	mux.Handle(base+"/api/", apiMux)
	mux.Handle(base+"/", a.plaintext(protect(pages)))
	return logging.Middleware(a.log)(mux)
}

// plaintext tells the CSRF middleware that requests arrive over plain
// HTTP when cookies are not marked secure.
func (a *app) plaintext(next http.Handler) http.Handler {
	if a.cfg.SecureCookies {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

func (a *app) handleCSRFError(w http.ResponseWriter, r *http.Request) {
	logging.FromRequest(r).Warn().Err(csrf.FailureReason(r)).Msg("csrf check failed")
	http.Error(w, "Forbidden - CSRF token invalid", http.StatusForbidden)
}

func (a *app) run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           a.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info().Str("addr", a.cfg.Addr).Msg("gymlog listening")
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.log.Info().Msg("server closing")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (a *app) page(r *http.Request, sess *auth.Session) templates.Page {
	return templates.Page{
		Base:     a.cfg.BasePath,
		CSRF:     csrf.TemplateField(r),
		LoggedIn: sess.IsLoggedIn(),
	}
}

func (a *app) render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := component.Render(r.Context(), w); err != nil {
		logging.FromRequest(r).Error().Err(err).Msg("render page")
	}
}

// saveSession persists session changes. It must run before anything is
// written; a failure is logged and the request carries on.
func (a *app) saveSession(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	if err := sess.Save(r, w); err != nil {
		logging.FromRequest(r).Error().Err(err).Msg("session save")
	}
}
