package main

import (
	"net/http"

	"gymlog/logging"
	"gymlog/templates"
)

func (a *app) handleRoot(w http.ResponseWriter, r *http.Request) {
	sess := a.sessions.For(r)
	a.render(w, r, http.StatusOK, templates.Root(a.page(r, sess)))
}

func (a *app) handleLogin(w http.ResponseWriter, r *http.Request) {
	sess := a.sessions.For(r)
	var errmsg string
	if r.Method == http.MethodPost {
		err := a.auth.Login(r.Context(), r.FormValue("email"), r.FormValue("password"), sess)
		if err != nil {
			errmsg = err.Error()
		}
	}
	a.saveSession(w, r, sess)
	if sess.IsLoggedIn() {
		http.Redirect(w, r, a.path("/history"), http.StatusSeeOther)
		return
	}
	a.render(w, r, http.StatusOK, templates.Login(a.page(r, sess), errmsg))
}

func (a *app) handleRegister(w http.ResponseWriter, r *http.Request) {
	sess := a.sessions.For(r)
	var errmsg string
	if r.Method == http.MethodPost {
		err := a.auth.Register(r.Context(), r.FormValue("email"), r.FormValue("password"), r.FormValue("name"), sess)
		if err != nil {
			errmsg = err.Error()
		}
	}
	a.saveSession(w, r, sess)
	if sess.IsLoggedIn() {
		http.Redirect(w, r, a.path("/history"), http.StatusSeeOther)
		return
	}
	a.render(w, r, http.StatusOK, templates.Register(a.page(r, sess), errmsg))
}

func (a *app) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := a.sessions.For(r)
	sess.Logout()
	a.saveSession(w, r, sess)
	http.Redirect(w, r, a.path("/login"), http.StatusSeeOther)
}

func (a *app) handleHistory(w http.ResponseWriter, r *http.Request) {
	sess := a.sessions.For(r)
	user, ok := a.auth.CurrentUser(r.Context(), sess)
	if !ok {
		a.saveSession(w, r, sess)
		http.Redirect(w, r, a.path("/login"), http.StatusFound)
		return
	}

	var errmsg string
	exercises, err := a.client.History(r.Context(), sess.Token())
	if err != nil {
		logging.FromRequest(r).Error().Err(err).Msg("load history")
		errmsg = "Could not load your exercises."
	}

	page := a.page(r, sess)
	page.Flashes = sess.Flashes()
	a.saveSession(w, r, sess)
	a.render(w, r, http.StatusOK, templates.History(page, user.Name, exercises, errmsg))
}
