package main

import (
	"errors"
	"fmt"
	"net/http"

	"gymlog/auth"
	"gymlog/common"
	"gymlog/confirm"
	"gymlog/dateformat"
	"gymlog/detail"
	"gymlog/logging"
	"gymlog/templates"
)

// navigation records where a view asked to go; the handler turns it into
// a redirect.
type navigation struct {
	path string
}

func (n *navigation) GoTo(path string) { n.path = path }

// mountView builds the detail view for the routed exercise. It answers the
// request itself and returns ok=false when the user is logged out or the
// type is unknown.
func (a *app) mountView(w http.ResponseWriter, r *http.Request) (v *detail.View, sess *auth.Session, nav *navigation, ok bool) {
	sess = a.sessions.For(r)
	if !sess.IsLoggedIn() {
		http.Redirect(w, r, a.path("/login"), http.StatusFound)
		return nil, nil, nil, false
	}
	kind, err := common.ParseKind(r.PathValue("type"))
	if err != nil {
		http.NotFound(w, r)
		return nil, nil, nil, false
	}
	nav = &navigation{}
	v = detail.New(kind, r.PathValue("id"), detail.Deps{
		Auth:        sess,
		API:         a.client,
		Navigator:   nav,
		FormatDate:  dateformat.Format,
		Log:         *logging.FromRequest(r),
		HistoryPath: a.path(detail.HistoryPath),
	})
	return v, sess, nav, true
}

func (a *app) exercisePath(kind common.Kind, id string) string {
	return a.path(fmt.Sprintf("/exercise/%s/%s", kind, id))
}

func (a *app) handleExercise(w http.ResponseWriter, r *http.Request) {
	v, sess, _, ok := a.mountView(w, r)
	if !ok {
		return
	}
	_ = v.Load(r.Context(), r.PathValue("id"))
	if r.URL.Query().Get("edit") == "1" {
		v.ToggleEdit()
	}
	a.render(w, r, http.StatusOK, templates.ExerciseDetail(a.page(r, sess), v.Snapshot()))
}

func (a *app) handleExerciseSave(w http.ResponseWriter, r *http.Request) {
	v, sess, _, ok := a.mountView(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	_ = v.Load(r.Context(), id)
	v.ToggleEdit()
	v.SetForm(detail.Form{
		Name:     r.FormValue("name"),
		Distance: r.FormValue("distance"),
		Duration: r.FormValue("duration"),
		Weight:   r.FormValue("weight"),
		Sets:     r.FormValue("sets"),
		Reps:     r.FormValue("reps"),
	})
	if err := v.Save(r.Context()); err != nil {
		a.render(w, r, http.StatusUnprocessableEntity, templates.ExerciseDetail(a.page(r, sess), v.Snapshot()))
		return
	}
	snap := v.Snapshot()
	http.Redirect(w, r, a.exercisePath(snap.Kind, id), http.StatusSeeOther)
}

func (a *app) handleExerciseDeletePrompt(w http.ResponseWriter, r *http.Request) {
	v, sess, _, ok := a.mountView(w, r)
	if !ok {
		return
	}
	snap := v.Snapshot()
	dialog := v.Remove()
	if dialog == nil {
		http.Redirect(w, r, a.path("/login"), http.StatusFound)
		return
	}
	self := a.exercisePath(snap.Kind, snap.ID)
	a.render(w, r, http.StatusOK, templates.Confirm(a.page(r, sess), dialog, self+"/delete", self))
}

func (a *app) handleExerciseDelete(w http.ResponseWriter, r *http.Request) {
	v, sess, nav, ok := a.mountView(w, r)
	if !ok {
		return
	}
	snap := v.Snapshot()
	dialog := v.Remove()
	if dialog == nil {
		http.Redirect(w, r, a.path("/login"), http.StatusFound)
		return
	}

	err := dialog.Choose(r.Context(), r.FormValue("action"))
	if errors.Is(err, confirm.ErrUnknownAction) {
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}
	if nav.path == "" {
		http.Redirect(w, r, a.exercisePath(snap.Kind, snap.ID), http.StatusSeeOther)
		return
	}
	// navigation after a confirmed delete happens even when the delete
	// failed; the failure is shown on the next page
	if err := v.Err(); err != nil {
		sess.AddFlash("Could not delete exercise: " + err.Error())
		a.saveSession(w, r, sess)
	}
	http.Redirect(w, r, nav.path, http.StatusSeeOther)
}
