// Package api serves the exercise REST API consumed by the detail pages.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"gymlog/common"
	"gymlog/store"
)

// Exercises is the persistence the API needs.
type Exercises interface {
	CreateCardio(ctx context.Context, userID int, u common.CardioUpdate, date time.Time) (common.CardioRecord, error)
	Cardio(ctx context.Context, userID int, id string) (common.CardioRecord, error)
	UpdateCardio(ctx context.Context, userID int, id string, u common.CardioUpdate) (common.CardioRecord, error)
	DeleteCardio(ctx context.Context, userID int, id string) error
	CreateResistance(ctx context.Context, userID int, u common.ResistanceUpdate, date time.Time) (common.ResistanceRecord, error)
	Resistance(ctx context.Context, userID int, id string) (common.ResistanceRecord, error)
	UpdateResistance(ctx context.Context, userID int, id string, u common.ResistanceUpdate) (common.ResistanceRecord, error)
	DeleteResistance(ctx context.Context, userID int, id string) error
	History(ctx context.Context, userID int) ([]common.ExerciseSummary, error)
}

// TokenVerifier maps a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (int, error)
}

type Handler struct {
	exercises Exercises
	tokens    TokenVerifier
	log       zerolog.Logger
	now       func() time.Time
}

func New(exercises Exercises, tokens TokenVerifier, log zerolog.Logger) *Handler {
	return &Handler{exercises: exercises, tokens: tokens, log: log, now: time.Now}
}

// Register mounts the API routes on mux under prefix.
func (h *Handler) Register(mux *http.ServeMux, prefix string) {
	mux.HandleFunc("GET "+prefix+"/api/exercises", h.authed(h.handleHistory))
	mux.HandleFunc("POST "+prefix+"/api/{kind}", h.authed(h.handleCreate))
	mux.HandleFunc("GET "+prefix+"/api/{kind}/{id}", h.authed(h.handleGet))
	mux.HandleFunc("PUT "+prefix+"/api/{kind}/{id}", h.authed(h.handleUpdate))
	mux.HandleFunc("DELETE "+prefix+"/api/{kind}/{id}", h.authed(h.handleDelete))
}

type authedHandler func(w http.ResponseWriter, r *http.Request, userID int)

func (h *Handler) authed(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			jsonError(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		userID, err := h.tokens.Verify(token)
		if err != nil {
			jsonError(w, "invalid token", http.StatusUnauthorized)
			return
		}
		next(w, r, userID)
	}
}

func (h *Handler) kind(w http.ResponseWriter, r *http.Request) (common.Kind, bool) {
	kind, err := common.ParseKind(r.PathValue("kind"))
	if err != nil {
		jsonError(w, "unknown exercise type", http.StatusNotFound)
		return "", false
	}
	return kind, true
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request, userID int) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	var (
		rec any
		err error
	)
	switch kind {
	case common.Cardio:
		rec, err = h.exercises.Cardio(r.Context(), userID, id)
	case common.Resistance:
		rec, err = h.exercises.Resistance(r.Context(), userID, id)
	}
	if err != nil {
		h.storeError(w, err)
		return
	}
	jsonOK(w, http.StatusOK, rec)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request, userID int) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	var (
		rec any
		err error
	)
	switch kind {
	case common.Cardio:
		var u common.CardioUpdate
		if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
			jsonError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		rec, err = h.exercises.UpdateCardio(r.Context(), userID, id, u)
	case common.Resistance:
		var u common.ResistanceUpdate
		if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
			jsonError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		rec, err = h.exercises.UpdateResistance(r.Context(), userID, id, u)
	}
	if err != nil {
		h.storeError(w, err)
		return
	}
	jsonOK(w, http.StatusOK, rec)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request, userID int) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	var err error
	switch kind {
	case common.Cardio:
		err = h.exercises.DeleteCardio(r.Context(), userID, id)
	case common.Resistance:
		err = h.exercises.DeleteResistance(r.Context(), userID, id)
	}
	if err != nil {
		h.storeError(w, err)
		return
	}
	jsonOK(w, http.StatusOK, map[string]any{"success": true})
}

type createRequest struct {
	Name     string     `json:"name"`
	Date     *time.Time `json:"date"`
	Distance float64    `json:"distance"`
	Duration float64    `json:"duration"`
	Weight   float64    `json:"weight"`
	Sets     int        `json:"sets"`
	Reps     int        `json:"reps"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request, userID int) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	date := h.now()
	if req.Date != nil {
		date = *req.Date
	}
	var (
		rec any
		err error
	)
	switch kind {
	case common.Cardio:
		rec, err = h.exercises.CreateCardio(r.Context(), userID,
			common.CardioUpdate{Name: req.Name, Distance: req.Distance, Duration: req.Duration}, date)
	case common.Resistance:
		rec, err = h.exercises.CreateResistance(r.Context(), userID,
			common.ResistanceUpdate{Name: req.Name, Weight: req.Weight, Sets: req.Sets, Reps: req.Reps}, date)
	}
	if err != nil {
		h.storeError(w, err)
		return
	}
	jsonOK(w, http.StatusCreated, rec)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request, userID int) {
	history, err := h.exercises.History(r.Context(), userID)
	if err != nil {
		h.storeError(w, err)
		return
	}
	if history == nil {
		history = []common.ExerciseSummary{}
	}
	jsonOK(w, http.StatusOK, history)
}

func (h *Handler) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "exercise not found", http.StatusNotFound)
		return
	}
	h.log.Error().Err(err).Msg("exercise store")
	jsonError(w, "internal server error", http.StatusInternalServerError)
}

func jsonOK(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
