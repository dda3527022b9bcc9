// Package detail implements the exercise detail view: it loads one cardio
// or resistance record, renders it, and edits or deletes it through the
// exercise API.
package detail

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"gymlog/apiclient"
	"gymlog/common"
	"gymlog/confirm"
)

var (
	ErrInvalidNumber = errors.New("invalid number")
	ErrNotEditing    = errors.New("not in edit mode")
	// ErrStale is returned by Load when a newer Load superseded it.
	ErrStale = errors.New("stale response discarded")
)

const HistoryPath = "/history"

// Auth is the session the view acts for.
type Auth interface {
	IsLoggedIn() bool
	Token() string
}

// API is the exercise REST API.
type API interface {
	GetByID(ctx context.Context, kind common.Kind, id, token string) (*apiclient.Response, error)
	Update(ctx context.Context, kind common.Kind, id string, payload any, token string) (*apiclient.Response, error)
	Delete(ctx context.Context, kind common.Kind, id, token string) (*apiclient.Response, error)
}

type Navigator interface {
	GoTo(path string)
}

// Deps are the collaborators of a View.
type Deps struct {
	Auth       Auth
	API        API
	Navigator  Navigator
	FormatDate func(raw string) string
	Log        zerolog.Logger

	// HistoryPath is where a confirmed delete navigates; defaults to
	// HistoryPath.
	HistoryPath string
}

// Form is the editable copy of a record. Fields that do not belong to the
// view's kind are ignored.
type Form struct {
	Name     string
	Distance string
	Duration string
	Weight   string
	Sets     string
	Reps     string
}

// View is the state of one exercise detail page. It is safe for
// concurrent use.
type View struct {
	kind common.Kind
	deps Deps

	mu       sync.Mutex
	id       string
	exercise common.Exercise
	editing  bool
	form     Form
	err      error
	gen      uint64
}

func New(kind common.Kind, id string, deps Deps) *View {
	if deps.FormatDate == nil {
		deps.FormatDate = func(raw string) string { return raw }
	}
	if deps.HistoryPath == "" {
		deps.HistoryPath = HistoryPath
	}
	return &View{
		kind:     kind,
		deps:     deps,
		id:       id,
		exercise: common.Exercise{Kind: kind},
	}
}

// Snapshot is a consistent copy of the view state for rendering.
type Snapshot struct {
	Kind     common.Kind
	ID       string
	Exercise common.Exercise
	Editing  bool
	Form     Form
	Err      error
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Snapshot{
		Kind:     v.kind,
		ID:       v.id,
		Exercise: v.exercise,
		Editing:  v.editing,
		Form:     v.form,
		Err:      v.err,
	}
}

func (v *View) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// token returns "" when there is no usable session.
func (v *View) token() string {
	if v.deps.Auth == nil || !v.deps.Auth.IsLoggedIn() {
		return ""
	}
	return v.deps.Auth.Token()
}

func (v *View) logger() *zerolog.Logger {
	l := v.deps.Log.With().Str("kind", v.kind.String()).Logger()
	return &l
}

// Load fetches the record with the given id and makes it the displayed
// one. Without a session it does nothing. A failed fetch keeps the
// previous record and is reported through Err.
func (v *View) Load(ctx context.Context, id string) error {
	token := v.token()
	if token == "" {
		return nil
	}

	v.mu.Lock()
	v.id = id
	v.gen++
	gen := v.gen
	v.mu.Unlock()

	ex, err := v.fetch(ctx, id, token)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		v.logger().Debug().Str("id", id).Msg("discarding stale exercise response")
		return ErrStale
	}
	if err != nil {
		v.logger().Error().Err(err).Str("id", id).Msg("load exercise")
		v.err = err
		return err
	}
	v.exercise = ex
	v.err = nil
	return nil
}

func (v *View) fetch(ctx context.Context, id, token string) (common.Exercise, error) {
	resp, err := v.deps.API.GetByID(ctx, v.kind, id, token)
	if err != nil {
		return common.Exercise{}, err
	}
	if err := resp.Err(); err != nil {
		return common.Exercise{}, err
	}

	ex := common.Exercise{Kind: v.kind}
	switch v.kind {
	case common.Cardio:
		var rec common.CardioRecord
		if err := resp.JSON(&rec); err != nil {
			return common.Exercise{}, fmt.Errorf("decode cardio: %w", err)
		}
		if rec.Id == "" {
			rec.Id = id
		}
		rec.Date = v.deps.FormatDate(rec.Date)
		ex.Cardio = &rec
	case common.Resistance:
		var rec common.ResistanceRecord
		if err := resp.JSON(&rec); err != nil {
			return common.Exercise{}, fmt.Errorf("decode resistance: %w", err)
		}
		if rec.Id == "" {
			rec.Id = id
		}
		rec.Date = v.deps.FormatDate(rec.Date)
		ex.Resistance = &rec
	default:
		return common.Exercise{}, fmt.Errorf("%w: %q", common.ErrUnknownKind, v.kind)
	}
	return ex, nil
}

// ToggleEdit enters edit mode with the form filled from the displayed
// record, discarding any earlier unsaved edits.
func (v *View) ToggleEdit() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.editing = true
	v.form = formFrom(v.exercise)
}

func (v *View) CancelEdit() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.editing = false
	v.form = Form{}
}

// SetForm replaces the form values while editing.
func (v *View) SetForm(f Form) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form = f
}

// Save sends the form to the API. On success the record is fetched again
// and edit mode ends; on failure edit mode stays and the displayed record
// is untouched.
func (v *View) Save(ctx context.Context) error {
	token := v.token()
	if token == "" {
		return nil
	}

	v.mu.Lock()
	if !v.editing {
		v.mu.Unlock()
		return ErrNotEditing
	}
	id, form := v.id, v.form
	v.mu.Unlock()

	payload, err := buildPayload(v.kind, form)
	if err == nil {
		err = v.update(ctx, id, payload, token)
	}
	if err != nil {
		v.logger().Error().Err(err).Str("id", id).Msg("save exercise")
		v.mu.Lock()
		v.err = err
		v.mu.Unlock()
		return err
	}

	loadErr := v.Load(ctx, id)
	if errors.Is(loadErr, ErrStale) {
		loadErr = nil
	}

	v.mu.Lock()
	v.editing = false
	v.form = Form{}
	v.mu.Unlock()
	return loadErr
}

func (v *View) update(ctx context.Context, id string, payload any, token string) error {
	resp, err := v.deps.API.Update(ctx, v.kind, id, payload, token)
	if err != nil {
		return err
	}
	return resp.Err()
}

// Remove asks for confirmation before deleting. Choosing "Delete" calls
// the API and then navigates to the history page whether or not the
// delete succeeded. Without a session it returns nil.
func (v *View) Remove() *confirm.Dialog {
	token := v.token()
	if token == "" {
		return nil
	}

	v.mu.Lock()
	id := v.id
	v.mu.Unlock()

	return &confirm.Dialog{
		Title:   "Delete Exercise",
		Message: "Are you sure you want to delete this exercise?",
		Actions: []confirm.Action{
			{Label: "Cancel"},
			{Label: "Delete", Do: func(ctx context.Context) {
				v.delete(ctx, id, token)
				v.deps.Navigator.GoTo(v.deps.HistoryPath)
			}},
		},
	}
}

func (v *View) delete(ctx context.Context, id, token string) {
	resp, err := v.deps.API.Delete(ctx, v.kind, id, token)
	if err == nil {
		err = resp.Err()
	}
	if err != nil {
		v.logger().Error().Err(err).Str("id", id).Msg("delete exercise")
	}
	v.mu.Lock()
	v.err = err
	v.mu.Unlock()
}

func formFrom(ex common.Exercise) Form {
	switch {
	case ex.Cardio != nil:
		return Form{
			Name:     ex.Cardio.Name,
			Distance: FormatNumber(ex.Cardio.Distance),
			Duration: FormatNumber(ex.Cardio.Duration),
		}
	case ex.Resistance != nil:
		return Form{
			Name:   ex.Resistance.Name,
			Weight: FormatNumber(ex.Resistance.Weight),
			Sets:   strconv.Itoa(ex.Resistance.Sets),
			Reps:   strconv.Itoa(ex.Resistance.Reps),
		}
	}
	return Form{}
}

func buildPayload(kind common.Kind, f Form) (any, error) {
	switch kind {
	case common.Cardio:
		distance, err := parseFloat("distance", f.Distance)
		if err != nil {
			return nil, err
		}
		duration, err := parseFloat("duration", f.Duration)
		if err != nil {
			return nil, err
		}
		return common.CardioUpdate{Name: f.Name, Distance: distance, Duration: duration}, nil
	case common.Resistance:
		weight, err := parseFloat("weight", f.Weight)
		if err != nil {
			return nil, err
		}
		sets, err := parseInt("sets", f.Sets)
		if err != nil {
			return nil, err
		}
		reps, err := parseInt("reps", f.Reps)
		if err != nil {
			return nil, err
		}
		return common.ResistanceUpdate{Name: f.Name, Weight: weight, Sets: sets, Reps: reps}, nil
	}
	return nil, fmt.Errorf("%w: %q", common.ErrUnknownKind, kind)
}

func parseFloat(field, s string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w for %s: %q", ErrInvalidNumber, field, s)
	}
	return n, nil
}

func parseInt(field, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w for %s: %q", ErrInvalidNumber, field, s)
	}
	return n, nil
}

// FormatNumber prints a float without trailing zeros: 5 -> "5", 6.2 -> "6.2".
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
