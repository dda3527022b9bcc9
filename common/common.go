package common

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnknownKind = errors.New("unknown exercise kind")

// Kind discriminates the two exercise record shapes.
type Kind string

const (
	Cardio     Kind = "cardio"
	Resistance Kind = "resistance"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Cardio, Resistance:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) String() string { return string(k) }

type CardioRecord struct {
	Id       string  `json:"id"`
	Name     string  `json:"name"`
	Date     string  `json:"date"`
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

type ResistanceRecord struct {
	Id     string  `json:"id"`
	Name   string  `json:"name"`
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
	Sets   int     `json:"sets"`
	Reps   int     `json:"reps"`
}

// Exercise holds exactly one of Cardio or Resistance, selected by Kind.
type Exercise struct {
	Kind       Kind
	Cardio     *CardioRecord
	Resistance *ResistanceRecord
}

func (e Exercise) Empty() bool {
	return e.Cardio == nil && e.Resistance == nil
}

func (e Exercise) Name() string {
	switch {
	case e.Cardio != nil:
		return e.Cardio.Name
	case e.Resistance != nil:
		return e.Resistance.Name
	}
	return ""
}

func (e Exercise) Date() string {
	switch {
	case e.Cardio != nil:
		return e.Cardio.Date
	case e.Resistance != nil:
		return e.Resistance.Date
	}
	return ""
}

// CardioUpdate is the payload for updating a cardio record.
type CardioUpdate struct {
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

// ResistanceUpdate is the payload for updating a resistance record.
type ResistanceUpdate struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Sets   int     `json:"sets"`
	Reps   int     `json:"reps"`
}

// ExerciseSummary is one row of the history list.
type ExerciseSummary struct {
	Id   string    `json:"id"`
	Kind Kind      `json:"kind"`
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

type User struct {
	Id       int
	Name     string
	Email    string
	Password string
	Admin    bool
}
