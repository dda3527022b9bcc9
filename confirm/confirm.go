// Package confirm models a confirmation dialog with labelled actions.
package confirm

import (
	"context"
	"errors"
	"fmt"
)

var ErrUnknownAction = errors.New("unknown dialog action")

// Action is one button of a dialog. A nil Do means the button only
// dismisses the dialog.
type Action struct {
	Label string
	Do    func(ctx context.Context)
}

type Dialog struct {
	Title   string
	Message string
	Actions []Action
}

// Choose runs the callback of the action with the given label.
func (d *Dialog) Choose(ctx context.Context, label string) error {
	for _, a := range d.Actions {
		if a.Label != label {
			continue
		}
		if a.Do != nil {
			a.Do(ctx)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownAction, label)
}

// Labels lists the action labels in display order.
func (d *Dialog) Labels() []string {
	labels := make([]string, len(d.Actions))
	for i, a := range d.Actions {
		labels[i] = a.Label
	}
	return labels
}
