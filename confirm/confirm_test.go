package confirm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChoose(t *testing.T) {
	var ran []string
	d := &Dialog{
		Title:   "Delete Exercise",
		Message: "Are you sure?",
		Actions: []Action{
			{Label: "Cancel"},
			{Label: "Delete", Do: func(context.Context) { ran = append(ran, "Delete") }},
		},
	}

	assert.Equal(t, []string{"Cancel", "Delete"}, d.Labels())

	assert.NoError(t, d.Choose(context.Background(), "Cancel"))
	assert.Empty(t, ran)

	assert.NoError(t, d.Choose(context.Background(), "Delete"))
	assert.Equal(t, []string{"Delete"}, ran)

	assert.ErrorIs(t, d.Choose(context.Background(), "Archive"), ErrUnknownAction)
	assert.Len(t, ran, 1)
}
