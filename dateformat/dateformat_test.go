package dateformat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2024-01-01T00:00:00Z", "January 1, 2024"},
		{"2024-03-15T23:30:00-05:00", "March 16, 2024"},
		{"", ""},
		{"last tuesday", "last tuesday"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.in))
		})
	}
}

func TestTime(t *testing.T) {
	assert.Equal(t, "July 4, 2025", Time(time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC)))
}
