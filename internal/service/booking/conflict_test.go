package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHasConflict(t *testing.T) {
	base := time.Date(2027, 6, 20, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		existing []time.Time
		want     bool
	}{
		{
			name:     "no existing appointments",
			existing: nil,
			want:     false,
		},
		{
			name:     "same minute",
			existing: []time.Time{base},
			want:     true,
		},
		{
			name:     "fifteen minutes later",
			existing: []time.Time{base.Add(15 * time.Minute)},
			want:     true,
		},
		{
			name:     "fifteen minutes earlier",
			existing: []time.Time{base.Add(-15 * time.Minute)},
			want:     true,
		},
		{
			name:     "exactly thirty minutes apart is free",
			existing: []time.Time{base.Add(30 * time.Minute)},
			want:     false,
		},
		{
			name:     "exactly thirty minutes before is free",
			existing: []time.Time{base.Add(-30 * time.Minute)},
			want:     false,
		},
		{
			name:     "one second inside the window",
			existing: []time.Time{base.Add(29*time.Minute + 59*time.Second)},
			want:     true,
		},
		{
			name:     "thirty five minutes apart",
			existing: []time.Time{base.Add(35 * time.Minute)},
			want:     false,
		},
		{
			name:     "one clash among several bookings",
			existing: []time.Time{base.Add(-2 * time.Hour), base.Add(20 * time.Minute), base.Add(3 * time.Hour)},
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasConflict(base, tt.existing))
		})
	}
}
