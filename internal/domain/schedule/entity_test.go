package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduledShift_IsUpcoming(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		startsAt time.Time
		endsAt   *time.Time
		want     bool
	}{
		{
			name:     "future start without end",
			startsAt: now.Add(2 * time.Hour),
			want:     true,
		},
		{
			name:     "past start without end",
			startsAt: now.Add(-2 * time.Hour),
			want:     false,
		},
		{
			name:     "start exactly now without end",
			startsAt: now,
			want:     true,
		},
		{
			name:     "already started but end in future",
			startsAt: now.Add(-3 * time.Hour),
			endsAt:   timePtr(now.Add(time.Hour)),
			want:     true,
		},
		{
			name:     "end in the past",
			startsAt: now.Add(-5 * time.Hour),
			endsAt:   timePtr(now.Add(-2 * time.Hour)),
			want:     false,
		},
		{
			name:     "end exactly now",
			startsAt: now.Add(-3 * time.Hour),
			endsAt:   timePtr(now),
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ScheduledShift{StartsAt: tt.startsAt, EndsAt: tt.endsAt}
			assert.Equal(t, tt.want, s.IsUpcoming(now))
		})
	}
}

func TestScheduledShift_EffectiveEnd(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour)

	withEnd := ScheduledShift{StartsAt: start, EndsAt: &end}
	assert.Equal(t, end, withEnd.EffectiveEnd())

	withoutEnd := ScheduledShift{StartsAt: start}
	assert.Equal(t, start, withoutEnd.EffectiveEnd())
}

func timePtr(t time.Time) *time.Time {
	return &t
}
