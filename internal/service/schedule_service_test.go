package service

import (
	"testing"
	"time"

	"github.com/lshigami/Margays/internal/model"
)

func TestDeriveStatus(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)
	test := &model.Test{StartDate: start, EndDate: end}
	schedule := NewScheduleService()

	tests := []struct {
		name string
		now  time.Time
		want model.TestStatus
	}{
		{name: "before window", now: start.Add(-time.Minute), want: model.TestUpcoming},
		{name: "at start", now: start, want: model.TestActive},
		{name: "inside window", now: start.Add(time.Hour), want: model.TestActive},
		{name: "at end", now: end, want: model.TestActive},
		{name: "after window", now: end.Add(time.Second), want: model.TestFinished},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := schedule.DeriveStatus(test, tt.now); got != tt.want {
				t.Errorf("DeriveStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeriveStatusMonotonic(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	test := &model.Test{StartDate: start, EndDate: start.Add(time.Hour)}
	schedule := NewScheduleService()

	// Once finished, later instants never revert the status.
	finishedAt := test.EndDate.Add(time.Second)
	if got := schedule.DeriveStatus(test, finishedAt); got != model.TestFinished {
		t.Fatalf("DeriveStatus() = %v, want finished", got)
	}
	for _, later := range []time.Duration{time.Minute, time.Hour, 24 * time.Hour} {
		if got := schedule.DeriveStatus(test, finishedAt.Add(later)); got != model.TestFinished {
			t.Errorf("DeriveStatus(+%v) = %v, want finished", later, got)
		}
	}
}
