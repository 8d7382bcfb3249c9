package arrivalwindow

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var base = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := base.Add(d)
	return &t
}

func TestEvaluate_NoDate(t *testing.T) {
	w := Evaluate(base, nil)
	assert.Equal(t, StateNoDate, w.State)
	assert.False(t, w.CanSubmit)
	assert.True(t, w.NextRecalculation.IsZero())
}

func TestEvaluate_States(t *testing.T) {
	tests := []struct {
		name      string
		arrival   *time.Time
		want      State
		canSubmit bool
	}{
		{"past", at(-time.Hour), StatePastDeadline, false},
		{"exactly now", at(0), StatePastDeadline, false},
		{"urgent low", at(6 * time.Minute), StateUrgent, true},
		{"urgent boundary", at(24 * time.Hour), StateUrgent, true},
		{"within window", at(30 * time.Hour), StateWithinWindow, true},
		{"window boundary", at(72 * time.Hour), StateWithinWindow, true},
		{"pre window", at(100 * time.Hour), StatePreWindow, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Evaluate(base, tt.arrival)
			assert.Equal(t, tt.want, w.State)
			assert.Equal(t, tt.canSubmit, w.CanSubmit)
		})
	}
}

func TestEvaluate_WithinWindowRecalcInOneHour(t *testing.T) {
	w := Evaluate(base, at(30*time.Hour))
	assert.Equal(t, StateWithinWindow, w.State)
	assert.Equal(t, base.Add(time.Hour), w.NextRecalculation)
	assert.Equal(t, 30, w.HoursRemaining)
}

func TestEvaluate_PreWindowRecalcAtWindowOpening(t *testing.T) {
	arrival := at(100 * time.Hour)
	w := Evaluate(base, arrival)
	assert.Equal(t, StatePreWindow, w.State)
	assert.Equal(t, arrival.Add(-72*time.Hour), w.NextRecalculation)
}

func TestEvaluate_HoursRemainingCeils(t *testing.T) {
	// 0.1 hours left must display as 1 hour, never 0, while submittable.
	w := Evaluate(base, at(6*time.Minute))
	assert.True(t, w.CanSubmit)
	assert.Equal(t, 1, w.HoursRemaining)

	w = Evaluate(base, at(24*time.Hour+time.Millisecond))
	assert.Equal(t, 25, w.HoursRemaining)
}

func TestEvaluate_MonotonicForFixedArrival(t *testing.T) {
	arrival := at(100 * time.Hour)

	rank := map[State]int{
		StatePreWindow:    0,
		StateWithinWindow: 1,
		StateUrgent:       2,
		StatePastDeadline: 3,
	}

	prev := -1
	for d := time.Duration(0); d <= 101*time.Hour; d += 13 * time.Minute {
		w := Evaluate(base.Add(d), arrival)
		cur := rank[w.State]
		assert.GreaterOrEqual(t, cur, prev, "state regressed at offset %v", d)
		prev = cur
	}
}

// fakeTimer records scheduling without real time.
type fakeTimer struct{ stopped bool }

func (f *fakeTimer) Stop() bool {
	f.stopped = true
	return true
}

func TestScheduler_ScheduleReplacesPending(t *testing.T) {
	var mu sync.Mutex
	var delays []time.Duration
	var timers []*fakeTimer

	s := &Scheduler{
		now: func() time.Time { return base },
		after: func(d time.Duration, fn func()) stopper {
			mu.Lock()
			defer mu.Unlock()
			delays = append(delays, d)
			ft := &fakeTimer{}
			timers = append(timers, ft)
			return ft
		},
	}

	s.Schedule(base.Add(time.Hour), func() {})
	s.Schedule(base.Add(2*time.Hour), func() {})

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []time.Duration{time.Hour, 2 * time.Hour}, delays)
	assert.True(t, timers[0].stopped, "first timer should be cancelled on reschedule")
	assert.False(t, timers[1].stopped)
}

func TestScheduler_ZeroTimeCancels(t *testing.T) {
	ft := &fakeTimer{}
	s := &Scheduler{
		now:   func() time.Time { return base },
		after: func(d time.Duration, fn func()) stopper { return ft },
	}

	s.Schedule(base.Add(time.Hour), func() {})
	s.Schedule(time.Time{}, func() {})
	assert.True(t, ft.stopped)
}

func TestScheduler_PastInstantFiresImmediately(t *testing.T) {
	var got time.Duration = -1
	s := &Scheduler{
		now: func() time.Time { return base },
		after: func(d time.Duration, fn func()) stopper {
			got = d
			return &fakeTimer{}
		},
	}

	s.Schedule(base.Add(-time.Minute), func() {})
	assert.Equal(t, time.Duration(0), got)
}
