package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNextWeekStart(t *testing.T) {
	sofia, err := time.LoadLocation("Europe/Sofia")
	if err != nil {
		t.Skip("tzdata not available")
	}

	tests := []struct {
		name string
		now  time.Time
		loc  *time.Location
		want time.Time
	}{
		{"wednesday", time.Date(2025, 5, 7, 15, 0, 0, 0, time.UTC), time.UTC, time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC)},
		{"saturday night", time.Date(2025, 5, 10, 23, 59, 0, 0, time.UTC), time.UTC, time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC)},
		{"sunday midnight goes a week ahead", time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC), time.UTC, time.Date(2025, 5, 18, 0, 0, 0, 0, time.UTC)},
		{"sunday noon", time.Date(2025, 5, 11, 12, 0, 0, 0, time.UTC), time.UTC, time.Date(2025, 5, 18, 0, 0, 0, 0, time.UTC)},
		// 22:30 UTC Saturday is already Sunday in Sofia
		{"other zone", time.Date(2025, 5, 10, 22, 30, 0, 0, time.UTC), sofia, time.Date(2025, 5, 18, 0, 0, 0, 0, sofia)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextWeekStart(tt.now, tt.loc)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

type fakeResetter struct {
	calls atomic.Int32
	err   error
	done  chan struct{}
}

func (f *fakeResetter) ResetAllWeeks(context.Context) (int, error) {
	f.calls.Add(1)
	f.done <- struct{}{}
	return 3, f.err
}

func TestWeeklyReset_RunsOnEachTick(t *testing.T) {
	for _, resetErr := range []error{nil, errors.New("store down")} {
		r := &fakeResetter{err: resetErr, done: make(chan struct{})}
		w := NewWeeklyReset(r, time.UTC)

		ticks := make(chan time.Time)
		var waited atomic.Int64
		w.now = func() time.Time { return time.Date(2025, 5, 10, 23, 0, 0, 0, time.UTC) }
		w.after = func(d time.Duration) <-chan time.Time {
			waited.Store(int64(d))
			return ticks
		}

		ctx, cancel := context.WithCancel(context.Background())
		w.Start(ctx)

		ticks <- time.Time{}
		<-r.done
		ticks <- time.Time{}
		<-r.done

		cancel()
		w.Wait()

		assert.Equal(t, int32(2), r.calls.Load())
		assert.Equal(t, int64(time.Hour), waited.Load())
	}
}

func TestWeeklyReset_StopsWithoutRunning(t *testing.T) {
	r := &fakeResetter{done: make(chan struct{})}
	w := NewWeeklyReset(r, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Run(ctx)
	assert.Zero(t, r.calls.Load())
}
