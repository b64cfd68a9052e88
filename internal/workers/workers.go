package workers

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// WeekResetter clears the week visual of every user.
type WeekResetter interface {
	ResetAllWeeks(ctx context.Context) (int, error)
}

// NextWeekStart returns the first Sunday 00:00 in loc strictly after now.
func NextWeekStart(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	days := (7 - int(local.Weekday())) % 7
	next := time.Date(local.Year(), local.Month(), local.Day()+days, 0, 0, 0, 0, loc)
	if !next.After(now) {
		next = time.Date(local.Year(), local.Month(), local.Day()+days+7, 0, 0, 0, 0, loc)
	}
	return next
}

type WeeklyReset struct {
	resetter WeekResetter
	loc      *time.Location
	timeout  time.Duration

	now   func() time.Time
	after func(time.Duration) <-chan time.Time

	wg sync.WaitGroup
}

func NewWeeklyReset(resetter WeekResetter, loc *time.Location) *WeeklyReset {
	if loc == nil {
		loc = time.Local
	}
	return &WeeklyReset{
		resetter: resetter,
		loc:      loc,
		timeout:  5 * time.Minute,
		now:      time.Now,
		after:    time.After,
	}
}

// Start runs the worker in the background until ctx is cancelled.
func (w *WeeklyReset) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.Run(ctx)
	}()
}

// Wait blocks until a worker started with Start has returned.
func (w *WeeklyReset) Wait() {
	w.wg.Wait()
}

// Run sleeps until each Sunday midnight and resets all weeks.
func (w *WeeklyReset) Run(ctx context.Context) {
	for {
		next := NextWeekStart(w.now(), w.loc)
		log.Debugf("WeeklyReset: next run at %s", next.Format(time.RFC3339))

		select {
		case <-ctx.Done():
			log.Info("WeeklyReset: stopped")
			return
		case <-w.after(next.Sub(w.now())):
			w.runOnce(ctx)
		}
	}
}

func (w *WeeklyReset) runOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	log.Info("WeeklyReset: starting")
	n, err := w.resetter.ResetAllWeeks(ctx)
	if err != nil {
		log.Errorf("WeeklyReset: reset %d users before failing: %v", n, err)
		return
	}
	log.Infof("WeeklyReset: reset %d users", n)
}
