package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitFlowAPI/internal/daykey"
	"fitFlowAPI/internal/metrics"
	"fitFlowAPI/internal/notification"
	"fitFlowAPI/internal/store"
	"fitFlowAPI/internal/streak"
	"fitFlowAPI/internal/user"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrAlreadyCheckedIn = errors.New("already checked in today")
)

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

// Deps are the collaborators shared by every service.
type Deps struct {
	Store    store.Store
	Streak   *streak.Engine
	Notifier Notifier
	Metrics  *metrics.Manager
	Location *time.Location
	Now      func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Streak == nil {
		d.Streak = streak.NewEngine()
	}
	if d.Notifier == nil {
		d.Notifier = notification.LogNotifier{}
	}
	if d.Metrics == nil {
		d.Metrics = metrics.NewManager("fitflow", "services", prometheus.NewRegistry())
	}
	if d.Location == nil {
		d.Location = time.Local
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

func (d Deps) today() daykey.Key {
	return daykey.Today(d.Now(), d.Location)
}

// Session is the per-request view of one user: the sanitized document and
// the calendar day the request runs on.
type Session struct {
	UID       string
	Doc       user.Document
	Today     daykey.Key
	Anomalies []user.Anomaly
	// SavedLocally is set once any write of this request only reached the
	// local fallback cache.
	SavedLocally bool
}

func (d Deps) LoadSession(ctx context.Context, uid string) (*Session, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidInput)
	}
	doc, err := d.Store.GetUserDocument(ctx, uid)
	switch {
	case errors.Is(err, store.ErrNotFound):
		doc = &user.Document{}
	case err != nil:
		return nil, fmt.Errorf("load user %s: %w", uid, err)
	}

	clean, anomalies := user.Sanitize(*doc)
	for _, a := range anomalies {
		log.Warnf("Session: data anomaly for %s: %s", uid, a)
		d.Metrics.CounterDataAnomalies.WithLabelValues(a.Field).Inc()
	}
	return &Session{
		UID:       uid,
		Doc:       clean,
		Today:     d.today(),
		Anomalies: anomalies,
	}, nil
}

// saved treats a write that only reached the local fallback cache as done.
// Any other failure, an outage without a fallback included, is returned.
func (d Deps) saved(sess *Session, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrSavedLocally) {
		log.Warnf("%s: %s kept locally: %v", op, sess.UID, err)
		sess.SavedLocally = true
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// update persists the patch and mirrors it into the session document.
func (d Deps) update(ctx context.Context, sess *Session, op string, patch user.Patch) error {
	patch.Touch(d.Now().UTC())
	if err := d.saved(sess, op, d.Store.UpdateUserDocument(ctx, sess.UID, patch)); err != nil {
		return err
	}
	if err := user.ApplyPatch(&sess.Doc, patch); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (d Deps) notify(ctx context.Context, n notification.Notification) {
	if err := d.Notifier.Notify(ctx, n); err != nil {
		log.Warnf("Notify: %s for %s failed: %v", n.Type, n.UserID, err)
		d.Metrics.CounterNotifyFailures.Inc()
	}
}

// Services bundles every command service over one set of dependencies.
type Services struct {
	Achievements *AchievementService
	CheckIns     *CheckInService
	Foods        *FoodService
	Goals        *GoalService
	Stats        *StatsService
	Users        *UserService
	Photos       *PhotoService
	Export       *ExportService
}

func New(deps Deps) *Services {
	deps = deps.withDefaults()
	achievements := NewAchievementService(deps)
	return &Services{
		Achievements: achievements,
		CheckIns:     NewCheckInService(deps, achievements),
		Foods:        NewFoodService(deps, achievements),
		Goals:        NewGoalService(deps, achievements),
		Stats:        NewStatsService(deps),
		Users:        NewUserService(deps),
		Photos:       NewPhotoService(deps, achievements),
		Export:       NewExportService(deps),
	}
}
