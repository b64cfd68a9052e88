package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"fitFlowAPI/internal/achievement"
	"fitFlowAPI/internal/checkin"
	"fitFlowAPI/internal/daykey"
	"fitFlowAPI/internal/food"
	"fitFlowAPI/internal/notification"
	"fitFlowAPI/internal/store"
	"fitFlowAPI/internal/streak"
	"fitFlowAPI/internal/user"

	log "github.com/sirupsen/logrus"
)

type CheckInService struct {
	deps         Deps
	achievements *AchievementService
}

func NewCheckInService(deps Deps, achievements *AchievementService) *CheckInService {
	return &CheckInService{deps: deps.withDefaults(), achievements: achievements}
}

type CheckInRequest struct {
	Weight      *float64 `json:"weight,omitempty"`
	WorkoutDone bool     `json:"workout_done"`
	Notes       string   `json:"notes,omitempty"`
}

type CheckInResult struct {
	CheckIn         checkin.CheckIn           `json:"check_in"`
	Streak          streak.Result             `json:"streak"`
	NewAchievements []achievement.Achievement `json:"new_achievements"`
	SavedLocally    bool                      `json:"saved_locally"`
}

// CheckIn records today's status and advances the streak.
func (s *CheckInService) CheckIn(ctx context.Context, uid string, req CheckInRequest) (*CheckInResult, error) {
	sess, err := s.deps.LoadSession(ctx, uid)
	if err != nil {
		return nil, err
	}

	existing, err := s.deps.Store.GetDayStatus(ctx, uid, sess.Today)
	switch {
	case err == nil:
		// a day record without the streak update behind it is from a failed
		// attempt; finish that attempt instead of refusing the retry
		if !sess.Doc.LastCheckIn.Before(sess.Today) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyCheckedIn, sess.Today)
		}
		log.Infof("CheckIn: resuming unfinished check-in of %s on %s", uid, sess.Today)
		return s.finish(ctx, sess, *existing)
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("check existing check-in: %w", err)
	}

	c := checkin.CheckIn{
		Date:        sess.Today,
		Weight:      req.Weight,
		WorkoutDone: req.WorkoutDone,
		Notes:       req.Notes,
		CreatedAt:   s.deps.Now().UTC(),
	}.Normalize()
	if err := c.Validate(); err != nil {
		return nil, invalid(err)
	}

	if err := s.deps.saved(sess, "CheckIn", s.deps.Store.SetDayStatus(ctx, uid, c)); err != nil {
		return nil, err
	}
	return s.finish(ctx, sess, c)
}

// finish advances the streak for a day record that is already stored.
func (s *CheckInService) finish(ctx context.Context, sess *Session, c checkin.CheckIn) (*CheckInResult, error) {
	res, err := s.advance(ctx, sess)
	if err != nil {
		return nil, err
	}

	return &CheckInResult{
		CheckIn:         c,
		Streak:          res,
		NewAchievements: s.achievements.newly(ctx, sess),
		SavedLocally:    sess.SavedLocally,
	}, nil
}

// currentWeek clears a week visual left over from an earlier week.
func (s *CheckInService) currentWeek(state streak.State, today daykey.Key) streak.State {
	if state.LastCheckIn == nil {
		return state
	}
	same, err := daykey.SameWeek(*state.LastCheckIn, today)
	if err == nil && !same {
		return streak.ResetWeek(state)
	}
	return state
}

func (s *CheckInService) advance(ctx context.Context, sess *Session) (streak.Result, error) {
	state := s.currentWeek(sess.Doc.Streak(), sess.Today)

	res, err := s.deps.Streak.Advance(state, sess.Today)
	if err != nil {
		return streak.Result{}, err
	}
	s.deps.Metrics.CounterCheckIns.WithLabelValues(string(res.Outcome)).Inc()

	if res.Anomaly() {
		log.Warnf("CheckIn: %s checked in on %s before last check-in %s, streak left as is",
			sess.UID, sess.Today, sess.Doc.LastCheckIn)
		s.deps.Metrics.CounterDataAnomalies.WithLabelValues(user.FieldLastCheckIn).Inc()
		return res, nil
	}

	if err := s.deps.update(ctx, sess, "CheckIn", user.StreakPatch(res.State)); err != nil {
		return streak.Result{}, err
	}

	if res.Milestone > 0 {
		s.deps.Metrics.CounterMilestones.WithLabelValues(strconv.Itoa(res.Milestone)).Inc()
		s.deps.notify(ctx, notification.MilestoneNotification(sess.UID, res.Milestone, s.deps.Now().UTC()))
	}
	return res, nil
}

type StreakView struct {
	Count          int        `json:"count"`
	LastCheckIn    daykey.Key `json:"last_check_in,omitempty"`
	CheckedInToday bool       `json:"checked_in_today"`
	Week           [7]bool    `json:"week"`
	Milestones     []int      `json:"milestones"`
	Reached        []int      `json:"reached"`
	NextMilestone  int        `json:"next_milestone,omitempty"`
}

func (s *CheckInService) view(sess *Session) StreakView {
	state := s.currentWeek(sess.Doc.Streak(), sess.Today)
	v := StreakView{
		Count:          state.Count,
		LastCheckIn:    sess.Doc.LastCheckIn,
		CheckedInToday: sess.Doc.LastCheckIn == sess.Today,
		Week:           state.WeekVisual.Days(),
		Milestones:     s.deps.Streak.Milestones(),
		Reached:        s.deps.Streak.ReachedMilestones(state.Count),
	}
	for _, m := range v.Milestones {
		if m > state.Count {
			v.NextMilestone = m
			break
		}
	}
	return v
}

func (s *CheckInService) Streak(ctx context.Context, uid string) (*StreakView, error) {
	sess, err := s.deps.LoadSession(ctx, uid)
	if err != nil {
		return nil, err
	}
	v := s.view(sess)
	return &v, nil
}

func (s *CheckInService) ResetStreak(ctx context.Context, uid string) (*StreakView, error) {
	sess, err := s.deps.LoadSession(ctx, uid)
	if err != nil {
		return nil, err
	}
	if err := s.deps.update(ctx, sess, "ResetStreak", user.StreakPatch(streak.Reset(sess.Doc.Streak()))); err != nil {
		return nil, err
	}
	log.Infof("CheckIn: streak reset for %s", uid)
	v := s.view(sess)
	return &v, nil
}

func (s *CheckInService) ResetWeek(ctx context.Context, uid string) (*StreakView, error) {
	sess, err := s.deps.LoadSession(ctx, uid)
	if err != nil {
		return nil, err
	}
	patch := user.Patch{user.FieldWeekVisual: map[string]bool{}}
	if err := s.deps.update(ctx, sess, "ResetWeek", patch); err != nil {
		return nil, err
	}
	v := s.view(sess)
	return &v, nil
}

type HistoryDay struct {
	Date    daykey.Key       `json:"date"`
	CheckIn *checkin.CheckIn `json:"check_in,omitempty"`
	Foods   []food.Food      `json:"foods"`
	Summary food.Summary     `json:"summary"`
}

// History returns the status and food log of any day.
func (s *CheckInService) History(ctx context.Context, uid string, day daykey.Key) (*HistoryDay, error) {
	if !day.Valid() {
		return nil, fmt.Errorf("%w: bad date %q", ErrInvalidInput, day)
	}
	sess, err := s.deps.LoadSession(ctx, uid)
	if err != nil {
		return nil, err
	}

	h := &HistoryDay{Date: day, Foods: []food.Food{}}
	c, err := s.deps.Store.GetDayStatus(ctx, uid, day)
	switch {
	case err == nil:
		h.CheckIn = c
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("get check-in %s: %w", day, err)
	}

	l, err := s.deps.Store.GetFoodLog(ctx, uid, day)
	switch {
	case err == nil:
		h.Foods = l.Foods
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("get food log %s: %w", day, err)
	}
	h.Summary = food.Summarize(h.Foods, sess.Doc.TargetsOrDefault())
	return h, nil
}

// DeleteCheckIn removes a day record. The streak is not recomputed.
func (s *CheckInService) DeleteCheckIn(ctx context.Context, uid string, day daykey.Key) error {
	if !day.Valid() {
		return fmt.Errorf("%w: bad date %q", ErrInvalidInput, day)
	}
	if err := s.deps.Store.DeleteDayStatus(ctx, uid, day); err != nil {
		return fmt.Errorf("delete check-in %s: %w", day, err)
	}
	log.Infof("CheckIn: deleted %s for %s", day, uid)
	return nil
}

// ResetAllWeeks clears the week visual of every user. Failures for one user
// are logged and skipped.
func (s *CheckInService) ResetAllWeeks(ctx context.Context) (int, error) {
	ids, err := s.deps.Store.ListUserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}
	reset := 0
	for _, uid := range ids {
		if ctx.Err() != nil {
			return reset, ctx.Err()
		}
		opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		_, err := s.ResetWeek(opCtx, uid)
		cancel()
		if err != nil {
			log.Errorf("WeeklyReset: %s: %v", uid, err)
			continue
		}
		reset++
		s.deps.Metrics.CounterWeeklyResets.Inc()
	}
	return reset, nil
}
