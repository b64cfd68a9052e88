package services

import (
	"context"
	"fmt"

	"fitFlowAPI/internal/achievement"
	"fitFlowAPI/internal/checkin"
	"fitFlowAPI/internal/food"
	"fitFlowAPI/internal/notification"
	"fitFlowAPI/internal/user"

	log "github.com/sirupsen/logrus"
)

type AchievementService struct {
	deps    Deps
	catalog []achievement.Achievement
}

func NewAchievementService(deps Deps) *AchievementService {
	return &AchievementService{deps: deps.withDefaults(), catalog: achievement.Catalog()}
}

// Metrics gathers the aggregate counts from the stored day records.
func (s *AchievementService) Metrics(ctx context.Context, sess *Session) (achievement.Metrics, error) {
	checkins, err := s.deps.Store.ScanDayStatuses(ctx, sess.UID)
	if err != nil {
		return achievement.Metrics{}, fmt.Errorf("scan check-ins: %w", err)
	}
	logs, err := s.deps.Store.ScanFoodLogs(ctx, sess.UID)
	if err != nil {
		return achievement.Metrics{}, fmt.Errorf("scan food logs: %w", err)
	}
	photos, err := s.deps.Store.ScanProgressPhotos(ctx, sess.UID)
	if err != nil {
		return achievement.Metrics{}, fmt.Errorf("scan photos: %w", err)
	}

	var current *float64
	if latest, ok := checkin.Latest(checkins); ok {
		current = latest.Weight
	}

	return achievement.Metrics{
		Streak:   sess.Doc.StreakCount,
		CheckIns: len(checkins),
		Foods:    food.CountFoods(logs),
		Weight:   checkin.CountWeighed(checkins),
		Photos:   len(photos),
		Goal:     achievement.GoalMetric(sess.Doc.GoalWeight, current),
		MyFoods:  len(sess.Doc.MyFoods),
	}, nil
}

// Evaluate recomputes the unlocked set for the session user, persists new
// unlocks and notifies about them.
func (s *AchievementService) Evaluate(ctx context.Context, sess *Session) (*achievement.Evaluation, error) {
	m, err := s.Metrics(ctx, sess)
	if err != nil {
		return nil, err
	}

	now := s.deps.Now().UTC()
	ev := achievement.Evaluate(s.catalog, m, sess.Doc.Achievements, now)
	if len(ev.Newly) == 0 {
		return &ev, nil
	}

	if err := s.deps.update(ctx, sess, "Achievements", user.Patch{user.FieldAchievements: ev.Unlocked}); err != nil {
		return nil, err
	}
	for _, a := range ev.Newly {
		s.deps.Metrics.CounterAchievements.WithLabelValues(a.ID).Inc()
		s.deps.notify(ctx, notification.AchievementNotification(sess.UID, a, now))
	}
	return &ev, nil
}

func (s *AchievementService) List(ctx context.Context, uid string) (*achievement.Evaluation, error) {
	sess, err := s.deps.LoadSession(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.Evaluate(ctx, sess)
}

// newly is Evaluate for commands, where a failed evaluation must not fail
// the command that already succeeded.
func (s *AchievementService) newly(ctx context.Context, sess *Session) []achievement.Achievement {
	ev, err := s.Evaluate(ctx, sess)
	if err != nil {
		log.Errorf("Achievements: evaluation for %s failed: %v", sess.UID, err)
		return nil
	}
	return ev.Newly
}
