package services

import (
	"context"
	"fmt"

	"fitFlowAPI/internal/achievement"
	"fitFlowAPI/internal/checkin"
	"fitFlowAPI/internal/goalweight"
	"fitFlowAPI/internal/projection"
	"fitFlowAPI/internal/stats"
	"fitFlowAPI/internal/user"

	log "github.com/sirupsen/logrus"
)

type GoalService struct {
	deps         Deps
	achievements *AchievementService
}

func NewGoalService(deps Deps, achievements *AchievementService) *GoalService {
	return &GoalService{deps: deps.withDefaults(), achievements: achievements}
}

type GoalView struct {
	GoalWeight      *float64                  `json:"goal_weight,omitempty"`
	StartingWeight  *float64                  `json:"starting_weight,omitempty"`
	CurrentWeight   *float64                  `json:"current_weight,omitempty"`
	Progress        goalweight.Progress       `json:"progress"`
	Restarted       bool                      `json:"restarted,omitempty"`
	NewAchievements []achievement.Achievement `json:"new_achievements,omitempty"`
}

func (s *GoalService) checkins(ctx context.Context, uid string) ([]checkin.CheckIn, error) {
	list, err := s.deps.Store.ScanDayStatuses(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("scan check-ins: %w", err)
	}
	return list, nil
}

func currentWeight(checkins []checkin.CheckIn) *float64 {
	if latest, ok := checkin.Latest(checkins); ok {
		w := *latest.Weight
		return &w
	}
	return nil
}

func (s *GoalService) view(sess *Session, current *float64) *GoalView {
	return &GoalView{
		GoalWeight:     sess.Doc.GoalWeight,
		StartingWeight: sess.Doc.StartingWeight,
		CurrentWeight:  current,
		Progress:       goalweight.Calculate(sess.Doc.StartingWeight, current, sess.Doc.GoalWeight),
	}
}

func (s *GoalService) Goal(ctx context.Context, uid string) (*GoalView, error) {
	sess, err := s.deps.LoadSession(ctx, uid)
	if err != nil {
		return nil, err
	}
	checkins, err := s.checkins(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.view(sess, currentWeight(checkins)), nil
}

// SetGoal stores a new goal weight. The starting weight is retaken when the
// goal moves by more than goalweight.GoalChangeThreshold.
func (s *GoalService) SetGoal(ctx context.Context, uid string, goal float64) (*GoalView, error) {
	sess, err := s.deps.LoadSession(ctx, uid)
	if err != nil {
		return nil, err
	}
	checkins, err := s.checkins(ctx, uid)
	if err != nil {
		return nil, err
	}
	current := currentWeight(checkins)

	g, starting, restarted, err := goalweight.ApplyGoal(sess.Doc.GoalWeight, sess.Doc.StartingWeight, goal, current)
	if err != nil {
		return nil, invalid(err)
	}
	patch := user.Patch{user.FieldGoalWeight: g, user.FieldStartingWeight: starting}
	if err := s.deps.update(ctx, sess, "Goal", patch); err != nil {
		return nil, err
	}
	if restarted {
		log.Debugf("Goal: new goal episode for %s, starting weight %.1f", uid, starting)
	}

	v := s.view(sess, current)
	v.Restarted = restarted
	v.NewAchievements = s.achievements.newly(ctx, sess)
	return v, nil
}

// Prediction projects the goal date from the trailing two weeks of weigh-ins.
func (s *GoalService) Prediction(ctx context.Context, uid string) (*projection.Result, error) {
	sess, err := s.deps.LoadSession(ctx, uid)
	if err != nil {
		return nil, err
	}
	if sess.Doc.GoalWeight == nil {
		return nil, fmt.Errorf("%w: set a goal weight first", ErrInvalidInput)
	}
	checkins, err := s.checkins(ctx, uid)
	if err != nil {
		return nil, err
	}

	var samples []projection.Sample
	for _, c := range checkins {
		if c.HasWeight() {
			samples = append(samples, projection.Sample{Day: c.Date, Weight: *c.Weight})
		}
	}
	res, err := projection.Project(projection.Window(samples, sess.Today), *sess.Doc.GoalWeight, sess.Today)
	if err != nil {
		return nil, invalid(err)
	}
	return res, nil
}

func (s *GoalService) Series(ctx context.Context, uid string) (*stats.WeightSeries, error) {
	sess, err := s.deps.LoadSession(ctx, uid)
	if err != nil {
		return nil, err
	}
	checkins, err := s.checkins(ctx, uid)
	if err != nil {
		return nil, err
	}
	ws := stats.Series(checkins, sess.Doc.GoalWeight)
	return &ws, nil
}

type StatsService struct {
	deps Deps
}

func NewStatsService(deps Deps) *StatsService {
	return &StatsService{deps: deps.withDefaults()}
}

func (s *StatsService) Weekly(ctx context.Context, uid string) (*stats.WeeklyStats, error) {
	today := s.deps.today()
	checkins, err := s.deps.Store.ScanDayStatuses(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("scan check-ins: %w", err)
	}
	logs, err := s.deps.Store.ScanFoodLogs(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("scan food logs: %w", err)
	}
	ws, err := stats.Weekly(today, checkins, logs)
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

func (s *StatsService) Totals(ctx context.Context, uid string) (*stats.UserStats, error) {
	sess, err := s.deps.LoadSession(ctx, uid)
	if err != nil {
		return nil, err
	}
	checkins, err := s.deps.Store.ScanDayStatuses(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("scan check-ins: %w", err)
	}
	logs, err := s.deps.Store.ScanFoodLogs(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("scan food logs: %w", err)
	}
	photos, err := s.deps.Store.ScanProgressPhotos(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("scan photos: %w", err)
	}
	us := stats.Totals(sess.Doc.StreakCount, checkins, logs, len(photos), len(sess.Doc.MyFoods), len(sess.Doc.Achievements))
	return &us, nil
}
