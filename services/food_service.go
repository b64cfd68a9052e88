package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fitFlowAPI/internal/achievement"
	"fitFlowAPI/internal/daykey"
	"fitFlowAPI/internal/food"
	"fitFlowAPI/internal/store"
	"fitFlowAPI/internal/user"

	"github.com/google/uuid"
)

type FoodService struct {
	deps         Deps
	achievements *AchievementService
}

func NewFoodService(deps Deps, achievements *AchievementService) *FoodService {
	return &FoodService{deps: deps.withDefaults(), achievements: achievements}
}

type FoodRequest struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Meal     string  `json:"meal,omitempty"`
}

func (r FoodRequest) Food() (food.Food, error) {
	meal, err := food.ParseMeal(r.Meal)
	if err != nil {
		return food.Food{}, invalid(err)
	}
	f := food.Food{
		Name:   strings.TrimSpace(r.Name),
		Macros: food.Macros{Calories: r.Calories, Protein: r.Protein, Carbs: r.Carbs, Fat: r.Fat},
		Meal:   meal,
	}
	if err := f.Validate(); err != nil {
		return food.Food{}, invalid(err)
	}
	return f, nil
}

type DayFoods struct {
	Date            daykey.Key                `json:"date"`
	Foods           []food.Food               `json:"foods"`
	Summary         food.Summary              `json:"summary"`
	NewAchievements []achievement.Achievement `json:"new_achievements,omitempty"`
	SavedLocally    bool                      `json:"saved_locally,omitempty"`
}

func (s *FoodService) load(ctx context.Context, sess *Session, day daykey.Key) (food.DayLog, error) {
	l, err := s.deps.Store.GetFoodLog(ctx, sess.UID, day)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return food.DayLog{Date: day, Foods: []food.Food{}}, nil
	case err != nil:
		return food.DayLog{}, fmt.Errorf("get food log %s: %w", day, err)
	}
	l.Date = day
	return *l, nil
}

func (s *FoodService) save(ctx context.Context, sess *Session, l food.DayLog) (*DayFoods, error) {
	l.UpdatedAt = s.deps.Now().UTC()
	if err := s.deps.saved(sess, "FoodLog", s.deps.Store.SetFoodLog(ctx, sess.UID, l)); err != nil {
		return nil, err
	}
	return s.dayFoods(sess, l), nil
}

func (s *FoodService) dayFoods(sess *Session, l food.DayLog) *DayFoods {
	if l.Foods == nil {
		l.Foods = []food.Food{}
	}
	return &DayFoods{
		Date:         l.Date,
		Foods:        l.Foods,
		Summary:      food.Summarize(l.Foods, sess.Doc.TargetsOrDefault()),
		SavedLocally: sess.SavedLocally,
	}
}

// Day returns the food log of day, today when day is empty.
func (s *FoodService) Day(ctx context.Context, uid string, day daykey.Key) (*DayFoods, error) {
	sess, err := s.deps.LoadSession(ctx, uid)
	if err != nil {
		return nil, err
	}
	if day == "" {
		day = sess.Today
	}
	if !day.Valid() {
		return nil, fmt.Errorf("%w: bad date %q", ErrInvalidInput, day)
	}
	l, err := s.load(ctx, sess, day)
	if err != nil {
		return nil, err
	}
	return s.dayFoods(sess, l), nil
}

func (s *FoodService) Add(ctx context.Context, uid string, req FoodRequest) (*DayFoods, error) {
	f, err := req.Food()
	if err != nil {
		return nil, err
	}
	sess, err := s.deps.LoadSession(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.add(ctx, sess, f)
}

func (s *FoodService) add(ctx context.Context, sess *Session, f food.Food) (*DayFoods, error) {
	l, err := s.load(ctx, sess, sess.Today)
	if err != nil {
		return nil, err
	}
	l.Foods = append(l.Foods, f)

	out, err := s.save(ctx, sess, l)
	if err != nil {
		return nil, err
	}
	s.deps.Metrics.CounterFoodsLogged.Inc()

	recent := food.PushRecent(sess.Doc.RecentFoods, f)
	if err := s.deps.update(ctx, sess, "RecentFoods", user.Patch{user.FieldRecentFoods: recent}); err != nil {
		return nil, err
	}

	out.NewAchievements = s.achievements.newly(ctx, sess)
	out.SavedLocally = sess.SavedLocally
	return out, nil
}

func checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return fmt.Errorf("%w: no food at index %d", ErrInvalidInput, i)
	}
	return nil
}

// Edit replaces today's food at index.
func (s *FoodService) Edit(ctx context.Context, uid string, index int, req FoodRequest) (*DayFoods, error) {
	f, err := req.Food()
	if err != nil {
		return nil, err
	}
	sess, err := s.deps.LoadSession(ctx, uid)
	if err != nil {
		return nil, err
	}
	l, err := s.load(ctx, sess, sess.Today)
	if err != nil {
		return nil, err
	}
	if err := checkIndex(index, len(l.Foods)); err != nil {
		return nil, err
	}
	l.Foods[index] = f
	return s.save(ctx, sess, l)
}

type RemovedFood struct {
	Removed food.Food `json:"removed"`
	Index   int       `json:"index"`
	*DayFoods
}

// Remove deletes today's food at index and returns it so it can be restored.
func (s *FoodService) Remove(ctx context.Context, uid string, index int) (*RemovedFood, error) {
	sess, err := s.deps.LoadSession(ctx, uid)
	if err != nil {
		return nil, err
	}
	l, err := s.load(ctx, sess, sess.Today)
	if err != nil {
		return nil, err
	}
	if err := checkIndex(index, len(l.Foods)); err != nil {
		return nil, err
	}
	removed := l.Foods[index]
	l.Foods = append(l.Foods[:index:index], l.Foods[index+1:]...)

	out, err := s.save(ctx, sess, l)
	if err != nil {
		return nil, err
	}
	return &RemovedFood{Removed: removed, Index: index, DayFoods: out}, nil
}

// Restore puts a removed food back at index, or at the end when the list
// has shrunk since.
func (s *FoodService) Restore(ctx context.Context, uid string, index int, req FoodRequest) (*DayFoods, error) {
	f, err := req.Food()
	if err != nil {
		return nil, err
	}
	if index < 0 {
		return nil, fmt.Errorf("%w: negative index", ErrInvalidInput)
	}
	sess, err := s.deps.LoadSession(ctx, uid)
	if err != nil {
		return nil, err
	}
	l, err := s.load(ctx, sess, sess.Today)
	if err != nil {
		return nil, err
	}
	if index > len(l.Foods) {
		index = len(l.Foods)
	}
	l.Foods = append(l.Foods[:index], append([]food.Food{f}, l.Foods[index:]...)...)
	return s.save(ctx, sess, l)
}

func (s *FoodService) Recent(ctx context.Context, uid string) ([]food.RecentFood, error) {
	sess, err := s.deps.LoadSession(ctx, uid)
	if err != nil {
		return nil, err
	}
	if sess.Doc.RecentFoods == nil {
		return []food.RecentFood{}, nil
	}
	return sess.Doc.RecentFoods, nil
}

func (s *FoodService) MyFoods(ctx context.Context, uid string) ([]food.MyFood, error) {
	sess, err := s.deps.LoadSession(ctx, uid)
	if err != nil {
		return nil, err
	}
	if sess.Doc.MyFoods == nil {
		return []food.MyFood{}, nil
	}
	return sess.Doc.MyFoods, nil
}

type SavedMyFood struct {
	Food            food.MyFood               `json:"food"`
	NewAchievements []achievement.Achievement `json:"new_achievements,omitempty"`
	SavedLocally    bool                      `json:"saved_locally,omitempty"`
}

func (s *FoodService) SaveMyFood(ctx context.Context, uid string, req FoodRequest) (*SavedMyFood, error) {
	f, err := req.Food()
	if err != nil {
		return nil, err
	}
	mf, err := food.NewMyFood(uuid.NewString(), f)
	if err != nil {
		return nil, invalid(err)
	}
	sess, err := s.deps.LoadSession(ctx, uid)
	if err != nil {
		return nil, err
	}

	list := append(append([]food.MyFood(nil), sess.Doc.MyFoods...), mf)
	if err := s.deps.update(ctx, sess, "MyFoods", user.Patch{user.FieldMyFoods: list}); err != nil {
		return nil, err
	}
	return &SavedMyFood{
		Food:            mf,
		NewAchievements: s.achievements.newly(ctx, sess),
		SavedLocally:    sess.SavedLocally,
	}, nil
}

func (s *FoodService) DeleteMyFood(ctx context.Context, uid, id string) error {
	sess, err := s.deps.LoadSession(ctx, uid)
	if err != nil {
		return err
	}
	_, i, ok := food.FindMyFood(sess.Doc.MyFoods, id)
	if !ok {
		return fmt.Errorf("my food %s: %w", id, store.ErrNotFound)
	}
	list := append(append([]food.MyFood(nil), sess.Doc.MyFoods[:i]...), sess.Doc.MyFoods[i+1:]...)
	return s.deps.update(ctx, sess, "MyFoods", user.Patch{user.FieldMyFoods: list})
}

// AddMyFood logs a saved food into today's log.
func (s *FoodService) AddMyFood(ctx context.Context, uid, id, meal string) (*DayFoods, error) {
	m, err := food.ParseMeal(meal)
	if err != nil {
		return nil, invalid(err)
	}
	sess, err := s.deps.LoadSession(ctx, uid)
	if err != nil {
		return nil, err
	}
	mf, _, ok := food.FindMyFood(sess.Doc.MyFoods, id)
	if !ok {
		return nil, fmt.Errorf("my food %s: %w", id, store.ErrNotFound)
	}
	return s.add(ctx, sess, mf.ToFood(m))
}

func (s *FoodService) Targets(ctx context.Context, uid string) (food.Targets, error) {
	sess, err := s.deps.LoadSession(ctx, uid)
	if err != nil {
		return food.Targets{}, err
	}
	return sess.Doc.TargetsOrDefault(), nil
}

func (s *FoodService) SetTargets(ctx context.Context, uid string, t food.Targets) (food.Targets, error) {
	if t.Calories < 0 || t.Protein < 0 || t.Carbs < 0 || t.Fat < 0 {
		return food.Targets{}, fmt.Errorf("%w: targets cannot be negative", ErrInvalidInput)
	}
	sess, err := s.deps.LoadSession(ctx, uid)
	if err != nil {
		return food.Targets{}, err
	}
	t = t.WithDefaults()
	if err := s.deps.update(ctx, sess, "Targets", user.Patch{user.FieldTargets: &t}); err != nil {
		return food.Targets{}, err
	}
	return t, nil
}
