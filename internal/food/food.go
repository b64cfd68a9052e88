package food

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"fitFlowAPI/internal/daykey"
)

var ErrInvalid = errors.New("invalid food")

type Meal string

const (
	MealBreakfast Meal = "breakfast"
	MealLunch     Meal = "lunch"
	MealDinner    Meal = "dinner"
	MealSnack     Meal = "snack"
)

var Meals = []Meal{MealBreakfast, MealLunch, MealDinner, MealSnack}

func ParseMeal(s string) (Meal, error) {
	if s == "" {
		return MealSnack, nil
	}
	for _, m := range Meals {
		if string(m) == strings.ToLower(s) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown meal %q", ErrInvalid, s)
}

type Macros struct {
	Calories float64 `json:"calories" firestore:"calories"`
	Protein  float64 `json:"protein" firestore:"protein"`
	Carbs    float64 `json:"carbs" firestore:"carbs"`
	Fat      float64 `json:"fat" firestore:"fat"`
}

func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Protein:  m.Protein + o.Protein,
		Carbs:    m.Carbs + o.Carbs,
		Fat:      m.Fat + o.Fat,
	}
}

type Food struct {
	Name string `json:"name" firestore:"name"`
	Macros
	Meal Meal `json:"meal,omitempty" firestore:"meal,omitempty"`
}

func (f Food) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if f.Calories <= 0 || math.IsNaN(f.Calories) || math.IsInf(f.Calories, 0) {
		return fmt.Errorf("%w: calories must be positive", ErrInvalid)
	}
	if f.Protein < 0 || f.Carbs < 0 || f.Fat < 0 {
		return fmt.Errorf("%w: macros cannot be negative", ErrInvalid)
	}
	return nil
}

// DayLog is the food list of one calendar day.
type DayLog struct {
	Date      daykey.Key `json:"date" firestore:"date"`
	Foods     []Food     `json:"foods" firestore:"foods"`
	UpdatedAt time.Time  `json:"updated_at" firestore:"updatedAt"`
}

func CountFoods(logs []DayLog) int {
	n := 0
	for _, l := range logs {
		n += len(l.Foods)
	}
	return n
}

type Targets struct {
	Calories float64 `json:"calories" firestore:"calories"`
	Protein  float64 `json:"protein" firestore:"protein"`
	Carbs    float64 `json:"carbs" firestore:"carbs"`
	Fat      float64 `json:"fat" firestore:"fat"`
}

var DefaultTargets = Targets{Calories: 2100, Protein: 150, Carbs: 240, Fat: 60}

// WithDefaults fills zero or negative fields from DefaultTargets.
func (t Targets) WithDefaults() Targets {
	if t.Calories <= 0 {
		t.Calories = DefaultTargets.Calories
	}
	if t.Protein <= 0 {
		t.Protein = DefaultTargets.Protein
	}
	if t.Carbs <= 0 {
		t.Carbs = DefaultTargets.Carbs
	}
	if t.Fat <= 0 {
		t.Fat = DefaultTargets.Fat
	}
	return t
}

const (
	GoalHitLowPercent  = 90
	GoalHitHighPercent = 105
)

type Summary struct {
	Totals            Macros           `json:"totals"`
	Targets           Targets          `json:"targets"`
	Count             int              `json:"count"`
	PerMeal           map[Meal]float64 `json:"calories_per_meal"`
	RemainingCalories float64          `json:"remaining_calories"`
	CaloriePercent    float64          `json:"calorie_percent"`
	CalorieGoalHit    bool             `json:"calorie_goal_hit"`
	Over              map[string]bool  `json:"over_target"`
}

func Summarize(foods []Food, targets Targets) Summary {
	targets = targets.WithDefaults()
	s := Summary{
		Targets: targets,
		Count:   len(foods),
		PerMeal: map[Meal]float64{MealBreakfast: 0, MealLunch: 0, MealDinner: 0, MealSnack: 0},
	}
	for _, f := range foods {
		s.Totals = s.Totals.Add(f.Macros)
		if _, ok := s.PerMeal[f.Meal]; ok {
			s.PerMeal[f.Meal] += f.Calories
		}
	}

	s.RemainingCalories = math.Max(targets.Calories-s.Totals.Calories, 0)
	s.CaloriePercent = s.Totals.Calories / targets.Calories * 100
	s.CalorieGoalHit = s.CaloriePercent >= GoalHitLowPercent && s.CaloriePercent <= GoalHitHighPercent
	s.Over = map[string]bool{
		"calories": s.Totals.Calories > targets.Calories,
		"protein":  s.Totals.Protein > targets.Protein,
		"carbs":    s.Totals.Carbs > targets.Carbs,
		"fat":      s.Totals.Fat > targets.Fat,
	}
	return s
}
