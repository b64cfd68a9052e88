package achievement

import (
	"math"
	"time"
)

type Metric string

const (
	MetricStreak   Metric = "streak"
	MetricCheckIns Metric = "checkins"
	MetricFoods    Metric = "foods"
	MetricWeight   Metric = "weight"
	MetricPhotos   Metric = "photos"
	MetricGoal     Metric = "goal"
	MetricMyFoods  Metric = "myfoods"
)

type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
	TierDiamond  Tier = "diamond"
)

// GoalTolerance is how close (kg) the current weight must be to the goal for
// the goal metric to count as reached.
const GoalTolerance = 0.5

type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Tier        Tier   `json:"tier"`
	Metric      Metric `json:"metric"`
	Target      int    `json:"target"`
}

type Unlock struct {
	AchievementID string    `json:"achievement_id" firestore:"-"`
	UnlockedAt    time.Time `json:"unlocked_at" firestore:"unlockedAt"`
}

type AchievementWithStatus struct {
	Achievement
	Current         int        `json:"current"`
	ProgressPercent float64    `json:"progress_percent"`
	Unlocked        bool       `json:"unlocked"`
	UnlockedAt      *time.Time `json:"unlocked_at,omitempty"`
}

var catalog = []Achievement{
	{ID: "streak_3", Name: "Getting Started", Description: "3 day streak", Icon: "flame", Tier: TierBronze, Metric: MetricStreak, Target: 3},
	{ID: "streak_7", Name: "One Week Strong", Description: "7 day streak", Icon: "flame", Tier: TierSilver, Metric: MetricStreak, Target: 7},
	{ID: "streak_14", Name: "Committed", Description: "14 day streak", Icon: "flame", Tier: TierGold, Metric: MetricStreak, Target: 14},
	{ID: "streak_30", Name: "Unstoppable", Description: "30 day streak", Icon: "flame", Tier: TierPlatinum, Metric: MetricStreak, Target: 30},
	{ID: "streak_100", Name: "Legend", Description: "100 day streak", Icon: "flame", Tier: TierDiamond, Metric: MetricStreak, Target: 100},

	{ID: "checkins_10", Name: "Consistency", Description: "10 total check-ins", Icon: "clipboard-check", Tier: TierBronze, Metric: MetricCheckIns, Target: 10},
	{ID: "checkins_50", Name: "Dedicated", Description: "50 total check-ins", Icon: "clipboard-check", Tier: TierSilver, Metric: MetricCheckIns, Target: 50},
	{ID: "checkins_100", Name: "Centurion", Description: "100 total check-ins", Icon: "clipboard-check", Tier: TierGold, Metric: MetricCheckIns, Target: 100},

	{ID: "foods_50", Name: "Tracker", Description: "Log 50 foods", Icon: "utensils", Tier: TierBronze, Metric: MetricFoods, Target: 50},
	{ID: "foods_200", Name: "Nutrition Nerd", Description: "Log 200 foods", Icon: "utensils", Tier: TierSilver, Metric: MetricFoods, Target: 200},
	{ID: "foods_500", Name: "Macro Master", Description: "Log 500 foods", Icon: "utensils", Tier: TierGold, Metric: MetricFoods, Target: 500},

	{ID: "weight_5", Name: "First Steps", Description: "5 weight entries", Icon: "scale", Tier: TierBronze, Metric: MetricWeight, Target: 5},
	{ID: "weight_20", Name: "Tracking Pro", Description: "20 weight entries", Icon: "scale", Tier: TierSilver, Metric: MetricWeight, Target: 20},

	{ID: "photos_1", Name: "Snapshot", Description: "First progress photo", Icon: "camera", Tier: TierBronze, Metric: MetricPhotos, Target: 1},
	{ID: "photos_5", Name: "Transformation", Description: "5 progress photos", Icon: "camera", Tier: TierSilver, Metric: MetricPhotos, Target: 5},

	{ID: "goal_reached", Name: "Goal Crusher", Description: "Reach goal weight", Icon: "trophy", Tier: TierDiamond, Metric: MetricGoal, Target: 1},
	{ID: "my_foods_10", Name: "Meal Prepper", Description: "Save 10 foods", Icon: "bookmark", Tier: TierBronze, Metric: MetricMyFoods, Target: 10},
}

// Catalog returns a copy of the static achievement list in display order.
func Catalog() []Achievement {
	return append([]Achievement(nil), catalog...)
}

func Find(id string) (Achievement, bool) {
	for _, a := range catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// Metrics are the aggregate counts achievements are evaluated against.
type Metrics struct {
	Streak   int `json:"streak"`
	CheckIns int `json:"checkins"`
	Foods    int `json:"foods"`
	Weight   int `json:"weight"`
	Photos   int `json:"photos"`
	Goal     int `json:"goal"`
	MyFoods  int `json:"myfoods"`
}

func (m Metrics) Value(metric Metric) int {
	switch metric {
	case MetricStreak:
		return m.Streak
	case MetricCheckIns:
		return m.CheckIns
	case MetricFoods:
		return m.Foods
	case MetricWeight:
		return m.Weight
	case MetricPhotos:
		return m.Photos
	case MetricGoal:
		return m.Goal
	case MetricMyFoods:
		return m.MyFoods
	}
	return 0
}

// GoalMetric is 1 when both weights are known and current is within
// GoalTolerance of the goal.
func GoalMetric(goal, current *float64) int {
	if goal == nil || current == nil || *goal <= 0 || *current <= 0 {
		return 0
	}
	if math.Abs(*current-*goal) < GoalTolerance {
		return 1
	}
	return 0
}

type Evaluation struct {
	// Unlocked is the full unlocked set after evaluation, prior unlocks included.
	Unlocked map[string]Unlock       `json:"unlocked"`
	Newly    []Achievement           `json:"newly_unlocked"`
	Statuses []AchievementWithStatus `json:"achievements"`
}

// Evaluate computes which achievements the metrics satisfy. Prior unlocks are
// kept even when their metric has since dropped, and an already unlocked id
// is never reported as new.
func Evaluate(achievements []Achievement, metrics Metrics, prior map[string]Unlock, now time.Time) Evaluation {
	ev := Evaluation{
		Unlocked: make(map[string]Unlock, len(prior)),
		Statuses: make([]AchievementWithStatus, 0, len(achievements)),
	}
	for id, u := range prior {
		u.AchievementID = id
		ev.Unlocked[id] = u
	}

	for _, a := range achievements {
		current := metrics.Value(a.Metric)
		status := AchievementWithStatus{
			Achievement:     a,
			Current:         current,
			ProgressPercent: ProgressPercent(current, a.Target),
		}

		u, had := ev.Unlocked[a.ID]
		if !had && a.Target > 0 && current >= a.Target {
			u = Unlock{AchievementID: a.ID, UnlockedAt: now}
			ev.Unlocked[a.ID] = u
			ev.Newly = append(ev.Newly, a)
			had = true
		}
		if had {
			at := u.UnlockedAt
			status.Unlocked = true
			status.UnlockedAt = &at
			status.ProgressPercent = 100
		}
		ev.Statuses = append(ev.Statuses, status)
	}
	return ev
}

func ProgressPercent(current, target int) float64 {
	if target <= 0 || current <= 0 {
		return 0
	}
	return math.Min(float64(current)/float64(target)*100, 100)
}

// UnlockedCount counts statuses shown as unlocked.
func (e Evaluation) UnlockedCount() int {
	n := 0
	for _, s := range e.Statuses {
		if s.Unlocked {
			n++
		}
	}
	return n
}
