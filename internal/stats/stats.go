package stats

import (
	"math"
	"sort"

	"fitFlowAPI/internal/checkin"
	"fitFlowAPI/internal/daykey"
	"fitFlowAPI/internal/food"
	"fitFlowAPI/internal/projection"
)

const WeekDays = 7

type WeeklyStats struct {
	From        daykey.Key `json:"from"`
	To          daykey.Key `json:"to"`
	CheckIns    int        `json:"check_ins"`
	Workouts    int        `json:"workouts"`
	AvgCalories int        `json:"avg_calories"`
	AvgWeight   *float64   `json:"avg_weight,omitempty"`
	GoalPercent int        `json:"goal_percent"`
}

// Weekly summarizes the trailing seven days ending today. Average calories
// only count days that have at least one food.
func Weekly(today daykey.Key, checkins []checkin.CheckIn, logs []food.DayLog) (WeeklyStats, error) {
	days, err := daykey.LastNDays(today, WeekDays)
	if err != nil {
		return WeeklyStats{}, err
	}
	inWeek := make(map[daykey.Key]bool, len(days))
	for _, d := range days {
		inWeek[d] = true
	}

	ws := WeeklyStats{From: days[len(days)-1], To: today}

	var weightSum float64
	var weighed int
	for _, c := range checkins {
		if !inWeek[c.Date] {
			continue
		}
		ws.CheckIns++
		if c.WorkoutDone {
			ws.Workouts++
		}
		if c.HasWeight() {
			weightSum += *c.Weight
			weighed++
		}
	}
	if weighed > 0 {
		avg := math.Round(weightSum/float64(weighed)*10) / 10
		ws.AvgWeight = &avg
	}

	var calSum float64
	var foodDays int
	for _, l := range logs {
		if !inWeek[l.Date] || len(l.Foods) == 0 {
			continue
		}
		for _, f := range l.Foods {
			calSum += f.Calories
		}
		foodDays++
	}
	if foodDays > 0 {
		ws.AvgCalories = int(math.Round(calSum / float64(foodDays)))
	}

	ws.GoalPercent = int(math.Round(float64(ws.CheckIns) / WeekDays * 100))
	return ws, nil
}

type WeightSeries struct {
	Points     []projection.Sample `json:"points"`
	GoalWeight *float64            `json:"goal_weight,omitempty"`
	Current    *float64            `json:"current,omitempty"`
}

// Series returns every weighted check-in sorted oldest first.
func Series(checkins []checkin.CheckIn, goal *float64) WeightSeries {
	ws := WeightSeries{Points: []projection.Sample{}, GoalWeight: goal}
	for _, c := range checkins {
		if c.HasWeight() {
			ws.Points = append(ws.Points, projection.Sample{Day: c.Date, Weight: *c.Weight})
		}
	}
	sort.SliceStable(ws.Points, func(i, j int) bool {
		return ws.Points[i].Day.Before(ws.Points[j].Day)
	})
	if n := len(ws.Points); n > 0 {
		cur := ws.Points[n-1].Weight
		ws.Current = &cur
	}
	return ws
}

// UserStats are the lifetime totals shown on the profile screen.
type UserStats struct {
	CurrentStreak     int `json:"current_streak"`
	TotalCheckIns     int `json:"total_check_ins"`
	TotalWorkouts     int `json:"total_workouts"`
	TotalFoods        int `json:"total_foods"`
	WeighIns          int `json:"weigh_ins"`
	Photos            int `json:"photos"`
	MyFoods           int `json:"my_foods"`
	AchievementsCount int `json:"achievements_count"`
}

func Totals(streak int, checkins []checkin.CheckIn, logs []food.DayLog, photos, myFoods, achievements int) UserStats {
	us := UserStats{
		CurrentStreak:     streak,
		TotalCheckIns:     len(checkins),
		TotalFoods:        food.CountFoods(logs),
		WeighIns:          checkin.CountWeighed(checkins),
		Photos:            photos,
		MyFoods:           myFoods,
		AchievementsCount: achievements,
	}
	for _, c := range checkins {
		if c.WorkoutDone {
			us.TotalWorkouts++
		}
	}
	return us
}
