package projection

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"fitFlowAPI/internal/daykey"
)

const (
	MinSamples      = 3
	WindowDays      = 14
	AtGoalTolerance = 0.5  // kg
	MinDailyChange  = 0.01 // kg/day
	MaxWeeksToGoal  = 104
	FastWeeklyRate  = 1.0 // kg/week
	SlowWeeklyRate  = 0.2 // kg/week
)

var ErrInvalidInput = errors.New("invalid projection input")

type Sample struct {
	Day    daykey.Key `json:"day"`
	Weight float64    `json:"weight"`
}

type Status string

const (
	StatusInsufficientData Status = "insufficient_data"
	StatusAlreadyAtGoal    Status = "already_at_goal"
	StatusWrongDirection   Status = "wrong_direction"
	StatusNearZeroRate     Status = "near_zero_rate"
	StatusFarAway          Status = "far_away"
	StatusOnTrack          Status = "on_track"
)

type Direction string

const (
	DirectionLose Direction = "lose"
	DirectionGain Direction = "gain"
)

type Caution string

const (
	CautionNone          Caution = ""
	CautionTooFast       Caution = "faster_than_recommended"
	CautionSlowButSteady Caution = "slow_but_steady"
)

type Result struct {
	Status      Status      `json:"status"`
	Direction   Direction   `json:"direction,omitempty"`
	DailyChange float64     `json:"daily_change_kg"`
	WeeklyRate  float64     `json:"weekly_rate_kg"`
	WeightToGo  float64     `json:"weight_to_go_kg"`
	DaysToGoal  float64     `json:"days_to_goal,omitempty"`
	WeeksToGoal int         `json:"weeks_to_goal,omitempty"`
	ETA         *daykey.Key `json:"eta,omitempty"`
	Caution     Caution     `json:"caution,omitempty"`
	SamplesUsed int         `json:"samples_used"`
	SpanDays    int         `json:"span_days"`
}

// Project extrapolates the weight trend to the goal using the slope between
// the first and last samples. This is deliberately not a regression fit.
func Project(samples []Sample, goal float64, today daykey.Key) (*Result, error) {
	if goal <= 0 {
		return nil, fmt.Errorf("%w: goal weight must be positive", ErrInvalidInput)
	}
	for _, s := range samples {
		if s.Weight <= 0 {
			return nil, fmt.Errorf("%w: non-positive weight on %s", ErrInvalidInput, s.Day)
		}
	}

	res := &Result{SamplesUsed: len(samples)}
	if len(samples) < MinSamples {
		res.Status = StatusInsufficientData
		return res, nil
	}

	sorted := append([]Sample(nil), samples...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Day.Before(sorted[j].Day)
	})
	first, last := sorted[0], sorted[len(sorted)-1]

	span, err := daykey.DaysBetween(first.Day, last.Day)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	res.SpanDays = span
	if span < 1 {
		res.Status = StatusInsufficientData
		return res, nil
	}

	delta := last.Weight - first.Weight
	daysDiff := float64(span)
	res.DailyChange = delta / daysDiff
	res.WeeklyRate = delta * 7 / daysDiff

	res.WeightToGo = last.Weight - goal
	if math.Abs(res.WeightToGo) < AtGoalTolerance {
		res.Status = StatusAlreadyAtGoal
		return res, nil
	}

	res.Direction = DirectionGain
	if res.WeightToGo > 0 {
		res.Direction = DirectionLose
	}

	if math.Abs(res.DailyChange) < MinDailyChange {
		res.Status = StatusNearZeroRate
		return res, nil
	}
	movingRight := (res.Direction == DirectionLose && res.DailyChange < 0) ||
		(res.Direction == DirectionGain && res.DailyChange > 0)
	if !movingRight {
		res.Status = StatusWrongDirection
		return res, nil
	}

	res.DaysToGoal = math.Abs(res.WeightToGo * daysDiff / delta)
	res.WeeksToGoal = int(math.Round(res.DaysToGoal / 7))

	if res.WeeksToGoal > MaxWeeksToGoal {
		res.Status = StatusFarAway
		return res, nil
	}

	eta, err := today.AddDays(int(math.Round(res.DaysToGoal)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	res.ETA = &eta
	res.Status = StatusOnTrack

	switch weekly := math.Abs(res.WeeklyRate); {
	case weekly > FastWeeklyRate:
		res.Caution = CautionTooFast
	case weekly < SlowWeeklyRate:
		res.Caution = CautionSlowButSteady
	}

	return res, nil
}

// Window filters samples down to the trailing WindowDays calendar days ending today.
func Window(samples []Sample, today daykey.Key) []Sample {
	var out []Sample
	for _, s := range samples {
		diff, err := daykey.DaysBetween(s.Day, today)
		if err != nil {
			continue
		}
		if diff >= 0 && diff < WindowDays {
			out = append(out, s)
		}
	}
	return out
}
