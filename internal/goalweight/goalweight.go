package goalweight

import (
	"fmt"
	"math"
)

const (
	// AtGoalTolerance is the distance (kg) treated as "goal reached".
	AtGoalTolerance = 0.1
	// GoalChangeThreshold is how far (kg) a new goal must move before the
	// starting weight is taken again.
	GoalChangeThreshold = 1.0
)

type Progress struct {
	// ToGoKg is goal minus current: negative means weight still to lose,
	// positive weight still to gain. Nil when goal or current is unknown.
	ToGoKg          *float64 `json:"to_go_kg"`
	AtGoal          bool     `json:"at_goal"`
	ProgressPercent float64  `json:"progress_percent"`
	Display         string   `json:"display"`
}

func known(v *float64) bool {
	return v != nil && *v > 0
}

// Calculate derives progress toward the goal. Without a starting weight the
// baseline is unknown and progress stays at 0.
func Calculate(starting, current, goal *float64) Progress {
	p := Progress{Display: "-- kg"}
	if !known(goal) || !known(current) {
		return p
	}

	toGo := *goal - *current
	p.ToGoKg = &toGo
	p.AtGoal = math.Abs(toGo) <= AtGoalTolerance
	p.Display = display(toGo, p.AtGoal)

	if !known(starting) {
		return p
	}
	total := *starting - *goal
	if math.Abs(total) <= AtGoalTolerance {
		return p
	}
	changed := *starting - *current
	p.ProgressPercent = math.Max(0, math.Min(100, changed/total*100))
	return p
}

func display(toGo float64, atGoal bool) string {
	if atGoal {
		return "Goal!"
	}
	if toGo < 0 {
		return fmt.Sprintf("-%.1f kg", -toGo)
	}
	return fmt.Sprintf("+%.1f kg", toGo)
}

// ApplyGoal returns the goal and starting weight to store when the user sets
// newGoal. The starting weight is kept within one goal episode and retaken
// (current weight, else the goal itself) when there was none or the goal
// moved by more than GoalChangeThreshold.
func ApplyGoal(prevGoal, prevStarting *float64, newGoal float64, current *float64) (goal, starting float64, restarted bool, err error) {
	if newGoal <= 0 || math.IsNaN(newGoal) || math.IsInf(newGoal, 0) {
		return 0, 0, false, fmt.Errorf("goal weight must be a positive number, got %v", newGoal)
	}

	prev := 0.0
	if prevGoal != nil {
		prev = *prevGoal
	}
	if known(prevStarting) && math.Abs(prev-newGoal) <= GoalChangeThreshold {
		return newGoal, *prevStarting, false, nil
	}

	starting = newGoal
	if known(current) {
		starting = *current
	}
	return newGoal, starting, true, nil
}
