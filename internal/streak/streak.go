package streak

import (
	"fmt"
	"sort"
	"strconv"

	"fitFlowAPI/internal/daykey"
)

var DefaultMilestones = []int{3, 7, 14, 30}

// WeekVisual marks which weekdays (0=Sunday..6=Saturday) of the current week
// have a check-in. Keys are the weekday index as a string, matching the
// stored document shape.
type WeekVisual map[string]bool

func (w WeekVisual) Has(weekday int) bool {
	return w[strconv.Itoa(weekday)]
}

func (w WeekVisual) Clone() WeekVisual {
	out := make(WeekVisual, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// Days returns a fixed 7-slot view, index 0 being Sunday.
func (w WeekVisual) Days() [7]bool {
	var days [7]bool
	for i := range days {
		days[i] = w.Has(i)
	}
	return days
}

type State struct {
	Count                int         `json:"count"`
	LastCheckIn          *daykey.Key `json:"last_check_in"`
	WeekVisual           WeekVisual  `json:"week_visual"`
	CelebratedMilestones []int       `json:"celebrated_milestones"`
}

func (s State) celebrated(m int) bool {
	for _, c := range s.CelebratedMilestones {
		if c == m {
			return true
		}
	}
	return false
}

type Outcome string

const (
	OutcomeStarted   Outcome = "started"
	OutcomeExtended  Outcome = "extended"
	OutcomeBroken    Outcome = "broken"
	OutcomeSameDay   Outcome = "same_day"
	OutcomeBackdated Outcome = "backdated"
)

type Result struct {
	State   State   `json:"state"`
	Outcome Outcome `json:"outcome"`
	// DiffDays is the gap from the previous check-in, 0 when there was none.
	DiffDays int `json:"diff_days"`
	// Milestone is the threshold the count landed on, 0 when none fired.
	Milestone int `json:"milestone,omitempty"`
}

// Anomaly reports a check-in dated before the stored last check-in
// (clock skew, time zone edge or a manipulated date).
func (r Result) Anomaly() bool {
	return r.Outcome == OutcomeBackdated
}

type Engine struct {
	milestones []int
}

func NewEngine(milestones ...int) *Engine {
	if len(milestones) == 0 {
		milestones = DefaultMilestones
	}
	ms := append([]int(nil), milestones...)
	sort.Ints(ms)
	return &Engine{milestones: ms}
}

func (e *Engine) Milestones() []int {
	return append([]int(nil), e.milestones...)
}

// Advance applies today's check-in to the previous state. It never mutates prev.
func (e *Engine) Advance(prev State, today daykey.Key) (Result, error) {
	weekday, err := today.Weekday()
	if err != nil {
		return Result{}, fmt.Errorf("advance streak: %w", err)
	}

	next := State{
		Count:                prev.Count,
		LastCheckIn:          prev.LastCheckIn,
		WeekVisual:           prev.WeekVisual.Clone(),
		CelebratedMilestones: append([]int(nil), prev.CelebratedMilestones...),
	}
	res := Result{}

	if prev.LastCheckIn == nil {
		next.Count = 1
		res.Outcome = OutcomeStarted
	} else {
		diff, err := daykey.DaysBetween(*prev.LastCheckIn, today)
		if err != nil {
			return Result{}, fmt.Errorf("advance streak: %w", err)
		}
		res.DiffDays = diff

		switch {
		case diff < 0:
			res.State = next
			res.Outcome = OutcomeBackdated
			return res, nil
		case diff == 0:
			res.Outcome = OutcomeSameDay
		case diff == 1:
			next.Count++
			res.Outcome = OutcomeExtended
		default:
			next.Count = 1
			res.Outcome = OutcomeBroken
		}
	}

	t := today
	next.LastCheckIn = &t
	next.WeekVisual[strconv.Itoa(weekday)] = true

	if res.Outcome != OutcomeSameDay {
		for _, m := range e.milestones {
			if next.Count == m && !next.celebrated(m) {
				res.Milestone = m
				next.CelebratedMilestones = append(next.CelebratedMilestones, m)
				break
			}
		}
	}

	res.State = next
	return res, nil
}

// Reset zeroes the streak. Celebrated milestones survive so a recount does
// not celebrate the same threshold twice.
func Reset(prev State) State {
	return State{
		Count:                0,
		LastCheckIn:          nil,
		WeekVisual:           WeekVisual{},
		CelebratedMilestones: append([]int(nil), prev.CelebratedMilestones...),
	}
}

// ResetWeek clears the week visual at the start of a new week.
func ResetWeek(prev State) State {
	next := prev
	next.WeekVisual = WeekVisual{}
	next.CelebratedMilestones = append([]int(nil), prev.CelebratedMilestones...)
	return next
}

// ReachedMilestones lists the thresholds the count has met or passed, for badges.
func (e *Engine) ReachedMilestones(count int) []int {
	var out []int
	for _, m := range e.milestones {
		if count >= m {
			out = append(out, m)
		}
	}
	return out
}
