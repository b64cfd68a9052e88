package checkin

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fitFlowAPI/internal/daykey"
)

const (
	MaxNotesLength = 1000
	MinWeightKg    = 20
	MaxWeightKg    = 400
)

var ErrInvalid = errors.New("invalid check-in")

// CheckIn is the per-day status record. There is at most one per user and day.
type CheckIn struct {
	Date        daykey.Key `json:"date" firestore:"day"`
	Weight      *float64   `json:"weight,omitempty" firestore:"weight,omitempty"`
	WorkoutDone bool       `json:"workout_done" firestore:"workout"`
	Notes       string     `json:"notes,omitempty" firestore:"notes"`
	CreatedAt   time.Time  `json:"created_at" firestore:"createdAt"`
}

func (c CheckIn) HasWeight() bool {
	return c.Weight != nil && *c.Weight > 0
}

func (c CheckIn) Validate() error {
	if !c.Date.Valid() {
		return fmt.Errorf("%w: bad date %q", ErrInvalid, c.Date)
	}
	if c.Weight != nil && (*c.Weight < MinWeightKg || *c.Weight > MaxWeightKg) {
		return fmt.Errorf("%w: weight %.1f kg out of range", ErrInvalid, *c.Weight)
	}
	if len(c.Notes) > MaxNotesLength {
		return fmt.Errorf("%w: notes longer than %d characters", ErrInvalid, MaxNotesLength)
	}
	return nil
}

// Normalize trims notes and drops a zero weight, which clients send for "not weighed".
func (c CheckIn) Normalize() CheckIn {
	c.Notes = strings.TrimSpace(c.Notes)
	if c.Weight != nil && *c.Weight == 0 {
		c.Weight = nil
	}
	return c
}

// Latest returns the most recent check-in carrying a weight.
func Latest(checkins []CheckIn) (CheckIn, bool) {
	var (
		best  CheckIn
		found bool
	)
	for _, c := range checkins {
		if !c.HasWeight() {
			continue
		}
		if !found || best.Date.Before(c.Date) {
			best, found = c, true
		}
	}
	return best, found
}

func CountWeighed(checkins []CheckIn) int {
	n := 0
	for _, c := range checkins {
		if c.HasWeight() {
			n++
		}
	}
	return n
}
