package user

import (
	"time"

	"fitFlowAPI/internal/achievement"
	"fitFlowAPI/internal/daykey"
	"fitFlowAPI/internal/food"
	"fitFlowAPI/internal/profile"
	"fitFlowAPI/internal/streak"
)

// Field names of the stored user document. They double as Patch keys.
const (
	FieldEmail                = "email"
	FieldEmailVerified        = "emailVerified"
	FieldFirstName            = "firstName"
	FieldLastName             = "lastName"
	FieldImageURL             = "imageUrl"
	FieldStreakCount          = "streakCount"
	FieldLastCheckIn          = "lastCheckIn"
	FieldWeekVisual           = "weekVisual"
	FieldCelebratedMilestones = "celebratedMilestones"
	FieldAchievements         = "achievements"
	FieldGoalWeight           = "goalWeight"
	FieldStartingWeight       = "startingWeight"
	FieldTargets              = "targets"
	FieldMyFoods              = "myFoods"
	FieldRecentFoods          = "recentFoods"
	FieldProfile              = "profile"
	FieldCreatedAt            = "createdAt"
	FieldUpdatedAt            = "updatedAt"
)

// Document is the users/{uid} record. Every field is optional on read;
// Sanitize repairs inconsistent combinations.
type Document struct {
	Email                string                        `json:"email,omitempty" firestore:"email,omitempty"`
	EmailVerified        bool                          `json:"emailVerified,omitempty" firestore:"emailVerified,omitempty"`
	FirstName            string                        `json:"firstName,omitempty" firestore:"firstName,omitempty"`
	LastName             string                        `json:"lastName,omitempty" firestore:"lastName,omitempty"`
	ImageURL             string                        `json:"imageUrl,omitempty" firestore:"imageUrl,omitempty"`
	StreakCount          int                           `json:"streakCount" firestore:"streakCount"`
	LastCheckIn          daykey.Key                    `json:"lastCheckIn,omitempty" firestore:"lastCheckIn,omitempty"`
	WeekVisual           streak.WeekVisual             `json:"weekVisual,omitempty" firestore:"weekVisual,omitempty"`
	CelebratedMilestones []int                         `json:"celebratedMilestones,omitempty" firestore:"celebratedMilestones,omitempty"`
	Achievements         map[string]achievement.Unlock `json:"achievements,omitempty" firestore:"achievements,omitempty"`
	GoalWeight           *float64                      `json:"goalWeight,omitempty" firestore:"goalWeight,omitempty"`
	StartingWeight       *float64                      `json:"startingWeight,omitempty" firestore:"startingWeight,omitempty"`
	Targets              *food.Targets                 `json:"targets,omitempty" firestore:"targets,omitempty"`
	MyFoods              []food.MyFood                 `json:"myFoods,omitempty" firestore:"myFoods,omitempty"`
	RecentFoods          []food.RecentFood             `json:"recentFoods,omitempty" firestore:"recentFoods,omitempty"`
	Profile              *profile.Profile              `json:"profile,omitempty" firestore:"profile,omitempty"`
	CreatedAt            time.Time                     `json:"createdAt,omitempty" firestore:"createdAt,omitempty"`
	UpdatedAt            time.Time                     `json:"updatedAt,omitempty" firestore:"updatedAt,omitempty"`
}

func (d *Document) Streak() streak.State {
	s := streak.State{
		Count:                d.StreakCount,
		WeekVisual:           d.WeekVisual.Clone(),
		CelebratedMilestones: append([]int(nil), d.CelebratedMilestones...),
	}
	if d.LastCheckIn != "" {
		k := d.LastCheckIn
		s.LastCheckIn = &k
	}
	return s
}

func (d *Document) TargetsOrDefault() food.Targets {
	if d.Targets == nil {
		return food.DefaultTargets
	}
	return d.Targets.WithDefaults()
}
