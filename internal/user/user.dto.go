package user

import (
	"time"

	"fitFlowAPI/internal/food"
	"fitFlowAPI/internal/streak"
)

// Patch is a partial update keyed by Field* names. Values replace the stored
// field wholesale; nested objects are not merged.
type Patch map[string]any

func (p Patch) Set(field string, value any) Patch {
	p[field] = value
	return p
}

func (p Patch) Touch(now time.Time) Patch {
	p[FieldUpdatedAt] = now
	return p
}

func StreakPatch(s streak.State) Patch {
	last := ""
	if s.LastCheckIn != nil {
		last = s.LastCheckIn.String()
	}
	week := s.WeekVisual
	if week == nil {
		week = streak.WeekVisual{}
	}
	celebrated := s.CelebratedMilestones
	if celebrated == nil {
		celebrated = []int{}
	}
	return Patch{
		FieldStreakCount:          s.Count,
		FieldLastCheckIn:          last,
		FieldWeekVisual:           map[string]bool(week),
		FieldCelebratedMilestones: celebrated,
	}
}

// CreateUserRequest seeds a new document from an identity provider event.
type CreateUserRequest struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	ImageURL      string `json:"imageUrl,omitempty"`
}

func (r CreateUserRequest) Patch(now time.Time) Patch {
	targets := food.DefaultTargets
	return Patch{
		FieldEmail:         r.Email,
		FieldEmailVerified: r.EmailVerified,
		FieldFirstName:     r.FirstName,
		FieldLastName:      r.LastName,
		FieldImageURL:      r.ImageURL,
		FieldTargets:       &targets,
		FieldCreatedAt:     now,
		FieldUpdatedAt:     now,
	}
}

type UpdateProfileRequest struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

func (r UpdateProfileRequest) Patch(now time.Time) Patch {
	p := Patch{}
	if r.FirstName != "" {
		p[FieldFirstName] = r.FirstName
	}
	if r.LastName != "" {
		p[FieldLastName] = r.LastName
	}
	if r.ImageURL != "" {
		p[FieldImageURL] = r.ImageURL
	}
	return p.Touch(now)
}
