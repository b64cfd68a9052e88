package services

import (
	"context"
	"errors"
	"fmt"

	"fitFlowAPI/internal/goalweight"
	"fitFlowAPI/internal/profile"
	"fitFlowAPI/internal/store"
	"fitFlowAPI/internal/user"

	log "github.com/sirupsen/logrus"
)

type UserService struct {
	deps Deps
}

func NewUserService(deps Deps) *UserService {
	return &UserService{deps: deps.withDefaults()}
}

// CreateUser seeds the document for a new identity. An existing document
// keeps its tracking data; only identity fields are refreshed.
func (s *UserService) CreateUser(ctx context.Context, uid string, req user.CreateUserRequest) error {
	now := s.deps.Now().UTC()
	patch := req.Patch(now)

	_, err := s.deps.Store.GetUserDocument(ctx, uid)
	switch {
	case err == nil:
		delete(patch, user.FieldTargets)
		delete(patch, user.FieldCreatedAt)
	case !errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("failed to look up user %s: %w", uid, err)
	}

	if err := s.deps.Store.UpdateUserDocument(ctx, uid, patch); err != nil {
		return fmt.Errorf("failed to create user %s: %w", uid, err)
	}
	log.Infof("User: created %s", uid)
	return nil
}

func (s *UserService) GetUser(ctx context.Context, uid string) (*user.Document, error) {
	doc, err := s.deps.Store.GetUserDocument(ctx, uid)
	if err != nil {
		return nil, err
	}
	clean, _ := user.Sanitize(*doc)
	return &clean, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, uid string, req user.UpdateProfileRequest) (*user.Document, error) {
	sess, err := s.deps.LoadSession(ctx, uid)
	if err != nil {
		return nil, err
	}
	if err := s.deps.update(ctx, sess, "UpdateProfile", req.Patch(s.deps.Now().UTC())); err != nil {
		return nil, err
	}
	return &sess.Doc, nil
}

func (s *UserService) UpdateEmailVerification(ctx context.Context, uid string, verified bool) error {
	patch := user.Patch{user.FieldEmailVerified: verified}.Touch(s.deps.Now().UTC())
	if err := s.deps.Store.UpdateUserDocument(ctx, uid, patch); err != nil {
		return fmt.Errorf("failed to update email verification for %s: %w", uid, err)
	}
	return nil
}

type OnboardingResult struct {
	Profile profile.Profile `json:"profile"`
	Plan    profile.Plan    `json:"plan"`
}

// SaveOnboarding stores the profile, replaces the targets with the computed
// plan and sets the initial goal weight.
func (s *UserService) SaveOnboarding(ctx context.Context, uid string, p profile.Profile) (*OnboardingResult, error) {
	plan, err := profile.Calculate(p)
	if err != nil {
		return nil, invalid(err)
	}
	sess, err := s.deps.LoadSession(ctx, uid)
	if err != nil {
		return nil, err
	}

	p.BMI = plan.BMI
	p.CreatedAt = s.deps.Now().UTC()
	weight := p.WeightKg
	goal, starting, _, err := goalweight.ApplyGoal(sess.Doc.GoalWeight, sess.Doc.StartingWeight, plan.GoalWeight, &weight)
	if err != nil {
		return nil, invalid(err)
	}

	targets := plan.Targets
	patch := user.Patch{
		user.FieldProfile:        &p,
		user.FieldTargets:        &targets,
		user.FieldGoalWeight:     goal,
		user.FieldStartingWeight: starting,
	}
	if err := s.deps.update(ctx, sess, "Onboarding", patch); err != nil {
		return nil, err
	}
	return &OnboardingResult{Profile: p, Plan: plan}, nil
}
