package services_test

import (
	"testing"

	"fitFlowAPI/internal/food"
	"fitFlowAPI/internal/profile"
	"fitFlowAPI/internal/store"
	"fitFlowAPI/internal/user"
	"fitFlowAPI/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_CreateKeepsTrackingData(t *testing.T) {
	f := newFixture(t)
	f.checkInDays(t, 2, services.CheckInRequest{})
	_, err := f.foods.SetTargets(f.ctx, uid, food.Targets{Calories: 1800})
	require.NoError(t, err)

	// webhook replay for an existing identity
	require.NoError(t, f.users.CreateUser(f.ctx, uid, user.CreateUserRequest{Email: "new@example.com", FirstName: "Ana"}))

	doc, err := f.users.GetUser(f.ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", doc.Email)
	assert.Equal(t, "Ana", doc.FirstName)
	assert.Equal(t, 2, doc.StreakCount)
	require.NotNil(t, doc.Targets)
	assert.Equal(t, 1800.0, doc.Targets.Calories)
}

func TestUser_GetMissing(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.GetUser(f.ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUser_UpdateProfileAndVerification(t *testing.T) {
	f := newFixture(t)

	doc, err := f.users.UpdateProfile(f.ctx, uid, user.UpdateProfileRequest{LastName: "Petrova"})
	require.NoError(t, err)
	assert.Equal(t, "Petrova", doc.LastName)
	assert.Equal(t, "test@example.com", doc.Email)

	require.NoError(t, f.users.UpdateEmailVerification(f.ctx, uid, false))
	doc, err = f.users.GetUser(f.ctx, uid)
	require.NoError(t, err)
	assert.False(t, doc.EmailVerified)
	assert.Equal(t, "Petrova", doc.LastName)
}

func TestUser_Onboarding(t *testing.T) {
	f := newFixture(t)

	res, err := f.users.SaveOnboarding(f.ctx, uid, profile.Profile{
		Age: 30, Gender: profile.GenderMale, HeightCm: 180, WeightKg: 80,
		ActivityLevel: 1.55, Goal: profile.GoalLose,
	})
	require.NoError(t, err)
	assert.Equal(t, 24.7, res.Profile.BMI)
	assert.Equal(t, start, res.Profile.CreatedAt)

	targets, err := f.foods.Targets(f.ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, food.Targets{Calories: 2259, Protein: 160, Carbs: 263, Fat: 63}, targets)

	goal, err := f.goals.Goal(f.ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 75.0, *goal.GoalWeight)
	assert.Equal(t, 80.0, *goal.StartingWeight)

	_, err = f.users.SaveOnboarding(f.ctx, uid, profile.Profile{Age: 5})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}
