package profile_test

import (
	"testing"

	"fitFlowAPI/internal/food"
	"fitFlowAPI/internal/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_LoseMale(t *testing.T) {
	plan, err := profile.Calculate(profile.Profile{
		Age: 30, Gender: profile.GenderMale, HeightCm: 180, WeightKg: 80,
		ActivityLevel: 1.55, Goal: profile.GoalLose,
	})
	require.NoError(t, err)

	assert.Equal(t, 1780.0, plan.BMR)
	assert.InDelta(t, 2759.0, plan.TDEE, 1e-9)
	assert.Equal(t, food.Targets{Calories: 2259, Protein: 160, Carbs: 263, Fat: 63}, plan.Targets)
	assert.Equal(t, 24.7, plan.BMI)
	assert.Equal(t, "Normal", plan.BMICategory)
	assert.Equal(t, 75.0, plan.GoalWeight)
}

func TestCalculate_GainFemale(t *testing.T) {
	plan, err := profile.Calculate(profile.Profile{
		Age: 25, Gender: profile.GenderFemale, HeightCm: 165, WeightKg: 60,
		ActivityLevel: 1.2, Goal: profile.GoalGain,
	})
	require.NoError(t, err)

	assert.Equal(t, 1345.25, plan.BMR)
	assert.Equal(t, food.Targets{Calories: 1914, Protein: 120, Carbs: 239, Fat: 53}, plan.Targets)
	assert.Equal(t, 65.0, plan.GoalWeight)
}

func TestCalculate_Maintain(t *testing.T) {
	plan, err := profile.Calculate(profile.Profile{
		Age: 40, Gender: profile.GenderMale, HeightCm: 175, WeightKg: 90,
		ActivityLevel: 1.375, Goal: profile.GoalMaintain,
	})
	require.NoError(t, err)
	assert.Equal(t, 90.0, plan.GoalWeight)
	assert.Equal(t, "Overweight", plan.BMICategory)
}

func TestValidate(t *testing.T) {
	valid := profile.Profile{Age: 30, Gender: profile.GenderMale, HeightCm: 180, WeightKg: 80, ActivityLevel: 1.55, Goal: profile.GoalLose}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(p *profile.Profile)
	}{
		{"age", func(p *profile.Profile) { p.Age = 5 }},
		{"gender", func(p *profile.Profile) { p.Gender = "" }},
		{"activity", func(p *profile.Profile) { p.ActivityLevel = 3 }},
		{"goal", func(p *profile.Profile) { p.Goal = "bulk" }},
		{"height", func(p *profile.Profile) { p.HeightCm = 20 }},
		{"weight", func(p *profile.Profile) { p.WeightKg = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), profile.ErrInvalid)
		})
	}
}

func TestBMICategory(t *testing.T) {
	assert.Equal(t, "Underweight", profile.BMICategory(17))
	assert.Equal(t, "Normal", profile.BMICategory(18.5))
	assert.Equal(t, "Overweight", profile.BMICategory(25))
	assert.Equal(t, "Obese", profile.BMICategory(30))
}
