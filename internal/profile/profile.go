package profile

import (
	"errors"
	"fmt"
	"math"
	"time"

	"fitFlowAPI/internal/food"
)

var ErrInvalid = errors.New("invalid profile")

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type Goal string

const (
	GoalLose     Goal = "lose"
	GoalMaintain Goal = "maintain"
	GoalGain     Goal = "gain"
)

const (
	LoseCalorieDelta = -500
	GainCalorieDelta = 300
	GoalWeightOffset = 5.0 // kg
	ProteinPerKg     = 2.0
	FatCalorieShare  = 0.25
)

type Profile struct {
	Age           int       `json:"age" firestore:"age"`
	Gender        Gender    `json:"gender" firestore:"gender"`
	HeightCm      float64   `json:"height" firestore:"height"`
	WeightKg      float64   `json:"weight" firestore:"weight"`
	ActivityLevel float64   `json:"activity_level" firestore:"activityLevel"`
	Goal          Goal      `json:"goal" firestore:"goal"`
	BMI           float64   `json:"bmi" firestore:"bmi"`
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`
}

func (p Profile) Validate() error {
	switch {
	case p.Age < 13 || p.Age > 120:
		return fmt.Errorf("%w: age %d out of range", ErrInvalid, p.Age)
	case p.Gender != GenderMale && p.Gender != GenderFemale:
		return fmt.Errorf("%w: gender must be male or female", ErrInvalid)
	case p.ActivityLevel < 1.2 || p.ActivityLevel > 1.9:
		return fmt.Errorf("%w: activity level %.3f out of range", ErrInvalid, p.ActivityLevel)
	case p.Goal != GoalLose && p.Goal != GoalMaintain && p.Goal != GoalGain:
		return fmt.Errorf("%w: unknown goal %q", ErrInvalid, p.Goal)
	}
	if _, err := BMI(p.HeightCm, p.WeightKg); err != nil {
		return err
	}
	return nil
}

// BMI expects height in centimeters and weight in kilograms.
func BMI(heightCm, weightKg float64) (float64, error) {
	if heightCm < 50 || heightCm > 250 || weightKg < 20 || weightKg > 400 {
		return 0, fmt.Errorf("%w: height/weight out of plausible range", ErrInvalid)
	}
	h := heightCm / 100.0
	return weightKg / (h * h), nil
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Normal"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}

// BMR is the Mifflin-St Jeor basal metabolic rate in kcal/day.
func BMR(p Profile) float64 {
	base := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age)
	if p.Gender == GenderMale {
		return base + 5
	}
	return base - 161
}

type Plan struct {
	BMI         float64      `json:"bmi"`
	BMICategory string       `json:"bmi_category"`
	BMR         float64      `json:"bmr"`
	TDEE        float64      `json:"tdee"`
	Targets     food.Targets `json:"targets"`
	GoalWeight  float64      `json:"goal_weight"`
}

// Calculate derives daily targets and an initial goal weight from the profile.
func Calculate(p Profile) (Plan, error) {
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}
	bmi, _ := BMI(p.HeightCm, p.WeightKg)
	bmr := BMR(p)
	tdee := bmr * p.ActivityLevel

	calories := tdee
	goalWeight := p.WeightKg
	switch p.Goal {
	case GoalLose:
		calories += LoseCalorieDelta
		goalWeight -= GoalWeightOffset
	case GoalGain:
		calories += GainCalorieDelta
		goalWeight += GoalWeightOffset
	}
	calories = math.Round(calories)

	protein := math.Round(p.WeightKg * ProteinPerKg)
	fat := math.Round(calories * FatCalorieShare / 9)
	carbs := math.Round((calories - protein*4 - fat*9) / 4)

	return Plan{
		BMI:         math.Round(bmi*10) / 10,
		BMICategory: BMICategory(bmi),
		BMR:         bmr,
		TDEE:        tdee,
		Targets:     food.Targets{Calories: calories, Protein: protein, Carbs: carbs, Fat: fat},
		GoalWeight:  goalWeight,
	}, nil
}
