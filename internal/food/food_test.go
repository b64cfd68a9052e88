package food_test

import (
	"fmt"
	"testing"

	"fitFlowAPI/internal/food"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoodValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      food.Food
		wantErr bool
	}{
		{"ok", food.Food{Name: "Tapsilog", Macros: food.Macros{Calories: 550, Protein: 28}}, false},
		{"blank name", food.Food{Name: "  ", Macros: food.Macros{Calories: 100}}, true},
		{"zero calories", food.Food{Name: "Water"}, true},
		{"negative fat", food.Food{Name: "x", Macros: food.Macros{Calories: 10, Fat: -1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, food.ErrInvalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseMeal(t *testing.T) {
	m, err := food.ParseMeal("")
	require.NoError(t, err)
	assert.Equal(t, food.MealSnack, m)

	m, err = food.ParseMeal("Dinner")
	require.NoError(t, err)
	assert.Equal(t, food.MealDinner, m)

	_, err = food.ParseMeal("brunch")
	assert.ErrorIs(t, err, food.ErrInvalid)
}

func TestTargetsWithDefaults(t *testing.T) {
	assert.Equal(t, food.DefaultTargets, food.Targets{}.WithDefaults())
	got := food.Targets{Calories: 1800, Fat: -3}.WithDefaults()
	assert.Equal(t, food.Targets{Calories: 1800, Protein: 150, Carbs: 240, Fat: 60}, got)
}

func TestSummarize(t *testing.T) {
	foods := []food.Food{
		{Name: "Pandesal", Macros: food.Macros{Calories: 180, Protein: 6, Carbs: 34, Fat: 2}, Meal: food.MealBreakfast},
		{Name: "Chicken Adobo", Macros: food.Macros{Calories: 520, Protein: 32, Carbs: 52, Fat: 20}, Meal: food.MealLunch},
		{Name: "Lechon Kawali", Macros: food.Macros{Calories: 650, Protein: 28, Carbs: 52, Fat: 38}, Meal: food.MealDinner},
		{Name: "Turon", Macros: food.Macros{Calories: 320, Protein: 3, Carbs: 48, Fat: 14}, Meal: food.MealSnack},
	}
	s := food.Summarize(foods, food.Targets{})

	assert.Equal(t, 4, s.Count)
	assert.Equal(t, food.Macros{Calories: 1670, Protein: 69, Carbs: 186, Fat: 74}, s.Totals)
	assert.Equal(t, 430.0, s.RemainingCalories)
	assert.Equal(t, 650.0, s.PerMeal[food.MealDinner])
	assert.False(t, s.CalorieGoalHit)
	assert.True(t, s.Over["fat"])
	assert.False(t, s.Over["calories"])
}

func TestSummarize_GoalHitWindow(t *testing.T) {
	targets := food.Targets{Calories: 2000}
	tests := []struct {
		calories float64
		want     bool
	}{
		{1790, false},
		{1800, true},
		{2000, true},
		{2100, true},
		{2110, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.calories), func(t *testing.T) {
			s := food.Summarize([]food.Food{{Name: "x", Macros: food.Macros{Calories: tt.calories}}}, targets)
			assert.Equal(t, tt.want, s.CalorieGoalHit)
		})
	}

	over := food.Summarize([]food.Food{{Name: "x", Macros: food.Macros{Calories: 2500}}}, targets)
	assert.Zero(t, over.RemainingCalories)
}

func TestPushRecent(t *testing.T) {
	var list []food.RecentFood
	for i := 0; i < 12; i++ {
		list = food.PushRecent(list, food.Food{Name: fmt.Sprintf("food-%d", i), Macros: food.Macros{Calories: 100}})
	}
	require.Len(t, list, food.MaxRecentFoods)
	assert.Equal(t, "food-11", list[0].Name)
	assert.Equal(t, "food-2", list[9].Name)

	// re-adding moves to the front without duplicating
	list = food.PushRecent(list, food.Food{Name: "food-5", Macros: food.Macros{Calories: 100}, Meal: food.MealLunch})
	require.Len(t, list, food.MaxRecentFoods)
	assert.Equal(t, "food-5", list[0].Name)
	assert.Equal(t, "food-11", list[1].Name)
	n := 0
	for _, r := range list {
		if r.Name == "food-5" {
			n++
		}
	}
	assert.Equal(t, 1, n)

	// same name, different calories is a distinct entry
	list = food.PushRecent(list, food.Food{Name: "food-5", Macros: food.Macros{Calories: 250}})
	assert.Equal(t, 250.0, list[0].Calories)
	assert.Equal(t, "food-5", list[1].Name)
}

func TestNewMyFood(t *testing.T) {
	m, err := food.NewMyFood("abc", food.Food{Name: " Protein Shake ", Macros: food.Macros{Calories: 219.6, Protein: 30.04, Carbs: 8.26, Fat: 3.55}})
	require.NoError(t, err)
	assert.Equal(t, "abc", m.ID)
	assert.Equal(t, "Protein Shake", m.Name)
	assert.Equal(t, 220.0, m.Calories)
	assert.Equal(t, 30.0, m.Protein)
	assert.Equal(t, 8.3, m.Carbs)

	f := m.ToFood(food.MealBreakfast)
	assert.Equal(t, food.MealBreakfast, f.Meal)
	assert.Equal(t, m.Macros, f.Macros)

	_, idx, ok := food.FindMyFood([]food.MyFood{{ID: "x"}, m}, "abc")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	_, err = food.NewMyFood("id", food.Food{Name: "nothing"})
	assert.Error(t, err)
}

func TestCountFoods(t *testing.T) {
	logs := []food.DayLog{
		{Date: "05-01-2025", Foods: make([]food.Food, 3)},
		{Date: "05-02-2025"},
		{Date: "05-03-2025", Foods: make([]food.Food, 2)},
	}
	assert.Equal(t, 5, food.CountFoods(logs))
}
