package food

import (
	"math"
	"strings"
)

// MyFood is a saved custom food. Calories are whole numbers, macros keep one decimal.
type MyFood struct {
	ID   string `json:"id" firestore:"id"`
	Name string `json:"name" firestore:"name"`
	Macros
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func NewMyFood(id string, f Food) (MyFood, error) {
	if err := f.Validate(); err != nil {
		return MyFood{}, err
	}
	return MyFood{
		ID:   id,
		Name: strings.TrimSpace(f.Name),
		Macros: Macros{
			Calories: math.Round(f.Calories),
			Protein:  round1(f.Protein),
			Carbs:    round1(f.Carbs),
			Fat:      round1(f.Fat),
		},
	}, nil
}

func (m MyFood) ToFood(meal Meal) Food {
	return Food{Name: m.Name, Macros: m.Macros, Meal: meal}
}

func FindMyFood(list []MyFood, id string) (MyFood, int, bool) {
	for i, m := range list {
		if m.ID == id {
			return m, i, true
		}
	}
	return MyFood{}, -1, false
}
