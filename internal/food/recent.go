package food

const MaxRecentFoods = 10

// RecentFood is a quick-add entry. Meal is not remembered.
type RecentFood struct {
	Name string `json:"name" firestore:"name"`
	Macros
}

// PushRecent moves food to the front of the list, dropping an older entry
// with the same name and calories, and caps the list at MaxRecentFoods.
func PushRecent(list []RecentFood, f Food) []RecentFood {
	out := make([]RecentFood, 0, MaxRecentFoods)
	out = append(out, RecentFood{Name: f.Name, Macros: f.Macros})
	for _, r := range list {
		if r.Name == f.Name && r.Calories == f.Calories {
			continue
		}
		if len(out) == MaxRecentFoods {
			break
		}
		out = append(out, r)
	}
	return out
}
