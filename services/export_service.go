package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"fitFlowAPI/internal/checkin"
	"fitFlowAPI/internal/food"
)

type ExportKind string

const (
	ExportAll    ExportKind = "all"
	ExportWeight ExportKind = "weight"
	ExportFoods  ExportKind = "foods"
)

func ParseExportKind(s string) (ExportKind, error) {
	switch ExportKind(s) {
	case "", ExportAll:
		return ExportAll, nil
	case ExportWeight, ExportFoods:
		return ExportKind(s), nil
	}
	return "", fmt.Errorf("%w: unknown export %q", ErrInvalidInput, s)
}

type ExportService struct {
	deps Deps
}

func NewExportService(deps Deps) *ExportService {
	return &ExportService{deps: deps.withDefaults()}
}

func (s *ExportService) Filename(kind ExportKind) string {
	day := s.deps.today().ISO()
	switch kind {
	case ExportWeight:
		return "fitflow-weight-history-" + day + ".csv"
	case ExportFoods:
		return "fitflow-food-logs-" + day + ".csv"
	}
	return "fitflow-complete-export-" + day + ".csv"
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Export writes the user's data as CSV. The complete export has a profile,
// a weight history and a food log section.
func (s *ExportService) Export(ctx context.Context, uid string, kind ExportKind, out io.Writer) error {
	sess, err := s.deps.LoadSession(ctx, uid)
	if err != nil {
		return err
	}

	var checkins []checkin.CheckIn
	if kind != ExportFoods {
		if checkins, err = s.deps.Store.ScanDayStatuses(ctx, uid); err != nil {
			return fmt.Errorf("scan check-ins: %w", err)
		}
		sort.Slice(checkins, func(i, j int) bool { return checkins[i].Date.Before(checkins[j].Date) })
	}
	var logs []food.DayLog
	if kind != ExportWeight {
		if logs, err = s.deps.Store.ScanFoodLogs(ctx, uid); err != nil {
			return fmt.Errorf("scan food logs: %w", err)
		}
		sort.Slice(logs, func(i, j int) bool { return logs[i].Date.Before(logs[j].Date) })
	}

	w := csv.NewWriter(out)

	if kind == ExportAll {
		t := sess.Doc.TargetsOrDefault()
		goal := ""
		if sess.Doc.GoalWeight != nil {
			goal = num(*sess.Doc.GoalWeight)
		}
		rows := [][]string{
			{"=== FITFLOW DATA EXPORT ==="},
			{"Export Date", s.deps.Now().UTC().Format(time.RFC3339)},
			{},
			{"=== PROFILE ==="},
			{"Calorie Target", num(t.Calories)},
			{"Protein Target", num(t.Protein)},
			{"Carb Target", num(t.Carbs)},
			{"Fat Target", num(t.Fat)},
			{"Goal Weight", goal},
			{"Streak", strconv.Itoa(sess.Doc.StreakCount)},
			{},
			{"=== WEIGHT HISTORY ==="},
		}
		if err := w.WriteAll(rows); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
	}

	if kind != ExportFoods {
		if err := w.Write([]string{"Date", "Weight (kg)", "Workout", "Notes"}); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		for _, c := range checkins {
			weight := ""
			if c.HasWeight() {
				weight = num(*c.Weight)
			}
			workout := "No"
			if c.WorkoutDone {
				workout = "Yes"
			}
			if err := w.Write([]string{c.Date.ISO(), weight, workout, c.Notes}); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
		}
	}

	if kind == ExportAll {
		if err := w.WriteAll([][]string{{}, {"=== FOOD LOGS ==="}}); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
	}

	if kind != ExportWeight {
		if err := w.Write([]string{"Date", "Food Name", "Calories", "Protein (g)", "Carbs (g)", "Fat (g)", "Meal"}); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		for _, l := range logs {
			for _, f := range l.Foods {
				row := []string{l.Date.ISO(), f.Name, num(f.Calories), num(f.Protein), num(f.Carbs), num(f.Fat), string(f.Meal)}
				if err := w.Write(row); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}
