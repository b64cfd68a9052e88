package user

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Anomaly describes a repair made to a stored document.
type Anomaly struct {
	Field  string `json:"field"`
	Detail string `json:"detail"`
}

func (a Anomaly) String() string {
	return a.Field + ": " + a.Detail
}

// Sanitize returns a repaired copy of d and the list of repairs applied.
func Sanitize(d Document) (Document, []Anomaly) {
	var anomalies []Anomaly
	note := func(field, format string, args ...any) {
		anomalies = append(anomalies, Anomaly{Field: field, Detail: fmt.Sprintf(format, args...)})
	}

	if d.StreakCount < 0 {
		note(FieldStreakCount, "negative count %d reset to 0", d.StreakCount)
		d.StreakCount = 0
	}
	if d.LastCheckIn != "" && !d.LastCheckIn.Valid() {
		note(FieldLastCheckIn, "unparsable day %q dropped", d.LastCheckIn)
		d.LastCheckIn = ""
	}
	if d.StreakCount > 0 && d.LastCheckIn == "" {
		note(FieldStreakCount, "count %d without a last check-in reset to 0", d.StreakCount)
		d.StreakCount = 0
	}
	if d.StreakCount == 0 && d.LastCheckIn != "" {
		note(FieldLastCheckIn, "last check-in %s with a zero count cleared", d.LastCheckIn)
		d.LastCheckIn = ""
	}

	if len(d.WeekVisual) > 0 {
		clean := d.WeekVisual.Clone()
		for k := range clean {
			if n, err := strconv.Atoi(k); err != nil || n < 0 || n > 6 {
				note(FieldWeekVisual, "unknown weekday key %q dropped", k)
				delete(clean, k)
			}
		}
		d.WeekVisual = clean
	}

	if d.GoalWeight != nil && *d.GoalWeight <= 0 {
		note(FieldGoalWeight, "non-positive goal %v dropped", *d.GoalWeight)
		d.GoalWeight = nil
	}
	if d.StartingWeight != nil && *d.StartingWeight <= 0 {
		note(FieldStartingWeight, "non-positive starting weight %v dropped", *d.StartingWeight)
		d.StartingWeight = nil
	}
	return d, anomalies
}

// ApplyPatch overlays p onto d field by field, the way a document store
// applies a top-level merge.
func ApplyPatch(d *Document, p Patch) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("failed to decode document fields: %w", err)
	}
	for k, v := range p {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode field %s: %w", k, err)
		}
		fields[k] = b
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode merged document: %w", err)
	}
	var out Document
	if err := json.Unmarshal(merged, &out); err != nil {
		return fmt.Errorf("failed to decode merged document: %w", err)
	}
	*d = out
	return nil
}
