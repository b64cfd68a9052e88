package projection_test

import (
	"testing"

	"fitFlowAPI/internal/daykey"
	"fitFlowAPI/internal/projection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day0 = daykey.Key("04-01-2025")

func at(t *testing.T, offset int, weight float64) projection.Sample {
	t.Helper()
	k, err := day0.AddDays(offset)
	require.NoError(t, err)
	return projection.Sample{Day: k, Weight: weight}
}

func TestProject_OnTrackTwoPoint(t *testing.T) {
	today := at(t, 14, 0).Day
	// most recent first; the middle sample does not affect the two-point slope
	samples := []projection.Sample{at(t, 14, 78), at(t, 3, 75), at(t, 0, 80)}

	res, err := projection.Project(samples, 70, today)
	require.NoError(t, err)

	assert.Equal(t, projection.StatusOnTrack, res.Status)
	assert.Equal(t, projection.DirectionLose, res.Direction)
	assert.InDelta(t, -1.0/7, res.DailyChange, 1e-12)
	assert.Equal(t, -1.0, res.WeeklyRate)
	assert.Equal(t, 8.0, res.WeightToGo)
	assert.Equal(t, 56.0, res.DaysToGoal)
	assert.Equal(t, 8, res.WeeksToGoal)
	require.NotNil(t, res.ETA)
	assert.Equal(t, at(t, 70, 0).Day, *res.ETA)
	// exactly 1.0 kg/week is not "faster than recommended"
	assert.Equal(t, projection.CautionNone, res.Caution)
}

func TestProject_InsufficientData(t *testing.T) {
	tests := []struct {
		name    string
		samples []projection.Sample
	}{
		{"none", nil},
		{"one", []projection.Sample{at(t, 0, 80)}},
		{"two", []projection.Sample{at(t, 0, 80), at(t, 5, 79)}},
		{"same day", []projection.Sample{at(t, 2, 80), at(t, 2, 79), at(t, 2, 78)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, goal := range []float64{50, 79, 120} {
				res, err := projection.Project(tt.samples, goal, day0)
				require.NoError(t, err)
				assert.Equal(t, projection.StatusInsufficientData, res.Status)
				assert.Nil(t, res.ETA)
			}
		})
	}
}

func TestProject_AlreadyAtGoal(t *testing.T) {
	samples := []projection.Sample{at(t, 0, 72), at(t, 4, 71), at(t, 8, 70.4)}
	res, err := projection.Project(samples, 70, at(t, 8, 0).Day)
	require.NoError(t, err)
	assert.Equal(t, projection.StatusAlreadyAtGoal, res.Status)
}

func TestProject_WrongDirection(t *testing.T) {
	// needs to lose but is gaining
	samples := []projection.Sample{at(t, 0, 80), at(t, 5, 81), at(t, 10, 82)}
	res, err := projection.Project(samples, 70, at(t, 10, 0).Day)
	require.NoError(t, err)
	assert.Equal(t, projection.StatusWrongDirection, res.Status)
	assert.Equal(t, projection.DirectionLose, res.Direction)

	// needs to gain but is losing
	samples = []projection.Sample{at(t, 0, 60), at(t, 5, 59), at(t, 10, 58)}
	res, err = projection.Project(samples, 70, at(t, 10, 0).Day)
	require.NoError(t, err)
	assert.Equal(t, projection.StatusWrongDirection, res.Status)
	assert.Equal(t, projection.DirectionGain, res.Direction)
}

func TestProject_NearZeroRate(t *testing.T) {
	samples := []projection.Sample{at(t, 0, 80), at(t, 6, 80.2), at(t, 13, 79.95)}
	res, err := projection.Project(samples, 70, at(t, 13, 0).Day)
	require.NoError(t, err)
	assert.Equal(t, projection.StatusNearZeroRate, res.Status)
	assert.Equal(t, projection.DirectionLose, res.Direction)
}

func TestProject_FarAway(t *testing.T) {
	// 0.1 kg per week towards a goal 30 kg away -> ~300 weeks
	samples := []projection.Sample{at(t, 0, 100), at(t, 7, 99.95), at(t, 14, 99.8)}
	res, err := projection.Project(samples, 70, at(t, 14, 0).Day)
	require.NoError(t, err)
	assert.Equal(t, projection.StatusFarAway, res.Status)
	assert.Nil(t, res.ETA)
	assert.Greater(t, res.WeeksToGoal, projection.MaxWeeksToGoal)
}

func TestProject_Cautions(t *testing.T) {
	// 2 kg/week loss
	fast := []projection.Sample{at(t, 0, 90), at(t, 3, 89), at(t, 7, 88)}
	res, err := projection.Project(fast, 80, at(t, 7, 0).Day)
	require.NoError(t, err)
	assert.Equal(t, projection.StatusOnTrack, res.Status)
	assert.Equal(t, projection.CautionTooFast, res.Caution)

	// 0.15 kg/week gain
	slow := []projection.Sample{at(t, 0, 60), at(t, 7, 60.1), at(t, 14, 60.3)}
	res, err = projection.Project(slow, 61, at(t, 14, 0).Day)
	require.NoError(t, err)
	assert.Equal(t, projection.StatusOnTrack, res.Status)
	assert.Equal(t, projection.DirectionGain, res.Direction)
	assert.Equal(t, projection.CautionSlowButSteady, res.Caution)
}

func TestProject_InvalidInput(t *testing.T) {
	_, err := projection.Project([]projection.Sample{at(t, 0, 80)}, 0, day0)
	assert.ErrorIs(t, err, projection.ErrInvalidInput)

	_, err = projection.Project([]projection.Sample{at(t, 0, -1), at(t, 1, 80), at(t, 2, 80)}, 70, day0)
	assert.ErrorIs(t, err, projection.ErrInvalidInput)
}

func TestWindow(t *testing.T) {
	today := at(t, 20, 0).Day
	samples := []projection.Sample{at(t, 0, 80), at(t, 6, 79), at(t, 7, 79), at(t, 20, 78), at(t, 21, 77)}
	got := projection.Window(samples, today)
	assert.Equal(t, []projection.Sample{at(t, 7, 79), at(t, 20, 78)}, got)
}
