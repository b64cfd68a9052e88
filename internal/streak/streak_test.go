package streak_test

import (
	"testing"

	"fitFlowAPI/internal/daykey"
	"fitFlowAPI/internal/streak"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, start daykey.Key, offset int) daykey.Key {
	t.Helper()
	k, err := start.AddDays(offset)
	require.NoError(t, err)
	return k
}

func TestEngine_ConsecutiveDays(t *testing.T) {
	engine := streak.NewEngine()
	start := daykey.Key("01-01-2025")

	for _, n := range []int{1, 2, 5, 30, 45} {
		state := streak.State{}
		for i := 0; i < n; i++ {
			res, err := engine.Advance(state, day(t, start, i))
			require.NoError(t, err)
			state = res.State
		}
		assert.Equal(t, n, state.Count, "after %d consecutive days", n)
		require.NotNil(t, state.LastCheckIn)
		assert.Equal(t, day(t, start, n-1), *state.LastCheckIn)
	}
}

func TestEngine_GapResets(t *testing.T) {
	engine := streak.NewEngine()
	last := daykey.Key("03-02-2025")
	prev := streak.State{Count: 9, LastCheckIn: &last}

	res, err := engine.Advance(prev, "03-04-2025")
	require.NoError(t, err)
	assert.Equal(t, 1, res.State.Count)
	assert.Equal(t, streak.OutcomeBroken, res.Outcome)
	assert.Equal(t, 2, res.DiffDays)
}

func TestEngine_CheckInScenario(t *testing.T) {
	engine := streak.NewEngine()
	state := streak.State{}

	res, err := engine.Advance(state, "05-01-2025")
	require.NoError(t, err)
	assert.Equal(t, 1, res.State.Count)
	assert.Equal(t, streak.OutcomeStarted, res.Outcome)

	res, err = engine.Advance(res.State, "05-02-2025")
	require.NoError(t, err)
	assert.Equal(t, 2, res.State.Count)

	// day 3 skipped
	res, err = engine.Advance(res.State, "05-04-2025")
	require.NoError(t, err)
	assert.Equal(t, 1, res.State.Count)
	assert.Equal(t, 2, res.DiffDays)
}

func TestEngine_SameDayIsNoop(t *testing.T) {
	engine := streak.NewEngine()
	last := daykey.Key("03-02-2025")
	prev := streak.State{Count: 3, LastCheckIn: &last, CelebratedMilestones: []int{3}}

	res, err := engine.Advance(prev, last)
	require.NoError(t, err)
	assert.Equal(t, 3, res.State.Count)
	assert.Equal(t, streak.OutcomeSameDay, res.Outcome)
	assert.Zero(t, res.Milestone)
}

func TestEngine_BackdatedIsAnomaly(t *testing.T) {
	engine := streak.NewEngine()
	last := daykey.Key("03-10-2025")
	prev := streak.State{Count: 4, LastCheckIn: &last, WeekVisual: streak.WeekVisual{"1": true}}

	res, err := engine.Advance(prev, "03-08-2025")
	require.NoError(t, err)
	assert.True(t, res.Anomaly())
	assert.Equal(t, 4, res.State.Count)
	assert.Equal(t, last, *res.State.LastCheckIn)
	assert.Equal(t, streak.WeekVisual{"1": true}, res.State.WeekVisual)
	assert.Equal(t, -2, res.DiffDays)
}

func TestEngine_DoesNotMutatePrevious(t *testing.T) {
	engine := streak.NewEngine()
	prev := streak.State{WeekVisual: streak.WeekVisual{"0": true}}

	res, err := engine.Advance(prev, "03-11-2025") // Tuesday
	require.NoError(t, err)
	assert.Equal(t, streak.WeekVisual{"0": true}, prev.WeekVisual)
	assert.Equal(t, streak.WeekVisual{"0": true, "2": true}, res.State.WeekVisual)
	assert.Nil(t, prev.LastCheckIn)
}

func TestEngine_Milestones(t *testing.T) {
	engine := streak.NewEngine()
	start := daykey.Key("06-01-2025")

	state := streak.State{}
	fired := map[int]int{}
	for i := 0; i < 8; i++ {
		res, err := engine.Advance(state, day(t, start, i))
		require.NoError(t, err)
		if res.Milestone != 0 {
			fired[res.State.Count] = res.Milestone
		}
		state = res.State
	}
	assert.Equal(t, map[int]int{3: 3, 7: 7}, fired, "fires on 3 and 7, never on 8")

	// reset and count back up to 7: nothing fires again
	state = streak.Reset(state)
	assert.Zero(t, state.Count)
	assert.Nil(t, state.LastCheckIn)
	assert.Empty(t, state.WeekVisual)

	restart := day(t, start, 20)
	for i := 0; i < 7; i++ {
		res, err := engine.Advance(state, day(t, restart, i))
		require.NoError(t, err)
		assert.Zero(t, res.Milestone, "count %d", res.State.Count)
		state = res.State
	}
	assert.Equal(t, 7, state.Count)
}

func TestEngine_CustomMilestones(t *testing.T) {
	engine := streak.NewEngine(2, 1)
	assert.Equal(t, []int{1, 2}, engine.Milestones())

	res, err := engine.Advance(streak.State{}, "06-01-2025")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Milestone)
	assert.Equal(t, []int{1}, res.State.CelebratedMilestones)

	assert.Equal(t, []int{1, 2}, engine.ReachedMilestones(5))
	assert.Empty(t, streak.NewEngine().ReachedMilestones(2))
}

func TestEngine_InvalidToday(t *testing.T) {
	_, err := streak.NewEngine().Advance(streak.State{}, "nope")
	assert.Error(t, err)
}

func TestResetWeek(t *testing.T) {
	last := daykey.Key("03-15-2025")
	prev := streak.State{Count: 6, LastCheckIn: &last, WeekVisual: streak.WeekVisual{"5": true, "6": true}}

	next := streak.ResetWeek(prev)
	assert.Equal(t, 6, next.Count)
	assert.Empty(t, next.WeekVisual)
	assert.Len(t, prev.WeekVisual, 2)
	assert.Equal(t, [7]bool{5: true, 6: true}, prev.WeekVisual.Days())
}
