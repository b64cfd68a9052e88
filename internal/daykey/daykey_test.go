package daykey_test

import (
	"testing"
	"time"

	"fitFlowAPI/internal/daykey"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromTime(t *testing.T) {
	d := time.Date(2025, 3, 5, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, daykey.Key("03-05-2025"), daykey.FromTime(d))
}

func TestParse(t *testing.T) {
	k, err := daykey.Parse("12-31-2024")
	require.NoError(t, err)
	assert.Equal(t, daykey.Key("12-31-2024"), k)

	_, err = daykey.Parse("2024-12-31")
	assert.Error(t, err)
	_, err = daykey.Parse("13-01-2024")
	assert.Error(t, err)
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name     string
		from, to daykey.Key
		want     int
	}{
		{"same day", "03-10-2025", "03-10-2025", 0},
		{"next day", "03-10-2025", "03-11-2025", 1},
		{"across month", "02-28-2025", "03-02-2025", 2},
		{"across year", "12-31-2024", "01-01-2025", 1},
		{"leap day", "02-28-2024", "03-01-2024", 2},
		{"backwards", "03-11-2025", "03-10-2025", -1},
		// US DST switch happened on 03-09-2025; day math stays in whole days
		{"dst", "03-08-2025", "03-10-2025", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := daykey.DaysBetween(tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := daykey.DaysBetween("bogus", "03-10-2025")
	assert.Error(t, err)
}

func TestWeekday(t *testing.T) {
	// 03-09-2025 was a Sunday
	wd, err := daykey.Key("03-09-2025").Weekday()
	require.NoError(t, err)
	assert.Equal(t, 0, wd)

	wd, err = daykey.Key("03-15-2025").Weekday()
	require.NoError(t, err)
	assert.Equal(t, 6, wd)
}

func TestSameWeek(t *testing.T) {
	same, err := daykey.SameWeek("03-09-2025", "03-15-2025")
	require.NoError(t, err)
	assert.True(t, same)

	same, err = daykey.SameWeek("03-15-2025", "03-16-2025")
	require.NoError(t, err)
	assert.False(t, same)
}

func TestLastNDays(t *testing.T) {
	keys, err := daykey.LastNDays("03-02-2025", 3)
	require.NoError(t, err)
	assert.Equal(t, []daykey.Key{"03-02-2025", "03-01-2025", "02-28-2025"}, keys)
}

func TestToday(t *testing.T) {
	loc := time.FixedZone("PHT", 8*60*60)
	now := time.Date(2025, 3, 5, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, daykey.Key("03-06-2025"), daykey.Today(now, loc))
	assert.Equal(t, daykey.Key("03-05-2025"), daykey.Today(now, time.UTC))
}

func TestBeforeAndISO(t *testing.T) {
	assert.True(t, daykey.Key("12-31-2024").Before("01-01-2025"))
	assert.False(t, daykey.Key("01-01-2025").Before("12-31-2024"))
	assert.Equal(t, "2025-01-01", daykey.Key("01-01-2025").ISO())
}
