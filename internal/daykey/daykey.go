package daykey

import (
	"fmt"
	"time"
)

// Layout matches the document ids already stored under users/{uid}/dailyStatus.
const Layout = "01-02-2006"

// Key identifies one calendar day, e.g. "03-15-2025".
type Key string

func FromTime(t time.Time) Key {
	return Key(t.Format(Layout))
}

func Parse(s string) (Key, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return "", fmt.Errorf("invalid day key %q: %w", s, err)
	}
	return FromTime(t), nil
}

// Time returns midnight UTC of the day. UTC keeps every day exactly 24h long,
// so day arithmetic never trips over DST.
func (k Key) Time() (time.Time, error) {
	t, err := time.Parse(Layout, string(k))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q: %w", k, err)
	}
	return t, nil
}

func (k Key) String() string {
	return string(k)
}

func (k Key) Valid() bool {
	_, err := k.Time()
	return err == nil
}

// ISO renders the key as YYYY-MM-DD for exports and charts.
func (k Key) ISO() string {
	t, err := k.Time()
	if err != nil {
		return string(k)
	}
	return t.Format("2006-01-02")
}

func (k Key) AddDays(n int) (Key, error) {
	t, err := k.Time()
	if err != nil {
		return "", err
	}
	return FromTime(t.AddDate(0, 0, n)), nil
}

// Weekday returns 0 for Sunday through 6 for Saturday.
func (k Key) Weekday() (int, error) {
	t, err := k.Time()
	if err != nil {
		return 0, err
	}
	return int(t.Weekday()), nil
}

// DaysBetween returns the number of calendar days from `from` to `to`.
// It is negative when `to` is earlier than `from`.
func DaysBetween(from, to Key) (int, error) {
	f, err := from.Time()
	if err != nil {
		return 0, err
	}
	t, err := to.Time()
	if err != nil {
		return 0, err
	}
	return int(t.Sub(f).Hours() / 24), nil
}

// Before reports whether k is an earlier calendar day than other.
// Invalid keys sort first.
func (k Key) Before(other Key) bool {
	a, errA := k.Time()
	b, errB := other.Time()
	if errA != nil || errB != nil {
		return errA != nil && errB == nil
	}
	return a.Before(b)
}

// WeekStart returns the Sunday that opens the week containing k.
func (k Key) WeekStart() (Key, error) {
	wd, err := k.Weekday()
	if err != nil {
		return "", err
	}
	return k.AddDays(-wd)
}

// SameWeek reports whether both days fall in the same Sunday-started week.
func SameWeek(a, b Key) (bool, error) {
	sa, err := a.WeekStart()
	if err != nil {
		return false, err
	}
	sb, err := b.WeekStart()
	if err != nil {
		return false, err
	}
	return sa == sb, nil
}

// Today returns today's key in the given location.
func Today(now time.Time, loc *time.Location) Key {
	if loc == nil {
		loc = time.Local
	}
	return FromTime(now.In(loc))
}

// LastNDays returns today and the n-1 days before it, most recent first.
func LastNDays(today Key, n int) ([]Key, error) {
	keys := make([]Key, 0, n)
	for i := 0; i < n; i++ {
		k, err := today.AddDays(-i)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}
