package photo

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"fitFlowAPI/internal/daykey"
)

// MaxImageBytes keeps a photo document under the 1 MiB document limit.
const (
	MaxImageBytes  = 900 * 1024
	MaxLabelLength = 80
)

var ErrInvalid = errors.New("invalid photo")

type Photo struct {
	ID        string     `json:"id" firestore:"id"`
	Date      daykey.Key `json:"date" firestore:"date"`
	Label     string     `json:"label,omitempty" firestore:"label"`
	Image     string     `json:"image" firestore:"image"`
	CreatedAt time.Time  `json:"created_at" firestore:"createdAt"`
}

func (p Photo) Validate() error {
	if !p.Date.Valid() {
		return fmt.Errorf("%w: bad date %q", ErrInvalid, p.Date)
	}
	if !strings.HasPrefix(p.Image, "data:image/") {
		return fmt.Errorf("%w: image must be a data URL", ErrInvalid)
	}
	if len(p.Image) > MaxImageBytes {
		return fmt.Errorf("%w: image is %d bytes, limit %d", ErrInvalid, len(p.Image), MaxImageBytes)
	}
	if len(p.Label) > MaxLabelLength {
		return fmt.Errorf("%w: label too long", ErrInvalid)
	}
	return nil
}

// SortNewestFirst orders by photo date, then creation time, newest first.
func SortNewestFirst(photos []Photo) {
	sort.SliceStable(photos, func(i, j int) bool {
		a, b := photos[i], photos[j]
		if a.Date != b.Date {
			return b.Date.Before(a.Date)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}
