package store

import (
	"context"
	"errors"

	"fitFlowAPI/internal/checkin"
	"fitFlowAPI/internal/daykey"
	"fitFlowAPI/internal/food"
	"fitFlowAPI/internal/photo"
	"fitFlowAPI/internal/user"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrUnavailable means the backing database could not be reached. Data
	// may still have been kept in a local fallback.
	ErrUnavailable = errors.New("persistence unavailable")
	// ErrSavedLocally wraps ErrUnavailable on writes the Fallback kept in
	// its local cache.
	ErrSavedLocally = errors.New("saved locally only")
)

// Collection names, shared by every backend.
const (
	CollectionUsers          = "users"
	CollectionDailyStatus    = "dailyStatus"
	CollectionFoodLog        = "foodLog"
	CollectionProgressPhotos = "progressPhotos"
)

// Store persists one user document plus per-day sub-records.
type Store interface {
	GetUserDocument(ctx context.Context, uid string) (*user.Document, error)
	// UpdateUserDocument applies a top-level partial update, creating the
	// document when it does not exist yet.
	UpdateUserDocument(ctx context.Context, uid string, patch user.Patch) error

	GetDayStatus(ctx context.Context, uid string, day daykey.Key) (*checkin.CheckIn, error)
	SetDayStatus(ctx context.Context, uid string, c checkin.CheckIn) error
	DeleteDayStatus(ctx context.Context, uid string, day daykey.Key) error
	ScanDayStatuses(ctx context.Context, uid string) ([]checkin.CheckIn, error)

	GetFoodLog(ctx context.Context, uid string, day daykey.Key) (*food.DayLog, error)
	SetFoodLog(ctx context.Context, uid string, log food.DayLog) error
	ScanFoodLogs(ctx context.Context, uid string) ([]food.DayLog, error)

	AddProgressPhoto(ctx context.Context, uid string, p photo.Photo) error
	DeleteProgressPhoto(ctx context.Context, uid, id string) error
	ScanProgressPhotos(ctx context.Context, uid string) ([]photo.Photo, error)

	ListUserIDs(ctx context.Context) ([]string, error)
}
