package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fitFlowAPI/internal/checkin"
	"fitFlowAPI/internal/daykey"
	"fitFlowAPI/internal/food"
	"fitFlowAPI/internal/photo"
	"fitFlowAPI/internal/user"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	megabyte = 1024 * 1024
	// entries never expire; the primary is the source of truth once back
	noExpire = 0
)

// Fallback writes through to a local in-memory cache and serves from it
// while the primary store is unavailable. Writes that only reached the cache
// return ErrSavedLocally wrapping ErrUnavailable so callers can tell the user.
type Fallback struct {
	primary    Store
	cache      *freecache.Cache
	onFallback func(op string)
}

func NewFallback(primary Store, cacheSizeMB int, onFallback func(op string)) *Fallback {
	if cacheSizeMB <= 0 {
		cacheSizeMB = 64
	}
	if onFallback == nil {
		onFallback = func(string) {}
	}
	return &Fallback{
		primary:    primary,
		cache:      freecache.NewCache(cacheSizeMB * megabyte),
		onFallback: onFallback,
	}
}

func userKey(uid string) []byte { return []byte("u::" + uid) }
func dayPrefix(uid string) []byte { return []byte("d::" + uid + "::") }
func dayKey(uid string, d daykey.Key) []byte { return append(dayPrefix(uid), string(d)...) }
func foodPrefix(uid string) []byte { return []byte("f::" + uid + "::") }
func foodKey(uid string, d daykey.Key) []byte { return append(foodPrefix(uid), string(d)...) }
func photoPrefix(uid string) []byte { return []byte("p::" + uid + "::") }
func photoKey(uid, id string) []byte { return append(photoPrefix(uid), id...) }

func (f *Fallback) put(key []byte, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Warnf("Fallback: failed to encode %s: %v", key, err)
		return
	}
	if err := f.cache.Set(key, b, noExpire); err != nil {
		log.Debugf("Fallback: not caching %s: %v", key, err)
	}
}

func (f *Fallback) load(key []byte, dst any) bool {
	b, err := f.cache.Get(key)
	if err != nil {
		return false
	}
	return json.Unmarshal(b, dst) == nil
}

func (f *Fallback) scanPrefix(prefix []byte, fn func(value []byte)) {
	it := f.cache.NewIterator()
	for e := it.Next(); e != nil; e = it.Next() {
		if bytes.HasPrefix(e.Key, prefix) {
			fn(e.Value)
		}
	}
}

func (f *Fallback) degraded(op string, err error) bool {
	if !errors.Is(err, ErrUnavailable) {
		return false
	}
	log.Warnf("Fallback: %s served locally: %v", op, err)
	f.onFallback(op)
	return true
}

func (f *Fallback) GetUserDocument(ctx context.Context, uid string) (*user.Document, error) {
	doc, err := f.primary.GetUserDocument(ctx, uid)
	if err == nil {
		f.put(userKey(uid), doc)
		return doc, nil
	}
	if f.degraded("get_user", err) {
		var cached user.Document
		if f.load(userKey(uid), &cached) {
			return &cached, nil
		}
	}
	return nil, err
}

func (f *Fallback) UpdateUserDocument(ctx context.Context, uid string, patch user.Patch) error {
	err := f.primary.UpdateUserDocument(ctx, uid, patch)
	if err != nil && !f.degraded("update_user", err) {
		return err
	}

	var doc user.Document
	f.load(userKey(uid), &doc)
	if perr := user.ApplyPatch(&doc, patch); perr != nil {
		log.Errorf("Fallback: failed to apply patch locally for %s: %v", uid, perr)
	} else {
		f.put(userKey(uid), &doc)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSavedLocally, err)
	}
	return nil
}

func (f *Fallback) GetDayStatus(ctx context.Context, uid string, day daykey.Key) (*checkin.CheckIn, error) {
	c, err := f.primary.GetDayStatus(ctx, uid, day)
	if err == nil {
		f.put(dayKey(uid, day), c)
		return c, nil
	}
	if errors.Is(err, ErrNotFound) {
		f.cache.Del(dayKey(uid, day))
		return nil, err
	}
	if f.degraded("get_day_status", err) {
		var cached checkin.CheckIn
		if f.load(dayKey(uid, day), &cached) {
			return &cached, nil
		}
		return nil, fmt.Errorf("day status %s: %w", day, ErrNotFound)
	}
	return nil, err
}

func (f *Fallback) SetDayStatus(ctx context.Context, uid string, c checkin.CheckIn) error {
	err := f.primary.SetDayStatus(ctx, uid, c)
	if err != nil && !f.degraded("set_day_status", err) {
		return err
	}
	f.put(dayKey(uid, c.Date), c)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSavedLocally, err)
	}
	return nil
}

func (f *Fallback) DeleteDayStatus(ctx context.Context, uid string, day daykey.Key) error {
	f.cache.Del(dayKey(uid, day))
	return f.primary.DeleteDayStatus(ctx, uid, day)
}

func (f *Fallback) ScanDayStatuses(ctx context.Context, uid string) ([]checkin.CheckIn, error) {
	list, err := f.primary.ScanDayStatuses(ctx, uid)
	if err == nil {
		for _, c := range list {
			f.put(dayKey(uid, c.Date), c)
		}
		return list, nil
	}
	if !f.degraded("scan_day_statuses", err) {
		return nil, err
	}
	var out []checkin.CheckIn
	f.scanPrefix(dayPrefix(uid), func(v []byte) {
		var c checkin.CheckIn
		if json.Unmarshal(v, &c) == nil {
			out = append(out, c)
		}
	})
	return out, nil
}

func (f *Fallback) GetFoodLog(ctx context.Context, uid string, day daykey.Key) (*food.DayLog, error) {
	l, err := f.primary.GetFoodLog(ctx, uid, day)
	if err == nil {
		f.put(foodKey(uid, day), l)
		return l, nil
	}
	if f.degraded("get_food_log", err) {
		var cached food.DayLog
		if f.load(foodKey(uid, day), &cached) {
			return &cached, nil
		}
		return nil, fmt.Errorf("food log %s: %w", day, ErrNotFound)
	}
	return nil, err
}

func (f *Fallback) SetFoodLog(ctx context.Context, uid string, l food.DayLog) error {
	err := f.primary.SetFoodLog(ctx, uid, l)
	if err != nil && !f.degraded("set_food_log", err) {
		return err
	}
	f.put(foodKey(uid, l.Date), l)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSavedLocally, err)
	}
	return nil
}

func (f *Fallback) ScanFoodLogs(ctx context.Context, uid string) ([]food.DayLog, error) {
	list, err := f.primary.ScanFoodLogs(ctx, uid)
	if err == nil {
		for _, l := range list {
			f.put(foodKey(uid, l.Date), l)
		}
		return list, nil
	}
	if !f.degraded("scan_food_logs", err) {
		return nil, err
	}
	var out []food.DayLog
	f.scanPrefix(foodPrefix(uid), func(v []byte) {
		var l food.DayLog
		if json.Unmarshal(v, &l) == nil {
			out = append(out, l)
		}
	})
	return out, nil
}

func (f *Fallback) AddProgressPhoto(ctx context.Context, uid string, p photo.Photo) error {
	err := f.primary.AddProgressPhoto(ctx, uid, p)
	if err != nil && !f.degraded("add_photo", err) {
		return err
	}
	f.put(photoKey(uid, p.ID), p)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSavedLocally, err)
	}
	return nil
}

func (f *Fallback) DeleteProgressPhoto(ctx context.Context, uid, id string) error {
	f.cache.Del(photoKey(uid, id))
	return f.primary.DeleteProgressPhoto(ctx, uid, id)
}

func (f *Fallback) ScanProgressPhotos(ctx context.Context, uid string) ([]photo.Photo, error) {
	list, err := f.primary.ScanProgressPhotos(ctx, uid)
	if err == nil {
		for _, p := range list {
			f.put(photoKey(uid, p.ID), p)
		}
		return list, nil
	}
	if !f.degraded("scan_photos", err) {
		return nil, err
	}
	var out []photo.Photo
	f.scanPrefix(photoPrefix(uid), func(v []byte) {
		var p photo.Photo
		if json.Unmarshal(v, &p) == nil {
			out = append(out, p)
		}
	})
	return out, nil
}

func (f *Fallback) ListUserIDs(ctx context.Context) ([]string, error) {
	return f.primary.ListUserIDs(ctx)
}
