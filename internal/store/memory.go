package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fitFlowAPI/internal/checkin"
	"fitFlowAPI/internal/daykey"
	"fitFlowAPI/internal/food"
	"fitFlowAPI/internal/photo"
	"fitFlowAPI/internal/user"
)

type memoryUser struct {
	doc    *user.Document
	days   map[daykey.Key]checkin.CheckIn
	foods  map[daykey.Key]food.DayLog
	photos map[string]photo.Photo
}

// Memory keeps everything in process. Used for tests and local development.
type Memory struct {
	mu    sync.RWMutex
	users map[string]*memoryUser
}

func NewMemory() *Memory {
	return &Memory{users: make(map[string]*memoryUser)}
}

func (m *Memory) user(uid string, create bool) *memoryUser {
	u, ok := m.users[uid]
	if !ok && create {
		u = &memoryUser{
			days:   make(map[daykey.Key]checkin.CheckIn),
			foods:  make(map[daykey.Key]food.DayLog),
			photos: make(map[string]photo.Photo),
		}
		m.users[uid] = u
	}
	return u
}

func (m *Memory) GetUserDocument(_ context.Context, uid string) (*user.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u := m.user(uid, false)
	if u == nil || u.doc == nil {
		return nil, fmt.Errorf("user %s: %w", uid, ErrNotFound)
	}
	cp := *u.doc
	// deep copy through the patch path so callers cannot alias stored maps
	if err := user.ApplyPatch(&cp, user.Patch{}); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (m *Memory) UpdateUserDocument(_ context.Context, uid string, patch user.Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u := m.user(uid, true)
	doc := user.Document{}
	if u.doc != nil {
		doc = *u.doc
	}
	if err := user.ApplyPatch(&doc, patch); err != nil {
		return err
	}
	u.doc = &doc
	return nil
}

func (m *Memory) GetDayStatus(_ context.Context, uid string, day daykey.Key) (*checkin.CheckIn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if u := m.user(uid, false); u != nil {
		if c, ok := u.days[day]; ok {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("day status %s/%s: %w", uid, day, ErrNotFound)
}

func (m *Memory) SetDayStatus(_ context.Context, uid string, c checkin.CheckIn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user(uid, true).days[c.Date] = c
	return nil
}

func (m *Memory) DeleteDayStatus(_ context.Context, uid string, day daykey.Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u := m.user(uid, false); u != nil {
		delete(u.days, day)
	}
	return nil
}

func (m *Memory) ScanDayStatuses(_ context.Context, uid string) ([]checkin.CheckIn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []checkin.CheckIn
	if u := m.user(uid, false); u != nil {
		for _, c := range u.days {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *Memory) GetFoodLog(_ context.Context, uid string, day daykey.Key) (*food.DayLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if u := m.user(uid, false); u != nil {
		if l, ok := u.foods[day]; ok {
			l.Foods = append([]food.Food(nil), l.Foods...)
			return &l, nil
		}
	}
	return nil, fmt.Errorf("food log %s/%s: %w", uid, day, ErrNotFound)
}

func (m *Memory) SetFoodLog(_ context.Context, uid string, l food.DayLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.Foods = append([]food.Food(nil), l.Foods...)
	m.user(uid, true).foods[l.Date] = l
	return nil
}

func (m *Memory) ScanFoodLogs(_ context.Context, uid string) ([]food.DayLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []food.DayLog
	if u := m.user(uid, false); u != nil {
		for _, l := range u.foods {
			l.Foods = append([]food.Food(nil), l.Foods...)
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *Memory) AddProgressPhoto(_ context.Context, uid string, p photo.Photo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user(uid, true).photos[p.ID] = p
	return nil
}

func (m *Memory) DeleteProgressPhoto(_ context.Context, uid, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u := m.user(uid, false)
	if u == nil {
		return fmt.Errorf("photo %s/%s: %w", uid, id, ErrNotFound)
	}
	if _, ok := u.photos[id]; !ok {
		return fmt.Errorf("photo %s/%s: %w", uid, id, ErrNotFound)
	}
	delete(u.photos, id)
	return nil
}

func (m *Memory) ScanProgressPhotos(_ context.Context, uid string) ([]photo.Photo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []photo.Photo
	if u := m.user(uid, false); u != nil {
		for _, p := range u.photos {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *Memory) ListUserIDs(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.users))
	for id, u := range m.users {
		if u.doc != nil {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
