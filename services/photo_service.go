package services

import (
	"context"
	"fmt"
	"strings"

	"fitFlowAPI/internal/achievement"
	"fitFlowAPI/internal/daykey"
	"fitFlowAPI/internal/photo"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type PhotoService struct {
	deps         Deps
	achievements *AchievementService
}

func NewPhotoService(deps Deps, achievements *AchievementService) *PhotoService {
	return &PhotoService{deps: deps.withDefaults(), achievements: achievements}
}

type AddPhotoRequest struct {
	Date  daykey.Key `json:"date,omitempty"`
	Label string     `json:"label,omitempty"`
	Image string     `json:"image"`
}

type AddPhotoResult struct {
	Photo           photo.Photo               `json:"photo"`
	NewAchievements []achievement.Achievement `json:"new_achievements,omitempty"`
	SavedLocally    bool                      `json:"saved_locally,omitempty"`
}

func (s *PhotoService) Add(ctx context.Context, uid string, req AddPhotoRequest) (*AddPhotoResult, error) {
	sess, err := s.deps.LoadSession(ctx, uid)
	if err != nil {
		return nil, err
	}
	if req.Date == "" {
		req.Date = sess.Today
	}
	p := photo.Photo{
		ID:        uuid.NewString(),
		Date:      req.Date,
		Label:     strings.TrimSpace(req.Label),
		Image:     req.Image,
		CreatedAt: s.deps.Now().UTC(),
	}
	if err := p.Validate(); err != nil {
		return nil, invalid(err)
	}

	if err := s.deps.saved(sess, "Photos", s.deps.Store.AddProgressPhoto(ctx, uid, p)); err != nil {
		return nil, err
	}
	log.Debugf("Photos: %s added %s (%d bytes)", uid, p.ID, len(p.Image))

	return &AddPhotoResult{
		Photo:           p,
		NewAchievements: s.achievements.newly(ctx, sess),
		SavedLocally:    sess.SavedLocally,
	}, nil
}

func (s *PhotoService) List(ctx context.Context, uid string) ([]photo.Photo, error) {
	photos, err := s.deps.Store.ScanProgressPhotos(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("scan photos: %w", err)
	}
	if photos == nil {
		photos = []photo.Photo{}
	}
	photo.SortNewestFirst(photos)
	return photos, nil
}

func (s *PhotoService) Delete(ctx context.Context, uid, id string) error {
	if id == "" {
		return fmt.Errorf("%w: missing photo id", ErrInvalidInput)
	}
	if err := s.deps.Store.DeleteProgressPhoto(ctx, uid, id); err != nil {
		return fmt.Errorf("delete photo %s: %w", id, err)
	}
	return nil
}
