package notification

import (
	"context"
	"fmt"
	"time"

	"fitFlowAPI/internal/achievement"

	log "github.com/sirupsen/logrus"
)

type NotificationType string

const (
	NotificationStreakMilestone NotificationType = "streak_milestone"
	NotificationAchievement     NotificationType = "achievement"
)

type Notification struct {
	UserID    string           `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Data      map[string]any   `json:"data"`
	CreatedAt time.Time        `json:"created_at"`
}

// Notifier delivers milestone and unlock events. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

func MilestoneNotification(uid string, days int, now time.Time) Notification {
	return Notification{
		UserID:    uid,
		Type:      NotificationStreakMilestone,
		Title:     fmt.Sprintf("%d day streak!", days),
		Message:   fmt.Sprintf("You've checked in %d days in a row. Keep it going!", days),
		Data:      map[string]any{"days": days},
		CreatedAt: now,
	}
}

func AchievementNotification(uid string, a achievement.Achievement, now time.Time) Notification {
	return Notification{
		UserID:  uid,
		Type:    NotificationAchievement,
		Title:   "Achievement unlocked: " + a.Name,
		Message: a.Description,
		Data: map[string]any{
			"achievement_id": a.ID,
			"tier":           string(a.Tier),
		},
		CreatedAt: now,
	}
}

// LogNotifier only logs. Used when push delivery is disabled.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, n Notification) error {
	log.Infof("Notification: %s for %s: %s", n.Type, n.UserID, n.Title)
	return nil
}
