package services

import (
	"context"

	"fitFlowAPI/internal/notification"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=services_test

type Notifier interface {
	Notify(ctx context.Context, n notification.Notification) error
}
