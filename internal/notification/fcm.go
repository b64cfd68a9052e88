package notification

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	log "github.com/sirupsen/logrus"
)

type FCMService struct {
	client *messaging.Client
}

func NewFCMService(ctx context.Context, app *firebase.App) (*FCMService, error) {
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}
	return &FCMService{client: client}, nil
}

// TopicFor is the per-user topic every registered device subscribes to.
func TopicFor(uid string) string {
	return "user_" + uid
}

// Message builds the FCM payload. Data values are stringified since FCM only
// carries string data.
func Message(n Notification) *messaging.Message {
	data := make(map[string]string, len(n.Data)+1)
	for k, v := range n.Data {
		data[k] = fmt.Sprintf("%v", v)
	}
	data["type"] = string(n.Type)

	return &messaging.Message{
		Topic: TopicFor(n.UserID),
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Message,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
	}
}

func (s *FCMService) Notify(ctx context.Context, n Notification) error {
	id, err := s.client.Send(ctx, Message(n))
	if err != nil {
		return fmt.Errorf("fcm send %s to %s: %w", n.Type, n.UserID, err)
	}
	log.Debugf("FCM: sent %s to %s (%s)", n.Type, n.UserID, id)
	return nil
}

// RegisterDevice subscribes a device token to the user's topic.
func (s *FCMService) RegisterDevice(ctx context.Context, uid string, req RegisterDeviceRequest) error {
	resp, err := s.client.SubscribeToTopic(ctx, []string{req.Token}, TopicFor(uid))
	if err != nil {
		return fmt.Errorf("fcm subscribe %s: %w", uid, err)
	}
	if resp.FailureCount > 0 {
		reason := "unknown"
		if len(resp.Errors) > 0 && resp.Errors[0] != nil {
			reason = resp.Errors[0].Reason
		}
		return fmt.Errorf("fcm subscribe %s: token rejected: %s", uid, reason)
	}
	return nil
}
