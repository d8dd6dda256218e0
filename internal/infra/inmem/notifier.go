package inmem

import (
	"context"
	"sync"

	"checkout-service/internal/usecase/commands"
)

// NotificationRecorder captures published notifications for assertions.
type NotificationRecorder struct {
	mu        sync.Mutex
	published []commands.Notification
	// Err, when set, is returned by every Publish call.
	Err error
}

func NewNotificationRecorder() *NotificationRecorder {
	return &NotificationRecorder{}
}

func (r *NotificationRecorder) Publish(_ context.Context, msg commands.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.published = append(r.published, msg)
	return nil
}

func (r *NotificationRecorder) Published() []commands.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]commands.Notification, len(r.published))
	copy(out, r.published)
	return out
}
