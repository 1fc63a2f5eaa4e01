package service

import (
	"context"
	"time"

	"inkwell/internal/models"
)

// ActivityPublisher receives activity once the mutation that caused it has
// committed. Delivery is best effort.
type ActivityPublisher interface {
	PublishActivity(ctx context.Context, recipientID uint, activity models.Activity)
}

// activityFeed is embedded by the services that emit activity.
type activityFeed struct {
	publisher ActivityPublisher
}

// SetActivityPublisher installs p. A nil p disables activity.
func (f *activityFeed) SetActivityPublisher(p ActivityPublisher) {
	f.publisher = p
}

// emit drops activity a user causes on their own content.
func (f *activityFeed) emit(ctx context.Context, recipientID uint, a models.Activity) {
	if f.publisher == nil || recipientID == 0 || recipientID == a.ActorID {
		return
	}
	if a.OccurredAt.IsZero() {
		a.OccurredAt = time.Now()
	}
	f.publisher.PublishActivity(ctx, recipientID, a)
}
