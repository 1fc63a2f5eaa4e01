// Package notifications publishes user activity to Redis channels.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"inkwell/internal/featureflags"
	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/redis/go-redis/v9"
)

// Notifier publishes to per-user notification channels.
type Notifier struct {
	rdb   *redis.Client
	flags *featureflags.Manager
}

// NewNotifier creates a Notifier. Without Redis every publish is a no-op.
func NewNotifier(rdb *redis.Client, flags *featureflags.Manager) *Notifier {
	return &Notifier{rdb: rdb, flags: flags}
}

// UserChannel is the channel a user's notifications are published on.
func UserChannel(userID uint) string {
	return fmt.Sprintf("notifications:user:%d", userID)
}

// event is the wire envelope on a user channel.
type event struct {
	Type    string          `json:"type"`
	Payload models.Activity `json:"payload"`
}

// PublishUser sends a raw payload to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, payload string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// PublishActivity implements service.ActivityPublisher. Failures are
// logged and dropped.
func (n *Notifier) PublishActivity(ctx context.Context, recipientID uint, a models.Activity) {
	if n.rdb == nil || !n.flags.Enabled(featureflags.ActivityEvents, recipientID) {
		return
	}

	body, err := json.Marshal(event{Type: a.Type, Payload: a})
	if err != nil {
		middleware.Logger.WarnContext(ctx, "failed to marshal activity", slog.String("type", a.Type), slog.String("error", err.Error()))
		return
	}
	if err := n.PublishUser(ctx, recipientID, string(body)); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish activity",
			slog.String("type", a.Type),
			slog.Uint64("recipient_id", uint64(recipientID)),
			slog.String("error", err.Error()))
	}
}
