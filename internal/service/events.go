package service

import (
	"context"
	"strconv"

	"github.com/Skotchmaster/staff_records/internal/events"
	"github.com/Skotchmaster/staff_records/internal/logging"
)

func idKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// publish logs and swallows delivery errors.
func publish(ctx context.Context, p events.Publisher, key, eventType string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, key, eventType, payload); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "event", eventType, "key", key, "error", err)
	}
}
