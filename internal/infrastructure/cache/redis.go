package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/echovault/echovault/pkg/config"
)

const refreshChannel = "echovault:refresh"

// NewRedisClient creates a redis client and verifies connectivity
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// RefreshEvent is published when a recording finishes processing so views
// can re-fetch without being coupled to the pipeline
type RefreshEvent struct {
	UserID      uuid.UUID `json:"user_id"`
	RecordingID uuid.UUID `json:"recording_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// RefreshBus broadcasts refresh signals over a redis pub/sub channel
type RefreshBus struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRefreshBus creates a refresh bus on the shared redis client
func NewRefreshBus(client *redis.Client, logger *zap.Logger) *RefreshBus {
	return &RefreshBus{client: client, logger: logger}
}

// PublishRecordingSaved emits a refresh event for the given user's views
func (b *RefreshBus) PublishRecordingSaved(ctx context.Context, userID, recordingID uuid.UUID) error {
	event := RefreshEvent{
		UserID:      userID,
		RecordingID: recordingID,
		OccurredAt:  time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal refresh event: %w", err)
	}
	if err := b.client.Publish(ctx, refreshChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish refresh event: %w", err)
	}
	if b.logger != nil {
		b.logger.Info("📢 Refresh signal published",
			zap.String("user_id", userID.String()),
			zap.String("recording_id", recordingID.String()),
		)
	}
	return nil
}

// Subscribe returns a channel of refresh events for the given user. The
// subscription ends when ctx is cancelled.
func (b *RefreshBus) Subscribe(ctx context.Context, userID uuid.UUID) (<-chan RefreshEvent, error) {
	sub := b.client.Subscribe(ctx, refreshChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe refresh channel: %w", err)
	}

	out := make(chan RefreshEvent, 8)
	go func() {
		defer close(out)
		defer sub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				var event RefreshEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					if b.logger != nil {
						b.logger.Warn("⚠️ Malformed refresh event", zap.Error(err))
					}
					continue
				}
				if event.UserID != userID {
					continue
				}
				select {
				case out <- event:
				default:
					// Slow consumer, drop rather than block the bus
					if b.logger != nil {
						b.logger.Warn("⚠️ Dropping refresh event for slow consumer",
							zap.String("user_id", userID.String()),
						)
					}
				}
			}
		}
	}()

	return out, nil
}
