package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/totegamma/artistdb/internal/domain"
)

const EventChannel = "artistdb:events"

// SignalService fans domain events out over redis pub/sub. With a nil
// client every method is a no-op.
type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

func (s *SignalService) Enabled() bool {
	return s != nil && s.rdb != nil
}

func (s *SignalService) Publish(ctx context.Context, event domain.Event) error {
	if !s.Enabled() {
		return nil
	}

	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, EventChannel, jsonstr).Err()
	if err != nil {
		return err
	}

	return nil
}

// Realtime forwards every event to output until ctx is done.
func (s *SignalService) Realtime(ctx context.Context, output chan<- domain.Event) {
	if !s.Enabled() {
		<-ctx.Done()
		return
	}

	pubsub := s.rdb.Subscribe(ctx, EventChannel)
	defer pubsub.Close()

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var event domain.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				slog.WarnContext(
					ctx, "malformed event",
					slog.String("error", err.Error()),
					slog.String("module", "signal"),
				)
				continue
			}
			select {
			case output <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}
