package websocket

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultRelayChannel is the Redis pub/sub channel shared by all replicas
const DefaultRelayChannel = "campusportal:events"

// RedisRelay fans events out across API replicas. Publish sends the frame to
// a Redis channel, and Run re-publishes every frame received on that channel
// into the local hub, including frames this replica sent.
//
// Once Run has failed, Publish goes straight to the local hub so sessions on
// this replica keep receiving events.
type RedisRelay struct {
	client  redis.UniversalClient
	channel string
	hub     *Hub
	now     func() time.Time
	logger  zerolog.Logger

	// Set when frames from Redis no longer reach the hub
	localOnly atomic.Bool
}

// NewRedisRelay creates a relay bound to the local hub
func NewRedisRelay(client redis.UniversalClient, channel string, hub *Hub, logger zerolog.Logger) *RedisRelay {
	if channel == "" {
		channel = DefaultRelayChannel
	}
	return &RedisRelay{
		client:  client,
		channel: channel,
		hub:     hub,
		now:     time.Now,
		logger:  logger,
	}
}

// Publish implements Publisher
func (r *RedisRelay) Publish(ctx context.Context, event Event) error {
	if r.localOnly.Load() {
		return r.hub.Publish(ctx, event)
	}

	payload, err := EncodeFrame(event, r.now())
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		r.logger.Warn().
			Err(err).
			Str("event", string(event.Name)).
			Msg("Redis publish failed, delivering to local sessions only")
		return r.hub.PublishFrame(ctx, payload)
	}
	return nil
}

// LocalOnly reports whether the relay has fallen back to the local hub
func (r *RedisRelay) LocalOnly() bool {
	return r.localOnly.Load()
}

// Run forwards relayed frames into the hub until ctx is cancelled. If the
// subscription fails or ends early the relay switches to local delivery and
// Run returns the cause.
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	// Wait for the subscription to be confirmed before reporting ready.
	if _, err := sub.Receive(ctx); err != nil {
		return r.fallBack(ctx, err)
	}
	r.logger.Info().Str("channel", r.channel).Msg("Redis relay subscribed")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return r.fallBack(ctx, errRelayClosed)
			}
			if err := r.hub.PublishFrame(ctx, []byte(msg.Payload)); err != nil {
				r.logger.Warn().
					Err(err).
					Str("channel", msg.Channel).
					Msg("Dropping relayed frame")
			}
		}
	}
}

var errRelayClosed = errors.New("redis subscription closed")

func (r *RedisRelay) fallBack(ctx context.Context, cause error) error {
	if ctx.Err() != nil {
		return nil
	}
	r.localOnly.Store(true)
	r.logger.Error().
		Err(cause).
		Str("channel", r.channel).
		Msg("Redis relay lost, publishing to local sessions only")
	return cause
}
