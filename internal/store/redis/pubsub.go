package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/gosuda/actionfeed/internal/domain"
)

type PubSub struct {
	client *redis.Client
}

func New(ctx context.Context, addr, password string, db int) (*PubSub, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &PubSub{client: client}, nil
}

func (ps *PubSub) Close() error {
	if err := ps.client.Close(); err != nil {
		return fmt.Errorf("redis.PubSub.Close: %w", err)
	}
	return nil
}

func (ps *PubSub) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := ps.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("redis.PubSub.Publish: %w", err)
	}
	return nil
}

func (ps *PubSub) Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error) {
	sub := ps.client.Subscribe(ctx, channel)

	// Wait for subscription confirmation.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("redis.PubSub.Subscribe: receive confirmation: %w", err)
	}

	out := make(chan []byte, 64)
	redisCh := sub.Channel()

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-redisCh:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	cleanup := func() {
		_ = sub.Close()
	}

	return out, cleanup, nil
}

// PublishEvent publishes a feed event on its company's channel.
func (ps *PubSub) PublishEvent(ctx context.Context, ev domain.FeedEvent) error {
	payload, err := EncodeEvent(ev)
	if err != nil {
		return fmt.Errorf("redis.PubSub.PublishEvent: %w", err)
	}
	return ps.Publish(ctx, CompanyFeedChannel(ev.CompanyID), payload)
}

// Acquire sets key for ttl unless it is already set. It reports whether the key was
// acquired; false means another holder is inside the window.
func (ps *PubSub) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := ps.client.SetNX(ctx, key, time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis.PubSub.Acquire: %w", err)
	}
	return ok, nil
}

// Ping reports whether the server is reachable.
func (ps *PubSub) Ping(ctx context.Context) error {
	if err := ps.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis.PubSub.Ping: %w", err)
	}
	return nil
}

// EncodeEvent serializes a feed event for the wire.
func EncodeEvent(ev domain.FeedEvent) ([]byte, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("redis.EncodeEvent: %w", err)
	}
	return b, nil
}

// DecodeEvent parses a feed event published by PublishEvent.
func DecodeEvent(payload []byte) (domain.FeedEvent, error) {
	var ev domain.FeedEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return ev, fmt.Errorf("redis.DecodeEvent: %w", err)
	}
	return ev, nil
}

// CompanyFeedChannel returns the Redis channel name for a company's feed events.
func CompanyFeedChannel(companyID uuid.UUID) string {
	return "feed:" + companyID.String()
}

// ResendCooldownKey returns the key guarding repeated invite resends to one user.
func ResendCooldownKey(userID uuid.UUID) string {
	return "resend:" + userID.String()
}
