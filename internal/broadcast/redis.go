package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Event is a published calculation result.
type Event struct {
	ID     string    `json:"id"`
	Task   string    `json:"task"`
	A      int       `json:"a"`
	B      int       `json:"b"`
	Result int       `json:"result"`
	At     time.Time `json:"at"`
}

// NewEvent stamps a result with a fresh ID and the current time.
func NewEvent(task string, a, b, result int) Event {
	return Event{
		ID:     uuid.NewString(),
		Task:   task,
		A:      a,
		B:      b,
		Result: result,
		At:     time.Now().UTC(),
	}
}

type publishClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Publisher publishes events to a Redis channel.
type Publisher struct {
	client  publishClient
	channel string
}

// NewPublisher returns a Publisher using client.
func NewPublisher(client publishClient, channel string) *Publisher {
	return &Publisher{client: client, channel: channel}
}

// Publish encodes event as JSON and publishes it.
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.channel, err)
	}
	return nil
}

// Forward relays every message payload to hub until messages is closed or
// ctx is done.
func Forward(ctx context.Context, messages <-chan *redis.Message, hub *Hub) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			if err := hub.Broadcast(ctx, []byte(msg.Payload)); err != nil {
				return err
			}
		}
	}
}

// Options configure Run.
type Options struct {
	RedisAddr string
	Channel   string
	Addr      string
	Logger    *slog.Logger
}

// Run serves the live feed: it subscribes to the Redis channel and serves
// WebSocket clients on opts.Addr until ctx is done.
func Run(ctx context.Context, opts Options) error {
	rdb := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to reach redis at %s: %w", opts.RedisAddr, err)
	}

	hub := NewHub()
	go hub.Run(ctx)

	pubsub := rdb.Subscribe(ctx, opts.Channel)
	defer pubsub.Close()

	go func() {
		if err := Forward(ctx, pubsub.Channel(), hub); err != nil && ctx.Err() == nil {
			opts.Logger.Error("Redis relay stopped.", "error", err)
		}
	}()

	opts.Logger.Info("Relaying results.", "redis", opts.RedisAddr, "channel", opts.Channel)
	return NewServer(hub, opts.Logger).ListenAndServe(ctx, opts.Addr)
}
