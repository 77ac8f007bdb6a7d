package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"randomizer/internal/core/toggler"

	"github.com/redis/rueidis"
)

// Message is the payload published for every toggle.
type Message struct {
	State  bool   `json:"state"`
	Toggle uint64 `json:"toggle"`
	At     string `json:"at"`
}

// RedisPublisher broadcasts toggles on a Redis channel.
type RedisPublisher struct {
	Client  rueidis.Client
	Channel string
	// Timeout bounds a single PUBLISH. Zero means no limit.
	Timeout time.Duration
}

// Dial connects to the Redis server at addr and checks the connection.
func Dial(ctx context.Context, addr string) (rueidis.Client, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}

// Actions returns the on and off actions publishing the new state. toggles
// reports the toggle number at invocation time.
func (publisher *RedisPublisher) Actions(ctx context.Context, toggles func() uint64) (on, off toggler.Action) {
	on = func() error {
		return publisher.Publish(ctx, true, toggles())
	}
	off = func() error {
		return publisher.Publish(ctx, false, toggles())
	}
	return on, off
}

// Publish sends a single toggle message.
func (publisher *RedisPublisher) Publish(ctx context.Context, state bool, toggle uint64) error {
	payload, err := EncodeMessage(state, toggle, time.Now())
	if err != nil {
		return err
	}

	if publisher.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, publisher.Timeout)
		defer cancel()
	}

	cmd := publisher.Client.B().Publish().Channel(publisher.Channel).Message(payload).Build()
	if err := publisher.Client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", publisher.Channel, err)
	}
	return nil
}

// EncodeMessage builds the JSON payload for a toggle.
func EncodeMessage(state bool, toggle uint64, at time.Time) (string, error) {
	data, err := json.Marshal(Message{
		State:  state,
		Toggle: toggle,
		At:     at.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return "", fmt.Errorf("encode message: %w", err)
	}
	return string(data), nil
}
