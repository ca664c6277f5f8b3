// Package redis forwards glossary change events to a Redis channel and keeps a
// short backlog of them for late subscribers.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/heartmarshall/glossary-backend/internal/domain"
)

const defaultBacklog = 100

// Publisher writes change events to a pub/sub channel.
type Publisher struct {
	client  *goredis.Client
	channel string
	backlog int64
}

// NewPublisher connects to redisURL and verifies the connection.
func NewPublisher(ctx context.Context, redisURL, channel string, backlog int) (*Publisher, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewPublisherWithClient(client, channel, backlog), nil
}

// NewPublisherWithClient wraps an existing client.
func NewPublisherWithClient(client *goredis.Client, channel string, backlog int) *Publisher {
	if backlog <= 0 {
		backlog = defaultBacklog
	}
	return &Publisher{client: client, channel: channel, backlog: int64(backlog)}
}

// Channel returns the pub/sub channel name.
func (p *Publisher) Channel() string { return p.channel }

// Publish sends ev to subscribers and pushes it onto the capped backlog list.
func (p *Publisher) Publish(ctx context.Context, ev domain.ChangeEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}

	_, err = p.client.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Publish(ctx, p.channel, payload)
		pipe.LPush(ctx, p.backlogKey(), payload)
		pipe.LTrim(ctx, p.backlogKey(), 0, p.backlog-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("publish change event: %w", err)
	}
	return nil
}

// Recent returns up to n backlog events, newest first.
func (p *Publisher) Recent(ctx context.Context, n int) ([]domain.ChangeEvent, error) {
	if n <= 0 {
		return nil, nil
	}
	raw, err := p.client.LRange(ctx, p.backlogKey(), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read change backlog: %w", err)
	}
	out := make([]domain.ChangeEvent, 0, len(raw))
	for _, item := range raw {
		var ev domain.ChangeEvent
		if err := json.Unmarshal([]byte(item), &ev); err != nil {
			return nil, fmt.Errorf("decode change event: %w", err)
		}
		out = append(out, ev)
	}
	return out, nil
}

// Subscribe delivers events from the channel to fn until ctx is done.
// It returns once the subscription is confirmed.
func (p *Publisher) Subscribe(ctx context.Context, fn func(domain.ChangeEvent)) error {
	sub := p.client.Subscribe(ctx, p.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", p.channel, err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev domain.ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					continue
				}
				fn(ev)
			}
		}
	}()
	return nil
}

// Ping checks the connection.
func (p *Publisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close releases the client.
func (p *Publisher) Close() error {
	return p.client.Close()
}

func (p *Publisher) backlogKey() string {
	return p.channel + ":backlog"
}
