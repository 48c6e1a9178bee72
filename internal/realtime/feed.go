package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/araf-Mahmud-2004/NearNest/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Feed is the pub/sub transport underneath the bridge. One feed subscription
// exists per channel key regardless of how many local listeners share it.
type Feed interface {
	Publish(ctx context.Context, channel string, ev Event) error
	Subscribe(ctx context.Context, channel string) (Subscription, error)
}

// Subscription is a live feed registration. Events is closed when the
// subscription ends, whether by Close or by transport failure.
type Subscription interface {
	Events() <-chan Event
	Close() error
}

const feedKeyPrefix = "nearnest:feed:"

// RedisFeed carries change events over Redis pub/sub so every API instance
// sees writes made by its peers.
type RedisFeed struct {
	client *redis.Client
}

func NewRedisFeed(client *redis.Client) *RedisFeed {
	return &RedisFeed{client: client}
}

func (f *RedisFeed) Publish(ctx context.Context, channel string, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return f.client.Publish(ctx, feedKeyPrefix+channel, data).Err()
}

func (f *RedisFeed) Subscribe(ctx context.Context, channel string) (Subscription, error) {
	pubsub := f.client.Subscribe(ctx, feedKeyPrefix+channel)

	// Confirm the subscription before handing it out, so a dead Redis
	// surfaces here instead of as a silently quiet channel.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	sub := &redisSubscription{
		pubsub: pubsub,
		events: make(chan Event, 16),
	}
	go sub.pump(channel)
	return sub, nil
}

type redisSubscription struct {
	pubsub *redis.PubSub
	events chan Event
}

func (s *redisSubscription) pump(channel string) {
	defer close(s.events)
	for msg := range s.pubsub.Channel() {
		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			logger.Warn().Err(err).Str("channel", channel).Msg("Dropping malformed change-feed event")
			continue
		}
		select {
		case s.events <- ev:
		default:
			// Slow consumer; drop rather than stall the feed. Listeners
			// re-fetch full lists on notify, so a dropped event costs one
			// refresh, not correctness.
			logger.Warn().Str("channel", channel).Msg("Change-feed listener lagging, event dropped")
		}
	}
}

func (s *redisSubscription) Events() <-chan Event { return s.events }

func (s *redisSubscription) Close() error { return s.pubsub.Close() }

// LocalFeed is an in-process feed used in tests and as the fallback when
// Redis is not configured. Single-instance deployments lose nothing.
type LocalFeed struct {
	mu   sync.Mutex
	subs map[string]map[*localSubscription]struct{}
}

func NewLocalFeed() *LocalFeed {
	return &LocalFeed{subs: make(map[string]map[*localSubscription]struct{})}
}

func (f *LocalFeed) Publish(ctx context.Context, channel string, ev Event) error {
	f.mu.Lock()
	targets := make([]*localSubscription, 0, len(f.subs[channel]))
	for sub := range f.subs[channel] {
		targets = append(targets, sub)
	}
	f.mu.Unlock()

	for _, sub := range targets {
		sub.send(ev)
	}
	return nil
}

func (f *LocalFeed) Subscribe(ctx context.Context, channel string) (Subscription, error) {
	sub := &localSubscription{
		feed:    f,
		channel: channel,
		events:  make(chan Event, 16),
	}
	f.mu.Lock()
	if f.subs[channel] == nil {
		f.subs[channel] = make(map[*localSubscription]struct{})
	}
	f.subs[channel][sub] = struct{}{}
	f.mu.Unlock()
	return sub, nil
}

type localSubscription struct {
	feed    *LocalFeed
	channel string
	events  chan Event

	// mu orders send against Close: a publisher that snapshotted this
	// subscription before a concurrent Close must not send on the closed
	// channel.
	mu     sync.Mutex
	closed bool
}

func (s *localSubscription) send(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.events <- ev:
	default:
	}
}

func (s *localSubscription) Events() <-chan Event { return s.events }

func (s *localSubscription) Close() error {
	s.feed.mu.Lock()
	delete(s.feed.subs[s.channel], s)
	s.feed.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
	return nil
}
