package realtime

import (
	"context"
	"sync"

	apperrors "github.com/araf-Mahmud-2004/NearNest/pkg/errors"
	"github.com/araf-Mahmud-2004/NearNest/pkg/logger"
)

// ChannelState is the observable lifecycle of one logical channel.
type ChannelState string

const (
	StateUnsubscribed  ChannelState = "UNSUBSCRIBED"
	StateSubscribing   ChannelState = "SUBSCRIBING"
	StateActive        ChannelState = "ACTIVE"
	StateUnsubscribing ChannelState = "UNSUBSCRIBING"
	// StateError marks a channel whose feed subscription failed or died.
	// Callers can distinguish "no events occurred" from "the subscription
	// is dead" by polling Status.
	StateError ChannelState = "ERROR"
)

// FilterFunc narrows which events a listener receives. nil accepts all.
type FilterFunc func(Event) bool

// Bridge multiplexes the change feed: one feed subscription per channel key,
// fanned out to any number of local listeners with reference-counted
// teardown.
type Bridge struct {
	feed Feed

	mu       sync.Mutex
	channels map[string]*bridgeChannel
	nextID   int
	closed   bool
}

type bridgeChannel struct {
	state     ChannelState
	listeners map[int]listener
	sub       Subscription
	// ready is closed once the feed registration attempt settles, whatever
	// the outcome. Listeners that attach mid-registration wait on it.
	ready chan struct{}
}

type listener struct {
	filter  FilterFunc
	onEvent func(Event)
}

func NewBridge(feed Feed) *Bridge {
	return &Bridge{
		feed:     feed,
		channels: make(map[string]*bridgeChannel),
	}
}

// Subscribe registers onEvent on the channel, opening the underlying feed
// subscription if this is the first listener. The returned function removes
// the listener and tears the feed subscription down when the listener set
// becomes empty.
func (b *Bridge) Subscribe(channelKey string, filter FilterFunc, onEvent func(Event)) (func(), error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return func() {}, apperrors.Subscription("realtime bridge is closed")
	}

	ch, ok := b.channels[channelKey]
	if !ok || ch.state == StateError {
		ch = &bridgeChannel{
			state:     StateSubscribing,
			listeners: make(map[int]listener),
			ready:     make(chan struct{}),
		}
		b.channels[channelKey] = ch
		b.mu.Unlock()

		sub, err := b.feed.Subscribe(context.Background(), channelKey)

		b.mu.Lock()
		if err != nil {
			ch.state = StateError
			close(ch.ready)
			b.mu.Unlock()
			logger.Error().Err(err).Str("channel", channelKey).Msg("Change-feed subscription failed")
			return func() {}, apperrors.Subscription("failed to subscribe to " + channelKey)
		}
		ch.sub = sub
		ch.state = StateActive
		close(ch.ready)
		go b.pump(channelKey, ch, sub)
	}

	b.nextID++
	id := b.nextID
	ch.listeners[id] = listener{filter: filter, onEvent: onEvent}
	b.mu.Unlock()

	// A listener that attached while another caller's registration was still
	// in flight must share that registration's outcome, not assume success.
	<-ch.ready
	b.mu.Lock()
	if ch.state == StateError {
		delete(ch.listeners, id)
		b.mu.Unlock()
		return func() {}, apperrors.Subscription("failed to subscribe to " + channelKey)
	}
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.removeListener(channelKey, id) })
	}, nil
}

func (b *Bridge) removeListener(channelKey string, id int) {
	b.mu.Lock()
	ch, ok := b.channels[channelKey]
	if !ok {
		b.mu.Unlock()
		return
	}
	delete(ch.listeners, id)
	if len(ch.listeners) > 0 {
		b.mu.Unlock()
		return
	}
	ch.state = StateUnsubscribing
	sub := ch.sub
	delete(b.channels, channelKey)
	b.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
}

func (b *Bridge) pump(channelKey string, ch *bridgeChannel, sub Subscription) {
	for ev := range sub.Events() {
		b.mu.Lock()
		targets := make([]listener, 0, len(ch.listeners))
		for _, l := range ch.listeners {
			targets = append(targets, l)
		}
		b.mu.Unlock()

		for _, l := range targets {
			if l.filter != nil && !l.filter(ev) {
				continue
			}
			l.onEvent(ev)
		}
	}

	// Events closed. Normal during teardown; anything else means the feed
	// died underneath live listeners.
	b.mu.Lock()
	if current, ok := b.channels[channelKey]; ok && current == ch && ch.state == StateActive {
		ch.state = StateError
		logger.Error().Str("channel", channelKey).Msg("Change-feed subscription died")
	}
	b.mu.Unlock()
}

// Status reports the state of a channel key. Unknown keys are UNSUBSCRIBED.
func (b *Bridge) Status(channelKey string) ChannelState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.channels[channelKey]; ok {
		return ch.state
	}
	return StateUnsubscribed
}

// Publish pushes a row-change event onto a channel. Failures are logged and
// swallowed: a write that already committed must not fail because its
// notification could not be delivered.
func (b *Bridge) Publish(channelKey string, ev Event) {
	if b == nil {
		return
	}
	if err := b.feed.Publish(context.Background(), channelKey, ev); err != nil {
		logger.Warn().Err(err).Str("channel", channelKey).Msg("Failed to publish change-feed event")
	}
}

// Close tears down every channel. Subsequent Subscribe calls fail.
func (b *Bridge) Close() {
	b.mu.Lock()
	b.closed = true
	subs := make([]Subscription, 0, len(b.channels))
	for key, ch := range b.channels {
		ch.state = StateUnsubscribing
		if ch.sub != nil {
			subs = append(subs, ch.sub)
		}
		delete(b.channels, key)
	}
	b.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}

// Default is the process-wide bridge wired up in main. Services publish
// through it; a nil default (unit tests) makes publishing a no-op.
var Default *Bridge

// Publish emits onto the default bridge if one is configured.
func Publish(channelKey string, ev Event) {
	Default.Publish(channelKey, ev)
}

// Channel key helpers. Keys are shared between publishers (services) and
// subscribers (socket relays, hooks).

func MessagesChannel(userID string) string      { return "messages_" + userID }
func ConversationsChannel(userID string) string { return "conversations_" + userID }
func NotificationsChannel(userID string) string { return "notifications_" + userID }
func InteractionsChannel(userID string) string  { return "user_interactions_" + userID }

// PostInteractionsChannel is shared by all post owners; listeners narrow it
// with a post-id filter.
const PostInteractionsChannel = "post_interactions"

const (
	ListingsChannel = "listings_updates"
	EventsChannel   = "events_updates"
	ProfilesChannel = "profiles_updates"
)

// PostIDFilter accepts interaction events whose post_id is in ids.
func PostIDFilter(ids []string) FilterFunc {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(ev Event) bool {
		_, ok := set[ev.PayloadField("post_id")]
		return ok
	}
}
