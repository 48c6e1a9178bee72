package realtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func waitEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func assertNoEvent(t *testing.T, ch <-chan Event) {
	t.Helper()
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBridge_DeliversToListener(t *testing.T) {
	bridge := NewBridge(NewLocalFeed())
	defer bridge.Close()

	got := make(chan Event, 1)
	unsubscribe, err := bridge.Subscribe("messages_u1", nil, func(ev Event) { got <- ev })
	assert.NoError(t, err)
	defer unsubscribe()

	bridge.Publish("messages_u1", NewEvent(KindMessage, ChangeInsert, map[string]string{"id": "m1"}))

	ev := waitEvent(t, got)
	assert.Equal(t, KindMessage, ev.Kind)
	assert.Equal(t, ChangeInsert, ev.Change)
	assert.Equal(t, "m1", ev.PayloadField("id"))
}

func TestBridge_ChannelIsolation(t *testing.T) {
	bridge := NewBridge(NewLocalFeed())
	defer bridge.Close()

	got := make(chan Event, 1)
	unsubscribe, _ := bridge.Subscribe("messages_u1", nil, func(ev Event) { got <- ev })
	defer unsubscribe()

	bridge.Publish("messages_u2", NewEvent(KindMessage, ChangeInsert, map[string]string{"id": "m1"}))
	assertNoEvent(t, got)
}

func TestBridge_SharedChannelFanout(t *testing.T) {
	bridge := NewBridge(NewLocalFeed())
	defer bridge.Close()

	got1 := make(chan Event, 1)
	got2 := make(chan Event, 1)
	u1, _ := bridge.Subscribe("listings_updates", nil, func(ev Event) { got1 <- ev })
	u2, _ := bridge.Subscribe("listings_updates", nil, func(ev Event) { got2 <- ev })
	defer u1()
	defer u2()

	bridge.Publish("listings_updates", NewEvent(KindListingUpdate, ChangeUpdate, map[string]string{"id": "l1"}))

	assert.Equal(t, "l1", waitEvent(t, got1).PayloadField("id"))
	assert.Equal(t, "l1", waitEvent(t, got2).PayloadField("id"))
}

func TestBridge_PostIDFilter(t *testing.T) {
	bridge := NewBridge(NewLocalFeed())
	defer bridge.Close()

	got := make(chan Event, 2)
	unsubscribe, _ := bridge.Subscribe(PostInteractionsChannel, PostIDFilter([]string{"p1", "p2"}),
		func(ev Event) { got <- ev })
	defer unsubscribe()

	bridge.Publish(PostInteractionsChannel, NewEvent(KindInteraction, ChangeInsert, map[string]string{"post_id": "p9"}))
	bridge.Publish(PostInteractionsChannel, NewEvent(KindInteraction, ChangeInsert, map[string]string{"post_id": "p2"}))

	ev := waitEvent(t, got)
	assert.Equal(t, "p2", ev.PayloadField("post_id"))
	assertNoEvent(t, got)
}

func TestBridge_StatusLifecycle(t *testing.T) {
	bridge := NewBridge(NewLocalFeed())
	defer bridge.Close()

	assert.Equal(t, StateUnsubscribed, bridge.Status("messages_u1"))

	unsubscribe, err := bridge.Subscribe("messages_u1", nil, func(Event) {})
	assert.NoError(t, err)
	assert.Equal(t, StateActive, bridge.Status("messages_u1"))

	unsubscribe()
	assert.Equal(t, StateUnsubscribed, bridge.Status("messages_u1"))
}

func TestBridge_RefcountedTeardown(t *testing.T) {
	bridge := NewBridge(NewLocalFeed())
	defer bridge.Close()

	u1, _ := bridge.Subscribe("messages_u1", nil, func(Event) {})
	u2, _ := bridge.Subscribe("messages_u1", nil, func(Event) {})

	// First unsubscribe leaves the channel up for the remaining listener.
	u1()
	assert.Equal(t, StateActive, bridge.Status("messages_u1"))

	u2()
	assert.Equal(t, StateUnsubscribed, bridge.Status("messages_u1"))

	// Double-unsubscribe is safe.
	u1()
	u2()
}

type failingFeed struct{}

func (failingFeed) Publish(ctx context.Context, channel string, ev Event) error {
	return errors.New("feed down")
}

func (failingFeed) Subscribe(ctx context.Context, channel string) (Subscription, error) {
	return nil, errors.New("feed down")
}

func TestBridge_SubscribeFailureIsObservable(t *testing.T) {
	bridge := NewBridge(failingFeed{})
	defer bridge.Close()

	_, err := bridge.Subscribe("messages_u1", nil, func(Event) {})
	assert.Error(t, err)
	assert.Equal(t, StateError, bridge.Status("messages_u1"))

	// An errored channel is retried, not reused.
	_, err = bridge.Subscribe("messages_u1", nil, func(Event) {})
	assert.Error(t, err)
	assert.Equal(t, StateError, bridge.Status("messages_u1"))
}

func TestBridge_FeedDeathMarksError(t *testing.T) {
	feed := NewLocalFeed()
	bridge := NewBridge(feed)
	defer bridge.Close()

	_, err := bridge.Subscribe("messages_u1", nil, func(Event) {})
	assert.NoError(t, err)

	// Kill the underlying subscription out from under the bridge.
	feed.mu.Lock()
	for sub := range feed.subs["messages_u1"] {
		go sub.Close()
	}
	feed.mu.Unlock()

	assert.Eventually(t, func() bool {
		return bridge.Status("messages_u1") == StateError
	}, 2*time.Second, 10*time.Millisecond)
}

// gatedFeed blocks Subscribe until the test releases it with an outcome.
type gatedFeed struct {
	outcome chan error
	local   *LocalFeed
}

func (f *gatedFeed) Publish(ctx context.Context, channel string, ev Event) error {
	return f.local.Publish(ctx, channel, ev)
}

func (f *gatedFeed) Subscribe(ctx context.Context, channel string) (Subscription, error) {
	if err := <-f.outcome; err != nil {
		return nil, err
	}
	return f.local.Subscribe(ctx, channel)
}

func TestBridge_LateJoinerSharesRegistrationFailure(t *testing.T) {
	// Buffered: if the second subscriber loses the race and opens its own
	// registration instead of joining the pending one, it consumes the
	// second outcome rather than deadlocking.
	feed := &gatedFeed{outcome: make(chan error, 2), local: NewLocalFeed()}
	bridge := NewBridge(feed)
	defer bridge.Close()

	errs := make(chan error, 2)

	// First subscriber opens the channel and blocks inside the feed.
	go func() {
		_, err := bridge.Subscribe("messages_u1", nil, func(Event) {})
		errs <- err
	}()

	// Second subscriber lands while the registration is still in flight.
	assert.Eventually(t, func() bool {
		return bridge.Status("messages_u1") == StateSubscribing
	}, 2*time.Second, 5*time.Millisecond)
	go func() {
		_, err := bridge.Subscribe("messages_u1", nil, func(Event) {})
		errs <- err
	}()

	// The registration fails; both callers must see the failure.
	feed.outcome <- errors.New("feed down")
	feed.outcome <- errors.New("feed down")

	for i := 0; i < 2; i++ {
		select {
		case err := <-errs:
			assert.Error(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for subscribe result")
		}
	}
	assert.Equal(t, StateError, bridge.Status("messages_u1"))
}

func TestBridge_LateJoinerSharesRegistrationSuccess(t *testing.T) {
	feed := &gatedFeed{outcome: make(chan error), local: NewLocalFeed()}
	bridge := NewBridge(feed)
	defer bridge.Close()

	got := make(chan Event, 2)
	errs := make(chan error, 2)

	go func() {
		_, err := bridge.Subscribe("messages_u1", nil, func(ev Event) { got <- ev })
		errs <- err
	}()
	assert.Eventually(t, func() bool {
		return bridge.Status("messages_u1") == StateSubscribing
	}, 2*time.Second, 5*time.Millisecond)
	go func() {
		_, err := bridge.Subscribe("messages_u1", nil, func(ev Event) { got <- ev })
		errs <- err
	}()

	feed.outcome <- nil

	for i := 0; i < 2; i++ {
		assert.NoError(t, <-errs)
	}
	assert.Equal(t, StateActive, bridge.Status("messages_u1"))

	bridge.Publish("messages_u1", NewEvent(KindMessage, ChangeInsert, map[string]string{"id": "m1"}))
	assert.Equal(t, "m1", waitEvent(t, got).PayloadField("id"))
	assert.Equal(t, "m1", waitEvent(t, got).PayloadField("id"))
}

func TestBridge_ClosedBridgeRejectsSubscribe(t *testing.T) {
	bridge := NewBridge(NewLocalFeed())
	bridge.Close()

	_, err := bridge.Subscribe("messages_u1", nil, func(Event) {})
	assert.Error(t, err)
}

func TestPublish_NilDefaultIsNoop(t *testing.T) {
	old := Default
	Default = nil
	defer func() { Default = old }()

	// Must not panic.
	Publish("messages_u1", NewEvent(KindMessage, ChangeInsert, map[string]string{"id": "m1"}))
}
