// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package pubsub carries pug lifecycle notifications from the core to the
// host's formatting layer. Delivery is in-process by default; an optional
// NATS upstream fans events out across instances.
package pubsub

import (
	"sync"
)

const (
	// EventCaptainsReady fires when all captain slots of a filled pug are
	// assigned and picking can begin.
	EventCaptainsReady = "captains_ready"
	// EventPugResolved fires when a pug is persisted and removed.
	EventPugResolved = "pug_resolved"
	// EventPugStalled fires when automatic captain selection cannot complete
	// and the pug awaits manual intervention.
	EventPugStalled = "pug_stalled"
)

// Event is one pug lifecycle notification.
type Event struct {
	Type         string `json:"type"`
	CommunityID  string `json:"community_id"`
	GameTypeName string `json:"game_type_name"`
	Reason       string `json:"reason,omitempty"`
}

// Upstream is an external broker the local pubsub can bridge to.
type Upstream interface {
	Publish(Event)
	Subscribe() chan Event
	Unsubscribe(chan Event)
}

// PubSub is a simple publish-subscribe fan-out. Subscribers that cannot keep
// up are skipped, never blocked on.
type PubSub struct {
	mu          sync.RWMutex
	subscribers []chan Event
	upstream    Upstream
}

func New() *PubSub {
	return &PubSub{subscribers: []chan Event{}}
}

// NewWithUpstream creates a PubSub that publishes through the upstream and
// forwards everything the upstream delivers to local subscribers.
func NewWithUpstream(upstream Upstream) *PubSub {
	ps := &PubSub{
		subscribers: []chan Event{},
		upstream:    upstream,
	}

	go func() {
		ch := upstream.Subscribe()
		for event := range ch {
			ps.publishLocal(event)
		}
	}()

	return ps
}

// Subscribe adds a subscriber and returns its receive channel.
func (ps *PubSub) Subscribe() chan Event {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ch := make(chan Event, 10)
	ps.subscribers = append(ps.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (ps *PubSub) Unsubscribe(ch chan Event) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	for i, sub := range ps.subscribers {
		if sub == ch {
			close(ch)
			ps.subscribers = append(ps.subscribers[:i], ps.subscribers[i+1:]...)
			break
		}
	}
}

// Publish delivers the event to all subscribers, through the upstream when
// one is configured.
func (ps *PubSub) Publish(event Event) {
	if ps.upstream != nil {
		ps.upstream.Publish(event)
		return
	}
	ps.publishLocal(event)
}

func (ps *PubSub) publishLocal(event Event) {
	ps.mu.RLock()
	subs := make([]chan Event, len(ps.subscribers))
	copy(subs, ps.subscribers)
	ps.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
			// slow subscriber, skip
		}
	}
}
