// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package pubsub

import (
	"sync"
)

// MockUpstream is an in-memory Upstream for tests. Publish loops straight back
// to subscribers, mimicking a broker echoing the instance's own messages.
type MockUpstream struct {
	mu          sync.RWMutex
	subscribers []chan Event
	published   []Event
}

func NewMockUpstream() *MockUpstream {
	return &MockUpstream{subscribers: []chan Event{}}
}

func (m *MockUpstream) Publish(event Event) {
	m.mu.Lock()
	m.published = append(m.published, event)
	subs := make([]chan Event, len(m.subscribers))
	copy(subs, m.subscribers)
	m.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}

func (m *MockUpstream) Subscribe() chan Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan Event, 100)
	m.subscribers = append(m.subscribers, ch)
	return ch
}

func (m *MockUpstream) Unsubscribe(ch chan Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			close(ch)
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			break
		}
	}
}

// Published returns every event sent through the mock so far.
func (m *MockUpstream) Published() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Event, len(m.published))
	copy(out, m.published)
	return out
}
