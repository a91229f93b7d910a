// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package pubsub

import (
	"encoding/json"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// NATSUpstream bridges pug events over a NATS subject so multiple coordinator
// instances observe the same lifecycle notifications.
type NATSUpstream struct {
	nc          *nats.Conn
	sub         *nats.Subscription
	subject     string
	subscribers []chan Event
	mu          sync.RWMutex
}

func NewNATSUpstream(natsURL, subject string) (*NATSUpstream, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, err
	}

	up := &NATSUpstream{
		nc:          nc,
		subject:     subject,
		subscribers: make([]chan Event, 0),
	}

	sub, err := nc.Subscribe(subject, func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logrus.WithError(err).Warn("dropping undecodable pug event from NATS")
			return
		}
		up.deliver(event)
	})
	if err != nil {
		nc.Close()
		return nil, err
	}
	up.sub = sub

	return up, nil
}

func (p *NATSUpstream) Publish(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logrus.WithError(err).Error("failed to marshal pug event")
		return
	}
	if err := p.nc.Publish(p.subject, data); err != nil {
		logrus.WithError(err).Error("failed to publish pug event to NATS")
	}
}

func (p *NATSUpstream) Subscribe() chan Event {
	ch := make(chan Event, 100)

	p.mu.Lock()
	p.subscribers = append(p.subscribers, ch)
	p.mu.Unlock()

	return ch
}

func (p *NATSUpstream) Unsubscribe(ch chan Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, sub := range p.subscribers {
		if sub == ch {
			p.subscribers = append(p.subscribers[:i], p.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

func (p *NATSUpstream) deliver(event Event) {
	p.mu.RLock()
	subs := make([]chan Event, len(p.subscribers))
	copy(subs, p.subscribers)
	p.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub <- event:
		default:
		}
	}
}

func (p *NATSUpstream) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sub != nil {
		_ = p.sub.Unsubscribe()
	}
	for _, sub := range p.subscribers {
		close(sub)
	}
	p.subscribers = nil

	if p.nc != nil {
		p.nc.Close()
	}
}
