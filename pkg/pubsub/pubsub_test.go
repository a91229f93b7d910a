// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package pubsub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveEvent(t *testing.T, ch chan Event) Event {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func TestPubSub_LocalDelivery(t *testing.T) {
	ps := New()
	first := ps.Subscribe()
	second := ps.Subscribe()

	published := Event{Type: EventCaptainsReady, CommunityID: "community1", GameTypeName: "testmode"}
	ps.Publish(published)

	assert.Equal(t, published, receiveEvent(t, first))
	assert.Equal(t, published, receiveEvent(t, second))
}

func TestPubSub_UnsubscribeClosesChannel(t *testing.T) {
	ps := New()
	ch := ps.Subscribe()
	ps.Unsubscribe(ch)

	_, open := <-ch
	assert.False(t, open)

	ps.Publish(Event{Type: EventPugResolved})
}

func TestPubSub_SlowSubscriberIsSkipped(t *testing.T) {
	ps := New()
	ch := ps.Subscribe()

	for i := 0; i < 20; i++ {
		ps.Publish(Event{Type: EventPugResolved})
	}

	drained := 0
	for {
		select {
		case <-ch:
			drained++
			continue
		default:
		}
		break
	}
	assert.LessOrEqual(t, drained, 10, "full buffers drop instead of blocking the publisher")
}

func TestPubSub_UpstreamRoundTrip(t *testing.T) {
	upstream := NewMockUpstream()
	ps := NewWithUpstream(upstream)
	ch := ps.Subscribe()

	published := Event{Type: EventPugStalled, CommunityID: "community1", GameTypeName: "testmode", Reason: "stall_empty_candidate_pool"}
	ps.Publish(published)

	assert.Equal(t, published, receiveEvent(t, ch))
	require.Len(t, upstream.Published(), 1)
	assert.Equal(t, published, upstream.Published()[0])
}
