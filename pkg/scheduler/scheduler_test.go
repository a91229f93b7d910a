// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualScheduler(t *testing.T) {
	m := NewManual()
	var fired atomic.Int32

	first := m.Schedule(time.Hour, func() { fired.Add(1) })
	m.Schedule(time.Hour, func() { fired.Add(1) })
	assert.Equal(t, 2, m.Pending())

	assert.True(t, first.Stop())
	assert.False(t, first.Stop(), "second stop reports the task was already gone")
	assert.Equal(t, 1, m.Pending())

	m.FireAll()
	assert.Equal(t, int32(1), fired.Load(), "stopped tasks never fire")
	assert.Equal(t, 0, m.Pending())

	m.FireAll()
	assert.Equal(t, int32(1), fired.Load())
}

func TestRealSchedulerFires(t *testing.T) {
	done := make(chan struct{})
	New().Schedule(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduled task never fired")
	}
}

func TestRealSchedulerStop(t *testing.T) {
	var fired atomic.Bool
	task := New().Schedule(50*time.Millisecond, func() { fired.Store(true) })

	assert.True(t, task.Stop())
	time.Sleep(100 * time.Millisecond)
	assert.False(t, fired.Load())
}
