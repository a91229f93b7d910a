// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package scheduler provides a cancelable deferred-task abstraction. The pug
// core has exactly one suspension point, the automatic captain selection
// timer, and tests need to fire it without waiting on the wall clock.
package scheduler

import (
	"sync"
	"time"
)

// Task is a handle to a scheduled callback. Stop is safe to call multiple
// times and after the callback has fired.
type Task interface {
	Stop() bool
}

// Scheduler defers callbacks. The zero-dependency implementation wraps
// time.AfterFunc; ManualScheduler lets tests fire tasks explicitly.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Task
}

type realScheduler struct{}

// New returns a wall-clock scheduler.
func New() Scheduler {
	return realScheduler{}
}

func (realScheduler) Schedule(delay time.Duration, fn func()) Task {
	return time.AfterFunc(delay, fn)
}

// ManualScheduler queues tasks until the test fires them.
type ManualScheduler struct {
	mu    sync.Mutex
	next  int
	tasks map[int]*manualTask
}

func NewManual() *ManualScheduler {
	return &ManualScheduler{tasks: map[int]*manualTask{}}
}

func (m *ManualScheduler) Schedule(delay time.Duration, fn func()) Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.next
	m.next++
	task := &manualTask{owner: m, id: id, fn: fn}
	m.tasks[id] = task
	return task
}

// FireAll runs every pending task that has not been stopped.
func (m *ManualScheduler) FireAll() {
	m.mu.Lock()
	pending := make([]*manualTask, 0, len(m.tasks))
	for _, t := range m.tasks {
		pending = append(pending, t)
	}
	m.tasks = map[int]*manualTask{}
	m.mu.Unlock()

	for _, t := range pending {
		t.fn()
	}
}

// Pending reports how many tasks are scheduled and not yet fired or stopped.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

type manualTask struct {
	owner *ManualScheduler
	id    int
	fn    func()
}

func (t *manualTask) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	_, ok := t.owner.tasks[t.id]
	delete(t.owner.tasks, t.id)
	return ok
}
