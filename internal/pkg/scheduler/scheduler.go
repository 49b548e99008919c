// Package scheduler runs delayed per-user tasks, such as removing transient
// chat notices, that can be flushed or dropped when the user's flow ends.
package scheduler

import (
	"context"
	"sync"
	"time"
)

type Task func(ctx context.Context)

type entry struct {
	timer *time.Timer
	task  Task
}

type Scheduler struct {
	ctx     context.Context
	mu      sync.Mutex
	tasks   map[int64]map[uint64]*entry
	nextID  uint64
	wg      sync.WaitGroup
	stopped bool
}

// New creates a scheduler whose tasks run with ctx.
func New(ctx context.Context) *Scheduler {
	return &Scheduler{
		ctx:   context.WithoutCancel(ctx),
		tasks: make(map[int64]map[uint64]*entry),
	}
}

// Schedule runs task after delay unless it is cancelled first. The returned
// func cancels just this task.
func (s *Scheduler) Schedule(userID int64, delay time.Duration, task Task) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return func() {}
	}

	s.nextID++
	id := s.nextID
	e := &entry{task: task}
	e.timer = time.AfterFunc(delay, func() {
		if s.take(userID, id) {
			s.run(task)
		}
	})

	if s.tasks[userID] == nil {
		s.tasks[userID] = make(map[uint64]*entry)
	}
	s.tasks[userID][id] = e
	// Released when the task runs or is dropped. Adding here, under mu and
	// before Stop flips stopped, keeps every Add ahead of Stop's Wait.
	s.wg.Add(1)

	return func() {
		if s.take(userID, id) {
			e.timer.Stop()
			s.wg.Done()
		}
	}
}

// Flush runs the user's pending tasks now and waits for them.
func (s *Scheduler) Flush(userID int64) {
	for _, e := range s.drain(userID) {
		// A fired timer finds its entry gone and skips the task.
		e.timer.Stop()
		s.run(e.task)
	}
}

// Cancel drops the user's pending tasks without running them.
func (s *Scheduler) Cancel(userID int64) {
	for _, e := range s.drain(userID) {
		e.timer.Stop()
		s.wg.Done()
	}
}

// Pending is the number of tasks waiting for the user.
func (s *Scheduler) Pending(userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks[userID])
}

// Stop runs every pending task, rejects new ones and waits for running ones.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	users := make([]int64, 0, len(s.tasks))
	for userID := range s.tasks {
		users = append(users, userID)
	}
	s.mu.Unlock()

	for _, userID := range users {
		s.Flush(userID)
	}
	s.wg.Wait()
}

// run executes a task taken out of the pending set and releases its slot.
func (s *Scheduler) run(task Task) {
	defer s.wg.Done()
	task(s.ctx)
}

// take removes the task and reports whether it was still pending.
func (s *Scheduler) take(userID int64, id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	userTasks, ok := s.tasks[userID]
	if !ok {
		return false
	}
	if _, ok := userTasks[id]; !ok {
		return false
	}

	delete(userTasks, id)
	if len(userTasks) == 0 {
		delete(s.tasks, userID)
	}
	return true
}

func (s *Scheduler) drain(userID int64) []*entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	userTasks := s.tasks[userID]
	delete(s.tasks, userID)

	entries := make([]*entry, 0, len(userTasks))
	for _, e := range userTasks {
		entries = append(entries, e)
	}
	return entries
}
