// Package task runs keyed work so that at most one run per key is in flight.
package task

import (
	"context"
	"errors"
	"sync"
)

// ErrAlreadyRunning is returned when a task with the same id is in flight.
var ErrAlreadyRunning = errors.New("task already running")

// Manager manages tasks.
type Manager struct {
	ctx     context.Context
	mu      sync.Mutex
	running map[string]context.CancelFunc
}

// NewManager returns a new task manager. Every task context derives from ctx.
func NewManager(ctx context.Context) *Manager {
	return &Manager{
		ctx:     ctx,
		running: make(map[string]context.CancelFunc),
	}
}

// Run runs fn under id and waits for it to return. It returns
// ErrAlreadyRunning without calling fn when id is already running.
func (m *Manager) Run(id string, fn func(context.Context) error) error {
	m.mu.Lock()
	if _, ok := m.running[id]; ok {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.running[id] = cancel
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.running, id)
		m.mu.Unlock()
		cancel()
	}()

	return fn(ctx)
}
