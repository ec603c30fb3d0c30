package statestore

import (
	"context"
	"sync"
	"time"

	"github.com/aussiebroadwan/nursery/internal/nursery/domain"
)

// Memory is a process-local Store. Expired entries are hidden on read and
// removed by Sweep.
type Memory struct {
	mu     sync.RWMutex
	states map[string]domain.IdentityState
	now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		states: make(map[string]domain.IdentityState),
		now:    time.Now,
	}
}

// WithClock replaces the time source. Tests only.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func (m *Memory) Save(_ context.Context, st domain.IdentityState) error {
	if st.ClientID == "" {
		return ErrNoClient
	}
	if st.Expired(m.now()) {
		return ErrExpired
	}
	m.mu.Lock()
	m.states[st.ClientID] = st
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(_ context.Context, clientID string) (domain.IdentityState, error) {
	m.mu.RLock()
	st, ok := m.states[clientID]
	m.mu.RUnlock()
	if !ok || st.Expired(m.now()) {
		return domain.IdentityState{}, ErrNotFound
	}
	return st, nil
}

func (m *Memory) Delete(_ context.Context, clientID string) error {
	m.mu.Lock()
	delete(m.states, clientID)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

// Sweep drops every state expired at now and returns how many went.
func (m *Memory) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, st := range m.states {
		if st.Expired(now) {
			delete(m.states, id)
			n++
		}
	}
	return n
}

// Len reports the number of stored states, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.states)
}
