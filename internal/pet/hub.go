package pet

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultTick is how often stats decay.
const DefaultTick = 2 * time.Second

// Hub keeps one pet per browser session and pushes state to subscribers.
type Hub struct {
	interval time.Duration
	now      func() time.Time
	idle     time.Duration
	logger   *zap.Logger

	mu   sync.Mutex
	pets map[string]*hubEntry
}

type hubEntry struct {
	pet     *Pet
	touched time.Time
	subs    map[chan State]struct{}
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithInterval sets the decay tick.
func WithInterval(d time.Duration) HubOption {
	return func(h *Hub) { h.interval = d }
}

// WithHubClock replaces time.Now for pets and idle tracking.
func WithHubClock(now func() time.Time) HubOption {
	return func(h *Hub) { h.now = now }
}

// WithIdleTimeout drops pets nobody touched or watched for d.
func WithIdleTimeout(d time.Duration) HubOption {
	return func(h *Hub) { h.idle = d }
}

func NewHub(logger *zap.Logger, opts ...HubOption) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		interval: DefaultTick,
		now:      time.Now,
		idle:     24 * time.Hour,
		logger:   logger,
		pets:     map[string]*hubEntry{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) entry(sessionID string) *hubEntry {
	e, ok := h.pets[sessionID]
	if !ok {
		e = &hubEntry{pet: New(h.now), subs: map[chan State]struct{}{}}
		h.pets[sessionID] = e
	}
	e.touched = h.now()
	return e
}

// Get returns the session's pet, hatching one on first use.
func (h *Hub) Get(sessionID string) *Pet {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entry(sessionID).pet
}

// Subscribe streams the session's state after every tick and action. The
// returned func unsubscribes and closes the channel.
func (h *Hub) Subscribe(sessionID string) (<-chan State, func()) {
	ch := make(chan State, 1)
	h.mu.Lock()
	e := h.entry(sessionID)
	ch <- e.pet.State()
	e.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(e.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Publish pushes the session's current state to its subscribers.
func (h *Hub) Publish(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if e, ok := h.pets[sessionID]; ok {
		e.touched = h.now()
		e.broadcast()
	}
}

// broadcast replaces any undelivered state with the newest one. Callers hold
// the hub lock.
func (e *hubEntry) broadcast() {
	if len(e.subs) == 0 {
		return
	}
	st := e.pet.State()
	for ch := range e.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- st:
		default:
		}
	}
}

// TickAll decays every pet once and drops idle ones.
func (h *Hub) TickAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	cutoff := h.now().Add(-h.idle)
	for id, e := range h.pets {
		if h.idle > 0 && len(e.subs) == 0 && e.touched.Before(cutoff) {
			delete(h.pets, id)
			continue
		}
		e.pet.Tick()
		e.broadcast()
	}
}

// Len is the number of live pets.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pets)
}

// Run ticks until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	if h.interval <= 0 {
		h.logger.Warn("pet hub disabled", zap.Duration("interval", h.interval))
		return
	}
	t := time.NewTicker(h.interval)
	defer t.Stop()
	h.logger.Info("pet hub started", zap.Duration("interval", h.interval))
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("pet hub stopped")
			return
		case <-t.C:
			h.TickAll()
		}
	}
}
