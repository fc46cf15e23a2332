// Package countdown implements the per-question countdown clock.
package countdown

import (
	"sync"
	"time"
)

// State is the lifecycle state of a Timer.
type State int

const (
	Idle State = iota
	Running
	Expired
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Expired:
		return "expired"
	default:
		return "idle"
	}
}

// Ticker is the tick source a Timer consumes. *time.Ticker satisfies it through
// NewTimeTicker.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker wraps time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// TickHandler observes each decrement. lifecycle identifies the Start call the
// tick belongs to.
type TickHandler func(lifecycle uint64, remaining int)

// ExpiryHandler is invoked at most once per lifecycle.
type ExpiryHandler func(lifecycle uint64)

// Option configures a Timer.
type Option func(*Timer)

// WithInterval sets the tick period. Defaults to one second.
func WithInterval(d time.Duration) Option {
	return func(t *Timer) {
		if d > 0 {
			t.interval = d
		}
	}
}

// WithTicker replaces the tick source, mainly for tests.
func WithTicker(newTicker func(time.Duration) Ticker) Option {
	return func(t *Timer) { t.newTicker = newTicker }
}

// WithTickHandler registers a handler for every tick.
func WithTickHandler(h TickHandler) Option {
	return func(t *Timer) { t.onTick = h }
}

// WithExpiryHandler registers the expiry handler.
func WithExpiryHandler(h ExpiryHandler) Option {
	return func(t *Timer) { t.onExpire = h }
}

// Timer counts whole seconds down from a budget. Only one tick source is
// active at a time; Stop is synchronous, so a tick that has not been applied
// when Stop returns never takes effect.
type Timer struct {
	interval  time.Duration
	newTicker func(time.Duration) Ticker
	onTick    TickHandler
	onExpire  ExpiryHandler

	mu        sync.Mutex
	state     State
	remaining int
	lifecycle uint64
	done      chan struct{}
}

// New builds an idle timer.
func New(opts ...Option) *Timer {
	t := &Timer{
		interval:  time.Second,
		newTicker: NewTimeTicker,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start begins a countdown from budget seconds and returns the new lifecycle
// id. A running countdown is stopped first.
func (t *Timer) Start(budget int) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.lifecycle++
	t.state = Running
	t.remaining = budget
	t.done = make(chan struct{})

	go t.run(t.lifecycle, t.newTicker(t.interval), t.done)
	return t.lifecycle
}

// Stop cancels a running countdown. It is a no-op when idle or expired.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Restart is Stop followed by Start.
func (t *Timer) Restart(budget int) uint64 {
	return t.Start(budget)
}

// Remaining returns the seconds left in the current lifecycle.
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// State returns the current lifecycle state.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Lifecycle returns the id of the most recent Start.
func (t *Timer) Lifecycle() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lifecycle
}

func (t *Timer) stopLocked() {
	if t.state != Running {
		return
	}
	t.state = Idle
	// bump the lifecycle so an in-flight tick for the old one is discarded
	t.lifecycle++
	close(t.done)
}

func (t *Timer) run(lifecycle uint64, ticker Ticker, done <-chan struct{}) {
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C():
			remaining, expired, ok := t.tick(lifecycle)
			if !ok {
				return
			}
			if t.onTick != nil {
				t.onTick(lifecycle, remaining)
			}
			if expired {
				if t.onExpire != nil {
					t.onExpire(lifecycle)
				}
				return
			}
		}
	}
}

func (t *Timer) tick(lifecycle uint64) (int, bool, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lifecycle != lifecycle || t.state != Running {
		return 0, false, false
	}
	t.remaining--
	if t.remaining > 0 {
		return t.remaining, false, true
	}
	t.remaining = 0
	t.state = Expired
	return 0, true, true
}
