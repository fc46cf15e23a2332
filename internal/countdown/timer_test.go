package countdown

import (
	"sync"
	"testing"
	"time"
)

type manualTicker struct {
	c       chan time.Time
	stopped chan struct{}
	once    sync.Once
}

func (m *manualTicker) C() <-chan time.Time { return m.c }
func (m *manualTicker) Stop()               { m.once.Do(func() { close(m.stopped) }) }

// tickers hands out manual tickers and remembers the latest one.
type tickers struct {
	mu     sync.Mutex
	latest *manualTicker
}

func (f *tickers) New(time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latest = &manualTicker{c: make(chan time.Time), stopped: make(chan struct{})}
	return f.latest
}

func (f *tickers) current() *manualTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest
}

// send delivers one tick, reporting false if nobody is listening anymore.
func (m *manualTicker) send() bool {
	select {
	case m.c <- time.Now():
		return true
	case <-time.After(50 * time.Millisecond):
		return false
	}
}

func TestTimerExpiresExactlyOnceAfterBudget(t *testing.T) {
	src := &tickers{}
	expiries := make(chan uint64, 4)
	var lastRemaining int
	var mu sync.Mutex
	timer := New(
		WithTicker(src.New),
		WithTickHandler(func(_ uint64, remaining int) {
			mu.Lock()
			lastRemaining = remaining
			mu.Unlock()
		}),
		WithExpiryHandler(func(lifecycle uint64) { expiries <- lifecycle }),
	)

	lifecycle := timer.Start(30)
	ticker := src.current()
	for i := 0; i < 30; i++ {
		if !ticker.send() {
			t.Fatalf("tick %d was not consumed", i+1)
		}
	}

	select {
	case got := <-expiries:
		if got != lifecycle {
			t.Fatalf("expected expiry for lifecycle %d, got %d", lifecycle, got)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected expiry notification")
	}

	if ticker.send() {
		t.Fatalf("expected tick source to be released after expiry")
	}
	select {
	case <-expiries:
		t.Fatalf("expected a single expiry notification")
	case <-time.After(20 * time.Millisecond):
	}

	if timer.State() != Expired {
		t.Fatalf("expected expired state, got %s", timer.State())
	}
	mu.Lock()
	defer mu.Unlock()
	if lastRemaining != 0 || timer.Remaining() != 0 {
		t.Fatalf("expected remaining 0, got handler=%d timer=%d", lastRemaining, timer.Remaining())
	}
}

func TestTimerStopBeforeTickPreventsExpiry(t *testing.T) {
	src := &tickers{}
	expiries := make(chan uint64, 1)
	timer := New(
		WithTicker(src.New),
		WithExpiryHandler(func(lifecycle uint64) { expiries <- lifecycle }),
	)

	timer.Start(1)
	ticker := src.current()
	timer.Stop()

	ticker.send()
	select {
	case <-expiries:
		t.Fatalf("expected no expiry after stop")
	case <-time.After(20 * time.Millisecond):
	}
	if timer.State() != Idle {
		t.Fatalf("expected idle state, got %s", timer.State())
	}
	select {
	case <-ticker.stopped:
	case <-time.After(time.Second):
		t.Fatalf("expected underlying ticker to be stopped")
	}
}

func TestTimerRestartResetsRemainingAndDropsOldSource(t *testing.T) {
	src := &tickers{}
	timer := New(WithTicker(src.New))

	first := timer.Start(5)
	old := src.current()
	if !old.send() {
		t.Fatalf("expected first tick consumed")
	}
	waitFor(t, func() bool { return timer.Remaining() == 4 })

	second := timer.Restart(5)
	if second == first {
		t.Fatalf("expected a new lifecycle id")
	}
	if timer.Remaining() != 5 {
		t.Fatalf("expected remaining reset to 5, got %d", timer.Remaining())
	}
	select {
	case <-old.stopped:
	case <-time.After(time.Second):
		t.Fatalf("expected old tick source to be released")
	}
	if old.send() {
		t.Fatalf("expected old tick source to be idle")
	}

	if !src.current().send() {
		t.Fatalf("expected new source to tick")
	}
	waitFor(t, func() bool { return timer.Remaining() == 4 })
}

func TestTimerDecrementsEachTick(t *testing.T) {
	src := &tickers{}
	ticks := make(chan int, 3)
	timer := New(
		WithTicker(src.New),
		WithTickHandler(func(_ uint64, remaining int) { ticks <- remaining }),
	)
	timer.Start(3)
	ticker := src.current()
	for want := 2; want >= 1; want-- {
		ticker.send()
		if got := <-ticks; got != want {
			t.Fatalf("expected remaining %d, got %d", want, got)
		}
	}
	timer.Stop()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}
