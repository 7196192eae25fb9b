package game

import (
	"sync"
	"time"
)

// RoundTimer is a cancellable per-room countdown. It ticks once per second,
// invoking onTick with the remaining seconds, and invokes onExpire exactly
// once when the countdown runs out naturally. Cancel is idempotent and
// suppresses any callback that has not fired yet; cancelling an expired or
// already-cancelled timer is a no-op.
type RoundTimer struct {
	seconds  int
	period   time.Duration
	onTick   func(remaining int)
	onExpire func()

	mu        sync.Mutex
	cancelled bool
	stop      chan struct{}
}

func NewRoundTimer(seconds int, onTick func(remaining int), onExpire func()) *RoundTimer {
	return newRoundTimer(seconds, time.Second, onTick, onExpire)
}

// newRoundTimer exists so tests can shrink the tick period.
func newRoundTimer(seconds int, period time.Duration, onTick func(remaining int), onExpire func()) *RoundTimer {
	return &RoundTimer{
		seconds:  seconds,
		period:   period,
		onTick:   onTick,
		onExpire: onExpire,
		stop:     make(chan struct{}),
	}
}

func (t *RoundTimer) Start() {
	go t.run()
}

func (t *RoundTimer) run() {
	ticker := time.NewTicker(t.period)
	defer ticker.Stop()

	remaining := t.seconds
	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			remaining--
			t.onTick(remaining)
			// onTick may have cancelled us (early round end, room emptied)
			if t.isCancelled() {
				return
			}
			if remaining <= 0 {
				t.onExpire()
				return
			}
		}
	}
}

func (t *RoundTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled {
		return
	}
	t.cancelled = true
	close(t.stop)
}

func (t *RoundTimer) isCancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}
