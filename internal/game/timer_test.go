package game

import (
	"sync"
	"testing"
	"time"
)

type tickRecorder struct {
	mu      sync.Mutex
	ticks   []int
	expired int
}

func (rec *tickRecorder) onTick(remaining int) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.ticks = append(rec.ticks, remaining)
}

func (rec *tickRecorder) onExpire() {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.expired++
}

func (rec *tickRecorder) snapshot() ([]int, int) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	out := make([]int, len(rec.ticks))
	copy(out, rec.ticks)
	return out, rec.expired
}

func TestRoundTimerExpiry(t *testing.T) {
	rec := &tickRecorder{}
	timer := newRoundTimer(3, 2*time.Millisecond, rec.onTick, rec.onExpire)
	timer.Start()

	deadline := time.Now().Add(time.Second)
	for {
		_, expired := rec.snapshot()
		if expired > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timer never expired")
		}
		time.Sleep(time.Millisecond)
	}

	ticks, expired := rec.snapshot()
	if expired != 1 {
		t.Fatalf("expected exactly one expiry, got %d", expired)
	}
	want := []int{2, 1, 0}
	if len(ticks) != len(want) {
		t.Fatalf("expected ticks %v, got %v", want, ticks)
	}
	for i, remaining := range want {
		if ticks[i] != remaining {
			t.Fatalf("expected ticks %v, got %v", want, ticks)
		}
	}
}

func TestRoundTimerCancel(t *testing.T) {
	rec := &tickRecorder{}
	timer := newRoundTimer(1000, 2*time.Millisecond, rec.onTick, rec.onExpire)
	timer.Start()

	time.Sleep(10 * time.Millisecond)
	timer.Cancel()
	timer.Cancel() // idempotent

	ticksAtCancel, _ := rec.snapshot()
	time.Sleep(20 * time.Millisecond)
	ticks, expired := rec.snapshot()
	if expired != 0 {
		t.Fatal("cancelled timer should never expire")
	}
	// at most one in-flight tick may land after Cancel returns
	if len(ticks) > len(ticksAtCancel)+1 {
		t.Fatalf("ticks kept firing after cancel: %d then %d", len(ticksAtCancel), len(ticks))
	}
}

func TestRoundTimerCancelAfterExpiry(t *testing.T) {
	rec := &tickRecorder{}
	timer := newRoundTimer(1, 2*time.Millisecond, rec.onTick, rec.onExpire)
	timer.Start()

	deadline := time.Now().Add(time.Second)
	for {
		_, expired := rec.snapshot()
		if expired > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timer never expired")
		}
		time.Sleep(time.Millisecond)
	}

	// no-op, must not panic or re-fire anything
	timer.Cancel()
	_, expired := rec.snapshot()
	if expired != 1 {
		t.Fatalf("expected exactly one expiry, got %d", expired)
	}
}
