package handlers

import (
	"fmt"
	"testing"
	"time"
)

func TestIPLimiters_EvictsIdle(t *testing.T) {
	l := newIPLimiters(60)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	l.lastSweep = now

	for i := 0; i < 100; i++ {
		l.get(fmt.Sprintf("10.0.0.%d", i))
	}
	if n := l.size(); n != 100 {
		t.Fatalf("size = %d, want 100", n)
	}

	now = now.Add(limiterIdle / 2)
	active := l.get("10.0.0.1")

	now = now.Add(limiterIdle / 2)
	l.get("192.168.1.1")
	if n := l.size(); n != 2 {
		t.Fatalf("size after sweep = %d, want 2", n)
	}
	if l.get("10.0.0.1") != active {
		t.Error("active limiter was replaced")
	}
}

func TestIPLimiters_KeepsStateWithinWindow(t *testing.T) {
	l := newIPLimiters(6)
	if !l.get("10.0.0.1").Allow() {
		t.Fatal("first request limited")
	}
	if l.get("10.0.0.1").Allow() {
		t.Error("second request allowed with burst 1")
	}
	if !l.get("10.0.0.2").Allow() {
		t.Error("other IP limited")
	}
}
