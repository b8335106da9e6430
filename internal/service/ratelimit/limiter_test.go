package ratelimit

import (
	"testing"
	"time"
)

func TestBurstThenDeny(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := New(2, 1)
	l.now = func() time.Time { return now }

	if !l.Allow("frxEURUSD") || !l.Allow("frxEURUSD") {
		t.Fatalf("burst of 2 should be allowed")
	}
	if l.Allow("frxEURUSD") {
		t.Fatalf("third immediate request should be denied")
	}
}

func TestRefill(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := New(1, 0.5) // one token every 2s
	l.now = func() time.Time { return now }

	if !l.Allow("frxEURUSD") {
		t.Fatalf("first request should pass")
	}
	if l.Allow("frxEURUSD") {
		t.Fatalf("bucket should be empty")
	}

	now = now.Add(3 * time.Second)
	if !l.Allow("frxEURUSD") {
		t.Fatalf("token should have refilled after 3s")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := New(1, 0)
	if !l.Allow("frxEURUSD") {
		t.Fatalf("first key should pass")
	}
	if !l.Allow("frxGBPUSD") {
		t.Fatalf("second key has its own bucket")
	}
	if l.Allow("frxEURUSD") {
		t.Fatalf("first key should be exhausted")
	}
}
