package dashboard

import "testing"

func tickN(remaining int64, n int) int64 {
	for i := 0; i < n; i++ {
		remaining = Tick(remaining)
	}
	return remaining
}

func TestReconcileAdoptsWhenLocalExpired(t *testing.T) {
	if got := Reconcile(0, 100); got != 100 {
		t.Fatalf("got %d, want 100", got)
	}
}

func TestReconcileAdoptsZeroCandidate(t *testing.T) {
	if got := Reconcile(57, 0); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}

func TestReconcileRejectsInflatedCandidate(t *testing.T) {
	// The server value may only move the countdown down; a late response
	// reporting more time than we have locally is ignored.
	if got := Reconcile(50, 120); got != 50 {
		t.Fatalf("got %d, want 50", got)
	}
	// Within one second of jitter the local value also wins.
	if got := Reconcile(50, 50); got != 50 {
		t.Fatalf("got %d, want 50", got)
	}
	if got := Reconcile(50, 49); got != 50 {
		t.Fatalf("got %d, want 50", got)
	}
}

func TestReconcileAdoptsLowerCandidate(t *testing.T) {
	if got := Reconcile(50, 48); got != 48 {
		t.Fatalf("got %d, want 48", got)
	}
}

// Replays the polled sequence [100, 100, 95, 120, 90] against a locally
// ticking countdown: only 100 (first), 95, and 90 are ever adopted.
func TestReconcileSequenceNeverJumpsUp(t *testing.T) {
	r := int64(0)

	r = Reconcile(r, 100)
	if r != 100 {
		t.Fatalf("poll 1: got %d, want 100", r)
	}

	r = tickN(r, 2) // 98
	if got := Reconcile(r, 100); got != 98 {
		t.Fatalf("poll 2: got %d, want local 98 kept", got)
	}

	r = Reconcile(r, 95)
	if r != 95 {
		t.Fatalf("poll 3: got %d, want 95", r)
	}

	r = tickN(r, 2) // 93
	if got := Reconcile(r, 120); got != 93 {
		t.Fatalf("poll 4: got %d, want local 93 kept", got)
	}

	r = tickN(r, 1) // 92
	r = Reconcile(r, 90)
	if r != 90 {
		t.Fatalf("poll 5: got %d, want 90", r)
	}
}

func TestTickFloorsAtZero(t *testing.T) {
	if got := Tick(1); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
	if got := Tick(0); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
	if got := tickN(5, 10); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}
