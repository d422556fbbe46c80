package ora

import (
	"strings"
	"testing"
)

func TestCallInfo(t *testing.T) {
	info := callInfo(0)
	if !strings.Contains(info, "util_test.go:") {
		t.Errorf("callInfo(0) = %q, want it to reference util_test.go", info)
	}
}

func TestIdSeq_Monotonic(t *testing.T) {
	var seq idSeq
	a := seq.next()
	b := seq.next()
	c := seq.next()
	if a != 1 || b != 2 || c != 3 {
		t.Errorf("idSeq.next() sequence = %d, %d, %d, want 1, 2, 3", a, b, c)
	}
}

func TestIdSeq_Concurrent(t *testing.T) {
	var seq idSeq
	const n = 100
	done := make(chan uint64, n)
	for i := 0; i < n; i++ {
		go func() { done <- seq.next() }()
	}
	seen := make(map[uint64]bool, n)
	for i := 0; i < n; i++ {
		id := <-done
		if seen[id] {
			t.Fatalf("idSeq.next() produced duplicate id %d", id)
		}
		seen[id] = true
	}
}
