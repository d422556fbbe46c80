package ora

/*
#include <oci.h>
*/
import "C"

import (
	"context"
	"testing"
	"time"
)

func TestSessionGate_SerializesAcquire(t *testing.T) {
	g := newSessionGate()
	ctx := context.Background()
	if err := g.lock(ctx); err != nil {
		t.Fatalf("lock() error = %v", err)
	}
	acquired := make(chan struct{})
	go func() {
		if err := g.lock(ctx); err == nil {
			close(acquired)
		}
	}()
	select {
	case <-acquired:
		t.Fatalf("second lock() succeeded while the first is still held")
	case <-time.After(20 * time.Millisecond):
	}
	g.unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatalf("second lock() never succeeded after unlock()")
	}
}

func TestSessionGate_CancelledContext(t *testing.T) {
	g := newSessionGate()
	if err := g.lock(context.Background()); err != nil {
		t.Fatalf("lock() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := g.lock(ctx); err == nil {
		t.Errorf("lock() on a cancelled context: want error, got nil")
	}
}

func TestRunAsync_ImmediateSuccess(t *testing.T) {
	ses := &Session{env: &Env{}, gate: newSessionGate()}
	f := runAsync(context.Background(), ses, func() (interface{}, C.sword) {
		return 42, C.OCI_SUCCESS
	})
	v, err := f.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if v != 42 {
		t.Errorf("Wait() = %v, want 42", v)
	}
}

func TestRunAsync_PollsUntilDone(t *testing.T) {
	ses := &Session{env: &Env{}, gate: newSessionGate()}
	calls := 0
	f := runAsync(context.Background(), ses, func() (interface{}, C.sword) {
		calls++
		if calls < 3 {
			return nil, C.OCI_STILL_EXECUTING
		}
		return "done", C.OCI_SUCCESS
	})
	v, err := f.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if v != "done" {
		t.Errorf("Wait() = %v, want %q", v, "done")
	}
	if calls != 3 {
		t.Errorf("call count = %d, want 3", calls)
	}
}

func TestRunAsync_ContextCancelledWhileExecuting(t *testing.T) {
	ses := &Session{env: &Env{}, gate: newSessionGate()}
	ctx, cancel := context.WithCancel(context.Background())
	f := runAsync(ctx, ses, func() (interface{}, C.sword) {
		return nil, C.OCI_STILL_EXECUTING
	})
	cancel()
	if _, err := f.Wait(context.Background()); err == nil {
		t.Errorf("Wait() after cancel: want error, got nil")
	}
}

func TestFuture_Poll(t *testing.T) {
	ses := &Session{env: &Env{}, gate: newSessionGate()}
	release := make(chan struct{})
	f := runAsync(context.Background(), ses, func() (interface{}, C.sword) {
		<-release
		return "ready", C.OCI_SUCCESS
	})
	if _, _, done := f.Poll(); done {
		t.Errorf("Poll() = done before the call returned")
	}
	close(release)
	v, err := f.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if v != "ready" {
		t.Errorf("Wait() = %v, want %q", v, "ready")
	}
}

func TestBlockOn_DrainsAsyncDrops(t *testing.T) {
	before := ActiveAsyncDrops()
	started := make(chan struct{})
	release := make(chan struct{})
	spawnAsyncDrop(func() {
		close(started)
		<-release
	})
	<-started
	if got := ActiveAsyncDrops(); got != before+1 {
		t.Fatalf("ActiveAsyncDrops() = %d, want %d", got, before+1)
	}
	done := make(chan struct{})
	go func() {
		BlockOn()
		close(done)
	}()
	select {
	case <-done:
		t.Fatalf("BlockOn() returned before the async drop finished")
	case <-time.After(20 * time.Millisecond):
	}
	close(release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("BlockOn() never returned after the async drop finished")
	}
	if got := ActiveAsyncDrops(); got != before {
		t.Errorf("ActiveAsyncDrops() after drain = %d, want %d", got, before)
	}
}
