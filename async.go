package ora

/*
#include <oci.h>
*/
import "C"

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sync/semaphore"
)

// sessionGate serializes every OCI call issued against one session's
// service context: spec.md §5's "single-threaded cooperative per
// connection" scheduling model, implemented as a one-weight semaphore
// rather than a hand-rolled mutex so Acquire honors a caller's
// context.Context the way the rest of this adapter does.
type sessionGate struct {
	sem *semaphore.Weighted
}

func newSessionGate() *sessionGate {
	return &sessionGate{sem: semaphore.NewWeighted(1)}
}

func (g *sessionGate) lock(ctx context.Context) error {
	return g.sem.Acquire(ctx, 1)
}

func (g *sessionGate) unlock() {
	g.sem.Release(1)
}

// pollInterval is how long Future.run sleeps between STILL_EXECUTING
// retries. The client has no user-space reactor to register a waker
// with the way an epoll/io_uring-backed async runtime would (spec.md
// §4.J step 3, "wake and retry" with no concrete wake signal this
// driver can subscribe to) — spec.md §4.J step 3's "short tickle"
// path covers this: a fixed short backoff replaces a real wakeup.
const pollInterval = 2 * time.Millisecond

// Future is a pending asynchronous OCI operation, driven to
// completion by repeatedly invoking the underlying call while it
// reports STILL_EXECUTING (spec.md §4.J). Not safe to poll from more
// than one goroutine, and not meaningful across service contexts —
// the same "futures are not Send across service contexts" constraint
// spec.md §4.J states.
type Future struct {
	done   chan struct{}
	result interface{}
	err    error
}

// Wait blocks until the future resolves or ctx is cancelled.
func (f *Future) Wait(ctx context.Context) (interface{}, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Poll reports whether the future has resolved yet without blocking,
// returning its result if so.
func (f *Future) Poll() (interface{}, error, bool) {
	select {
	case <-f.done:
		return f.result, f.err, true
	default:
		return nil, nil, false
	}
}

// runAsync drives call — an OCI entry point wrapped to report its raw
// status code alongside whatever Go value it produced — to completion
// on a dedicated goroutine, serialized against the rest of ses's
// traffic by ses.gate (spec.md §4.J, §5). Cancelling ctx mid-poll
// abandons the future; the outstanding server-side call is not
// cancelled (spec.md §4.J "Cancellation").
func runAsync(ctx context.Context, ses *Session, call func() (interface{}, C.sword)) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		if err := ses.gate.lock(ctx); err != nil {
			f.err = err
			return
		}
		defer ses.gate.unlock()
		for {
			if err := ctx.Err(); err != nil {
				f.err = err
				return
			}
			v, r := call()
			switch Status(r) {
			case StatusStillExecuting:
				select {
				case <-time.After(pollInterval):
					continue
				case <-ctx.Done():
					f.err = ctx.Err()
					return
				}
			case StatusError, StatusNoData:
				f.err = ses.env.lastError(r)
				return
			default:
				f.result = v
				return
			}
		}
	}()
	return f
}

// SetNonBlocking toggles the session's service context between
// blocking and nonblocking OCI call semantics. Async-flavored methods
// are only meaningful once this has been set true (spec.md §4.J,
// "every client entry point may return STILL_EXECUTING when the
// connection is in nonblocking mode").
func (ses *Session) SetNonBlocking(nonBlocking bool) error {
	var v C.ub1
	if nonBlocking {
		v = 1
	}
	r := C.OCIAttrSet(ses.server.Ptr(), C.OCI_HTYPE_SERVER, unsafe.Pointer(&v), 0, C.OCI_ATTR_NONBLOCKING_MODE, ses.env.ocierr)
	if Status(r) == StatusError {
		return ses.env.lastError(r)
	}
	return nil
}

// ExecAsync is the nonblocking counterpart to Stmt.Exec: binds are
// resolved once, then the same OCIStmtExecute call is reissued with
// its original arguments for as long as the server reports
// STILL_EXECUTING, the retry contract OCI's nonblocking mode requires
// (spec.md §4.J).
func (stmt *Stmt) ExecAsync(ctx context.Context, params ...interface{}) *Future {
	if len(params) > 0 {
		if err := stmt.BindByPos2(params...); err != nil {
			f := &Future{done: make(chan struct{})}
			f.err = err
			close(f.done)
			return f
		}
	}
	mode := C.ub4(C.OCI_DEFAULT)
	if stmt.Cfg().IsAutoCommitting {
		mode = C.OCI_COMMIT_ON_SUCCESS
	}
	return runAsync(ctx, stmt.ses, func() (interface{}, C.sword) {
		r := C.OCIStmtExecute(stmt.ses.svcctxPtr(), stmt.ocistmt, stmt.ses.env.ocierr, C.ub4(1), 0, nil, nil, mode)
		if Status(r) == StatusStillExecuting {
			return nil, r
		}
		n, err := stmt.finishExec()
		if err != nil {
			return nil, C.sword(C.OCI_ERROR)
		}
		return n, r
	})
}

// finishExec performs Exec's post-execute bookkeeping: OUT bind
// write-back and row-count retrieval. Split out of Exec so ExecAsync
// can reuse it once OCIStmtExecute stops reporting STILL_EXECUTING.
func (stmt *Stmt) finishExec() (uint64, error) {
	stmt.mu.RLock()
	binds := stmt.binds
	stmt.mu.RUnlock()
	for _, b := range binds {
		if err := b.writeBack(); err != nil {
			return 0, err
		}
	}
	switch stmt.stmtType {
	case C.OCI_STMT_UPDATE, C.OCI_STMT_DELETE, C.OCI_STMT_INSERT:
		return stmt.rowCount()
	}
	return 0, nil
}

// QueryAsync is the nonblocking counterpart to Stmt.Query.
func (stmt *Stmt) QueryAsync(ctx context.Context, params ...interface{}) *Future {
	if len(params) > 0 {
		if err := stmt.BindByPos2(params...); err != nil {
			f := &Future{done: make(chan struct{})}
			f.err = err
			close(f.done)
			return f
		}
	}
	return runAsync(ctx, stmt.ses, func() (interface{}, C.sword) {
		r := C.OCIStmtExecute(stmt.ses.svcctxPtr(), stmt.ocistmt, stmt.ses.env.ocierr, 0, 0, nil, nil, C.OCI_DEFAULT)
		if Status(r) != StatusStillExecuting {
			rows, err := openRows(stmt, stmt.ocistmt, false)
			if err != nil {
				return nil, C.sword(C.OCI_ERROR)
			}
			return rows, r
		}
		return nil, r
	})
}

// --- async drop -------------------------------------------------------------

var asyncDropCount int64
var asyncDropWG sync.WaitGroup

// ActiveAsyncDrops reports the number of in-flight async teardown
// tasks spawned by spawnAsyncDrop (spec.md §4.J "process-wide active
// async drops counter").
func ActiveAsyncDrops() int64 { return atomic.LoadInt64(&asyncDropCount) }

// spawnAsyncDrop runs teardown (an is-open -> close, is-temporary ->
// free-temporary pair, typically) on a detached goroutine, since Close
// cannot itself be awaited from a value's finalizer-driven Drop path
// (spec.md §4.J "Async drop"). BlockOn drains every outstanding one of
// these before returning to the caller.
func spawnAsyncDrop(teardown func()) {
	atomic.AddInt64(&asyncDropCount, 1)
	asyncDropWG.Add(1)
	go func() {
		defer asyncDropWG.Done()
		defer atomic.AddInt64(&asyncDropCount, -1)
		teardown()
	}()
}

// BlockOn drains every outstanding async-drop task to completion,
// guaranteeing server-side LOB/temporary-LOB resources are released
// before the caller tears down its runtime (spec.md §4.J "block_on
// helper").
func BlockOn() {
	asyncDropWG.Wait()
}

// DropAsync schedules l's teardown (close if open, free-temporary if
// temporary) on a detached goroutine instead of performing it inline,
// for callers managing Lob lifetime outside of an explicit Close call.
func (l *Lob) DropAsync() {
	spawnAsyncDrop(l.Drop)
}

// DropAsync schedules f's teardown on a detached goroutine.
func (f *BFile) DropAsync() {
	spawnAsyncDrop(f.Drop)
}
