package ora

/*
#include <oci.h>
*/
import "C"

import "unsafe"

// Cursor wraps a nested OCIStmt handle produced by a REF CURSOR bind
// or column — spec.md §3 Cursor names three construction paths: a
// fresh OUT-bind statement handle, one moved out of a column cell
// (the path rows.go's SQLT_RSET case takes), or a borrowed
// implicit-result statement pointer that is never freed here because
// its owning Stmt frees it (spec.md §4.H).
type Cursor struct {
	stmt   *Stmt // the Stmt this cursor was produced by (for Env/logging)
	handle *Handle
	owns   bool

	rows *Rows
}

// newCursorFromColumn builds a Cursor from a column cell's taken-out
// statement handle (owned: the column defined it solely for this
// purpose).
func newCursorFromColumn(stmt *Stmt, h *Handle) *Cursor {
	return &Cursor{stmt: stmt, handle: h, owns: true}
}

// newCursorForOutBind allocates a fresh statement handle to bind as a
// REF CURSOR OUT parameter (spec.md §3 Cursor, "fresh OUT-bind
// statement handle" path).
func newCursorForOutBind(stmt *Stmt) (*Cursor, error) {
	h, err := stmt.ses.env.allocHandle(htypeStmt)
	if err != nil {
		return nil, err
	}
	return &Cursor{stmt: stmt, handle: h, owns: true}, nil
}

// newBorrowedCursor wraps an implicit-result OCIStmt this Cursor does
// not own (spec.md §3 Cursor, "borrowed implicit-result" path) — used
// by Stmt.NextResult.
func newBorrowedCursor(stmt *Stmt, ocistmt *C.OCIStmt) *Cursor {
	h := &Handle{kind: htypeStmt}
	h.ptr.Store(ptrHolder{unsafe.Pointer(ocistmt)})
	return &Cursor{stmt: stmt, handle: h, owns: false}
}

// Rows opens the cursor's own result set and caches it: a Cursor is
// consumed by iterating it once (spec.md §4.H).
func (c *Cursor) Rows() (*Rows, error) {
	if c.rows != nil {
		return c.rows, nil
	}
	ocistmt := (*C.OCIStmt)(c.handle.Ptr())
	rows, err := openRows(c.stmt, ocistmt, !c.owns)
	if err != nil {
		return nil, err
	}
	c.rows = rows
	return rows, nil
}

// Close releases the cursor's columns and, if this Cursor owns its
// statement handle, the handle itself.
func (c *Cursor) Close() error {
	if c.rows != nil {
		c.rows.Close()
	}
	if c.owns {
		c.handle.Free()
	}
	return nil
}
