package ora

/*
#include <oci.h>
*/
import "C"

import (
	"testing"
	"unsafe"
)

func TestNewBorrowedCursor(t *testing.T) {
	var fakeStmt C.OCIStmt
	ocistmt := (*C.OCIStmt)(unsafe.Pointer(&fakeStmt))
	c := newBorrowedCursor(&Stmt{}, ocistmt)
	if c.owns {
		t.Errorf("newBorrowedCursor().owns = true, want false")
	}
	if c.handle.Ptr() != unsafe.Pointer(ocistmt) {
		t.Errorf("newBorrowedCursor().handle.Ptr() does not match the wrapped OCIStmt pointer")
	}
}

func TestCursor_Close_BorrowedDoesNotFreeHandle(t *testing.T) {
	var fakeStmt C.OCIStmt
	ocistmt := (*C.OCIStmt)(unsafe.Pointer(&fakeStmt))
	c := newBorrowedCursor(&Stmt{}, ocistmt)
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if c.handle.Ptr() == nil {
		t.Errorf("Close() on a borrowed cursor freed its handle")
	}
}

