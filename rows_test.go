package ora

/*
#include <oci.h>
*/
import "C"

import "testing"

func TestBeFloat32(t *testing.T) {
	// 1.5 as IEEE-754 big-endian bytes.
	b := []byte{0x3f, 0xc0, 0x00, 0x00}
	if got := beFloat32(b); got != 1.5 {
		t.Errorf("beFloat32() = %v, want 1.5", got)
	}
}

func TestBeFloat32_ShortBuffer(t *testing.T) {
	if got := beFloat32([]byte{1, 2}); got != 0 {
		t.Errorf("beFloat32(short) = %v, want 0", got)
	}
}

func TestBeFloat64(t *testing.T) {
	// 2.5 as IEEE-754 big-endian bytes.
	b := []byte{0x40, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	if got := beFloat64(b); got != 2.5 {
		t.Errorf("beFloat64() = %v, want 2.5", got)
	}
}

func TestBeFloat64_ShortBuffer(t *testing.T) {
	if got := beFloat64([]byte{1, 2, 3}); got != 0 {
		t.Errorf("beFloat64(short) = %v, want 0", got)
	}
}

func newTextRow(t *testing.T, text string) *Row {
	t.Helper()
	col := &Column{pos: 1, buf: []byte(text), length: C.ub2(len(text))}
	stmt := &Stmt{ses: &Session{env: &Env{}}}
	rs := &Rows{stmt: stmt, columns: []*Column{col}}
	return rs.Row()
}

func TestRow_IsNull(t *testing.T) {
	col := &Column{indicator: -1}
	rs := &Rows{stmt: &Stmt{ses: &Session{env: &Env{}}}, columns: []*Column{col}}
	row := rs.Row()
	if !row.IsNull(1) {
		t.Errorf("IsNull() = false for indicator -1")
	}
	col.indicator = 0
	if row.IsNull(1) {
		t.Errorf("IsNull() = true for indicator 0")
	}
}

func TestGet_Text(t *testing.T) {
	row := newTextRow(t, "hello")
	v, err := Get[string](row, 1)
	if err != nil {
		t.Fatalf("Get[string]() error = %v", err)
	}
	if v != "hello" {
		t.Errorf("Get[string]() = %q, want %q", v, "hello")
	}
}

func TestGet_WrongType(t *testing.T) {
	row := newTextRow(t, "hello")
	if _, err := Get[int64](row, 1); err == nil {
		t.Errorf("Get[int64]() on a text column: want error, got nil")
	}
}

func TestCoalesce_Null(t *testing.T) {
	col := &Column{indicator: -1}
	rs := &Rows{stmt: &Stmt{ses: &Session{env: &Env{}}}, columns: []*Column{col}}
	row := rs.Row()
	got, err := Coalesce(row, 1, "fallback")
	if err != nil {
		t.Fatalf("Coalesce() error = %v", err)
	}
	if got != "fallback" {
		t.Errorf("Coalesce() = %q, want %q", got, "fallback")
	}
}

func TestCoalesce_NotNull(t *testing.T) {
	row := newTextRow(t, "present")
	got, err := Coalesce(row, 1, "fallback")
	if err != nil {
		t.Fatalf("Coalesce() error = %v", err)
	}
	if got != "present" {
		t.Errorf("Coalesce() = %q, want %q", got, "present")
	}
}
