package ora

/*
#include <oci.h>
*/
import "C"

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// Bind is one bound placeholder slot: either IN (value flows to the
// server), OUT (value flows back after execute), or INOUT. Mirrors
// the teacher's per-type bnd structs (ArseneXie-ora/stmt.go) but
// collapsed into one struct carrying a dynamic SQLT code, since this
// driver resolves Go -> SQLT once via ToSQL rather than pooling a
// distinct struct type per Go type.
type Bind struct {
	pos  int
	name string
	idx  int // slot in stmt.bindHandles, resolved once by newBind

	sqlt C.ub2
	buf  []byte
	cap  C.sb4

	indicator C.sb2
	length    C.ub2
	rcode     C.ub2

	out        interface{}      // destination to write back into after execute, if not nil
	lobLocator *C.OCILobLocator // set for *Lob/*BFile binds, which bind the locator pointer itself
}

// bindPositional and bindNamed implement the two calling conventions
// spec.md §4.F describes: BindByPos2 for `?`/native positional
// placeholders and BindByName2 for `:name` placeholders, both routed
// through the same slot construction.
func (stmt *Stmt) bindPositional(params []interface{}) ([]*Bind, error) {
	binds := make([]*Bind, len(params))
	for i, v := range params {
		b, err := newBind(stmt, i+1, "", v)
		if err != nil {
			return nil, err
		}
		if err := b.bindByPos(stmt); err != nil {
			return nil, err
		}
		binds[i] = b
	}
	return binds, nil
}

func (stmt *Stmt) bindNamed(params map[string]interface{}) ([]*Bind, error) {
	binds := make([]*Bind, 0, len(params))
	for name, v := range params {
		b, err := newBind(stmt, 0, normalizeBindName(name), v)
		if err != nil {
			return nil, err
		}
		if err := b.bindByName(stmt); err != nil {
			return nil, err
		}
		binds = append(binds, b)
	}
	return binds, nil
}

// normalizeBindName upper-cases a :name placeholder and strips its
// leading colon, matching how the server itself reports bind names
// from OCIStmtGetBindInfo (spec.md §4.F "uppercased, colon-stripped").
func normalizeBindName(name string) string {
	if len(name) > 0 && name[0] == ':' {
		name = name[1:]
	}
	upper := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		upper[i] = c
	}
	return string(upper)
}

func newBind(stmt *Stmt, pos int, name string, v interface{}) (*Bind, error) {
	idx, err := stmt.bindSlot(pos, name)
	if err != nil {
		return nil, err
	}
	if cur, ok := v.(*Cursor); ok {
		return newCursorBind(stmt, pos, name, idx, cur)
	}
	if lob, ok := v.(*Lob); ok {
		sqlt := C.ub2(C.SQLT_BLOB)
		if lob.isClob {
			sqlt = C.SQLT_CLOB
		}
		return &Bind{pos: pos, name: name, idx: idx, sqlt: sqlt, lobLocator: lob.locator()}, nil
	}
	if f, ok := v.(*BFile); ok {
		return &Bind{pos: pos, name: name, idx: idx, sqlt: C.SQLT_BFILEE, lobLocator: f.locator()}, nil
	}
	cfg := stmt.Cfg()
	out, isOut := outTarget(v)
	sv, err := valueToSQL(v, cfg)
	if err != nil {
		return nil, err
	}
	b := &Bind{
		pos:  pos,
		name: name,
		idx:  idx,
		sqlt: sv.sqlt,
		buf:  sv.data,
	}
	if sv.null {
		b.indicator = -1
	}
	capacity := C.sb4(len(sv.data))
	if isOut {
		b.out = out
		if vc, ok := v.(*Varchar); ok {
			capacity = C.sb4(vc.Cap)
			if capacity == 0 {
				capacity = 1
			}
			if len(b.buf) < int(capacity) {
				grown := make([]byte, capacity)
				copy(grown, b.buf)
				b.buf = grown
			}
		} else if _, ok := v.(*string); ok && int(capacity) < cfg.StringPtrBufferSize {
			capacity = C.sb4(cfg.StringPtrBufferSize)
			grown := make([]byte, capacity)
			copy(grown, b.buf)
			b.buf = grown
		} else if capacity == 0 {
			capacity = 1
		}
	}
	if capacity == 0 {
		capacity = 1
		b.buf = make([]byte, 1)
	}
	b.cap = capacity
	return b, nil
}

// newCursorBind binds a *Cursor parameter as a REF CURSOR OUT
// placeholder: the statement handle the caller pre-allocated via
// newCursorForOutBind (or equivalently Stmt.NewCursor) is bound
// directly as the placeholder's value (spec.md §3 Cursor, "fresh
// OUT-bind statement handle").
func newCursorBind(stmt *Stmt, pos int, name string, idx int, cur *Cursor) (*Bind, error) {
	b := &Bind{pos: pos, name: name, idx: idx, sqlt: C.SQLT_RSET, out: cur}
	return b, nil
}

// outTarget reports whether v is a pointer/OUT-style placeholder and,
// if so, the destination to write the fetched value back into after
// execute (spec.md §4.F "post-execute OUT write-back"). A nil pointer
// is not an OUT destination: it binds as an IN NULL.
func outTarget(v interface{}) (interface{}, bool) {
	switch x := v.(type) {
	case *int64:
		return x, x != nil
	case *string:
		return x, x != nil
	case *float64:
		return x, x != nil
	case *Varchar:
		return x, x != nil
	}
	return nil, false
}

func (b *Bind) bindByPos(stmt *Stmt) error {
	bp := &stmt.bindHandles[b.idx]
	dataPtr, dataLen, err := b.bindValue(stmt)
	if err != nil {
		return err
	}
	r := C.OCIBindByPos2(
		stmt.ocistmt,
		bp,
		stmt.ses.env.ocierr,
		C.ub4(b.pos),
		dataPtr,
		C.sb8(dataLen),
		b.sqlt,
		unsafe.Pointer(&b.indicator),
		&b.length,
		&b.rcode,
		0, nil,
		C.OCI_DEFAULT,
	)
	if Status(r) == StatusError {
		return stmt.ses.env.lastError(r)
	}
	return nil
}

// bindValue resolves the pointer+length OCIBindByPos2/BindByName2
// wants: the column buffer for a scalar bind, or the nested
// statement handle's own pointer for a REF CURSOR bind.
func (b *Bind) bindValue(stmt *Stmt) (unsafe.Pointer, C.sb4, error) {
	if b.lobLocator != nil {
		p := b.lobLocator
		return unsafe.Pointer(&p), C.sb4(unsafe.Sizeof(p)), nil
	}
	if cur, ok := b.out.(*Cursor); ok {
		if cur.handle == nil {
			h, err := stmt.ses.env.allocHandle(htypeStmt)
			if err != nil {
				return nil, 0, err
			}
			cur.handle, cur.owns = h, true
		}
		p := cur.handle.Ptr()
		return unsafe.Pointer(&p), C.sb4(unsafe.Sizeof(p)), nil
	}
	if len(b.buf) == 0 {
		return nil, 0, nil
	}
	return unsafe.Pointer(&b.buf[0]), b.cap, nil
}

func (b *Bind) bindByName(stmt *Stmt) error {
	bp := &stmt.bindHandles[b.idx]
	cname := C.CString(b.name)
	defer cFree(cname)
	dataPtr, dataLen, err := b.bindValue(stmt)
	if err != nil {
		return err
	}
	r := C.OCIBindByName2(
		stmt.ocistmt,
		bp,
		stmt.ses.env.ocierr,
		(*C.OraText)(unsafe.Pointer(cname)), C.sb4(len(b.name)),
		dataPtr,
		C.sb8(dataLen),
		b.sqlt,
		unsafe.Pointer(&b.indicator),
		&b.length,
		&b.rcode,
		0, nil,
		C.OCI_DEFAULT,
	)
	if Status(r) == StatusError {
		return stmt.ses.env.lastError(r)
	}
	return nil
}

// writeBack copies an OUT/INOUT bind's post-execute buffer into its
// Go destination, following spec.md §4.F.
func (b *Bind) writeBack() error {
	if b.out == nil {
		return nil
	}
	if b.indicator == -1 {
		return nil
	}
	switch dst := b.out.(type) {
	case *int64:
		if len(b.buf) >= 8 {
			*dst = int64(binary.LittleEndian.Uint64(b.buf))
		}
	case *float64:
		if len(b.buf) >= 8 {
			*dst = math.Float64frombits(binary.LittleEndian.Uint64(b.buf))
		}
	case *string:
		*dst = string(b.buf[:b.length])
	case *Varchar:
		dst.Buf = append(dst.Buf[:0], b.buf[:b.length]...)
	}
	return nil
}

// free is a no-op: bind handles are never individually OCIHandleFree'd,
// since OCIBindByPos2/BindByName2 populate them as a property of the
// statement and OCIStmtRelease tears them down with it.
func (b *Bind) free() {}
