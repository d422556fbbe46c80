package ora

/*
#include <oci.h>
*/
import "C"

import (
	"sync/atomic"
	"unsafe"
)

// handleKind identifies one of the client's handle-type tags
// (OCI_HTYPE_*). Each Handle stores one of these in its kind field so
// that alloc/free/attribute calls always carry the right type code —
// the closest Go equivalent of the phantom capability trait spec.md
// §9 describes, since Go has no const generics.
type handleKind struct {
	ociType C.ub4
	name    string
}

var (
	htypeEnv    = handleKind{C.OCI_HTYPE_ENV, "Env"}
	htypeError  = handleKind{C.OCI_HTYPE_ERROR, "Error"}
	htypeServer = handleKind{C.OCI_HTYPE_SERVER, "Server"}
	htypeSvcCtx = handleKind{C.OCI_HTYPE_SVCCTX, "SvcCtx"}
	htypeSess   = handleKind{C.OCI_HTYPE_SESSION, "Session"}
	htypeStmt   = handleKind{C.OCI_HTYPE_STMT, "Stmt"}
	htypeBind   = handleKind{C.OCI_HTYPE_BIND, "Bind"}
	htypeDefine = handleKind{C.OCI_HTYPE_DEFINE, "Define"}
	htypeDesc   = handleKind{C.OCI_HTYPE_DESCRIBE, "Describe"}
)

// Handle owns one OCI handle of the given kind. It is not copyable by
// value in spirit (copying the struct would duplicate the pointer and
// invite a double-free) — treat a Handle like a move-only value and
// pass it by pointer once allocated.
//
// The pointer lives behind atomic.Value so Take can swap in a fresh
// allocation without requiring the Handle itself to move, which
// matters when a Handle is an embedded, address-stable field of a
// larger struct (e.g. a column's descriptor outliving the column's
// value cell, spec.md §4.B).
type Handle struct {
	kind handleKind
	ptr  atomic.Value // unsafe.Pointer, boxed in a holder struct
}

type ptrHolder struct{ p unsafe.Pointer }

// AllocHandle allocates a new handle of kind k as a child of env.
func AllocHandle(env *Env, k handleKind) (*Handle, error) {
	var p unsafe.Pointer
	r := C.OCIHandleAlloc(
		unsafe.Pointer(env.ocienv),
		&p,
		k.ociType,
		C.size_t(0),
		nil,
	)
	if Status(r) == StatusInvalidHandle || p == nil {
		return nil, errAlloc(k.name + " handle")
	}
	h := &Handle{kind: k}
	h.ptr.Store(ptrHolder{p})
	return h, nil
}

// Ptr returns the current raw pointer. Safe to call after Take has
// swapped a fresh handle in.
func (h *Handle) Ptr() unsafe.Pointer {
	if h == nil {
		return nil
	}
	v, _ := h.ptr.Load().(ptrHolder)
	return v.p
}

// IsNil reports whether the handle has been freed (or was never
// allocated).
func (h *Handle) IsNil() bool {
	return h == nil || h.Ptr() == nil
}

// Take swaps in a freshly allocated handle of the same kind and
// returns the previous raw pointer, leaving ownership of that pointer
// with the caller. Used when a column's descriptor must outlive the
// column cell that originally held it (spec.md §4.B, §4.G LOB/ROWID
// transfer).
func (h *Handle) Take(env *Env) (old unsafe.Pointer, err error) {
	old = h.Ptr()
	var p unsafe.Pointer
	r := C.OCIHandleAlloc(unsafe.Pointer(env.ocienv), &p, h.kind.ociType, C.size_t(0), nil)
	if Status(r) == StatusInvalidHandle || p == nil {
		return old, errAlloc(h.kind.name + " handle")
	}
	h.ptr.Store(ptrHolder{p})
	return old, nil
}

// Free releases the handle exactly once. Free failures are swallowed
// — drop must not panic (spec.md §4.B).
func (h *Handle) Free() {
	if h == nil {
		return
	}
	p := h.Ptr()
	if p == nil {
		return
	}
	h.ptr.Store(ptrHolder{nil})
	C.OCIHandleFree(p, h.kind.ociType)
}

// GetAttrUB4 reads a ub4-sized scalar attribute.
func (h *Handle) GetAttrUB4(env *Env, attr C.ub4) (uint32, error) {
	var v C.ub4
	sz := C.ub4(unsafe.Sizeof(v))
	r := C.OCIAttrGet(h.Ptr(), h.kind.ociType, unsafe.Pointer(&v), &sz, attr, env.ocierr)
	if Status(r) == StatusError {
		return 0, env.lastError(r)
	}
	return uint32(v), nil
}

// GetAttrUB1 reads a ub1-sized scalar attribute (e.g. an on/off flag).
func (h *Handle) GetAttrUB1(env *Env, attr C.ub4) (uint8, error) {
	var v C.ub1
	sz := C.ub4(unsafe.Sizeof(v))
	r := C.OCIAttrGet(h.Ptr(), h.kind.ociType, unsafe.Pointer(&v), &sz, attr, env.ocierr)
	if Status(r) == StatusError {
		return 0, env.lastError(r)
	}
	return uint8(v), nil
}

// SetAttrUB1 sets a ub1-sized scalar attribute.
func (h *Handle) SetAttrUB1(env *Env, v uint8, attr C.ub4) error {
	cv := C.ub1(v)
	r := C.OCIAttrSet(h.Ptr(), h.kind.ociType, unsafe.Pointer(&cv), 0, attr, env.ocierr)
	if Status(r) == StatusError {
		return env.lastError(r)
	}
	return nil
}

// GetAttrUB8 reads a ub8-sized scalar attribute (e.g. row count).
func (h *Handle) GetAttrUB8(env *Env, attr C.ub4) (uint64, error) {
	var v C.ub8
	sz := C.ub4(unsafe.Sizeof(v))
	r := C.OCIAttrGet(h.Ptr(), h.kind.ociType, unsafe.Pointer(&v), &sz, attr, env.ocierr)
	if Status(r) == StatusError {
		return 0, env.lastError(r)
	}
	return uint64(v), nil
}

// GetAttrString reads a variable-length string attribute, returned as
// a freshly copied Go string (the underlying buffer is client-owned
// and not guaranteed to outlive the call).
func (h *Handle) GetAttrString(env *Env, attr C.ub4) (string, error) {
	var cp *C.char
	var sz C.ub4
	r := C.OCIAttrGet(h.Ptr(), h.kind.ociType, unsafe.Pointer(&cp), &sz, attr, env.ocierr)
	if Status(r) == StatusError {
		return "", env.lastError(r)
	}
	if cp == nil || sz == 0 {
		return "", nil
	}
	return C.GoStringN(cp, C.int(sz)), nil
}

// SetAttrUB4 sets a ub4-sized scalar attribute.
func (h *Handle) SetAttrUB4(env *Env, v uint32, attr C.ub4) error {
	cv := C.ub4(v)
	r := C.OCIAttrSet(h.Ptr(), h.kind.ociType, unsafe.Pointer(&cv), 0, attr, env.ocierr)
	if Status(r) == StatusError {
		return env.lastError(r)
	}
	return nil
}

// SetAttrString sets a pointer+length string attribute; the client
// copies the bytes during the call so no allocation needs to outlive
// it.
func (h *Handle) SetAttrString(env *Env, s string, attr C.ub4) error {
	cs := C.CString(s)
	defer cFree(cs)
	r := C.OCIAttrSet(h.Ptr(), h.kind.ociType, unsafe.Pointer(cs), C.ub4(len(s)), attr, env.ocierr)
	if Status(r) == StatusError {
		return env.lastError(r)
	}
	return nil
}

// SetAttrHandle sets a pointer-sized attribute whose value is another
// handle (e.g. wiring a Server handle onto a SvcCtx).
func (h *Handle) SetAttrHandle(env *Env, v *Handle, attr C.ub4) error {
	p := v.Ptr()
	r := C.OCIAttrSet(h.Ptr(), h.kind.ociType, p, 0, attr, env.ocierr)
	if Status(r) == StatusError {
		return env.lastError(r)
	}
	return nil
}
