package ora

/*
#include <oci.h>
*/
import "C"

import (
	"sync/atomic"
	"unsafe"
)

// descKind identifies one of the client's descriptor-type tags
// (OCI_DTYPE_*), plus the SQLT code used when the descriptor is bound
// or defined (spec.md §3, §4.C "descriptor marshalling").
type descKind struct {
	ociType C.ub4
	sqlType C.ub2
	name    string
}

var (
	dtypeParam         = descKind{C.OCI_DTYPE_PARAM, 0, "Param"}
	dtypeRowid         = descKind{C.OCI_DTYPE_ROWID, C.SQLT_RDD, "Rowid"}
	dtypeLob           = descKind{C.OCI_DTYPE_LOB, C.SQLT_BLOB, "LobLocator"}
	dtypeFile          = descKind{C.OCI_DTYPE_FILE, C.SQLT_FILE, "BFile"}
	dtypeDateTime      = descKind{C.OCI_DTYPE_TIMESTAMP, C.SQLT_TIMESTAMP, "DateTime"}
	dtypeDateTimeTZ    = descKind{C.OCI_DTYPE_TIMESTAMP_TZ, C.SQLT_TIMESTAMP_TZ, "DateTimeTZ"}
	dtypeDateTimeLTZ   = descKind{C.OCI_DTYPE_TIMESTAMP_LTZ, C.SQLT_TIMESTAMP_LTZ, "DateTimeLTZ"}
	dtypeIntervalYM    = descKind{C.OCI_DTYPE_INTERVAL_YM, C.SQLT_INTERVAL_YM, "IntervalYM"}
	dtypeIntervalDS    = descKind{C.OCI_DTYPE_INTERVAL_DS, C.SQLT_INTERVAL_DS, "IntervalDS"}
)

// Descriptor owns one OCI descriptor of the given kind. Like Handle,
// its pointer lives behind atomic.Value so Take can move ownership
// out without moving the wrapper (spec.md §4.B, invariant 5 — LOB
// locator "exactly one owner").
type Descriptor struct {
	kind descKind
	ptr  atomic.Value // ptrHolder
}

// AllocDescriptor allocates a new descriptor of kind k as a child of
// env.
func AllocDescriptor(env *Env, k descKind) (*Descriptor, error) {
	var p unsafe.Pointer
	r := C.OCIDescriptorAlloc(
		unsafe.Pointer(env.ocienv),
		&p,
		k.ociType,
		C.size_t(0),
		nil,
	)
	if Status(r) == StatusInvalidHandle || p == nil {
		return nil, errAlloc(k.name + " descriptor")
	}
	d := &Descriptor{kind: k}
	d.ptr.Store(ptrHolder{p})
	return d, nil
}

func (d *Descriptor) Ptr() unsafe.Pointer {
	if d == nil {
		return nil
	}
	v, _ := d.ptr.Load().(ptrHolder)
	return v.p
}

func (d *Descriptor) IsNil() bool { return d == nil || d.Ptr() == nil }

func (d *Descriptor) SQLType() C.ub2 { return d.kind.sqlType }

// Take allocates a fresh, empty descriptor of the same kind in place
// of this one and returns the previous pointer to the caller, who
// becomes its sole owner. This is the mechanism behind LOB/ROWID/
// cursor "transfer out of the row" (spec.md §4.G).
func (d *Descriptor) Take(env *Env) (old unsafe.Pointer, err error) {
	old = d.Ptr()
	var p unsafe.Pointer
	r := C.OCIDescriptorAlloc(unsafe.Pointer(env.ocienv), &p, d.kind.ociType, C.size_t(0), nil)
	if Status(r) == StatusInvalidHandle || p == nil {
		return old, errAlloc(d.kind.name + " descriptor")
	}
	d.ptr.Store(ptrHolder{p})
	return old, nil
}

// Free releases the descriptor exactly once; failures are swallowed.
func (d *Descriptor) Free() {
	if d == nil {
		return
	}
	p := d.Ptr()
	if p == nil {
		return
	}
	d.ptr.Store(ptrHolder{nil})
	C.OCIDescriptorFree(p, d.kind.ociType)
}

// wrapDescriptor boxes a raw pointer taken out of another Descriptor
// (via Take) back into a standalone, owning Descriptor value.
func wrapDescriptor(k descKind, p unsafe.Pointer) *Descriptor {
	d := &Descriptor{kind: k}
	d.ptr.Store(ptrHolder{p})
	return d
}

// freeDescriptorPtr frees a bare descriptor pointer taken out via Take, once
// the caller (a LOB/ROWID/Cursor value) is itself dropped.
func freeDescriptorPtr(p unsafe.Pointer, k descKind) {
	if p == nil {
		return
	}
	C.OCIDescriptorFree(p, k.ociType)
}
