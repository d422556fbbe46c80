package ora

/*
#include <oci.h>
*/
import "C"

import (
	"unsafe"
)

// RowID wraps an OCI_DTYPE_ROWID descriptor — the physical row
// address Oracle hands back from a ROWID column or pseudo-column,
// independent of the row's actual column values.
type RowID struct {
	desc *Descriptor
	env  *Env
}

func rowIDFromDescriptor(env *Env, desc *Descriptor) RowID {
	return RowID{desc: desc, env: env}
}

// String renders the RowID in Oracle's 18-character base64-like
// display form via OCIRowidToChar.
func (r RowID) String() string {
	if r.desc == nil || r.desc.IsNil() {
		return ""
	}
	buf := make([]byte, 18)
	bufLen := C.ub2(len(buf))
	rc := C.OCIRowidToChar(
		(*C.OCIRowid)(r.desc.Ptr()),
		(*C.OraText)(unsafe.Pointer(&buf[0])),
		&bufLen,
		r.env.ocierr,
	)
	if Status(rc) == StatusError {
		return ""
	}
	return string(buf[:bufLen])
}

// Close releases the underlying descriptor.
func (r RowID) Close() {
	if r.desc != nil {
		r.desc.Free()
	}
}
