package ora

/*
#include <oci.h>
*/
import "C"

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/pkg/errors"
)

// Status mirrors the subset of OCI return codes the driver branches
// on (spec.md §4.A). Everything else is folded into ERROR by the
// caller before it reaches here.
type Status int32

const (
	StatusSuccess         Status = C.OCI_SUCCESS
	StatusSuccessWithInfo Status = C.OCI_SUCCESS_WITH_INFO
	StatusNeedData        Status = C.OCI_NEED_DATA
	StatusNoData          Status = C.OCI_NO_DATA
	StatusError           Status = C.OCI_ERROR
	StatusInvalidHandle   Status = C.OCI_INVALID_HANDLE
	StatusStillExecuting  Status = C.OCI_STILL_EXECUTING
)

// Record is a single (code, message) pair extracted from an OCI error
// handle.
type Record struct {
	Code    int32
	Message string
}

// OCIError is a structured Oracle diagnostic: one or more Records
// pulled from the thread's Error handle (or the Env handle for
// pre-session failures), plus the OCI status that triggered
// extraction.
type OCIError struct {
	Status  Status
	Records []Record
}

func (e *OCIError) Error() string {
	if len(e.Records) == 0 {
		return fmt.Sprintf("OCI status %d: no diagnostic record available", e.Status)
	}
	parts := make([]string, len(e.Records))
	for i, r := range e.Records {
		parts[i] = fmt.Sprintf("ORA-%05d: %s", r.Code, r.Message)
	}
	return strings.Join(parts, "; ")
}

// Code returns the first (primary) Oracle error code, or 0 if none
// was recorded.
func (e *OCIError) Code() int32 {
	if len(e.Records) == 0 {
		return 0
	}
	return e.Records[0].Code
}

// extractOCIError loops OCIErrorGet over record numbers 1, 2, 3, ...
// against the given error handle until the client reports NO_DATA,
// building the full diagnostic chain for a non-success status.
//
// hndlp is either an *C.OCIError or an *C.OCIEnv — the client accepts
// both for OCIErrorGet's htype parameter (OCI_HTYPE_ERROR /
// OCI_HTYPE_ENV), which is how environment-creation failures (no
// Error handle exists yet) are reported.
func extractOCIError(hndlp unsafe.Pointer, htype C.ub4, status Status) *OCIError {
	oe := &OCIError{Status: status}
	var buf [3072]C.char
	for recno := C.ub4(1); ; recno++ {
		var code C.sb4
		r := C.OCIErrorGet(
			hndlp,
			recno,
			nil,
			&code,
			(*C.OraText)(unsafe.Pointer(&buf[0])),
			C.ub4(len(buf)),
			htype,
		)
		if r != C.OCI_SUCCESS {
			break
		}
		msg := strings.TrimRight(C.GoString(&buf[0]), "\n\x00 ")
		oe.Records = append(oe.Records, Record{Code: int32(code), Message: msg})
	}
	return oe
}

// errPrecondition builds a caller (driver-originated precondition)
// error, e.g. "not attached", "column position out of bounds".
func errPrecondition(format string, args ...interface{}) error {
	return errors.Errorf(format, args...)
}

// errAlloc reports an allocation failure: the client returned a null
// pointer with a success status, which the spec treats as a driver
// error referencing the Env handle.
func errAlloc(what string) error {
	return errors.Errorf("ora: failed to allocate %s", what)
}

// wrapOCI converts a non-success OCI status plus an already-extracted
// *OCIError into a Go error, annotated with the failing operation for
// easier triage (github.com/pkg/errors gives every wrap a stack
// frame, which the default Logger's Errorf surfaces via %+v).
func wrapOCI(op string, oe *OCIError) error {
	if oe == nil {
		return nil
	}
	return errors.Wrapf(oe, "ora: %s", op)
}

// IsNoData reports whether err represents OCI_NO_DATA — end of fetch
// iteration, not an error condition (spec.md §7).
func IsNoData(err error) bool {
	oe, ok := errors.Cause(err).(*OCIError)
	return ok && oe.Status == StatusNoData
}

// IsNeedData reports whether err represents OCI_NEED_DATA — the
// piece-wise LOB/LONG continuation signal, not an error condition.
func IsNeedData(err error) bool {
	oe, ok := errors.Cause(err).(*OCIError)
	return ok && oe.Status == StatusNeedData
}
