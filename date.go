package ora

/*
#include <oci.h>
*/
import "C"

import (
	"time"
	"unsafe"
)

// Date is Oracle's fixed 7-field DATE value (year down to second, no
// fractional seconds and no time zone), distinct from the TIMESTAMP
// family's descriptor-backed types (spec.md §3 "Date (fixed struct)").
// Fetched natively as an OCIDate C struct (SQLT_ODT) rather than text,
// so its value never depends on the session's NLS_DATE_FORMAT.
type Date struct {
	Year                 int16
	Month, Day           uint8
	Hour, Minute, Second uint8
}

// dateFromRaw reads an OCIDate-sized column buffer fetched via
// SQLT_ODT directly into a Date.
func dateFromRaw(raw []byte) Date {
	if len(raw) < int(unsafe.Sizeof(C.OCIDate{})) {
		return Date{}
	}
	od := (*C.OCIDate)(unsafe.Pointer(&raw[0]))
	return Date{
		Year:   int16(od.OCIDateYYYY),
		Month:  uint8(od.OCIDateMM),
		Day:    uint8(od.OCIDateDD),
		Hour:   uint8(od.OCIDateHH),
		Minute: uint8(od.OCIDateMI),
		Second: uint8(od.OCIDateSS),
	}
}

func (d Date) toOCIDate() C.OCIDate {
	var od C.OCIDate
	od.OCIDateYYYY = C.sb2(d.Year)
	od.OCIDateMM = C.ub1(d.Month)
	od.OCIDateDD = C.ub1(d.Day)
	od.OCIDateHH = C.ub1(d.Hour)
	od.OCIDateMI = C.ub1(d.Minute)
	od.OCIDateSS = C.ub1(d.Second)
	return od
}

// Time converts the Date to a time.Time in loc — OCIDate carries no
// zone of its own, so the caller supplies one.
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(int(d.Year), time.Month(d.Month), int(d.Day), int(d.Hour), int(d.Minute), int(d.Second), 0, loc)
}

// String renders the Date under Oracle's canonical DATE mask via
// OCIDateToText, the conversion spec.md §4.G mandates rather than
// depending on the session's NLS_DATE_FORMAT.
func (d Date) String(env *Env) (string, error) {
	od := d.toOCIDate()
	mask := []byte("YYYY-MM-DD HH24:MI:SS")
	buf := make([]byte, 32)
	bufLen := C.ub4(len(buf))
	r := C.OCIDateToText(
		env.ocierr,
		&od,
		(*C.oratext)(unsafe.Pointer(&mask[0])), C.ub1(len(mask)),
		nil, 0,
		&bufLen, (*C.oratext)(unsafe.Pointer(&buf[0])),
	)
	if Status(r) == StatusError {
		return "", env.lastError(r)
	}
	return string(buf[:bufLen]), nil
}
