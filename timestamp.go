package ora

/*
#include <oci.h>
*/
import "C"

import (
	"time"
	"unsafe"
)

// Timestamp wraps an OCI_DTYPE_TIMESTAMP descriptor (no session time
// zone attached), grounded on original_source/src/types/timestamp.rs's
// OCIDateTimeConstruct/OCIDateTimeGetDate/GetTime pairing.
type Timestamp struct{ desc *Descriptor }

// TimestampTZ wraps an OCI_DTYPE_TIMESTAMP_TZ descriptor: a Timestamp
// plus an explicit UTC offset or named region.
type TimestampTZ struct{ desc *Descriptor }

// TimestampLTZ wraps an OCI_DTYPE_TIMESTAMP_LTZ descriptor: stored in
// UTC, converted to the session time zone on every read.
type TimestampLTZ struct{ desc *Descriptor }

func newTimestampOf(env *Env, k descKind, t time.Time) (*Descriptor, error) {
	desc, err := env.allocDescriptor(k)
	if err != nil {
		return nil, err
	}
	y, mo, d := t.Date()
	hh, mm, ss := t.Clock()
	var tz *C.char
	var tzLen int
	if k != dtypeDateTime {
		off := t.Format("-07:00")
		tz = C.CString(off)
		tzLen = len(off)
		defer cFree(tz)
	}
	r := C.OCIDateTimeConstruct(
		unsafe.Pointer(env.ocienv),
		env.ocierr,
		(*C.OCIDateTime)(desc.Ptr()),
		C.sb2(y), C.ub1(mo), C.ub1(d),
		C.ub1(hh), C.ub1(mm), C.ub1(ss), C.ub4(t.Nanosecond()),
		(*C.OraText)(unsafe.Pointer(tz)), C.size_t(tzLen),
	)
	if Status(r) == StatusError {
		desc.Free()
		return nil, env.lastError(r)
	}
	return desc, nil
}

// dateFromTime wraps a bound time.Time in a dateBind, which binds it
// as text rather than as an OCI date or timestamp descriptor.
func dateFromTime(t time.Time) dateBind { return dateBind{t} }

// dateBind adapts time.Time to ToSQL by formatting it as
// "2006-01-02 15:04:05" character data; no OCI descriptor is built
// for it, here or in bind.go.
type dateBind struct{ t time.Time }

func (d dateBind) toSQL(cfg StmtCfg) (sqlValue, error) {
	// Encoded as text and let the server parse it under its own NLS
	// date format; avoids needing an Env at this layer purely to build
	// a descriptor for a plain scalar bind.
	return sqlValue{sqlt: C.SQLT_CHR, data: []byte(d.t.Format("2006-01-02 15:04:05"))}, nil
}

// Time converts a Timestamp back to time.Time via
// OCIDateTimeGetDate/GetTime.
func (ts *Timestamp) Time(env *Env) (time.Time, error) {
	return timestampToTime(env, ts.desc, time.UTC)
}

func (ts *TimestampTZ) Time(env *Env) (time.Time, error) {
	loc, _ := ts.zoneOffset(env)
	return timestampToTime(env, ts.desc, loc)
}

func (ts *TimestampLTZ) Time(env *Env) (time.Time, error) {
	return timestampToTime(env, ts.desc, time.Local)
}

func (ts *TimestampTZ) zoneOffset(env *Env) (*time.Location, error) {
	var hour, minute C.sb1
	r := C.OCIDateTimeGetTimeZoneOffset(unsafe.Pointer(env.ocienv), env.ocierr, (*C.OCIDateTime)(ts.desc.Ptr()), &hour, &minute)
	if Status(r) == StatusError {
		return time.UTC, env.lastError(r)
	}
	offset := int(hour)*3600 + int(minute)*60
	return time.FixedZone("", offset), nil
}

func timestampToTime(env *Env, desc *Descriptor, loc *time.Location) (time.Time, error) {
	var y C.sb2
	var mo, d, hh, mm, ss C.ub1
	var ns C.ub4
	r := C.OCIDateTimeGetDate(unsafe.Pointer(env.ocienv), env.ocierr, (*C.OCIDateTime)(desc.Ptr()), &y, &mo, &d)
	if Status(r) == StatusError {
		return time.Time{}, env.lastError(r)
	}
	r = C.OCIDateTimeGetTime(unsafe.Pointer(env.ocienv), env.ocierr, (*C.OCIDateTime)(desc.Ptr()), &hh, &mm, &ss, &ns)
	if Status(r) == StatusError {
		return time.Time{}, env.lastError(r)
	}
	return time.Date(int(y), time.Month(mo), int(d), int(hh), int(mm), int(ss), int(ns), loc), nil
}

// Close releases the underlying descriptor.
func (ts *Timestamp) Close()    { ts.desc.Free() }
func (ts *TimestampTZ) Close()  { ts.desc.Free() }
func (ts *TimestampLTZ) Close() { ts.desc.Free() }
