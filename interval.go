package ora

/*
#include <oci.h>
*/
import "C"

import (
	"time"
	"unsafe"
)

// IntervalYM wraps an OCI_DTYPE_INTERVAL_YM descriptor: a year-month
// span, grounded on original_source/src/types/interval.rs's
// OCIIntervalSetYearMonth/GetYearMonth pair.
type IntervalYM struct{ desc *Descriptor }

// IntervalDS wraps an OCI_DTYPE_INTERVAL_DS descriptor: a
// day-to-fractional-second span.
type IntervalDS struct{ desc *Descriptor }

// NewIntervalYM builds an IntervalYM from whole years and months.
func NewIntervalYM(env *Env, years, months int) (IntervalYM, error) {
	desc, err := env.allocDescriptor(dtypeIntervalYM)
	if err != nil {
		return IntervalYM{}, err
	}
	r := C.OCIIntervalSetYearMonth(unsafe.Pointer(env.ocienv), env.ocierr, C.sb4(years), C.sb4(months), (*C.OCIInterval)(desc.Ptr()))
	if Status(r) == StatusError {
		desc.Free()
		return IntervalYM{}, env.lastError(r)
	}
	return IntervalYM{desc}, nil
}

// YearsMonths decomposes the interval back into years and months.
func (iv IntervalYM) YearsMonths(env *Env) (years, months int, err error) {
	var y, m C.sb4
	r := C.OCIIntervalGetYearMonth(unsafe.Pointer(env.ocienv), env.ocierr, &y, &m, (*C.OCIInterval)(iv.desc.Ptr()))
	if Status(r) == StatusError {
		return 0, 0, env.lastError(r)
	}
	return int(y), int(m), nil
}

func (iv IntervalYM) Close() { iv.desc.Free() }

// NewIntervalDS builds an IntervalDS from a time.Duration.
func NewIntervalDS(env *Env, d time.Duration) (IntervalDS, error) {
	desc, err := env.allocDescriptor(dtypeIntervalDS)
	if err != nil {
		return IntervalDS{}, err
	}
	days := int(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hours := int(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes := int(d / time.Minute)
	d -= time.Duration(minutes) * time.Minute
	seconds := int(d / time.Second)
	d -= time.Duration(seconds) * time.Second
	nanos := int(d)
	r := C.OCIIntervalSetDaySecond(
		unsafe.Pointer(env.ocienv), env.ocierr,
		C.sb4(days), C.sb4(hours), C.sb4(minutes), C.sb4(seconds), C.sb4(nanos),
		(*C.OCIInterval)(desc.Ptr()),
	)
	if Status(r) == StatusError {
		desc.Free()
		return IntervalDS{}, env.lastError(r)
	}
	return IntervalDS{desc}, nil
}

// Duration converts the interval back into a time.Duration.
func (iv IntervalDS) Duration(env *Env) (time.Duration, error) {
	var days, hours, minutes, seconds, nanos C.sb4
	r := C.OCIIntervalGetDaySecond(unsafe.Pointer(env.ocienv), env.ocierr, &days, &hours, &minutes, &seconds, &nanos, (*C.OCIInterval)(iv.desc.Ptr()))
	if Status(r) == StatusError {
		return 0, env.lastError(r)
	}
	d := time.Duration(days) * 24 * time.Hour
	d += time.Duration(hours) * time.Hour
	d += time.Duration(minutes) * time.Minute
	d += time.Duration(seconds) * time.Second
	d += time.Duration(nanos)
	return d, nil
}

func (iv IntervalDS) Close() { iv.desc.Free() }
