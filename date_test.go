package ora

/*
#include <oci.h>
*/
import "C"

import (
	"testing"
	"time"
	"unsafe"
)

func TestDateFromRaw(t *testing.T) {
	var od C.OCIDate
	od.OCIDateYYYY = 2026
	od.OCIDateMM = 7
	od.OCIDateDD = 31
	od.OCIDateHH = 13
	od.OCIDateMI = 45
	od.OCIDateSS = 9
	raw := (*[unsafe.Sizeof(od)]byte)(unsafe.Pointer(&od))[:]

	d := dateFromRaw(raw)
	want := Date{Year: 2026, Month: 7, Day: 31, Hour: 13, Minute: 45, Second: 9}
	if d != want {
		t.Fatalf("dateFromRaw() = %+v, want %+v", d, want)
	}
}

func TestDateFromRaw_ShortBuffer(t *testing.T) {
	if got := dateFromRaw([]byte{1, 2, 3}); got != (Date{}) {
		t.Errorf("dateFromRaw(short) = %+v, want zero value", got)
	}
}

func TestDate_Time(t *testing.T) {
	d := Date{Year: 2026, Month: 7, Day: 31, Hour: 13, Minute: 45, Second: 9}
	got := d.Time(time.UTC)
	want := time.Date(2026, 7, 31, 13, 45, 9, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Time() = %v, want %v", got, want)
	}
}
