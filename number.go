package ora

/*
#include <oci.h>
*/
import "C"

import (
	"unsafe"
)

// Number is Oracle's opaque 22-byte NUMBER representation (the
// universal numeric type behind NUMBER, NUMERIC, INT, FLOAT, and
// DECIMAL columns): byte 0 is the count of the bytes that follow it
// (the exponent byte, the mantissa digits and, for a negative value,
// its 0x66 terminator), byte 1 a biased exponent, and the rest
// base-100 mantissa digits. Integer
// conversion decodes this layout directly rather than round-tripping
// through the client (original_source/src/types/number.rs's
// u128_to_number/i128_from_number); real/text conversion still goes
// through OCINumberFromReal/OCINumberToText, since there is no
// portable way to reproduce the client's binary-to-decimal rounding.
type Number struct {
	raw [22]byte
}

// FromInt64 encodes n into a Number by building its base-100,
// biased-exponent representation directly, without a client round
// trip.
func FromInt64(env *Env, n int64) (Number, error) {
	return Number{raw: int64ToNumberRaw(n)}, nil
}

// int64ToNumberRaw builds the 22-byte NUMBER encoding of n following
// original_source/src/types/number.rs's u128_to_number/i128_to_number:
// non-negative values are a length byte (the exponent byte plus the
// digits), a biased exponent starting at 193, and the base-100 digits
// (each biased by +1) of n with trailing zero digits dropped; negative
// values mirror that with digits biased as 101-digit and a
// terminating 0x66 sentinel byte, which the length byte also counts.
func int64ToNumberRaw(n int64) [22]byte {
	if n >= 0 {
		return uint64ToNumberRaw(uint64(n))
	}
	var raw [22]byte
	var digits [21]byte
	idx := len(digits) - 1
	exp := uint8(63)
	mag := uint64(-n)
	digits[idx] = 102
	for mag != 0 {
		digit := byte(mag % 100)
		if digit > 0 || idx < len(digits)-1 {
			idx--
			digits[idx] = 101 - digit
		}
		mag /= 100
		exp--
	}
	length := len(digits) - idx
	if idx == 0 {
		length = len(digits) - 1
	}
	raw[0] = byte(length) + 1
	raw[1] = exp
	copy(raw[2:2+length], digits[idx:idx+length])
	return raw
}

// uint64ToNumberRaw is int64ToNumberRaw's non-negative half, exponent
// biased at 192 upward instead of 63 downward and with no sentinel.
func uint64ToNumberRaw(v uint64) [22]byte {
	var raw [22]byte
	if v == 0 {
		raw[0] = 1
		raw[1] = 128
		return raw
	}
	var digits [20]byte
	idx := len(digits)
	exp := uint8(192)
	for v != 0 {
		digit := byte(v % 100)
		if digit > 0 || idx < len(digits) {
			idx--
			digits[idx] = digit + 1
		}
		v /= 100
		exp++
	}
	length := len(digits) - idx
	raw[0] = byte(length) + 1
	raw[1] = exp
	copy(raw[2:2+length], digits[idx:])
	return raw
}

// pow100 returns 100^n for the small exponents the NUMBER digit loop
// below can produce.
func pow100(n int) int64 {
	r := int64(1)
	for i := 0; i < n; i++ {
		r *= 100
	}
	return r
}

func pow100u(n int) uint64 {
	r := uint64(1)
	for i := 0; i < n; i++ {
		r *= 100
	}
	return r
}

// int64FromNumberRaw decodes raw's base-100, biased-exponent mantissa
// directly into an int64, the inverse of int64ToNumberRaw, following
// original_source/src/types/number.rs's i128_from_number.
func int64FromNumberRaw(raw [22]byte) (int64, error) {
	length := int(raw[0])
	exp := raw[1]
	if exp >= 193 {
		v, err := uint64FromNumberRaw(raw)
		if err != nil {
			return 0, err
		}
		if v > 1<<63-1 {
			return 0, errPrecondition("ora: Number overflows int64")
		}
		return int64(v), nil
	}
	if length == 0 || length >= len(raw) {
		return 0, errPrecondition("ora: uninitialized Number")
	}
	if length == 1 || (62 < exp && exp < 193) {
		if length > 1 && exp == 192 && raw[2] > 50 {
			return 1, nil
		}
		if length > 1 && exp == 63 && raw[2] < 52 {
			return -1, nil
		}
		return 0, nil
	}
	if exp < 43 {
		return 0, errPrecondition("ora: Number overflows int64")
	}
	e := int(62 - exp)
	val := int64(101 - raw[2])
	idx := 3
	for idx <= length && e > 0 && raw[idx] <= 101 {
		digit := int64(101 - raw[idx])
		val = val*100 + digit
		idx++
		e--
	}
	if e > 0 {
		val *= pow100(e)
	} else if idx <= length && raw[idx] <= 101 {
		if raw[idx] < 52 {
			val++
		}
	}
	return -val, nil
}

// uint64FromNumberRaw decodes a non-negative Number's mantissa
// directly into a uint64, following
// original_source/src/types/number.rs's u128_from_number.
func uint64FromNumberRaw(raw [22]byte) (uint64, error) {
	length := int(raw[0])
	exp := raw[1]
	if length == 0 || length >= len(raw) {
		return 0, errPrecondition("ora: uninitialized Number")
	}
	if length == 1 || (62 < exp && exp < 193) {
		if length > 1 && exp == 192 && raw[2] > 50 {
			return 1, nil
		}
		return 0, nil
	}
	if exp <= 62 {
		return 0, errPrecondition("ora: cannot convert a negative Number to an unsigned integer")
	}
	if exp > 212 {
		return 0, errPrecondition("ora: Number overflows uint64")
	}
	e := int(exp) - 193
	val := uint64(raw[2] - 1)
	idx := 3
	for idx <= length && e > 0 {
		digit := uint64(raw[idx] - 1)
		val = val*100 + digit
		idx++
		e--
	}
	if e > 0 {
		val *= pow100u(e)
	} else if idx <= length {
		if raw[idx] > 50 {
			val++
		}
	}
	return val, nil
}

// FromFloat64 converts f to a Number via OCINumberFromReal.
func FromFloat64(env *Env, f float64) (Number, error) {
	var num Number
	r := C.OCINumberFromReal(env.ocierr, unsafe.Pointer(&f), C.uword(unsafe.Sizeof(f)), (*C.OCINumber)(unsafe.Pointer(&num.raw[0])))
	if Status(r) == StatusError {
		return num, env.lastError(r)
	}
	return num, nil
}

// ParseNumber parses s under the given Oracle format mask (e.g.
// "FM999999999.00"), the NUMBER analog of strconv.ParseFloat.
func ParseNumber(env *Env, s, mask string) (Number, error) {
	var num Number
	cs := C.CString(s)
	defer cFree(cs)
	var cm *C.char
	if mask != "" {
		cm = C.CString(mask)
		defer cFree(cm)
	}
	r := C.OCINumberFromText(
		env.ocierr,
		(*C.oratext)(unsafe.Pointer(cs)), C.ub4(len(s)),
		(*C.oratext)(unsafe.Pointer(cm)), C.ub4(len(mask)),
		nil, 0,
		(*C.OCINumber)(unsafe.Pointer(&num.raw[0])),
	)
	if Status(r) == StatusError {
		return num, env.lastError(r)
	}
	return num, nil
}

// Format renders the Number under an Oracle format mask, the NUMBER
// analog of strconv.FormatFloat. An empty mask uses the session's
// default numeric format.
func (n Number) Format(env *Env, mask string) (string, error) {
	var cm *C.char
	if mask != "" {
		cm = C.CString(mask)
		defer cFree(cm)
	}
	buf := make([]byte, 64)
	bufLen := C.ub4(len(buf))
	r := C.OCINumberToText(
		env.ocierr,
		(*C.OCINumber)(unsafe.Pointer(&n.raw[0])),
		(*C.oratext)(unsafe.Pointer(cm)), C.ub4(len(mask)),
		nil, 0,
		&bufLen, (*C.oratext)(unsafe.Pointer(&buf[0])),
	)
	if Status(r) == StatusError {
		return "", env.lastError(r)
	}
	return string(buf[:bufLen]), nil
}

// Int64 converts the Number to an int64, rounding any fractional part,
// by decoding its base-100 mantissa directly rather than going through
// the client. env is accepted for symmetry with Float64 but unused.
func (n Number) Int64(env *Env) (int64, error) {
	return int64FromNumberRaw(n.raw)
}

// Float64 converts the Number to a float64 via OCINumberToReal.
func (n Number) Float64(env *Env) (float64, error) {
	var out float64
	r := C.OCINumberToReal(env.ocierr, (*C.OCINumber)(unsafe.Pointer(&n.raw[0])), C.uword(unsafe.Sizeof(out)), unsafe.Pointer(&out))
	if Status(r) == StatusError {
		return 0, env.lastError(r)
	}
	return out, nil
}

func (n Number) toSQL(cfg StmtCfg) (sqlValue, error) {
	buf := make([]byte, 22)
	copy(buf, n.raw[:])
	return sqlValue{sqlt: C.SQLT_VNU, data: buf}, nil
}

// numberFromRaw wraps a 22-byte OCI-owned NUMBER buffer (as fetched
// into a column cell) into a Number, copying the bytes out so the
// Number outlives the column's row buffer.
func numberFromRaw(raw []byte) Number {
	var num Number
	copy(num.raw[:], raw)
	return num
}
