package ora

/*
#include <oci.h>
*/
import "C"

import "testing"

func TestNumberFromRaw_RoundTrips(t *testing.T) {
	raw := make([]byte, 22)
	for i := range raw {
		raw[i] = byte(i + 1)
	}
	n := numberFromRaw(raw)
	for i, b := range n.raw {
		if b != raw[i] {
			t.Fatalf("numberFromRaw() byte %d = %d, want %d", i, b, raw[i])
		}
	}
}

func TestNumberFromRaw_CopiesRatherThanAliases(t *testing.T) {
	raw := make([]byte, 22)
	raw[0] = 1
	n := numberFromRaw(raw)
	raw[0] = 2
	if n.raw[0] != 1 {
		t.Errorf("numberFromRaw() aliases its input slice; got %d, want 1", n.raw[0])
	}
}

func TestInt64ToNumberRaw_RoundTrips(t *testing.T) {
	cases := []int64{0, 1, -1, 42, -42, 100, -100, 8128, -8128,
		250_000_000_000, -250_000_000_000, 250_000_190_000,
		9223372036854775807, -9223372036854775807}
	for _, want := range cases {
		raw := int64ToNumberRaw(want)
		got, err := int64FromNumberRaw(raw)
		if err != nil {
			t.Fatalf("int64FromNumberRaw(%d) error = %v", want, err)
		}
		if got != want {
			t.Errorf("round trip of %d = %d", want, got)
		}
	}
}

func TestInt64ToNumberRaw_Zero(t *testing.T) {
	raw := int64ToNumberRaw(0)
	if raw[0] != 1 || raw[1] != 128 {
		t.Errorf("int64ToNumberRaw(0) = %v, want length 1 exponent 128", raw[:2])
	}
}

func TestInt64ToNumberRaw_NegativeHasSentinel(t *testing.T) {
	raw := int64ToNumberRaw(-42)
	length := int(raw[0])
	if raw[length] != 102 {
		t.Errorf("int64ToNumberRaw(-42) missing 0x66 sentinel at byte %d: got %v", length, raw[:length+1])
	}
}

func TestUint64FromNumberRaw_RejectsNegative(t *testing.T) {
	raw := int64ToNumberRaw(-5)
	if _, err := uint64FromNumberRaw(raw); err == nil {
		t.Errorf("uint64FromNumberRaw() on a negative Number: want error, got nil")
	}
}

func TestNumber_ToSQL(t *testing.T) {
	var n Number
	n.raw[0] = 42
	sv, err := n.toSQL(NewStmtCfg())
	if err != nil {
		t.Fatalf("toSQL() error = %v", err)
	}
	if sv.sqlt != C.SQLT_VNU {
		t.Errorf("toSQL().sqlt = %v, want SQLT_VNU", sv.sqlt)
	}
	if len(sv.data) != 22 || sv.data[0] != 42 {
		t.Errorf("toSQL().data = %v, want a 22-byte copy starting with 42", sv.data)
	}
}
