package ora

/*
#include <oci.h>
*/
import "C"

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestInt64Bytes(t *testing.T) {
	buf := int64Bytes(-7)
	if got := int64(binary.LittleEndian.Uint64(buf)); got != -7 {
		t.Errorf("int64Bytes round-trip = %d, want -7", got)
	}
}

func TestFloat64Bytes(t *testing.T) {
	buf := float64Bytes(3.25)
	got := math.Float64frombits(binary.LittleEndian.Uint64(buf))
	if got != 3.25 {
		t.Errorf("float64Bytes round-trip = %v, want 3.25", got)
	}
}

func TestFloat32Bytes(t *testing.T) {
	buf := float32Bytes(1.25)
	got := math.Float32frombits(binary.LittleEndian.Uint32(buf))
	if got != 1.25 {
		t.Errorf("float32Bytes round-trip = %v, want 1.25", got)
	}
}

func TestValueToSQL_Nil(t *testing.T) {
	sv, err := valueToSQL(nil, NewStmtCfg())
	if err != nil {
		t.Fatalf("valueToSQL(nil) error = %v", err)
	}
	if !sv.null {
		t.Errorf("valueToSQL(nil).null = false")
	}
}

func TestValueToSQL_Scalars(t *testing.T) {
	cfg := NewStmtCfg()
	cases := []struct {
		name string
		v    interface{}
		sqlt C.ub2
	}{
		{"int64", int64(1), C.SQLT_INT},
		{"int", 1, C.SQLT_INT},
		{"uint64", uint64(1), C.SQLT_UIN},
		{"float64", 1.0, C.SQLT_BDOUBLE},
		{"float32", float32(1.0), C.SQLT_BFLOAT},
		{"string", "x", C.SQLT_CHR},
		{"bytes", []byte("x"), C.SQLT_BIN},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sv, err := valueToSQL(c.v, cfg)
			if err != nil {
				t.Fatalf("valueToSQL(%v) error = %v", c.v, err)
			}
			if sv.sqlt != c.sqlt {
				t.Errorf("valueToSQL(%v).sqlt = %v, want %v", c.v, sv.sqlt, c.sqlt)
			}
		})
	}
}

func TestValueToSQL_Bool(t *testing.T) {
	cfg := NewStmtCfg()
	sv, err := valueToSQL(true, cfg)
	if err != nil {
		t.Fatalf("valueToSQL(true) error = %v", err)
	}
	if string(sv.data) != "T" {
		t.Errorf("valueToSQL(true).data = %q, want %q", sv.data, "T")
	}
	sv, err = valueToSQL(false, cfg)
	if err != nil {
		t.Fatalf("valueToSQL(false) error = %v", err)
	}
	if string(sv.data) != "F" {
		t.Errorf("valueToSQL(false).data = %q, want %q", sv.data, "F")
	}
}

func TestValueToSQL_NilTypedPointers(t *testing.T) {
	cfg := NewStmtCfg()
	var ip *int64
	sv, err := valueToSQL(ip, cfg)
	if err != nil || !sv.null {
		t.Errorf("valueToSQL((*int64)(nil)) = %+v, %v, want null, no error", sv, err)
	}
	var sp *string
	sv, err = valueToSQL(sp, cfg)
	if err != nil || !sv.null {
		t.Errorf("valueToSQL((*string)(nil)) = %+v, %v, want null, no error", sv, err)
	}
}

func TestValueToSQL_Unsupported(t *testing.T) {
	type unsupported struct{}
	if _, err := valueToSQL(unsupported{}, NewStmtCfg()); err == nil {
		t.Errorf("valueToSQL(unsupported{}) = nil error, want error")
	}
}

func TestValueToSQL_RowID(t *testing.T) {
	sv, err := valueToSQL(RowID{}, NewStmtCfg())
	if err != nil {
		t.Fatalf("valueToSQL(RowID{}) error = %v", err)
	}
	if sv.sqlt != C.SQLT_STR {
		t.Errorf("valueToSQL(RowID{}).sqlt = %v, want SQLT_STR", sv.sqlt)
	}
}
