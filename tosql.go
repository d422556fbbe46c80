package ora

/*
#include <oci.h>
*/
import "C"

import (
	"encoding/binary"
	"math"
	"time"
)

// int64Bytes/float64Bytes/float32Bytes encode a Go scalar in
// little-endian byte order for a SQLT_INT/SQLT_BDOUBLE/SQLT_BFLOAT
// bind — the client converts from the machine's own representation
// for these "C type" SQLT codes, unlike SQLT_VNU's opaque NUMBER
// encoding, so the two agree on little-endian hosts only.
func int64Bytes(n int64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(n))
	return buf
}

func float64Bytes(f float64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
	return buf
}

func float32Bytes(f float32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(f))
	return buf
}

// sqlValue is the normalized shape a bind value is reduced to before
// it is copied into a Bind's byte buffer: a SQLT type code, the raw
// bytes OCI should see, and whether the value is SQL NULL.
//
// Mirrors the teacher's per-Go-type bnd implementations
// (ArseneXie-ora/stmt.go: "bind associates Go variables to SQL string
// placeholders..."), collapsed into one conversion table instead of
// one bnd struct type per Go type, since this driver does not pool
// bind structs per type the way the teacher does.
type sqlValue struct {
	sqlt C.ub2
	data []byte
	null bool
}

// ToSQL is implemented by this package's own bindable types (Number,
// *Varchar, and the time.Time adapter dateBind). Its method is
// unexported, so a type outside the package cannot implement it;
// built-in scalar types are converted directly by valueToSQL.
type ToSQL interface {
	toSQL(cfg StmtCfg) (sqlValue, error)
}

// valueToSQL converts a bind argument following spec.md §4.C's
// Go-type -> SQLT-code table. A nil interface or a nil pointer binds
// SQL NULL at the value's otherwise-inferred SQLT code.
func valueToSQL(v interface{}, cfg StmtCfg) (sqlValue, error) {
	if v == nil {
		return sqlValue{sqlt: C.SQLT_CHR, null: true}, nil
	}
	if t, ok := v.(ToSQL); ok {
		return t.toSQL(cfg)
	}
	switch x := v.(type) {
	case int64:
		return sqlValue{sqlt: C.SQLT_INT, data: int64Bytes(x)}, nil
	case int32:
		return sqlValue{sqlt: C.SQLT_INT, data: int64Bytes(int64(x))}, nil
	case int:
		return sqlValue{sqlt: C.SQLT_INT, data: int64Bytes(int64(x))}, nil
	case uint64:
		return sqlValue{sqlt: C.SQLT_UIN, data: int64Bytes(int64(x))}, nil
	case float64:
		return sqlValue{sqlt: C.SQLT_BDOUBLE, data: float64Bytes(x)}, nil
	case float32:
		return sqlValue{sqlt: C.SQLT_BFLOAT, data: float32Bytes(x)}, nil
	case bool:
		r := cfg.FalseRune
		if x {
			r = cfg.TrueRune
		}
		return sqlValue{sqlt: C.SQLT_AFC, data: []byte(string(r))}, nil
	case string:
		return sqlValue{sqlt: C.SQLT_CHR, data: []byte(x)}, nil
	case []byte:
		if cfg.IsZero() {
			return sqlValue{sqlt: C.SQLT_BIN, data: x}, nil
		}
		return sqlValue{sqlt: C.SQLT_BIN, data: x}, nil
	case time.Time:
		return dateFromTime(x).toSQL(cfg)
	case *int64:
		if x == nil {
			return sqlValue{sqlt: C.SQLT_INT, null: true}, nil
		}
		return sqlValue{sqlt: C.SQLT_INT, data: int64Bytes(*x)}, nil
	case *string:
		if x == nil {
			return sqlValue{sqlt: C.SQLT_CHR, null: true}, nil
		}
		return sqlValue{sqlt: C.SQLT_CHR, data: []byte(*x)}, nil
	case *float64:
		if x == nil {
			return sqlValue{sqlt: C.SQLT_BDOUBLE, null: true}, nil
		}
		return sqlValue{sqlt: C.SQLT_BDOUBLE, data: float64Bytes(*x)}, nil
	case *time.Time:
		if x == nil {
			return sqlValue{sqlt: C.SQLT_TIMESTAMP, null: true}, nil
		}
		return dateFromTime(*x).toSQL(cfg)
	case Number:
		return x.toSQL(cfg)
	case RowID:
		return sqlValue{sqlt: C.SQLT_STR, data: []byte(x.String())}, nil
	default:
		return sqlValue{}, errPrecondition("ora: unsupported bind type %T", v)
	}
}
