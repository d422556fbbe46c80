package ora

/*
#include <oci.h>
*/
import "C"

import (
	"io"
	"math"
)

// Rows iterates the result set of a Query, NextResult, or a Cursor's
// own statement handle (spec.md §3 Cursor / §4.G Rows).
type Rows struct {
	stmt    *Stmt
	ocistmt *C.OCIStmt
	borrowed bool // true for implicit-result/cursor statements this Rows does not own

	columns []*Column
	done    bool
	closed  bool
}

func openRows(stmt *Stmt, ocistmt *C.OCIStmt, borrowed bool) (*Rows, error) {
	cols, err := describeColumns(stmt, ocistmt)
	if err != nil {
		return nil, err
	}
	stmt.log(stmt.ses.Cfg().Log.Rset.Open)
	return &Rows{stmt: stmt, ocistmt: ocistmt, borrowed: borrowed, columns: cols}, nil
}

// Columns returns the column metadata in positional order.
func (rs *Rows) Columns() []*Column { return rs.columns }

// Next fetches the next row via OCIStmtFetch2(FETCH_NEXT), returning
// false at end of data (io.EOF-shaped, matching database/sql.Rows'
// idiom) or on error.
func (rs *Rows) Next() (bool, error) {
	if rs.done {
		return false, nil
	}
	r := C.OCIStmtFetch2(rs.ocistmt, rs.stmt.ses.env.ocierr, 1, C.OCI_FETCH_NEXT, 0, C.OCI_DEFAULT)
	rs.stmt.log(rs.stmt.ses.Cfg().Log.Rset.Fetch)
	if Status(r) == StatusNoData {
		rs.done = true
		return false, nil
	}
	if Status(r) == StatusError {
		rs.done = true
		return false, rs.stmt.ses.env.lastError(r)
	}
	return true, nil
}

// Row is a fetched row's live column cells — valid only until the
// next call to Next (spec.md §3 Column Value, "borrowed view").
type Row struct{ rs *Rows }

// Row exposes the current fetched row.
func (rs *Rows) Row() *Row { return &Row{rs} }

// IsNull reports whether the column at pos (1-based) is NULL in the
// current row.
func (row *Row) IsNull(pos int) bool {
	col := row.rs.columns[pos-1]
	return col.isNull()
}

// Value reifies column pos into its tagged ColumnValue, taking
// ownership of any descriptor-backed value (LOB, cursor, ROWID,
// DATETIME, INTERVAL) out of the column cell so it survives the next
// fetch (spec.md §4.G "LOB/ROWID/REF-CURSOR take transfer semantics").
func (row *Row) Value(pos int) (ColumnValue, error) {
	col := row.rs.columns[pos-1]
	if col.isNull() {
		return ColumnValue{Kind: KindNull}, nil
	}
	env := row.rs.stmt.ses.env
	switch col.sqlt {
	case C.SQLT_CHR, C.SQLT_AFC, C.SQLT_STR, C.SQLT_VCS:
		return ColumnValue{Kind: KindText, Text: string(col.buf[:col.length])}, nil
	case C.SQLT_LNG:
		return ColumnValue{Kind: KindText, Text: string(col.buf[:col.length])}, nil
	case C.SQLT_BIN, C.SQLT_LBI:
		cp := make([]byte, col.length)
		copy(cp, col.buf[:col.length])
		return ColumnValue{Kind: KindBinary, Binary: cp}, nil
	case C.SQLT_VNU:
		return ColumnValue{Kind: KindNumber, Number: numberFromRaw(col.buf[:22])}, nil
	case C.SQLT_ODT:
		return ColumnValue{Kind: KindDate, Date: dateFromRaw(col.buf)}, nil
	case C.SQLT_IBFLOAT:
		return ColumnValue{Kind: KindFloat, Float: beFloat32(col.buf)}, nil
	case C.SQLT_IBDOUBLE:
		return ColumnValue{Kind: KindDouble, Double: beFloat64(col.buf)}, nil
	case C.SQLT_CLOB:
		old, err := col.descPtr.Take(env)
		if err != nil {
			return ColumnValue{}, err
		}
		return ColumnValue{Kind: KindCLOB, Lob: newLob(env, row.rs.stmt.ses, wrapDescriptor(dtypeLob, old), true)}, nil
	case C.SQLT_BLOB:
		old, err := col.descPtr.Take(env)
		if err != nil {
			return ColumnValue{}, err
		}
		return ColumnValue{Kind: KindBLOB, Lob: newLob(env, row.rs.stmt.ses, wrapDescriptor(dtypeLob, old), false)}, nil
	case C.SQLT_BFILEE:
		old, err := col.descPtr.Take(env)
		if err != nil {
			return ColumnValue{}, err
		}
		return ColumnValue{Kind: KindBFile, BFile: newBFile(env, row.rs.stmt.ses, wrapDescriptor(dtypeFile, old))}, nil
	case C.SQLT_RDD:
		old, err := col.descPtr.Take(env)
		if err != nil {
			return ColumnValue{}, err
		}
		return ColumnValue{Kind: KindRowID, RowID: rowIDFromDescriptor(env, wrapDescriptor(dtypeRowid, old))}, nil
	case C.SQLT_TIMESTAMP:
		old, err := col.descPtr.Take(env)
		if err != nil {
			return ColumnValue{}, err
		}
		return ColumnValue{Kind: KindTimestamp, Timestamp: &Timestamp{desc: wrapDescriptor(dtypeDateTime, old)}}, nil
	case C.SQLT_TIMESTAMP_TZ:
		old, err := col.descPtr.Take(env)
		if err != nil {
			return ColumnValue{}, err
		}
		return ColumnValue{Kind: KindTimestampTZ, TimestampTZ: &TimestampTZ{desc: wrapDescriptor(dtypeDateTimeTZ, old)}}, nil
	case C.SQLT_TIMESTAMP_LTZ:
		old, err := col.descPtr.Take(env)
		if err != nil {
			return ColumnValue{}, err
		}
		return ColumnValue{Kind: KindTimestampLTZ, TimestampLTZ: &TimestampLTZ{desc: wrapDescriptor(dtypeDateTimeLTZ, old)}}, nil
	case C.SQLT_INTERVAL_YM:
		old, err := col.descPtr.Take(env)
		if err != nil {
			return ColumnValue{}, err
		}
		return ColumnValue{Kind: KindIntervalYM, IntervalYM: IntervalYM{desc: wrapDescriptor(dtypeIntervalYM, old)}}, nil
	case C.SQLT_INTERVAL_DS:
		old, err := col.descPtr.Take(env)
		if err != nil {
			return ColumnValue{}, err
		}
		return ColumnValue{Kind: KindIntervalDS, IntervalDS: IntervalDS{desc: wrapDescriptor(dtypeIntervalDS, old)}}, nil
	case C.SQLT_RSET:
		cur := col.cursor
		col.cursor = nil
		return ColumnValue{Kind: KindCursor, Cursor: newCursorFromColumn(row.rs.stmt, cur)}, nil
	default:
		return ColumnValue{Kind: KindText, Text: string(col.buf[:col.length])}, nil
	}
}

func beFloat32(b []byte) float32 {
	if len(b) < 4 {
		return 0
	}
	var v uint32
	for i := 0; i < 4; i++ {
		v = v<<8 | uint32(b[i])
	}
	return math.Float32frombits(v)
}

func beFloat64(b []byte) float64 {
	if len(b) < 8 {
		return 0
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(b[i])
	}
	return math.Float64frombits(v)
}

// Get retrieves column pos as T, the generic analog of database/sql's
// Scan. The value is the column's own Go representation (see
// ColumnValue.As) when that is a T; a NUMBER column also converts to
// int64 through Number.Int64. No other conversion is made: any other
// T is a type-mismatch error.
func Get[T any](row *Row, pos int) (T, error) {
	var zero T
	cv, err := row.Value(pos)
	if err != nil {
		return zero, err
	}
	v, err := cv.As(pos)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		if n, isNum := v.(Number); isNum {
			if _, wantInt := any(zero).(int64); wantInt {
				i, err := n.Int64(row.rs.stmt.ses.env)
				if err != nil {
					return zero, err
				}
				return any(i).(T), nil
			}
		}
		return zero, errPrecondition("ora: column %d is %T, not %T", pos, v, zero)
	}
	return t, nil
}

// Close releases the columns' define handles/descriptors. Borrowed
// Rows (implicit results, cursor result sets) do not release the
// underlying statement handle — its owner does (spec.md §4.H).
func (rs *Rows) Close() error {
	if rs.closed {
		return nil
	}
	rs.closed = true
	for _, col := range rs.columns {
		col.free()
	}
	rs.stmt.removeRows(rs)
	rs.stmt.log(rs.stmt.ses.Cfg().Log.Rset.Close)
	if rs.borrowed {
		return nil
	}
	return nil
}

var _ io.Closer = (*Rows)(nil)
