package ora

/*
#include <oci.h>
*/
import "C"

import (
	"unsafe"
)

// ColumnKind tags which variant of ColumnValue a Column currently
// holds — the closest idiomatic Go rendition of the ~15-variant
// tagged union spec.md §3 Column Value describes (Go has no sum
// types; a Kind-discriminated struct is the standard substitute, the
// same shape the teacher uses for its own GoColumnType enum).
type ColumnKind int

const (
	KindNull ColumnKind = iota
	KindText
	KindCLOB
	KindBinary
	KindBLOB
	KindBFile
	KindNumber
	KindDate
	KindTimestamp
	KindTimestampTZ
	KindTimestampLTZ
	KindIntervalYM
	KindIntervalDS
	KindFloat
	KindDouble
	KindRowID
	KindCursor
)

// Column describes one output column: its position, name, declared
// SQLT code, and the define buffer/side-array triple OCI writes into
// on every fetch (spec.md §3 Column, §4.G).
type Column struct {
	pos      int
	name     string
	sqlt     C.ub2
	size     C.ub2
	precision C.sb2
	scale    C.sb1

	define *Handle // OCI_HTYPE_DEFINE

	buf       []byte
	indicator C.sb2
	length    C.ub2
	rcode     C.ub2

	descKind descKind    // non-zero when this column's value is a descriptor, not inline bytes
	descPtr  *Descriptor // valid when descKind != (descKind{})
	cursor   *Handle     // valid for SQLT_RSET columns
}

func (c *Column) isNull() bool { return c.indicator == -1 }

// describeColumns walks the statement's parameter list via
// OCIParamGet/OCIAttrGet (position, name, SQLT code, size), the
// client's standard post-execute column metadata path (spec.md §4.G).
func describeColumns(stmt *Stmt, ocistmt *C.OCIStmt) ([]*Column, error) {
	var count C.ub4
	sz := C.ub4(unsafe.Sizeof(count))
	r := C.OCIAttrGet(unsafe.Pointer(ocistmt), C.OCI_HTYPE_STMT, unsafe.Pointer(&count), &sz, C.OCI_ATTR_PARAM_COUNT, stmt.ses.env.ocierr)
	if Status(r) == StatusError {
		return nil, stmt.ses.env.lastError(r)
	}
	cols := make([]*Column, 0, count)
	for i := C.ub4(1); i <= count; i++ {
		var parmdp unsafe.Pointer
		pr := C.OCIParamGet(unsafe.Pointer(ocistmt), C.OCI_HTYPE_STMT, stmt.ses.env.ocierr, &parmdp, i)
		if Status(pr) == StatusError {
			return nil, stmt.ses.env.lastError(pr)
		}
		col := &Column{pos: int(i)}

		var namep *C.char
		var namelen C.ub4
		C.OCIAttrGet(parmdp, C.OCI_DTYPE_PARAM, unsafe.Pointer(&namep), &namelen, C.OCI_ATTR_NAME, stmt.ses.env.ocierr)
		if namep != nil {
			col.name = C.GoStringN(namep, C.int(namelen))
		}

		var dtype C.ub2
		dsz := C.ub4(unsafe.Sizeof(dtype))
		C.OCIAttrGet(parmdp, C.OCI_DTYPE_PARAM, unsafe.Pointer(&dtype), &dsz, C.OCI_ATTR_DATA_TYPE, stmt.ses.env.ocierr)
		col.sqlt = dtype

		var size C.ub2
		ssz := C.ub4(unsafe.Sizeof(size))
		C.OCIAttrGet(parmdp, C.OCI_DTYPE_PARAM, unsafe.Pointer(&size), &ssz, C.OCI_ATTR_DATA_SIZE, stmt.ses.env.ocierr)
		col.size = size

		var prec C.sb2
		psz := C.ub4(unsafe.Sizeof(prec))
		C.OCIAttrGet(parmdp, C.OCI_DTYPE_PARAM, unsafe.Pointer(&prec), &psz, C.OCI_ATTR_PRECISION, stmt.ses.env.ocierr)
		col.precision = prec

		var scale C.sb1
		scsz := C.ub4(unsafe.Sizeof(scale))
		C.OCIAttrGet(parmdp, C.OCI_DTYPE_PARAM, unsafe.Pointer(&scale), &scsz, C.OCI_ATTR_SCALE, stmt.ses.env.ocierr)
		col.scale = scale

		C.OCIDescriptorFree(parmdp, C.OCI_DTYPE_PARAM)
		cols = append(cols, col)
	}
	for _, col := range cols {
		if err := col.allocBuffer(stmt); err != nil {
			return nil, err
		}
	}
	return cols, nil
}

// allocBuffer sizes the define buffer per SQLT code: inline bytes for
// scalar/text/raw codes (bounded by the statement's MaxLongFetchSize
// for LONG/LONG RAW), or a descriptor for LOB/BFILE/ROWID/DATETIME/
// INTERVAL/REF-CURSOR codes (spec.md §4.G).
func (col *Column) allocBuffer(stmt *Stmt) error {
	switch col.sqlt {
	case C.SQLT_CLOB, C.SQLT_BLOB:
		k := dtypeLob
		desc, err := stmt.ses.env.allocDescriptor(k)
		if err != nil {
			return err
		}
		col.descKind = k
		return col.defineDescriptor(stmt, desc)
	case C.SQLT_BFILEE, C.SQLT_CFILEE:
		desc, err := stmt.ses.env.allocDescriptor(dtypeFile)
		if err != nil {
			return err
		}
		col.descKind = dtypeFile
		return col.defineDescriptor(stmt, desc)
	case C.SQLT_RDD:
		desc, err := stmt.ses.env.allocDescriptor(dtypeRowid)
		if err != nil {
			return err
		}
		col.descKind = dtypeRowid
		return col.defineDescriptor(stmt, desc)
	case C.SQLT_DAT:
		col.buf = make([]byte, unsafe.Sizeof(C.OCIDate{}))
		col.sqlt = C.SQLT_ODT
		return col.defineBytes(stmt)
	case C.SQLT_TIMESTAMP:
		return col.defineNewDescriptor(stmt, dtypeDateTime)
	case C.SQLT_TIMESTAMP_TZ:
		return col.defineNewDescriptor(stmt, dtypeDateTimeTZ)
	case C.SQLT_TIMESTAMP_LTZ:
		return col.defineNewDescriptor(stmt, dtypeDateTimeLTZ)
	case C.SQLT_INTERVAL_YM:
		return col.defineNewDescriptor(stmt, dtypeIntervalYM)
	case C.SQLT_INTERVAL_DS:
		return col.defineNewDescriptor(stmt, dtypeIntervalDS)
	case C.SQLT_RSET:
		return col.defineCursor(stmt)
	case C.SQLT_LNG, C.SQLT_LBI:
		col.buf = make([]byte, stmt.Cfg().maxLongFetchSize())
		return col.defineBytes(stmt)
	case C.SQLT_NUM, C.SQLT_VNU:
		col.buf = make([]byte, 22)
		col.sqlt = C.SQLT_VNU
		return col.defineBytes(stmt)
	case C.SQLT_IBFLOAT:
		col.buf = make([]byte, 4)
		return col.defineBytes(stmt)
	case C.SQLT_IBDOUBLE:
		col.buf = make([]byte, 8)
		return col.defineBytes(stmt)
	default:
		width := int(col.size)
		if width <= 0 {
			width = 1
		}
		col.buf = make([]byte, width+1)
		col.sqlt = C.SQLT_CHR
		return col.defineBytes(stmt)
	}
}

func (col *Column) defineBytes(stmt *Stmt) error {
	h, err := stmt.ses.env.allocHandle(htypeDefine)
	if err != nil {
		return err
	}
	col.define = h
	var definep *C.OCIDefine
	dp := (**C.OCIDefine)(unsafe.Pointer(&definep))
	r := C.OCIDefineByPos2(
		stmt.ocistmt,
		dp,
		stmt.ses.env.ocierr,
		C.ub4(col.pos),
		unsafe.Pointer(&col.buf[0]),
		C.sb8(len(col.buf)),
		col.sqlt,
		unsafe.Pointer(&col.indicator),
		&col.length,
		&col.rcode,
		C.OCI_DEFAULT,
	)
	if Status(r) == StatusError {
		return stmt.ses.env.lastError(r)
	}
	return nil
}

func (col *Column) defineNewDescriptor(stmt *Stmt, k descKind) error {
	desc, err := stmt.ses.env.allocDescriptor(k)
	if err != nil {
		return err
	}
	col.descKind = k
	return col.defineDescriptor(stmt, desc)
}

func (col *Column) defineDescriptor(stmt *Stmt, desc *Descriptor) error {
	h, err := stmt.ses.env.allocHandle(htypeDefine)
	if err != nil {
		return err
	}
	col.define = h
	var definep *C.OCIDefine
	dp := (**C.OCIDefine)(unsafe.Pointer(&definep))
	p := desc.Ptr()
	r := C.OCIDefineByPos2(
		stmt.ocistmt,
		dp,
		stmt.ses.env.ocierr,
		C.ub4(col.pos),
		unsafe.Pointer(&p),
		C.sb8(unsafe.Sizeof(p)),
		col.sqlt,
		unsafe.Pointer(&col.indicator),
		&col.length,
		&col.rcode,
		C.OCI_DEFAULT,
	)
	if Status(r) == StatusError {
		return stmt.ses.env.lastError(r)
	}
	col.descPtr = desc
	return nil
}

func (col *Column) defineCursor(stmt *Stmt) error {
	h, err := stmt.ses.env.allocHandle(htypeStmt)
	if err != nil {
		return err
	}
	col.cursor = h
	var definep *C.OCIDefine
	dp := (**C.OCIDefine)(unsafe.Pointer(&definep))
	p := h.Ptr()
	r := C.OCIDefineByPos2(
		stmt.ocistmt,
		dp,
		stmt.ses.env.ocierr,
		C.ub4(col.pos),
		unsafe.Pointer(&p),
		C.sb8(unsafe.Sizeof(p)),
		C.SQLT_RSET,
		unsafe.Pointer(&col.indicator),
		&col.length,
		&col.rcode,
		C.OCI_DEFAULT,
	)
	if Status(r) == StatusError {
		return stmt.ses.env.lastError(r)
	}
	return nil
}

func (col *Column) free() {
	if col.define != nil {
		col.define.Free()
	}
	if col.descPtr != nil {
		col.descPtr.Free()
	}
	// col.cursor is not freed here: ownership transfers to the Cursor
	// that Row.Value builds for a REF CURSOR cell (spec.md §4.H "moved
	// out of a column cell").
}
