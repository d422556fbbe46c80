package ora

/*
#include <oci.h>
*/
import "C"

import "unsafe"

// csid is the OCI character-set id OCILobRead2/Write2 convert
// through: the client's AL32UTF8 id for CLOB/NCLOB, 0 (binary, no
// conversion) for BLOB (spec.md §4.I "no charset conversion
// performed" for BFILE/BLOB paths).
const alUTF8CharsetID = C.ub2(873)

func (l *Lob) csid() C.ub2 {
	if l.isClob {
		return alUTF8CharsetID
	}
	return 0
}

// Read performs a one-piece read starting at offset, reserving
// length*4 bytes for a CLOB (AL32UTF8 worst case) or length bytes for
// a BLOB/BFILE, per spec.md §4.I's read algorithm. Returns the slice
// actually filled and the char/byte count the server reports read.
func (l *Lob) Read(offset, length uint64) ([]byte, uint64, error) {
	capacity := length
	if l.isClob {
		capacity = length * 4
	}
	buf := make([]byte, capacity)
	byteCnt := C.oraub8(capacity)
	charCnt := C.oraub8(0)
	if l.isClob {
		charCnt = C.oraub8(length)
	}
	var bufp unsafe.Pointer
	if len(buf) > 0 {
		bufp = unsafe.Pointer(&buf[0])
	}
	r := C.OCILobRead2(
		l.svcctx(), l.env.ocierr, l.locator(),
		&byteCnt, &charCnt, C.oraub8(offset)+1,
		bufp, C.oraub8(len(buf)), C.OCI_ONE_PIECE,
		nil, nil, l.csid(), C.ub1(l.csform),
	)
	if Status(r) == StatusError {
		return nil, 0, l.env.lastError(r)
	}
	buf = buf[:byteCnt]
	if l.isClob {
		return buf, uint64(charCnt), nil
	}
	return buf, uint64(byteCnt), nil
}

func (l *Lob) readPiece(piece C.ub1, pieceSize, offset, length uint64) (data []byte, count uint64, moreData bool, err error) {
	capacity := pieceSize
	if l.isClob && piece == C.OCI_FIRST_PIECE {
		capacity = length * 4
	}
	buf := make([]byte, capacity)
	byteCnt := C.oraub8(capacity)
	charCnt := C.oraub8(0)
	if l.isClob {
		charCnt = C.oraub8(length)
	}
	var bufp unsafe.Pointer
	if len(buf) > 0 {
		bufp = unsafe.Pointer(&buf[0])
	}
	off := C.oraub8(0)
	if piece == C.OCI_FIRST_PIECE {
		off = C.oraub8(offset) + 1
	}
	r := C.OCILobRead2(
		l.svcctx(), l.env.ocierr, l.locator(),
		&byteCnt, &charCnt, off,
		bufp, C.oraub8(len(buf)), piece,
		nil, nil, l.csid(), C.ub1(l.csform),
	)
	more := Status(r) == StatusNeedData
	if Status(r) == StatusError {
		return nil, 0, false, l.env.lastError(r)
	}
	buf = buf[:byteCnt]
	n := uint64(byteCnt)
	if l.isClob {
		n = uint64(charCnt)
	}
	return buf, n, more, nil
}

// ReadFirst starts a piece-wise read, returning the first piece and
// whether further calls to ReadNext are required (spec.md §4.I
// "iterate until more_data = false").
func (l *Lob) ReadFirst(pieceSize, offset, length uint64) ([]byte, uint64, bool, error) {
	return l.readPiece(C.OCI_FIRST_PIECE, pieceSize, offset, length)
}

// ReadNext continues a piece-wise read started by ReadFirst.
func (l *Lob) ReadNext(pieceSize uint64) ([]byte, uint64, bool, error) {
	return l.readPiece(C.OCI_NEXT_PIECE, pieceSize, 0, 0)
}

func (l *Lob) writePiece(piece C.ub1, offset uint64, data []byte) (uint64, error) {
	byteCnt := C.oraub8(0)
	if piece == C.OCI_ONE_PIECE {
		byteCnt = C.oraub8(len(data))
	}
	charCnt := C.oraub8(0)
	var bufp unsafe.Pointer
	if len(data) > 0 {
		bufp = unsafe.Pointer(&data[0])
	}
	r := C.OCILobWrite2(
		l.svcctx(), l.env.ocierr, l.locator(),
		&byteCnt, &charCnt, C.oraub8(offset)+1,
		bufp, C.oraub8(len(data)), piece,
		nil, nil, l.csid(), C.ub1(l.csform),
	)
	if Status(r) == StatusError {
		return 0, l.env.lastError(r)
	}
	if l.isClob {
		return uint64(charCnt), nil
	}
	return uint64(byteCnt), nil
}

// Write performs a one-piece write at offset, returning the number of
// chars (CLOB) or bytes (BLOB) written (spec.md §4.I write()).
func (l *Lob) Write(offset uint64, data []byte) (uint64, error) {
	return l.writePiece(C.OCI_ONE_PIECE, offset, data)
}

// WriteFirst starts a piece-wise write at offset; WriteNext/WriteLast
// continue and terminate it (spec.md §4.I write_first/next/last).
func (l *Lob) WriteFirst(offset uint64, data []byte) (uint64, error) {
	return l.writePiece(C.OCI_FIRST_PIECE, offset, data)
}

func (l *Lob) WriteNext(data []byte) (uint64, error) {
	return l.writePiece(C.OCI_NEXT_PIECE, 0, data)
}

func (l *Lob) WriteLast(data []byte) (uint64, error) {
	return l.writePiece(C.OCI_LAST_PIECE, 0, data)
}

func (l *Lob) appendPiece(piece C.ub1, data []byte) (uint64, error) {
	byteCnt := C.oraub8(0)
	if piece == C.OCI_ONE_PIECE {
		byteCnt = C.oraub8(len(data))
	}
	charCnt := C.oraub8(0)
	var bufp unsafe.Pointer
	if len(data) > 0 {
		bufp = unsafe.Pointer(&data[0])
	}
	r := C.OCILobWriteAppend2(
		l.svcctx(), l.env.ocierr, l.locator(),
		&byteCnt, &charCnt,
		bufp, C.oraub8(len(data)), piece,
		nil, nil, l.csid(), C.ub1(l.csform),
	)
	if Status(r) == StatusError {
		return 0, l.env.lastError(r)
	}
	if l.isClob {
		return uint64(charCnt), nil
	}
	return uint64(byteCnt), nil
}

// Append writes data at the end of the LOB in one piece (spec.md
// §4.I append()).
func (l *Lob) Append(data []byte) (uint64, error) { return l.appendPiece(C.OCI_ONE_PIECE, data) }

// AppendFirst/AppendNext/AppendLast perform a piece-wise append
// (spec.md §4.I append_first/next/last).
func (l *Lob) AppendFirst(data []byte) (uint64, error) { return l.appendPiece(C.OCI_FIRST_PIECE, data) }
func (l *Lob) AppendNext(data []byte) (uint64, error)  { return l.appendPiece(C.OCI_NEXT_PIECE, data) }
func (l *Lob) AppendLast(data []byte) (uint64, error)  { return l.appendPiece(C.OCI_LAST_PIECE, data) }
