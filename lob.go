package ora

/*
#include <oci.h>
*/
import "C"

import (
	"unsafe"
)

// charsetForm tags whether a LOB's character set is the database's
// default charset (CLOB) or its national charset (NCLOB); BLOBs carry
// no charset at all (spec.md §4.I).
type charsetForm C.ub1

const (
	csformImplicit charsetForm = C.SQLCS_IMPLICIT
	csformNChar    charsetForm = C.SQLCS_NCHAR
)

// Lob is an internal LOB (CLOB/NCLOB or BLOB): a locator descriptor
// plus the session it was read from or bound through (spec.md §3, §4.I
// "pair (locator descriptor, owning session)").
type Lob struct {
	env    *Env
	ses    *Session
	desc   *Descriptor
	isClob bool
	csform charsetForm

	chunkSize uint32 // cached after first ChunkSize call, 0 = not yet cached
}

func newLob(env *Env, ses *Session, desc *Descriptor, isClob bool) *Lob {
	return &Lob{env: env, ses: ses, desc: desc, isClob: isClob, csform: csformImplicit}
}

// NewTempLob creates a session-duration temporary internal LOB (spec.md
// §4.I temp()). Drop (or DropAsync) frees it; Close only closes it
// and does not free it, and nothing frees it if Drop is never called.
func NewTempLob(ses *Session, isClob bool) (*Lob, error) {
	desc, err := ses.env.allocDescriptor(dtypeLob)
	if err != nil {
		return nil, err
	}
	lobType := C.ub1(C.OCI_TEMP_BLOB)
	csid := C.ub2(0)
	csform := csformImplicit
	if isClob {
		lobType = C.OCI_TEMP_CLOB
	}
	r := C.OCILobCreateTemporary(
		ses.svcctxPtr(), ses.env.ocierr, (*C.OCILobLocator)(desc.Ptr()),
		csid, C.ub1(csform), lobType, C.TRUE, C.OCI_DURATION_SESSION,
	)
	if Status(r) == StatusError {
		desc.Free()
		return nil, ses.env.lastError(r)
	}
	return &Lob{env: ses.env, ses: ses, desc: desc, isClob: isClob, csform: csform}, nil
}

func (l *Lob) locator() *C.OCILobLocator { return (*C.OCILobLocator)(l.desc.Ptr()) }

func (l *Lob) svcctx() *C.OCISvcCtx {
	if l.ses != nil {
		return l.ses.svcctxPtr()
	}
	return nil
}

// Clear sets this locator to the empty-LOB value (spec.md §4.I
// "empty()/clear()"), safe to pass as a bind variable for an INSERT
// or UPDATE that initializes the LOB; Write may be called afterward
// to populate it.
func (l *Lob) Clear() error {
	var zero C.ub4
	r := C.OCIAttrSet(l.desc.Ptr(), C.OCI_DTYPE_LOB, unsafe.Pointer(&zero), 0, C.OCI_ATTR_LOBEMPTY, l.env.ocierr)
	if Status(r) == StatusError {
		return l.env.lastError(r)
	}
	return nil
}

// NewEmptyLob allocates a fresh, empty internal LOB locator suitable
// as an INSERT bind (spec.md §4.I empty()).
func NewEmptyLob(env *Env, isClob bool) (*Lob, error) {
	desc, err := env.allocDescriptor(dtypeLob)
	if err != nil {
		return nil, err
	}
	l := &Lob{env: env, desc: desc, isClob: isClob, csform: csformImplicit}
	if err := l.Clear(); err != nil {
		desc.Free()
		return nil, err
	}
	return l, nil
}

// Open opens the LOB for reading and writing. It is an error to open
// the same LOB twice (spec.md §4.I open contract).
func (l *Lob) Open() error {
	r := C.OCILobOpen(l.svcctx(), l.env.ocierr, l.locator(), C.OCI_LOB_READWRITE)
	if Status(r) == StatusError {
		return l.env.lastError(r)
	}
	return nil
}

// OpenReadOnly opens the LOB (internal or BFILE) for reading only.
func (l *Lob) OpenReadOnly() error {
	r := C.OCILobOpen(l.svcctx(), l.env.ocierr, l.locator(), C.OCI_LOB_READONLY)
	if Status(r) == StatusError {
		return l.env.lastError(r)
	}
	return nil
}

// Close closes the LOB and returns the client's error when the close
// fails. Drop checks IsOpen before closing, so closing on the drop
// path is idempotent (spec.md §4.I "idempotent on drop").
func (l *Lob) Close() error {
	r := C.OCILobClose(l.svcctx(), l.env.ocierr, l.locator())
	if Status(r) == StatusError {
		return l.env.lastError(r)
	}
	return nil
}

// IsOpen reports server-side open state (a round-trip every call,
// spec.md §4.I).
func (l *Lob) IsOpen() (bool, error) {
	var flag C.ub1
	r := C.OCILobIsOpen(l.svcctx(), l.env.ocierr, l.locator(), &flag)
	if Status(r) == StatusError {
		return false, l.env.lastError(r)
	}
	return flag != 0, nil
}

// IsTemporary reports whether this locator refers to a temporary LOB.
func (l *Lob) IsTemporary() (bool, error) {
	var flag C.ub1
	r := C.OCILobIsTemporary(l.svcctx(), l.env.ocierr, l.locator(), &flag)
	if Status(r) == StatusError {
		return false, l.env.lastError(r)
	}
	return flag != 0, nil
}

// Len returns characters for CLOB/NCLOB, bytes for BLOB/BFILE
// (spec.md §4.I len()).
func (l *Lob) Len() (uint64, error) {
	var n C.oraub8
	r := C.OCILobGetLength2(l.svcctx(), l.env.ocierr, l.locator(), &n)
	if Status(r) == StatusError {
		return 0, l.env.lastError(r)
	}
	return uint64(n), nil
}

// ChunkSize returns the LOB's optimal read/write chunk size, caching
// the result after the first call (spec.md §4.I "cached after first
// call").
func (l *Lob) ChunkSize() (uint32, error) {
	if l.chunkSize != 0 {
		return l.chunkSize, nil
	}
	var sz C.ub4
	r := C.OCILobGetChunkSize(l.svcctx(), l.env.ocierr, l.locator(), &sz)
	if Status(r) == StatusError {
		return 0, l.env.lastError(r)
	}
	l.chunkSize = uint32(sz)
	return l.chunkSize, nil
}

const lobContentTypeMaxSize = 128

// ContentType reads the SecureFiles content-type attribute.
func (l *Lob) ContentType() (string, error) {
	buf := make([]C.ub1, lobContentTypeMaxSize)
	n := C.ub4(len(buf))
	r := C.OCILobGetContentType(l.env.ocienv, l.svcctx(), l.env.ocierr, l.locator(), &buf[0], &n, 0)
	if Status(r) == StatusError {
		return "", l.env.lastError(r)
	}
	return C.GoStringN((*C.char)(unsafe.Pointer(&buf[0])), C.int(n)), nil
}

// SetContentType sets the SecureFiles content-type attribute.
func (l *Lob) SetContentType(contentType string) error {
	cs := C.CString(contentType)
	defer cFree(cs)
	r := C.OCILobSetContentType(l.env.ocienv, l.svcctx(), l.env.ocierr, l.locator(), (*C.ub1)(unsafe.Pointer(cs)), C.ub4(len(contentType)), 0)
	if Status(r) == StatusError {
		return l.env.lastError(r)
	}
	return nil
}

// IsEqual compares two locators for referenced-data identity (spec.md
// §4.I is_equal).
func (l *Lob) IsEqual(other *Lob) (bool, error) {
	var flag C.ub1
	r := C.OCILobIsEqual(l.env.ocienv, l.locator(), other.locator(), &flag)
	if Status(r) == StatusError {
		return false, l.env.lastError(r)
	}
	return flag != 0, nil
}

// Clone produces a new locator referencing the same LOB value; the
// server performs a lazy, copy-on-write deep copy at the first write
// through the clone (spec.md §4.I clone()).
func (l *Lob) Clone() (*Lob, error) {
	desc, err := l.env.allocDescriptor(dtypeLob)
	if err != nil {
		return nil, err
	}
	dst := (*C.OCILobLocator)(desc.Ptr())
	r := C.OCILobLocatorAssign(l.svcctx(), l.env.ocierr, l.locator(), &dst)
	if Status(r) == StatusError {
		desc.Free()
		return nil, l.env.lastError(r)
	}
	return &Lob{env: l.env, ses: l.ses, desc: desc, isClob: l.isClob, csform: l.csform}, nil
}

// AppendLob appends src's entire value to the end of this LOB
// (spec.md §4.I append_lob).
func (l *Lob) AppendLob(src *Lob) error {
	r := C.OCILobAppend(l.svcctx(), l.env.ocierr, l.locator(), src.locator())
	if Status(r) == StatusError {
		return l.env.lastError(r)
	}
	return nil
}

// Copy copies amount chars/bytes from src starting at srcOffset into
// this LOB at offset, zero-byte/space-filling any gap (spec.md §4.I
// copy(), "zero-byte/space fillers on sparse writes").
func (l *Lob) Copy(src *Lob, srcOffset, amount, offset uint64) error {
	r := C.OCILobCopy2(l.svcctx(), l.env.ocierr, l.locator(), src.locator(), C.oraub8(amount), C.oraub8(offset)+1, C.oraub8(srcOffset)+1)
	if Status(r) == StatusError {
		return l.env.lastError(r)
	}
	return nil
}

// LoadFromFile copies amount bytes from a BFILE into this LOB; no
// charset conversion is performed (spec.md §4.I load_from_file).
func (l *Lob) LoadFromFile(src *BFile, srcOffset, amount, offset uint64) error {
	r := C.OCILobLoadFromFile2(l.svcctx(), l.env.ocierr, l.locator(), src.locator(), C.oraub8(amount), C.oraub8(offset)+1, C.oraub8(srcOffset)+1)
	if Status(r) == StatusError {
		return l.env.lastError(r)
	}
	return nil
}

// Erase overwrites amount chars/bytes starting at offset with
// zero-byte/space fillers, returning the number actually erased
// (spec.md §4.I erase()).
func (l *Lob) Erase(offset, amount uint64) (uint64, error) {
	n := C.oraub8(amount)
	r := C.OCILobErase2(l.svcctx(), l.env.ocierr, l.locator(), &n, C.oraub8(offset)+1)
	if Status(r) == StatusError {
		return 0, l.env.lastError(r)
	}
	return uint64(n), nil
}

// Trim shortens the LOB to newLen chars/bytes (spec.md §4.I trim()).
func (l *Lob) Trim(newLen uint64) error {
	r := C.OCILobTrim2(l.svcctx(), l.env.ocierr, l.locator(), C.oraub8(newLen))
	if Status(r) == StatusError {
		return l.env.lastError(r)
	}
	return nil
}

// Drop releases server-side resources this locator holds: closes the
// LOB if open, frees it if temporary. Failures are swallowed (spec.md
// §4.I Drop, "must not panic").
func (l *Lob) Drop() {
	if open, err := l.IsOpen(); err == nil && open {
		l.Close()
	}
	if temp, err := l.IsTemporary(); err == nil && temp {
		C.OCILobFreeTemporary(l.svcctx(), l.env.ocierr, l.locator())
	}
	l.desc.Free()
}
