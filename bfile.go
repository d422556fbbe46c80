package ora

/*
#include <oci.h>
*/
import "C"

import "unsafe"

// BFile is an external LOB: a directory-alias/filename pair pointing
// at a server-side operating-system file (spec.md §4.I BFILE). It
// shares the read-only read/read_first/read_next path with internal
// LOBs by delegating to an embedded Lob whose isClob is always false
// (BFILE content is always treated as raw bytes, spec.md §4.I "no
// charset conversion performed").
type BFile struct {
	lob *Lob
}

func newBFile(env *Env, ses *Session, desc *Descriptor) *BFile {
	return &BFile{lob: &Lob{env: env, ses: ses, desc: desc, isClob: false, csform: csformImplicit}}
}

// NewBFile allocates a fresh BFILE locator, unset until SetFileName
// is called.
func NewBFile(env *Env) (*BFile, error) {
	desc, err := env.allocDescriptor(dtypeFile)
	if err != nil {
		return nil, err
	}
	return &BFile{lob: &Lob{env: env, desc: desc, isClob: false, csform: csformImplicit}}, nil
}

func (f *BFile) locator() *C.OCILobLocator { return f.lob.locator() }

// Len returns the BFILE's length in bytes, including the EOF marker
// if one exists (spec.md §4.I len()).
func (f *BFile) Len() (uint64, error) { return f.lob.Len() }

// IsEqual compares two BFILE locators for referenced-data identity.
func (f *BFile) IsEqual(other *BFile) (bool, error) { return f.lob.IsEqual(other.lob) }

// Read performs a one-piece read of up to length bytes starting at
// offset.
func (f *BFile) Read(offset, length uint64) ([]byte, uint64, error) { return f.lob.Read(offset, length) }

// ReadFirst/ReadNext perform a piece-wise read (spec.md §4.I).
func (f *BFile) ReadFirst(pieceSize, offset, length uint64) ([]byte, uint64, bool, error) {
	return f.lob.ReadFirst(pieceSize, offset, length)
}

func (f *BFile) ReadNext(pieceSize uint64) ([]byte, uint64, bool, error) {
	return f.lob.ReadNext(pieceSize)
}

// OpenReadOnly opens the BFILE through the generic internal-LOB-style
// open call (spec.md §4.I open_readonly — "RO" column for BFILE).
func (f *BFile) OpenReadOnly() error { return f.lob.OpenReadOnly() }

// IsOpen reports whether this locator opened the BFILE (openness is
// per-locator for BFILEs, spec.md §4.I is_open notes).
func (f *BFile) IsOpen() (bool, error) { return f.lob.IsOpen() }

// Close closes the BFILE through Lob.Close, returning the client's
// error when the close fails; it does not check IsOpen first.
func (f *BFile) Close() error { return f.lob.Close() }

// FileExists tests whether the referenced file exists on the
// server's operating system (spec.md §4.I file_exists).
func (f *BFile) FileExists() (bool, error) {
	var flag C.ub1
	r := C.OCILobFileExists(f.lob.svcctx(), f.lob.env.ocierr, f.locator(), &flag)
	if Status(r) == StatusError {
		return false, f.lob.env.lastError(r)
	}
	return flag != 0, nil
}

const bfileNameMaxLen = 255

// FileName returns the directory alias and filename currently set on
// this locator (spec.md §4.I file_name).
func (f *BFile) FileName() (dir, name string, err error) {
	dirBuf := make([]C.ub1, bfileNameMaxLen)
	nameBuf := make([]C.ub1, bfileNameMaxLen)
	dirLen := C.ub2(len(dirBuf))
	nameLen := C.ub2(len(nameBuf))
	r := C.OCILobFileGetName(
		f.lob.env.ocienv, f.lob.env.ocierr, f.locator(),
		&dirBuf[0], &dirLen, &nameBuf[0], &nameLen,
	)
	if Status(r) == StatusError {
		return "", "", f.lob.env.lastError(r)
	}
	dir = C.GoStringN((*C.char)(unsafe.Pointer(&dirBuf[0])), C.int(dirLen))
	name = C.GoStringN((*C.char)(unsafe.Pointer(&nameBuf[0])), C.int(nameLen))
	return dir, name, nil
}

// SetFileName points this locator at a new directory alias/filename
// pair (spec.md §4.I set_file_name).
func (f *BFile) SetFileName(dir, name string) error {
	cdir := C.CString(dir)
	defer cFree(cdir)
	cname := C.CString(name)
	defer cFree(cname)
	locp := f.locator()
	r := C.OCILobFileSetName(
		f.lob.env.ocienv, f.lob.env.ocierr, &locp,
		(*C.ub1)(unsafe.Pointer(cdir)), C.ub2(len(dir)),
		(*C.ub1)(unsafe.Pointer(cname)), C.ub2(len(name)),
	)
	if Status(r) == StatusError {
		return f.lob.env.lastError(r)
	}
	return nil
}

// OpenFile opens the BFILE on the server's file system, read-only;
// meaningful only the first time it is called for this locator
// (spec.md §4.I open_file).
func (f *BFile) OpenFile() error {
	r := C.OCILobFileOpen(f.lob.svcctx(), f.lob.env.ocierr, f.locator(), C.OCI_FILE_READONLY)
	if Status(r) == StatusError {
		return f.lob.env.lastError(r)
	}
	return nil
}

// CloseFile closes a previously opened BFILE; no error if it exists
// but was never opened by this locator (spec.md §4.I close_file).
func (f *BFile) CloseFile() error {
	r := C.OCILobFileClose(f.lob.svcctx(), f.lob.env.ocierr, f.locator())
	if Status(r) == StatusError {
		return f.lob.env.lastError(r)
	}
	return nil
}

// IsFileOpen reports whether this locator opened the BFILE (spec.md
// §4.I is_file_open).
func (f *BFile) IsFileOpen() (bool, error) {
	var flag C.ub1
	r := C.OCILobFileIsOpen(f.lob.svcctx(), f.lob.env.ocierr, f.locator(), &flag)
	if Status(r) == StatusError {
		return false, f.lob.env.lastError(r)
	}
	return flag != 0, nil
}

// Drop closes the file if this locator opened it; failures are
// swallowed (spec.md §4.I Drop).
func (f *BFile) Drop() {
	if open, err := f.IsFileOpen(); err == nil && open {
		f.CloseFile()
	}
	f.lob.desc.Free()
}
