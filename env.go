package ora

/*
#include <oci.h>
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"
)

var envSeq idSeq

// Env is the process-wide Oracle client environment (spec.md §3, §4.D).
// Created once per process (or once per isolated subsystem); nothing
// outlives it. From it, Connect opens Sessions.
type Env struct {
	mu sync.RWMutex

	id uint64

	ocienv *C.OCIEnv
	ocierr *C.OCIError // thread-local-for-blocking-use Error handle, spec.md §5

	cfg atomic_EnvCfg
}

// OpenEnv creates the process-wide environment in threaded + object
// mode with AL32UTF8/UTF8 charsets (spec.md §4.D), the one factory
// call the rest of the driver is built from.
func OpenEnv(cfg EnvCfg) (*Env, error) {
	// Resolve AL32UTF8 (client/server charset) and UTF8 (NCHAR
	// charset) names to the ids OCIEnvNlsCreate wants; looking these
	// up rather than hard-coding them keeps the driver correct across
	// client library versions.
	cAl32 := C.CString("AL32UTF8")
	defer cFree(cAl32)
	cUtf8 := C.CString("UTF8")
	defer cFree(cUtf8)
	charsetID := C.OCINlsCharSetNameToId(unsafe.Pointer(nil), (*C.oratext)(unsafe.Pointer(cAl32)))
	ncharsetID := C.OCINlsCharSetNameToId(unsafe.Pointer(nil), (*C.oratext)(unsafe.Pointer(cUtf8)))

	var ocienv *C.OCIEnv
	r := C.OCIEnvNlsCreate(
		&ocienv,
		C.OCI_THREADED|C.OCI_OBJECT,
		nil, nil, nil, nil,
		C.size_t(0), nil,
		charsetID,
		ncharsetID,
	)
	if r != C.OCI_SUCCESS || ocienv == nil {
		return nil, errAlloc("OCI environment")
	}
	var ocierr unsafe.Pointer
	hr := C.OCIHandleAlloc(unsafe.Pointer(ocienv), &ocierr, C.OCI_HTYPE_ERROR, 0, nil)
	if Status(hr) == StatusInvalidHandle || ocierr == nil {
		C.OCIHandleFree(unsafe.Pointer(ocienv), C.OCI_HTYPE_ENV)
		return nil, errAlloc("OCI error handle")
	}
	env := &Env{
		id:     envSeq.next(),
		ocienv: ocienv,
		ocierr: (*C.OCIError)(ocierr),
	}
	env.SetCfg(cfg)
	env.log(cfg.Log.Env.Connect, "environment opened")
	return env, nil
}

// Close frees the environment and, transitively, every handle and
// descriptor still allocated as its child (the client guarantees this
// for OCI_HTYPE_ENV).
func (env *Env) Close() error {
	env.mu.Lock()
	defer env.mu.Unlock()
	if env.ocienv == nil {
		return errPrecondition("ora: environment already closed")
	}
	env.log(env.Cfg().Log.Env.Close, "environment closed")
	r := C.OCIHandleFree(unsafe.Pointer(env.ocienv), C.OCI_HTYPE_ENV)
	env.ocienv = nil
	env.ocierr = nil
	if Status(r) == StatusError {
		return errPrecondition("ora: error freeing environment handle")
	}
	return nil
}

func (env *Env) checkClosed() error {
	env.mu.RLock()
	defer env.mu.RUnlock()
	if env.ocienv == nil {
		return errPrecondition("ora: environment is closed")
	}
	return nil
}

// lastError extracts the full diagnostic chain from this Env's error
// handle for the given non-success status (spec.md §4.A).
func (env *Env) lastError(r C.sword) error {
	oe := extractOCIError(unsafe.Pointer(env.ocierr), C.OCI_HTYPE_ERROR, Status(r))
	return wrapOCI("oci call", oe)
}

// envError extracts a diagnostic against the Env handle itself
// (environmental errors, before any Error handle's owner exists).
func (env *Env) envError(r C.sword) error {
	oe := extractOCIError(unsafe.Pointer(env.ocienv), C.OCI_HTYPE_ENV, Status(r))
	return wrapOCI("oci env call", oe)
}

func (env *Env) sysName() string { return fmt.Sprintf("E%d", env.id) }

func (env *Env) log(enabled bool, v ...interface{}) {
	env.Cfg().Log.log(enabled, env.sysName(), v...)
}

// --- configuration plumbing -------------------------------------------------

// atomic_EnvCfg is a tiny sync.RWMutex-guarded box: EnvCfg holds a
// LogConfig with an interface field, which atomic.Value can't swap
// safely (inconsistent concrete types panic it), unlike the teacher's
// scalar-only DrvCfg/SrvCfg/StmtCfg.
type atomic_EnvCfg struct {
	mu  sync.RWMutex
	cfg EnvCfg
	set bool
}

func (env *Env) SetCfg(cfg EnvCfg) {
	env.cfg.mu.Lock()
	defer env.cfg.mu.Unlock()
	env.cfg.cfg = cfg
	env.cfg.set = true
}

func (env *Env) Cfg() EnvCfg {
	env.cfg.mu.RLock()
	defer env.cfg.mu.RUnlock()
	if !env.cfg.set {
		return NewEnvCfg()
	}
	return env.cfg.cfg
}

// NLSLanguage returns the session NLS language in effect for this
// environment (a borrowed view becomes a copy at the Go boundary).
func (env *Env) NLSLanguage() (string, error) {
	var cp *C.char
	var sz C.ub4
	r := C.OCIAttrGet(unsafe.Pointer(env.ocienv), C.OCI_HTYPE_ENV, unsafe.Pointer(&cp), &sz, C.OCI_ATTR_ENV_NLS_LANGUAGE, env.ocierr)
	if Status(r) == StatusError {
		return "", env.lastError(r)
	}
	if cp == nil {
		return "", nil
	}
	return C.GoStringN(cp, C.int(sz)), nil
}

// SetNLSLanguage sets the NLS language used for sessions created in
// this environment (spec.md §4.D; set copies the string, unlike the
// borrowed view NLSLanguage returns).
func (env *Env) SetNLSLanguage(lang string) error {
	cs := C.CString(lang)
	defer cFree(cs)
	r := C.OCIAttrSet(unsafe.Pointer(env.ocienv), C.OCI_HTYPE_ENV, unsafe.Pointer(cs), C.ub4(len(lang)), C.OCI_ATTR_ENV_NLS_LANGUAGE, env.ocierr)
	if Status(r) == StatusError {
		return env.lastError(r)
	}
	return nil
}

// NLSTerritory returns the NLS territory in effect for this
// environment (spec.md §4.D).
func (env *Env) NLSTerritory() (string, error) {
	var cp *C.char
	var sz C.ub4
	r := C.OCIAttrGet(unsafe.Pointer(env.ocienv), C.OCI_HTYPE_ENV, unsafe.Pointer(&cp), &sz, C.OCI_ATTR_ENV_NLS_TERRITORY, env.ocierr)
	if Status(r) == StatusError {
		return "", env.lastError(r)
	}
	if cp == nil {
		return "", nil
	}
	return C.GoStringN(cp, C.int(sz)), nil
}

// SetNLSTerritory sets the NLS territory used for sessions created in
// this environment (spec.md §4.D).
func (env *Env) SetNLSTerritory(territory string) error {
	cs := C.CString(territory)
	defer cFree(cs)
	r := C.OCIAttrSet(unsafe.Pointer(env.ocienv), C.OCI_HTYPE_ENV, unsafe.Pointer(cs), C.ub4(len(territory)), C.OCI_ATTR_ENV_NLS_TERRITORY, env.ocierr)
	if Status(r) == StatusError {
		return env.lastError(r)
	}
	return nil
}

// ObjectCacheOptSize gets/sets the client-side object-cache optimal
// size, in bytes (spec.md §4.D).
func (env *Env) ObjectCacheOptSize() (uint32, error) {
	var v C.ub4
	sz := C.ub4(unsafe.Sizeof(v))
	r := C.OCIAttrGet(unsafe.Pointer(env.ocienv), C.OCI_HTYPE_ENV, unsafe.Pointer(&v), &sz, C.OCI_ATTR_CACHE_OPT_SIZE, env.ocierr)
	if Status(r) == StatusError {
		return 0, env.lastError(r)
	}
	return uint32(v), nil
}

func (env *Env) SetObjectCacheOptSize(n uint32) error {
	cv := C.ub4(n)
	r := C.OCIAttrSet(unsafe.Pointer(env.ocienv), C.OCI_HTYPE_ENV, unsafe.Pointer(&cv), 0, C.OCI_ATTR_CACHE_OPT_SIZE, env.ocierr)
	if Status(r) == StatusError {
		return env.lastError(r)
	}
	return nil
}

// ObjectCacheMaxSizePercent gets/sets the client-side object-cache
// high-watermark, as a percentage of the optimal size: the cache
// starts aging out unpinned objects once usage reaches
// optimal_size + optimal_size*percent/100 (spec.md §4.D).
func (env *Env) ObjectCacheMaxSizePercent() (uint32, error) {
	var v C.ub4
	sz := C.ub4(unsafe.Sizeof(v))
	r := C.OCIAttrGet(unsafe.Pointer(env.ocienv), C.OCI_HTYPE_ENV, unsafe.Pointer(&v), &sz, C.OCI_ATTR_CACHE_MAX_SIZE, env.ocierr)
	if Status(r) == StatusError {
		return 0, env.lastError(r)
	}
	return uint32(v), nil
}

func (env *Env) SetObjectCacheMaxSizePercent(percent uint32) error {
	cv := C.ub4(percent)
	r := C.OCIAttrSet(unsafe.Pointer(env.ocienv), C.OCI_HTYPE_ENV, unsafe.Pointer(&cv), 0, C.OCI_ATTR_CACHE_MAX_SIZE, env.ocierr)
	if Status(r) == StatusError {
		return env.lastError(r)
	}
	return nil
}

// allocHandle/allocDescriptor are the Env-scoped convenience wrappers
// used throughout the rest of the package.
func (env *Env) allocHandle(k handleKind) (*Handle, error)   { return AllocHandle(env, k) }
func (env *Env) allocDescriptor(k descKind) (*Descriptor, error) { return AllocDescriptor(env, k) }

// Connect is the factory call: attach to dbname, authenticate as
// user/password, and return a ready (Sessioned) Session. An empty
// user and password request external/OS authentication (spec.md §4.E).
func (env *Env) Connect(dbname, user, password string) (*Session, error) {
	if err := env.checkClosed(); err != nil {
		return nil, err
	}
	ses := newSession(env)
	if err := ses.Attach(dbname); err != nil {
		return nil, err
	}
	if err := ses.Login(user, password); err != nil {
		ses.Close()
		return nil, err
	}
	return ses, nil
}
