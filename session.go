package ora

/*
#include <oci.h>
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"
)

var sessionSeq idSeq

// sessionState is the strict, monotonic state machine of spec.md
// §4.E / §3.
type sessionState int

const (
	stateDetached sessionState = iota
	stateAttached
	stateSessioned
)

// Session owns Server + SvcCtx + Session handles and their state
// machine (spec.md §3 Session, §4.E). Bound to an Env; on drop, tears
// down whichever of those handles it actually acquired.
type Session struct {
	mu sync.RWMutex

	id  uint64
	env *Env

	server *Handle // OCI_HTYPE_SERVER
	svcctx *Handle // OCI_HTYPE_SVCCTX
	sess   *Handle // OCI_HTYPE_SESSION

	state sessionState

	cfgMu sync.RWMutex
	cfg   SesCfg

	openStmts map[*Stmt]struct{}
	gate      *sessionGate // async adapter's per-session serialization (async.go)
}

func newSession(env *Env) *Session {
	return &Session{
		id:        sessionSeq.next(),
		env:       env,
		openStmts: make(map[*Stmt]struct{}),
		gate:      newSessionGate(),
	}
}

func (ses *Session) sysName() string {
	return fmt.Sprintf("%sS%d", ses.env.sysName(), ses.id)
}

func (ses *Session) log(enabled bool, v ...interface{}) {
	ses.Cfg().Log.log(enabled, ses.sysName(), v...)
}

func (ses *Session) Cfg() SesCfg {
	ses.cfgMu.RLock()
	defer ses.cfgMu.RUnlock()
	return ses.cfg
}

func (ses *Session) SetCfg(cfg SesCfg) {
	ses.cfgMu.Lock()
	defer ses.cfgMu.Unlock()
	ses.cfg = cfg
}

// Attach connects to an Oracle server, moving Detached -> Attached.
// Fails if the Session is not Detached (spec.md §4.E).
func (ses *Session) Attach(dbname string) error {
	ses.mu.Lock()
	defer ses.mu.Unlock()
	if ses.state != stateDetached {
		return errPrecondition("ora: session already attached")
	}
	srv, err := ses.env.allocHandle(htypeServer)
	if err != nil {
		return err
	}
	cDbname := C.CString(dbname)
	defer cFree(cDbname)
	r := C.OCIServerAttach(
		(*C.OCIServer)(srv.Ptr()),
		ses.env.ocierr,
		(*C.OraText)(unsafe.Pointer(cDbname)),
		C.sb4(len(dbname)),
		C.OCI_DEFAULT,
	)
	if Status(r) == StatusError {
		return ses.env.lastError(r)
	}
	svcctx, err := ses.env.allocHandle(htypeSvcCtx)
	if err != nil {
		srv.Free()
		return err
	}
	if err := svcctx.SetAttrHandle(ses.env, srv, C.OCI_ATTR_SERVER); err != nil {
		return err
	}
	ses.server, ses.svcctx = srv, svcctx
	ses.state = stateAttached
	ses.log(ses.Cfg().Log.Ses.Attach, "attached", dbname)
	return nil
}

// Login authenticates, moving Attached -> Sessioned. Fails if the
// Session is not Attached. An empty user and password select external
// credentials; otherwise RDBMS credentials (spec.md §4.E).
func (ses *Session) Login(user, password string) error {
	ses.mu.Lock()
	defer ses.mu.Unlock()
	if ses.state != stateAttached {
		return errPrecondition("ora: session not attached")
	}
	sess, err := ses.env.allocHandle(htypeSess)
	if err != nil {
		return err
	}
	credentialType := C.ub4(C.OCI_CRED_EXT)
	if user != "" || password != "" {
		credentialType = C.OCI_CRED_RDBMS
		if err := sess.SetAttrString(ses.env, user, C.OCI_ATTR_USERNAME); err != nil {
			return err
		}
		if err := sess.SetAttrString(ses.env, password, C.OCI_ATTR_PASSWORD); err != nil {
			return err
		}
	}
	drvName := fmt.Sprintf("GO-OCI-%s", Version)
	if err := sess.SetAttrString(ses.env, drvName, C.OCI_ATTR_DRIVER_NAME); err != nil {
		return err
	}
	lobPrefetch := C.ub4(lobChunkSize)
	r0 := C.OCIAttrSet(sess.Ptr(), C.OCI_HTYPE_SESSION, unsafe.Pointer(&lobPrefetch), 0, C.OCI_ATTR_DEFAULT_LOBPREFETCH_SIZE, ses.env.ocierr)
	if Status(r0) == StatusError {
		return ses.env.lastError(r0)
	}
	r := C.OCISessionBegin(
		(*C.OCISvcCtx)(ses.svcctx.Ptr()),
		ses.env.ocierr,
		(*C.OCISession)(sess.Ptr()),
		credentialType,
		C.OCI_DEFAULT,
	)
	if Status(r) == StatusError {
		return ses.env.lastError(r)
	}
	if err := ses.svcctx.SetAttrHandle(ses.env, sess, C.OCI_ATTR_SESSION); err != nil {
		return err
	}
	// Disable the client-side statement cache: this driver owns its
	// own prepared-statement lifecycle via Stmt.Close (spec.md §3
	// Statement, "obtained via statement-cache-aware prepare").
	stmtCacheSize := C.ub4(0)
	r2 := C.OCIAttrSet(ses.svcctx.Ptr(), C.OCI_HTYPE_SVCCTX, unsafe.Pointer(&stmtCacheSize), 0, C.OCI_ATTR_STMTCACHESIZE, ses.env.ocierr)
	if Status(r2) == StatusError {
		return ses.env.lastError(r2)
	}
	ses.sess = sess
	ses.state = stateSessioned
	ses.log(ses.Cfg().Log.Ses.Login, "session established")
	return nil
}

func (ses *Session) checkSessioned() error {
	ses.mu.RLock()
	defer ses.mu.RUnlock()
	if ses.state != stateSessioned {
		return errPrecondition("ora: session is not logged in")
	}
	return nil
}

// Prepare prepares sql via the statement-cache-aware OCIStmtPrepare2
// with native syntax, default mode and an empty cache key, returning
// a ready-to-bind Stmt (spec.md §4.F).
func (ses *Session) Prepare(sql string) (*Stmt, error) {
	if err := ses.checkSessioned(); err != nil {
		return nil, err
	}
	ses.log(ses.Cfg().Log.Stmt.Prepare, "prepare", sql)
	return prepareStmt(ses, sql)
}

// Commit ends the current transaction with the default flags.
func (ses *Session) Commit() error {
	if err := ses.checkSessioned(); err != nil {
		return err
	}
	ses.log(ses.Cfg().Log.Ses.Commit)
	r := C.OCITransCommit(ses.svcctxPtr(), ses.env.ocierr, C.OCI_DEFAULT)
	if Status(r) == StatusError {
		return ses.env.lastError(r)
	}
	return nil
}

// Rollback rolls back the current transaction with the default flags.
func (ses *Session) Rollback() error {
	if err := ses.checkSessioned(); err != nil {
		return err
	}
	ses.log(ses.Cfg().Log.Ses.Rollback)
	r := C.OCITransRollback(ses.svcctxPtr(), ses.env.ocierr, C.OCI_DEFAULT)
	if Status(r) == StatusError {
		return ses.env.lastError(r)
	}
	return nil
}

// Ping performs a server round-trip health check.
func (ses *Session) Ping() error {
	if err := ses.checkSessioned(); err != nil {
		return err
	}
	ses.log(ses.Cfg().Log.Ses.Ping)
	r := C.OCIPing((*C.OCISvcCtx)(ses.svcctx.Ptr()), ses.env.ocierr, C.OCI_DEFAULT)
	if Status(r) == StatusError {
		return ses.env.lastError(r)
	}
	return nil
}

func (ses *Session) svcctxPtr() *C.OCISvcCtx { return (*C.OCISvcCtx)(ses.svcctx.Ptr()) }

// --- session attribute setters/getters (spec.md §4.E) -----------------------

func (ses *Session) SetCurrentSchema(schema string) error {
	return ses.sess.SetAttrString(ses.env, schema, C.OCI_ATTR_CURRENT_SCHEMA)
}
func (ses *Session) CurrentSchema() (string, error) {
	return ses.sess.GetAttrString(ses.env, C.OCI_ATTR_CURRENT_SCHEMA)
}

// SetModule sets OCI_ATTR_MODULE, truncated per the client's own
// 48-byte limit.
func (ses *Session) SetModule(module string) error {
	if len(module) > 48 {
		module = module[:48]
	}
	return ses.sess.SetAttrString(ses.env, module, C.OCI_ATTR_MODULE)
}

// Module reads back OCI_ATTR_MODULE.
func (ses *Session) Module() (string, error) {
	return ses.sess.GetAttrString(ses.env, C.OCI_ATTR_MODULE)
}

// SetAction sets OCI_ATTR_ACTION, truncated to 32 bytes.
func (ses *Session) SetAction(action string) error {
	if len(action) > 32 {
		action = action[:32]
	}
	return ses.sess.SetAttrString(ses.env, action, C.OCI_ATTR_ACTION)
}

// Action reads back OCI_ATTR_ACTION.
func (ses *Session) Action() (string, error) {
	return ses.sess.GetAttrString(ses.env, C.OCI_ATTR_ACTION)
}

// SetClientIdentifier sets OCI_ATTR_CLIENT_IDENTIFIER, truncated to
// 64 bytes.
func (ses *Session) SetClientIdentifier(id string) error {
	if len(id) > 64 {
		id = id[:64]
	}
	return ses.sess.SetAttrString(ses.env, id, C.OCI_ATTR_CLIENT_IDENTIFIER)
}

// ClientIdentifier reads back OCI_ATTR_CLIENT_IDENTIFIER.
func (ses *Session) ClientIdentifier() (string, error) {
	return ses.sess.GetAttrString(ses.env, C.OCI_ATTR_CLIENT_IDENTIFIER)
}

// SetClientInfo sets OCI_ATTR_CLIENT_INFO, truncated to 64 bytes.
func (ses *Session) SetClientInfo(info string) error {
	if len(info) > 64 {
		info = info[:64]
	}
	return ses.sess.SetAttrString(ses.env, info, C.OCI_ATTR_CLIENT_INFO)
}

// ClientInfo reads back OCI_ATTR_CLIENT_INFO.
func (ses *Session) ClientInfo() (string, error) {
	return ses.sess.GetAttrString(ses.env, C.OCI_ATTR_CLIENT_INFO)
}

// SetDefaultLobPrefetchSize sets OCI_ATTR_DEFAULT_LOBPREFETCH_SIZE.
func (ses *Session) SetDefaultLobPrefetchSize(n uint32) error {
	return ses.sess.SetAttrUB4(ses.env, n, C.OCI_ATTR_DEFAULT_LOBPREFETCH_SIZE)
}

// DefaultLobPrefetchSize reads back OCI_ATTR_DEFAULT_LOBPREFETCH_SIZE.
func (ses *Session) DefaultLobPrefetchSize() (uint32, error) {
	return ses.sess.GetAttrUB4(ses.env, C.OCI_ATTR_DEFAULT_LOBPREFETCH_SIZE)
}

// SetCallTimeMeasurement toggles OCI_ATTR_COLLECT_CALL_TIME on or off
// for this session; once on, CallTime reads back the accumulated
// per-call time (spec.md §4.E "call-time measurement (on/off and
// reader)").
func (ses *Session) SetCallTimeMeasurement(on bool) error {
	var v uint8
	if on {
		v = 1
	}
	return ses.sess.SetAttrUB1(ses.env, v, C.OCI_ATTR_COLLECT_CALL_TIME)
}

// CallTime reads OCI_ATTR_CALL_TIME, the accumulated time (in
// hundredths of a second) of the calls made since measurement was
// last turned on.
func (ses *Session) CallTime() (uint64, error) {
	return ses.sess.GetAttrUB8(ses.env, C.OCI_ATTR_CALL_TIME)
}

// --- teardown ----------------------------------------------------------------

// addStmt/removeStmt track live statements so Close can refuse to
// leave dangling Stmts (spec.md §8: "if S is live then C is live").
func (ses *Session) addStmt(s *Stmt) {
	ses.mu.Lock()
	ses.openStmts[s] = struct{}{}
	ses.mu.Unlock()
}
func (ses *Session) removeStmt(s *Stmt) {
	ses.mu.Lock()
	delete(ses.openStmts, s)
	ses.mu.Unlock()
}

// Close tears down whichever handles were actually acquired: end
// session (if Sessioned), then detach (if Attached) — the state
// machine's documented drop behavior (spec.md §3).
func (ses *Session) Close() error {
	ses.mu.Lock()
	stmts := make([]*Stmt, 0, len(ses.openStmts))
	for s := range ses.openStmts {
		stmts = append(stmts, s)
	}
	state := ses.state
	ses.mu.Unlock()

	for _, s := range stmts {
		s.Close()
	}

	ses.mu.Lock()
	defer ses.mu.Unlock()
	var firstErr error
	if state == stateSessioned {
		r := C.OCISessionEnd((*C.OCISvcCtx)(ses.svcctx.Ptr()), ses.env.ocierr, (*C.OCISession)(ses.sess.Ptr()), C.OCI_DEFAULT)
		if Status(r) == StatusError {
			firstErr = ses.env.lastError(r)
		}
		ses.sess.Free()
	}
	if state == stateAttached || state == stateSessioned {
		r := C.OCIServerDetach((*C.OCIServer)(ses.server.Ptr()), ses.env.ocierr, C.OCI_DEFAULT)
		if Status(r) == StatusError && firstErr == nil {
			firstErr = ses.env.lastError(r)
		}
		ses.server.Free()
		ses.svcctx.Free()
	}
	ses.state = stateDetached
	ses.log(ses.Cfg().Log.Ses.Close, "session closed")
	return firstErr
}
