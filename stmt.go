package ora

/*
#include <oci.h>
#include <stdlib.h>
*/
import "C"

import (
	"sync"
	"unsafe"
)

var stmtSeq idSeq

// Stmt is a prepared statement obtained from Session.Prepare. It owns
// an OCIStmt handle released through OCIStmtRelease rather than
// OCIHandleFree — required because it was allocated via
// OCIStmtPrepare2's statement-cache path (ArseneXie-ora/stmt.go:
// "OCIStmtRelease must be called with OCIStmtPrepare2").
type Stmt struct {
	mu sync.RWMutex

	id  uint64
	ses *Session

	ocistmt  *C.OCIStmt
	sql      string
	stmtType C.ub2

	cfgMu sync.RWMutex
	cfg   StmtCfg

	binds   []*Bind
	columns []*Column

	// bindHandles is one persistent OCIBind* slot per placeholder
	// declared in the SQL text, fetched once via OCIStmtGetBindInfo
	// right after prepare and reused across every bind/re-execute so
	// OCI can skip re-registering the bind on re-execution (spec.md
	// §4.F item 1, §3 "Bind slot... re-bindable for re-execution").
	bindHandles []*C.OCIBind
	// bindIndex maps an uppercased :name placeholder to its slot in
	// bindHandles. Duplicate occurrences of the same name collapse to
	// the first occurrence's slot and are never re-registered
	// (spec.md §4.F item 1, §8).
	bindIndex map[string]int

	openRsets map[*Rows]struct{}
	closed    bool
}

func prepareStmt(ses *Session, sql string) (*Stmt, error) {
	var ocistmt *C.OCIStmt
	csql := C.CString(sql)
	defer cFree(csql)
	r := C.OCIStmtPrepare2(
		ses.svcctxPtr(),
		&ocistmt,
		ses.env.ocierr,
		(*C.OraText)(unsafe.Pointer(csql)), C.ub4(len(sql)),
		nil, 0,
		C.OCI_NTV_SYNTAX, C.OCI_DEFAULT,
	)
	if Status(r) == StatusError {
		return nil, ses.env.lastError(r)
	}
	var stmtType C.ub2
	sz := C.ub4(unsafe.Sizeof(stmtType))
	r2 := C.OCIAttrGet(unsafe.Pointer(ocistmt), C.OCI_HTYPE_STMT, unsafe.Pointer(&stmtType), &sz, C.OCI_ATTR_STMT_TYPE, ses.env.ocierr)
	if Status(r2) == StatusError {
		C.OCIStmtRelease(ocistmt, ses.env.ocierr, nil, 0, C.OCI_DEFAULT)
		return nil, ses.env.lastError(r2)
	}
	stmt := &Stmt{
		id:        stmtSeq.next(),
		ses:       ses,
		ocistmt:   ocistmt,
		sql:       sql,
		stmtType:  stmtType,
		cfg:       ses.Cfg().StmtCfg,
		openRsets: make(map[*Rows]struct{}),
	}
	if err := stmt.initBindInfo(); err != nil {
		C.OCIStmtRelease(ocistmt, ses.env.ocierr, nil, 0, C.OCI_DEFAULT)
		return nil, err
	}
	ses.addStmt(stmt)
	return stmt, nil
}

// initBindInfo fetches the statement's bind count and full bind-info
// vector in one OCIStmtGetBindInfo call right after prepare, indexing
// named placeholders by uppercased name with duplicates collapsed to
// the first occurrence (spec.md §4.F item 1, following
// original_source/src/stmt.rs's Binds::init).
func (stmt *Stmt) initBindInfo() error {
	var count C.ub4
	sz := C.ub4(unsafe.Sizeof(count))
	r := C.OCIAttrGet(unsafe.Pointer(stmt.ocistmt), C.OCI_HTYPE_STMT, unsafe.Pointer(&count), &sz, C.OCI_ATTR_BIND_COUNT, stmt.ses.env.ocierr)
	if Status(r) == StatusError {
		return stmt.ses.env.lastError(r)
	}
	stmt.bindHandles = make([]*C.OCIBind, count)
	stmt.bindIndex = make(map[string]int, count)
	if count == 0 {
		return nil
	}
	n := int(count)
	bvnp := make([]*C.OraText, n)
	bvnl := make([]C.ub1, n)
	invp := make([]*C.OraText, n)
	invl := make([]C.ub1, n)
	dupl := make([]C.ub1, n)
	hndl := make([]*C.OCIBind, n)
	var found C.sb4
	r = C.OCIStmtGetBindInfo(
		stmt.ocistmt,
		stmt.ses.env.ocierr,
		C.ub4(n), 1, &found,
		&bvnp[0], &bvnl[0],
		&invp[0], &invl[0],
		&dupl[0], &hndl[0],
	)
	if Status(r) == StatusError && Status(r) != StatusNoData {
		return stmt.ses.env.lastError(r)
	}
	for i := 0; i < n; i++ {
		if bvnp[i] == nil || bvnl[i] == 0 || dupl[i] != 0 {
			continue
		}
		name := normalizeBindName(C.GoStringN((*C.char)(unsafe.Pointer(bvnp[i])), C.int(bvnl[i])))
		if _, exists := stmt.bindIndex[name]; !exists {
			stmt.bindIndex[name] = i
		}
	}
	return nil
}

// bindSlot resolves the persistent bind-handle slot for a positional
// or named placeholder, growing bindHandles defensively if the
// prepare-time bind count ever undercounts a position a caller binds
// by position.
func (stmt *Stmt) bindSlot(pos int, name string) (int, error) {
	var idx int
	if name != "" {
		i, ok := stmt.bindIndex[name]
		if !ok {
			return 0, errPrecondition("ora: statement does not declare a :" + name + " placeholder")
		}
		idx = i
	} else {
		idx = pos - 1
	}
	if idx < 0 {
		return 0, errPrecondition("ora: invalid bind position")
	}
	if idx >= len(stmt.bindHandles) {
		grown := make([]*C.OCIBind, idx+1)
		copy(grown, stmt.bindHandles)
		stmt.bindHandles = grown
	}
	return idx, nil
}

func (stmt *Stmt) sysName() string { return stmt.ses.sysName() + "-stmt" }

func (stmt *Stmt) log(enabled bool, v ...interface{}) {
	stmt.ses.Cfg().Log.log(enabled, stmt.sysName(), v...)
}

func (stmt *Stmt) Cfg() StmtCfg {
	stmt.cfgMu.RLock()
	defer stmt.cfgMu.RUnlock()
	if stmt.cfg.IsZero() {
		return stmt.ses.Cfg().StmtCfg
	}
	return stmt.cfg
}

func (stmt *Stmt) SetCfg(cfg StmtCfg) {
	stmt.cfgMu.Lock()
	defer stmt.cfgMu.Unlock()
	stmt.cfg = cfg
}

func (stmt *Stmt) checkClosed() error {
	stmt.mu.RLock()
	defer stmt.mu.RUnlock()
	if stmt.closed {
		return errPrecondition("ora: statement is closed")
	}
	return nil
}

// setPrefetchSize applies the configured row/memory prefetch ceiling
// before execution (spec.md §3 Statement).
func (stmt *Stmt) setPrefetchSize() error {
	cfg := stmt.Cfg()
	if cfg.PrefetchRowCount > 0 {
		n := C.ub4(cfg.PrefetchRowCount)
		r := C.OCIAttrSet(unsafe.Pointer(stmt.ocistmt), C.OCI_HTYPE_STMT, unsafe.Pointer(&n), 0, C.OCI_ATTR_PREFETCH_ROWS, stmt.ses.env.ocierr)
		if Status(r) == StatusError {
			return stmt.ses.env.lastError(r)
		}
		return nil
	}
	if cfg.PrefetchMemorySize > 0 {
		n := C.ub4(cfg.PrefetchMemorySize)
		r := C.OCIAttrSet(unsafe.Pointer(stmt.ocistmt), C.OCI_HTYPE_STMT, unsafe.Pointer(&n), 0, C.OCI_ATTR_PREFETCH_MEMORY, stmt.ses.env.ocierr)
		if Status(r) == StatusError {
			return stmt.ses.env.lastError(r)
		}
	}
	return nil
}

// BindByPos2 binds params to the statement's positional placeholders,
// 1-based, in order (spec.md §4.F).
func (stmt *Stmt) BindByPos2(params ...interface{}) error {
	if err := stmt.checkClosed(); err != nil {
		return err
	}
	stmt.log(stmt.ses.Cfg().Log.Stmt.Bind, "bind positional", len(params))
	binds, err := stmt.bindPositional(params)
	if err != nil {
		return err
	}
	stmt.mu.Lock()
	stmt.binds = binds
	stmt.mu.Unlock()
	return nil
}

// BindByName2 binds values to :name placeholders (spec.md §4.F).
func (stmt *Stmt) BindByName2(params map[string]interface{}) error {
	if err := stmt.checkClosed(); err != nil {
		return err
	}
	stmt.log(stmt.ses.Cfg().Log.Stmt.Bind, "bind named", len(params))
	binds, err := stmt.bindNamed(params)
	if err != nil {
		return err
	}
	stmt.mu.Lock()
	stmt.binds = binds
	stmt.mu.Unlock()
	return nil
}

// isQuery reports whether this statement's type is SELECT, the
// dispatch condition for Exec vs. Query iteration count (spec.md §4.F
// "iters=0 for SELECT else 1").
func (stmt *Stmt) isQuery() bool { return stmt.stmtType == C.OCI_STMT_SELECT }

// isReturning reports whether the statement carries a RETURNING ...
// INTO clause (OCI_ATTR_STMT_IS_RETURNING), the dispatch condition
// between Exec and ExecuteInto (spec.md §4.F items 3-4: "execute
// rejects SELECT and RETURNING statements; execute_into rejects
// SELECT, accepts RETURNING").
func (stmt *Stmt) isReturning() (bool, error) {
	var v C.ub1
	sz := C.ub4(unsafe.Sizeof(v))
	r := C.OCIAttrGet(unsafe.Pointer(stmt.ocistmt), C.OCI_HTYPE_STMT, unsafe.Pointer(&v), &sz, C.OCI_ATTR_STMT_IS_RETURNING, stmt.ses.env.ocierr)
	if Status(r) == StatusError {
		return false, stmt.ses.env.lastError(r)
	}
	return v != 0, nil
}

// execDML binds params (if any), applies the prefetch ceiling, and
// issues the one-iteration OCIStmtExecute call shared by Exec and
// ExecuteInto.
func (stmt *Stmt) execDML(params []interface{}) error {
	if len(params) > 0 {
		if err := stmt.BindByPos2(params...); err != nil {
			return err
		}
	}
	if err := stmt.setPrefetchSize(); err != nil {
		return err
	}
	stmt.log(stmt.ses.Cfg().Log.Stmt.Exe)
	mode := C.ub4(C.OCI_DEFAULT)
	if stmt.Cfg().IsAutoCommitting {
		mode = C.OCI_COMMIT_ON_SUCCESS
	}
	r := C.OCIStmtExecute(stmt.ses.svcctxPtr(), stmt.ocistmt, stmt.ses.env.ocierr, C.ub4(1), 0, nil, nil, mode)
	if Status(r) == StatusError {
		return stmt.ses.env.lastError(r)
	}
	return nil
}

// Exec runs a non-SELECT, non-RETURNING statement (DML or DDL/PL-SQL),
// returning the affected row count. RETURNING statements must go
// through ExecuteInto instead, the only entry point that can report
// whether an OUT argument came back NULL (spec.md §4.F items 3-4).
func (stmt *Stmt) Exec(params ...interface{}) (rowsAffected uint64, err error) {
	if err := stmt.checkClosed(); err != nil {
		return 0, err
	}
	if stmt.isQuery() {
		return 0, errPrecondition("ora: Exec called on a SELECT statement, use Query")
	}
	if returning, err := stmt.isReturning(); err != nil {
		return 0, err
	} else if returning {
		return 0, errPrecondition("ora: Exec called on a RETURNING statement, use ExecuteInto")
	}
	if err := stmt.execDML(params); err != nil {
		return 0, err
	}
	return stmt.finishExec()
}

// ExecuteInto runs a RETURNING ... INTO statement and reports, for
// every OUT/INOUT bind, whether its post-execute value came back NULL:
// it returns nil, nil when no rows were affected, and otherwise a
// per-bind NULL-flag vector in bind order (spec.md §4.F item 4).
func (stmt *Stmt) ExecuteInto(params ...interface{}) ([]bool, error) {
	if err := stmt.checkClosed(); err != nil {
		return nil, err
	}
	if stmt.isQuery() {
		return nil, errPrecondition("ora: ExecuteInto called on a SELECT statement, use Query")
	}
	if returning, err := stmt.isReturning(); err != nil {
		return nil, err
	} else if !returning {
		return nil, errPrecondition("ora: ExecuteInto called on a non-RETURNING statement, use Exec")
	}
	if err := stmt.execDML(params); err != nil {
		return nil, err
	}
	n, err := stmt.finishExec()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	stmt.mu.RLock()
	binds := stmt.binds
	stmt.mu.RUnlock()
	return bindNullFlags(binds), nil
}

// bindNullFlags builds the per-OUT-bind NULL-flag vector ExecuteInto
// reports: one entry per bind carrying a write-back destination, true
// when OCI set that bind's indicator to -1 (spec.md §4.F item 4).
func bindNullFlags(binds []*Bind) []bool {
	var flags []bool
	for _, b := range binds {
		if b.out == nil {
			continue
		}
		flags = append(flags, b.indicator == -1)
	}
	return flags
}

func (stmt *Stmt) rowCount() (uint64, error) {
	var n C.ub8
	sz := C.ub4(unsafe.Sizeof(n))
	r := C.OCIAttrGet(unsafe.Pointer(stmt.ocistmt), C.OCI_HTYPE_STMT, unsafe.Pointer(&n), &sz, C.OCI_ATTR_UB8_ROW_COUNT, stmt.ses.env.ocierr)
	if Status(r) == StatusError {
		return 0, stmt.ses.env.lastError(r)
	}
	return uint64(n), nil
}

// Query runs a SELECT statement, returning a Rows iterator positioned
// before the first row (spec.md §4.F/§4.G).
func (stmt *Stmt) Query(params ...interface{}) (*Rows, error) {
	if err := stmt.checkClosed(); err != nil {
		return nil, err
	}
	if !stmt.isQuery() {
		return nil, errPrecondition("ora: Query called on a non-SELECT statement")
	}
	if len(params) > 0 {
		if err := stmt.BindByPos2(params...); err != nil {
			return nil, err
		}
	}
	if err := stmt.setPrefetchSize(); err != nil {
		return nil, err
	}
	stmt.log(stmt.ses.Cfg().Log.Stmt.Qry)
	r := C.OCIStmtExecute(stmt.ses.svcctxPtr(), stmt.ocistmt, stmt.ses.env.ocierr, 0, 0, nil, nil, C.OCI_DEFAULT)
	if Status(r) == StatusError {
		return nil, stmt.ses.env.lastError(r)
	}
	stmt.mu.RLock()
	binds := stmt.binds
	stmt.mu.RUnlock()
	for _, b := range binds {
		if err := b.writeBack(); err != nil {
			return nil, err
		}
	}
	rows, err := openRows(stmt, stmt.ocistmt, false)
	if err != nil {
		return nil, err
	}
	stmt.mu.Lock()
	stmt.openRsets[rows] = struct{}{}
	stmt.mu.Unlock()
	return rows, nil
}

// NextResult advances to the next implicit result set produced by a
// PL/SQL block (DBMS_SQL.RETURN_RESULT), wrapping the returned
// statement pointer in a Cursor that does not own its handle (spec.md
// §4.F, §4.H), or returning nil, nil when there are no more.
func (stmt *Stmt) NextResult() (*Cursor, error) {
	var child *C.OCIStmt
	var rtype C.ub4
	r := C.OCIStmtGetNextResult(stmt.ocistmt, stmt.ses.env.ocierr, (*unsafe.Pointer)(unsafe.Pointer(&child)), &rtype, C.OCI_DEFAULT)
	if IsNoData(wrapIfError(r, stmt.ses.env)) {
		return nil, nil
	}
	if Status(r) == StatusError {
		return nil, stmt.ses.env.lastError(r)
	}
	if child == nil {
		return nil, nil
	}
	_ = rtype
	return newBorrowedCursor(stmt, child), nil
}

func wrapIfError(r C.sword, env *Env) error {
	if Status(r) == StatusError || Status(r) == StatusNoData {
		return env.lastError(r)
	}
	return nil
}

// removeRows drops rows from this statement's tracked open result
// sets, called by Rows.Close.
func (stmt *Stmt) removeRows(rows *Rows) {
	stmt.mu.Lock()
	delete(stmt.openRsets, rows)
	stmt.mu.Unlock()
}

// NewCursor allocates a fresh statement handle to pass as a REF
// CURSOR OUT bind argument to Exec.
func (stmt *Stmt) NewCursor() (*Cursor, error) { return newCursorForOutBind(stmt) }

// RowsAffected reads OCI_ATTR_UB8_ROW_COUNT directly, for callers that
// want it outside of Exec's return value (e.g. after NextResult).
func (stmt *Stmt) RowsAffected() (uint64, error) { return stmt.rowCount() }

// Close releases the statement's cache slot via OCIStmtRelease (not
// OCIHandleFree: spec.md §4.B, prepare-with-cache-key ownership).
func (stmt *Stmt) Close() error {
	stmt.mu.Lock()
	if stmt.closed {
		stmt.mu.Unlock()
		return nil
	}
	rowsSet := make([]*Rows, 0, len(stmt.openRsets))
	for rs := range stmt.openRsets {
		rowsSet = append(rowsSet, rs)
	}
	stmt.closed = true
	stmt.mu.Unlock()

	for _, rs := range rowsSet {
		rs.Close()
	}
	for _, b := range stmt.binds {
		b.free()
	}
	stmt.log(stmt.ses.Cfg().Log.Stmt.Close)
	stmt.ses.removeStmt(stmt)
	r := C.OCIStmtRelease(stmt.ocistmt, stmt.ses.env.ocierr, nil, 0, C.OCI_DEFAULT)
	if Status(r) == StatusError {
		return stmt.ses.env.lastError(r)
	}
	return nil
}
