//go:build integration

package ora

// Seed end-to-end scenarios against a live HR-schema database,
// configured entirely through environment variables so a plain `go
// test ./...` never dials out. Run with:
//
//	ORA_DSN=host:port/service ORA_USER=hr ORA_PASSWORD=... \
//	  go test -tags integration -run TestIntegration ./...

import (
	"os"
	"testing"
)

func integrationSession(t *testing.T) (*Env, *Session) {
	t.Helper()
	dsn := os.Getenv("ORA_DSN")
	user := os.Getenv("ORA_USER")
	password := os.Getenv("ORA_PASSWORD")
	if dsn == "" || user == "" {
		t.Skip("ORA_DSN / ORA_USER not set, skipping integration test")
	}
	env, err := OpenEnv(NewEnvCfg())
	if err != nil {
		t.Fatalf("OpenEnv() error = %v", err)
	}
	ses, err := env.Connect(dsn, user, password)
	if err != nil {
		env.Close()
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() {
		ses.Close()
		env.Close()
	})
	return env, ses
}

// 1. SELECT one row by bind.
func TestIntegration_SelectOneRowByBind(t *testing.T) {
	_, ses := integrationSession(t)
	stmt, err := ses.Prepare("select employee_id from hr.employees where last_name = :ln")
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	defer stmt.Close()
	rows, err := stmt.Query("King")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	defer rows.Close()
	ok, err := rows.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if !ok {
		t.Fatalf("Next() = false, want a row for last_name = King")
	}
	id, err := Get[int64](rows.Row(), 1)
	if err != nil {
		t.Fatalf("Get[int64]() error = %v", err)
	}
	if id == 0 {
		t.Errorf("employee_id = 0, want the seeded HR employee id")
	}
	if ok, err = rows.Next(); err != nil {
		t.Fatalf("second Next() error = %v", err)
	} else if ok {
		t.Errorf("second Next() = true, want end of the one-row result")
	}
}

// 2. UPDATE with commit/rollback.
func TestIntegration_UpdateCommitRollback(t *testing.T) {
	_, ses := integrationSession(t)
	upd, err := ses.Prepare("update hr.employees set salary = :s where employee_id = :id")
	if err != nil {
		t.Fatalf("Prepare(update) error = %v", err)
	}
	defer upd.Close()
	qry, err := ses.Prepare("select salary from hr.employees where employee_id = :id")
	if err != nil {
		t.Fatalf("Prepare(select) error = %v", err)
	}
	defer qry.Close()

	env, _ := integrationSession(t)
	readSalary := func(id int64) float64 {
		rows, err := qry.Query(id)
		if err != nil {
			t.Fatalf("Query(select) error = %v", err)
		}
		defer rows.Close()
		if ok, err := rows.Next(); err != nil || !ok {
			t.Fatalf("Next() on salary query: ok=%v err=%v", ok, err)
		}
		n, err := Get[Number](rows.Row(), 1)
		if err != nil {
			t.Fatalf("Get[Number]() error = %v", err)
		}
		v, err := n.Float64(env)
		if err != nil {
			t.Fatalf("Number.Float64() error = %v", err)
		}
		return v
	}

	n, err := upd.Exec(4200.0, int64(107))
	if err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	if n != 1 {
		t.Fatalf("Exec() rowsAffected = %d, want 1", n)
	}
	if err := ses.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if got := readSalary(107); got != 4200 {
		t.Fatalf("salary after commit = %v, want 4200", got)
	}

	if _, err := upd.Exec(9999.0, int64(107)); err != nil {
		t.Fatalf("second Exec() error = %v", err)
	}
	if err := ses.Rollback(); err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}
	if got := readSalary(107); got != 4200 {
		t.Fatalf("salary after rollback = %v, want 4200", got)
	}
}

// 3. RETURNING clause populates an OUT bind.
func TestIntegration_ReturningInto(t *testing.T) {
	_, ses := integrationSession(t)
	stmt, err := ses.Prepare(`insert into hr.departments(department_id, department_name, manager_id, location_id)
		values (hr.departments_seq.nextval, :n, :m, :l) returning department_id into :id`)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	defer stmt.Close()
	var id int64
	if err := stmt.BindByName2(map[string]interface{}{
		"n":  "Security",
		"m":  (*int64)(nil),
		"l":  int64(1700),
		"id": &id,
	}); err != nil {
		t.Fatalf("BindByName2() error = %v", err)
	}
	flags, err := stmt.ExecuteInto()
	if err != nil {
		t.Fatalf("ExecuteInto() error = %v", err)
	}
	if len(flags) != 1 || flags[0] {
		t.Errorf("ExecuteInto() null flags = %v, want [false]", flags)
	}
	if id <= 0 {
		t.Errorf("department_id = %d, want > 0", id)
	}
	ses.Rollback()
}

// 4. REF CURSOR OUT binds from a PL/SQL block.
func TestIntegration_RefCursorOutBinds(t *testing.T) {
	_, ses := integrationSession(t)
	stmt, err := ses.Prepare(`begin
		open :c1 for select department_name, first_name, last_name, employee_id
			from hr.employees e join hr.departments d on e.department_id = d.department_id
			where d.department_name = 'Shipping';
		open :c2 for select * from (select last_name from hr.employees order by salary desc)
			where rownum <= 2;
	end;`)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	defer stmt.Close()
	c1, err := stmt.NewCursor()
	if err != nil {
		t.Fatalf("NewCursor() error = %v", err)
	}
	c2, err := stmt.NewCursor()
	if err != nil {
		t.Fatalf("NewCursor() error = %v", err)
	}
	if err := stmt.BindByName2(map[string]interface{}{"c1": c1, "c2": c2}); err != nil {
		t.Fatalf("BindByName2() error = %v", err)
	}
	if _, err := stmt.Exec(); err != nil {
		t.Fatalf("Exec() error = %v", err)
	}

	rows1, err := c1.Rows()
	if err != nil {
		t.Fatalf("c1.Rows() error = %v", err)
	}
	defer rows1.Close()
	n := 0
	for {
		ok, err := rows1.Next()
		if err != nil {
			t.Fatalf("c1 Next() error = %v", err)
		}
		if !ok {
			break
		}
		n++
	}
	if n != 1 {
		t.Errorf("first cursor row count = %d, want 1", n)
	}

	rows2, err := c2.Rows()
	if err != nil {
		t.Fatalf("c2.Rows() error = %v", err)
	}
	defer rows2.Close()
	n = 0
	for {
		ok, err := rows2.Next()
		if err != nil {
			t.Fatalf("c2 Next() error = %v", err)
		}
		if !ok {
			break
		}
		n++
	}
	if n != 2 {
		t.Errorf("second cursor row count = %d, want 2", n)
	}
}

// 5. CLOB piece-wise append then piece-wise read recovers the window.
func TestIntegration_CLOBPieceWiseAppendAndRead(t *testing.T) {
	_, ses := integrationSession(t)
	lob, err := NewTempLob(ses, true)
	if err != nil {
		t.Fatalf("NewTempLob() error = %v", err)
	}
	defer lob.Drop()
	if err := lob.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer lob.Close()

	const chunk = "0123456789"
	const n = 3
	if _, err := lob.AppendFirst([]byte(chunk)); err != nil {
		t.Fatalf("AppendFirst() error = %v", err)
	}
	for i := 0; i < n; i++ {
		if _, err := lob.AppendNext([]byte(chunk)); err != nil {
			t.Fatalf("AppendNext() error = %v", err)
		}
	}
	if _, err := lob.AppendLast([]byte(chunk)); err != nil {
		t.Fatalf("AppendLast() error = %v", err)
	}

	length, err := lob.Len()
	if err != nil {
		t.Fatalf("Len() error = %v", err)
	}
	want := uint64((n + 2) * len(chunk))
	if length != want {
		t.Fatalf("Len() = %d, want %d", length, want)
	}

	got := make([]byte, 0, length)
	first, _, more, err := lob.ReadFirst(4, 0, length)
	if err != nil {
		t.Fatalf("ReadFirst() error = %v", err)
	}
	got = append(got, first...)
	for more {
		var piece []byte
		piece, _, more, err = lob.ReadNext(4)
		if err != nil {
			t.Fatalf("ReadNext() error = %v", err)
		}
		got = append(got, piece...)
	}
	if uint64(len(got)) != length {
		t.Fatalf("piece-wise read recovered %d bytes, want %d", len(got), length)
	}
}

// 6. BFILE round-trip into a temporary BLOB.
func TestIntegration_BFileRoundTrip(t *testing.T) {
	_, ses := integrationSession(t)
	f, err := NewBFile(ses.env)
	if err != nil {
		t.Fatalf("NewBFile() error = %v", err)
	}
	defer f.Drop()
	if err := f.SetFileName("MEDIA_DIR", "hello_world.txt"); err != nil {
		t.Fatalf("SetFileName() error = %v", err)
	}
	if err := f.OpenFile(); err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer f.CloseFile()
	exists, err := f.FileExists()
	if err != nil {
		t.Fatalf("FileExists() error = %v", err)
	}
	if !exists {
		t.Fatalf("FileExists() = false for MEDIA_DIR/hello_world.txt")
	}
	fileLen, err := f.Len()
	if err != nil {
		t.Fatalf("Len() error = %v", err)
	}

	lob, err := NewTempLob(ses, false)
	if err != nil {
		t.Fatalf("NewTempLob() error = %v", err)
	}
	defer lob.Drop()
	if err := lob.LoadFromFile(f, 0, fileLen, 0); err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	data, n, err := lob.Read(0, fileLen)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if n != 28 {
		t.Fatalf("Read() returned %d bytes, want 28", n)
	}
	if data[0] != 0xFE || data[1] != 0xFF {
		t.Fatalf("Read() leading bytes = % X, want FE FF (UTF-16BE BOM)", data[:2])
	}
}

// 7. Session attribute setters round-trip through their getters, and
// call-time measurement accumulates once switched on.
func TestIntegration_SessionAttributes(t *testing.T) {
	_, ses := integrationSession(t)

	if err := ses.SetModule("ora-test-module"); err != nil {
		t.Fatalf("SetModule() error = %v", err)
	}
	if got, err := ses.Module(); err != nil {
		t.Fatalf("Module() error = %v", err)
	} else if got != "ora-test-module" {
		t.Errorf("Module() = %q, want %q", got, "ora-test-module")
	}

	if err := ses.SetAction("ora-test-action"); err != nil {
		t.Fatalf("SetAction() error = %v", err)
	}
	if got, err := ses.Action(); err != nil {
		t.Fatalf("Action() error = %v", err)
	} else if got != "ora-test-action" {
		t.Errorf("Action() = %q, want %q", got, "ora-test-action")
	}

	if err := ses.SetClientIdentifier("ora-test-client"); err != nil {
		t.Fatalf("SetClientIdentifier() error = %v", err)
	}
	if got, err := ses.ClientIdentifier(); err != nil {
		t.Fatalf("ClientIdentifier() error = %v", err)
	} else if got != "ora-test-client" {
		t.Errorf("ClientIdentifier() = %q, want %q", got, "ora-test-client")
	}

	if err := ses.SetClientInfo("ora-test-info"); err != nil {
		t.Fatalf("SetClientInfo() error = %v", err)
	}
	if got, err := ses.ClientInfo(); err != nil {
		t.Fatalf("ClientInfo() error = %v", err)
	} else if got != "ora-test-info" {
		t.Errorf("ClientInfo() = %q, want %q", got, "ora-test-info")
	}

	if err := ses.SetCallTimeMeasurement(true); err != nil {
		t.Fatalf("SetCallTimeMeasurement(true) error = %v", err)
	}
	stmt, err := ses.Prepare("select 1 from dual")
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	defer stmt.Close()
	rows, err := stmt.Query()
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	rows.Close()
	if _, err := ses.CallTime(); err != nil {
		t.Fatalf("CallTime() error = %v", err)
	}
	if err := ses.SetCallTimeMeasurement(false); err != nil {
		t.Fatalf("SetCallTimeMeasurement(false) error = %v", err)
	}
}
