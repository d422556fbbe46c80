package ora

import "testing"

type recordingLogger struct {
	infos  []string
	errors []string
}

func (r *recordingLogger) Infof(format string, args ...interface{}) {
	r.infos = append(r.infos, format)
}
func (r *recordingLogger) Errorf(format string, args ...interface{}) {
	r.errors = append(r.errors, format)
}

func TestLogConfig_IsEnabled(t *testing.T) {
	lc := LogConfig{Logger: &recordingLogger{}}
	if lc.IsEnabled(false) {
		t.Errorf("IsEnabled(false) = true")
	}
	if !lc.IsEnabled(true) {
		t.Errorf("IsEnabled(true) = false with a real logger set")
	}

	lc.Logger = nil
	if lc.IsEnabled(true) {
		t.Errorf("IsEnabled(true) = true with Logger = nil")
	}

	lc.Logger = EmpLgr{}
	if lc.IsEnabled(true) {
		t.Errorf("IsEnabled(true) = true with EmpLgr logger")
	}
}

func TestLogConfig_Log_Suppressed(t *testing.T) {
	rl := &recordingLogger{}
	lc := LogConfig{Logger: rl}
	lc.log(false, "Ses1")
	if len(rl.infos) != 0 {
		t.Errorf("log(false, ...) wrote %d lines, want 0", len(rl.infos))
	}
}

func TestLogConfig_Log_Enabled(t *testing.T) {
	rl := &recordingLogger{}
	lc := LogConfig{Logger: rl}
	lc.log(true, "Ses1")
	if len(rl.infos) != 1 {
		t.Fatalf("log(true, ...) wrote %d lines, want 1", len(rl.infos))
	}
}

func TestNewLogConfig_AllEnabled(t *testing.T) {
	lc := NewLogConfig()
	if !lc.Env.Connect || !lc.Env.Close {
		t.Errorf("NewLogConfig().Env = %+v, want all true", lc.Env)
	}
	if !lc.Ses.Attach || !lc.Ses.Login || !lc.Ses.Ping {
		t.Errorf("NewLogConfig().Ses = %+v, want all true", lc.Ses)
	}
	if lc.Logger == nil {
		t.Errorf("NewLogConfig().Logger = nil")
	}
}

func TestEmpLgr_NoOp(t *testing.T) {
	var l Logger = EmpLgr{}
	l.Infof("unused %d", 1)
	l.Errorf("unused %d", 1)
}
