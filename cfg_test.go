package ora

import "testing"

func TestStmtCfg_IsZero(t *testing.T) {
	var c StmtCfg
	if !c.IsZero() {
		t.Errorf("zero-value StmtCfg.IsZero() = false")
	}
	if NewStmtCfg().IsZero() {
		t.Errorf("NewStmtCfg().IsZero() = true")
	}
}

func TestNewStmtCfg_Defaults(t *testing.T) {
	c := NewStmtCfg()
	if c.MaxLongFetchSize != 32768 {
		t.Errorf("MaxLongFetchSize = %d, want 32768", c.MaxLongFetchSize)
	}
	if !c.IsAutoCommitting {
		t.Errorf("IsAutoCommitting = false, want true")
	}
	if c.TrueRune != 'T' || c.FalseRune != 'F' {
		t.Errorf("TrueRune/FalseRune = %q/%q, want 'T'/'F'", c.TrueRune, c.FalseRune)
	}
}

func TestStmtCfg_MaxLongFetchSize_Floor(t *testing.T) {
	c := StmtCfg{MaxLongFetchSize: 10}
	if got := c.maxLongFetchSize(); got != 129 {
		t.Errorf("maxLongFetchSize() = %d, want floor 129", got)
	}
	c.MaxLongFetchSize = 5000
	if got := c.maxLongFetchSize(); got != 5000 {
		t.Errorf("maxLongFetchSize() = %d, want 5000", got)
	}
}

func TestSesCfg_IsZero(t *testing.T) {
	var c SesCfg
	if !c.IsZero() {
		t.Errorf("zero-value SesCfg.IsZero() = false")
	}
	c.Username = "scott"
	if c.IsZero() {
		t.Errorf("SesCfg.IsZero() = true after setting Username")
	}
}

func TestNewEnvCfg(t *testing.T) {
	c := NewEnvCfg()
	if c.MaxLongFetchSize != 32768 {
		t.Errorf("NewEnvCfg().MaxLongFetchSize = %d, want 32768", c.MaxLongFetchSize)
	}
	if c.Log.Logger == nil {
		t.Errorf("NewEnvCfg().Log.Logger = nil")
	}
}
