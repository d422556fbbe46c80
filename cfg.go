package ora

// byteSliceMode names the two ways a bare []byte could be treated —
// as a small RAW value or as a LOB stream — after the teacher's
// Cfg.byteSlice knob. No config field holds one and no bind or column
// path reads it: a []byte always binds as SQLT_BIN.
type byteSliceMode int

const (
	U8 byteSliceMode = iota // []byte is a small in-memory RAW
	Bin
)

// StmtCfg configures a single Stmt (or is inherited from the owning
// Session/Environment when unset), mirroring the teacher's StmtCfg
// chain (ArseneXie-ora/drv.go, srv.go, stmt.go).
type StmtCfg struct {
	// PrefetchRowCount sets OCI_ATTR_PREFETCH_ROWS when > 0.
	PrefetchRowCount uint32
	// PrefetchMemorySize sets OCI_ATTR_PREFETCH_MEMORY when > 0 and
	// PrefetchRowCount == 0.
	PrefetchMemorySize uint32
	// MaxLongFetchSize is the statement-local ceiling applied when
	// defining LONG/LONG RAW output buffers (spec.md §3); default
	// 32768, minimum 129.
	MaxLongFetchSize int
	// LobBufferSize holds a LOB chunk size (default lobChunkSize). No
	// bind or LOB path reads it; an io.Reader is not streamed into a
	// temporary LOB bind.
	LobBufferSize int
	// StringPtrBufferSize bounds the capacity reserved for a *string
	// OUT/INOUT bind whose final length is not known in advance.
	StringPtrBufferSize int
	// IsAutoCommitting, when true, executes DML with
	// OCI_COMMIT_ON_SUCCESS; no open transaction is tracked or checked.
	IsAutoCommitting bool
	// TrueRune/FalseRune pick the single-character encoding used for
	// bool binds/columns (Oracle has no native boolean column type
	// outside PL/SQL).
	TrueRune, FalseRune rune
}

func (c StmtCfg) IsZero() bool { return c == StmtCfg{} }

// NewStmtCfg returns the teacher's defaults.
func NewStmtCfg() StmtCfg {
	return StmtCfg{
		MaxLongFetchSize:    32768,
		LobBufferSize:       lobChunkSize,
		StringPtrBufferSize: 4000,
		IsAutoCommitting:    true,
		TrueRune:            'T',
		FalseRune:           'F',
	}
}

func (c StmtCfg) maxLongFetchSize() int {
	if c.MaxLongFetchSize < 129 {
		return 129
	}
	return c.MaxLongFetchSize
}

// lobChunkSize is the default LOB read/write chunk, matching the
// server's typical 8K chunk size absent a queried ChunkSize.
const lobChunkSize = 8192

// EnvCfg configures a new Env.
type EnvCfg struct {
	StmtCfg
	Log LogConfig
}

func NewEnvCfg() EnvCfg {
	return EnvCfg{StmtCfg: NewStmtCfg(), Log: NewLogConfig()}
}

// SesCfg configures Session.Login / Srv.OpenSes.
type SesCfg struct {
	Username, Password string
	Dblink              string
	StmtCfg
}

func (c SesCfg) IsZero() bool { return c.Username == "" && c.Password == "" && c.Dblink == "" && c.StmtCfg.IsZero() }

func NewSesCfg() SesCfg { return SesCfg{StmtCfg: NewStmtCfg()} }
