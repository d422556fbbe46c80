package ora

/*
#include <oci.h>
*/
import "C"

// Varchar is a heap-owned, growable byte buffer for a VARCHAR2/RAW
// OUT or INOUT bind whose final length is not known ahead of the
// call (spec.md §4.C); Cap bounds how much the server is allowed to
// write back.
type Varchar struct {
	Buf []byte
	Cap int
}

// NewVarchar reserves cap bytes of scratch space for an OUT bind.
func NewVarchar(capacity int) *Varchar {
	return &Varchar{Buf: make([]byte, 0, capacity), Cap: capacity}
}

func (v *Varchar) toSQL(cfg StmtCfg) (sqlValue, error) {
	data := make([]byte, len(v.Buf), v.Cap)
	copy(data, v.Buf)
	return sqlValue{sqlt: C.SQLT_CHR, data: data}, nil
}

// String returns the current contents as a string.
func (v *Varchar) String() string { return string(v.Buf) }
