package ora

/*
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"unsafe"
)

func cFree(p *C.char) { C.free(unsafe.Pointer(p)) }

// callInfo renders "file.go:123" for the caller `skip` frames above
// its own caller, matching the teacher's log line shape
// ("E1S2S3S4 file.go:123 message").
func callInfo(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "?"
	}
	short := file
	for i := len(file) - 1; i > 0; i-- {
		if file[i] == '/' {
			short = file[i+1:]
			break
		}
	}
	return fmt.Sprintf("%s:%d", short, line)
}

// idSeq hands out small monotonic ids for system names (EnvN, SesN,
// StmtN, ...), matching the teacher's Id type.
type idSeq struct{ n uint64 }

func (s *idSeq) next() uint64 { return atomic.AddUint64(&s.n, 1) }
