package ora

import (
	"testing"

	"github.com/pkg/errors"
)

func TestOCIError_Error_NoRecords(t *testing.T) {
	oe := &OCIError{Status: StatusError}
	want := "OCI status -1: no diagnostic record available"
	if got := oe.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestOCIError_Error_JoinsRecords(t *testing.T) {
	oe := &OCIError{
		Status: StatusError,
		Records: []Record{
			{Code: 1017, Message: "invalid username/password"},
			{Code: 600, Message: "internal error"},
		},
	}
	want := "ORA-01017: invalid username/password; ORA-00600: internal error"
	if got := oe.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestOCIError_Code(t *testing.T) {
	oe := &OCIError{}
	if got := oe.Code(); got != 0 {
		t.Errorf("Code() on empty records = %d, want 0", got)
	}
	oe.Records = []Record{{Code: 904, Message: "invalid identifier"}}
	if got := oe.Code(); got != 904 {
		t.Errorf("Code() = %d, want 904", got)
	}
}

func TestIsNoData(t *testing.T) {
	wrapped := wrapOCI("fetch", &OCIError{Status: StatusNoData})
	if !IsNoData(wrapped) {
		t.Errorf("IsNoData() = false for a StatusNoData error")
	}
	if IsNoData(errors.New("unrelated")) {
		t.Errorf("IsNoData() = true for an unrelated error")
	}
	if IsNoData(nil) {
		t.Errorf("IsNoData() = true for nil")
	}
}

func TestIsNeedData(t *testing.T) {
	wrapped := wrapOCI("lob read", &OCIError{Status: StatusNeedData})
	if !IsNeedData(wrapped) {
		t.Errorf("IsNeedData() = false for a StatusNeedData error")
	}
	if IsNeedData(wrapOCI("fetch", &OCIError{Status: StatusNoData})) {
		t.Errorf("IsNeedData() = true for a StatusNoData error")
	}
}

func TestWrapOCI_Nil(t *testing.T) {
	if err := wrapOCI("noop", nil); err != nil {
		t.Errorf("wrapOCI(op, nil) = %v, want nil", err)
	}
}

func TestErrPrecondition(t *testing.T) {
	err := errPrecondition("column %d out of bounds", 3)
	want := "column 3 out of bounds"
	if err.Error() != want {
		t.Errorf("errPrecondition() = %q, want %q", err.Error(), want)
	}
}

func TestErrAlloc(t *testing.T) {
	err := errAlloc("Env handle")
	want := "ora: failed to allocate Env handle"
	if err.Error() != want {
		t.Errorf("errAlloc() = %q, want %q", err.Error(), want)
	}
}
