package ora

import "testing"

func TestBindNullFlags(t *testing.T) {
	var out1, out2 int64
	binds := []*Bind{
		{out: &out1, indicator: 0},
		{out: nil, indicator: 0},
		{out: &out2, indicator: -1},
	}
	got := bindNullFlags(binds)
	want := []bool{false, true}
	if len(got) != len(want) {
		t.Fatalf("bindNullFlags() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bindNullFlags()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBindNullFlags_NoOutBinds(t *testing.T) {
	binds := []*Bind{{out: nil}, {out: nil}}
	if got := bindNullFlags(binds); got != nil {
		t.Errorf("bindNullFlags() = %v, want nil", got)
	}
}
