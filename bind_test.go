package ora

import "testing"

func TestNormalizeBindName(t *testing.T) {
	tests := []struct{ in, want string }{
		{":name", "NAME"},
		{"name", "NAME"},
		{":Id", "ID"},
		{"", ""},
		{":already_upper", "ALREADY_UPPER"},
	}
	for _, tt := range tests {
		if got := normalizeBindName(tt.in); got != tt.want {
			t.Errorf("normalizeBindName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOutTarget(t *testing.T) {
	var i int64
	var s string
	var f float64
	vc := NewVarchar(10)

	cases := []struct {
		name string
		v    interface{}
		want bool
	}{
		{"int64 ptr", &i, true},
		{"string ptr", &s, true},
		{"float64 ptr", &f, true},
		{"varchar ptr", vc, true},
		{"plain int64", int64(5), false},
		{"plain string", "x", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, ok := outTarget(c.v)
			if ok != c.want {
				t.Errorf("outTarget(%v) ok = %v, want %v", c.v, ok, c.want)
			}
		})
	}
}
