package ora

import "testing"

func TestColumnValue_As(t *testing.T) {
	tests := []struct {
		name string
		cv   ColumnValue
		want interface{}
	}{
		{"null", ColumnValue{Kind: KindNull}, nil},
		{"text", ColumnValue{Kind: KindText, Text: "hi"}, "hi"},
		{"binary", ColumnValue{Kind: KindBinary, Binary: []byte{1, 2}}, []byte{1, 2}},
		{"float", ColumnValue{Kind: KindFloat, Float: 1.5}, float32(1.5)},
		{"double", ColumnValue{Kind: KindDouble, Double: 2.5}, float64(2.5)},
		{"rowid", ColumnValue{Kind: KindRowID, RowID: RowID{}}, RowID{}},
		{"date", ColumnValue{Kind: KindDate, Date: Date{Year: 2026, Month: 7, Day: 31}}, Date{Year: 2026, Month: 7, Day: 31}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cv.As(1)
			if err != nil {
				t.Fatalf("As() error = %v", err)
			}
			switch want := tt.want.(type) {
			case []byte:
				gb, ok := got.([]byte)
				if !ok || string(gb) != string(want) {
					t.Errorf("As() = %v, want %v", got, want)
				}
			default:
				if got != tt.want {
					t.Errorf("As() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestColumnValue_As_UnrecognizedKind(t *testing.T) {
	cv := ColumnValue{Kind: ColumnKind(999)}
	if _, err := cv.As(7); err == nil {
		t.Errorf("As() on unrecognized kind: want error, got nil")
	}
}

func TestColumnValue_As_Lob(t *testing.T) {
	l := &Lob{isClob: true}
	cv := ColumnValue{Kind: KindCLOB, Lob: l}
	got, err := cv.As(1)
	if err != nil {
		t.Fatalf("As() error = %v", err)
	}
	if got != interface{}(l) {
		t.Errorf("As() = %v, want %v", got, l)
	}
}
