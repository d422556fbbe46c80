package ora

// ColumnValue is a fetched cell, tagged by Kind (spec.md §3 Column
// Value). Exactly one of the typed fields matching Kind is
// meaningful; the rest are zero. This is the idiomatic Go rendition
// of a sum type — a discriminated struct, not an interface{}, so a
// caller that already knows the expected Kind pays no type-assertion
// cost and the zero value (KindNull) is always well-formed.
type ColumnValue struct {
	Kind ColumnKind

	Text   string
	Binary []byte
	Number Number
	Date   Date
	Float  float32
	Double float64
	RowID  RowID

	Lob   *Lob
	BFile *BFile

	Timestamp    *Timestamp
	TimestampTZ  *TimestampTZ
	TimestampLTZ *TimestampLTZ
	IntervalYM   IntervalYM
	IntervalDS   IntervalDS

	Cursor *Cursor
}

// As converts the ColumnValue to a generic interface{} carrying its
// most natural Go representation, the table Get[T] type-asserts
// against (spec.md §4.G conversion table). pos is used only for error
// messages.
func (cv ColumnValue) As(pos int) (interface{}, error) {
	switch cv.Kind {
	case KindNull:
		return nil, nil
	case KindText:
		return cv.Text, nil
	case KindBinary:
		return cv.Binary, nil
	case KindNumber:
		return cv.Number, nil
	case KindDate:
		return cv.Date, nil
	case KindFloat:
		return cv.Float, nil
	case KindDouble:
		return cv.Double, nil
	case KindRowID:
		return cv.RowID, nil
	case KindCLOB, KindBLOB:
		return cv.Lob, nil
	case KindBFile:
		return cv.BFile, nil
	case KindTimestamp:
		return cv.Timestamp, nil
	case KindTimestampTZ:
		return cv.TimestampTZ, nil
	case KindTimestampLTZ:
		return cv.TimestampLTZ, nil
	case KindIntervalYM:
		return cv.IntervalYM, nil
	case KindIntervalDS:
		return cv.IntervalDS, nil
	case KindCursor:
		return cv.Cursor, nil
	default:
		return nil, errPrecondition("ora: column %d has unrecognized kind %d", pos, cv.Kind)
	}
}
