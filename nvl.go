package ora

// Coalesce retrieves column pos converted to T, substituting fallback
// when the column is NULL rather than erroring (spec.md's NVL-style
// accessor, the Go analog of the original's `nvl` helper).
func Coalesce[T any](row *Row, pos int, fallback T) (T, error) {
	if row.IsNull(pos) {
		return fallback, nil
	}
	return Get[T](row, pos)
}
