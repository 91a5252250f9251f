package util

// BoolToInt maps a flag to the 0/1 SQLite stores for booleans.
func BoolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T {
	return &v
}

// Deref returns *p, or the zero value when p is nil.
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
