package internal

// Pointer - utility function to convert a literal to a pointer. Mostly used to populate optional fields, like
// an assessment's confidence, in tests and fixtures.
func Pointer[T any](v T) *T {
	return &v
}

// DereferenceOr - returns the value behind p, or fallback when p is nil.
func DereferenceOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
