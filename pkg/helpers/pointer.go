package helpers

// Ptr returns a pointer to a copy of val.
func Ptr[T any](val T) *T {
	return &val
}

// ValueOr dereferences val, returning fallback for nil. Request DTOs use
// pointer fields so that "absent" and "zero" stay distinguishable.
func ValueOr[T any](val *T, fallback T) T {
	if val == nil {
		return fallback
	}
	return *val
}
