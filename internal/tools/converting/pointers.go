package converting

// UnwrapOr returns fallback when x is nil.
func UnwrapOr[T any](x *T, fallback T) T {
	if x == nil {
		return fallback
	}

	return *x
}

func PointerToValue[T any](v T) *T {
	return &v
}
