// Package ptr includes functions for creating pointers from values.
package ptr

func String(x string) *string {
	return &x
}

func Float64(x float64) *float64 {
	return &x
}

// T returns a pointer to x.
func T[T any](x T) *T {
	return &x
}
