// Package strings provides small string and slice fallbacks used when layering settings
package strings

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// Or returns v unless it is empty, then def
func Or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// OrZero returns v unless it is the zero value, then def
func OrZero[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
