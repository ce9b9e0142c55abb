package emath

// Some functions that only operate on basic types, that are useful

func Clamp01(f float64) float64 {
	if f < 0.0 { return 0.0 }
	if f > 1.0 { return 1.0 }
	return f
}

func ClampU8(n int) uint8 {
	if n < 0 { return 0 }
	if n > 255 { return 255 }
	return uint8(n)
}
