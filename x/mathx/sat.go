package mathx

import "golang.org/x/exp/constraints"

// SatInc returns v+1, or v unchanged when v is already the type's maximum.
func SatInc[T constraints.Unsigned](v T) T {
	if v+1 == 0 {
		return v
	}
	return v + 1
}

// SatDec returns v-1, or 0 when v is already 0.
func SatDec[T constraints.Unsigned](v T) T {
	if v == 0 {
		return 0
	}
	return v - 1
}

// Triangle folds phase into a 0..255..0 wave over [0, 512) and returns 0 past it.
func Triangle[T ~uint | ~uint16 | ~uint32 | ~uint64](phase T) uint8 {
	switch {
	case phase < 256:
		return uint8(phase)
	case phase < 512:
		return uint8(511 - phase)
	default:
		return 0
	}
}
