package gds

import (
	"encoding/binary"
	"math"
)

// appendReal8 appends v in the GDSII 8-byte real format: a sign bit, a 7-bit
// excess-64 base-16 exponent, and a 56-bit mantissa, so that
// v = ±mantissa/2^56 * 16^(exponent-64).
func appendReal8(dst []byte, v float64) []byte {
	if v == 0 {
		return append(dst, 0, 0, 0, 0, 0, 0, 0, 0)
	}

	sign := byte(0)
	abs := v
	if v < 0 {
		sign = 0x80
		abs = -v
	}

	// Normalize the mantissa into [1/16, 1).
	exp := 0
	for abs >= 1 {
		abs /= 16
		exp++
	}
	for abs < 1.0/16 {
		abs *= 16
		exp--
	}

	mant := uint64(abs * (1 << 56))
	if mant >= 1<<56 {
		// Rounding pushed the mantissa out of range.
		mant >>= 4
		exp++
	}

	var q [8]byte
	binary.BigEndian.PutUint64(q[:], mant)
	dst = append(dst, sign|byte(exp+64))
	return append(dst, q[1:]...)
}

// real8ToFloat decodes an 8-byte GDSII real.
func real8ToFloat(b []byte) float64 {
	if len(b) != 8 {
		return 0
	}
	exp := int(b[0]&0x7F) - 64
	var q [8]byte
	copy(q[1:], b[1:])
	mant := binary.BigEndian.Uint64(q[:])
	if mant == 0 {
		return 0
	}
	v := float64(mant) / (1 << 56) * math.Pow(16, float64(exp))
	if b[0]&0x80 != 0 {
		return -v
	}
	return v
}
