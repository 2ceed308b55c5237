// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Package mathutil contains binary helpers shared by the q-format codec.
package mathutil

import (
	"math"
	"math/big"
)

var (
	// pow5Table caches 5^k for every fractional width a format can have.
	pow5Table = func() [64]*big.Int {
		var t [64]*big.Int
		five := big.NewInt(5)
		t[0] = big.NewInt(1)
		for i := 1; i < len(t); i++ {
			t[i] = new(big.Int).Mul(t[i-1], five)
		}
		return t
	}()
)

// Pow2 returns 2^e.
func Pow2(e int) float64 {
	return math.Ldexp(1, e)
}

// Pow5 returns 5^e. The result must not be modified.
// Returns nil for e out of [0, 63].
func Pow5(e int) *big.Int {
	if e < 0 || e >= len(pow5Table) {
		return nil
	}
	return pow5Table[e]
}

// Mask returns a mask with the lowest 'width' bits set.
func Mask(width int) uint64 {
	if width >= 64 {
		return math.MaxUint64
	}
	if width <= 0 {
		return 0
	}
	return 1<<uint(width) - 1
}

// SignExtend interprets the lowest 'width' bits of v as a two's complement number.
func SignExtend(v uint64, width int) int64 {
	if width <= 0 || width >= 64 {
		return int64(v)
	}
	shift := uint(64 - width)
	return int64(v<<shift) >> shift
}

// Int64Sign returns -1, 0 or 1.
func Int64Sign(v int64) int {
	if v == 0 {
		return 0
	}
	return [...]int{1, -1}[uint64(v)>>63]
}
