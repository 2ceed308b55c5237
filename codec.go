// Copyright 2020 Aleksandr Demakin. All rights reserved.

package qformat

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"

	mu "github.com/avdva/qformat/internal/mathutil"
)

// Encode converts v into a q number of this format.
// The fraction is truncated towards zero, values out of range saturate,
// NaN is encoded as zero.
func (f Format) Encode(v float64) string {
	return f.format(f.quantize(v))
}

// Decode converts a q number into a float64.
func (f Format) Decode(q string) (float64, error) {
	bits, err := f.parse(q)
	if err != nil {
		return 0, err
	}
	return f.decode(bits), nil
}

// Saturate clamps an over-long q number to the format's boundaries:
// Min() if its sign bit is set, Max() otherwise.
// Numbers of the correct length are returned as is, shorter ones are invalid.
func (f Format) Saturate(q string) (string, error) {
	if len(q) <= f.NumBits() {
		if err := f.Validate(q); err != nil {
			return "", err
		}
		return q, nil
	}
	if err := checkAlphabet(q); err != nil {
		return "", err
	}
	if q[0] == '1' {
		return f.format(f.minBits()), nil
	}
	return f.format(f.maxBits()), nil
}

// quantize encodes and saturates v.
func (f Format) quantize(v float64) uint64 {
	return f.saturate(f.encode(v))
}

// saturate resolves an overflowed pattern, which only carries the sign bit.
func (f Format) saturate(q uint64, ovf bool) uint64 {
	if !ovf {
		return q
	}
	if q&f.signBit() != 0 {
		return f.minBits()
	}
	return f.maxBits()
}

// encode returns the bit pattern for v.
// ovf is true, if the integer part of |v| needs more than m bits.
func (f Format) encode(v float64) (q uint64, ovf bool) {
	if math.IsNaN(v) {
		return 0, false
	}
	neg := v < 0
	mag := math.Abs(v)
	integ := math.Floor(mag)
	if integ >= mu.Pow2(f.m) {
		return f.overflow(neg), true
	}
	frac := mag - integ
	var fb uint64
	var acc float64
	for k := 1; k <= f.n; k++ {
		fb <<= 1
		if next := acc + mu.Pow2(-k); next <= frac {
			acc = next
			fb |= 1
		}
	}
	q = uint64(integ)<<uint(f.n) | fb
	if !neg {
		return q, false
	}
	q = f.negate(q)
	// the negation can carry into the sign bit for |v| < 2^-n.
	if -f.decode(q) > mag {
		return 0, false
	}
	return q, false
}

func (f Format) overflow(neg bool) uint64 {
	if neg {
		return f.signBit()
	}
	return 0
}

// negate turns an m+n bits magnitude into a negative number:
// the magnitude is inverted, incremented, and prefixed with the sign bit.
func (f Format) negate(mag uint64) uint64 {
	magMask := f.maxBits()
	return (f.signBit() | (^mag&magMask + 1)) & f.mask()
}

// decode converts a bit pattern into a float64.
// For negative numbers the integer bits are inverted and negated,
// while the fraction bits are taken as is and offset by -1.
func (f Format) decode(q uint64) float64 {
	integ := q >> uint(f.n) & mu.Mask(f.m)
	frac := math.Ldexp(float64(q&mu.Mask(f.n)), -f.n)
	if q&f.signBit() == 0 {
		return float64(integ) + frac
	}
	integ = ^integ & mu.Mask(f.m)
	return -float64(integ) + (frac - 1)
}

// exact returns the value of q as a decimal without any rounding.
// q / 2^n == q * 5^n / 10^n.
func (f Format) exact(q uint64) decimal.Decimal {
	s := big.NewInt(mu.SignExtend(q, f.NumBits()))
	return decimal.NewFromBigInt(s.Mul(s, mu.Pow5(f.n)), -int32(f.n))
}

// encodeExact is encode for a decimal value.
// The greedy fraction expansion of an exact value is floor(|v| * 2^n).
func (f Format) encodeExact(v decimal.Decimal) (q uint64, ovf bool) {
	neg := v.Sign() < 0
	mag := v.Abs()
	if mag.Cmp(decimal.New(int64(1)<<uint(f.m), 0)) >= 0 {
		return f.overflow(neg), true
	}
	scaled := mag.Mul(decimal.New(int64(1)<<uint(f.n), 0)).Floor()
	q = uint64(scaled.IntPart())
	if !neg {
		return q, false
	}
	q = f.negate(q)
	if f.exact(q).Abs().GreaterThan(mag) {
		return 0, false
	}
	return q, false
}
