// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Package qformat emulates signed Q-format fixed-point numbers the way a
// hardware ALU computes them: a sign bit, m integer bits and n fractional bits,
// truncating encodes, and saturating arithmetic biased towards negative infinity.
//
// The canonical form of a number is a string of m+n+1 '0' and '1' characters,
// sign bit first. For example, with m = 1 and n = 4, 1.125 is "010010"
// and -1.25 is "101100".
package qformat

import (
	"fmt"
	"strconv"
	"strings"

	mu "github.com/avdva/qformat/internal/mathutil"
)

const (
	// MaxBits is the maximum width of a format, including the sign bit.
	// Every value of such a format is exactly representable as a float64.
	MaxBits = 53

	delim = '.'

	// 64 zeros, enough to pad any pattern.
	manyZeros = "0000000000000000000000000000000000000000000000000000000000000000"
)

// Format describes a Q-format with m integer bits and n fractional bits.
// The zero Format is Q0.0, a single sign bit.
type Format struct {
	m, n int
}

// NewFormat returns a format with m integer and n fractional bits.
// Returns an error if m or n are negative, or m+n+1 exceeds MaxBits.
func NewFormat(m, n int) (Format, error) {
	if m < 0 || n < 0 || m+n+1 > MaxBits {
		return Format{}, fmt.Errorf("%w: m = %d, n = %d", ErrInvalidFormat, m, n)
	}
	return Format{m: m, n: n}, nil
}

// MustFormat is like NewFormat, but panics on error.
func MustFormat(m, n int) Format {
	f, err := NewFormat(m, n)
	if err != nil {
		panic(err)
	}
	return f
}

// M returns the number of integer bits.
func (f Format) M() int { return f.m }

// N returns the number of fractional bits.
func (f Format) N() int { return f.n }

// NumBits returns m+n+1.
func (f Format) NumBits() int { return f.m + f.n + 1 }

// Step returns the value of the least significant bit, 2^-n.
func (f Format) Step() float64 { return mu.Pow2(-f.n) }

// Max returns the largest representable value, 2^m - 2^-n.
func (f Format) Max() float64 { return f.decode(f.maxBits()) }

// Min returns the smallest representable value, -2^m.
func (f Format) Min() float64 { return f.decode(f.minBits()) }

// String returns format's name, like "Q1.4".
func (f Format) String() string {
	return "Q" + strconv.Itoa(f.m) + "." + strconv.Itoa(f.n)
}

func (f Format) signBit() uint64 { return 1 << uint(f.m+f.n) }

func (f Format) mask() uint64 { return mu.Mask(f.NumBits()) }

// maxBits is '0' followed by m+n ones.
func (f Format) maxBits() uint64 { return f.signBit() - 1 }

// minBits is '1' followed by m+n zeros.
func (f Format) minBits() uint64 { return f.signBit() }

// Validate checks that q is a q number of this format.
// Returns *InvalidQNumberError if the length is wrong,
// and *MalformedInputError if q contains symbols other than '0' and '1'.
func (f Format) Validate(q string) error {
	if len(q) != f.NumBits() {
		return &InvalidQNumberError{Q: q, NumBits: f.NumBits()}
	}
	return checkAlphabet(q)
}

func checkAlphabet(q string) error {
	for i := 0; i < len(q); i++ {
		if c := q[i]; c != '0' && c != '1' {
			return &MalformedInputError{Q: q, Pos: i}
		}
	}
	return nil
}

// Pretty returns q with a delimiter inserted after the sign and integer bits.
// For a Q1.4 number "010010" it returns "01.0010".
func (f Format) Pretty(q string) (string, error) {
	if err := f.Validate(q); err != nil {
		return "", err
	}
	return f.pretty(q), nil
}

func (f Format) pretty(q string) string {
	var builder strings.Builder
	builder.Grow(len(q) + 1)
	builder.WriteString(q[:f.m+1])
	builder.WriteByte(delim)
	builder.WriteString(q[f.m+1:])
	return builder.String()
}

// parse converts a validated string into a bit pattern.
func (f Format) parse(q string) (uint64, error) {
	if err := f.Validate(q); err != nil {
		return 0, err
	}
	var bits uint64
	for i := 0; i < len(q); i++ {
		bits = bits<<1 | uint64(q[i]-'0')
	}
	return bits, nil
}

// format renders the lowest NumBits bits of q.
func (f Format) format(q uint64) string {
	s := strconv.FormatUint(q&f.mask(), 2)
	if diff := f.NumBits() - len(s); diff > 0 {
		return manyZeros[:diff] + s
	}
	return s
}
