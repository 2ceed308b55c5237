// Copyright 2020 Aleksandr Demakin. All rights reserved.

package qformat

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	mu "github.com/avdva/qformat/internal/mathutil"
)

var (
	jsonParts = []string{`{"m":`, `,"n":`, `,"q":"`, `"}`}
)

// Value is a q number together with its format.
// It is immutable unless one of the *Assign methods is called.
// Combining values of different formats panics with ErrFormatMismatch.
type Value struct {
	f Format
	q uint64
}

// New returns v encoded in the format f.
func New(f Format, v float64) Value {
	return Value{f: f, q: f.quantize(v)}
}

// Zero returns a zero value of the format f.
func Zero(f Format) Value {
	return Value{f: f}
}

// FromBits returns a value for a q number in the format f.
func FromBits(f Format, q string) (Value, error) {
	bits, err := f.parse(q)
	if err != nil {
		return Value{}, err
	}
	return Value{f: f, q: bits}, nil
}

// MustFromBits is like FromBits, but panics on error.
func MustFromBits(f Format, q string) Value {
	v, err := FromBits(f, q)
	if err != nil {
		panic(err)
	}
	return v
}

// Format returns v's format.
func (v Value) Format() Format {
	return v.f
}

// Bits returns the canonical q number.
func (v Value) Bits() string {
	return v.f.format(v.q)
}

// String returns the canonical q number.
func (v Value) String() string {
	return v.Bits()
}

// Pretty returns the q number with a delimiter, like "01.0010".
func (v Value) Pretty() string {
	return v.f.pretty(v.Bits())
}

// GoString returns debug string representation.
func (v Value) GoString() string {
	return v.Pretty() + fmt.Sprintf(" {%v, %v}", v.f, v.Float64())
}

// Float64 returns the decoded value.
func (v Value) Float64() float64 {
	return v.f.decode(v.q)
}

// IsZero returns true, if v is zero.
func (v Value) IsZero() bool {
	return v.q == 0
}

// Eq returns true, if both values have the same format and bits.
func (v Value) Eq(other Value) bool {
	return v.f == other.f && v.q == other.q
}

// Cmp compares two values by the numbers they represent.
// Returns -1 if a < b, 0 if a == b, 1 if a > b
func (v Value) Cmp(other Value) int {
	v.mustMatch(other)
	width := v.f.NumBits()
	a, b := mu.SignExtend(v.q, width), mu.SignExtend(other.q, width)
	return mu.Int64Sign(a - b)
}

// Add returns a+b.
func (v Value) Add(other Value) Value {
	v.mustMatch(other)
	return Value{f: v.f, q: v.f.add(v.q, other.q)}
}

// Sub returns a-b.
func (v Value) Sub(other Value) Value {
	v.mustMatch(other)
	return Value{f: v.f, q: v.f.sub(v.q, other.q)}
}

// Mul returns a*b.
func (v Value) Mul(other Value) Value {
	v.mustMatch(other)
	return Value{f: v.f, q: v.f.mult(v.q, other.q)}
}

// Pow returns a^k. If k < 1, Pow panics.
func (v Value) Pow(k int) Value {
	if k < 1 {
		panic(ErrInvalidExponent)
	}
	return Value{f: v.f, q: v.f.pow(v.q, k)}
}

// AddAssign sets v to v+other.
func (v *Value) AddAssign(other Value) {
	*v = v.Add(other)
}

// SubAssign sets v to v-other.
func (v *Value) SubAssign(other Value) {
	*v = v.Sub(other)
}

// MulAssign sets v to v*other.
func (v *Value) MulAssign(other Value) {
	*v = v.Mul(other)
}

// PowAssign sets v to v^k.
func (v *Value) PowAssign(k int) {
	*v = v.Pow(k)
}

func (v Value) mustMatch(other Value) {
	if v.f != other.f {
		panic(formatMismatch(v.f, other.f))
	}
}

// MarshalText returns the q number with a delimiter, like "01.0010".
func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.Pretty()), nil
}

// MarshalJSON marshals value as `{"m":1,"n":4,"q":"010010"}`.
func (v Value) MarshalJSON() ([]byte, error) {
	var builder strings.Builder
	builder.WriteString(jsonParts[0])
	builder.WriteString(strconv.Itoa(v.f.m))
	builder.WriteString(jsonParts[1])
	builder.WriteString(strconv.Itoa(v.f.n))
	builder.WriteString(jsonParts[2])
	builder.WriteString(v.Bits())
	builder.WriteString(jsonParts[3])
	return []byte(builder.String()), nil
}

// UnmarshalJSON unmarshals an object produced by MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	d := struct {
		M, N int
		Q    string
	}{}
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	f, err := NewFormat(d.M, d.N)
	if err != nil {
		return err
	}
	value, err := FromBits(f, d.Q)
	if err != nil {
		return err
	}
	*v = value
	return nil
}
