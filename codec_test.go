// Copyright 2020 Aleksandr Demakin. All rights reserved.

package qformat

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mu "github.com/avdva/qformat/internal/mathutil"
)

func TestEncode(t *testing.T) {
	a := assert.New(t)
	q14 := MustFormat(1, 4)
	tests := []struct {
		f Format
		v float64
		q string
	}{
		{q14, 0, "000000"},
		{q14, math.Copysign(0, -1), "000000"},
		{q14, 1.125, "010010"},
		{q14, -1.25, "101100"},
		{q14, -0.6875, "110101"},
		{q14, 0.0625, "000001"},
		{q14, -0.0625, "111111"},
		{q14, 1.3, "010100"},
		{q14, -1.3, "101100"},
		{q14, 1.96875, "011111"},
		{q14, -1.99, "100001"},
		{q14, 0.03, "000000"},
		{q14, -0.01, "000000"},
		{q14, -0.0624, "000000"},

		// saturation
		{q14, 2, "011111"},
		{q14, 5, "011111"},
		{q14, -2, "100000"},
		{q14, -2.5, "100000"},
		{q14, -9, "100000"},
		{q14, math.Inf(1), "011111"},
		{q14, math.Inf(-1), "100000"},
		{q14, math.NaN(), "000000"},

		{MustFormat(0, 0), 0.5, "0"},
		{MustFormat(0, 0), -0.5, "0"},
		{MustFormat(0, 0), -1, "1"},
		{MustFormat(0, 0), 3, "0"},
		{MustFormat(0, 3), -1, "1000"},
		{MustFormat(0, 3), 0.875, "0111"},
		{MustFormat(3, 0), -3.5, "1101"},
		{MustFormat(3, 0), 7.9, "0111"},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			a.Equal(test.q, test.f.Encode(test.v))
		})
	}
}

func TestDecode(t *testing.T) {
	a := assert.New(t)
	q14 := MustFormat(1, 4)
	tests := []struct {
		f   Format
		q   string
		v   float64
		err error
	}{
		{q14, "000000", 0, nil},
		{q14, "010010", 1.125, nil},
		{q14, "101100", -1.25, nil},
		{q14, "110101", -0.6875, nil},
		{q14, "111111", -0.0625, nil},
		{q14, "100000", -2, nil},
		{q14, "100001", -1.9375, nil},
		{q14, "011111", 1.9375, nil},
		{MustFormat(0, 0), "1", -1, nil},
		{MustFormat(0, 0), "0", 0, nil},
		{MustFormat(3, 0), "1101", -3, nil},

		{q14, "01001", 0, ErrInvalidQNumber},
		{q14, "0100100", 0, ErrInvalidQNumber},
		{q14, "", 0, ErrInvalidQNumber},
		{q14, "0100a0", 0, ErrMalformedInput},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			v, err := test.f.Decode(test.q)
			if test.err != nil {
				a.True(errors.Is(err, test.err))
				return
			}
			if a.NoError(err) {
				a.Equal(test.v, v)
			}
		})
	}
}

func TestSaturate(t *testing.T) {
	a := assert.New(t)
	f := MustFormat(1, 4)
	tests := []struct {
		q, res string
		err    error
	}{
		{"0111111", "011111", nil},
		{"0000000000", "011111", nil},
		{"1000000", "100000", nil},
		{"11111111", "100000", nil},
		{"101100", "101100", nil},
		{"10110", "", ErrInvalidQNumber},
		{"1x00000", "", ErrMalformedInput},
		{"10110x", "", ErrMalformedInput},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			res, err := f.Saturate(test.q)
			if test.err != nil {
				a.True(errors.Is(err, test.err))
				return
			}
			if a.NoError(err) {
				a.Equal(test.res, res)
				a.Len(res, f.NumBits())
			}
		})
	}
	minV, err := f.Decode("100000")
	require.NoError(t, err)
	a.Equal(f.Min(), minV)
}

func TestRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for _, f := range []Format{MustFormat(1, 4), MustFormat(1, 11), MustFormat(3, 12), MustFormat(8, 20), MustFormat(0, 52)} {
		t.Run(f.String(), func(t *testing.T) {
			a := assert.New(t)
			for i := 0; i < 2000; i++ {
				x := f.Min() + rnd.Float64()*(f.Max()-f.Min())
				q := f.Encode(x)
				a.Len(q, f.NumBits())
				v, err := f.Decode(q)
				if !a.NoError(err) {
					return
				}
				// truncation is towards zero.
				a.LessOrEqual(math.Abs(v), math.Abs(x), "x = %v, q = %s", x, q)
				a.Less(math.Abs(x)-math.Abs(v), f.Step(), "x = %v, q = %s", x, q)
				a.False(v != 0 && math.Signbit(v) != math.Signbit(x), "x = %v, q = %s", x, q)
			}
		})
	}
}

func TestRoundTripBoundaries(t *testing.T) {
	a := assert.New(t)
	f := MustFormat(1, 4)
	for _, x := range []float64{f.Min(), f.Max(), -f.Step(), f.Step(), 0} {
		v, err := f.Decode(f.Encode(x))
		if a.NoError(err) {
			a.Equal(x, v)
		}
	}
}

func TestReencodeIsIdentity(t *testing.T) {
	a := assert.New(t)
	f := MustFormat(2, 5)
	for q := uint64(0); q <= f.mask(); q++ {
		a.Equal(q, f.quantize(f.decode(q)), "q = %s", f.format(q))
	}
}

func TestExactMatchesDecode(t *testing.T) {
	a := assert.New(t)
	rnd := rand.New(rand.NewSource(7))
	for _, f := range []Format{MustFormat(0, 0), MustFormat(1, 4), MustFormat(3, 12), MustFormat(20, 32)} {
		for i := 0; i < 500; i++ {
			q := rnd.Uint64() & f.mask()
			v, _ := f.exact(q).Float64()
			a.Equal(f.decode(q), v, "%s: q = %s", f, f.format(q))
		}
	}
}

func TestEncodeExactMatchesEncode(t *testing.T) {
	a := assert.New(t)
	const fracBits = 20
	rnd := rand.New(rand.NewSource(11))
	scale := decimal.NewFromBigInt(mu.Pow5(fracBits), -fracBits)
	for _, f := range []Format{MustFormat(1, 4), MustFormat(1, 11), MustFormat(4, 8)} {
		for i := 0; i < 2000; i++ {
			k := rnd.Int63n(1<<(fracBits+f.M()+2)) - 1<<(fracBits+f.M()+1)
			x := math.Ldexp(float64(k), -fracBits)
			d := decimal.New(k, 0).Mul(scale)
			q1, ovf1 := f.encode(x)
			q2, ovf2 := f.encodeExact(d)
			a.Equal(ovf1, ovf2, "%s: x = %v", f, x)
			a.Equal(q1, q2, "%s: x = %v", f, x)
		}
	}
}

func BenchmarkEncode(b *testing.B) {
	f := MustFormat(1, 11)
	var dummy uint64
	for i := 0; i < b.N; i++ {
		dummy += f.quantize(-0.6875)
	}
	b.ReportMetric(float64(dummy), "dummy_metric")
}

func BenchmarkDecode(b *testing.B) {
	f := MustFormat(1, 11)
	var dummy float64
	for i := 0; i < b.N; i++ {
		dummy += f.decode(uint64(i) & f.mask())
	}
	b.ReportMetric(dummy, "dummy_metric")
}
