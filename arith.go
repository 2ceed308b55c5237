// Copyright 2020 Aleksandr Demakin. All rights reserved.

package qformat

// Add returns q0 + q1.
// The exact sum is truncated into the format and then, if truncation moved
// a negative result towards zero, corrected downwards by one step,
// so the result never exceeds the exact sum unless it saturated.
func (f Format) Add(q0, q1 string) (string, error) {
	return f.binary(q0, q1, f.add)
}

// Sub returns q0 - q1, computed as q0 + (-q1).
func (f Format) Sub(q0, q1 string) (string, error) {
	return f.binary(q0, q1, f.sub)
}

// Mult returns q0 * q1, with the same downward correction as Add.
func (f Format) Mult(q0, q1 string) (string, error) {
	return f.binary(q0, q1, f.mult)
}

// Pow returns q^k for k >= 1.
func (f Format) Pow(q string, k int) (string, error) {
	if k < 1 {
		return "", ErrInvalidExponent
	}
	bits, err := f.parse(q)
	if err != nil {
		return "", err
	}
	return f.format(f.pow(bits, k)), nil
}

func (f Format) binary(q0, q1 string, op func(q0, q1 uint64) uint64) (string, error) {
	b0, err := f.parse(q0)
	if err != nil {
		return "", err
	}
	b1, err := f.parse(q1)
	if err != nil {
		return "", err
	}
	return f.format(op(b0, b1)), nil
}

func (f Format) add(q0, q1 uint64) uint64 {
	val := f.exact(q0).Add(f.exact(q1))
	q := f.saturate(f.encodeExact(val))
	// adding all ones subtracts a single step.
	// the minimum can't go any lower, so the correction stops there.
	if q != f.minBits() && f.exact(q).GreaterThan(val) {
		q = f.add(q, f.mask())
	}
	return q
}

func (f Format) mult(q0, q1 uint64) uint64 {
	val := f.exact(q0).Mul(f.exact(q1))
	q := f.saturate(f.encodeExact(val))
	if f.exact(q).GreaterThan(val) {
		return f.add(q, f.mask())
	}
	return q
}

func (f Format) sub(q0, q1 uint64) uint64 {
	return f.add(q0, f.quantize(-f.decode(q1)))
}

// pow multiplies the original q by the running result k-1 times,
// re-encoding the product after every step.
func (f Format) pow(q uint64, k int) uint64 {
	val := f.quantize(f.decode(q))
	for i := 1; i < k; i++ {
		val = f.quantize(f.decode(f.mult(q, val)))
	}
	return val
}
