// Copyright 2020 Aleksandr Demakin. All rights reserved.

package qformat

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQNumber is matched by errors.Is for every *InvalidQNumberError.
	ErrInvalidQNumber = errors.New("invalid q number")
	// ErrMalformedInput is matched by errors.Is for every *MalformedInputError.
	ErrMalformedInput = errors.New("malformed input")
	// ErrInvalidFormat is returned for unsupported (m, n) pairs.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrFormatMismatch is returned or panicked with when operands have different formats.
	ErrFormatMismatch = errors.New("format mismatch")
	// ErrInvalidExponent is returned by Pow for exponents below 1.
	ErrInvalidExponent = errors.New("exponent must be positive")
)

// InvalidQNumberError is returned when a bit sequence has the wrong length for its format.
type InvalidQNumberError struct {
	Q       string
	NumBits int
}

func (e *InvalidQNumberError) Error() string {
	return fmt.Sprintf("q number %q has %d bits, format allows %d", e.Q, len(e.Q), e.NumBits)
}

// Is makes errors.Is(err, ErrInvalidQNumber) work.
func (e *InvalidQNumberError) Is(target error) bool {
	return target == ErrInvalidQNumber
}

// MalformedInputError is returned when a sequence contains something other than '0' and '1'.
type MalformedInputError struct {
	Q   string
	Pos int
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("q number %q: unexpected symbol %q at pos %d", e.Q, e.Q[e.Pos], e.Pos+1)
}

// Is makes errors.Is(err, ErrMalformedInput) work.
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

func formatMismatch(f1, f2 Format) error {
	return fmt.Errorf("%w: %s and %s", ErrFormatMismatch, f1, f2)
}
