// Copyright 2020 Aleksandr Demakin. All rights reserved.

package qformat

import (
	"context"
	"runtime"

	"golang.org/x/exp/constraints"
	"golang.org/x/sync/errgroup"
)

// EncodeSlice encodes every element of xs.
func EncodeSlice[T constraints.Float](f Format, xs []T) []Value {
	result := make([]Value, len(xs))
	for i, x := range xs {
		result[i] = New(f, float64(x))
	}
	return result
}

// DecodeSlice decodes every element of vs.
func DecodeSlice[T constraints.Float](vs []Value) []T {
	result := make([]T, len(vs))
	for i, v := range vs {
		result[i] = T(v.Float64())
	}
	return result
}

// EncodeRows encodes a matrix, like a set of images, row by row.
// Rows are encoded concurrently, at most GOMAXPROCS at a time.
func EncodeRows[T constraints.Float](ctx context.Context, f Format, rows [][]T) ([][]Value, error) {
	result := make([][]Value, len(rows))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range rows {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result[i] = EncodeSlice(f, rows[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// DecodeRows decodes a matrix produced by EncodeRows.
func DecodeRows[T constraints.Float](rows [][]Value) [][]T {
	result := make([][]T, len(rows))
	for i, row := range rows {
		result[i] = DecodeSlice[T](row)
	}
	return result
}
