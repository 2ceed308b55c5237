// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Package precision compares the competitive-learning kernel computed with
// q-format numbers against the same kernel computed with float64.
//
// One kernel step over weights w and inputs x is
//
//	o += ((w[i] - x[i]) * scale)^2
//	w[i] += lr * (x[i] - w[i])
//
// which is the distance and weight update of a single competitive-learning unit.
package precision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/avdva/qformat"
)

var (
	// ErrInvalidConfig is returned by Compare for non-positive sizes.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLengthMismatch is returned when weights and inputs have different lengths.
	ErrLengthMismatch = errors.New("weights and inputs lengths differ")
)

// Config defines a comparison run.
type Config struct {
	// M and N define the q-format.
	M, N int
	// LearningRate and Scale are the kernel's constants.
	LearningRate float64
	Scale        float64
	// Inputs is the number of weight/input pairs per iteration.
	Inputs int
	// Iterations is the number of independent random draws.
	Iterations int
	// Seed seeds the random source.
	Seed int64
	// Logger receives progress messages. Nothing is logged if nil.
	Logger *slog.Logger
}

// DefaultConfig returns a Q1.11 configuration with 49 inputs and 100 iterations.
func DefaultConfig() Config {
	return Config{
		M:            1,
		N:            11,
		LearningRate: 0.001,
		Scale:        1. / 7,
		Inputs:       49,
		Iterations:   100,
		Seed:         1,
	}
}

// Report holds the worst errors seen during a run.
type Report struct {
	Format qformat.Format
	// OutputErr is the maximum relative error of o, in percent.
	OutputErr float64
	// Output holds the fixed and float outputs for OutputErr.
	Output [2]float64
	// WeightErr is the maximum relative error of an updated weight, in percent.
	WeightErr float64
	// Weight holds the fixed and float weights for WeightErr.
	Weight [2]float64
	// WeightAbsErr is the maximum absolute error of an updated weight.
	WeightAbsErr float64
}

// String returns a human-readable report.
func (r Report) String() string {
	return fmt.Sprintf("%s: output error %3.2f%% (%v vs. %v), weight update error %3.2f%% (%v vs. %v)",
		r.Format, r.OutputErr, r.Output[0], r.Output[1], r.WeightErr, r.Weight[0], r.Weight[1])
}

// Step runs the kernel over w and x in q-format, updating w in place.
// Returns the accumulated output.
func Step(w, x []qformat.Value, lr, scale qformat.Value) (qformat.Value, error) {
	if len(w) != len(x) {
		return qformat.Value{}, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(w), len(x))
	}
	o := qformat.Zero(lr.Format())
	for i := range w {
		o.AddAssign(w[i].Sub(x[i]).Mul(scale).Pow(2))
		w[i].AddAssign(lr.Mul(x[i].Sub(w[i])))
	}
	return o, nil
}

// StepFloat is Step for float64 numbers.
func StepFloat(w, x []float64, lr, scale float64) (float64, error) {
	if len(w) != len(x) {
		return 0, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(w), len(x))
	}
	var o float64
	for i := range w {
		d := (w[i] - x[i]) * scale
		o += d * d
		w[i] += lr * (x[i] - w[i])
	}
	return o, nil
}

// Compare runs cfg.Iterations random kernel steps in both precisions
// and reports the worst errors.
func Compare(ctx context.Context, cfg Config) (Report, error) {
	f, err := qformat.NewFormat(cfg.M, cfg.N)
	if err != nil {
		return Report{}, err
	}
	if cfg.Inputs < 1 || cfg.Iterations < 1 {
		return Report{}, fmt.Errorf("%w: inputs = %d, iterations = %d", ErrInvalidConfig, cfg.Inputs, cfg.Iterations)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	rnd := rand.New(rand.NewSource(cfg.Seed))
	lr, scale := qformat.New(f, cfg.LearningRate), qformat.New(f, cfg.Scale)
	report := Report{Format: f}
	xRaw, wRaw := make([]float64, cfg.Inputs), make([]float64, cfg.Inputs)
	for it := 0; it < cfg.Iterations; it++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		for i := range xRaw {
			xRaw[i] = uniform(rnd)
		}
		for i := range wRaw {
			wRaw[i] = uniform(rnd)
		}
		x, w := qformat.EncodeSlice(f, xRaw), qformat.EncodeSlice(f, wRaw)
		o, err := Step(w, x, lr, scale)
		if err != nil {
			return report, err
		}
		oRaw, err := StepFloat(wRaw, xRaw, cfg.LearningRate, cfg.Scale)
		if err != nil {
			return report, err
		}
		if pct, ok := relErr(o.Float64(), oRaw); ok && pct > report.OutputErr {
			report.OutputErr = pct
			report.Output = [2]float64{o.Float64(), oRaw}
		}
		for i := range w {
			fixed := w[i].Float64()
			report.WeightAbsErr = math.Max(report.WeightAbsErr, math.Abs(fixed-wRaw[i]))
			if pct, ok := relErr(fixed, wRaw[i]); ok && pct > report.WeightErr {
				report.WeightErr = pct
				report.Weight = [2]float64{fixed, wRaw[i]}
			}
		}
		logger.Debug("iteration done", "iteration", it, "output", o.Float64(), "reference", oRaw)
	}
	logger.Info("comparison done", "format", f.String(), "output_err_pct", report.OutputErr,
		"weight_err_pct", report.WeightErr, "weight_abs_err", report.WeightAbsErr)
	return report, nil
}

func uniform(rnd *rand.Rand) float64 {
	return rnd.Float64()*2 - 1
}

// relErr returns |got-want|/|want| in percent. ok is false for want == 0.
func relErr(got, want float64) (pct float64, ok bool) {
	if want == 0 {
		return 0, false
	}
	return math.Abs(got-want) / math.Abs(want) * 100, true
}
