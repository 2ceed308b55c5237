// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Command qcompare measures how far the q-format emulation of the
// competitive-learning kernel drifts from float64, and converts single
// numbers to and from q-format.
//
//	qcompare -m 1 -n 11 -iters 100
//	qcompare -m 1 -n 4 -encode -1.25
//	qcompare -m 1 -n 4 -decode 101100
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/avdva/qformat"
	"github.com/avdva/qformat/precision"
)

func main() {
	def := precision.DefaultConfig()
	m := flag.Int("m", def.M, "number of integer bits")
	n := flag.Int("n", def.N, "number of fractional bits")
	lr := flag.Float64("lr", def.LearningRate, "learning rate")
	scale := flag.Float64("scale", def.Scale, "distance scale")
	inputs := flag.Int("inputs", def.Inputs, "inputs per iteration")
	iters := flag.Int("iters", def.Iterations, "number of iterations")
	seed := flag.Int64("seed", def.Seed, "random seed")
	encode := flag.String("encode", "", "encode a number and exit")
	decode := flag.String("decode", "", "decode a q number and exit")
	verbose := flag.Bool("v", false, "log every iteration")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(os.Stdout, logger, *m, *n, *encode, *decode, precision.Config{
		M:            *m,
		N:            *n,
		LearningRate: *lr,
		Scale:        *scale,
		Inputs:       *inputs,
		Iterations:   *iters,
		Seed:         *seed,
		Logger:       logger,
	}); err != nil {
		logger.Error("qcompare failed", "err", err)
		os.Exit(1)
	}
}

func run(w io.Writer, logger *slog.Logger, m, n int, encode, decode string, cfg precision.Config) error {
	f, err := qformat.NewFormat(m, n)
	if err != nil {
		return err
	}
	switch {
	case encode != "":
		var v float64
		if _, err := fmt.Sscan(encode, &v); err != nil {
			return fmt.Errorf("bad number %q: %w", encode, err)
		}
		q := qformat.New(f, v)
		fmt.Fprintf(w, "%v -> %s\n", v, q.Pretty())
		return nil
	case decode != "":
		v, err := f.Decode(decode)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s -> %v\n", decode, v)
		return nil
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	logger.Info("starting comparison", "format", f.String(), "iterations", cfg.Iterations, "inputs", cfg.Inputs)
	report, err := precision.Compare(ctx, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, report)
	return nil
}
