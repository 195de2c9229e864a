package fabric

import (
	"context"

	"github.com/vectorlane/fftaccel/scalar"
)

// PEAFFT binds an InputRing, a MultiStagePipeline, and an OutputRing into
// the complete compute fabric, mirroring original_source's pea_fft.h
// top-level module that instantiates and wires these three blocks.
type PEAFFT struct {
	NHw int

	In       *InputRing
	Pipeline *MultiStagePipeline
	Out      *OutputRing
}

// NewPEAFFT builds a fabric sized for nHw lanes with the given per-FIFO
// depth.
func NewPEAFFT(nHw, fifoDepth int) *PEAFFT {
	return &PEAFFT{
		NHw:      nHw,
		In:       NewInputRing(nHw, fifoDepth),
		Pipeline: NewMultiStagePipeline(nHw),
		Out:      NewOutputRing(nHw, fifoDepth),
	}
}

// Reset clears both rings and invalidates every PE's twiddle register.
// Twiddles are write-once per configuration while that configuration
// stays latched (spec.md §4.2), but Reset ends that lifetime: the next
// Configure+LoadTwiddles pair must run before Start can produce a
// trustworthy result again.
func (f *PEAFFT) Reset() {
	f.In.Reset()
	f.Out.Reset()
	f.Pipeline.Reset()
}

// WriteLane routes one complex input sample into the input ring.
func (f *PEAFFT) WriteLane(i int, c scalar.Complex) error {
	return f.In.WriteLane(i, c)
}

// Execute drains the input ring, drives the pipeline once, and commits the
// result into the output ring. It reports whether the input ring held a
// complete frame.
func (f *PEAFFT) Execute(ctx context.Context) (bool, error) {
	a, b, ok := f.In.ReadPair()
	if !ok {
		return false, nil
	}
	y0, y1, err := f.Pipeline.Run(ctx, a, b)
	if err != nil {
		return false, err
	}
	if err := f.Out.WritePair(y0, y1); err != nil {
		return false, err
	}
	return true, nil
}

// ReadOutput drains nReal complex samples from the output ring.
func (f *PEAFFT) ReadOutput(nReal int) ([]scalar.Complex, bool) {
	return f.Out.ReadOutput(nReal)
}
