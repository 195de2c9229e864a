// Package driver implements the host-side sequencer for the FFT compute
// fabric: memory-mapped regions, deterministic frame generators, the O(N²)
// reference DFT used as ground truth, 2D (Cooley-Tukey) decomposition for
// transforms larger than the fabric's native size, and the frame lifecycle
// that ties generation, movement, compute, and verification together.
// Grounded on the teacher's region/config split (emu/region.go,
// emu/emulator.go's EmulatorBase) generalized from Sega hardware timing
// to the FFT accelerator's cost model.
package driver

import "github.com/vectorlane/fftaccel/fabric"

// HardwareConfig describes one instantiation of the fabric: its native
// lane count and per-FIFO depth.
type HardwareConfig struct {
	NHw       int
	FIFODepth int
}

// DefaultHardwareConfig returns the nominal N_hw=16 fabric spec.md's
// worked scenarios assume.
func DefaultHardwareConfig() HardwareConfig {
	return HardwareConfig{NHw: 16, FIFODepth: 16}
}

// NewWrapper builds a command wrapper for this hardware configuration
// using the nominal cost model.
func (hc HardwareConfig) NewWrapper() *fabric.Wrapper {
	return fabric.NewWrapper(hc.NHw, hc.FIFODepth, fabric.DefaultCostModel())
}
