// Package fabric implements the FFT compute fabric: the input/output FIFO
// rings, the dual-mode processing elements, the inter-stage shuffle network,
// the multi-stage pipeline that binds them, and the transactional wrapper
// that exposes the whole thing as a command façade. Grounded on
// original_source/src/vcore/FFT_SA/include/{in,out}_buf_vec_fft.h,
// pe_dual.h, fft_shuffle_dyn.h, and pea_fft.h, and on the teacher's flat
// single-package component layout (user-none/emkiii's emu package).
package fabric

import (
	"github.com/vectorlane/fftaccel/fifo"
	"github.com/vectorlane/fftaccel/scalar"
)

// InputRing holds 4*(N_hw/2) FIFOs organised as two lane groups, each split
// into real and imaginary halves, mirroring the DIF first-stage pairing:
// Group0 carries lanes [0, N_hw/2), Group1 carries [N_hw/2, N_hw).
type InputRing struct {
	nHw   int
	group [2]struct {
		real []*fifo.FIFO[float32]
		imag []*fifo.FIFO[float32]
	}
	written     int
	groupsReady bool
}

// NewInputRing builds a ring sized for nHw lanes, each lane's real/imag FIFO
// pair given the requested depth.
func NewInputRing(nHw, depth int) *InputRing {
	r := &InputRing{nHw: nHw}
	half := nHw / 2
	for g := 0; g < 2; g++ {
		r.group[g].real = make([]*fifo.FIFO[float32], half)
		r.group[g].imag = make([]*fifo.FIFO[float32], half)
		for i := 0; i < half; i++ {
			r.group[g].real[i] = fifo.New[float32](depth)
			r.group[g].imag[i] = fifo.New[float32](depth)
		}
	}
	return r
}

// WriteLane routes a complex sample into the FIFO pair addressed by its
// global lane index i in [0, N_hw).
func (r *InputRing) WriteLane(i int, c scalar.Complex) error {
	half := r.nHw / 2
	group, local := 0, i
	if i >= half {
		group, local = 1, i-half
	}
	if err := r.group[group].real[local].Push(c.Re); err != nil {
		return err
	}
	if err := r.group[group].imag[local].Push(c.Im); err != nil {
		return err
	}
	r.written++
	if r.written == r.nHw {
		r.groupsReady = true
	}
	return nil
}

// GroupsReady reports whether the ring has received a full frame's worth of
// writes and is ready to serve ReadPair.
func (r *InputRing) GroupsReady() bool {
	return r.groupsReady
}

// ReadPair exposes two N_hw/2-wide complex vectors, one per lane group, in
// natural index order within each group. It falls when a read has consumed
// the ring's contents.
func (r *InputRing) ReadPair() (group0, group1 []scalar.Complex, ok bool) {
	if !r.groupsReady {
		return nil, nil, false
	}
	half := r.nHw / 2
	out := [2][]scalar.Complex{make([]scalar.Complex, half), make([]scalar.Complex, half)}
	for g := 0; g < 2; g++ {
		for i := 0; i < half; i++ {
			re, reOK := r.group[g].real[i].Pop()
			im, imOK := r.group[g].imag[i].Pop()
			if !reOK || !imOK {
				return nil, nil, false
			}
			out[g][i] = scalar.Complex{Re: re, Im: im}
		}
	}
	r.written = 0
	r.groupsReady = false
	return out[0], out[1], true
}

// Reset empties every FIFO in the ring and clears the ready flag.
func (r *InputRing) Reset() {
	half := r.nHw / 2
	for g := 0; g < 2; g++ {
		for i := 0; i < half; i++ {
			r.group[g].real[i].Reset()
			r.group[g].imag[i].Reset()
		}
	}
	r.written = 0
	r.groupsReady = false
}
