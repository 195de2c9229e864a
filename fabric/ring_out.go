package fabric

import (
	"github.com/vectorlane/fftaccel/fifo"
	"github.com/vectorlane/fftaccel/scalar"
)

// OutputRing holds N_hw real FIFOs and N_hw imaginary FIFOs fed by the
// final PE row's Y0/Y1 pair outputs. Readout for a bypassed (N_real <
// N_hw) configuration follows the stride/modulo addressing derived from
// the per-PE write formulas in original_source's out_buf_vec_fft.h: for
// stride = N_hw/N_real and output index m, the real part lives at lane
// (m/2)*(2*stride) + m%2 and the imaginary part at lane
// (lane + N_hw/2) % N_hw.
type OutputRing struct {
	nHw  int
	real []*fifo.FIFO[float32]
	imag []*fifo.FIFO[float32]
}

// NewOutputRing builds a ring sized for nHw lanes, each with the given FIFO
// depth.
func NewOutputRing(nHw, depth int) *OutputRing {
	r := &OutputRing{
		nHw:  nHw,
		real: make([]*fifo.FIFO[float32], nHw),
		imag: make([]*fifo.FIFO[float32], nHw),
	}
	for i := 0; i < nHw; i++ {
		r.real[i] = fifo.New[float32](depth)
		r.imag[i] = fifo.New[float32](depth)
	}
	return r
}

// WritePair commits one PE row's per-lane Y0/Y1 outputs into the ring. y0
// and y1 are each N_hw/2 wide; lane p's Y0 real part lands in real FIFO 2p
// and its Y1 real part in real FIFO 2p+1, and each imaginary part lands in
// the imaginary FIFO N_hw/2 further on (mod N_hw), per spec.md §4.3.
func (r *OutputRing) WritePair(y0, y1 []scalar.Complex) error {
	half := r.nHw / 2
	for p := 0; p < half; p++ {
		if err := r.real[2*p].Push(y0[p].Re); err != nil {
			return err
		}
		if err := r.imag[(2*p+half)%r.nHw].Push(y0[p].Im); err != nil {
			return err
		}
		if err := r.real[2*p+1].Push(y1[p].Re); err != nil {
			return err
		}
		if err := r.imag[(2*p+1+half)%r.nHw].Push(y1[p].Im); err != nil {
			return err
		}
	}
	return nil
}

// ReadOutput drains nReal complex samples from the ring using the
// stride/modulo extraction formula for a (possibly bypassed) transform
// of size nReal <= N_hw. After a successful extraction the lanes it did
// not read are emptied too, so nothing carries over into the next frame.
func (r *OutputRing) ReadOutput(nReal int) ([]scalar.Complex, bool) {
	stride := r.nHw / nReal
	half := r.nHw / 2
	out := make([]scalar.Complex, nReal)
	for m := 0; m < nReal; m++ {
		lane := (m/2)*(2*stride) + m%2
		re, reOK := r.real[lane].Pop()
		im, imOK := r.imag[(lane+half)%r.nHw].Pop()
		if !reOK || !imOK {
			return nil, false
		}
		out[m] = scalar.Complex{Re: re, Im: im}
	}
	r.Reset()
	return out, true
}

// Reset empties every FIFO in the ring.
func (r *OutputRing) Reset() {
	for i := 0; i < r.nHw; i++ {
		r.real[i].Reset()
		r.imag[i].Reset()
	}
}
