package fabric

import "github.com/vectorlane/fftaccel/scalar"

// ShuffleStage permutes one PE row's (y0, y1) outputs into the next row's
// (a, b) operand pairs. It is parameterised by the raw hardware stage
// index s (not the bypass-adjusted active index), since the permutation
// is a fixed property of the wiring, independent of which stages are
// currently bypassed.
type ShuffleStage struct {
	nHw   int
	stage int
}

// NewShuffleStage builds the shuffle sitting between hardware stage s and
// s+1, in a fabric with nHw lanes.
func NewShuffleStage(nHw, stage int) *ShuffleStage {
	return &ShuffleStage{nHw: nHw, stage: stage}
}

// Permute implements spec.md §4.5's forward-DIF routing: half = N_hw/4,
// stride = N_hw >> (s+2), i = (p/stride)*(2*stride) + (p mod stride). The
// y0/y1 half each split into half/stride blocks of width 2*stride; within
// a block the first stride entries feed a and the last stride feed b, so
// i and i+stride stay inside [0, len(y0)) for every block. In GEMM mode
// the shuffle degenerates to the identity map.
func (s *ShuffleStage) Permute(y0, y1 []scalar.Complex, gemm bool) (a, b []scalar.Complex) {
	half := len(y0)
	a = make([]scalar.Complex, half)
	b = make([]scalar.Complex, half)
	if gemm {
		copy(a, y0)
		copy(b, y1)
		return a, b
	}
	quarter := s.nHw / 4
	stride := s.nHw >> uint(s.stage+2)
	for p := 0; p < quarter; p++ {
		i := (p/stride)*(2*stride) + p%stride
		a[p] = y0[i]
		b[p] = y0[i+stride]
		a[p+quarter] = y1[i]
		b[p+quarter] = y1[i+stride]
	}
	return a, b
}
