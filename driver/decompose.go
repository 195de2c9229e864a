package driver

import (
	"fmt"

	"github.com/vectorlane/fftaccel/scalar"
)

// ChooseFactors picks N1, N2 such that N1*N2 == m, both powers of two,
// both <= nHw, preferring the largest N1 <= nHw that divides m evenly.
// Grounded on original_source's analyze_decomposition_strategy level-1
// search (scan n1 from base_n down to 2, accept the first n2 = m/n1 that
// also fits within base_n); this driver only implements that single
// level since SPEC_FULL's 2D decomposition is bounded by M <= N_hw^2.
func ChooseFactors(m, nHw int) (n1, n2 int, err error) {
	if m <= nHw {
		return 0, 0, fmt.Errorf("driver: ChooseFactors called for m=%d <= N_hw=%d, single pass suffices", m, nHw)
	}
	for cand := nHw; cand >= 2; cand >>= 1 {
		if m%cand != 0 {
			continue
		}
		other := m / cand
		if other <= nHw && other&(other-1) == 0 {
			return cand, other, nil
		}
	}
	return 0, 0, fmt.Errorf("driver: no factor pair <= N_hw=%d found for m=%d", nHw, m)
}

// RotationFactors returns the N2xN1 twiddle-compensation matrix
// W_M^(k2*n1) used by the 2D decomposition's compensation step, stored
// row-major (k2-major, n1-minor) to match how RunFrame2D indexes it.
func RotationFactors(n1, n2 int) []scalar.Complex {
	m := n1 * n2
	out := make([]scalar.Complex, n1*n2)
	for k2 := 0; k2 < n2; k2++ {
		for n1i := 0; n1i < n1; n1i++ {
			out[k2*n1+n1i] = scalar.Twiddle(m, (k2*n1i)%m)
		}
	}
	return out
}
