package driver

import "github.com/vectorlane/fftaccel/scalar"

// ReferenceDFT computes the textbook O(N^2) DFT used as ground truth for
// verification: y[k] = sum_n x[n] * W_N^(n*k).
func ReferenceDFT(x []scalar.Complex) []scalar.Complex {
	n := len(x)
	y := make([]scalar.Complex, n)
	for k := 0; k < n; k++ {
		acc := scalar.Zero
		for t := 0; t < n; t++ {
			acc = acc.Add(x[t].Mul(scalar.Twiddle(n, (t*k)%n)))
		}
		y[k] = acc
	}
	return y
}

// Deinterleave transforms the fabric's bit-reversed natural-order
// convention into true natural order: for i in [0, n/2), out[i] =
// fft[2i] and out[i+n/2] = fft[2i+1]. Grounded on original_source's
// verifier, which performs exactly this de-interleave before comparing
// against the reference DFT.
func Deinterleave(fft []scalar.Complex) []scalar.Complex {
	n := len(fft)
	out := make([]scalar.Complex, n)
	half := n / 2
	for i := 0; i < half; i++ {
		out[i] = fft[2*i]
		out[i+half] = fft[2*i+1]
	}
	return out
}
