// Package scalar implements the complex float32 arithmetic shared by every
// stage of the FFT fabric: butterfly adds/subtracts, twiddle multiplies,
// conjugation, and the right-shift scaling a PE applies to its outputs.
package scalar

import "math"

// Complex is a float pair (re, im), traced and compared the way hardware
// registers are: explicit fields, exact or tolerance-bounded equality, no
// operator overloading magic.
type Complex struct {
	Re float32
	Im float32
}

// Zero is the additive identity, also the ring's zero-pad value.
var Zero = Complex{}

// Add implements the butterfly sum y0 = a + b.
func (c Complex) Add(o Complex) Complex {
	return Complex{Re: c.Re + o.Re, Im: c.Im + o.Im}
}

// Sub implements the butterfly difference operand a - b.
func (c Complex) Sub(o Complex) Complex {
	return Complex{Re: c.Re - o.Re, Im: c.Im - o.Im}
}

// Mul implements the twiddle multiply y1 = (a-b) * w.
func (c Complex) Mul(o Complex) Complex {
	return Complex{
		Re: c.Re*o.Re - c.Im*o.Im,
		Im: c.Re*o.Im + c.Im*o.Re,
	}
}

// ScalarMul multiplies both components by a real scalar.
func (c Complex) ScalarMul(s float32) Complex {
	return Complex{Re: c.Re * s, Im: c.Im * s}
}

// Conj returns the conjugate, used when a PE's FFT-conjugate control is
// asserted before the twiddle multiply.
func (c Complex) Conj() Complex {
	return Complex{Re: c.Re, Im: -c.Im}
}

// Shift divides both components by 2^k, the PE's output scaling control.
// k == 0 is a no-op.
func (c Complex) Shift(k int) Complex {
	if k == 0 {
		return c
	}
	scale := float32(1.0 / math.Pow(2, float64(k)))
	return c.ScalarMul(scale)
}

// Equal is exact component-wise equality.
func (c Complex) Equal(o Complex) bool {
	return c.Re == o.Re && c.Im == o.Im
}

// ApproxEqual reports whether both components differ from o by less than
// tol, the absolute tolerance spec.md §6 fixes at 0.1 for a passing frame.
func (c Complex) ApproxEqual(o Complex, tol float32) bool {
	return absf(c.Re-o.Re) < tol && absf(c.Im-o.Im) < tol
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// Twiddle returns W_n^k = exp(-j*2*pi*k/n).
func Twiddle(n, k int) Complex {
	angle := -2 * math.Pi * float64(k) / float64(n)
	s, c := math.Sincos(angle)
	return Complex{Re: float32(c), Im: float32(s)}
}
