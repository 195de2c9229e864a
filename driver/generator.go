package driver

import (
	"math/rand"

	"github.com/vectorlane/fftaccel/scalar"
)

// Generator produces an n-length complex input sequence. All generators
// share this signature so the driver can swap the stimulus without
// touching the frame lifecycle, matching the teacher's habit of keeping
// region-specific tables (emu/region.go's timing table) behind a single
// lookup function rather than branching at every call site.
type Generator func(n int) []scalar.Complex

// Sequential is the reference generator: x[n] = (start+n) + j(start+n).
func Sequential(start int) Generator {
	return func(n int) []scalar.Complex {
		out := make([]scalar.Complex, n)
		for i := 0; i < n; i++ {
			v := float32(start + i)
			out[i] = scalar.Complex{Re: v, Im: v}
		}
		return out
	}
}

// RandomSeeded produces a deterministic pseudo-random sequence from seed,
// uniform on [-1, 1) per component.
func RandomSeeded(seed int64) Generator {
	return func(n int) []scalar.Complex {
		r := rand.New(rand.NewSource(seed))
		out := make([]scalar.Complex, n)
		for i := 0; i < n; i++ {
			out[i] = scalar.Complex{
				Re: r.Float32()*2 - 1,
				Im: r.Float32()*2 - 1,
			}
		}
		return out
	}
}

// UnitImpulse produces x[n] = delta[n-p].
func UnitImpulse(p int) Generator {
	return func(n int) []scalar.Complex {
		out := make([]scalar.Complex, n)
		if p >= 0 && p < n {
			out[p] = scalar.Complex{Re: 1, Im: 0}
		}
		return out
	}
}

// Ones produces x[n] = 1+0j for every n.
func Ones() Generator {
	return func(n int) []scalar.Complex {
		out := make([]scalar.Complex, n)
		for i := range out {
			out[i] = scalar.Complex{Re: 1, Im: 0}
		}
		return out
	}
}

// Zeros produces the all-zero sequence.
func Zeros() Generator {
	return func(n int) []scalar.Complex {
		return make([]scalar.Complex, n)
	}
}
