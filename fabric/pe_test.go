package fabric

import (
	"testing"

	"github.com/vectorlane/fftaccel/scalar"
)

func TestPE_ButterflyMode(t *testing.T) {
	pe := &PE{Mode: ModeFFT}
	pe.LoadTwiddle(scalar.Complex{Re: 1, Im: 0}) // W=1

	a := scalar.Complex{Re: 3, Im: 1}
	b := scalar.Complex{Re: 1, Im: 1}
	y0, y1 := pe.Compute(a, b, scalar.Zero)

	if want := (scalar.Complex{Re: 4, Im: 2}); y0 != want {
		t.Errorf("y0: got %+v, want %+v", y0, want)
	}
	if want := (scalar.Complex{Re: 2, Im: 0}); y1 != want {
		t.Errorf("y1: got %+v, want %+v", y1, want)
	}
}

func TestPE_ButterflyModeWithScaleAndConjugate(t *testing.T) {
	pe := &PE{Mode: ModeFFT, Scale: 1, Conjugate: true}
	pe.LoadTwiddle(scalar.Complex{Re: 0, Im: 1}) // conj -> (0,-1)

	a := scalar.Complex{Re: 4, Im: 0}
	b := scalar.Complex{Re: 2, Im: 0}
	y0, y1 := pe.Compute(a, b, scalar.Zero)

	if want := (scalar.Complex{Re: 3, Im: 0}); y0 != want {
		t.Errorf("y0 (scaled sum): got %+v, want %+v", y0, want)
	}
	// (a-b)=(2,0); *(0,-1) = (0,-2); scaled by 2^-1 = (0,-1)
	if want := (scalar.Complex{Re: 0, Im: -1}); y1 != want {
		t.Errorf("y1 (scaled, conjugated twiddle): got %+v, want %+v", y1, want)
	}
}

func TestPE_GEMMMode(t *testing.T) {
	pe := &PE{Mode: ModeGEMM}
	pe.LoadTwiddle(scalar.Complex{Re: 2, Im: 0})

	a := scalar.Complex{Re: 3, Im: 1}
	cIn := scalar.Complex{Re: 1, Im: 1}
	c, fwd := pe.Compute(a, scalar.Zero, cIn)

	if want := (scalar.Complex{Re: 7, Im: 3}); c != want {
		t.Errorf("accumulated c: got %+v, want %+v", c, want)
	}
	if fwd != a {
		t.Errorf("forwarded operand: got %+v, want %+v", fwd, a)
	}
}

func TestPE_BypassDominatesMode(t *testing.T) {
	pe := &PE{Mode: ModeFFT, Bypass: true}
	pe.LoadTwiddle(scalar.Complex{Re: 99, Im: 99})

	a := scalar.Complex{Re: 1, Im: 2}
	b := scalar.Complex{Re: 3, Im: 4}
	y0, y1 := pe.Compute(a, b, scalar.Zero)

	if y0 != a || y1 != b {
		t.Errorf("bypass must forward operands unchanged: got y0=%+v y1=%+v", y0, y1)
	}
}
